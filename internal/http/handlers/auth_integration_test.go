package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"github.com/savetogether/backend/internal/auth"
	"github.com/savetogether/backend/internal/service"
	"github.com/savetogether/backend/internal/storage/postgres"
)

// TestAuthIntegration exercises register/login against a live Postgres.
func TestAuthIntegration(t *testing.T) {
	if os.Getenv("RUN_PG_INTEGRATION") != "true" {
		t.Skip("set RUN_PG_INTEGRATION=true to run this integration test")
	}

	_ = godotenv.Load("../../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := postgres.New(ctx, dbURL)
	require.NoError(t, err)
	defer store.Close()

	tokens := auth.NewTokenManager("integration-secret", "test", time.Hour)
	authService := service.NewAuthService(store, tokens, nil)

	r := chi.NewRouter()
	NewAuthHandler(authService).Register(r)

	ts := httptest.NewServer(r)
	defer ts.Close()

	username := fmt.Sprintf("apitest_%d", time.Now().UnixNano())
	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "integration-pass",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, envelope := doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", map[string]string{
		"identifier": username,
		"password":   "integration-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	login := dataField[struct {
		Token string `json:"token"`
	}](t, envelope)
	require.NotEmpty(t, login.Token)

	claims, err := tokens.Validate(login.Token)
	require.NoError(t, err)
	_, err = claims.UserID()
	require.NoError(t, err)
}
