package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/savetogether/backend/internal/models"
	"github.com/savetogether/backend/internal/storage"
)

const userColumns = `id, username, email, password_hash, is_premium,
	COALESCE(google_id, ''), COALESCE(google_email, ''), COALESCE(profile_picture, ''), created_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsPremium,
		&u.GoogleID, &u.GoogleEmail, &u.ProfilePicture, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// nullable maps "" to SQL NULL so partial unique indexes behave.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
	INSERT INTO users (username, email, password_hash, is_premium, google_id, google_email, profile_picture)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.IsPremium,
		nullable(user.GoogleID), nullable(user.GoogleEmail), nullable(user.ProfilePicture))
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// GetUser fetches a user by ID.
func (s *Store) GetUser(ctx context.Context, id int64) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// FindByUsernameOrEmail fetches the first user matching the identifier as
// username or email.
func (s *Store) FindByUsernameOrEmail(ctx context.Context, identifier string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1 LIMIT 1`
	return scanUser(s.pool.QueryRow(ctx, query, identifier))
}

// FindByGoogleIDOrEmail fetches a user by Google subject ID, falling back
// to the email the provider reported.
func (s *Store) FindByGoogleIDOrEmail(ctx context.Context, googleID, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE google_id = $1 OR email = $2 LIMIT 1`
	return scanUser(s.pool.QueryRow(ctx, query, googleID, email))
}

// UsernameTaken reports whether another user already holds the username.
func (s *Store) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND id <> $2)`
	var taken bool
	err := s.pool.QueryRow(ctx, query, username, excludeID).Scan(&taken)
	return taken, err
}

// EmailTaken reports whether another user already holds the email.
func (s *Store) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`
	var taken bool
	err := s.pool.QueryRow(ctx, query, email, excludeID).Scan(&taken)
	return taken, err
}

// UpdateUserProfile rewrites the mutable profile fields.
func (s *Store) UpdateUserProfile(ctx context.Context, id int64, username, email, profilePicture string) (models.User, error) {
	const query = `
	UPDATE users SET username = $2, email = $3, profile_picture = COALESCE($4, profile_picture)
	WHERE id = $1
	RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, id, username, email, nullable(profilePicture))
	updated, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return updated, nil
}

// SetUserPremium flips the premium flag.
func (s *Store) SetUserPremium(ctx context.Context, id int64, premium bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET is_premium = $2 WHERE id = $1`, id, premium)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// LinkGoogleAccount records the external identity on an existing user.
func (s *Store) LinkGoogleAccount(ctx context.Context, id int64, googleID, googleEmail, picture string) error {
	const query = `
	UPDATE users SET google_id = $2, google_email = $3,
		profile_picture = COALESCE($4, profile_picture)
	WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query, id, nullable(googleID), nullable(googleEmail), nullable(picture))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
