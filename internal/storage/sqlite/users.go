package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/savetogether/backend/internal/models"
	"github.com/savetogether/backend/internal/storage"
)

const userColumns = `id, username, email, password_hash, is_premium,
	COALESCE(google_id, ''), COALESCE(google_email, ''), COALESCE(profile_picture, ''), created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (models.User, error) {
	var u models.User
	var createdAt int64
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsPremium,
		&u.GoogleID, &u.GoogleEmail, &u.ProfilePicture, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	u.CreatedAt = fromUnix(createdAt)
	return u, nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
	INSERT INTO users (username, email, password_hash, is_premium, google_id, google_email, profile_picture, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING ` + userColumns
	row := s.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.IsPremium,
		nullable(user.GoogleID), nullable(user.GoogleEmail), nullable(user.ProfilePicture),
		time.Now().Unix())
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
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

// FindByUsernameOrEmail fetches the first user matching the identifier as
// username or email.
func (s *Store) FindByUsernameOrEmail(ctx context.Context, identifier string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = ?1 OR email = ?1 LIMIT 1`
	return scanUser(s.db.QueryRowContext(ctx, query, identifier))
}

// FindByGoogleIDOrEmail fetches a user by Google subject ID, falling back
// to the email the provider reported.
func (s *Store) FindByGoogleIDOrEmail(ctx context.Context, googleID, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE google_id = ? OR email = ? LIMIT 1`
	return scanUser(s.db.QueryRowContext(ctx, query, googleID, email))
}

// UsernameTaken reports whether another user already holds the username.
func (s *Store) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE username = ? AND id <> ?)`
	var taken bool
	err := s.db.QueryRowContext(ctx, query, username, excludeID).Scan(&taken)
	return taken, err
}

// EmailTaken reports whether another user already holds the email.
func (s *Store) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE email = ? AND id <> ?)`
	var taken bool
	err := s.db.QueryRowContext(ctx, query, email, excludeID).Scan(&taken)
	return taken, err
}

// UpdateUserProfile rewrites the mutable profile fields.
func (s *Store) UpdateUserProfile(ctx context.Context, id int64, username, email, profilePicture string) (models.User, error) {
	const query = `
	UPDATE users SET username = ?, email = ?, profile_picture = COALESCE(?, profile_picture)
	WHERE id = ?
	RETURNING ` + userColumns
	row := s.db.QueryRowContext(ctx, query, username, email, nullable(profilePicture), id)
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
	res, err := s.db.ExecContext(ctx, `UPDATE users SET is_premium = ? WHERE id = ?`, premium, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// LinkGoogleAccount records the external identity on an existing user.
func (s *Store) LinkGoogleAccount(ctx context.Context, id int64, googleID, googleEmail, picture string) error {
	const query = `
	UPDATE users SET google_id = ?, google_email = ?,
		profile_picture = COALESCE(?, profile_picture)
	WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, nullable(googleID), nullable(googleEmail), nullable(picture), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
