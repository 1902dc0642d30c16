package credentials

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/destrangis/odre/internal/auth"
	"github.com/destrangis/odre/internal/db"
)

var ErrAlreadyRegistered = errors.New("credentials already exist")

// Service is the postgres-backed user directory. It implements
// auth.Verifier for the login flow and supports registration.
type Service struct {
	db *db.DB
}

func NewService(db *db.DB) *Service {
	return &Service{db: db}
}

// Register finds or creates the user and stores its bcrypt credential.
func (s *Service) Register(
	ctx context.Context,
	username string,
	password string,
) (string, error) {

	var userID uuid.UUID

	// 1. Find or create user by username
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM users
		WHERE LOWER(username) = LOWER($1)
	`, username).Scan(&userID)

	if err == sql.ErrNoRows {
		err = s.db.QueryRowContext(ctx, `
			INSERT INTO users (username)
			VALUES ($1)
			RETURNING id
		`, username).Scan(&userID)
	}

	if err != nil {
		return "", err
	}

	// 2. Check if credentials already exist
	var exists bool
	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM credentials WHERE user_id = $1
		)
	`, userID).Scan(&exists)

	if err != nil {
		return "", err
	}

	if exists {
		return "", ErrAlreadyRegistered
	}

	// 3. Hash password
	hash, version, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	// 4. Insert credentials
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO credentials (user_id, password_hash, hash_version)
		VALUES ($1, $2, $3)
	`, userID, hash, version)

	if err != nil {
		return "", err
	}

	return userID.String(), nil
}

// Verify checks username/password and returns the canonical identity.
// Every failure path collapses to auth.ErrInvalidCredentials so callers
// never learn whether the username exists.
func (s *Service) Verify(
	ctx context.Context,
	username string,
	password string,
) (*auth.Identity, error) {

	var (
		userID       uuid.UUID
		canonical    string
		passwordHash string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, c.password_hash
		FROM users u
		JOIN credentials c ON c.user_id = u.id
		WHERE LOWER(u.username) = LOWER($1)
	`, username).Scan(&userID, &canonical, &passwordHash)

	if err != nil {
		// hide whether the user exists or not
		return nil, auth.ErrInvalidCredentials
	}

	if err := VerifyPassword(passwordHash, password); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	return &auth.Identity{
		UserID:   userID.String(),
		Username: canonical,
	}, nil
}
