package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"route-api/internal/storage"
	"route-api/internal/storage/procedure"
)

// Authenticate checks the password against the stored bcrypt hash and
// returns the user id. Unknown users and wrong passwords look the same.
func (s *Storage) Authenticate(ctx context.Context, username, password string) (int64, error) {
	const op = "storage.sqlstore.Authenticate"

	cur, err := s.inv.Query(ctx, procedure.Call{
		Procedure: "sp_User_GetCredentials",
		Args:      []any{username},
		Fallback:  "SELECT id, passwordHash FROM Users WHERE username = ? AND isActive = 1",
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	creds, err := procedure.One[storage.Credentials](cur)
	if procedure.IsNoRows(err) {
		return 0, fmt.Errorf("%s: %w", op, storage.ErrInvalidCredentials)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return 0, fmt.Errorf("%s: %w", op, storage.ErrInvalidCredentials)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return creds.ID, nil
}

// CreateUser stores a new login with a bcrypt hash of password.
func (s *Storage) CreateUser(ctx context.Context, username, password string, actor *int64) (int64, error) {
	const op = "storage.sqlstore.CreateUser"

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, fmt.Errorf("%s: %w", op, &storage.ValidationError{Problems: []string{"username and password are required"}})
	}

	clash, err := uniqueClash(ctx, s.inv, "Users", []string{"username"}, []any{username}, 0)
	if err != nil {
		return 0, fmt.Errorf("%s: check duplicate: %w", op, err)
	}
	if clash {
		return 0, fmt.Errorf("%s: user %q: %w", op, username, storage.ErrDuplicate)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("%s: hash password: %w", op, err)
	}

	res, err := s.inv.Exec(ctx, procedure.Call{
		Procedure: "sp_User_Create",
		Args:      []any{username, string(hash), actor},
		Commit:    true,
		Fallback: `INSERT INTO Users (username, passwordHash, isActive, CreatedBy, createdAt, updatedAt)
			VALUES (?, ?, 1, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: insert: %w", op, err)
	}

	id, err := insertedID(res)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}
