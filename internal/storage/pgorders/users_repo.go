package pgorders

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/diggibyte/lastmile-user/internal/models"
)

// GetUserByUsername returns (nil, nil) for an unknown username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx, `
SELECT id, username, password_hash
FROM users
WHERE username = $1
`, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select user")
	}
	return &u, nil
}

func (s *Storage) CreateUser(ctx context.Context, username, passwordHash string) error {
	_, err := s.db.Exec(ctx, `
INSERT INTO users (username, password_hash)
VALUES ($1, $2)
ON CONFLICT (username) DO NOTHING
`, username, passwordHash)
	return errors.Wrap(err, "insert user")
}
