package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/diggibyte/lastmile-user/internal/models"
)

var ErrInvalidCredentials = errors.New("auth: invalid username or password")

// UserSource looks a user up by username. Returns (nil, nil) when the
// username is unknown.
type UserSource interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Verifier checks login credentials. The password check can be switched
// off through config; that mode exists for demo environments only and is
// logged loudly on every use.
type Verifier struct {
	users  UserSource
	verify bool
}

func NewVerifier(users UserSource, verify bool) *Verifier {
	return &Verifier{users: users, verify: verify}
}

// Login returns the canonical username on success.
func (v *Verifier) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	if !v.verify {
		slog.Warn("password verification is disabled, accepting login", "username", username)
		return username, nil
	}

	u, err := v.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", errors.Wrap(err, "lookup user")
	}
	if u == nil {
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return u.Username, nil
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(b), nil
}
