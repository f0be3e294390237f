package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/diggibyte/lastmile-user/internal/cache"
	"github.com/pkg/errors"
)

// Session holds the logged-in username and nothing else.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store keeps sessions in the shared byte cache under a key prefix.
type Store struct {
	cache  cache.BytesCache
	prefix string
}

func NewStore(c cache.BytesCache) *Store {
	return &Store{cache: c, prefix: "session:"}
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) Create(ctx context.Context, sess Session) error {
	if sess.ID == "" || sess.Username == "" {
		return errors.New("session: missing id or username")
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session: expires_at must be in the future")
	}

	b, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "marshal session")
	}
	return s.cache.Set(ctx, s.key(sess.ID), b, ttl)
}

// Get returns (nil, nil) for an unknown or expired session.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	b, ok, err := s.cache.Get(ctx, s.key(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, errors.Wrap(err, "unmarshal session")
	}
	return &sess, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.cache.Del(ctx, s.key(id))
}

// NewID generates a 256-bit random session identifier.
func NewID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "session id")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
