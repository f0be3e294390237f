package pgorders

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

var (
	ErrMissingConnConfig = errors.New("pgorders: database host and name are required")
	ErrOrderNotFound     = errors.New("pgorders: order not found")
)

// TokenSource supplies the current database credential. The pool asks it
// on every new physical connection, never at pool construction time.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type ConnConfig struct {
	Host    string
	Port    int
	Name    string
	User    string
	SSLMode string
}

type Storage struct {
	db *pgxpool.Pool
}

// New builds the pooled connection factory. The DSN carries a placeholder
// password; BeforeConnect swaps in a fresh token for each connection.
func New(ctx context.Context, cc ConnConfig, creds TokenSource) (*Storage, error) {
	if cc.Host == "" || cc.Name == "" {
		return nil, ErrMissingConnConfig
	}
	if cc.Port == 0 {
		cc.Port = 5432
	}
	if cc.SSLMode == "" {
		cc.SSLMode = "require"
	}

	connString := fmt.Sprintf("postgres://%s:placeholder@%s:%d/%s?sslmode=%s",
		url.QueryEscape(cc.User), cc.Host, cc.Port, cc.Name, cc.SSLMode)

	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, errors.Wrap(err, "parse pg config")
	}

	cfg.MinConns = 2
	cfg.MaxConns = 15
	cfg.MaxConnLifetime = time.Hour
	cfg.HealthCheckPeriod = time.Minute
	cfg.BeforeConnect = func(ctx context.Context, connCfg *pgx.ConnConfig) error {
		tok, err := creds.Token(ctx)
		if err != nil {
			return errors.Wrap(err, "credential for connection")
		}
		connCfg.Password = tok
		return nil
	}

	db, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "connect pg")
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping pg")
	}

	s := &Storage{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Storage) Close() {
	if s.db != nil {
		s.db.Close()
	}
}
