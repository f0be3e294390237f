package pgorders

import (
	"context"

	"github.com/pkg/errors"
)

func (s *Storage) initSchema(ctx context.Context) error {
	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS users (
  id BIGSERIAL PRIMARY KEY,
  username TEXT UNIQUE NOT NULL,
  password_hash TEXT NOT NULL
)`,
		`
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  placed_date DATE NOT NULL,
  status TEXT NOT NULL,
  total NUMERIC(12,2) NOT NULL DEFAULT 0,
  origin_lat DOUBLE PRECISION NOT NULL DEFAULT 0,
  origin_lon DOUBLE PRECISION NOT NULL DEFAULT 0,
  dest_lat DOUBLE PRECISION NOT NULL DEFAULT 0,
  dest_lon DOUBLE PRECISION NOT NULL DEFAULT 0,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		// The legacy sqlite schema declared order_id and shipping_id UNIQUE,
		// which caps every order at one timeline event. The timeline UI
		// assumes many events per order, so here they are plain columns
		// with a dedup index instead.
		`
CREATE TABLE IF NOT EXISTS events (
  id BIGSERIAL PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  shipping_id TEXT NOT NULL,
  status TEXT NOT NULL,
  actual_event_ts TIMESTAMPTZ NULL,
  estimated_event_ts TIMESTAMPTZ NULL,
  notes TEXT NULL,
  city_location TEXT NULL,
  longitude DOUBLE PRECISION NULL,
  latitude DOUBLE PRECISION NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE INDEX IF NOT EXISTS idx_events_order_id_estimated ON events(order_id, estimated_event_ts)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_events_dedup ON events(order_id, shipping_id, status, COALESCE(estimated_event_ts, 'epoch'::timestamptz))`,
	}

	for _, q := range stmts {
		if _, err := s.db.Exec(ctx, q); err != nil {
			return errors.Wrap(err, "init schema")
		}
	}
	return nil
}
