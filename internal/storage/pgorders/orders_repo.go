package pgorders

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/diggibyte/lastmile-user/internal/models"
)

func (s *Storage) ListOrders(ctx context.Context) ([]*models.Order, error) {
	rows, err := s.db.Query(ctx, `
SELECT
  id, placed_date, status, total,
  origin_lat, origin_lon, dest_lat, dest_lon,
  created_at
FROM orders
ORDER BY placed_date DESC, id
`)
	if err != nil {
		return nil, errors.Wrap(err, "select orders")
	}
	defer rows.Close()

	var out []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func (s *Storage) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	row := s.db.QueryRow(ctx, `
SELECT
  id, placed_date, status, total,
  origin_lat, origin_lon, dest_lat, dest_lon,
  created_at
FROM orders
WHERE id = $1
`, orderID)

	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ListEvents returns the timeline oldest first, so the most recent event
// sits at the end of the slice.
func (s *Storage) ListEvents(ctx context.Context, orderID string) ([]*models.ShipmentEvent, error) {
	rows, err := s.db.Query(ctx, `
SELECT
  id, order_id, shipping_id, status,
  actual_event_ts, estimated_event_ts,
  notes, city_location, longitude, latitude,
  created_at
FROM events
WHERE order_id = $1
ORDER BY COALESCE(actual_event_ts, estimated_event_ts) ASC, id ASC
`, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "select events")
	}
	defer rows.Close()

	var out []*models.ShipmentEvent
	for rows.Next() {
		var e models.ShipmentEvent
		if err := rows.Scan(
			&e.ID, &e.OrderID, &e.ShippingID, &e.Status,
			&e.ActualEventTS, &e.EstimatedEventTS,
			&e.Notes, &e.CityLocation, &e.Longitude, &e.Latitude,
			&e.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		// Defensive: never hand back a row for a different order.
		if e.OrderID != orderID {
			continue
		}
		out = append(out, &e)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func (s *Storage) UpsertEvent(ctx context.Context, e *models.ShipmentEvent) error {
	_, err := s.db.Exec(ctx, `
INSERT INTO events (
  order_id, shipping_id, status,
  actual_event_ts, estimated_event_ts,
  notes, city_location, longitude, latitude,
  created_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, now())
ON CONFLICT (order_id, shipping_id, status, COALESCE(estimated_event_ts, 'epoch'::timestamptz))
DO UPDATE SET
  actual_event_ts = EXCLUDED.actual_event_ts,
  notes = EXCLUDED.notes,
  city_location = EXCLUDED.city_location,
  longitude = EXCLUDED.longitude,
  latitude = EXCLUDED.latitude
`, e.OrderID, e.ShippingID, e.Status,
		e.ActualEventTS, e.EstimatedEventTS,
		e.Notes, e.CityLocation, e.Longitude, e.Latitude)
	return errors.Wrap(err, "upsert event")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	if err := row.Scan(
		&o.ID, &o.PlacedDate, &o.Status, &o.Total,
		&o.OriginLat, &o.OriginLon, &o.DestLat, &o.DestLon,
		&o.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, errors.Wrap(err, "scan order")
	}
	return &o, nil
}
