package pgorders

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/diggibyte/lastmile-user/internal/auth"
	"github.com/diggibyte/lastmile-user/internal/models"
)

// DemoUsername is the login created by SeedDemo on an empty users table.
const (
	DemoUsername = "Amit"
	demoPassword = "Amit123!"
)

// SeedDemo inserts a default user, demo orders and their timelines when
// the respective tables are empty. Idempotent; intended for local setups
// only.
func (s *Storage) SeedDemo(ctx context.Context) error {
	var users int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&users); err != nil {
		return errors.Wrap(err, "count users")
	}
	if users == 0 {
		hash, err := auth.HashPassword(demoPassword)
		if err != nil {
			return err
		}
		if err := s.CreateUser(ctx, DemoUsername, hash); err != nil {
			return err
		}
	}

	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return errors.Wrap(err, "count orders")
	}
	if count > 0 {
		return nil
	}

	type demoOrder struct {
		id        string
		placed    string
		status    string
		total     float64
		originLat float64
		originLon float64
		destLat   float64
		destLon   float64
	}
	orders := []demoOrder{
		{"ORD-1001", "2025-01-10", models.OrderStatusInTransit, 23400.00, 34.0522, -118.2437, 40.7128, -74.0060},
		{"ORD-1002", "2025-01-12", models.OrderStatusDelivered, 18500.00, 33.4484, -112.0740, 34.0522, -118.2437},
		{"ORD-1003", "2025-01-15", models.OrderStatusPlaced, 4300.00, 34.0522, -118.2437, 36.1699, -115.1398},
	}
	for _, o := range orders {
		placed, err := time.Parse("2006-01-02", o.placed)
		if err != nil {
			return errors.Wrap(err, "parse seed date")
		}
		_, err = s.db.Exec(ctx, `
INSERT INTO orders (id, placed_date, status, total, origin_lat, origin_lon, dest_lat, dest_lon)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO NOTHING
`, o.id, placed, o.status, o.total, o.originLat, o.originLon, o.destLat, o.destLon)
		if err != nil {
			return errors.Wrap(err, "seed order")
		}
	}

	placedTS := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	ev := &models.ShipmentEvent{
		OrderID:          "ORD-1001",
		ShippingID:       "SHIP-1001-01",
		Status:           "ORDER_PLACED",
		EstimatedEventTS: &placedTS,
		Notes:            strPtr("Order placed and shipment planning initiated"),
		CityLocation:     strPtr("Los Angeles, CA"),
		Longitude:        f64Ptr(-118.2437),
		Latitude:         f64Ptr(34.0522),
	}
	if err := s.UpsertEvent(ctx, ev); err != nil {
		return err
	}

	return nil
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
