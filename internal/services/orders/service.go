package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/diggibyte/lastmile-user/internal/broker/messages"
	"github.com/diggibyte/lastmile-user/internal/cache"
	"github.com/diggibyte/lastmile-user/internal/models"
)

type Repository interface {
	ListOrders(ctx context.Context) ([]*models.Order, error)
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	ListEvents(ctx context.Context, orderID string) ([]*models.ShipmentEvent, error)
	UpsertEvent(ctx context.Context, e *models.ShipmentEvent) error
}

type TrafficClient interface {
	EstimateDelay(ctx context.Context, originLat, originLon, destLat, destLon float64) (models.TrafficEstimate, error)
}

type Service struct {
	repo       Repository
	traffic    TrafficClient
	cache      cache.BytesCache
	images     *ImageDir
	trafficTTL time.Duration
}

func New(repo Repository, traffic TrafficClient, c cache.BytesCache, images *ImageDir, trafficTTL time.Duration) *Service {
	return &Service{repo: repo, traffic: traffic, cache: c, images: images, trafficTTL: trafficTTL}
}

func (s *Service) ListOrders(ctx context.Context) ([]*models.Order, error) {
	out, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return out, nil
}

// OrderDetails loads one order with its timeline and assembles the view.
// A failed traffic lookup degrades to a view without an estimate; a failed
// order or event query propagates to the caller.
func (s *Service) OrderDetails(ctx context.Context, orderID string) (*models.OrderView, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	events, err := s.repo.ListEvents(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "list events")
	}

	var traffic *models.TrafficEstimate
	if s.traffic != nil && hasRoute(order) {
		est, err := s.estimateDelay(ctx, order)
		if err != nil {
			slog.Error("traffic lookup failed, rendering without estimate",
				"order_id", orderID, "err", err)
		} else {
			traffic = est
		}
	}

	view := AssembleOrderView(order, events, traffic)
	return &view, nil
}

// estimateDelay is cache-first: routes repeat across requests and the
// upstream charges per call.
func (s *Service) estimateDelay(ctx context.Context, order *models.Order) (*models.TrafficEstimate, error) {
	key := trafficKey(order)

	if s.cache != nil && s.trafficTTL > 0 {
		if b, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var est models.TrafficEstimate
			if json.Unmarshal(b, &est) == nil {
				return &est, nil
			}
		}
	}

	est, err := s.traffic.EstimateDelay(ctx, order.OriginLat, order.OriginLon, order.DestLat, order.DestLon)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.trafficTTL > 0 {
		b, _ := json.Marshal(est)
		_ = s.cache.Set(ctx, key, b, s.trafficTTL)
	}
	return &est, nil
}

// ApplyEventUpdate ingests a shipment event published by a fulfillment
// system.
func (s *Service) ApplyEventUpdate(ctx context.Context, msg messages.ShipmentEventUpdated) error {
	if msg.OrderID == "" {
		return errors.New("order_id is required")
	}
	if msg.ShippingID == "" {
		return errors.New("shipping_id is required")
	}
	if msg.Status == "" {
		return errors.New("status is required")
	}

	return s.repo.UpsertEvent(ctx, &models.ShipmentEvent{
		OrderID:          msg.OrderID,
		ShippingID:       msg.ShippingID,
		Status:           msg.Status,
		ActualEventTS:    msg.ActualEventTS,
		EstimatedEventTS: msg.EstimatedEventTS,
		Notes:            msg.Notes,
		CityLocation:     msg.CityLocation,
		Longitude:        msg.Longitude,
		Latitude:         msg.Latitude,
	})
}

func (s *Service) ResolveProductImage(productID string) string {
	if s.images == nil {
		return ""
	}
	return s.images.Resolve(productID)
}

func hasRoute(o *models.Order) bool {
	return !(o.OriginLat == 0 && o.OriginLon == 0 && o.DestLat == 0 && o.DestLon == 0)
}

func trafficKey(o *models.Order) string {
	return fmt.Sprintf("traffic:%.4f,%.4f:%.4f,%.4f", o.OriginLat, o.OriginLon, o.DestLat, o.DestLon)
}
