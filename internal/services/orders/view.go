package orders

import (
	"time"

	"github.com/diggibyte/lastmile-user/internal/models"
)

const etaUnknown = "TBD"

var statusConfidence = map[string]string{
	models.OrderStatusDelivered:   "Confirmed (100%)",
	models.OrderStatusInTransit:   "High (85%)",
	models.OrderStatusPlaced:      "Planned (70%)",
	models.OrderStatusOrderPlaced: "Planned (70%)",
}

const defaultConfidence = "Medium (60%)"

// AssembleOrderView shapes one order with its timeline into the structure
// the page consumes. Pure function, no side effects.
func AssembleOrderView(order *models.Order, events []*models.ShipmentEvent, traffic *models.TrafficEstimate) models.OrderView {
	rows := make([]models.EventView, 0, len(events))
	for _, e := range events {
		rows = append(rows, models.EventView{
			ID:               e.ID,
			OrderID:          e.OrderID,
			ShippingID:       e.ShippingID,
			Status:           e.Status,
			ActualEventTS:    serializeTS(e.ActualEventTS),
			EstimatedEventTS: serializeTS(e.EstimatedEventTS),
			Notes:            deref(e.Notes),
			CityLocation:     deref(e.CityLocation),
			Longitude:        e.Longitude,
			Latitude:         e.Latitude,
		})
	}

	return models.OrderView{
		ID:            order.ID,
		PlacedDate:    order.PlacedDate.Format("2006-01-02"),
		Status:        order.Status,
		Total:         order.Total,
		EstimatedETA:  EstimatedETA(rows),
		ETAConfidence: ETAConfidence(order.Status),
		Events:        rows,
		Traffic:       traffic,
	}
}

// EstimatedETA scans the timeline most-recent-first (rows arrive oldest
// first) and returns the first usable estimate. Upstream systems have been
// seen sending the literal string "null", so that is skipped too.
func EstimatedETA(rows []models.EventView) string {
	for i := len(rows) - 1; i >= 0; i-- {
		est := rows[i].EstimatedEventTS
		if est != "" && est != "null" {
			return est
		}
	}
	return etaUnknown
}

func ETAConfidence(status string) string {
	if c, ok := statusConfidence[status]; ok {
		return c
	}
	return defaultConfidence
}

func serializeTS(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
