package messages

import "time"

// ShipmentEventUpdated is published by fulfillment systems on the
// shipment.events topic and ingested into the events table.
type ShipmentEventUpdated struct {
	OrderID    string `json:"order_id"`
	ShippingID string `json:"shipping_id"`
	Status     string `json:"status"`

	ActualEventTS    *time.Time `json:"actual_event_ts,omitempty"`
	EstimatedEventTS *time.Time `json:"estimated_event_ts,omitempty"`

	Notes        *string  `json:"notes,omitempty"`
	CityLocation *string  `json:"city_location,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
}
