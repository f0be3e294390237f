package models

import "time"

// Normalized order statuses as they appear in the store.
const (
	OrderStatusPlaced      = "Placed"
	OrderStatusOrderPlaced = "Order Placed"
	OrderStatusInTransit   = "In Transit"
	OrderStatusDelivered   = "Delivered"
)

type Order struct {
	ID         string
	PlacedDate time.Time
	Status     string
	Total      float64

	OriginLat float64
	OriginLon float64
	DestLat   float64
	DestLon   float64

	CreatedAt time.Time
}

type ShipmentEvent struct {
	ID               uint64
	OrderID          string
	ShippingID       string
	Status           string
	ActualEventTS    *time.Time
	EstimatedEventTS *time.Time
	Notes            *string
	CityLocation     *string
	Longitude        *float64
	Latitude         *float64
	CreatedAt        time.Time
}

type User struct {
	ID           uint64
	Username     string
	PasswordHash string
}
