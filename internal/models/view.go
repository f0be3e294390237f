package models

// TrafficEstimate is computed per request and never persisted.
// Durations are minutes, rounded to one decimal.
type TrafficEstimate struct {
	TypicalMin     float64 `json:"duration_typical_min"`
	WithTrafficMin float64 `json:"duration_with_traffic_min"`
	DelayMin       float64 `json:"traffic_delay_min"`
}

// EventView is a shipment event with every value reduced to a
// JSON-safe primitive (timestamps as RFC3339 strings, numerics as floats).
type EventView struct {
	ID               uint64   `json:"id"`
	OrderID          string   `json:"order_id"`
	ShippingID       string   `json:"shipping_id"`
	Status           string   `json:"status"`
	ActualEventTS    string   `json:"actual_event_ts,omitempty"`
	EstimatedEventTS string   `json:"estimated_event_ts,omitempty"`
	Notes            string   `json:"notes,omitempty"`
	CityLocation     string   `json:"city_location,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
}

type OrderView struct {
	ID            string  `json:"id"`
	PlacedDate    string  `json:"placed_date"`
	Status        string  `json:"status"`
	Total         float64 `json:"total"`
	EstimatedETA  string  `json:"estimated_eta"`
	ETAConfidence string  `json:"eta_confidence"`

	Events  []EventView      `json:"events"`
	Traffic *TrafficEstimate `json:"traffic,omitempty"`
}

type Product struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
	InStock  bool   `json:"in_stock"`
	Image    string `json:"image,omitempty"`
}

type Recommendation struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    string  `json:"price"`
	Rating   float64 `json:"rating"`
}
