package model

import "time"

// Tour mirrors the 'tours' table. Availability is never stored; it is
// derived from max capacity and the people counts of reservations.
type Tour struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	RouteInfo   string    `json:"route_info"`
	BoatName    string    `json:"boat_name,omitempty"`
	StartTime   time.Time `json:"start_time"`
	MaxCapacity int       `json:"max_capacity"`
	PriceCents  int64     `json:"price_cents"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AvailableCapacity returns the remaining seats on a tour given how many
// people are already reserved. Oversold tours report zero rather than a
// negative count.
func AvailableCapacity(maxCapacity, reserved int) int {
	if reserved >= maxCapacity {
		return 0
	}
	return maxCapacity - reserved
}
