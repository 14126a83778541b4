package domain

import "time"

// PriceTier prices a passenger-count range as a flat amount for the whole
// group. Ranges are inclusive on both ends.
type PriceTier struct {
	MinPassengers int   `json:"min_passengers"`
	MaxPassengers int   `json:"max_passengers"`
	Price         int64 `json:"price"`
}

// Experience is a curated flight (volcano overflight, lake sunset and so on)
// sold per seat or per tier.
type Experience struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	BasePrice       int64       `json:"base_price"`
	MinPassengers   int         `json:"min_passengers"`
	MaxPassengers   int         `json:"max_passengers"`
	DurationMinutes int         `json:"duration_minutes"`
	Tiers           []PriceTier `json:"tiers,omitempty"`
	Active          bool        `json:"active"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
