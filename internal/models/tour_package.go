package models

import (
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Destination is one stop of a package itinerary
type Destination struct {
	ID            string  `json:"id" db:"id"`
	TourPackageID string  `json:"-" db:"tour_package_id"`
	Name          string  `json:"name" db:"name"`
	Description   *string `json:"description,omitempty" db:"description"`
	Order         int     `json:"order" db:"sort_order"`
}

// TourPackage is a sellable tour product offered by an agent
type TourPackage struct {
	ID                    string         `json:"id" db:"id"`
	Title                 string         `json:"title" db:"title"`
	Description           string         `json:"description" db:"description"`
	LocationID            string         `json:"location_id" db:"location_id"`
	MinDays               int            `json:"min_days" db:"min_days"`
	MaxDays               int            `json:"max_days" db:"max_days"`
	PricePerPerson        int64          `json:"price_per_person" db:"price_per_person"`
	MaxCapacity           int            `json:"max_capacity" db:"max_capacity"`
	IncludesTransport     bool           `json:"includes_transport" db:"includes_transport"`
	IncludesAccommodation bool           `json:"includes_accommodation" db:"includes_accommodation"`
	Destinations          []Destination  `json:"destinations" db:"-"`
	AgentID               string         `json:"agent_id" db:"agent_id"`
	Rating                float64        `json:"rating" db:"rating"`
	TotalReviews          int            `json:"total_reviews" db:"total_reviews"`
	ThumbnailURL          *string        `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	Images                pq.StringArray `json:"images,omitempty" db:"images"`
	IsActive              bool           `json:"is_active" db:"is_active"`
	CreatedAt             time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at" db:"updated_at"`
}

// TourPackageResponse embeds the related rows the browser renders alongside a package
type TourPackageResponse struct {
	TourPackage
	Location     *Location      `json:"location,omitempty"`
	Agent        *Agent         `json:"agent,omitempty"`
	Availability []Availability `json:"availability"`
}

// DestinationInput is a destination as submitted by an agent
type DestinationInput struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
	Order       int     `json:"order" binding:"min=0"`
}

// CreateTourPackageRequest represents the agent's package form
type CreateTourPackageRequest struct {
	Title                 string             `json:"title"`
	Description           string             `json:"description"`
	LocationID            string             `json:"location_id"`
	MinDays               int                `json:"min_days" binding:"min=0"`
	MaxDays               int                `json:"max_days" binding:"min=0"`
	PricePerPerson        int64              `json:"price_per_person" binding:"min=0"`
	MaxCapacity           int                `json:"max_capacity"`
	IncludesTransport     bool               `json:"includes_transport"`
	IncludesAccommodation bool               `json:"includes_accommodation"`
	Destinations          []DestinationInput `json:"destinations" binding:"dive"`
	ThumbnailURL          *string            `json:"thumbnail_url,omitempty"`
	Images                []string           `json:"images,omitempty"`
}

// Validate checks the package invariants
func (r *CreateTourPackageRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return NewValidationError("title is required")
	}
	if strings.TrimSpace(r.LocationID) == "" {
		return NewValidationError("location_id is required")
	}
	if r.MinDays < 1 {
		return NewValidationError("min_days must be at least 1")
	}
	if r.MinDays > r.MaxDays {
		return NewValidationError("min_days (%d) cannot exceed max_days (%d)", r.MinDays, r.MaxDays)
	}
	if r.MaxCapacity < 1 {
		return NewValidationError("max_capacity must be at least 1")
	}
	if r.PricePerPerson < 0 {
		return NewValidationError("price_per_person cannot be negative")
	}
	return r.normalizeDestinations()
}

// normalizeDestinations sorts destinations by order. Orders must be unique and
// start at 1 or above; gaps are allowed. A form with no orders at all gets
// 1..n in submission order.
func (r *CreateTourPackageRequest) normalizeDestinations() error {
	allZero := true
	for _, d := range r.Destinations {
		if strings.TrimSpace(d.Name) == "" {
			return NewValidationError("destination name is required")
		}
		if d.Order != 0 {
			allZero = false
		}
	}
	if allZero {
		for i := range r.Destinations {
			r.Destinations[i].Order = i + 1
		}
		return nil
	}

	seen := make(map[int]bool, len(r.Destinations))
	for _, d := range r.Destinations {
		if d.Order < 1 {
			return NewValidationError("destination order must start at 1")
		}
		if seen[d.Order] {
			return NewValidationError("duplicate destination order %d", d.Order)
		}
		seen[d.Order] = true
	}
	sort.SliceStable(r.Destinations, func(i, j int) bool {
		return r.Destinations[i].Order < r.Destinations[j].Order
	})
	return nil
}

// AgentStats is the dashboard summary of an agent's catalog
type AgentStats struct {
	TotalPackages       int `json:"total_packages"`
	ActivePackages      int `json:"active_packages"`
	TotalBookedSlots    int `json:"total_booked_slots"`
	TotalAvailableSlots int `json:"total_available_slots"`
}
