package models

import "time"

// Availability is a date-ranged inventory slot of a tour package.
// AvailableSlots always equals MaxCapacity - BookedSlots; BookedSlots only
// changes through the ledger's reserve and release operations.
type Availability struct {
	ID             string    `json:"id" db:"id"`
	TourPackageID  string    `json:"tour_package_id" db:"tour_package_id"`
	StartDate      Date      `json:"start_date" db:"start_date"`
	EndDate        Date      `json:"end_date" db:"end_date"`
	MaxCapacity    int       `json:"max_capacity" db:"max_capacity"`
	BookedSlots    int       `json:"booked_slots" db:"booked_slots"`
	AvailableSlots int       `json:"available_slots" db:"available_slots"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// HasRoomFor reports whether count more people fit in the slot
func (a *Availability) HasRoomFor(count int) bool {
	return count <= a.AvailableSlots
}

// Within reports whether the slot lies entirely inside [from, to].
// A zero bound is open.
func (a *Availability) Within(from, to Date) bool {
	if !from.IsZero() && a.StartDate.Before(from) {
		return false
	}
	if !to.IsZero() && to.Before(a.EndDate) {
		return false
	}
	return true
}

// AddAvailabilityRequest represents the agent's availability form
type AddAvailabilityRequest struct {
	StartDate   string `json:"start_date" binding:"required,isodate"`
	EndDate     string `json:"end_date" binding:"required,isodate"`
	MaxCapacity int    `json:"max_capacity"`
}

// Parse validates the form and returns the slot bounds
func (r *AddAvailabilityRequest) Parse() (Date, Date, error) {
	start, err := ParseDate(r.StartDate)
	if err != nil {
		return Date{}, Date{}, err
	}
	end, err := ParseDate(r.EndDate)
	if err != nil {
		return Date{}, Date{}, err
	}
	return start, end, nil
}
