package models

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusPaid      BookingStatus = "PAID"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// bookingTransitions lists the allowed next states of each status.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending: {BookingStatusPaid, BookingStatusCancelled},
	BookingStatusPaid:    {BookingStatusCancelled, BookingStatusCompleted},
}

// CanTransitionTo reports whether the state machine allows s -> next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// HoldsSlots reports whether a booking in this status occupies availability
func (s BookingStatus) HoldsSlots() bool {
	return s == BookingStatusPending || s == BookingStatusPaid
}

// Booking is a user's reservation of people against one availability slot
type Booking struct {
	ID             string        `json:"id" db:"id"`
	UserID         string        `json:"user_id" db:"user_id"`
	TourPackageID  string        `json:"tour_package_id" db:"tour_package_id"`
	AvailabilityID string        `json:"availability_id" db:"availability_id"`
	TotalPeople    int           `json:"total_people" db:"total_people"`
	TotalPrice     int64         `json:"total_price" db:"total_price"`
	Status         BookingStatus `json:"status" db:"status"`
	BookingDate    Date          `json:"booking_date" db:"booking_date"`
	Notes          *string       `json:"notes,omitempty" db:"notes"`
	PaidAt         *time.Time    `json:"paid_at,omitempty" db:"paid_at"`
	CancelledAt    *time.Time    `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CancelledBy    *string       `json:"cancelled_by,omitempty" db:"cancelled_by"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// BookingResponse embeds the package and slot a booking refers to
type BookingResponse struct {
	Booking
	TourPackage  *TourPackage  `json:"tour_package,omitempty"`
	Availability *Availability `json:"availability,omitempty"`
}

// CancelBookingResponse carries the cancelled booking and an informational refund notice
type CancelBookingResponse struct {
	Booking
	RefundNotice *string `json:"refund_notice,omitempty"`
}

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	TourPackageID  string  `json:"tour_package_id" binding:"required"`
	AvailabilityID string  `json:"availability_id" binding:"required"`
	TotalPeople    int     `json:"total_people"`
	Notes          *string `json:"notes,omitempty" binding:"omitempty,max=1000"`
}

// Validate validates the create booking request
func (r *CreateBookingRequest) Validate() error {
	if r.TotalPeople < 1 {
		return NewValidationError("total_people must be at least 1")
	}
	return nil
}

// RefundNotice is the message shown when a paid booking is cancelled.
// Refunds are handled outside this service; nothing is tracked here.
const RefundNotice = "Your refund will be processed in 5-7 business days."
