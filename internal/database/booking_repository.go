package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/lib/pq"
)

const bookingColumns = `id, user_id, tour_package_id, availability_id, total_people, total_price,
	status, booking_date, notes, paid_at, cancelled_at, cancelled_by, completed_at,
	created_at, updated_at`

// BookingRepository handles database operations for bookings table
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a booking
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}

	query := `
		INSERT INTO bookings (
			id, user_id, tour_package_id, availability_id, total_people, total_price,
			status, booking_date, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		booking.ID, booking.UserID, booking.TourPackageID, booking.AvailabilityID,
		booking.TotalPeople, booking.TotalPrice, booking.Status, booking.BookingDate, booking.Notes,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	booking := &models.Booking{}
	err := r.db.GetContext(ctx, booking, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError("booking", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// ListByUser returns a user's bookings, newest first
func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC, id`

	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// Transition moves a booking to status to when its current status is one of
// from. The check and the write are one statement, so of two racing
// transitions out of the same state only one applies.
func (r *BookingRepository) Transition(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus, actorID *string) (*models.Booking, error) {
	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	booking := &models.Booking{}
	query := `
		UPDATE bookings
		SET status = $3,
			updated_at = NOW(),
			paid_at = CASE WHEN $3 = 'PAID' THEN NOW() ELSE paid_at END,
			cancelled_at = CASE WHEN $3 = 'CANCELLED' THEN NOW() ELSE cancelled_at END,
			cancelled_by = CASE WHEN $3 = 'CANCELLED' THEN $4 ELSE cancelled_by END,
			completed_at = CASE WHEN $3 = 'COMPLETED' THEN NOW() ELSE completed_at END
		WHERE id = $1 AND status = ANY($2)
		RETURNING ` + bookingColumns

	err := r.db.QueryRowxContext(ctx, query, id, pq.Array(allowed), string(to), actorID).StructScan(booking)
	if err == nil {
		return booking, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, models.NewInvalidStateError(current.Status, to)
}

// ListPaidEndingBefore returns PAID bookings whose slot ended before date
func (r *BookingRepository) ListPaidEndingBefore(ctx context.Context, date models.Date) ([]models.Booking, error) {
	bookings := []models.Booking{}
	query := `
		SELECT b.id, b.user_id, b.tour_package_id, b.availability_id, b.total_people, b.total_price,
			b.status, b.booking_date, b.notes, b.paid_at, b.cancelled_at, b.cancelled_by, b.completed_at,
			b.created_at, b.updated_at
		FROM bookings b
		JOIN tour_availabilities ta ON ta.id = b.availability_id
		WHERE b.status = 'PAID' AND ta.end_date < $1
		ORDER BY ta.end_date, b.id`

	if err := r.db.SelectContext(ctx, &bookings, query, date); err != nil {
		return nil, fmt.Errorf("failed to list elapsed bookings: %w", err)
	}
	return bookings, nil
}
