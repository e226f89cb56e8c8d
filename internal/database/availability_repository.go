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

const availabilityColumns = `id, tour_package_id, start_date, end_date, max_capacity,
	booked_slots, available_slots, created_at`

// AvailabilityRepository handles database operations for tour_availabilities.
// available_slots is a generated column and is never written directly.
type AvailabilityRepository struct {
	db DB
}

// NewAvailabilityRepository creates a new AvailabilityRepository
func NewAvailabilityRepository(db DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// Create inserts a slot with booked_slots = 0
func (r *AvailabilityRepository) Create(ctx context.Context, slot *models.Availability) error {
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}

	query := `
		INSERT INTO tour_availabilities (id, tour_package_id, start_date, end_date, max_capacity, booked_slots)
		VALUES ($1, $2, $3, $4, $5, 0)
		RETURNING booked_slots, available_slots, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		slot.ID, slot.TourPackageID, slot.StartDate, slot.EndDate, slot.MaxCapacity,
	).Scan(&slot.BookedSlots, &slot.AvailableSlots, &slot.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create availability: %w", err)
	}
	return nil
}

// GetByID retrieves a slot by ID
func (r *AvailabilityRepository) GetByID(ctx context.Context, id string) (*models.Availability, error) {
	slot := &models.Availability{}
	err := r.db.GetContext(ctx, slot, `SELECT `+availabilityColumns+` FROM tour_availabilities WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError("availability", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}
	return slot, nil
}

// ListByPackage returns the slots of a package ordered by start date
func (r *AvailabilityRepository) ListByPackage(ctx context.Context, packageID string) ([]models.Availability, error) {
	slots := []models.Availability{}
	query := `SELECT ` + availabilityColumns + `
		FROM tour_availabilities
		WHERE tour_package_id = $1
		ORDER BY start_date, created_at`

	if err := r.db.SelectContext(ctx, &slots, query, packageID); err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	return slots, nil
}

// ListByPackages batch-loads slots keyed by package ID
func (r *AvailabilityRepository) ListByPackages(ctx context.Context, packageIDs []string) (map[string][]models.Availability, error) {
	result := make(map[string][]models.Availability, len(packageIDs))
	if len(packageIDs) == 0 {
		return result, nil
	}

	slots := []models.Availability{}
	query := `SELECT ` + availabilityColumns + `
		FROM tour_availabilities
		WHERE tour_package_id = ANY($1)
		ORDER BY tour_package_id, start_date, created_at`

	if err := r.db.SelectContext(ctx, &slots, query, pq.Array(packageIDs)); err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	for _, s := range slots {
		result[s.TourPackageID] = append(result[s.TourPackageID], s)
	}
	return result, nil
}

// Reserve increments booked_slots by count in one conditional UPDATE. The
// capacity guard and the active-package guard are evaluated by the same
// statement, so concurrent reservations on one slot serialize on its row lock.
func (r *AvailabilityRepository) Reserve(ctx context.Context, id string, count int) (*models.Availability, error) {
	slot := &models.Availability{}
	query := `
		UPDATE tour_availabilities ta
		SET booked_slots = ta.booked_slots + $2
		FROM tour_packages tp
		WHERE ta.id = $1
		  AND tp.id = ta.tour_package_id
		  AND tp.is_active
		  AND ta.booked_slots + $2 <= ta.max_capacity
		RETURNING ta.id, ta.tour_package_id, ta.start_date, ta.end_date, ta.max_capacity,
			ta.booked_slots, ta.available_slots, ta.created_at`

	err := r.db.QueryRowxContext(ctx, query, id, count).StructScan(slot)
	if err == nil {
		return slot, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to reserve availability: %w", err)
	}

	return nil, r.classifyReserveMiss(ctx, id, count)
}

// classifyReserveMiss explains why Reserve matched no row
func (r *AvailabilityRepository) classifyReserveMiss(ctx context.Context, id string, count int) error {
	var state struct {
		AvailableSlots int  `db:"available_slots"`
		IsActive       bool `db:"is_active"`
	}
	query := `
		SELECT ta.available_slots, tp.is_active
		FROM tour_availabilities ta
		JOIN tour_packages tp ON tp.id = ta.tour_package_id
		WHERE ta.id = $1`

	err := r.db.GetContext(ctx, &state, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewNotFoundError("availability", id)
	}
	if err != nil {
		return fmt.Errorf("failed to read availability: %w", err)
	}
	if !state.IsActive {
		return models.NewNotFoundError("availability", id)
	}
	return models.NewCapacityExceededError(count, state.AvailableSlots)
}

// Release decrements booked_slots by count, floored at 0
func (r *AvailabilityRepository) Release(ctx context.Context, id string, count int) (*models.Availability, error) {
	slot := &models.Availability{}
	query := `
		UPDATE tour_availabilities
		SET booked_slots = GREATEST(booked_slots - $2, 0)
		WHERE id = $1
		RETURNING ` + availabilityColumns

	err := r.db.QueryRowxContext(ctx, query, id, count).StructScan(slot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError("availability", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to release availability: %w", err)
	}
	return slot, nil
}
