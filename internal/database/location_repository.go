package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jelajah/tour-booking-backend/internal/models"
)

// LocationRepository handles database operations for locations table
type LocationRepository struct {
	db DB
}

// NewLocationRepository creates a new LocationRepository
func NewLocationRepository(db DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// List returns every location ordered by name
func (r *LocationRepository) List(ctx context.Context) ([]models.Location, error) {
	locations := []models.Location{}
	err := r.db.SelectContext(ctx, &locations, `
		SELECT id, name, province, country
		FROM locations
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

// GetByID retrieves a location by ID
func (r *LocationRepository) GetByID(ctx context.Context, id string) (*models.Location, error) {
	location := &models.Location{}
	err := r.db.GetContext(ctx, location, `
		SELECT id, name, province, country
		FROM locations
		WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError("location", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return location, nil
}
