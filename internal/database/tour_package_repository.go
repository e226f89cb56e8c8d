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

const tourPackageColumns = `id, title, description, location_id, min_days, max_days,
	price_per_person, max_capacity, includes_transport, includes_accommodation,
	agent_id, rating, total_reviews, thumbnail_url, images, is_active, created_at, updated_at`

// TourPackageRepository handles database operations for tour_packages and tour_destinations
type TourPackageRepository struct {
	db DB
}

// NewTourPackageRepository creates a new TourPackageRepository
func NewTourPackageRepository(db DB) *TourPackageRepository {
	return &TourPackageRepository{db: db}
}

// Create inserts a package and its destinations in one transaction
func (r *TourPackageRepository) Create(ctx context.Context, pkg *models.TourPackage) error {
	if pkg.ID == "" {
		pkg.ID = uuid.New().String()
	}
	if pkg.Images == nil {
		pkg.Images = pq.StringArray{}
	}

	return r.db.WithinTx(ctx, func(ctx context.Context) error {
		err := r.db.QueryRowxContext(ctx, `
			INSERT INTO tour_packages (
				id, title, description, location_id, min_days, max_days,
				price_per_person, max_capacity, includes_transport, includes_accommodation,
				agent_id, thumbnail_url, images, is_active
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING rating, total_reviews, created_at, updated_at`,
			pkg.ID, pkg.Title, pkg.Description, pkg.LocationID, pkg.MinDays, pkg.MaxDays,
			pkg.PricePerPerson, pkg.MaxCapacity, pkg.IncludesTransport, pkg.IncludesAccommodation,
			pkg.AgentID, pkg.ThumbnailURL, pkg.Images, pkg.IsActive,
		).Scan(&pkg.Rating, &pkg.TotalReviews, &pkg.CreatedAt, &pkg.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create tour package: %w", err)
		}

		for i := range pkg.Destinations {
			d := &pkg.Destinations[i]
			if d.ID == "" {
				d.ID = uuid.New().String()
			}
			d.TourPackageID = pkg.ID
			_, err := r.db.ExecContext(ctx, `
				INSERT INTO tour_destinations (id, tour_package_id, name, description, sort_order)
				VALUES ($1, $2, $3, $4, $5)`,
				d.ID, d.TourPackageID, d.Name, d.Description, d.Order)
			if err != nil {
				return fmt.Errorf("failed to create destination %q: %w", d.Name, err)
			}
		}
		return nil
	})
}

// GetByID retrieves a package with its destinations, active or not
func (r *TourPackageRepository) GetByID(ctx context.Context, id string) (*models.TourPackage, error) {
	pkg := &models.TourPackage{}
	err := r.db.GetContext(ctx, pkg, `SELECT `+tourPackageColumns+` FROM tour_packages WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError("tour package", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tour package: %w", err)
	}

	if err := r.attachDestinations(ctx, []*models.TourPackage{pkg}); err != nil {
		return nil, err
	}
	return pkg, nil
}

// ListActive returns active packages in insertion order
func (r *TourPackageRepository) ListActive(ctx context.Context) ([]models.TourPackage, error) {
	return r.list(ctx, `SELECT `+tourPackageColumns+` FROM tour_packages WHERE is_active ORDER BY seq`)
}

// ListByAgent returns every package of an agent, including inactive ones
func (r *TourPackageRepository) ListByAgent(ctx context.Context, agentID string) ([]models.TourPackage, error) {
	return r.list(ctx, `SELECT `+tourPackageColumns+` FROM tour_packages WHERE agent_id = $1 ORDER BY seq`, agentID)
}

// SetActive flips is_active and returns the updated package
func (r *TourPackageRepository) SetActive(ctx context.Context, id string, active bool) (*models.TourPackage, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE tour_packages
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1`, id, active)
	if err != nil {
		return nil, fmt.Errorf("failed to update tour package: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, models.NewNotFoundError("tour package", id)
	}

	return r.GetByID(ctx, id)
}

func (r *TourPackageRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.TourPackage, error) {
	packages := []models.TourPackage{}
	if err := r.db.SelectContext(ctx, &packages, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list tour packages: %w", err)
	}
	if len(packages) == 0 {
		return packages, nil
	}

	ptrs := make([]*models.TourPackage, len(packages))
	for i := range packages {
		ptrs[i] = &packages[i]
	}
	if err := r.attachDestinations(ctx, ptrs); err != nil {
		return nil, err
	}
	return packages, nil
}

// attachDestinations loads destinations for all packages in one query
func (r *TourPackageRepository) attachDestinations(ctx context.Context, packages []*models.TourPackage) error {
	ids := make([]string, len(packages))
	byID := make(map[string]*models.TourPackage, len(packages))
	for i, p := range packages {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Destinations = []models.Destination{}
	}

	destinations := []models.Destination{}
	err := r.db.SelectContext(ctx, &destinations, `
		SELECT id, tour_package_id, name, description, sort_order
		FROM tour_destinations
		WHERE tour_package_id = ANY($1)
		ORDER BY tour_package_id, sort_order`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load destinations: %w", err)
	}

	for _, d := range destinations {
		if p, ok := byID[d.TourPackageID]; ok {
			p.Destinations = append(p.Destinations, d)
		}
	}
	return nil
}
