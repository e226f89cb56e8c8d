package services

import (
	"context"
	"errors"

	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// CatalogService is the agent-facing management surface for tour packages
type CatalogService struct {
	packages  TourPackageStore
	locations LocationStore
	slots     AvailabilityStore
	ledger    *AvailabilityLedger
	expander  *packageExpander
	logger    *logrus.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	packages TourPackageStore,
	locations LocationStore,
	agents AgentStore,
	slots AvailabilityStore,
	ledger *AvailabilityLedger,
	logger *logrus.Logger,
) *CatalogService {
	return &CatalogService{
		packages:  packages,
		locations: locations,
		slots:     slots,
		ledger:    ledger,
		expander:  newPackageExpander(locations, agents, slots),
		logger:    logger,
	}
}

// CreatePackage creates an active package owned by agentID
func (s *CatalogService) CreatePackage(ctx context.Context, agentID string, req *models.CreateTourPackageRequest) (*models.TourPackageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.locations.GetByID(ctx, req.LocationID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewValidationError("unknown location_id %s", req.LocationID)
		}
		return nil, err
	}

	pkg := &models.TourPackage{
		Title:                 req.Title,
		Description:           req.Description,
		LocationID:            req.LocationID,
		MinDays:               req.MinDays,
		MaxDays:               req.MaxDays,
		PricePerPerson:        req.PricePerPerson,
		MaxCapacity:           req.MaxCapacity,
		IncludesTransport:     req.IncludesTransport,
		IncludesAccommodation: req.IncludesAccommodation,
		AgentID:               agentID,
		ThumbnailURL:          req.ThumbnailURL,
		Images:                pq.StringArray(req.Images),
		IsActive:              true,
		Destinations:          make([]models.Destination, 0, len(req.Destinations)),
	}
	for _, d := range req.Destinations {
		pkg.Destinations = append(pkg.Destinations, models.Destination{
			Name:        d.Name,
			Description: d.Description,
			Order:       d.Order,
		})
	}

	if err := s.packages.Create(ctx, pkg); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"package_id": pkg.ID,
		"agent_id":   agentID,
		"title":      pkg.Title,
	}).Info("Tour package created")

	return s.expander.ExpandOne(ctx, pkg)
}

// SetActive shows or hides an agent's package. Existing bookings are untouched.
func (s *CatalogService) SetActive(ctx context.Context, packageID, agentID string, active bool) (*models.TourPackageResponse, error) {
	if _, err := s.owned(ctx, packageID, agentID); err != nil {
		return nil, err
	}

	pkg, err := s.packages.SetActive(ctx, packageID, active)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"package_id": packageID,
		"agent_id":   agentID,
		"is_active":  active,
	}).Info("Tour package visibility changed")

	return s.expander.ExpandOne(ctx, pkg)
}

// AddAvailability adds a slot to an agent's package and returns the package
func (s *CatalogService) AddAvailability(ctx context.Context, packageID, agentID string, req *models.AddAvailabilityRequest) (*models.TourPackageResponse, error) {
	start, end, err := req.Parse()
	if err != nil {
		return nil, err
	}

	pkg, err := s.owned(ctx, packageID, agentID)
	if err != nil {
		return nil, err
	}

	if _, err := s.ledger.AddSlot(ctx, packageID, start, end, req.MaxCapacity); err != nil {
		return nil, err
	}
	return s.expander.ExpandOne(ctx, pkg)
}

// GetPackage returns a package for browsing. Inactive packages are visible
// only to their owner (viewerAgentID may be empty).
func (s *CatalogService) GetPackage(ctx context.Context, packageID, viewerAgentID string) (*models.TourPackageResponse, error) {
	pkg, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if !pkg.IsActive && (viewerAgentID == "" || pkg.AgentID != viewerAgentID) {
		return nil, models.NewNotFoundError("tour package", packageID)
	}
	return s.expander.ExpandOne(ctx, pkg)
}

// ListAgentPackages returns all packages of an agent, inactive ones included
func (s *CatalogService) ListAgentPackages(ctx context.Context, agentID string) ([]models.TourPackageResponse, error) {
	pkgs, err := s.packages.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	return s.expander.Expand(ctx, pkgs)
}

// AgentStats summarizes an agent's catalog for the dashboard
func (s *CatalogService) AgentStats(ctx context.Context, agentID string) (*models.AgentStats, error) {
	pkgs, err := s.packages.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}

	stats := &models.AgentStats{TotalPackages: len(pkgs)}
	ids := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		if p.IsActive {
			stats.ActivePackages++
		}
		ids = append(ids, p.ID)
	}

	slotsByPackage, err := s.slots.ListByPackages(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, slots := range slotsByPackage {
		for _, slot := range slots {
			stats.TotalBookedSlots += slot.BookedSlots
			stats.TotalAvailableSlots += slot.AvailableSlots
		}
	}
	return stats, nil
}

// owned loads a package and checks that agentID owns it
func (s *CatalogService) owned(ctx context.Context, packageID, agentID string) (*models.TourPackage, error) {
	pkg, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg.AgentID != agentID {
		return nil, models.NewForbiddenError("you do not own this tour package")
	}
	return pkg, nil
}
