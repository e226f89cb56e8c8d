package services

import (
	"context"

	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/jelajah/tour-booking-backend/pkg/validator"
	"github.com/sirupsen/logrus"
)

// DirectoryService serves locations and agent profiles
type DirectoryService struct {
	locations LocationStore
	agents    AgentStore
	packages  TourPackageStore
	cache     LocationCache
	expander  *packageExpander
	phones    *validator.PhoneValidator
	logger    *logrus.Logger
}

// NewDirectoryService creates a new DirectoryService. cache may be nil.
func NewDirectoryService(
	locations LocationStore,
	agents AgentStore,
	packages TourPackageStore,
	slots AvailabilityStore,
	cache LocationCache,
	logger *logrus.Logger,
) *DirectoryService {
	return &DirectoryService{
		locations: locations,
		agents:    agents,
		packages:  packages,
		cache:     cache,
		expander:  newPackageExpander(locations, agents, slots),
		phones:    validator.NewPhoneValidator(),
		logger:    logger,
	}
}

// ListLocations returns all locations, from cache when possible
func (s *DirectoryService) ListLocations(ctx context.Context) ([]models.Location, error) {
	if s.cache != nil {
		if locations, ok := s.cache.GetLocations(ctx); ok {
			return locations, nil
		}
	}

	locations, err := s.locations.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetLocations(ctx, locations)
	}
	return locations, nil
}

// GetLocation retrieves a location by ID
func (s *DirectoryService) GetLocation(ctx context.Context, id string) (*models.Location, error) {
	return s.locations.GetByID(ctx, id)
}

// LandingFilters returns the options of the landing page search bar
func (s *DirectoryService) LandingFilters(ctx context.Context) (*models.LandingFilters, error) {
	locations, err := s.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	return &models.LandingFilters{Locations: locations}, nil
}

// ListAgents pages through agents, optionally narrowed by location name
func (s *DirectoryService) ListAgents(ctx context.Context, location string, q models.PageQuery) (*models.PaginatedResponse[models.AgentResponse], error) {
	agents, err := s.agents.List(ctx, location)
	if err != nil {
		return nil, err
	}

	page := models.NewPage(agents, q)
	locations, err := s.locationIndex(ctx)
	if err != nil {
		return nil, err
	}

	data := make([]models.AgentResponse, len(page.Data))
	for i, a := range page.Data {
		data[i] = s.agentResponse(a, locations)
	}

	return &models.PaginatedResponse[models.AgentResponse]{
		Data:       data,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}, nil
}

// GetAgent returns an agent profile with its active packages
func (s *DirectoryService) GetAgent(ctx context.Context, id string) (*models.AgentDetailResponse, error) {
	agent, err := s.agents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	pkgs, err := s.packages.ListByAgent(ctx, agent.ID)
	if err != nil {
		return nil, err
	}
	active := make([]models.TourPackage, 0, len(pkgs))
	for _, p := range pkgs {
		if p.IsActive {
			active = append(active, p)
		}
	}
	expanded, err := s.expander.Expand(ctx, active)
	if err != nil {
		return nil, err
	}

	locations, err := s.locationIndex(ctx)
	if err != nil {
		return nil, err
	}

	return &models.AgentDetailResponse{
		AgentResponse: s.agentResponse(*agent, locations),
		Packages:      expanded,
	}, nil
}

// AgentForUser returns the agent profile of a user account
func (s *DirectoryService) AgentForUser(ctx context.Context, userID string) (*models.Agent, error) {
	return s.agents.GetByUserID(ctx, userID)
}

func (s *DirectoryService) agentResponse(a models.Agent, locations map[string]*models.Location) models.AgentResponse {
	resp := models.AgentResponse{
		Agent:    a,
		Location: locations[a.LocationID],
	}

	if wa := a.SocialLinks.WhatsApp; wa != nil {
		url, err := s.phones.WhatsAppURL(*wa)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"agent_id": a.ID,
				"whatsapp": *wa,
			}).WithError(err).Debug("Skipping invalid WhatsApp number")
		} else {
			resp.WhatsAppURL = &url
		}
	}
	return resp
}

func (s *DirectoryService) locationIndex(ctx context.Context) (map[string]*models.Location, error) {
	locations, err := s.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]*models.Location, len(locations))
	for i := range locations {
		index[locations[i].ID] = &locations[i]
	}
	return index, nil
}
