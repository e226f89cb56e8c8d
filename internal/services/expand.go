package services

import (
	"context"
	"errors"

	"github.com/jelajah/tour-booking-backend/internal/models"
)

// packageExpander attaches location, agent and availability to packages
type packageExpander struct {
	locations LocationStore
	agents    AgentStore
	slots     AvailabilityStore
}

func newPackageExpander(locations LocationStore, agents AgentStore, slots AvailabilityStore) *packageExpander {
	return &packageExpander{locations: locations, agents: agents, slots: slots}
}

// Expand builds responses for pkgs, keeping their order
func (e *packageExpander) Expand(ctx context.Context, pkgs []models.TourPackage) ([]models.TourPackageResponse, error) {
	out := make([]models.TourPackageResponse, 0, len(pkgs))
	if len(pkgs) == 0 {
		return out, nil
	}

	ids := make([]string, len(pkgs))
	for i, p := range pkgs {
		ids[i] = p.ID
	}
	slotsByPackage, err := e.slots.ListByPackages(ctx, ids)
	if err != nil {
		return nil, err
	}

	locations, err := e.locationIndex(ctx)
	if err != nil {
		return nil, err
	}

	agents := make(map[string]*models.Agent)
	for _, p := range pkgs {
		agent, seen := agents[p.AgentID]
		if !seen {
			agent, err = e.agents.GetByID(ctx, p.AgentID)
			if err != nil && !errors.Is(err, models.ErrNotFound) {
				return nil, err
			}
			agents[p.AgentID] = agent
		}

		slots := slotsByPackage[p.ID]
		if slots == nil {
			slots = []models.Availability{}
		}
		out = append(out, models.TourPackageResponse{
			TourPackage:  p,
			Location:     locations[p.LocationID],
			Agent:        agent,
			Availability: slots,
		})
	}
	return out, nil
}

// ExpandOne builds the response for a single package
func (e *packageExpander) ExpandOne(ctx context.Context, pkg *models.TourPackage) (*models.TourPackageResponse, error) {
	out, err := e.Expand(ctx, []models.TourPackage{*pkg})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (e *packageExpander) locationIndex(ctx context.Context) (map[string]*models.Location, error) {
	list, err := e.locations.List(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]*models.Location, len(list))
	for i := range list {
		index[list[i].ID] = &list[i]
	}
	return index, nil
}
