package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jelajah/tour-booking-backend/internal/models"
)

const agentColumns = `a.id, a.user_id, a.name, a.description, a.location_id, a.rating,
	a.total_reviews, a.avatar_url, a.social_links, a.google_maps_url, a.is_verified, a.created_at`

// AgentRepository handles database operations for agents table
type AgentRepository struct {
	db DB
}

// NewAgentRepository creates a new AgentRepository
func NewAgentRepository(db DB) *AgentRepository {
	return &AgentRepository{db: db}
}

// List returns agents, optionally narrowed to locations whose name contains
// locationName (case-insensitive), best rated first
func (r *AgentRepository) List(ctx context.Context, locationName string) ([]models.Agent, error) {
	agents := []models.Agent{}
	query := `
		SELECT ` + agentColumns + `
		FROM agents a
		JOIN locations l ON l.id = a.location_id
		WHERE ($1 = '' OR l.name ILIKE '%' || $1 || '%')
		ORDER BY a.rating DESC, a.total_reviews DESC, a.id`

	if err := r.db.SelectContext(ctx, &agents, query, locationName); err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	return agents, nil
}

// GetByID retrieves an agent by ID
func (r *AgentRepository) GetByID(ctx context.Context, id string) (*models.Agent, error) {
	return r.getOne(ctx, "a.id = $1", id)
}

// GetByUserID retrieves the agent profile of a user account
func (r *AgentRepository) GetByUserID(ctx context.Context, userID string) (*models.Agent, error) {
	return r.getOne(ctx, "a.user_id = $1", userID)
}

func (r *AgentRepository) getOne(ctx context.Context, where, arg string) (*models.Agent, error) {
	agent := &models.Agent{}
	query := `SELECT ` + agentColumns + ` FROM agents a WHERE ` + where

	err := r.db.GetContext(ctx, agent, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError("agent", arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}
	return agent, nil
}
