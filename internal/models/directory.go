package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Location is immutable reference data
type Location struct {
	ID       string  `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Province *string `json:"province,omitempty" db:"province"`
	Country  string  `json:"country" db:"country"`
}

// SocialLinks holds the known contact channels of an agent.
type SocialLinks struct {
	Website   *string `json:"website,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
	Facebook  *string `json:"facebook,omitempty"`
	WhatsApp  *string `json:"whatsapp,omitempty"`
}

// IsEmpty reports whether no channel is set
func (s SocialLinks) IsEmpty() bool {
	return s.Website == nil && s.Instagram == nil && s.Facebook == nil && s.WhatsApp == nil
}

// Value implements the driver.Valuer interface (stored as JSONB)
func (s SocialLinks) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface. Unknown keys are dropped.
func (s *SocialLinks) Scan(src interface{}) error {
	if src == nil {
		*s = SocialLinks{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into SocialLinks", src)
	}
	return json.Unmarshal(data, s)
}

// Agent is the seller profile owning tour packages. Rating and TotalReviews
// are aggregates maintained outside this service.
type Agent struct {
	ID            string      `json:"id" db:"id"`
	UserID        string      `json:"user_id" db:"user_id"`
	Name          string      `json:"name" db:"name"`
	Description   *string     `json:"description,omitempty" db:"description"`
	LocationID    string      `json:"location_id" db:"location_id"`
	Rating        float64     `json:"rating" db:"rating"`
	TotalReviews  int         `json:"total_reviews" db:"total_reviews"`
	AvatarURL     *string     `json:"avatar_url,omitempty" db:"avatar_url"`
	SocialLinks   SocialLinks `json:"social_links" db:"social_links"`
	GoogleMapsURL *string     `json:"google_maps_url,omitempty" db:"google_maps_url"`
	IsVerified    bool        `json:"is_verified" db:"is_verified"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
}

// AgentResponse is the public agent view
type AgentResponse struct {
	Agent
	Location    *Location `json:"location,omitempty"`
	WhatsAppURL *string   `json:"whatsapp_url,omitempty"`
}

// AgentDetailResponse is an agent with its active packages
type AgentDetailResponse struct {
	AgentResponse
	Packages []TourPackageResponse `json:"packages"`
}

// LandingFilters feeds the landing page search bar
type LandingFilters struct {
	Locations []Location `json:"locations"`
}
