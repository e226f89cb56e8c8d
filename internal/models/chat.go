package models

// ChatRole is the author of a chat message
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatRequest is a message from the chat widget with optional preference filters
type ChatRequest struct {
	Message     string  `json:"message" binding:"max=2000"`
	Location    *string `json:"location,omitempty"`
	Budget      *int64  `json:"budget,omitempty" binding:"omitempty,min=0"`
	Days        *int    `json:"days,omitempty" binding:"omitempty,min=1"`
	TravelStyle *string `json:"travel_style,omitempty"`
}

// Validate requires either a message or a location
func (r *ChatRequest) Validate() error {
	if r.Message == "" && (r.Location == nil || *r.Location == "") {
		return NewValidationError("message or location is required")
	}
	return nil
}

// ChatMessage is the assistant's reply
type ChatMessage struct {
	Role             ChatRole              `json:"role"`
	Content          string                `json:"content"`
	RecommendedTours []TourPackageResponse `json:"recommended_tours,omitempty"`
}
