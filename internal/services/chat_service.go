package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/jelajah/tour-booking-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// MaxRecommendations caps the tours attached to a chat reply
const MaxRecommendations = 3

// ContentGenerator produces the assistant's reply text
type ContentGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChatService answers the chat widget with tours from the search engine
type ChatService struct {
	search    *SearchService
	generator ContentGenerator
	logger    *logrus.Logger
}

// NewChatService creates a new ChatService. generator may be nil, in which
// case replies use the built-in template.
func NewChatService(search *SearchService, generator ContentGenerator, logger *logrus.Logger) *ChatService {
	return &ChatService{
		search:    search,
		generator: generator,
		logger:    logger,
	}
}

// Chat recommends up to MaxRecommendations tours, best rated first
func (s *ChatService) Chat(ctx context.Context, req *models.ChatRequest) (*models.ChatMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	filters := models.SearchFilters{
		MaxDays:  req.Days,
		MaxPrice: req.Budget,
	}
	if req.Location != nil && strings.TrimSpace(*req.Location) != "" {
		filters.Location = req.Location
	}

	seq, err := s.search.Search(ctx, filters)
	if err != nil {
		return nil, err
	}
	ranked, err := Sort(slices.Collect(seq), models.SortRating)
	if err != nil {
		return nil, err
	}
	if len(ranked) > MaxRecommendations {
		ranked = ranked[:MaxRecommendations]
	}

	tours, err := s.search.expander.Expand(ctx, ranked)
	if err != nil {
		return nil, err
	}

	return &models.ChatMessage{
		Role:             models.ChatRoleAssistant,
		Content:          s.reply(ctx, req, tours),
		RecommendedTours: tours,
	}, nil
}

// reply asks the generator and falls back to the template on any failure
func (s *ChatService) reply(ctx context.Context, req *models.ChatRequest, tours []models.TourPackageResponse) string {
	fallback := templateReply(req, len(tours))
	if s.generator == nil {
		return fallback
	}

	content, err := s.generator.Generate(ctx, buildPrompt(req, tours))
	if err != nil {
		s.logger.WithError(err).Warn("Chat generator failed, using template reply")
		return fallback
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return fallback
	}
	return content
}

func preferenceSummary(req *models.ChatRequest) string {
	var b strings.Builder
	if req.Location != nil && *req.Location != "" {
		fmt.Fprintf(&b, " for %s", *req.Location)
	}
	if req.Budget != nil {
		fmt.Fprintf(&b, " with budget %s", utils.FormatRupiah(*req.Budget))
	}
	if req.Days != nil {
		fmt.Fprintf(&b, " for %d days", *req.Days)
	}
	return b.String()
}

func templateReply(req *models.ChatRequest, found int) string {
	if found == 0 {
		return fmt.Sprintf("I couldn't find tour packages matching your preferences%s. Try a different location, a larger budget or more days.", preferenceSummary(req))
	}
	return fmt.Sprintf("Based on your preferences%s, here are some recommended tour packages that might interest you!", preferenceSummary(req))
}

func buildPrompt(req *models.ChatRequest, tours []models.TourPackageResponse) string {
	var b strings.Builder
	b.WriteString("You are a friendly travel assistant for an Indonesian tour marketplace. ")
	b.WriteString("Reply in at most 3 short sentences. Only mention the tours listed below.\n\n")
	fmt.Fprintf(&b, "Traveler message: %s\n", req.Message)
	if summary := preferenceSummary(req); summary != "" {
		fmt.Fprintf(&b, "Preferences:%s\n", summary)
	}
	if req.TravelStyle != nil && *req.TravelStyle != "" {
		fmt.Fprintf(&b, "Travel style: %s\n", *req.TravelStyle)
	}

	if len(tours) == 0 {
		b.WriteString("\nNo tours match. Suggest relaxing the filters.\n")
		return b.String()
	}

	b.WriteString("\nTours:\n")
	for _, t := range tours {
		location := ""
		if t.Location != nil {
			location = t.Location.Name
		}
		fmt.Fprintf(&b, "- %s (%s, %d-%d days, %s per person, rating %.1f)\n",
			t.Title, location, t.MinDays, t.MaxDays, utils.FormatRupiah(t.PricePerPerson), t.Rating)
	}
	return b.String()
}
