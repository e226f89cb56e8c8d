package services

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"strings"

	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// SearchService filters and orders the active catalog
type SearchService struct {
	packages  TourPackageStore
	slots     AvailabilityStore
	locations LocationStore
	expander  *packageExpander
	logger    *logrus.Logger
}

// NewSearchService creates a new search service
func NewSearchService(
	packages TourPackageStore,
	slots AvailabilityStore,
	locations LocationStore,
	agents AgentStore,
	logger *logrus.Logger,
) *SearchService {
	return &SearchService{
		packages:  packages,
		slots:     slots,
		locations: locations,
		expander:  newPackageExpander(locations, agents, slots),
		logger:    logger,
	}
}

// Search returns the active packages matching f. The sequence is evaluated
// lazily over a snapshot taken at call time and may be ranged over again.
func (s *SearchService) Search(ctx context.Context, f models.SearchFilters) (iter.Seq[models.TourPackage], error) {
	pkgs, err := s.packages.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	locationNames := map[string]string{}
	if f.Location != nil {
		locations, err := s.locations.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, l := range locations {
			locationNames[l.ID] = strings.ToLower(l.Name)
		}
	}

	var slotsByPackage map[string][]models.Availability
	if f.StartDate != nil || f.EndDate != nil {
		ids := make([]string, len(pkgs))
		for i, p := range pkgs {
			ids[i] = p.ID
		}
		slotsByPackage, err = s.slots.ListByPackages(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	match := newMatcher(f, locationNames, slotsByPackage)
	return func(yield func(models.TourPackage) bool) {
		for _, p := range pkgs {
			if !p.IsActive || !match(p) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}, nil
}

// newMatcher compiles the filter predicates; nil filters always pass
func newMatcher(f models.SearchFilters, locationNames map[string]string, slotsByPackage map[string][]models.Availability) func(models.TourPackage) bool {
	var needle string
	if f.Location != nil {
		needle = strings.ToLower(strings.TrimSpace(*f.Location))
	}

	return func(p models.TourPackage) bool {
		if needle != "" && !strings.Contains(locationNames[p.LocationID], needle) {
			return false
		}
		if f.MaxDays != nil && p.MinDays > *f.MaxDays {
			return false
		}
		if f.MinPrice != nil && p.PricePerPerson < *f.MinPrice {
			return false
		}
		if f.MaxPrice != nil && p.PricePerPerson > *f.MaxPrice {
			return false
		}
		if f.TotalPeople != nil && p.MaxCapacity < *f.TotalPeople {
			return false
		}
		if slotsByPackage != nil && !hasOpenSlot(slotsByPackage[p.ID], f) {
			return false
		}
		return true
	}
}

// hasOpenSlot reports whether a slot inside the date window has room for the party
func hasOpenSlot(slots []models.Availability, f models.SearchFilters) bool {
	var from, to models.Date
	if f.StartDate != nil {
		from = *f.StartDate
	}
	if f.EndDate != nil {
		to = *f.EndDate
	}
	need := 1
	if f.TotalPeople != nil {
		need = *f.TotalPeople
	}

	for _, slot := range slots {
		if slot.Within(from, to) && slot.HasRoomFor(need) {
			return true
		}
	}
	return false
}

// Sort returns a sorted copy of tours. Equal keys keep their input order, so
// SortRecommended is the input order itself.
func Sort(tours []models.TourPackage, key models.SortKey) ([]models.TourPackage, error) {
	var compare func(a, b models.TourPackage) int
	switch key {
	case models.SortRecommended, "":
		return slices.Clone(tours), nil
	case models.SortPriceLow:
		compare = func(a, b models.TourPackage) int { return cmp.Compare(a.PricePerPerson, b.PricePerPerson) }
	case models.SortPriceHigh:
		compare = func(a, b models.TourPackage) int { return cmp.Compare(b.PricePerPerson, a.PricePerPerson) }
	case models.SortRating:
		compare = func(a, b models.TourPackage) int {
			if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
				return c
			}
			return cmp.Compare(b.TotalReviews, a.TotalReviews)
		}
	default:
		return nil, models.NewValidationError("unknown sort key %q", key)
	}

	sorted := slices.Clone(tours)
	slices.SortStableFunc(sorted, compare)
	return sorted, nil
}

// Paginate drains seq and slices out the requested page
func Paginate[T any](seq iter.Seq[T], q models.PageQuery) models.PaginatedResponse[T] {
	items := slices.Collect(seq)
	if items == nil {
		items = []T{}
	}
	return models.NewPage(items, q)
}

// SearchPage runs a search request end to end: filter, sort, page, expand
func (s *SearchService) SearchPage(ctx context.Context, q *models.SearchQuery) (*models.PaginatedResponse[models.TourPackageResponse], error) {
	filters, err := q.Filters()
	if err != nil {
		return nil, err
	}
	key, err := models.ParseSortKey(q.Sort)
	if err != nil {
		return nil, err
	}

	seq, err := s.Search(ctx, filters)
	if err != nil {
		return nil, err
	}
	sorted, err := Sort(slices.Collect(seq), key)
	if err != nil {
		return nil, err
	}

	page := Paginate(slices.Values(sorted), models.PageQuery{Page: q.Page, Limit: q.Limit})
	data, err := s.expander.Expand(ctx, page.Data)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"location": q.Location,
		"sort":     key,
		"total":    page.Total,
		"page":     page.Page,
	}).Debug("Tour search served")

	return &models.PaginatedResponse[models.TourPackageResponse]{
		Data:       data,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}, nil
}
