package services_test

import (
	"context"
	"slices"
	"testing"

	"github.com/jelajah/tour-booking-backend/internal/fixture"
	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/jelajah/tour-booking-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func ids(tours []models.TourPackage) []string {
	out := make([]string, len(tours))
	for i, t := range tours {
		out[i] = t.ID
	}
	return out
}

func search(t *testing.T, svc *services.Services, f models.SearchFilters) []string {
	t.Helper()
	seq, err := svc.Search.Search(context.Background(), f)
	require.NoError(t, err)
	return ids(slices.Collect(seq))
}

func TestSearch_BaliWithinMaxDays(t *testing.T) {
	store := fixture.NewStore()
	store.AddLocation(models.Location{ID: "bali", Name: "Bali", Country: "Indonesia"})
	store.AddLocation(models.Location{ID: "jkt", Name: "Jakarta", Country: "Indonesia"})
	store.AddAgent(models.Agent{ID: "agent-1", UserID: "u-1", Name: "Island Trips", LocationID: "bali"})
	svc := services.New(store.Stores(), nil, quietLogger())
	ctx := context.Background()

	create := func(title, location string, minDays, maxDays int) string {
		pkg, err := svc.Catalog.CreatePackage(ctx, "agent-1", &models.CreateTourPackageRequest{
			Title: title, LocationID: location, MinDays: minDays, MaxDays: maxDays,
			PricePerPerson: 1000000, MaxCapacity: 10,
		})
		require.NoError(t, err)
		return pkg.ID
	}
	short := create("Bali Short Escape", "bali", 4, 5)
	create("Bali Long Retreat", "bali", 6, 8)
	create("Jakarta City Walk", "jkt", 1, 2)

	got := search(t, svc, models.SearchFilters{Location: ptr("Bali"), MaxDays: ptr(5)})
	assert.Equal(t, []string{short}, got)
}

func TestSearch_Filters(t *testing.T) {
	_, svc := newDemoServices(t)

	tests := []struct {
		name    string
		filters models.SearchFilters
		want    []string
	}{
		{"no filters", models.SearchFilters{}, []string{"1", "2", "3", "4", "5", "6"}},
		{"location is case-insensitive substring", models.SearchFilters{Location: ptr("BAL")}, []string{"1", "6"}},
		{"blank location does not filter", models.SearchFilters{Location: ptr("  ")}, []string{"1", "2", "3", "4", "5", "6"}},
		{"max days compares min_days", models.SearchFilters{MaxDays: ptr(4)}, []string{"1", "2", "5"}},
		{"price range inclusive", models.SearchFilters{MinPrice: ptr(int64(3500000)), MaxPrice: ptr(int64(5500000))}, []string{"1", "3", "5"}},
		{"group size", models.SearchFilters{TotalPeople: ptr(10)}, []string{"1", "2", "3", "5"}},
		{"date window", models.SearchFilters{
			StartDate: ptr(models.MustParseDate("2026-03-01")),
			EndDate:   ptr(models.MustParseDate("2026-03-31")),
		}, []string{"1", "4", "5"}},
		{"date window with group", models.SearchFilters{
			StartDate:   ptr(models.MustParseDate("2026-02-14")),
			EndDate:     ptr(models.MustParseDate("2026-02-20")),
			TotalPeople: ptr(3),
		}, []string{"1", "5"}},
		{"no match", models.SearchFilters{Location: ptr("Sulawesi")}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, search(t, svc, tt.filters))
		})
	}
}

func TestSearch_IsRestartable(t *testing.T) {
	_, svc := newDemoServices(t)

	seq, err := svc.Search.Search(context.Background(), models.SearchFilters{Location: ptr("bali")})
	require.NoError(t, err)

	first := ids(slices.Collect(seq))
	second := ids(slices.Collect(seq))
	assert.Equal(t, first, second)

	// early exit does not break later iterations
	for range seq {
		break
	}
	assert.Equal(t, first, ids(slices.Collect(seq)))
}

func TestSort(t *testing.T) {
	_, svc := newDemoServices(t)
	seq, err := svc.Search.Search(context.Background(), models.SearchFilters{})
	require.NoError(t, err)
	tours := slices.Collect(seq)

	tests := []struct {
		key  models.SortKey
		want []string
	}{
		{models.SortRecommended, []string{"1", "2", "3", "4", "5", "6"}},
		{models.SortPriceLow, []string{"2", "1", "3", "5", "6", "4"}},
		{models.SortPriceHigh, []string{"4", "6", "5", "3", "1", "2"}},
		{models.SortRating, []string{"4", "6", "1", "5", "3", "2"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			sorted, err := services.Sort(tours, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(sorted))
		})
	}

	// input is never reordered in place
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids(tours))

	_, err = services.Sort(tours, "cheapest")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSort_StableOnTies(t *testing.T) {
	tours := []models.TourPackage{
		{ID: "a", PricePerPerson: 100, Rating: 4.5, TotalReviews: 10},
		{ID: "b", PricePerPerson: 100, Rating: 4.5, TotalReviews: 10},
		{ID: "c", PricePerPerson: 50, Rating: 4.5, TotalReviews: 20},
	}

	sorted, err := services.Sort(tours, models.SortPriceLow)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids(sorted))

	sorted, err = services.Sort(tours, models.SortRating)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids(sorted))
}

func TestSearchPage(t *testing.T) {
	_, svc := newDemoServices(t)

	page, err := svc.Search.SearchPage(context.Background(), &models.SearchQuery{
		Sort: "price_low", Page: 2, Limit: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, 6, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "3", page.Data[0].ID)
	assert.Equal(t, "5", page.Data[1].ID)
	require.NotNil(t, page.Data[0].Location)
	assert.Equal(t, "Lombok", page.Data[0].Location.Name)
	require.NotNil(t, page.Data[0].Agent)
	assert.Equal(t, "Lombok Paradise", page.Data[0].Agent.Name)
	assert.Len(t, page.Data[0].Availability, 1)
}

func TestSearchPage_Errors(t *testing.T) {
	_, svc := newDemoServices(t)
	ctx := context.Background()

	_, err := svc.Search.SearchPage(ctx, &models.SearchQuery{Sort: "popular"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Search.SearchPage(ctx, &models.SearchQuery{MinPrice: ptr(int64(10)), MaxPrice: ptr(int64(5))})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Search.SearchPage(ctx, &models.SearchQuery{StartDate: "2026-03-10", EndDate: "2026-03-01"})
	assert.ErrorIs(t, err, models.ErrValidation)

	page, err := svc.Search.SearchPage(ctx, &models.SearchQuery{Location: "Sulawesi"})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Data)
	assert.Equal(t, 0, page.TotalPages)
}
