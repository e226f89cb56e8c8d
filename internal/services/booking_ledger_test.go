package services_test

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/jelajah/tour-booking-backend/internal/fixture"
	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/jelajah/tour-booking-backend/internal/services"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const traveller = "traveller-1"

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newDemoServices(t *testing.T) (*fixture.Store, *services.Services) {
	t.Helper()
	store := fixture.NewDemoStore()
	return store, services.New(store.Stores(), nil, quietLogger())
}

func servicesWith(stores services.Stores) *services.Services {
	return services.New(stores, nil, quietLogger())
}

func slot(t *testing.T, store *fixture.Store, id string) *models.Availability {
	t.Helper()
	s, err := store.Availability().GetByID(context.Background(), id)
	require.NoError(t, err)
	return s
}

func assertSlotInvariants(t *testing.T, store *fixture.Store) {
	t.Helper()
	all, err := store.Availability().ListByPackages(context.Background(), []string{"1", "2", "3", "4", "5", "6"})
	require.NoError(t, err)
	for _, slots := range all {
		for _, s := range slots {
			assert.Equal(t, s.MaxCapacity, s.AvailableSlots+s.BookedSlots, "slot %s", s.ID)
			assert.LessOrEqual(t, s.BookedSlots, s.MaxCapacity, "slot %s", s.ID)
			assert.GreaterOrEqual(t, s.BookedSlots, 0, "slot %s", s.ID)
		}
	}
}

func TestAvailabilityLedger_ReserveFillsSlotThenRejects(t *testing.T) {
	store, svc := newDemoServices(t)
	ctx := context.Background()

	before := slot(t, store, "1")
	require.Equal(t, 12, before.MaxCapacity)
	require.Equal(t, 4, before.BookedSlots)

	updated, err := svc.Availability.Reserve(ctx, "1", 8)
	require.NoError(t, err)
	assert.Equal(t, 12, updated.BookedSlots)
	assert.Equal(t, 0, updated.AvailableSlots)

	_, err = svc.Availability.Reserve(ctx, "1", 1)
	assert.ErrorIs(t, err, models.ErrCapacityExceeded)
	assert.Equal(t, 12, slot(t, store, "1").BookedSlots)
}

func TestAvailabilityLedger_ReserveErrors(t *testing.T) {
	_, svc := newDemoServices(t)
	ctx := context.Background()

	_, err := svc.Availability.Reserve(ctx, "1", 0)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Availability.Reserve(ctx, "does-not-exist", 1)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Catalog.SetActive(ctx, "1", "1", false)
	require.NoError(t, err)
	_, err = svc.Availability.Reserve(ctx, "1", 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAvailabilityLedger_ReleaseFloorsAtZero(t *testing.T) {
	store, svc := newDemoServices(t)

	updated, err := svc.Availability.Release(context.Background(), "2", 5)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.BookedSlots)
	assert.Equal(t, 12, updated.AvailableSlots)

	_, err = svc.Availability.Release(context.Background(), "2", -1)
	assert.ErrorIs(t, err, models.ErrValidation)
	assertSlotInvariants(t, store)
}

func TestAvailabilityLedger_AddSlot(t *testing.T) {
	_, svc := newDemoServices(t)
	ctx := context.Background()
	start := models.MustParseDate("2026-04-01")
	end := models.MustParseDate("2026-04-05")

	tests := []struct {
		name      string
		packageID string
		start     models.Date
		end       models.Date
		capacity  int
		wantErr   error
	}{
		{"start equals end", "1", start, start, 10, models.ErrValidation},
		{"start after end", "1", end, start, 10, models.ErrValidation},
		{"zero capacity", "1", start, end, 0, models.ErrValidation},
		{"unknown package", "missing", start, end, 10, models.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Availability.AddSlot(ctx, tt.packageID, tt.start, tt.end, tt.capacity)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	created, err := svc.Availability.AddSlot(ctx, "1", start, end, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 0, created.BookedSlots)
	assert.Equal(t, 10, created.AvailableSlots)

	slots, err := svc.Availability.ListForPackage(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, slots, 4)
}

func TestAvailabilityLedger_ConcurrentReserveNeverOverbooks(t *testing.T) {
	store, svc := newDemoServices(t)
	ctx := context.Background()

	created, err := svc.Availability.AddSlot(ctx, "2",
		models.MustParseDate("2026-05-01"), models.MustParseDate("2026-05-04"), 10)
	require.NoError(t, err)

	const workers = 40
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Availability.Reserve(ctx, created.ID, 1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if assert.ErrorIs(t, err, models.ErrCapacityExceeded) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, workers-10, rejected)
	final := slot(t, store, created.ID)
	assert.Equal(t, 10, final.BookedSlots)
	assert.Equal(t, 0, final.AvailableSlots)
}

func TestBookingLedger_ConcurrentCreateNeverOverbooks(t *testing.T) {
	store, svc := newDemoServices(t)
	ctx := context.Background()

	// slot 10: capacity 4, 2 booked
	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Bookings.CreateBooking(ctx, traveller, &models.CreateBookingRequest{
				TourPackageID: "6", AvailabilityID: "10", TotalPeople: 1,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, models.ErrCapacityExceeded)
		}
	}
	assert.Equal(t, 2, ok)

	bookings, err := svc.Bookings.ListUserBookings(ctx, traveller)
	require.NoError(t, err)
	assert.Len(t, bookings, 2)
	assert.Equal(t, 4, slot(t, store, "10").BookedSlots)
	assertSlotInvariants(t, store)
}

func TestBookingLedger_CreateBooking(t *testing.T) {
	store, svc := newDemoServices(t)
	ctx := context.Background()
	notes := "Vegetarian meals please"

	booking, err := svc.Bookings.CreateBooking(ctx, traveller, &models.CreateBookingRequest{
		TourPackageID:  "1",
		AvailabilityID: "2",
		TotalPeople:    3,
		Notes:          &notes,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, traveller, booking.UserID)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, int64(3*3500000), booking.TotalPrice)
	assert.Equal(t, &notes, booking.Notes)
	assert.False(t, booking.BookingDate.IsZero())
	assert.Equal(t, 5, slot(t, store, "2").BookedSlots)

	got, err := svc.Bookings.GetBooking(ctx, booking.ID, traveller)
	require.NoError(t, err)
	require.NotNil(t, got.TourPackage)
	require.NotNil(t, got.Availability)
	assert.Equal(t, "Bali Cultural Immersion", got.TourPackage.Title)
	assert.Equal(t, 5, got.Availability.BookedSlots)
}

func TestBookingLedger_CreateBookingCapacityExceededLeavesNoBooking(t *testing.T) {
	store, svc := newDemoServices(t)
	ctx := context.Background()

	require.Equal(t, 2, slot(t, store, "10").AvailableSlots)

	_, err := svc.Bookings.CreateBooking(ctx, traveller, &models.CreateBookingRequest{
		TourPackageID: "6", AvailabilityID: "10", TotalPeople: 3,
	})
	assert.ErrorIs(t, err, models.ErrCapacityExceeded)

	bookings, err := svc.Bookings.ListUserBookings(ctx, traveller)
	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.Equal(t, 2, slot(t, store, "10").BookedSlots)
}

func TestBookingLedger_CreateBookingValidation(t *testing.T) {
	_, svc := newDemoServices(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     models.CreateBookingRequest
		wantErr error
	}{
		{"zero people", models.CreateBookingRequest{TourPackageID: "1", AvailabilityID: "1", TotalPeople: 0}, models.ErrValidation},
		{"slot of another package", models.CreateBookingRequest{TourPackageID: "1", AvailabilityID: "4", TotalPeople: 1}, models.ErrValidation},
		{"unknown package", models.CreateBookingRequest{TourPackageID: "99", AvailabilityID: "1", TotalPeople: 1}, models.ErrNotFound},
		{"unknown slot", models.CreateBookingRequest{TourPackageID: "1", AvailabilityID: "99", TotalPeople: 1}, models.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Bookings.CreateBooking(ctx, traveller, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBookingLedger_CreateThenCancelRestoresSlot(t *testing.T) {
	store, svc := newDemoServices(t)
	ctx := context.Background()
	before := slot(t, store, "5").AvailableSlots

	booking, err := svc.Bookings.CreateBooking(ctx, traveller, &models.CreateBookingRequest{
		TourPackageID: "2", AvailabilityID: "5", TotalPeople: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, before-4, slot(t, store, "5").AvailableSlots)

	cancelled, err := svc.Bookings.CancelBooking(ctx, booking.ID, traveller)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, traveller, *cancelled.CancelledBy)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Nil(t, cancelled.RefundNotice)

	assert.Equal(t, before, slot(t, store, "5").AvailableSlots)
	assertSlotInvariants(t, store)
}

func TestBookingLedger_DoubleCancelReleasesOnce(t *testing.T) {
	store, svc := newDemoServices(t)
	ctx := context.Background()

	booking, err := svc.Bookings.CreateBooking(ctx, traveller, &models.CreateBookingRequest{
		TourPackageID: "1", AvailabilityID: "3", TotalPeople: 2,
	})
	require.NoError(t, err)

	_, err = svc.Bookings.CancelBooking(ctx, booking.ID, traveller)
	require.NoError(t, err)
	afterFirst := slot(t, store, "3").BookedSlots

	_, err = svc.Bookings.CancelBooking(ctx, booking.ID, traveller)
	assert.ErrorIs(t, err, models.ErrInvalidState)
	assert.Equal(t, afterFirst, slot(t, store, "3").BookedSlots)
	assert.Equal(t, 0, afterFirst)
}

func TestBookingLedger_ConcurrentCancelReleasesOnce(t *testing.T) {
	store, svc := newDemoServices(t)
	ctx := context.Background()

	booking, err := svc.Bookings.CreateBooking(ctx, traveller, &models.CreateBookingRequest{
		TourPackageID: "5", AvailabilityID: "9", TotalPeople: 5,
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Bookings.CancelBooking(ctx, booking.ID, traveller)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, models.ErrInvalidState)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 0, slot(t, store, "9").BookedSlots)
}

func TestBookingLedger_CancelPaidBookingCarriesRefundNotice(t *testing.T) {
	store, svc := newDemoServices(t)

	resp, err := svc.Bookings.CancelBooking(context.Background(), "1", fixture.DemoUserID)
	require.NoError(t, err)
	require.NotNil(t, resp.RefundNotice)
	assert.Equal(t, models.RefundNotice, *resp.RefundNotice)
	assert.Equal(t, 2, slot(t, store, "1").BookedSlots)
}

func TestBookingLedger_CancelAuthorization(t *testing.T) {
	_, svc := newDemoServices(t)
	ctx := context.Background()

	// booking 2 is on package 3, owned by agent 3 (user "3")
	_, err := svc.Bookings.CancelBooking(ctx, "2", "stranger")
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = svc.Bookings.CancelBooking(ctx, "2", "1")
	assert.ErrorIs(t, err, models.ErrForbidden, "agent of another package")

	resp, err := svc.Bookings.CancelBooking(ctx, "2", "3")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, resp.Status)

	// rights are checked before state
	_, err = svc.Bookings.CancelBooking(ctx, "2", "stranger")
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = svc.Bookings.CancelBooking(ctx, "missing", fixture.DemoUserID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestBookingLedger_StatusTransitions(t *testing.T) {
	_, svc := newDemoServices(t)
	ctx := context.Background()

	paid, err := svc.Bookings.MarkPaid(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	_, err = svc.Bookings.MarkPaid(ctx, "2")
	assert.ErrorIs(t, err, models.ErrInvalidState)

	completed, err := svc.Bookings.MarkCompleted(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	_, err = svc.Bookings.CancelBooking(ctx, "2", fixture.DemoUserID)
	assert.ErrorIs(t, err, models.ErrInvalidState)

	booking, err := svc.Bookings.CreateBooking(ctx, traveller, &models.CreateBookingRequest{
		TourPackageID: "1", AvailabilityID: "2", TotalPeople: 1,
	})
	require.NoError(t, err)
	_, err = svc.Bookings.CancelBooking(ctx, booking.ID, traveller)
	require.NoError(t, err)

	_, err = svc.Bookings.MarkPaid(ctx, booking.ID)
	assert.ErrorIs(t, err, models.ErrInvalidState)
	_, err = svc.Bookings.MarkCompleted(ctx, booking.ID)
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestBookingLedger_DeactivatedPackageKeepsBookings(t *testing.T) {
	store, svc := newDemoServices(t)
	ctx := context.Background()

	booking, err := svc.Bookings.CreateBooking(ctx, traveller, &models.CreateBookingRequest{
		TourPackageID: "1", AvailabilityID: "2", TotalPeople: 2,
	})
	require.NoError(t, err)

	pkg, err := svc.Catalog.SetActive(ctx, "1", "1", false)
	require.NoError(t, err)
	assert.False(t, pkg.IsActive)

	bali := "Bali"
	seq, err := svc.Search.Search(ctx, models.SearchFilters{Location: &bali})
	require.NoError(t, err)
	for p := range seq {
		assert.NotEqual(t, "1", p.ID)
	}

	got, err := svc.Bookings.GetBooking(ctx, booking.ID, traveller)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, got.Status)
	require.NotNil(t, got.TourPackage)
	assert.False(t, got.TourPackage.IsActive)

	_, err = svc.Bookings.CreateBooking(ctx, traveller, &models.CreateBookingRequest{
		TourPackageID: "1", AvailabilityID: "2", TotalPeople: 1,
	})
	assert.ErrorIs(t, err, models.ErrNotFound)

	cancelled, err := svc.Bookings.CancelBooking(ctx, booking.ID, traveller)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, 2, slot(t, store, "2").BookedSlots)
}

func TestBookingLedger_GetBookingAuthorization(t *testing.T) {
	_, svc := newDemoServices(t)
	ctx := context.Background()

	_, err := svc.Bookings.GetBooking(ctx, "1", fixture.DemoUserID)
	assert.NoError(t, err)
	_, err = svc.Bookings.GetBooking(ctx, "1", "1")
	assert.NoError(t, err, "owning agent")
	_, err = svc.Bookings.GetBooking(ctx, "1", "2")
	assert.ErrorIs(t, err, models.ErrForbidden)

	assert.NoError(t, svc.Bookings.AuthorizeAgent(ctx, "1", "1"))
	assert.ErrorIs(t, svc.Bookings.AuthorizeAgent(ctx, "1", "2"), models.ErrForbidden)
}

func TestBookingLedger_ListUserBookings(t *testing.T) {
	_, svc := newDemoServices(t)

	bookings, err := svc.Bookings.ListUserBookings(context.Background(), fixture.DemoUserID)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "2", bookings[0].ID, "newest first")
	assert.Equal(t, "1", bookings[1].ID)
	for _, b := range bookings {
		assert.NotNil(t, b.TourPackage)
		assert.NotNil(t, b.Availability)
	}
}

func TestBookingLedger_CompleteElapsed(t *testing.T) {
	_, svc := newDemoServices(t)
	ctx := context.Background()

	// booking 1 is PAID on slot 1 (ends 2026-02-05); booking 2 is PENDING
	completed, err := svc.Bookings.CompleteElapsed(ctx, models.MustParseDate("2026-02-06"))
	require.NoError(t, err)
	assert.Equal(t, 1, completed)

	b, err := svc.Bookings.GetBooking(ctx, "1", fixture.DemoUserID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, b.Status)

	completed, err = svc.Bookings.CompleteElapsed(ctx, models.MustParseDate("2026-12-31"))
	require.NoError(t, err)
	assert.Equal(t, 0, completed)
}

func TestBookingLedger_InvariantsHoldAcrossOperations(t *testing.T) {
	store, svc := newDemoServices(t)
	ctx := context.Background()

	var ids []string
	for _, req := range []models.CreateBookingRequest{
		{TourPackageID: "1", AvailabilityID: "1", TotalPeople: 3},
		{TourPackageID: "2", AvailabilityID: "4", TotalPeople: 7},
		{TourPackageID: "3", AvailabilityID: "6", TotalPeople: 4},
		{TourPackageID: "4", AvailabilityID: "7", TotalPeople: 6},
		{TourPackageID: "4", AvailabilityID: "7", TotalPeople: 1},
	} {
		b, err := svc.Bookings.CreateBooking(ctx, traveller, &req)
		if err == nil {
			ids = append(ids, b.ID)
		}
		assertSlotInvariants(t, store)
	}
	require.NotEmpty(t, ids)

	for _, id := range ids {
		_, err := svc.Bookings.CancelBooking(ctx, id, traveller)
		require.NoError(t, err)
		assertSlotInvariants(t, store)
	}
}
