package services

import (
	"context"
	"errors"
	"time"

	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// BookingLedger creates, cancels and advances bookings, keeping slot
// counters consistent with the bookings that hold them.
type BookingLedger struct {
	tx       Transactor
	bookings BookingStore
	packages TourPackageStore
	slots    AvailabilityStore
	agents   AgentStore
	ledger   *AvailabilityLedger
	logger   *logrus.Logger
	now      func() time.Time
}

// NewBookingLedger creates a new BookingLedger
func NewBookingLedger(
	tx Transactor,
	bookings BookingStore,
	packages TourPackageStore,
	slots AvailabilityStore,
	agents AgentStore,
	ledger *AvailabilityLedger,
	logger *logrus.Logger,
) *BookingLedger {
	return &BookingLedger{
		tx:       tx,
		bookings: bookings,
		packages: packages,
		slots:    slots,
		agents:   agents,
		ledger:   ledger,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateBooking reserves the slot and records a PENDING booking in one
// transaction. A failed reservation leaves no booking behind.
func (l *BookingLedger) CreateBooking(ctx context.Context, userID string, req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pkg, err := l.packages.GetByID(ctx, req.TourPackageID)
	if err != nil {
		return nil, err
	}
	if !pkg.IsActive {
		return nil, models.NewNotFoundError("tour package", req.TourPackageID)
	}

	slot, err := l.slots.GetByID(ctx, req.AvailabilityID)
	if err != nil {
		return nil, err
	}
	if slot.TourPackageID != pkg.ID {
		return nil, models.NewValidationError("availability %s does not belong to tour package %s", slot.ID, pkg.ID)
	}

	booking := &models.Booking{
		UserID:         userID,
		TourPackageID:  pkg.ID,
		AvailabilityID: slot.ID,
		TotalPeople:    req.TotalPeople,
		TotalPrice:     pkg.PricePerPerson * int64(req.TotalPeople),
		Status:         models.BookingStatusPending,
		BookingDate:    today(l.now()),
		Notes:          req.Notes,
	}

	err = l.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := l.ledger.Reserve(ctx, slot.ID, req.TotalPeople); err != nil {
			return err
		}
		return l.bookings.Create(ctx, booking)
	})
	if err != nil {
		l.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":         userID,
			"availability_id": slot.ID,
			"total_people":    req.TotalPeople,
		}).Warn("Booking not created")
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"booking_id":      booking.ID,
		"user_id":         userID,
		"availability_id": slot.ID,
		"total_people":    booking.TotalPeople,
		"total_price":     booking.TotalPrice,
	}).Info("Booking created")

	return booking, nil
}

// CancelBooking cancels a PENDING or PAID booking and releases its slots in
// one transaction. Only the booker or the owning agent may cancel.
func (l *BookingLedger) CancelBooking(ctx context.Context, bookingID, actorID string) (*models.CancelBookingResponse, error) {
	booking, err := l.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := l.authorize(ctx, booking, actorID); err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(models.BookingStatusCancelled) {
		return nil, models.NewInvalidStateError(booking.Status, models.BookingStatusCancelled)
	}

	var cancelled *models.Booking
	err = l.tx.WithinTx(ctx, func(ctx context.Context) error {
		// The conditional transition lets exactly one of two racing cancels through
		cancelled, err = l.bookings.Transition(ctx, bookingID,
			[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusPaid},
			models.BookingStatusCancelled, &actorID)
		if err != nil {
			return err
		}
		_, err = l.ledger.Release(ctx, cancelled.AvailabilityID, cancelled.TotalPeople)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"booking_id":   bookingID,
		"cancelled_by": actorID,
		"released":     cancelled.TotalPeople,
	}).Info("Booking cancelled")

	resp := &models.CancelBookingResponse{Booking: *cancelled}
	if cancelled.PaidAt != nil {
		notice := models.RefundNotice
		resp.RefundNotice = &notice
	}
	return resp, nil
}

// MarkPaid moves a PENDING booking to PAID
func (l *BookingLedger) MarkPaid(ctx context.Context, bookingID string) (*models.Booking, error) {
	return l.advance(ctx, bookingID, models.BookingStatusPending, models.BookingStatusPaid)
}

// MarkCompleted moves a PAID booking to COMPLETED
func (l *BookingLedger) MarkCompleted(ctx context.Context, bookingID string) (*models.Booking, error) {
	return l.advance(ctx, bookingID, models.BookingStatusPaid, models.BookingStatusCompleted)
}

func (l *BookingLedger) advance(ctx context.Context, bookingID string, from, to models.BookingStatus) (*models.Booking, error) {
	booking, err := l.bookings.Transition(ctx, bookingID, []models.BookingStatus{from}, to, nil)
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"status":     to,
	}).Info("Booking status updated")
	return booking, nil
}

// GetBooking returns a booking with its package and slot. Only the booker or
// the owning agent may read it.
func (l *BookingLedger) GetBooking(ctx context.Context, bookingID, actorID string) (*models.BookingResponse, error) {
	booking, err := l.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := l.authorize(ctx, booking, actorID); err != nil {
		return nil, err
	}
	return l.expand(ctx, *booking)
}

// ListUserBookings returns a user's bookings, newest first
func (l *BookingLedger) ListUserBookings(ctx context.Context, userID string) ([]models.BookingResponse, error) {
	bookings, err := l.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp, err := l.expand(ctx, b)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

// AuthorizeAgent checks that the booking belongs to one of agentID's packages
func (l *BookingLedger) AuthorizeAgent(ctx context.Context, bookingID, agentID string) error {
	booking, err := l.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	pkg, err := l.packages.GetByID(ctx, booking.TourPackageID)
	if err != nil {
		return err
	}
	if pkg.AgentID != agentID {
		return models.NewForbiddenError("booking does not belong to your tour packages")
	}
	return nil
}

// CompleteElapsed completes every PAID booking whose slot ended before asOf.
// Bookings cancelled concurrently are skipped.
func (l *BookingLedger) CompleteElapsed(ctx context.Context, asOf models.Date) (int, error) {
	elapsed, err := l.bookings.ListPaidEndingBefore(ctx, asOf)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, b := range elapsed {
		_, err := l.bookings.Transition(ctx, b.ID,
			[]models.BookingStatus{models.BookingStatusPaid}, models.BookingStatusCompleted, nil)
		if errors.Is(err, models.ErrInvalidState) {
			continue
		}
		if err != nil {
			return completed, err
		}
		completed++
	}

	l.logger.WithFields(logrus.Fields{
		"as_of":      asOf.String(),
		"candidates": len(elapsed),
		"completed":  completed,
	}).Info("Elapsed bookings completed")
	return completed, nil
}

// authorize allows the booker and the agent owning the booked package
func (l *BookingLedger) authorize(ctx context.Context, booking *models.Booking, actorID string) error {
	if actorID != "" && booking.UserID == actorID {
		return nil
	}

	agent, err := l.agents.GetByUserID(ctx, actorID)
	if errors.Is(err, models.ErrNotFound) {
		return models.NewForbiddenError("not allowed to access this booking")
	}
	if err != nil {
		return err
	}

	pkg, err := l.packages.GetByID(ctx, booking.TourPackageID)
	if err != nil {
		return err
	}
	if pkg.AgentID != agent.ID {
		return models.NewForbiddenError("not allowed to access this booking")
	}
	return nil
}

func (l *BookingLedger) expand(ctx context.Context, b models.Booking) (*models.BookingResponse, error) {
	resp := &models.BookingResponse{Booking: b}

	pkg, err := l.packages.GetByID(ctx, b.TourPackageID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	resp.TourPackage = pkg

	slot, err := l.slots.GetByID(ctx, b.AvailabilityID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	resp.Availability = slot

	return resp, nil
}

// today truncates t to its calendar day in t's location
func today(t time.Time) models.Date {
	return models.NewDate(t.Year(), t.Month(), t.Day())
}
