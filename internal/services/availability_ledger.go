package services

import (
	"context"

	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// AvailabilityLedger owns the per-slot inventory counters. booked_slots only
// changes through Reserve and Release.
type AvailabilityLedger struct {
	slots    AvailabilityStore
	packages TourPackageStore
	logger   *logrus.Logger
}

// NewAvailabilityLedger creates a new AvailabilityLedger
func NewAvailabilityLedger(slots AvailabilityStore, packages TourPackageStore, logger *logrus.Logger) *AvailabilityLedger {
	return &AvailabilityLedger{
		slots:    slots,
		packages: packages,
		logger:   logger,
	}
}

// AddSlot creates an empty slot for a package
func (l *AvailabilityLedger) AddSlot(ctx context.Context, packageID string, start, end models.Date, capacity int) (*models.Availability, error) {
	if !start.Before(end) {
		return nil, models.NewValidationError("start_date (%s) must be before end_date (%s)", start, end)
	}
	if capacity < 1 {
		return nil, models.NewValidationError("max_capacity must be at least 1")
	}

	if _, err := l.packages.GetByID(ctx, packageID); err != nil {
		return nil, err
	}

	slot := &models.Availability{
		TourPackageID: packageID,
		StartDate:     start,
		EndDate:       end,
		MaxCapacity:   capacity,
	}
	if err := l.slots.Create(ctx, slot); err != nil {
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"package_id":      packageID,
		"availability_id": slot.ID,
		"start_date":      start.String(),
		"end_date":        end.String(),
		"max_capacity":    capacity,
	}).Info("Availability slot added")

	return slot, nil
}

// Reserve takes count places from a slot
func (l *AvailabilityLedger) Reserve(ctx context.Context, availabilityID string, count int) (*models.Availability, error) {
	if count < 1 {
		return nil, models.NewValidationError("reservation count must be at least 1")
	}
	return l.slots.Reserve(ctx, availabilityID, count)
}

// Release gives count places back to a slot, flooring booked_slots at 0
func (l *AvailabilityLedger) Release(ctx context.Context, availabilityID string, count int) (*models.Availability, error) {
	if count < 0 {
		return nil, models.NewValidationError("release count cannot be negative")
	}
	return l.slots.Release(ctx, availabilityID, count)
}

// ListForPackage returns a package's slots ordered by start date
func (l *AvailabilityLedger) ListForPackage(ctx context.Context, packageID string) ([]models.Availability, error) {
	return l.slots.ListByPackage(ctx, packageID)
}
