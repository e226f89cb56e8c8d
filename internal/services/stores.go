package services

import (
	"context"

	"github.com/jelajah/tour-booking-backend/internal/models"
)

// Transactor runs fn atomically: either every write made through the stores
// with the ctx passed to fn is kept, or none is.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// LocationStore reads location reference data
type LocationStore interface {
	List(ctx context.Context) ([]models.Location, error)
	GetByID(ctx context.Context, id string) (*models.Location, error)
}

// AgentStore reads agent profiles
type AgentStore interface {
	List(ctx context.Context, locationName string) ([]models.Agent, error)
	GetByID(ctx context.Context, id string) (*models.Agent, error)
	GetByUserID(ctx context.Context, userID string) (*models.Agent, error)
}

// TourPackageStore persists packages with their destinations.
// List methods return packages in insertion order.
type TourPackageStore interface {
	Create(ctx context.Context, pkg *models.TourPackage) error
	GetByID(ctx context.Context, id string) (*models.TourPackage, error)
	ListActive(ctx context.Context) ([]models.TourPackage, error)
	ListByAgent(ctx context.Context, agentID string) ([]models.TourPackage, error)
	SetActive(ctx context.Context, id string, active bool) (*models.TourPackage, error)
}

// AvailabilityStore persists slots. Reserve must be a single atomic
// compare-and-increment: it fails with a CapacityExceeded error when
// booked_slots + count would exceed max_capacity, and with NotFound when the
// slot is missing or its package is inactive.
type AvailabilityStore interface {
	Create(ctx context.Context, slot *models.Availability) error
	GetByID(ctx context.Context, id string) (*models.Availability, error)
	ListByPackage(ctx context.Context, packageID string) ([]models.Availability, error)
	ListByPackages(ctx context.Context, packageIDs []string) (map[string][]models.Availability, error)
	Reserve(ctx context.Context, id string, count int) (*models.Availability, error)
	Release(ctx context.Context, id string, count int) (*models.Availability, error)
}

// BookingStore persists bookings. Transition is a conditional update that
// only applies when the current status is one of from; otherwise it returns
// an InvalidState error (or NotFound).
type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	Transition(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus, actorID *string) (*models.Booking, error)
	ListPaidEndingBefore(ctx context.Context, date models.Date) ([]models.Booking, error)
}

// LocationCache caches the location list; implementations may be absent
type LocationCache interface {
	GetLocations(ctx context.Context) ([]models.Location, bool)
	SetLocations(ctx context.Context, locations []models.Location)
}
