package database

import (
	"github.com/jelajah/tour-booking-backend/internal/services"
)

// NewStores builds the Postgres-backed store set. Every repository shares db,
// so writes made inside db.WithinTx join the same transaction.
func NewStores(db DB) services.Stores {
	return services.Stores{
		Tx:           db,
		Locations:    NewLocationRepository(db),
		Agents:       NewAgentRepository(db),
		Packages:     NewTourPackageRepository(db),
		Availability: NewAvailabilityRepository(db),
		Bookings:     NewBookingRepository(db),
	}
}
