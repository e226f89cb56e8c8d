package tourapi

import (
	"github.com/jelajah/tour-booking-backend/internal/fixture"
	"github.com/jelajah/tour-booking-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// demoLedger is the seeded in-memory catalog the client answers from while
// the backend is down. Bookings made here stay in this process.
type demoLedger struct {
	userID string
	svc    *services.Services
}

func newDemoLedger(userID string, logger *logrus.Logger) *demoLedger {
	return &demoLedger{
		userID: userID,
		svc:    services.New(fixture.NewDemoStore().Stores(), nil, logger),
	}
}
