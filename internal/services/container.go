package services

import (
	"github.com/sirupsen/logrus"
)

// Stores bundles one store implementation per entity. All of them must share
// the transaction scope of Tx.
type Stores struct {
	Tx            Transactor
	Locations     LocationStore
	Agents        AgentStore
	Packages      TourPackageStore
	Availability  AvailabilityStore
	Bookings      BookingStore
	LocationCache LocationCache
}

// Services is the wired set of domain services behind the HTTP handlers
type Services struct {
	Availability *AvailabilityLedger
	Bookings     *BookingLedger
	Search       *SearchService
	Catalog      *CatalogService
	Directory    *DirectoryService
	Chat         *ChatService
	Vouchers     *VoucherService
}

// New wires the services over stores. generator may be nil.
func New(stores Stores, generator ContentGenerator, logger *logrus.Logger) *Services {
	ledger := NewAvailabilityLedger(stores.Availability, stores.Packages, logger)
	bookings := NewBookingLedger(
		stores.Tx,
		stores.Bookings,
		stores.Packages,
		stores.Availability,
		stores.Agents,
		ledger,
		logger,
	)
	search := NewSearchService(stores.Packages, stores.Availability, stores.Locations, stores.Agents, logger)

	return &Services{
		Availability: ledger,
		Bookings:     bookings,
		Search:       search,
		Catalog:      NewCatalogService(stores.Packages, stores.Locations, stores.Agents, stores.Availability, ledger, logger),
		Directory:    NewDirectoryService(stores.Locations, stores.Agents, stores.Packages, stores.Availability, stores.LocationCache, logger),
		Chat:         NewChatService(search, generator, logger),
		Vouchers:     NewVoucherService(bookings),
	}
}
