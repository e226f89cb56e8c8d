// Package fixture is the in-memory data source used for demos and tests. It
// implements the same store contracts as the Postgres repositories.
package fixture

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/jelajah/tour-booking-backend/internal/services"
)

type undoKey struct{}

// undoLog collects compensating actions for the writes made inside WithinTx.
// Steps run in reverse with the store lock held.
type undoLog struct {
	mu    sync.Mutex
	steps []func()
}

func (l *undoLog) push(step func()) {
	l.mu.Lock()
	l.steps = append(l.steps, step)
	l.mu.Unlock()
}

func (l *undoLog) rollback() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.steps) - 1; i >= 0; i-- {
		l.steps[i]()
	}
	l.steps = nil
}

// Store keeps every table in memory behind one mutex. Reads hand out copies.
type Store struct {
	mu sync.Mutex

	locations    []models.Location
	agents       []models.Agent
	packages     map[string]*models.TourPackage
	packageOrder []string
	slots        map[string]*models.Availability
	slotOrder    []string
	bookings     map[string]*models.Booking

	now func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		packages: make(map[string]*models.TourPackage),
		slots:    make(map[string]*models.Availability),
		bookings: make(map[string]*models.Booking),
		now:      time.Now,
	}
}

// WithinTx runs fn and undoes its writes when it fails. Nested calls join the
// outer log.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(undoKey{}).(*undoLog); ok {
		return fn(ctx)
	}

	log := &undoLog{}
	if err := fn(context.WithValue(ctx, undoKey{}, log)); err != nil {
		s.mu.Lock()
		log.rollback()
		s.mu.Unlock()
		return err
	}
	return nil
}

// record registers undo when ctx carries a log. Callers hold s.mu.
func (s *Store) record(ctx context.Context, undo func()) {
	if log, ok := ctx.Value(undoKey{}).(*undoLog); ok {
		log.push(undo)
	}
}

// Stores exposes the store as the service layer's store set
func (s *Store) Stores() services.Stores {
	return services.Stores{
		Tx:           s,
		Locations:    s.Locations(),
		Agents:       s.Agents(),
		Packages:     s.Packages(),
		Availability: s.Availability(),
		Bookings:     s.Bookings(),
	}
}

// Locations returns the location view
func (s *Store) Locations() *LocationStore { return &LocationStore{s: s} }

// Agents returns the agent view
func (s *Store) Agents() *AgentStore { return &AgentStore{s: s} }

// Packages returns the tour package view
func (s *Store) Packages() *TourPackageStore { return &TourPackageStore{s: s} }

// Availability returns the slot view
func (s *Store) Availability() *AvailabilityStore { return &AvailabilityStore{s: s} }

// Bookings returns the booking view
func (s *Store) Bookings() *BookingStore { return &BookingStore{s: s} }

// LocationStore serves locations
type LocationStore struct{ s *Store }

// List returns every location ordered by name
func (v *LocationStore) List(ctx context.Context) ([]models.Location, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	out := slices.Clone(v.s.locations)
	slices.SortStableFunc(out, func(a, b models.Location) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// GetByID retrieves a location by ID
func (v *LocationStore) GetByID(ctx context.Context, id string) (*models.Location, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, l := range v.s.locations {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, models.NewNotFoundError("location", id)
}

// AgentStore serves agent profiles
type AgentStore struct{ s *Store }

// List returns agents whose location name contains locationName, best rated first
func (v *AgentStore) List(ctx context.Context, locationName string) ([]models.Agent, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	needle := strings.ToLower(locationName)
	out := []models.Agent{}
	for _, a := range v.s.agents {
		if needle != "" && !strings.Contains(strings.ToLower(v.s.locationName(a.LocationID)), needle) {
			continue
		}
		out = append(out, a)
	}
	slices.SortStableFunc(out, func(a, b models.Agent) int {
		if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
			return c
		}
		if c := cmp.Compare(b.TotalReviews, a.TotalReviews); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// GetByID retrieves an agent by ID
func (v *AgentStore) GetByID(ctx context.Context, id string) (*models.Agent, error) {
	return v.find(func(a models.Agent) bool { return a.ID == id }, id)
}

// GetByUserID retrieves the agent profile of a user account
func (v *AgentStore) GetByUserID(ctx context.Context, userID string) (*models.Agent, error) {
	return v.find(func(a models.Agent) bool { return a.UserID == userID }, userID)
}

func (v *AgentStore) find(match func(models.Agent) bool, key string) (*models.Agent, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for _, a := range v.s.agents {
		if match(a) {
			return &a, nil
		}
	}
	return nil, models.NewNotFoundError("agent", key)
}

func (s *Store) locationName(id string) string {
	for _, l := range s.locations {
		if l.ID == id {
			return l.Name
		}
	}
	return ""
}

// TourPackageStore serves packages in insertion order
type TourPackageStore struct{ s *Store }

// Create stores a package and its destinations
func (v *TourPackageStore) Create(ctx context.Context, pkg *models.TourPackage) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if pkg.ID == "" {
		pkg.ID = uuid.New().String()
	}
	if _, exists := v.s.packages[pkg.ID]; exists {
		return fmt.Errorf("failed to create tour package: duplicate id %s", pkg.ID)
	}
	for i := range pkg.Destinations {
		if pkg.Destinations[i].ID == "" {
			pkg.Destinations[i].ID = uuid.New().String()
		}
		pkg.Destinations[i].TourPackageID = pkg.ID
	}
	now := v.s.now()
	pkg.CreatedAt, pkg.UpdatedAt = now, now

	v.s.putPackage(clonePackage(pkg))
	id := pkg.ID
	v.s.record(ctx, func() {
		delete(v.s.packages, id)
		v.s.packageOrder = slices.DeleteFunc(v.s.packageOrder, func(p string) bool { return p == id })
	})
	return nil
}

// GetByID retrieves a package, active or not
func (v *TourPackageStore) GetByID(ctx context.Context, id string) (*models.TourPackage, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	pkg, ok := v.s.packages[id]
	if !ok {
		return nil, models.NewNotFoundError("tour package", id)
	}
	return clonePackage(pkg), nil
}

// ListActive returns active packages in insertion order
func (v *TourPackageStore) ListActive(ctx context.Context) ([]models.TourPackage, error) {
	return v.list(func(p *models.TourPackage) bool { return p.IsActive }), nil
}

// ListByAgent returns every package of an agent
func (v *TourPackageStore) ListByAgent(ctx context.Context, agentID string) ([]models.TourPackage, error) {
	return v.list(func(p *models.TourPackage) bool { return p.AgentID == agentID }), nil
}

// SetActive flips is_active and returns the updated package
func (v *TourPackageStore) SetActive(ctx context.Context, id string, active bool) (*models.TourPackage, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	pkg, ok := v.s.packages[id]
	if !ok {
		return nil, models.NewNotFoundError("tour package", id)
	}
	prevActive, prevUpdated := pkg.IsActive, pkg.UpdatedAt
	pkg.IsActive = active
	pkg.UpdatedAt = v.s.now()
	v.s.record(ctx, func() {
		pkg.IsActive, pkg.UpdatedAt = prevActive, prevUpdated
	})
	return clonePackage(pkg), nil
}

func (v *TourPackageStore) list(keep func(*models.TourPackage) bool) []models.TourPackage {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	out := []models.TourPackage{}
	for _, id := range v.s.packageOrder {
		if p := v.s.packages[id]; keep(p) {
			out = append(out, *clonePackage(p))
		}
	}
	return out
}

func (s *Store) putPackage(pkg *models.TourPackage) {
	s.packages[pkg.ID] = pkg
	s.packageOrder = append(s.packageOrder, pkg.ID)
}

func clonePackage(p *models.TourPackage) *models.TourPackage {
	c := *p
	c.Destinations = slices.Clone(p.Destinations)
	if c.Destinations == nil {
		c.Destinations = []models.Destination{}
	}
	c.Images = slices.Clone(p.Images)
	return &c
}

// AvailabilityStore serves slots. Reserve and Release are atomic under the store lock.
type AvailabilityStore struct{ s *Store }

// Create stores a slot with booked_slots = 0
func (v *AvailabilityStore) Create(ctx context.Context, slot *models.Availability) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	if _, exists := v.s.slots[slot.ID]; exists {
		return fmt.Errorf("failed to create availability: duplicate id %s", slot.ID)
	}
	slot.BookedSlots = 0
	slot.AvailableSlots = slot.MaxCapacity
	slot.CreatedAt = v.s.now()

	v.s.putSlot(slot)
	id := slot.ID
	v.s.record(ctx, func() {
		delete(v.s.slots, id)
		v.s.slotOrder = slices.DeleteFunc(v.s.slotOrder, func(s string) bool { return s == id })
	})
	return nil
}

// GetByID retrieves a slot by ID
func (v *AvailabilityStore) GetByID(ctx context.Context, id string) (*models.Availability, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	slot, ok := v.s.slots[id]
	if !ok {
		return nil, models.NewNotFoundError("availability", id)
	}
	c := *slot
	return &c, nil
}

// ListByPackage returns the slots of a package ordered by start date
func (v *AvailabilityStore) ListByPackage(ctx context.Context, packageID string) ([]models.Availability, error) {
	all, err := v.ListByPackages(ctx, []string{packageID})
	if err != nil {
		return nil, err
	}
	if all[packageID] == nil {
		return []models.Availability{}, nil
	}
	return all[packageID], nil
}

// ListByPackages batch-loads slots keyed by package ID
func (v *AvailabilityStore) ListByPackages(ctx context.Context, packageIDs []string) (map[string][]models.Availability, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	result := make(map[string][]models.Availability, len(packageIDs))
	for _, id := range v.s.slotOrder {
		slot := v.s.slots[id]
		if slices.Contains(packageIDs, slot.TourPackageID) {
			result[slot.TourPackageID] = append(result[slot.TourPackageID], *slot)
		}
	}
	for id := range result {
		slices.SortStableFunc(result[id], func(a, b models.Availability) int {
			return a.StartDate.Compare(b.StartDate.Time)
		})
	}
	return result, nil
}

// Reserve checks and increments booked_slots under the store lock
func (v *AvailabilityStore) Reserve(ctx context.Context, id string, count int) (*models.Availability, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	slot, ok := v.s.slots[id]
	if !ok {
		return nil, models.NewNotFoundError("availability", id)
	}
	if pkg, ok := v.s.packages[slot.TourPackageID]; !ok || !pkg.IsActive {
		return nil, models.NewNotFoundError("availability", id)
	}
	if !slot.HasRoomFor(count) {
		return nil, models.NewCapacityExceededError(count, slot.AvailableSlots)
	}

	setBooked(slot, slot.BookedSlots+count)
	v.s.record(ctx, func() { setBooked(slot, slot.BookedSlots-count) })
	c := *slot
	return &c, nil
}

// Release decrements booked_slots by count, floored at 0
func (v *AvailabilityStore) Release(ctx context.Context, id string, count int) (*models.Availability, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	slot, ok := v.s.slots[id]
	if !ok {
		return nil, models.NewNotFoundError("availability", id)
	}

	released := min(count, slot.BookedSlots)
	setBooked(slot, slot.BookedSlots-released)
	v.s.record(ctx, func() { setBooked(slot, slot.BookedSlots+released) })
	c := *slot
	return &c, nil
}

func setBooked(slot *models.Availability, booked int) {
	slot.BookedSlots = booked
	slot.AvailableSlots = slot.MaxCapacity - booked
}

func (s *Store) putSlot(slot *models.Availability) {
	c := *slot
	s.slots[slot.ID] = &c
	s.slotOrder = append(s.slotOrder, slot.ID)
}

// BookingStore serves bookings
type BookingStore struct{ s *Store }

// Create stores a booking
func (v *BookingStore) Create(ctx context.Context, booking *models.Booking) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if _, exists := v.s.bookings[booking.ID]; exists {
		return fmt.Errorf("failed to create booking: duplicate id %s", booking.ID)
	}
	now := v.s.now()
	booking.CreatedAt, booking.UpdatedAt = now, now

	c := *booking
	v.s.bookings[booking.ID] = &c
	id := booking.ID
	v.s.record(ctx, func() { delete(v.s.bookings, id) })
	return nil
}

// GetByID retrieves a booking by ID
func (v *BookingStore) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	b, ok := v.s.bookings[id]
	if !ok {
		return nil, models.NewNotFoundError("booking", id)
	}
	c := *b
	return &c, nil
}

// ListByUser returns a user's bookings, newest first
func (v *BookingStore) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	out := []models.Booking{}
	for _, b := range v.s.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	slices.SortFunc(out, func(a, b models.Booking) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Transition moves a booking to status to when its current status is one of from
func (v *BookingStore) Transition(ctx context.Context, id string, from []models.BookingStatus, to models.BookingStatus, actorID *string) (*models.Booking, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	b, ok := v.s.bookings[id]
	if !ok {
		return nil, models.NewNotFoundError("booking", id)
	}
	if !slices.Contains(from, b.Status) {
		return nil, models.NewInvalidStateError(b.Status, to)
	}

	prev := *b
	now := v.s.now()
	b.Status = to
	b.UpdatedAt = now
	switch to {
	case models.BookingStatusPaid:
		b.PaidAt = &now
	case models.BookingStatusCancelled:
		b.CancelledAt = &now
		b.CancelledBy = actorID
	case models.BookingStatusCompleted:
		b.CompletedAt = &now
	}
	v.s.record(ctx, func() { *b = prev })

	c := *b
	return &c, nil
}

// ListPaidEndingBefore returns PAID bookings whose slot ended before date
func (v *BookingStore) ListPaidEndingBefore(ctx context.Context, date models.Date) ([]models.Booking, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	out := []models.Booking{}
	for _, b := range v.s.bookings {
		if b.Status != models.BookingStatusPaid {
			continue
		}
		if slot, ok := v.s.slots[b.AvailabilityID]; ok && slot.EndDate.Before(date) {
			out = append(out, *b)
		}
	}
	slices.SortFunc(out, func(a, b models.Booking) int {
		ea, eb := v.s.slots[a.AvailabilityID].EndDate, v.s.slots[b.AvailabilityID].EndDate
		if c := ea.Compare(eb.Time); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}
