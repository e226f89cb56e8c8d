package fixture

import (
	"strconv"
	"time"

	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/lib/pq"
)

// DemoUserID owns the seeded bookings
const DemoUserID = "demo-user"

func strPtr(s string) *string { return &s }

func day(s string) time.Time { return models.MustParseDate(s).Time }

// NewDemoStore returns a store seeded with the demo catalog
func NewDemoStore() *Store {
	s := NewStore()
	Seed(s)
	return s
}

// Seed loads the demo catalog: 8 locations, 5 agents, 6 packages, 10 slots
// and 2 bookings of DemoUserID. Slot counters are taken as-is.
func Seed(s *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.locations = append(s.locations,
		models.Location{ID: "1", Name: "Bali", Province: strPtr("Bali"), Country: "Indonesia"},
		models.Location{ID: "2", Name: "Yogyakarta", Province: strPtr("D.I. Yogyakarta"), Country: "Indonesia"},
		models.Location{ID: "3", Name: "Jakarta", Province: strPtr("DKI Jakarta"), Country: "Indonesia"},
		models.Location{ID: "4", Name: "Lombok", Province: strPtr("West Nusa Tenggara"), Country: "Indonesia"},
		models.Location{ID: "5", Name: "Raja Ampat", Province: strPtr("West Papua"), Country: "Indonesia"},
		models.Location{ID: "6", Name: "Bandung", Province: strPtr("West Java"), Country: "Indonesia"},
		models.Location{ID: "7", Name: "Komodo", Province: strPtr("East Nusa Tenggara"), Country: "Indonesia"},
		models.Location{ID: "8", Name: "Labuan Bajo", Province: strPtr("East Nusa Tenggara"), Country: "Indonesia"},
	)

	s.agents = append(s.agents,
		models.Agent{
			ID: "1", UserID: "1", Name: "Bali Adventures", LocationID: "1",
			Description: strPtr("Your gateway to authentic Balinese experiences. We specialize in cultural tours, temple visits, and hidden gem explorations."),
			Rating:      4.9, TotalReviews: 156,
			AvatarURL: strPtr("https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=100&h=100&fit=crop"),
			SocialLinks: models.SocialLinks{
				Instagram: strPtr("https://instagram.com/baliadventures"),
				WhatsApp:  strPtr("+6281234567890"),
			},
			IsVerified: true, CreatedAt: day("2023-01-15"),
		},
		models.Agent{
			ID: "2", UserID: "2", Name: "Jogja Cultural Tours", LocationID: "2",
			Description: strPtr("Discover the heart of Javanese culture with our expert guides. Temple tours, batik workshops, and traditional cuisine experiences."),
			Rating:      4.7, TotalReviews: 89,
			AvatarURL: strPtr("https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=100&h=100&fit=crop"),
			SocialLinks: models.SocialLinks{
				Instagram: strPtr("https://instagram.com/jogjatours"),
				WhatsApp:  strPtr("+6281234567891"),
			},
			IsVerified: true, CreatedAt: day("2023-02-20"),
		},
		models.Agent{
			ID: "3", UserID: "3", Name: "Lombok Paradise", LocationID: "4",
			Description: strPtr("Beach lovers paradise! We offer snorkeling, surfing, and Mount Rinjani trekking adventures."),
			Rating:      4.8, TotalReviews: 67,
			AvatarURL: strPtr("https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=100&h=100&fit=crop"),
			SocialLinks: models.SocialLinks{
				Instagram: strPtr("https://instagram.com/lombokparadise"),
				WhatsApp:  strPtr("+6281234567892"),
			},
			IsVerified: true, CreatedAt: day("2023-03-10"),
		},
		models.Agent{
			ID: "4", UserID: "4", Name: "Raja Ampat Diving", LocationID: "5",
			Description: strPtr("World-class diving experiences in the heart of the Coral Triangle. PADI certified instructors."),
			Rating:      5.0, TotalReviews: 45,
			AvatarURL: strPtr("https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=100&h=100&fit=crop"),
			SocialLinks: models.SocialLinks{
				Instagram: strPtr("https://instagram.com/rajadivers"),
				Website:   strPtr("https://rajaampatdiving.com"),
			},
			IsVerified: true, CreatedAt: day("2023-04-05"),
		},
		models.Agent{
			ID: "5", UserID: "5", Name: "Komodo Explorer", LocationID: "7",
			Description: strPtr("Meet the legendary Komodo dragons and explore pristine islands with our expert rangers."),
			Rating:      4.9, TotalReviews: 78,
			AvatarURL: strPtr("https://images.unsplash.com/photo-1544005313-94ddf0286df2?w=100&h=100&fit=crop"),
			SocialLinks: models.SocialLinks{
				Instagram: strPtr("https://instagram.com/komodoexplorer"),
				WhatsApp:  strPtr("+6281234567894"),
			},
			IsVerified: true, CreatedAt: day("2023-05-15"),
		},
	)

	for _, p := range demoPackages() {
		p.UpdatedAt = p.CreatedAt
		s.putPackage(p)
	}

	for _, a := range []models.Availability{
		demoSlot("1", "1", "2026-02-01", "2026-02-05", 12, 4),
		demoSlot("2", "1", "2026-02-15", "2026-02-19", 12, 2),
		demoSlot("3", "1", "2026-03-01", "2026-03-05", 12, 0),
		demoSlot("4", "2", "2026-02-05", "2026-02-08", 15, 8),
		demoSlot("5", "2", "2026-02-20", "2026-02-23", 15, 3),
		demoSlot("6", "3", "2026-02-10", "2026-02-16", 10, 6),
		demoSlot("7", "4", "2026-03-01", "2026-03-08", 8, 2),
		demoSlot("8", "5", "2026-02-15", "2026-02-19", 12, 5),
		demoSlot("9", "5", "2026-03-10", "2026-03-14", 12, 0),
		demoSlot("10", "6", "2026-02-14", "2026-02-20", 4, 2),
	} {
		s.putSlot(&a)
	}

	paidAt := day("2024-01-21")
	for _, b := range []models.Booking{
		{
			ID: "1", UserID: DemoUserID, TourPackageID: "1", AvailabilityID: "1",
			TotalPeople: 2, TotalPrice: 7000000, Status: models.BookingStatusPaid,
			BookingDate: models.MustParseDate("2024-01-20"), PaidAt: &paidAt,
			CreatedAt: day("2024-01-20"), UpdatedAt: day("2024-01-21"),
		},
		{
			ID: "2", UserID: DemoUserID, TourPackageID: "3", AvailabilityID: "6",
			TotalPeople: 3, TotalPrice: 12600000, Status: models.BookingStatusPending,
			BookingDate: models.MustParseDate("2024-01-25"),
			CreatedAt:   day("2024-01-25"), UpdatedAt: day("2024-01-25"),
		},
	} {
		c := b
		s.bookings[b.ID] = &c
	}
}

func demoSlot(id, packageID, start, end string, capacity, booked int) models.Availability {
	return models.Availability{
		ID:             id,
		TourPackageID:  packageID,
		StartDate:      models.MustParseDate(start),
		EndDate:        models.MustParseDate(end),
		MaxCapacity:    capacity,
		BookedSlots:    booked,
		AvailableSlots: capacity - booked,
		CreatedAt:      day("2025-12-01"),
	}
}

func destinations(packageID string, firstID int, stops ...[2]string) []models.Destination {
	out := make([]models.Destination, len(stops))
	for i, stop := range stops {
		out[i] = models.Destination{
			ID:            strconv.Itoa(firstID + i),
			TourPackageID: packageID,
			Name:          stop[0],
			Description:   strPtr(stop[1]),
			Order:         i + 1,
		}
	}
	return out
}

func demoPackages() []*models.TourPackage {
	const photo = "https://images.unsplash.com/photo-"
	return []*models.TourPackage{
		{
			ID: "1", Title: "Bali Cultural Immersion",
			Description: "Experience authentic Balinese culture with temple visits, traditional dance performances, and local cuisine. This comprehensive tour takes you through the spiritual heart of Bali, from the majestic Tanah Lot temple to the artistic village of Ubud. Includes visits to rice terraces, local markets, and a traditional Balinese cooking class.",
			LocationID:  "1", MinDays: 4, MaxDays: 5, PricePerPerson: 3500000, MaxCapacity: 12,
			IncludesTransport: true, IncludesAccommodation: true,
			Destinations: destinations("1", 1,
				[2]string{"Tanah Lot Temple", "Iconic sea temple"},
				[2]string{"Ubud Art Market", "Traditional crafts"},
				[2]string{"Tegallalang Rice Terraces", "UNESCO heritage"},
				[2]string{"Uluwatu Temple", "Sunset kecak dance"},
			),
			AgentID: "1", Rating: 4.9, TotalReviews: 156,
			ThumbnailURL: strPtr(photo + "1537996194471-e657df975ab4?w=800&h=600&fit=crop"),
			Images: pq.StringArray{
				photo + "1537996194471-e657df975ab4?w=1200&h=800&fit=crop",
				photo + "1555400038-63f5ba517a47?w=1200&h=800&fit=crop",
				photo + "1518548419970-58e3b4079ab2?w=1200&h=800&fit=crop",
			},
			IsActive: true, CreatedAt: day("2024-01-15"),
		},
		{
			ID: "2", Title: "Yogyakarta Heritage Tour",
			Description: "Discover the ancient temples and rich history of Java. Visit the magnificent Borobudur and Prambanan temples, explore the Sultan's Palace, and experience traditional Javanese arts including batik making and gamelan music.",
			LocationID:  "2", MinDays: 3, MaxDays: 4, PricePerPerson: 2800000, MaxCapacity: 15,
			IncludesTransport: true, IncludesAccommodation: true,
			Destinations: destinations("2", 5,
				[2]string{"Borobudur Temple", "Sunrise tour"},
				[2]string{"Prambanan Temple", "Hindu temple complex"},
				[2]string{"Kraton Palace", "Sultan residence"},
				[2]string{"Malioboro Street", "Shopping district"},
			),
			AgentID: "2", Rating: 4.7, TotalReviews: 89,
			ThumbnailURL: strPtr(photo + "1596402184320-417e7178b2cd?w=800&h=600&fit=crop"),
			Images: pq.StringArray{
				photo + "1596402184320-417e7178b2cd?w=1200&h=800&fit=crop",
				photo + "1588668214407-6ea9a6d8c272?w=1200&h=800&fit=crop",
			},
			IsActive: true, CreatedAt: day("2024-02-20"),
		},
		{
			ID: "3", Title: "Lombok Island Explorer",
			Description: "Beach paradise and mountain adventures await! Snorkel in crystal-clear waters of the Gili Islands, trek through lush landscapes, and witness stunning sunsets. Perfect for adventure seekers and beach lovers alike.",
			LocationID:  "4", MinDays: 5, MaxDays: 7, PricePerPerson: 4200000, MaxCapacity: 10,
			IncludesTransport: true, IncludesAccommodation: true,
			Destinations: destinations("3", 9,
				[2]string{"Gili Trawangan", "Island hopping"},
				[2]string{"Pink Beach", "Unique pink sand"},
				[2]string{"Sendang Gile Waterfall", "Natural beauty"},
			),
			AgentID: "3", Rating: 4.8, TotalReviews: 67,
			ThumbnailURL: strPtr(photo + "1570789210967-2cac24e0a0e4?w=800&h=600&fit=crop"),
			Images: pq.StringArray{
				photo + "1570789210967-2cac24e0a0e4?w=1200&h=800&fit=crop",
				photo + "1544551763-46a013bb70d5?w=1200&h=800&fit=crop",
			},
			IsActive: true, CreatedAt: day("2024-03-10"),
		},
		{
			ID: "4", Title: "Raja Ampat Diving Paradise",
			Description: "World-class diving and pristine beaches in the heart of the Coral Triangle. Experience the most biodiverse marine ecosystem on Earth with over 1,500 species of fish and 600 coral species. Suitable for all diving levels.",
			LocationID:  "5", MinDays: 6, MaxDays: 8, PricePerPerson: 8500000, MaxCapacity: 8,
			IncludesTransport: true, IncludesAccommodation: true,
			Destinations: destinations("4", 12,
				[2]string{"Wayag Islands", "Iconic viewpoint"},
				[2]string{"Pianemo", "Karst islands"},
				[2]string{"Manta Sandy", "Manta ray spot"},
			),
			AgentID: "4", Rating: 5.0, TotalReviews: 45,
			ThumbnailURL: strPtr(photo + "1516690561799-46d8f74f9abf?w=800&h=600&fit=crop"),
			Images: pq.StringArray{
				photo + "1516690561799-46d8f74f9abf?w=1200&h=800&fit=crop",
				photo + "1544551763-46a013bb70d5?w=1200&h=800&fit=crop",
			},
			IsActive: true, CreatedAt: day("2024-04-05"),
		},
		{
			ID: "5", Title: "Komodo Dragon Adventure",
			Description: "Meet the legendary Komodo dragons in their natural habitat. Explore pristine islands, snorkel with manta rays, and hike to stunning viewpoints. An unforgettable adventure in one of Indonesia's most unique destinations.",
			LocationID:  "7", MinDays: 4, MaxDays: 5, PricePerPerson: 5500000, MaxCapacity: 12,
			IncludesTransport: true, IncludesAccommodation: true,
			Destinations: destinations("5", 15,
				[2]string{"Komodo Island", "Dragon habitat"},
				[2]string{"Rinca Island", "More dragons"},
				[2]string{"Padar Island", "Famous viewpoint"},
				[2]string{"Pink Beach", "Snorkeling spot"},
			),
			AgentID: "5", Rating: 4.9, TotalReviews: 78,
			ThumbnailURL: strPtr(photo + "1518509562904-e7ef99cdcc86?w=800&h=600&fit=crop"),
			Images: pq.StringArray{
				photo + "1518509562904-e7ef99cdcc86?w=1200&h=800&fit=crop",
				photo + "1583417319070-4a69db38a482?w=1200&h=800&fit=crop",
			},
			IsActive: true, CreatedAt: day("2024-05-15"),
		},
		{
			ID: "6", Title: "Bali Honeymoon Package",
			Description: "Romantic getaway in the Island of Gods. Private villa stays, couples spa treatments, sunset dinners, and intimate cultural experiences. Perfect for newlyweds or celebrating anniversaries.",
			LocationID:  "1", MinDays: 5, MaxDays: 7, PricePerPerson: 6500000, MaxCapacity: 4,
			IncludesTransport: true, IncludesAccommodation: true,
			Destinations: destinations("6", 19,
				[2]string{"Seminyak Beach", "Luxury resorts"},
				[2]string{"Ubud Spa", "Couples treatment"},
				[2]string{"Jimbaran Bay", "Sunset dinner"},
			),
			AgentID: "1", Rating: 4.95, TotalReviews: 42,
			ThumbnailURL: strPtr(photo + "1559628233-100c798642d4?w=800&h=600&fit=crop"),
			Images: pq.StringArray{
				photo + "1559628233-100c798642d4?w=1200&h=800&fit=crop",
			},
			IsActive: true, CreatedAt: day("2024-06-01"),
		},
	}
}

// AddLocation registers a location
func (s *Store) AddLocation(l models.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations = append(s.locations, l)
}

// AddAgent registers an agent profile
func (s *Store) AddAgent(a models.Agent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agents = append(s.agents, a)
}
