package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/jelajah/tour-booking-backend/internal/utils"
	"github.com/jelajah/tour-booking-backend/pkg/tourapi"
)

// Exercises a running backend through the public client: catalog, chat and,
// with a token, one create/cancel booking cycle.
func main() {
	var (
		baseURL string
		token   string
		demo    string
		book    bool
	)
	flag.StringVar(&baseURL, "base-url", "http://localhost:8080", "backend root URL")
	flag.StringVar(&token, "token", os.Getenv("JELAJAH_TOKEN"), "bearer token (see cmd/devtoken)")
	flag.StringVar(&demo, "demo-user", "", "answer from demo data as this user when the backend is unreachable")
	flag.BoolVar(&book, "book", false, "create and cancel a booking")
	flag.Parse()

	opts := []tourapi.Option{tourapi.WithToken(token)}
	if demo != "" {
		opts = append(opts, tourapi.WithDemoFallback(demo))
	}
	client := tourapi.New(baseURL, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	page, err := client.SearchTours(ctx, models.SearchQuery{Sort: string(models.SortRating), Limit: 5})
	check("search", err)
	fmt.Printf("search: %d active packages\n", page.Total)
	for _, t := range page.Data {
		fmt.Printf("  %-3s %-32s %s  rating %.2f\n", t.ID, t.Title, utils.FormatRupiah(t.PricePerPerson), t.Rating)
	}

	locations, err := client.ListLocations(ctx)
	check("locations", err)
	fmt.Printf("locations: %d\n", len(locations))
	if len(locations) == 0 {
		log.Fatal("locations: catalog is empty")
	}

	msg, err := client.Chat(ctx, models.ChatRequest{Message: "Somewhere with beaches", Location: &locations[0].Name})
	check("chat", err)
	fmt.Printf("chat: %s (%d tours)\n", msg.Content, len(msg.RecommendedTours))

	if !book {
		return
	}
	if len(page.Data) == 0 {
		log.Fatal("booking: no packages to book")
	}

	tour, err := client.GetTour(ctx, page.Data[0].ID)
	check("tour", err)
	for _, slot := range tour.Availability {
		if slot.AvailableSlots < 1 {
			continue
		}
		booking, err := client.CreateBooking(ctx, models.CreateBookingRequest{
			TourPackageID:  tour.ID,
			AvailabilityID: slot.ID,
			TotalPeople:    1,
		})
		if errors.Is(err, models.ErrCapacityExceeded) {
			continue
		}
		check("create booking", err)
		fmt.Printf("booking: %s %s %s\n", booking.ID, booking.Status, utils.FormatRupiah(booking.TotalPrice))

		cancelled, err := client.CancelBooking(ctx, booking.ID)
		check("cancel booking", err)
		fmt.Printf("booking: %s %s\n", cancelled.ID, cancelled.Status)
		return
	}
	log.Fatalf("booking: %s has no open slot", tour.Title)
}

func check(step string, err error) {
	if err != nil {
		log.Fatalf("%s: %v", step, err)
	}
}
