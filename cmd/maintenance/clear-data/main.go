package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jelajah/tour-booking-backend/internal/config"
	"github.com/jelajah/tour-booking-backend/internal/database"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Bookings only by default; -catalog also wipes packages, agents and locations.
var (
	bookingTables = []string{"bookings"}
	catalogTables = []string{"tour_availabilities", "tour_destinations", "tour_packages", "agents", "locations"}
)

func main() {
	var dbURLFlag string
	var catalog bool
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.BoolVar(&catalog, "catalog", false, "also clear the tour catalog")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	logger := logrus.New()
	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	}, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	tables := bookingTables
	if catalog {
		tables = append(tables, catalogTables...)
	}

	ctx := context.Background()
	err = db.WithinTx(ctx, func(ctx context.Context) error {
		for _, t := range tables {
			if _, err := db.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", t)); err != nil {
				return fmt.Errorf("failed to truncate %s: %w", t, err)
			}
		}
		if !catalog {
			// Slot counters must agree with the (now empty) booking table
			if _, err := db.ExecContext(ctx, "UPDATE tour_availabilities SET booked_slots = 0"); err != nil {
				return fmt.Errorf("failed to reset booked slots: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Post-clear row counts:")
	for _, t := range append(bookingTables, catalogTables...) {
		var count int
		if err := db.GetContext(ctx, &count, fmt.Sprintf("SELECT COUNT(*) FROM %s", t)); err != nil {
			fmt.Printf("  %s: error: %v\n", t, err)
			continue
		}
		fmt.Printf("  %s: %d\n", t, count)
	}
}
