package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jelajah/tour-booking-backend/internal/config"
	"github.com/jelajah/tour-booking-backend/internal/database"
	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/jelajah/tour-booking-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// Runs the nightly completion job once, e.g. after the scheduler was down.
func main() {
	var asOf string
	var dryRun bool
	flag.StringVar(&asOf, "as-of", "", "complete PAID bookings whose slot ended before this date (YYYY-MM-DD, default today)")
	flag.BoolVar(&dryRun, "dry-run", false, "list the bookings without completing them")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DataSource != config.DataSourcePostgres {
		log.Fatalf("complete-bookings needs DATA_SOURCE=%s", config.DataSourcePostgres)
	}

	db, err := database.NewConnection(cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	stores := database.NewStores(db)
	ctx := context.Background()

	var date models.Date
	if asOf != "" {
		date, err = models.ParseDate(asOf)
		if err != nil {
			log.Fatalf("Invalid -as-of: %v", err)
		}
	} else {
		loc, err := time.LoadLocation(cfg.Cron.Timezone)
		if err != nil {
			log.Fatalf("Invalid CRON_TIMEZONE: %v", err)
		}
		cron := services.NewCronService(nil, "", loc, logger)
		date = cron.Today()
	}

	if dryRun {
		elapsed, err := stores.Bookings.ListPaidEndingBefore(ctx, date)
		if err != nil {
			log.Fatalf("Failed to list bookings: %v", err)
		}
		fmt.Printf("%d PAID bookings ended before %s\n", len(elapsed), date)
		for _, b := range elapsed {
			fmt.Printf("  %s  package=%s  slot=%s  people=%d\n", b.ID, b.TourPackageID, b.AvailabilityID, b.TotalPeople)
		}
		return
	}

	completed, err := services.New(stores, nil, logger).Bookings.CompleteElapsed(ctx, date)
	if err != nil {
		log.Fatalf("Failed to complete bookings: %v", err)
	}
	fmt.Printf("Completed %d bookings (as of %s)\n", completed, date)
}
