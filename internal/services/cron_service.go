package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jelajah/tour-booking-backend/internal/models"
	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultCompletionSchedule runs the completion job at 01:00 every day.
// Cron format: second minute hour day month weekday
const DefaultCompletionSchedule = "0 0 1 * * *"

const completionJobTimeout = 5 * time.Minute

// CronService manages scheduled background jobs
type CronService struct {
	cron     *cron.Cron
	bookings *BookingLedger
	schedule string
	location *time.Location
	logger   *logrus.Logger
	clock    func() time.Time
}

// NewCronService creates a new CronService. Schedules are evaluated in loc.
func NewCronService(bookings *BookingLedger, schedule string, loc *time.Location, logger *logrus.Logger) *CronService {
	if schedule == "" {
		schedule = DefaultCompletionSchedule
	}
	if loc == nil {
		loc = time.UTC
	}

	return &CronService{
		cron:     cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		bookings: bookings,
		schedule: schedule,
		location: loc,
		logger:   logger,
		clock:    time.Now,
	}
}

// Start starts all cron jobs
func (s *CronService) Start() error {
	s.logger.Info("Starting cron service...")

	_, err := s.cron.AddFunc(s.schedule, s.completeElapsedJob)
	if err != nil {
		return fmt.Errorf("failed to schedule booking completion job: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"schedule": s.schedule,
		"timezone": s.location.String(),
	}).Info("Scheduled: complete elapsed bookings")

	s.cron.Start()
	s.logger.Info("Cron service started")
	return nil
}

// Stop stops all cron jobs and waits for running ones
func (s *CronService) Stop() {
	s.logger.Info("Stopping cron service...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// Today is the current calendar day in the scheduler's timezone
func (s *CronService) Today() models.Date {
	start := now.With(s.clock().In(s.location)).BeginningOfDay()
	return models.NewDate(start.Year(), start.Month(), start.Day())
}

// RunCompleteElapsedNow runs the completion job immediately
func (s *CronService) RunCompleteElapsedNow(ctx context.Context) (int, error) {
	return s.bookings.CompleteElapsed(ctx, s.Today())
}

func (s *CronService) completeElapsedJob() {
	ctx, cancel := context.WithTimeout(context.Background(), completionJobTimeout)
	defer cancel()

	startTime := time.Now()
	completed, err := s.RunCompleteElapsedNow(ctx)
	if err != nil {
		s.logger.WithError(err).Error("[CRON] Failed to complete elapsed bookings")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"completed": completed,
		"duration":  time.Since(startTime).String(),
	}).Info("[CRON] Completed elapsed bookings")
}

// GetJobStatus returns the status of scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
	}
}
