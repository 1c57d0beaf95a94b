package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// InactiveUserStore deletes guest users that have gone quiet
type InactiveUserStore interface {
	DeleteInactive(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	cron         *gocron.Scheduler
	users        InactiveUserStore
	cleanupAt    string
	inactiveDays int
	now          func() time.Time
}

// NewScheduler creates a new scheduler running in loc
func NewScheduler(users InactiveUserStore, cleanupAt string, inactiveDays int, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:         gocron.NewScheduler(loc),
		users:        users,
		cleanupAt:    cleanupAt,
		inactiveDays: inactiveDays,
		now:          time.Now,
	}
}

// Start registers the jobs and starts the scheduler in the background
func (s *Scheduler) Start() error {
	log.Println("[INFO] starting scheduler...")

	// Remove guest users inactive for inactiveDays, daily
	if _, err := s.cron.Every(1).Day().At(s.cleanupAt).Do(func() {
		if _, err := s.CleanupInactiveUsers(context.Background()); err != nil {
			log.Printf("[ERROR] inactive user cleanup failed: %v", err)
		}
	}); err != nil {
		return err
	}

	s.cron.StartAsync()
	log.Printf("[INFO] scheduler started, user cleanup daily at %s", s.cleanupAt)
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// Jobs returns the number of registered jobs
func (s *Scheduler) Jobs() int {
	return len(s.cron.Jobs())
}

// CleanupInactiveUsers deletes users whose last activity is older than the cutoff
func (s *Scheduler) CleanupInactiveUsers(ctx context.Context) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -s.inactiveDays)
	log.Printf("[INFO] starting inactive user cleanup, deleting users inactive since %s", cutoff.Format(time.RFC3339))

	deleted, err := s.users.DeleteInactive(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	log.Printf("[INFO] finished inactive user cleanup, deleted %d users", deleted)
	return deleted, nil
}
