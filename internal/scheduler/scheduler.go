// Package scheduler runs periodic housekeeping jobs.
package scheduler

import (
	"context"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/vadiminshakov/chartbot/internal/storage/donations"
	"go.uber.org/zap"
)

// DefaultStatsSchedule logs stats once an hour.
const DefaultStatsSchedule = "@every 1h"

// SessionCounter reports how many chats have a stored language.
type SessionCounter interface {
	Len() int
}

// DonationTotals sums the donation journal.
type DonationTotals interface {
	Totals() (donations.Totals, error)
}

// Stats snapshot logged by the reporter.
type Stats struct {
	Sessions  int
	Donations donations.Totals
}

// StatsReporter periodically logs usage statistics.
type StatsReporter struct {
	cron      *cron.Cron
	sessions  SessionCounter
	donations DonationTotals
	logger    *zap.Logger
}

// NewStatsReporter registers the stats job on schedule (standard cron
// syntax or descriptors such as "@every 30m"). donations may be nil.
func NewStatsReporter(schedule string, sessions SessionCounter, totals DonationTotals, logger *zap.Logger) (*StatsReporter, error) {
	if schedule == "" {
		schedule = DefaultStatsSchedule
	}
	if sessions == nil {
		return nil, errors.New("session counter is required")
	}

	r := &StatsReporter{
		cron:      cron.New(),
		sessions:  sessions,
		donations: totals,
		logger:    logger,
	}
	if _, err := r.cron.AddFunc(schedule, r.report); err != nil {
		return nil, errors.Wrapf(err, "register stats job %q", schedule)
	}
	return r, nil
}

// Collect gathers the current stats.
func (r *StatsReporter) Collect() (Stats, error) {
	stats := Stats{Sessions: r.sessions.Len()}
	if r.donations == nil {
		return stats, nil
	}
	totals, err := r.donations.Totals()
	if err != nil {
		return stats, errors.Wrap(err, "donation totals")
	}
	stats.Donations = totals
	return stats, nil
}

func (r *StatsReporter) report() {
	stats, err := r.Collect()
	if err != nil {
		r.logger.Warn("Failed to collect stats", zap.Error(err))
	}
	r.logger.Info("Bot stats",
		zap.Int("sessions", stats.Sessions),
		zap.Int("donations", stats.Donations.Count),
		zap.Int("donations_verified", stats.Donations.Verified),
		zap.Int("stars_total", stats.Donations.Stars),
	)
}

// Run starts the scheduler and blocks until ctx is cancelled, then waits for
// a running job to finish.
func (r *StatsReporter) Run(ctx context.Context) error {
	r.cron.Start()
	r.logger.Info("Stats scheduler started", zap.Int("jobs", len(r.cron.Entries())))

	<-ctx.Done()

	<-r.cron.Stop().Done()
	r.logger.Info("Stats scheduler stopped")
	return nil
}
