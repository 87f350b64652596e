package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/chartbot/internal/storage/donations"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fixedSessions int

func (f fixedSessions) Len() int { return int(f) }

type fakeTotals struct {
	totals donations.Totals
	err    error
}

func (f fakeTotals) Totals() (donations.Totals, error) { return f.totals, f.err }

func TestNewStatsReporter(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		sessions SessionCounter
		wantErr  bool
	}{
		{name: "default schedule", schedule: "", sessions: fixedSessions(1)},
		{name: "cron expression", schedule: "*/5 * * * *", sessions: fixedSessions(1)},
		{name: "descriptor", schedule: "@every 30m", sessions: fixedSessions(1)},
		{name: "invalid schedule", schedule: "every now and then", sessions: fixedSessions(1), wantErr: true},
		{name: "missing sessions", schedule: "@hourly", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStatsReporter(tt.schedule, tt.sessions, nil, zap.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestStatsReporter_Collect(t *testing.T) {
	r, err := NewStatsReporter("", fixedSessions(12), fakeTotals{totals: donations.Totals{Count: 3, Stars: 36, Verified: 2}}, zap.NewNop())
	require.NoError(t, err)

	stats, err := r.Collect()
	require.NoError(t, err)
	assert.Equal(t, Stats{Sessions: 12, Donations: donations.Totals{Count: 3, Stars: 36, Verified: 2}}, stats)

	noJournal, err := NewStatsReporter("", fixedSessions(4), nil, zap.NewNop())
	require.NoError(t, err)
	stats, err = noJournal.Collect()
	require.NoError(t, err)
	assert.Equal(t, Stats{Sessions: 4}, stats)

	broken, err := NewStatsReporter("", fixedSessions(4), fakeTotals{err: errors.New("disk")}, zap.NewNop())
	require.NoError(t, err)
	stats, err = broken.Collect()
	assert.Error(t, err)
	assert.Equal(t, 4, stats.Sessions)
}

func TestStatsReporter_ReportLogsFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r, err := NewStatsReporter("", fixedSessions(7), fakeTotals{totals: donations.Totals{Count: 1, Stars: 5, Verified: 1}}, zap.New(core))
	require.NoError(t, err)

	r.report()

	entries := logs.FilterMessage("Bot stats").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 7, fields["sessions"])
	assert.EqualValues(t, 5, fields["stars_total"])
}

func TestStatsReporter_RunStopsOnCancel(t *testing.T) {
	r, err := NewStatsReporter("@every 1h", fixedSessions(0), nil, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
