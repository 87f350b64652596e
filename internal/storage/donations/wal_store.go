// Package donations journals completed Telegram Stars payments.
package donations

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/chartbot/internal/domain"
	"github.com/vadiminshakov/gowal"
)

const (
	defaultDonationDir   = "./wal/donations"
	donationSegmentLimit = 1000
	donationMaxSegments  = 100
	donationKeyPrefix    = "donation_"
)

// Totals aggregates the journaled donations.
type Totals struct {
	Count    int
	Stars    int
	Verified int
}

// WALStore persists donation events in a WAL so the dashboard can stream them
// and the stats job can sum them.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed donation journal under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultDonationDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "donation_",
		SegmentThreshold: donationSegmentLimit,
		MaxSegments:      donationMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init donation WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save appends a donation event.
func (s *WALStore) Save(event domain.DonationEvent) error {
	if s == nil || s.wal == nil {
		return errors.New("donation store is not initialized")
	}
	if event.ChatID == 0 {
		return errors.New("donation event chat id is required")
	}
	if event.Stars <= 0 {
		return errors.Errorf("donation event stars must be positive, got %d", event.Stars)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal donation event")
	}

	key := fmt.Sprintf("%s%d", donationKeyPrefix, event.ChatID)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return errors.Wrap(s.wal.Write(nextIndex, key, payload), "write donation event")
}

// EventsAfter returns all donation events written after the provided WAL index.
func (s *WALStore) EventsAfter(index uint64) ([]domain.DonationEventRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("donation store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.DonationEventRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, donationKeyPrefix) {
			continue
		}
		var event domain.DonationEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrap(err, "decode donation event")
		}
		records = append(records, domain.DonationEventRecord{
			Index: idx,
			Event: event,
		})
	}

	return records, nil
}

// Totals sums every donation still held in the journal.
func (s *WALStore) Totals() (Totals, error) {
	records, err := s.EventsAfter(0)
	if err != nil {
		return Totals{}, err
	}

	var t Totals
	for _, r := range records {
		t.Count++
		t.Stars += r.Event.Stars
		if r.Event.Verified {
			t.Verified++
		}
	}
	return t, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("donation store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
