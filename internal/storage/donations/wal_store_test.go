package donations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/chartbot/internal/domain"
)

func donation(chatID int64, stars int, verified bool) domain.DonationEvent {
	return domain.DonationEvent{
		Timestamp:        time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		ChatID:           chatID,
		Stars:            stars,
		Currency:         domain.StarsCurrency,
		Payload:          domain.DonationPayload(stars),
		TelegramChargeID: "charge-1",
		Verified:         verified,
	}
}

func TestWALStore_SaveAndRead(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	assert.Zero(t, store.CurrentIndex())

	require.NoError(t, store.Save(donation(1, 10, true)))
	require.NoError(t, store.Save(donation(2, 25, false)))
	assert.Equal(t, uint64(2), store.CurrentIndex())

	all, err := store.EventsAfter(0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, uint64(1), all[0].Index)
	assert.Equal(t, 10, all[0].Event.Stars)
	assert.Equal(t, "donate_10_stars", all[0].Event.Payload)
	assert.True(t, all[0].Event.Timestamp.Equal(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)))

	tail, err := store.EventsAfter(1)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, int64(2), tail[0].Event.ChatID)

	none, err := store.EventsAfter(2)
	require.NoError(t, err)
	assert.Empty(t, none)

	totals, err := store.Totals()
	require.NoError(t, err)
	assert.Equal(t, Totals{Count: 2, Stars: 35, Verified: 1}, totals)
}

func TestWALStore_Reopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewWALStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(donation(5, 50, true)))
	require.NoError(t, store.Close())

	reopened, err := NewWALStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	records, err := reopened.EventsAfter(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 50, records[0].Event.Stars)
}

func TestWALStore_Validation(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	assert.Error(t, store.Save(donation(0, 10, true)))
	assert.Error(t, store.Save(donation(1, 0, true)))
	assert.Zero(t, store.CurrentIndex())

	var nilStore *WALStore
	assert.Error(t, nilStore.Save(donation(1, 1, true)))
	assert.Zero(t, nilStore.CurrentIndex())
}
