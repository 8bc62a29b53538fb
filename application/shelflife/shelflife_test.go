package shelflife_test

import (
	"context"
	"testing"
	"time"

	appshelflife "github.com/Qguillot-pro/barstock-pro/application/shelflife"
	"github.com/Qguillot-pro/barstock-pro/model"
	"github.com/Qguillot-pro/barstock-pro/repository/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShelfLifeStore() *store.Store {
	st := store.New("s0")
	st.Load(store.Snapshot{
		Items: []model.Item{
			{ID: "vermouth", Name: "Vermouth", TracksShelfLife: true, ShelfLifeProfileID: "p48"},
			{ID: "syrup", Name: "Syrup", TracksShelfLife: true, ShelfLifeProfileID: "p720"},
			{ID: "mystery", Name: "Mystery", TracksShelfLife: true, ShelfLifeProfileID: "missing"},
		},
		Locations: []model.StorageLocation{
			{ID: "bar1", Name: "Bar Top"},
			{ID: "cave", Name: "Cellar"},
		},
		Profiles: []model.ShelfLifeProfile{
			{ID: "p48", Name: "48h", DurationHours: 48},
			{ID: "p720", Name: "30 days", DurationHours: 720},
		},
	})
	return st
}

func TestTracker_OpenWindow(t *testing.T) {
	st := newShelfLifeStore()
	tracker := appshelflife.NewTracker(st, nil)

	w := tracker.OpenWindow(context.Background(), "vermouth", "bar1", "anna")
	assert.NotEmpty(t, w.ID)
	assert.WithinDuration(t, time.Now(), w.OpenedAt, time.Minute)
	require.Len(t, st.Windows(), 1)
}

func TestTracker_ActiveWindows(t *testing.T) {
	st := newShelfLifeStore()
	tracker := appshelflife.NewTracker(st, nil)
	now := time.Now()

	// two windows on the same pair: only the latest counts
	st.AppendWindow(model.ShelfLifeWindow{ID: "w1", ItemID: "vermouth", LocationID: "bar1", OpenedAt: now.Add(-72 * time.Hour)})
	st.AppendWindow(model.ShelfLifeWindow{ID: "w2", ItemID: "vermouth", LocationID: "bar1", OpenedAt: now.Add(-10 * time.Hour)})
	// same item, different location, expired
	st.AppendWindow(model.ShelfLifeWindow{ID: "w3", ItemID: "vermouth", LocationID: "cave", OpenedAt: now.Add(-50 * time.Hour)})
	// long-lived profile, far deadline
	st.AppendWindow(model.ShelfLifeWindow{ID: "w4", ItemID: "syrup", LocationID: "cave", OpenedAt: now.Add(-24 * time.Hour)})
	// unknown profile is skipped
	st.AppendWindow(model.ShelfLifeWindow{ID: "w5", ItemID: "mystery", LocationID: "bar1", OpenedAt: now})

	statuses := tracker.ActiveWindows(context.Background(), now)
	require.Len(t, statuses, 3)

	// sorted by deadline ascending
	assert.Equal(t, "w3", statuses[0].WindowID)
	assert.True(t, statuses[0].Expired)
	assert.Negative(t, statuses[0].Remaining)

	assert.Equal(t, "w2", statuses[1].WindowID)
	assert.False(t, statuses[1].Expired)
	assert.Equal(t, 38*time.Hour, statuses[1].Remaining)
	assert.Equal(t, "Bar Top", statuses[1].LocationName)

	assert.Equal(t, "w4", statuses[2].WindowID)
	assert.False(t, statuses[2].Expired)
}
