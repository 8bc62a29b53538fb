package shelflife

import (
	"context"
	"sort"
	"time"

	"github.com/Qguillot-pro/barstock-pro/model"
	"github.com/Qguillot-pro/barstock-pro/repository/outbox"
	"github.com/Qguillot-pro/barstock-pro/repository/store"
	"github.com/Qguillot-pro/barstock-pro/utils/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tracker maintains open-product shelf-life windows. Windows are append-only;
// the active window for an (item, location) pair is the most recently opened
// one, older entries stay in the log for audit.
type Tracker interface {
	OpenWindow(ctx context.Context, itemID, locationID, actor string) model.ShelfLifeWindow
	ActiveWindows(ctx context.Context, now time.Time) []model.ShelfLifeStatus
}

type trackerImpl struct {
	store    *store.Store
	recorder outbox.Recorder
}

func NewTracker(st *store.Store, recorder outbox.Recorder) Tracker {
	return &trackerImpl{store: st, recorder: recorder}
}

// OpenWindow appends a window stamped now.
func (t *trackerImpl) OpenWindow(ctx context.Context, itemID, locationID, actor string) model.ShelfLifeWindow {
	w := model.ShelfLifeWindow{
		ID:         uuid.New().String(),
		ItemID:     itemID,
		LocationID: locationID,
		OpenedAt:   time.Now(),
		Actor:      actor,
	}
	t.store.AppendWindow(w)
	if t.recorder != nil {
		t.recorder.RecordWindow(w)
	}
	logger.Debug("[OpenWindow] shelf-life window opened",
		zap.String("item_id", itemID), zap.String("location_id", locationID))
	return w
}

// ActiveWindows returns the expiry view: one entry per (item, location) pair,
// latest window wins (ties broken by insertion order), sorted by deadline
// ascending. Items without a shelf-life profile are skipped.
func (t *trackerImpl) ActiveWindows(ctx context.Context, now time.Time) []model.ShelfLifeStatus {
	latest := make(map[[2]string]model.ShelfLifeWindow)
	for _, w := range t.store.Windows() {
		key := [2]string{w.ItemID, w.LocationID}
		if cur, ok := latest[key]; !ok || !w.OpenedAt.Before(cur.OpenedAt) {
			latest[key] = w
		}
	}

	out := make([]model.ShelfLifeStatus, 0, len(latest))
	for _, w := range latest {
		item, ok := t.store.Item(w.ItemID)
		if !ok {
			continue
		}
		profile, ok := t.store.Profile(item.ShelfLifeProfileID)
		if !ok {
			continue
		}
		deadline := w.OpenedAt.Add(time.Duration(profile.DurationHours) * time.Hour)
		status := model.ShelfLifeStatus{
			WindowID:   w.ID,
			ItemID:     item.ID,
			ItemName:   item.Name,
			LocationID: w.LocationID,
			OpenedAt:   w.OpenedAt,
			Deadline:   deadline,
			Remaining:  deadline.Sub(now),
			Expired:    now.After(deadline),
			Actor:      w.Actor,
		}
		if loc, ok := t.store.Location(w.LocationID); ok {
			status.LocationName = loc.Name
		}
		out = append(out, status)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Deadline.Before(out[j].Deadline) })
	return out
}
