package store_test

import (
	"testing"
	"time"

	"github.com/Qguillot-pro/barstock-pro/constant"
	"github.com/Qguillot-pro/barstock-pro/model"
	"github.com/Qguillot-pro/barstock-pro/repository/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_DefaultOverflow(t *testing.T) {
	assert.Equal(t, constant.DefaultOverflowLocationID, store.New("").OverflowID())
	assert.Equal(t, "backroom", store.New("backroom").OverflowID())
}

func TestStore_SnapshotRoundTrip(t *testing.T) {
	st := store.New("s0")
	st.Load(store.Snapshot{
		Items:      []model.Item{{ID: "gin", Name: "Gin"}},
		Locations:  []model.StorageLocation{{ID: "bar1"}},
		Priorities: []model.PriorityRule{{ItemID: "gin", LocationID: "bar1", Priority: 5}},
		Levels:     []model.StockLevel{{ItemID: "gin", LocationID: "bar1", Quantity: 2}},
		Orders:     []model.ReplenishmentOrder{{ID: "o1", ItemID: "gin", Quantity: 3, Status: constant.OrderStatusPending}},
	})

	st.SetLevel("gin", "bar1", 7)
	st.AppendMovement(model.MovementRecord{ID: "m1", ItemID: "gin"})

	other := store.New("s0")
	other.Load(st.Snapshot())

	assert.Equal(t, 7.0, other.Level("gin", "bar1"))
	assert.Equal(t, 5, other.Priority("gin", "bar1"))
	require.Len(t, other.Movements(0), 1)
	o, ok := other.Order("o1")
	require.True(t, ok)
	assert.Equal(t, 3, o.Quantity)
}

func TestStore_MovementsNewestFirst(t *testing.T) {
	st := store.New("s0")
	st.AppendMovement(model.MovementRecord{ID: "m1"})
	st.AppendMovement(model.MovementRecord{ID: "m2"})
	st.AppendMovement(model.MovementRecord{ID: "m3"})

	got := st.Movements(2)
	require.Len(t, got, 2)
	assert.Equal(t, "m3", got[0].ID)
	assert.Equal(t, "m2", got[1].ID)

	assert.Len(t, st.Movements(0), 3)
	assert.Len(t, st.Movements(10), 3)
}

func TestStore_UpsertOrder(t *testing.T) {
	st := store.New("s0")
	st.UpsertOrder(model.ReplenishmentOrder{ID: "o1", ItemID: "gin", Quantity: 3, Status: constant.OrderStatusPending})
	st.UpsertOrder(model.ReplenishmentOrder{ID: "o2", ItemID: "gin", Quantity: 1, Status: constant.OrderStatusReceived})

	st.UpsertOrder(model.ReplenishmentOrder{ID: "o1", ItemID: "gin", Quantity: 5, Status: constant.OrderStatusOrdered})

	require.Len(t, st.Orders(), 2, "upsert replaces in place")
	o, ok := st.Order("o1")
	require.True(t, ok)
	assert.Equal(t, 5, o.Quantity)

	open := st.OpenOrdersForItem("gin")
	require.Len(t, open, 1)
	assert.Equal(t, "o1", open[0].ID)
}

func TestStore_LockItem(t *testing.T) {
	st := store.New("s0")

	unlock := st.LockItem("gin")
	done := make(chan struct{})
	go func() {
		u := st.LockItem("gin")
		u()
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("second lock acquired while first still held")
	default:
	}
	unlock()
	<-done
}
