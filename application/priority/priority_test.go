package priority_test

import (
	"testing"

	"github.com/Qguillot-pro/barstock-pro/application/priority"
	"github.com/Qguillot-pro/barstock-pro/constant"
	"github.com/Qguillot-pro/barstock-pro/model"
	"github.com/Qguillot-pro/barstock-pro/repository/store"
	"github.com/stretchr/testify/assert"
)

func newPriorityStore() *store.Store {
	st := store.New("s0")
	st.Load(store.Snapshot{
		Items: []model.Item{{ID: "gin", Name: "Gin"}},
		Locations: []model.StorageLocation{
			{ID: "s0"}, {ID: "bar1"}, {ID: "bar2"}, {ID: "cave"},
		},
		Priorities: []model.PriorityRule{
			{ItemID: "gin", LocationID: "bar1", Priority: 5},
			{ItemID: "gin", LocationID: "bar2", Priority: 3},
			{ItemID: "gin", LocationID: "cave", Priority: 0},
		},
		Levels: []model.StockLevel{
			{ItemID: "gin", LocationID: "cave", Quantity: 4},
			{ItemID: "gin", LocationID: "bar1", Quantity: 1},
		},
	})
	return st
}

func TestResolver_OrderOut(t *testing.T) {
	r := priority.NewResolver(newPriorityStore())

	// overflow first, ranked rules by priority descending, then any other
	// location holding stock, each location once
	assert.Equal(t, []string{"s0", "bar1", "bar2", "cave"}, r.OrderOut("gin"))
}

func TestResolver_OrderIn(t *testing.T) {
	r := priority.NewResolver(newPriorityStore())

	// ranked rules ascending, zero-priority rules dropped, overflow last
	assert.Equal(t, []string{"bar2", "bar1", "s0"}, r.OrderIn("gin"))

	// an item with no rules still gets the overflow fallback
	assert.Equal(t, []string{"s0"}, r.OrderIn("unknown"))
}

func TestResolver_Effective(t *testing.T) {
	r := priority.NewResolver(newPriorityStore())

	assert.Equal(t, 5, r.Effective("gin", "bar1"))
	assert.Equal(t, 0, r.Effective("gin", "cave"))
	assert.Equal(t, 0, r.Effective("gin", "unconfigured"))
	assert.Equal(t, constant.OverflowPriority, r.Effective("gin", "s0"))
}
