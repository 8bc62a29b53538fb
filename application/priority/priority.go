package priority

import (
	"sort"

	"github.com/Qguillot-pro/barstock-pro/constant"
	"github.com/Qguillot-pro/barstock-pro/model"
	"github.com/Qguillot-pro/barstock-pro/repository/store"
)

// Resolver orders candidate storage locations for an item and movement
// direction. The overflow location is always eligible: drawn from first on the
// way out, filled last on the way in.
type Resolver struct {
	store *store.Store
}

func NewResolver(st *store.Store) *Resolver {
	return &Resolver{store: st}
}

func (r *Resolver) rankedRules(itemID string) []model.PriorityRule {
	rules := r.store.PriorityRules(itemID)
	ranked := rules[:0]
	for _, rule := range rules {
		if rule.Priority > 0 {
			ranked = append(ranked, rule)
		}
	}
	return ranked
}

// OrderOut returns consumption candidates: overflow first, then configured
// locations by priority descending, then any other location currently holding
// stock. Each location appears once.
func (r *Resolver) OrderOut(itemID string) []string {
	ranked := r.rankedRules(itemID)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Priority > ranked[j].Priority })

	ordered := make([]string, 0, len(ranked)+2)
	seen := make(map[string]bool)
	add := func(locID string) {
		if !seen[locID] {
			seen[locID] = true
			ordered = append(ordered, locID)
		}
	}

	add(r.store.OverflowID())
	for _, rule := range ranked {
		add(rule.LocationID)
	}
	for _, level := range r.store.LevelsForItem(itemID) {
		if level.Quantity > 0 {
			add(level.LocationID)
		}
	}
	return ordered
}

// OrderIn returns replenishment candidates: configured locations by priority
// ascending (lowest filled first; front-of-house spots are refilled by the
// separate restock workflow, not by raw receipt), overflow last.
func (r *Resolver) OrderIn(itemID string) []string {
	ranked := r.rankedRules(itemID)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Priority < ranked[j].Priority })

	overflow := r.store.OverflowID()
	ordered := make([]string, 0, len(ranked)+1)
	for _, rule := range ranked {
		if rule.LocationID != overflow {
			ordered = append(ordered, rule.LocationID)
		}
	}
	return append(ordered, overflow)
}

// Effective resolves the priority used by the restock aggregator: the overflow
// location is forced to the fixed high constant, everything else uses the
// configured rule (absence = 0).
func (r *Resolver) Effective(itemID, locationID string) int {
	if locationID == r.store.OverflowID() {
		return constant.OverflowPriority
	}
	return r.store.Priority(itemID, locationID)
}
