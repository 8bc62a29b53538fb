package store

import (
	"sort"
	"sync"

	"github.com/Qguillot-pro/barstock-pro/constant"
	"github.com/Qguillot-pro/barstock-pro/model"
)

// Snapshot is the full data model as loaded from (or cached for) the
// persistence layer. The engine operates on the in-memory copy; durable writes
// are delegated to the outbox and never block a commit.
type Snapshot struct {
	Items      []model.Item               `json:"items"`
	Formats    []model.Format             `json:"formats"`
	Locations  []model.StorageLocation    `json:"locations"`
	Profiles   []model.ShelfLifeProfile   `json:"profiles"`
	Priorities []model.PriorityRule       `json:"priorities"`
	Targets    []model.MinimumTarget      `json:"targets"`
	Levels     []model.StockLevel         `json:"levels"`
	Movements  []model.MovementRecord     `json:"movements"`
	Orders     []model.ReplenishmentOrder `json:"orders"`
	Windows    []model.ShelfLifeWindow    `json:"windows"`
	Demands    []model.UnfulfilledDemand  `json:"demands"`
}

type levelKey struct {
	itemID     string
	locationID string
}

// Store holds the shared mutable data model. Catalog entities are read-only
// inputs; stock levels, movements, orders, shelf-life windows and unfulfilled
// demands are mutated through it. Multi-step engine operations on the same
// item must hold that item's lock (LockItem) for their whole duration.
type Store struct {
	mu         sync.RWMutex
	overflowID string

	items      map[string]model.Item
	formats    map[string]model.Format
	locations  map[string]model.StorageLocation
	profiles   map[string]model.ShelfLifeProfile
	priorities map[string]map[string]int
	targets    []model.MinimumTarget

	levels    map[levelKey]float64
	movements []model.MovementRecord
	orders    []model.ReplenishmentOrder
	orderIdx  map[string]int
	windows   []model.ShelfLifeWindow
	demands   []model.UnfulfilledDemand

	lockMu    sync.Mutex
	itemLocks map[string]*sync.Mutex
}

// New creates an empty store. An empty overflowID falls back to the default.
func New(overflowID string) *Store {
	if overflowID == "" {
		overflowID = constant.DefaultOverflowLocationID
	}
	return &Store{
		overflowID: overflowID,
		items:      make(map[string]model.Item),
		formats:    make(map[string]model.Format),
		locations:  make(map[string]model.StorageLocation),
		profiles:   make(map[string]model.ShelfLifeProfile),
		priorities: make(map[string]map[string]int),
		levels:     make(map[levelKey]float64),
		orderIdx:   make(map[string]int),
		itemLocks:  make(map[string]*sync.Mutex),
	}
}

// Load replaces the store contents with a snapshot.
func (s *Store) Load(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]model.Item, len(snap.Items))
	for _, it := range snap.Items {
		s.items[it.ID] = it
	}
	s.formats = make(map[string]model.Format, len(snap.Formats))
	for _, f := range snap.Formats {
		s.formats[f.ID] = f
	}
	s.locations = make(map[string]model.StorageLocation, len(snap.Locations))
	for _, l := range snap.Locations {
		s.locations[l.ID] = l
	}
	s.profiles = make(map[string]model.ShelfLifeProfile, len(snap.Profiles))
	for _, p := range snap.Profiles {
		s.profiles[p.ID] = p
	}
	s.priorities = make(map[string]map[string]int)
	for _, r := range snap.Priorities {
		s.setPriorityLocked(r)
	}
	s.targets = append([]model.MinimumTarget(nil), snap.Targets...)

	s.levels = make(map[levelKey]float64, len(snap.Levels))
	for _, l := range snap.Levels {
		s.levels[levelKey{l.ItemID, l.LocationID}] = l.Quantity
	}
	s.movements = append([]model.MovementRecord(nil), snap.Movements...)
	s.orders = append([]model.ReplenishmentOrder(nil), snap.Orders...)
	s.orderIdx = make(map[string]int, len(s.orders))
	for i, o := range s.orders {
		s.orderIdx[o.ID] = i
	}
	s.windows = append([]model.ShelfLifeWindow(nil), snap.Windows...)
	s.demands = append([]model.UnfulfilledDemand(nil), snap.Demands...)
}

func (s *Store) setPriorityLocked(r model.PriorityRule) {
	byLoc, ok := s.priorities[r.ItemID]
	if !ok {
		byLoc = make(map[string]int)
		s.priorities[r.ItemID] = byLoc
	}
	byLoc[r.LocationID] = r.Priority
}

// Snapshot returns a deep copy of the current state, used for the fallback
// cache.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Items:     make([]model.Item, 0, len(s.items)),
		Formats:   make([]model.Format, 0, len(s.formats)),
		Locations: make([]model.StorageLocation, 0, len(s.locations)),
		Profiles:  make([]model.ShelfLifeProfile, 0, len(s.profiles)),
		Targets:   append([]model.MinimumTarget(nil), s.targets...),
		Levels:    make([]model.StockLevel, 0, len(s.levels)),
		Movements: append([]model.MovementRecord(nil), s.movements...),
		Orders:    append([]model.ReplenishmentOrder(nil), s.orders...),
		Windows:   append([]model.ShelfLifeWindow(nil), s.windows...),
		Demands:   append([]model.UnfulfilledDemand(nil), s.demands...),
	}
	for _, it := range s.items {
		snap.Items = append(snap.Items, it)
	}
	for _, f := range s.formats {
		snap.Formats = append(snap.Formats, f)
	}
	for _, l := range s.locations {
		snap.Locations = append(snap.Locations, l)
	}
	for _, p := range s.profiles {
		snap.Profiles = append(snap.Profiles, p)
	}
	for itemID, byLoc := range s.priorities {
		for locID, prio := range byLoc {
			snap.Priorities = append(snap.Priorities, model.PriorityRule{ItemID: itemID, LocationID: locID, Priority: prio})
		}
	}
	for k, q := range s.levels {
		snap.Levels = append(snap.Levels, model.StockLevel{ItemID: k.itemID, LocationID: k.locationID, Quantity: q})
	}
	return snap
}

// LockItem serializes engine operations on one item. Returns the unlock func.
func (s *Store) LockItem(itemID string) func() {
	s.lockMu.Lock()
	l, ok := s.itemLocks[itemID]
	if !ok {
		l = &sync.Mutex{}
		s.itemLocks[itemID] = l
	}
	s.lockMu.Unlock()

	l.Lock()
	return l.Unlock
}

// OverflowID returns the configured overflow ("backstock") location id.
func (s *Store) OverflowID() string {
	return s.overflowID
}

// --- Catalog reads ---

func (s *Store) Item(id string) (model.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	return it, ok
}

func (s *Store) Format(id string) (model.Format, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.formats[id]
	return f, ok
}

func (s *Store) Location(id string) (model.StorageLocation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.locations[id]
	return l, ok
}

func (s *Store) Profile(id string) (model.ShelfLifeProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	return p, ok
}

// Priority returns the configured rule for an (item, location) pair; absence
// of a rule is priority 0.
func (s *Store) Priority(itemID, locationID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.priorities[itemID][locationID]
}

// PriorityRules returns the configured rules for one item.
func (s *Store) PriorityRules(itemID string) []model.PriorityRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byLoc := s.priorities[itemID]
	rules := make([]model.PriorityRule, 0, len(byLoc))
	for locID, prio := range byLoc {
		rules = append(rules, model.PriorityRule{ItemID: itemID, LocationID: locID, Priority: prio})
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].LocationID < rules[j].LocationID })
	return rules
}

func (s *Store) MinimumTargets() []model.MinimumTarget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.MinimumTarget(nil), s.targets...)
}

// --- Stock levels ---

func (s *Store) Level(itemID, locationID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.levels[levelKey{itemID, locationID}]
}

// LevelsForItem returns the item's levels across all locations that hold a
// record, in stable location order.
func (s *Store) LevelsForItem(itemID string) []model.StockLevel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.StockLevel, 0, 4)
	for k, q := range s.levels {
		if k.itemID == itemID {
			out = append(out, model.StockLevel{ItemID: itemID, LocationID: k.locationID, Quantity: q})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return out
}

// SetLevel writes a stock level, creating the record if absent.
func (s *Store) SetLevel(itemID, locationID string, quantity float64) model.StockLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels[levelKey{itemID, locationID}] = quantity
	return model.StockLevel{ItemID: itemID, LocationID: locationID, Quantity: quantity}
}

// --- Movements ---

func (s *Store) AppendMovement(m model.MovementRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movements = append(s.movements, m)
}

// Movements returns the most recent records first, at most limit (0 = all).
func (s *Store) Movements(limit int) []model.MovementRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.movements)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]model.MovementRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.movements[i])
	}
	return out
}

// --- Orders ---

func (s *Store) Order(id string) (model.ReplenishmentOrder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.orderIdx[id]
	if !ok {
		return model.ReplenishmentOrder{}, false
	}
	return s.orders[i], true
}

func (s *Store) Orders() []model.ReplenishmentOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ReplenishmentOrder(nil), s.orders...)
}

// OpenOrdersForItem returns the item's orders not yet RECEIVED.
func (s *Store) OpenOrdersForItem(itemID string) []model.ReplenishmentOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.ReplenishmentOrder
	for _, o := range s.orders {
		if o.ItemID == itemID && o.Status != constant.OrderStatusReceived {
			out = append(out, o)
		}
	}
	return out
}

// UpsertOrder inserts or replaces an order by id.
func (s *Store) UpsertOrder(o model.ReplenishmentOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.orderIdx[o.ID]; ok {
		s.orders[i] = o
		return
	}
	s.orderIdx[o.ID] = len(s.orders)
	s.orders = append(s.orders, o)
}

// --- Shelf-life windows ---

func (s *Store) AppendWindow(w model.ShelfLifeWindow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = append(s.windows, w)
}

func (s *Store) Windows() []model.ShelfLifeWindow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ShelfLifeWindow(nil), s.windows...)
}

// --- Unfulfilled demands ---

func (s *Store) AppendDemand(d model.UnfulfilledDemand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.demands = append(s.demands, d)
}

func (s *Store) Demands() []model.UnfulfilledDemand {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.UnfulfilledDemand(nil), s.demands...)
}
