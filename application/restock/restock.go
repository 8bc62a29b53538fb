package restock

import (
	"context"
	"sort"
	"time"

	"github.com/Qguillot-pro/barstock-pro/application/allocation"
	"github.com/Qguillot-pro/barstock-pro/application/orders"
	"github.com/Qguillot-pro/barstock-pro/application/priority"
	"github.com/Qguillot-pro/barstock-pro/constant"
	"github.com/Qguillot-pro/barstock-pro/model"
	"github.com/Qguillot-pro/barstock-pro/repository/store"
	"github.com/Qguillot-pro/barstock-pro/utils/errors"
	"github.com/Qguillot-pro/barstock-pro/utils/rounding"
)

// RestockApp computes restock needs against the configured minimum targets
// and applies operator decisions on them. ComputeNeeds is a pure read; acting
// on a need goes through the allocation engine and the order lifecycle.
type RestockApp interface {
	ComputeNeeds(ctx context.Context) []model.AggregatedNeed
	Act(ctx context.Context, req *model.RestockActionRequest) error
}

type restockAppImpl struct {
	store      *store.Store
	resolver   *priority.Resolver
	allocation allocation.AllocationApp
	orders     orders.OrderApp
}

func NewRestockApp(st *store.Store, resolver *priority.Resolver, allocationApp allocation.AllocationApp, orderApp orders.OrderApp) RestockApp {
	return &restockAppImpl{
		store:      st,
		resolver:   resolver,
		allocation: allocationApp,
		orders:     orderApp,
	}
}

// ComputeNeeds returns, per item, every (item, location) pair sitting below
// its minimum target. Gaps on targets of at most one unit round up so any
// fractional shortfall still requests a whole unit; larger targets round down
// to avoid over-ordering from rounding noise.
func (s *restockAppImpl) ComputeNeeds(ctx context.Context) []model.AggregatedNeed {
	urgent := s.urgentItems(time.Now())
	byItem := make(map[string]*model.AggregatedNeed)

	for _, target := range s.store.MinimumTargets() {
		item, ok := s.store.Item(target.ItemID)
		if !ok {
			continue
		}
		location, ok := s.store.Location(target.LocationID)
		if !ok {
			continue
		}

		// Priority 0 is the only on/off switch for "should this item ever be
		// restocked here"; the overflow location is always considered.
		prio := s.resolver.Effective(target.ItemID, target.LocationID)
		if prio == 0 {
			continue
		}

		current := s.store.Level(target.ItemID, target.LocationID)
		if current >= target.MinQuantity {
			continue
		}

		rawGap := target.MinQuantity - current
		var gap int
		if target.MinQuantity <= 1 {
			gap = rounding.Ceil(rawGap)
		} else {
			gap = rounding.Floor(rawGap)
		}
		if gap <= 0 {
			continue
		}

		entry, ok := byItem[item.ID]
		if !ok {
			entry = &model.AggregatedNeed{
				ItemID:   item.ID,
				ItemName: item.Name,
				Category: item.Category,
				Urgent:   urgent[item.ID],
			}
			byItem[item.ID] = entry
		}
		entry.Details = append(entry.Details, model.NeedDetail{
			LocationID:   location.ID,
			LocationName: location.Name,
			CurrentQty:   current,
			MinQty:       target.MinQuantity,
			Gap:          gap,
			Priority:     prio,
		})
		entry.TotalGap += gap
		if prio > entry.MaxPriority {
			entry.MaxPriority = prio
		}
	}

	list := make([]model.AggregatedNeed, 0, len(byItem))
	for _, entry := range byItem {
		sort.SliceStable(entry.Details, func(i, j int) bool {
			return entry.Details[i].Priority > entry.Details[j].Priority
		})
		list = append(list, *entry)
	}

	// urgent customer shortages first, then highest priority, then name
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Urgent != list[j].Urgent {
			return list[i].Urgent
		}
		if list[i].MaxPriority != list[j].MaxPriority {
			return list[i].MaxPriority > list[j].MaxPriority
		}
		return list[i].ItemName < list[j].ItemName
	})
	return list
}

// Act applies an operator decision on a surfaced need: full fulfillment,
// partial fulfillment with the remainder ordered, or a pure shortage report
// with nothing moved.
func (s *restockAppImpl) Act(ctx context.Context, req *model.RestockActionRequest) error {
	if req.QuantityToAdd <= 0 && req.QuantityToOrder <= 0 && !req.Shortage {
		return errors.SetCustomError(constant.ErrInvalidRequest)
	}

	if req.QuantityToAdd > 0 {
		partial := req.QuantityToOrder > 0
		if _, err := s.allocation.DepositAt(ctx, req.ItemID, req.LocationID, req.QuantityToAdd, req.Actor, partial); err != nil {
			return err
		}
	}

	if req.QuantityToOrder > 0 || req.Shortage {
		var shortageAt *time.Time
		if req.Shortage {
			now := time.Now()
			shortageAt = &now
		}
		// order whole units, rounding the remainder up
		qty := float64(rounding.Ceil(req.QuantityToOrder))
		if _, err := s.orders.Create(ctx, req.ItemID, qty, req.Actor, shortageAt); err != nil {
			return err
		}
	}
	return nil
}

// urgentItems flags items with an unresolved customer shortage younger than
// the urgency window.
func (s *restockAppImpl) urgentItems(now time.Time) map[string]bool {
	limit := now.Add(-constant.UrgentShortageWindowHours * time.Hour)
	urgent := make(map[string]bool)
	for _, d := range s.store.Demands() {
		if d.Date.After(limit) {
			urgent[d.ItemID] = true
		}
	}
	return urgent
}
