package allocation

import (
	"context"
	"time"

	"github.com/Qguillot-pro/barstock-pro/application/priority"
	"github.com/Qguillot-pro/barstock-pro/application/shelflife"
	"github.com/Qguillot-pro/barstock-pro/constant"
	"github.com/Qguillot-pro/barstock-pro/model"
	"github.com/Qguillot-pro/barstock-pro/repository/outbox"
	"github.com/Qguillot-pro/barstock-pro/repository/store"
	"github.com/Qguillot-pro/barstock-pro/thirdparty/rabbitmq"
	"github.com/Qguillot-pro/barstock-pro/utils/errors"
	"github.com/Qguillot-pro/barstock-pro/utils/logger"
	"github.com/Qguillot-pro/barstock-pro/utils/rounding"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AllocationApp is the single mutation point for stock levels and movement
// history. Insufficient stock on the way out is not an error: the engine
// degrades gracefully and flags the correction, because rejecting a sale at a
// walk-up till is worse than recording a corrected adjustment.
type AllocationApp interface {
	ApplyMovement(ctx context.Context, req *model.MovementRequest) (*model.MovementResult, error)
	DepositAt(ctx context.Context, itemID, locationID string, quantity float64, actor string, partial bool) (*model.MovementResult, error)
	ReportUnfulfilled(ctx context.Context, itemID, actor string) (*model.MovementResult, error)
}

type allocationAppImpl struct {
	store     *store.Store
	resolver  *priority.Resolver
	tracker   shelflife.Tracker
	recorder  outbox.Recorder
	publisher *rabbitmq.Publisher
}

func NewAllocationApp(st *store.Store, resolver *priority.Resolver, tracker shelflife.Tracker, recorder outbox.Recorder, publisher *rabbitmq.Publisher) AllocationApp {
	return &allocationAppImpl{
		store:     st,
		resolver:  resolver,
		tracker:   tracker,
		recorder:  recorder,
		publisher: publisher,
	}
}

func (s *allocationAppImpl) ApplyMovement(ctx context.Context, req *model.MovementRequest) (*model.MovementResult, error) {
	if req.Quantity <= 0 {
		return nil, errors.SetCustomError(constant.ErrInvalidQuantity)
	}
	item, ok := s.store.Item(req.ItemID)
	if !ok {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	unlock := s.store.LockItem(req.ItemID)
	defer unlock()

	if req.Direction == constant.DirectionIn {
		s.autoReceive(req.ItemID)
		return s.applyIn(req)
	}
	return s.applyOut(item, req)
}

// applyOut walks the candidate locations deducting min(remaining, held) at
// each stop. Whatever cannot be covered is forced onto the first candidate,
// clamped to zero, so the level invariant holds while the movement log still
// records the full attempted deduction.
func (s *allocationAppImpl) applyOut(item model.Item, req *model.MovementRequest) (*model.MovementResult, error) {
	result := &model.MovementResult{}
	remaining := rounding.Quantity(req.Quantity)
	candidates := s.resolver.OrderOut(req.ItemID)

	for _, locID := range candidates {
		if remaining <= 0 {
			break
		}
		current := s.store.Level(req.ItemID, locID)
		if current <= 0 {
			continue
		}
		deduct := remaining
		if current < deduct {
			deduct = current
		}

		level := s.store.SetLevel(req.ItemID, locID, rounding.Quantity(current-deduct))
		movement := s.postMovement(req.ItemID, locID, constant.DirectionOut, deduct, req.Actor, "", false)
		result.UpdatedLevels = append(result.UpdatedLevels, level)
		result.Movements = append(result.Movements, movement)

		if item.TracksShelfLife && deduct > 0 {
			s.tracker.OpenWindow(context.Background(), req.ItemID, locID, req.Actor)
		}
		remaining = rounding.Quantity(remaining - deduct)
	}

	if remaining > 0 {
		fallbackID := candidates[0]
		final := rounding.Quantity(s.store.Level(req.ItemID, fallbackID) - remaining)
		note := ""
		if final < 0 {
			final = 0
			note = constant.NoteNegativeCorrected
			result.NegativeCorrected = true
		}
		level := s.store.SetLevel(req.ItemID, fallbackID, final)
		movement := s.postMovement(req.ItemID, fallbackID, constant.DirectionOut, remaining, req.Actor, note, false)
		result.UpdatedLevels = append(result.UpdatedLevels, level)
		result.Movements = append(result.Movements, movement)

		if result.NegativeCorrected {
			logger.Warn("[ApplyMovement] negative balance corrected",
				zap.String("item_id", req.ItemID), zap.Float64("shortfall", remaining))
			s.publishAlert(item, rabbitmq.AlertNegativeCorrected, remaining, req.Actor)
		}
	}

	return result, nil
}

// applyIn deposits the whole quantity at the single first candidate, no
// splitting on the way in.
func (s *allocationAppImpl) applyIn(req *model.MovementRequest) (*model.MovementResult, error) {
	targetID := s.resolver.OrderIn(req.ItemID)[0]
	current := s.store.Level(req.ItemID, targetID)
	level := s.store.SetLevel(req.ItemID, targetID, rounding.Quantity(current+req.Quantity))
	movement := s.postMovement(req.ItemID, targetID, constant.DirectionIn, rounding.Quantity(req.Quantity), req.Actor, "", false)

	return &model.MovementResult{
		Movements:     []model.MovementRecord{movement},
		UpdatedLevels: []model.StockLevel{level},
	}, nil
}

// DepositAt posts a replenishment transfer straight to a chosen location,
// used when an operator acts on a restock need. Receiving stock resolves any
// outstanding shortage orders for the item.
func (s *allocationAppImpl) DepositAt(ctx context.Context, itemID, locationID string, quantity float64, actor string, partial bool) (*model.MovementResult, error) {
	if quantity <= 0 {
		return nil, errors.SetCustomError(constant.ErrInvalidQuantity)
	}
	if _, ok := s.store.Item(itemID); !ok {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	unlock := s.store.LockItem(itemID)
	defer unlock()

	s.autoReceive(itemID)

	note := constant.NoteRestock
	if partial {
		note = constant.NotePartialRestock
	}
	current := s.store.Level(itemID, locationID)
	level := s.store.SetLevel(itemID, locationID, rounding.Quantity(current+quantity))
	movement := s.postMovement(itemID, locationID, constant.DirectionIn, rounding.Quantity(quantity), actor, note, true)

	return &model.MovementResult{
		Movements:     []model.MovementRecord{movement},
		UpdatedLevels: []model.StockLevel{level},
	}, nil
}

// ReportUnfulfilled records that a customer request could not be honored and
// zeroes every level of the item: an unfulfilled request is evidence the
// tracked numbers are stale, so a fresh physical recount is forced.
func (s *allocationAppImpl) ReportUnfulfilled(ctx context.Context, itemID, actor string) (*model.MovementResult, error) {
	item, ok := s.store.Item(itemID)
	if !ok {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	unlock := s.store.LockItem(itemID)
	defer unlock()

	demand := model.UnfulfilledDemand{
		ID:     uuid.New().String(),
		ItemID: itemID,
		Date:   time.Now(),
		Actor:  actor,
	}
	s.store.AppendDemand(demand)
	if s.recorder != nil {
		s.recorder.RecordDemand(demand)
	}

	result := &model.MovementResult{}
	for _, level := range s.store.LevelsForItem(itemID) {
		if level.Quantity <= 0 {
			continue
		}
		updated := s.store.SetLevel(itemID, level.LocationID, 0)
		movement := s.postMovement(itemID, level.LocationID, constant.DirectionOut, level.Quantity, actor, constant.NoteCustomerShortage, false)
		result.UpdatedLevels = append(result.UpdatedLevels, updated)
		result.Movements = append(result.Movements, movement)
	}

	logger.Info("[ReportUnfulfilled] customer shortage recorded",
		zap.String("item_id", itemID), zap.Int("locations_zeroed", len(result.Movements)))
	s.publishAlert(item, rabbitmq.AlertCustomerShortage, 0, actor)

	return result, nil
}

// autoReceive transitions every non-RECEIVED order of the item to RECEIVED.
// Receiving any stock resolves the outstanding shortage signal; quantity
// mismatches are reconciled later through the order lifecycle.
func (s *allocationAppImpl) autoReceive(itemID string) {
	open := s.store.OpenOrdersForItem(itemID)
	if len(open) == 0 {
		return
	}
	now := time.Now()
	for _, o := range open {
		o.Status = constant.OrderStatusReceived
		o.ReceivedAt = &now
		s.store.UpsertOrder(o)
		if s.recorder != nil {
			s.recorder.RecordOrder(o)
		}
	}
	logger.Info("[autoReceive] open orders marked received",
		zap.String("item_id", itemID), zap.Int("count", len(open)))
}

func (s *allocationAppImpl) postMovement(itemID, locationID string, direction constant.MovementDirection, quantity float64, actor, note string, replenishment bool) model.MovementRecord {
	movement := model.MovementRecord{
		ID:                      uuid.New().String(),
		ItemID:                  itemID,
		LocationID:              locationID,
		Direction:               direction,
		Quantity:                quantity,
		Date:                    time.Now(),
		Actor:                   actor,
		Note:                    note,
		IsReplenishmentTransfer: replenishment,
	}
	s.store.AppendMovement(movement)
	if s.recorder != nil {
		s.recorder.RecordMovement(movement)
		s.recorder.RecordLevel(model.StockLevel{
			ItemID:     itemID,
			LocationID: locationID,
			Quantity:   s.store.Level(itemID, locationID),
		})
	}
	return movement
}

func (s *allocationAppImpl) publishAlert(item model.Item, kind string, quantity float64, actor string) {
	if s.publisher == nil {
		return
	}
	msg := rabbitmq.ShortageAlertMessage{
		ItemID:     item.ID,
		ItemName:   item.Name,
		Kind:       kind,
		Quantity:   quantity,
		Actor:      actor,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.PublishShortageAlert(msg); err != nil {
		logger.Error("[publishAlert] publish shortage alert", zap.String("error", err.Error()))
	}
}
