package orders

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/Qguillot-pro/barstock-pro/constant"
	"github.com/Qguillot-pro/barstock-pro/model"
	"github.com/Qguillot-pro/barstock-pro/repository/outbox"
	"github.com/Qguillot-pro/barstock-pro/repository/store"
	"github.com/Qguillot-pro/barstock-pro/utils/errors"
	"github.com/Qguillot-pro/barstock-pro/utils/logger"
	"github.com/Qguillot-pro/barstock-pro/utils/rounding"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderApp manages the replenishment order lifecycle
// PENDING -> ORDERED -> RECEIVED. Operations addressing an unknown order id
// are silent no-ops so duplicated deliveries from an unreliable transport stay
// harmless.
type OrderApp interface {
	Create(ctx context.Context, itemID string, quantity float64, actor string, shortageAt *time.Time) (*model.ReplenishmentOrder, error)
	MarkOrdered(ctx context.Context, orderIDs []string, actor string)
	MarkReceived(ctx context.Context, orderID, actor string)
	Reconcile(ctx context.Context, primaryOrderID string, relatedOrderIDs []string, receivedQuantity int)
	UpdateQuantity(ctx context.Context, orderID string, quantity float64)
	List(ctx context.Context) []model.ReplenishmentOrder
	ExportCSV(ctx context.Context, orderIDs []string, actor string, w io.Writer) error
}

type orderAppImpl struct {
	store    *store.Store
	recorder outbox.Recorder
}

func NewOrderApp(st *store.Store, recorder outbox.Recorder) OrderApp {
	return &orderAppImpl{store: st, recorder: recorder}
}

// Create opens a PENDING order. Quantities are floored to whole units (orders
// are placed per unit); the original request is kept on InitialQuantity for
// requested-vs-received deltas. A zero quantity with a shortage timestamp is a
// pure shortage report.
func (s *orderAppImpl) Create(ctx context.Context, itemID string, quantity float64, actor string, shortageAt *time.Time) (*model.ReplenishmentOrder, error) {
	if _, ok := s.store.Item(itemID); !ok {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	qty := rounding.Floor(quantity)
	order := model.ReplenishmentOrder{
		ID:                 uuid.New().String(),
		ItemID:             itemID,
		Quantity:           qty,
		InitialQuantity:    qty,
		CreatedAt:          time.Now(),
		ShortageDetectedAt: shortageAt,
		Status:             constant.OrderStatusPending,
		Actor:              actor,
	}
	s.store.UpsertOrder(order)
	s.record(order)

	logger.Info("[CreateOrder] order created",
		zap.String("order_id", order.ID), zap.String("item_id", itemID), zap.Int("quantity", qty))
	return &order, nil
}

// MarkOrdered bulk-transitions PENDING orders to ORDERED, stamping orderedAt.
func (s *orderAppImpl) MarkOrdered(ctx context.Context, orderIDs []string, actor string) {
	now := time.Now()
	for _, id := range orderIDs {
		order, ok := s.store.Order(id)
		if !ok || order.Status != constant.OrderStatusPending {
			continue
		}
		order.Status = constant.OrderStatusOrdered
		order.OrderedAt = &now
		s.store.UpsertOrder(order)
		s.record(order)
	}
}

// MarkReceived transitions a PENDING or ORDERED order to RECEIVED.
func (s *orderAppImpl) MarkReceived(ctx context.Context, orderID, actor string) {
	order, ok := s.store.Order(orderID)
	if !ok || order.Status == constant.OrderStatusReceived {
		return
	}
	now := time.Now()
	order.Status = constant.OrderStatusReceived
	order.ReceivedAt = &now
	s.store.UpsertOrder(order)
	s.record(order)
}

// Reconcile sets the primary order's quantity to the true received total and
// zeroes every related order of the same receipt group. The zeroed siblings
// stay as historical records but stop contributing to outstanding quantities.
func (s *orderAppImpl) Reconcile(ctx context.Context, primaryOrderID string, relatedOrderIDs []string, receivedQuantity int) {
	if primary, ok := s.store.Order(primaryOrderID); ok {
		primary.Quantity = receivedQuantity
		s.store.UpsertOrder(primary)
		s.record(primary)
	}
	for _, id := range relatedOrderIDs {
		related, ok := s.store.Order(id)
		if !ok {
			continue
		}
		related.Quantity = 0
		s.store.UpsertOrder(related)
		s.record(related)
	}
}

// UpdateQuantity is an operator correction to a still-open order.
func (s *orderAppImpl) UpdateQuantity(ctx context.Context, orderID string, quantity float64) {
	order, ok := s.store.Order(orderID)
	if !ok || order.Status == constant.OrderStatusReceived {
		return
	}
	order.Quantity = rounding.Floor(quantity)
	s.store.UpsertOrder(order)
	s.record(order)
}

func (s *orderAppImpl) List(ctx context.Context) []model.ReplenishmentOrder {
	return s.store.Orders()
}

// ExportCSV writes the operator-facing order sheet for the selected orders and
// transitions them to ORDERED: exporting is the act of sending the batch to
// the supplier.
func (s *orderAppImpl) ExportCSV(ctx context.Context, orderIDs []string, actor string, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Item", "Format", "Quantity", "Date", "Status"}); err != nil {
		return errors.SetCustomError(constant.ErrInternal)
	}

	for _, id := range orderIDs {
		order, ok := s.store.Order(id)
		if !ok {
			continue
		}
		itemName, formatName := "unknown", ""
		if item, ok := s.store.Item(order.ItemID); ok {
			itemName = item.Name
			if format, ok := s.store.Format(item.FormatID); ok {
				formatName = format.Name
			}
		}
		row := []string{
			itemName,
			formatName,
			strconv.Itoa(order.Quantity),
			order.CreatedAt.Format("2006-01-02"),
			string(order.Status),
		}
		if err := cw.Write(row); err != nil {
			return errors.SetCustomError(constant.ErrInternal)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.SetCustomError(constant.ErrInternal)
	}

	s.MarkOrdered(ctx, orderIDs, actor)
	return nil
}

func (s *orderAppImpl) record(order model.ReplenishmentOrder) {
	if s.recorder != nil {
		s.recorder.RecordOrder(order)
	}
}
