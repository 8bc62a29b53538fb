package persistence

import (
	"context"

	"github.com/Qguillot-pro/barstock-pro/model"
	"github.com/jmoiron/sqlx"
)

// SQL is the durable persistence sink. It is only ever invoked from the
// outbox worker; every statement is idempotent so a retried job stays
// harmless.
type SQL struct {
	conn *sqlx.DB
}

func NewPersistenceRepository(conn *sqlx.DB) *SQL {
	return &SQL{conn: conn}
}

func (r *SQL) SaveStockLevel(ctx context.Context, level model.StockLevel) error {
	_, err := r.conn.ExecContext(ctx,
		"INSERT INTO stock_levels (item_id, location_id, quantity) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE quantity = VALUES(quantity)",
		level.ItemID, level.LocationID, level.Quantity)
	return err
}

func (r *SQL) SaveMovement(ctx context.Context, movement model.MovementRecord) error {
	_, err := r.conn.ExecContext(ctx,
		"INSERT INTO movements (id, item_id, location_id, direction, quantity, date, actor, note, is_replenishment_transfer) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) ON DUPLICATE KEY UPDATE id = id",
		movement.ID, movement.ItemID, movement.LocationID, string(movement.Direction), movement.Quantity, movement.Date, movement.Actor, movement.Note, movement.IsReplenishmentTransfer)
	return err
}

func (r *SQL) SaveOrder(ctx context.Context, order model.ReplenishmentOrder) error {
	_, err := r.conn.ExecContext(ctx,
		"INSERT INTO replenishment_orders (id, item_id, quantity, initial_quantity, created_at, shortage_detected_at, ordered_at, received_at, status, actor) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) ON DUPLICATE KEY UPDATE quantity = VALUES(quantity), ordered_at = VALUES(ordered_at), received_at = VALUES(received_at), status = VALUES(status)",
		order.ID, order.ItemID, order.Quantity, order.InitialQuantity, order.CreatedAt, order.ShortageDetectedAt, order.OrderedAt, order.ReceivedAt, string(order.Status), order.Actor)
	return err
}

func (r *SQL) SaveShelfLifeWindow(ctx context.Context, window model.ShelfLifeWindow) error {
	_, err := r.conn.ExecContext(ctx,
		"INSERT INTO shelf_life_windows (id, item_id, location_id, opened_at, actor) VALUES (?, ?, ?, ?, ?) ON DUPLICATE KEY UPDATE id = id",
		window.ID, window.ItemID, window.LocationID, window.OpenedAt, window.Actor)
	return err
}

func (r *SQL) SaveUnfulfilledDemand(ctx context.Context, demand model.UnfulfilledDemand) error {
	_, err := r.conn.ExecContext(ctx,
		"INSERT INTO unfulfilled_demands (id, item_id, date, actor) VALUES (?, ?, ?, ?) ON DUPLICATE KEY UPDATE id = id",
		demand.ID, demand.ItemID, demand.Date, demand.Actor)
	return err
}
