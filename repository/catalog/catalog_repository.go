package catalog

import (
	"context"

	"github.com/Qguillot-pro/barstock-pro/repository/store"
	"github.com/jmoiron/sqlx"
)

// CatalogRepository loads the full snapshot the engine operates on. The
// catalog tables are maintained by an external configuration collaborator;
// this repository only reads.
type CatalogRepository interface {
	LoadSnapshot(ctx context.Context) (store.Snapshot, error)
}

type SQL struct {
	conn *sqlx.DB
}

func NewCatalogRepository(conn *sqlx.DB) CatalogRepository {
	return &SQL{conn: conn}
}

func (r *SQL) LoadSnapshot(ctx context.Context) (store.Snapshot, error) {
	var snap store.Snapshot

	if err := r.conn.SelectContext(ctx, &snap.Items, "SELECT id, article_code, name, category, format_id, price_per_unit, tracks_shelf_life, shelf_life_profile_id, sort_order FROM items ORDER BY sort_order ASC"); err != nil {
		return snap, err
	}
	if err := r.conn.SelectContext(ctx, &snap.Formats, "SELECT id, name, value FROM formats"); err != nil {
		return snap, err
	}
	if err := r.conn.SelectContext(ctx, &snap.Locations, "SELECT id, name, sort_order FROM storage_locations ORDER BY sort_order ASC, name ASC"); err != nil {
		return snap, err
	}
	if err := r.conn.SelectContext(ctx, &snap.Profiles, "SELECT id, name, duration_hours FROM shelf_life_profiles"); err != nil {
		return snap, err
	}
	if err := r.conn.SelectContext(ctx, &snap.Priorities, "SELECT item_id, location_id, priority FROM priority_rules"); err != nil {
		return snap, err
	}
	if err := r.conn.SelectContext(ctx, &snap.Targets, "SELECT item_id, location_id, min_quantity FROM minimum_targets"); err != nil {
		return snap, err
	}
	if err := r.conn.SelectContext(ctx, &snap.Levels, "SELECT item_id, location_id, quantity FROM stock_levels"); err != nil {
		return snap, err
	}
	// recent history is enough for the presentation layer; oldest first so the
	// in-memory log keeps append order
	if err := r.conn.SelectContext(ctx, &snap.Movements, "SELECT id, item_id, location_id, direction, quantity, date, actor, note, is_replenishment_transfer FROM movements ORDER BY date DESC LIMIT 1000"); err != nil {
		return snap, err
	}
	reverse(snap.Movements)
	if err := r.conn.SelectContext(ctx, &snap.Orders, "SELECT id, item_id, quantity, initial_quantity, created_at, shortage_detected_at, ordered_at, received_at, status, actor FROM replenishment_orders ORDER BY created_at ASC"); err != nil {
		return snap, err
	}
	if err := r.conn.SelectContext(ctx, &snap.Windows, "SELECT id, item_id, location_id, opened_at, actor FROM shelf_life_windows ORDER BY opened_at ASC"); err != nil {
		return snap, err
	}
	if err := r.conn.SelectContext(ctx, &snap.Demands, "SELECT id, item_id, date, actor FROM unfulfilled_demands ORDER BY date ASC"); err != nil {
		return snap, err
	}

	return snap, nil
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
