package redis

import (
	"context"
	"encoding/json"

	redisclient "github.com/Qguillot-pro/barstock-pro/cmd/redis"
	"github.com/Qguillot-pro/barstock-pro/repository/store"
)

const snapshotKey = "barstock:snapshot"

// Repository caches the engine snapshot in Redis so the service can start
// from the last known state when the primary store is unreachable.
type Repository interface {
	SaveSnapshot(ctx context.Context, snap store.Snapshot) error
	LoadSnapshot(ctx context.Context) (store.Snapshot, bool, error)
}

type redis struct{}

// NewRepository returns a Redis Repository implementation
func NewRepository() Repository {
	return &redis{}
}

// SaveSnapshot stores the JSON-marshaled snapshot. No-op without a client.
func (r *redis) SaveSnapshot(ctx context.Context, snap store.Snapshot) error {
	client := redisclient.Get()
	if client == nil {
		return nil
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return client.Set(ctx, snapshotKey, body, 0).Err()
}

// LoadSnapshot returns the cached snapshot and whether one was found.
func (r *redis) LoadSnapshot(ctx context.Context) (store.Snapshot, bool, error) {
	var snap store.Snapshot
	client := redisclient.Get()
	if client == nil {
		return snap, false, nil
	}
	body, err := client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		return snap, false, err
	}
	if err := json.Unmarshal(body, &snap); err != nil {
		return snap, false, err
	}
	return snap, true, nil
}
