package model

import "time"

// ShelfLifeWindow is an append-only record of an open-product window. The
// active window for an (item, location) pair is the most recently opened one;
// older entries stay in the log for audit.
type ShelfLifeWindow struct {
	ID         string    `json:"id" db:"id"`
	ItemID     string    `json:"item_id" db:"item_id"`
	LocationID string    `json:"location_id" db:"location_id"`
	OpenedAt   time.Time `json:"opened_at" db:"opened_at"`
	Actor      string    `json:"actor" db:"actor"`
}

// ShelfLifeStatus is the expiry view of an active window.
type ShelfLifeStatus struct {
	WindowID     string        `json:"window_id"`
	ItemID       string        `json:"item_id"`
	ItemName     string        `json:"item_name"`
	LocationID   string        `json:"location_id"`
	LocationName string        `json:"location_name"`
	OpenedAt     time.Time     `json:"opened_at"`
	Deadline     time.Time     `json:"deadline"`
	Remaining    time.Duration `json:"remaining"`
	Expired      bool          `json:"expired"`
	Actor        string        `json:"actor"`
}
