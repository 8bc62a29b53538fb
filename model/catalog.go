package model

// Item is a catalog article. Catalog entities are maintained by an external
// configuration collaborator and are read-only inputs to the engine.
type Item struct {
	ID                 string  `json:"id" db:"id"`
	ArticleCode        string  `json:"article_code,omitempty" db:"article_code"`
	Name               string  `json:"name" db:"name"`
	Category           string  `json:"category" db:"category"`
	FormatID           string  `json:"format_id" db:"format_id"`
	PricePerUnit       float64 `json:"price_per_unit" db:"price_per_unit"`
	TracksShelfLife    bool    `json:"tracks_shelf_life" db:"tracks_shelf_life"`
	ShelfLifeProfileID string  `json:"shelf_life_profile_id,omitempty" db:"shelf_life_profile_id"`
	SortOrder          int     `json:"sort_order" db:"sort_order"`
}

type Format struct {
	ID    string  `json:"id" db:"id"`
	Name  string  `json:"name" db:"name"`
	Value float64 `json:"value" db:"value"`
}

type StorageLocation struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	SortOrder int    `json:"sort_order" db:"sort_order"`
}

type ShelfLifeProfile struct {
	ID            string `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	DurationHours int    `json:"duration_hours" db:"duration_hours"`
}

// PriorityRule ranks a storage location for an item, 0-10. Zero (or no rule)
// means the location is not a valid target for that item, except for the
// overflow location which is always eligible.
type PriorityRule struct {
	ItemID     string `json:"item_id" db:"item_id"`
	LocationID string `json:"location_id" db:"location_id"`
	Priority   int    `json:"priority" db:"priority"`
}

// MinimumTarget is the quantity an (item, location) pair should hold before it
// is flagged as needing restock. A target of zero never generates a need.
type MinimumTarget struct {
	ItemID      string  `json:"item_id" db:"item_id"`
	LocationID  string  `json:"location_id" db:"location_id"`
	MinQuantity float64 `json:"min_quantity" db:"min_quantity"`
}
