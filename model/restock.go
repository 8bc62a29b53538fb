package model

// NeedDetail is one (item, location) pair below its minimum target.
type NeedDetail struct {
	LocationID   string  `json:"location_id"`
	LocationName string  `json:"location_name"`
	CurrentQty   float64 `json:"current_qty"`
	MinQty       float64 `json:"min_qty"`
	Gap          int     `json:"gap"`
	Priority     int     `json:"priority"`
}

// AggregatedNeed groups an item's per-location restock gaps for operator
// decision-making.
type AggregatedNeed struct {
	ItemID      string       `json:"item_id"`
	ItemName    string       `json:"item_name"`
	Category    string       `json:"category"`
	TotalGap    int          `json:"total_gap"`
	MaxPriority int          `json:"max_priority"`
	Urgent      bool         `json:"urgent"`
	Details     []NeedDetail `json:"details"`
}
