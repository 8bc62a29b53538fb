package model

import (
	"time"

	"github.com/Qguillot-pro/barstock-pro/constant"
)

// StockLevel is the sole mutable quantity state. Never observably negative
// after an engine operation completes.
type StockLevel struct {
	ItemID     string  `json:"item_id" db:"item_id"`
	LocationID string  `json:"location_id" db:"location_id"`
	Quantity   float64 `json:"quantity" db:"quantity"`
}

// MovementRecord is an append-only log entry for every quantity change,
// including synthetic corrections.
type MovementRecord struct {
	ID                      string                     `json:"id" db:"id"`
	ItemID                  string                     `json:"item_id" db:"item_id"`
	LocationID              string                     `json:"location_id" db:"location_id"`
	Direction               constant.MovementDirection `json:"direction" db:"direction"`
	Quantity                float64                    `json:"quantity" db:"quantity"`
	Date                    time.Time                  `json:"date" db:"date"`
	Actor                   string                     `json:"actor" db:"actor"`
	Note                    string                     `json:"note,omitempty" db:"note"`
	IsReplenishmentTransfer bool                       `json:"is_replenishment_transfer" db:"is_replenishment_transfer"`
}

// MovementRequest is the payload of the allocation engine's single mutating
// entry point.
type MovementRequest struct {
	ItemID    string                     `json:"item_id" validate:"required"`
	Direction constant.MovementDirection `json:"direction" validate:"required,oneof=IN OUT"`
	Quantity  float64                    `json:"quantity" validate:"required"`
	Actor     string                     `json:"actor"`
}

// MovementResult reports every deduction/addition posted for one request.
// NegativeCorrected is set when the requested quantity exceeded all eligible
// stock and the shortfall was clamped to zero on the first candidate location.
type MovementResult struct {
	Movements         []MovementRecord `json:"movements"`
	UpdatedLevels     []StockLevel     `json:"updated_levels"`
	NegativeCorrected bool             `json:"negative_corrected"`
}

// RestockActionRequest is an operator acting on an aggregated need: move
// QuantityToAdd into the location now, order QuantityToOrder for later, or
// report a pure shortage with nothing moved.
type RestockActionRequest struct {
	ItemID          string  `json:"item_id" validate:"required"`
	LocationID      string  `json:"location_id" validate:"required"`
	QuantityToAdd   float64 `json:"quantity_to_add"`
	QuantityToOrder float64 `json:"quantity_to_order"`
	Shortage        bool    `json:"shortage"`
	Actor           string  `json:"actor"`
}
