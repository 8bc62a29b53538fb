package model

import (
	"time"

	"github.com/Qguillot-pro/barstock-pro/constant"
)

// ReplenishmentOrder tracks a shortage from detection to receipt.
// InitialQuantity keeps the originally requested amount so the operator can see
// requested-vs-received deltas after reconciliation.
type ReplenishmentOrder struct {
	ID                 string               `json:"id" db:"id"`
	ItemID             string               `json:"item_id" db:"item_id"`
	Quantity           int                  `json:"quantity" db:"quantity"`
	InitialQuantity    int                  `json:"initial_quantity" db:"initial_quantity"`
	CreatedAt          time.Time            `json:"created_at" db:"created_at"`
	ShortageDetectedAt *time.Time           `json:"shortage_detected_at,omitempty" db:"shortage_detected_at"`
	OrderedAt          *time.Time           `json:"ordered_at,omitempty" db:"ordered_at"`
	ReceivedAt         *time.Time           `json:"received_at,omitempty" db:"received_at"`
	Status             constant.OrderStatus `json:"status" db:"status"`
	Actor              string               `json:"actor" db:"actor"`
}

// UnfulfilledDemand records a customer-facing request that could not be
// honored. Creating one zeroes all stock levels for the item.
type UnfulfilledDemand struct {
	ID     string    `json:"id" db:"id"`
	ItemID string    `json:"item_id" db:"item_id"`
	Date   time.Time `json:"date" db:"date"`
	Actor  string    `json:"actor" db:"actor"`
}

type CreateOrderRequest struct {
	ItemID   string  `json:"item_id" validate:"required"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
	Actor    string  `json:"actor"`
}

type MarkOrderedRequest struct {
	OrderIDs []string `json:"order_ids" validate:"required,min=1"`
	Actor    string   `json:"actor"`
}

type ReconcileReceiptRequest struct {
	PrimaryOrderID   string   `json:"primary_order_id" validate:"required"`
	RelatedOrderIDs  []string `json:"related_order_ids"`
	ReceivedQuantity int      `json:"received_quantity" validate:"gte=0"`
}

type UpdateOrderQuantityRequest struct {
	Quantity float64 `json:"quantity" validate:"gte=0"`
}
