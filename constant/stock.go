package constant

type MovementDirection string

const (
	DirectionIn  MovementDirection = "IN"
	DirectionOut MovementDirection = "OUT"
)

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusOrdered  OrderStatus = "ORDERED"
	OrderStatusReceived OrderStatus = "RECEIVED"
)

// DefaultOverflowLocationID is the storage location treated as backstock. It is
// always an eligible allocation target regardless of configured priority: first
// candidate on the way out, last on the way in.
const DefaultOverflowLocationID = "s0"

// OverflowPriority is the implicit priority of the overflow location, above the
// configurable [0,10] range so it always outranks configured rules.
const OverflowPriority = 11

// UrgentShortageWindowHours is how long a customer shortage keeps an item flagged
// as urgent in the restock view.
const UrgentShortageWindowHours = 24

const (
	NoteRestock           = "RESTOCK"
	NotePartialRestock    = "PARTIAL_RESTOCK"
	NoteCustomerShortage  = "CUSTOMER_SHORTAGE"
	NoteNegativeCorrected = "NEGATIVE_BALANCE_CORRECTED"
)
