// Package order implements the order lifecycle state machine.
//
// An order advances through a fixed set of statuses along validated
// edges: CREATED -> INVENTORY_CHECKED -> PAYMENT_PROCESSED -> SHIPPED ->
// COMPLETED, with CANCELLED reachable from every pre-shipping status.
// COMPLETED and CANCELLED are absorbing: no edge leaves them.
//
// Machine owns the live orders and is the only writer of Status. All
// lookups return independent clones so callers can never mutate machine
// state through a returned order.
package order

// Status identifies a stage in the order lifecycle.
type Status string

const (
	StatusCreated          Status = "CREATED"
	StatusInventoryChecked Status = "INVENTORY_CHECKED"
	StatusPaymentProcessed Status = "PAYMENT_PROCESSED"
	StatusShipped          Status = "SHIPPED"
	StatusCompleted        Status = "COMPLETED"
	StatusCancelled        Status = "CANCELLED"
)

// transitions maps each status to the statuses reachable from it.
// Terminal statuses carry explicit empty entries so the table is total:
// membership in the map distinguishes "no outgoing edges" from "unknown
// status".
var transitions = map[Status][]Status{
	StatusCreated:          {StatusInventoryChecked, StatusCancelled},
	StatusInventoryChecked: {StatusPaymentProcessed, StatusCancelled},
	StatusPaymentProcessed: {StatusShipped, StatusCancelled},
	StatusShipped:          {StatusCompleted},
	StatusCompleted:        {},
	StatusCancelled:        {},
}

// CanTransitionTo reports whether the edge s -> target is legal.
// Unknown statuses have no outgoing edges.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Terminal reports whether s is an absorbing status with no outgoing
// edges. Only statuses present in the transition table qualify; an
// unknown status is not terminal, it is invalid.
func (s Status) Terminal() bool {
	next, known := transitions[s]
	return known && len(next) == 0
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}
