package entity

import "slices"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusProgress  OrderStatus = "progress"
	OrderStatusReturned  OrderStatus = "returned"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusDisputed  OrderStatus = "disputed"
)

// AllOrderStatuses lists every status in lifecycle order.
var AllOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProgress,
	OrderStatusReturned,
	OrderStatusCompleted,
	OrderStatusCancelled,
	OrderStatusDisputed,
}

// IsValid checks if the OrderStatus is a known value.
func (s OrderStatus) IsValid() bool {
	return slices.Contains(AllOrderStatuses, s)
}

// IsTerminal reports whether no further transition can leave s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// PaymentStatus is owned by the payment collaborator; the lifecycle never derives it.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusNotPaid  PaymentStatus = "not_paid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusPartial  PaymentStatus = "partial"
)

// IsValid checks if the PaymentStatus is a known value.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusNotPaid, PaymentStatusPaid, PaymentStatusRefunded, PaymentStatusPartial:
		return true
	default:
		return false
	}
}

// OrderParty is the side of an order a user is on.
type OrderParty string

const (
	PartyRenter OrderParty = "renter"
	PartyOwner  OrderParty = "owner"
)

// OrderAction is a named lifecycle transition requested by a party.
type OrderAction string

const (
	ActionConfirm      OrderAction = "confirm"
	ActionStart        OrderAction = "start"
	ActionRenterReturn OrderAction = "return"
	ActionComplete     OrderAction = "complete"
	ActionCancel       OrderAction = "cancel"
	ActionOpenDispute  OrderAction = "dispute"
)

type transitionRule struct {
	from   []OrderStatus
	to     OrderStatus
	actors []OrderParty
}

var orderTransitions = map[OrderAction]transitionRule{
	ActionConfirm: {
		from:   []OrderStatus{OrderStatusPending},
		to:     OrderStatusConfirmed,
		actors: []OrderParty{PartyOwner},
	},
	ActionStart: {
		from:   []OrderStatus{OrderStatusConfirmed},
		to:     OrderStatusProgress,
		actors: []OrderParty{PartyOwner},
	},
	ActionRenterReturn: {
		from:   []OrderStatus{OrderStatusProgress},
		to:     OrderStatusReturned,
		actors: []OrderParty{PartyRenter},
	},
	ActionComplete: {
		from:   []OrderStatus{OrderStatusReturned},
		to:     OrderStatusCompleted,
		actors: []OrderParty{PartyOwner},
	},
	ActionCancel: {
		from:   []OrderStatus{OrderStatusPending, OrderStatusConfirmed},
		to:     OrderStatusCancelled,
		actors: []OrderParty{PartyRenter, PartyOwner},
	},
	ActionOpenDispute: {
		from:   []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusProgress, OrderStatusReturned},
		to:     OrderStatusDisputed,
		actors: []OrderParty{PartyRenter, PartyOwner},
	},
}

// OrderActions lists every party-initiated action.
var OrderActions = []OrderAction{
	ActionConfirm,
	ActionStart,
	ActionRenterReturn,
	ActionComplete,
	ActionCancel,
	ActionOpenDispute,
}

// IsValid checks if the OrderAction is a known value.
func (a OrderAction) IsValid() bool {
	_, ok := orderTransitions[a]

	return ok
}

// Target returns the status the action moves an order into.
func (a OrderAction) Target() OrderStatus {
	return orderTransitions[a].to
}

// Sources returns the statuses the action may start from.
func (a OrderAction) Sources() []OrderStatus {
	return slices.Clone(orderTransitions[a].from)
}

// AllowedFrom reports whether the action is legal from status s.
func (a OrderAction) AllowedFrom(s OrderStatus) bool {
	return slices.Contains(orderTransitions[a].from, s)
}

// AllowedFor reports whether party p may request the action.
func (a OrderAction) AllowedFor(p OrderParty) bool {
	return slices.Contains(orderTransitions[a].actors, p)
}

// DisputeOutcomeAllowed reports whether a dispute may be resolved into s.
func DisputeOutcomeAllowed(s OrderStatus) bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}
