package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderActions_TransitionTable(t *testing.T) {
	expected := map[OrderAction]struct {
		from   []OrderStatus
		to     OrderStatus
		actors []OrderParty
	}{
		ActionConfirm:      {[]OrderStatus{OrderStatusPending}, OrderStatusConfirmed, []OrderParty{PartyOwner}},
		ActionStart:        {[]OrderStatus{OrderStatusConfirmed}, OrderStatusProgress, []OrderParty{PartyOwner}},
		ActionRenterReturn: {[]OrderStatus{OrderStatusProgress}, OrderStatusReturned, []OrderParty{PartyRenter}},
		ActionComplete:     {[]OrderStatus{OrderStatusReturned}, OrderStatusCompleted, []OrderParty{PartyOwner}},
		ActionCancel:       {[]OrderStatus{OrderStatusPending, OrderStatusConfirmed}, OrderStatusCancelled, []OrderParty{PartyRenter, PartyOwner}},
		ActionOpenDispute: {
			[]OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusProgress, OrderStatusReturned},
			OrderStatusDisputed,
			[]OrderParty{PartyRenter, PartyOwner},
		},
	}

	for _, action := range OrderActions {
		t.Run(string(action), func(t *testing.T) {
			want, ok := expected[action]
			assert.True(t, ok)
			assert.True(t, action.IsValid())
			assert.Equal(t, want.to, action.Target())
			assert.ElementsMatch(t, want.from, action.Sources())

			// Every (status, action) pair is either legal or rejected.
			for _, status := range AllOrderStatuses {
				legal := false
				for _, from := range want.from {
					legal = legal || from == status
				}
				assert.Equal(t, legal, action.AllowedFrom(status), "status %s", status)
			}
			for _, party := range []OrderParty{PartyRenter, PartyOwner} {
				allowed := false
				for _, actor := range want.actors {
					allowed = allowed || actor == party
				}
				assert.Equal(t, allowed, action.AllowedFor(party), "party %s", party)
			}
		})
	}
}

func TestOrderStatus_TerminalStatesHaveNoExit(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusCompleted, OrderStatusCancelled} {
		assert.True(t, status.IsTerminal())
		for _, action := range OrderActions {
			assert.False(t, action.AllowedFrom(status), "%s from %s", action, status)
		}
	}
	assert.False(t, OrderStatusDisputed.IsTerminal())
}

func TestDisputeOutcomeAllowed(t *testing.T) {
	for _, status := range AllOrderStatuses {
		want := status == OrderStatusCompleted || status == OrderStatusCancelled
		assert.Equal(t, want, DisputeOutcomeAllowed(status), string(status))
	}
}

func TestOrderAction_Unknown(t *testing.T) {
	action := OrderAction("teleport")
	assert.False(t, action.IsValid())
	assert.False(t, action.AllowedFrom(OrderStatusPending))
	assert.Empty(t, action.Sources())
}

func TestPaymentStatus_IsValid(t *testing.T) {
	assert.True(t, PaymentStatusPartial.IsValid())
	assert.False(t, PaymentStatus("chargeback").IsValid())
}
