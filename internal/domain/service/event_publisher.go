// Package service defines ports for external collaborators.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderEvent is published after an order lifecycle change has been committed.
type OrderEvent struct {
	RequestID   string     `json:"request_id,omitempty"` // For distributed tracing
	Name        string     `json:"name"`
	OrderID     uuid.UUID  `json:"order_id"`
	RenterID    uuid.UUID  `json:"renter_id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Status      string     `json:"status"`
	ActorID     uuid.UUID  `json:"actor_id"`
	FinalAmount int64      `json:"final_amount"`
	Deposit     int64      `json:"deposit_amount"`
	DisputeID   *uuid.UUID `json:"dispute_id,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishOrderEvent publishes an order lifecycle event
	PublishOrderEvent(ctx context.Context, event *OrderEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
