// Package constants holds configuration values shared across layers.
package constants

// Environments.
const (
	EnvDevelop    = "develop"
	EnvStaging    = "staging"
	EnvProduction = "production"
)

// Event publisher providers.
const (
	PubSubProviderNoop   = "noop"
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Storage drivers.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Idempotency store drivers.
const (
	IdempotencyDriverRedis  = "redis"
	IdempotencyDriverMemory = "memory"
)

// Event names published by the order lifecycle.
const (
	EventOrderCreated        = "order.created"
	EventOrderCancelled      = "order.cancelled"
	EventOrderDisputeOpened  = "order.dispute_opened"
	EventOrderDepositRelease = "order.deposit_release"
	EventOrderDisputeSettled = "order.dispute_resolved"
)
