// Package persistence selects the storage backend behind the repository ports.
package persistence

import (
	"log/slog"

	"rentalhub/config"
	"rentalhub/internal/domain/constants"
	"rentalhub/internal/domain/repository"
	"rentalhub/internal/domain/service"
	"rentalhub/internal/errors"
	"rentalhub/internal/infra/persistence/memory"
	"rentalhub/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

// Params holds dependencies for the storage backend, injected by Fx
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// Repositories exposes every repository of the selected backend to Fx
type Repositories struct {
	fx.Out

	TxManager       repository.TransactionManager
	PolicyRepo      repository.PolicyRepository
	PrivacyTypeRepo repository.PrivacyTypeRepository
	DiscountRepo    repository.DiscountRepository
	OrderRepo       repository.OrderRepository
	AnalyticsRepo   repository.OrderAnalyticsRepository
	DeviceRepo      repository.DeviceRepository
	Catalog         service.ItemCatalog
}

// NewRepositories wires the repositories to the backend named by storage.driver
func NewRepositories(params Params) (Repositories, error) {
	switch params.Config.Storage.Driver {
	case constants.StorageDriverMemory:
		params.Logger.Warn("Using in-memory storage; data is lost on restart")

		catalog, err := memory.NewItemCatalogFromConfig(params.Config)
		if err != nil {
			return Repositories{}, err
		}
		store := memory.NewStore()

		return Repositories{
			TxManager:       memory.NewTransactionManager(store),
			PolicyRepo:      memory.NewPolicyRepository(store),
			PrivacyTypeRepo: memory.NewPrivacyTypeRepository(store),
			DiscountRepo:    memory.NewDiscountRepository(store),
			OrderRepo:       memory.NewOrderRepository(store),
			AnalyticsRepo:   memory.NewOrderAnalyticsRepository(store),
			DeviceRepo:      memory.NewDeviceRepository(store),
			Catalog:         catalog,
		}, nil

	case constants.StorageDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return Repositories{}, err
		}

		return Repositories{
			TxManager:       postgres.NewTransactionManager(db),
			PolicyRepo:      postgres.NewPolicyRepository(db),
			PrivacyTypeRepo: postgres.NewPrivacyTypeRepository(db),
			DiscountRepo:    postgres.NewDiscountRepository(db),
			OrderRepo:       postgres.NewOrderRepository(db),
			AnalyticsRepo:   postgres.NewOrderAnalyticsRepository(db),
			DeviceRepo:      postgres.NewDeviceRepository(db),
			Catalog:         postgres.NewItemCatalog(db),
		}, nil

	default:
		return Repositories{}, errors.Errorf("unknown storage driver: %s", params.Config.Storage.Driver)
	}
}

// Module provides the storage FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewRepositories),
)
