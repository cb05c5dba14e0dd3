package postgres

import (
	"rentalhub/internal/errors"
	"rentalhub/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// activePolicyIndex is the partial unique index behind "one active document per scope".
const activePolicyIndex = "uq_policies_active_scope"

// Models lists every table this service owns. The items table belongs to the catalog
// and is only migrated so local databases can be seeded.
func Models() []any {
	return []any{
		&model.PolicyModel{},
		&model.PrivacyTypeModel{},
		&model.DiscountModel{},
		&model.OrderModel{},
		&model.OrderStatusHistoryModel{},
		&model.UserDeviceModel{},
		&model.ItemModel{},
	}
}

// Migrate creates or updates the schema, including constraints GORM tags cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return errors.Wrap(err, "auto migrate")
	}

	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS ` + activePolicyIndex + ` ON policies (scope_id) WHERE is_active`,
		`CREATE INDEX IF NOT EXISTS idx_discounts_listing ON discounts (is_special, start_at, end_at)`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return errors.Wrapf(err, "migrate: %s", stmt)
		}
	}

	return nil
}
