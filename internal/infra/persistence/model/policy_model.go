package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PolicyModel is the GORM-specific struct for the 'policies' table.
// uq_policies_active_scope (see migrate.go) keeps at most one active row per scope.
type PolicyModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	Kind           string    `gorm:"type:varchar(32);not null"`
	ScopeID        string    `gorm:"type:varchar(80);not null;index"`
	Version        int       `gorm:"not null"`
	EffectiveFrom  time.Time `gorm:"not null"`
	EffectiveTo    *time.Time
	IsActive       bool           `gorm:"not null;default:false"`
	Payload        datatypes.JSON `gorm:"type:jsonb;not null"`
	ChangesSummary string         `gorm:"type:text"`
	CreatedBy      uuid.UUID      `gorm:"type:uuid;not null"`
	ActivatedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (PolicyModel) TableName() string {
	return "policies"
}

// PrivacyTypeModel is the GORM-specific struct for the 'privacy_types' table.
type PrivacyTypeModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Name        string    `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description string    `gorm:"type:text"`
	IsActive    bool      `gorm:"not null;default:true"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (PrivacyTypeModel) TableName() string {
	return "privacy_types"
}
