package entity

import (
	"time"

	"github.com/google/uuid"
)

// PrivacyType groups privacy documents, e.g. "location data" or "payment data".
// Each type owns the scope privacy:<id>.
type PrivacyType struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"` // Inactive types cannot have an active document.
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Scope returns the policy scope of this type's documents.
func (p *PrivacyType) Scope() PolicyScope {
	return PrivacyScope(p.ID)
}
