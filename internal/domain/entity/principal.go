package entity

import "github.com/google/uuid"

// Principal is the authenticated caller of a request.
type Principal struct {
	ID    uuid.UUID `json:"id"`
	Roles Roles     `json:"roles"`
}

// IsStaff reports whether the principal may perform back-office mutations.
func (p Principal) IsStaff() bool {
	return p.Roles.ContainsAny(RoleAdmin, RoleModerator)
}
