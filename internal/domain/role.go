package domain

import "time"

// RoleType es el tipo de rol otorgable sobre un scope.
type RoleType string

const (
	RoleModerator     RoleType = "moderator"
	RoleAdministrator RoleType = "administrator"
)

// ParseRoleType valida y normaliza un role type recibido por la API.
func ParseRoleType(s string) (RoleType, bool) {
	switch RoleType(s) {
	case RoleModerator:
		return RoleModerator, true
	case RoleAdministrator:
		return RoleAdministrator, true
	}
	return "", false
}

// RoleGrant representa la asignación de un rol a un usuario en un scope.
// Nunca se borra físicamente: la revocación setea RevokedAt/RevokedByUserID
// (requisito de auditoría).
type RoleGrant struct {
	ID              string
	SubjectUserID   string
	RoleType        RoleType
	Scope           Scope
	GrantedByUserID string
	GrantedAt       time.Time
	RevokedAt       *time.Time
	RevokedByUserID *string
}

// Active indica si el grant sigue vigente (no revocado).
func (g RoleGrant) Active() bool { return g.RevokedAt == nil }

// Covers indica si el grant satisface el rol requerido.
// Administrator implica capacidad de Moderator.
func (g RoleGrant) Covers(required RoleType) bool {
	if g.RoleType == required {
		return true
	}
	return g.RoleType == RoleAdministrator && required == RoleModerator
}
