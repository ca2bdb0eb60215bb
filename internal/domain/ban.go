package domain

import "time"

// BanRecord representa un ban de un usuario en un scope.
// Igual que los role grants, nunca se borra: UnbannedAt/UnbannedByUserID
// cierran el registro.
type BanRecord struct {
	ID             string
	SubjectUserID  string
	Scope          Scope
	Reason         *string
	BannedByUserID string
	BannedAt       time.Time
	ExpiresAt      *time.Time
	UnbannedAt     *time.Time
	UnbannedBy     *string
}

// Active indica si el ban está vigente en el instante dado.
// Un ban expirado cuenta como inactivo sin necesidad de unban explícito
// (expiración lazy, sin sweep de fondo).
func (b BanRecord) Active(now time.Time) bool {
	if b.UnbannedAt != nil {
		return false
	}
	if b.ExpiresAt != nil && !b.ExpiresAt.After(now) {
		return false
	}
	return true
}
