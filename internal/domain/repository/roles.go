package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/aegis/internal/domain"
)

// RoleGrantRepository persiste asignaciones de rol.
type RoleGrantRepository interface {
	// Create inserta un grant y su entrada de log en una unidad atómica.
	// Retorna ErrConflict si ya existe un grant ACTIVO con el mismo
	// (subject, roleType, scope). El store debe garantizarlo también bajo
	// inserts concurrentes (índice único parcial o equivalente).
	Create(ctx context.Context, grant *domain.RoleGrant, entry *domain.LogEntry) error

	// GetByID obtiene un grant por ID (revocado o no). ErrNotFound si no existe.
	GetByID(ctx context.Context, grantID string) (*domain.RoleGrant, error)

	// Revoke cierra un grant activo (borrado lógico, nunca físico).
	// ErrNotFound si no existe; ErrAlreadyRevoked si ya estaba revocado.
	// Escribe la entrada de log en la misma unidad atómica.
	Revoke(ctx context.Context, grantID, revokedBy string, at time.Time, entry *domain.LogEntry) error

	// ActiveByUser retorna todos los grants activos del usuario.
	ActiveByUser(ctx context.Context, userID string) ([]domain.RoleGrant, error)

	// ActiveAt retorna los grants activos del usuario cuyo scope coincide
	// exactamente con alguno de los scopes dados (el caller pasa la cadena
	// de ancestros; la herencia se resuelve arriba, no acá).
	ActiveAt(ctx context.Context, userID string, scopes []domain.Scope) ([]domain.RoleGrant, error)
}
