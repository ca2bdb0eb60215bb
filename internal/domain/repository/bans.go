package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/aegis/internal/domain"
)

// BanRepository persiste registros de ban.
type BanRepository interface {
	// Create inserta un ban y su entrada de log en una unidad atómica.
	Create(ctx context.Context, ban *domain.BanRecord, entry *domain.LogEntry) error

	// GetByID obtiene un ban por ID. ErrNotFound si no existe.
	GetByID(ctx context.Context, banID string) (*domain.BanRecord, error)

	// Unban cierra un ban (borrado lógico). ErrNotFound si no existe;
	// ErrAlreadyUnbanned si UnbannedAt ya estaba seteado. Un ban expirado
	// pero no cerrado se puede cerrar igual (queda registrado quién lo cerró).
	Unban(ctx context.Context, banID, unbannedBy string, at time.Time, entry *domain.LogEntry) error

	// ActiveAt retorna los bans activos (no cerrados y no expirados a `now`)
	// del usuario cuyo scope coincide con alguno de los scopes dados.
	ActiveAt(ctx context.Context, userID string, scopes []domain.Scope, now time.Time) ([]domain.BanRecord, error)
}
