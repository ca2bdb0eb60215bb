package repository

import (
	"context"

	"github.com/dropDatabas3/aegis/internal/domain"
)

// ModerationLogRepository persiste el log de auditoría.
// Append-only: no hay update ni delete.
type ModerationLogRepository interface {
	// Append agrega una entrada. Solo falla por error de storage.
	Append(ctx context.Context, entry *domain.LogEntry) error

	// Query retorna entradas cuyo scope coincide con alguno de los scopes
	// dados, más nuevas primero. scopes nil significa sin filtro (query
	// global). La expansión a descendientes la hace el resolver, no el store.
	Query(ctx context.Context, scopes []domain.Scope, offset, limit int) ([]domain.LogEntry, error)
}
