// Package store define el factory de stores del motor de moderación.
//
// Adapters disponibles:
//   - postgres: pgx sobre las tablas de moderación (producción)
//   - memory: en proceso, para desarrollo y tests
package store

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/aegis/internal/domain/repository"
	"github.com/dropDatabas3/aegis/internal/store/memory"
	"github.com/dropDatabas3/aegis/internal/store/pg"
)

// Store agrupa los repositorios de moderación más el ciclo de vida de la
// conexión. El agregado de repos coincide estructuralmente con
// moderation.Store.
type Store interface {
	Roles() repository.RoleGrantRepository
	Bans() repository.BanRepository
	Reports() repository.ReportRepository
	ReportComments() repository.ReportCommentRepository
	ReportReasons() repository.ReportReasonRepository
	ModerationLog() repository.ModerationLogRepository

	Ping(ctx context.Context) error
	Close() error
}

// Config selecciona y configura el adapter.
type Config struct {
	// Driver: "postgres" | "memory". Default: "memory".
	Driver string

	// DSN para postgres.
	DSN string

	// Pool de conexiones (solo postgres).
	MaxOpenConns int
	MaxIdleConns int
}

// Open crea el store según la configuración.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return pg.Open(ctx, pg.Config{
			DSN:          cfg.DSN,
			MaxOpenConns: cfg.MaxOpenConns,
			MaxIdleConns: cfg.MaxIdleConns,
		})
	case "memory", "":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
