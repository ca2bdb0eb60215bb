// Package pg implementa el store de moderación sobre PostgreSQL.
// Usa pgxpool directamente; cada mutación auditada escribe entidad +
// entrada de log en una transacción.
package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/aegis/internal/domain/repository"
)

// Config configura la conexión a PostgreSQL.
type Config struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// Conn es una conexión activa a PostgreSQL.
type Conn struct {
	pool *pgxpool.Pool
}

// Open crea el pool y verifica la conexión.
func Open(ctx context.Context, cfg Config) (*Conn, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}

	// Configurar pool
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	} else {
		poolCfg.MinConns = 2
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}

	return &Conn{pool: pool}, nil
}

func (c *Conn) Ping(ctx context.Context) error { return c.pool.Ping(ctx) }

// Pool expone el pool subyacente para componentes que comparten la
// conexión (ej: el content directory).
func (c *Conn) Pool() *pgxpool.Pool { return c.pool }

func (c *Conn) Close() error {
	c.pool.Close()
	return nil
}

// ─── Repositorios ───

func (c *Conn) Roles() repository.RoleGrantRepository              { return &roleRepo{pool: c.pool} }
func (c *Conn) Bans() repository.BanRepository                     { return &banRepo{pool: c.pool} }
func (c *Conn) Reports() repository.ReportRepository               { return &reportRepo{pool: c.pool} }
func (c *Conn) ReportComments() repository.ReportCommentRepository { return &commentRepo{pool: c.pool} }
func (c *Conn) ReportReasons() repository.ReportReasonRepository   { return &reasonRepo{pool: c.pool} }
func (c *Conn) ModerationLog() repository.ModerationLogRepository  { return &logRepo{pool: c.pool} }

// storageErr envuelve errores inesperados del driver como ErrStorage.
// Este core nunca reintenta; la política de retry es del caller.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: pg: %s: %v", repository.ErrStorage, op, err)
}

// isUniqueViolation detecta violaciones de índice único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
