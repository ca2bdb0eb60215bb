package pg

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/aegis/internal/domain"
)

type logRepo struct{ pool *pgxpool.Pool }

const logColumns = `id, action, actor_user_id, community_id, hub_id, space_id,
	target_description, reason, created_at`

const insertLogQuery = `
	INSERT INTO moderation_log (id, action, actor_user_id, community_id, hub_id, space_id, target_description, reason, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

// insertLogEntry escribe la entrada dentro de la transacción del caller,
// de modo que entidad y log quedan atómicos. Tolera entry nil.
func insertLogEntry(ctx context.Context, tx pgx.Tx, entry *domain.LogEntry) error {
	if entry == nil {
		return nil
	}
	communityID, hubID, spaceID := scopeCols(entry.Scope)
	_, err := tx.Exec(ctx, insertLogQuery,
		entry.ID, string(entry.Action), entry.ActorUserID,
		communityID, hubID, spaceID,
		entry.TargetDescription, entry.Reason, entry.CreatedAt,
	)
	if err != nil {
		return storageErr("insert log entry", err)
	}
	return nil
}

func scanLogEntry(row pgx.Row) (*domain.LogEntry, error) {
	var e domain.LogEntry
	var action string
	var communityID, hubID, spaceID *string
	err := row.Scan(
		&e.ID, &action, &e.ActorUserID, &communityID, &hubID, &spaceID,
		&e.TargetDescription, &e.Reason, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Action = domain.LogAction(action)
	e.Scope = scopeFromCols(communityID, hubID, spaceID)
	return &e, nil
}

func (r *logRepo) Append(ctx context.Context, entry *domain.LogEntry) error {
	communityID, hubID, spaceID := scopeCols(entry.Scope)
	_, err := r.pool.Exec(ctx, insertLogQuery,
		entry.ID, string(entry.Action), entry.ActorUserID,
		communityID, hubID, spaceID,
		entry.TargetDescription, entry.Reason, entry.CreatedAt,
	)
	if err != nil {
		return storageErr("append log entry", err)
	}
	return nil
}

func (r *logRepo) Query(ctx context.Context, scopes []domain.Scope, offset, limit int) ([]domain.LogEntry, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 50
	}

	var query string
	var args []any
	if scopes == nil {
		// Sin filtro: query global sobre todo el log.
		query = `SELECT ` + logColumns + ` FROM moderation_log ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
		args = []any{limit, offset}
	} else {
		pred, predArgs := scopePredicate(scopes, 1)
		query = `SELECT ` + logColumns + ` FROM moderation_log WHERE ` + pred +
			` ORDER BY created_at DESC, id DESC` +
			` LIMIT $` + strconv.Itoa(len(predArgs)+1) + ` OFFSET $` + strconv.Itoa(len(predArgs)+2)
		args = append(predArgs, limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("query log", err)
	}
	defer rows.Close()

	var out []domain.LogEntry
	for rows.Next() {
		e, err := scanLogEntry(rows)
		if err != nil {
			return nil, storageErr("scan log entry", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}
