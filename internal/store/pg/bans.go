package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/aegis/internal/domain"
	"github.com/dropDatabas3/aegis/internal/domain/repository"
)

type banRepo struct{ pool *pgxpool.Pool }

const banColumns = `id, subject_user_id, community_id, hub_id, space_id, reason,
	banned_by, banned_at, expires_at, unbanned_at, unbanned_by`

func scanBan(row pgx.Row) (*domain.BanRecord, error) {
	var b domain.BanRecord
	var communityID, hubID, spaceID *string
	err := row.Scan(
		&b.ID, &b.SubjectUserID, &communityID, &hubID, &spaceID, &b.Reason,
		&b.BannedByUserID, &b.BannedAt, &b.ExpiresAt, &b.UnbannedAt, &b.UnbannedBy,
	)
	if err != nil {
		return nil, err
	}
	b.Scope = scopeFromCols(communityID, hubID, spaceID)
	return &b, nil
}

func (r *banRepo) Create(ctx context.Context, ban *domain.BanRecord, entry *domain.LogEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageErr("begin tx", err)
	}
	defer tx.Rollback(ctx)

	communityID, hubID, spaceID := scopeCols(ban.Scope)
	const insertBan = `
		INSERT INTO ban_record (id, subject_user_id, community_id, hub_id, space_id, reason, banned_by, banned_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.Exec(ctx, insertBan,
		ban.ID, ban.SubjectUserID, communityID, hubID, spaceID,
		ban.Reason, ban.BannedByUserID, ban.BannedAt, ban.ExpiresAt,
	)
	if err != nil {
		return storageErr("insert ban", err)
	}

	if err := insertLogEntry(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("commit tx", err)
	}
	return nil
}

func (r *banRepo) GetByID(ctx context.Context, banID string) (*domain.BanRecord, error) {
	const query = `SELECT ` + banColumns + ` FROM ban_record WHERE id = $1`

	b, err := scanBan(r.pool.QueryRow(ctx, query, banID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get ban", err)
	}
	return b, nil
}

func (r *banRepo) Unban(ctx context.Context, banID, unbannedBy string, at time.Time, entry *domain.LogEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageErr("begin tx", err)
	}
	defer tx.Rollback(ctx)

	const update = `
		UPDATE ban_record SET unbanned_at = $2, unbanned_by = $3
		WHERE id = $1 AND unbanned_at IS NULL
	`
	tag, err := tx.Exec(ctx, update, banID, at, unbannedBy)
	if err != nil {
		return storageErr("unban", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ban_record WHERE id = $1)`, banID).Scan(&exists); err != nil {
			return storageErr("check ban", err)
		}
		if exists {
			return repository.ErrAlreadyUnbanned
		}
		return repository.ErrNotFound
	}

	if err := insertLogEntry(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("commit tx", err)
	}
	return nil
}

func (r *banRepo) ActiveAt(ctx context.Context, userID string, scopes []domain.Scope, now time.Time) ([]domain.BanRecord, error) {
	pred, predArgs := scopePredicate(scopes, 3)
	// Expiración lazy: un ban vencido se filtra acá, sin sweep de fondo.
	query := `
		SELECT ` + banColumns + `
		FROM ban_record
		WHERE subject_user_id = $1
		  AND unbanned_at IS NULL
		  AND (expires_at IS NULL OR expires_at > $2)
		  AND ` + pred

	args := append([]any{userID, now}, predArgs...)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("bans at scopes", err)
	}
	defer rows.Close()

	var out []domain.BanRecord
	for rows.Next() {
		b, err := scanBan(rows)
		if err != nil {
			return nil, storageErr("scan ban", err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}
