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

type roleRepo struct{ pool *pgxpool.Pool }

const grantColumns = `id, subject_user_id, role_type, community_id, hub_id, space_id,
	granted_by, granted_at, revoked_at, revoked_by`

func scanGrant(row pgx.Row) (*domain.RoleGrant, error) {
	var g domain.RoleGrant
	var roleType string
	var communityID, hubID, spaceID *string
	err := row.Scan(
		&g.ID, &g.SubjectUserID, &roleType, &communityID, &hubID, &spaceID,
		&g.GrantedByUserID, &g.GrantedAt, &g.RevokedAt, &g.RevokedByUserID,
	)
	if err != nil {
		return nil, err
	}
	g.RoleType = domain.RoleType(roleType)
	g.Scope = scopeFromCols(communityID, hubID, spaceID)
	return &g, nil
}

func (r *roleRepo) Create(ctx context.Context, grant *domain.RoleGrant, entry *domain.LogEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageErr("begin tx", err)
	}
	defer tx.Rollback(ctx)

	communityID, hubID, spaceID := scopeCols(grant.Scope)
	const insertGrant = `
		INSERT INTO role_grant (id, subject_user_id, role_type, community_id, hub_id, space_id, granted_by, granted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.Exec(ctx, insertGrant,
		grant.ID, grant.SubjectUserID, string(grant.RoleType),
		communityID, hubID, spaceID,
		grant.GrantedByUserID, grant.GrantedAt,
	)
	if err != nil {
		// El índice único parcial (WHERE revoked_at IS NULL) garantiza que
		// dos assigns concurrentes producen un grant y un Conflict.
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return storageErr("insert grant", err)
	}

	if err := insertLogEntry(ctx, tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("commit tx", err)
	}
	return nil
}

func (r *roleRepo) GetByID(ctx context.Context, grantID string) (*domain.RoleGrant, error) {
	const query = `SELECT ` + grantColumns + ` FROM role_grant WHERE id = $1`

	g, err := scanGrant(r.pool.QueryRow(ctx, query, grantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get grant", err)
	}
	return g, nil
}

func (r *roleRepo) Revoke(ctx context.Context, grantID, revokedBy string, at time.Time, entry *domain.LogEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageErr("begin tx", err)
	}
	defer tx.Rollback(ctx)

	const update = `
		UPDATE role_grant SET revoked_at = $2, revoked_by = $3
		WHERE id = $1 AND revoked_at IS NULL
	`
	tag, err := tx.Exec(ctx, update, grantID, at, revokedBy)
	if err != nil {
		return storageErr("revoke grant", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguir inexistente de ya-revocado.
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM role_grant WHERE id = $1)`, grantID).Scan(&exists); err != nil {
			return storageErr("check grant", err)
		}
		if exists {
			return repository.ErrAlreadyRevoked
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

func (r *roleRepo) ActiveByUser(ctx context.Context, userID string) ([]domain.RoleGrant, error) {
	const query = `
		SELECT ` + grantColumns + `
		FROM role_grant
		WHERE subject_user_id = $1 AND revoked_at IS NULL
		ORDER BY granted_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, storageErr("list grants", err)
	}
	defer rows.Close()

	var out []domain.RoleGrant
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, storageErr("scan grant", err)
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func (r *roleRepo) ActiveAt(ctx context.Context, userID string, scopes []domain.Scope) ([]domain.RoleGrant, error) {
	pred, predArgs := scopePredicate(scopes, 2)
	query := `
		SELECT ` + grantColumns + `
		FROM role_grant
		WHERE subject_user_id = $1 AND revoked_at IS NULL AND ` + pred

	args := append([]any{userID}, predArgs...)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("grants at scopes", err)
	}
	defer rows.Close()

	var out []domain.RoleGrant
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, storageErr("scan grant", err)
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}
