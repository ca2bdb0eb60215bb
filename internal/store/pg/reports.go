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

type reportRepo struct{ pool *pgxpool.Pool }

const reportColumns = `id, reporter_user_id, post_id, discussion_id, target_user_id,
	reason_id, details, status, resolved_by, resolution_note, created_at, resolved_at`

func scanReport(row pgx.Row) (*domain.Report, error) {
	var rep domain.Report
	var status string
	err := row.Scan(
		&rep.ID, &rep.ReporterUserID,
		&rep.Target.PostID, &rep.Target.DiscussionID, &rep.Target.UserID,
		&rep.ReasonID, &rep.Details, &status,
		&rep.ResolvedByUserID, &rep.ResolutionNote, &rep.CreatedAt, &rep.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	rep.Status = domain.ReportStatus(status)
	return &rep, nil
}

func (r *reportRepo) Create(ctx context.Context, report *domain.Report) error {
	const insert = `
		INSERT INTO report (id, reporter_user_id, post_id, discussion_id, target_user_id, reason_id, details, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, insert,
		report.ID, report.ReporterUserID,
		report.Target.PostID, report.Target.DiscussionID, report.Target.UserID,
		report.ReasonID, report.Details, string(report.Status), report.CreatedAt,
	)
	if err != nil {
		return storageErr("insert report", err)
	}
	return nil
}

func (r *reportRepo) GetByID(ctx context.Context, reportID string) (*domain.Report, error) {
	const query = `SELECT ` + reportColumns + ` FROM report WHERE id = $1`

	rep, err := scanReport(r.pool.QueryRow(ctx, query, reportID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get report", err)
	}
	return rep, nil
}

func (r *reportRepo) Resolve(ctx context.Context, reportID, resolvedBy string, note *string, dismiss bool, at time.Time, entry *domain.LogEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageErr("begin tx", err)
	}
	defer tx.Rollback(ctx)

	status := string(domain.ReportResolved)
	if dismiss {
		status = string(domain.ReportDismissed)
	}

	// CAS sobre el status: de dos resoluciones concurrentes solo una
	// afecta filas, la otra ve ErrNotPending.
	const update = `
		UPDATE report SET status = $2, resolved_by = $3, resolution_note = $4, resolved_at = $5
		WHERE id = $1 AND status = 'pending'
	`
	tag, err := tx.Exec(ctx, update, reportID, status, resolvedBy, note, at)
	if err != nil {
		return storageErr("resolve report", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM report WHERE id = $1)`, reportID).Scan(&exists); err != nil {
			return storageErr("check report", err)
		}
		if exists {
			return repository.ErrNotPending
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

func (r *reportRepo) ListByStatus(ctx context.Context, status *domain.ReportStatus, offset, limit int) ([]domain.Report, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 50
	}

	var query string
	var args []any
	if status != nil {
		query = `SELECT ` + reportColumns + ` FROM report WHERE status = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
		args = []any{string(*status), limit, offset}
	} else {
		query = `SELECT ` + reportColumns + ` FROM report ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
		args = []any{limit, offset}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list reports", err)
	}
	defer rows.Close()

	var out []domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, storageErr("scan report", err)
		}
		out = append(out, *rep)
	}
	return out, rows.Err()
}

// ─── ReportCommentRepository ───

type commentRepo struct{ pool *pgxpool.Pool }

func (r *commentRepo) Create(ctx context.Context, comment *domain.ReportComment) error {
	const insert = `
		INSERT INTO report_comment (id, report_id, author_user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, insert,
		comment.ID, comment.ReportID, comment.AuthorUserID, comment.Content, comment.CreatedAt,
	)
	if err != nil {
		return storageErr("insert comment", err)
	}
	return nil
}

func (r *commentRepo) ListByReport(ctx context.Context, reportID string) ([]domain.ReportComment, error) {
	const query = `
		SELECT id, report_id, author_user_id, content, created_at
		FROM report_comment WHERE report_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, storageErr("list comments", err)
	}
	defer rows.Close()

	var out []domain.ReportComment
	for rows.Next() {
		var c domain.ReportComment
		if err := rows.Scan(&c.ID, &c.ReportID, &c.AuthorUserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, storageErr("scan comment", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ─── ReportReasonRepository ───

type reasonRepo struct{ pool *pgxpool.Pool }

func (r *reasonRepo) Create(ctx context.Context, reason *domain.ReportReason) error {
	const insert = `
		INSERT INTO report_reason (id, name, description, space_id)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, insert, reason.ID, reason.Name, reason.Description, reason.SpaceID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return storageErr("insert reason", err)
	}
	return nil
}

func (r *reasonRepo) GetByID(ctx context.Context, reasonID string) (*domain.ReportReason, error) {
	const query = `SELECT id, name, description, space_id FROM report_reason WHERE id = $1`

	var re domain.ReportReason
	err := r.pool.QueryRow(ctx, query, reasonID).Scan(&re.ID, &re.Name, &re.Description, &re.SpaceID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get reason", err)
	}
	return &re, nil
}

func (r *reasonRepo) List(ctx context.Context, spaceID *string) ([]domain.ReportReason, error) {
	// Motivos globales, más los específicos del space si hay hint.
	var query string
	var args []any
	if spaceID != nil {
		query = `SELECT id, name, description, space_id FROM report_reason WHERE space_id IS NULL OR space_id = $1 ORDER BY name ASC`
		args = []any{*spaceID}
	} else {
		query = `SELECT id, name, description, space_id FROM report_reason WHERE space_id IS NULL ORDER BY name ASC`
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list reasons", err)
	}
	defer rows.Close()

	var out []domain.ReportReason
	for rows.Next() {
		var re domain.ReportReason
		if err := rows.Scan(&re.ID, &re.Name, &re.Description, &re.SpaceID); err != nil {
			return nil, storageErr("scan reason", err)
		}
		out = append(out, re)
	}
	return out, rows.Err()
}
