package moderation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/aegis/internal/domain"
	"github.com/dropDatabas3/aegis/internal/domain/repository"
	"github.com/dropDatabas3/aegis/internal/metrics"
	"github.com/dropDatabas3/aegis/internal/observability/logger"
	"github.com/dropDatabas3/aegis/internal/scope"
)

const componentReports = "moderation.reports"

// listBatchSize es el tamaño de página crudo al recorrer reports para
// filtrar por permisos del moderador.
const listBatchSize = 200

// listScanCap acota cuántos reports crudos se recorren por request.
// Evita que un moderador con casi todo filtrado escanee la tabla entera.
const listScanCap = 2000

// Reports implementa el workflow de reports: submission, comentarios,
// resolución/dismissal y el catálogo de motivos.
//
// Máquina de estados: Pending --resolve--> Resolved | Dismissed.
// Resolved y Dismissed son terminales.
type Reports struct {
	reports  repository.ReportRepository
	comments repository.ReportCommentRepository
	reasons  repository.ReportReasonRepository
	dir      *Directory
	res      *scope.Resolver
	notifier Notifier
	now      func() time.Time
	newID    func() string
}

// ReportPage es una página del listado de reports.
type ReportPage struct {
	Items    []domain.Report
	Offset   int
	PageSize int
}

// CreateReport registra un report de abuso en estado Pending.
//
// Falla con ErrInvalidInput si el target no tiene exactamente una
// referencia o si el motivo no existe en el catálogo.
func (s *Reports) CreateReport(ctx context.Context, reporterUserID string, target domain.ReportTarget, reasonID string, details *string) (*domain.Report, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentReports),
		logger.Op("CreateReport"),
		logger.UserID(reporterUserID),
	)

	if reporterUserID == "" {
		return nil, fmt.Errorf("%w: reporter required", repository.ErrInvalidInput)
	}
	if err := target.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrInvalidInput, err)
	}
	if _, err := s.reasons.GetByID(ctx, reasonID); err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: unknown reason %q", repository.ErrInvalidInput, reasonID)
		}
		return nil, err
	}

	report := &domain.Report{
		ID:             s.newID(),
		ReporterUserID: reporterUserID,
		Target:         target,
		ReasonID:       reasonID,
		Details:        details,
		Status:         domain.ReportPending,
		CreatedAt:      s.now().UTC(),
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	metrics.ReportsCreated.Inc()
	log.Info("report created", logger.ReportID(report.ID), logger.String("target", target.Describe()))

	return report, nil
}

// ResolveReport cierra un report Pending como Resolved (dismiss=false) o
// Dismissed (dismiss=true).
//
// Falla con ErrNotFound si el report no existe; con ErrNotPending si ya es
// terminal (dos resoluciones concurrentes: una gana, la otra ve
// ErrNotPending); con ErrPermissionDenied si el resolver no modera el
// scope inferido del target.
func (s *Reports) ResolveReport(ctx context.Context, reportID, resolverUserID string, note *string, dismiss bool) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentReports),
		logger.Op("ResolveReport"),
		logger.ReportID(reportID),
		logger.ActorID(resolverUserID),
	)

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return err
	}
	if report.Status.Terminal() {
		return repository.ErrNotPending
	}

	sc, err := s.targetScope(ctx, report.Target)
	if err != nil {
		return err
	}

	ok, err := s.dir.CanModerate(ctx, resolverUserID, sc)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: resolver does not moderate %s", repository.ErrPermissionDenied, sc.Key())
	}

	action := domain.ActionReportClosed
	outcome := "resolved"
	if dismiss {
		action = domain.ActionReportDropped
		outcome = "dismissed"
	}

	now := s.now().UTC()
	entry := &domain.LogEntry{
		ID:                s.newID(),
		Action:            action,
		ActorUserID:       resolverUserID,
		Scope:             sc,
		TargetDescription: "report:" + reportID + " " + report.Target.Describe(),
		Reason:            note,
		CreatedAt:         now,
	}

	if err := s.reports.Resolve(ctx, reportID, resolverUserID, note, dismiss, now, entry); err != nil {
		return err
	}

	metrics.ActionsTotal.WithLabelValues(string(action)).Inc()
	metrics.ReportsClosed.WithLabelValues(outcome).Inc()
	log.Info("report closed", logger.String("outcome", outcome))

	// Notificación best-effort al reporter; nunca falla la operación.
	if s.notifier != nil {
		closed := *report
		closed.Status = domain.ReportResolved
		if dismiss {
			closed.Status = domain.ReportDismissed
		}
		closed.ResolvedByUserID = &resolverUserID
		closed.ResolutionNote = note
		closed.ResolvedAt = &now
		s.notifier.ReportClosed(ctx, closed, dismiss)
	}

	return nil
}

// AddComment agrega un comentario a un report. Append-only y permitido
// también sobre reports terminales (comportamiento del sistema original).
func (s *Reports) AddComment(ctx context.Context, reportID, authorUserID, content string) (*domain.ReportComment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty comment", repository.ErrInvalidInput)
	}
	if authorUserID == "" {
		return nil, fmt.Errorf("%w: author required", repository.ErrInvalidInput)
	}
	if _, err := s.reports.GetByID(ctx, reportID); err != nil {
		return nil, err
	}

	comment := &domain.ReportComment{
		ID:           s.newID(),
		ReportID:     reportID,
		AuthorUserID: authorUserID,
		Content:      content,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Comments lista los comentarios de un report, más viejos primero.
func (s *Reports) Comments(ctx context.Context, reportID string) ([]domain.ReportComment, error) {
	if _, err := s.reports.GetByID(ctx, reportID); err != nil {
		return nil, err
	}
	return s.comments.ListByReport(ctx, reportID)
}

// ListForModerator retorna la página de reports cuyo scope inferido el
// moderador puede moderar. offset/pageSize aplican DESPUÉS del filtro de
// permisos, así las páginas son estables para un moderador dado.
func (s *Reports) ListForModerator(ctx context.Context, moderatorUserID string, statusFilter *domain.ReportStatus, offset, pageSize int) (*ReportPage, error) {
	if moderatorUserID == "" {
		return nil, fmt.Errorf("%w: moderator required", repository.ErrInvalidInput)
	}
	if offset < 0 {
		offset = 0
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	page := &ReportPage{Items: []domain.Report{}, Offset: offset, PageSize: pageSize}

	// Cache por-request de decisiones CanModerate por scope: los reports de
	// un mismo space no repiten el walk.
	decided := make(map[string]bool)

	skipped := 0
	scanned := 0
	for raw := 0; scanned < listScanCap; raw += listBatchSize {
		batch, err := s.reports.ListByStatus(ctx, statusFilter, raw, listBatchSize)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}

		for _, r := range batch {
			scanned++

			sc, err := s.targetScope(ctx, r.Target)
			if err != nil {
				if repository.IsNotFound(err) {
					// Contenido borrado: sin scope aplicable, se omite.
					continue
				}
				return nil, err
			}

			allowed, ok := decided[sc.Key()]
			if !ok {
				allowed, err = s.dir.CanModerate(ctx, moderatorUserID, sc)
				if err != nil {
					return nil, err
				}
				decided[sc.Key()] = allowed
			}
			if !allowed {
				continue
			}

			if skipped < offset {
				skipped++
				continue
			}
			page.Items = append(page.Items, r)
			if len(page.Items) >= pageSize {
				return page, nil
			}
		}

		if len(batch) < listBatchSize {
			break
		}
	}

	return page, nil
}

// Reasons retorna el catálogo de motivos: los globales más, si el hint es
// un space, los específicos de ese space.
func (s *Reports) Reasons(ctx context.Context, scopeHint *domain.Scope) ([]domain.ReportReason, error) {
	var spaceID *string
	if scopeHint != nil && scopeHint.SpaceID != nil {
		spaceID = scopeHint.SpaceID
	}
	return s.reasons.List(ctx, spaceID)
}

// targetScope infiere el scope de un target vía el content directory.
func (s *Reports) targetScope(ctx context.Context, t domain.ReportTarget) (domain.Scope, error) {
	return s.res.TargetScope(ctx, t)
}
