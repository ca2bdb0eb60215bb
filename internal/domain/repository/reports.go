package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/aegis/internal/domain"
)

// ReportRepository persiste reports de abuso.
type ReportRepository interface {
	// Create inserta un report en estado Pending.
	Create(ctx context.Context, report *domain.Report) error

	// GetByID obtiene un report por ID. ErrNotFound si no existe.
	GetByID(ctx context.Context, reportID string) (*domain.Report, error)

	// Resolve transiciona Pending -> Resolved/Dismissed con compare-and-swap
	// sobre el status: dos resoluciones concurrentes no pueden ganar las dos.
	// ErrNotFound si no existe; ErrNotPending si el report es terminal.
	// Escribe la entrada de log en la misma unidad atómica.
	Resolve(ctx context.Context, reportID, resolvedBy string, note *string, dismiss bool, at time.Time, entry *domain.LogEntry) error

	// ListByStatus lista reports (filtro de status opcional), más nuevos
	// primero. offset/limit son del recorrido crudo: el filtrado por
	// permisos del moderador ocurre en la capa de servicio.
	ListByStatus(ctx context.Context, status *domain.ReportStatus, offset, limit int) ([]domain.Report, error)
}

// ReportCommentRepository persiste comentarios de reports (append-only).
type ReportCommentRepository interface {
	Create(ctx context.Context, comment *domain.ReportComment) error
	ListByReport(ctx context.Context, reportID string) ([]domain.ReportComment, error)
}

// ReportReasonRepository es el catálogo de motivos de reporte.
type ReportReasonRepository interface {
	// GetByID obtiene un motivo. ErrNotFound si no existe.
	GetByID(ctx context.Context, reasonID string) (*domain.ReportReason, error)

	// List retorna los motivos globales; si spaceID no es nil, también los
	// específicos de ese space.
	List(ctx context.Context, spaceID *string) ([]domain.ReportReason, error)

	// Create agrega un motivo al catálogo (seed / administración).
	Create(ctx context.Context, reason *domain.ReportReason) error
}
