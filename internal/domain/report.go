package domain

import (
	"fmt"
	"time"
)

// ReportStatus es el estado del ciclo de vida de un report.
// Pending es inicial; Resolved y Dismissed son terminales.
type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

// ParseReportStatus valida un status recibido por la API.
func ParseReportStatus(s string) (ReportStatus, bool) {
	switch ReportStatus(s) {
	case ReportPending, ReportResolved, ReportDismissed:
		return ReportStatus(s), true
	}
	return "", false
}

// Terminal indica si el estado no admite más transiciones.
func (s ReportStatus) Terminal() bool {
	return s == ReportResolved || s == ReportDismissed
}

// ReportTarget es la referencia al contenido reportado.
// Invariante: exactamente uno de los tres IDs está seteado.
type ReportTarget struct {
	PostID       *string
	DiscussionID *string
	UserID       *string
}

// Validate verifica el invariante "exactamente un target".
func (t ReportTarget) Validate() error {
	n := 0
	if t.PostID != nil && *t.PostID != "" {
		n++
	}
	if t.DiscussionID != nil && *t.DiscussionID != "" {
		n++
	}
	if t.UserID != nil && *t.UserID != "" {
		n++
	}
	if n != 1 {
		return fmt.Errorf("report target: exactly one of post/discussion/user required, got %d", n)
	}
	return nil
}

// Describe retorna una descripción corta del target para el moderation log.
func (t ReportTarget) Describe() string {
	switch {
	case t.PostID != nil:
		return "post:" + *t.PostID
	case t.DiscussionID != nil:
		return "discussion:" + *t.DiscussionID
	case t.UserID != nil:
		return "user:" + *t.UserID
	}
	return "unknown"
}

// Report es un reporte de abuso enviado por un usuario.
type Report struct {
	ID               string
	ReporterUserID   string
	Target           ReportTarget
	ReasonID         string
	Details          *string
	Status           ReportStatus
	ResolvedByUserID *string
	ResolutionNote   *string
	CreatedAt        time.Time
	ResolvedAt       *time.Time
}

// ReportComment es un comentario sobre un report. Append-only; se permite
// comentar también sobre reports terminales.
type ReportComment struct {
	ID           string
	ReportID     string
	AuthorUserID string
	Content      string
	CreatedAt    time.Time
}

// ReportReason es un motivo de reporte del catálogo.
// SpaceID nil = motivo global; seteado = motivo específico de ese space
// (suplementa a los globales, no los reemplaza).
type ReportReason struct {
	ID          string
	Name        string
	Description string
	SpaceID     *string
}
