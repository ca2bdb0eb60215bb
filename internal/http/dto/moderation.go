// Package dto contiene los tipos de entrada/salida de la API de moderación.
package dto

import (
	"time"

	"github.com/dropDatabas3/aegis/internal/domain"
)

// ScopeRef referencia un scope por sus FKs opcionales. Los tres vacíos
// es scope global; más de uno seteado es inválido.
type ScopeRef struct {
	CommunityID *string `json:"community_id,omitempty"`
	HubID       *string `json:"hub_id,omitempty"`
	SpaceID     *string `json:"space_id,omitempty"`
}

// ToScope convierte la referencia en un domain.Scope validado.
func (s ScopeRef) ToScope() (domain.Scope, error) {
	return domain.ScopeFromIDs(s.CommunityID, s.HubID, s.SpaceID)
}

// FromScope arma la referencia desde un domain.Scope.
func FromScope(sc domain.Scope) ScopeRef {
	return ScopeRef{CommunityID: sc.CommunityID, HubID: sc.HubID, SpaceID: sc.SpaceID}
}

// ─── Roles ───

// AssignRoleRequest representa la entrada para asignar un rol.
type AssignRoleRequest struct {
	UserID string   `json:"user_id"`
	Role   string   `json:"role"` // "moderator" | "administrator"
	Scope  ScopeRef `json:"scope"`
}

// RoleGrantResponse representa un grant en la respuesta.
type RoleGrantResponse struct {
	ID        string   `json:"id"`
	UserID    string   `json:"user_id"`
	Role      string   `json:"role"`
	Scope     ScopeRef `json:"scope"`
	GrantedBy string   `json:"granted_by"`
	GrantedAt string   `json:"granted_at"`
	RevokedAt string   `json:"revoked_at,omitempty"`
	RevokedBy string   `json:"revoked_by,omitempty"`
}

// NewRoleGrantResponse arma la respuesta desde el dominio.
func NewRoleGrantResponse(g *domain.RoleGrant) RoleGrantResponse {
	resp := RoleGrantResponse{
		ID:        g.ID,
		UserID:    g.SubjectUserID,
		Role:      string(g.RoleType),
		Scope:     FromScope(g.Scope),
		GrantedBy: g.GrantedByUserID,
		GrantedAt: g.GrantedAt.Format(time.RFC3339),
	}
	if g.RevokedAt != nil {
		resp.RevokedAt = g.RevokedAt.Format(time.RFC3339)
	}
	if g.RevokedByUserID != nil {
		resp.RevokedBy = *g.RevokedByUserID
	}
	return resp
}

// PermissionResponse es la respuesta de los checks can-moderate/can-administer.
type PermissionResponse struct {
	UserID  string   `json:"user_id"`
	Scope   ScopeRef `json:"scope"`
	Allowed bool     `json:"allowed"`
}

// ─── Bans ───

// BanRequest representa la entrada para banear un usuario.
type BanRequest struct {
	UserID    string   `json:"user_id"`
	Scope     ScopeRef `json:"scope"`
	Reason    *string  `json:"reason,omitempty"`
	ExpiresAt *string  `json:"expires_at,omitempty"` // RFC3339
}

// BanResponse representa un ban en la respuesta.
type BanResponse struct {
	ID         string   `json:"id"`
	UserID     string   `json:"user_id"`
	Scope      ScopeRef `json:"scope"`
	Reason     *string  `json:"reason,omitempty"`
	BannedBy   string   `json:"banned_by"`
	BannedAt   string   `json:"banned_at"`
	ExpiresAt  string   `json:"expires_at,omitempty"`
	UnbannedAt string   `json:"unbanned_at,omitempty"`
	UnbannedBy string   `json:"unbanned_by,omitempty"`
}

// NewBanResponse arma la respuesta desde el dominio.
func NewBanResponse(b *domain.BanRecord) BanResponse {
	resp := BanResponse{
		ID:       b.ID,
		UserID:   b.SubjectUserID,
		Scope:    FromScope(b.Scope),
		Reason:   b.Reason,
		BannedBy: b.BannedByUserID,
		BannedAt: b.BannedAt.Format(time.RFC3339),
	}
	if b.ExpiresAt != nil {
		resp.ExpiresAt = b.ExpiresAt.Format(time.RFC3339)
	}
	if b.UnbannedAt != nil {
		resp.UnbannedAt = b.UnbannedAt.Format(time.RFC3339)
	}
	if b.UnbannedBy != nil {
		resp.UnbannedBy = *b.UnbannedBy
	}
	return resp
}

// BanStatusResponse es la respuesta del check is-banned.
type BanStatusResponse struct {
	UserID string   `json:"user_id"`
	Scope  ScopeRef `json:"scope"`
	Banned bool     `json:"banned"`
}

// ─── Reports ───

// CreateReportRequest representa la entrada para crear un report.
type CreateReportRequest struct {
	PostID       *string `json:"post_id,omitempty"`
	DiscussionID *string `json:"discussion_id,omitempty"`
	UserID       *string `json:"user_id,omitempty"`
	ReasonID     string  `json:"reason_id"`
	Details      *string `json:"details,omitempty"`
}

// ResolveReportRequest representa la entrada para cerrar un report.
type ResolveReportRequest struct {
	Dismiss bool    `json:"dismiss"`
	Note    *string `json:"note,omitempty"`
}

// CommentRequest representa la entrada para comentar un report.
type CommentRequest struct {
	Content string `json:"content"`
}

// ReportResponse representa un report en la respuesta.
type ReportResponse struct {
	ID           string  `json:"id"`
	ReporterID   string  `json:"reporter_id"`
	PostID       *string `json:"post_id,omitempty"`
	DiscussionID *string `json:"discussion_id,omitempty"`
	UserID       *string `json:"user_id,omitempty"`
	ReasonID     string  `json:"reason_id"`
	Details      *string `json:"details,omitempty"`
	Status       string  `json:"status"`
	ResolvedBy   string  `json:"resolved_by,omitempty"`
	Note         *string `json:"note,omitempty"`
	CreatedAt    string  `json:"created_at"`
	ResolvedAt   string  `json:"resolved_at,omitempty"`
}

// NewReportResponse arma la respuesta desde el dominio.
func NewReportResponse(rep *domain.Report) ReportResponse {
	resp := ReportResponse{
		ID:           rep.ID,
		ReporterID:   rep.ReporterUserID,
		PostID:       rep.Target.PostID,
		DiscussionID: rep.Target.DiscussionID,
		UserID:       rep.Target.UserID,
		ReasonID:     rep.ReasonID,
		Details:      rep.Details,
		Status:       string(rep.Status),
		Note:         rep.ResolutionNote,
		CreatedAt:    rep.CreatedAt.Format(time.RFC3339),
	}
	if rep.ResolvedByUserID != nil {
		resp.ResolvedBy = *rep.ResolvedByUserID
	}
	if rep.ResolvedAt != nil {
		resp.ResolvedAt = rep.ResolvedAt.Format(time.RFC3339)
	}
	return resp
}

// ReportPageResponse es una página de reports.
type ReportPageResponse struct {
	Items    []ReportResponse `json:"items"`
	Offset   int              `json:"offset"`
	PageSize int              `json:"page_size"`
}

// CommentResponse representa un comentario en la respuesta.
type CommentResponse struct {
	ID        string `json:"id"`
	ReportID  string `json:"report_id"`
	AuthorID  string `json:"author_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// NewCommentResponse arma la respuesta desde el dominio.
func NewCommentResponse(c *domain.ReportComment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		ReportID:  c.ReportID,
		AuthorID:  c.AuthorUserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

// ReasonResponse representa un motivo de report.
type ReasonResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	SpaceID     *string `json:"space_id,omitempty"`
}

// ─── Moderation log ───

// LogEntryResponse representa una entrada del moderation log.
type LogEntryResponse struct {
	ID        string   `json:"id"`
	Action    string   `json:"action"`
	ActorID   string   `json:"actor_id"`
	Scope     ScopeRef `json:"scope"`
	Target    string   `json:"target"`
	Reason    *string  `json:"reason,omitempty"`
	CreatedAt string   `json:"created_at"`
}

// NewLogEntryResponse arma la respuesta desde el dominio.
func NewLogEntryResponse(e *domain.LogEntry) LogEntryResponse {
	return LogEntryResponse{
		ID:        e.ID,
		Action:    string(e.Action),
		ActorID:   e.ActorUserID,
		Scope:     FromScope(e.Scope),
		Target:    e.TargetDescription,
		Reason:    e.Reason,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

// LogPageResponse es una página del moderation log.
type LogPageResponse struct {
	Items    []LogEntryResponse `json:"items"`
	Offset   int                `json:"offset"`
	PageSize int                `json:"page_size"`
}
