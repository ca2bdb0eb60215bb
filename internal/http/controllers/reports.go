package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/aegis/internal/domain"
	httperrors "github.com/dropDatabas3/aegis/internal/http/errors"
	"github.com/dropDatabas3/aegis/internal/http/dto"
	"github.com/dropDatabas3/aegis/internal/http/helpers"
	"github.com/dropDatabas3/aegis/internal/http/middlewares"
	"github.com/dropDatabas3/aegis/internal/moderation"
	"github.com/dropDatabas3/aegis/internal/observability/logger"
)

// ReportsController maneja las rutas del workflow de reports.
type ReportsController struct {
	reports *moderation.Reports
}

// NewReportsController crea el controller de reports.
func NewReportsController(reports *moderation.Reports) *ReportsController {
	return &ReportsController{reports: reports}
}

// Create maneja POST /v1/reports
func (c *ReportsController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ReportsController.Create"))

	var req dto.CreateReportRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	target := domain.ReportTarget{
		PostID:       req.PostID,
		DiscussionID: req.DiscussionID,
		UserID:       req.UserID,
	}
	rep, err := c.reports.CreateReport(ctx, middlewares.GetActor(ctx), target, req.ReasonID, req.Details)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	log.Info("report created", logger.ReportID(rep.ID))
	helpers.WriteJSON(w, http.StatusCreated, dto.NewReportResponse(rep))
}

// Resolve maneja POST /v1/reports/{reportID}/resolve
func (c *ReportsController) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reportID := chi.URLParam(r, "reportID")

	var req dto.ResolveReportRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	if err := c.reports.ResolveReport(ctx, reportID, middlewares.GetActor(ctx), req.Note, req.Dismiss); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List maneja GET /v1/reports
func (c *ReportsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var statusFilter *domain.ReportStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st, ok := domain.ParseReportStatus(s)
		if !ok {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("status must be pending, resolved or dismissed"))
			return
		}
		statusFilter = &st
	}

	page, err := c.reports.ListForModerator(ctx, middlewares.GetActor(ctx), statusFilter,
		helpers.QueryInt(r, "offset", 0), helpers.QueryInt(r, "page_size", 0))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	items := make([]dto.ReportResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, dto.NewReportResponse(&page.Items[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ReportPageResponse{
		Items:    items,
		Offset:   page.Offset,
		PageSize: page.PageSize,
	})
}

// AddComment maneja POST /v1/reports/{reportID}/comments
func (c *ReportsController) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reportID := chi.URLParam(r, "reportID")

	var req dto.CommentRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	comment, err := c.reports.AddComment(ctx, reportID, middlewares.GetActor(ctx), req.Content)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, dto.NewCommentResponse(comment))
}

// Comments maneja GET /v1/reports/{reportID}/comments
func (c *ReportsController) Comments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reportID := chi.URLParam(r, "reportID")

	comments, err := c.reports.Comments(ctx, reportID)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	out := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, dto.NewCommentResponse(&comments[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// Reasons maneja GET /v1/report-reasons
func (c *ReportsController) Reasons(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var scopeHint *domain.Scope
	if spaceID := helpers.QueryStrPtr(r, "space_id"); spaceID != nil {
		sc := domain.SpaceScope(*spaceID)
		scopeHint = &sc
	}

	reasons, err := c.reports.Reasons(ctx, scopeHint)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	out := make([]dto.ReasonResponse, 0, len(reasons))
	for _, re := range reasons {
		out = append(out, dto.ReasonResponse{
			ID:          re.ID,
			Name:        re.Name,
			Description: re.Description,
			SpaceID:     re.SpaceID,
		})
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}
