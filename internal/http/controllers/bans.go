package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/aegis/internal/http/errors"
	"github.com/dropDatabas3/aegis/internal/http/dto"
	"github.com/dropDatabas3/aegis/internal/http/helpers"
	"github.com/dropDatabas3/aegis/internal/http/middlewares"
	"github.com/dropDatabas3/aegis/internal/moderation"
	"github.com/dropDatabas3/aegis/internal/observability/logger"
)

// BansController maneja las rutas del ban ledger.
type BansController struct {
	bans *moderation.BanLedger
}

// NewBansController crea el controller de bans.
func NewBansController(bans *moderation.BanLedger) *BansController {
	return &BansController{bans: bans}
}

// Ban maneja POST /v1/bans
func (c *BansController) Ban(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("BansController.Ban"))

	var req dto.BanRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("user_id is required"))
		return
	}
	sc, err := req.Scope.ToScope()
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidScope.WithCause(err))
		return
	}

	var expiresAt *time.Time
	if req.ExpiresAt != nil {
		t, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("expires_at must be RFC3339"))
			return
		}
		expiresAt = &t
	}

	ban, err := c.bans.BanUser(ctx, req.UserID, sc, req.Reason, expiresAt, middlewares.GetActor(ctx))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	log.Info("user banned", logger.BanID(ban.ID), logger.UserID(req.UserID))
	helpers.WriteJSON(w, http.StatusCreated, dto.NewBanResponse(ban))
}

// Unban maneja DELETE /v1/bans/{banID}
func (c *BansController) Unban(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	banID := chi.URLParam(r, "banID")

	if err := c.bans.UnbanUser(ctx, banID, middlewares.GetActor(ctx)); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Status maneja GET /v1/users/{userID}/ban-status
func (c *BansController) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	sc, err := scopeFromQuery(r)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidScope.WithCause(err))
		return
	}

	banned, err := c.bans.IsBanned(ctx, userID, sc)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.BanStatusResponse{
		UserID: userID,
		Scope:  dto.FromScope(sc),
		Banned: banned,
	})
}
