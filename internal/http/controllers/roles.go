// Package controllers contiene los controllers HTTP de la API de moderación.
package controllers

import (
	"context"
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

// RolesController maneja las rutas del directorio de roles.
type RolesController struct {
	dir *moderation.Directory
}

// NewRolesController crea el controller de roles.
func NewRolesController(dir *moderation.Directory) *RolesController {
	return &RolesController{dir: dir}
}

// Assign maneja POST /v1/roles
func (c *RolesController) Assign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RolesController.Assign"))

	var req dto.AssignRoleRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("user_id is required"))
		return
	}
	role, ok := domain.ParseRoleType(req.Role)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("role must be moderator or administrator"))
		return
	}
	sc, err := req.Scope.ToScope()
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidScope.WithCause(err))
		return
	}

	grant, err := c.dir.AssignRole(ctx, req.UserID, role, sc, middlewares.GetActor(ctx))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	log.Info("role assigned", logger.GrantID(grant.ID), logger.UserID(req.UserID))
	helpers.WriteJSON(w, http.StatusCreated, dto.NewRoleGrantResponse(grant))
}

// Revoke maneja DELETE /v1/roles/{grantID}
func (c *RolesController) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	grantID := chi.URLParam(r, "grantID")

	if err := c.dir.RevokeRole(ctx, grantID, middlewares.GetActor(ctx)); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListActive maneja GET /v1/users/{userID}/roles
func (c *RolesController) ListActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	grants, err := c.dir.ActiveRoles(ctx, userID)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	out := make([]dto.RoleGrantResponse, 0, len(grants))
	for i := range grants {
		out = append(out, dto.NewRoleGrantResponse(&grants[i]))
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// CanModerate maneja GET /v1/users/{userID}/can-moderate
func (c *RolesController) CanModerate(w http.ResponseWriter, r *http.Request) {
	c.permissionCheck(w, r, c.dir.CanModerate)
}

// CanAdminister maneja GET /v1/users/{userID}/can-administer
func (c *RolesController) CanAdminister(w http.ResponseWriter, r *http.Request) {
	c.permissionCheck(w, r, c.dir.CanAdminister)
}

func (c *RolesController) permissionCheck(w http.ResponseWriter, r *http.Request, check func(ctx context.Context, userID string, sc domain.Scope) (bool, error)) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	sc, err := scopeFromQuery(r)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidScope.WithCause(err))
		return
	}

	allowed, err := check(ctx, userID, sc)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.PermissionResponse{
		UserID:  userID,
		Scope:   dto.FromScope(sc),
		Allowed: allowed,
	})
}

// scopeFromQuery arma un Scope desde los query params community_id /
// hub_id / space_id. Ausencia de los tres = scope global.
func scopeFromQuery(r *http.Request) (domain.Scope, error) {
	return domain.ScopeFromIDs(
		helpers.QueryStrPtr(r, "community_id"),
		helpers.QueryStrPtr(r, "hub_id"),
		helpers.QueryStrPtr(r, "space_id"),
	)
}
