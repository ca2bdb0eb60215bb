package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/aegis/internal/domain"
	"github.com/dropDatabas3/aegis/internal/domain/repository"
	"github.com/dropDatabas3/aegis/internal/metrics"
	"github.com/dropDatabas3/aegis/internal/observability/logger"
	"github.com/dropDatabas3/aegis/internal/scope"
)

const componentDirectory = "moderation.directory"

// Directory es el directorio de roles: responde "¿puede X moderar /
// administrar el scope S?" y maneja el ciclo de vida de los grants.
type Directory struct {
	roles    repository.RoleGrantRepository
	bans     repository.BanRepository
	resolver *scope.Resolver
	perms    PermissionCache
	now      func() time.Time
	newID    func() string
}

// AssignRole otorga un rol a un usuario en un scope.
//
// Falla con ErrPermissionDenied si el assigner no administra el scope;
// con ErrConflict si ya existe un grant activo igual (re-otorgar no
// duplica filas) o si el target tiene un ban activo en el scope o un
// ancestro (un usuario baneado no puede recibir autoridad ahí).
func (d *Directory) AssignRole(ctx context.Context, targetUserID string, role domain.RoleType, sc domain.Scope, assignerUserID string) (*domain.RoleGrant, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentDirectory),
		logger.Op("AssignRole"),
		logger.UserID(targetUserID),
		logger.ActorID(assignerUserID),
		logger.ScopeKey(sc.Key()),
	)

	if !sc.Valid() {
		return nil, fmt.Errorf("%w: malformed scope", repository.ErrInvalidInput)
	}
	if targetUserID == "" || assignerUserID == "" {
		return nil, fmt.Errorf("%w: user ids required", repository.ErrInvalidInput)
	}

	ok, err := d.CanAdminister(ctx, assignerUserID, sc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: assigner does not administer %s", repository.ErrPermissionDenied, sc.Key())
	}

	// Un target baneado en el scope (o arriba) no puede recibir el rol.
	banned, err := d.bannedAt(ctx, targetUserID, sc)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, fmt.Errorf("%w: cannot grant a role to a banned user", repository.ErrConflict)
	}

	now := d.now().UTC()
	grant := &domain.RoleGrant{
		ID:              d.newID(),
		SubjectUserID:   targetUserID,
		RoleType:        role,
		Scope:           sc,
		GrantedByUserID: assignerUserID,
		GrantedAt:       now,
	}
	entry := &domain.LogEntry{
		ID:                d.newID(),
		Action:            domain.ActionRoleAssigned,
		ActorUserID:       assignerUserID,
		Scope:             sc,
		TargetDescription: "user:" + targetUserID + " role:" + string(role),
		CreatedAt:         now,
	}

	if err := d.roles.Create(ctx, grant, entry); err != nil {
		return nil, err
	}

	if d.perms != nil {
		d.perms.InvalidateUser(ctx, targetUserID)
	}
	metrics.ActionsTotal.WithLabelValues(string(domain.ActionRoleAssigned)).Inc()
	log.Info("role assigned", logger.GrantID(grant.ID), logger.String("role", string(role)))

	return grant, nil
}

// RevokeRole revoca un grant (borrado lógico).
//
// Falla con ErrNotFound si el grant no existe o ya fue revocado; con
// ErrPermissionDenied si el revoker no administra el scope del grant.
func (d *Directory) RevokeRole(ctx context.Context, grantID, revokerUserID string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentDirectory),
		logger.Op("RevokeRole"),
		logger.GrantID(grantID),
		logger.ActorID(revokerUserID),
	)

	grant, err := d.roles.GetByID(ctx, grantID)
	if err != nil {
		return err
	}
	if !grant.Active() {
		return fmt.Errorf("%w: grant already revoked", repository.ErrNotFound)
	}

	ok, err := d.CanAdminister(ctx, revokerUserID, grant.Scope)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: revoker does not administer %s", repository.ErrPermissionDenied, grant.Scope.Key())
	}

	now := d.now().UTC()
	entry := &domain.LogEntry{
		ID:                d.newID(),
		Action:            domain.ActionRoleRevoked,
		ActorUserID:       revokerUserID,
		Scope:             grant.Scope,
		TargetDescription: "user:" + grant.SubjectUserID + " role:" + string(grant.RoleType),
		CreatedAt:         now,
	}

	if err := d.roles.Revoke(ctx, grantID, revokerUserID, now, entry); err != nil {
		// Carrera: otro revoke ganó entre el GetByID y acá.
		if repository.IsNotFound(err) || errors.Is(err, repository.ErrAlreadyRevoked) {
			return fmt.Errorf("%w: grant already revoked", repository.ErrNotFound)
		}
		return err
	}

	if d.perms != nil {
		d.perms.InvalidateUser(ctx, grant.SubjectUserID)
	}
	metrics.ActionsTotal.WithLabelValues(string(domain.ActionRoleRevoked)).Inc()
	log.Info("role revoked", logger.UserID(grant.SubjectUserID))

	return nil
}

// CanModerate indica si el usuario tiene un grant activo de Moderator o
// Administrator en el scope dado o cualquier ancestro.
//
// Si el scope referencia contenido inexistente retorna false sin error
// (chequeo defensivo: "sin scope aplicable").
func (d *Directory) CanModerate(ctx context.Context, userID string, sc domain.Scope) (bool, error) {
	return d.check(ctx, userID, sc, domain.RoleModerator)
}

// CanAdminister indica si el usuario tiene un grant activo de Administrator
// en el scope dado o cualquier ancestro.
func (d *Directory) CanAdminister(ctx context.Context, userID string, sc domain.Scope) (bool, error) {
	return d.check(ctx, userID, sc, domain.RoleAdministrator)
}

// ActiveRoles retorna los grants activos del usuario (para perfiles /
// display de permisos).
func (d *Directory) ActiveRoles(ctx context.Context, userID string) ([]domain.RoleGrant, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id required", repository.ErrInvalidInput)
	}
	return d.roles.ActiveByUser(ctx, userID)
}

// check es el walk de ancestros compartido por CanModerate/CanAdminister.
// O(depth) con depth <= 4; el cache adelante es puramente una optimización.
func (d *Directory) check(ctx context.Context, userID string, sc domain.Scope, required domain.RoleType) (bool, error) {
	if userID == "" || !sc.Valid() {
		return false, nil
	}

	if d.perms != nil {
		if allowed, ok := d.perms.Get(ctx, userID, sc.Key(), required); ok {
			metrics.PermCacheHits.Inc()
			return allowed, nil
		}
		metrics.PermCacheMisses.Inc()
	}

	ancestors, err := d.resolver.Ancestors(ctx, sc)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	grants, err := d.roles.ActiveAt(ctx, userID, ancestors)
	if err != nil {
		return false, err
	}

	allowed := false
	for _, g := range grants {
		if g.Covers(required) {
			allowed = true
			break
		}
	}

	if d.perms != nil {
		d.perms.Set(ctx, userID, sc.Key(), required, allowed)
	}
	return allowed, nil
}

// bannedAt indica si el usuario tiene un ban activo en el scope o un ancestro.
func (d *Directory) bannedAt(ctx context.Context, userID string, sc domain.Scope) (bool, error) {
	ancestors, err := d.resolver.Ancestors(ctx, sc)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	bans, err := d.bans.ActiveAt(ctx, userID, ancestors, d.now().UTC())
	if err != nil {
		return false, err
	}
	return len(bans) > 0, nil
}
