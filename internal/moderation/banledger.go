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

const componentBans = "moderation.bans"

// BanLedger maneja el ciclo de vida de los bans y responde
// "¿está X baneado del scope S?".
type BanLedger struct {
	bans  repository.BanRepository
	dir   *Directory
	res   *scope.Resolver
	now   func() time.Time
	newID func() string
}

// BanUser banea a un usuario en un scope.
//
// Falla con ErrPermissionDenied si el banner no modera el scope; con
// ErrConflict si el target modera el scope (un moderador no puede ser
// baneado por debajo de su propia autoridad sin demotearlo antes); con
// ErrInvalidInput si expiresAt está en el pasado.
func (b *BanLedger) BanUser(ctx context.Context, targetUserID string, sc domain.Scope, reason *string, expiresAt *time.Time, bannerUserID string) (*domain.BanRecord, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentBans),
		logger.Op("BanUser"),
		logger.UserID(targetUserID),
		logger.ActorID(bannerUserID),
		logger.ScopeKey(sc.Key()),
	)

	if !sc.Valid() {
		return nil, fmt.Errorf("%w: malformed scope", repository.ErrInvalidInput)
	}
	if targetUserID == "" || bannerUserID == "" {
		return nil, fmt.Errorf("%w: user ids required", repository.ErrInvalidInput)
	}

	now := b.now().UTC()
	if expiresAt != nil && !expiresAt.After(now) {
		return nil, fmt.Errorf("%w: expiresAt is in the past", repository.ErrInvalidInput)
	}

	ok, err := b.dir.CanModerate(ctx, bannerUserID, sc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: banner does not moderate %s", repository.ErrPermissionDenied, sc.Key())
	}

	// El target no puede tener autoridad de moderación en el scope.
	targetModerates, err := b.dir.CanModerate(ctx, targetUserID, sc)
	if err != nil {
		return nil, err
	}
	if targetModerates {
		return nil, fmt.Errorf("%w: cannot ban a moderator", repository.ErrConflict)
	}

	ban := &domain.BanRecord{
		ID:             b.newID(),
		SubjectUserID:  targetUserID,
		Scope:          sc,
		Reason:         reason,
		BannedByUserID: bannerUserID,
		BannedAt:       now,
		ExpiresAt:      expiresAt,
	}
	entry := &domain.LogEntry{
		ID:                b.newID(),
		Action:            domain.ActionUserBanned,
		ActorUserID:       bannerUserID,
		Scope:             sc,
		TargetDescription: "user:" + targetUserID,
		Reason:            reason,
		CreatedAt:         now,
	}

	if err := b.bans.Create(ctx, ban, entry); err != nil {
		return nil, err
	}

	if b.dir.perms != nil {
		b.dir.perms.InvalidateUser(ctx, targetUserID)
	}
	metrics.ActionsTotal.WithLabelValues(string(domain.ActionUserBanned)).Inc()
	log.Info("user banned", logger.BanID(ban.ID))

	return ban, nil
}

// UnbanUser cierra un ban. Un ban ya expirado pero nunca cerrado se puede
// cerrar igual: queda registrado quién lo cerró.
//
// Falla con ErrNotFound si el ban no existe; con ErrAlreadyUnbanned si ya
// estaba cerrado; con ErrPermissionDenied si el unbanner no modera el scope.
func (b *BanLedger) UnbanUser(ctx context.Context, banID, unbannerUserID string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentBans),
		logger.Op("UnbanUser"),
		logger.BanID(banID),
		logger.ActorID(unbannerUserID),
	)

	ban, err := b.bans.GetByID(ctx, banID)
	if err != nil {
		return err
	}
	if ban.UnbannedAt != nil {
		return repository.ErrAlreadyUnbanned
	}

	ok, err := b.dir.CanModerate(ctx, unbannerUserID, ban.Scope)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: unbanner does not moderate %s", repository.ErrPermissionDenied, ban.Scope.Key())
	}

	now := b.now().UTC()
	entry := &domain.LogEntry{
		ID:                b.newID(),
		Action:            domain.ActionUserUnbanned,
		ActorUserID:       unbannerUserID,
		Scope:             ban.Scope,
		TargetDescription: "user:" + ban.SubjectUserID,
		CreatedAt:         now,
	}

	if err := b.bans.Unban(ctx, banID, unbannerUserID, now, entry); err != nil {
		// Carrera: otro unban ganó entre el GetByID y acá.
		if errors.Is(err, repository.ErrAlreadyUnbanned) {
			return repository.ErrAlreadyUnbanned
		}
		return err
	}

	if b.dir.perms != nil {
		b.dir.perms.InvalidateUser(ctx, ban.SubjectUserID)
	}
	metrics.ActionsTotal.WithLabelValues(string(domain.ActionUserUnbanned)).Inc()
	log.Info("user unbanned", logger.UserID(ban.SubjectUserID))

	return nil
}

// IsBanned indica si el usuario tiene un ban activo en el scope dado o
// cualquier ancestro. La expiración se evalúa acá, lazy: un ban vencido
// cuenta como inactivo sin unban explícito.
//
// Scope sobre contenido inexistente retorna false sin error (defensivo).
func (b *BanLedger) IsBanned(ctx context.Context, userID string, sc domain.Scope) (bool, error) {
	if userID == "" || !sc.Valid() {
		return false, nil
	}

	ancestors, err := b.res.Ancestors(ctx, sc)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	active, err := b.bans.ActiveAt(ctx, userID, ancestors, b.now().UTC())
	if err != nil {
		return false, err
	}
	return len(active) > 0, nil
}
