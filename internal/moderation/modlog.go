package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/dropDatabas3/aegis/internal/domain"
	"github.com/dropDatabas3/aegis/internal/domain/repository"
	"github.com/dropDatabas3/aegis/internal/observability/logger"
	"github.com/dropDatabas3/aegis/internal/scope"
)

const componentLog = "moderation.log"

// Log expone el moderation log: append para acciones ejecutadas fuera de
// este motor (ej: takedown de contenido en el content layer) y query por
// scope. Las mutaciones internas escriben su entrada dentro de la misma
// unidad atómica en el store, no por acá.
type Log struct {
	entries repository.ModerationLogRepository
	res     *scope.Resolver
	now     func() time.Time
	newID   func() string
}

// LogPage es una página del moderation log.
type LogPage struct {
	Items    []domain.LogEntry
	Offset   int
	PageSize int
}

// Append registra una acción privilegiada. Solo falla por error de storage.
func (l *Log) Append(ctx context.Context, action domain.LogAction, actorUserID string, sc domain.Scope, targetDescription string, reason *string) (*domain.LogEntry, error) {
	if actorUserID == "" || action == "" {
		return nil, fmt.Errorf("%w: action and actor required", repository.ErrInvalidInput)
	}
	if !sc.Valid() {
		return nil, fmt.Errorf("%w: malformed scope", repository.ErrInvalidInput)
	}

	entry := &domain.LogEntry{
		ID:                l.newID(),
		Action:            action,
		ActorUserID:       actorUserID,
		Scope:             sc,
		TargetDescription: targetDescription,
		Reason:            reason,
		CreatedAt:         l.now().UTC(),
	}
	if err := l.entries.Append(ctx, entry); err != nil {
		return nil, err
	}

	logger.From(ctx).Debug("log entry appended",
		logger.Layer("service"),
		logger.Component(componentLog),
		logger.Action(string(action)),
		logger.ScopeKey(sc.Key()),
	)
	return entry, nil
}

// Query retorna las entradas del scope dado y todos sus descendientes
// (la inversa de la resolución de ancestros), más nuevas primero.
//
// Scope sobre contenido inexistente retorna página vacía (defensivo:
// query de stats sobre un space borrado).
func (l *Log) Query(ctx context.Context, sc domain.Scope, offset, pageSize int) (*LogPage, error) {
	if !sc.Valid() {
		return nil, fmt.Errorf("%w: malformed scope", repository.ErrInvalidInput)
	}
	if offset < 0 {
		offset = 0
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 200 {
		pageSize = 200
	}

	scopes, err := l.res.Descendants(ctx, sc)
	if err != nil {
		if repository.IsNotFound(err) {
			return &LogPage{Items: []domain.LogEntry{}, Offset: offset, PageSize: pageSize}, nil
		}
		return nil, err
	}

	items, err := l.entries.Query(ctx, scopes, offset, pageSize)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.LogEntry{}
	}
	return &LogPage{Items: items, Offset: offset, PageSize: pageSize}, nil
}
