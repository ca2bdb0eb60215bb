package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/dropDatabas3/aegis/internal/domain"
	"github.com/dropDatabas3/aegis/internal/observability/logger"
)

// PermCache cachea decisiones de CanModerate / CanAdminister sobre un
// Client. La invalidación por usuario rota una key de versión en vez de
// escanear: las decisiones viejas quedan huérfanas y expiran por TTL.
//
// Todas las operaciones son best-effort: un backend caído degrada a
// cache deshabilitado, nunca a una decisión incorrecta.
type PermCache struct {
	client Client
	ttl    time.Duration
}

const permVersionTTL = 24 * time.Hour

// NewPermCache crea el cache de permisos. ttl acota cuánto puede vivir
// una decisión (y cuánto tarda en purgarse una versión huérfana).
func NewPermCache(client Client, ttl time.Duration) *PermCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &PermCache{client: client, ttl: ttl}
}

func (p *PermCache) versionKey(userID string) string {
	return "perm:ver:" + userID
}

func (p *PermCache) decisionKey(userID, version, scopeKey string, role domain.RoleType) string {
	return "perm:" + userID + ":" + version + ":" + scopeKey + ":" + string(role)
}

// version lee la versión vigente del usuario, inicializándola si falta.
func (p *PermCache) version(ctx context.Context, userID string) (string, error) {
	v, err := p.client.Get(ctx, p.versionKey(userID))
	if err == nil {
		return v, nil
	}
	if !IsNotFound(err) {
		return "", err
	}
	v = strconv.FormatInt(time.Now().UnixNano(), 36)
	if err := p.client.Set(ctx, p.versionKey(userID), v, permVersionTTL); err != nil {
		return "", err
	}
	return v, nil
}

func (p *PermCache) Get(ctx context.Context, userID, scopeKey string, role domain.RoleType) (allowed, ok bool) {
	version, err := p.version(ctx, userID)
	if err != nil {
		return false, false
	}
	v, err := p.client.Get(ctx, p.decisionKey(userID, version, scopeKey, role))
	if err != nil {
		return false, false
	}
	return v == "1", true
}

func (p *PermCache) Set(ctx context.Context, userID, scopeKey string, role domain.RoleType, allowed bool) {
	version, err := p.version(ctx, userID)
	if err != nil {
		return
	}
	val := "0"
	if allowed {
		val = "1"
	}
	if err := p.client.Set(ctx, p.decisionKey(userID, version, scopeKey, role), val, p.ttl); err != nil {
		logger.From(ctx).Warn("perm cache set failed",
			logger.Component("cache.perm"), logger.UserID(userID), logger.Err(err))
	}
}

// InvalidateUser rota la versión del usuario. Las decisiones cacheadas
// bajo la versión anterior dejan de ser alcanzables.
func (p *PermCache) InvalidateUser(ctx context.Context, userID string) {
	v := strconv.FormatInt(time.Now().UnixNano(), 36)
	if err := p.client.Set(ctx, p.versionKey(userID), v, permVersionTTL); err != nil {
		logger.From(ctx).Warn("perm cache invalidate failed",
			logger.Component("cache.perm"), logger.UserID(userID), logger.Err(err))
	}
}
