package moderation_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dropDatabas3/aegis/internal/content"
	"github.com/dropDatabas3/aegis/internal/domain"
	"github.com/dropDatabas3/aegis/internal/moderation"
	"github.com/dropDatabas3/aegis/internal/scope"
	"github.com/dropDatabas3/aegis/internal/store/memory"
)

// fixture arma los servicios sobre el store en memoria con reloj e IDs
// deterministas y la jerarquía c1 → {h1 → {s1, s2}, h2 → {s3}}.
type fixture struct {
	st    *memory.Store
	dir   *content.MemoryDirectory
	svc   *moderation.Services
	now   time.Time
	perms *fakePermCache
	sent  []sentNotice
}

type sentNotice struct {
	report    domain.Report
	dismissed bool
}

// fakePermCache es un PermissionCache en memoria que cuenta invalidaciones.
type fakePermCache struct {
	decisions   map[string]bool
	invalidated []string
}

func newFakePermCache() *fakePermCache {
	return &fakePermCache{decisions: make(map[string]bool)}
}

func (f *fakePermCache) key(userID, scopeKey string, role domain.RoleType) string {
	return userID + "|" + scopeKey + "|" + string(role)
}

func (f *fakePermCache) Get(ctx context.Context, userID, scopeKey string, role domain.RoleType) (bool, bool) {
	v, ok := f.decisions[f.key(userID, scopeKey, role)]
	return v, ok
}

func (f *fakePermCache) Set(ctx context.Context, userID, scopeKey string, role domain.RoleType, allowed bool) {
	f.decisions[f.key(userID, scopeKey, role)] = allowed
}

func (f *fakePermCache) InvalidateUser(ctx context.Context, userID string) {
	f.invalidated = append(f.invalidated, userID)
	for k := range f.decisions {
		delete(f.decisions, k)
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		st:  memory.New(),
		dir: content.NewMemoryDirectory(),
		now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.dir.AddHub("h1", "c1")
	f.dir.AddHub("h2", "c1")
	f.dir.AddSpace("s1", "h1")
	f.dir.AddSpace("s2", "h1")
	f.dir.AddSpace("s3", "h2")
	f.dir.AddPost("p1", "s1")
	f.dir.AddPost("p2", "s3")
	f.dir.AddDiscussion("d1", "s1")

	// Contador atómico: algunos tests disparan AssignRole en paralelo.
	var seq int64
	f.svc = moderation.New(f.st, scope.NewResolver(f.dir), moderation.Options{
		Now:   func() time.Time { return f.now },
		NewID: func() string { return fmt.Sprintf("id-%03d", atomic.AddInt64(&seq, 1)) },
		Notifier: notifierFunc(func(ctx context.Context, r domain.Report, dismissed bool) {
			f.sent = append(f.sent, sentNotice{report: r, dismissed: dismissed})
		}),
	})
	return f
}

// newCachedFixture es newFixture con el perm cache fake habilitado.
func newCachedFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		st:    memory.New(),
		dir:   content.NewMemoryDirectory(),
		now:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		perms: newFakePermCache(),
	}
	f.dir.AddHub("h1", "c1")
	f.dir.AddSpace("s1", "h1")

	var seq int64
	f.svc = moderation.New(f.st, scope.NewResolver(f.dir), moderation.Options{
		Perms: f.perms,
		Now:   func() time.Time { return f.now },
		NewID: func() string { return fmt.Sprintf("id-%03d", atomic.AddInt64(&seq, 1)) },
	})
	return f
}

type notifierFunc func(ctx context.Context, r domain.Report, dismissed bool)

func (fn notifierFunc) ReportClosed(ctx context.Context, r domain.Report, dismissed bool) {
	fn(ctx, r, dismissed)
}

// seedGrant inserta un grant activo directamente en el store, salteando el
// chequeo de permisos del servicio (bootstrap de los tests).
func (f *fixture) seedGrant(t *testing.T, userID string, role domain.RoleType, sc domain.Scope) *domain.RoleGrant {
	t.Helper()
	grant := &domain.RoleGrant{
		ID:              "seed-" + userID + "-" + sc.Key() + "-" + string(role),
		SubjectUserID:   userID,
		RoleType:        role,
		Scope:           sc,
		GrantedByUserID: "system",
		GrantedAt:       f.now.Add(-time.Hour),
	}
	if err := f.st.Roles().Create(context.Background(), grant, nil); err != nil {
		t.Fatalf("seed grant: %v", err)
	}
	return grant
}

// seedReason inserta un motivo del catálogo.
func (f *fixture) seedReason(t *testing.T, id, name string, spaceID *string) {
	t.Helper()
	err := f.st.ReportReasons().Create(context.Background(), &domain.ReportReason{
		ID: id, Name: name, Description: name, SpaceID: spaceID,
	})
	if err != nil {
		t.Fatalf("seed reason: %v", err)
	}
}

func strPtr(s string) *string { return &s }
