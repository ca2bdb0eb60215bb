// Package memory implementa el store de moderación en memoria.
// Usado por tests y por el modo dev; garantiza los mismos invariantes que
// el adapter PostgreSQL (unicidad de grant activo, CAS de status, entidad
// + log en una unidad atómica) bajo un mutex.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dropDatabas3/aegis/internal/domain"
	"github.com/dropDatabas3/aegis/internal/domain/repository"
)

// Store es el store en memoria. El lock es compartido por todos los
// repos: cada mutación (entidad + entrada de log) es una sección crítica.
type Store struct {
	mu sync.RWMutex

	grants   []domain.RoleGrant
	bans     []domain.BanRecord
	reports  []domain.Report
	comments []domain.ReportComment
	reasons  []domain.ReportReason
	log      []domain.LogEntry
}

// New crea un store vacío.
func New() *Store { return &Store{} }

func (s *Store) Roles() repository.RoleGrantRepository           { return &roleRepo{s} }
func (s *Store) Bans() repository.BanRepository                  { return &banRepo{s} }
func (s *Store) Reports() repository.ReportRepository            { return &reportRepo{s} }
func (s *Store) ReportComments() repository.ReportCommentRepository { return &commentRepo{s} }
func (s *Store) ReportReasons() repository.ReportReasonRepository   { return &reasonRepo{s} }
func (s *Store) ModerationLog() repository.ModerationLogRepository  { return &logRepo{s} }

func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close() error                   { return nil }

// appendLog agrega una entrada de log. Llamar con el lock tomado.
func (s *Store) appendLog(entry *domain.LogEntry) {
	if entry != nil {
		s.log = append(s.log, *entry)
	}
}

func scopeKeySet(scopes []domain.Scope) map[string]struct{} {
	set := make(map[string]struct{}, len(scopes))
	for _, sc := range scopes {
		set[sc.Key()] = struct{}{}
	}
	return set
}

// ─── RoleGrantRepository ───

type roleRepo struct{ s *Store }

func (r *roleRepo) Create(ctx context.Context, grant *domain.RoleGrant, entry *domain.LogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Unicidad de grant activo por (subject, roleType, scope).
	for _, g := range r.s.grants {
		if g.Active() &&
			g.SubjectUserID == grant.SubjectUserID &&
			g.RoleType == grant.RoleType &&
			g.Scope.Equal(grant.Scope) {
			return fmt.Errorf("%w: active grant already exists", repository.ErrConflict)
		}
	}

	r.s.grants = append(r.s.grants, *grant)
	r.s.appendLog(entry)
	return nil
}

func (r *roleRepo) GetByID(ctx context.Context, grantID string) (*domain.RoleGrant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, g := range r.s.grants {
		if g.ID == grantID {
			out := g
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *roleRepo) Revoke(ctx context.Context, grantID, revokedBy string, at time.Time, entry *domain.LogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.grants {
		if r.s.grants[i].ID != grantID {
			continue
		}
		if r.s.grants[i].RevokedAt != nil {
			return repository.ErrAlreadyRevoked
		}
		r.s.grants[i].RevokedAt = &at
		r.s.grants[i].RevokedByUserID = &revokedBy
		r.s.appendLog(entry)
		return nil
	}
	return repository.ErrNotFound
}

func (r *roleRepo) ActiveByUser(ctx context.Context, userID string) ([]domain.RoleGrant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.RoleGrant
	for _, g := range r.s.grants {
		if g.SubjectUserID == userID && g.Active() {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *roleRepo) ActiveAt(ctx context.Context, userID string, scopes []domain.Scope) ([]domain.RoleGrant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	keys := scopeKeySet(scopes)
	var out []domain.RoleGrant
	for _, g := range r.s.grants {
		if g.SubjectUserID != userID || !g.Active() {
			continue
		}
		if _, ok := keys[g.Scope.Key()]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

// ─── BanRepository ───

type banRepo struct{ s *Store }

func (r *banRepo) Create(ctx context.Context, ban *domain.BanRecord, entry *domain.LogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.bans = append(r.s.bans, *ban)
	r.s.appendLog(entry)
	return nil
}

func (r *banRepo) GetByID(ctx context.Context, banID string) (*domain.BanRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, b := range r.s.bans {
		if b.ID == banID {
			out := b
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *banRepo) Unban(ctx context.Context, banID, unbannedBy string, at time.Time, entry *domain.LogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.bans {
		if r.s.bans[i].ID != banID {
			continue
		}
		if r.s.bans[i].UnbannedAt != nil {
			return repository.ErrAlreadyUnbanned
		}
		r.s.bans[i].UnbannedAt = &at
		r.s.bans[i].UnbannedBy = &unbannedBy
		r.s.appendLog(entry)
		return nil
	}
	return repository.ErrNotFound
}

func (r *banRepo) ActiveAt(ctx context.Context, userID string, scopes []domain.Scope, now time.Time) ([]domain.BanRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	keys := scopeKeySet(scopes)
	var out []domain.BanRecord
	for _, b := range r.s.bans {
		if b.SubjectUserID != userID || !b.Active(now) {
			continue
		}
		if _, ok := keys[b.Scope.Key()]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// ─── ReportRepository ───

type reportRepo struct{ s *Store }

func (r *reportRepo) Create(ctx context.Context, report *domain.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.reports = append(r.s.reports, *report)
	return nil
}

func (r *reportRepo) GetByID(ctx context.Context, reportID string) (*domain.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rep := range r.s.reports {
		if rep.ID == reportID {
			out := rep
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *reportRepo) Resolve(ctx context.Context, reportID, resolvedBy string, note *string, dismiss bool, at time.Time, entry *domain.LogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.reports {
		if r.s.reports[i].ID != reportID {
			continue
		}
		// CAS sobre el status: solo Pending transiciona.
		if r.s.reports[i].Status != domain.ReportPending {
			return repository.ErrNotPending
		}
		status := domain.ReportResolved
		if dismiss {
			status = domain.ReportDismissed
		}
		r.s.reports[i].Status = status
		r.s.reports[i].ResolvedByUserID = &resolvedBy
		r.s.reports[i].ResolutionNote = note
		r.s.reports[i].ResolvedAt = &at
		r.s.appendLog(entry)
		return nil
	}
	return repository.ErrNotFound
}

func (r *reportRepo) ListByStatus(ctx context.Context, status *domain.ReportStatus, offset, limit int) ([]domain.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var all []domain.Report
	for _, rep := range r.s.reports {
		if status == nil || rep.Status == *status {
			all = append(all, rep)
		}
	}
	// Más nuevos primero; desempate por ID para orden estable.
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	return pageOf(all, offset, limit), nil
}

// ─── ReportCommentRepository ───

type commentRepo struct{ s *Store }

func (r *commentRepo) Create(ctx context.Context, comment *domain.ReportComment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.comments = append(r.s.comments, *comment)
	return nil
}

func (r *commentRepo) ListByReport(ctx context.Context, reportID string) ([]domain.ReportComment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.ReportComment
	for _, c := range r.s.comments {
		if c.ReportID == reportID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ─── ReportReasonRepository ───

type reasonRepo struct{ s *Store }

func (r *reasonRepo) Create(ctx context.Context, reason *domain.ReportReason) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Mismo (name, space) que el UNIQUE de postgres: el seed depende de
	// este Conflict para ser idempotente.
	for _, re := range r.s.reasons {
		if re.Name == reason.Name && sameSpace(re.SpaceID, reason.SpaceID) {
			return repository.ErrConflict
		}
	}
	r.s.reasons = append(r.s.reasons, *reason)
	return nil
}

func sameSpace(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *reasonRepo) GetByID(ctx context.Context, reasonID string) (*domain.ReportReason, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, re := range r.s.reasons {
		if re.ID == reasonID {
			out := re
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *reasonRepo) List(ctx context.Context, spaceID *string) ([]domain.ReportReason, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.ReportReason
	for _, re := range r.s.reasons {
		if re.SpaceID == nil {
			out = append(out, re)
			continue
		}
		if spaceID != nil && *re.SpaceID == *spaceID {
			out = append(out, re)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ─── ModerationLogRepository ───

type logRepo struct{ s *Store }

func (r *logRepo) Append(ctx context.Context, entry *domain.LogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.appendLog(entry)
	return nil
}

func (r *logRepo) Query(ctx context.Context, scopes []domain.Scope, offset, limit int) ([]domain.LogEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var keys map[string]struct{}
	if scopes != nil {
		keys = scopeKeySet(scopes)
	}

	var all []domain.LogEntry
	for _, e := range r.s.log {
		if keys != nil {
			if _, ok := keys[e.Scope.Key()]; !ok {
				continue
			}
		}
		all = append(all, e)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	return pageOf(all, offset, limit), nil
}

// pageOf aplica offset/limit con clamp.
func pageOf[T any](all []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]T, end-offset)
	copy(out, all[offset:end])
	return out
}
