package moderation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/aegis/internal/domain"
	"github.com/dropDatabas3/aegis/internal/domain/repository"
	"github.com/dropDatabas3/aegis/internal/scope"
)

// Store agrupa los repositorios que el motor necesita. Lo implementan
// internal/store/pg e internal/store/memory.
type Store interface {
	Roles() repository.RoleGrantRepository
	Bans() repository.BanRepository
	Reports() repository.ReportRepository
	ReportComments() repository.ReportCommentRepository
	ReportReasons() repository.ReportReasonRepository
	ModerationLog() repository.ModerationLogRepository
}

// PermissionCache es el cache read-through opcional de CanModerate /
// CanAdminister. Invalidación explícita por usuario; un cache frío o
// caído solo cuesta el walk extra, nunca corrección.
type PermissionCache interface {
	Get(ctx context.Context, userID, scopeKey string, role domain.RoleType) (allowed, ok bool)
	Set(ctx context.Context, userID, scopeKey string, role domain.RoleType, allowed bool)
	InvalidateUser(ctx context.Context, userID string)
}

// Notifier es el sink de notificaciones externo (best-effort).
type Notifier interface {
	// ReportClosed notifica al reporter que su report fue cerrado.
	// Nunca falla la operación que lo dispara.
	ReportClosed(ctx context.Context, report domain.Report, dismissed bool)
}

// Services agrupa los casos de uso ya cableados.
type Services struct {
	Directory *Directory
	Bans      *BanLedger
	Reports   *Reports
	Log       *Log
}

// Options son dependencias opcionales de los servicios.
type Options struct {
	// Perms habilita el cache de permisos (nil = deshabilitado).
	Perms PermissionCache

	// Notifier habilita notificaciones al cerrar reports (nil = noop).
	Notifier Notifier

	// Now permite inyectar el reloj en tests.
	Now func() time.Time

	// NewID permite inyectar el generador de IDs en tests.
	NewID func() string
}

// New construye los servicios sobre el store y el resolver dados.
func New(st Store, res *scope.Resolver, opts Options) *Services {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	dir := &Directory{
		roles:    st.Roles(),
		bans:     st.Bans(),
		resolver: res,
		perms:    opts.Perms,
		now:      opts.Now,
		newID:    opts.NewID,
	}
	bans := &BanLedger{
		bans:  st.Bans(),
		dir:   dir,
		res:   res,
		now:   opts.Now,
		newID: opts.NewID,
	}
	reports := &Reports{
		reports:  st.Reports(),
		comments: st.ReportComments(),
		reasons:  st.ReportReasons(),
		dir:      dir,
		res:      res,
		notifier: opts.Notifier,
		now:      opts.Now,
		newID:    opts.NewID,
	}
	log := &Log{
		entries: st.ModerationLog(),
		res:     res,
		now:     opts.Now,
		newID:   opts.NewID,
	}

	return &Services{Directory: dir, Bans: bans, Reports: reports, Log: log}
}
