package moderation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/aegis/internal/domain"
	"github.com/dropDatabas3/aegis/internal/domain/repository"
)

func TestCreateReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedReason(t, "r-spam", "spam", nil)

	report, err := f.svc.Reports.CreateReport(ctx, "reporter", domain.ReportTarget{PostID: strPtr("p1")}, "r-spam", strPtr("link farm"))
	require.NoError(t, err)
	assert.Equal(t, domain.ReportPending, report.Status)
	assert.Equal(t, "reporter", report.ReporterUserID)
	assert.Nil(t, report.ResolvedAt)

	// Cualquier usuario reporta: no hay chequeo de permisos en el alta.
	_, err = f.svc.Reports.CreateReport(ctx, "otro", domain.ReportTarget{UserID: strPtr("u9")}, "r-spam", nil)
	require.NoError(t, err)
}

func TestCreateReportValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedReason(t, "r-spam", "spam", nil)

	// Target con cero o dos referencias.
	_, err := f.svc.Reports.CreateReport(ctx, "reporter", domain.ReportTarget{}, "r-spam", nil)
	assert.True(t, repository.IsInvalidInput(err))
	_, err = f.svc.Reports.CreateReport(ctx, "reporter",
		domain.ReportTarget{PostID: strPtr("p1"), UserID: strPtr("u1")}, "r-spam", nil)
	assert.True(t, repository.IsInvalidInput(err))

	// Motivo fuera del catálogo.
	_, err = f.svc.Reports.CreateReport(ctx, "reporter", domain.ReportTarget{PostID: strPtr("p1")}, "ghost", nil)
	assert.True(t, repository.IsInvalidInput(err))

	_, err = f.svc.Reports.CreateReport(ctx, "", domain.ReportTarget{PostID: strPtr("p1")}, "r-spam", nil)
	assert.True(t, repository.IsInvalidInput(err))
}

func TestResolveReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedReason(t, "r-spam", "spam", nil)
	f.seedGrant(t, "mod-h1", domain.RoleModerator, domain.HubScope("h1"))

	// p1 vive en s1, dentro de h1: mod-h1 puede resolver por herencia.
	report, err := f.svc.Reports.CreateReport(ctx, "reporter", domain.ReportTarget{PostID: strPtr("p1")}, "r-spam", nil)
	require.NoError(t, err)

	f.now = f.now.Add(time.Minute)
	require.NoError(t, f.svc.Reports.ResolveReport(ctx, report.ID, "mod-h1", strPtr("removed"), false))

	got, err := f.st.Reports().GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportResolved, got.Status)
	require.NotNil(t, got.ResolvedByUserID)
	assert.Equal(t, "mod-h1", *got.ResolvedByUserID)
	require.NotNil(t, got.ResolutionNote)
	assert.Equal(t, "removed", *got.ResolutionNote)
	require.NotNil(t, got.ResolvedAt)

	// Resolver de nuevo: el estado ya es terminal.
	err = f.svc.Reports.ResolveReport(ctx, report.ID, "mod-h1", nil, true)
	assert.ErrorIs(t, err, repository.ErrNotPending)

	// Notificación best-effort al reporter.
	require.Len(t, f.sent, 1)
	assert.Equal(t, report.ID, f.sent[0].report.ID)
	assert.False(t, f.sent[0].dismissed)
}

func TestDismissReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedReason(t, "r-spam", "spam", nil)
	f.seedGrant(t, "root", domain.RoleAdministrator, domain.GlobalScope())

	report, err := f.svc.Reports.CreateReport(ctx, "reporter", domain.ReportTarget{DiscussionID: strPtr("d1")}, "r-spam", nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.Reports.ResolveReport(ctx, report.ID, "root", nil, true))

	got, err := f.st.Reports().GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportDismissed, got.Status)

	require.Len(t, f.sent, 1)
	assert.True(t, f.sent[0].dismissed)
}

func TestResolveReportPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedReason(t, "r-spam", "spam", nil)
	f.seedGrant(t, "mod-s3", domain.RoleModerator, domain.SpaceScope("s3"))

	// p1 está en s1: un moderador de s3 no lo resuelve.
	report, err := f.svc.Reports.CreateReport(ctx, "reporter", domain.ReportTarget{PostID: strPtr("p1")}, "r-spam", nil)
	require.NoError(t, err)

	err = f.svc.Reports.ResolveReport(ctx, report.ID, "mod-s3", nil, false)
	assert.True(t, repository.IsPermissionDenied(err))

	// Report contra un usuario: scope Global, solo moderación global.
	userReport, err := f.svc.Reports.CreateReport(ctx, "reporter", domain.ReportTarget{UserID: strPtr("u9")}, "r-spam", nil)
	require.NoError(t, err)
	err = f.svc.Reports.ResolveReport(ctx, userReport.ID, "mod-s3", nil, false)
	assert.True(t, repository.IsPermissionDenied(err))

	f.seedGrant(t, "root", domain.RoleModerator, domain.GlobalScope())
	require.NoError(t, f.svc.Reports.ResolveReport(ctx, userReport.ID, "root", nil, false))

	err = f.svc.Reports.ResolveReport(ctx, "ghost", "root", nil, false)
	assert.True(t, repository.IsNotFound(err))
}

func TestReportComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedReason(t, "r-spam", "spam", nil)
	f.seedGrant(t, "root", domain.RoleAdministrator, domain.GlobalScope())

	report, err := f.svc.Reports.CreateReport(ctx, "reporter", domain.ReportTarget{PostID: strPtr("p1")}, "r-spam", nil)
	require.NoError(t, err)

	_, err = f.svc.Reports.AddComment(ctx, report.ID, "mod-a", "looking into it")
	require.NoError(t, err)
	f.now = f.now.Add(time.Minute)
	_, err = f.svc.Reports.AddComment(ctx, report.ID, "mod-b", "confirmed spam")
	require.NoError(t, err)

	_, err = f.svc.Reports.AddComment(ctx, report.ID, "mod-a", "   ")
	assert.True(t, repository.IsInvalidInput(err))
	_, err = f.svc.Reports.AddComment(ctx, "ghost", "mod-a", "x")
	assert.True(t, repository.IsNotFound(err))

	// Comentar sobre un report terminal sigue permitido.
	require.NoError(t, f.svc.Reports.ResolveReport(ctx, report.ID, "root", nil, false))
	f.now = f.now.Add(time.Minute)
	_, err = f.svc.Reports.AddComment(ctx, report.ID, "mod-a", "post-mortem note")
	require.NoError(t, err)

	comments, err := f.svc.Reports.Comments(ctx, report.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	// Más viejos primero.
	assert.Equal(t, "looking into it", comments[0].Content)
	assert.Equal(t, "post-mortem note", comments[2].Content)
}

func TestListForModeratorFiltersByScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedReason(t, "r-spam", "spam", nil)
	f.seedGrant(t, "mod-h1", domain.RoleModerator, domain.HubScope("h1"))

	// p1 en s1 (h1), p2 en s3 (h2): mod-h1 solo ve el primero.
	inScope, err := f.svc.Reports.CreateReport(ctx, "reporter", domain.ReportTarget{PostID: strPtr("p1")}, "r-spam", nil)
	require.NoError(t, err)
	f.now = f.now.Add(time.Second)
	_, err = f.svc.Reports.CreateReport(ctx, "reporter", domain.ReportTarget{PostID: strPtr("p2")}, "r-spam", nil)
	require.NoError(t, err)
	f.now = f.now.Add(time.Second)
	_, err = f.svc.Reports.CreateReport(ctx, "reporter", domain.ReportTarget{UserID: strPtr("u9")}, "r-spam", nil)
	require.NoError(t, err)

	page, err := f.svc.Reports.ListForModerator(ctx, "mod-h1", nil, 0, 20)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, inScope.ID, page.Items[0].ID)

	// Un moderador global ve los tres.
	f.seedGrant(t, "root", domain.RoleModerator, domain.GlobalScope())
	page, err = f.svc.Reports.ListForModerator(ctx, "root", nil, 0, 20)
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
}

func TestListForModeratorStatusFilterAndPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedReason(t, "r-spam", "spam", nil)
	f.seedGrant(t, "root", domain.RoleModerator, domain.GlobalScope())

	var ids []string
	for i := 0; i < 5; i++ {
		r, err := f.svc.Reports.CreateReport(ctx, "reporter", domain.ReportTarget{PostID: strPtr("p1")}, "r-spam", nil)
		require.NoError(t, err)
		ids = append(ids, r.ID)
		f.now = f.now.Add(time.Second)
	}
	require.NoError(t, f.svc.Reports.ResolveReport(ctx, ids[0], "root", nil, false))

	pending := domain.ReportPending
	page, err := f.svc.Reports.ListForModerator(ctx, "root", &pending, 0, 20)
	require.NoError(t, err)
	assert.Len(t, page.Items, 4)

	resolved := domain.ReportResolved
	page, err = f.svc.Reports.ListForModerator(ctx, "root", &resolved, 0, 20)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ids[0], page.Items[0].ID)

	// offset/pageSize aplican después del filtro, más nuevos primero.
	page, err = f.svc.Reports.ListForModerator(ctx, "root", &pending, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, ids[3], page.Items[0].ID)
	assert.Equal(t, ids[2], page.Items[1].ID)
}

func TestListForModeratorSkipsDeletedContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedReason(t, "r-spam", "spam", nil)
	f.seedGrant(t, "root", domain.RoleModerator, domain.GlobalScope())

	// Report cuyo post ya no existe en el content directory: se omite de
	// los listados sin romper la página.
	ghost := "ghost-post"
	err := f.st.Reports().Create(ctx, &domain.Report{
		ID:             "rep-ghost",
		ReporterUserID: "reporter",
		Target:         domain.ReportTarget{PostID: &ghost},
		ReasonID:       "r-spam",
		Status:         domain.ReportPending,
		CreatedAt:      f.now,
	})
	require.NoError(t, err)

	_, err = f.svc.Reports.CreateReport(ctx, "reporter", domain.ReportTarget{PostID: strPtr("p1")}, "r-spam", nil)
	require.NoError(t, err)

	page, err := f.svc.Reports.ListForModerator(ctx, "root", nil, 0, 20)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.NotEqual(t, "rep-ghost", page.Items[0].ID)
}

func TestReasonsCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedReason(t, "r-spam", "spam", nil)
	f.seedReason(t, "r-harass", "harassment", nil)
	f.seedReason(t, "r-offtopic", "off topic", strPtr("s1"))

	// Sin hint: solo los globales.
	reasons, err := f.svc.Reports.Reasons(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, reasons, 2)

	// Hint de space: globales más los específicos de ese space.
	sc := domain.SpaceScope("s1")
	reasons, err = f.svc.Reports.Reasons(ctx, &sc)
	require.NoError(t, err)
	assert.Len(t, reasons, 3)

	other := domain.SpaceScope("s2")
	reasons, err = f.svc.Reports.Reasons(ctx, &other)
	require.NoError(t, err)
	assert.Len(t, reasons, 2)
}
