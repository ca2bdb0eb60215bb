package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/aegis/internal/domain"
	"github.com/dropDatabas3/aegis/internal/store/memory"
)

func TestSeedInstallsAdminAndCatalog(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	require.NoError(t, seedStore(ctx, st, "root"))

	roles, err := st.Roles().ActiveByUser(ctx, "root")
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, domain.RoleAdministrator, roles[0].RoleType)
	assert.True(t, roles[0].Scope.IsGlobal())

	reasons, err := st.ReportReasons().List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, reasons, len(defaultReasons))

	// El bootstrap también queda en el log de moderación.
	entries, err := st.ModerationLog().Query(ctx, nil, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionRoleAssigned, entries[0].Action)
	assert.Equal(t, "user:root role:administrator", entries[0].TargetDescription)
}

func TestSeedIsIdempotent(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	require.NoError(t, seedStore(ctx, st, "root"))
	require.NoError(t, seedStore(ctx, st, "root"))

	roles, err := st.Roles().ActiveByUser(ctx, "root")
	require.NoError(t, err)
	assert.Len(t, roles, 1)

	reasons, err := st.ReportReasons().List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, reasons, len(defaultReasons))
}
