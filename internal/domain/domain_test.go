package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoleGrantCovers(t *testing.T) {
	mod := RoleGrant{RoleType: RoleModerator}
	admin := RoleGrant{RoleType: RoleAdministrator}

	assert.True(t, mod.Covers(RoleModerator))
	assert.False(t, mod.Covers(RoleAdministrator))
	assert.True(t, admin.Covers(RoleModerator), "administrator implica moderator")
	assert.True(t, admin.Covers(RoleAdministrator))
}

func TestRoleGrantActive(t *testing.T) {
	now := time.Now()
	assert.True(t, RoleGrant{}.Active())
	assert.False(t, RoleGrant{RevokedAt: &now}.Active())
}

func TestBanRecordActiveLazyExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, BanRecord{}.Active(now), "ban permanente")
	assert.True(t, BanRecord{ExpiresAt: &future}.Active(now))
	assert.False(t, BanRecord{ExpiresAt: &past}.Active(now), "vencido cuenta como inactivo sin unban")
	assert.False(t, BanRecord{ExpiresAt: &now}.Active(now), "el instante exacto de expiración ya no está activo")
	assert.False(t, BanRecord{UnbannedAt: &past}.Active(now))
}

func TestReportTargetValidate(t *testing.T) {
	assert.Error(t, ReportTarget{}.Validate())
	assert.NoError(t, ReportTarget{PostID: strPtr("p1")}.Validate())
	assert.NoError(t, ReportTarget{UserID: strPtr("u1")}.Validate())
	assert.Error(t, ReportTarget{PostID: strPtr("p1"), UserID: strPtr("u1")}.Validate())
	assert.Error(t, ReportTarget{PostID: strPtr("")}.Validate(), "string vacío no cuenta como target")
}

func TestReportTargetDescribe(t *testing.T) {
	assert.Equal(t, "post:p1", ReportTarget{PostID: strPtr("p1")}.Describe())
	assert.Equal(t, "discussion:d1", ReportTarget{DiscussionID: strPtr("d1")}.Describe())
	assert.Equal(t, "user:u1", ReportTarget{UserID: strPtr("u1")}.Describe())
}

func TestReportStatus(t *testing.T) {
	assert.False(t, ReportPending.Terminal())
	assert.True(t, ReportResolved.Terminal())
	assert.True(t, ReportDismissed.Terminal())

	st, ok := ParseReportStatus("pending")
	assert.True(t, ok)
	assert.Equal(t, ReportPending, st)
	_, ok = ParseReportStatus("closed")
	assert.False(t, ok)
}

func TestParseRoleType(t *testing.T) {
	rt, ok := ParseRoleType("moderator")
	assert.True(t, ok)
	assert.Equal(t, RoleModerator, rt)
	_, ok = ParseRoleType("owner")
	assert.False(t, ok)
}
