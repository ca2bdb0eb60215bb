package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestScopeKindAndKey(t *testing.T) {
	cases := []struct {
		name string
		sc   Scope
		kind ScopeKind
		key  string
	}{
		{"global", GlobalScope(), ScopeGlobal, "global"},
		{"community", CommunityScope("c1"), ScopeCommunity, "community:c1"},
		{"hub", HubScope("h1"), ScopeHub, "hub:h1"},
		{"space", SpaceScope("s1"), ScopeSpace, "space:s1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, tc.sc.Kind())
			assert.Equal(t, tc.key, tc.sc.Key())
			assert.True(t, tc.sc.Valid())
		})
	}
}

func TestScopeValidRejectsMultipleIDs(t *testing.T) {
	sc := Scope{CommunityID: strPtr("c1"), HubID: strPtr("h1")}
	assert.False(t, sc.Valid())
}

func TestScopeEqual(t *testing.T) {
	assert.True(t, SpaceScope("s1").Equal(SpaceScope("s1")))
	assert.False(t, SpaceScope("s1").Equal(SpaceScope("s2")))
	assert.False(t, SpaceScope("s1").Equal(HubScope("s1")))
	assert.True(t, GlobalScope().Equal(GlobalScope()))
}

func TestScopeFromIDs(t *testing.T) {
	sc, err := ScopeFromIDs(nil, nil, strPtr("s1"))
	require.NoError(t, err)
	assert.Equal(t, ScopeSpace, sc.Kind())

	// Strings vacíos cuentan como no seteados.
	sc, err = ScopeFromIDs(strPtr(""), strPtr(""), nil)
	require.NoError(t, err)
	assert.True(t, sc.IsGlobal())

	_, err = ScopeFromIDs(strPtr("c1"), strPtr("h1"), nil)
	require.Error(t, err)
}
