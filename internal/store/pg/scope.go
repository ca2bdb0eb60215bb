package pg

import (
	"fmt"
	"strings"

	"github.com/dropDatabas3/aegis/internal/domain"
)

// Los scopes se persisten como tres FKs nullable (community_id, hub_id,
// space_id) con el invariante "como máximo uno seteado" (CHECK en schema).
// Este archivo contiene los helpers de ida y vuelta.

// scopeCols descompone un Scope en los tres valores de columna.
func scopeCols(s domain.Scope) (communityID, hubID, spaceID *string) {
	return s.CommunityID, s.HubID, s.SpaceID
}

// scopeFromCols reconstruye un Scope desde las columnas.
func scopeFromCols(communityID, hubID, spaceID *string) domain.Scope {
	return domain.Scope{CommunityID: communityID, HubID: hubID, SpaceID: spaceID}
}

// scopePredicate construye un predicado SQL "el scope de la fila es alguno
// de estos" con placeholders a partir de firstArg. scopes vacío produce
// FALSE (ningún match); el caller maneja el caso "sin filtro" aparte.
func scopePredicate(scopes []domain.Scope, firstArg int) (string, []any) {
	if len(scopes) == 0 {
		return "FALSE", nil
	}

	var parts []string
	var args []any
	arg := firstArg

	for _, s := range scopes {
		switch s.Kind() {
		case domain.ScopeGlobal:
			parts = append(parts, "(community_id IS NULL AND hub_id IS NULL AND space_id IS NULL)")
		case domain.ScopeCommunity:
			parts = append(parts, fmt.Sprintf("community_id = $%d", arg))
			args = append(args, *s.CommunityID)
			arg++
		case domain.ScopeHub:
			parts = append(parts, fmt.Sprintf("hub_id = $%d", arg))
			args = append(args, *s.HubID)
			arg++
		case domain.ScopeSpace:
			parts = append(parts, fmt.Sprintf("space_id = $%d", arg))
			args = append(args, *s.SpaceID)
			arg++
		}
	}

	return "(" + strings.Join(parts, " OR ") + ")", args
}
