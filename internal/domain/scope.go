package domain

import "fmt"

// ScopeKind identifica el nivel jerárquico de un Scope.
type ScopeKind string

const (
	ScopeGlobal    ScopeKind = "global"
	ScopeCommunity ScopeKind = "community"
	ScopeHub       ScopeKind = "hub"
	ScopeSpace     ScopeKind = "space"
)

// Scope representa el alcance jerárquico de un rol, ban o entrada de log.
// Es una unión etiquetada: como máximo uno de los tres IDs está seteado.
// Todos nil significa alcance Global.
type Scope struct {
	CommunityID *string
	HubID       *string
	SpaceID     *string
}

// GlobalScope retorna el scope global (sin IDs).
func GlobalScope() Scope { return Scope{} }

// CommunityScope retorna un scope a nivel comunidad.
func CommunityScope(id string) Scope { return Scope{CommunityID: &id} }

// HubScope retorna un scope a nivel hub.
func HubScope(id string) Scope { return Scope{HubID: &id} }

// SpaceScope retorna un scope a nivel space.
func SpaceScope(id string) Scope { return Scope{SpaceID: &id} }

// Kind retorna el nivel del scope. Asume que el scope es válido.
func (s Scope) Kind() ScopeKind {
	switch {
	case s.SpaceID != nil:
		return ScopeSpace
	case s.HubID != nil:
		return ScopeHub
	case s.CommunityID != nil:
		return ScopeCommunity
	default:
		return ScopeGlobal
	}
}

// IsGlobal indica si el scope es global.
func (s Scope) IsGlobal() bool {
	return s.CommunityID == nil && s.HubID == nil && s.SpaceID == nil
}

// Valid verifica el invariante "como máximo un ID seteado".
func (s Scope) Valid() bool {
	n := 0
	if s.CommunityID != nil {
		n++
	}
	if s.HubID != nil {
		n++
	}
	if s.SpaceID != nil {
		n++
	}
	return n <= 1
}

// Equal compara dos scopes por valor.
func (s Scope) Equal(o Scope) bool {
	return strPtrEq(s.CommunityID, o.CommunityID) &&
		strPtrEq(s.HubID, o.HubID) &&
		strPtrEq(s.SpaceID, o.SpaceID)
}

// Key retorna una representación canónica estable, usada como clave de
// cache y para comparaciones en los stores.
func (s Scope) Key() string {
	switch {
	case s.SpaceID != nil:
		return "space:" + *s.SpaceID
	case s.HubID != nil:
		return "hub:" + *s.HubID
	case s.CommunityID != nil:
		return "community:" + *s.CommunityID
	default:
		return "global"
	}
}

// String implementa fmt.Stringer (mismo formato que Key).
func (s Scope) String() string { return s.Key() }

// ScopeFromIDs construye un Scope a partir de IDs opcionales (el shape que
// llega por la API). Falla si hay más de uno seteado.
func ScopeFromIDs(communityID, hubID, spaceID *string) (Scope, error) {
	s := Scope{CommunityID: normPtr(communityID), HubID: normPtr(hubID), SpaceID: normPtr(spaceID)}
	if !s.Valid() {
		return Scope{}, fmt.Errorf("scope: at most one of community/hub/space may be set")
	}
	return s, nil
}

func normPtr(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return p
}

func strPtrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
