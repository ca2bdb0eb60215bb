// Package scope resuelve la jerarquía Global → Community → Hub → Space
// sobre el ContentDirectory externo. Todos los demás componentes del motor
// dependen de este paquete para herencia de permisos y queries de log.
package scope

import (
	"context"

	"github.com/dropDatabas3/aegis/internal/domain"
	"github.com/dropDatabas3/aegis/internal/domain/repository"
)

// Resolver computa cadenas de ancestros y expansiones de descendientes.
// Profundidad acotada: la cadena nunca supera 4 niveles, así que el walk
// O(depth) por check es barato y no necesita cache para ser correcto.
type Resolver struct {
	dir repository.ContentDirectory
}

// NewResolver crea un resolver sobre el directorio de contenido dado.
func NewResolver(dir repository.ContentDirectory) *Resolver {
	return &Resolver{dir: dir}
}

// Ancestors retorna el scope dado más todos sus scopes contenedores hasta
// Global, en orden angosto→amplio (permite short-circuit en los checks de
// permisos). Retorna repository.ErrNotFound si un space/hub referenciado
// no existe.
func (r *Resolver) Ancestors(ctx context.Context, s domain.Scope) ([]domain.Scope, error) {
	chain := []domain.Scope{s}

	hubID := ""
	switch s.Kind() {
	case domain.ScopeGlobal:
		return chain, nil
	case domain.ScopeSpace:
		h, err := r.dir.HubOfSpace(ctx, *s.SpaceID)
		if err != nil {
			return nil, err
		}
		hubID = h
		chain = append(chain, domain.HubScope(hubID))
	case domain.ScopeHub:
		hubID = *s.HubID
	}

	if hubID != "" {
		communityID, err := r.dir.CommunityOfHub(ctx, hubID)
		if err != nil {
			return nil, err
		}
		chain = append(chain, domain.CommunityScope(communityID))
	}

	return append(chain, domain.GlobalScope()), nil
}

// Descendants retorna el scope dado más todos los scopes que contiene
// (la inversa de Ancestors). Para Global retorna nil, que los stores
// interpretan como "sin filtro".
func (r *Resolver) Descendants(ctx context.Context, s domain.Scope) ([]domain.Scope, error) {
	switch s.Kind() {
	case domain.ScopeGlobal:
		return nil, nil

	case domain.ScopeSpace:
		return []domain.Scope{s}, nil

	case domain.ScopeHub:
		out := []domain.Scope{s}
		spaces, err := r.dir.SpacesOfHub(ctx, *s.HubID)
		if err != nil {
			return nil, err
		}
		for _, id := range spaces {
			out = append(out, domain.SpaceScope(id))
		}
		return out, nil

	default: // community
		out := []domain.Scope{s}
		hubs, err := r.dir.HubsOfCommunity(ctx, *s.CommunityID)
		if err != nil {
			return nil, err
		}
		for _, hubID := range hubs {
			out = append(out, domain.HubScope(hubID))
			spaces, err := r.dir.SpacesOfHub(ctx, hubID)
			if err != nil {
				return nil, err
			}
			for _, id := range spaces {
				out = append(out, domain.SpaceScope(id))
			}
		}
		return out, nil
	}
}

// TargetScope infiere el scope de un report target a través del directorio
// de contenido. Posts y discussions mapean a su space; los reports contra
// usuarios se tratan como scope Global (los ve la moderación global o de
// community vía herencia, no un moderador de space).
func (r *Resolver) TargetScope(ctx context.Context, t domain.ReportTarget) (domain.Scope, error) {
	switch {
	case t.PostID != nil:
		spaceID, err := r.dir.SpaceOfPost(ctx, *t.PostID)
		if err != nil {
			return domain.Scope{}, err
		}
		return domain.SpaceScope(spaceID), nil
	case t.DiscussionID != nil:
		spaceID, err := r.dir.SpaceOfDiscussion(ctx, *t.DiscussionID)
		if err != nil {
			return domain.Scope{}, err
		}
		return domain.SpaceScope(spaceID), nil
	default:
		return domain.GlobalScope(), nil
	}
}
