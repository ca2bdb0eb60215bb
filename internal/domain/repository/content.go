package repository

import "context"

// ContentDirectory es el port hacia el modelo de contenido externo
// (communities/hubs/spaces/posts/discussions). El motor solo maneja IDs
// opacos; este directorio resuelve la jerarquía en ambas direcciones.
//
// Todas las operaciones retornan ErrNotFound si la referencia no existe
// (ej: space borrado). Los callers defensivos tratan eso como "sin scope
// aplicable", no como error duro.
type ContentDirectory interface {
	// HubOfSpace retorna el hub padre de un space.
	HubOfSpace(ctx context.Context, spaceID string) (string, error)

	// CommunityOfHub retorna la community padre de un hub.
	CommunityOfHub(ctx context.Context, hubID string) (string, error)

	// HubsOfCommunity retorna los hubs de una community (expansión inversa,
	// usada por las queries del moderation log).
	HubsOfCommunity(ctx context.Context, communityID string) ([]string, error)

	// SpacesOfHub retorna los spaces de un hub.
	SpacesOfHub(ctx context.Context, hubID string) ([]string, error)

	// SpaceOfPost retorna el space donde vive un post.
	SpaceOfPost(ctx context.Context, postID string) (string, error)

	// SpaceOfDiscussion retorna el space donde vive una discussion.
	SpaceOfDiscussion(ctx context.Context, discussionID string) (string, error)
}

// UserDirectory es el port mínimo hacia el directorio de usuarios externo.
// Solo se usa para notificaciones best-effort (email del reporter).
type UserDirectory interface {
	// EmailOf retorna el email de un usuario. ErrNotFound si no existe
	// o no tiene email.
	EmailOf(ctx context.Context, userID string) (string, error)
}
