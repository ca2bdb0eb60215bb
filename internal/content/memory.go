// Package content implementa los directorios hacia el modelo de contenido
// externo: un backend en memoria (desarrollo/tests) y uno PostgreSQL que
// consulta las tablas del servicio de contenido.
package content

import (
	"context"
	"sort"
	"sync"

	"github.com/dropDatabas3/aegis/internal/domain/repository"
)

// MemoryDirectory es un ContentDirectory + UserDirectory mutable en
// memoria. Se arma a mano en tests y en modo desarrollo.
type MemoryDirectory struct {
	mu sync.RWMutex

	hubOfSpace      map[string]string // spaceID -> hubID
	communityOfHub  map[string]string // hubID -> communityID
	spaceOfPost     map[string]string
	spaceOfDiscuss  map[string]string
	emails          map[string]string
}

// NewMemoryDirectory crea un directorio vacío.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		hubOfSpace:     make(map[string]string),
		communityOfHub: make(map[string]string),
		spaceOfPost:    make(map[string]string),
		spaceOfDiscuss: make(map[string]string),
		emails:         make(map[string]string),
	}
}

// AddHub registra un hub dentro de una community.
func (d *MemoryDirectory) AddHub(hubID, communityID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.communityOfHub[hubID] = communityID
}

// AddSpace registra un space dentro de un hub.
func (d *MemoryDirectory) AddSpace(spaceID, hubID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hubOfSpace[spaceID] = hubID
}

// AddPost registra un post dentro de un space.
func (d *MemoryDirectory) AddPost(postID, spaceID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.spaceOfPost[postID] = spaceID
}

// AddDiscussion registra una discussion dentro de un space.
func (d *MemoryDirectory) AddDiscussion(discussionID, spaceID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.spaceOfDiscuss[discussionID] = spaceID
}

// AddUser registra el email de un usuario.
func (d *MemoryDirectory) AddUser(userID, email string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.emails[userID] = email
}

func (d *MemoryDirectory) lookup(m map[string]string, key string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := m[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return v, nil
}

func (d *MemoryDirectory) HubOfSpace(ctx context.Context, spaceID string) (string, error) {
	return d.lookup(d.hubOfSpace, spaceID)
}

func (d *MemoryDirectory) CommunityOfHub(ctx context.Context, hubID string) (string, error) {
	return d.lookup(d.communityOfHub, hubID)
}

func (d *MemoryDirectory) HubsOfCommunity(ctx context.Context, communityID string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []string
	for hub, community := range d.communityOfHub {
		if community == communityID {
			out = append(out, hub)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (d *MemoryDirectory) SpacesOfHub(ctx context.Context, hubID string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []string
	for space, hub := range d.hubOfSpace {
		if hub == hubID {
			out = append(out, space)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (d *MemoryDirectory) SpaceOfPost(ctx context.Context, postID string) (string, error) {
	return d.lookup(d.spaceOfPost, postID)
}

func (d *MemoryDirectory) SpaceOfDiscussion(ctx context.Context, discussionID string) (string, error) {
	return d.lookup(d.spaceOfDiscuss, discussionID)
}

func (d *MemoryDirectory) EmailOf(ctx context.Context, userID string) (string, error) {
	return d.lookup(d.emails, userID)
}
