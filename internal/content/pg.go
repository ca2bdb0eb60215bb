package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/aegis/internal/domain/repository"
)

// PGDirectory resuelve la jerarquía de contenido contra las tablas del
// servicio de contenido (space/hub/post/discussion/app_user). Solo lee;
// el motor nunca escribe en ese esquema.
type PGDirectory struct {
	pool *pgxpool.Pool
}

// NewPGDirectory crea un directorio sobre un pool existente.
func NewPGDirectory(pool *pgxpool.Pool) *PGDirectory {
	return &PGDirectory{pool: pool}
}

func (d *PGDirectory) one(ctx context.Context, op, query, id string) (string, error) {
	var out string
	err := d.pool.QueryRow(ctx, query, id).Scan(&out)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: content: %s: %v", repository.ErrStorage, op, err)
	}
	return out, nil
}

func (d *PGDirectory) many(ctx context.Context, op, query, id string) ([]string, error) {
	rows, err := d.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("%w: content: %s: %v", repository.ErrStorage, op, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("%w: content: %s: %v", repository.ErrStorage, op, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (d *PGDirectory) HubOfSpace(ctx context.Context, spaceID string) (string, error) {
	return d.one(ctx, "hub of space", `SELECT hub_id FROM space WHERE id = $1`, spaceID)
}

func (d *PGDirectory) CommunityOfHub(ctx context.Context, hubID string) (string, error) {
	return d.one(ctx, "community of hub", `SELECT community_id FROM hub WHERE id = $1`, hubID)
}

func (d *PGDirectory) HubsOfCommunity(ctx context.Context, communityID string) ([]string, error) {
	return d.many(ctx, "hubs of community", `SELECT id FROM hub WHERE community_id = $1 ORDER BY id`, communityID)
}

func (d *PGDirectory) SpacesOfHub(ctx context.Context, hubID string) ([]string, error) {
	return d.many(ctx, "spaces of hub", `SELECT id FROM space WHERE hub_id = $1 ORDER BY id`, hubID)
}

func (d *PGDirectory) SpaceOfPost(ctx context.Context, postID string) (string, error) {
	return d.one(ctx, "space of post", `SELECT space_id FROM post WHERE id = $1`, postID)
}

func (d *PGDirectory) SpaceOfDiscussion(ctx context.Context, discussionID string) (string, error) {
	return d.one(ctx, "space of discussion", `SELECT space_id FROM discussion WHERE id = $1`, discussionID)
}

func (d *PGDirectory) EmailOf(ctx context.Context, userID string) (string, error) {
	return d.one(ctx, "email of user", `SELECT email FROM app_user WHERE id = $1 AND email IS NOT NULL`, userID)
}
