package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
)

const clientColumns = `id, secret_hash, name, description, scope, status, redirect_uri, created_at, updated_at`

type clientsRepo struct {
	pool *pgxpool.Pool
}

func (r *clientsRepo) FindClientCredentials(ctx context.Context, id string) (domain.ClientApplication, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	c, err := scanClient(row)
	if err != nil {
		return domain.ClientApplication{}, mapNotFound(err)
	}
	return c, nil
}

func (r *clientsRepo) ListClients(ctx context.Context) ([]domain.ClientApplication, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ClientApplication
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *clientsRepo) CreateClient(ctx context.Context, c domain.ClientApplication) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.SecretHash, c.Name, c.Description, c.Scope, int16(c.Status), c.RedirectURI,
		c.CreatedAt.UTC(), c.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *clientsRepo) UpdateClientStatus(ctx context.Context, id string, status domain.ClientStatus) error {
	return requireAffected(r.pool.Exec(ctx,
		`UPDATE clients SET status = $1, updated_at = $2 WHERE id = $3`,
		int16(status), time.Now().UTC(), id,
	))
}

func (r *clientsRepo) UpdateClientScope(ctx context.Context, id string, scope string) error {
	return requireAffected(r.pool.Exec(ctx,
		`UPDATE clients SET scope = $1, updated_at = $2 WHERE id = $3`,
		scope, time.Now().UTC(), id,
	))
}

func (r *clientsRepo) UpdateClientName(ctx context.Context, id, name, description string) error {
	return requireAffected(r.pool.Exec(ctx,
		`UPDATE clients SET name = $1, description = $2, updated_at = $3 WHERE id = $4`,
		name, description, time.Now().UTC(), id,
	))
}

func scanClient(row pgx.Row) (domain.ClientApplication, error) {
	var (
		c      domain.ClientApplication
		status int16
	)
	err := row.Scan(&c.ID, &c.SecretHash, &c.Name, &c.Description, &c.Scope, &status, &c.RedirectURI, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.ClientApplication{}, err
	}
	c.Status = domain.ClientStatus(status)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}
