package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
)

const clientColumns = `id, secret_hash, name, description, scope, status, redirect_uri, created_at, updated_at`

type clientsRepo struct {
	db *sql.DB
}

func (r *clientsRepo) FindClientCredentials(ctx context.Context, id string) (domain.ClientApplication, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	c, err := scanClient(row)
	if err != nil {
		return domain.ClientApplication{}, mapNotFound(err)
	}
	return c, nil
}

func (r *clientsRepo) ListClients(ctx context.Context) ([]domain.ClientApplication, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY created_at DESC, id DESC`)
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
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.SecretHash, c.Name, c.Description, c.Scope, int(c.Status), c.RedirectURI,
		toMillis(c.CreatedAt), toMillis(c.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *clientsRepo) UpdateClientStatus(ctx context.Context, id string, status domain.ClientStatus) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE clients SET status = ?, updated_at = ? WHERE id = ?`,
		int(status), toMillis(time.Now()), id,
	))
}

func (r *clientsRepo) UpdateClientScope(ctx context.Context, id string, scope string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE clients SET scope = ?, updated_at = ? WHERE id = ?`,
		scope, toMillis(time.Now()), id,
	))
}

func (r *clientsRepo) UpdateClientName(ctx context.Context, id, name, description string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE clients SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		name, description, toMillis(time.Now()), id,
	))
}

func scanClient(s scanner) (domain.ClientApplication, error) {
	var (
		c                    domain.ClientApplication
		status               int
		createdAt, updatedAt int64
	)
	err := s.Scan(&c.ID, &c.SecretHash, &c.Name, &c.Description, &c.Scope, &status, &c.RedirectURI, &createdAt, &updatedAt)
	if err != nil {
		return domain.ClientApplication{}, err
	}
	c.Status = domain.ClientStatus(status)
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return c, nil
}

var _ store.Clients = (*clientsRepo)(nil)
