package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
)

const scopeColumns = `name, description, cc_expires_in, pass_expires_in, refresh_expires_in, refresh_eligible, created_at, updated_at`

type scopesRepo struct {
	pool *pgxpool.Pool
}

func (r *scopesRepo) FindScope(ctx context.Context, name string) (domain.Scope, error) {
	sc, err := scanScope(r.pool.QueryRow(ctx, `SELECT `+scopeColumns+` FROM scopes WHERE name = $1`, name))
	if err != nil {
		return domain.Scope{}, mapNotFound(err)
	}
	return sc, nil
}

func (r *scopesRepo) GetAllScopes(ctx context.Context) ([]domain.Scope, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+scopeColumns+` FROM scopes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Scope
	for rows.Next() {
		sc, err := scanScope(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (r *scopesRepo) CreateScope(ctx context.Context, sc domain.Scope) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO scopes (`+scopeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sc.Name, sc.Description,
		toSeconds(sc.CCExpiresIn), toSeconds(sc.PassExpiresIn), toSeconds(sc.RefreshExpiresIn),
		sc.RefreshEligible, sc.CreatedAt.UTC(), sc.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *scopesRepo) UpdateScope(ctx context.Context, sc domain.Scope) error {
	return requireAffected(r.pool.Exec(ctx, `
		UPDATE scopes
		SET description = $1, cc_expires_in = $2, pass_expires_in = $3, refresh_expires_in = $4,
		    refresh_eligible = $5, updated_at = $6
		WHERE name = $7`,
		sc.Description,
		toSeconds(sc.CCExpiresIn), toSeconds(sc.PassExpiresIn), toSeconds(sc.RefreshExpiresIn),
		sc.RefreshEligible, time.Now().UTC(), sc.Name,
	))
}

func (r *scopesRepo) DeleteScope(ctx context.Context, name string) error {
	return requireAffected(r.pool.Exec(ctx, `DELETE FROM scopes WHERE name = $1`, name))
}

func scanScope(row pgx.Row) (domain.Scope, error) {
	var (
		sc                domain.Scope
		cc, pass, refresh int64
	)
	err := row.Scan(&sc.Name, &sc.Description, &cc, &pass, &refresh, &sc.RefreshEligible, &sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		return domain.Scope{}, err
	}
	sc.CCExpiresIn = fromSeconds(cc)
	sc.PassExpiresIn = fromSeconds(pass)
	sc.RefreshExpiresIn = fromSeconds(refresh)
	sc.CreatedAt = sc.CreatedAt.UTC()
	sc.UpdatedAt = sc.UpdatedAt.UTC()
	return sc, nil
}
