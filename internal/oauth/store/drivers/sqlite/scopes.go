package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
)

const scopeColumns = `name, description, cc_expires_in, pass_expires_in, refresh_expires_in, refresh_eligible, created_at, updated_at`

type scopesRepo struct {
	db *sql.DB
}

func (r *scopesRepo) FindScope(ctx context.Context, name string) (domain.Scope, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+scopeColumns+` FROM scopes WHERE name = ?`, name)
	sc, err := scanScope(row)
	if err != nil {
		return domain.Scope{}, mapNotFound(err)
	}
	return sc, nil
}

func (r *scopesRepo) GetAllScopes(ctx context.Context) ([]domain.Scope, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+scopeColumns+` FROM scopes ORDER BY name`)
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
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scopes (`+scopeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.Name, sc.Description,
		toSeconds(sc.CCExpiresIn), toSeconds(sc.PassExpiresIn), toSeconds(sc.RefreshExpiresIn),
		boolToInt(sc.RefreshEligible), toMillis(sc.CreatedAt), toMillis(sc.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *scopesRepo) UpdateScope(ctx context.Context, sc domain.Scope) error {
	return requireAffected(r.db.ExecContext(ctx, `
		UPDATE scopes
		SET description = ?, cc_expires_in = ?, pass_expires_in = ?, refresh_expires_in = ?,
		    refresh_eligible = ?, updated_at = ?
		WHERE name = ?`,
		sc.Description,
		toSeconds(sc.CCExpiresIn), toSeconds(sc.PassExpiresIn), toSeconds(sc.RefreshExpiresIn),
		boolToInt(sc.RefreshEligible), toMillis(time.Now()), sc.Name,
	))
}

func (r *scopesRepo) DeleteScope(ctx context.Context, name string) error {
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM scopes WHERE name = ?`, name))
}

func scanScope(s scanner) (domain.Scope, error) {
	var (
		sc                   domain.Scope
		cc, pass, refresh    int64
		createdAt, updatedAt int64
	)
	err := s.Scan(&sc.Name, &sc.Description, &cc, &pass, &refresh, &sc.RefreshEligible, &createdAt, &updatedAt)
	if err != nil {
		return domain.Scope{}, err
	}
	sc.CCExpiresIn = fromSeconds(cc)
	sc.PassExpiresIn = fromSeconds(pass)
	sc.RefreshExpiresIn = fromSeconds(refresh)
	sc.CreatedAt = fromMillis(createdAt)
	sc.UpdatedAt = fromMillis(updatedAt)
	return sc, nil
}
