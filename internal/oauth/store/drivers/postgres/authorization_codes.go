package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
)

const codeColumns = `id, code_hash, client_id, user_id, redirect_uri, scope, state, valid, created_at, expires_at`

type authorizationCodesRepo struct {
	pool *pgxpool.Pool
}

func (r *authorizationCodesRepo) CreateAuthorizationCode(ctx context.Context, code domain.AuthorizationCode) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO authorization_codes (`+codeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		code.ID, code.CodeHash, code.ClientID, code.UserID, code.RedirectURI, code.Scope, code.State,
		code.Valid, code.CreatedAt.UTC(), code.ExpiresAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *authorizationCodesRepo) FindAuthorizationCode(ctx context.Context, codeHash string) (domain.AuthorizationCode, error) {
	code, err := scanCode(r.pool.QueryRow(ctx, `SELECT `+codeColumns+` FROM authorization_codes WHERE code_hash = $1`, codeHash))
	if err != nil {
		return domain.AuthorizationCode{}, mapNotFound(err)
	}
	return code, nil
}

// ConsumeAuthorizationCode relies on row locking: concurrent updates of the
// same row serialize and re-check "valid" once the winner commits.
func (r *authorizationCodesRepo) ConsumeAuthorizationCode(ctx context.Context, codeHash string) (domain.AuthorizationCode, error) {
	code, err := scanCode(r.pool.QueryRow(ctx, `
		UPDATE authorization_codes SET valid = FALSE
		WHERE code_hash = $1 AND valid
		RETURNING `+codeColumns, codeHash))
	if err == nil {
		code.Valid = true
		return code, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.AuthorizationCode{}, err
	}

	if _, err := r.FindAuthorizationCode(ctx, codeHash); err != nil {
		return domain.AuthorizationCode{}, err
	}
	return domain.AuthorizationCode{}, store.ErrConsumed
}

func (r *authorizationCodesRepo) DeleteExpiredAuthorizationCodes(ctx context.Context, now time.Time) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM authorization_codes WHERE expires_at <= $1`, now.UTC())
	return err
}

func scanCode(row pgx.Row) (domain.AuthorizationCode, error) {
	var c domain.AuthorizationCode
	err := row.Scan(&c.ID, &c.CodeHash, &c.ClientID, &c.UserID, &c.RedirectURI, &c.Scope, &c.State, &c.Valid, &c.CreatedAt, &c.ExpiresAt)
	if err != nil {
		return domain.AuthorizationCode{}, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.ExpiresAt = c.ExpiresAt.UTC()
	return c, nil
}
