package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
)

const accessTokenColumns = `id, token_hash, client_id, user_id, scope, token_type, grant_type, refresh_token_hash, valid, issued_at, expires_in`

type accessTokensRepo struct {
	pool *pgxpool.Pool
}

func (r *accessTokensRepo) StoreAccessToken(ctx context.Context, t domain.AccessToken) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO access_tokens (`+accessTokenColumns+`, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.TokenHash, t.ClientID, t.UserID, t.Scope, t.TokenType, string(t.GrantType), t.RefreshTokenHash,
		t.Valid, t.IssuedAt.UTC(), toSeconds(t.ExpiresIn), t.ExpiresAt().UTC(),
	)
	return mapConstraint(err)
}

func (r *accessTokensRepo) FindAccessToken(ctx context.Context, tokenHash string) (domain.AccessToken, error) {
	var (
		t         domain.AccessToken
		grant     string
		expiresIn int64
	)
	err := r.pool.QueryRow(ctx, `SELECT `+accessTokenColumns+` FROM access_tokens WHERE token_hash = $1`, tokenHash).
		Scan(&t.ID, &t.TokenHash, &t.ClientID, &t.UserID, &t.Scope, &t.TokenType, &grant, &t.RefreshTokenHash, &t.Valid, &t.IssuedAt, &expiresIn)
	if err != nil {
		return domain.AccessToken{}, mapNotFound(err)
	}
	t.GrantType = domain.GrantType(grant)
	t.IssuedAt = t.IssuedAt.UTC()
	t.ExpiresIn = fromSeconds(expiresIn)
	return t, nil
}

func (r *accessTokensRepo) RevokeAccessToken(ctx context.Context, tokenHash string) error {
	err := requireAffected(r.pool.Exec(ctx,
		`UPDATE access_tokens SET valid = FALSE WHERE token_hash = $1 AND valid`, tokenHash))
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if _, err := r.FindAccessToken(ctx, tokenHash); err != nil {
		return err
	}
	return store.ErrConsumed
}

func (r *accessTokensRepo) DeleteExpiredAccessTokens(ctx context.Context, now time.Time) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM access_tokens WHERE expires_at <= $1`, now.UTC())
	return err
}
