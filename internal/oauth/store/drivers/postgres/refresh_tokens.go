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

const refreshTokenColumns = `id, token_hash, client_id, user_id, scope, valid, issued_at, expires_at`

type refreshTokensRepo struct {
	pool *pgxpool.Pool
}

func (r *refreshTokensRepo) StoreRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO refresh_tokens (`+refreshTokenColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.TokenHash, t.ClientID, t.UserID, t.Scope, t.Valid, t.IssuedAt.UTC(), nullableTime(t.ExpiresAt),
	)
	return mapConstraint(err)
}

func (r *refreshTokensRepo) FindRefreshToken(ctx context.Context, tokenHash string) (domain.RefreshToken, error) {
	t, err := scanRefreshToken(r.pool.QueryRow(ctx, `SELECT `+refreshTokenColumns+` FROM refresh_tokens WHERE token_hash = $1`, tokenHash))
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *refreshTokensRepo) ConsumeRefreshToken(ctx context.Context, tokenHash string) (domain.RefreshToken, error) {
	t, err := scanRefreshToken(r.pool.QueryRow(ctx, `
		UPDATE refresh_tokens SET valid = FALSE
		WHERE token_hash = $1 AND valid
		RETURNING `+refreshTokenColumns, tokenHash))
	if err == nil {
		t.Valid = true
		return t, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.RefreshToken{}, err
	}

	if _, err := r.FindRefreshToken(ctx, tokenHash); err != nil {
		return domain.RefreshToken{}, err
	}
	return domain.RefreshToken{}, store.ErrConsumed
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at IS NOT NULL AND expires_at <= $1`, now.UTC())
	return err
}

func scanRefreshToken(row pgx.Row) (domain.RefreshToken, error) {
	var (
		t         domain.RefreshToken
		expiresAt *time.Time
	)
	err := row.Scan(&t.ID, &t.TokenHash, &t.ClientID, &t.UserID, &t.Scope, &t.Valid, &t.IssuedAt, &expiresAt)
	if err != nil {
		return domain.RefreshToken{}, err
	}
	t.IssuedAt = t.IssuedAt.UTC()
	t.ExpiresAt = fromNullableTime(expiresAt)
	return t, nil
}
