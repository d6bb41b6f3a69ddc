package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
)

const accessTokenColumns = `id, token_hash, client_id, user_id, scope, token_type, grant_type, refresh_token_hash, valid, issued_at, expires_in`

type accessTokensRepo struct {
	db *sql.DB
}

func (r *accessTokensRepo) StoreAccessToken(ctx context.Context, t domain.AccessToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO access_tokens (`+accessTokenColumns+`, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.TokenHash, t.ClientID, t.UserID, t.Scope, t.TokenType, string(t.GrantType), t.RefreshTokenHash,
		boolToInt(t.Valid), toMillis(t.IssuedAt), toSeconds(t.ExpiresIn), toMillis(t.ExpiresAt()),
	)
	return mapConstraint(err)
}

func (r *accessTokensRepo) FindAccessToken(ctx context.Context, tokenHash string) (domain.AccessToken, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accessTokenColumns+` FROM access_tokens WHERE token_hash = ?`, tokenHash)
	var (
		t         domain.AccessToken
		grant     string
		issuedAt  int64
		expiresIn int64
	)
	err := row.Scan(&t.ID, &t.TokenHash, &t.ClientID, &t.UserID, &t.Scope, &t.TokenType, &grant, &t.RefreshTokenHash, &t.Valid, &issuedAt, &expiresIn)
	if err != nil {
		return domain.AccessToken{}, mapNotFound(err)
	}
	t.GrantType = domain.GrantType(grant)
	t.IssuedAt = fromMillis(issuedAt)
	t.ExpiresIn = fromSeconds(expiresIn)
	return t, nil
}

func (r *accessTokensRepo) RevokeAccessToken(ctx context.Context, tokenHash string) error {
	err := requireAffected(r.db.ExecContext(ctx,
		`UPDATE access_tokens SET valid = 0 WHERE token_hash = ? AND valid = 1`, tokenHash))
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if _, err := r.FindAccessToken(ctx, tokenHash); err != nil {
		return err
	}
	return store.ErrConsumed
}

func (r *accessTokensRepo) DeleteExpiredAccessTokens(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM access_tokens WHERE expires_at <= ?`, toMillis(now))
	return err
}
