package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
)

const refreshTokenColumns = `id, token_hash, client_id, user_id, scope, valid, issued_at, expires_at`

type refreshTokensRepo struct {
	db *sql.DB
}

func (r *refreshTokensRepo) StoreRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (`+refreshTokenColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.TokenHash, t.ClientID, t.UserID, t.Scope,
		boolToInt(t.Valid), toMillis(t.IssuedAt), toNullMillis(t.ExpiresAt),
	)
	return mapConstraint(err)
}

func (r *refreshTokensRepo) FindRefreshToken(ctx context.Context, tokenHash string) (domain.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+refreshTokenColumns+` FROM refresh_tokens WHERE token_hash = ?`, tokenHash)
	t, err := scanRefreshToken(row)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *refreshTokensRepo) ConsumeRefreshToken(ctx context.Context, tokenHash string) (domain.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE refresh_tokens SET valid = 0
		WHERE token_hash = ? AND valid = 1
		RETURNING `+refreshTokenColumns, tokenHash)
	t, err := scanRefreshToken(row)
	if err == nil {
		t.Valid = true
		return t, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.RefreshToken{}, err
	}

	if _, err := r.FindRefreshToken(ctx, tokenHash); err != nil {
		return domain.RefreshToken{}, err
	}
	return domain.RefreshToken{}, store.ErrConsumed
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at IS NOT NULL AND expires_at <= ?`, toMillis(now))
	return err
}

func scanRefreshToken(s scanner) (domain.RefreshToken, error) {
	var (
		t         domain.RefreshToken
		issuedAt  int64
		expiresAt sql.NullInt64
	)
	err := s.Scan(&t.ID, &t.TokenHash, &t.ClientID, &t.UserID, &t.Scope, &t.Valid, &issuedAt, &expiresAt)
	if err != nil {
		return domain.RefreshToken{}, err
	}
	t.IssuedAt = fromMillis(issuedAt)
	t.ExpiresAt = fromNullMillis(expiresAt)
	return t, nil
}
