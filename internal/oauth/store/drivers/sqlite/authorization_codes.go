package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
)

const codeColumns = `id, code_hash, client_id, user_id, redirect_uri, scope, state, valid, created_at, expires_at`

type authorizationCodesRepo struct {
	db *sql.DB
}

func (r *authorizationCodesRepo) CreateAuthorizationCode(ctx context.Context, code domain.AuthorizationCode) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO authorization_codes (`+codeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		code.ID, code.CodeHash, code.ClientID, code.UserID, code.RedirectURI, code.Scope, code.State,
		boolToInt(code.Valid), toMillis(code.CreatedAt), toMillis(code.ExpiresAt),
	)
	return mapConstraint(err)
}

func (r *authorizationCodesRepo) FindAuthorizationCode(ctx context.Context, codeHash string) (domain.AuthorizationCode, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+codeColumns+` FROM authorization_codes WHERE code_hash = ?`, codeHash)
	code, err := scanCode(row)
	if err != nil {
		return domain.AuthorizationCode{}, mapNotFound(err)
	}
	return code, nil
}

// ConsumeAuthorizationCode relies on the conditional UPDATE: only the caller
// whose statement observes valid = 1 gets a row back.
func (r *authorizationCodesRepo) ConsumeAuthorizationCode(ctx context.Context, codeHash string) (domain.AuthorizationCode, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE authorization_codes SET valid = 0
		WHERE code_hash = ? AND valid = 1
		RETURNING `+codeColumns, codeHash)
	code, err := scanCode(row)
	if err == nil {
		code.Valid = true
		return code, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.AuthorizationCode{}, err
	}

	if _, err := r.FindAuthorizationCode(ctx, codeHash); err != nil {
		return domain.AuthorizationCode{}, err
	}
	return domain.AuthorizationCode{}, store.ErrConsumed
}

func (r *authorizationCodesRepo) DeleteExpiredAuthorizationCodes(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM authorization_codes WHERE expires_at <= ?`, toMillis(now))
	return err
}

func scanCode(s scanner) (domain.AuthorizationCode, error) {
	var (
		c                    domain.AuthorizationCode
		createdAt, expiresAt int64
	)
	err := s.Scan(&c.ID, &c.CodeHash, &c.ClientID, &c.UserID, &c.RedirectURI, &c.Scope, &c.State, &c.Valid, &createdAt, &expiresAt)
	if err != nil {
		return domain.AuthorizationCode{}, err
	}
	c.CreatedAt = fromMillis(createdAt)
	c.ExpiresAt = fromMillis(expiresAt)
	return c, nil
}
