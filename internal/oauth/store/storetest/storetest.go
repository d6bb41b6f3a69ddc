// Package storetest is the behavioural test suite every store backend must
// pass. Backends call Run from their own _test.go with a constructor.
package storetest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
	"github.com/aussiebroadwan/oauth20/pkg/cryptox"
	"github.com/aussiebroadwan/oauth20/pkg/idx"
)

// Factory returns a fresh, migrated, empty store.
type Factory func(t *testing.T) store.Store

func Run(t *testing.T, newStore Factory) {
	t.Run("Clients", func(t *testing.T) { testClients(t, newStore(t)) })
	t.Run("Scopes", func(t *testing.T) { testScopes(t, newStore(t)) })
	t.Run("AuthorizationCodes", func(t *testing.T) { testAuthorizationCodes(t, newStore(t)) })
	t.Run("AuthorizationCodeConcurrentConsume", func(t *testing.T) { testConcurrentCodeConsume(t, newStore(t)) })
	t.Run("AccessTokens", func(t *testing.T) { testAccessTokens(t, newStore(t)) })
	t.Run("RefreshTokens", func(t *testing.T) { testRefreshTokens(t, newStore(t)) })
	t.Run("RefreshTokenConcurrentConsume", func(t *testing.T) { testConcurrentRefreshConsume(t, newStore(t)) })
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Ping", func(t *testing.T) { require.NoError(t, newStore(t).Ping(context.Background())) })
}

// now is truncated to the millisecond, the coarsest precision any backend keeps.
func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

func NewClient() domain.ClientApplication {
	ts := now()
	return domain.ClientApplication{
		ID:          idx.New(),
		SecretHash:  "$argon2id$v=19$m=64,t=1,p=1$" + gofakeit.LetterN(22) + "$" + gofakeit.LetterN(43),
		Name:        gofakeit.Company(),
		Description: gofakeit.Sentence(6),
		Scope:       "basic,extended",
		Status:      domain.ClientActive,
		RedirectURI: gofakeit.URL(),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

func NewScope(name string) domain.Scope {
	ts := now()
	return domain.Scope{
		Name:             name,
		Description:      gofakeit.Sentence(4),
		CCExpiresIn:      time.Duration(gofakeit.Number(60, 3600)) * time.Second,
		PassExpiresIn:    time.Duration(gofakeit.Number(60, 3600)) * time.Second,
		RefreshExpiresIn: time.Duration(gofakeit.Number(3600, 86400)) * time.Second,
		RefreshEligible:  gofakeit.Bool(),
		CreatedAt:        ts,
		UpdatedAt:        ts,
	}
}

func newCode(clientID string, ttl time.Duration) (string, domain.AuthorizationCode) {
	raw, _ := cryptox.GenerateToken(cryptox.TokenSize256)
	ts := now()
	return raw, domain.AuthorizationCode{
		ID:          idx.New(),
		CodeHash:    cryptox.FingerprintToken(raw),
		ClientID:    clientID,
		UserID:      idx.New(),
		RedirectURI: gofakeit.URL(),
		Scope:       "basic",
		State:       gofakeit.LetterN(12),
		Valid:       true,
		CreatedAt:   ts,
		ExpiresAt:   ts.Add(ttl),
	}
}

func newAccessToken(clientID string, issuedAt time.Time, ttl time.Duration) domain.AccessToken {
	raw, _ := cryptox.GenerateToken(cryptox.TokenSize256)
	return domain.AccessToken{
		ID:        idx.New(),
		Token:     raw,
		TokenHash: cryptox.FingerprintToken(raw),
		ClientID:  clientID,
		Scope:     "basic",
		TokenType: domain.TokenTypeBearer,
		GrantType: domain.GrantClientCredentials,
		Valid:     true,
		IssuedAt:  issuedAt,
		ExpiresIn: ttl,
	}
}

func newRefreshToken(clientID string, expiresAt time.Time) domain.RefreshToken {
	raw, _ := cryptox.GenerateToken(cryptox.TokenSize256)
	return domain.RefreshToken{
		ID:        idx.New(),
		Token:     raw,
		TokenHash: cryptox.FingerprintToken(raw),
		ClientID:  clientID,
		UserID:    idx.New(),
		Scope:     "basic,extended",
		Valid:     true,
		IssuedAt:  now(),
		ExpiresAt: expiresAt,
	}
}

func testClients(t *testing.T, s store.Store) {
	ctx := context.Background()
	repo := s.Clients()

	_, err := repo.FindClientCredentials(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	older := NewClient()
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	older.UpdatedAt = older.CreatedAt
	newer := NewClient()
	require.NoError(t, repo.CreateClient(ctx, older))
	require.NoError(t, repo.CreateClient(ctx, newer))
	require.ErrorIs(t, repo.CreateClient(ctx, older), store.ErrAlreadyExists)

	got, err := repo.FindClientCredentials(ctx, older.ID)
	require.NoError(t, err)
	require.Equal(t, older, got)

	list, err := repo.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, newer.ID, list[0].ID)
	require.Equal(t, older.ID, list[1].ID)

	require.NoError(t, repo.UpdateClientStatus(ctx, older.ID, domain.ClientInactive))
	require.NoError(t, repo.UpdateClientScope(ctx, older.ID, "basic"))
	require.NoError(t, repo.UpdateClientName(ctx, older.ID, "renamed", "new description"))

	got, err = repo.FindClientCredentials(ctx, older.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ClientInactive, got.Status)
	require.Equal(t, "basic", got.Scope)
	require.Equal(t, "renamed", got.Name)
	require.Equal(t, "new description", got.Description)
	require.False(t, got.UpdatedAt.Before(older.UpdatedAt))

	require.ErrorIs(t, repo.UpdateClientStatus(ctx, "missing", domain.ClientActive), store.ErrNotFound)
	require.ErrorIs(t, repo.UpdateClientScope(ctx, "missing", "basic"), store.ErrNotFound)
	require.ErrorIs(t, repo.UpdateClientName(ctx, "missing", "x", ""), store.ErrNotFound)
}

func testScopes(t *testing.T, s store.Store) {
	ctx := context.Background()
	repo := s.Scopes()

	_, err := repo.FindScope(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	extended := NewScope("extended")
	basic := NewScope("basic")
	basic.CCExpiresIn = 0
	require.NoError(t, repo.CreateScope(ctx, extended))
	require.NoError(t, repo.CreateScope(ctx, basic))
	require.ErrorIs(t, repo.CreateScope(ctx, basic), store.ErrAlreadyExists)

	got, err := repo.FindScope(ctx, "basic")
	require.NoError(t, err)
	require.Equal(t, basic, got)

	all, err := repo.GetAllScopes(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "basic", all[0].Name)
	require.Equal(t, "extended", all[1].Name)

	basic.Description = "updated"
	basic.PassExpiresIn = 42 * time.Second
	basic.RefreshEligible = !basic.RefreshEligible
	require.NoError(t, repo.UpdateScope(ctx, basic))
	got, err = repo.FindScope(ctx, "basic")
	require.NoError(t, err)
	require.Equal(t, "updated", got.Description)
	require.Equal(t, 42*time.Second, got.PassExpiresIn)
	require.Equal(t, basic.RefreshEligible, got.RefreshEligible)

	require.ErrorIs(t, repo.UpdateScope(ctx, NewScope("missing")), store.ErrNotFound)

	require.NoError(t, repo.DeleteScope(ctx, "extended"))
	require.ErrorIs(t, repo.DeleteScope(ctx, "extended"), store.ErrNotFound)
	_, err = repo.FindScope(ctx, "extended")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testAuthorizationCodes(t *testing.T, s store.Store) {
	ctx := context.Background()
	repo := s.AuthorizationCodes()

	_, code := newCode(idx.New(), 10*time.Minute)
	require.NoError(t, repo.CreateAuthorizationCode(ctx, code))

	got, err := repo.FindAuthorizationCode(ctx, code.CodeHash)
	require.NoError(t, err)
	require.Equal(t, code, got)

	consumed, err := repo.ConsumeAuthorizationCode(ctx, code.CodeHash)
	require.NoError(t, err)
	require.Equal(t, code, consumed)
	require.True(t, consumed.Valid)

	_, err = repo.ConsumeAuthorizationCode(ctx, code.CodeHash)
	require.ErrorIs(t, err, store.ErrConsumed)

	got, err = repo.FindAuthorizationCode(ctx, code.CodeHash)
	require.NoError(t, err)
	require.False(t, got.Valid)

	_, err = repo.ConsumeAuthorizationCode(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = repo.FindAuthorizationCode(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, expired := newCode(idx.New(), -time.Minute)
	require.NoError(t, repo.CreateAuthorizationCode(ctx, expired))
	require.NoError(t, repo.DeleteExpiredAuthorizationCodes(ctx, now()))

	_, err = repo.FindAuthorizationCode(ctx, expired.CodeHash)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = repo.FindAuthorizationCode(ctx, code.CodeHash)
	require.NoError(t, err)
}

func testConcurrentCodeConsume(t *testing.T, s store.Store) {
	ctx := context.Background()
	repo := s.AuthorizationCodes()

	_, code := newCode(idx.New(), 10*time.Minute)
	require.NoError(t, repo.CreateAuthorizationCode(ctx, code))

	const workers = 16
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		consumed  atomic.Int32
	)
	start := make(chan struct{})
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := repo.ConsumeAuthorizationCode(ctx, code.CodeHash)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, store.ErrConsumed):
				consumed.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.EqualValues(t, 1, successes.Load())
	require.EqualValues(t, workers-1, consumed.Load())
}

func testAccessTokens(t *testing.T, s store.Store) {
	ctx := context.Background()
	repo := s.AccessTokens()

	tok := newAccessToken(idx.New(), now(), time.Hour)
	require.NoError(t, repo.StoreAccessToken(ctx, tok))
	require.ErrorIs(t, repo.StoreAccessToken(ctx, tok), store.ErrAlreadyExists)

	got, err := repo.FindAccessToken(ctx, tok.TokenHash)
	require.NoError(t, err)
	want := tok
	want.Token = ""
	require.Equal(t, want, got)

	require.NoError(t, repo.RevokeAccessToken(ctx, tok.TokenHash))
	require.ErrorIs(t, repo.RevokeAccessToken(ctx, tok.TokenHash), store.ErrConsumed)
	require.ErrorIs(t, repo.RevokeAccessToken(ctx, "missing"), store.ErrNotFound)

	got, err = repo.FindAccessToken(ctx, tok.TokenHash)
	require.NoError(t, err)
	require.False(t, got.Valid)

	old := newAccessToken(idx.New(), now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, repo.StoreAccessToken(ctx, old))
	require.NoError(t, repo.DeleteExpiredAccessTokens(ctx, now()))

	_, err = repo.FindAccessToken(ctx, old.TokenHash)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = repo.FindAccessToken(ctx, tok.TokenHash)
	require.NoError(t, err)
}

func testRefreshTokens(t *testing.T, s store.Store) {
	ctx := context.Background()
	repo := s.RefreshTokens()

	tok := newRefreshToken(idx.New(), now().Add(time.Hour))
	forever := newRefreshToken(idx.New(), time.Time{})
	expired := newRefreshToken(idx.New(), now().Add(-time.Minute))
	for _, rt := range []domain.RefreshToken{tok, forever, expired} {
		require.NoError(t, repo.StoreRefreshToken(ctx, rt))
	}

	got, err := repo.FindRefreshToken(ctx, tok.TokenHash)
	require.NoError(t, err)
	want := tok
	want.Token = ""
	require.Equal(t, want, got)

	got, err = repo.FindRefreshToken(ctx, forever.TokenHash)
	require.NoError(t, err)
	require.True(t, got.ExpiresAt.IsZero())

	prev, err := repo.ConsumeRefreshToken(ctx, tok.TokenHash)
	require.NoError(t, err)
	require.True(t, prev.Valid)
	require.Equal(t, tok.Scope, prev.Scope)

	_, err = repo.ConsumeRefreshToken(ctx, tok.TokenHash)
	require.ErrorIs(t, err, store.ErrConsumed)
	_, err = repo.ConsumeRefreshToken(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, repo.DeleteExpiredRefreshTokens(ctx, now()))
	_, err = repo.FindRefreshToken(ctx, expired.TokenHash)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = repo.FindRefreshToken(ctx, forever.TokenHash)
	require.NoError(t, err)
	_, err = repo.FindRefreshToken(ctx, tok.TokenHash)
	require.NoError(t, err)
}

func testConcurrentRefreshConsume(t *testing.T, s store.Store) {
	ctx := context.Background()
	repo := s.RefreshTokens()

	tok := newRefreshToken(idx.New(), now().Add(time.Hour))
	require.NoError(t, repo.StoreRefreshToken(ctx, tok))

	const workers = 16
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)
	start := make(chan struct{})
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := repo.ConsumeRefreshToken(ctx, tok.TokenHash); err == nil {
				successes.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.EqualValues(t, 1, successes.Load())
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	repo := s.Users()

	ts := now()
	u := domain.User{
		ID:           idx.New(),
		Username:     gofakeit.Username(),
		PasswordHash: "$argon2id$v=19$m=64,t=1,p=1$c2FsdA$aGFzaA",
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	require.NoError(t, repo.CreateUser(ctx, u))
	require.ErrorIs(t, repo.CreateUser(ctx, u), store.ErrAlreadyExists)

	got, err := repo.FindUserByUsername(ctx, u.Username)
	require.NoError(t, err)
	require.Equal(t, u, got)

	_, err = repo.FindUserByUsername(ctx, "nobody-"+gofakeit.LetterN(8))
	require.ErrorIs(t, err, store.ErrNotFound)
}
