package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/pkg/cryptox"
	"github.com/aussiebroadwan/oauth20/pkg/slogx"
)

func TestHousekeepingCleanup(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	client, _ := f.registerClient(t, "basic")

	code := f.issueCode(t, client, "")
	pair, err := f.tokens.IssueTokenPair(ctx, client, "basic", domain.GrantPassword, "u")
	require.NoError(t, err)

	hk := NewHousekeepingService(f.store, slogx.Discard(), time.Minute)
	hk.Now = func() time.Time { return f.now.Add(48 * time.Hour) }
	require.Equal(t, 3, hk.Cleanup(ctx))

	_, err = f.store.AuthorizationCodes().FindAuthorizationCode(ctx, cryptox.FingerprintToken(code))
	require.Error(t, err)
	_, err = f.store.AccessTokens().FindAccessToken(ctx, cryptox.FingerprintToken(pair.AccessToken))
	require.Error(t, err)
	_, err = f.store.RefreshTokens().FindRefreshToken(ctx, cryptox.FingerprintToken(pair.RefreshToken))
	require.Error(t, err)
}

func TestHousekeepingStartStop(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	hk := NewHousekeepingService(f.store, slogx.Discard(), 0)
	require.Equal(t, time.Hour, hk.Interval)

	hk.Start()
	hk.Stop()
}
