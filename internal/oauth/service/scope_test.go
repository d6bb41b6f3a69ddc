package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
)

func TestIsScopeAllowed(t *testing.T) {
	t.Parallel()

	require.True(t, IsScopeAllowed("basic", "basic,extended"))
	require.True(t, IsScopeAllowed("extended", "basic,extended"))
	require.False(t, IsScopeAllowed("pay", "basic,extended"))
	require.False(t, IsScopeAllowed("ext", "basic,extended"))
	require.False(t, IsScopeAllowed("Basic", "basic,extended"))
	require.False(t, IsScopeAllowed("basic,extended", "basic,extended"))
	require.False(t, IsScopeAllowed("", "basic"))
}

func TestResolveScope(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	client, _ := f.registerClient(t, "basic,extended")
	ctx := context.Background()

	tests := []struct {
		name      string
		requested string
		want      string
		wantErr   error
	}{
		{name: "absent resolves to registration", requested: "", want: "basic,extended"},
		{name: "single token", requested: "basic", want: "basic"},
		{name: "order preserved", requested: "extended,basic", want: "extended,basic"},
		{name: "foreign token", requested: "basic,pay", wantErr: ErrInvalidScope},
		{name: "substring is not a match", requested: "ext", wantErr: ErrInvalidScope},
		{name: "case sensitive", requested: "BASIC", wantErr: ErrInvalidScope},
		{name: "no trimming", requested: "basic, extended", wantErr: ErrInvalidScope},
		{name: "empty token", requested: "basic,", wantErr: ErrInvalidScope},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.scopes.ResolveScope(ctx, tt.requested, client.ID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown client", func(t *testing.T) {
		_, err := f.scopes.ResolveScope(ctx, "basic", "missing")
		require.ErrorIs(t, err, ErrInvalidClient)
	})
}

func TestResolveClientScopeSubsets(t *testing.T) {
	t.Parallel()
	faker := gofakeit.New(42)

	for i := 0; i < 50; i++ {
		registered := make([]string, 0, 6)
		seen := map[string]bool{}
		for len(registered) < 6 {
			w := strings.ToLower(faker.LetterN(uint(faker.Number(3, 10))))
			if !seen[w] {
				seen[w] = true
				registered = append(registered, w)
			}
		}
		client := domain.ClientApplication{Scope: strings.Join(registered, ScopeSeparator)}

		subset := append([]string(nil), registered...)
		faker.ShuffleStrings(subset)
		subset = subset[:faker.Number(1, len(subset))]
		requested := strings.Join(subset, ScopeSeparator)

		got, err := ResolveClientScope(requested, client)
		require.NoError(t, err)
		require.Equal(t, requested, got)

		foreign := "zz" + registered[0] + "zz"
		_, err = ResolveClientScope(requested+ScopeSeparator+foreign, client)
		require.ErrorIs(t, err, ErrInvalidScope)
	}
}

func TestNarrowScope(t *testing.T) {
	t.Parallel()

	got, err := NarrowScope("", "basic,extended")
	require.NoError(t, err)
	require.Equal(t, "basic,extended", got)

	got, err = NarrowScope("basic", "basic,extended")
	require.NoError(t, err)
	require.Equal(t, "basic", got)

	_, err = NarrowScope("basic,extended", "basic")
	require.ErrorIs(t, err, ErrInvalidScope)
}

func TestListScopeDetails(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	client, _ := f.registerClient(t, "extended,basic")

	all, err := f.scopes.ListScopeDetails(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	mine, err := f.scopes.ListScopeDetails(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, "extended", mine[0].Name)
	require.Equal(t, "basic", mine[1].Name)

	_, err = f.scopes.ListScopeDetails(ctx, "missing")
	require.ErrorIs(t, err, ErrInvalidClient)

	t.Run("dangling scope is a server error", func(t *testing.T) {
		broken := client
		broken.ID = "broken"
		broken.Scope = "basic,ghost"
		require.NoError(t, f.store.Clients().CreateClient(ctx, broken))

		_, err := f.scopes.ListScopeDetails(ctx, "broken")
		require.ErrorIs(t, err, ErrServerError)
	})
}

func TestExpiresIn(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.createScope(t, domain.Scope{Name: "short", CCExpiresIn: 5 * time.Minute, RefreshExpiresIn: time.Hour})
	f.createScope(t, domain.Scope{Name: "long", CCExpiresIn: 10 * time.Minute, PassExpiresIn: 20 * time.Minute})

	got, err := f.scopes.ExpiresIn(ctx, "long,short", domain.GrantClientCredentials, time.Hour)
	require.NoError(t, err)
	require.Equal(t, 5*time.Minute, got)

	got, err = f.scopes.ExpiresIn(ctx, "long,short", domain.GrantPassword, time.Hour)
	require.NoError(t, err)
	require.Equal(t, 20*time.Minute, got)

	got, err = f.scopes.ExpiresIn(ctx, "basic", domain.GrantClientCredentials, time.Hour)
	require.NoError(t, err)
	require.Equal(t, time.Hour, got, "no override falls back")

	got, err = f.scopes.ExpiresIn(ctx, "ghost", domain.GrantClientCredentials, time.Hour)
	require.NoError(t, err)
	require.Equal(t, time.Hour, got, "missing scope record falls back")

	got, err = f.scopes.RefreshExpiresIn(ctx, "short,basic", 0)
	require.NoError(t, err)
	require.Equal(t, time.Hour, got)
}

func TestRefreshEligible(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	f.createScope(t, domain.Scope{Name: "offline", RefreshEligible: true})
	f.createScope(t, domain.Scope{Name: "sync", RefreshEligible: true})

	ok, err := f.scopes.RefreshEligible(ctx, "offline,sync")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = f.scopes.RefreshEligible(ctx, "offline,basic")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = f.scopes.RefreshEligible(ctx, "offline,ghost")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestScopeAdministration(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.scopes.CreateScope(ctx, domain.Scope{Name: "basic"})
	require.ErrorIs(t, err, ErrConflict)

	for _, name := range []string{"", "a,b", "a b"} {
		_, err := f.scopes.CreateScope(ctx, domain.Scope{Name: name})
		require.ErrorIs(t, err, ErrInvalidRequest, name)
	}
	_, err = f.scopes.CreateScope(ctx, domain.Scope{Name: "neg", CCExpiresIn: -time.Second})
	require.ErrorIs(t, err, ErrInvalidRequest)

	updated, err := f.scopes.UpdateScope(ctx, domain.Scope{Name: "basic", Description: "changed", PassExpiresIn: time.Minute})
	require.NoError(t, err)
	require.Equal(t, "changed", updated.Description)
	require.Equal(t, time.Minute, updated.PassExpiresIn)

	_, err = f.scopes.UpdateScope(ctx, domain.Scope{Name: "ghost"})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.scopes.DeleteScope(ctx, "extended"))
	require.ErrorIs(t, f.scopes.DeleteScope(ctx, "extended"), ErrNotFound)

	_, err = f.scopes.GetScope(ctx, "extended")
	require.ErrorIs(t, err, ErrNotFound)
}
