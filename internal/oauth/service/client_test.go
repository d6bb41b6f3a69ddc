package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/pkg/cryptox"
	"github.com/aussiebroadwan/oauth20/pkg/idx"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	client, secret := f.registerClient(t, "basic,extended")

	t.Run("valid credentials", func(t *testing.T) {
		got, err := f.clients.Authenticate(ctx, client.ID, secret)
		require.NoError(t, err)
		require.Equal(t, client.ID, got.ID)
	})

	t.Run("unknown client", func(t *testing.T) {
		_, err := f.clients.Authenticate(ctx, idx.New(), secret)
		require.ErrorIs(t, err, ErrInvalidClient)

		require.ErrorIs(t, f.clients.Hasher.Verify(secret, f.clients.decoyHash()), cryptox.ErrMismatch)
		require.ErrorIs(t, f.users.Hasher.Verify(secret, f.users.decoyHash()), cryptox.ErrMismatch)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := f.clients.Authenticate(ctx, client.ID, secret+"x")
		require.ErrorIs(t, err, ErrInvalidClient)
	})

	t.Run("missing secret", func(t *testing.T) {
		_, err := f.clients.Authenticate(ctx, client.ID, "")
		require.ErrorIs(t, err, ErrInvalidClient)
	})

	t.Run("inactive client", func(t *testing.T) {
		other, otherSecret := f.registerClient(t, "basic")
		status := domain.ClientInactive
		_, err := f.clients.UpdateClient(ctx, other.ID, UpdateClientParams{Status: &status})
		require.NoError(t, err)

		_, err = f.clients.Authenticate(ctx, other.ID, otherSecret)
		require.ErrorIs(t, err, ErrInvalidClient)
	})
}

func TestRegisterClient(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	client, secret := f.registerClient(t, "basic")
	require.True(t, idx.Valid(client.ID))
	require.NotEmpty(t, secret)
	require.NotContains(t, client.SecretHash, secret)
	require.Equal(t, domain.ClientActive, client.Status)

	stored, err := f.store.Clients().FindClientCredentials(ctx, client.ID)
	require.NoError(t, err)
	require.NotEqual(t, secret, stored.SecretHash)

	tests := []struct {
		name    string
		params  RegisterClientParams
		wantErr error
	}{
		{name: "missing name", params: RegisterClientParams{Scope: "basic"}, wantErr: ErrInvalidRequest},
		{name: "missing scope", params: RegisterClientParams{Name: "x"}, wantErr: ErrInvalidRequest},
		{name: "unknown scope", params: RegisterClientParams{Name: "x", Scope: "basic,pay"}, wantErr: ErrInvalidScope},
		{name: "relative redirect", params: RegisterClientParams{Name: "x", Scope: "basic", RedirectURI: "/cb"}, wantErr: ErrInvalidRequest},
		{name: "fragment redirect", params: RegisterClientParams{Name: "x", Scope: "basic", RedirectURI: "https://a.example/cb#frag"}, wantErr: ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.clients.RegisterClient(ctx, tt.params)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateClient(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	client, _ := f.registerClient(t, "basic")

	name, scope := "renamed", "basic,extended"
	got, err := f.clients.UpdateClient(ctx, client.ID, UpdateClientParams{Name: &name, Scope: &scope})
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Name)
	require.Equal(t, "basic,extended", got.Scope)
	require.Equal(t, client.Description, got.Description)

	bad := "basic,ghost"
	_, err = f.clients.UpdateClient(ctx, client.ID, UpdateClientParams{Scope: &bad})
	require.ErrorIs(t, err, ErrInvalidScope)

	_, err = f.clients.UpdateClient(ctx, "missing", UpdateClientParams{Name: &name})
	require.ErrorIs(t, err, ErrNotFound)

	list, err := f.clients.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
