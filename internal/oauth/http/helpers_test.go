package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/oauth20/internal/oauth/service"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store/drivers/memory"
	"github.com/aussiebroadwan/oauth20/pkg/cryptox"
	"github.com/aussiebroadwan/oauth20/pkg/oauthsdk"
	"github.com/aussiebroadwan/oauth20/pkg/slogx"
)

const (
	adminToken  = "admin-token"
	redirectURI = "https://client.example.com/callback"
)

type testServer struct {
	URL   string
	SDK   *oauthsdk.SDKClient
	Store *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st := memory.NewStore()
	hasher := &cryptox.Hasher{
		Params: cryptox.Params{Memory: 64, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16},
		Pepper: "test-pepper",
	}

	scopes := &service.ScopeService{Store: st}
	clients := &service.ClientService{Store: st, Hasher: hasher}
	users := &service.UserService{Store: st, Hasher: hasher}
	tokens := &service.TokenService{
		Store:      st,
		Scopes:     scopes,
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
		CodeTTL:    time.Minute,
	}

	router := NewRouter("test", adminToken, st, slogx.Discard())
	router.ClientService = clients
	router.ScopeService = scopes
	router.TokenService = tokens
	router.UserService = users
	router.GrantEngine = &service.GrantEngine{
		Clients:             clients,
		Scopes:              scopes,
		Tokens:              tokens,
		Users:               users,
		RotateRefreshTokens: true,
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	sdk := oauthsdk.NewSDKClient(srv.URL)
	sdk.AdminToken = adminToken

	ctx := context.Background()
	for _, name := range []string{"basic", "extended"} {
		_, err := sdk.CreateScope(ctx, oauthsdk.ScopeInfo{Name: name, Description: name + " access"})
		require.NoError(t, err)
	}

	return &testServer{URL: srv.URL, SDK: sdk, Store: st}
}

func (s *testServer) registerClient(t *testing.T, scope string) *oauthsdk.RegisterClientResponse {
	t.Helper()
	reg, err := s.SDK.RegisterClient(context.Background(), oauthsdk.RegisterClientRequest{
		Name:        "e2e client",
		Scope:       scope,
		RedirectURI: redirectURI,
	})
	require.NoError(t, err)
	require.NotEmpty(t, reg.ClientSecret)
	return reg
}
