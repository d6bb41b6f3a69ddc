package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store/drivers/memory"
	"github.com/aussiebroadwan/oauth20/pkg/cryptox"
)

// testHasher keeps argon2 cheap so tests stay fast.
func testHasher() *cryptox.Hasher {
	return &cryptox.Hasher{
		Params: cryptox.Params{Memory: 64, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16},
		Pepper: "test-pepper",
	}
}

type fixture struct {
	store   *memory.Store
	clients *ClientService
	scopes  *ScopeService
	tokens  *TokenService
	users   *UserService
	engine  *GrantEngine

	now time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s := memory.NewStore()
	hasher := testHasher()
	f := &fixture{
		store: s,
		now:   time.Now().UTC().Truncate(time.Second),
	}
	f.scopes = &ScopeService{Store: s}
	f.clients = &ClientService{Store: s, Hasher: hasher}
	f.users = &UserService{Store: s, Hasher: hasher}
	f.tokens = &TokenService{
		Store:      s,
		Scopes:     f.scopes,
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
		CodeTTL:    5 * time.Minute,
		Now:        func() time.Time { return f.now },
	}
	f.engine = &GrantEngine{
		Clients:             f.clients,
		Scopes:              f.scopes,
		Tokens:              f.tokens,
		Users:               f.users,
		RotateRefreshTokens: true,
		StoreTimeout:        time.Second,
	}

	f.createScope(t, domain.Scope{Name: "basic", Description: "basic access"})
	f.createScope(t, domain.Scope{Name: "extended", Description: "extended access"})
	return f
}

func (f *fixture) createScope(t *testing.T, sc domain.Scope) {
	t.Helper()
	_, err := f.scopes.CreateScope(context.Background(), sc)
	require.NoError(t, err)
}

func (f *fixture) registerClient(t *testing.T, scope string) (domain.ClientApplication, string) {
	t.Helper()
	client, secret, err := f.clients.RegisterClient(context.Background(), RegisterClientParams{
		Name:        "test client",
		Scope:       scope,
		RedirectURI: "https://client.example.com/callback",
	})
	require.NoError(t, err)
	return client, secret
}

func (f *fixture) issueCode(t *testing.T, client domain.ClientApplication, scope string) string {
	t.Helper()
	grant, err := f.tokens.IssueAuthorizationCode(context.Background(), domain.AuthorizationRequest{
		ResponseType: "code",
		ClientID:     client.ID,
		Scope:        scope,
		State:        "xyz",
		UserID:       "user-1",
	})
	require.NoError(t, err)
	return grant.Code
}

// trapStore panics on any access. Used to prove a code path never reaches
// storage.
type trapStore struct {
	store.Store
}

// slowStore blocks client lookups until the context is done.
type slowStore struct {
	store.Store
}

func (s slowStore) Clients() store.Clients { return slowClients{s.Store.Clients()} }

type slowClients struct {
	store.Clients
}

func (slowClients) FindClientCredentials(ctx context.Context, _ string) (domain.ClientApplication, error) {
	<-ctx.Done()
	return domain.ClientApplication{}, ctx.Err()
}
