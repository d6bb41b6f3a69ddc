// Package memory is an in-process store backend. It is used by tests and by
// single-node development deployments where durability does not matter.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
)

// Store keeps every record in maps guarded by a single mutex. Consume
// operations check and flip the validity flag under the write lock, which is
// what makes them single-use across goroutines.
type Store struct {
	mu sync.RWMutex

	clients       map[string]domain.ClientApplication
	scopes        map[string]domain.Scope
	codes         map[string]domain.AuthorizationCode // by code hash
	accessTokens  map[string]domain.AccessToken       // by token hash
	refreshTokens map[string]domain.RefreshToken      // by token hash
	users         map[string]domain.User              // by username
}

var _ store.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		clients:       make(map[string]domain.ClientApplication),
		scopes:        make(map[string]domain.Scope),
		codes:         make(map[string]domain.AuthorizationCode),
		accessTokens:  make(map[string]domain.AccessToken),
		refreshTokens: make(map[string]domain.RefreshToken),
		users:         make(map[string]domain.User),
	}
}

func (s *Store) Clients() store.Clients                       { return (*clientsRepo)(s) }
func (s *Store) Scopes() store.Scopes                         { return (*scopesRepo)(s) }
func (s *Store) AuthorizationCodes() store.AuthorizationCodes { return (*authorizationCodesRepo)(s) }
func (s *Store) AccessTokens() store.AccessTokens             { return (*accessTokensRepo)(s) }
func (s *Store) RefreshTokens() store.RefreshTokens           { return (*refreshTokensRepo)(s) }
func (s *Store) Users() store.Users                           { return (*usersRepo)(s) }

func (s *Store) ApplyMigrations(context.Context) error { return nil }
func (s *Store) Ping(ctx context.Context) error         { return ctx.Err() }
func (s *Store) Close() error                           { return nil }

// clients

type clientsRepo Store

func (r *clientsRepo) FindClientCredentials(ctx context.Context, id string) (domain.ClientApplication, error) {
	if err := ctx.Err(); err != nil {
		return domain.ClientApplication{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	if !ok {
		return domain.ClientApplication{}, store.ErrNotFound
	}
	return c, nil
}

func (r *clientsRepo) ListClients(ctx context.Context) ([]domain.ClientApplication, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]domain.ClientApplication, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *clientsRepo) CreateClient(ctx context.Context, c domain.ClientApplication) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c.ID]; ok {
		return store.ErrAlreadyExists
	}
	r.clients[c.ID] = c
	return nil
}

func (r *clientsRepo) update(ctx context.Context, id string, fn func(*domain.ClientApplication)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return store.ErrNotFound
	}
	fn(&c)
	c.UpdatedAt = time.Now().UTC()
	r.clients[id] = c
	return nil
}

func (r *clientsRepo) UpdateClientStatus(ctx context.Context, id string, status domain.ClientStatus) error {
	return r.update(ctx, id, func(c *domain.ClientApplication) { c.Status = status })
}

func (r *clientsRepo) UpdateClientScope(ctx context.Context, id string, scope string) error {
	return r.update(ctx, id, func(c *domain.ClientApplication) { c.Scope = scope })
}

func (r *clientsRepo) UpdateClientName(ctx context.Context, id, name, description string) error {
	return r.update(ctx, id, func(c *domain.ClientApplication) {
		c.Name = name
		c.Description = description
	})
}

// scopes

type scopesRepo Store

func (r *scopesRepo) FindScope(ctx context.Context, name string) (domain.Scope, error) {
	if err := ctx.Err(); err != nil {
		return domain.Scope{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	sc, ok := r.scopes[name]
	if !ok {
		return domain.Scope{}, store.ErrNotFound
	}
	return sc, nil
}

func (r *scopesRepo) GetAllScopes(ctx context.Context) ([]domain.Scope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]domain.Scope, 0, len(r.scopes))
	for _, sc := range r.scopes {
		out = append(out, sc)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *scopesRepo) CreateScope(ctx context.Context, sc domain.Scope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scopes[sc.Name]; ok {
		return store.ErrAlreadyExists
	}
	r.scopes[sc.Name] = sc
	return nil
}

func (r *scopesRepo) UpdateScope(ctx context.Context, sc domain.Scope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.scopes[sc.Name]
	if !ok {
		return store.ErrNotFound
	}
	cur.Description = sc.Description
	cur.CCExpiresIn = sc.CCExpiresIn
	cur.PassExpiresIn = sc.PassExpiresIn
	cur.RefreshExpiresIn = sc.RefreshExpiresIn
	cur.RefreshEligible = sc.RefreshEligible
	cur.UpdatedAt = time.Now().UTC()
	r.scopes[sc.Name] = cur
	return nil
}

func (r *scopesRepo) DeleteScope(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scopes[name]; !ok {
		return store.ErrNotFound
	}
	delete(r.scopes, name)
	return nil
}

// authorization codes

type authorizationCodesRepo Store

func (r *authorizationCodesRepo) CreateAuthorizationCode(ctx context.Context, code domain.AuthorizationCode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.codes[code.CodeHash]; ok {
		return store.ErrAlreadyExists
	}
	r.codes[code.CodeHash] = code
	return nil
}

func (r *authorizationCodesRepo) FindAuthorizationCode(ctx context.Context, codeHash string) (domain.AuthorizationCode, error) {
	if err := ctx.Err(); err != nil {
		return domain.AuthorizationCode{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codes[codeHash]
	if !ok {
		return domain.AuthorizationCode{}, store.ErrNotFound
	}
	return c, nil
}

func (r *authorizationCodesRepo) ConsumeAuthorizationCode(ctx context.Context, codeHash string) (domain.AuthorizationCode, error) {
	if err := ctx.Err(); err != nil {
		return domain.AuthorizationCode{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[codeHash]
	if !ok {
		return domain.AuthorizationCode{}, store.ErrNotFound
	}
	if !c.Valid {
		return domain.AuthorizationCode{}, store.ErrConsumed
	}
	prev := c
	c.Valid = false
	r.codes[codeHash] = c
	return prev, nil
}

func (r *authorizationCodesRepo) DeleteExpiredAuthorizationCodes(ctx context.Context, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, c := range r.codes {
		if c.Expired(now) {
			delete(r.codes, k)
		}
	}
	return nil
}

// access tokens

type accessTokensRepo Store

func (r *accessTokensRepo) StoreAccessToken(ctx context.Context, t domain.AccessToken) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.Token = ""
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accessTokens[t.TokenHash]; ok {
		return store.ErrAlreadyExists
	}
	r.accessTokens[t.TokenHash] = t
	return nil
}

func (r *accessTokensRepo) FindAccessToken(ctx context.Context, tokenHash string) (domain.AccessToken, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccessToken{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.accessTokens[tokenHash]
	if !ok {
		return domain.AccessToken{}, store.ErrNotFound
	}
	return t, nil
}

func (r *accessTokensRepo) RevokeAccessToken(ctx context.Context, tokenHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.accessTokens[tokenHash]
	if !ok {
		return store.ErrNotFound
	}
	if !t.Valid {
		return store.ErrConsumed
	}
	t.Valid = false
	r.accessTokens[tokenHash] = t
	return nil
}

func (r *accessTokensRepo) DeleteExpiredAccessTokens(ctx context.Context, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.accessTokens {
		if t.Expired(now) {
			delete(r.accessTokens, k)
		}
	}
	return nil
}

// refresh tokens

type refreshTokensRepo Store

func (r *refreshTokensRepo) StoreRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.Token = ""
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.refreshTokens[t.TokenHash]; ok {
		return store.ErrAlreadyExists
	}
	r.refreshTokens[t.TokenHash] = t
	return nil
}

func (r *refreshTokensRepo) FindRefreshToken(ctx context.Context, tokenHash string) (domain.RefreshToken, error) {
	if err := ctx.Err(); err != nil {
		return domain.RefreshToken{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.refreshTokens[tokenHash]
	if !ok {
		return domain.RefreshToken{}, store.ErrNotFound
	}
	return t, nil
}

func (r *refreshTokensRepo) ConsumeRefreshToken(ctx context.Context, tokenHash string) (domain.RefreshToken, error) {
	if err := ctx.Err(); err != nil {
		return domain.RefreshToken{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.refreshTokens[tokenHash]
	if !ok {
		return domain.RefreshToken{}, store.ErrNotFound
	}
	if !t.Valid {
		return domain.RefreshToken{}, store.ErrConsumed
	}
	prev := t
	t.Valid = false
	r.refreshTokens[tokenHash] = t
	return prev, nil
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.refreshTokens {
		if t.Expired(now) {
			delete(r.refreshTokens, k)
		}
	}
	return nil
}

// users

type usersRepo Store

func (r *usersRepo) FindUserByUsername(ctx context.Context, username string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[username]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Username]; ok {
		return store.ErrAlreadyExists
	}
	r.users[u.Username] = u
	return nil
}
