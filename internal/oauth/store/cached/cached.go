// Package cached decorates a store.Store with a redis read-through cache for
// the two hot, rarely written lookups: client credentials and scopes.
//
// Codes and tokens are never cached; their single-use transitions must always
// hit the backing store. Read failures are logged and the call falls through
// to the backing store. A write whose invalidation fails returns the error,
// since the entry it could not drop would otherwise be served until it
// expires.
//
// Every cached key has a generation counter next to it. Invalidation bumps
// the counter and drops the entry in one transaction; a reader records the
// counter before reading the backing store and only fills the entry while
// the counter is unchanged. A read that raced a write therefore never puts
// the pre-write record back.
package cached

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
)

const (
	DefaultTTL = 5 * time.Minute

	keyPrefix    = "oauth:"
	clientPrefix = keyPrefix + "client:"
	scopePrefix  = keyPrefix + "scope:"
	allScopesKey = keyPrefix + "scopes:all"
	genSuffix    = ":gen"
)

// errStale aborts a fill whose key was invalidated after the read began.
var errStale = errors.New("cached: entry invalidated during read")

type Store struct {
	store.Store
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

var _ store.Store = (*Store)(nil)

// New wraps next. A ttl of zero uses DefaultTTL.
func New(next store.Store, rdb redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{Store: next, rdb: rdb, ttl: ttl, logger: logger.With("component", "store.cached")}
}

func (s *Store) Clients() store.Clients { return &clientsRepo{Clients: s.Store.Clients(), c: s} }
func (s *Store) Scopes() store.Scopes   { return &scopesRepo{Scopes: s.Store.Scopes(), c: s} }

// Ping reports the backing store's health. An unreachable redis is logged
// but does not make the server unready.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		s.logger.WarnContext(ctx, "redis ping failed", "error", err)
	}
	return s.Store.Ping(ctx)
}

// Close closes the backing store. The redis client is owned by the caller.
func (s *Store) Close() error { return s.Store.Close() }

func (s *Store) get(ctx context.Context, key string, v any) bool {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.logger.WarnContext(ctx, "cache entry undecodable", "key", key, "error", err)
		return false
	}
	return true
}

// generation returns the current invalidation counter of key. ok is false
// when redis cannot answer, in which case the caller must not fill.
func (s *Store) generation(ctx context.Context, key string) (gen string, ok bool) {
	gen, err := s.rdb.Get(ctx, key+genSuffix).Result()
	switch {
	case err == nil:
		return gen, true
	case errors.Is(err, redis.Nil):
		return "", true
	default:
		s.logger.WarnContext(ctx, "cache generation read failed", "key", key, "error", err)
		return "", false
	}
}

// fill caches v under key if key's generation still equals gen.
func (s *Store) fill(ctx context.Context, key, gen string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.WarnContext(ctx, "cache encode failed", "key", key, "error", err)
		return
	}

	genKey := key + genSuffix
	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, s.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		s.logger.DebugContext(ctx, "cache fill skipped after concurrent write", "key", key)
	default:
		s.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
}

// invalidate bumps the generation of every key and drops the entries.
func (s *Store) invalidate(ctx context.Context, keys ...string) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Incr(ctx, key+genSuffix)
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "cache invalidation failed", "keys", keys, "error", err)
		return fmt.Errorf("invalidate cache: %w", err)
	}
	return nil
}

type clientsRepo struct {
	store.Clients
	c *Store
}

func (r *clientsRepo) FindClientCredentials(ctx context.Context, id string) (domain.ClientApplication, error) {
	key := clientPrefix + id
	var client domain.ClientApplication
	if r.c.get(ctx, key, &client) {
		return client, nil
	}
	gen, fillable := r.c.generation(ctx, key)

	client, err := r.Clients.FindClientCredentials(ctx, id)
	if err != nil {
		return domain.ClientApplication{}, err
	}
	if fillable {
		r.c.fill(ctx, key, gen, client)
	}
	return client, nil
}

func (r *clientsRepo) UpdateClientStatus(ctx context.Context, id string, status domain.ClientStatus) error {
	if err := r.Clients.UpdateClientStatus(ctx, id, status); err != nil {
		return err
	}
	return r.c.invalidate(ctx, clientPrefix+id)
}

func (r *clientsRepo) UpdateClientScope(ctx context.Context, id string, scope string) error {
	if err := r.Clients.UpdateClientScope(ctx, id, scope); err != nil {
		return err
	}
	return r.c.invalidate(ctx, clientPrefix+id)
}

func (r *clientsRepo) UpdateClientName(ctx context.Context, id, name, description string) error {
	if err := r.Clients.UpdateClientName(ctx, id, name, description); err != nil {
		return err
	}
	return r.c.invalidate(ctx, clientPrefix+id)
}

type scopesRepo struct {
	store.Scopes
	c *Store
}

func (r *scopesRepo) FindScope(ctx context.Context, name string) (domain.Scope, error) {
	key := scopePrefix + name
	var sc domain.Scope
	if r.c.get(ctx, key, &sc) {
		return sc, nil
	}
	gen, fillable := r.c.generation(ctx, key)

	sc, err := r.Scopes.FindScope(ctx, name)
	if err != nil {
		return domain.Scope{}, err
	}
	if fillable {
		r.c.fill(ctx, key, gen, sc)
	}
	return sc, nil
}

func (r *scopesRepo) GetAllScopes(ctx context.Context) ([]domain.Scope, error) {
	var all []domain.Scope
	if r.c.get(ctx, allScopesKey, &all) {
		return all, nil
	}
	gen, fillable := r.c.generation(ctx, allScopesKey)

	all, err := r.Scopes.GetAllScopes(ctx)
	if err != nil {
		return nil, err
	}
	if fillable {
		r.c.fill(ctx, allScopesKey, gen, all)
	}
	return all, nil
}

func (r *scopesRepo) CreateScope(ctx context.Context, sc domain.Scope) error {
	if err := r.Scopes.CreateScope(ctx, sc); err != nil {
		return err
	}
	return r.c.invalidate(ctx, scopePrefix+sc.Name, allScopesKey)
}

func (r *scopesRepo) UpdateScope(ctx context.Context, sc domain.Scope) error {
	if err := r.Scopes.UpdateScope(ctx, sc); err != nil {
		return err
	}
	return r.c.invalidate(ctx, scopePrefix+sc.Name, allScopesKey)
}

func (r *scopesRepo) DeleteScope(ctx context.Context, name string) error {
	if err := r.Scopes.DeleteScope(ctx, name); err != nil {
		return err
	}
	return r.c.invalidate(ctx, scopePrefix+name, allScopesKey)
}
