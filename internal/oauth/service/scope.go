package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
)

// ScopeSeparator delimits scope names in every scope string the server
// stores, accepts and returns.
const ScopeSeparator = ","

// ScopeService resolves requested scopes against a client's registration and
// owns scope administration.
type ScopeService struct {
	Store store.Store
}

// SplitScope splits a scope string into its tokens. Tokens are not trimmed.
func SplitScope(scope string) []string {
	return strings.Split(scope, ScopeSeparator)
}

// IsScopeAllowed reports whether scope appears verbatim as one of the tokens
// of scopeList. "ext" is not allowed by "extended".
func IsScopeAllowed(scope, scopeList string) bool {
	for _, s := range SplitScope(scopeList) {
		if s == scope {
			return true
		}
	}
	return false
}

// ResolveClientScope validates requested against the client's registered
// scope. An empty request (absent or explicitly empty) resolves to the full
// registered scope.
func ResolveClientScope(requested string, client domain.ClientApplication) (string, error) {
	return NarrowScope(requested, client.Scope)
}

// NarrowScope returns requested if each of its tokens is in granted, or
// granted itself when requested is empty. A token outside granted fails with
// ErrInvalidScope; nothing is silently dropped.
func NarrowScope(requested, granted string) (string, error) {
	if requested == "" {
		return granted, nil
	}
	for _, s := range SplitScope(requested) {
		if !IsScopeAllowed(s, granted) {
			return "", describe(ErrInvalidScope, "scope %q is not allowed", s)
		}
	}
	return requested, nil
}

// ResolveScope is the store-backed form of ResolveClientScope for callers
// holding only a client id. The grant engine already has the authenticated
// record and calls ResolveClientScope directly.
func (s *ScopeService) ResolveScope(ctx context.Context, requested, clientID string) (string, error) {
	client, err := s.lookupClient(ctx, clientID)
	if err != nil {
		return "", err
	}
	return ResolveClientScope(requested, client)
}

// lookupClient maps a missing client to ErrInvalidClient and any other
// storage failure to ErrServerError. Status is not checked.
func (s *ScopeService) lookupClient(ctx context.Context, clientID string) (domain.ClientApplication, error) {
	client, err := s.Store.Clients().FindClientCredentials(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ClientApplication{}, describe(ErrInvalidClient, "unknown client")
		}
		return domain.ClientApplication{}, serverError(err)
	}
	return client, nil
}

// ListScopeDetails returns every registered scope when clientID is empty,
// otherwise one record per token of that client's registered scope. A token
// with no scope record is a data integrity failure.
func (s *ScopeService) ListScopeDetails(ctx context.Context, clientID string) ([]domain.Scope, error) {
	if clientID == "" {
		all, err := s.Store.Scopes().GetAllScopes(ctx)
		if err != nil {
			return nil, serverError(err)
		}
		return all, nil
	}

	client, err := s.lookupClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	tokens := SplitScope(client.Scope)
	out := make([]domain.Scope, 0, len(tokens))
	for _, name := range tokens {
		sc, err := s.Store.Scopes().FindScope(ctx, name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, serverError(fmt.Errorf("client %s references missing scope %q", clientID, name))
			}
			return nil, serverError(err)
		}
		out = append(out, sc)
	}
	return out, nil
}

// ExpiresIn returns the access token lifetime for scope under grant: the
// shortest per-grant override among the scope's tokens, or fallback when no
// token defines one. Tokens without a scope record contribute no override.
func (s *ScopeService) ExpiresIn(ctx context.Context, scope string, grant domain.GrantType, fallback time.Duration) (time.Duration, error) {
	return s.minOverride(ctx, scope, fallback, func(sc domain.Scope) time.Duration {
		return sc.AccessTTL(grant)
	})
}

// RefreshExpiresIn is ExpiresIn for refresh token lifetimes.
func (s *ScopeService) RefreshExpiresIn(ctx context.Context, scope string, fallback time.Duration) (time.Duration, error) {
	return s.minOverride(ctx, scope, fallback, func(sc domain.Scope) time.Duration {
		return sc.RefreshExpiresIn
	})
}

func (s *ScopeService) minOverride(ctx context.Context, scope string, fallback time.Duration, ttl func(domain.Scope) time.Duration) (time.Duration, error) {
	var found time.Duration
	for _, name := range SplitScope(scope) {
		sc, err := s.Store.Scopes().FindScope(ctx, name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return 0, serverError(err)
		}
		if d := ttl(sc); d > 0 && (found == 0 || d < found) {
			found = d
		}
	}
	if found == 0 {
		return fallback, nil
	}
	return found, nil
}

// RefreshEligible reports whether every token of scope is flagged as
// eligible for a refresh token under client_credentials.
func (s *ScopeService) RefreshEligible(ctx context.Context, scope string) (bool, error) {
	for _, name := range SplitScope(scope) {
		sc, err := s.Store.Scopes().FindScope(ctx, name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return false, nil
			}
			return false, serverError(err)
		}
		if !sc.RefreshEligible {
			return false, nil
		}
	}
	return true, nil
}

// GetScope returns a single scope record.
func (s *ScopeService) GetScope(ctx context.Context, name string) (domain.Scope, error) {
	sc, err := s.Store.Scopes().FindScope(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Scope{}, ErrNotFound
		}
		return domain.Scope{}, serverError(err)
	}
	return sc, nil
}

// CreateScope registers a new scope.
func (s *ScopeService) CreateScope(ctx context.Context, sc domain.Scope) (domain.Scope, error) {
	if err := validateScope(sc); err != nil {
		return domain.Scope{}, err
	}

	now := time.Now().UTC()
	sc.CreatedAt = now
	sc.UpdatedAt = now

	if err := s.Store.Scopes().CreateScope(ctx, sc); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Scope{}, describe(ErrConflict, "scope %q already exists", sc.Name)
		}
		return domain.Scope{}, serverError(err)
	}
	return sc, nil
}

// UpdateScope replaces the mutable attributes of an existing scope.
func (s *ScopeService) UpdateScope(ctx context.Context, sc domain.Scope) (domain.Scope, error) {
	if err := validateScope(sc); err != nil {
		return domain.Scope{}, err
	}
	if err := s.Store.Scopes().UpdateScope(ctx, sc); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Scope{}, ErrNotFound
		}
		return domain.Scope{}, serverError(err)
	}
	return s.GetScope(ctx, sc.Name)
}

// DeleteScope removes a scope. Clients that still list it keep their
// registration; ListScopeDetails reports them as inconsistent.
func (s *ScopeService) DeleteScope(ctx context.Context, name string) error {
	if err := s.Store.Scopes().DeleteScope(ctx, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return serverError(err)
	}
	return nil
}

func validateScope(sc domain.Scope) error {
	switch {
	case sc.Name == "":
		return describe(ErrInvalidRequest, "scope name is required")
	case strings.Contains(sc.Name, ScopeSeparator) || strings.ContainsAny(sc.Name, " \t\r\n"):
		return describe(ErrInvalidRequest, "scope name must not contain separators or whitespace")
	case sc.CCExpiresIn < 0 || sc.PassExpiresIn < 0 || sc.RefreshExpiresIn < 0:
		return describe(ErrInvalidRequest, "expiry overrides must not be negative")
	}
	return nil
}
