package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
	"github.com/aussiebroadwan/oauth20/pkg/cryptox"
	"github.com/aussiebroadwan/oauth20/pkg/idx"
	"github.com/aussiebroadwan/oauth20/pkg/slogx"
)

// ClientService authenticates client applications and manages their
// registrations.
type ClientService struct {
	Store  store.Store
	Hasher *cryptox.Hasher

	decoyOnce sync.Once
	decoy     string
}

// Authenticate is the gate every grant passes through. Unknown ids, wrong
// secrets and inactive clients all fail with ErrInvalidClient.
func (s *ClientService) Authenticate(ctx context.Context, clientID, clientSecret string) (domain.ClientApplication, error) {
	l := slogx.FromContext(ctx)

	if clientID == "" || clientSecret == "" {
		return domain.ClientApplication{}, describe(ErrInvalidClient, "client credentials are required")
	}

	client, err := s.Store.Clients().FindClientCredentials(ctx, clientID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return domain.ClientApplication{}, serverError(err)
		}
		// Unknown ids cost the same argon2 work as known ones.
		_ = s.Hasher.Verify(clientSecret, s.decoyHash())
		l.Info("client authentication failed", slog.String("client_id", clientID), slog.String("reason", "unknown"))
		return domain.ClientApplication{}, describe(ErrInvalidClient, "client authentication failed")
	}

	if err := s.Hasher.Verify(clientSecret, client.SecretHash); err != nil {
		if errors.Is(err, cryptox.ErrMalformedHash) {
			l.Error("stored client secret hash is malformed", slog.String("client_id", clientID))
		}
		l.Info("client authentication failed", slog.String("client_id", clientID), slog.String("reason", "secret"))
		return domain.ClientApplication{}, describe(ErrInvalidClient, "client authentication failed")
	}

	if !client.Active() {
		l.Info("client authentication failed", slog.String("client_id", clientID), slog.String("reason", "inactive"))
		return domain.ClientApplication{}, describe(ErrInvalidClient, "client is inactive")
	}

	return client, nil
}

func (s *ClientService) decoyHash() string {
	s.decoyOnce.Do(func() {
		s.decoy = s.Hasher.DecoyHash()
	})
	return s.decoy
}

// RegisterClientParams describes a new client application.
type RegisterClientParams struct {
	Name        string
	Description string
	Scope       string
	RedirectURI string
}

// RegisterClient creates an active client with a generated id and a 256-bit
// secret. The plaintext secret is returned once and only its hash is stored.
func (s *ClientService) RegisterClient(ctx context.Context, p RegisterClientParams) (domain.ClientApplication, string, error) {
	l := slogx.FromContext(ctx)

	if p.Name == "" {
		return domain.ClientApplication{}, "", describe(ErrInvalidRequest, "name is required")
	}
	if p.Scope == "" {
		return domain.ClientApplication{}, "", describe(ErrInvalidRequest, "scope is required")
	}
	if err := validateRedirectURI(p.RedirectURI); err != nil {
		return domain.ClientApplication{}, "", err
	}
	if err := s.requireScopesExist(ctx, p.Scope); err != nil {
		return domain.ClientApplication{}, "", err
	}

	secret, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.ClientApplication{}, "", serverError(err)
	}
	secretHash, err := s.Hasher.Hash(secret)
	if err != nil {
		return domain.ClientApplication{}, "", serverError(err)
	}

	now := time.Now().UTC()
	client := domain.ClientApplication{
		ID:          idx.New(),
		SecretHash:  secretHash,
		Name:        p.Name,
		Description: p.Description,
		Scope:       p.Scope,
		Status:      domain.ClientActive,
		RedirectURI: p.RedirectURI,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Clients().CreateClient(ctx, client); err != nil {
		l.Error("failed to create client", "error", err)
		return domain.ClientApplication{}, "", serverError(err)
	}

	l.Info("client registered", slog.String("client_id", client.ID), slog.String("name", client.Name), slog.String("scope", client.Scope))
	return client, secret, nil
}

// ListClients returns all registered clients, newest first.
func (s *ClientService) ListClients(ctx context.Context) ([]domain.ClientApplication, error) {
	clients, err := s.Store.Clients().ListClients(ctx)
	if err != nil {
		return nil, serverError(err)
	}
	return clients, nil
}

// GetClient returns one registered client.
func (s *ClientService) GetClient(ctx context.Context, clientID string) (domain.ClientApplication, error) {
	client, err := s.Store.Clients().FindClientCredentials(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ClientApplication{}, ErrNotFound
		}
		return domain.ClientApplication{}, serverError(err)
	}
	return client, nil
}

// UpdateClientParams lists the mutable attributes of a client. Nil fields
// are left unchanged.
type UpdateClientParams struct {
	Name        *string
	Description *string
	Scope       *string
	Status      *domain.ClientStatus
}

// UpdateClient applies p and returns the updated client. Tokens already
// issued keep the scope they were issued with.
func (s *ClientService) UpdateClient(ctx context.Context, clientID string, p UpdateClientParams) (domain.ClientApplication, error) {
	l := slogx.FromContext(ctx)

	client, err := s.GetClient(ctx, clientID)
	if err != nil {
		return domain.ClientApplication{}, err
	}
	repo := s.Store.Clients()

	if p.Scope != nil {
		if *p.Scope == "" {
			return domain.ClientApplication{}, describe(ErrInvalidRequest, "scope must not be empty")
		}
		if err := s.requireScopesExist(ctx, *p.Scope); err != nil {
			return domain.ClientApplication{}, err
		}
	}
	if p.Name != nil && *p.Name == "" {
		return domain.ClientApplication{}, describe(ErrInvalidRequest, "name must not be empty")
	}

	if p.Name != nil || p.Description != nil {
		name, description := client.Name, client.Description
		if p.Name != nil {
			name = *p.Name
		}
		if p.Description != nil {
			description = *p.Description
		}
		if err := repo.UpdateClientName(ctx, clientID, name, description); err != nil {
			return domain.ClientApplication{}, mapAdminError(err)
		}
	}
	if p.Scope != nil {
		if err := repo.UpdateClientScope(ctx, clientID, *p.Scope); err != nil {
			return domain.ClientApplication{}, mapAdminError(err)
		}
	}
	if p.Status != nil {
		if err := repo.UpdateClientStatus(ctx, clientID, *p.Status); err != nil {
			return domain.ClientApplication{}, mapAdminError(err)
		}
		l.Info("client status changed", slog.String("client_id", clientID), slog.String("status", p.Status.String()))
	}

	return s.GetClient(ctx, clientID)
}

func (s *ClientService) requireScopesExist(ctx context.Context, scope string) error {
	for _, name := range SplitScope(scope) {
		if _, err := s.Store.Scopes().FindScope(ctx, name); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return describe(ErrInvalidScope, "scope %q does not exist", name)
			}
			return serverError(err)
		}
	}
	return nil
}

func validateRedirectURI(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" || u.Fragment != "" {
		return describe(ErrInvalidRequest, "redirect_uri must be an absolute URI without a fragment")
	}
	return nil
}

func mapAdminError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return serverError(err)
}
