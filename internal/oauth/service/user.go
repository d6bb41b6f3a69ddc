package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
	"github.com/aussiebroadwan/oauth20/pkg/cryptox"
	"github.com/aussiebroadwan/oauth20/pkg/idx"
	"github.com/aussiebroadwan/oauth20/pkg/slogx"
)

// UserAuthenticator verifies resource-owner credentials for the password
// grant. Bad credentials fail with ErrInvalidGrant.
type UserAuthenticator interface {
	AuthenticateUser(ctx context.Context, username, password string) (domain.User, error)
}

// MinPasswordLength applies to users created through UserService.
const MinPasswordLength = 8

// UserService is the store-backed UserAuthenticator.
type UserService struct {
	Store  store.Store
	Hasher *cryptox.Hasher

	decoyOnce sync.Once
	decoy     string
}

var _ UserAuthenticator = (*UserService)(nil)

func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.Store.Users().FindUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return domain.User{}, serverError(err)
		}
		_ = s.Hasher.Verify(password, s.decoyHash())
		return domain.User{}, describe(ErrInvalidGrant, "invalid resource owner credentials")
	}

	if err := s.Hasher.Verify(password, user.PasswordHash); err != nil {
		slogx.FromContext(ctx).Info("resource owner authentication failed", slog.String("user_id", user.ID))
		return domain.User{}, describe(ErrInvalidGrant, "invalid resource owner credentials")
	}
	return user, nil
}

// CreateUser registers a resource owner with an argon2id password hash.
func (s *UserService) CreateUser(ctx context.Context, username, password string) (domain.User, error) {
	switch {
	case username == "":
		return domain.User{}, describe(ErrInvalidRequest, "username is required")
	case len(password) < MinPasswordLength:
		return domain.User{}, describe(ErrInvalidRequest, "password must be at least %d characters", MinPasswordLength)
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return domain.User{}, serverError(err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, describe(ErrConflict, "username is taken")
		}
		return domain.User{}, serverError(err)
	}

	slogx.FromContext(ctx).Info("user created", slog.String("user_id", user.ID))
	return user, nil
}

func (s *UserService) decoyHash() string {
	s.decoyOnce.Do(func() {
		s.decoy = s.Hasher.DecoyHash()
	})
	return s.decoy
}
