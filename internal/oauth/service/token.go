package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
	"github.com/aussiebroadwan/oauth20/pkg/cryptox"
	"github.com/aussiebroadwan/oauth20/pkg/idx"
	"github.com/aussiebroadwan/oauth20/pkg/slogx"
)

// Default lifetimes used when neither configuration nor a scope override
// sets one.
const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 30 * 24 * time.Hour
	DefaultCodeTTL    = 5 * time.Minute
)

// TokenService generates, persists and invalidates access tokens, refresh
// tokens and authorization codes. Opaque values are returned to the caller
// once; only their fingerprints are stored.
type TokenService struct {
	Store  store.Store
	Scopes *ScopeService

	AccessTTL  time.Duration // fallback when no scope override applies
	RefreshTTL time.Duration // fallback; zero means refresh tokens never expire
	CodeTTL    time.Duration

	Now    func() time.Time
	Tracer trace.Tracer
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *TokenService) tracer() trace.Tracer {
	if s.Tracer != nil {
		return s.Tracer
	}
	return defaultTracer()
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return DefaultAccessTTL
}

func (s *TokenService) codeTTL() time.Duration {
	if s.CodeTTL > 0 {
		return s.CodeTTL
	}
	return DefaultCodeTTL
}

// IssueAccessToken mints and stores an access token for client. Its lifetime
// is the scope's override for grant, or AccessTTL. refreshHash links the
// token to the refresh token issued alongside it, if any.
func (s *TokenService) IssueAccessToken(
	ctx context.Context,
	client domain.ClientApplication,
	scope string,
	grant domain.GrantType,
	userID string,
	refreshHash string,
) (domain.AccessToken, error) {
	expiresIn, err := s.Scopes.ExpiresIn(ctx, scope, grant, s.accessTTL())
	if err != nil {
		return domain.AccessToken{}, err
	}

	value, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.AccessToken{}, serverError(err)
	}

	t := domain.AccessToken{
		ID:               idx.New(),
		Token:            value,
		TokenHash:        cryptox.FingerprintToken(value),
		ClientID:         client.ID,
		UserID:           userID,
		Scope:            scope,
		TokenType:        domain.TokenTypeBearer,
		GrantType:        grant,
		RefreshTokenHash: refreshHash,
		Valid:            true,
		IssuedAt:         s.now(),
		ExpiresIn:        expiresIn,
	}
	if err := s.Store.AccessTokens().StoreAccessToken(ctx, t); err != nil {
		return domain.AccessToken{}, serverError(err)
	}
	return t, nil
}

// IssueRefreshToken mints and stores a refresh token for client.
func (s *TokenService) IssueRefreshToken(
	ctx context.Context,
	client domain.ClientApplication,
	scope string,
	userID string,
) (domain.RefreshToken, error) {
	ttl, err := s.Scopes.RefreshExpiresIn(ctx, scope, s.RefreshTTL)
	if err != nil {
		return domain.RefreshToken{}, err
	}

	value, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.RefreshToken{}, serverError(err)
	}

	now := s.now()
	t := domain.RefreshToken{
		ID:        idx.New(),
		Token:     value,
		TokenHash: cryptox.FingerprintToken(value),
		ClientID:  client.ID,
		UserID:    userID,
		Scope:     scope,
		Valid:     true,
		IssuedAt:  now,
	}
	if ttl > 0 {
		t.ExpiresAt = now.Add(ttl)
	}
	if err := s.Store.RefreshTokens().StoreRefreshToken(ctx, t); err != nil {
		return domain.RefreshToken{}, serverError(err)
	}
	return t, nil
}

// IssueTokenPair issues a refresh token and an access token linked to it.
func (s *TokenService) IssueTokenPair(
	ctx context.Context,
	client domain.ClientApplication,
	scope string,
	grant domain.GrantType,
	userID string,
) (*domain.TokenPair, error) {
	rt, err := s.IssueRefreshToken(ctx, client, scope, userID)
	if err != nil {
		return nil, err
	}
	at, err := s.IssueAccessToken(ctx, client, scope, grant, userID, rt.TokenHash)
	if err != nil {
		return nil, err
	}
	return pairOf(at, rt.Token), nil
}

func pairOf(at domain.AccessToken, refresh string) *domain.TokenPair {
	return &domain.TokenPair{
		AccessToken:  at.Token,
		TokenType:    at.TokenType,
		ExpiresIn:    at.ExpiresIn,
		RefreshToken: refresh,
		Scope:        at.Scope,
	}
}

// RedeemAuthorizationCode validates code against the redeeming client and
// redirect URI, then consumes it. Of any number of concurrent callers
// presenting the same code at most one succeeds; the rest see
// ErrInvalidGrant. A mismatching request does not consume the code.
func (s *TokenService) RedeemAuthorizationCode(
	ctx context.Context,
	code, clientID, redirectURI string,
) (_ domain.AuthorizationCode, err error) {
	ctx, span := s.tracer().Start(ctx, "oauth.code.redeem",
		trace.WithAttributes(attribute.String(AttrClientID, clientID)))
	defer func() { endSpan(span, err) }()
	l := slogx.FromContext(ctx)

	hash := cryptox.FingerprintToken(code)
	repo := s.Store.AuthorizationCodes()

	ac, err := repo.FindAuthorizationCode(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AuthorizationCode{}, describe(ErrInvalidGrant, "authorization code is invalid")
		}
		return domain.AuthorizationCode{}, serverError(err)
	}

	switch {
	case !ac.Valid:
		span.SetAttributes(attribute.Bool(AttrCodeReuse, true))
		l.Warn("authorization code replayed", slog.String("client_id", clientID), slog.String("code_id", ac.ID))
		return domain.AuthorizationCode{}, describe(ErrInvalidGrant, "authorization code has already been used")
	case ac.Expired(s.now()):
		return domain.AuthorizationCode{}, describe(ErrInvalidGrant, "authorization code has expired")
	case ac.ClientID != clientID:
		l.Warn("authorization code presented by another client", slog.String("client_id", clientID), slog.String("code_id", ac.ID))
		return domain.AuthorizationCode{}, describe(ErrInvalidGrant, "authorization code was issued to another client")
	case ac.RedirectURI != redirectURI:
		return domain.AuthorizationCode{}, describe(ErrInvalidGrant, "redirect_uri does not match the authorization request")
	}

	consumed, err := repo.ConsumeAuthorizationCode(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrConsumed) || errors.Is(err, store.ErrNotFound) {
			span.SetAttributes(attribute.Bool(AttrCodeReuse, true))
			l.Warn("authorization code lost redemption race", slog.String("client_id", clientID), slog.String("code_id", ac.ID))
			return domain.AuthorizationCode{}, describe(ErrInvalidGrant, "authorization code has already been used")
		}
		return domain.AuthorizationCode{}, serverError(err)
	}
	return consumed, nil
}

// LookupRefreshToken returns the stored refresh token for value if it is
// still usable by clientID.
func (s *TokenService) LookupRefreshToken(ctx context.Context, value, clientID string) (domain.RefreshToken, error) {
	rt, err := s.Store.RefreshTokens().FindRefreshToken(ctx, cryptox.FingerprintToken(value))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.RefreshToken{}, describe(ErrInvalidGrant, "refresh token is invalid")
		}
		return domain.RefreshToken{}, serverError(err)
	}

	switch {
	case !rt.Valid:
		return domain.RefreshToken{}, describe(ErrInvalidGrant, "refresh token has been revoked")
	case rt.Expired(s.now()):
		return domain.RefreshToken{}, describe(ErrInvalidGrant, "refresh token has expired")
	case rt.ClientID != clientID:
		return domain.RefreshToken{}, describe(ErrInvalidGrant, "refresh token was issued to another client")
	}
	return rt, nil
}

// RotateRefreshToken consumes old and issues its replacement with the same
// scope and owner. Only one of several concurrent rotations of the same
// token succeeds.
func (s *TokenService) RotateRefreshToken(
	ctx context.Context,
	client domain.ClientApplication,
	old domain.RefreshToken,
) (_ domain.RefreshToken, err error) {
	ctx, span := s.tracer().Start(ctx, "oauth.refresh.rotate",
		trace.WithAttributes(attribute.String(AttrClientID, client.ID)))
	defer func() { endSpan(span, err) }()

	if _, err := s.Store.RefreshTokens().ConsumeRefreshToken(ctx, old.TokenHash); err != nil {
		if errors.Is(err, store.ErrConsumed) || errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Warn("refresh token replayed", slog.String("client_id", client.ID), slog.String("token_id", old.ID))
			return domain.RefreshToken{}, describe(ErrInvalidGrant, "refresh token has already been used")
		}
		return domain.RefreshToken{}, serverError(err)
	}
	span.SetAttributes(attribute.Bool(AttrTokenRotated, true))

	return s.IssueRefreshToken(ctx, client, old.Scope, old.UserID)
}

// AuthorizationGrant is the result of the first phase of the
// authorization_code grant.
type AuthorizationGrant struct {
	Code        string
	State       string
	RedirectURI string // the client's redirect URI with code and state appended
	ExpiresAt   time.Time
}

// IssueAuthorizationCode creates a single-use code for an already
// authenticated resource owner. The redirect URI must be the client's
// registered one; when omitted the registered one is used.
func (s *TokenService) IssueAuthorizationCode(ctx context.Context, req domain.AuthorizationRequest) (*AuthorizationGrant, error) {
	l := slogx.FromContext(ctx)

	switch {
	case req.ResponseType != "code":
		return nil, describe(ErrInvalidRequest, "response_type must be \"code\"")
	case req.ClientID == "":
		return nil, describe(ErrInvalidRequest, "client_id is required")
	case req.UserID == "":
		return nil, describe(ErrInvalidRequest, "user_id is required")
	}

	client, err := s.Scopes.lookupClient(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.Active() {
		return nil, describe(ErrInvalidClient, "client is inactive")
	}

	redirectURI := req.RedirectURI
	switch {
	case client.RedirectURI == "":
		return nil, describe(ErrInvalidRequest, "client has no registered redirect_uri")
	case redirectURI == "":
		redirectURI = client.RedirectURI
	case redirectURI != client.RedirectURI:
		return nil, describe(ErrInvalidRequest, "redirect_uri does not match the registered one")
	}

	scope, err := ResolveClientScope(req.Scope, client)
	if err != nil {
		return nil, err
	}

	value, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, serverError(err)
	}

	now := s.now()
	ac := domain.AuthorizationCode{
		ID:          idx.New(),
		CodeHash:    cryptox.FingerprintToken(value),
		ClientID:    client.ID,
		UserID:      req.UserID,
		RedirectURI: redirectURI,
		Scope:       scope,
		State:       req.State,
		Valid:       true,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.codeTTL()),
	}
	if err := s.Store.AuthorizationCodes().CreateAuthorizationCode(ctx, ac); err != nil {
		return nil, serverError(err)
	}

	location, err := appendCode(redirectURI, value, req.State)
	if err != nil {
		return nil, serverError(err)
	}

	l.Info("authorization code issued", slog.String("client_id", client.ID), slog.String("user_id", req.UserID), slog.String("scope", scope))
	return &AuthorizationGrant{
		Code:        value,
		State:       req.State,
		RedirectURI: location,
		ExpiresAt:   ac.ExpiresAt,
	}, nil
}

func appendCode(redirectURI, code, state string) (string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("code", code)
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// RevokeToken invalidates an access or refresh token held by clientID.
// Unknown and already revoked tokens are not an error.
func (s *TokenService) RevokeToken(ctx context.Context, clientID, value string) error {
	l := slogx.FromContext(ctx)
	hash := cryptox.FingerprintToken(value)

	at, err := s.Store.AccessTokens().FindAccessToken(ctx, hash)
	switch {
	case err == nil:
		if at.ClientID != clientID {
			return describe(ErrInvalidGrant, "token was issued to another client")
		}
		if err := s.Store.AccessTokens().RevokeAccessToken(ctx, hash); err != nil && !errors.Is(err, store.ErrConsumed) {
			return serverError(err)
		}
		l.Info("access token revoked", slog.String("client_id", clientID), slog.String("token_id", at.ID))
		return nil
	case !errors.Is(err, store.ErrNotFound):
		return serverError(err)
	}

	rt, err := s.Store.RefreshTokens().FindRefreshToken(ctx, hash)
	switch {
	case err == nil:
		if rt.ClientID != clientID {
			return describe(ErrInvalidGrant, "token was issued to another client")
		}
		if _, err := s.Store.RefreshTokens().ConsumeRefreshToken(ctx, hash); err != nil && !errors.Is(err, store.ErrConsumed) {
			return serverError(err)
		}
		l.Info("refresh token revoked", slog.String("client_id", clientID), slog.String("token_id", rt.ID))
		return nil
	case errors.Is(err, store.ErrNotFound):
		return nil
	default:
		return serverError(err)
	}
}
