package response

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/internal/oauth/service"
)

func requireNoCache(t *testing.T, h http.Header) {
	t.Helper()
	require.Equal(t, "no-store", h.Get("Cache-Control"))
	require.Equal(t, "no-cache", h.Get("Pragma"))
}

func TestToken(t *testing.T) {
	rec := httptest.NewRecorder()
	Token(&domain.TokenPair{
		AccessToken:  "at",
		TokenType:    domain.TokenTypeBearer,
		ExpiresIn:    90 * time.Second,
		RefreshToken: "rt",
		Scope:        "basic,extended",
	}).Write(rec)

	require.Equal(t, http.StatusOK, rec.Code)
	requireNoCache(t, rec.Header())
	require.JSONEq(t, `{
		"access_token": "at",
		"token_type": "Bearer",
		"expires_in": 90,
		"refresh_token": "rt",
		"scope": "basic,extended"
	}`, rec.Body.String())
}

func TestTokenOmitsEmptyRefreshToken(t *testing.T) {
	rec := httptest.NewRecorder()
	Token(&domain.TokenPair{AccessToken: "at", TokenType: "Bearer", ExpiresIn: time.Hour, Scope: "basic"}).Write(rec)

	require.NotContains(t, rec.Body.String(), "refresh_token")
	require.Contains(t, rec.Body.String(), `"expires_in":3600`)
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid request", service.ErrInvalidRequest, http.StatusBadRequest, "invalid_request"},
		{"invalid client", service.ErrInvalidClient, http.StatusUnauthorized, "invalid_client"},
		{"invalid grant", service.ErrInvalidGrant, http.StatusBadRequest, "invalid_grant"},
		{"invalid scope", service.ErrInvalidScope, http.StatusBadRequest, "invalid_scope"},
		{"unsupported grant", service.ErrUnsupportedGrantType, http.StatusBadRequest, "unsupported_grant_type"},
		{"not found", service.ErrNotFound, http.StatusNotFound, "not_found"},
		{"conflict", service.ErrConflict, http.StatusConflict, "conflict"},
		{"server error", service.ErrServerError, http.StatusInternalServerError, "server_error"},
		{"wrapped", fmt.Errorf("exchange: %w", service.ErrInvalidGrant), http.StatusBadRequest, "invalid_grant"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "server_error"},
		{"timeout", fmt.Errorf("%w: %w", service.ErrServerError, context.DeadlineExceeded), http.StatusInternalServerError, "server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(tt.err).Write(rec)

			require.Equal(t, tt.wantStatus, rec.Code)
			requireNoCache(t, rec.Header())
			require.Contains(t, rec.Body.String(), `"error":"`+tt.wantCode+`"`)
			if tt.wantStatus == http.StatusUnauthorized {
				require.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestErrorHidesServerCause(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(fmt.Errorf("%w: %w", service.ErrServerError, errors.New("dial tcp 10.0.0.1:5432"))).Write(rec)

	require.NotContains(t, rec.Body.String(), "10.0.0.1")
	require.NotContains(t, rec.Body.String(), "error_description")
}

func TestEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	Empty(http.StatusNoContent).Write(rec)

	require.Equal(t, http.StatusNoContent, rec.Code)
	requireNoCache(t, rec.Header())
	require.Empty(t, rec.Body.String())
}
