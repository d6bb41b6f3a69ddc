package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/aussiebroadwan/oauth20/pkg/oauthsdk"
)

func retrieveErrorCode(t *testing.T, err error) string {
	t.Helper()
	var re *oauth2.RetrieveError
	require.True(t, errors.As(err, &re), "expected *oauth2.RetrieveError, got %v", err)
	return re.ErrorCode
}

func TestClientCredentialsWithOAuth2Client(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	reg := srv.registerClient(t, "basic,extended")

	conf := clientcredentials.Config{
		ClientID:     reg.ID,
		ClientSecret: reg.ClientSecret,
		TokenURL:     srv.URL + "/v1/oauth2/token",
		Scopes:       []string{"basic"},
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tok, err := conf.Token(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, tok.AccessToken)
	require.Equal(t, "Bearer", tok.TokenType)
	require.Empty(t, tok.RefreshToken)
	require.Equal(t, "basic", tok.Extra("scope"))

	t.Run("form credentials", func(t *testing.T) {
		conf := conf
		conf.AuthStyle = oauth2.AuthStyleInParams
		_, err := conf.Token(context.Background())
		require.NoError(t, err)
	})

	t.Run("scope outside registration", func(t *testing.T) {
		conf := conf
		conf.Scopes = []string{"admin"}
		_, err := conf.Token(context.Background())
		require.Equal(t, "invalid_scope", retrieveErrorCode(t, err))
	})

	t.Run("wrong secret", func(t *testing.T) {
		conf := conf
		conf.ClientSecret = "wrong"
		_, err := conf.Token(context.Background())
		require.Equal(t, "invalid_client", retrieveErrorCode(t, err))
	})
}

func TestEmptyScopeMatchesAbsentScope(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	reg := srv.registerClient(t, "basic,extended")

	post := func(form url.Values) oauthsdk.TokenResponse {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.SetBasicAuth(reg.ID, reg.ClientSecret)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
		require.Equal(t, "no-cache", resp.Header.Get("Pragma"))

		var tok oauthsdk.TokenResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tok))
		return tok
	}

	absent := post(url.Values{"grant_type": {"client_credentials"}})
	empty := post(url.Values{"grant_type": {"client_credentials"}, "scope": {""}})

	require.Equal(t, "basic,extended", absent.Scope)
	require.Equal(t, absent.Scope, empty.Scope)
	require.Equal(t, absent.ExpiresIn, empty.ExpiresIn)
}

func TestPasswordAndRefreshWithOAuth2Client(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	srv := newTestServer(t)
	reg := srv.registerClient(t, "basic,extended")

	_, err := srv.SDK.CreateUser(ctx, oauthsdk.CreateUserRequest{Username: "alice", Password: "correct horse battery"})
	require.NoError(t, err)

	conf := &oauth2.Config{
		ClientID:     reg.ID,
		ClientSecret: reg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  srv.URL + "/v1/oauth2/token",
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		Scopes: []string{"basic,extended"},
	}

	tok, err := conf.PasswordCredentialsToken(ctx, "alice", "correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, tok.RefreshToken)
	require.Equal(t, "basic,extended", tok.Extra("scope"))

	_, err = conf.PasswordCredentialsToken(ctx, "alice", "wrong password")
	require.Equal(t, "invalid_grant", retrieveErrorCode(t, err))

	// Narrow on refresh through the SDK; the old refresh token is rotated out.
	next, err := srv.SDK.RefreshGrant(ctx, reg.ID, reg.ClientSecret, tok.RefreshToken, "basic")
	require.NoError(t, err)
	require.Equal(t, "basic", next.Scope)
	require.NotEmpty(t, next.RefreshToken)

	_, err = srv.SDK.RefreshGrant(ctx, reg.ID, reg.ClientSecret, tok.RefreshToken, "")
	var oe *oauthsdk.OAuth2Error
	require.ErrorAs(t, err, &oe)
	require.Equal(t, oauthsdk.ErrorCodeInvalidGrant, oe.Code)
	require.Equal(t, http.StatusBadRequest, oe.StatusCode)

	// The oauth2 token source refreshes an expired token transparently.
	refreshed, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: next.RefreshToken}).Token()
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	require.NotEqual(t, next.RefreshToken, refreshed.RefreshToken)
}

func TestAuthorizationCodeFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	srv := newTestServer(t)
	reg := srv.registerClient(t, "basic,extended")

	grant, err := srv.SDK.IssueAuthorizationCode(ctx, oauthsdk.AuthCodeRequest{
		ClientID: reg.ID,
		Scope:    "basic",
		State:    "xyz",
		UserID:   "user-1",
	})
	require.NoError(t, err)
	require.Equal(t, "xyz", grant.State)
	require.Positive(t, grant.ExpiresIn)

	location, err := url.Parse(grant.RedirectURI)
	require.NoError(t, err)
	require.Equal(t, grant.Code, location.Query().Get("code"))
	require.Equal(t, "xyz", location.Query().Get("state"))

	conf := &oauth2.Config{
		ClientID:     reg.ID,
		ClientSecret: reg.ClientSecret,
		RedirectURL:  redirectURI,
		Endpoint: oauth2.Endpoint{
			TokenURL:  srv.URL + "/v1/oauth2/token",
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
	tok, err := conf.Exchange(ctx, grant.Code)
	require.NoError(t, err)
	require.Equal(t, "basic", tok.Extra("scope"))
	require.NotEmpty(t, tok.RefreshToken)

	_, err = conf.Exchange(ctx, grant.Code)
	require.Equal(t, "invalid_grant", retrieveErrorCode(t, err))
}

func TestTokenEndpointRejectsBadRequests(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	reg := srv.registerClient(t, "basic")

	tests := []struct {
		name        string
		contentType string
		body        string
		basicAuth   bool
		wantStatus  int
		wantCode    string
	}{
		{"json body", "application/json", `{"grant_type":"client_credentials"}`, true, http.StatusBadRequest, "invalid_request"},
		{"missing grant type", "application/x-www-form-urlencoded", "", true, http.StatusBadRequest, "invalid_request"},
		{"unsupported grant type", "application/x-www-form-urlencoded", "grant_type=implicit", true, http.StatusBadRequest, "unsupported_grant_type"},
		{"missing client", "application/x-www-form-urlencoded", "grant_type=client_credentials", false, http.StatusUnauthorized, "invalid_client"},
		{"code without redirect", "application/x-www-form-urlencoded", "grant_type=authorization_code&code=abc", true, http.StatusBadRequest, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/oauth2/token", strings.NewReader(tt.body))
			require.NoError(t, err)
			req.Header.Set("Content-Type", tt.contentType)
			if tt.basicAuth {
				req.SetBasicAuth(reg.ID, reg.ClientSecret)
			}

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tt.wantStatus, resp.StatusCode)
			require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

			var body oauthsdk.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.Equal(t, tt.wantCode, body.Error)
		})
	}
}

func TestRevoke(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	srv := newTestServer(t)
	reg := srv.registerClient(t, "basic")
	other := srv.registerClient(t, "basic")

	_, err := srv.SDK.CreateUser(ctx, oauthsdk.CreateUserRequest{Username: "bob", Password: "hunter2hunter2"})
	require.NoError(t, err)
	tok, err := srv.SDK.PasswordGrant(ctx, reg.ID, reg.ClientSecret, "bob", "hunter2hunter2", "")
	require.NoError(t, err)

	err = srv.SDK.RevokeToken(ctx, other.ID, other.ClientSecret, tok.RefreshToken)
	var oe *oauthsdk.OAuth2Error
	require.ErrorAs(t, err, &oe)
	require.Equal(t, oauthsdk.ErrorCodeInvalidGrant, oe.Code)

	require.NoError(t, srv.SDK.RevokeToken(ctx, reg.ID, reg.ClientSecret, tok.RefreshToken))
	require.NoError(t, srv.SDK.RevokeToken(ctx, reg.ID, reg.ClientSecret, tok.RefreshToken))
	require.NoError(t, srv.SDK.RevokeToken(ctx, reg.ID, reg.ClientSecret, tok.AccessToken))
	require.NoError(t, srv.SDK.RevokeToken(ctx, reg.ID, reg.ClientSecret, "never-issued"))

	_, err = srv.SDK.RefreshGrant(ctx, reg.ID, reg.ClientSecret, tok.RefreshToken, "")
	require.ErrorAs(t, err, &oe)
	require.Equal(t, oauthsdk.ErrorCodeInvalidGrant, oe.Code)

	err = srv.SDK.RevokeToken(ctx, reg.ID, "wrong", tok.AccessToken)
	require.ErrorAs(t, err, &oe)
	require.Equal(t, http.StatusUnauthorized, oe.StatusCode)
}
