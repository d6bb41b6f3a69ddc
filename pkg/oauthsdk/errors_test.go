package oauthsdk

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorResponse(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantNil  bool
		wantCode string
		wantDesc string
	}{
		{"success", http.StatusOK, `{}`, true, "", ""},
		{"oauth error", http.StatusBadRequest, `{"error":"invalid_scope","error_description":"nope"}`, false, ErrorCodeInvalidScope, "nope"},
		{"no description", http.StatusUnauthorized, `{"error":"invalid_client"}`, false, ErrorCodeInvalidClient, ""},
		{"not json", http.StatusBadGateway, `<html>`, false, ErrorCodeServerError, "HTTP 502: Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErrorResponse(&http.Response{StatusCode: tt.status}, []byte(tt.body))
			if tt.wantNil {
				require.NoError(t, err)
				return
			}

			var oe *OAuth2Error
			require.True(t, errors.As(err, &oe))
			require.Equal(t, tt.status, oe.StatusCode)
			require.Equal(t, tt.wantCode, oe.Code)
			require.Equal(t, tt.wantDesc, oe.Description)
		})
	}
}

func TestClientCredentialsGrantSendsBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, secret, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "app%3A1", id)
		require.Equal(t, "s3cret", secret)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		_, hasScope := r.PostForm["scope"]
		require.False(t, hasScope)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":60,"scope":"basic"}`))
	}))
	defer srv.Close()

	tok, err := NewSDKClient(srv.URL).ClientCredentialsGrant(t.Context(), "app:1", "s3cret", "")
	require.NoError(t, err)
	require.Equal(t, "at", tok.AccessToken)
	require.Equal(t, int64(60), tok.ExpiresIn)
	require.Empty(t, tok.RefreshToken)
}

func TestTokenErrorIsTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"expired"}`))
	}))
	defer srv.Close()

	_, err := NewSDKClient(srv.URL).RefreshGrant(t.Context(), "c", "s", "rt", "")
	var oe *OAuth2Error
	require.ErrorAs(t, err, &oe)
	require.Equal(t, ErrorCodeInvalidGrant, oe.Code)
	require.Equal(t, "invalid_grant: expired", oe.Error())
}
