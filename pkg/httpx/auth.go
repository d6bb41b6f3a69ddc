package httpx

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/oauth20/pkg/cryptox"
)

// ClientCredentials extracts the client id and secret of a token request.
// HTTP Basic authentication (RFC 6749 section 2.3.1) wins over the
// client_id/client_secret form fields. Basic credentials are form-urlencoded
// before base64, so they are unescaped here.
func ClientCredentials(r *http.Request) (clientID, clientSecret string) {
	if id, secret, ok := r.BasicAuth(); ok {
		if u, err := url.QueryUnescape(id); err == nil {
			id = u
		}
		if u, err := url.QueryUnescape(secret); err == nil {
			secret = u
		}
		return id, secret
	}
	return strings.TrimSpace(r.PostFormValue("client_id")), r.PostFormValue("client_secret")
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(authz) <= len(prefix) || !strings.EqualFold(authz[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(authz[len(prefix):]), true
}

// RequireBearer only lets through requests presenting the static token.
func RequireBearer(token string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := BearerToken(r)
			if !ok || token == "" || !cryptox.Equal(got, token) {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				WriteJSON(w, http.StatusUnauthorized, map[string]string{
					"error":             "invalid_token",
					"error_description": "missing or invalid bearer token",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
