package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/internal/oauth/response"
	"github.com/aussiebroadwan/oauth20/internal/oauth/service"
	"github.com/aussiebroadwan/oauth20/pkg/httpx"
)

// maxFormBytes bounds token and revoke request bodies.
const maxFormBytes = 64 << 10

// TokenHandler serves POST /v1/oauth2/token.
// Accepts application/x-www-form-urlencoded per RFC 6749.
type TokenHandler struct {
	Engine *service.GrantEngine
}

// ServeHTTP godoc
//
//	@Summary		OAuth2 Token Endpoint
//	@Description	Issues access and refresh tokens using the client_credentials, password, authorization_code and refresh_token grants.
//	@Description	Client credentials are read from HTTP Basic authentication, or from the client_id and client_secret form fields.
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			grant_type		formData	string					true	"Grant type"	Enums(client_credentials, password, authorization_code, refresh_token)
//	@Param			client_id		formData	string					false	"Client identifier (when not using HTTP Basic)"
//	@Param			client_secret	formData	string					false	"Client secret (when not using HTTP Basic)"
//	@Param			scope			formData	string					false	"Comma-delimited list of scopes"
//	@Param			username		formData	string					false	"Resource owner username (password grant)"
//	@Param			password		formData	string					false	"Resource owner password (password grant)"
//	@Param			code			formData	string					false	"Authorization code (authorization_code grant)"
//	@Param			redirect_uri	formData	string					false	"Redirect URI the code was issued for (authorization_code grant)"
//	@Param			refresh_token	formData	string					false	"Refresh token (refresh_token grant)"
//	@Success		200				{object}	oauthsdk.TokenResponse	"access_token, token_type, expires_in, refresh_token, scope"
//	@Failure		400				{object}	oauthsdk.ErrorResponse	"error, error_description"
//	@Failure		401				{object}	oauthsdk.ErrorResponse	"error, error_description"
//	@Failure		500				{object}	oauthsdk.ErrorResponse	"error, error_description"
//	@Header			200				{string}	Cache-Control			"no-store"
//	@Header			200				{string}	Pragma					"no-cache"
//	@Router			/v1/oauth2/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	form, ok := parseForm(w, r)
	if !ok {
		return
	}

	clientID, clientSecret := httpx.ClientCredentials(r)
	req := domain.TokenRequest{
		GrantType:    domain.GrantType(strings.TrimSpace(form.Get("grant_type"))),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scope:        strings.TrimSpace(form.Get("scope")),
		Code:         strings.TrimSpace(form.Get("code")),
		RedirectURI:  strings.TrimSpace(form.Get("redirect_uri")),
		Username:     strings.TrimSpace(form.Get("username")),
		Password:     form.Get("password"),
		RefreshToken: strings.TrimSpace(form.Get("refresh_token")),
	}

	pair, err := h.Engine.Exchange(r.Context(), req)
	if err != nil {
		response.Error(err).Write(w)
		return
	}
	response.Token(pair).Write(w)
}

// parseForm checks the content type and parses the body. It writes the
// error response itself and reports false on failure.
func parseForm(w http.ResponseWriter, r *http.Request) (url.Values, bool) {
	if !httpx.IsFormRequest(r) {
		response.InvalidRequest("content-type must be application/x-www-form-urlencoded").Write(w)
		return nil, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		response.InvalidRequest("invalid form body").Write(w)
		return nil, false
	}
	// Only the body counts; query parameters are ignored.
	return r.PostForm, true
}
