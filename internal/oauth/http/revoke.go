package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/oauth20/internal/oauth/response"
	"github.com/aussiebroadwan/oauth20/internal/oauth/service"
	"github.com/aussiebroadwan/oauth20/pkg/httpx"
)

// RevokeHandler serves POST /v1/oauth2/revoke (RFC 7009). The client must
// authenticate; unknown and already revoked tokens still return 200 so the
// endpoint cannot be used to probe for tokens.
type RevokeHandler struct {
	Clients *service.ClientService
	Tokens  *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		OAuth2 Token Revocation Endpoint
//	@Description	Revokes an access or refresh token issued to the authenticated client (RFC 7009).
//	@Description	The endpoint is idempotent and returns 200 OK even for unknown tokens.
//	@Tags			OAuth2
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			token			formData	string	true	"The token to revoke"
//	@Param			token_type_hint	formData	string	false	"Hint about token type"	Enums(access_token, refresh_token)
//	@Success		200				"Token revoked (or was already invalid)"
//	@Failure		400				{object}	oauthsdk.ErrorResponse	"error, error_description"
//	@Failure		401				{object}	oauthsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/oauth2/revoke [post].
func (h *RevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form, ok := parseForm(w, r)
	if !ok {
		return
	}

	token := strings.TrimSpace(form.Get("token"))
	if token == "" {
		response.InvalidRequest("token is required").Write(w)
		return
	}

	clientID, clientSecret := httpx.ClientCredentials(r)
	client, err := h.Clients.Authenticate(ctx, clientID, clientSecret)
	if err != nil {
		response.Error(err).Write(w)
		return
	}

	if err := h.Tokens.RevokeToken(ctx, client.ID, token); err != nil {
		response.Error(err).Write(w)
		return
	}
	response.Empty(http.StatusOK).Write(w)
}
