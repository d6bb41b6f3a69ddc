package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/internal/oauth/response"
	"github.com/aussiebroadwan/oauth20/internal/oauth/service"
	"github.com/aussiebroadwan/oauth20/pkg/httpx"
	"github.com/aussiebroadwan/oauth20/pkg/oauthsdk"
)

// AuthCodeHandler serves POST /v1/oauth2/auth-codes, the first phase of the
// authorization_code grant. The caller (a trusted login front end) has
// already authenticated the resource owner.
type AuthCodeHandler struct {
	Tokens *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Issue Authorization Code
//	@Description	Issues a single-use authorization code for an authenticated resource owner and returns the client redirect URI carrying code and state.
//	@Tags			OAuth2
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		oauthsdk.AuthCodeRequest	true	"Authorization request"
//	@Success		201		{object}	oauthsdk.AuthCodeResponse	"code, state, redirect_uri, expires_in"
//	@Failure		400		{object}	oauthsdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	oauthsdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	oauthsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/oauth2/auth-codes [post].
func (h *AuthCodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req oauthsdk.AuthCodeRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		response.InvalidRequest("invalid JSON in request body").Write(w)
		return
	}

	grant, err := h.Tokens.IssueAuthorizationCode(r.Context(), domain.AuthorizationRequest{
		ResponseType: req.ResponseType,
		ClientID:     req.ClientID,
		RedirectURI:  req.RedirectURI,
		Scope:        req.Scope,
		State:        req.State,
		UserID:       req.UserID,
	})
	if err != nil {
		response.Error(err).Write(w)
		return
	}

	response.JSON(http.StatusCreated, oauthsdk.AuthCodeResponse{
		Code:        grant.Code,
		State:       grant.State,
		RedirectURI: grant.RedirectURI,
		ExpiresIn:   int64(time.Until(grant.ExpiresAt).Round(time.Second) / time.Second),
	}).Write(w)
}
