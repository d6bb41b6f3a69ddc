package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/oauth20/internal/oauth/response"
	"github.com/aussiebroadwan/oauth20/internal/oauth/service"
	"github.com/aussiebroadwan/oauth20/pkg/httpx"
	"github.com/aussiebroadwan/oauth20/pkg/oauthsdk"
)

// UsersHandler serves POST /v1/users.
type UsersHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Create User
//	@Description	Registers a resource owner for the password grant.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		oauthsdk.CreateUserRequest	true	"Username and password"
//	@Success		201		{object}	oauthsdk.UserInfo			"created user"
//	@Failure		400		{object}	oauthsdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	oauthsdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	oauthsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/users [post].
func (h *UsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req oauthsdk.CreateUserRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		response.InvalidRequest("invalid JSON in request body").Write(w)
		return
	}

	user, err := h.UserService.CreateUser(r.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(err).Write(w)
		return
	}

	response.JSON(http.StatusCreated, oauthsdk.UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}).Write(w)
}
