package http

import (
	"net/http"

	"github.com/aussiebroadwan/oauth20/internal/oauth/response"
	"github.com/aussiebroadwan/oauth20/internal/oauth/service"
	"github.com/aussiebroadwan/oauth20/pkg/httpx"
	"github.com/aussiebroadwan/oauth20/pkg/oauthsdk"
)

// ScopesHandler handles the scope endpoints.
type ScopesHandler struct {
	ScopeService *service.ScopeService
}

// HandleList handles GET /v1/scopes
//
//	@Summary		List Scopes
//	@Description	Returns every scope, or the scopes registered to client_id when given.
//	@Tags			Scopes
//	@Produce		json
//	@Param			client_id	query		string						false	"Only the scopes of this client"
//	@Success		200			{object}	oauthsdk.ListScopesResponse	"scopes"
//	@Failure		401			{object}	oauthsdk.ErrorResponse		"error, error_description"
//	@Failure		500			{object}	oauthsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/scopes [get].
func (h *ScopesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	scopes, err := h.ScopeService.ListScopeDetails(r.Context(), r.URL.Query().Get("client_id"))
	if err != nil {
		response.Error(err).Write(w)
		return
	}

	out := oauthsdk.ListScopesResponse{Scopes: make([]oauthsdk.ScopeInfo, len(scopes))}
	for i, sc := range scopes {
		out.Scopes[i] = toScopeInfo(sc)
	}
	response.JSON(http.StatusOK, out).Write(w)
}

// HandleCreate handles POST /v1/scopes
//
//	@Summary		Create Scope
//	@Tags			Scopes
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		oauthsdk.ScopeInfo		true	"Scope; lifetimes in seconds, 0 for the server default"
//	@Success		201		{object}	oauthsdk.ScopeInfo		"created scope"
//	@Failure		400		{object}	oauthsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	oauthsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	oauthsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/scopes [post].
func (h *ScopesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req oauthsdk.ScopeInfo
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		response.InvalidRequest("invalid JSON in request body").Write(w)
		return
	}

	sc, err := h.ScopeService.CreateScope(r.Context(), fromScopeInfo(req))
	if err != nil {
		response.Error(err).Write(w)
		return
	}
	response.JSON(http.StatusCreated, toScopeInfo(sc)).Write(w)
}

// HandleUpdate handles PUT /v1/scopes/{name}
//
//	@Summary		Update Scope
//	@Description	Replaces the description, lifetimes and refresh eligibility of a scope.
//	@Tags			Scopes
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			name	path		string					true	"Scope name"
//	@Param			request	body		oauthsdk.ScopeInfo		true	"New values; the name field is ignored"
//	@Success		200		{object}	oauthsdk.ScopeInfo		"updated scope"
//	@Failure		400		{object}	oauthsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	oauthsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	oauthsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/scopes/{name} [put].
func (h *ScopesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req oauthsdk.ScopeInfo
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		response.InvalidRequest("invalid JSON in request body").Write(w)
		return
	}
	req.Name = r.PathValue("name")

	sc, err := h.ScopeService.UpdateScope(r.Context(), fromScopeInfo(req))
	if err != nil {
		response.Error(err).Write(w)
		return
	}
	response.JSON(http.StatusOK, toScopeInfo(sc)).Write(w)
}

// HandleDelete handles DELETE /v1/scopes/{name}
//
//	@Summary		Delete Scope
//	@Tags			Scopes
//	@Security		BearerAuth
//	@Param			name	path	string	true	"Scope name"
//	@Success		204		"Scope deleted"
//	@Failure		401		{object}	oauthsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	oauthsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/scopes/{name} [delete].
func (h *ScopesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.ScopeService.DeleteScope(r.Context(), r.PathValue("name")); err != nil {
		response.Error(err).Write(w)
		return
	}
	response.Empty(http.StatusNoContent).Write(w)
}
