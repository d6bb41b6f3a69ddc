package http

import (
	"net/http"

	"github.com/aussiebroadwan/oauth20/internal/oauth/domain"
	"github.com/aussiebroadwan/oauth20/internal/oauth/response"
	"github.com/aussiebroadwan/oauth20/internal/oauth/service"
	"github.com/aussiebroadwan/oauth20/pkg/httpx"
	"github.com/aussiebroadwan/oauth20/pkg/oauthsdk"
)

// ClientsHandler handles the client management endpoints.
type ClientsHandler struct {
	ClientService *service.ClientService
}

// HandleCreate handles POST /v1/clients
//
//	@Summary		Register Client
//	@Description	Registers a client application. The generated secret is returned once and cannot be recovered.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		oauthsdk.RegisterClientRequest	true	"Client registration"
//	@Success		201		{object}	oauthsdk.RegisterClientResponse	"client and its secret"
//	@Failure		400		{object}	oauthsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	oauthsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	oauthsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/clients [post].
func (h *ClientsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req oauthsdk.RegisterClientRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		response.InvalidRequest("invalid JSON in request body").Write(w)
		return
	}

	client, secret, err := h.ClientService.RegisterClient(r.Context(), service.RegisterClientParams{
		Name:        req.Name,
		Description: req.Description,
		Scope:       req.Scope,
		RedirectURI: req.RedirectURI,
	})
	if err != nil {
		response.Error(err).Write(w)
		return
	}

	response.JSON(http.StatusCreated, oauthsdk.RegisterClientResponse{
		ClientInfo:   toClientInfo(client),
		ClientSecret: secret,
	}).Write(w)
}

// HandleList handles GET /v1/clients
//
//	@Summary		List Clients
//	@Description	Returns all registered clients, newest first.
//	@Tags			Clients
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	oauthsdk.ListClientsResponse	"clients"
//	@Failure		401	{object}	oauthsdk.ErrorResponse			"error, error_description"
//	@Failure		500	{object}	oauthsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/clients [get].
func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	clients, err := h.ClientService.ListClients(r.Context())
	if err != nil {
		response.Error(err).Write(w)
		return
	}

	out := oauthsdk.ListClientsResponse{Clients: make([]oauthsdk.ClientInfo, len(clients))}
	for i, c := range clients {
		out.Clients[i] = toClientInfo(c)
	}
	response.JSON(http.StatusOK, out).Write(w)
}

// HandleGet handles GET /v1/clients/{id}
//
//	@Summary		Get Client
//	@Tags			Clients
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string				true	"Client ID"
//	@Success		200	{object}	oauthsdk.ClientInfo	"client"
//	@Failure		401	{object}	oauthsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	oauthsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/clients/{id} [get].
func (h *ClientsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	client, err := h.ClientService.GetClient(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(err).Write(w)
		return
	}
	response.JSON(http.StatusOK, toClientInfo(client)).Write(w)
}

// HandleUpdate handles PUT /v1/clients/{id}
//
//	@Summary		Update Client
//	@Description	Changes the name, description, scope or status of a client. Omitted fields are left untouched.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string							true	"Client ID"
//	@Param			request	body		oauthsdk.UpdateClientRequest	true	"Fields to change"
//	@Success		200		{object}	oauthsdk.ClientInfo				"updated client"
//	@Failure		400		{object}	oauthsdk.ErrorResponse			"error, error_description"
//	@Failure		401		{object}	oauthsdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	oauthsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/clients/{id} [put].
func (h *ClientsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req oauthsdk.UpdateClientRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		response.InvalidRequest("invalid JSON in request body").Write(w)
		return
	}

	params := service.UpdateClientParams{
		Name:        req.Name,
		Description: req.Description,
		Scope:       req.Scope,
	}
	if req.Status != nil {
		status, ok := domain.ParseClientStatus(*req.Status)
		if !ok {
			response.InvalidRequest(`status must be "active" or "inactive"`).Write(w)
			return
		}
		params.Status = &status
	}

	client, err := h.ClientService.UpdateClient(r.Context(), r.PathValue("id"), params)
	if err != nil {
		response.Error(err).Write(w)
		return
	}
	response.JSON(http.StatusOK, toClientInfo(client)).Write(w)
}
