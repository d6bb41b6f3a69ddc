package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/oauth20/internal/oauth/service"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
	"github.com/aussiebroadwan/oauth20/pkg/httpx"
	"github.com/aussiebroadwan/oauth20/pkg/slogx"

	_ "github.com/aussiebroadwan/oauth20/api/oauth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	adminToken   string
	logger       *slog.Logger

	store         store.Store
	GrantEngine   *service.GrantEngine
	ClientService *service.ClientService
	ScopeService  *service.ScopeService
	TokenService  *service.TokenService
	UserService   *service.UserService
}

// NewRouter creates a router. Administrative routes are only registered when
// adminToken is non-empty.
func NewRouter(buildVersion, adminToken string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		adminToken:   adminToken,
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOAuth2()
	r.registerScopes()
	r.registerSystem()

	if r.adminToken != "" {
		r.registerAdmin()
	} else {
		r.logger.Warn("no admin token configured, administrative endpoints are disabled")
	}

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			OAuth 2.0 Authorization Server API
//	@version		0.1.0
//	@description	OAuth 2.0 authorization server issuing opaque bearer tokens through the client_credentials, password, authorization_code and refresh_token grants.
//	@description
//	@description				Scopes are comma-delimited. Administrative endpoints require the static admin bearer token.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/oauth20
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Admin token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerOAuth2() {
	r.Mux.Handle("POST /v1/oauth2/token", &TokenHandler{Engine: r.GrantEngine})
	r.Mux.Handle("POST /v1/oauth2/revoke", &RevokeHandler{
		Clients: r.ClientService,
		Tokens:  r.TokenService,
	})
}

func (r *Router) registerScopes() {
	h := &ScopesHandler{ScopeService: r.ScopeService}
	r.Mux.Handle("GET /v1/scopes", http.HandlerFunc(h.HandleList))
}

func (r *Router) registerAdmin() {
	admin := httpx.RequireBearer(r.adminToken)

	codes := &AuthCodeHandler{Tokens: r.TokenService}
	r.Mux.Handle("POST /v1/oauth2/auth-codes", httpx.Chain(codes, admin))

	clients := &ClientsHandler{ClientService: r.ClientService}
	r.Mux.Handle("POST /v1/clients", httpx.Chain(http.HandlerFunc(clients.HandleCreate), admin))
	r.Mux.Handle("GET /v1/clients", httpx.Chain(http.HandlerFunc(clients.HandleList), admin))
	r.Mux.Handle("GET /v1/clients/{id}", httpx.Chain(http.HandlerFunc(clients.HandleGet), admin))
	r.Mux.Handle("PUT /v1/clients/{id}", httpx.Chain(http.HandlerFunc(clients.HandleUpdate), admin))

	scopes := &ScopesHandler{ScopeService: r.ScopeService}
	r.Mux.Handle("POST /v1/scopes", httpx.Chain(http.HandlerFunc(scopes.HandleCreate), admin))
	r.Mux.Handle("PUT /v1/scopes/{name}", httpx.Chain(http.HandlerFunc(scopes.HandleUpdate), admin))
	r.Mux.Handle("DELETE /v1/scopes/{name}", httpx.Chain(http.HandlerFunc(scopes.HandleDelete), admin))

	if r.UserService != nil {
		r.Mux.Handle("POST /v1/users", httpx.Chain(&UsersHandler{UserService: r.UserService}, admin))
	}
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
