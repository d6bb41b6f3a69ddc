package oauthsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ============================================================================
// Client Operations
// ============================================================================

// RegisterClient registers a client application. The returned secret is only
// available here.
func (c *SDKClient) RegisterClient(ctx context.Context, req RegisterClientRequest) (*RegisterClientResponse, error) {
	resp, err := c.doAdminRequest(ctx, http.MethodPost, "/v1/clients", req)
	if err != nil {
		return nil, err
	}

	var out RegisterClientResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListClients returns all registered clients.
func (c *SDKClient) ListClients(ctx context.Context) (*ListClientsResponse, error) {
	resp, err := c.doAdminRequest(ctx, http.MethodGet, "/v1/clients", nil)
	if err != nil {
		return nil, err
	}

	var out ListClientsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetClient returns one client.
func (c *SDKClient) GetClient(ctx context.Context, clientID string) (*ClientInfo, error) {
	resp, err := c.doAdminRequest(ctx, http.MethodGet, "/v1/clients/"+url.PathEscape(clientID), nil)
	if err != nil {
		return nil, err
	}

	var out ClientInfo
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateClient applies the non-nil fields of req.
func (c *SDKClient) UpdateClient(ctx context.Context, clientID string, req UpdateClientRequest) (*ClientInfo, error) {
	resp, err := c.doAdminRequest(ctx, http.MethodPut, "/v1/clients/"+url.PathEscape(clientID), req)
	if err != nil {
		return nil, err
	}

	var out ClientInfo
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Scope Operations
// ============================================================================

// ListScopes returns every scope, or the scopes registered to clientID when
// it is non-empty. The listing is public.
func (c *SDKClient) ListScopes(ctx context.Context, clientID string) (*ListScopesResponse, error) {
	path := "/v1/scopes"
	if clientID != "" {
		path += "?" + url.Values{"client_id": {clientID}}.Encode()
	}
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var out ListScopesResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateScope registers a scope.
func (c *SDKClient) CreateScope(ctx context.Context, req ScopeInfo) (*ScopeInfo, error) {
	resp, err := c.doAdminRequest(ctx, http.MethodPost, "/v1/scopes", req)
	if err != nil {
		return nil, err
	}

	var out ScopeInfo
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateScope replaces the description, lifetimes and eligibility of a scope.
func (c *SDKClient) UpdateScope(ctx context.Context, req ScopeInfo) (*ScopeInfo, error) {
	resp, err := c.doAdminRequest(ctx, http.MethodPut, "/v1/scopes/"+url.PathEscape(req.Name), req)
	if err != nil {
		return nil, err
	}

	var out ScopeInfo
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteScope removes a scope.
func (c *SDKClient) DeleteScope(ctx context.Context, name string) error {
	resp, err := c.doAdminRequest(ctx, http.MethodDelete, "/v1/scopes/"+url.PathEscape(name), nil)
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusNoContent)
}

// ============================================================================
// Users and Authorization Codes
// ============================================================================

// CreateUser registers a resource owner for the password grant.
func (c *SDKClient) CreateUser(ctx context.Context, req CreateUserRequest) (*UserInfo, error) {
	resp, err := c.doAdminRequest(ctx, http.MethodPost, "/v1/users", req)
	if err != nil {
		return nil, err
	}

	var out UserInfo
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// IssueAuthorizationCode asks the server for an authorization code on behalf
// of a resource owner the caller has authenticated.
func (c *SDKClient) IssueAuthorizationCode(ctx context.Context, req AuthCodeRequest) (*AuthCodeResponse, error) {
	if req.ResponseType == "" {
		req.ResponseType = "code"
	}
	resp, err := c.doAdminRequest(ctx, http.MethodPost, "/v1/oauth2/auth-codes", req)
	if err != nil {
		return nil, err
	}

	var out AuthCodeResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
