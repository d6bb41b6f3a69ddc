package oauthsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// ClientCredentialsGrant requests an access token for the client itself.
func (c *SDKClient) ClientCredentialsGrant(
	ctx context.Context,
	clientID, clientSecret, scope string,
) (*TokenResponse, error) {
	data := url.Values{"grant_type": {"client_credentials"}}
	if scope != "" {
		data.Set("scope", scope)
	}

	return c.requestToken(ctx, clientID, clientSecret, data)
}

// PasswordGrant exchanges resource owner credentials for a token pair.
func (c *SDKClient) PasswordGrant(
	ctx context.Context,
	clientID, clientSecret, username, password, scope string,
) (*TokenResponse, error) {
	data := url.Values{
		"grant_type": {"password"},
		"username":   {username},
		"password":   {password},
	}
	if scope != "" {
		data.Set("scope", scope)
	}

	return c.requestToken(ctx, clientID, clientSecret, data)
}

// AuthorizationCodeGrant redeems an authorization code.
func (c *SDKClient) AuthorizationCodeGrant(
	ctx context.Context,
	clientID, clientSecret, code, redirectURI string,
) (*TokenResponse, error) {
	data := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {redirectURI},
	}

	return c.requestToken(ctx, clientID, clientSecret, data)
}

// RefreshGrant requests a new access token with a refresh token. A non-empty
// scope must be a subset of the refresh token's scope.
func (c *SDKClient) RefreshGrant(
	ctx context.Context,
	clientID, clientSecret, refreshToken, scope string,
) (*TokenResponse, error) {
	data := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	if scope != "" {
		data.Set("scope", scope)
	}

	return c.requestToken(ctx, clientID, clientSecret, data)
}

// RevokeToken revokes an access or refresh token issued to the client.
func (c *SDKClient) RevokeToken(ctx context.Context, clientID, clientSecret, token string) error {
	resp, err := c.postForm(ctx, "/v1/oauth2/revoke", clientID, clientSecret, url.Values{"token": {token}})
	if err != nil {
		return err
	}

	return checkStatus(resp, http.StatusOK)
}

func (c *SDKClient) requestToken(
	ctx context.Context,
	clientID, clientSecret string,
	data url.Values,
) (*TokenResponse, error) {
	resp, err := c.postForm(ctx, "/v1/oauth2/token", clientID, clientSecret, data)
	if err != nil {
		return nil, err
	}

	var tokenResp TokenResponse
	if err := decodeJSON(resp, &tokenResp, http.StatusOK); err != nil {
		return nil, err
	}

	return &tokenResp, nil
}

// postForm sends data form-encoded with the client credentials in HTTP Basic
// authentication, escaped as RFC 6749 section 2.3.1 requires.
func (c *SDKClient) postForm(
	ctx context.Context,
	path, clientID, clientSecret string,
	data url.Values,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(url.QueryEscape(clientID), url.QueryEscape(clientSecret))

	return c.HTTPClient.Do(req)
}
