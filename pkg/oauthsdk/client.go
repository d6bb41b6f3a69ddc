package oauthsdk

import (
	"net/http"
	"strings"
	"time"
)

// SDKClient talks to the authorization server's token and admin endpoints.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// AdminToken is sent as a bearer token on administrative calls.
	AdminToken string
}

// NewSDKClient creates a client with a 10 second request timeout.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}
