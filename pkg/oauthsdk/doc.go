/*
Package oauthsdk holds the wire types of the OAuth 2.0 authorization server and
a small client for its token and administrative endpoints.

# Token endpoint

SDKClient wraps the four supported grants. Client credentials are sent with
HTTP Basic authentication:

	client := oauthsdk.NewSDKClient("https://auth.example.com")
	tok, err := client.ClientCredentialsGrant(ctx, clientID, clientSecret, "basic")

Scopes on the wire are comma-delimited. An empty scope argument omits the
parameter and the server falls back to the client's registered scope.

# Administration

Administrative calls carry the static admin token configured on the server:

	client.AdminToken = os.Getenv("OAUTH_ADMIN_TOKEN")
	reg, err := client.RegisterClient(ctx, oauthsdk.RegisterClientRequest{
		Name:        "billing",
		Scope:       "basic,extended",
		RedirectURI: "https://billing.example.com/callback",
	})

The client secret in RegisterClientResponse is only ever returned once.

# Errors

Non-2xx responses decode into *OAuth2Error, carrying the HTTP status and the
RFC 6749 error code:

	var oe *oauthsdk.OAuth2Error
	if errors.As(err, &oe) && oe.Code == oauthsdk.ErrorCodeInvalidGrant {
		// re-authenticate
	}
*/
package oauthsdk
