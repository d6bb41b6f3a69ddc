package app

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/aussiebroadwan/oauth20/pkg/oauthsdk"
)

func testConfig(t *testing.T, driver string) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "text",
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
		Storage: StorageConfig{
			Driver:       driver,
			DatabaseFile: filepath.Join(dir, "oauth.db"),
			Timeout:      time.Second,
		},
		Tokens: TokenConfig{
			AccessTTL:           time.Hour,
			RefreshTTL:          24 * time.Hour,
			CodeTTL:             time.Minute,
			RotateRefreshTokens: true,
			PasswordGrant:       true,
		},
		PepperFile: filepath.Join(dir, "pepper"),
		AdminToken: "admin",
	}
}

func TestApplicationServesTokens(t *testing.T) {
	for _, driver := range []string{DriverMemory, DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			app, err := New(testConfig(t, driver))
			require.NoError(t, err)
			t.Cleanup(func() { _ = app.db.Close() })

			srv := httptest.NewServer(app.router)
			t.Cleanup(srv.Close)

			sdk := oauthsdk.NewSDKClient(srv.URL)
			sdk.AdminToken = "admin"
			ctx := t.Context()

			_, err = sdk.CreateScope(ctx, oauthsdk.ScopeInfo{Name: "basic"})
			require.NoError(t, err)
			reg, err := sdk.RegisterClient(ctx, oauthsdk.RegisterClientRequest{Name: "svc", Scope: "basic"})
			require.NoError(t, err)

			conf := clientcredentials.Config{
				ClientID:     reg.ID,
				ClientSecret: reg.ClientSecret,
				TokenURL:     srv.URL + "/v1/oauth2/token",
				AuthStyle:    oauth2.AuthStyleInHeader,
			}
			tok, err := conf.Token(ctx)
			require.NoError(t, err)
			require.Equal(t, "basic", tok.Extra("scope"))

			ready, err := sdk.GetReadiness(ctx)
			require.NoError(t, err)
			require.Equal(t, "ok", ready.Status)
		})
	}
}

func TestApplicationPasswordGrantDisabled(t *testing.T) {
	cfg := testConfig(t, DriverMemory)
	cfg.Tokens.PasswordGrant = false

	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })
	require.Nil(t, app.grantEngine.Users)

	srv := httptest.NewServer(app.router)
	t.Cleanup(srv.Close)

	sdk := oauthsdk.NewSDKClient(srv.URL)
	sdk.AdminToken = "admin"
	_, err = sdk.CreateUser(t.Context(), oauthsdk.CreateUserRequest{Username: "alice", Password: "long enough"})
	var oe *oauthsdk.OAuth2Error
	require.ErrorAs(t, err, &oe)
	require.Equal(t, 404, oe.StatusCode)
}

func TestApplicationShutdown(t *testing.T) {
	app, err := New(testConfig(t, DriverSQLite))
	require.NoError(t, err)

	app.housekeepingService.Start()
	require.NoError(t, app.Shutdown())
}
