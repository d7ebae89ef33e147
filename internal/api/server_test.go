// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/solosession/internal/platform/config"
	"github.com/taibuivan/solosession/internal/platform/constants"
	"github.com/taibuivan/solosession/internal/platform/sec"
	"github.com/taibuivan/solosession/internal/users/account"
	"github.com/taibuivan/solosession/internal/users/auth"
	"github.com/taibuivan/solosession/internal/users/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "login.html"), []byte("login page"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "home.html"), []byte("home page"), 0o644))

	cfg := &config.Config{ServerPort: "0", Environment: "test"}
	registry := account.NewMemoryRegistry("ada")
	store := session.NewMemoryStore(context.Background(), time.Hour, discardLogger())
	t.Cleanup(func() { _ = store.Close() })

	signer, err := sec.NewCookieSigner("secret", constants.SessionIssuer)
	require.NoError(t, err)

	liveness, readiness := NewHealthHandlers([]DependencyCheck{{Name: "session", Check: store.Ping}}, discardLogger())
	server := NewServer(cfg, discardLogger(), Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth: auth.NewHandler(
			auth.NewIssuer(registry, store, time.Hour),
			auth.NewGate(registry, store),
			signer,
			auth.PagesIn(dir),
			auth.CookiePolicyFor(false),
		),
	})

	testServer := httptest.NewServer(server.Handler())
	t.Cleanup(testServer.Close)
	return testServer
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

/*
TestServer_TwoBrowsers drives the full middleware chain with two cookie jars
logging in as the same user.
*/
func TestServer_TwoBrowsers(t *testing.T) {
	server := newTestServer(t)
	laptop := newBrowser(t)
	phone := newBrowser(t)

	response, err := laptop.PostForm(server.URL+constants.PathLogin, url.Values{"username": {"Ada"}})
	require.NoError(t, err)
	response.Body.Close()
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, constants.PathHome, response.Request.URL.Path)
	assert.NotEmpty(t, response.Header.Get(constants.HeaderXRequestID))

	response, err = phone.PostForm(server.URL+constants.PathLogin, url.Values{"username": {"ada"}})
	require.NoError(t, err)
	response.Body.Close()
	assert.Equal(t, constants.PathHome, response.Request.URL.Path)

	response, err = laptop.Get(server.URL + constants.PathHome)
	require.NoError(t, err)
	response.Body.Close()
	assert.Equal(t, constants.PathLogin, response.Request.URL.Path)
	assert.Equal(t, constants.ErrorHintSession, response.Request.URL.Query().Get(constants.QueryError))

	response, err = phone.Get(server.URL + constants.PathHome)
	require.NoError(t, err)
	response.Body.Close()
	assert.Equal(t, constants.PathHome, response.Request.URL.Path)
}

func TestServer_InfrastructureRoutes(t *testing.T) {
	server := newTestServer(t)

	for _, path := range []string{"/health", "/ready"} {
		response, err := http.Get(server.URL + path)
		require.NoError(t, err)
		response.Body.Close()
		assert.Equal(t, http.StatusOK, response.StatusCode, path)
	}

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	response, err := client.Get(server.URL + "/")
	require.NoError(t, err)
	response.Body.Close()
	assert.Equal(t, http.StatusFound, response.StatusCode)
	assert.Equal(t, constants.PathHome, response.Header.Get("Location"))
}
