package main

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xdoubleu/essentia/v2/pkg/test"
)

func TestHome(t *testing.T) {
	tReq := test.CreateRequestTester(testApp.Routes(), http.MethodGet, "/")

	tReq.SetFollowRedirect(false)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusSeeOther, rs.StatusCode)
	assert.Equal(t, portalPath, rs.Header.Get("Location"))
}

func TestSignIn(t *testing.T) {
	tReq := test.CreateRequestTester(testApp.Routes(), http.MethodGet, "/dashboard")

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusOK, rs.StatusCode)

	body, err := io.ReadAll(rs.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `action="/api/auth/signin"`)
}

func TestRefreshTokens(t *testing.T) {
	tReq := test.CreateRequestTester(testApp.Routes(), http.MethodGet, "/dashboard")

	tReq.AddCookie(&refreshToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusOK, rs.StatusCode)

	body, err := io.ReadAll(rs.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "test-user")
}

func TestDashboard(t *testing.T) {
	tReq := test.CreateRequestTester(testApp.Routes(), http.MethodGet, "/dashboard")

	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusOK, rs.StatusCode)

	body, err := io.ReadAll(rs.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "test-user")
	assert.Contains(t, string(body), "/olympiad/admin/submissions")
}

func TestProfile(t *testing.T) {
	tReq := test.CreateRequestTester(testApp.Routes(), http.MethodGet, "/profile")

	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusOK, rs.StatusCode)

	body, err := io.ReadAll(rs.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "user@example.com")
}

func TestSignInPageRedirectsWhenSignedIn(t *testing.T) {
	tReq := test.CreateRequestTester(testApp.Routes(), http.MethodGet, "/signin")

	tReq.SetFollowRedirect(false)
	tReq.AddCookie(&accessToken)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusSeeOther, rs.StatusCode)
	assert.Equal(t, "/dashboard", rs.Header.Get("Location"))
}

func TestMetrics(t *testing.T) {
	tReq := test.CreateRequestTester(testApp.Routes(), http.MethodGet, "/metrics")

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusOK, rs.StatusCode)
}
