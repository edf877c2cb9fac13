// file: internal/server/server_test.go
// version: 1.1.0
// guid: 8c9d0e1f-2a3b-4c5d-6e7f-8a9b0c1d2e3f

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inpsyde/users-table/internal/kvstore"
	"github.com/inpsyde/users-table/internal/nonce"
	"github.com/inpsyde/users-table/internal/testutil"
	"github.com/inpsyde/users-table/internal/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNonceSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestServer builds a server over a mock upstream and returns it with
// the upstream call counter.
func setupTestServer(t *testing.T, status int, body string) (*Server, *atomic.Int64) {
	t.Helper()
	upstream, calls := testutil.MockUpstreamServer(t, status, body)
	svc := users.NewService(users.NewClient(upstream.URL), kvstore.NewMemory(), "", time.Minute)
	srv := NewServer(svc, Options{
		NonceSecret:   testNonceSecret,
		NonceLifetime: time.Hour,
	})
	return srv, calls
}

// detailRequest builds an authenticated detail request for the given session.
func detailRequest(session, userID, token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/ajax/user-details?user_id="+userID+"&nonce="+token, nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: session})
	return req
}

func validToken(session string) string {
	return nonce.NewIssuer(testNonceSecret, time.Hour).Issue(session)
}

func TestUsersTablePageRendersRows(t *testing.T) {
	srv, _ := setupTestServer(t, http.StatusOK, testutil.UpstreamTwoUsersResponse)

	req := httptest.NewRequest(http.MethodGet, "/users-table", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `data-user-id="1"`)
	assert.Contains(t, body, `data-user-id="2"`)
	assert.Contains(t, body, "Leanne Graham")
	assert.Contains(t, body, "Antonette")
	assert.Contains(t, body, "user-details")
	assert.Contains(t, body, "window.usersTable")

	// The page issues the session cookie the nonce is bound to.
	cookies := w.Result().Cookies()
	var found bool
	for _, ck := range cookies {
		if ck.Name == sessionCookieName && ck.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "expected a session cookie on first page view")
}

func TestUsersTablePageEmptyOnUpstreamFailure(t *testing.T) {
	srv, _ := setupTestServer(t, http.StatusInternalServerError, `{}`)

	req := httptest.NewRequest(http.MethodGet, "/users-table", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	// Degrades to an empty table, never an error page.
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "data-user-id")
}

func TestUserDetailsSuccess(t *testing.T) {
	srv, _ := setupTestServer(t, http.StatusOK, testutil.UpstreamTwoUsersResponse)

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, detailRequest("sess-1", "2", validToken("sess-1")))

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Success bool       `json:"success"`
		Data    users.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, 2, envelope.Data.ID)
	assert.Equal(t, "Ervin Howell", envelope.Data.Name)
	assert.Equal(t, "Victor Plains", envelope.Data.Address.Street)
	assert.Equal(t, "Deckow-Crist", envelope.Data.Company.Name)
}

func TestUserDetailsNotFound(t *testing.T) {
	srv, _ := setupTestServer(t, http.StatusOK, testutil.UpstreamTwoUsersResponse)

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, detailRequest("sess-1", "99", validToken("sess-1")))

	require.Equal(t, http.StatusNotFound, w.Code)
	var envelope Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
}

func TestUserDetailsBadNonceRejectedBeforeDataAccess(t *testing.T) {
	srv, calls := setupTestServer(t, http.StatusOK, testutil.UpstreamTwoUsersResponse)

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, detailRequest("sess-1", "1", "bogus"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.EqualValues(t, 0, calls.Load(), "rejected request must not touch the upstream")
}

func TestUserDetailsNonceBoundToSession(t *testing.T) {
	srv, _ := setupTestServer(t, http.StatusOK, testutil.UpstreamTwoUsersResponse)

	// Token for one session presented with another session's cookie.
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, detailRequest("sess-2", "1", validToken("sess-1")))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserDetailsMissingSessionCookie(t *testing.T) {
	srv, _ := setupTestServer(t, http.StatusOK, testutil.UpstreamTwoUsersResponse)

	req := httptest.NewRequest(http.MethodGet, "/ajax/user-details?user_id=1&nonce="+validToken("sess-1"), nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserDetailsInvalidID(t *testing.T) {
	srv, _ := setupTestServer(t, http.StatusOK, testutil.UpstreamTwoUsersResponse)

	for _, id := range []string{"abc", "-3", "0", ""} {
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, detailRequest("sess-1", id, validToken("sess-1")))
		assert.Equal(t, http.StatusBadRequest, w.Code, "user_id=%q", id)
	}
}

func TestPageAndDetailShareOneUpstreamFetch(t *testing.T) {
	srv, calls := setupTestServer(t, http.StatusOK, testutil.UpstreamTwoUsersResponse)

	pageReq := httptest.NewRequest(http.MethodGet, "/users-table", nil)
	srv.router.ServeHTTP(httptest.NewRecorder(), pageReq)

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, detailRequest("sess-1", "1", validToken("sess-1")))

	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, calls.Load(), "detail lookup must be served from the cached snapshot")
}

func TestHealthCheck(t *testing.T) {
	srv, _ := setupTestServer(t, http.StatusOK, testutil.UpstreamEmptyResponse)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := setupTestServer(t, http.StatusOK, testutil.UpstreamEmptyResponse)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStaticAssetsServed(t *testing.T) {
	srv, _ := setupTestServer(t, http.StatusOK, testutil.UpstreamEmptyResponse)

	for _, path := range []string{"/assets/app.js", "/assets/style.css"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotZero(t, w.Body.Len(), path)
	}
}

func TestNoRoute(t *testing.T) {
	srv, _ := setupTestServer(t, http.StatusOK, testutil.UpstreamEmptyResponse)

	// Unknown API/AJAX paths get a JSON 404.
	for _, path := range []string{"/api/nope", "/ajax/nope"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/json"), path)
	}

	// Everything else lands on the table page.
	req := httptest.NewRequest(http.MethodGet, "/somewhere", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/users-table", w.Header().Get("Location"))
}
