// file: internal/testutil/mock_upstream.go
// version: 1.0.0
// guid: 1e2f3a4b-5c6d-7e8f-9a0b-1c2d3e4f5a6b

package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// MockUpstreamServer creates an httptest.Server that answers every request
// with the given status and body, and counts the requests it saw through the
// returned counter. The counter is atomic because the handler runs on the
// server's goroutines while tests read it from their own.
func MockUpstreamServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	calls := new(atomic.Int64)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

// UpstreamTwoUsersResponse is a minimal two-record collection.
const UpstreamTwoUsersResponse = `[
	{
		"id": 1,
		"name": "Leanne Graham",
		"username": "Bret",
		"email": "Sincere@april.biz",
		"phone": "1-770-736-8031 x56442",
		"website": "hildegard.org",
		"address": {"street": "Kulas Light", "suite": "Apt. 556", "city": "Gwenborough", "zipcode": "92998-3874", "geo": {"lat": "-37.3159", "lng": "81.1496"}},
		"company": {"name": "Romaguera-Crona", "catchPhrase": "Multi-layered client-server neural-net", "bs": "harness real-time e-markets"}
	},
	{
		"id": 2,
		"name": "Ervin Howell",
		"username": "Antonette",
		"email": "Shanna@melissa.tv",
		"phone": "010-692-6593 x09125",
		"website": "anastasia.net",
		"address": {"street": "Victor Plains", "suite": "Suite 879", "city": "Wisokyburgh", "zipcode": "90566-7771", "geo": {"lat": "-43.9509", "lng": "-34.4618"}},
		"company": {"name": "Deckow-Crist", "catchPhrase": "Proactive didactic contingency", "bs": "synergize scalable supply-chains"}
	}
]`

// UpstreamEmptyResponse is a well-formed empty collection.
const UpstreamEmptyResponse = `[]`

// UpstreamMalformedResponse does not parse as a user collection.
const UpstreamMalformedResponse = `{"oops": "not an array"`
