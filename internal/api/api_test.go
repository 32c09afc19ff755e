// ABOUTME: Shared test scaffolding for the contract layer: a scripted backend and envelope writers
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tripnara/tripnara-go/internal/httpclient"
)

type routes map[string]http.HandlerFunc

func newTestAPI(t *testing.T, r routes, opts ...func(*Options)) *API {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, h := range r {
		mux.HandleFunc(pattern, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := httpclient.New(httpclient.Options{BaseURL: srv.URL, Tokens: httpclient.NewMemoryTokens("t1")})
	require.NoError(t, err)
	o := Options{}
	for _, fn := range opts {
		fn(&o)
	}
	return New(c, o)
}

func ok(data any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, data)
	}
}

func writeEnvelope(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func fail(status int, code, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, map[string]any{
			"success": false,
			"error":   map[string]string{"code": code, "message": message},
		})
	}
}

func decodeBody(t *testing.T, r *http.Request, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r.Body).Decode(v))
}
