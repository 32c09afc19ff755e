// ABOUTME: Tests for the shared client: auth header, envelope promotion, refresh-and-retry and error taxonomy
// ABOUTME: Uses httptest servers that script the backend side of each exchange
package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, srv *httptest.Server, token string, opts ...func(*Options)) (*Client, *MemoryTokens) {
	t.Helper()
	tokens := NewMemoryTokens(token)
	o := Options{BaseURL: srv.URL, Tokens: tokens}
	for _, fn := range opts {
		fn(&o)
	}
	c, err := New(o)
	require.NoError(t, err)
	return c, tokens
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestDo_AttachesBearerAndRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, 200, map[string]any{"success": true, "data": map[string]string{"id": "123"}})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, "t1")
	out, err := JSON[struct{ ID string }](context.Background(), c, Get("/trips/123"))
	require.NoError(t, err)
	assert.Equal(t, "123", out.ID)
}

func TestDo_NoTokenSendsNoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, 200, map[string]any{"success": true, "data": nil})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, "")
	require.NoError(t, Exec(context.Background(), c, Post("/auth/email/send-code", map[string]string{"email": "a@b.c"})))
}

func TestDo_EnvelopeFailureOn200(t *testing.T) {
	tests := []struct {
		name     string
		errBody  any
		wantCode string
		wantMsg  string
	}{
		{"code and message", map[string]any{"code": "TRIP_LOCKED", "message": "trip is locked"}, "TRIP_LOCKED", "trip is locked"},
		{"message falls back to code", map[string]any{"code": "TRIP_LOCKED"}, "TRIP_LOCKED", "TRIP_LOCKED"},
		{"numeric code", map[string]any{"code": 4001, "message": "bad"}, "4001", "bad"},
		{"nothing", map[string]any{}, CodeUnknown, MessageGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, 200, map[string]any{"success": false, "error": tt.errBody})
			}))
			defer srv.Close()

			c, _ := newTestClient(t, srv, "t1")
			_, err := JSON[map[string]any](context.Background(), c, Get("/trips"))
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, KindAPI, apiErr.Kind)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestDo_EnvelopeNotFoundIsSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"success": false, "error": map[string]string{"code": "NOT_FOUND", "message": "no such trip"}})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, "t1")
	_, err := JSON[map[string]any](context.Background(), c, Get("/trips/missing"))
	require.True(t, IsNotFound(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindNotFound, apiErr.Kind)
	assert.Equal(t, "no such trip", apiErr.Message)
	assert.False(t, apiErr.Blocking())
}

func TestDo_RefreshAndRetryOnce(t *testing.T) {
	var tripCalls, refreshCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case RefreshPath:
			atomic.AddInt32(&refreshCalls, 1)
			writeJSON(w, 200, map[string]string{"accessToken": "t2"})
		case "/trips/123":
			atomic.AddInt32(&tripCalls, 1)
			if r.Header.Get("Authorization") != "Bearer t2" {
				writeJSON(w, 401, map[string]any{"success": false, "error": map[string]string{"code": "UNAUTHORIZED"}})
				return
			}
			writeJSON(w, 200, map[string]any{"success": true, "data": map[string]string{"id": "123"}})
		}
	}))
	defer srv.Close()

	c, tokens := newTestClient(t, srv, "t1")
	out, err := JSON[struct{ ID string }](context.Background(), c, Get("/trips/123"))
	require.NoError(t, err)
	assert.Equal(t, "123", out.ID)
	assert.Equal(t, "t2", tokens.Token())
	assert.EqualValues(t, 2, atomic.LoadInt32(&tripCalls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
}

func TestDo_EnvelopeUnauthorizedTriggersRefresh(t *testing.T) {
	var refreshCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == RefreshPath {
			atomic.AddInt32(&refreshCalls, 1)
			writeJSON(w, 200, map[string]any{"success": true, "data": map[string]string{"accessToken": "t2"}})
			return
		}
		if r.Header.Get("Authorization") == "Bearer t2" {
			writeJSON(w, 200, map[string]any{"success": true, "data": 7})
			return
		}
		writeJSON(w, 200, map[string]any{"success": false, "error": map[string]string{"code": "UNAUTHORIZED", "message": "expired"}})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, "t1")
	n, err := JSON[int](context.Background(), c, Get("/trips/count"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
}

func TestDo_RetriedRequestNeverRefreshesTwice(t *testing.T) {
	var refreshCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == RefreshPath {
			atomic.AddInt32(&refreshCalls, 1)
			writeJSON(w, 200, map[string]string{"accessToken": "t2"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var expired int32
	c, tokens := newTestClient(t, srv, "t1", func(o *Options) {
		o.OnSessionExpired = func() { atomic.AddInt32(&expired, 1) }
	})
	_, err := c.Do(context.Background(), Get("/trips/123"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSessionExpired))
	assert.True(t, IsUnauthorized(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&expired))
	assert.Empty(t, tokens.Token())
}

func TestDo_NoTokenOn401ClearsWithoutRefresh(t *testing.T) {
	var refreshCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == RefreshPath {
			atomic.AddInt32(&refreshCalls, 1)
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var expired bool
	c, _ := newTestClient(t, srv, "", func(o *Options) { o.OnSessionExpired = func() { expired = true } })
	_, err := c.Do(context.Background(), Get("/trips"))
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.True(t, expired)
	assert.Zero(t, atomic.LoadInt32(&refreshCalls))
}

func TestDo_RefreshFailureExpiresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == RefreshPath {
			writeJSON(w, 500, map[string]any{"success": false, "error": map[string]string{"message": "boom"}})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var expired int32
	c, tokens := newTestClient(t, srv, "t1", func(o *Options) {
		o.OnSessionExpired = func() { atomic.AddInt32(&expired, 1) }
	})
	_, err := c.Do(context.Background(), Get("/trips"))
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Empty(t, tokens.Token())
	assert.EqualValues(t, 1, atomic.LoadInt32(&expired))
}

func TestDo_RefreshItself401DoesNotLoop(t *testing.T) {
	var refreshCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == RefreshPath {
			atomic.AddInt32(&refreshCalls, 1)
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var expired int32
	c, _ := newTestClient(t, srv, "t1", func(o *Options) {
		o.OnSessionExpired = func() { atomic.AddInt32(&expired, 1) }
	})
	_, err := c.Do(context.Background(), Get("/trips"))
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
	assert.EqualValues(t, 1, atomic.LoadInt32(&expired))
}

func TestDo_StatusClassification(t *testing.T) {
	tests := []struct {
		status int
		header map[string]string
		kind   Kind
	}{
		{404, nil, KindNotFound},
		{500, nil, KindServer},
		{503, nil, KindServer},
		{429, map[string]string{"Retry-After": "3"}, KindRateLimited},
		{400, nil, KindOther},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for k, v := range tt.header {
				w.Header().Set(k, v)
			}
			w.WriteHeader(tt.status)
		}))

		c, _ := newTestClient(t, srv, "t1")
		_, err := c.Do(context.Background(), Get("/trips/1"))
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr, "status %d", tt.status)
		assert.Equal(t, tt.kind, apiErr.Kind, "status %d", tt.status)
		assert.Equal(t, tt.status, apiErr.Status)
		assert.NotEmpty(t, apiErr.Message)
		if tt.kind == KindRateLimited {
			assert.Equal(t, 3*time.Second, apiErr.RetryAfter)
			assert.Contains(t, apiErr.Message, "3s")
		}
		srv.Close()
	}
}

func TestDo_ErrorBodyMessageOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 422, map[string]any{"success": false, "error": map[string]string{"code": "INVALID_DATES", "message": "end before start"}})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, "t1")
	_, err := c.Do(context.Background(), Post("/trips", map[string]string{}))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_DATES", apiErr.Code)
	assert.Equal(t, "end before start", apiErr.Error())
}

func TestDo_NotFoundHelper(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, "t1")
	_, err := c.Do(context.Background(), Get("/api/v1/fitness/profile/u1"))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsCanceled(err))
}

func TestDo_CancellationIsSilent(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, "t1")
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()
	_, err := c.Do(ctx, Get("/trips"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "cancellation must not be wrapped as an API error")
}

func TestDo_PerCallTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, "t1")
	_, err := c.Do(context.Background(), Get("/decision-engine/v1/generate-plan").WithTimeout(50*time.Millisecond))
	assert.True(t, IsTimeout(err), "got %v", err)
}

func TestDo_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(Options{BaseURL: url, Tokens: NewMemoryTokens("t1")})
	require.NoError(t, err)
	_, err = c.Do(context.Background(), Get("/trips"))
	assert.True(t, IsNetwork(err), "got %v", err)
}

func TestDo_BareSkipsEnvelopePromotion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"success": false, "results": []any{}})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, "t1")
	out, err := Bare[map[string]any](context.Background(), c, Post("/places/images/batch", nil))
	require.NoError(t, err)
	assert.Equal(t, false, out["success"])
}

func TestDo_MultipartBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		files := r.MultipartForm.File["files"]
		assert.Len(t, files, 2)
		assert.Equal(t, `["a","b"]`, r.FormValue("captions"))
		f, err := files[0].Open()
		require.NoError(t, err)
		data, _ := io.ReadAll(f)
		assert.Equal(t, "img-1", string(data))
		writeJSON(w, 200, map[string]any{"success": true, "data": map[string]int{"count": len(files)}})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, "t1")
	req := Post("/upload/place/7/images", nil).WithMultipart(&Multipart{
		Files: []File{
			{Field: "files", Name: "a.jpg", Content: []byte("img-1")},
			{Field: "files", Name: "b.jpg", Content: []byte("img-2")},
		},
		Fields: map[string]string{"captions": `["a","b"]`},
	})
	out, err := JSON[struct{ Count int }](context.Background(), c, req)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)
}

func TestDo_QueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "expert", r.URL.Query().Get("mode"))
		assert.False(t, r.URL.Query().Has("empty"))
		writeJSON(w, 200, map[string]any{"success": true, "data": true})
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, "t1")
	_, err := JSON[bool](context.Background(), c, Get("/decision-draft/d1").WithParam("mode", "expert").WithParam("empty", ""))
	require.NoError(t, err)
}

type fakeObserver struct {
	mu       sync.Mutex
	routes   []string
	refresh  []string
	statuses []int
}

func (f *fakeObserver) ObserveRequest(method, route string, status int, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes = append(f.routes, route)
	f.statuses = append(f.statuses, status)
}

func (f *fakeObserver) ObserveRefresh(result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refresh = append(f.refresh, result)
}

func TestDo_ObserverReceivesTemplatedRoutes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == RefreshPath {
			writeJSON(w, 200, map[string]string{"accessToken": "t2"})
			return
		}
		if r.Header.Get("Authorization") != "Bearer t2" {
			w.WriteHeader(401)
			return
		}
		writeJSON(w, 200, map[string]any{"success": true})
	}))
	defer srv.Close()

	obs := &fakeObserver{}
	c, _ := newTestClient(t, srv, "t1", func(o *Options) { o.Observer = obs })
	require.NoError(t, Exec(context.Background(), c, Get("/trips/123/state")))

	assert.Equal(t, []string{"/trips/:id/state", RefreshPath, "/trips/:id/state"}, obs.routes)
	assert.Equal(t, []int{401, 200, 200}, obs.statuses)
	assert.Equal(t, []string{"success"}, obs.refresh)
}

func TestRouteLabel(t *testing.T) {
	tests := []struct{ path, want string }{
		{"/trips", "/trips"},
		{"/trips/123", "/trips/:id"},
		{"/decision-draft/3f2c9a1e-8b7d-4c2a-9e1f-1234567890ab/replay", "/decision-draft/:id/replay"},
		{"/countries/JP/pack", "/countries/JP/pack"},
		{"/trips/trip_1a2b3c/items/item_9z8y7x/replace", "/trips/:id/items/:id/replace"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, routeLabel(&Request{Path: tt.path}), tt.path)
	}
	assert.Equal(t, "/custom", routeLabel(&Request{Path: "/trips/1", Route: "/custom"}))
}

func TestIsAuthBootstrap(t *testing.T) {
	assert.True(t, isAuthBootstrap("/auth/google/code"))
	assert.True(t, isAuthBootstrap("/auth/email/login"))
	assert.True(t, isAuthBootstrap(RefreshPath))
	assert.False(t, isAuthBootstrap("/auth/logout"))
	assert.False(t, isAuthBootstrap("/trips"))
}
