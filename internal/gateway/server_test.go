package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"shareit/internal/config"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type seenRequest struct {
	Method    string
	Path      string
	Query     string
	Body      string
	UserID    string
	APIKey    string
	RequestID string
}

type upstream struct {
	mu   sync.Mutex
	seen []seenRequest
	ts   *httptest.Server
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{}
	u.ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		u.mu.Lock()
		u.seen = append(u.seen, seenRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.RawQuery,
			Body:      string(body),
			UserID:    r.Header.Get(models.HeaderUserID),
			APIKey:    r.Header.Get("x-api-key"),
			RequestID: r.Header.Get(models.HeaderRequestID),
		})
		u.mu.Unlock()

		if r.URL.Path == "/items/404" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"item 404 not found"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	t.Cleanup(u.ts.Close)
	return u
}

func (u *upstream) requests() []seenRequest {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]seenRequest(nil), u.seen...)
}

func testConfig(serverURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Auth: config.InternalAuth{Header: "x-api-key", Key: "secret"},
			Page: config.PaginationConf{BookingsSize: 10, ItemsSize: 20, RequestsSize: 20},
		},
		Gateway: config.GatewayConfig{ServerURL: serverURL, Timeout: 5 * time.Second},
	}
}

func newTestGateway(t *testing.T, cfg *config.Config, limiter *stubLimiter) http.Handler {
	t.Helper()
	logger := zerolog.New(io.Discard)
	var s *Server
	if limiter != nil {
		s = NewServer(cfg, limiter, &logger)
	} else {
		s = NewServer(cfg, nil, &logger)
	}
	s.now = func() time.Time { return testNow }
	return s.Handler()
}

func do(h http.Handler, method, target, userID, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if userID != "" {
		req.Header.Set(models.HeaderUserID, userID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestGatewayForwards(t *testing.T) {
	up := newUpstream(t)
	h := newTestGateway(t, testConfig(up.ts.URL), nil)

	rec := do(h, http.MethodGet, "/bookings/owner?state=past&from=10&size=5", "7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(models.HeaderRequestID))

	body := `{"itemId":1,"start":"2026-05-02T10:00:00","end":"2026-05-02T12:00:00"}`
	rec = do(h, http.MethodPost, "/bookings", "8", body)
	require.Equal(t, http.StatusOK, rec.Code)

	seen := up.requests()
	require.Len(t, seen, 2)
	assert.Equal(t, seenRequest{
		Method:    http.MethodGet,
		Path:      "/bookings/owner",
		Query:     "state=past&from=10&size=5",
		UserID:    "7",
		APIKey:    "secret",
		RequestID: seen[0].RequestID,
	}, seen[0])
	assert.NotEmpty(t, seen[0].RequestID)
	assert.Equal(t, http.MethodPost, seen[1].Method)
	assert.Equal(t, body, seen[1].Body)
	assert.Equal(t, "8", seen[1].UserID)
}

func TestGatewayRelaysServerErrors(t *testing.T) {
	up := newUpstream(t)
	h := newTestGateway(t, testConfig(up.ts.URL), nil)

	rec := do(h, http.MethodGet, "/items/404", "1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "item 404 not found", errorMessage(t, rec))
}

func TestGatewayRejectsBeforeForwarding(t *testing.T) {
	up := newUpstream(t)
	h := newTestGateway(t, testConfig(up.ts.URL), nil)

	tests := []struct {
		name    string
		method  string
		target  string
		userID  string
		body    string
		message string
	}{
		{"missing header", http.MethodGet, "/bookings", "", "", models.HeaderUserID},
		{"bad header", http.MethodGet, "/items", "abc", "", models.HeaderUserID},
		{"unknown state", http.MethodGet, "/bookings?state=UNSUPPORTED_STATUS", "1", "", "Unknown state: UNSUPPORTED_STATUS"},
		{"negative from", http.MethodGet, "/requests/all?from=-1", "1", "", "from must be non-negative"},
		{"zero size", http.MethodGet, "/items/search?text=x&size=0", "1", "", "size must be positive"},
		{"bad id", http.MethodGet, "/users/abc", "", "", "id must be an integer"},
		{"bad email", http.MethodPost, "/users", "", `{"name":"Ann","email":"nope"}`, "email"},
		{"blank item name", http.MethodPost, "/items", "1", `{"name":" ","description":"d","available":true}`, "name"},
		{"missing available", http.MethodPost, "/items", "1", `{"name":"n","description":"d"}`, "available"},
		{"blank comment", http.MethodPost, "/items/1/comment", "1", `{"text":""}`, "text"},
		{"blank request", http.MethodPost, "/requests", "1", `{}`, "description"},
		{"broken json", http.MethodPatch, "/users/1", "", `{`, "invalid JSON body"},
		{"missing end", http.MethodPost, "/bookings", "1", `{"itemId":1,"start":"2026-05-02T10:00:00"}`, "end"},
		{"start in past", http.MethodPost, "/bookings", "1", `{"itemId":1,"start":"2026-04-30T10:00:00","end":"2026-05-02T10:00:00"}`, "must be in the future"},
		{"end before start", http.MethodPost, "/bookings", "1", `{"itemId":1,"start":"2026-05-03T10:00:00","end":"2026-05-02T10:00:00"}`, "must be in the future"},
		{"approved missing", http.MethodPatch, "/bookings/1", "1", "", "approved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, tt.method, tt.target, tt.userID, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, errorMessage(t, rec), tt.message)
		})
	}

	assert.Empty(t, up.requests())
}

func TestGatewayUpstreamDown(t *testing.T) {
	up := newUpstream(t)
	h := newTestGateway(t, testConfig(up.ts.URL), nil)
	up.ts.Close()

	rec := do(h, http.MethodGet, "/users", "", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGatewayHealth(t *testing.T) {
	h := newTestGateway(t, testConfig("http://127.0.0.1:1"), nil)
	rec := do(h, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

type stubLimiter struct {
	mu      sync.Mutex
	counts  map[int64]int
	failing bool
}

func (l *stubLimiter) CheckRateLimit(_ context.Context, userID int64, limit int, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failing {
		return false, errors.New("limiter down")
	}
	if l.counts == nil {
		l.counts = make(map[int64]int)
	}
	l.counts[userID]++
	return l.counts[userID] <= limit, nil
}

func TestGatewayRateLimit(t *testing.T) {
	up := newUpstream(t)
	cfg := testConfig(up.ts.URL)
	cfg.Gateway.RateLimit = config.GatewayRateLimitCfg{Enabled: true, Limit: 2, Window: time.Minute}
	limiter := &stubLimiter{}
	h := newTestGateway(t, cfg, limiter)

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/requests", "1", "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/requests", "1", "").Code)

	rec := do(h, http.MethodGet, "/requests", "1", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/requests", "2", "").Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/users", "", "").Code)

	limiter.failing = true
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/requests", "1", "").Code)
}
