package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sm8ta/webike_cache_microservice/internal/adapter/logger"
	"github.com/sm8ta/webike_cache_microservice/internal/adapter/prometheus"
	"github.com/sm8ta/webike_cache_microservice/internal/config"
	"github.com/sm8ta/webike_cache_microservice/internal/core/domain"
)

const testSecret = "0123456789abcdef"

type fakeCache struct {
	mu      sync.Mutex
	alive   bool
	data    map[string]string
	lastTTL int
	fail    error
}

func (f *fakeCache) IsAlive() bool { return f.alive }

func (f *fakeCache) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return "", false, &domain.TransportError{Op: "get", Key: key, Err: f.fail}
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value any, durationSeconds int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	encoded, err := domain.EncodeValue(value)
	if err != nil {
		return err
	}
	if f.fail != nil {
		return &domain.TransportError{Op: "set", Key: key, Err: f.fail}
	}
	f.data[key] = encoded
	f.lastTTL = durationSeconds
	return nil
}

func (f *fakeCache) Del(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return &domain.TransportError{Op: "del", Key: key, Err: f.fail}
	}
	delete(f.data, key)
	return nil
}

type testEnv struct {
	router *Router
	cache  *fakeCache
	tokens *JWTTokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewLoggerAdapter("prod")
	metrics := prometheus.NewPrometheusAdapterWithRegistry(prom.NewRegistry())
	cache := &fakeCache{alive: true, data: map[string]string{}}
	tokens := NewJWTTokenService(testSecret, time.Hour, log)

	router, err := NewRouter(
		&config.HTTP{Env: "local", AllowedOrigins: "*"},
		tokens,
		NewCacheHandler(cache, log, metrics),
		NewHealthHandler(cache, metrics),
	)
	require.NoError(t, err)

	return &testEnv{router: router, cache: cache, tokens: tokens}
}

func (e *testEnv) token(t *testing.T, role domain.Role) string {
	t.Helper()
	token, err := e.tokens.CreateToken("svc-test", role)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"redis": true}, decode(t, w)["data"])
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	env.cache.alive = false
	w = env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, map[string]interface{}{"redis": false}, body["data"])
}

func TestRequestIDIsKept(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestCacheRoutes_RequireToken(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/cache/k", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/cache/k", "not-a-jwt", nil).Code)

	other := NewJWTTokenService("another-secret-value", time.Hour, logger.NewLoggerAdapter("prod"))
	forged, err := other.CreateToken("svc", domain.Admin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/cache/k", forged, nil).Code)
}

func TestCacheRoutes_ReaderCannotWrite(t *testing.T) {
	env := newTestEnv(t)
	reader := env.token(t, domain.Reader)

	w := env.do(t, http.MethodPut, "/cache/k", reader, map[string]interface{}{"value": "v", "duration": 10})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodDelete, "/cache/k", reader, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/cache/k", reader, nil).Code)
}

func TestCacheRoutes_SetGetDelete(t *testing.T) {
	env := newTestEnv(t)
	admin := env.token(t, domain.Admin)

	w := env.do(t, http.MethodPut, "/cache/k", admin, map[string]interface{}{"value": "v", "duration": 10})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, env.cache.lastTTL)

	w = env.do(t, http.MethodGet, "/cache/k", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"key": "k", "value": "v"}, decode(t, w)["data"])

	require.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, "/cache/k", admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/cache/k", admin, nil).Code)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, "/cache/k", admin, nil).Code, "delete is idempotent")
}

func TestCacheRoutes_SetValueTypes(t *testing.T) {
	env := newTestEnv(t)
	admin := env.token(t, domain.Admin)

	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{name: "number", value: 42, want: "42"},
		{name: "float", value: 0.5, want: "0.5"},
		{name: "bool", value: false, want: "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPut, "/cache/"+tt.name, admin, map[string]interface{}{"value": tt.value, "duration": 60})
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, env.cache.data[tt.name])
		})
	}
}

func TestCacheRoutes_SetBadRequests(t *testing.T) {
	env := newTestEnv(t)
	admin := env.token(t, domain.Admin)

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "missing value", body: map[string]interface{}{"duration": 10}},
		{name: "missing duration", body: map[string]interface{}{"value": "v"}},
		{name: "object value", body: map[string]interface{}{"value": map[string]string{"a": "b"}, "duration": 10}},
		{name: "fractional duration", body: map[string]interface{}{"value": "v", "duration": 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPut, "/cache/k", admin, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCacheRoutes_ZeroDurationIsPassedThrough(t *testing.T) {
	env := newTestEnv(t)
	admin := env.token(t, domain.Admin)

	w := env.do(t, http.MethodPut, "/cache/k", admin, map[string]interface{}{"value": "v", "duration": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.cache.lastTTL)
}

func TestCacheRoutes_TransportErrorIsBadGateway(t *testing.T) {
	env := newTestEnv(t)
	admin := env.token(t, domain.Admin)
	env.cache.fail = errors.New("connection refused")

	assert.Equal(t, http.StatusBadGateway, env.do(t, http.MethodGet, "/cache/k", admin, nil).Code)
	assert.Equal(t, http.StatusBadGateway,
		env.do(t, http.MethodPut, "/cache/k", admin, map[string]interface{}{"value": "v", "duration": 10}).Code)
	assert.Equal(t, http.StatusBadGateway, env.do(t, http.MethodDelete, "/cache/k", admin, nil).Code)
}

func TestJWTTokenService_RoundTrip(t *testing.T) {
	tokens := NewJWTTokenService(testSecret, time.Hour, logger.NewLoggerAdapter("prod"))

	token, err := tokens.CreateToken("worker-1", domain.Reader)
	require.NoError(t, err)

	payload, err := tokens.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "worker-1", payload.Subject)
	assert.Equal(t, domain.Reader, payload.Role)
}

func TestJWTTokenService_Expired(t *testing.T) {
	tokens := NewJWTTokenService(testSecret, time.Nanosecond, logger.NewLoggerAdapter("prod"))

	token, err := tokens.CreateToken("worker-1", domain.Admin)
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	_, err = tokens.VerifyToken(token)
	assert.Error(t, err)
}
