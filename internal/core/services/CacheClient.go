package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sm8ta/webike_cache_microservice/internal/core/domain"
	"github.com/sm8ta/webike_cache_microservice/internal/core/ports"
)

const (
	opGet = "get"
	opSet = "set"
	opDel = "del"
)

type cacheClientOptions struct {
	optimisticLiveness bool
	metrics            ports.CacheMetricsPort
}

type CacheClientOption func(*cacheClientOptions)

// WithOptimisticLiveness sets the liveness reported before the transport has
// delivered its first connection event. Defaults to true.
func WithOptimisticLiveness(optimistic bool) CacheClientOption {
	return func(o *cacheClientOptions) {
		o.optimisticLiveness = optimistic
	}
}

func WithMetrics(metrics ports.CacheMetricsPort) CacheClientOption {
	return func(o *cacheClientOptions) {
		o.metrics = metrics
	}
}

// CacheClient wraps a single transport connection and tracks its liveness
// from the transport's connect/error events. Operations are never gated on
// liveness.
type CacheClient struct {
	transport ports.CacheTransport
	logger    ports.LoggerPort
	metrics   ports.CacheMetricsPort

	alive atomic.Bool

	// serializes flag transitions with their notifications
	eventMu   sync.Mutex
	observers []func(alive bool)
}

// NewCacheClient registers the connection observers and starts connecting in
// the background.
func NewCacheClient(
	ctx context.Context,
	transport ports.CacheTransport,
	logger ports.LoggerPort,
	opts ...CacheClientOption,
) *CacheClient {
	o := cacheClientOptions{optimisticLiveness: true}
	for _, opt := range opts {
		opt(&o)
	}

	c := &CacheClient{
		transport: transport,
		logger:    logger.With(map[string]interface{}{"component": "cache"}),
		metrics:   o.metrics,
	}
	c.alive.Store(o.optimisticLiveness)
	if c.metrics != nil {
		c.metrics.SetCacheAlive(o.optimisticLiveness)
	}

	transport.OnError(c.handleError)
	transport.OnConnect(c.handleConnect)
	transport.Connect(ctx)

	return c
}

func (c *CacheClient) handleError(err error) {
	connErr := &domain.ConnectionError{Err: err}
	c.logger.Error("Cache client failed to connect", map[string]interface{}{
		"error": connErr.Error(),
	})
	c.setAlive(false)
}

func (c *CacheClient) handleConnect() {
	c.logger.Debug("Cache client connected", nil)
	c.setAlive(true)
}

func (c *CacheClient) setAlive(alive bool) {
	c.eventMu.Lock()
	defer c.eventMu.Unlock()

	if c.alive.Swap(alive) == alive {
		return
	}
	if c.metrics != nil {
		c.metrics.SetCacheAlive(alive)
	}
	for _, fn := range c.observers {
		fn(alive)
	}
}

// OnLivenessChange registers fn to be called each time the liveness flag flips.
// fn runs while flag transitions are locked: it must not call
// OnLivenessChange itself, which would deadlock.
func (c *CacheClient) OnLivenessChange(fn func(alive bool)) {
	c.eventMu.Lock()
	defer c.eventMu.Unlock()
	c.observers = append(c.observers, fn)
}

// IsAlive reports the last observed connection state.
func (c *CacheClient) IsAlive() bool {
	return c.alive.Load()
}

// Get returns the stored value, or found == false when the key is absent.
func (c *CacheClient) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	value, found, err := c.transport.Get(ctx, key)
	if err != nil {
		c.record(opGet, "error", start)
		return "", false, &domain.TransportError{Op: opGet, Key: key, Err: err}
	}

	if found {
		c.record(opGet, "hit", start)
	} else {
		c.record(opGet, "miss", start)
	}
	return value, found, nil
}

// Set stores value under key; the store drops it after durationSeconds.
// durationSeconds is passed to the store as is.
func (c *CacheClient) Set(ctx context.Context, key string, value any, durationSeconds int) error {
	encoded, err := domain.EncodeValue(value)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := c.transport.SetEx(ctx, key, durationSeconds, encoded); err != nil {
		c.record(opSet, "error", start)
		return &domain.TransportError{Op: opSet, Key: key, Err: err}
	}
	c.record(opSet, "ok", start)
	return nil
}

// Del removes key. Deleting a missing key is not an error.
func (c *CacheClient) Del(ctx context.Context, key string) error {
	start := time.Now()
	if err := c.transport.Del(ctx, key); err != nil {
		c.record(opDel, "error", start)
		return &domain.TransportError{Op: opDel, Key: key, Err: err}
	}
	c.record(opDel, "ok", start)
	return nil
}

func (c *CacheClient) record(op, status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordCacheOperation(op, status, time.Since(start))
}

var _ ports.CachePort = (*CacheClient)(nil)
