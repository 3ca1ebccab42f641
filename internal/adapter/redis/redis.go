package redis

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/sm8ta/webike_cache_microservice/internal/core/ports"
)

// RedisTransport carries cache commands over a go-redis client and turns the
// client's dials and connection failures into connect/error events.
type RedisTransport struct {
	client *redis.Client

	mu        sync.RWMutex
	onConnect []func()
	onError   []func(err error)
}

func NewRedisTransport(client *redis.Client) *RedisTransport {
	t := &RedisTransport{
		client: client,
	}
	client.AddHook(eventHook{transport: t})
	return t
}

func (t *RedisTransport) OnConnect(handler func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onConnect = append(t.onConnect, handler)
}

func (t *RedisTransport) OnError(handler func(err error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onError = append(t.onError, handler)
}

// Connect forces the first dial in the background. The outcome is only
// reported through the event handlers.
func (t *RedisTransport) Connect(ctx context.Context) {
	go func() {
		_ = t.client.Ping(ctx).Err()
	}()
}

func (t *RedisTransport) Get(ctx context.Context, key string) (string, bool, error) {
	result, err := t.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return result, true, nil
}

// SetEx sends SETEX with seconds untouched; the server decides what zero or
// negative expiries mean.
func (t *RedisTransport) SetEx(ctx context.Context, key string, seconds int, value string) error {
	return t.client.Do(ctx, "setex", key, seconds, value).Err()
}

func (t *RedisTransport) Del(ctx context.Context, key string) error {
	return t.client.Del(ctx, key).Err()
}

func (t *RedisTransport) Close() error {
	return t.client.Close()
}

func (t *RedisTransport) emitConnect() {
	t.mu.RLock()
	handlers := t.onConnect
	t.mu.RUnlock()

	for _, h := range handlers {
		h()
	}
}

func (t *RedisTransport) emitError(err error) {
	t.mu.RLock()
	handlers := t.onError
	t.mu.RUnlock()

	for _, h := range handlers {
		h(err)
	}
}

type eventHook struct {
	transport *RedisTransport
}

func (h eventHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.transport.emitError(err)
			return nil, err
		}
		h.transport.emitConnect()
		return conn, nil
	}
}

func (h eventHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if isConnectionError(err) {
			h.transport.emitError(err)
		}
		return err
	}
}

func (h eventHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

// isConnectionError reports whether err means the connection itself is
// unusable. Dial failures are excluded because DialHook already reported them.
func isConnectionError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// every pooled connection busy, not broken
	if errors.Is(err, redis.ErrPoolTimeout) {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return false
	}

	var replyErr redis.Error
	if errors.As(err, &replyErr) {
		msg := replyErr.Error()
		return strings.HasPrefix(msg, "NOAUTH") || strings.HasPrefix(msg, "WRONGPASS")
	}

	return true
}

var _ ports.CacheTransport = (*RedisTransport)(nil)
