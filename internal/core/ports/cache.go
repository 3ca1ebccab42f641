package ports

import "context"

// CachePort is the surface the rest of the service uses to reach the cache.
type CachePort interface {
	IsAlive() bool
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value any, durationSeconds int) error
	Del(ctx context.Context, key string) error
}

// CacheTransport is the connection to the key-value store. Connection
// events are delivered to the registered handlers asynchronously.
type CacheTransport interface {
	Connect(ctx context.Context)
	OnConnect(handler func())
	OnError(handler func(err error))

	Get(ctx context.Context, key string) (string, bool, error)
	SetEx(ctx context.Context, key string, seconds int, value string) error
	Del(ctx context.Context, key string) error
	Close() error
}
