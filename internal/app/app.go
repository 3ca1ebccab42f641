package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	httpHandler "github.com/sm8ta/webike_cache_microservice/internal/adapter/handler/http"
	"github.com/sm8ta/webike_cache_microservice/internal/adapter/prometheus"
	redisAdapter "github.com/sm8ta/webike_cache_microservice/internal/adapter/redis"
	grpcapp "github.com/sm8ta/webike_cache_microservice/internal/app/grpc"
	"github.com/sm8ta/webike_cache_microservice/internal/config"
	"github.com/sm8ta/webike_cache_microservice/internal/core/ports"
	"github.com/sm8ta/webike_cache_microservice/internal/core/services"
)

type App struct {
	log        ports.LoggerPort
	Cache      *services.CacheClient
	transport  ports.CacheTransport
	GRPCServer *grpcapp.App
	Router     *httpHandler.Router
	listenAddr string
}

// New builds the shared cache client and both servers around it. The cache
// connection is started in the background; New does not wait for it.
func New(
	ctx context.Context,
	cfg *config.Container,
	log ports.LoggerPort,
) (*App, error) {
	const op = "app.New"

	redisConn := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	transport := redisAdapter.NewRedisTransport(redisConn)

	metrics := prometheus.NewPrometheusAdapter()

	cache := services.NewCacheClient(ctx, transport, log,
		services.WithOptimisticLiveness(cfg.Cache.OptimisticLiveness),
		services.WithMetrics(metrics),
	)

	tokenService := httpHandler.NewJWTTokenService(cfg.Token.Secret, cfg.Token.Duration, log)
	router, err := httpHandler.NewRouter(
		cfg.HTTP,
		tokenService,
		httpHandler.NewCacheHandler(cache, log, metrics),
		httpHandler.NewHealthHandler(cache, metrics),
	)
	if err != nil {
		transport.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &App{
		log:        log,
		Cache:      cache,
		transport:  transport,
		GRPCServer: grpcapp.New(log, cache, cfg.GRPC.Port),
		Router:     router,
		listenAddr: fmt.Sprintf("%s:%s", cfg.HTTP.URL, cfg.HTTP.Port),
	}, nil
}

// Run starts the gRPC and HTTP servers. Errors from either are sent to the
// returned channel.
func (a *App) Run() <-chan error {
	errs := make(chan error, 2)

	go func() {
		if err := a.GRPCServer.Run(); err != nil {
			errs <- err
		}
	}()

	go func() {
		a.log.Info("Starting the HTTP server", map[string]interface{}{
			"addr": a.listenAddr,
		})
		if err := a.Router.Serve(a.listenAddr); err != nil {
			errs <- fmt.Errorf("http server: %w", err)
		}
	}()

	return errs
}

// Stop application
func (a *App) Stop(ctx context.Context) {
	a.GRPCServer.Stop()

	if err := a.Router.Shutdown(ctx); err != nil {
		a.log.Warn("HTTP server shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := a.transport.Close(); err != nil {
		a.log.Warn("Cache transport close", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
