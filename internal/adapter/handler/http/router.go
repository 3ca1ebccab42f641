package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sm8ta/webike_cache_microservice/internal/config"
	"github.com/sm8ta/webike_cache_microservice/internal/core/ports"
)

type Router struct {
	*gin.Engine
	server *http.Server
}

func NewRouter(
	config *config.HTTP,
	tokenService ports.TokenService,
	cacheHandler *CacheHandler,
	healthHandler *HealthHandler,
) (*Router, error) {
	if config.Env == "prod" || config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// CORS
	corsConfig := cors.DefaultConfig()
	if config.AllowedOrigins == "" || config.AllowedOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(config.AllowedOrigins, ",")
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", requestIDHeader)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), RequestIDMiddleware(), cors.New(corsConfig))

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health", healthHandler.Health)

	entries := router.Group("/cache")
	entries.Use(AuthMiddleware(tokenService))
	{
		entries.GET("/:key", cacheHandler.GetEntry)
		entries.PUT("/:key", AdminMiddleware(), cacheHandler.SetEntry)
		entries.DELETE("/:key", AdminMiddleware(), cacheHandler.DeleteEntry)
	}

	return &Router{
		Engine: router,
		server: &http.Server{Handler: router},
	}, nil
}

// Serve blocks until the server stops. A Shutdown is not reported as an error.
func (r *Router) Serve(listenAddr string) error {
	r.server.Addr = listenAddr
	if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (r *Router) Shutdown(ctx context.Context) error {
	return r.server.Shutdown(ctx)
}
