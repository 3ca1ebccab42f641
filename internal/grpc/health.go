package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/sm8ta/webike_cache_microservice/internal/core/ports"
)

// CacheService is the health check service name that follows cache liveness.
const CacheService = "cache"

type LivenessSource interface {
	IsAlive() bool
	OnLivenessChange(fn func(alive bool))
}

// RegisterHealth exposes grpc.health.v1.Health. Both the overall status and
// the "cache" service mirror the liveness flag.
func RegisterHealth(
	gRPCServer *grpc.Server,
	cache LivenessSource,
	log ports.LoggerPort,
) *health.Server {
	healthServer := health.NewServer()

	cache.OnLivenessChange(func(alive bool) {
		log.Info("Cache liveness changed", map[string]interface{}{
			"alive": alive,
		})
		setServing(healthServer, alive)
	})
	setServing(healthServer, cache.IsAlive())

	healthpb.RegisterHealthServer(gRPCServer, healthServer)
	return healthServer
}

func setServing(s *health.Server, alive bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if alive {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.SetServingStatus("", status)
	s.SetServingStatus(CacheService, status)
}
