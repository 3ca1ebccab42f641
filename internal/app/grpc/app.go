package grpcapp

import (
	"fmt"
	"net"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/status"

	"github.com/sm8ta/webike_cache_microservice/internal/core/ports"
	grpcHandler "github.com/sm8ta/webike_cache_microservice/internal/grpc"
)

type App struct {
	log          ports.LoggerPort
	gRPCServer   *grpc.Server
	healthServer *health.Server
	port         int
}

// New creates new gRPC server app.
func New(
	log ports.LoggerPort,
	cache grpcHandler.LivenessSource,
	port int,
) *App {
	loggingOpts := []logging.Option{
		logging.WithLogOnEvents(logging.FinishCall),
	}

	// Recovery after panic
	recoveryOpts := []recovery.Option{
		recovery.WithRecoveryHandler(func(p interface{}) (err error) {
			log.Error("Recovered from panic in gRPC handler", map[string]interface{}{
				"panic": p,
			})
			return status.Errorf(codes.Internal, "internal error")
		}),
	}

	gRPCServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recoveryOpts...),
			logging.UnaryServerInterceptor(grpcHandler.InterceptorLogger(log), loggingOpts...),
		),
	)

	healthServer := grpcHandler.RegisterHealth(gRPCServer, cache, log)

	return &App{
		log:          log,
		gRPCServer:   gRPCServer,
		healthServer: healthServer,
		port:         port,
	}
}

// Run runs gRPC server.
func (a *App) Run() error {
	const op = "grpcapp.Run"

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", a.port))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return a.Serve(listener)
}

// Serve runs the server on an existing listener.
func (a *App) Serve(listener net.Listener) error {
	const op = "grpcapp.Serve"

	a.log.Info("Starting gRPC server", map[string]interface{}{
		"addr": listener.Addr().String(),
	})

	if err := a.gRPCServer.Serve(listener); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Stop marks every service NOT_SERVING and stops gRPC server.
func (a *App) Stop() {
	const op = "grpcapp.Stop"

	a.log.Info("Stopping gRPC server", map[string]interface{}{
		"op":   op,
		"port": a.port,
	})

	a.healthServer.Shutdown()
	a.gRPCServer.GracefulStop()
}
