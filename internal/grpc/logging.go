package grpc

import (
	"context"
	"fmt"

	grpclog "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"

	"github.com/sm8ta/webike_cache_microservice/internal/core/ports"
)

// InterceptorLogger adapts ports.LoggerPort to interceptor logger.
func InterceptorLogger(l ports.LoggerPort) grpclog.Logger {
	return grpclog.LoggerFunc(func(ctx context.Context, lvl grpclog.Level, msg string, fields ...any) {
		fieldsMap := make(map[string]interface{}, len(fields)/2)
		for i := 0; i+1 < len(fields); i += 2 {
			fieldsMap[fmt.Sprintf("%v", fields[i])] = fields[i+1]
		}

		switch lvl {
		case grpclog.LevelInfo:
			l.InfoGRPC(ctx, msg, fieldsMap)
		case grpclog.LevelWarn:
			l.WarnGRPC(ctx, msg, fieldsMap)
		case grpclog.LevelError:
			l.ErrorGRPC(ctx, msg, fieldsMap)
		default:
			l.DebugGRPC(ctx, msg, fieldsMap)
		}
	})
}
