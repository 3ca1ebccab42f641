package ports

import "context"

type LoggerPort interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Debug(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})

	// With returns a logger that adds fields to every entry.
	With(fields map[string]interface{}) LoggerPort

	// Context-aware variants, used by the gRPC interceptors
	InfoGRPC(ctx context.Context, msg string, fields any)
	ErrorGRPC(ctx context.Context, msg string, fields any)
	DebugGRPC(ctx context.Context, msg string, fields any)
	WarnGRPC(ctx context.Context, msg string, fields any)
}
