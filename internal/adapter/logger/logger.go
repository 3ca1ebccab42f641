package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/sm8ta/webike_cache_microservice/internal/core/ports"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

type LoggerAdapter struct {
	logger *slog.Logger
}

func NewLoggerAdapter(env string) ports.LoggerPort {
	return newLoggerAdapter(env, os.Stdout)
}

func newLoggerAdapter(env string, w io.Writer) *LoggerAdapter {
	var log *slog.Logger

	switch env {
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	case envLocal, envDev:
		fallthrough
	default:
		log = slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return &LoggerAdapter{
		logger: log,
	}
}

func (l *LoggerAdapter) With(fields map[string]interface{}) ports.LoggerPort {
	if len(fields) == 0 {
		return l
	}
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &LoggerAdapter{logger: l.logger.With(args...)}
}

func (l *LoggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.log(context.Background(), slog.LevelInfo, msg, fields)
}

func (l *LoggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.log(context.Background(), slog.LevelError, msg, fields)
}

func (l *LoggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.log(context.Background(), slog.LevelDebug, msg, fields)
}

func (l *LoggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.log(context.Background(), slog.LevelWarn, msg, fields)
}

func (l *LoggerAdapter) InfoGRPC(ctx context.Context, msg string, fields any) {
	l.log(ctx, slog.LevelInfo, msg, fields)
}

func (l *LoggerAdapter) ErrorGRPC(ctx context.Context, msg string, fields any) {
	l.log(ctx, slog.LevelError, msg, fields)
}

func (l *LoggerAdapter) DebugGRPC(ctx context.Context, msg string, fields any) {
	l.log(ctx, slog.LevelDebug, msg, fields)
}

func (l *LoggerAdapter) WarnGRPC(ctx context.Context, msg string, fields any) {
	l.log(ctx, slog.LevelWarn, msg, fields)
}

func (l *LoggerAdapter) log(ctx context.Context, level slog.Level, msg string, fields any) {
	if m, ok := fields.(map[string]interface{}); ok && m == nil {
		fields = nil
	}
	if fields == nil {
		l.logger.Log(ctx, level, msg)
		return
	}
	l.logger.Log(ctx, level, msg, slog.Any("fields", fields))
}
