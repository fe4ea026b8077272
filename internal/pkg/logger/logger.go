package logger

import (
	"context"
	"fmt"
	"github.com/ougirez/covidstat/internal/pkg/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"sync"
)

var (
	global   = zap.NewNop()
	globalMx sync.RWMutex
)

// Init builds a production zap logger with the given level and installs it globally.
func Init(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("zapcore.ParseLevel: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("cfg.Build: %w", err)
	}

	SetLogger(l)
	return nil
}

// SetLogger replaces the global logger. Used by tests to plug in an observer core.
func SetLogger(l *zap.Logger) {
	globalMx.Lock()
	defer globalMx.Unlock()

	global = l
}

func Sync() {
	_ = get().Sync()
}

// WithRequestID stores the request id so that every entry logged with ctx carries it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, constants.CtxKeyRequestID, requestID)
}

func get() *zap.Logger {
	globalMx.RLock()
	defer globalMx.RUnlock()

	return global
}

func fromContext(ctx context.Context) *zap.SugaredLogger {
	l := get()
	if ctx != nil {
		if id, ok := ctx.Value(constants.CtxKeyRequestID).(string); ok {
			l = l.With(zap.String("request_id", id))
		}
	}
	return l.Sugar()
}

func Debugf(ctx context.Context, format string, args ...interface{}) {
	fromContext(ctx).Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	fromContext(ctx).Infof(format, args...)
}

func Infow(ctx context.Context, msg string, keysAndValues ...interface{}) {
	fromContext(ctx).Infow(msg, keysAndValues...)
}

func Warnf(ctx context.Context, format string, args ...interface{}) {
	fromContext(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	fromContext(ctx).Errorf(format, args...)
}

func Error(ctx context.Context, msg string) {
	fromContext(ctx).Error(msg)
}

func Fatal(ctx context.Context, args ...interface{}) {
	fromContext(ctx).Fatal(args...)
}
