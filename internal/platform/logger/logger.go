package logger

import (
	"context"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "console", "text":
		return FormatConsole
	default:
		return FormatJSON
	}
}

type Options struct {
	Level  string // debug|info|warn|error (default info)
	Format Format
	App    string
}

// New crea un *zap.Logger a partir de las opciones.
func New(opts Options) (*zap.Logger, error) {
	level := strings.TrimSpace(opts.Level)
	if level == "" {
		level = "info"
	}
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	if opts.Format == FormatConsole {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = lvl
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder

	l, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	if app := strings.TrimSpace(opts.App); app != "" {
		l = l.With(zap.String("app", app))
	}
	return l, nil
}

var defaultLogger atomic.Pointer[zap.Logger]

func init() {
	defaultLogger.Store(zap.NewNop())
}

// SetDefault define el logger usado cuando el context no trae uno.
func SetDefault(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	defaultLogger.Store(l)
}

type ctxKey struct{}

func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// Get devuelve el logger del context o el default.
func Get(ctx context.Context) *zap.Logger {
	if l, _ := ctx.Value(ctxKey{}).(*zap.Logger); l != nil {
		return l
	}
	return defaultLogger.Load()
}

// WithFields agrega campos al logger del context.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	return WithLogger(ctx, Get(ctx).With(fields...))
}
