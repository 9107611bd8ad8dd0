package logging

import (
	"context"
	"fmt"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/grand-thief-cash/todolist/infra/application/consts"
	"github.com/grand-thief-cash/todolist/infra/application/core"
)

type Logger interface {
	Debug(ctx context.Context, msg string, fields ...zap.Field)
	Info(ctx context.Context, msg string, fields ...zap.Field)
	Warn(ctx context.Context, msg string, fields ...zap.Field)
	Error(ctx context.Context, msg string, fields ...zap.Field)
	Fatal(ctx context.Context, msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	Sync() error
}

// LoggerComponent zap 日志组件; Start 后替换全局 logger
type LoggerComponent struct {
	*core.BaseComponent
	config *LoggingConfig
	zl     *zapLogger
}

func NewLoggerComponent(cfg *LoggingConfig) *LoggerComponent {
	return &LoggerComponent{
		BaseComponent: core.NewBaseComponent(consts.COMPONENT_LOGGING),
		config:        cfg,
	}
}

func (lc *LoggerComponent) Start(ctx context.Context) error {
	if err := lc.BaseComponent.Start(ctx); err != nil {
		return err
	}
	z, err := Build(lc.config)
	if err != nil {
		return err
	}
	lc.zl = &zapLogger{z: z}
	z.Info("logger component started",
		zap.String("level", lc.config.Level),
		zap.String("format", lc.config.Format),
		zap.String("output", lc.config.Output),
	)
	SetGlobalLogger(lc.zl)
	return nil
}

func (lc *LoggerComponent) Stop(ctx context.Context) error {
	if lc.zl != nil {
		Info(ctx, "logger component stopping")
		_ = lc.zl.Sync()
	}
	return lc.BaseComponent.Stop(ctx)
}

func (lc *LoggerComponent) HealthCheck() error {
	if err := lc.BaseComponent.HealthCheck(); err != nil {
		return err
	}
	if lc.zl == nil {
		return fmt.Errorf("zap logger is not initialized")
	}
	return nil
}

func (lc *LoggerComponent) GetLogger() Logger {
	if lc.zl == nil {
		return L()
	}
	return lc.zl
}

func (lc *LoggerComponent) GetZapLogger() *zap.Logger {
	if lc.zl == nil {
		return nil
	}
	return lc.zl.z
}

// zapLogger adapts *zap.Logger to Logger and enriches entries from ctx.
type zapLogger struct {
	z *zap.Logger
}

// FromZap wraps an existing zap logger, e.g. one returned by Build.
func FromZap(z *zap.Logger) Logger { return &zapLogger{z: z} }

func (l *zapLogger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.DebugLevel, msg, fields)
}
func (l *zapLogger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.InfoLevel, msg, fields)
}
func (l *zapLogger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.WarnLevel, msg, fields)
}
func (l *zapLogger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.ErrorLevel, msg, fields)
}

// Fatal relies on zap calling os.Exit.
func (l *zapLogger) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	l.log(ctx, zapcore.FatalLevel, msg, fields)
}

func (l *zapLogger) With(fields ...zap.Field) Logger { return &zapLogger{z: l.z.With(fields...)} }

func (l *zapLogger) Sync() error { return l.z.Sync() }

func (l *zapLogger) log(ctx context.Context, level zapcore.Level, msg string, fields []zap.Field) {
	ce := l.z.Check(level, msg)
	if ce == nil {
		return
	}
	ce.Write(contextFields(ctx, fields)...)
}

// contextFields prepends trace and request identifiers unless the caller already set them.
func contextFields(ctx context.Context, fields []zap.Field) []zap.Field {
	if ctx == nil {
		return fields
	}
	var extra []zap.Field
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		if !hasField(fields, consts.KEY_TraceID) {
			extra = append(extra, zap.String(consts.KEY_TraceID, sc.TraceID().String()))
		}
		if !hasField(fields, consts.KEY_SpanID) {
			extra = append(extra, zap.String(consts.KEY_SpanID, sc.SpanID().String()))
		}
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" && !hasField(fields, "request_id") {
		extra = append(extra, zap.String("request_id", reqID))
	}
	if len(extra) == 0 {
		return fields
	}
	return append(extra, fields...)
}

func hasField(fields []zap.Field, key string) bool {
	for _, f := range fields {
		if f.Key == key {
			return true
		}
	}
	return false
}
