package gormdb

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/grand-thief-cash/todolist/infra/application/components/logging"
)

// gormLogger routes gorm output through the logging component.
type gormLogger struct {
	tag           string
	level         logger.LogLevel
	slowThreshold time.Duration
}

func NewLogger(tag string, cfg *Config) logger.Interface {
	l := &gormLogger{tag: tag, level: logger.Warn, slowThreshold: 200 * time.Millisecond}
	if cfg != nil {
		if cfg.LogLevel != "" {
			l.level = ParseLevel(cfg.LogLevel)
		}
		if cfg.SlowThreshold > 0 {
			l.slowThreshold = cfg.SlowThreshold
		}
	}
	return l
}

// ParseLevel maps debug to gorm Info; gorm has no separate debug level.
func ParseLevel(s string) logger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	nl := *l
	nl.level = level
	return &nl
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		logging.Infof(ctx, "["+l.tag+"] "+msg, data...)
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		logging.Warnf(ctx, "["+l.tag+"] "+msg, data...)
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		logging.Errorf(ctx, "["+l.tag+"] "+msg, data...)
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{zap.String("component", l.tag), zap.Duration("elapsed", elapsed), zap.Int64("rows", rows), zap.String("sql", sql)}
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		logging.Error(ctx, "gorm_query_error", append(fields, zap.Error(err))...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		logging.Warn(ctx, "gorm_slow_query", append(fields, zap.Duration("threshold", l.slowThreshold))...)
	case l.level >= logger.Info:
		logging.Debug(ctx, "gorm_query", fields...)
	}
}
