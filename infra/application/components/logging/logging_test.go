package logging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func TestFactoryDefaults(t *testing.T) {
	cfg := &LoggingConfig{Enabled: true, Output: "file"}
	comp, err := NewFactory().Create(cfg)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if comp.Name() != "logging" {
		t.Fatalf("name = %s", comp.Name())
	}
	if cfg.Level != "info" || cfg.Format != "json" || cfg.FileConfig == nil {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestFactoryRejectsBadFormat(t *testing.T) {
	if _, err := NewFactory().Create(&LoggingConfig{Enabled: true, Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestBuildWritesToFile(t *testing.T) {
	dir := t.TempDir()
	cfg := &LoggingConfig{Enabled: true, Output: "file", FileConfig: &FileConfig{Dir: dir, Filename: "svc"}}
	SetDefaults(cfg)
	z, err := Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	FromZap(z).Info(context.Background(), "hello", zap.Int("n", 1))
	_ = z.Sync()
	data, err := os.ReadFile(filepath.Join(dir, "svc.log"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"message":"hello"`) {
		t.Fatalf("log line missing: %s", data)
	}
}

func TestContextFields(t *testing.T) {
	tid, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	sid, _ := trace.SpanIDFromHex("0102030405060708")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: tid, SpanID: sid, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-1")

	fields := contextFields(ctx, []zap.Field{zap.String("k", "v")})
	keys := map[string]string{}
	for _, f := range fields {
		keys[f.Key] = f.String
	}
	if keys["trace_id"] != tid.String() || keys["span_id"] != sid.String() || keys["request_id"] != "req-1" {
		t.Fatalf("unexpected fields: %v", keys)
	}
	if len(contextFields(context.Background(), nil)) != 0 {
		t.Fatalf("plain ctx should add nothing")
	}
}

func TestIntervalWriterRotatesAndCleans(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "app.log.20000101")
	if err := os.WriteFile(old, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.Local)
	rc := &RotateConfig{Enabled: true, RotateInterval: time.Hour, MaxAge: 24 * time.Hour, CleanupEnabled: true}
	w := &intervalRotatingWriter{dir: dir, base: "app", cfg: rc, now: func() time.Time { return now }}
	if err := w.rotateLocked(now); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	defer w.Close()
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expected old file removed, stat err = %v", err)
	}
	_, _ = w.Write([]byte("a\n"))
	now = now.Add(2 * time.Hour)
	_, _ = w.Write([]byte("b\n"))

	matches, _ := filepath.Glob(filepath.Join(dir, "app.log.*"))
	if len(matches) != 2 {
		t.Fatalf("expected 2 rotated files, got %v", matches)
	}
}

func TestNoopBeforeStart(t *testing.T) {
	Info(context.Background(), "dropped")
	if Z() == nil {
		t.Fatalf("Z must never be nil")
	}
}
