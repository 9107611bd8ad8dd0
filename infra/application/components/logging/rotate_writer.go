package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	dayLayout    = "20060102"
	secondLayout = "20060102150405"
)

// intervalRotatingWriter opens <base>.log.<stamp> and switches files every RotateInterval.
// The stamp is a date when the interval is a day or longer.
type intervalRotatingWriter struct {
	mu       sync.Mutex
	dir      string
	base     string
	cfg      *RotateConfig
	now      func() time.Time
	file     *os.File
	openedAt time.Time
}

func newIntervalRotatingWriter(dir, base string, rc *RotateConfig) (*intervalRotatingWriter, error) {
	if rc == nil || rc.RotateInterval <= 0 {
		return nil, fmt.Errorf("invalid rotate interval: %v", rc)
	}
	w := &intervalRotatingWriter{dir: dir, base: base, cfg: rc, now: time.Now}
	if err := w.rotateLocked(w.now()); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *intervalRotatingWriter) layout() string {
	if w.cfg.RotateInterval >= 24*time.Hour {
		return dayLayout
	}
	return secondLayout
}

func (w *intervalRotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := w.now()
	if now.Sub(w.openedAt) >= w.cfg.RotateInterval {
		if err := w.rotateLocked(now); err != nil {
			return 0, err
		}
	}
	return w.file.Write(p)
}

func (w *intervalRotatingWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	return w.file.Sync()
}

func (w *intervalRotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *intervalRotatingWriter) rotateLocked(now time.Time) error {
	if w.file != nil {
		_ = w.file.Sync()
		_ = w.file.Close()
	}
	name := fmt.Sprintf("%s.log.%s", w.base, now.Format(w.layout()))
	f, err := os.OpenFile(filepath.Join(w.dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open rotated log file: %w", err)
	}
	w.file, w.openedAt = f, now
	if w.cfg.CleanupEnabled && w.cfg.MaxAge > 0 {
		w.cleanupLocked(now)
	}
	return nil
}

func (w *intervalRotatingWriter) cleanupLocked(now time.Time) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}
	cutoff := now.Add(-w.cfg.MaxAge)
	prefix := w.base + ".log."
	for _, e := range entries {
		stamp, ok := strings.CutPrefix(e.Name(), prefix)
		if !ok {
			continue
		}
		var layout string
		switch len(stamp) {
		case len(dayLayout):
			layout = dayLayout
		case len(secondLayout):
			layout = secondLayout
		default:
			continue
		}
		ts, err := time.ParseInLocation(layout, stamp, now.Location())
		if err != nil {
			continue
		}
		if ts.Before(cutoff) {
			_ = os.Remove(filepath.Join(w.dir, e.Name()))
		}
	}
}
