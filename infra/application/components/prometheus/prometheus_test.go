package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCountersExposed(t *testing.T) {
	off := false
	comp, err := NewFactory().Create(&Config{Enabled: true, Namespace: "todolist", Subsystem: "tasks", CollectGoMetrics: &off, CollectProcess: &off})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	c := comp.(*Component)
	cv := c.NewCounter("operations_total", "ops", []string{"op"})
	cv.WithLabelValues("create").Inc()
	if again := c.NewCounter("operations_total", "ops", []string{"op"}); again != cv {
		t.Fatalf("duplicate registration should return the existing vec")
	}
	c.NewHistogram("duration_seconds", "latency", []string{"op"}, nil).WithLabelValues("create").Observe(0.01)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{`todolist_tasks_operations_total{op="create"} 1`, "todolist_tasks_duration_seconds_bucket"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
