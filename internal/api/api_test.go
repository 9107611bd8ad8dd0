package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/grand-thief-cash/todolist/infra/application/components/http_server"
	"github.com/grand-thief-cash/todolist/internal/auth"
	"github.com/grand-thief-cash/todolist/internal/config"
	"github.com/grand-thief-cash/todolist/internal/dao"
	"github.com/grand-thief-cash/todolist/internal/model"
	"github.com/grand-thief-cash/todolist/internal/service"
)

type harness struct {
	t       *testing.T
	handler http.Handler
	tasks   dao.TaskDao
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.Default().Auth
	cfg.Secret = "0123456789abcdef0123456789abcdef"
	tokens := auth.NewTokenManager(cfg)
	revoker := auth.NewMemoryRevoker()
	tasks := dao.NewMemoryTaskDao()

	taskSvc := service.NewTaskService(true)
	taskSvc.TaskDao = tasks
	authSvc := service.NewAuthService(bcrypt.MinCost)
	authSvc.UserDao = dao.NewMemoryUserDao()
	authSvc.Tokens = tokens
	authSvc.Revoker = revoker

	tc := NewTaskController()
	tc.TaskSvc, tc.Tokens, tc.Revoker = taskSvc, tokens, revoker
	ac := NewAuthController()
	ac.AuthSvc, ac.Tokens, ac.Revoker = authSvc, tokens, revoker

	r := chi.NewRouter()
	r.Use(http_server.CaseInsensitive)
	tc.Mount(r)
	ac.Mount(r)
	return &harness{t: t, handler: r, tasks: tasks}
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			h.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h *harness) register(name string) string {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/api/Auth/register", "", map[string]string{
		"username": name, "email": name + "@example.com", "password": "secret1",
	})
	if rec.Code != http.StatusOK {
		h.t.Fatalf("register %s: %d %s", name, rec.Code, rec.Body.String())
	}
	var res service.TokenResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil || res.Token == "" {
		h.t.Fatalf("register body: %v %s", err, rec.Body.String())
	}
	return res.Token
}

func taskBody(id int64, title string) map[string]any {
	return map[string]any{
		"id":          id,
		"title":       title,
		"description": nil,
		"dueDate":     time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC).Format(time.RFC3339),
		"isCompleted": false,
		"priority":    "high",
	}
}

func TestTaskLifecycle(t *testing.T) {
	h := newHarness(t)
	tok := h.register("ann")

	rec := h.do(http.MethodPost, "/api/Tasks", tok, taskBody(0, "write report"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	var created model.Task
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	id := strconv.FormatInt(created.ID, 10)
	if loc := rec.Header().Get("Location"); loc != "/api/Tasks/"+id {
		t.Fatalf("location=%q", loc)
	}

	rec = h.do(http.MethodGet, "/api/tasks/"+id, tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: %d", rec.Code)
	}

	upd := taskBody(created.ID, "write final report")
	upd["isCompleted"] = true
	if rec = h.do(http.MethodPut, "/api/Tasks/"+id, tok, upd); rec.Code != http.StatusNoContent {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}
	if rec = h.do(http.MethodPut, "/api/Tasks/complete/"+id, tok, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("complete: %d", rec.Code)
	}

	rec = h.do(http.MethodGet, "/API/TASKS", tok, nil)
	var list []model.Task
	_ = json.Unmarshal(rec.Body.Bytes(), &list)
	if rec.Code != http.StatusOK || len(list) != 1 || list[0].Title != "write final report" || !list[0].IsCompleted {
		t.Fatalf("list: %d %s", rec.Code, rec.Body.String())
	}

	if rec = h.do(http.MethodDelete, "/api/Tasks/"+id, tok, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}
	if rec = h.do(http.MethodDelete, "/api/Tasks/"+id, tok, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("delete again: %d", rec.Code)
	}
}

func TestCreateAcceptsDueDatesWithoutOffset(t *testing.T) {
	h := newHarness(t)
	tok := h.register("ann")

	for raw, want := range map[string]string{
		"2025-06-30T10:00:00": `"dueDate":"2025-06-30T10:00:00Z"`,
		"2025-06-30":          `"dueDate":"2025-06-30T00:00:00Z"`,
	} {
		body := taskBody(0, "offsetless")
		body["dueDate"] = raw
		rec := h.do(http.MethodPost, "/api/Tasks", tok, body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("%s: %d %s", raw, rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("%s: body=%s", raw, rec.Body.String())
		}
	}
}

func TestTaskErrors(t *testing.T) {
	h := newHarness(t)
	tok := h.register("ann")

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"empty title", http.MethodPost, "/api/Tasks", taskBody(0, "  "), http.StatusBadRequest},
		{"bad priority", http.MethodPost, "/api/Tasks", map[string]any{"title": "x", "dueDate": "2024-01-01T00:00:00Z", "priority": "urgent"}, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/api/Tasks", "{not json", http.StatusBadRequest},
		{"non numeric id", http.MethodGet, "/api/Tasks/abc", nil, http.StatusBadRequest},
		{"missing", http.MethodGet, "/api/Tasks/77", nil, http.StatusNotFound},
		{"id mismatch", http.MethodPut, "/api/Tasks/5", taskBody(6, "x"), http.StatusBadRequest},
		{"complete missing", http.MethodPut, "/api/Tasks/complete/9", nil, http.StatusNotFound},
		{"zero id", http.MethodGet, "/api/Tasks/0", nil, http.StatusNotFound},
		{"negative id", http.MethodDelete, "/api/Tasks/-1", nil, http.StatusNotFound},
		{"complete zero id", http.MethodPut, "/api/Tasks/complete/0", nil, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := h.do(tc.method, tc.path, tok, tc.body)
			if rec.Code != tc.want {
				t.Fatalf("status=%d want %d body=%s", rec.Code, tc.want, rec.Body.String())
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" || body["title"] == "" {
				t.Fatalf("error body=%s", rec.Body.String())
			}
		})
	}
}

func TestUnauthorizedPerformsNoMutation(t *testing.T) {
	h := newHarness(t)
	tok := h.register("ann")
	rec := h.do(http.MethodPost, "/api/Tasks", tok, taskBody(0, "keep"))
	var created model.Task
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	id := strconv.FormatInt(created.ID, 10)

	for _, bad := range []string{"", "garbage"} {
		for _, req := range []struct{ method, path string }{
			{http.MethodGet, "/api/Tasks"},
			{http.MethodPost, "/api/Tasks"},
			{http.MethodPut, "/api/Tasks/" + id},
			{http.MethodDelete, "/api/Tasks/" + id},
			{http.MethodPut, "/api/Tasks/complete/" + id},
		} {
			if rec := h.do(req.method, req.path, bad, taskBody(created.ID, "hijack")); rec.Code != http.StatusUnauthorized {
				t.Fatalf("%s %s token=%q: %d", req.method, req.path, bad, rec.Code)
			}
		}
	}
	all, _ := h.tasks.List(t.Context(), 0)
	if len(all) != 1 || all[0].Title != "keep" || all[0].IsCompleted {
		t.Fatalf("store mutated: %+v", all)
	}
}

func TestOwnerIsolationOverHTTP(t *testing.T) {
	h := newHarness(t)
	annTok := h.register("ann")
	bobTok := h.register("bob")
	rec := h.do(http.MethodPost, "/api/Tasks", annTok, taskBody(0, "private"))
	var created model.Task
	_ = json.Unmarshal(rec.Body.Bytes(), &created)

	if rec := h.do(http.MethodGet, "/api/Tasks/"+strconv.FormatInt(created.ID, 10), bobTok, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("bob read ann's task: %d", rec.Code)
	}
}

func TestAuthEndpoints(t *testing.T) {
	h := newHarness(t)
	tok := h.register("ann")

	if rec := h.do(http.MethodPost, "/api/Auth/register", "", map[string]string{"username": "ann", "email": "ann@example.com", "password": "secret1"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: %d", rec.Code)
	}
	if rec := h.do(http.MethodPost, "/api/Auth/login", "", map[string]string{"username": "ann", "password": "nope!!"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: %d", rec.Code)
	}
	rec := h.do(http.MethodPost, "/api/Auth/login", "", map[string]string{"username": "ann", "password": "secret1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}

	if rec := h.do(http.MethodPost, "/api/Auth/logout", tok, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: %d", rec.Code)
	}
	if rec := h.do(http.MethodGet, "/api/Tasks", tok, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token still accepted: %d", rec.Code)
	}
	if rec := h.do(http.MethodPost, "/api/Auth/logout", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("logout without token: %d", rec.Code)
	}
}
