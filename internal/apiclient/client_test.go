package apiclient

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grand-thief-cash/todolist/infra/application/components/http_client"
	"github.com/grand-thief-cash/todolist/internal/consts"
	"github.com/grand-thief-cash/todolist/internal/model"
)

func newClient(t *testing.T, h http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	c := New(srv.URL, nil)
	t.Cleanup(c.Close)
	return c, &hits
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListTasksSendsBearer(t *testing.T) {
	due := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/Tasks", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []model.Task{{ID: 1, Title: "a", DueDate: due}})
	})
	c.SetToken("tok")

	list, err := c.ListTasks(t.Context())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].Title)
	assert.True(t, list[0].DueDate.Equal(due))
}

func TestCreateTaskOmitsID(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 0, body["id"])
		assert.Equal(t, "high", body["priority"])
		w.Header().Set("Location", "/api/Tasks/9")
		writeJSON(w, http.StatusCreated, map[string]any{"id": 9, "title": body["title"], "dueDate": body["dueDate"], "priority": "high"})
	})
	p := consts.PriorityHigh
	created, err := c.CreateTask(t.Context(), model.Task{ID: 42, Title: "ship", DueDate: time.Now(), Priority: &p})
	require.NoError(t, err)
	assert.EqualValues(t, 9, created.ID)
}

func TestToggleCompleteInvertsFlag(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/Tasks/3", r.URL.Path)
		var body model.Task
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body.IsCompleted)
		w.WriteHeader(http.StatusNoContent)
	})
	got, err := c.ToggleComplete(t.Context(), model.Task{ID: 3, Title: "x", DueDate: time.Now()})
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
}

func TestCompleteAndDeletePaths(t *testing.T) {
	var seen []string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.CompleteTask(t.Context(), 4))
	require.NoError(t, c.DeleteTask(t.Context(), 4))
	assert.Equal(t, []string{"PUT /api/Tasks/complete/4", "DELETE /api/Tasks/4"}, seen)
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
	}{
		{"validation", 400, `{"error":"validation failed: title is required","title":"validation failed: title is required"}`, KindValidation, "validation failed: title is required"},
		{"bad request", 400, `{"error":"bad request: id mismatch","title":"bad request: id mismatch"}`, KindBadRequest, "bad request: id mismatch"},
		{"title preferred", 404, `{"error":"raw","title":"Task not found"}`, KindNotFound, "Task not found"},
		{"error fallback", 401, `{"error":"invalid token"}`, KindUnauthorized, "invalid token"},
		{"no body", 500, ``, KindServer, "request failed with status 500"},
		{"non json body", 502, `upstream down`, KindServer, "request failed with status 502"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			_, err := c.GetTask(t.Context(), 1)
			require.Error(t, err)
			var ae *APIError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tc.kind, ae.Kind)
			assert.Equal(t, tc.status, ae.Status)
			assert.Equal(t, tc.message, ae.Message)
			assert.Equal(t, tc.kind, KindOf(err))
		})
	}
}

func TestNoRetryOnServerError(t *testing.T) {
	c, hits := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	err := c.DeleteTask(t.Context(), 1)
	assert.Equal(t, KindServer, KindOf(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(hits))
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, nil)
	_, err := c.ListTasks(t.Context())
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindNetwork, ae.Kind)
	assert.Zero(t, ae.Status)
}

func TestAuthCalls(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/Auth/register", "/api/Auth/login":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ann", body["username"])
			writeJSON(w, http.StatusOK, Session{Token: "jwt-" + r.URL.Path, ExpiresAt: exp})
		case "/api/Auth/logout":
			assert.Equal(t, "Bearer jwt-/api/Auth/login", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	s, err := c.Register(t.Context(), "ann", "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "jwt-/api/Auth/register", s.Token)

	s, err = c.Login(t.Context(), "ann", "secret1")
	require.NoError(t, err)
	assert.True(t, s.ExpiresAt.Equal(exp))

	c.SetToken(s.Token)
	require.NoError(t, c.Logout(t.Context()))
}

func TestFromComponentDropsRetry(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	hc := http_client.NewHTTPClientsComponent(&http_client.HTTPClientsConfig{
		Enabled: true,
		Clients: map[string]*http_client.HTTPClientConfig{
			"tasks": {BaseURL: srv.URL, Retry: &http_client.RetryConfig{Enabled: true, MaxAttempts: 4, InitialBackoff: time.Millisecond}},
		},
	})
	require.NoError(t, hc.Start(t.Context()))
	t.Cleanup(func() { _ = hc.Stop(t.Context()) })

	c, err := FromComponent(hc, "tasks")
	require.NoError(t, err)
	assert.Equal(t, KindServer, KindOf(c.CompleteTask(t.Context(), 3)))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))

	_, err = FromComponent(hc, "missing")
	assert.Error(t, err)
}
