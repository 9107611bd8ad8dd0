package registry_ext

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grand-thief-cash/todolist/infra/application"
	"github.com/grand-thief-cash/todolist/infra/application/components/http_server"
	appconsts "github.com/grand-thief-cash/todolist/infra/application/consts"
	bizConfig "github.com/grand-thief-cash/todolist/internal/config"
	"github.com/grand-thief-cash/todolist/internal/consts"
)

const memoryConfig = `
app_info:
  app_name: todolist
  env: test
logging:
  enabled: true
  level: error
  format: json
  output: stderr
http_server:
  enabled: true
  address: "127.0.0.1:0"
  enable_health: true
  case_insensitive_routes: false
biz_config:
  storage:
    driver: memory
  auth:
    secret: "0123456789abcdef0123456789abcdef"
`

func TestMemoryStackEndToEnd(t *testing.T) {
	t.Setenv(appconsts.ENV_APP_ENV, "")
	t.Setenv(consts.ENV_JWT_SECRET, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(memoryConfig), 0o600); err != nil {
		t.Fatal(err)
	}

	app := application.NewApp(appconsts.ENV_TEST, path)
	app.SetBizConfig(bizConfig.GetBizConfig())
	if err := app.Boot(); err != nil {
		t.Fatalf("boot: %v", err)
	}
	for _, name := range []string{consts.COMP_DAO_TASK, consts.COMP_DAO_USER, consts.COMP_SVC_TASK, consts.COMP_SVC_AUTH,
		consts.COMP_TOKEN_MANAGER, consts.COMP_TOKEN_REVOKER, consts.COMP_CTRL_TASK, consts.COMP_CTRL_AUTH} {
		if _, err := app.GetComponent(name); err != nil {
			t.Fatalf("component %s not registered: %v", name, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunWithContext(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("run: %v", err)
		}
	}()

	comp, _ := app.GetComponent(appconsts.COMPONENT_HTTP_SERVER)
	hs := comp.(*http_server.HTTPServerComponent)
	var base string
	for i := 0; i < 100 && base == ""; i++ {
		if addr := hs.Addr(); addr != "" {
			base = "http://" + addr
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if base == "" {
		t.Fatalf("http_server did not start")
	}

	post := func(path, token string, body any) *http.Response {
		b, _ := json.Marshal(body)
		req, _ := http.NewRequest(http.MethodPost, base+path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		return resp
	}

	resp := post("/api/Auth/register", "", map[string]string{"username": "ann", "email": "ann@example.com", "password": "secret1"})
	var tok struct {
		Token string `json:"token"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&tok)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || tok.Token == "" {
		t.Fatalf("register: %d", resp.StatusCode)
	}

	resp = post("/api/Tasks", tok.Token, map[string]any{"title": "ship it", "dueDate": "2024-03-01T10:00:00Z", "priority": "high"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated || resp.Header.Get("Location") == "" {
		t.Fatalf("create: %d", resp.StatusCode)
	}

	resp = post("/api/Tasks", "", map[string]any{"title": "anonymous", "dueDate": "2024-03-01T10:00:00Z"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated create: %d", resp.StatusCode)
	}

	health, err := http.Get(base + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Fatalf("healthz: %d", health.StatusCode)
	}
}
