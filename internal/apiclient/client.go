// Package apiclient issues exactly one HTTP request per task or auth intent and
// normalizes failures into *APIError. Retries are never attempted.
package apiclient

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/grand-thief-cash/todolist/infra/application/components/http_client"
	"github.com/grand-thief-cash/todolist/internal/model"
)

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

const clientName = "todolist-api"

type Client struct {
	http  *http_client.InstrumentedClient
	owned *http_client.HTTPClientsComponent

	mu    sync.RWMutex
	token string
}

// New builds a client for baseURL on a private http_clients component; cfg may be nil.
func New(baseURL string, cfg *http_client.HTTPClientConfig) *Client {
	c := http_client.HTTPClientConfig{}
	if cfg != nil {
		c = *cfg
	}
	c.BaseURL = baseURL
	hc := http_client.NewHTTPClientsComponent(&http_client.HTTPClientsConfig{
		Enabled: true,
		Default: clientName,
		Clients: map[string]*http_client.HTTPClientConfig{clientName: &c},
	})
	// only a disabled config fails to start
	_ = hc.Start(context.Background())
	cli, err := FromComponent(hc, clientName)
	if err != nil {
		cli = &Client{http: http_client.NewInstrumentedClient(clientName, &c)}
		cli.http.Retry = nil
	}
	cli.owned = hc
	return cli
}

// FromComponent uses a named client of a started http_clients component ("" is its default).
// Any retry policy on that client is dropped.
func FromComponent(hc *http_client.HTTPClientsComponent, name string) (*Client, error) {
	ic, err := hc.Client(name)
	if err != nil {
		return nil, err
	}
	cp := *ic
	cp.Retry = nil
	return &Client{http: &cp}, nil
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) Close() {
	if c.owned != nil {
		_ = c.owned.Stop(context.Background())
		return
	}
	c.http.CloseIdleConnections()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	headers := map[string]string{}
	if tok := c.Token(); tok != "" {
		headers["Authorization"] = "Bearer " + tok
	}
	_, err := c.http.Do(ctx, method, path, nil, headers, body, out)
	return classify(err)
}

func taskPath(id int64) string { return "/api/Tasks/" + strconv.FormatInt(id, 10) }

func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var list []model.Task
	if err := c.do(ctx, http.MethodGet, "/api/Tasks", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	var t model.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTask posts t without its id and returns the stored record.
func (c *Client) CreateTask(ctx context.Context, t model.Task) (*model.Task, error) {
	t.ID = 0
	var created model.Task
	if err := c.do(ctx, http.MethodPost, "/api/Tasks", t, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateTask(ctx context.Context, t model.Task) error {
	return c.do(ctx, http.MethodPut, taskPath(t.ID), t, nil)
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func (c *Client) CompleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPut, "/api/Tasks/complete/"+strconv.FormatInt(id, 10), nil, nil)
}

// ToggleComplete sends t with isCompleted inverted and returns that version on success.
func (c *Client) ToggleComplete(ctx context.Context, t model.Task) (model.Task, error) {
	t.IsCompleted = !t.IsCompleted
	if err := c.UpdateTask(ctx, t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*Session, error) {
	var s Session
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/Auth/register", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var s Session
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/Auth/login", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/Auth/logout", nil, nil)
}
