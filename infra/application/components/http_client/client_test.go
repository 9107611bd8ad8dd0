package http_client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestDoJSONRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Default") != "1" || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("headers not merged: %v", r.Header)
		}
		var in item
		_ = json.NewDecoder(r.Body).Decode(&in)
		in.ID = 42
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	ic := NewInstrumentedClient("t", &HTTPClientConfig{BaseURL: srv.URL + "/", DefaultHeaders: map[string]string{"X-Default": "1"}})
	var out item
	if _, err := ic.Post(context.Background(), "items", item{Name: "a"}, nil, &out); err != nil {
		t.Fatalf("post: %v", err)
	}
	if out.ID != 42 || out.Name != "a" {
		t.Fatalf("unexpected out: %+v", out)
	}
}

func TestDoStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"missing"}`))
	}))
	defer srv.Close()

	ic := NewInstrumentedClient("t", &HTTPClientConfig{BaseURL: srv.URL})
	_, err := ic.Get(context.Background(), "/x", map[string]string{"q": "1"}, nil, nil)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusNotFound || string(se.Body) != `{"error":"missing"}` {
		t.Fatalf("unexpected status error: %+v", se)
	}
}

func TestRetryOn5xx(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ic := NewInstrumentedClient("t", &HTTPClientConfig{
		BaseURL: srv.URL,
		Retry:   &RetryConfig{Enabled: true, MaxAttempts: 3, InitialBackoff: time.Millisecond},
	})
	resp, err := ic.Do(context.Background(), http.MethodPut, "/r", nil, nil, "body", nil)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent || atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("status=%d calls=%d", resp.StatusCode, calls)
	}
}

func TestNoRetryByDefault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ic := NewInstrumentedClient("t", &HTTPClientConfig{BaseURL: srv.URL})
	_, err := ic.Get(context.Background(), "/", nil, nil, nil)
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 status error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
}

func TestComponentDefaultClient(t *testing.T) {
	comp := NewHTTPClientsComponent(&HTTPClientsConfig{Enabled: true})
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer comp.Stop(context.Background())
	if cli, err := comp.Default(); err != nil || cli.Name != "default" {
		t.Fatalf("default client missing: %v", err)
	}
	if _, err := comp.Client("nope"); err == nil {
		t.Fatalf("expected unknown client error")
	}
}
