package http_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/grand-thief-cash/todolist/infra/application/components/logging"
)

type InstrumentedClient struct {
	Name           string
	BaseURL        string
	DefaultHeaders map[string]string
	Client         *http.Client
	Retry          *RetryConfig
	Underlying     *http.Transport
}

// NewInstrumentedClient builds a client with an otelhttp transport. cfg defaults are applied in place.
func NewInstrumentedClient(name string, cfg *HTTPClientConfig) *InstrumentedClient {
	cfg.ApplyDefaults()
	underlying := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &InstrumentedClient{
		Name:           name,
		BaseURL:        cfg.BaseURL,
		DefaultHeaders: cfg.DefaultHeaders,
		Client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(underlying),
		},
		Retry:      cfg.Retry,
		Underlying: underlying,
	}
}

func (ic *InstrumentedClient) buildURL(path string, q map[string]string) (string, error) {
	full := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		if path != "" && path[0] != '/' {
			path = "/" + path
		}
		full = ic.BaseURL + path
	}
	u, err := url.Parse(full)
	if err != nil {
		return "", err
	}
	if len(q) > 0 {
		qs := u.Query()
		for k, v := range q {
			qs.Set(k, v)
		}
		u.RawQuery = qs.Encode()
	}
	return u.String(), nil
}

// Do sends one request. body is JSON-encoded unless it is nil, an io.Reader, []byte or string.
// A 2xx JSON response is decoded into out; status >= 400 yields *StatusError.
func (ic *InstrumentedClient) Do(ctx context.Context, method, path string, query map[string]string, headers map[string]string, body interface{}, out interface{}) (*http.Response, error) {
	if method == "" {
		method = http.MethodGet
	}
	targetURL, err := ic.buildURL(path, query)
	if err != nil {
		return nil, err
	}

	var (
		payload     []byte
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case io.Reader:
		if payload, err = io.ReadAll(b); err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
	case []byte:
		payload = b
	case string:
		payload = []byte(b)
	default:
		if payload, err = json.Marshal(b); err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		contentType = "application/json"
	}

	newReq := func() (*http.Request, error) {
		var rdr io.Reader
		if payload != nil {
			rdr = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, targetURL, rdr)
		if err != nil {
			return nil, err
		}
		for k, v := range ic.DefaultHeaders {
			req.Header.Set(k, v)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		if contentType != "" && req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", contentType)
		}
		if req.Header.Get("Accept") == "" {
			req.Header.Set("Accept", "application/json, */*")
		}
		return req, nil
	}

	start := time.Now()
	resp, err := ic.doWithRetry(ctx, newReq)
	fields := []zap.Field{
		zap.String("client", ic.Name),
		zap.String("method", method),
		zap.String("url", targetURL),
		zap.Duration("latency", time.Since(start)),
	}
	if err != nil {
		logging.Error(ctx, "http_client_request", append(fields, zap.Error(err))...)
		return resp, err
	}
	logging.Info(ctx, "http_client_request", append(fields, zap.Int("status", resp.StatusCode))...)
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp, &StatusError{StatusCode: resp.StatusCode, Body: bytes.TrimSpace(slurp)}
	}
	if out == nil {
		return resp, nil
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "json") {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return resp, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		return resp, nil
	}
	raw, _ := io.ReadAll(resp.Body)
	switch o := out.(type) {
	case *[]byte:
		*o = raw
	case *string:
		*o = string(raw)
	}
	return resp, nil
}

func (ic *InstrumentedClient) Get(ctx context.Context, path string, query map[string]string, headers map[string]string, out interface{}) (*http.Response, error) {
	return ic.Do(ctx, http.MethodGet, path, query, headers, nil, out)
}

func (ic *InstrumentedClient) Post(ctx context.Context, path string, body interface{}, headers map[string]string, out interface{}) (*http.Response, error) {
	return ic.Do(ctx, http.MethodPost, path, nil, headers, body, out)
}

// CloseIdleConnections releases pooled connections.
func (ic *InstrumentedClient) CloseIdleConnections() {
	if ic.Underlying != nil {
		ic.Underlying.CloseIdleConnections()
	}
}

// doWithRetry retries transport errors and 5xx responses with exponential backoff.
func (ic *InstrumentedClient) doWithRetry(ctx context.Context, newReq func() (*http.Request, error)) (*http.Response, error) {
	attempts := 1
	if ic.Retry != nil && ic.Retry.Enabled && ic.Retry.MaxAttempts > 1 {
		attempts = ic.Retry.MaxAttempts
	}
	var backoff time.Duration
	if ic.Retry != nil {
		backoff = ic.Retry.InitialBackoff
	}
	var lastErr error
	for attempt := 1; ; attempt++ {
		req, err := newReq()
		if err != nil {
			return nil, err
		}
		resp, err := ic.Client.Do(req)
		if err == nil && (resp.StatusCode < 500 || attempt == attempts) {
			return resp, nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("server error %d", resp.StatusCode)
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
		if attempt == attempts || ctx.Err() != nil {
			return nil, lastErr
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = time.Duration(float64(backoff) * ic.Retry.BackoffMultiplier)
		if backoff > ic.Retry.MaxBackoff {
			backoff = ic.Retry.MaxBackoff
		}
	}
}
