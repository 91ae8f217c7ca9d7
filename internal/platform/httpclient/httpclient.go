// Package httpclient es el cliente saliente para APIs que responden con el
// envelope {success, data} / {error, message} de este servicio.
package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultTimeout = 5 * time.Second
	maxBody        = 1 << 20
)

type Client struct {
	http    *http.Client
	baseURL string
}

type Option func(*Client)

// WithTransport reemplaza el RoundTripper (tests).
func WithTransport(tr http.RoundTripper) Option {
	return func(c *Client) { c.http.Transport = tr }
}

// New valida la base URL. El transport default propaga el trace context.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// HTTPError es una respuesta no-2xx; Label/Message vienen del body {error, message} si se pudo leer.
type HTTPError struct {
	StatusCode int
	Label      string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d %s: %s", e.StatusCode, e.Label, e.Message)
}

var ErrUnsuccessful = errors.New("httpclient: response reported success=false")

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// GetData hace GET path?query y decodifica el campo data del envelope en out.
func (c *Client) GetData(ctx context.Context, path string, query url.Values, out any) error {
	if c == nil {
		return errors.New("httpclient: nil client")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		he := &HTTPError{StatusCode: resp.StatusCode}
		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &body) == nil {
			he.Label, he.Message = body.Error, body.Message
		}
		return he
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	if !env.Success {
		return ErrUnsuccessful
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal data: %w", err)
	}
	return nil
}
