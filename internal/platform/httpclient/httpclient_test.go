package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestNew_RejectsBadBaseURL(t *testing.T) {
	if _, err := New("not a url", time.Second); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGetData_DecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/x" || r.URL.Query().Get("q") != "1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"n":42}}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/", time.Second, WithTransport(http.DefaultTransport))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	var out struct {
		N int `json:"n"`
	}
	if err := c.GetData(context.Background(), "api/x", url.Values{"q": {"1"}}, &out); err != nil {
		t.Fatalf("GetData error: %v", err)
	}
	if out.N != 42 {
		t.Fatalf("expected 42, got %d", out.N)
	}
}

func TestGetData_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Bad Request","message":"amount is required"}`))
	}))
	defer srv.Close()

	c, _ := New(srv.URL, time.Second)
	err := c.GetData(context.Background(), "/x", nil, nil)
	var he *HTTPError
	if !errors.As(err, &he) || he.StatusCode != 400 || he.Message != "amount is required" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestGetData_UnsuccessfulEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	c, _ := New(srv.URL, time.Second)
	if err := c.GetData(context.Background(), "/x", nil, nil); !errors.Is(err, ErrUnsuccessful) {
		t.Fatalf("expected ErrUnsuccessful, got %v", err)
	}
}
