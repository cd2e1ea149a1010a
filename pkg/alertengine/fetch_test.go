package alertengine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchJSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("Expected User-Agent test-agent, got %q", ua)
		}
		w.Write([]byte(`{"name":"hello"}`))
	}))
	defer srv.Close()

	var out struct {
		Name string `json:"name"`
	}
	f := NewFetcher("test-agent")
	if err := f.FetchJSON(context.Background(), srv.URL, time.Second, &out); err != nil {
		t.Fatalf("FetchJSON failed: %v", err)
	}
	if out.Name != "hello" {
		t.Errorf("Expected name hello, got %q", out.Name)
	}
}

func TestFetchJSONHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var out map[string]any
	f := NewFetcher("")
	err := f.FetchJSON(context.Background(), srv.URL, time.Second, &out)

	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("Expected *HTTPError, got %v", err)
	}
	if he.Status != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", he.Status)
	}
	if he.URL != srv.URL {
		t.Errorf("Expected URL %s, got %s", srv.URL, he.URL)
	}
}

func TestFetchJSONTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	var out map[string]any
	f := NewFetcher("")
	err := f.FetchJSON(context.Background(), srv.URL, 50*time.Millisecond, &out)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Expected ErrTimeout, got %v", err)
	}
}

func TestFetchJSONCancelledWinsOverTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	var out map[string]any
	f := NewFetcher("")
	// The deadline is short enough that both contexts are dead by the time
	// the failure is classified; cancellation must still win.
	err := f.FetchJSON(ctx, srv.URL, 40*time.Millisecond, &out)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Expected ErrCancelled, got %v", err)
	}
}

func TestFetchJSONMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"broken":`))
	}))
	defer srv.Close()

	var out map[string]any
	f := NewFetcher("")
	err := f.FetchJSON(context.Background(), srv.URL, time.Second, &out)

	var me *MalformedError
	if !errors.As(err, &me) {
		t.Fatalf("Expected *MalformedError, got %v", err)
	}
	if me.URL != srv.URL {
		t.Errorf("Expected URL %s, got %s", srv.URL, me.URL)
	}
}
