package observable

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/obsexport/pkg/cache"
	"github.com/matzehuels/obsexport/pkg/errors"
)

const export = "const m0 = {\n  id: \"abc\",\n};\n"

func newTestClient(t *testing.T, url, key string) (*Client, cache.Cache) {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewClient(c, Config{BaseURL: url, APIKey: key, RetryDelay: time.Millisecond}), c
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(nil, Config{})
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q", c.baseURL)
	}
	if c.ttl != DefaultTTL {
		t.Errorf("ttl = %v", c.ttl)
	}
	if c.HasAPIKey() {
		t.Error("HasAPIKey() = true without key")
	}
	if _, ok := c.headers["Authorization"]; ok {
		t.Error("Authorization header set without key")
	}

	c = NewClient(nil, Config{APIKey: " secret\n", TTL: -1})
	if c.headers["Authorization"] != "ApiKey secret" {
		t.Errorf("Authorization = %q", c.headers["Authorization"])
	}
	if c.ttl != 0 {
		t.Errorf("negative TTL should disable expiry, got %v", c.ttl)
	}
}

func TestFetchNotebookPaths(t *testing.T) {
	tests := []struct {
		name string
		key  string
		path string
		auth string
	}{
		{"@user/demo", "", "/@user/demo.js", ""},
		{"user/demo@12", "", "/@user/demo@12.js", ""},
		{"0123456789abcdef", "k", "/d/0123456789abcdef.js", "ApiKey k"},
		{"0123456789abcdef@7", "k", "/d/0123456789abcdef@7.js", "ApiKey k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != tt.path {
					t.Errorf("path = %q, want %q", r.URL.Path, tt.path)
				}
				if got := r.Header.Get("Authorization"); got != tt.auth {
					t.Errorf("Authorization = %q, want %q", got, tt.auth)
				}
				w.Write([]byte(export))
			}))
			defer server.Close()

			client, _ := newTestClient(t, server.URL, tt.key)
			got, err := client.FetchNotebook(context.Background(), tt.name, false)
			if err != nil {
				t.Fatalf("FetchNotebook: %v", err)
			}
			if string(got) != export {
				t.Errorf("body = %q", got)
			}
		})
	}
}

func TestFetchNotebookCaching(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(export))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, "")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := client.FetchNotebook(ctx, "@user/demo", false); err != nil {
			t.Fatal(err)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}

	if _, err := client.FetchNotebook(ctx, "@user/demo", true); err != nil {
		t.Fatal(err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("refresh did not bypass the cache: %d calls", n)
	}
}

func TestFetchNotebookRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(export))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, "")
	got, err := client.FetchNotebook(context.Background(), "@user/demo", false)
	if err != nil {
		t.Fatalf("FetchNotebook: %v", err)
	}
	if string(got) != export || calls.Load() != 3 {
		t.Errorf("got %q after %d calls", got, calls.Load())
	}
}

func TestFetchNotebookErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		nb     string
		key    string
		code   errors.Code
		calls  int32
	}{
		{"not found", http.StatusNotFound, "@user/demo", "", errors.ErrCodeNotFound, 1},
		{"unauthorized", http.StatusUnauthorized, "0123456789abcdef", "bad", errors.ErrCodeUnauthorized, 1},
		{"forbidden", http.StatusForbidden, "@user/demo", "", errors.ErrCodeUnauthorized, 1},
		{"server error", http.StatusInternalServerError, "@user/demo", "", errors.ErrCodeNetwork, 3},
		{"rate limited", http.StatusTooManyRequests, "@user/demo", "", errors.ErrCodeRateLimited, 3},
		{"bad request", http.StatusBadRequest, "@user/demo", "", errors.ErrCodeNetwork, 1},
		{"missing key", http.StatusOK, "0123456789abcdef", "", errors.ErrCodeUnauthorized, 0},
		{"bad name", http.StatusOK, "not a notebook", "", errors.ErrCodeInvalidName, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client, _ := newTestClient(t, server.URL, tt.key)
			_, err := client.FetchNotebook(context.Background(), tt.nb, false)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
			if n := calls.Load(); n != tt.calls {
				t.Errorf("server called %d times, want %d", n, tt.calls)
			}
		})
	}
}

func TestFetchNotebookCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, _ := newTestClient(t, server.URL, "")
	if _, err := client.FetchNotebook(ctx, "@user/demo", false); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		code      int
		ok        bool
		retryable bool
	}{
		{200, true, false},
		{204, true, false},
		{400, false, false},
		{401, false, false},
		{404, false, false},
		{429, false, true},
		{500, false, true},
		{503, false, true},
	}
	for _, tt := range tests {
		err := checkStatus(tt.code)
		if (err == nil) != tt.ok {
			t.Errorf("checkStatus(%d) = %v", tt.code, err)
		}
		if cache.IsRetryable(err) != tt.retryable {
			t.Errorf("checkStatus(%d) retryable = %v, want %v", tt.code, !tt.retryable, tt.retryable)
		}
	}
}
