package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCollyFetcher_Fetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<div>remote</div>"))
	}))
	defer srv.Close()

	f := NewCollyFetcher(5*time.Second, "hq-test", 1024, nil)
	body, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "<div>remote</div>" {
		t.Errorf("unexpected body %q", body)
	}
	if gotUA != "hq-test" {
		t.Errorf("expected user agent %q, got %q", "hq-test", gotUA)
	}
}

func TestCollyFetcher_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewCollyFetcher(5*time.Second, "", 0, nil)
	_, err := f.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrFetch) {
		t.Errorf("expected ErrFetch, got %v", err)
	}
}

func TestCollyFetcher_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer srv.Close()

	f := NewCollyFetcher(5*time.Second, "", 10, nil)
	_, err := f.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrFetch) || !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrFetch wrapping ErrTooLarge, got %v", err)
	}
}

func TestCollyFetcher_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewCollyFetcher(time.Second, "", 0, nil)
	_, err := f.Fetch(ctx, "http://127.0.0.1:1/")
	if !errors.Is(err, ErrFetch) {
		t.Errorf("expected ErrFetch, got %v", err)
	}
}

func TestCollyFetcher_DeadlineStopsSlowServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
			w.Write([]byte("<div>late</div>"))
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	f := NewCollyFetcher(10*time.Second, "", 0, nil)
	start := time.Now()
	_, err := f.Fetch(ctx, srv.URL)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrFetch) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected ErrFetch wrapping the deadline, got %v", err)
	}
	if elapsed > time.Second {
		t.Errorf("fetch outlived its deadline: %s", elapsed)
	}
}

func TestResolve_ThroughCollyFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<a href="/next">next</a>`))
	}))
	defer srv.Close()

	r := &Resolver{Fetcher: NewCollyFetcher(5*time.Second, "", 0, nil)}
	doc, err := r.Resolve(context.Background(), URL(srv.URL+"/page"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc != `<a href="/next">next</a>` {
		t.Errorf("unexpected document %q", doc)
	}
}
