package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/agentscan/agentscan/models"
)

func TestFetchTruncatesOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 2048)))
	}))
	defer srv.Close()

	cfg := models.DefaultScanConfig()
	cfg.MaxBodyBytes = 1024
	f := NewWithClient(srv.Client(), cfg)

	resp, err := f.Fetch(context.Background(), srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !resp.Truncated {
		t.Error("oversized body should be flagged truncated")
	}
	if len(resp.Body) != 1024 {
		t.Errorf("len(Body) = %d, want the 1024 byte cap", len(resp.Body))
	}
}

func TestFetchExactCapNotTruncated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 1024)))
	}))
	defer srv.Close()

	cfg := models.DefaultScanConfig()
	cfg.MaxBodyBytes = 1024
	f := NewWithClient(srv.Client(), cfg)

	resp, err := f.Fetch(context.Background(), srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if resp.Truncated {
		t.Error("body exactly at the cap is not truncated")
	}
}

func TestFetchSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	cfg := models.DefaultScanConfig()
	f := NewWithClient(srv.Client(), cfg)
	if _, err := f.Fetch(context.Background(), srv.URL, 2*time.Second); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotUA != cfg.UserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, cfg.UserAgent)
	}
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewWithClient(srv.Client(), models.DefaultScanConfig())
	resp, err := f.Fetch(context.Background(), srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("a 404 is not a transport error: %v", err)
	}
	if resp.OK {
		t.Error("OK should be false for a 404")
	}
	if resp.Status != http.StatusNotFound {
		t.Errorf("Status = %d", resp.Status)
	}
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	f := NewWithClient(srv.Client(), models.DefaultScanConfig())
	if _, err := f.Fetch(context.Background(), srv.URL, 50*time.Millisecond); err == nil {
		t.Error("expected a timeout error")
	}
}
