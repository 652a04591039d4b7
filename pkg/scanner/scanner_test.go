package scanner

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agentscan/agentscan/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var structuredPage = `<html lang="en"><head>
	<title>Acme Widgets</title>
	<meta name="description" content="Widget catalog" />
	<script type="application/ld+json">{"@context":"https://schema.org","@type":"Product","name":"Widget"}</script>
</head><body>
	<header><h1>Acme Widgets</h1></header>
	<nav aria-label="Main"><a href="/">Home</a></nav>
	<main>
		<article><h2>Catalog</h2>
		<p>` + strings.TrimSpace(strings.Repeat("widgets and more widgets for every need ", 20)) + `</p>
		</article>
		<section aria-label="About"><h2>About</h2><p>Founded long ago.</p></section>
	</main>
	<footer aria-label="Footer">Contact us</footer>
</body></html>`

func newTestScanner(t *testing.T, mux *http.ServeMux) (*Scanner, string, func()) {
	t.Helper()
	srv := httptest.NewTLSServer(mux)
	s := NewWithClient(srv.Client(), models.DefaultScanConfig(), quietLogger())
	return s, srv.URL, srv.Close
}

func TestScanHealthyPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(structuredPage))
	})
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nAllow: /\nSitemap: /sitemap.xml\n"))
	})

	s, base, closeSrv := newTestScanner(t, mux)
	defer closeSrv()

	result := s.Scan(context.Background(), base)

	if result.Failed() {
		t.Fatalf("scan failed: %s", result.Error)
	}
	if result.Overall <= 0 || result.Overall > 100 {
		t.Errorf("Overall = %d", result.Overall)
	}
	if result.Overall != result.Scores.Usability+result.Scores.WebMCP+result.Scores.Semantic+
		result.Scores.Structured+result.Scores.Crawlability+result.Scores.Content {
		t.Error("Overall does not equal the category sum")
	}
	if len(result.CategoryDetails) != 6 {
		t.Errorf("len(CategoryDetails) = %d, want 6", len(result.CategoryDetails))
	}
	if result.Grade == "" || result.Level.Level == 0 {
		t.Error("grade or level missing")
	}
	if result.Summary == "" {
		t.Error("summary missing")
	}
	if result.Recommendations == nil {
		t.Error("recommendations must not be nil")
	}
	if result.PageTitle != "Acme Widgets" {
		t.Errorf("PageTitle = %q", result.PageTitle)
	}
}

func TestScanUnreachableHost(t *testing.T) {
	s := New(models.DefaultScanConfig(), quietLogger())

	// A closed local port fails fast.
	result := s.Scan(context.Background(), "https://127.0.0.1:1")

	if !result.Failed() {
		t.Fatal("unreachable host should produce a failed result")
	}
	if result.Overall != 0 || result.Grade != models.GradeF {
		t.Errorf("failed result scored %d/%s", result.Overall, result.Grade)
	}
	if result.Level.Level != 1 {
		t.Errorf("failed result level = %d, want 1", result.Level.Level)
	}
	if len(result.Recommendations) != 0 {
		t.Error("failed result must not carry recommendations")
	}
}

func TestScanErrorStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})
	s, base, closeSrv := newTestScanner(t, mux)
	defer closeSrv()

	result := s.Scan(context.Background(), base)
	if !result.Failed() {
		t.Fatal("non-2xx page should produce a failed result")
	}
	if !strings.Contains(result.Error, "410") {
		t.Errorf("Error = %q, want the status code", result.Error)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "bare domain gets https", in: "example.com", want: "https://example.com"},
		{name: "existing scheme kept", in: "http://example.com/x", want: "http://example.com/x"},
		{name: "whitespace trimmed", in: "  example.com  ", want: "https://example.com"},
		{name: "empty", in: "", wantErr: true},
		{name: "unsupported scheme", in: "ftp://example.com", wantErr: true},
		{name: "no host", in: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NormalizeURL(%q) succeeded with %q", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeURL(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
