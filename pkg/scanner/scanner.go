// Package scanner orchestrates one readiness scan: fetch the page, run
// the six analyzers, and assemble the scored result.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/agentscan/agentscan/models"
	"github.com/agentscan/agentscan/pkg/analyzers"
	"github.com/agentscan/agentscan/pkg/fetcher"
	"github.com/agentscan/agentscan/pkg/scoring"
)

// Scanner runs readiness scans. Safe for concurrent use.
type Scanner struct {
	cfg     models.ScanConfig
	fetcher *fetcher.Fetcher
	logger  *slog.Logger
}

// New builds a Scanner from config.
func New(cfg models.ScanConfig, logger *slog.Logger) *Scanner {
	return NewWithClient(&http.Client{}, cfg, logger)
}

// NewWithClient builds a Scanner on an existing HTTP client. Used by tests
// to point scans at local TLS servers.
func NewWithClient(client *http.Client, cfg models.ScanConfig, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		cfg:     cfg,
		fetcher: fetcher.NewWithClient(client, cfg),
		logger:  logger,
	}
}

// Scan fetches and scores one URL. It never returns an error: an
// unreachable or invalid URL produces a zero-score result with the Error
// field set, so batch runs and the HTTP API degrade per-URL.
func (s *Scanner) Scan(ctx context.Context, rawURL string) models.ScanResult {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		s.logger.Error("invalid scan url", "url", rawURL, "error", err)
		return s.errorResult(rawURL, err)
	}

	start := time.Now()
	resp, err := s.fetcher.Fetch(ctx, target, s.cfg.FetchTimeout)
	if err != nil {
		s.logger.Error("page fetch failed", "url", target, "error", err)
		return s.errorResult(target, err)
	}
	if !resp.OK {
		err := fmt.Errorf("page returned HTTP %d", resp.Status)
		s.logger.Error("page fetch failed", "url", target, "status", resp.Status)
		return s.errorResult(target, err)
	}
	html := resp.Body

	// The five HTML analyzers are CPU-bound on the fetched body; the
	// crawlability analyzer does its own sub-fetches. All six run
	// concurrently.
	var (
		wg         sync.WaitGroup
		usability  models.CategoryResult
		webmcp     models.CategoryResult
		semantic   models.CategoryResult
		structured models.CategoryResult
		content    models.CategoryResult
		crawl      models.CategoryResult
	)
	run := func(dst *models.CategoryResult, analyze func() models.CategoryResult) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			*dst = analyze()
		}()
	}
	run(&usability, func() models.CategoryResult { return analyzers.AnalyzeUsability(html) })
	run(&webmcp, func() models.CategoryResult { return analyzers.AnalyzeWebMCP(html) })
	run(&semantic, func() models.CategoryResult { return analyzers.AnalyzeSemantic(html) })
	run(&structured, func() models.CategoryResult { return analyzers.AnalyzeStructured(html) })
	run(&content, func() models.CategoryResult { return analyzers.AnalyzeContent(html) })
	run(&crawl, func() models.CategoryResult {
		return analyzers.AnalyzeCrawlability(ctx, s.fetcher, target, s.cfg)
	})
	wg.Wait()

	scores := models.CategoryScores{
		Usability:    usability.Score,
		WebMCP:       webmcp.Score,
		Semantic:     semantic.Score,
		Structured:   structured.Score,
		Crawlability: crawl.Score,
		Content:      content.Score,
	}
	byCategory := map[models.Category]models.CategoryResult{
		models.CategoryUsability:    usability,
		models.CategoryWebMCP:       webmcp,
		models.CategorySemantic:     semantic,
		models.CategoryStructured:   structured,
		models.CategoryCrawlability: crawl,
		models.CategoryContent:      content,
	}
	details := make([]models.CategoryDetail, 0, len(analyzers.CategoryOrder))
	for _, cat := range analyzers.CategoryOrder {
		meta := analyzers.Catalog[cat]
		details = append(details, models.CategoryDetail{
			Category:        cat,
			Label:           meta.Label,
			Score:           byCategory[cat].Score,
			Max:             meta.Max,
			Checks:          byCategory[cat].Checks,
			EducationalNote: meta.Note,
		})
	}

	overall := scoring.CalculateOverall(scores)
	result := models.ScanResult{
		URL:             target,
		Timestamp:       time.Now().UTC(),
		Scores:          scores,
		Overall:         overall,
		Grade:           scoring.CalculateGrade(overall),
		Level:           scoring.ReadinessFor(overall),
		Summary:         scoring.GenerateSummary(target, overall, scores),
		Recommendations: scoring.Recommend(scores, details),
		CategoryDetails: details,
		ResponseTimeMs:  crawl.ResponseTimeMs,
	}
	result.PageTitle, result.Excerpt = extractArticle(html, target)

	s.logger.Debug("scan complete",
		"url", target,
		"overall", overall,
		"grade", result.Grade,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result
}

// errorResult is the zero-score result for an unreachable page.
func (s *Scanner) errorResult(target string, err error) models.ScanResult {
	return models.ScanResult{
		URL:             target,
		Timestamp:       time.Now().UTC(),
		Overall:         0,
		Grade:           models.GradeF,
		Level:           scoring.ReadinessFor(0),
		Summary:         fmt.Sprintf("Could not scan %s: %v", target, err),
		Recommendations: []models.Recommendation{},
		CategoryDetails: []models.CategoryDetail{},
		Error:           err.Error(),
	}
}

// extractArticle pulls the readable title and excerpt off the page. Best
// effort; extraction failures leave both fields empty.
func extractArticle(html, target string) (title, excerpt string) {
	u, err := url.Parse(target)
	if err != nil {
		return "", ""
	}
	p := readability.NewParser()
	article, err := p.Parse(strings.NewReader(html), u)
	if err != nil {
		return "", ""
	}
	return article.Title, article.Excerpt
}

// NormalizeURL fills in a missing https scheme and validates the target.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid url %q: missing host", raw)
	}
	return u.String(), nil
}
