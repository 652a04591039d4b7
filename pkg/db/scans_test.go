package db

import (
	"errors"
	"testing"
	"time"

	"github.com/agentscan/agentscan/models"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func sampleResult(url string, overall int) models.ScanResult {
	return models.ScanResult{
		URL:       url,
		Timestamp: time.Now().UTC(),
		Scores: models.CategoryScores{
			Usability: overall / 2, WebMCP: overall - overall/2,
		},
		Overall: overall,
		Grade:   models.GradeC,
		Level:   models.ReadinessLevel{Level: 3, Label: "Discoverable", Emoji: "🟡", Color: "#eab308"},
		Summary: "test summary",
		Recommendations: []models.Recommendation{},
		CategoryDetails: []models.CategoryDetail{},
	}
}

func TestNewScanID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := NewScanID()
		if err != nil {
			t.Fatalf("NewScanID: %v", err)
		}
		if len(id) != scanIDLength {
			t.Fatalf("id %q has length %d", id, len(id))
		}
		if !scanIDRe.MatchString(id) {
			t.Fatalf("id %q is not alphanumeric", id)
		}
		if seen[id] {
			t.Fatalf("id %q repeated", id)
		}
		seen[id] = true
	}
}

func TestSaveAndGetScan(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	result := sampleResult("https://www.example.com/pricing", 62)
	id, err := database.SaveScan(result)
	if err != nil {
		t.Fatalf("SaveScan: %v", err)
	}

	stored, err := database.GetScan(id)
	if err != nil {
		t.Fatalf("GetScan: %v", err)
	}
	if stored.URL != result.URL {
		t.Errorf("URL = %q, want %q", stored.URL, result.URL)
	}
	if stored.Domain != "example.com" {
		t.Errorf("Domain = %q, want example.com", stored.Domain)
	}
	if stored.Score != 62 || stored.Grade != models.GradeC {
		t.Errorf("Score/Grade = %d/%s", stored.Score, stored.Grade)
	}
	if stored.Result.Summary != "test summary" {
		t.Errorf("round-tripped Summary = %q", stored.Result.Summary)
	}
}

func TestGetScanInvalidID(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	tests := []struct {
		name string
		id   string
	}{
		{name: "too short", id: "abc"},
		{name: "sql injection shape", id: "a'; DROP TABLE scans;--"},
		{name: "empty", id: ""},
		{name: "well formed but absent", id: "AAAABBBB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := database.GetScan(tt.id)
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("GetScan(%q) err = %v, want ErrNotFound", tt.id, err)
			}
		})
	}
}

func TestDomainBestKeepsHighScore(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	if _, err := database.SaveScan(sampleResult("https://example.com", 70)); err != nil {
		t.Fatalf("SaveScan: %v", err)
	}
	if _, err := database.SaveScan(sampleResult("https://example.com/other", 40)); err != nil {
		t.Fatalf("SaveScan: %v", err)
	}

	best, err := database.BestForDomain("example.com")
	if err != nil {
		t.Fatalf("BestForDomain: %v", err)
	}
	if best.Score != 70 {
		t.Errorf("best score = %d, want 70 (lower rescan must not overwrite)", best.Score)
	}

	// A better scan does overwrite.
	if _, err := database.SaveScan(sampleResult("https://example.com", 85)); err != nil {
		t.Fatalf("SaveScan: %v", err)
	}
	best, err = database.BestForDomain("example.com")
	if err != nil {
		t.Fatalf("BestForDomain: %v", err)
	}
	if best.Score != 85 {
		t.Errorf("best score = %d, want 85", best.Score)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	for _, s := range []struct {
		url   string
		score int
	}{
		{url: "https://low.example", score: 20},
		{url: "https://high.example", score: 90},
		{url: "https://mid.example", score: 55},
	} {
		if _, err := database.SaveScan(sampleResult(s.url, s.score)); err != nil {
			t.Fatalf("SaveScan(%s): %v", s.url, err)
		}
	}

	entries, err := database.Leaderboard(2)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Domain != "high.example" || entries[1].Domain != "mid.example" {
		t.Errorf("order = %s, %s", entries[0].Domain, entries[1].Domain)
	}
}

func TestRecentScans(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	if _, err := database.SaveScan(sampleResult("https://a.example", 30)); err != nil {
		t.Fatalf("SaveScan: %v", err)
	}
	if _, err := database.SaveScan(sampleResult("https://b.example", 60)); err != nil {
		t.Fatalf("SaveScan: %v", err)
	}

	scans, err := database.RecentScans(10)
	if err != nil {
		t.Fatalf("RecentScans: %v", err)
	}
	if len(scans) != 2 {
		t.Fatalf("len = %d, want 2", len(scans))
	}
	for _, s := range scans {
		if s.Result.URL == "" {
			t.Errorf("scan %s did not round-trip its result", s.ID)
		}
	}
}

func TestBestForDomainNotFound(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	if _, err := database.BestForDomain("never-scanned.example"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
