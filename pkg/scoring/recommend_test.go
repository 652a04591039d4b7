package scoring

import (
	"testing"

	"github.com/agentscan/agentscan/models"
)

func perfectDetails() []models.CategoryDetail {
	return []models.CategoryDetail{
		{Category: models.CategoryUsability, Checks: []models.CheckResult{
			{ID: models.CheckFormLabels, Passed: true},
			{ID: models.CheckNoCaptcha, Passed: true},
		}},
		{Category: models.CategorySemantic, Checks: []models.CheckResult{
			{ID: models.CheckH1, Passed: true},
		}},
		{Category: models.CategoryCrawlability, Checks: []models.CheckResult{
			{ID: models.CheckRobotsTxt, Passed: true},
			{ID: models.CheckAICrawlers, Passed: true},
			{ID: models.CheckLLMsTxt, Passed: true},
		}},
		{Category: models.CategoryContent, Checks: []models.CheckResult{
			{ID: models.CheckAltText, Passed: true},
		}},
	}
}

func failedEverything() []models.CategoryDetail {
	return []models.CategoryDetail{
		{Category: models.CategoryUsability, Checks: []models.CheckResult{
			{ID: models.CheckFormLabels, Passed: false, Detail: "0/3 inputs have associated labels"},
			{ID: models.CheckNoCaptcha, Passed: false, Detail: "CAPTCHA detected"},
		}},
		{Category: models.CategoryWebMCP, Checks: []models.CheckResult{
			{ID: models.CheckMCPTool, Passed: false, Detail: "No mcp-tool attributes found",
				Example: `<form mcp-tool="search">`},
		}},
		{Category: models.CategorySemantic, Checks: []models.CheckResult{
			{ID: models.CheckH1, Passed: false, Detail: "No <h1> heading found"},
			{ID: models.CheckLandmarks, Passed: false, Detail: "0 of 7 landmark element types present"},
		}},
		{Category: models.CategoryStructured, Checks: []models.CheckResult{
			{ID: models.CheckJSONLD, Passed: false, Detail: "No JSON-LD structured data found"},
		}},
		{Category: models.CategoryCrawlability, Checks: []models.CheckResult{
			{ID: models.CheckRobotsTxt, Passed: false, Detail: "No robots.txt found"},
			{ID: models.CheckLLMsTxt, Passed: false, Detail: "No llms.txt found"},
		}},
		{Category: models.CategoryContent, Checks: []models.CheckResult{
			{ID: models.CheckAltText, Passed: false, Detail: "0/4 images have alt text (0%)"},
		}},
	}
}

func TestRecommendPerfectScan(t *testing.T) {
	scores := models.CategoryScores{
		Usability: 30, WebMCP: 25, Semantic: 20, Structured: 15, Crawlability: 5, Content: 5,
	}
	recs := Recommend(scores, perfectDetails())
	if len(recs) != 0 {
		t.Errorf("perfect scan produced %d recommendations", len(recs))
	}
}

func TestRecommendFailingScan(t *testing.T) {
	scores := models.CategoryScores{}
	recs := Recommend(scores, failedEverything())

	if len(recs) == 0 {
		t.Fatal("failing scan produced no recommendations")
	}
	if len(recs) > maxRecommendations {
		t.Fatalf("got %d recommendations, cap is %d", len(recs), maxRecommendations)
	}

	// The WebMCP gap is worth the most points at the best impact/effort
	// ratio; it must sort first.
	first := recs[0]
	if first.Category != models.CategoryWebMCP {
		t.Errorf("first recommendation = %s (%s), want the WebMCP one", first.Title, first.Category)
	}
	if first.Impact != models.ImpactHigh || first.Effort != models.EffortLow {
		t.Errorf("first recommendation ranked %s impact / %s effort", first.Impact, first.Effort)
	}
	if first.Points != 25 {
		t.Errorf("first recommendation Points = %d, want the full category gap", first.Points)
	}

	for _, r := range recs {
		if r.Title == "" || r.Description == "" {
			t.Errorf("recommendation %q missing copy", r.Title)
		}
		if r.Issues == nil {
			t.Errorf("recommendation %q has nil issues", r.Title)
		}
		if len(r.Steps) < 3 || len(r.Steps) > 5 {
			t.Errorf("recommendation %q has %d steps, want 3-5", r.Title, len(r.Steps))
		}
		if r.Points < 1 {
			t.Errorf("recommendation %q has non-positive points", r.Title)
		}
	}
}

func TestRecommendIssuesCarryFailingDetails(t *testing.T) {
	recs := Recommend(models.CategoryScores{}, failedEverything())
	for _, r := range recs {
		if r.Category != models.CategoryUsability {
			continue
		}
		if len(r.Issues) != 2 {
			t.Errorf("usability recommendation carries %d issues, want 2", len(r.Issues))
		}
	}
}

func TestRecommendUnblockOnlyWhenRobotsExists(t *testing.T) {
	details := []models.CategoryDetail{
		{Category: models.CategoryCrawlability, Checks: []models.CheckResult{
			{ID: models.CheckRobotsTxt, Passed: true, Detail: "robots.txt found"},
			{ID: models.CheckAICrawlers, Passed: false, Detail: "AI crawlers blocked: gptbot"},
		}},
	}
	scores := models.CategoryScores{
		Usability: 30, WebMCP: 25, Semantic: 20, Structured: 15, Crawlability: 3, Content: 5,
	}
	recs := Recommend(scores, details)

	var found bool
	for _, r := range recs {
		if r.Title == "Unblock AI crawlers in robots.txt" {
			found = true
		}
		if r.Title == "Create robots.txt with AI crawler allowances" {
			t.Error("robots.txt creation recommended although it exists")
		}
	}
	if !found {
		t.Error("blocked crawlers should produce the unblock recommendation")
	}
}

func TestRecommendOpenAPIMidTier(t *testing.T) {
	scores := models.CategoryScores{
		Usability: 30, WebMCP: 15, Semantic: 20, Structured: 15, Crawlability: 5, Content: 5,
	}
	recs := Recommend(scores, perfectDetails())

	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want exactly the OpenAPI one", len(recs))
	}
	if recs[0].Title != "Add OpenAPI spec / ai-plugin.json" {
		t.Errorf("Title = %q", recs[0].Title)
	}
}
