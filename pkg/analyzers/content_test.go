package analyzers

import (
	"strings"
	"testing"

	"github.com/agentscan/agentscan/models"
)

func wordyBody(words int) string {
	return "<p>" + strings.TrimSpace(strings.Repeat("substantive content here ", (words+2)/3)) + "</p>"
}

func TestAnalyzeContent(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantScore int
	}{
		{
			name:      "alt text and real copy keep full score",
			html:      `<html><body><img src="a.jpg" alt="a widget"/>` + wordyBody(120) + `</body></html>`,
			wantScore: MaxContent,
		},
		{
			name:      "no images is not a penalty",
			html:      `<html><body>` + wordyBody(120) + `</body></html>`,
			wantScore: MaxContent,
		},
		{
			name: "missing alt on most images",
			html: `<html><body><img src="a.jpg"/><img src="b.jpg"/><img src="c.jpg" alt="c"/>` +
				wordyBody(120) + `</body></html>`,
			wantScore: MaxContent - penaltyMostAltMissing,
		},
		{
			name:      "thin page with bare images",
			html:      `<html><body><img src="a.jpg"/><p>almost nothing</p></body></html>`,
			wantScore: MaxContent - penaltyMostAltMissing - penaltyThinContent,
		},
		{
			name: "empty alt counts as missing",
			html: `<html><body><img src="a.jpg" alt=""/><img src="b.jpg" alt="b"/>` +
				wordyBody(120) + `</body></html>`,
			wantScore: MaxContent - penaltySomeAltMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeContent(tt.html)
			if got.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", got.Score, tt.wantScore)
			}
		})
	}
}

func TestContentNoImagesDetail(t *testing.T) {
	got := AnalyzeContent(`<html><body>` + wordyBody(120) + `</body></html>`)
	c := findCheck(t, got.Checks, models.CheckAltText)
	if !c.Passed {
		t.Error("alt check should pass with no images")
	}
	if c.Detail != "No images found" {
		t.Errorf("Detail = %q", c.Detail)
	}
}

func TestContentWordCountDetail(t *testing.T) {
	got := AnalyzeContent(`<html><body><p>five words of text only</p></body></html>`)
	c := findCheck(t, got.Checks, models.CheckTextVolume)
	if c.Passed {
		t.Error("text check should fail under the word floor")
	}
	if !strings.Contains(c.Detail, "5 words") {
		t.Errorf("Detail = %q, want the word count", c.Detail)
	}
}
