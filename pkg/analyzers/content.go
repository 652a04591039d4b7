package analyzers

import (
	"fmt"

	"github.com/agentscan/agentscan/models"
	"github.com/agentscan/agentscan/pkg/htmlutil"
)

const (
	penaltyMostAltMissing = 3
	penaltySomeAltMissing = 1
	penaltyThinContent    = 2

	altRatioLow  = 0.5
	altRatioGood = 0.8
	minWordCount = 100
)

// AnalyzeContent scores what an agent can actually read: alt text coverage
// on images and enough body text to work with.
func AnalyzeContent(html string) models.CategoryResult {
	doc := htmlutil.Parse(html)
	checks := make([]models.CheckResult, 0, 2)
	score := MaxContent

	images := doc.Count("img")
	withAlt := doc.Count(`img[alt]`) - doc.Count(`img[alt=""]`)
	altRatio := htmlutil.Ratio(withAlt, images)
	switch {
	case images > 0 && altRatio < altRatioLow:
		score -= penaltyMostAltMissing
	case images > 0 && altRatio < altRatioGood:
		score -= penaltySomeAltMissing
	}
	altPassed := images == 0 || altRatio >= altRatioGood
	altDetail := "No images found"
	if images > 0 {
		altDetail = fmt.Sprintf("%d/%d images have alt text (%d%%)", withAlt, images, htmlutil.Percent(altRatio))
	}
	checks = append(checks, failable(models.CheckResult{
		ID:      models.CheckAltText,
		Name:    "Images have alt text",
		Passed:  altPassed,
		Impact:  models.ImpactMedium,
		Detail:  altDetail,
		Fix:     "Write descriptive alt text for every content image",
		Example: `<img src="widget.jpg" alt="Blue Acme widget, size medium, side view" />`,
	}))

	words := doc.WordCount()
	enoughText := words >= minWordCount
	if !enoughText {
		score -= penaltyThinContent
	}
	checks = append(checks, failable(models.CheckResult{
		ID:     models.CheckTextVolume,
		Name:   "Substantive text content",
		Passed: enoughText,
		Impact: models.ImpactLow,
		Detail: fmt.Sprintf("%d words of visible text", words),
		Fix:    "Serve the main content as server-rendered text, not behind scripts or images",
	}))

	return models.CategoryResult{Score: clamp(score, 0, MaxContent), Checks: checks}
}
