package analyzers

import (
	"fmt"
	"strings"

	"github.com/agentscan/agentscan/models"
	"github.com/agentscan/agentscan/pkg/htmlutil"
)

const (
	penaltyLang          = 2
	penaltyFewLandmarks  = 6
	penaltySomeLandmarks = 3
	penaltyNoH1          = 4
	penaltyNoH2          = 2
	penaltyDivSoup       = 5
	penaltyNoARIA        = 2
	penaltyLayoutTables  = 1

	landmarkPassCount = 5
	landmarkWarnCount = 3
	divRatioThreshold = 0.45
	ariaMinCount      = 3
	layoutTableLimit  = 2
)

// AnalyzeSemantic scores the structural map the page hands to agents: a
// declared language, HTML5 landmarks, a heading hierarchy, a sane
// div-to-element ratio, ARIA attributes and no layout tables.
func AnalyzeSemantic(html string) models.CategoryResult {
	doc := htmlutil.Parse(html)
	checks := make([]models.CheckResult, 0, 7)
	score := MaxSemantic

	// Language declaration. The check is attribute presence; detected
	// language only enriches the detail.
	lang := strings.TrimSpace(doc.Attr("html", "lang"))
	hasLang := lang != ""
	if !hasLang {
		score -= penaltyLang
	}
	langDetail := "Missing lang attribute on <html>"
	if hasLang {
		langDetail = fmt.Sprintf("Page language declared: %s", lang)
		if detected := detectLanguage(doc.Text()); detected != "" {
			langDetail = fmt.Sprintf("Page language declared: %s (content reads as %s)", lang, detected)
		}
	}
	checks = append(checks, failable(models.CheckResult{
		ID:      models.CheckLangAttribute,
		Name:    "Language declared (html lang)",
		Passed:  hasLang,
		Impact:  models.ImpactLow,
		Detail:  langDetail,
		Fix:     `Add lang to the root element`,
		Example: `<html lang="en">`,
	}))

	// Landmark coverage: distinct landmark tags present, out of seven.
	present := 0
	for _, tag := range LandmarkTags {
		if doc.Count(tag) > 0 {
			present++
		}
	}
	switch {
	case present < landmarkWarnCount:
		score -= penaltyFewLandmarks
	case present < landmarkPassCount:
		score -= penaltySomeLandmarks
	}
	checks = append(checks, failable(models.CheckResult{
		ID:     models.CheckLandmarks,
		Name:   "HTML5 landmark elements",
		Passed: present >= landmarkPassCount,
		Impact: models.ImpactHigh,
		Detail: fmt.Sprintf("%d of %d landmark element types present", present, len(LandmarkTags)),
		Fix:    "Structure the page with <header>, <nav>, <main>, <article>/<section> and <footer>",
		Example: `<body>
  <header>...</header>
  <nav>...</nav>
  <main>
    <article>...</article>
  </main>
  <footer>...</footer>
</body>`,
	}))

	// Heading hierarchy.
	h1s := doc.Count("h1")
	if h1s == 0 {
		score -= penaltyNoH1
	}
	h1Detail := "No <h1> heading found"
	switch {
	case h1s == 1:
		h1Detail = "Single <h1> heading present"
	case h1s > 1:
		h1Detail = fmt.Sprintf("%d <h1> headings (one is ideal)", h1s)
	}
	checks = append(checks, failable(models.CheckResult{
		ID:      models.CheckH1,
		Name:    "Page has an <h1> heading",
		Passed:  h1s > 0,
		Impact:  models.ImpactMedium,
		Detail:  h1Detail,
		Fix:     "Add one <h1> describing what the page is",
		Example: `<h1>Product catalog — Acme Widgets</h1>`,
	}))

	h2s := doc.Count("h2")
	if h2s == 0 {
		score -= penaltyNoH2
	}
	h2Detail := "No <h2> section headings found"
	if h2s > 0 {
		h2Detail = fmt.Sprintf("%d <h2> section heading(s)", h2s)
	}
	checks = append(checks, failable(models.CheckResult{
		ID:     models.CheckHeadings,
		Name:   "Section headings (<h2>)",
		Passed: h2s > 0,
		Impact: models.ImpactLow,
		Detail: h2Detail,
		Fix:    "Break the content into sections headed by <h2>",
	}))

	// Div soup: share of divs among all elements.
	divs := doc.Count("div")
	all := doc.Count("*")
	divRatio := htmlutil.Ratio(divs, all)
	soup := all > 0 && divRatio > divRatioThreshold
	if soup {
		score -= penaltyDivSoup
	}
	checks = append(checks, failable(models.CheckResult{
		ID:     models.CheckDivRatio,
		Name:   "Semantic elements over generic divs",
		Passed: !soup,
		Impact: models.ImpactMedium,
		Detail: fmt.Sprintf("%d%% of elements are <div>", htmlutil.Percent(divRatio)),
		Fix:    "Replace wrapper divs with the semantic element that matches their role",
	}))

	// ARIA usage.
	aria := doc.Count(`[role]`) + doc.Count(`[aria-label]`) + doc.Count(`[aria-labelledby]`)
	if aria < ariaMinCount {
		score -= penaltyNoARIA
	}
	ariaDetail := fmt.Sprintf("%d ARIA role/label attribute(s) found", aria)
	checks = append(checks, failable(models.CheckResult{
		ID:      models.CheckARIA,
		Name:    "ARIA attributes",
		Passed:  aria >= ariaMinCount,
		Impact:  models.ImpactLow,
		Detail:  ariaDetail,
		Fix:     "Label interactive regions with role and aria-label attributes",
		Example: `<nav aria-label="Main navigation">...</nav>`,
	}))

	// Layout tables: a handful of tables is fine, and any presentation
	// role signals the author marks decorative tables deliberately.
	tables := doc.Count("table")
	presentational := doc.Count(`table[role="presentation"], table[role="none"]`)
	tablesPassed := tables <= layoutTableLimit || presentational > 0
	if !tablesPassed {
		score -= penaltyLayoutTables
	}
	tableDetail := "No layout-table overuse detected"
	if !tablesPassed {
		tableDetail = fmt.Sprintf("%d table(s), none marked presentational", tables)
	}
	checks = append(checks, failable(models.CheckResult{
		ID:     models.CheckLayoutTables,
		Name:   "Tables used for data, not layout",
		Passed: tablesPassed,
		Impact: models.ImpactLow,
		Detail: tableDetail,
		Fix:    `Use CSS for layout; mark decorative tables with role="presentation"`,
	}))

	return models.CategoryResult{Score: clamp(score, 0, MaxSemantic), Checks: checks}
}
