package analyzers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/agentscan/agentscan/models"
	"github.com/agentscan/agentscan/pkg/htmlutil"
)

const (
	pointsPerJSONLD   = 5
	pointsMicrodata   = 3
	pointsManyTypes   = 5
	pointsSomeTypes   = 2
	typeVarietyTarget = 3
)

// AnalyzeStructured scores machine-readable page metadata: JSON-LD blocks,
// microdata markup and the variety of schema.org types they declare.
// Malformed JSON-LD blocks are skipped without failing the category.
func AnalyzeStructured(html string) models.CategoryResult {
	doc := htmlutil.Parse(html)
	checks := make([]models.CheckResult, 0, 3)
	score := 0

	var types []string
	validBlocks := 0
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		blockTypes, ok := parseJSONLD(s.Text())
		if !ok {
			return
		}
		validBlocks++
		types = append(types, blockTypes...)
	})
	score += validBlocks * pointsPerJSONLD

	jsonldDetail := "No JSON-LD structured data found"
	if validBlocks > 0 {
		jsonldDetail = fmt.Sprintf("%d JSON-LD block(s): %s", validBlocks, strings.Join(types, ", "))
	}
	checks = append(checks, failable(models.CheckResult{
		ID:     models.CheckJSONLD,
		Name:   "JSON-LD structured data",
		Passed: validBlocks > 0,
		Impact: models.ImpactHigh,
		Detail: jsonldDetail,
		Fix:    "Add a JSON-LD script block describing the page entity",
		Example: `<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "Product",
  "name": "Acme Widget",
  "offers": { "@type": "Offer", "price": "19.99", "priceCurrency": "USD" }
}
</script>`,
	}))

	// Microdata: itemtype attributes, with the URL tail as the type name.
	microCount := 0
	doc.Find(`[itemtype]`).Each(func(_ int, s *goquery.Selection) {
		microCount++
		itemtype, _ := s.Attr("itemtype")
		if name := urlTail(itemtype); name != "" {
			types = append(types, name)
		}
	})
	if microCount > 0 {
		score += pointsMicrodata
	}
	microDetail := "No microdata markup found"
	if microCount > 0 {
		microDetail = fmt.Sprintf("%d element(s) with microdata itemtype", microCount)
	}
	checks = append(checks, failable(models.CheckResult{
		ID:      models.CheckMicrodata,
		Name:    "Microdata markup",
		Passed:  microCount > 0,
		Impact:  models.ImpactLow,
		Detail:  microDetail,
		Fix:     "Annotate key entities with itemscope/itemtype attributes",
		Example: `<div itemscope itemtype="https://schema.org/Product">`,
	}))

	// Type variety.
	switch {
	case len(types) >= typeVarietyTarget:
		score += pointsManyTypes
	case len(types) >= 1:
		score += pointsSomeTypes
	}

	rich := richTypesIn(types)
	richDetail := "No rich schema.org types found"
	if len(rich) > 0 {
		richDetail = "Rich types present: " + strings.Join(rich, ", ")
	}
	checks = append(checks, failable(models.CheckResult{
		ID:     models.CheckRichTypes,
		Name:   "Rich schema.org types",
		Passed: len(rich) > 0,
		Impact: models.ImpactMedium,
		Detail: richDetail,
		Fix: "Use high-value types like Product, Article, FAQPage or HowTo " +
			"where they match the page",
	}))

	return models.CategoryResult{
		Score:  clamp(score, 0, MaxStructured),
		Checks: checks,
		Types:  types,
	}
}

// parseJSONLD extracts the declared types of one JSON-LD block. Invalid
// JSON returns ok=false; valid JSON with no recognizable type reports
// "Unknown".
func parseJSONLD(raw string) (types []string, ok bool) {
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, false
	}
	return typesOf(payload), true
}

func typesOf(payload any) []string {
	switch v := payload.(type) {
	case []any:
		var out []string
		for _, item := range v {
			out = append(out, typesOf(item)...)
		}
		if len(out) == 0 {
			return []string{"Unknown"}
		}
		return out
	case map[string]any:
		if graph, found := v["@graph"].([]any); found {
			var out []string
			for _, item := range graph {
				out = append(out, typesOf(item)...)
			}
			if len(out) > 0 {
				return out
			}
		}
		if t := typeName(v["@type"]); t != "" {
			return []string{t}
		}
		if t := typeName(v["type"]); t != "" {
			return []string{t}
		}
		return []string{"Unknown"}
	default:
		return []string{"Unknown"}
	}
}

func typeName(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			if s, isStr := t[0].(string); isStr {
				return s
			}
		}
	}
	return ""
}

// urlTail returns the last path segment of an itemtype URL
// ("https://schema.org/Product" -> "Product").
func urlTail(u string) string {
	u = strings.TrimRight(strings.TrimSpace(u), "/")
	if u == "" {
		return ""
	}
	if idx := strings.LastIndex(u, "/"); idx >= 0 {
		return u[idx+1:]
	}
	return u
}

// richTypesIn matches declared types against the allow-list by substring,
// so "NewsArticle" counts for "Article".
func richTypesIn(types []string) []string {
	var rich []string
	seen := map[string]bool{}
	for _, rt := range RichSchemaTypes {
		for _, t := range types {
			if strings.Contains(t, rt) && !seen[rt] {
				seen[rt] = true
				rich = append(rich, rt)
			}
		}
	}
	return rich
}
