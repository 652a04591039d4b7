// Package scoring turns category scores into the overall score, letter
// grade, readiness level, summary text and prioritized recommendations.
// Everything here is a pure function of its inputs.
package scoring

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/agentscan/agentscan/models"
	"github.com/agentscan/agentscan/pkg/analyzers"
)

// CalculateOverall sums the six category scores. The category maxima sum
// to 100, so the result is already on a 0-100 scale.
func CalculateOverall(s models.CategoryScores) int {
	return s.Usability + s.WebMCP + s.Semantic + s.Structured + s.Crawlability + s.Content
}

// CalculateGrade maps an overall score to a letter grade.
func CalculateGrade(overall int) models.Grade {
	switch {
	case overall >= 90:
		return models.GradeA
	case overall >= 75:
		return models.GradeB
	case overall >= 60:
		return models.GradeC
	case overall >= 40:
		return models.GradeD
	default:
		return models.GradeF
	}
}

var readinessLevels = []models.ReadinessLevel{
	{
		Level: 5, Label: "AI-Native", Emoji: "🔵", Color: "#3b82f6",
		Description: "Agents can discover, read and operate this site directly.",
	},
	{
		Level: 4, Label: "Operable", Emoji: "🟢", Color: "#22c55e",
		Description: "Agents can complete most tasks here, with some friction.",
	},
	{
		Level: 3, Label: "Discoverable", Emoji: "🟡", Color: "#eab308",
		Description: "Agents can find and read this site but struggle to act on it.",
	},
	{
		Level: 2, Label: "Crawlable", Emoji: "🟠", Color: "#f97316",
		Description: "Crawlers can index this site; agents get little more than raw text.",
	},
	{
		Level: 1, Label: "Invisible", Emoji: "🔴", Color: "#ef4444",
		Description: "AI agents effectively cannot see or use this site.",
	},
}

// readinessThresholds are the minimum overall scores for levels 5 down
// to 1, index-aligned with readinessLevels.
var readinessThresholds = []int{80, 60, 40, 20, 0}

// ReadinessFor maps an overall score to its 5-tier readiness level.
func ReadinessFor(overall int) models.ReadinessLevel {
	for i, threshold := range readinessThresholds {
		if overall >= threshold {
			return readinessLevels[i]
		}
	}
	return readinessLevels[len(readinessLevels)-1]
}

// categoryGap is one category's distance from its ceiling.
type categoryGap struct {
	category models.Category
	gap      int
}

// weakestCategory returns the category with the most points left on the
// table, preferring the earlier category in display order on ties.
func weakestCategory(s models.CategoryScores) models.Category {
	byCat := map[models.Category]int{
		models.CategoryUsability:    s.Usability,
		models.CategoryWebMCP:       s.WebMCP,
		models.CategorySemantic:     s.Semantic,
		models.CategoryStructured:   s.Structured,
		models.CategoryCrawlability: s.Crawlability,
		models.CategoryContent:      s.Content,
	}
	worst := categoryGap{category: analyzers.CategoryOrder[0], gap: -1}
	for _, cat := range analyzers.CategoryOrder {
		gap := analyzers.Catalog[cat].Max - byCat[cat]
		if gap > worst.gap {
			worst = categoryGap{category: cat, gap: gap}
		}
	}
	return worst.category
}

// GenerateSummary writes the one-paragraph human summary for a scan:
// hostname, readiness tier and the category with the most room to improve.
func GenerateSummary(rawURL string, overall int, scores models.CategoryScores) string {
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}
	host = strings.TrimPrefix(host, "www.")

	weakest := analyzers.Catalog[weakestCategory(scores)].Label

	switch ReadinessFor(overall).Level {
	case 5:
		return fmt.Sprintf("%s is AI-native: agents can discover, read and operate it. "+
			"The largest remaining gap is %s.", host, weakest)
	case 4:
		return fmt.Sprintf("%s is operable by AI agents, though with some friction. "+
			"Improving %s would have the biggest impact.", host, weakest)
	case 3:
		return fmt.Sprintf("%s is discoverable by AI agents but hard for them to act on. "+
			"Start with %s to move up.", host, weakest)
	case 2:
		return fmt.Sprintf("%s is crawlable, but agents get little beyond raw text. "+
			"%s is the weakest area and the best place to start.", host, weakest)
	default:
		return fmt.Sprintf("%s is effectively invisible to AI agents. "+
			"Fixing %s is the first step toward basic readiness.", host, weakest)
	}
}
