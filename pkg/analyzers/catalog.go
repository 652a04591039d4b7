// Package analyzers implements the six category analyzers of the readiness
// pipeline. Every analyzer is a pure function of its HTML (or URL) input
// and returns a bounded score plus individual pass/fail checks; only the
// crawlability analyzer performs network I/O.
package analyzers

import "github.com/agentscan/agentscan/models"

// Category point ceilings. They sum to 100.
const (
	MaxUsability    = 30
	MaxWebMCP       = 25
	MaxSemantic     = 20
	MaxStructured   = 15
	MaxCrawlability = 5
	MaxContent      = 5
)

// AICrawlers are the AI crawler user-agent names probed for in robots.txt.
var AICrawlers = []string{
	"gptbot",
	"claude-web",
	"anthropic-ai",
	"perplexitybot",
	"ccbot",
	"googlebot",
}

// LandmarkTags are the HTML5 sectioning elements counted as landmarks.
var LandmarkTags = []string{
	"header", "main", "footer", "article", "section", "nav", "aside",
}

// RichSchemaTypes are the high-value schema.org types; discovering any of
// them passes the rich-types check.
var RichSchemaTypes = []string{
	"Product", "Article", "FAQPage", "HowTo",
	"SearchAction", "BreadcrumbList", "Organization", "WebSite",
}

// CategoryMeta carries the presentation metadata attached to each
// analyzer's result.
type CategoryMeta struct {
	Label string
	Max   int
	Note  string
}

// Catalog maps each category to its metadata. The order of CategoryOrder
// is the order category details appear in a scan result.
var Catalog = map[models.Category]CategoryMeta{
	models.CategoryUsability: {
		Label: "Agent Usability",
		Max:   MaxUsability,
		Note: "AI agents interact with pages the way screen readers do: through " +
			"labels, semantic buttons and predictable flows. CAPTCHAs and " +
			"login-only walls stop them completely.",
	},
	models.CategoryWebMCP: {
		Label: "WebMCP Support",
		Max:   MaxWebMCP,
		Note: "WebMCP lets a page declare its forms as callable tools via " +
			"mcp-tool, mcp-param and mcp-description attributes, so browser " +
			"agents can operate the site without scraping.",
	},
	models.CategorySemantic: {
		Label: "Semantic HTML",
		Max:   MaxSemantic,
		Note: "Landmark elements, a heading hierarchy and ARIA attributes give " +
			"agents the same structural map they give assistive technology. " +
			"Div soup gives them nothing.",
	},
	models.CategoryStructured: {
		Label: "Structured Data",
		Max:   MaxStructured,
		Note: "JSON-LD and microdata tell agents what a page is about without " +
			"inference. Rich types like Product or FAQPage unlock direct " +
			"answers.",
	},
	models.CategoryCrawlability: {
		Label: "AI Discoverability",
		Max:   MaxCrawlability,
		Note: "robots.txt allowances for AI crawlers, a sitemap and an " +
			"llms.txt file decide whether the site shows up in AI-generated " +
			"answers at all.",
	},
	models.CategoryContent: {
		Label: "Content Quality",
		Max:   MaxContent,
		Note: "Agents cannot see images and need enough real text to work " +
			"with; alt text and substantive copy are the baseline.",
	},
}

// CategoryOrder fixes the display order of categories.
var CategoryOrder = []models.Category{
	models.CategoryUsability,
	models.CategoryWebMCP,
	models.CategorySemantic,
	models.CategoryStructured,
	models.CategoryCrawlability,
	models.CategoryContent,
}
