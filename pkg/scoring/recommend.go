package scoring

import (
	"sort"

	"github.com/agentscan/agentscan/models"
	"github.com/agentscan/agentscan/pkg/analyzers"
)

// Recommendation trigger thresholds and point estimates.
const (
	webmcpBasicThreshold = 10
	webmcpFullThreshold  = 20
	structuredThreshold  = 8
	semanticThreshold    = 12

	maxRecommendations = 8
)

var impactRank = map[models.Impact]int{
	models.ImpactHigh:   0,
	models.ImpactMedium: 1,
	models.ImpactLow:    2,
}

var effortRank = map[models.Effort]int{
	models.EffortLow:    0,
	models.EffortMedium: 1,
	models.EffortHigh:   2,
}

// Recommend derives the prioritized fix list from the category scores and
// their check results. Best return on effort sorts first; the list is
// capped at eight entries, and a perfect scan yields none.
func Recommend(scores models.CategoryScores, details []models.CategoryDetail) []models.Recommendation {
	recs := []models.Recommendation{}

	checks := map[models.CheckID]models.CheckResult{}
	issuesByCategory := map[models.Category][]string{}
	for _, d := range details {
		for _, c := range d.Checks {
			checks[c.ID] = c
			if !c.Passed {
				issuesByCategory[d.Category] = append(issuesByCategory[d.Category], c.Detail)
			}
		}
	}
	issues := func(cat models.Category) []string {
		if list := issuesByCategory[cat]; list != nil {
			return list
		}
		return []string{}
	}
	failed := func(id models.CheckID) bool {
		c, found := checks[id]
		return found && !c.Passed
	}

	if scores.WebMCP < webmcpBasicThreshold {
		recs = append(recs, models.Recommendation{
			Category: models.CategoryWebMCP,
			Title:    "Implement WebMCP declarative API",
			Description: "Declare your forms as callable tools with mcp-tool, mcp-param and " +
				"mcp-description attributes so browser agents can operate the site directly.",
			Points:  analyzers.MaxWebMCP - scores.WebMCP,
			Effort:  models.EffortLow,
			Impact:  models.ImpactHigh,
			Example: checks[models.CheckMCPTool].Example,
			Issues:  issues(models.CategoryWebMCP),
			Steps: []string{
				"Identify the key user actions on the page (search, signup, checkout)",
				`Add mcp-tool="action-name" to each corresponding form`,
				`Add mcp-param="name" to every input the action needs`,
				"Describe each tool and parameter with mcp-description",
				"Verify with a WebMCP-capable browser that the tools are listed",
			},
		})
	} else if scores.WebMCP < webmcpFullThreshold {
		recs = append(recs, models.Recommendation{
			Category: models.CategoryWebMCP,
			Title:    "Add OpenAPI spec / ai-plugin.json",
			Description: "You already declare MCP tools; publishing an OpenAPI spec and " +
				"/.well-known/ai-plugin.json makes the same capabilities discoverable to agents that arrive via HTTP.",
			Points: 5,
			Effort: models.EffortMedium,
			Impact: models.ImpactMedium,
			Issues: issues(models.CategoryWebMCP),
			Steps: []string{
				"Write an OpenAPI 3 document covering your public endpoints",
				"Serve it at a stable URL such as /openapi.json",
				"Publish /.well-known/ai-plugin.json pointing at the spec",
			},
		})
	}

	if scores.Structured < structuredThreshold {
		recs = append(recs, models.Recommendation{
			Category: models.CategoryStructured,
			Title:    "Add JSON-LD structured data",
			Description: "JSON-LD tells agents what the page is about without inference. " +
				"Pages with rich types are far more likely to be cited in AI answers.",
			Points:  analyzers.MaxStructured - scores.Structured,
			Effort:  models.EffortLow,
			Impact:  models.ImpactHigh,
			Example: checks[models.CheckJSONLD].Example,
			Issues:  issues(models.CategoryStructured),
			Steps: []string{
				"Pick the schema.org type matching the page (Product, Article, FAQPage)",
				"Add a script type=\"application/ld+json\" block to the head",
				"Fill in the required properties for the chosen type",
				"Validate with the schema.org validator",
			},
		})
	}

	if failed(models.CheckFormLabels) {
		recs = append(recs, models.Recommendation{
			Category: models.CategoryUsability,
			Title:    "Add labels to all form inputs",
			Description: "Unlabelled inputs are guesswork for agents and screen readers alike. " +
				"Every visible input needs an associated label.",
			Points:  8,
			Effort:  models.EffortLow,
			Impact:  models.ImpactHigh,
			Example: checks[models.CheckFormLabels].Example,
			Issues:  issues(models.CategoryUsability),
			Steps: []string{
				"Give every visible input a unique id",
				`Add <label for="..."> matching each id`,
				"Use aria-label where a visible label does not fit the design",
			},
		})
	}

	if failed(models.CheckNoCaptcha) {
		recs = append(recs, models.Recommendation{
			Category: models.CategoryUsability,
			Title:    "Remove CAPTCHA from agent-accessible flows",
			Description: "CAPTCHAs stop AI agents completely. Rate limiting and honeypot " +
				"fields protect the same flows without shutting agents out.",
			Points: 5,
			Effort: models.EffortMedium,
			Impact: models.ImpactHigh,
			Issues: issues(models.CategoryUsability),
			Steps: []string{
				"Add server-side rate limiting on the protected endpoints",
				"Replace the CAPTCHA with a hidden honeypot field",
				"Keep CAPTCHA only behind explicit abuse triggers",
			},
		})
	}

	if scores.Semantic < semanticThreshold {
		recs = append(recs, models.Recommendation{
			Category: models.CategorySemantic,
			Title:    "Add semantic HTML5 landmark elements",
			Description: "Landmarks give agents the structural map of the page. " +
				"Replacing wrapper divs with header, nav, main and footer is a markup-only change.",
			Points:  analyzers.MaxSemantic - scores.Semantic,
			Effort:  models.EffortMedium,
			Impact:  models.ImpactMedium,
			Example: checks[models.CheckLandmarks].Example,
			Issues:  issues(models.CategorySemantic),
			Steps: []string{
				"Wrap the page chrome in <header>, <nav> and <footer>",
				"Put the primary content in a single <main>",
				"Break content into <article>/<section> with headings",
			},
		})
	}

	if failed(models.CheckH1) {
		recs = append(recs, models.Recommendation{
			Category: models.CategorySemantic,
			Title:    "Add a descriptive <h1> heading",
			Description: "The h1 is the first thing an agent reads to decide what a page is. " +
				"One per page, stating the page's subject.",
			Points:  4,
			Effort:  models.EffortLow,
			Impact:  models.ImpactHigh,
			Example: checks[models.CheckH1].Example,
			Issues:  issues(models.CategorySemantic),
			Steps: []string{
				"Add one <h1> naming the page's subject",
				"Demote any competing headings to <h2>",
				"Keep it text, not an image or background graphic",
			},
		})
	}

	if failed(models.CheckRobotsTxt) {
		points := analyzers.MaxCrawlability - scores.Crawlability
		if points < 1 {
			points = 1
		}
		recs = append(recs, models.Recommendation{
			Category: models.CategoryCrawlability,
			Title:    "Create robots.txt with AI crawler allowances",
			Description: "Without robots.txt, AI crawlers guess at what they may read. " +
				"An explicit allow for the major AI user agents settles it.",
			Points:  points,
			Effort:  models.EffortLow,
			Impact:  models.ImpactMedium,
			Example: checks[models.CheckRobotsTxt].Example,
			Issues:  issues(models.CategoryCrawlability),
			Steps: []string{
				"Create /robots.txt at the site root",
				"Add explicit Allow rules for GPTBot, Claude-Web, PerplexityBot and CCBot",
				"Declare your sitemap URL in the same file",
			},
		})
	}

	if failed(models.CheckAICrawlers) && !failed(models.CheckRobotsTxt) {
		recs = append(recs, models.Recommendation{
			Category: models.CategoryCrawlability,
			Title:    "Unblock AI crawlers in robots.txt",
			Description: "Your robots.txt blocks one or more AI crawlers, which keeps the site " +
				"out of AI-generated answers entirely.",
			Points:  3,
			Effort:  models.EffortLow,
			Impact:  models.ImpactHigh,
			Example: checks[models.CheckAICrawlers].Example,
			Issues:  issues(models.CategoryCrawlability),
			Steps: []string{
				"Find the Disallow rules matching AI user agents",
				"Replace them with Allow: / for the crawlers you want to admit",
				"Keep narrower Disallow rules for genuinely private paths",
			},
		})
	}

	if failed(models.CheckLLMsTxt) {
		recs = append(recs, models.Recommendation{
			Category: models.CategoryCrawlability,
			Title:    "Publish an llms.txt summary",
			Description: "llms.txt is a one-file markdown summary of the site written for " +
				"language models. Cheap to write, and agents read it first.",
			Points:  1,
			Effort:  models.EffortLow,
			Impact:  models.ImpactMedium,
			Example: checks[models.CheckLLMsTxt].Example,
			Issues:  issues(models.CategoryCrawlability),
			Steps: []string{
				"Write a short markdown overview of what the site offers",
				"Link the most useful pages and docs",
				"Serve it at /llms.txt",
			},
		})
	}

	if failed(models.CheckAltText) {
		recs = append(recs, models.Recommendation{
			Category: models.CategoryContent,
			Title:    "Add descriptive alt text to images",
			Description: "Agents cannot see images. Alt text is the only way image content " +
				"reaches them.",
			Points:  3,
			Effort:  models.EffortLow,
			Impact:  models.ImpactMedium,
			Example: checks[models.CheckAltText].Example,
			Issues:  issues(models.CategoryContent),
			Steps: []string{
				"Write alt text describing each content image's subject",
				`Mark purely decorative images with alt=""`,
				"Avoid stuffing keywords; describe what is shown",
			},
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		pi := impactRank[recs[i].Impact] + effortRank[recs[i].Effort]
		pj := impactRank[recs[j].Impact] + effortRank[recs[j].Effort]
		if pi != pj {
			return pi < pj
		}
		return recs[i].Points > recs[j].Points
	})
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
