package analyzers

import (
	"fmt"
	"regexp"

	"github.com/agentscan/agentscan/models"
	"github.com/agentscan/agentscan/pkg/htmlutil"
)

// WebMCP scoring is additive: points accumulate per declared capability and
// the total is capped at 25.
const (
	pointsMCPTool        = 10
	pointsMCPParamMax    = 5
	pointsMCPDescription = 5
	pointsOpenAPI        = 5
)

// WebMCP is a browser-side convention (Chrome 146+); detection works off
// the declarative attributes in the served HTML.
var (
	mcpToolRe  = regexp.MustCompile(`(?i)mcp-tool=`)
	mcpParamRe = regexp.MustCompile(`(?i)mcp-param=`)
	mcpDescRe  = regexp.MustCompile(`(?i)mcp-description=`)
)

const mcpToolExample = `<form mcp-tool="search-products" mcp-description="Search the product catalog">
  <input mcp-param="query" mcp-description="Keywords to search for"
         type="search" name="q" />
  <button type="submit">Search</button>
</form>`

// AnalyzeWebMCP scores declarative WebMCP support: mcp-tool/mcp-param/
// mcp-description attributes plus OpenAPI or ai-plugin.json discovery
// hints. Meta tags are reported as an informational zero-point check.
func AnalyzeWebMCP(html string) models.CategoryResult {
	doc := htmlutil.Parse(html)
	checks := make([]models.CheckResult, 0, 5)
	score := 0

	tools := doc.MatchCount(mcpToolRe)
	params := doc.MatchCount(mcpParamRe)
	descs := doc.MatchCount(mcpDescRe)

	if tools > 0 {
		score += pointsMCPTool
	}
	toolDetail := "No mcp-tool attributes found — forms are not declared as agent tools"
	if tools > 0 {
		toolDetail = fmt.Sprintf("%d MCP tool(s) declared", tools)
	}
	checks = append(checks, failable(models.CheckResult{
		ID:      models.CheckMCPTool,
		Name:    "MCP tools declared (mcp-tool)",
		Passed:  tools > 0,
		Impact:  models.ImpactHigh,
		Detail:  toolDetail,
		Fix:     `Add mcp-tool="tool-name" to forms agents should be able to call`,
		Example: mcpToolExample,
	}))

	if params > 0 {
		score += min(pointsMCPParamMax, params)
	}
	paramDetail := "No mcp-param attributes found"
	if params > 0 {
		paramDetail = fmt.Sprintf("%d MCP parameter(s) defined", params)
	}
	checks = append(checks, failable(models.CheckResult{
		ID:      models.CheckMCPParam,
		Name:    "MCP parameters defined (mcp-param)",
		Passed:  params > 0,
		Impact:  models.ImpactMedium,
		Detail:  paramDetail,
		Fix:     `Add mcp-param="name" to each input of an mcp-tool form`,
		Example: `<input mcp-param="query" type="search" name="q" />`,
	}))

	if descs > 0 {
		score += pointsMCPDescription
	}
	descDetail := "No mcp-description attributes found"
	if descs > 0 {
		descDetail = "MCP descriptions present (agent-friendly)"
	}
	checks = append(checks, failable(models.CheckResult{
		ID:      models.CheckMCPDescription,
		Name:    "MCP descriptions present (mcp-description)",
		Passed:  descs > 0,
		Impact:  models.ImpactMedium,
		Detail:  descDetail,
		Fix:     `Describe each tool and parameter with mcp-description="…" so agents know what they do`,
		Example: `<form mcp-tool="search" mcp-description="Search the product catalog">`,
	}))

	// OpenAPI / well-known agent hints.
	hasAPI := doc.Contains("/.well-known/ai-plugin.json") ||
		doc.Contains("openapi") || doc.Contains("swagger")
	if hasAPI {
		score += pointsOpenAPI
	}
	apiDetail := "No OpenAPI spec or ai-plugin.json reference found"
	if hasAPI {
		apiDetail = "OpenAPI/ai-plugin hints detected"
	}
	checks = append(checks, failable(models.CheckResult{
		ID:     models.CheckOpenAPI,
		Name:   "OpenAPI / ai-plugin.json discovery",
		Passed: hasAPI,
		Impact: models.ImpactMedium,
		Detail: apiDetail,
		Fix:    "Publish /.well-known/ai-plugin.json pointing at your OpenAPI spec",
		Example: `// /.well-known/ai-plugin.json
{
  "schema_version": "v1",
  "name_for_human": "My API",
  "api": { "type": "openapi", "url": "https://example.com/openapi.json" }
}`,
	}))

	// Meta tags: informational only, zero points either way.
	hasMeta := doc.Count(`meta[name="description"], meta[name="robots"]`) > 0
	metaDetail := "No description/robots meta tags found"
	if hasMeta {
		metaDetail = "Description/robots meta tags present"
	}
	checks = append(checks, models.CheckResult{
		ID:     models.CheckMetaTags,
		Name:   "Description meta tags",
		Passed: hasMeta,
		Impact: models.ImpactLow,
		Detail: metaDetail,
	})

	return models.CategoryResult{Score: clamp(score, 0, MaxWebMCP), Checks: checks}
}
