// Package models defines the data structures shared by the analyzers,
// the scoring engine, and the persistence layer.
package models

import "time"

// Category identifies one of the six scoring categories.
type Category string

const (
	CategoryUsability    Category = "usability"
	CategoryWebMCP       Category = "webmcp"
	CategorySemantic     Category = "semantic"
	CategoryStructured   Category = "structured"
	CategoryCrawlability Category = "crawlability"
	CategoryContent      Category = "content"
)

// Grade is the letter grade derived from the overall score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Impact is the editorial severity of a check or recommendation.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Effort estimates how much work a recommended fix takes.
type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// CheckID is the stable identity of an individual check. Downstream code
// (the recommendation engine, tests) looks checks up by ID, never by
// display name.
type CheckID string

const (
	CheckFormLabels      CheckID = "usability.form_labels"
	CheckSemanticButtons CheckID = "usability.semantic_buttons"
	CheckNoCaptcha       CheckID = "usability.no_captcha"
	CheckAuthFlow        CheckID = "usability.auth_flow"
	CheckPagination      CheckID = "usability.pagination"

	CheckMCPTool        CheckID = "webmcp.mcp_tool"
	CheckMCPParam       CheckID = "webmcp.mcp_param"
	CheckMCPDescription CheckID = "webmcp.mcp_description"
	CheckOpenAPI        CheckID = "webmcp.openapi"
	CheckMetaTags       CheckID = "webmcp.meta_tags"

	CheckLangAttribute CheckID = "semantic.lang_attribute"
	CheckLandmarks     CheckID = "semantic.landmarks"
	CheckH1            CheckID = "semantic.h1"
	CheckHeadings      CheckID = "semantic.heading_hierarchy"
	CheckDivRatio      CheckID = "semantic.div_ratio"
	CheckARIA          CheckID = "semantic.aria"
	CheckLayoutTables  CheckID = "semantic.layout_tables"

	CheckJSONLD    CheckID = "structured.json_ld"
	CheckMicrodata CheckID = "structured.microdata"
	CheckRichTypes CheckID = "structured.rich_types"

	CheckHTTPS      CheckID = "crawlability.https"
	CheckRobotsTxt  CheckID = "crawlability.robots_txt"
	CheckAICrawlers CheckID = "crawlability.ai_crawlers"
	CheckSitemap    CheckID = "crawlability.sitemap"
	CheckLLMsTxt    CheckID = "crawlability.llms_txt"

	CheckAltText    CheckID = "content.alt_text"
	CheckTextVolume CheckID = "content.text_volume"
)

// CheckResult is one atomic pass/fail test within a category.
// Fix and Example are only populated when the check fails (informational
// low-impact checks may omit them either way).
type CheckResult struct {
	ID      CheckID `json:"id" yaml:"id"`
	Name    string  `json:"name" yaml:"name"`
	Passed  bool    `json:"passed" yaml:"passed"`
	Impact  Impact  `json:"impact" yaml:"impact"`
	Detail  string  `json:"detail" yaml:"detail"`
	Fix     string  `json:"fix,omitempty" yaml:"fix,omitempty"`
	Example string  `json:"example,omitempty" yaml:"example,omitempty"`
}

// CategoryResult is the raw output of one analyzer.
type CategoryResult struct {
	Score  int           `json:"score" yaml:"score"`
	Checks []CheckResult `json:"checks" yaml:"checks"`

	// Types lists the schema.org type names discovered. Structured-data
	// analyzer only.
	Types []string `json:"types,omitempty" yaml:"types,omitempty"`

	// ResponseTimeMs is the robots.txt probe duration. Crawlability
	// analyzer only.
	ResponseTimeMs int64 `json:"responseTimeMs,omitempty" yaml:"response_time_ms,omitempty"`
}

// CategoryScores holds the six per-category scores. The category maxima
// (30+25+20+15+5+5) sum to 100.
type CategoryScores struct {
	Usability    int `json:"usability" yaml:"usability"`
	WebMCP       int `json:"webmcp" yaml:"webmcp"`
	Semantic     int `json:"semantic" yaml:"semantic"`
	Structured   int `json:"structured" yaml:"structured"`
	Crawlability int `json:"crawlability" yaml:"crawlability"`
	Content      int `json:"content" yaml:"content"`
}

// CategoryDetail is a CategoryResult enriched with presentation metadata.
type CategoryDetail struct {
	Category        Category      `json:"category" yaml:"category"`
	Label           string        `json:"label" yaml:"label"`
	Score           int           `json:"score" yaml:"score"`
	Max             int           `json:"max" yaml:"max"`
	Checks          []CheckResult `json:"checks" yaml:"checks"`
	EducationalNote string        `json:"educationalNote" yaml:"educational_note"`
}

// Recommendation is a prioritized fix derived from failed checks. It is
// recomputed on every scan, never stored independently.
type Recommendation struct {
	Category    Category `json:"category" yaml:"category"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Points      int      `json:"points" yaml:"points"`
	Effort      Effort   `json:"effort" yaml:"effort"`
	Impact      Impact   `json:"impact" yaml:"impact"`
	Example     string   `json:"example,omitempty" yaml:"example,omitempty"`
	Issues      []string `json:"issues" yaml:"issues"`
	Steps       []string `json:"steps" yaml:"steps"`
}

// ReadinessLevel is the 5-tier qualitative label derived from the overall
// score. It is a pure function of the score and is never stored on its own.
type ReadinessLevel struct {
	Level       int    `json:"level" yaml:"level"`
	Label       string `json:"label" yaml:"label"`
	Emoji       string `json:"emoji" yaml:"emoji"`
	Color       string `json:"color" yaml:"color"`
	Description string `json:"description" yaml:"description"`
}

// ScanResult is the top-level record produced by one scan. It is
// constructed once, immutable afterwards, and persisted verbatim.
type ScanResult struct {
	URL             string           `json:"url" yaml:"url"`
	Timestamp       time.Time        `json:"timestamp" yaml:"timestamp"`
	Scores          CategoryScores   `json:"scores" yaml:"scores"`
	Overall         int              `json:"overall" yaml:"overall"`
	Grade           Grade            `json:"grade" yaml:"grade"`
	Level           ReadinessLevel   `json:"level" yaml:"level"`
	Summary         string           `json:"summary" yaml:"summary"`
	Recommendations []Recommendation `json:"recommendations" yaml:"recommendations"`
	CategoryDetails []CategoryDetail `json:"categoryDetails" yaml:"category_details"`
	ResponseTimeMs  int64            `json:"responseTimeMs,omitempty" yaml:"response_time_ms,omitempty"`
	PageTitle       string           `json:"pageTitle,omitempty" yaml:"page_title,omitempty"`
	Excerpt         string           `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Error           string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the scan short-circuited on a primary fetch error.
func (r ScanResult) Failed() bool {
	return r.Error != ""
}
