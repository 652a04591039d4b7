package analyzers

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/agentscan/agentscan/models"
	"github.com/agentscan/agentscan/pkg/fetcher"
)

const (
	pointsHTTPS      = 1
	pointsRobots     = 2
	pointsSitemap    = 1
	pointsLLMsTxt    = 1
	pointsPerAICrawl = 1

	// robotsWindow is how many characters around a user-agent mention are
	// scanned for its disallow rules.
	robotsWindow = 80
)

// rootDisallowRe matches a root-wide "Disallow: /" line and nothing
// narrower, so path rules like "Disallow: /admin/" never count as a block.
var rootDisallowRe = regexp.MustCompile(`(?m)^\s*disallow:\s*/\s*$`)

// AnalyzeCrawlability probes whether AI crawlers can find and are allowed
// to read the site: HTTPS, robots.txt, per-crawler allowances, sitemap and
// llms.txt. Every sub-fetch fails soft; an unreachable robots.txt is
// reported, never fatal.
func AnalyzeCrawlability(ctx context.Context, f *fetcher.Fetcher, pageURL string, cfg models.ScanConfig) models.CategoryResult {
	checks := make([]models.CheckResult, 0, 5)
	score := 0

	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		u = &url.URL{Scheme: "https", Host: ""}
	}
	base := u.Scheme + "://" + u.Host

	// HTTPS.
	isHTTPS := u.Scheme == "https"
	if isHTTPS {
		score += pointsHTTPS
	}
	httpsDetail := "Site is served over HTTPS"
	if !isHTTPS {
		httpsDetail = "Site is not served over HTTPS"
	}
	checks = append(checks, failable(models.CheckResult{
		ID:     models.CheckHTTPS,
		Name:   "HTTPS enabled",
		Passed: isHTTPS,
		Impact: models.ImpactHigh,
		Detail: httpsDetail,
		Fix:    "Serve the site over HTTPS and redirect HTTP traffic",
	}))

	// The well-known files are fetched in parallel so total latency is
	// bounded by the slowest request, not the sum. Each goroutine writes
	// its own variables; the WaitGroup orders the reads below.
	var (
		robots         string
		robotsOK       bool
		responseTimeMs int64
		sitemapFetched bool
		llmsPath       string
	)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		// robots.txt doubles as the response-time probe.
		if resp, ferr := f.Fetch(ctx, base+"/robots.txt", cfg.ProbeTimeout); ferr == nil {
			responseTimeMs = resp.Duration.Milliseconds()
			if resp.OK {
				robotsOK = true
				robots = strings.ToLower(resp.Body)
			}
		}
	}()
	go func() {
		defer wg.Done()
		if resp, ferr := f.Fetch(ctx, base+"/sitemap.xml", cfg.SubFetchTimeout); ferr == nil && resp.OK {
			sitemapFetched = true
		}
	}()
	go func() {
		defer wg.Done()
		// The fallback location is only tried when the primary misses.
		if resp, ferr := f.Fetch(ctx, base+"/llms.txt", cfg.SubFetchTimeout); ferr == nil && resp.OK {
			llmsPath = "/llms.txt"
			return
		}
		if resp, ferr := f.Fetch(ctx, base+"/.well-known/llms.txt", cfg.SubFetchTimeout); ferr == nil && resp.OK {
			llmsPath = "/.well-known/llms.txt"
		}
	}()
	wg.Wait()

	if robotsOK {
		score += pointsRobots
	}
	robotsDetail := "robots.txt found"
	if !robotsOK {
		robotsDetail = "No robots.txt found"
	}
	checks = append(checks, failable(models.CheckResult{
		ID:      models.CheckRobotsTxt,
		Name:    "robots.txt present",
		Passed:  robotsOK,
		Impact:  models.ImpactMedium,
		Detail:  robotsDetail,
		Fix:     "Create /robots.txt so crawlers know what they may read",
		Example: "User-agent: *\nAllow: /\n\nSitemap: https://example.com/sitemap.xml",
	}))

	// Per-crawler allowances.
	if robotsOK {
		blocked, allowed := classifyCrawlers(robots)
		score += len(allowed) * pointsPerAICrawl
		aiPassed := len(blocked) == 0
		aiDetail := "No AI crawlers blocked"
		switch {
		case !aiPassed:
			aiDetail = "AI crawlers blocked: " + strings.Join(blocked, ", ")
		case len(allowed) > 0:
			aiDetail = fmt.Sprintf("%d AI crawler(s) explicitly allowed: %s", len(allowed), strings.Join(allowed, ", "))
		}
		checks = append(checks, failable(models.CheckResult{
			ID:      models.CheckAICrawlers,
			Name:    "AI crawlers allowed",
			Passed:  aiPassed,
			Impact:  models.ImpactHigh,
			Detail:  aiDetail,
			Fix:     "Allow AI crawler user agents in robots.txt",
			Example: "User-agent: GPTBot\nAllow: /\n\nUser-agent: Claude-Web\nAllow: /",
		}))
	} else {
		checks = append(checks, models.CheckResult{
			ID:     models.CheckAICrawlers,
			Name:   "AI crawlers allowed",
			Passed: true,
			Impact: models.ImpactHigh,
			Detail: "Cannot check AI crawler rules — no robots.txt",
		})
	}

	// Sitemap: declared in robots.txt or reachable at /sitemap.xml.
	hasSitemap := sitemapFetched || strings.Contains(robots, "sitemap:")
	if hasSitemap {
		score += pointsSitemap
	}
	sitemapDetail := "Sitemap found"
	if !hasSitemap {
		sitemapDetail = "No sitemap found"
	}
	checks = append(checks, failable(models.CheckResult{
		ID:     models.CheckSitemap,
		Name:   "Sitemap available",
		Passed: hasSitemap,
		Impact: models.ImpactMedium,
		Detail: sitemapDetail,
		Fix:    "Publish /sitemap.xml and declare it in robots.txt",
	}))

	// llms.txt, with the .well-known fallback location.
	hasLLMs := llmsPath != ""
	llmsDetail := "No llms.txt found"
	if hasLLMs {
		llmsDetail = "llms.txt found at " + llmsPath
		score += pointsLLMsTxt
	}
	checks = append(checks, failable(models.CheckResult{
		ID:     models.CheckLLMsTxt,
		Name:   "llms.txt summary file",
		Passed: hasLLMs,
		Impact: models.ImpactLow,
		Detail: llmsDetail,
		Fix:    "Publish /llms.txt with a concise markdown summary of the site for language models",
		Example: "# Acme Widgets\n\n> Catalog and ordering for Acme widgets.\n\n## Docs\n- [API reference](https://example.com/docs/api)",
	}))

	return models.CategoryResult{
		Score:          clamp(score, 0, MaxCrawlability),
		Checks:         checks,
		ResponseTimeMs: responseTimeMs,
	}
}

// classifyCrawlers splits the known AI crawlers into blocked and
// explicitly-allowed sets for one lowercased robots.txt body.
//
// A mentioned crawler is blocked when a root-wide disallow sits within its
// rule window. An unmentioned crawler inherits the wildcard group, scanned
// forward only so an earlier group's rules cannot bleed into it.
func classifyCrawlers(robots string) (blocked, allowed []string) {
	for _, bot := range AICrawlers {
		idx := strings.Index(robots, bot)
		if idx >= 0 {
			start := max(0, idx-robotsWindow)
			end := min(len(robots), idx+robotsWindow)
			if rootDisallowRe.MatchString(robots[start:end]) {
				blocked = append(blocked, bot)
			} else {
				allowed = append(allowed, bot)
			}
			continue
		}
		widx := wildcardGroupIndex(robots)
		if widx >= 0 {
			end := min(len(robots), widx+2*robotsWindow)
			if rootDisallowRe.MatchString(robots[widx:end]) {
				blocked = append(blocked, bot)
			}
		}
	}
	return blocked, allowed
}

func wildcardGroupIndex(robots string) int {
	if idx := strings.Index(robots, "user-agent: *"); idx >= 0 {
		return idx
	}
	return strings.Index(robots, "user-agent:*")
}
