package analyzers

import (
	"fmt"
	"regexp"

	"github.com/agentscan/agentscan/models"
	"github.com/agentscan/agentscan/pkg/htmlutil"
)

// Usability penalties, subtracted independently from the 30-point ceiling.
const (
	penaltyLabels         = 8
	penaltyButtons        = 5
	penaltyCaptcha        = 5
	penaltyLoginWall      = 3
	penaltyInfiniteScroll = 4

	labelRatioThreshold = 0.8
	clickableDivLimit   = 2
)

// CAPTCHA is detected by structural signals only (scripts, widget classes,
// sitekeys, iframes), never by the word "captcha" in prose, which would be
// a false positive.
var (
	captchaScriptRe = regexp.MustCompile(`(?i)src=["'][^"']*(?:recaptcha|hcaptcha|captcha\.js|challenge\.cloudflare)`)
	captchaClassRe  = regexp.MustCompile(`(?i)class=["'][^"']*(?:g-recaptcha|h-captcha|cf-turnstile)`)
	captchaKeyRe    = regexp.MustCompile(`(?i)data-sitekey=`)
	captchaFrameRe  = regexp.MustCompile(`(?i)<iframe[^>]+(?:recaptcha|hcaptcha)`)

	loginRe      = regexp.MustCompile(`(?i)login|sign.?in`)
	signupRe     = regexp.MustCompile(`(?i)sign.?up|register|create.?account`)
	infscrollRe  = regexp.MustCompile(`(?i)infinite.?scroll|infinitescroll`)
	paginationRe = regexp.MustCompile(`(?i)pagination|page=\d|\bprev(ious)?\b|\bnext\b`)
)

// AnalyzeUsability scores how operable the page is for an AI agent:
// labelled forms, real buttons, no CAPTCHA walls, a visible signup path and
// traversable pagination. Empty HTML carries no negative signals and scores
// the full 30.
func AnalyzeUsability(html string) models.CategoryResult {
	doc := htmlutil.Parse(html)
	checks := make([]models.CheckResult, 0, 5)
	score := MaxUsability

	// Label coverage. Hidden inputs carry no user-facing meaning and are
	// excluded from the ratio.
	inputCount := doc.Count(`input:not([type="hidden"])`)
	labelCount := doc.Count("label")
	labelRatio := htmlutil.Ratio(labelCount, inputCount)
	labelsPassed := inputCount == 0 || labelRatio >= labelRatioThreshold
	if !labelsPassed {
		score -= penaltyLabels
	}
	labelDetail := "No form inputs found"
	if inputCount > 0 {
		labelDetail = fmt.Sprintf("%d/%d inputs have associated labels", labelCount, inputCount)
	}
	checks = append(checks, failable(models.CheckResult{
		ID:     models.CheckFormLabels,
		Name:   "Form labels paired with inputs",
		Passed: labelsPassed,
		Impact: models.ImpactHigh,
		Detail: labelDetail,
		Fix:    `Add <label for="fieldId"> for every <input id="fieldId">`,
		Example: `<!-- Before -->
<input type="email" name="email" />

<!-- After -->
<label for="email">Email address</label>
<input type="email" id="email" name="email" />`,
	}))

	// Clickable divs and spans instead of buttons.
	clickables := doc.Count("div[onclick], span[onclick]")
	buttonsPassed := clickables <= clickableDivLimit
	if !buttonsPassed {
		score -= penaltyButtons
	}
	buttonDetail := "No div/span onclick handlers found"
	if clickables > 0 {
		buttonDetail = fmt.Sprintf("%d div or span element(s) using onclick instead of <button>", clickables)
	}
	checks = append(checks, failable(models.CheckResult{
		ID:     models.CheckSemanticButtons,
		Name:   "Semantic <button> elements",
		Passed: buttonsPassed,
		Impact: models.ImpactHigh,
		Detail: buttonDetail,
		Fix:    "Replace <div onclick> and <span onclick> with <button type=\"button\">",
		Example: `<!-- Before -->
<div onclick="submit()">Submit</div>

<!-- After -->
<button type="button" onclick="submit()">Submit</button>`,
	}))

	// CAPTCHA friction.
	hasCaptcha := doc.Has(captchaScriptRe) || doc.Has(captchaClassRe) ||
		doc.Has(captchaKeyRe) || doc.Has(captchaFrameRe)
	if hasCaptcha {
		score -= penaltyCaptcha
	}
	captchaDetail := "No CAPTCHA detected"
	if hasCaptcha {
		captchaDetail = "CAPTCHA detected — blocks AI agents from form submission"
	}
	checks = append(checks, failable(models.CheckResult{
		ID:     models.CheckNoCaptcha,
		Name:   "No CAPTCHA friction",
		Passed: !hasCaptcha,
		Impact: models.ImpactHigh,
		Detail: captchaDetail,
		Fix:    "Use honeypot fields or server-side rate limiting instead of CAPTCHA for API/agent flows",
	}))

	// Login-only wall: a login signal with no signup/register path.
	hasLogin := doc.Has(loginRe)
	hasSignup := doc.Has(signupRe)
	loginWall := hasLogin && !hasSignup
	if loginWall {
		score -= penaltyLoginWall
	}
	authDetail := "No authentication wall detected"
	switch {
	case loginWall:
		authDetail = "Login required with no visible signup/register path"
	case hasLogin:
		authDetail = "Login and signup both present"
	}
	checks = append(checks, failable(models.CheckResult{
		ID:     models.CheckAuthFlow,
		Name:   "Clear authentication flow",
		Passed: !loginWall,
		Impact: models.ImpactMedium,
		Detail: authDetail,
		Fix:    "Expose a public API endpoint or guest mode; surface signup alongside login",
	}))

	// Infinite scroll without a pagination fallback.
	hasInfinite := doc.Has(infscrollRe)
	hasPagination := doc.Has(paginationRe)
	scrollPassed := !hasInfinite || hasPagination
	if !scrollPassed {
		score -= penaltyInfiniteScroll
	}
	scrollDetail := "Content is paginated or no infinite scroll found"
	if !scrollPassed {
		scrollDetail = "Infinite scroll with no pagination fallback — agents cannot traverse pages"
	}
	checks = append(checks, failable(models.CheckResult{
		ID:     models.CheckPagination,
		Name:   "Paginated content (no infinite scroll only)",
		Passed: scrollPassed,
		Impact: models.ImpactMedium,
		Detail: scrollDetail,
		Fix:    `Add page= query params and <a rel="next"> links alongside infinite scroll`,
	}))

	return models.CategoryResult{Score: clamp(score, 0, MaxUsability), Checks: checks}
}

// failable strips Fix and Example from passing checks so the "no fix when
// passed" invariant holds at one place instead of every call site.
func failable(c models.CheckResult) models.CheckResult {
	if c.Passed {
		c.Fix = ""
		c.Example = ""
	}
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
