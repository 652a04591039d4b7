// Package badge renders the shields-style SVG score badge served at
// /badge/{domain}.svg.
package badge

import (
	"fmt"

	"github.com/agentscan/agentscan/pkg/scoring"
)

const label = "agent ready"

// Per-character width estimate for the 11px Verdana the badge uses.
const charWidth = 7

const svgTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="20" role="img" aria-label="%s: %s">
  <linearGradient id="s" x2="0" y2="100%%">
    <stop offset="0" stop-color="#bbb" stop-opacity=".1"/>
    <stop offset="1" stop-opacity=".1"/>
  </linearGradient>
  <clipPath id="r">
    <rect width="%d" height="20" rx="3" fill="#fff"/>
  </clipPath>
  <g clip-path="url(#r)">
    <rect width="%d" height="20" fill="#555"/>
    <rect x="%d" width="%d" height="20" fill="%s"/>
    <rect width="%d" height="20" fill="url(#s)"/>
  </g>
  <g fill="#fff" text-anchor="middle" font-family="Verdana,Geneva,DejaVu Sans,sans-serif" font-size="11">
    <text x="%d" y="14">%s</text>
    <text x="%d" y="14">%s</text>
  </g>
</svg>`

// render lays out a two-segment badge: gray label, colored message.
func render(message, color string) string {
	labelWidth := len(label)*charWidth + 10
	messageWidth := len(message)*charWidth + 10
	total := labelWidth + messageWidth

	return fmt.Sprintf(svgTemplate,
		total, label, message,
		total,
		labelWidth,
		labelWidth, messageWidth, color,
		total,
		labelWidth/2, label,
		labelWidth+messageWidth/2, message,
	)
}

// Render produces the badge for a scored domain: "72/100 C" on the tier
// color of that score.
func Render(score int) string {
	grade := scoring.CalculateGrade(score)
	color := scoring.ReadinessFor(score).Color
	return render(fmt.Sprintf("%d/100 %s", score, grade), color)
}

// RenderUnknown produces the gray badge for a domain with no scans.
func RenderUnknown() string {
	return render("unscanned", "#9f9f9f")
}
