package plan

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/myrjola/fightcamp/internal/athlete"
	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/injury"
	"github.com/myrjola/fightcamp/internal/review"
)

//nolint:gochecknoglobals // precompiled patterns.
var (
	timeLabel       = regexp.MustCompile(`(?:\*\*)?\b((?:Week|Day)s? \d+(?:\s*[-–]\s*\d+)?:)(?:\*\*)?`)
	trailingSpace   = regexp.MustCompile(`(?m)[ \t]+$`)
	extraBlankLines = regexp.MustCompile(`\n{4,}`)
)

// layout assembles the plan document in its fixed section order.
func layout(ath *athlete.Context, reviewed review.Result, rehab map[injury.Region][]catalog.Item) string {
	var b strings.Builder
	b.WriteString("# FIGHT CAMP PLAN\n\n")
	for n, phase := range ath.Calendar.Active() {
		fmt.Fprintf(&b, "## PHASE %d: %s – %d WEEKS (%d DAYS)\n\n", n+1, phase,
			ath.Calendar.Weeks.Get(phase), ath.Calendar.Days.Get(phase))
		section(&b, "### Mindset Focus", mindsetFocus(ath, phase))
		st, co := reviewed.Strength[phase], reviewed.Conditioning[phase]
		if st != nil {
			section(&b, "### Strength & Power", st.Block)
		}
		if co != nil {
			section(&b, "### Conditioning", co.Block)
		}
		if ath.HasInjuries() {
			section(&b, "### Injury Guardrails", guardrails(ath, phase, rehab, st, co))
		}
	}
	section(&b, "## Nutrition", nutrition(ath))
	section(&b, "## Recovery", recovery(ath))
	if protocols := rehabProtocols(ath, rehab); protocols != "" {
		section(&b, "## Rehab Protocols", protocols)
	}
	section(&b, "## Mindset Overview", mindsetOverview(ath))
	section(&b, "### Sparring & Conditioning Adjustments", adjustments(ath))
	section(&b, "## Athlete Profile", profile(ath))
	return tidy(b.String())
}

func section(b *strings.Builder, heading, body string) {
	b.WriteString(heading + "\n\n")
	b.WriteString(strings.TrimRight(body, "\n") + "\n\n")
}

// tidy bolds week and day labels, strips trailing whitespace and allows at most two consecutive blank lines.
func tidy(s string) string {
	s = timeLabel.ReplaceAllString(s, "**$1**")
	s = trailingSpace.ReplaceAllString(s, "")
	s = extraBlankLines.ReplaceAllString(s, "\n\n\n")
	return strings.TrimRight(s, "\n") + "\n"
}
