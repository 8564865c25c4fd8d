package conditioning

import (
	"fmt"
	"slices"
	"strings"

	"github.com/myrjola/fightcamp/internal/athlete"
	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/selection"
	"github.com/myrjola/fightcamp/internal/vocab"
)

//nolint:gochecknoglobals // display order.
var groupOrder = []string{"aerobic", "glycolytic", "alactic", "coordination"}

// Format renders the conditioning block of a phase as Markdown, grouped by energy system.
func Format(sel *selection.Selection, ath *athlete.Context) string {
	var b strings.Builder
	phase := sel.Phase
	sessions := ath.Sessions(phase).Conditioning
	fmt.Fprintf(&b, "**Phase:** %s, %d conditioning sessions per week, %d drills per session\n\n",
		phase, sessions, perDay[phase])

	grouped := selection.GroupBySystem(sel.Items)
	byName := make(map[string]catalog.Item, len(sel.Items))
	for _, item := range sel.Items {
		byName[item.Name] = item
	}
	for _, group := range groupOrder {
		names := grouped[group]
		if len(names) == 0 {
			continue
		}
		fmt.Fprintf(&b, "**%s**\n", vocab.Title(group))
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			if seen[name] {
				continue
			}
			seen[name] = true
			b.WriteString("- " + drillLine(byName[name], sel.Mods[name]) + "\n")
		}
		b.WriteString("\n")
	}
	if len(sel.Items) == 0 {
		b.WriteString("- No safe drills matched this phase; keep to easy Zone 2 work.\n\n")
	}

	gaps := missingGaps(sel)
	if len(gaps) > 0 {
		b.WriteString("**Missing systems:**\n")
		for _, g := range gaps {
			fmt.Fprintf(&b, "- %s: %s. Coach option: %s.\n", vocab.Title(g.System), g.Reason, g.Option)
		}
	}
	return b.String()
}

// missingGaps returns the recorded gaps plus any system emptied after selection, e.g. by the coach review.
func missingGaps(sel *selection.Selection) []selection.Gap {
	gaps := slices.Clone(sel.Missing)
	grouped := selection.GroupBySystem(sel.Items)
	for _, system := range preferredOrder[sel.Phase] {
		if len(grouped[string(system)]) > 0 {
			continue
		}
		if slices.ContainsFunc(gaps, func(g selection.Gap) bool { return g.System == string(system) }) {
			continue
		}
		gaps = append(gaps, selection.Gap{
			System: string(system),
			Reason: "injury constraint removed the selected drill",
			Option: compensations[system],
		})
	}
	return gaps
}

func drillLine(item catalog.Item, mods []string) string {
	line := item.Name
	var details []string
	for _, field := range []string{item.Timing, item.Load, item.Rest} {
		if field != "" {
			details = append(details, field)
		}
	}
	if item.Prescription != "" && len(details) == 0 {
		details = append(details, item.Prescription)
	}
	if len(details) > 0 {
		line += " – " + strings.Join(details, "; ")
	}
	if vocab.NeedsEquipment(item.Equipment) {
		labels := make([]string, 0, len(item.Equipment))
		for _, e := range item.Equipment {
			labels = append(labels, vocab.Title(e))
		}
		line += " (" + strings.Join(labels, ", ") + ")"
	}
	if len(mods) > 0 {
		line += " _[modify: " + strings.ReplaceAll(strings.Join(mods, ", "), "_", " ") + "]_"
	}
	return line
}
