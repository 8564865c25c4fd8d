package strength

import (
	"fmt"
	"strings"

	"github.com/myrjola/fightcamp/internal/athlete"
	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/selection"
	"github.com/myrjola/fightcamp/internal/vocab"
)

const shortOnTimeKeep = 3

// Format renders the strength block of a phase as Markdown.
func Format(sel *selection.Selection, ath *athlete.Context) string {
	var b strings.Builder
	phase := sel.Phase
	fmt.Fprintf(&b, "**Phase:** %s (%s)\n\n", phase, phaseNames[phase])

	b.WriteString("**Weekly Progression:**\n")
	weeks := max(ath.Calendar.Weeks.Get(phase), 1)
	for w := 1; w <= weeks; w++ {
		fmt.Fprintf(&b, "- Week %d: %s\n", w, weekLine(phase, w, weeks))
	}

	keep := min(shortOnTimeKeep, len(sel.Items))
	fmt.Fprintf(&b, "\n**Short on time:** keep the first %d exercises, cut accessories and finish with the "+
		"isometric hold if one is listed.\n\n", keep)

	b.WriteString("**Top Exercises:**\n")
	if len(sel.Items) == 0 {
		b.WriteString("- No safe exercises matched this phase; use bodyweight circuits and mobility.\n")
	}
	for _, item := range sel.Items {
		b.WriteString("- " + exerciseLine(item, sel.Mods[item.Name]) + "\n")
	}

	fmt.Fprintf(&b, "\n**Prescription:** %s.\n", prescriptions[phase])
	fmt.Fprintf(&b, "\n**Fatigue Adjustment:** %s\n", fatigueNote(ath.Fatigue))
	return b.String()
}

func exerciseLine(item catalog.Item, mods []string) string {
	line := item.Name
	if vocab.NeedsEquipment(item.Equipment) {
		labels := make([]string, 0, len(item.Equipment))
		for _, e := range item.Equipment {
			labels = append(labels, vocab.Title(e))
		}
		line += " (" + strings.Join(labels, ", ") + ")"
	}
	if item.Prescription != "" {
		line += " – " + item.Prescription
	}
	if len(mods) > 0 {
		labels := make([]string, 0, len(mods))
		for _, m := range mods {
			labels = append(labels, strings.ReplaceAll(m, "_", " "))
		}
		line += " _[modify: " + strings.Join(labels, ", ") + "]_"
	}
	return line
}

func weekLine(phase catalog.Phase, week, weeks int) string {
	last := week == weeks && weeks > 1
	switch phase {
	case catalog.GPP:
		switch {
		case week == 1:
			return "establish working loads at RPE 7"
		case last:
			return "deload, drop volume 30–40%"
		default:
			return progressions[phase]
		}
	case catalog.SPP:
		switch {
		case week == 1:
			return "introduce contrast pairs with full rest"
		case last:
			return "peak intensity, trim one set per exercise"
		default:
			return progressions[phase]
		}
	case catalog.TAPER:
		if last {
			return "fight week: primers only, two sets each"
		}
		return progressions[phase]
	}
	return progressions[phase]
}

func fatigueNote(f vocab.Fatigue) string {
	switch f {
	case vocab.FatigueHigh:
		return "fatigue is high: drop one set from every exercise and cap effort at RPE 7."
	case vocab.FatigueModerate:
		return "fatigue is moderate: drop the last set whenever bar speed slows."
	case vocab.FatigueLow:
		return "fatigue is low: train as written."
	}
	return "train as written."
}
