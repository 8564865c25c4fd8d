package plan

import (
	"fmt"
	"slices"
	"strings"

	"github.com/myrjola/fightcamp/internal/athlete"
	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/injury"
	"github.com/myrjola/fightcamp/internal/selection"
	"github.com/myrjola/fightcamp/internal/vocab"
)

//nolint:gochecknoglobals // lookup table.
var phaseFocus = map[catalog.Phase]string{
	catalog.GPP: "Build the habit before the fight feels real. Show up, log every session and keep effort honest " +
		"rather than heroic.",
	catalog.SPP: "Rehearse the fight. Every hard round is a chance to practise the plan under fatigue, so finish " +
		"rounds with the same shape you start them.",
	catalog.TAPER: "Trust the work. Volume drops so sharpness can rise; protect sleep and keep the mind on the " +
		"first exchange, not the result.",
}

type mentalCue struct {
	keywords []string
	label    string
	cue      string
}

//nolint:gochecknoglobals // lookup table.
var mentalCues = []mentalCue{
	{[]string{"confidence", "doubt", "believe"}, "Confidence",
		"write down one skill that worked after every session and reread the list before sparring"},
	{[]string{"motivation", "discipline", "lazy"}, "Motivation",
		"set a minimum session you never skip, even on flat days"},
	{[]string{"anxiety", "nerves", "nervous", "stress", "pressure"}, "Nerves",
		"use a four-second exhale before each round and name the first technique you will throw"},
	{[]string{"focus", "distract", "concentration"}, "Focus",
		"pick one process goal per round and let everything else go"},
	{[]string{"fear", "getting hit", "scared"}, "Fear of getting hit",
		"build exposure with controlled partner drills before open sparring"},
	{[]string{"overthink", "hesitat", "freeze"}, "Hesitation",
		"drill two-shot combinations until they fire on a single cue"},
}

func mentalCuesFor(blocks []string) []mentalCue {
	var out []mentalCue
	for _, block := range blocks {
		lower := strings.ToLower(block)
		for _, c := range mentalCues {
			if slices.ContainsFunc(c.keywords, func(k string) bool { return strings.Contains(lower, k) }) &&
				!slices.ContainsFunc(out, func(o mentalCue) bool { return o.label == c.label }) {
				out = append(out, c)
			}
		}
	}
	return out
}

func mindsetFocus(ath *athlete.Context, phase catalog.Phase) string {
	var b strings.Builder
	b.WriteString(phaseFocus[phase] + "\n")
	for _, c := range mentalCuesFor(ath.MentalBlocks) {
		fmt.Fprintf(&b, "- %s: %s.\n", c.label, c.cue)
	}
	return b.String()
}

func mindsetOverview(ath *athlete.Context) string {
	var b strings.Builder
	if len(ath.MentalBlocks) == 0 {
		b.WriteString("No mental blockers reported. Keep a short post-session journal to catch any that appear.\n")
	} else {
		fmt.Fprintf(&b, "Reported blockers: %s.\n\n", strings.Join(ath.MentalBlocks, ", "))
		cues := mentalCuesFor(ath.MentalBlocks)
		if len(cues) == 0 {
			b.WriteString("- Talk the blocker through with your coach and agree one cue to use in sparring.\n")
		}
		for _, c := range cues {
			fmt.Fprintf(&b, "- %s: %s.\n", c.label, c.cue)
		}
	}
	b.WriteString("\n")
	for _, phase := range ath.Calendar.Active() {
		fmt.Fprintf(&b, "- %s: %s\n", phase, phaseFocus[phase])
	}
	return b.String()
}

const (
	proteinPerKG   = 2.0
	hydrationPerKG = 0.035
)

//nolint:gochecknoglobals // lookup table.
var carbsPerKG = map[catalog.Phase]string{
	catalog.GPP:   "4–5",
	catalog.SPP:   "5–6",
	catalog.TAPER: "3–4",
}

func nutrition(ath *athlete.Context) string {
	var b strings.Builder
	if ath.WeightKG > 0 {
		fmt.Fprintf(&b, "- Protein: about %.0f g per day (%.1f g/kg).\n", ath.WeightKG*proteinPerKG, proteinPerKG)
		fmt.Fprintf(&b, "- Water: at least %.1f L per day, more on double-session days.\n",
			ath.WeightKG*hydrationPerKG)
	} else {
		fmt.Fprintf(&b, "- Protein: %.1f g per kg of body weight per day.\n", proteinPerKG)
		b.WriteString("- Water: drink to pale urine and weigh in before and after hard sessions.\n")
	}
	for _, phase := range ath.Calendar.Active() {
		fmt.Fprintf(&b, "- %s carbohydrates: %s g/kg, most of it around training.\n", phase, carbsPerKG[phase])
	}
	switch {
	case ath.WeightCutRisk:
		fmt.Fprintf(&b, "- Weight cut: %.1f%% to make weight is a heavy cut. Start the diet now, lose no more "+
			"than 1%% per week and leave water manipulation to fight week under supervision.\n", ath.WeightCutPct)
	case ath.WeightCutPct > 0:
		fmt.Fprintf(&b, "- Weight cut: %.1f%% is manageable with a small daily deficit. Keep protein high.\n",
			ath.WeightCutPct)
	default:
		b.WriteString("- Weight: no cut planned. Eat to maintain and fuel the hard days.\n")
	}
	return b.String()
}

func recovery(ath *athlete.Context) string {
	var b strings.Builder
	b.WriteString("- Sleep 8–9 hours and keep wake time fixed through the camp.\n")
	switch ath.Fatigue {
	case vocab.FatigueHigh:
		b.WriteString("- Fatigue is high: take a full rest day after every two hard days and swap one " +
			"conditioning session for Zone 2 work this week.\n")
	case vocab.FatigueModerate:
		b.WriteString("- Fatigue is moderate: keep one full rest day and end sessions early if output drops.\n")
	case vocab.FatigueLow:
		b.WriteString("- Fatigue is low: one full rest day per week, active recovery on the other light day.\n")
	}
	if ath.Age >= 35 { //nolint:mnd // masters athletes.
		b.WriteString("- Add ten minutes of mobility after every session and allow 48 hours between heavy " +
			"lower-body days.\n")
	}
	if ath.WeightCutRisk {
		b.WriteString("- During the cut, schedule the hardest sessions after your largest meals.\n")
	}
	if ath.HasInjuries() {
		b.WriteString("- Treat the rehab protocol as part of training and stop any drill that raises pain " +
			"above 3/10.\n")
	}
	return b.String()
}

func adjustments(ath *athlete.Context) string {
	var b strings.Builder
	b.WriteString("| Situation | Adjustment |\n|---|---|\n")
	b.WriteString("| Hard sparring day | Replace that day's conditioning with 20 minutes of Zone 2 work. |\n")
	switch ath.Fatigue {
	case vocab.FatigueHigh:
		b.WriteString("| High fatigue | Cut conditioning volume by a third and keep strength to two sets. |\n")
	case vocab.FatigueModerate:
		b.WriteString("| Moderate fatigue | Drop the final conditioning round when pace slows. |\n")
	case vocab.FatigueLow:
		b.WriteString("| Low fatigue | Train as written; add one round only if technique stays sharp. |\n")
	}
	if ath.WeightCutRisk {
		b.WriteString("| Weight cut | Keep glycolytic work short and never train dehydrated. |\n")
	}
	if ath.Rounds > 0 && ath.RoundMinutes > 0 {
		fmt.Fprintf(&b, "| Fight format %dx%d | Match interval work to %d-minute rounds with 1 minute rest. |\n",
			ath.Rounds, ath.RoundMinutes, ath.RoundMinutes)
	}
	if days := len(ath.Availability); days > 0 {
		fmt.Fprintf(&b, "| %d training days available | Pair strength and conditioning on the same day before "+
			"dropping either. |\n", days)
	}
	if ath.HasInjuries() {
		b.WriteString("| Injury flares | Swap the drill for its listed replacement and report it to your coach. |\n")
	}
	return b.String()
}

func profile(ath *athlete.Context) string {
	var b strings.Builder
	line := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			fmt.Fprintf(&b, "- **%s:** %s\n", label, value)
		}
	}
	line("Name", ath.Name)
	if ath.Age > 0 {
		line("Age", fmt.Sprint(ath.Age))
	}
	if ath.WeightKG > 0 {
		line("Weight", fmt.Sprintf("%.1f kg", ath.WeightKG))
	}
	if ath.TargetWeightKG > 0 {
		line("Target Weight", fmt.Sprintf("%.1f kg (%.1f%% cut)", ath.TargetWeightKG, ath.WeightCutPct))
	}
	if ath.HeightCM > 0 {
		line("Height", fmt.Sprintf("%.0f cm", ath.HeightCM))
	}
	line("Sport", vocab.Title(string(ath.Sport)))
	styles := make([]string, 0, len(ath.Styles))
	for _, s := range ath.Styles {
		styles = append(styles, vocab.Title(s))
	}
	line("Style", strings.Join(styles, ", "))
	line("Stance", ath.Stance)
	line("Status", ath.Status)
	line("Record", ath.Record)
	if !ath.FightDate.IsZero() {
		line("Fight Date", ath.FightDate.Format("2006-01-02"))
	}
	if ath.Rounds > 0 {
		line("Rounds", fmt.Sprintf("%dx%d", ath.Rounds, ath.RoundMinutes))
	}
	line("Camp", fmt.Sprintf("%d weeks", ath.Calendar.CampWeeks))
	line("Training Frequency", fmt.Sprintf("%d sessions per week", ath.Frequency))
	line("Availability", strings.Join(ath.Availability, ", "))
	line("Fatigue", vocab.Title(string(ath.Fatigue)))
	equipment := make([]string, 0, len(ath.Equipment))
	for _, e := range ath.Equipment {
		equipment = append(equipment, vocab.Title(e))
	}
	line("Equipment", strings.Join(equipment, ", "))
	line("Goals", strings.Join(ath.RawGoals, ", "))
	line("Weaknesses", strings.Join(ath.RawWeaknesses, ", "))
	line("Injuries", ath.InjuryText)
	line("Notes", ath.Notes)
	return b.String()
}

// Step is one phase of a rehab progression.
type Step struct {
	Phase catalog.Phase
	Note  string
}

// Progression splits a rehab entry's notes at "→". A segment prefixed with "PHASE:" belongs to that phase;
// other segments belong to the first phase of the entry's progression.
func Progression(item catalog.Item) []Step {
	if strings.TrimSpace(item.Notes) == "" {
		return nil
	}
	first := catalog.GPP
	switch {
	case len(item.PhaseProgression) > 0:
		first = item.PhaseProgression[0]
	case len(item.Phases) > 0:
		first = item.Phases[0]
	}
	var steps []Step
	for _, segment := range strings.Split(item.Notes, "→") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		phase := first
		if prefix, rest, ok := strings.Cut(segment, ":"); ok {
			if p, known := catalog.ParsePhase(prefix); known {
				phase, segment = p, strings.TrimSpace(rest)
			}
		}
		if i := slices.IndexFunc(steps, func(s Step) bool { return s.Phase == phase }); i >= 0 {
			steps[i].Note += "; " + segment
			continue
		}
		steps = append(steps, Step{Phase: phase, Note: segment})
	}
	return steps
}

// rehabFor lists the rehab entries for the injured regions that the athlete can perform.
func rehabFor(cat *catalog.Catalog, ath *athlete.Context) map[injury.Region][]catalog.Item {
	out := make(map[injury.Region][]catalog.Item)
	equipment := ath.EquipmentSet()
	for _, region := range injuredRegions(ath) {
		for _, item := range cat.Rehab {
			if item.HasTag(string(region)) && vocab.EquipmentFits(item.Equipment, equipment) {
				out[region] = append(out[region], item)
			}
		}
	}
	return out
}

func injuredRegions(ath *athlete.Context) []injury.Region {
	var regions []injury.Region
	for _, inj := range ath.Injuries {
		if !slices.Contains(regions, inj.Region) {
			regions = append(regions, inj.Region)
		}
	}
	return regions
}

func rehabProtocols(ath *athlete.Context, rehab map[injury.Region][]catalog.Item) string {
	var b strings.Builder
	for _, region := range injuredRegions(ath) {
		items := rehab[region]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "**%s**\n", vocab.Title(string(region)))
		for _, item := range items {
			fmt.Fprintf(&b, "- %s\n", item.Name)
			for _, step := range Progression(item) {
				fmt.Fprintf(&b, "  - %s: %s\n", step.Phase, step.Note)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func guardrails(ath *athlete.Context, phase catalog.Phase, rehab map[injury.Region][]catalog.Item,
	selections ...*selection.Selection) string {
	var b strings.Builder
	for _, inj := range ath.Injuries {
		label := vocab.Title(string(inj.Region))
		if inj.Side != injury.None && inj.Side != "" {
			label = vocab.Title(string(inj.Side)) + " " + strings.ToLower(label)
		}
		fmt.Fprintf(&b, "**%s** (%s, %s)\n", label, strings.ReplaceAll(string(inj.Type), "_", " "), inj.Severity)
		g := injury.GuidanceFor(inj.Region)
		if len(g.Avoid) > 0 {
			fmt.Fprintf(&b, "- Avoid: %s\n", strings.Join(g.Avoid, ", "))
		}
		if len(g.Mods) > 0 {
			mods := make([]string, 0, len(g.Mods))
			for _, m := range g.Mods {
				mods = append(mods, strings.ReplaceAll(m, "_", " "))
			}
			fmt.Fprintf(&b, "- Modify: %s\n", strings.Join(mods, ", "))
		}
		for _, item := range rehab[inj.Region] {
			for _, step := range Progression(item) {
				if step.Phase == phase {
					fmt.Fprintf(&b, "- Rehab: %s, %s\n", item.Name, step.Note)
				}
			}
		}
		b.WriteString("\n")
	}
	for _, r := range ath.Restrictions {
		fmt.Fprintf(&b, "- Restriction (%s): %s\n", r.Strength, strings.ReplaceAll(r.Restriction, "_", " "))
	}
	var modified []string
	for _, sel := range selections {
		if sel == nil {
			continue
		}
		for _, item := range sel.Items {
			if mods := sel.Mods[item.Name]; len(mods) > 0 {
				modified = append(modified, fmt.Sprintf("%s (%s)", item.Name,
					strings.ReplaceAll(strings.Join(mods, ", "), "_", " ")))
			}
		}
	}
	if len(modified) > 0 {
		fmt.Fprintf(&b, "- Modified this phase: %s\n", strings.Join(modified, "; "))
	}
	return b.String()
}
