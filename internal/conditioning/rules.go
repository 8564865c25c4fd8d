package conditioning

import (
	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/vocab"
)

// General pool scoring.
const (
	weaknessWeight    = 2.5
	goalWeight        = 2.0
	styleWeight       = 1.0
	formatWeight      = 1.0
	maxWeaknessHits   = 2
	maxGoalHits       = 2
	maxStyleHits      = 2
	maxFormatHits     = 1
	moderateCNSCost   = -1.0
	highCNSCost       = -2.0
	generalJitter     = 0.05
	maxTaperDrills    = 3
	maxUniversalDrill = 2
)

// Style pool scoring.
const (
	styleMatchWeight    = 1.5
	stylePhaseBonus     = 0.5
	styleTopSystemBonus = 0.75
	styleEquipmentBonus = 0.25
	styleWeaknessWeight = 1.0
	styleGoalWeight     = 0.75
	styleJitter         = 0.1
)

//nolint:gochecknoglobals // dispatch tables keyed by phase.
var (
	perDay = map[catalog.Phase]int{catalog.GPP: 2, catalog.SPP: 2, catalog.TAPER: 1}

	systemRatios = map[catalog.Phase]map[catalog.System]float64{
		catalog.GPP:   {catalog.Aerobic: 0.5, catalog.Glycolytic: 0.3, catalog.Alactic: 0.2},
		catalog.SPP:   {catalog.Glycolytic: 0.5, catalog.Alactic: 0.3, catalog.Aerobic: 0.2},
		catalog.TAPER: {catalog.Alactic: 0.5, catalog.Aerobic: 0.35, catalog.Glycolytic: 0.15},
	}

	preferredOrder = map[catalog.Phase][]catalog.System{
		catalog.GPP:   {catalog.Aerobic, catalog.Glycolytic, catalog.Alactic},
		catalog.SPP:   {catalog.Glycolytic, catalog.Alactic, catalog.Aerobic},
		catalog.TAPER: {catalog.Alactic, catalog.Aerobic, catalog.Glycolytic},
	}

	styleRatio = map[catalog.Phase]float64{catalog.GPP: 0.20, catalog.SPP: 0.60, catalog.TAPER: 0.05}

	taperAvoid = vocab.Set("contrast_pairing", "triple_extension", "overhead", "compound", "mental_toughness",
		"work_capacity", "eccentric")

	taperGlycolyticStyles = []string{"pressure_fighter", "scrambler"}
	coordinationGoals     = []string{"coordination", "footwork", "balance", "agility"}
)

// formatWeights gives the energy-system weight of a training format per sport.
//
//nolint:gochecknoglobals // lookup table.
var formatWeights = map[vocab.Sport]map[string]map[catalog.System]float64{
	vocab.SportMMA: {
		"intervals":    {catalog.Glycolytic: 0.6, catalog.Alactic: 0.4, catalog.Aerobic: 0.2},
		"circuit":      {catalog.Glycolytic: 0.5, catalog.Aerobic: 0.3, catalog.Alactic: 0.2},
		"steady_state": {catalog.Aerobic: 0.6},
		"sprints":      {catalog.Alactic: 0.6, catalog.Glycolytic: 0.3},
		"rounds":       {catalog.Glycolytic: 0.5, catalog.Aerobic: 0.3, catalog.Alactic: 0.2},
		"skill":        {catalog.Aerobic: 0.3, catalog.Alactic: 0.3, catalog.Glycolytic: 0.2},
		"plyometrics":  {catalog.Alactic: 0.5},
		"":             {catalog.Glycolytic: 0.4, catalog.Aerobic: 0.3, catalog.Alactic: 0.3},
	},
	vocab.SportBoxing: {
		"rounds":       {catalog.Glycolytic: 0.6, catalog.Aerobic: 0.4, catalog.Alactic: 0.2},
		"intervals":    {catalog.Glycolytic: 0.5, catalog.Alactic: 0.4, catalog.Aerobic: 0.2},
		"steady_state": {catalog.Aerobic: 0.6},
		"sprints":      {catalog.Alactic: 0.5, catalog.Glycolytic: 0.3},
		"circuit":      {catalog.Glycolytic: 0.4, catalog.Aerobic: 0.3, catalog.Alactic: 0.2},
		"skill":        {catalog.Aerobic: 0.4, catalog.Glycolytic: 0.3, catalog.Alactic: 0.2},
		"plyometrics":  {catalog.Alactic: 0.5},
		"":             {catalog.Glycolytic: 0.4, catalog.Aerobic: 0.4, catalog.Alactic: 0.2},
	},
	vocab.SportMuayThai: {
		"rounds":       {catalog.Glycolytic: 0.6, catalog.Aerobic: 0.3, catalog.Alactic: 0.3},
		"intervals":    {catalog.Glycolytic: 0.5, catalog.Alactic: 0.4, catalog.Aerobic: 0.2},
		"steady_state": {catalog.Aerobic: 0.5},
		"sprints":      {catalog.Alactic: 0.5, catalog.Glycolytic: 0.3},
		"circuit":      {catalog.Glycolytic: 0.5, catalog.Aerobic: 0.3, catalog.Alactic: 0.2},
		"skill":        {catalog.Aerobic: 0.3, catalog.Glycolytic: 0.3, catalog.Alactic: 0.3},
		"plyometrics":  {catalog.Alactic: 0.5},
		"":             {catalog.Glycolytic: 0.5, catalog.Aerobic: 0.3, catalog.Alactic: 0.2},
	},
	vocab.SportKickboxing: {
		"rounds":       {catalog.Glycolytic: 0.6, catalog.Aerobic: 0.3, catalog.Alactic: 0.3},
		"intervals":    {catalog.Glycolytic: 0.5, catalog.Alactic: 0.4, catalog.Aerobic: 0.2},
		"steady_state": {catalog.Aerobic: 0.5},
		"sprints":      {catalog.Alactic: 0.6, catalog.Glycolytic: 0.3},
		"circuit":      {catalog.Glycolytic: 0.5, catalog.Aerobic: 0.3, catalog.Alactic: 0.2},
		"skill":        {catalog.Aerobic: 0.3, catalog.Alactic: 0.3, catalog.Glycolytic: 0.2},
		"plyometrics":  {catalog.Alactic: 0.5},
		"":             {catalog.Glycolytic: 0.5, catalog.Aerobic: 0.3, catalog.Alactic: 0.2},
	},
}

//nolint:gochecknoglobals // lookup table.
var formatSynonyms = map[string]string{
	"interval":         "intervals",
	"hiit":             "intervals",
	"tabata":           "intervals",
	"circuits":         "circuit",
	"circuit_training": "circuit",
	"crossfit":         "circuit",
	"steady":           "steady_state",
	"long_slow":        "steady_state",
	"roadwork":         "steady_state",
	"running":          "steady_state",
	"cardio":           "steady_state",
	"zone_2":           "steady_state",
	"sprint":           "sprints",
	"sprinting":        "sprints",
	"round":            "rounds",
	"bag_work":         "rounds",
	"pad_work":         "rounds",
	"sparring":         "rounds",
	"technique":        "skill",
	"technical":        "skill",
	"drills":           "skill",
	"plyo":             "plyometrics",
	"plyometric":       "plyometrics",
	"jumps":            "plyometrics",
}

// NormalizeFormat maps a training-style answer onto a format key.
func NormalizeFormat(raw string) string {
	slug := vocab.Slug(raw)
	if canonical, ok := formatSynonyms[slug]; ok {
		return canonical
	}
	return slug
}

// NormalizeFormats normalises and deduplicates training-style answers.
func NormalizeFormats(raw []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		f := NormalizeFormat(r)
		if _, dup := seen[f]; dup || f == "" {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func systemWeight(sport vocab.Sport, format string, system catalog.System) float64 {
	table, ok := formatWeights[sport]
	if !ok {
		table = formatWeights[vocab.SportMMA]
	}
	weights, ok := table[NormalizeFormat(format)]
	if !ok {
		weights = table[""]
	}
	return weights[system]
}

//nolint:gochecknoglobals // display table.
var compensations = map[catalog.System]string{
	catalog.Aerobic:    "optional 1× 20–30 min Zone 2 (bike, swim or easy shadowboxing)",
	catalog.Glycolytic: "optional 4–6× 30 s hard / 90 s easy on a bike or rower",
	catalog.Alactic:    "optional 6–8× 8 s max-effort bursts with full recovery",
}
