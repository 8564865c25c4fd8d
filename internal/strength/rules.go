package strength

import (
	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/vocab"
)

// Scoring weights.
const (
	weaknessWeight      = 0.6
	goalWeight          = 0.5
	styleWeight         = 0.3
	styleBonusPair      = 0.2
	styleBonusMany      = 0.1
	mustHaveWeight      = 0.35
	mustHaveBonus       = 0.15
	thematicBonus       = 0.2
	thematicThreshold   = 3
	phaseTagWeight      = 0.4
	highFatiguePenalty  = -0.75
	moderateFatigueCost = -0.35
	equipmentBoost      = 0.25
	jitterAmplitude     = 0.15
)

// Selection limits.
const (
	movementCap       = 2
	maxUniversal      = 4
	maxStyleInjection = 2
)

//nolint:gochecknoglobals // dispatch tables keyed by phase.
var (
	perDay = map[catalog.Phase]int{catalog.GPP: 3, catalog.SPP: 3, catalog.TAPER: 2}

	mustHave = map[catalog.Phase]map[string]struct{}{
		catalog.GPP:   vocab.Set("core", "posterior_chain", "neck", "stability"),
		catalog.SPP:   vocab.Set("core", "posterior_chain", "neck", "stability"),
		catalog.TAPER: vocab.Set("core", "neck", "stability", "reactive"),
	}

	phaseBoost = map[catalog.Phase]map[string]struct{}{
		catalog.GPP:   vocab.Set("triphasic", "tempo", "eccentric"),
		catalog.SPP:   vocab.Set("contrast", "explosive"),
		catalog.TAPER: vocab.Set("neural_primer", "cluster", "speed"),
	}

	equipmentBoostSets = map[catalog.Phase]map[string]struct{}{
		catalog.GPP:   vocab.Set("barbell", "trap_bar", "sled", "kettlebell"),
		catalog.SPP:   vocab.Set("medicine_ball", "bands", "kettlebell", "landmine"),
		catalog.TAPER: vocab.Set("medicine_ball", "bands", "bodyweight"),
	}

	rehabPenalty = map[catalog.Phase]float64{catalog.GPP: -0.7, catalog.SPP: -1.0, catalog.TAPER: -0.75}

	taperAllowed = vocab.Set("neural_primer", "speed", "cluster", "explosive", "low_impact", "reactive",
		"rehab_friendly")
	taperBanned = vocab.Set("posterior_chain", "high_volume", "barbell", "trap_bar", "max_strength", "eccentric",
		"tempo", "hamstring_load_high")

	// taxing tags attract the fatigue penalty.
	taxing = vocab.Set("high_cns", "high_volume", "max_strength", "triple_extension", "eccentric")

	cornerstoneTerms = []string{"squat", "deadlift", "bench", "pull up", "pullup", "chin up"}
	noveltyExempt    = vocab.Set("neural_primer", "speed")

	// universalGroups are the tag groups GPP must cover, in priority order.
	universalGroups = [][]string{
		{"upper_pull", "pull", "upper_body"},
		{"anti_rotation", "core"},
		{"unilateral"},
		{"neck", "traps"},
	}
)

// prescriptions and progressions render the phase texture of the block.
//
//nolint:gochecknoglobals // display tables.
var (
	prescriptions = map[catalog.Phase]string{
		catalog.GPP:   "3–4 sets × 6–10 reps at RPE 7, controlled tempo, 90 s rest",
		catalog.SPP:   "3–5 sets × 3–5 fast reps or contrast pairs, full recovery between sets",
		catalog.TAPER: "2–3 sets × 2–3 crisp reps, stop well before any slowdown",
	}
	progressions = map[catalog.Phase]string{
		catalog.GPP:   "add 1 set or 5–10% load each week; deload the final week",
		catalog.SPP:   "hold volume and raise intensity or speed each week",
		catalog.TAPER: "cut volume 40–60% while keeping intensity sharp",
	}
	phaseNames = map[catalog.Phase]string{
		catalog.GPP:   "General Preparation",
		catalog.SPP:   "Specific Preparation",
		catalog.TAPER: "Taper",
	}
)
