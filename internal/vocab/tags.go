// Package vocab holds the closed vocabularies of fightcamp (tags, equipment, styles, sports, goals) and
// maps free-form strings onto them. Everything in this package is pure.
package vocab

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// tagSynonyms maps normalised spellings onto canonical tags.
//
//nolint:gochecknoglobals // lookup table.
var tagSynonyms = map[string]string{
	"muaythai":             "muay_thai",
	"thai_boxing":          "muay_thai",
	"mixed_martial_arts":   "mma",
	"kick_boxing":          "kickboxing",
	"skill":                "skill_refinement",
	"skills":               "skill_refinement",
	"technique":            "skill_refinement",
	"jiu_jitsu":            "bjj",
	"brazilian_jiu_jitsu":  "bjj",
	"plyo":                 "plyometric",
	"plyos":                "plyometric",
	"plyometrics":          "plyometric",
	"isometrics":           "isometric",
	"iso":                  "isometric",
	"anti_rotational":      "anti_rotation",
	"rotational":           "rotation",
	"neural_primers":       "neural_primer",
	"cns_primer":           "neural_primer",
	"posterior":            "posterior_chain",
	"single_leg":           "unilateral",
	"single_arm":           "unilateral",
	"coordination_drill":   "coordination",
	"rehab":                "rehab_friendly",
	"prehab":               "rehab_friendly",
	"zone_2":               "aerobic",
	"zone2":                "aerobic",
	"anaerobic":            "glycolytic",
	"lactic":               "glycolytic",
	"atp_pc":               "alactic",
	"phosphagen":           "alactic",
	"explosiveness":        "explosive",
	"power_development":    "power",
	"high_cns_demand":      "high_cns",
	"upper":                "upper_body",
	"lower":                "lower_body",
	"trap":                 "traps",
	"gas_tank":             "conditioning",
	"cardio":               "conditioning",
	"mental":               "mental_toughness",
	"footwork_drill":       "footwork",
	"style_pressure":       "pressure_fighter",
	"out_fighter":          "distance_striker",
	"outfighter":           "distance_striker",
	"swarmer":              "pressure_fighter",
	"scramble":             "scrambler",
	"eccentrics":           "eccentric",
	"triphasic_training":   "triphasic",
	"speed_strength":       "speed",
	"reactive_strength":    "reactive",
	"low_impact_option":    "low_impact",
	"mobility_drill":       "mobility",
	"breathing":            "breathwork",
	"neck_strength":        "neck",
	"grip_strength":        "grip",
	"core_stability":       "core",
	"shoulder_stability":   "stability",
	"balance_training":     "balance",
	"contrast_training":    "contrast",
	"clusters":             "cluster",
	"cluster_sets":         "cluster",
	"tempo_training":       "tempo",
	"hinge_pattern":        "hinge",
	"squat_pattern":        "squat",
	"push_pattern":         "push",
	"pull_pattern":         "pull",
	"lunge_pattern":        "lunge",
	"carry_pattern":        "carry",
	"rotation_pattern":     "rotation",
	"reaction":             "reactive",
	"reaction_time":        "reactive",
	"endurance_training":   "endurance",
	"injury_resilience":    "injury_prevention",
	"maximal_strength":     "max_strength",
	"rfd":                  "rate_of_force",
	"high_volume_training": "high_volume",
}

//nolint:gochecknoglobals // precompiled pattern.
var nonTagChars = regexp.MustCompile(`[^a-z0-9_]+`)

//nolint:gochecknoglobals // precompiled pattern.
var repeatedUnderscores = regexp.MustCompile(`_+`)

// fold lower-cases s and strips diacritics, so "Muay Thaï" and "muay thai" normalise identically.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Slug lower-cases s, strips diacritics and joins words with underscores without applying synonyms.
func Slug(s string) string {
	slug := fold(s)
	slug = strings.NewReplacer("-", "_", " ", "_", "/", "_", "&", "_", "'", "").Replace(slug)
	slug = nonTagChars.ReplaceAllString(slug, "_")
	slug = repeatedUnderscores.ReplaceAllString(slug, "_")
	return strings.Trim(slug, "_")
}

// NormalizeTag maps a raw token onto the canonical snake_case vocabulary.
func NormalizeTag(raw string) string {
	slug := Slug(raw)
	if canonical, ok := tagSynonyms[slug]; ok {
		return canonical
	}
	return slug
}

// NormalizeTags normalises every token, drops empties and duplicates, and keeps first-seen order.
func NormalizeTags(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		tag := NormalizeTag(r)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// Set builds a lookup set of the given values.
func Set(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Intersect returns the values of a that are present in b, in a's order.
func Intersect(a []string, b map[string]struct{}) []string {
	var out []string
	for _, v := range a {
		if _, ok := b[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Title renders a canonical token for display, e.g. "muay_thai" becomes "Muay Thai".
func Title(token string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(token, "_", " "))
}
