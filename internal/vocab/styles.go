package vocab

import (
	"slices"
	"strings"
)

// Sport is the technical style the camp prepares for.
type Sport string

const (
	SportMMA        Sport = "mma"
	SportBoxing     Sport = "boxing"
	SportMuayThai   Sport = "muay_thai"
	SportKickboxing Sport = "kickboxing"
)

// CanonicalStyleTags is the closed set of tactical styles.
//
//nolint:gochecknoglobals // vocabulary.
var CanonicalStyleTags = Set(
	"pressure_fighter",
	"counter_striker",
	"distance_striker",
	"clinch_fighter",
	"grappler",
	"scrambler",
	"submission_hunter",
	"power_puncher",
	"kicker",
	"hybrid",
)

//nolint:gochecknoglobals // lookup table.
var styleSynonyms = map[string]string{
	"pressure":        "pressure_fighter",
	"swarmer":         "pressure_fighter",
	"volume_puncher":  "pressure_fighter",
	"counter":         "counter_striker",
	"counter_puncher": "counter_striker",
	"counterpuncher":  "counter_striker",
	"out_fighter":     "distance_striker",
	"outfighter":      "distance_striker",
	"outboxer":        "distance_striker",
	"out_boxer":       "distance_striker",
	"distance":        "distance_striker",
	"clinch":          "clinch_fighter",
	"clincher":        "clinch_fighter",
	"grappling":       "grappler",
	"wrestler":        "grappler",
	"wrestling":       "grappler",
	"submission":      "submission_hunter",
	"submissions":     "submission_hunter",
	"slugger":         "power_puncher",
	"brawler":         "power_puncher",
	"puncher":         "power_puncher",
	"all_rounder":     "hybrid",
	"allrounder":      "hybrid",
	"well_rounded":    "hybrid",
	"scramble":        "scrambler",
}

// CanonicalStyles maps raw tactical style strings onto the closed style set. A "style_" prefix is stripped,
// unknown styles are dropped and the result keeps first-seen order.
func CanonicalStyles(raw []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, r := range raw {
		for _, piece := range equipmentSeparators.Split(r, -1) {
			slug := strings.TrimPrefix(Slug(piece), "style_")
			if canonical, ok := styleSynonyms[slug]; ok {
				slug = canonical
			}
			if _, ok := CanonicalStyleTags[slug]; !ok {
				continue
			}
			if _, dup := seen[slug]; dup {
				continue
			}
			seen[slug] = struct{}{}
			out = append(out, slug)
		}
	}
	return out
}

// ParseSport maps the technical style field onto a Sport. Grappling arts and unknown values count as MMA.
func ParseSport(raw string) Sport {
	slug := Slug(raw)
	switch {
	case strings.Contains(slug, "kick"):
		return SportKickboxing
	case strings.Contains(slug, "muay") || strings.Contains(slug, "thai"):
		return SportMuayThai
	case strings.Contains(slug, "mma") || strings.Contains(slug, "mixed"):
		return SportMMA
	case strings.Contains(slug, "box"):
		return SportBoxing
	default:
		return SportMMA
	}
}

// IsStriking reports whether the sport forbids grappling.
func (s Sport) IsStriking() bool {
	return s == SportBoxing || s == SportKickboxing
}

//nolint:gochecknoglobals // lookup table.
var grapplingTerms = []string{
	"wrestling", "wrestler", "bjj", "jiu jitsu", "jiu-jitsu", "grappling", "sprawl", "takedown", "judo",
	"submission", "ground and pound",
}

// shotWords are matched as whole tokens, so "Double Leg Shot" is a grappling drill and "Med Ball Shot Put"
// is not.
//
//nolint:gochecknoglobals // lookup table.
var (
	shotWords      = []string{"shot"}
	shotExceptions = []string{"shot put"}
)

//nolint:gochecknoglobals // lookup table.
var boxingTerms = []string{"kick", "knee", "clinch", "elbow"}

//nolint:gochecknoglobals // lookup table.
var (
	grapplingTags = Set("grappling", "wrestling", "bjj", "takedown", "sprawl", "submission", "grappler")
	boxingTags    = Set("kicking", "kicks", "knees", "clinch", "clinch_fighter", "muay_thai")
)

// Bans reports whether the sport forbids a drill. Names are matched as a case-insensitive substring, so
// "Knee Strike Rounds" and "Roundhouse Kicks" are both caught for boxing; tags must match exactly. Kickboxing
// keeps its clinch work.
func (s Sport) Bans(name string, tags []string) bool {
	if !s.IsStriking() {
		return false
	}
	lower := strings.ToLower(name)
	terms := grapplingTerms
	if s == SportBoxing {
		terms = append(slices.Clone(grapplingTerms), boxingTerms...)
	}
	if slices.ContainsFunc(terms, func(term string) bool { return strings.Contains(lower, term) }) {
		return true
	}
	if len(NewText(name, shotExceptions...).Matches(shotWords)) > 0 {
		return true
	}
	if len(Intersect(tags, grapplingTags)) > 0 {
		return true
	}
	return s == SportBoxing && len(Intersect(tags, boxingTags)) > 0
}
