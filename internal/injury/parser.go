package injury

import (
	"regexp"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/myrjola/fightcamp/internal/vocab"
)

const (
	// locationFuzzyThreshold and typeFuzzyThreshold are the similarity ratios a misspelt token needs to match.
	locationFuzzyThreshold = 0.85
	typeFuzzyThreshold     = 0.88
	minFuzzyLocationLen    = 5
	minFuzzyTypeLen        = 6
	negationWindow         = 3
)

//nolint:gochecknoglobals // lookup table.
var emptyAnswers = vocab.Set("", "none", "n a", "na", "nil", "no", "nothing", "null", "no injuries",
	"none currently", "not applicable", "all good", "healthy")

//nolint:gochecknoglobals // precompiled pattern.
var clauseSeparators = regexp.MustCompile(`(?i)[;,/+\n]|\band\b`)

type regionPhrase struct {
	phrase string
	region Region
}

// regionPhrases are matched in order so longer phrases win over the words they contain.
//
//nolint:gochecknoglobals // lookup table.
var regionPhrases = []regionPhrase{
	{"lower back", "lower_back"}, {"low back", "lower_back"}, {"lumbar", "lower_back"}, {"si joint", "lower_back"},
	{"upper back", "upper_back"}, {"mid back", "upper_back"}, {"middle back", "upper_back"},
	{"thoracic", "upper_back"}, {"shoulder blade", "upper_back"}, {"rhomboid", "upper_back"}, {"lat", "upper_back"},
	{"rotator cuff", "shoulder"}, {"ac joint", "shoulder"}, {"labrum", "shoulder"}, {"shoulder", "shoulder"},
	{"delt", "shoulder"}, {"deltoid", "shoulder"},
	{"achilles", "achilles"}, {"heel cord", "achilles"},
	{"tennis elbow", "elbow"}, {"golfer elbow", "elbow"}, {"golfers elbow", "elbow"}, {"elbow", "elbow"},
	{"hip flexor", "hip"}, {"hip", "hip"},
	{"shin splint", "shin"}, {"tibia", "shin"}, {"shin", "shin"},
	{"hamstring", "hamstring"}, {"hammy", "hamstring"},
	{"patellar", "knee"}, {"patella", "knee"}, {"kneecap", "knee"}, {"acl", "knee"}, {"mcl", "knee"},
	{"meniscus", "knee"}, {"knee", "knee"},
	{"ankle", "ankle"},
	{"plantar", "foot"}, {"arch", "foot"}, {"heel", "foot"}, {"foot", "foot"}, {"feet", "foot"},
	{"big toe", "toe"}, {"toe", "toe"},
	{"calf", "calf"}, {"calves", "calf"},
	{"quadricep", "quad"}, {"quad", "quad"}, {"thigh", "quad"},
	{"groin", "groin"}, {"adductor", "groin"},
	{"glute", "glute"}, {"buttock", "glute"},
	{"cervical", "neck"}, {"neck", "neck"},
	{"wrist", "wrist"},
	{"knuckle", "hand"}, {"metacarpal", "hand"}, {"hand", "hand"},
	{"thumb", "fingers"}, {"finger", "fingers"},
	{"forearm", "forearm"},
	{"bicep", "bicep"}, {"biceps", "bicep"},
	{"tricep", "tricep"}, {"triceps", "tricep"},
	{"pec", "chest"}, {"pectoral", "chest"}, {"chest", "chest"}, {"sternum", "chest"},
	{"rib", "ribs"}, {"intercostal", "ribs"},
	{"oblique", "abdomen"}, {"abs", "abdomen"}, {"abdominal", "abdomen"}, {"abdomen", "abdomen"}, {"stomach", "abdomen"},
	{"jaw", "jaw"}, {"tmj", "jaw"},
	{"concussion", "head"}, {"head", "head"},
}

// spineWords name the spine without saying where; context words route them.
//
//nolint:gochecknoglobals // lookup table.
var spineWords = []string{"back", "spine", "spinal", "disc", "vertebra"}

type typePhrases struct {
	typ     Type
	phrases []string
}

// typeTable is ordered by priority: when several types match the first one wins.
//
//nolint:gochecknoglobals // lookup table.
var typeTable = []typePhrases{
	{Tendonitis, []string{"tendonitis", "tendinitis", "tendinopathy", "tendinosis", "tendon"}},
	{Impingement, []string{"impingement", "impinged", "pinched"}},
	{Hyperextension, []string{"hyperextension", "hyperextended", "hyper extended", "hyperextend"}},
	{Instability, []string{"instability", "unstable", "gave way", "gives way", "giving way", "apprehension", "dislocation", "dislocated", "subluxation", "loose"}},
	{Sprain, []string{"sprain", "sprained", "rolled", "twisted", "ligament"}},
	{Strain, []string{"strain", "strained", "pulled", "tear", "torn", "tweaked"}},
	{Contusion, []string{"contusion", "bruise", "bruised", "bruising", "dead leg"}},
	{Swelling, []string{"swelling", "swollen", "inflamed", "inflammation", "effusion"}},
	{Stiffness, []string{"stiffness", "stiff", "locked up", "locking"}},
	{Tightness, []string{"tightness", "tight"}},
	{Soreness, []string{"soreness", "sore", "achy", "aching"}},
	{Pain, []string{"pain", "painful", "hurts", "hurt", "ache", "aches", "niggle"}},
}

type exclusiveHint struct {
	a, b           Type
	aHints, bHints []string
}

// exclusiveHints disambiguate types that share vocabulary: when only one side's hints occur, that side wins.
//
//nolint:gochecknoglobals // lookup table.
var exclusiveHints = []exclusiveHint{
	{a: Sprain, b: Instability, aHints: []string{"rolled", "ligament", "twisted"}, bHints: []string{"gave way", "gives way", "giving way", "apprehension", "dislocated"}},
	{a: Strain, b: Tightness, aHints: []string{"pulled", "tear", "torn"}, bHints: []string{"tight", "tightness"}},
}

//nolint:gochecknoglobals // lookup table.
var defaultSeverities = map[Type]Severity{
	Sprain:         Moderate,
	Strain:         Moderate,
	Tendonitis:     Moderate,
	Impingement:    Moderate,
	Hyperextension: Moderate,
	Contusion:      Moderate,
	Pain:           Mild,
	Stiffness:      Mild,
	Tightness:      Mild,
	Soreness:       Mild,
	Swelling:       Severe,
	Instability:    Severe,
	Unspecified:    Moderate,
}

func defaultSeverity(t Type) Severity {
	if s, ok := defaultSeverities[t]; ok {
		return s
	}
	return Moderate
}

//nolint:gochecknoglobals // lookup table.
var severityWords = []struct {
	severity Severity
	phrases  []string
}{
	{Severe, []string{"severe", "serious", "really bad", "bad", "major", "acute", "sharp", "extreme", "intense", "excruciating", "ruptured", "rupture", "fracture", "fractured"}},
	{Moderate, []string{"moderate", "medium", "noticeable"}},
	{Mild, []string{"mild", "slight", "slightly", "minor", "little", "bit", "niggling", "twinge", "annoying"}},
}

//nolint:gochecknoglobals // lookup table.
var symptomWords = []string{
	"injury", "injured", "issue", "issues", "problem", "problems", "broken", "fracture", "fractured",
	"surgery", "recovering", "tender", "numb", "numbness", "clicking", "popping",
}

//nolint:gochecknoglobals // lookup table.
var negations = vocab.Set("no", "not", "never", "without", "denies")

//nolint:gochecknoglobals // lookup table.
var contrastWords = vocab.Set("but", "except", "although", "though", "however", "yet")

//nolint:gochecknoglobals // lookup table.
var triggerFamilies = []struct {
	strength Strength
	phrases  []string
}{
	{Avoid, []string{"avoid", "avoiding", "no", "not", "never", "can t", "cannot", "cant", "don t", "dont", "stay away", "skip", "without", "exclude"}},
	{Flare, []string{"flare", "flares", "flare up", "aggravate", "aggravates", "irritate", "irritates", "worsens", "triggers"}},
	{Limit, []string{"limit", "limited", "limiting", "restrict", "restricted", "minimize", "minimise", "reduce", "careful", "caution", "easy on", "modify", "light only"}},
}

type restrictionPattern struct {
	name     string
	region   Region
	minScore int
	keywords map[string]int
	tags     []string
}

//nolint:gochecknoglobals // lookup table.
var restrictionPatterns = []restrictionPattern{
	{
		name:     "deep_knee_flexion",
		region:   "knee",
		minScore: 2,
		keywords: map[string]int{"deep knee flexion": 3, "deep squat": 3, "knee flexion": 2, "deep knee": 2, "full squat": 2, "kneeling": 1, "deep": 1, "pistol": 2},
		tags:     []string{"knee_flexion_deep"},
	},
	{
		name:     "heavy_overhead_pressing",
		region:   "shoulder",
		minScore: 2,
		keywords: map[string]int{"overhead pressing": 3, "overhead press": 3, "heavy overhead": 3, "pressing overhead": 3, "overhead": 2, "above head": 2, "pressing": 1, "press": 1},
		tags:     []string{"dynamic_overhead", "overhead"},
	},
	{
		name:     "high_impact",
		region:   RegionUnspecified,
		minScore: 2,
		keywords: map[string]int{"high impact": 3, "impact": 2, "jumping": 2, "jump": 2, "plyometric": 2, "plyo": 2, "landing": 2, "pounding": 2, "running": 1},
		tags:     []string{"high_impact_plyo", "high_impact", "landing_stress_high"},
	},
	{
		name:     "loaded_flexion",
		region:   "lower_back",
		minScore: 2,
		keywords: map[string]int{"loaded flexion": 3, "spinal flexion": 3, "loaded spinal": 2, "flexion under load": 2, "under load": 1, "sit up": 2, "crunch": 2, "rounding": 2, "bending": 1},
		tags:     []string{"spinal_loading"},
	},
	{
		name:     "max_velocity",
		region:   "hamstring",
		minScore: 2,
		keywords: map[string]int{"max velocity": 3, "max speed": 3, "top speed": 3, "sprinting": 3, "sprint": 3, "all out": 1},
		tags:     []string{"max_velocity"},
	},
}

// Parse splits free text into injuries and restrictions. It never fails: text it cannot understand yields
// empty results.
func Parse(text string) ([]Injury, []Restriction) {
	if _, empty := emptyAnswers[strings.Join(vocab.Tokenize(text), " ")]; empty {
		return nil, nil
	}
	var (
		injuries     []Injury
		restrictions []Restriction
	)
	for _, clause := range clauseSeparators.Split(text, -1) {
		clause = strings.TrimSpace(clause)
		tokens := removeNegated(vocab.Tokenize(clause))
		if len(tokens) == 0 {
			continue
		}
		clauseText := vocab.NewText(strings.Join(tokens, " "))
		symptom := hasSymptom(clauseText)
		strength, trigger := triggerStrength(clauseText)
		pattern, matched := bestPattern(clauseText)
		if !symptom && (trigger || matched) {
			if !trigger {
				strength = Avoid
			}
			restrictions = append(restrictions,
				buildRestriction(clause, clauseText, tokens, pattern, matched, strength))
			continue
		}
		if inj, ok := buildInjury(clauseText, tokens); ok {
			injuries = append(injuries, inj)
		}
	}
	return dedupInjuries(injuries), dedupRestrictions(restrictions)
}

func isSymptomToken(tok string) bool {
	t := vocab.NewText(tok)
	if len(t.Matches(symptomWords)) > 0 {
		return true
	}
	for _, tp := range typeTable {
		if len(t.Matches(tp.phrases)) > 0 {
			return true
		}
	}
	return false
}

// removeNegated drops a negated symptom together with the rest of its clause, so "no knee pain" and
// "no pain in knee" leave nothing behind. A contrast word ends the negated scope. Negations that do not
// scope a symptom stay, they are restriction triggers.
func removeNegated(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		if _, neg := negations[tokens[i]]; !neg {
			out = append(out, tokens[i])
			continue
		}
		end := min(len(tokens), i+1+negationWindow)
		negated := false
		for j := i + 1; j < end; j++ {
			if isSymptomToken(tokens[j]) {
				negated = true
				break
			}
		}
		if !negated {
			out = append(out, tokens[i])
			continue
		}
		j := i + 1
		for j < len(tokens) {
			if _, contrast := contrastWords[tokens[j]]; contrast {
				break
			}
			j++
		}
		i = j - 1
	}
	return out
}

func hasSymptom(text vocab.Text) bool {
	for _, tok := range text.Tokens() {
		if isSymptomToken(tok) {
			return true
		}
	}
	return len(text.Matches([]string{"gave way", "gives way", "giving way", "dead leg", "locked up"})) > 0
}

func triggerStrength(text vocab.Text) (Strength, bool) {
	for _, family := range triggerFamilies {
		if len(text.Matches(family.phrases)) > 0 {
			return family.strength, true
		}
	}
	return Avoid, false
}

func bestPattern(text vocab.Text) (restrictionPattern, bool) {
	var (
		best      restrictionPattern
		bestScore int
	)
	for _, p := range restrictionPatterns {
		score := 0
		for kw, weight := range p.keywords {
			if text.Contains(kw) {
				score += weight
			}
		}
		if score >= p.minScore && score > bestScore {
			best, bestScore = p, score
		}
	}
	return best, bestScore > 0
}

func buildRestriction(clause string, text vocab.Text, tokens []string, p restrictionPattern, matched bool,
	strength Strength) Restriction {
	region, found := findRegion(text, tokens)
	name := GenericConstraint
	if matched {
		name = p.name
		if !found {
			region = p.region
		}
	}
	return Restriction{
		Restriction: name,
		Region:      region,
		Strength:    strength,
		Side:        findSide(tokens),
		Phrase:      clause,
	}
}

func buildInjury(text vocab.Text, tokens []string) (Injury, bool) {
	region, regionFound := findRegion(text, tokens)
	typ, typeFound := findType(text, tokens)
	if !regionFound && !typeFound {
		return Injury{}, false
	}
	severity, described := findSeverity(text)
	if !described {
		severity = defaultSeverity(typ)
		if !regionFound {
			severity = Moderate
		}
	}
	return Injury{
		Region:   region,
		Type:     typ,
		Side:     findSide(tokens),
		Severity: severity,
	}, true
}

func fuzzyRatio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	return float64(total-levenshtein.ComputeDistance(a, b)) / float64(total)
}

func findRegion(text vocab.Text, tokens []string) (Region, bool) {
	for _, rp := range regionPhrases {
		if text.Contains(rp.phrase) {
			return rp.region, true
		}
	}
	if len(text.Matches(spineWords)) > 0 {
		switch {
		case len(text.Matches([]string{"neck", "cervical"})) > 0:
			return "neck", true
		case len(text.Matches([]string{"upper", "thoracic", "mid", "middle"})) > 0:
			return "upper_back", true
		default:
			return "lower_back", true
		}
	}
	for _, tok := range tokens {
		if len(tok) < minFuzzyLocationLen {
			continue
		}
		for _, rp := range regionPhrases {
			if !strings.Contains(rp.phrase, " ") && fuzzyRatio(tok, rp.phrase) >= locationFuzzyThreshold {
				return rp.region, true
			}
		}
	}
	return RegionUnspecified, false
}

func findType(text vocab.Text, tokens []string) (Type, bool) {
	var matched []Type
	for _, tp := range typeTable {
		if len(text.Matches(tp.phrases)) > 0 {
			matched = append(matched, tp.typ)
		}
	}
	if len(matched) == 0 {
		for _, tok := range tokens {
			if len(tok) < minFuzzyTypeLen {
				continue
			}
			for _, tp := range typeTable {
				for _, phrase := range tp.phrases {
					if !strings.Contains(phrase, " ") && fuzzyRatio(tok, phrase) >= typeFuzzyThreshold &&
						!slices.Contains(matched, tp.typ) {
						matched = append(matched, tp.typ)
					}
				}
			}
		}
	}
	if len(matched) == 0 {
		return Unspecified, false
	}
	for _, hint := range exclusiveHints {
		if !slices.Contains(matched, hint.a) && !slices.Contains(matched, hint.b) {
			continue
		}
		aHit := len(text.Matches(hint.aHints)) > 0
		bHit := len(text.Matches(hint.bHints)) > 0
		switch {
		case aHit && !bHit:
			return hint.a, true
		case bHit && !aHit:
			return hint.b, true
		}
	}
	return matched[0], true
}

func findSeverity(text vocab.Text) (Severity, bool) {
	for _, sw := range severityWords {
		if len(text.Matches(sw.phrases)) > 0 {
			return sw.severity, true
		}
	}
	return "", false
}

func findSide(tokens []string) Side {
	left, right := false, false
	for _, tok := range tokens {
		switch tok {
		case "left", "lt":
			left = true
		case "right", "rt":
			right = true
		case "both", "bilateral", "bilaterally":
			return Both
		}
	}
	switch {
	case left && right:
		return Both
	case left:
		return Left
	case right:
		return Right
	default:
		return None
	}
}

// dedupInjuries drops repeated (type, region, side) triples and unspecified-type entries for a region and
// side that also has a specific type.
func dedupInjuries(injuries []Injury) []Injury {
	type location struct {
		region Region
		side   Side
	}
	specific := make(map[location]bool)
	for _, inj := range injuries {
		if inj.Type != Unspecified {
			specific[location{inj.Region, inj.Side}] = true
		}
	}
	var out []Injury
	seenKey := make(map[[3]string]struct{})
	for _, inj := range injuries {
		if inj.Type == Unspecified && specific[location{inj.Region, inj.Side}] {
			continue
		}
		key := [3]string{string(inj.Type), string(inj.Region), string(inj.Side)}
		if _, dup := seenKey[key]; dup {
			continue
		}
		seenKey[key] = struct{}{}
		out = append(out, inj)
	}
	return out
}

func dedupRestrictions(restrictions []Restriction) []Restriction {
	var out []Restriction
	seen := make(map[[3]string]struct{})
	for _, r := range restrictions {
		key := [3]string{r.Restriction, string(r.Region), string(r.Side)}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
