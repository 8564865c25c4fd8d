package catalog

import (
	"github.com/myrjola/fightcamp/internal/vocab"
)

// InferenceAllowlist holds phrases that must never take part in a keyword match, e.g. "pressure fighter"
// is a style and not a pressing movement.
//
//nolint:gochecknoglobals // lookup table.
var InferenceAllowlist = []string{
	"pressure fighter",
	"pressure",
	"compression",
	"decompression",
	"impression",
	"counter striker",
	"jump rope footwork",
}

type tagRule struct {
	phrases []string
	tags    []string
}

//nolint:gochecknoglobals // rule table.
var tagRules = []tagRule{
	{phrases: []string{"depth jump", "drop jump", "depth drop"},
		tags: []string{"high_impact_plyo", "landing_stress_high", "achilles_high_risk_impact", "forefoot_load_high", "plyometric", "reactive"}},
	{phrases: []string{"box jump", "broad jump", "tuck jump", "jump squat", "squat jump", "skater jump", "lateral bound", "bound", "hurdle hop", "pogo"},
		tags: []string{"plyometric", "explosive", "landing_stress_high", "achilles_high_risk_impact"}},
	{phrases: []string{"jump rope", "skipping"},
		tags: []string{"plyometric", "footwork", "low_impact", "forefoot_load_high"}},
	{phrases: []string{"max sprint", "flying sprint", "sprint", "max velocity"},
		tags: []string{"max_velocity", "hamstring_high_risk", "explosive", "alactic"}},
	{phrases: []string{"overhead", "snatch", "jerk", "push press", "thruster", "handstand", "military press", "ohp"},
		tags: []string{"overhead"}},
	{phrases: []string{"bench press", "floor press", "dip", "dips"},
		tags: []string{"press_heavy", "shoulder_load_high", "push", "upper_body"}},
	{phrases: []string{"press"},
		tags: []string{"press_heavy", "push"}},
	{phrases: []string{"push up", "pushup", "burpee", "bear crawl", "plank"},
		tags: []string{"wrist_extension_high"}},
	{phrases: []string{"clean", "high pull", "triple extension"},
		tags: []string{"triple_extension", "high_cns", "explosive", "wrist_extension_high"}},
	{phrases: []string{"romanian deadlift", "rdl", "good morning", "stiff leg"},
		tags: []string{"hinge", "posterior_chain", "hamstring_load_high"}},
	{phrases: []string{"deadlift", "trap bar", "hip hinge", "kettlebell swing", "swing"},
		tags: []string{"hinge", "posterior_chain", "spinal_loading"}},
	{phrases: []string{"nordic", "ham curl", "hamstring curl", "glute ham raise"},
		tags: []string{"hamstring_load_high", "eccentric", "posterior_chain"}},
	{phrases: []string{"squat", "pistol", "sissy squat", "leg extension"},
		tags: []string{"knee_flexion_deep", "lower_body"}},
	{phrases: []string{"lunge", "split squat", "step up", "bulgarian"},
		tags: []string{"unilateral", "knee_load", "lower_body"}},
	{phrases: []string{"cossack", "pigeon", "deep squat hold", "sumo"},
		tags: []string{"hip_flexion_deep", "mobility"}},
	{phrases: []string{"pull up", "pullup", "chin up", "row", "pulldown", "face pull", "pull apart"},
		tags: []string{"upper_pull", "pull", "upper_body"}},
	{phrases: []string{"neck bridge", "wrestler bridge", "neck harness", "headstand"},
		tags: []string{"neck_load", "neck"}},
	{phrases: []string{"neck"},
		tags: []string{"neck"}},
	{phrases: []string{"carry", "farmer", "suitcase"},
		tags: []string{"carry", "grip", "core"}},
	{phrases: []string{"med ball", "medicine ball", "rotational", "woodchop", "scoop toss"},
		tags: []string{"rotation", "explosive", "rotation_high"}},
	{phrases: []string{"pallof", "dead bug", "hollow", "bird dog", "anti rotation"},
		tags: []string{"core", "anti_rotation", "stability"}},
	{phrases: []string{"isometric", "iso hold", "wall sit", "hold"},
		tags: []string{"isometric"}},
	{phrases: []string{"heavy bag", "bag work", "pad work", "shadowbox", "shadow boxing"},
		tags: []string{"skill_refinement", "striking_impact"}},
	{phrases: []string{"bike", "rower", "swim", "elliptical"},
		tags: []string{"low_impact", "aerobic"}},
	{phrases: []string{"sled"},
		tags: []string{"low_impact", "lower_body", "work_capacity"}},
	{phrases: []string{"sprawl", "shot", "takedown"},
		tags: []string{"grappler", "hip_flexion_deep", "explosive"}},
}

// tagAliases expands a tag into the risk tags it implies.
//
//nolint:gochecknoglobals // lookup table.
var tagAliases = map[string][]string{
	"overhead":         {"dynamic_overhead", "press_heavy", "wrist_extension_high"},
	"high_impact_plyo": {"high_impact", "landing_stress_high"},
	"max_velocity":     {"hamstring_high_risk"},
	"plyometric":       {"landing_stress_high"},
	"barbell_squat":    {"knee_flexion_deep", "spinal_loading"},
	"olympic_lift":     {"triple_extension", "high_cns", "wrist_extension_high"},
}

// InferTags derives tags from an item name by whole-phrase matching against the rule table.
func InferTags(name string) []string {
	text := vocab.NewText(name, InferenceAllowlist...)
	var tags []string
	for _, rule := range tagRules {
		if len(text.Matches(rule.phrases)) > 0 {
			tags = append(tags, rule.tags...)
		}
	}
	return ExpandTagAliases(tags)
}

// ExpandTagAliases normalises tags and appends the risk tags implied by domain aliases.
func ExpandTagAliases(tags []string) []string {
	out := vocab.NormalizeTags(tags)
	for _, t := range out {
		out = append(out, tagAliases[t]...)
	}
	return vocab.NormalizeTags(out)
}

type movementRule struct {
	movement Movement
	phrases  []string
}

// movementRules are checked in order; the first match wins.
//
//nolint:gochecknoglobals // rule table.
var movementRules = []movementRule{
	{Neck, []string{"neck"}},
	{Carry, []string{"carry", "farmer", "suitcase", "waiter walk"}},
	{Lunge, []string{"lunge", "split squat", "step up", "bulgarian", "cossack"}},
	{Hinge, []string{"deadlift", "rdl", "hinge", "swing", "good morning", "hip thrust", "glute bridge", "nordic", "ham curl", "clean"}},
	{Squat, []string{"squat", "wall sit", "pistol", "leg press"}},
	{Rotation, []string{"rotation", "rotational", "woodchop", "chop", "scoop toss", "landmine twist", "med ball throw"}},
	{Core, []string{"plank", "dead bug", "pallof", "hollow", "crunch", "sit up", "leg raise", "bird dog", "ab wheel", "copenhagen"}},
	{Pull, []string{"row", "pull up", "pullup", "chin up", "pulldown", "face pull", "pull apart", "high pull"}},
	{Push, []string{"press", "push up", "pushup", "dip", "bench", "jerk"}},
}

// InferMovement guesses the movement pattern of an exercise from its name.
func InferMovement(name string) Movement {
	text := vocab.NewText(name, InferenceAllowlist...)
	for _, rule := range movementRules {
		if len(text.Matches(rule.phrases)) > 0 {
			return rule.movement
		}
	}
	return MovementUnknown
}
