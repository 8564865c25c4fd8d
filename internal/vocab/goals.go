package vocab

//nolint:gochecknoglobals // lookup table.
var goalTagMap = map[string][]string{
	"power":              {"power", "explosive", "rate_of_force"},
	"explosive":          {"explosive", "power", "plyometric"},
	"strength":           {"strength", "max_strength", "posterior_chain"},
	"max_strength":       {"max_strength", "strength"},
	"conditioning":       {"conditioning", "work_capacity", "glycolytic", "aerobic"},
	"endurance":          {"endurance", "aerobic", "conditioning"},
	"speed":              {"speed", "reactive", "alactic"},
	"agility":            {"agility", "footwork", "reactive"},
	"mobility":           {"mobility", "stability"},
	"flexibility":        {"mobility"},
	"coordination":       {"coordination", "balance", "footwork"},
	"balance":            {"balance", "stability"},
	"footwork":           {"footwork", "coordination"},
	"skill_refinement":   {"skill_refinement", "coordination"},
	"injury_prevention":  {"injury_prevention", "rehab_friendly", "stability"},
	"mental_toughness":   {"mental_toughness"},
	"core":               {"core", "anti_rotation"},
	"neck":               {"neck", "traps"},
	"grip":               {"grip"},
	"weight_cut":         {"aerobic", "conditioning"},
	"fat_loss":           {"aerobic", "conditioning"},
	"punching_power":     {"power", "rotation", "explosive"},
	"kicking_power":      {"power", "rotation", "unilateral"},
	"takedowns":          {"power", "posterior_chain", "explosive"},
	"takedown_defense":   {"core", "posterior_chain", "stability"},
	"grappling":          {"grip", "core", "strength_endurance"},
	"recovery":           {"aerobic", "mobility"},
	"hand_speed":         {"speed", "reactive"},
	"reaction_time":      {"reactive", "speed"},
	"strength_endurance": {"strength_endurance", "work_capacity"},
}

//nolint:gochecknoglobals // lookup table.
var goalSynonyms = map[string]string{
	"gas_tank":            "conditioning",
	"cardio":              "conditioning",
	"stamina":             "endurance",
	"explosiveness":       "explosive",
	"explosive_power":     "power",
	"punch_power":         "punching_power",
	"knockout_power":      "punching_power",
	"quickness":           "speed",
	"skill":               "skill_refinement",
	"skills":              "skill_refinement",
	"technique":           "skill_refinement",
	"coordination_drills": "coordination",
	"footspeed":           "footwork",
	"injury_resilience":   "injury_prevention",
	"durability":          "injury_prevention",
	"mental":              "mental_toughness",
	"toughness":           "mental_toughness",
	"making_weight":       "weight_cut",
	"lose_weight":         "fat_loss",
	"wrestling":           "takedowns",
	"clinch":              "grappling",
	"reactions":           "reaction_time",
	"reflexes":            "reaction_time",
	"muscular_endurance":  "strength_endurance",
	"flexible":            "flexibility",
}

// GoalTags expands raw goal or weakness strings into the item tags they favour. Unknown goals are kept as
// their normalised tag so an item tagged with the goal itself still matches.
func GoalTags(raw []string) []string {
	var expanded []string
	for _, r := range raw {
		for _, piece := range equipmentSeparators.Split(r, -1) {
			key := Slug(piece)
			if key == "" {
				continue
			}
			if canonical, ok := goalSynonyms[key]; ok {
				key = canonical
			}
			expanded = append(expanded, key)
			expanded = append(expanded, goalTagMap[key]...)
		}
	}
	return NormalizeTags(expanded)
}
