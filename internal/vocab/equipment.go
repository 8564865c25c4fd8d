package vocab

import (
	"regexp"
	"strings"
)

// Bodyweight is the equipment key of items that need no equipment.
const Bodyweight = "bodyweight"

// KnownEquipment is the closed equipment vocabulary.
//
//nolint:gochecknoglobals // vocabulary.
var KnownEquipment = Set(
	Bodyweight,
	"dumbbells",
	"kettlebell",
	"barbell",
	"trap_bar",
	"bands",
	"medicine_ball",
	"pull_up_bar",
	"bench",
	"cable",
	"sled",
	"landmine",
	"heavy_bag",
	"jump_rope",
	"assault_bike",
	"rower",
	"treadmill",
	"battle_ropes",
	"plyo_box",
	"sandbag",
	"slam_ball",
	"track",
	"bike",
	"stability_ball",
	"neck_harness",
	"weight_vest",
	"tire",
	"sledgehammer",
	"partner",
	"pads",
	"suspension_trainer",
	"pool",
	"agility_ladder",
	"cones",
	"hill",
)

//nolint:gochecknoglobals // lookup table.
var equipmentSynonyms = map[string]string{
	"dumbbell":           "dumbbells",
	"db":                 "dumbbells",
	"dbs":                "dumbbells",
	"kettlebells":        "kettlebell",
	"kb":                 "kettlebell",
	"kbs":                "kettlebell",
	"band":               "bands",
	"resistance_band":    "bands",
	"resistance_bands":   "bands",
	"mini_bands":         "bands",
	"med_ball":           "medicine_ball",
	"medball":            "medicine_ball",
	"medicine_balls":     "medicine_ball",
	"pullup_bar":         "pull_up_bar",
	"pull_up":            "pull_up_bar",
	"chin_up_bar":        "pull_up_bar",
	"bag":                "heavy_bag",
	"punching_bag":       "heavy_bag",
	"boxing_bag":         "heavy_bag",
	"skipping_rope":      "jump_rope",
	"rope":               "jump_rope",
	"air_bike":           "assault_bike",
	"airdyne":            "assault_bike",
	"echo_bike":          "assault_bike",
	"rowing_machine":     "rower",
	"erg":                "rower",
	"box":                "plyo_box",
	"plyometric_box":     "plyo_box",
	"hex_bar":            "trap_bar",
	"cables":             "cable",
	"cable_machine":      "cable",
	"prowler":            "sled",
	"battle_rope":        "battle_ropes",
	"slamball":           "slam_ball",
	"running_track":      "track",
	"stationary_bike":    "bike",
	"swiss_ball":         "stability_ball",
	"exercise_ball":      "stability_ball",
	"trx":                "suspension_trainer",
	"rings":              "suspension_trainer",
	"vest":               "weight_vest",
	"focus_mitts":        "pads",
	"thai_pads":          "pads",
	"mitts":              "pads",
	"training_partner":   "partner",
	"none":               Bodyweight,
	"no_equipment":       Bodyweight,
	"body_weight":        Bodyweight,
	"full_gym":           "barbell",
	"ladder":             "agility_ladder",
	"sledge_hammer":      "sledgehammer",
	"neck_harness_strap": "neck_harness",
	"flat_bench":         "bench",
	"adjustable_bench":   "bench",
}

//nolint:gochecknoglobals // precompiled pattern.
var equipmentSeparators = regexp.MustCompile(`(?i)\s*(?:,|/|;|\band\b|\n)\s*`)

// NormalizeEquipment maps a single equipment string onto the equipment vocabulary. Unknown equipment is
// returned as its slug.
func NormalizeEquipment(raw string) string {
	slug := Slug(raw)
	if canonical, ok := equipmentSynonyms[slug]; ok {
		return canonical
	}
	return slug
}

// NormalizeEquipmentList splits every raw entry on ",", "/", ";" and " and ", normalises the pieces and
// returns them deduplicated in first-seen order.
func NormalizeEquipmentList(raw []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, entry := range raw {
		for _, piece := range equipmentSeparators.Split(entry, -1) {
			key := NormalizeEquipment(strings.TrimSpace(piece))
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	return out
}

// EquipmentFits reports whether every piece an item requires is available. Bodyweight is always available
// and an item without equipment needs nothing.
func EquipmentFits(required []string, available map[string]struct{}) bool {
	for _, r := range required {
		if r == "" || r == Bodyweight {
			continue
		}
		if _, ok := available[r]; !ok {
			return false
		}
	}
	return true
}

// NeedsEquipment reports whether required holds anything beyond bodyweight.
func NeedsEquipment(required []string) bool {
	for _, r := range required {
		if r != "" && r != Bodyweight {
			return true
		}
	}
	return false
}
