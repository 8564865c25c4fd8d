package vocab_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fightcamp/internal/vocab"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []string
	}{
		{name: "empty", raw: nil, want: []string{}},
		{name: "synonyms", raw: []string{"Muay Thai", "skill refinement", "Plyos"}, want: []string{"muay_thai", "skill_refinement", "plyometric"}},
		{name: "dedup keeps first", raw: []string{"core", "Core", "posterior chain", "core"}, want: []string{"core", "posterior_chain"}},
		{name: "drops empties", raw: []string{"", "  ", "--", "neck"}, want: []string{"neck"}},
		{name: "diacritics", raw: []string{"Muay Thaï"}, want: []string{"muay_thai"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := vocab.NormalizeTags(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NormalizeTags() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeEquipmentList(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []string
	}{
		{name: "delimited string", raw: []string{"Dumbbells, Kettlebell / bands and med ball"}, want: []string{"dumbbells", "kettlebell", "bands", "medicine_ball"}},
		{name: "list with duplicates", raw: []string{"DB", "dumbbell", "Pull-up bar"}, want: []string{"dumbbells", "pull_up_bar"}},
		{name: "none is bodyweight", raw: []string{"None"}, want: []string{"bodyweight"}},
		{name: "unknown kept as slug", raw: []string{"Climbing Wall"}, want: []string{"climbing_wall"}},
		{name: "empty", raw: []string{"", " , "}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := vocab.NormalizeEquipmentList(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NormalizeEquipmentList() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEquipmentFits(t *testing.T) {
	available := vocab.Set("dumbbells", "bands")
	if !vocab.EquipmentFits([]string{"bodyweight"}, available) {
		t.Error("bodyweight must always fit")
	}
	if !vocab.EquipmentFits(nil, available) {
		t.Error("no equipment must always fit")
	}
	if !vocab.EquipmentFits([]string{"dumbbells", "bands"}, available) {
		t.Error("available equipment must fit")
	}
	if vocab.EquipmentFits([]string{"barbell"}, available) {
		t.Error("barbell is not available")
	}
}

func TestCanonicalStyles(t *testing.T) {
	got := vocab.CanonicalStyles([]string{"Pressure Fighter", "style_counter_striker", "Swarmer", "Ninja", "wrestler"})
	want := []string{"pressure_fighter", "counter_striker", "grappler"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CanonicalStyles() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSport(t *testing.T) {
	tests := map[string]vocab.Sport{
		"Boxing":       vocab.SportBoxing,
		"Muay Thai":    vocab.SportMuayThai,
		"Kickboxing":   vocab.SportKickboxing,
		"MMA":          vocab.SportMMA,
		"BJJ":          vocab.SportMMA,
		"":             vocab.SportMMA,
		"Thai boxing":  vocab.SportMuayThai,
		"kick-boxing ": vocab.SportKickboxing,
	}
	for raw, want := range tests {
		if got := vocab.ParseSport(raw); got != want {
			t.Errorf("ParseSport(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestGoalTags(t *testing.T) {
	got := vocab.GoalTags([]string{"Power", "Gas tank"})
	want := []string{"power", "explosive", "rate_of_force", "conditioning", "work_capacity", "glycolytic", "aerobic"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GoalTags() mismatch (-want +got):\n%s", diff)
	}
}

func TestTitle(t *testing.T) {
	if got := vocab.Title("muay_thai"); got != "Muay Thai" {
		t.Errorf("Title() = %q", got)
	}
}

func TestParseFatigue(t *testing.T) {
	tests := map[string]vocab.Fatigue{
		"Low":      vocab.FatigueLow,
		"HIGH":     vocab.FatigueHigh,
		"moderate": vocab.FatigueModerate,
		"":         vocab.FatigueModerate,
		"whatever": vocab.FatigueModerate,
	}
	for raw, want := range tests {
		if got := vocab.ParseFatigue(raw); got != want {
			t.Errorf("ParseFatigue(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestSportBans(t *testing.T) {
	tests := []struct {
		sport vocab.Sport
		name  string
		tags  []string
		want  bool
	}{
		{sport: vocab.SportBoxing, name: "Sprawl Intervals", want: true},
		{sport: vocab.SportBoxing, name: "Clinch Knee Strike Rounds", want: true},
		{sport: vocab.SportBoxing, name: "Roundhouse Kick Rounds", want: true},
		{sport: vocab.SportBoxing, name: "Half Kneeling Pallof Press", want: true},
		{sport: vocab.SportBoxing, name: "Heavy Bag Rounds", want: false},
		{sport: vocab.SportBoxing, name: "Hip Escape Drill", tags: []string{"bjj"}, want: true},
		{sport: vocab.SportKickboxing, name: "Roundhouse Kick Rounds", want: false},
		{sport: vocab.SportKickboxing, name: "Wrestling Shot Drill", want: true},
		{sport: vocab.SportMMA, name: "Wrestling Shot Drill", want: false},
		{sport: vocab.SportMuayThai, name: "Clinch Knee Strike Rounds", want: false},
		{sport: vocab.SportKickboxing, name: "Clinch Knee Strike Rounds", want: false},
		{sport: vocab.SportKickboxing, name: "Clinch Frames", tags: []string{"clinch"}, want: false},
		{sport: vocab.SportBoxing, name: "Clinch Frames", tags: []string{"clinch"}, want: true},
		{sport: vocab.SportBoxing, name: "Med Ball Shot Put", want: false},
		{sport: vocab.SportKickboxing, name: "Med Ball Shot Put", want: false},
		{sport: vocab.SportKickboxing, name: "Double Leg Shots", want: true},
		{sport: vocab.SportBoxing, name: "Upshot Jumps", want: false},
	}
	for _, tt := range tests {
		t.Run(string(tt.sport)+"/"+tt.name, func(t *testing.T) {
			if got := tt.sport.Bans(tt.name, tt.tags); got != tt.want {
				t.Errorf("Bans(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
