package catalog_test

import (
	"testing"

	"github.com/myrjola/fightcamp/internal/catalog"
)

func TestInferTags(t *testing.T) {
	tests := []struct {
		name    string
		want    []string
		notWant []string
	}{
		{name: "Depth Jump", want: []string{"high_impact_plyo", "plyometric", "landing_stress_high", "high_impact"}},
		{name: "Barbell Overhead Press", want: []string{"overhead", "dynamic_overhead", "press_heavy"}},
		{name: "Romanian Deadlift (RDL)", want: []string{"hamstring_load_high", "hinge", "posterior_chain"}},
		{name: "Max Sprint Repeats", want: []string{"max_velocity", "hamstring_high_risk"}},
		{name: "Pressure Fighter Core Drill", notWant: []string{"press_heavy", "push"}},
		{name: "Compression Sleeve Walk", notWant: []string{"press_heavy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := catalog.Item{Name: tt.name, Tags: catalog.InferTags(tt.name)}
			for _, tag := range tt.want {
				if !item.HasTag(tag) {
					t.Errorf("want %s in %v", tag, item.Tags)
				}
			}
			for _, tag := range tt.notWant {
				if item.HasTag(tag) {
					t.Errorf("did not want %s in %v", tag, item.Tags)
				}
			}
		})
	}
}

func TestInferMovement(t *testing.T) {
	tests := []struct {
		name string
		want catalog.Movement
	}{
		{"Bulgarian Split Squat", catalog.Lunge},
		{"Goblet Squat", catalog.Squat},
		{"Trap Bar Deadlift", catalog.Hinge},
		{"Landmine Press", catalog.Push},
		{"Single-Arm Dumbbell Row", catalog.Pull},
		{"Neck Harness Extension", catalog.Neck},
		{"Suitcase Carry", catalog.Carry},
		{"Pressure Fighter Core Drill", catalog.MovementUnknown},
	}
	for _, tt := range tests {
		if got := catalog.InferMovement(tt.name); got != tt.want {
			t.Errorf("InferMovement(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestExpandTagAliases(t *testing.T) {
	tags := catalog.ExpandTagAliases([]string{"Overhead", "plyos"})
	item := catalog.Item{Tags: tags}
	for _, want := range []string{"overhead", "dynamic_overhead", "wrist_extension_high", "plyometric", "landing_stress_high"} {
		if !item.HasTag(want) {
			t.Errorf("want %s in %v", want, tags)
		}
	}
}
