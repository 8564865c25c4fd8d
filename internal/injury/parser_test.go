package injury_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fightcamp/internal/injury"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name             string
		text             string
		wantInjuries     []injury.Injury
		wantRestrictions []string
	}{
		{
			name: "injury and restrictions are separated",
			text: "mild right shoulder impingement; avoid deep knee flexion under load; heavy overhead pressing",
			wantInjuries: []injury.Injury{
				{Region: "shoulder", Type: injury.Impingement, Side: injury.Right, Severity: injury.Mild},
			},
			wantRestrictions: []string{"deep_knee_flexion", "heavy_overhead_pressing"},
		},
		{
			name: "tendon beats pain",
			text: "left knee pain (patellar tendon)",
			wantInjuries: []injury.Injury{
				{Region: "knee", Type: injury.Tendonitis, Side: injury.Left, Severity: injury.Moderate},
			},
		},
		{name: "none", text: "None"},
		{name: "n/a", text: "N/A"},
		{name: "empty", text: "   "},
		{name: "negated symptom", text: "no pain when squatting"},
		{name: "negated symptom before region", text: "no knee pain"},
		{name: "negated symptom after region", text: "no pain in knee"},
		{
			name:         "contrast ends negation",
			text:         "no pain but shoulder stiffness",
			wantInjuries: []injury.Injury{{Region: "shoulder", Type: injury.Stiffness, Side: injury.None, Severity: injury.Mild}},
		},
		{
			name:         "shoulder pain defaults to mild",
			text:         "shoulder pain",
			wantInjuries: []injury.Injury{{Region: "shoulder", Type: injury.Pain, Side: injury.None, Severity: injury.Mild}},
		},
		{
			name:         "misspelt location",
			text:         "sholder pain",
			wantInjuries: []injury.Injury{{Region: "shoulder", Type: injury.Pain, Side: injury.None, Severity: injury.Mild}},
		},
		{
			name:         "rolled is a sprain",
			text:         "rolled ankle",
			wantInjuries: []injury.Injury{{Region: "ankle", Type: injury.Sprain, Side: injury.None, Severity: injury.Moderate}},
		},
		{
			name:         "gave way is instability",
			text:         "knee gave way",
			wantInjuries: []injury.Injury{{Region: "knee", Type: injury.Instability, Side: injury.None, Severity: injury.Severe}},
		},
		{
			name:         "descriptor sets severity",
			text:         "severe lower back strain",
			wantInjuries: []injury.Injury{{Region: "lower_back", Type: injury.Strain, Side: injury.None, Severity: injury.Severe}},
		},
		{
			name:         "back routes to lower back",
			text:         "back pain",
			wantInjuries: []injury.Injury{{Region: "lower_back", Type: injury.Pain, Side: injury.None, Severity: injury.Mild}},
		},
		{
			name: "split on and",
			text: "neck and upper back stiffness",
			wantInjuries: []injury.Injury{
				{Region: "neck", Type: injury.Unspecified, Side: injury.None, Severity: injury.Moderate},
				{Region: "upper_back", Type: injury.Stiffness, Side: injury.None, Severity: injury.Mild},
			},
		},
		{
			name:         "duplicates collapse",
			text:         "left knee pain, left knee pain",
			wantInjuries: []injury.Injury{{Region: "knee", Type: injury.Pain, Side: injury.Left, Severity: injury.Mild}},
		},
		{
			name:         "unknown region is unspecified and moderate",
			text:         "it hurts",
			wantInjuries: []injury.Injury{{Region: injury.RegionUnspecified, Type: injury.Pain, Side: injury.None, Severity: injury.Moderate}},
		},
		{
			name:             "unmatched trigger is generic",
			text:             "avoid running",
			wantRestrictions: []string{injury.GenericConstraint},
		},
		{
			name:         "achilles tendonitis",
			text:         "achilles tendonitis",
			wantInjuries: []injury.Injury{{Region: "achilles", Type: injury.Tendonitis, Side: injury.None, Severity: injury.Moderate}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			injuries, restrictions := injury.Parse(tt.text)
			if diff := cmp.Diff(tt.wantInjuries, injuries); diff != "" {
				t.Errorf("injuries mismatch (-want +got):\n%s", diff)
			}
			var names []string
			for _, r := range restrictions {
				names = append(names, r.Restriction)
			}
			if diff := cmp.Diff(tt.wantRestrictions, names); diff != "" {
				t.Errorf("restrictions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRestrictionDetails(t *testing.T) {
	_, restrictions := injury.Parse("flare up with sprinting; limit overhead pressing on the left")
	want := []injury.Restriction{
		{Restriction: "max_velocity", Region: "hamstring", Strength: injury.Flare, Side: injury.None, Phrase: "flare up with sprinting"},
		{Restriction: "heavy_overhead_pressing", Region: "shoulder", Strength: injury.Limit, Side: injury.Left, Phrase: "limit overhead pressing on the left"},
	}
	if diff := cmp.Diff(want, restrictions); diff != "" {
		t.Errorf("restrictions mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSeverityStaysInClause(t *testing.T) {
	injuries, restrictions := injury.Parse("mild right shoulder impingement; avoid severe deep knee flexion")
	if len(injuries) != 1 || injuries[0].Severity != injury.Mild {
		t.Errorf("want one mild injury, got %+v", injuries)
	}
	if len(restrictions) != 1 {
		t.Errorf("want one restriction, got %+v", restrictions)
	}
}

func TestInjuryUnmarshalJSON(t *testing.T) {
	var got []injury.Injury
	data := `["right shoulder pain", {"region": "Knee", "injury_type": "sprain"}]`
	if err := json.Unmarshal([]byte(data), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []injury.Injury{
		{Region: "shoulder", Type: injury.Pain, Side: injury.Right, Severity: injury.Mild},
		{Region: "knee", Type: injury.Sprain, Side: injury.None, Severity: injury.Moderate},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unmarshal mismatch (-want +got):\n%s", diff)
	}
	if err := json.Unmarshal([]byte(`"feeling great"`), new(injury.Injury)); err == nil {
		t.Error("want error for text without an injury")
	}
}
