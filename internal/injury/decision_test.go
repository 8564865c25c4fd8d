package injury_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/injury"
	"github.com/myrjola/fightcamp/internal/testhelpers"
	"github.com/myrjola/fightcamp/internal/vocab"
)

func explicitItem(name string, tags ...string) catalog.Item {
	return catalog.Item{
		Name:      name,
		Tags:      tags,
		Phases:    catalog.Phases,
		TagSource: catalog.TagsExplicit,
		Movement:  catalog.InferMovement(name),
	}
}

func newEngine(t *testing.T, cat *catalog.Catalog) *injury.Engine {
	t.Helper()
	return injury.NewEngine(cat, testhelpers.NewTestLogger(t))
}

func TestDecideWithoutInjuriesAllows(t *testing.T) {
	engine := newEngine(t, nil)
	items := []catalog.Item{
		explicitItem("Depth Jump", "high_impact_plyo", "plyometric"),
		explicitItem("Barbell Overhead Press", "overhead", "dynamic_overhead"),
		explicitItem("Romanian Deadlift", "hamstring_load_high"),
	}
	for _, item := range items {
		for _, phase := range catalog.Phases {
			for _, fatigue := range []vocab.Fatigue{vocab.FatigueLow, vocab.FatigueModerate, vocab.FatigueHigh} {
				if d := engine.Decide(t.Context(), item, nil, phase, fatigue); d.Action != injury.Allow {
					t.Errorf("%s in %s: want allow, got %s", item.Name, phase, d.Action)
				}
			}
		}
	}
}

func TestDecideHamstringKeywords(t *testing.T) {
	engine := newEngine(t, nil)
	injuries, _ := injury.Parse("hamstring injury")
	names := []string{
		"Romanian Deadlift (RDL)",
		"RomanianDeadlift",
		"DB-RDL",
		"romanian deadlift",
		"Nordic Hamstring Curl",
		"Ham Curl Machine",
		"Good Morning",
		"Hill Sprint Repeats",
	}
	for _, name := range names {
		for _, fatigue := range []vocab.Fatigue{vocab.FatigueLow, vocab.FatigueModerate, vocab.FatigueHigh} {
			d := engine.Decide(t.Context(), explicitItem(name, "posterior_chain"), injuries, catalog.GPP, fatigue)
			if d.Action != injury.Exclude {
				t.Errorf("%q with %s fatigue: want exclude, got %s (risk %.2f)", name, fatigue, d.Action, d.RiskScore)
			}
		}
	}
}

func TestDecideAllowlist(t *testing.T) {
	engine := newEngine(t, nil)
	injuries, _ := injury.Parse("shoulder pain")
	d := engine.Decide(t.Context(), explicitItem("Pressure Fighter Core Drill", "core"), injuries, catalog.GPP,
		vocab.FatigueModerate)
	if d.Action != injury.Allow {
		t.Errorf("want allow, got %s with %+v", d.Action, d.Reason.Matches)
	}
}

func TestDecideShoulder(t *testing.T) {
	engine := newEngine(t, nil)
	injuries, _ := injury.Parse("shoulder pain")
	tests := []struct {
		name       string
		item       catalog.Item
		wantAction injury.Action
		wantBucket injury.Bucket
	}{
		{name: "push press", item: explicitItem("Push Press", "power"), wantAction: injury.Exclude, wantBucket: injury.BucketOverhead},
		{name: "bench press", item: explicitItem("Dumbbell Bench Press", "push"), wantAction: injury.Exclude, wantBucket: injury.BucketPress},
		{name: "overhead tag", item: explicitItem("Landmine Thruster", "overhead"), wantAction: injury.Exclude, wantBucket: injury.BucketOverhead},
		{name: "row", item: explicitItem("Dumbbell Row", "upper_pull"), wantAction: injury.Allow, wantBucket: injury.BucketDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := engine.Decide(t.Context(), tt.item, injuries, catalog.SPP, vocab.FatigueModerate)
			if d.Action != tt.wantAction {
				t.Errorf("want %s, got %s (risk %.2f)", tt.wantAction, d.Action, d.RiskScore)
			}
			if d.Reason.Bucket != tt.wantBucket {
				t.Errorf("want bucket %s, got %s", tt.wantBucket, d.Reason.Bucket)
			}
			if d.Reason.Region != "shoulder" {
				t.Errorf("want region shoulder, got %s", d.Reason.Region)
			}
		})
	}
}

func TestDecideModifyAttachesMods(t *testing.T) {
	engine := newEngine(t, nil)
	injuries := []injury.Injury{{Region: "knee", Type: injury.Pain, Side: injury.Left, Severity: injury.Moderate}}
	d := engine.Decide(t.Context(), explicitItem("Goblet Squat", "lower_body"), injuries, catalog.GPP,
		vocab.FatigueModerate)
	if d.Action != injury.Modify {
		t.Fatalf("want modify, got %s (risk %.2f)", d.Action, d.RiskScore)
	}
	if diff := cmp.Diff([]string{"reduce_impact", "shorten_range", "tempo_control"}, d.Mods); diff != "" {
		t.Errorf("mods mismatch (-want +got):\n%s", diff)
	}
}

func TestDecideInferredTagsNeverExcludeAlone(t *testing.T) {
	engine := newEngine(t, nil)
	injuries := []injury.Injury{{Region: "achilles", Type: injury.Tendonitis, Side: injury.None, Severity: injury.Severe}}
	item := catalog.Item{
		Name:      "Reactive Drill",
		Tags:      []string{"high_impact_plyo", "achilles_high_risk_impact"},
		Phases:    catalog.Phases,
		TagSource: catalog.TagsInferred,
	}
	for _, phase := range catalog.Phases {
		for _, fatigue := range []vocab.Fatigue{vocab.FatigueLow, vocab.FatigueModerate, vocab.FatigueHigh} {
			if d := engine.Decide(t.Context(), item, injuries, phase, fatigue); d.Action == injury.Exclude {
				t.Errorf("%s/%s: inferred tags alone excluded the item", phase, fatigue)
			}
		}
	}
	item.TagSource = catalog.TagsExplicit
	if d := engine.Decide(t.Context(), item, injuries, catalog.GPP, vocab.FatigueModerate); d.Action != injury.Exclude {
		t.Errorf("explicit tags: want exclude, got %s", d.Action)
	}
}

func TestDecideExclusionMap(t *testing.T) {
	cat := &catalog.Catalog{Exclusions: map[string][]string{"knee": {"Sled Drag"}}}
	engine := newEngine(t, cat)
	injuries := []injury.Injury{{Region: "knee", Type: injury.Sprain, Side: injury.None, Severity: injury.Moderate}}
	d := engine.Decide(t.Context(), explicitItem("Sled Drag", "low_impact"), injuries, catalog.GPP, vocab.FatigueModerate)
	if d.Action != injury.Exclude {
		t.Errorf("want exclude, got %s", d.Action)
	}
}

func TestDecideIsStable(t *testing.T) {
	engine := newEngine(t, nil)
	injuries, _ := injury.Parse("right knee sprain; lower back tightness")
	item := explicitItem("Barbell Back Squat", "knee_flexion_deep", "spinal_loading")
	first := engine.Decide(t.Context(), item, injuries, catalog.SPP, vocab.FatigueHigh)
	second := engine.Decide(t.Context(), item, injuries, catalog.SPP, vocab.FatigueHigh)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("decisions differ (-first +second):\n%s", diff)
	}
}

func TestThresholdsFor(t *testing.T) {
	tests := []struct {
		phase   catalog.Phase
		fatigue vocab.Fatigue
		want    injury.Thresholds
	}{
		{catalog.GPP, vocab.FatigueModerate, injury.Thresholds{Modify: 0.85, Exclude: 1.2}},
		{catalog.GPP, vocab.FatigueHigh, injury.Thresholds{Modify: 0.75, Exclude: 1.1}},
		{catalog.SPP, vocab.FatigueLow, injury.Thresholds{Modify: 0.90, Exclude: 1.2}},
		{catalog.TAPER, vocab.FatigueModerate, injury.Thresholds{Modify: 0.85, Exclude: 1.25}},
	}
	for _, tt := range tests {
		got := injury.ThresholdsFor(tt.phase, tt.fatigue)
		if diff := cmp.Diff(tt.want, got, floatComparer()); diff != "" {
			t.Errorf("%s/%s mismatch (-want +got):\n%s", tt.phase, tt.fatigue, diff)
		}
	}
}

func floatComparer() cmp.Option {
	return cmp.Comparer(func(a, b float64) bool {
		const eps = 1e-9
		return a-b < eps && b-a < eps
	})
}

func TestRestricted(t *testing.T) {
	engine := newEngine(t, nil)
	_, restrictions := injury.Parse("avoid heavy overhead pressing; limit deep squats")
	tests := []struct {
		item catalog.Item
		want injury.Action
	}{
		{item: explicitItem("Seated Overhead Press", "push"), want: injury.Exclude},
		{item: explicitItem("Deep Squat Hold", "isometric"), want: injury.Modify},
		{item: explicitItem("Dead Bug", "core"), want: injury.Allow},
	}
	for _, tt := range tests {
		if got, _ := engine.Restricted(tt.item, restrictions); got != tt.want {
			t.Errorf("%s: want %s, got %s", tt.item.Name, tt.want, got)
		}
	}
}

func TestReplace(t *testing.T) {
	engine := newEngine(t, nil)
	injuries, _ := injury.Parse("shoulder pain")
	profile := injury.Profile{Injuries: injuries, Fatigue: vocab.FatigueModerate}
	excluded := explicitItem("Push Press", "power")
	d := engine.Assess(t.Context(), excluded, profile, catalog.GPP)
	safe := func(item catalog.Item) bool {
		return engine.Assess(t.Context(), item, profile, catalog.GPP).Action != injury.Exclude
	}
	candidates := []injury.Candidate{
		{Item: explicitItem("Barbell Overhead Press", "push"), Score: 3},
		{Item: explicitItem("Dead Bug", "core"), Score: 2},
		{Item: explicitItem("Band Face Pull", "upper_pull"), Score: 1},
	}
	got, ok := engine.Replace(excluded, d, candidates, safe)
	if !ok || got.Name != "Band Face Pull" {
		t.Errorf("want Band Face Pull, got %q (ok=%v)", got.Name, ok)
	}

	got, ok = engine.Replace(excluded, d, candidates[:1], safe)
	if ok {
		t.Errorf("want no replacement, got %q", got.Name)
	}

	candidates = append(candidates[:1], injury.Candidate{Item: explicitItem("Goblet Squat", "lower_body"), Score: 0.5},
		injury.Candidate{Item: explicitItem("Box Step Up", "unilateral"), Score: 0.5})
	got, ok = engine.Replace(excluded, d, candidates, safe)
	if !ok || got.Name != "Box Step Up" {
		t.Errorf("want first safe candidate by name on equal score, got %q", got.Name)
	}
}
