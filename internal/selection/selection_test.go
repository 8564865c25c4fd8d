package selection_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/selection"
)

func TestRNGIsStablePerPhaseAndModule(t *testing.T) {
	a := selection.RNG(42, catalog.GPP, selection.Strength)
	b := selection.RNG(42, catalog.GPP, selection.Strength)
	for range 10 {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("same seed produced %v and %v", x, y)
		}
	}

	c := selection.RNG(42, catalog.SPP, selection.Strength)
	d := selection.RNG(42, catalog.GPP, selection.Conditioning)
	e := selection.RNG(42, catalog.GPP, selection.Strength)
	first := e.Float64()
	if c.Float64() == first && d.Float64() == first {
		t.Error("phase and module do not change the random stream")
	}
}

func TestJitterBounds(t *testing.T) {
	rng := selection.RNG(7, catalog.TAPER, selection.Conditioning)
	for range 1000 {
		if j := selection.Jitter(rng, 0.15); j < -0.15 || j >= 0.15 {
			t.Fatalf("Jitter() = %v, want within [-0.15, 0.15)", j)
		}
	}
}

func TestGroupBySystem(t *testing.T) {
	items := []catalog.Item{
		{Name: "Bike Intervals", System: catalog.Glycolytic},
		{Name: "Zone 2 Run", System: catalog.Aerobic},
		{Name: "Ladder Footwork", System: ""},
		{Name: "Assault Bike Sprint", System: catalog.Glycolytic},
	}
	want := map[string][]string{
		"glycolytic":   {"Bike Intervals", "Assault Bike Sprint"},
		"aerobic":      {"Zone 2 Run"},
		"coordination": {"Ladder Footwork"},
	}
	if diff := cmp.Diff(want, selection.GroupBySystem(items)); diff != "" {
		t.Errorf("GroupBySystem() mismatch (-want +got):\n%s", diff)
	}
}

func TestCloneDoesNotShare(t *testing.T) {
	s := &selection.Selection{
		Module: selection.Strength,
		Phase:  catalog.GPP,
		Items:  []catalog.Item{{Name: "Goblet Squat"}},
		Mods:   map[string][]string{"Goblet Squat": {"tempo_control"}},
	}
	c := s.Clone()
	c.Items[0].Name = "Split Squat"
	c.Mods["Goblet Squat"][0] = "shorten_range"
	if s.Items[0].Name != "Goblet Squat" || s.Mods["Goblet Squat"][0] != "tempo_control" {
		t.Error("Clone() shares state with the original")
	}
}
