package athlete_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fightcamp/internal/athlete"
	"github.com/myrjola/fightcamp/internal/catalog"
)

func TestSessionsFor(t *testing.T) {
	tests := []struct {
		frequency int
		phase     catalog.Phase
		want      athlete.Sessions
	}{
		{frequency: 0, phase: catalog.GPP, want: athlete.Sessions{Strength: 2, Conditioning: 2}},
		{frequency: 1, phase: catalog.SPP, want: athlete.Sessions{Strength: 1, Conditioning: 1}},
		{frequency: 3, phase: catalog.SPP, want: athlete.Sessions{Strength: 1, Conditioning: 2}},
		{frequency: 4, phase: catalog.TAPER, want: athlete.Sessions{Strength: 1, Conditioning: 2}},
		{frequency: 5, phase: catalog.GPP, want: athlete.Sessions{Strength: 3, Conditioning: 2}},
		{frequency: 9, phase: catalog.GPP, want: athlete.Sessions{Strength: 3, Conditioning: 3}},
	}
	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, athlete.SessionsFor(tt.frequency, tt.phase)); diff != "" {
				t.Errorf("SessionsFor(%d) mismatch (-want +got):\n%s", tt.frequency, diff)
			}
		})
	}
}

func TestWeightCut(t *testing.T) {
	if got := athlete.WeightCut(80, 76); math.Abs(got-5) > 1e-9 {
		t.Errorf("WeightCut(80, 76) = %.3f, want 5", got)
	}
	if got := athlete.WeightCut(80, 82); got != 0 {
		t.Errorf("WeightCut(80, 82) = %.3f, want 0", got)
	}
	if got := athlete.WeightCut(0, 70); got != 0 {
		t.Errorf("WeightCut(0, 70) = %.3f, want 0", got)
	}
}

func TestContextSets(t *testing.T) {
	c := &athlete.Context{
		Equipment:  []string{"dumbbells"},
		Goals:      []string{"power", "explosive"},
		Weaknesses: []string{"coordination"},
	}
	if _, ok := c.EquipmentSet()["bodyweight"]; !ok {
		t.Error("bodyweight missing from equipment set")
	}
	if !c.WantsAny("coordination", "footwork") {
		t.Error("WantsAny(coordination) = false, want true")
	}
	if c.WantsAny("aerobic") {
		t.Error("WantsAny(aerobic) = true, want false")
	}
}
