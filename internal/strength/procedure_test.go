package strength_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fightcamp/internal/athlete"
	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/injury"
	"github.com/myrjola/fightcamp/internal/strength"
	"github.com/myrjola/fightcamp/internal/testhelpers"
	"github.com/myrjola/fightcamp/internal/vocab"
)

// exercise builds a bank entry valid in every phase. Each goal tag adds roughly half a point, which keeps
// the ranking clear of the jitter.
func exercise(name string, movement catalog.Movement, tags ...string) catalog.Item {
	return catalog.Item{Name: name, Tags: tags, Phases: catalog.Phases, Movement: movement} //nolint:exhaustruct // fixture.
}

func TestSelectProcedure(t *testing.T) {
	tests := []struct {
		name      string
		phase     catalog.Phase
		frequency int
		styles    []string
		previous  []string
		recent    []catalog.Movement
		catalog   *catalog.Catalog
		want      []string
	}{
		{
			name:      "earlier picks are dropped unless cornerstone",
			phase:     catalog.SPP,
			frequency: 2,
			previous:  []string{"Alpha Row", "Back Squat"},
			catalog: &catalog.Catalog{ //nolint:exhaustruct // fixture.
				Exercises: []catalog.Item{
					exercise("Alpha Row", catalog.Pull, "g_a", "g_b", "g_c"),
					exercise("Back Squat", catalog.Squat, "g_a", "g_b", "g_c"),
					exercise("Bravo Press", catalog.Push, "g_a", "g_b"),
					exercise("Charlie Carry", catalog.Carry, "g_a"),
					exercise("Delta Lunge", catalog.Lunge),
				},
			},
			want: []string{"Back Squat", "Bravo Press", "Charlie Carry"},
		},
		{
			name:      "taper keeps earlier speed work",
			phase:     catalog.TAPER,
			frequency: 2,
			previous:  []string{"Speed Skip", "Reactive Hop"},
			catalog: &catalog.Catalog{ //nolint:exhaustruct // fixture.
				Exercises: []catalog.Item{
					exercise("Speed Skip", catalog.Lunge, "speed", "g_a", "g_b"),
					exercise("Reactive Hop", catalog.Squat, "reactive", "g_a", "g_b", "g_c"),
					exercise("Low Impact Step", catalog.Carry, "low_impact", "g_a"),
					exercise("Explosive Throw", catalog.Push, "explosive"),
				},
			},
			want: []string{"Speed Skip", "Low Impact Step"},
		},
		{
			name:      "universal groups fill in priority order within the target",
			phase:     catalog.GPP,
			frequency: 4,
			catalog: &catalog.Catalog{ //nolint:exhaustruct // fixture.
				Exercises: []catalog.Item{
					exercise("Kilo Carry", catalog.Carry, "g_a", "g_b", "g_c"),
					exercise("Lima Hinge", catalog.Hinge, "g_a", "g_b"),
					exercise("Mike Carry", catalog.Carry),
					exercise("November Hinge", catalog.Hinge),
					exercise("Oscar Push", catalog.Push),
					exercise("Papa Push", catalog.Push),
				},
				UniversalStrength: []catalog.Item{
					exercise("Universal Neck Curl", catalog.Neck, "neck"),
					exercise("Universal Split Stance", catalog.Lunge, "unilateral"),
					exercise("Universal Pallof", catalog.Core, "anti_rotation"),
					exercise("Universal Row", catalog.Pull, "upper_pull"),
				},
			},
			want: []string{
				"Kilo Carry", "Lima Hinge",
				"Universal Row", "Universal Pallof", "Universal Split Stance", "Universal Neck Curl",
			},
		},
		{
			name:      "universal items alone are cut back to the target",
			phase:     catalog.GPP,
			frequency: 2,
			catalog: &catalog.Catalog{ //nolint:exhaustruct // fixture.
				Exercises: []catalog.Item{
					exercise("Kilo Carry", catalog.Carry, "g_a", "g_b", "g_c"),
				},
				UniversalStrength: []catalog.Item{
					exercise("Universal Row", catalog.Pull, "upper_pull"),
					exercise("Universal Pallof", catalog.Core, "anti_rotation"),
					exercise("Universal Split Stance", catalog.Lunge, "unilateral"),
					exercise("Universal Neck Curl", catalog.Neck, "neck"),
				},
			},
			want: []string{"Universal Row", "Universal Pallof", "Universal Split Stance"},
		},
		{
			name:      "style items skip recent movements",
			phase:     catalog.SPP,
			frequency: 4,
			styles:    []string{"pressure_fighter"},
			recent:    []catalog.Movement{catalog.Push, catalog.Squat},
			catalog: &catalog.Catalog{ //nolint:exhaustruct // fixture.
				Exercises: []catalog.Item{
					exercise("Hotel Carry", catalog.Carry),
				},
				StyleExercises: []catalog.Item{
					exercise("Style Sled Push", catalog.Push, "pressure_fighter", "g_a", "g_b", "g_c"),
					exercise("Style Hip Heist", catalog.Rotation, "pressure_fighter", "g_a"),
					exercise("Style Squat Drive", catalog.Squat, "pressure_fighter"),
				},
			},
			want: []string{"Style Hip Heist", "Style Squat Drive", "Hotel Carry"},
		},
		{
			name:      "rotational throw is swapped out next to a heavy hinge",
			phase:     catalog.SPP,
			frequency: 2,
			catalog: &catalog.Catalog{ //nolint:exhaustruct // fixture.
				Exercises: []catalog.Item{
					exercise("Romanian Deadlift", catalog.Hinge, "g_a", "g_b", "g_c"),
					exercise("Med Ball Rotational Throw", catalog.Rotation, "g_a", "g_b"),
					exercise("India Carry", catalog.Carry, "g_a"),
					exercise("Juliet Push", catalog.Push),
				},
			},
			want: []string{"Romanian Deadlift", "Juliet Push", "India Carry"},
		},
		{
			name:      "conflict is resolved when both sides are protected",
			phase:     catalog.SPP,
			frequency: 2,
			styles:    []string{"pressure_fighter"},
			catalog: &catalog.Catalog{ //nolint:exhaustruct // fixture.
				Exercises: []catalog.Item{
					exercise("Juliet Push", catalog.Push),
				},
				StyleExercises: []catalog.Item{
					exercise("Style RDL", catalog.Hinge, "pressure_fighter", "g_a", "g_b", "g_c"),
					exercise("Style Med Ball Scoop Toss", catalog.Rotation, "pressure_fighter", "g_a"),
				},
			},
			want: []string{"Style RDL", "Juliet Push"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := testhelpers.NewTestLogger(t)
			s := strength.NewSelector(tt.catalog, injury.NewEngine(tt.catalog, logger), logger)
			ath := &athlete.Context{ //nolint:exhaustruct // only the selection inputs matter.
				Sport:     vocab.SportMMA,
				Styles:    tt.styles,
				Fatigue:   vocab.FatigueLow,
				Goals:     []string{"g_a", "g_b", "g_c"},
				Frequency: tt.frequency,
			}
			sel := s.Select(t.Context(), strength.Request{
				Phase: tt.phase, Athlete: ath, Previous: tt.previous, Recent: tt.recent, Seed: 7,
			})
			if diff := cmp.Diff(tt.want, sel.Names()); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
