// Package selection holds the per-phase result shared by the strength and conditioning selectors and the coach
// review.
package selection

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/injury"
)

// Module names a selector.
type Module string

const (
	Strength     Module = "strength"
	Conditioning Module = "conditioning"
)

// HardFiltered is the score that marks a candidate as unusable.
const HardFiltered = -999.0

// ExplanationCoachSubstitution replaces the why-log explanation of an item swapped in by the coach review.
const ExplanationCoachSubstitution = "coach safety substitution"

// Reasons breaks a score down into its contributions.
type Reasons struct {
	GoalHits       int     `json:"goal_hits"`
	WeaknessHits   int     `json:"weakness_hits"`
	StyleHits      int     `json:"style_hits"`
	PhaseHits      int     `json:"phase_hits"`
	FormatHits     int     `json:"format_hits,omitempty"`
	MustHaveHits   int     `json:"must_have_hits,omitempty"`
	EquipmentBoost float64 `json:"equipment_boost"`
	SystemWeight   float64 `json:"system_weight,omitempty"`
	FatiguePenalty float64 `json:"fatigue_penalty"`
	RehabPenalty   float64 `json:"rehab_penalty,omitempty"`
	Jitter         float64 `json:"jitter"`
	Injury         string  `json:"injury_action"`
}

// Why explains one selected item.
type Why struct {
	Name        string  `json:"name"`
	Score       float64 `json:"final_score"`
	Source      string  `json:"source"`
	System      string  `json:"system,omitempty"`
	Movement    string  `json:"movement,omitempty"`
	Explanation string  `json:"explanation"`
	Reasons     Reasons `json:"reasons"`
}

// Gap explains why a preferred energy system has no drill and what the coach can add instead.
type Gap struct {
	System string `json:"system"`
	Reason string `json:"reason"`
	Option string `json:"option"`
}

// Selection is the outcome of one selector for one phase.
type Selection struct {
	Module Module
	Phase  catalog.Phase
	Items  []catalog.Item
	WhyLog []Why
	// Pool holds every eligible candidate, ranked, for later replacement by the coach review.
	Pool []injury.Candidate
	// Mods lists the modifications the injury engine asked for per item name.
	Mods map[string][]string
	// Missing explains energy systems without a drill. Conditioning only.
	Missing []Gap
	Block   string
}

// Names returns the names of the selected items in order.
func (s *Selection) Names() []string {
	names := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		names = append(names, item.Name)
	}
	return names
}

// Contains reports whether an item named name is selected.
func (s *Selection) Contains(name string) bool {
	return slices.ContainsFunc(s.Items, func(i catalog.Item) bool { return i.Name == name })
}

// WhyFor returns the why-log entry of name.
func (s *Selection) WhyFor(name string) (Why, bool) {
	i := slices.IndexFunc(s.WhyLog, func(w Why) bool { return w.Name == name })
	if i < 0 {
		return Why{}, false
	}
	return s.WhyLog[i], true
}

// Clone returns a copy that shares no slices with s.
func (s *Selection) Clone() *Selection {
	c := *s
	c.Items = slices.Clone(s.Items)
	c.WhyLog = slices.Clone(s.WhyLog)
	c.Pool = slices.Clone(s.Pool)
	c.Missing = slices.Clone(s.Missing)
	if s.Mods != nil {
		c.Mods = make(map[string][]string, len(s.Mods))
		for k, v := range s.Mods {
			c.Mods[k] = slices.Clone(v)
		}
	}
	return &c
}

// GroupBySystem groups drills by energy system. Drills without a known system, such as coordination work,
// are grouped under "coordination".
func GroupBySystem(items []catalog.Item) map[string][]string {
	grouped := make(map[string][]string)
	for _, item := range items {
		key := string(item.System)
		if !item.System.Known() {
			key = "coordination"
		}
		grouped[key] = append(grouped[key], item.Name)
	}
	return grouped
}

// RNG derives an independent random source for one phase and module from the plan seed.
func RNG(seed uint64, phase catalog.Phase, module Module) *rand.Rand {
	key := fmt.Sprintf("%d-%s-%s", seed, phase, module)
	h := xxhash.Sum64String(key)
	return rand.New(rand.NewPCG(h, xxhash.Sum64String(strings.ToLower(key)+"/stream"))) //nolint:gosec // not security sensitive.
}

// Jitter draws uniformly from [-amplitude, amplitude).
func Jitter(rng *rand.Rand, amplitude float64) float64 {
	return (rng.Float64()*2 - 1) * amplitude
}
