// Package athlete holds the training context derived once per plan from the intake form.
package athlete

import (
	"slices"
	"strings"
	"time"

	"github.com/myrjola/fightcamp/internal/calendar"
	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/injury"
	"github.com/myrjola/fightcamp/internal/vocab"
)

const (
	DefaultFrequency = 4
	// HeavyCutPct is the weight cut, in percent of body weight, that counts as a weight-cut risk.
	HeavyCutPct = 5.0
)

// Context is the read-only view of an athlete that every phase is built from.
type Context struct {
	Name           string  `json:"name"`
	Age            int     `json:"age"`
	WeightKG       float64 `json:"weight_kg"`
	TargetWeightKG float64 `json:"target_weight_kg"`
	HeightCM       float64 `json:"height_cm"`

	Sport vocab.Sport `json:"sport"`
	// TechnicalStyle is the raw answer, e.g. "MMA" or "Boxing".
	TechnicalStyle string   `json:"technical_style"`
	TacticalStyles []string `json:"tactical_styles"`
	// Styles are the canonical style tags.
	Styles []string `json:"styles"`
	Stance string   `json:"stance"`
	Status string   `json:"status"`
	Record string   `json:"record"`

	FightDate    time.Time `json:"fight_date"`
	Rounds       int       `json:"rounds"`
	RoundMinutes int       `json:"round_minutes"`
	Frequency    int       `json:"frequency"`
	Availability []string  `json:"availability"`

	Fatigue   vocab.Fatigue `json:"fatigue"`
	Equipment []string      `json:"equipment"`

	Goals       []string `json:"goals"`
	Weaknesses  []string `json:"weaknesses"`
	Preferences []string `json:"preferences"`
	// RawGoals and RawWeaknesses keep the answers for display.
	RawGoals      []string `json:"raw_goals"`
	RawWeaknesses []string `json:"raw_weaknesses"`
	MentalBlocks  []string `json:"mental_blocks"`
	Notes         string   `json:"notes"`

	InjuryText   string               `json:"injury_text"`
	Injuries     []injury.Injury      `json:"injuries"`
	Restrictions []injury.Restriction `json:"restrictions"`

	WeightCutPct  float64 `json:"weight_cut_pct"`
	WeightCutRisk bool    `json:"weight_cut_risk"`

	Calendar calendar.Calendar `json:"calendar"`
}

// WeightCut returns the planned weight loss in percent of the current weight.
func WeightCut(weight, target float64) float64 {
	if weight <= 0 || target <= 0 || target >= weight {
		return 0
	}
	return (weight - target) / weight * 100 //nolint:mnd // percent.
}

// CalendarInput assembles the phase calendar input from the athlete facts.
func (c *Context) CalendarInput(campWeeks int) calendar.Input {
	return calendar.Input{
		CampWeeks:     campWeeks,
		Sport:         c.Sport,
		Styles:        c.Styles,
		Status:        c.Status,
		Fatigue:       c.Fatigue,
		WeightCutRisk: c.WeightCutRisk,
		MentalBlock:   strings.Join(c.MentalBlocks, ", "),
		WeightCutPct:  c.WeightCutPct,
	}
}

// InjuryProfile is the input of the injury decision engine.
func (c *Context) InjuryProfile() injury.Profile {
	return injury.Profile{Injuries: c.Injuries, Restrictions: c.Restrictions, Fatigue: c.Fatigue}
}

// EquipmentSet returns the available equipment. Bodyweight is always available.
func (c *Context) EquipmentSet() map[string]struct{} {
	set := vocab.Set(c.Equipment...)
	set[vocab.Bodyweight] = struct{}{}
	return set
}

// GoalSet returns the canonical goal tags.
func (c *Context) GoalSet() map[string]struct{} { return vocab.Set(c.Goals...) }

// WeaknessSet returns the canonical weakness tags.
func (c *Context) WeaknessSet() map[string]struct{} { return vocab.Set(c.Weaknesses...) }

// StyleSet returns the canonical style tags.
func (c *Context) StyleSet() map[string]struct{} { return vocab.Set(c.Styles...) }

// PreferenceSet returns the preferred training formats.
func (c *Context) PreferenceSet() map[string]struct{} { return vocab.Set(c.Preferences...) }

// HasStyle reports whether the athlete fights with style.
func (c *Context) HasStyle(style string) bool { return slices.Contains(c.Styles, style) }

// HasInjuries reports whether any injury was parsed.
func (c *Context) HasInjuries() bool { return len(c.Injuries) > 0 }

// WantsAny reports whether any goal or weakness is in tags.
func (c *Context) WantsAny(tags ...string) bool {
	set := vocab.Set(tags...)
	return len(vocab.Intersect(c.Goals, set)) > 0 || len(vocab.Intersect(c.Weaknesses, set)) > 0
}

// Sessions is the number of strength and conditioning sessions per week in a phase.
type Sessions struct {
	Strength     int
	Conditioning int
}

//nolint:gochecknoglobals // lookup table indexed by weekly training frequency.
var sessionTable = map[int]map[catalog.Phase]Sessions{
	2: {catalog.GPP: {1, 1}, catalog.SPP: {1, 1}, catalog.TAPER: {1, 1}},
	3: {catalog.GPP: {2, 1}, catalog.SPP: {1, 2}, catalog.TAPER: {1, 1}},
	4: {catalog.GPP: {2, 2}, catalog.SPP: {2, 2}, catalog.TAPER: {1, 2}},
	5: {catalog.GPP: {3, 2}, catalog.SPP: {2, 3}, catalog.TAPER: {1, 2}},
	6: {catalog.GPP: {3, 3}, catalog.SPP: {2, 3}, catalog.TAPER: {1, 2}},
}

// SessionsFor allocates weekly sessions for phase from the training frequency.
func SessionsFor(frequency int, phase catalog.Phase) Sessions {
	if frequency <= 0 {
		frequency = DefaultFrequency
	}
	frequency = min(max(frequency, 2), 6) //nolint:mnd // table bounds.
	return sessionTable[frequency][phase]
}

// Sessions allocates this athlete's weekly sessions for phase.
func (c *Context) Sessions(phase catalog.Phase) Sessions {
	return SessionsFor(c.Frequency, phase)
}
