// Package calendar splits a fight camp into GPP, SPP and TAPER weeks.
package calendar

import (
	"math"
	"slices"

	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/vocab"
)

const (
	MinCampWeeks      = 1
	MaxCampWeeks      = 16
	maxTaperWeeks     = 2
	minRatio          = 0.05
	minProGPP         = 0.15
	proShift          = 0.10
	reducedProShift   = 0.05
	heavyCutPct       = 5.0
	minCampForGuards  = 3
	minCampForProRule = 4
	daysPerWeek       = 7
)

// Input describes the athlete facts the calendar depends on.
type Input struct {
	CampWeeks     int
	Sport         vocab.Sport
	Styles        []string
	Status        string
	Fatigue       vocab.Fatigue
	WeightCutRisk bool
	MentalBlock   string
	WeightCutPct  float64
}

// Split holds one value per phase.
type Split[T int | float64] struct {
	GPP   T `json:"GPP"`
	SPP   T `json:"SPP"`
	TAPER T `json:"TAPER"`
}

// Get returns the value of phase p.
func (s Split[T]) Get(p catalog.Phase) T {
	switch p {
	case catalog.GPP:
		return s.GPP
	case catalog.SPP:
		return s.SPP
	case catalog.TAPER:
		return s.TAPER
	default:
		return 0
	}
}

func (s *Split[T]) set(p catalog.Phase, v T) {
	switch p {
	case catalog.GPP:
		s.GPP = v
	case catalog.SPP:
		s.SPP = v
	case catalog.TAPER:
		s.TAPER = v
	}
}

// Sum adds the three phases.
func (s Split[T]) Sum() T {
	return s.GPP + s.SPP + s.TAPER
}

// Calendar is the result of Compute.
type Calendar struct {
	CampWeeks int `json:"camp_weeks"`
	// Weeks sum to CampWeeks.
	Weeks Split[int] `json:"weeks"`
	// Days derive from the pre-rounding ratios so short phases still show at least one day.
	Days   Split[int]     `json:"days"`
	Ratios Split[float64] `json:"ratios"`
}

// Active lists the phases that have at least one week, in camp order.
func (c Calendar) Active() []catalog.Phase {
	var out []catalog.Phase
	for _, p := range catalog.Phases {
		if c.Weeks.Get(p) > 0 {
			out = append(out, p)
		}
	}
	return out
}

type styleRule struct {
	delta    Split[float64]
	minGPP   float64
	minSPP   float64
	maxTaper float64
	// maxTaperDays caps the taper length in days.
	maxTaperDays int
}

//nolint:gochecknoglobals // lookup table.
var styleRules = map[string]styleRule{
	"pressure_fighter":  {delta: Split[float64]{GPP: -0.03, SPP: 0.03, TAPER: 0}, minSPP: 0.50, maxTaper: 0.10},
	"clinch_fighter":    {delta: Split[float64]{GPP: 0, SPP: 0.02, TAPER: -0.02}, maxTaperDays: 7},
	"grappler":          {delta: Split[float64]{GPP: 0.03, SPP: -0.03, TAPER: 0}, minGPP: 0.35},
	"counter_striker":   {delta: Split[float64]{GPP: 0, SPP: -0.02, TAPER: 0.02}},
	"distance_striker":  {delta: Split[float64]{GPP: 0.02, SPP: -0.02, TAPER: 0}},
	"scrambler":         {delta: Split[float64]{GPP: -0.02, SPP: 0.02, TAPER: 0}},
	"submission_hunter": {delta: Split[float64]{GPP: 0.02, SPP: -0.02, TAPER: 0}},
	"power_puncher":     {delta: Split[float64]{GPP: 0, SPP: 0.02, TAPER: -0.02}},
}

// Compute derives the phase calendar. It is a pure function of its input.
func Compute(in Input) Calendar {
	camp := min(max(in.CampWeeks, MinCampWeeks), MaxCampWeeks)
	base := baseRatios(in.Sport, camp)
	r := base

	// Style deltas, then style bounds.
	for _, style := range in.Styles {
		rule, ok := styleRules[style]
		if !ok {
			continue
		}
		for _, p := range catalog.Phases {
			if base.Get(p) == 0 {
				continue
			}
			r.set(p, max(minRatio, r.Get(p)+rule.delta.Get(p)))
		}
	}
	for _, style := range in.Styles {
		rule, ok := styleRules[style]
		if !ok {
			continue
		}
		if rule.minSPP > 0 && r.SPP < rule.minSPP {
			r.SPP = rule.minSPP
		}
		if rule.minGPP > 0 && base.GPP > 0 && r.GPP < rule.minGPP {
			r.GPP = rule.minGPP
		}
		if rule.maxTaper > 0 && r.TAPER > rule.maxTaper {
			r.TAPER = rule.maxTaper
		}
		if rule.maxTaperDays > 0 {
			limit := float64(rule.maxTaperDays) / float64(camp*daysPerWeek)
			r.TAPER = min(r.TAPER, limit)
		}
	}

	if isPro(in.Status) && camp >= minCampForProRule {
		shift := proShift
		if in.Fatigue == vocab.FatigueHigh || in.WeightCutRisk || in.WeightCutPct >= heavyCutPct ||
			drainsReadiness(in.MentalBlock) {
			shift = reducedProShift
		}
		shift = min(shift, max(0, r.GPP-minProGPP))
		r.GPP -= shift
		r.SPP += shift
	}

	r = normalize(r)
	weeks := toWeeks(r, camp)
	return Calendar{
		CampWeeks: camp,
		Weeks:     weeks,
		Days:      toDays(r, weeks, camp),
		Ratios:    r,
	}
}

// readinessBlocks are mental blocks that point at an athlete already running on empty. Confidence and
// nerves blocks sharpen with specific work and keep the full shift.
//
//nolint:gochecknoglobals // lookup table.
var readinessBlocks = []string{"burnout", "burned out", "burnt out", "motivation", "overwhelmed", "mental fatigue",
	"exhausted"}

func drainsReadiness(block string) bool {
	return len(vocab.NewText(block).Matches(readinessBlocks)) > 0
}

func isPro(status string) bool {
	s := vocab.Slug(status)
	return s == "pro" || s == "professional"
}

func normalize(r Split[float64]) Split[float64] {
	total := r.Sum()
	if total <= 0 {
		return Split[float64]{GPP: 0, SPP: 1, TAPER: 0}
	}
	return Split[float64]{GPP: r.GPP / total, SPP: r.SPP / total, TAPER: r.TAPER / total}
}

func toWeeks(r Split[float64], camp int) Split[int] {
	var w Split[int]
	for _, p := range catalog.Phases {
		w.set(p, int(math.Round(r.Get(p)*float64(camp))))
	}
	w.TAPER = min(w.TAPER, maxTaperWeeks)
	rebalance(&w, camp)

	if camp >= minCampForGuards {
		for _, p := range []catalog.Phase{catalog.GPP, catalog.SPP} {
			if w.Get(p) < 1 {
				w.set(p, 1)
			}
		}
		if r.TAPER > 0 && w.TAPER < 1 {
			w.TAPER = 1
		}
		rebalance(&w, camp)
	}
	return w
}

// rebalance makes the weeks sum to camp. A shortfall goes to SPP; a surplus is taken from TAPER, then
// GPP, then SPP, never pushing a guarded phase below one week when the camp is long enough to guard it.
func rebalance(w *Split[int], camp int) {
	for w.Sum() < camp {
		w.SPP++
	}
	floor := 0
	if camp >= minCampForGuards {
		floor = 1
	}
	for _, p := range []catalog.Phase{catalog.TAPER, catalog.GPP, catalog.SPP} {
		for w.Sum() > camp && w.Get(p) > floor {
			w.set(p, w.Get(p)-1)
		}
	}
	// The floors may make the surplus impossible to remove; drop it from the longest phase.
	for w.Sum() > camp {
		longest := slices.MaxFunc(catalog.Phases, func(a, b catalog.Phase) int { return w.Get(a) - w.Get(b) })
		w.set(longest, w.Get(longest)-1)
	}
}

func toDays(r Split[float64], weeks Split[int], camp int) Split[int] {
	var d Split[int]
	for _, p := range catalog.Phases {
		if weeks.Get(p) == 0 {
			continue
		}
		d.set(p, max(1, int(math.Round(r.Get(p)*float64(camp*daysPerWeek)))))
	}
	return d
}
