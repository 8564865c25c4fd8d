// Package catalog loads the tagged training banks that the selectors draw from.
package catalog

import (
	"slices"
	"strings"

	"github.com/myrjola/fightcamp/internal/vocab"
)

// Phase is one of the three camp phases.
type Phase string

const (
	GPP   Phase = "GPP"
	SPP   Phase = "SPP"
	TAPER Phase = "TAPER"
)

// Phases lists the camp phases in order.
//
//nolint:gochecknoglobals // enumeration.
var Phases = []Phase{GPP, SPP, TAPER}

// ParsePhase maps a raw phase string onto a Phase.
func ParsePhase(raw string) (Phase, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "GPP", "GENERAL", "GENERAL_PREPARATION":
		return GPP, true
	case "SPP", "SPECIFIC", "SPECIFIC_PREPARATION":
		return SPP, true
	case "TAPER", "PEAK", "PEAKING":
		return TAPER, true
	default:
		return "", false
	}
}

// Index returns the 1-based position of the phase in the camp.
func (p Phase) Index() int {
	return slices.Index(Phases, p) + 1
}

// System is the energy system a conditioning drill trains.
type System string

const (
	Aerobic       System = "aerobic"
	Glycolytic    System = "glycolytic"
	Alactic       System = "alactic"
	SystemUnknown System = "unknown"
)

// Systems lists the known energy systems.
//
//nolint:gochecknoglobals // enumeration.
var Systems = []System{Aerobic, Glycolytic, Alactic}

//nolint:gochecknoglobals // lookup table.
var systemAliases = map[string]System{
	"aerobic":              Aerobic,
	"oxidative":            Aerobic,
	"zone_2":               Aerobic,
	"zone2":                Aerobic,
	"endurance":            Aerobic,
	"glycolytic":           Glycolytic,
	"anaerobic":            Glycolytic,
	"lactic":               Glycolytic,
	"anaerobic_lactic":     Glycolytic,
	"anaerobic_glycolytic": Glycolytic,
	"alactic":              Alactic,
	"anaerobic_alactic":    Alactic,
	"atp_pc":               Alactic,
	"atp_cp":               Alactic,
	"phosphagen":           Alactic,
}

// ParseSystem maps a raw system string and its aliases onto a System.
func ParseSystem(raw string) System {
	if s, ok := systemAliases[vocab.Slug(raw)]; ok {
		return s
	}
	return SystemUnknown
}

// Known reports whether s is one of the three energy systems.
func (s System) Known() bool {
	return slices.Contains(Systems, s)
}

// Movement is the canonical motor pattern of a strength exercise.
type Movement string

const (
	Squat           Movement = "squat"
	Hinge           Movement = "hinge"
	Push            Movement = "push"
	Pull            Movement = "pull"
	Lunge           Movement = "lunge"
	Rotation        Movement = "rotation"
	Carry           Movement = "carry"
	Core            Movement = "core"
	Neck            Movement = "neck"
	MovementUnknown Movement = "unknown"
)

// ParseMovement maps a raw movement string onto a Movement.
func ParseMovement(raw string) Movement {
	m := Movement(vocab.Slug(raw))
	switch m {
	case Squat, Hinge, Push, Pull, Lunge, Rotation, Carry, Core, Neck:
		return m
	case "":
		return MovementUnknown
	default:
		return InferMovement(raw)
	}
}

// TagSource records whether an item's tags came from the bank or were inferred from its name.
type TagSource string

const (
	TagsExplicit TagSource = "explicit"
	TagsInferred TagSource = "inferred"
)

// Item is a strength exercise, conditioning drill, coordination drill or rehab entry.
type Item struct {
	Name      string
	Tags      []string
	Phases    []Phase
	Equipment []string
	// System is set for conditioning drills.
	System System
	// Movement is set for strength exercises.
	Movement Movement

	Method           string
	Purpose          string
	Description      string
	Notes            string
	Timing           string
	Load             string
	Rest             string
	Prescription     string
	Placement        string
	Format           string
	PhaseProgression []Phase

	TagSource TagSource
	// Bank is the file the item was loaded from.
	Bank string
}

// HasTag reports whether the item carries tag.
func (i Item) HasTag(tag string) bool {
	return slices.Contains(i.Tags, tag)
}

// HasAnyTag reports whether the item carries any tag of set.
func (i Item) HasAnyTag(set map[string]struct{}) bool {
	for _, t := range i.Tags {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

// TagHits counts the item's tags present in set.
func (i Item) TagHits(set map[string]struct{}) int {
	n := 0
	for _, t := range i.Tags {
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}

// InPhase reports whether the item may be programmed in phase p.
func (i Item) InPhase(p Phase) bool {
	return slices.Contains(i.Phases, p)
}

// ScanText is the text the injury engine searches for keywords. The expanded form adds the descriptive
// fields and is used by the coach review.
func (i Item) ScanText(expanded bool) string {
	parts := []string{i.Name, i.Notes, i.Method, string(i.Movement)}
	if expanded {
		parts = append(parts, i.Purpose, i.Description, i.Load, i.Format)
	}
	return strings.Join(parts, " \n ")
}

// Catalog is the set of banks a plan is built from.
type Catalog struct {
	Exercises             []Item
	Conditioning          []Item
	StyleExercises        []Item
	StyleConditioning     []Item
	UniversalStrength     []Item
	UniversalConditioning []Item
	Coordination          []Item
	StyleTaper            []Item
	Rehab                 []Item
	// Vocabulary is the canonical tag set from the tag vocabulary file.
	Vocabulary map[string]struct{}
	// Exclusions maps injury regions to item names that must be treated as exclude-level for that region.
	Exclusions map[string][]string

	byName map[string]Item
}

// Lookup finds an item by name across all banks.
func (c *Catalog) Lookup(name string) (Item, bool) {
	if c.byName == nil {
		c.index()
	}
	item, ok := c.byName[name]
	return item, ok
}

// Excluded reports whether the exclusion map lists name for region.
func (c *Catalog) Excluded(region, name string) bool {
	if c == nil {
		return false
	}
	return slices.ContainsFunc(c.Exclusions[region], func(n string) bool {
		return strings.EqualFold(n, name)
	})
}

func (c *Catalog) banks() map[string][]Item {
	return map[string][]Item{
		BankExercises:             c.Exercises,
		BankConditioning:          c.Conditioning,
		BankStyleExercises:        c.StyleExercises,
		BankStyleConditioning:     c.StyleConditioning,
		BankUniversalStrength:     c.UniversalStrength,
		BankUniversalConditioning: c.UniversalConditioning,
		BankCoordination:          c.Coordination,
		BankStyleTaper:            c.StyleTaper,
		BankRehab:                 c.Rehab,
	}
}

func (c *Catalog) index() {
	c.byName = make(map[string]Item)
	banks := c.banks()
	for _, name := range bankNames {
		for _, item := range banks[name] {
			if _, ok := c.byName[item.Name]; !ok {
				c.byName[item.Name] = item
			}
		}
	}
}
