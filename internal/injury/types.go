// Package injury turns free-text injury reports into structured injuries and restrictions and decides,
// per training item, whether the item is allowed, needs modification or must be excluded.
package injury

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/myrjola/fightcamp/internal/errors"
)

// Region is a canonical body area.
type Region string

// RegionUnspecified is used for injuries whose location cannot be parsed.
const RegionUnspecified Region = "unspecified"

// Type is the injury taxonomy.
type Type string

const (
	Sprain         Type = "sprain"
	Strain         Type = "strain"
	Tightness      Type = "tightness"
	Contusion      Type = "contusion"
	Swelling       Type = "swelling"
	Tendonitis     Type = "tendonitis"
	Impingement    Type = "impingement"
	Instability    Type = "instability"
	Stiffness      Type = "stiffness"
	Pain           Type = "pain"
	Soreness       Type = "soreness"
	Hyperextension Type = "hyperextension"
	Unspecified    Type = "unspecified"
)

// Side is the laterality of an injury or restriction.
type Side string

const (
	Left  Side = "left"
	Right Side = "right"
	Both  Side = "both"
	None  Side = "none"
)

// Severity grades an injury.
type Severity string

const (
	Mild     Severity = "mild"
	Moderate Severity = "moderate"
	Severe   Severity = "severe"
)

// Strength is how strictly a restriction applies.
type Strength string

const (
	Avoid Strength = "avoid"
	Limit Strength = "limit"
	Flare Strength = "flare"
)

// Injury is a parsed injury clause.
type Injury struct {
	Region   Region   `json:"region"`
	Type     Type     `json:"injury_type"`
	Side     Side     `json:"laterality"`
	Severity Severity `json:"severity"`
}

// UnmarshalJSON accepts either an injury object or free text such as "right shoulder pain".
func (i *Injury) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		injuries, _ := Parse(text)
		if len(injuries) == 0 {
			return errors.New("no injury in text", slog.String("text", text))
		}
		*i = injuries[0]
		return nil
	}
	type plain Injury
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return errors.Wrap(err, "unmarshal injury")
	}
	*i = Injury(p)
	i.normalize()
	return nil
}

func (i *Injury) normalize() {
	i.Region = Region(strings.ToLower(string(i.Region)))
	if i.Region == "" {
		i.Region = RegionUnspecified
	}
	if i.Type == "" {
		i.Type = Unspecified
	}
	if i.Side == "" {
		i.Side = None
	}
	if i.Severity == "" {
		i.Severity = defaultSeverity(i.Type)
	}
}

// Restriction is a user-declared movement constraint.
type Restriction struct {
	Restriction string   `json:"restriction"`
	Region      Region   `json:"region"`
	Strength    Strength `json:"strength"`
	Side        Side     `json:"side"`
	Phrase      string   `json:"original_phrase"`
}

// GenericConstraint names restrictions that match no canonical pattern.
const GenericConstraint = "generic_constraint"
