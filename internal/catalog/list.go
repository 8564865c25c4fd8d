package catalog

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// flexList decodes a field that banks write either as a list of strings or as a comma separated string.
// Present and Invalid let the schema guard tell a missing field from a malformed one.
type flexList struct {
	Values  []string
	Present bool
	Invalid bool
}

func splitFlex(s string) []string {
	var out []string
	for _, piece := range strings.Split(s, ",") {
		if piece = strings.TrimSpace(piece); piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

func (l *flexList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	l.Present = true
	var list []any
	if err := json.Unmarshal(data, &list); err == nil {
		l.Values = make([]string, 0, len(list))
		for _, v := range list {
			s, ok := v.(string)
			if !ok {
				l.Invalid = true
				continue
			}
			l.Values = append(l.Values, s)
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		l.Values = splitFlex(s)
		return nil
	}
	l.Invalid = true
	return nil
}

func (l *flexList) UnmarshalYAML(value *yaml.Node) error {
	l.Present = true
	switch value.Kind {
	case yaml.SequenceNode:
		l.Values = make([]string, 0, len(value.Content))
		for _, n := range value.Content {
			if n.Kind != yaml.ScalarNode {
				l.Invalid = true
				continue
			}
			l.Values = append(l.Values, n.Value)
		}
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			l.Present = false
			return nil
		}
		l.Values = splitFlex(value.Value)
	case yaml.DocumentNode, yaml.MappingNode, yaml.AliasNode:
		l.Invalid = true
	}
	return nil
}

// rawItem is the on-disk shape of a bank entry.
type rawItem struct {
	Name             string   `json:"name"              yaml:"name"`
	Tags             flexList `json:"tags"              yaml:"tags"`
	Phases           flexList `json:"phases"            yaml:"phases"`
	Equipment        flexList `json:"equipment"         yaml:"equipment"`
	System           string   `json:"system"            yaml:"system"`
	EnergySystem     string   `json:"energy_system"     yaml:"energy_system"`
	Movement         string   `json:"movement"          yaml:"movement"`
	Method           string   `json:"method"            yaml:"method"`
	Purpose          string   `json:"purpose"           yaml:"purpose"`
	Description      string   `json:"description"       yaml:"description"`
	Notes            string   `json:"notes"             yaml:"notes"`
	Timing           string   `json:"timing"            yaml:"timing"`
	Load             string   `json:"load"              yaml:"load"`
	Rest             string   `json:"rest"              yaml:"rest"`
	Prescription     string   `json:"prescription"      yaml:"prescription"`
	Placement        string   `json:"placement"         yaml:"placement"`
	Format           string   `json:"format"            yaml:"format"`
	PhaseProgression flexList `json:"phase_progression" yaml:"phase_progression"`
}

// rawBank accepts both a bare array and an object wrapping the array in "items" or "data".
type rawBank struct {
	Items []rawItem `json:"items" yaml:"items"`
	Data  []rawItem `json:"data"  yaml:"data"`
}

func (b rawBank) entries() []rawItem {
	if len(b.Items) > 0 {
		return b.Items
	}
	return b.Data
}
