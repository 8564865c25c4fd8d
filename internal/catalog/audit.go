package catalog

import (
	"cmp"
	"slices"
)

// Finding is one issue reported by Audit.
type Finding struct {
	Bank   string `json:"bank"`
	Item   string `json:"item"`
	Issue  string `json:"issue"`
	Detail string `json:"detail,omitempty"`
}

// Audit issue kinds.
const (
	IssueUnknownTag       = "unknown_tag"
	IssueInferredTags     = "inferred_tags"
	IssueUnknownSystem    = "unknown_system"
	IssueUnknownExclusion = "unknown_exclusion"
)

// Audit reports tags outside the vocabulary, items whose tags were inferred, conditioning drills without a
// known system and exclusion map entries naming items that no bank contains. Unknown tags are accepted at
// runtime; the audit only surfaces them.
func Audit(c *Catalog) []Finding {
	var findings []Finding
	banks := c.banks()
	for _, bank := range bankNames {
		for _, item := range banks[bank] {
			if item.TagSource == TagsInferred {
				findings = append(findings, Finding{Bank: bank, Item: item.Name, Issue: IssueInferredTags, Detail: ""})
			}
			if kindOf(bank) == kindConditioning && !item.System.Known() {
				findings = append(findings, Finding{
					Bank: bank, Item: item.Name, Issue: IssueUnknownSystem, Detail: string(item.System),
				})
			}
			if len(c.Vocabulary) == 0 {
				continue
			}
			for _, tag := range item.Tags {
				if _, ok := c.Vocabulary[tag]; !ok {
					findings = append(findings, Finding{Bank: bank, Item: item.Name, Issue: IssueUnknownTag, Detail: tag})
				}
			}
		}
	}
	for region, names := range c.Exclusions {
		for _, name := range names {
			if _, ok := c.Lookup(name); !ok {
				findings = append(findings, Finding{
					Bank: FileExclusions, Item: name, Issue: IssueUnknownExclusion, Detail: region,
				})
			}
		}
	}
	slices.SortFunc(findings, func(a, b Finding) int {
		return cmp.Or(
			cmp.Compare(a.Bank, b.Bank),
			cmp.Compare(a.Item, b.Item),
			cmp.Compare(a.Issue, b.Issue),
			cmp.Compare(a.Detail, b.Detail),
		)
	})
	return findings
}
