// Package review re-checks assembled phase selections against the athlete's injuries with the full item
// text and swaps out anything that turns out to be unsafe.
package review

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/myrjola/fightcamp/internal/athlete"
	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/conditioning"
	"github.com/myrjola/fightcamp/internal/injury"
	"github.com/myrjola/fightcamp/internal/selection"
	"github.com/myrjola/fightcamp/internal/strength"
	"github.com/myrjola/fightcamp/internal/vocab"
)

// SourceReview marks why-log entries written by the review.
const SourceReview = "coach review"

// Substitution records one item the review replaced. New is empty when no safe replacement existed and the
// item was dropped.
type Substitution struct {
	Phase     catalog.Phase    `json:"phase"`
	Module    selection.Module `json:"module"`
	Old       string           `json:"old"`
	New       string           `json:"new"`
	RegionKey string           `json:"region_key"`
	Label     string           `json:"label"`
}

// Selections holds the per-phase selections of one module.
type Selections map[catalog.Phase]*selection.Selection

// Input is the assembled plan before review.
type Input struct {
	Athlete      *athlete.Context
	Strength     Selections
	Conditioning Selections
}

// Result is the reviewed plan. The input selections are left untouched.
type Result struct {
	Strength      Selections
	Conditioning  Selections
	Substitutions []Substitution
	Notes         string
}

// Reviewer runs the coach review.
type Reviewer struct {
	catalog *catalog.Catalog
	engine  *injury.Engine
	logger  *slog.Logger
}

// NewReviewer creates a Reviewer. The catalog supplies the rehab bank for the coach notes.
func NewReviewer(cat *catalog.Catalog, engine *injury.Engine, logger *slog.Logger) *Reviewer {
	return &Reviewer{catalog: cat, engine: engine, logger: logger}
}

// Run reviews every selection in camp order. Applying Run to its own result changes nothing.
func (r *Reviewer) Run(ctx context.Context, in Input) Result {
	res := Result{
		Strength:      make(Selections, len(in.Strength)),
		Conditioning:  make(Selections, len(in.Conditioning)),
		Substitutions: nil,
		Notes:         "",
	}
	profile := in.Athlete.InjuryProfile()
	for _, phase := range catalog.Phases {
		if sel, ok := in.Strength[phase]; ok {
			reviewed, subs := r.review(ctx, in.Athlete, profile, sel)
			reviewed.Block = strength.Format(reviewed, in.Athlete)
			res.Strength[phase] = reviewed
			res.Substitutions = append(res.Substitutions, subs...)
		}
		if sel, ok := in.Conditioning[phase]; ok {
			reviewed, subs := r.review(ctx, in.Athlete, profile, sel)
			reviewed.Block = conditioning.Format(reviewed, in.Athlete)
			res.Conditioning[phase] = reviewed
			res.Substitutions = append(res.Substitutions, subs...)
		}
	}
	res.Notes = r.notes(in.Athlete, res.Substitutions)
	r.logger.LogAttrs(ctx, slog.LevelDebug, "coach review done",
		slog.Int("substitutions", len(res.Substitutions)))
	return res
}

func (r *Reviewer) review(ctx context.Context, ath *athlete.Context, profile injury.Profile,
	in *selection.Selection) (*selection.Selection, []Substitution) {
	sel := in.Clone()
	if profile.Empty() {
		return sel, nil
	}
	var subs []Substitution
	for i := 0; i < len(sel.Items); i++ {
		item := sel.Items[i]
		d := r.engine.Review(ctx, item, profile, sel.Phase)
		if d.Action != injury.Exclude {
			continue
		}
		r.logOffence(ctx, sel, item, d)

		replacement, ok := r.engine.Replace(item, d, sel.Pool, func(c catalog.Item) bool {
			return r.allowed(ctx, ath, profile, sel, item, c)
		})
		sub := Substitution{
			Phase:     sel.Phase,
			Module:    sel.Module,
			Old:       item.Name,
			New:       "",
			RegionKey: string(d.Reason.Region),
			Label:     vocab.Title(string(d.Reason.Region)),
		}
		delete(sel.Mods, item.Name)
		if !ok {
			sel.Items = slices.Delete(sel.Items, i, i+1)
			sel.WhyLog = slices.DeleteFunc(sel.WhyLog, func(w selection.Why) bool { return w.Name == item.Name })
			subs = append(subs, sub)
			i--
			continue
		}
		sub.New = replacement.Name
		subs = append(subs, sub)
		sel.Items[i] = replacement
		next := r.engine.Review(ctx, replacement, profile, sel.Phase)
		if next.Action == injury.Modify {
			sel.Mods[replacement.Name] = next.Mods
		}
		r.rewriteWhy(sel, item.Name, replacement, next)
	}
	return sel, subs
}

// allowed applies the filters of the module that built sel to a replacement candidate.
func (r *Reviewer) allowed(ctx context.Context, ath *athlete.Context, profile injury.Profile,
	sel *selection.Selection, old, c catalog.Item) bool {
	if sel.Contains(c.Name) || !c.InPhase(sel.Phase) || ath.Sport.Bans(c.Name, c.Tags) {
		return false
	}
	if !vocab.EquipmentFits(c.Equipment, ath.EquipmentSet()) {
		return false
	}
	if sel.Module == selection.Conditioning && c.System != old.System {
		return false
	}
	return r.engine.Review(ctx, c, profile, sel.Phase).Action != injury.Exclude
}

func (r *Reviewer) rewriteWhy(sel *selection.Selection, old string, item catalog.Item, d injury.Decision) {
	score := 0.0
	for _, c := range sel.Pool {
		if c.Item.Name == item.Name {
			score = c.Score
			break
		}
	}
	why := selection.Why{
		Name:        item.Name,
		Score:       score,
		Source:      SourceReview,
		System:      string(item.System),
		Movement:    "",
		Explanation: selection.ExplanationCoachSubstitution,
		Reasons:     selection.Reasons{Injury: string(d.Action)},
	}
	if sel.Module == selection.Strength {
		why.System = ""
		why.Movement = string(item.Movement)
	}
	idx := slices.IndexFunc(sel.WhyLog, func(w selection.Why) bool { return w.Name == old })
	if idx < 0 {
		sel.WhyLog = append(sel.WhyLog, why)
		return
	}
	sel.WhyLog[idx] = why
}

func (r *Reviewer) logOffence(ctx context.Context, sel *selection.Selection, item catalog.Item, d injury.Decision) {
	var keywords, tags []string
	for _, m := range d.Reason.Matches {
		switch m.Source {
		case "tag":
			tags = append(tags, m.Match)
		default:
			keywords = append(keywords, m.Match)
		}
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "coach review excluded item",
		slog.String("phase", string(sel.Phase)),
		slog.String("module", string(sel.Module)),
		slog.String("item", item.Name),
		slog.String("region", string(d.Reason.Region)),
		slog.Float64("risk", d.RiskScore),
		slog.String("keywords", strings.Join(keywords, ",")),
		slog.String("tags", strings.Join(tags, ",")),
		slog.String("purpose", item.Purpose),
		slog.String("description", item.Description))
}

// notes summarises, per injured region, what to keep, what to avoid, the rehab options and the swaps made.
func (r *Reviewer) notes(ath *athlete.Context, subs []Substitution) string {
	var regions []injury.Region
	for _, inj := range ath.Injuries {
		if !slices.Contains(regions, inj.Region) {
			regions = append(regions, inj.Region)
		}
	}
	var b strings.Builder
	if len(regions) == 0 && len(subs) == 0 {
		return "No injuries reported. Train the plan as written.\n"
	}
	for _, region := range regions {
		g := injury.GuidanceFor(region)
		fmt.Fprintf(&b, "**%s**\n", vocab.Title(string(region)))
		if len(g.Allowed) > 0 {
			fmt.Fprintf(&b, "- Keep: %s\n", strings.Join(g.Allowed, ", "))
		}
		if len(g.Avoid) > 0 {
			fmt.Fprintf(&b, "- Avoid: %s\n", strings.Join(g.Avoid, ", "))
		}
		if rehab := r.rehabFor(region); len(rehab) > 0 {
			fmt.Fprintf(&b, "- Rehab: %s\n", strings.Join(rehab, ", "))
		}
		for _, s := range subs {
			if s.RegionKey == string(region) {
				fmt.Fprintf(&b, "- %s\n", s.describe())
			}
		}
		b.WriteString("\n")
	}
	for _, s := range subs {
		if !slices.Contains(regions, injury.Region(s.RegionKey)) {
			fmt.Fprintf(&b, "- %s\n", s.describe())
		}
	}
	return b.String()
}

func (s Substitution) describe() string {
	if s.New == "" {
		return fmt.Sprintf("%s %s: dropped %s, no safe replacement", s.Phase, s.Module, s.Old)
	}
	return fmt.Sprintf("%s %s: swapped %s for %s", s.Phase, s.Module, s.Old, s.New)
}

func (r *Reviewer) rehabFor(region injury.Region) []string {
	if r.catalog == nil {
		return nil
	}
	var names []string
	for _, item := range r.catalog.Rehab {
		if item.HasTag(string(region)) {
			names = append(names, item.Name)
		}
	}
	return names
}
