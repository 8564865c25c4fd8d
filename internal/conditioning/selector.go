// Package conditioning selects the energy-system drills of each camp phase.
package conditioning

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/myrjola/fightcamp/internal/athlete"
	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/injury"
	"github.com/myrjola/fightcamp/internal/selection"
	"github.com/myrjola/fightcamp/internal/vocab"
)

// Candidate sources recorded in the why log.
const (
	SourceGeneral      = "general"
	SourceStyle        = "style"
	SourceUniversal    = "universal"
	SourceStyleTaper   = "style taper"
	SourcePlyometric   = "plyometric guarantee"
	SourceSkill        = "skill guarantee"
	SourceCoordination = "coordination"
)

// Request describes one phase to select for.
type Request struct {
	Phase   catalog.Phase
	Athlete *athlete.Context
	Seed    uint64
}

// Selector picks conditioning drills. It holds no per-plan state and is safe for concurrent use.
type Selector struct {
	catalog *catalog.Catalog
	engine  *injury.Engine
	logger  *slog.Logger
}

// NewSelector creates a Selector drawing from cat.
func NewSelector(cat *catalog.Catalog, engine *injury.Engine, logger *slog.Logger) *Selector {
	return &Selector{catalog: cat, engine: engine, logger: logger}
}

type candidate struct {
	item     catalog.Item
	score    float64
	reasons  selection.Reasons
	source   string
	decision injury.Decision
	// weakness is set when the drill hits a weakness, which allows an alactic taper repeat.
	weakness bool
}

type run struct {
	*Selector
	ctx     context.Context //nolint:containedctx // scoped to one Select call.
	phase   catalog.Phase
	ath     *athlete.Context
	profile injury.Profile
	rng     *rand.Rand

	equipment map[string]struct{}
	goals     map[string]struct{}
	weak      map[string]struct{}
	styles    map[string]struct{}
	prefs     map[string]struct{}

	scored map[string]candidate
	pool   []candidate
	// injured counts drills per system lost to the injury decision.
	injured map[catalog.System]int

	picked     []candidate
	guaranteed map[int]bool
	styleUsed  map[string]int
}

// Select builds the conditioning selection for one phase.
func (s *Selector) Select(ctx context.Context, req Request) *selection.Selection {
	r := s.newRun(ctx, req)
	sessions := req.Athlete.Sessions(req.Phase).Conditioning
	total := perDay[req.Phase] * sessions

	general := r.rank(s.catalog.Conditioning, SourceGeneral, r.scoreGeneral)
	var styled []catalog.Item
	for _, item := range s.catalog.StyleConditioning {
		if item.HasAnyTag(r.styles) {
			styled = append(styled, item)
		}
	}
	stylePool := r.rank(styled, SourceStyle, r.scoreStyle)
	styleTarget := min(int(math.Round(float64(total)*styleRatio[req.Phase])), len(stylePool))
	b := &blender{run: r, general: general, style: stylePool, styleTarget: styleTarget}

	if req.Phase == catalog.TAPER {
		r.taper(b)
	} else {
		r.fillQuotas(b, total)
	}

	switch req.Phase {
	case catalog.GPP:
		r.injectUniversal()
	case catalog.TAPER:
		r.injectStyleTaper()
		r.guaranteePlyometric(general, stylePool)
	case catalog.SPP:
	}
	r.guaranteeSkill(general, stylePool)
	r.guaranteeCoordination()

	sel := r.result()
	sel.Block = Format(sel, req.Athlete)
	s.logger.LogAttrs(ctx, slog.LevelDebug, "conditioning selected",
		slog.String("phase", string(req.Phase)),
		slog.Int("target", total),
		slog.Int("style_target", styleTarget),
		slog.Int("selected", len(sel.Items)),
		slog.Int("missing", len(sel.Missing)))
	return sel
}

func (s *Selector) newRun(ctx context.Context, req Request) *run {
	ath := req.Athlete
	return &run{
		Selector:   s,
		ctx:        ctx,
		phase:      req.Phase,
		ath:        ath,
		profile:    ath.InjuryProfile(),
		rng:        selection.RNG(req.Seed, req.Phase, selection.Conditioning),
		equipment:  ath.EquipmentSet(),
		goals:      ath.GoalSet(),
		weak:       ath.WeaknessSet(),
		styles:     ath.StyleSet(),
		prefs:      vocab.Set(NormalizeFormats(ath.Preferences)...),
		scored:     make(map[string]candidate),
		pool:       nil,
		injured:    make(map[catalog.System]int),
		picked:     nil,
		guaranteed: make(map[int]bool),
		styleUsed:  make(map[string]int),
	}
}

// eligible applies the hard filters. Coordination drills carry no energy system and skip that check.
func (r *run) eligible(item catalog.Item) (injury.Decision, bool) {
	if !item.InPhase(r.phase) || r.ath.Sport.Bans(item.Name, item.Tags) {
		return injury.Decision{}, false
	}
	if item.Bank != catalog.BankCoordination && !item.System.Known() {
		return injury.Decision{}, false
	}
	if !vocab.EquipmentFits(item.Equipment, r.equipment) {
		return injury.Decision{}, false
	}
	wanted := item.TagHits(r.goals)+item.TagHits(r.weak) > 0
	if r.phase == catalog.TAPER {
		if item.HasTag("high_cns") &&
			(r.ath.Fatigue != vocab.FatigueLow || item.System != catalog.Alactic || !wanted) {
			return injury.Decision{}, false
		}
		if item.HasAnyTag(taperAvoid) && !wanted {
			return injury.Decision{}, false
		}
	}
	d := r.engine.Assess(r.ctx, item, r.profile, r.phase)
	if d.Action == injury.Exclude {
		r.injured[item.System]++
		return d, false
	}
	return d, true
}

func (r *run) cnsPenalty(item catalog.Item) float64 {
	if !item.HasTag("high_cns") {
		return 0
	}
	switch r.ath.Fatigue {
	case vocab.FatigueHigh:
		return highCNSCost
	case vocab.FatigueModerate:
		return moderateCNSCost
	case vocab.FatigueLow:
	}
	return 0
}

func (r *run) formatHits(item catalog.Item) int {
	if _, ok := r.prefs[NormalizeFormat(item.Format)]; ok && item.Format != "" {
		return 1
	}
	return min(item.TagHits(r.prefs), maxFormatHits)
}

func (r *run) scoreGeneral(item catalog.Item) (float64, selection.Reasons) {
	reasons := selection.Reasons{
		WeaknessHits:   min(item.TagHits(r.weak), maxWeaknessHits),
		GoalHits:       min(item.TagHits(r.goals), maxGoalHits),
		StyleHits:      min(item.TagHits(r.styles), maxStyleHits),
		FormatHits:     r.formatHits(item),
		SystemWeight:   systemWeight(r.ath.Sport, item.Format, item.System),
		FatiguePenalty: r.cnsPenalty(item),
		Jitter:         selection.Jitter(r.rng, generalJitter),
	}
	score := weaknessWeight*float64(reasons.WeaknessHits) +
		goalWeight*float64(reasons.GoalHits) +
		styleWeight*float64(reasons.StyleHits) +
		formatWeight*float64(reasons.FormatHits) +
		reasons.SystemWeight + reasons.FatiguePenalty + reasons.Jitter
	return score, reasons
}

func topSystem(phase catalog.Phase) catalog.System {
	return preferredOrder[phase][0]
}

func (r *run) scoreStyle(item catalog.Item) (float64, selection.Reasons) {
	reasons := selection.Reasons{
		WeaknessHits:   item.TagHits(r.weak),
		GoalHits:       item.TagHits(r.goals),
		StyleHits:      item.TagHits(r.styles),
		FatiguePenalty: r.cnsPenalty(item),
		Jitter:         selection.Jitter(r.rng, styleJitter),
	}
	score := styleMatchWeight * float64(reasons.StyleHits)
	if item.InPhase(r.phase) && len(item.Phases) < len(catalog.Phases) {
		reasons.PhaseHits = 1
		score += stylePhaseBonus
	}
	if item.System == topSystem(r.phase) {
		reasons.SystemWeight = styleTopSystemBonus
		score += styleTopSystemBonus
	}
	if vocab.NeedsEquipment(item.Equipment) {
		reasons.EquipmentBoost = styleEquipmentBonus
		score += styleEquipmentBonus
	}
	score += styleWeaknessWeight*float64(reasons.WeaknessHits) + styleGoalWeight*float64(reasons.GoalHits)
	score += reasons.FatiguePenalty + reasons.Jitter
	return score, reasons
}

type scorer func(catalog.Item) (float64, selection.Reasons)

// rank scores the eligible drills of a bank and orders them by descending score and then name.
func (r *run) rank(items []catalog.Item, source string, score scorer) []candidate {
	ranked := make([]candidate, 0, len(items))
	for _, item := range items {
		if c, ok := r.scored[item.Name]; ok {
			ranked = append(ranked, c)
			continue
		}
		d, ok := r.eligible(item)
		if !ok {
			continue
		}
		s, reasons := score(item)
		reasons.Injury = string(d.Action)
		c := candidate{
			item:     item,
			score:    s,
			reasons:  reasons,
			source:   source,
			decision: d,
			weakness: item.TagHits(r.weak) > 0,
		}
		r.scored[item.Name] = c
		r.pool = append(r.pool, c)
		ranked = append(ranked, c)
	}
	sortCandidates(ranked)
	return ranked
}

func sortCandidates(cs []candidate) {
	slices.SortStableFunc(cs, func(a, b candidate) int {
		return cmp.Or(cmp.Compare(b.score, a.score), cmp.Compare(a.item.Name, b.item.Name))
	})
}

func (r *run) has(name string) bool {
	return slices.ContainsFunc(r.picked, func(c candidate) bool { return c.item.Name == name })
}

func (r *run) count(system catalog.System) int {
	n := 0
	for _, c := range r.picked {
		if c.item.System == system {
			n++
		}
	}
	return n
}

// blender draws from the style pool until its target is met and from the general pool otherwise.
type blender struct {
	*run
	general     []candidate
	style       []candidate
	styleTarget int
	styleTaken  int
}

// stylesByCount orders the athlete's styles by how often they have been drawn, then by name.
func (b *blender) stylesByCount() []string {
	styles := slices.Clone(b.ath.Styles)
	slices.SortStableFunc(styles, func(x, y string) int {
		return cmp.Or(cmp.Compare(b.styleUsed[x], b.styleUsed[y]), cmp.Compare(x, y))
	})
	return styles
}

func (b *blender) pick(system catalog.System) (candidate, bool) {
	if b.styleTaken < b.styleTarget {
		for _, style := range b.stylesByCount() {
			for _, c := range b.style {
				if c.item.System != system || !c.item.HasTag(style) || b.has(c.item.Name) {
					continue
				}
				b.styleUsed[style]++
				b.styleTaken++
				return c, true
			}
		}
	}
	for _, c := range b.general {
		if c.item.System == system && !b.has(c.item.Name) {
			return c, true
		}
	}
	// A weakness-driven alactic drill may repeat in the taper.
	if b.phase == catalog.TAPER && system == catalog.Alactic {
		for _, c := range slices.Concat(b.style, b.general) {
			if c.item.System == system && c.weakness {
				return c, true
			}
		}
	}
	return candidate{}, false
}

func (b *blender) take(system catalog.System) bool {
	c, ok := b.pick(system)
	if ok {
		b.picked = append(b.picked, c)
	}
	return ok
}

// fillQuotas fills the per-system quotas in preferred order, then the remaining slots by largest deficit.
func (r *run) fillQuotas(b *blender, total int) {
	ratios := systemRatios[r.phase]
	for _, system := range preferredOrder[r.phase] {
		quota := int(math.Round(float64(total) * ratios[system]))
		if ratios[system] > 0 {
			quota = max(quota, 1)
		}
		for r.count(system) < quota && len(r.picked) < total {
			if !b.take(system) {
				break
			}
		}
	}
	exhausted := make(map[catalog.System]bool)
	for len(r.picked) < total {
		best, deficit := catalog.System(""), math.Inf(-1)
		for _, system := range preferredOrder[r.phase] {
			if exhausted[system] {
				continue
			}
			if d := float64(total)*ratios[system] - float64(r.count(system)); d > deficit {
				best, deficit = system, d
			}
		}
		if best == "" {
			return
		}
		if !b.take(best) {
			exhausted[best] = true
		}
	}
}

// taper plans at most three drills: one alactic, aerobic work for endurance goals and a glycolytic drill
// for fresh pressure fighters and scramblers.
func (r *run) taper(b *blender) {
	b.take(catalog.Alactic)
	if r.ath.WantsAny("conditioning", "endurance") {
		b.take(catalog.Aerobic)
	}
	if r.ath.Fatigue == vocab.FatigueLow && slices.ContainsFunc(taperGlycolyticStyles, r.ath.HasStyle) {
		b.take(catalog.Glycolytic)
	}
}

// insert adds a guaranteed drill. In the taper a full block gives up its last unguaranteed slot instead.
func (r *run) insert(c candidate) {
	if r.phase == catalog.TAPER && len(r.picked) >= maxTaperDrills {
		for i := len(r.picked) - 1; i >= 0; i-- {
			if !r.guaranteed[i] {
				r.picked[i] = c
				r.guaranteed[i] = true
				return
			}
		}
		return
	}
	r.picked = append(r.picked, c)
	r.guaranteed[len(r.picked)-1] = true
}

func (r *run) injectUniversal() {
	universal := r.rank(r.catalog.UniversalConditioning, SourceUniversal, r.scoreGeneral)
	added := 0
	for _, c := range universal {
		if added == maxUniversalDrill {
			return
		}
		if r.has(c.item.Name) {
			continue
		}
		if !c.item.HasTag("high_priority") && c.item.TagHits(r.goals)+c.item.TagHits(r.weak) == 0 {
			continue
		}
		c.source = SourceUniversal
		r.insert(c)
		added++
	}
}

func (r *run) injectStyleTaper() {
	ranked := r.rank(r.catalog.StyleTaper, SourceStyleTaper, r.scoreStyle)
	var fallback *candidate
	for i, c := range ranked {
		if r.has(c.item.Name) {
			continue
		}
		if len(r.styles) == 0 || c.item.HasAnyTag(r.styles) {
			c.source = SourceStyleTaper
			r.insert(c)
			return
		}
		if fallback == nil {
			fallback = &ranked[i]
		}
	}
	if fallback != nil {
		c := *fallback
		c.source = SourceStyleTaper
		r.insert(c)
	}
}

func (r *run) guaranteePlyometric(pools ...[]candidate) {
	if slices.ContainsFunc(r.picked, func(c candidate) bool { return c.item.HasTag("plyometric") }) {
		return
	}
	if c, ok := r.bestWith("plyometric", pools...); ok {
		c.source = SourcePlyometric
		r.insert(c)
	}
}

func (r *run) guaranteeSkill(pools ...[]candidate) {
	if _, ok := r.goals["skill_refinement"]; !ok {
		return
	}
	if slices.ContainsFunc(r.picked, func(c candidate) bool { return c.item.HasTag("skill_refinement") }) {
		return
	}
	if c, ok := r.bestWith("skill_refinement", pools...); ok {
		c.source = SourceSkill
		r.insert(c)
	}
}

func (r *run) bestWith(tag string, pools ...[]candidate) (candidate, bool) {
	var options []candidate
	for _, c := range slices.Concat(pools...) {
		if c.item.HasTag(tag) && !r.has(c.item.Name) {
			options = append(options, c)
		}
	}
	if len(options) == 0 {
		return candidate{}, false
	}
	sortCandidates(options)
	return options[0], true
}

// guaranteeCoordination adds a coordination bank drill placed in conditioning when the athlete works on
// coordination, footwork, balance or agility.
func (r *run) guaranteeCoordination() {
	if !r.ath.WantsAny(coordinationGoals...) {
		return
	}
	if slices.ContainsFunc(r.picked, func(c candidate) bool { return c.item.Bank == catalog.BankCoordination }) {
		return
	}
	var placed []catalog.Item
	for _, item := range r.catalog.Coordination {
		if item.Placement == "conditioning" {
			placed = append(placed, item)
		}
	}
	ranked := r.rank(placed, SourceCoordination, r.scoreGeneral)
	for _, c := range ranked {
		if r.has(c.item.Name) {
			continue
		}
		c.source = SourceCoordination
		r.insert(c)
		return
	}
}

// gaps explains each preferred system left without a drill.
func (r *run) gaps() []selection.Gap {
	var gaps []selection.Gap
	for _, system := range preferredOrder[r.phase] {
		if r.count(system) > 0 {
			continue
		}
		gaps = append(gaps, selection.Gap{
			System: string(system),
			Reason: r.gapReason(system),
			Option: compensations[system],
		})
	}
	return gaps
}

func (r *run) gapReason(system catalog.System) string {
	switch {
	case r.phase == catalog.TAPER:
		return "taper keeps conditioning volume minimal"
	case r.ath.Calendar.CampWeeks > 0 && r.ath.Calendar.CampWeeks <= 3:
		return "short camp leaves no room for every system"
	case r.ath.Fatigue == vocab.FatigueHigh:
		return "high fatigue limits conditioning volume"
	case r.injured[system] > 0:
		return "injury constraint removed the available drills"
	default:
		return "no eligible drill for the available equipment"
	}
}

func (r *run) result() *selection.Selection {
	sel := &selection.Selection{
		Module:  selection.Conditioning,
		Phase:   r.phase,
		Items:   make([]catalog.Item, 0, len(r.picked)),
		WhyLog:  make([]selection.Why, 0, len(r.picked)),
		Pool:    make([]injury.Candidate, 0, len(r.pool)),
		Mods:    make(map[string][]string),
		Missing: r.gaps(),
		Block:   "",
	}
	for _, c := range r.pool {
		sel.Pool = append(sel.Pool, injury.Candidate{Item: c.item, Score: c.score})
	}
	injury.SortCandidates(sel.Pool)
	for _, c := range r.picked {
		sel.Items = append(sel.Items, c.item)
		sel.WhyLog = append(sel.WhyLog, selection.Why{
			Name:        c.item.Name,
			Score:       c.score,
			Source:      c.source,
			System:      string(c.item.System),
			Movement:    "",
			Explanation: explain(c),
			Reasons:     c.reasons,
		})
		if c.decision.Action == injury.Modify {
			sel.Mods[c.item.Name] = c.decision.Mods
		}
	}
	return sel
}

func explain(c candidate) string {
	parts := []string{
		fmt.Sprintf("weakness hits %d", c.reasons.WeaknessHits),
		fmt.Sprintf("goal hits %d", c.reasons.GoalHits),
		fmt.Sprintf("style hits %d", c.reasons.StyleHits),
	}
	if c.reasons.FormatHits > 0 {
		parts = append(parts, fmt.Sprintf("format hits %d", c.reasons.FormatHits))
	}
	if c.reasons.SystemWeight != 0 {
		parts = append(parts, fmt.Sprintf("system weight %+.2f", c.reasons.SystemWeight))
	}
	if c.reasons.FatiguePenalty != 0 {
		parts = append(parts, fmt.Sprintf("cns penalty %+.2f", c.reasons.FatiguePenalty))
	}
	parts = append(parts, fmt.Sprintf("jitter %+.3f", c.reasons.Jitter), c.source)
	return strings.Join(parts, ", ")
}
