// Package strength selects the strength and power block of each camp phase.
package strength

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
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
	SourceGeneral     = "general"
	SourceUniversal   = "universal"
	SourceStyle       = "style"
	SourceIsometric   = "isometric guarantee"
	SourceConflict    = "conflict swap"
	SourceReplacement = "injury replacement"
)

// Request describes one phase to select for.
type Request struct {
	Phase   catalog.Phase
	Athlete *athlete.Context
	// Previous holds the names selected in earlier phases.
	Previous []string
	// Recent holds the movements selected in the previous phase.
	Recent []catalog.Movement
	Seed   uint64
}

// Selector picks strength exercises. It holds no per-plan state and is safe for concurrent use.
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
}

// run is the state of a single Select call.
type run struct {
	*Selector
	ctx     context.Context //nolint:containedctx // scoped to one Select call.
	phase   catalog.Phase
	target  int
	ath     *athlete.Context
	profile injury.Profile
	rng     *rand.Rand

	equipment map[string]struct{}
	goals     map[string]struct{}
	weak      map[string]struct{}
	styles    map[string]struct{}

	previous     map[string]struct{}
	recent       map[catalog.Movement]struct{}
	cornerstones map[string]struct{}

	scored    map[string]candidate
	pool      []candidate
	picked    []candidate
	protected map[string]bool
}

// Select builds the strength selection for one phase. Data problems never fail a selection; they shrink it.
func (s *Selector) Select(ctx context.Context, req Request) *selection.Selection {
	r := s.newRun(ctx, req)
	target := r.target

	general := r.rank(s.catalog.Exercises, SourceGeneral)
	for _, c := range general {
		if len(r.picked) >= target {
			break
		}
		if r.novel(c.item) && r.fits(c.item, -1) {
			r.add(c, false)
		}
	}

	inserted := 0
	if req.Phase == catalog.GPP {
		inserted = r.insertUniversal()
	}
	r.injectStyle()
	r.truncate(target)
	r.guaranteeIsometric()
	r.guardConflicts()
	r.recheck()
	r.capMovements()

	sel := r.result()
	sel.Block = Format(sel, req.Athlete)
	s.logger.LogAttrs(ctx, slog.LevelDebug, "strength selected",
		slog.String("phase", string(req.Phase)),
		slog.Int("target", target),
		slog.Int("selected", len(sel.Items)),
		slog.Int("universal", inserted))
	return sel
}

func (s *Selector) newRun(ctx context.Context, req Request) *run {
	ath := req.Athlete
	r := &run{
		Selector:     s,
		ctx:          ctx,
		phase:        req.Phase,
		target:       perDay[req.Phase] * ath.Sessions(req.Phase).Strength,
		ath:          ath,
		profile:      ath.InjuryProfile(),
		rng:          selection.RNG(req.Seed, req.Phase, selection.Strength),
		equipment:    ath.EquipmentSet(),
		goals:        ath.GoalSet(),
		weak:         ath.WeaknessSet(),
		styles:       ath.StyleSet(),
		previous:     vocab.Set(req.Previous...),
		recent:       make(map[catalog.Movement]struct{}, len(req.Recent)),
		cornerstones: make(map[string]struct{}, len(s.catalog.UniversalStrength)),
		scored:       make(map[string]candidate),
		pool:         nil,
		picked:       nil,
		protected:    make(map[string]bool),
	}
	for _, m := range req.Recent {
		r.recent[m] = struct{}{}
	}
	for _, item := range s.catalog.UniversalStrength {
		r.cornerstones[item.Name] = struct{}{}
	}
	return r
}

// eligible applies the hard filters: phase, sport bans, taper tag rules and the injury decision.
func (r *run) eligible(item catalog.Item) (injury.Decision, bool) {
	if !item.InPhase(r.phase) || r.ath.Sport.Bans(item.Name, item.Tags) {
		return injury.Decision{}, false
	}
	if r.phase == catalog.TAPER {
		if !item.HasAnyTag(taperAllowed) || item.HasAnyTag(taperBanned) {
			return injury.Decision{}, false
		}
		if len(vocab.Intersect(item.Equipment, taperBanned)) > 0 {
			return injury.Decision{}, false
		}
	}
	d := r.engine.Assess(r.ctx, item, r.profile, r.phase)
	return d, d.Action != injury.Exclude
}

// score rates an item for this athlete and phase. HardFiltered means the athlete lacks the equipment.
func (r *run) score(item catalog.Item) (float64, selection.Reasons) {
	var reasons selection.Reasons
	if !vocab.EquipmentFits(item.Equipment, r.equipment) {
		return selection.HardFiltered, reasons
	}
	reasons.WeaknessHits = item.TagHits(r.weak)
	reasons.GoalHits = item.TagHits(r.goals)
	reasons.StyleHits = item.TagHits(r.styles)
	reasons.MustHaveHits = item.TagHits(mustHave[r.phase])
	reasons.PhaseHits = item.TagHits(phaseBoost[r.phase])

	score := weaknessWeight*float64(reasons.WeaknessHits) +
		goalWeight*float64(reasons.GoalHits) +
		styleWeight*float64(reasons.StyleHits)
	if reasons.StyleHits >= 2 { //nolint:mnd // style bonus steps.
		score += styleBonusPair
	}
	if reasons.StyleHits >= 3 { //nolint:mnd // style bonus steps.
		score += styleBonusMany
	}
	score += mustHaveWeight * float64(reasons.MustHaveHits)
	if reasons.MustHaveHits > 0 {
		score += mustHaveBonus
	}
	if reasons.WeaknessHits+reasons.GoalHits+reasons.StyleHits >= thematicThreshold {
		score += thematicBonus
	}
	score += phaseTagWeight * float64(reasons.PhaseHits)

	if item.HasAnyTag(taxing) {
		switch r.ath.Fatigue {
		case vocab.FatigueHigh:
			reasons.FatiguePenalty = highFatiguePenalty
		case vocab.FatigueModerate:
			reasons.FatiguePenalty = moderateFatigueCost
		case vocab.FatigueLow:
		}
	}
	score += reasons.FatiguePenalty

	required := item.Equipment
	if len(required) == 0 {
		required = []string{vocab.Bodyweight}
	}
	if len(vocab.Intersect(required, equipmentBoostSets[r.phase])) > 0 {
		reasons.EquipmentBoost = equipmentBoost
	}
	score += reasons.EquipmentBoost

	if strings.Contains(strings.ToLower(item.Method), "rehab") {
		reasons.RehabPenalty = rehabPenalty[r.phase]
	}
	score += reasons.RehabPenalty

	reasons.Jitter = selection.Jitter(r.rng, jitterAmplitude)
	score += reasons.Jitter
	return score, reasons
}

// consider scores item once per run and adds it to the replacement pool.
func (r *run) consider(item catalog.Item, source string) (candidate, bool) {
	if c, ok := r.scored[item.Name]; ok {
		return c, c.score != selection.HardFiltered
	}
	d, ok := r.eligible(item)
	if !ok {
		return candidate{}, false
	}
	score, reasons := r.score(item)
	reasons.Injury = string(d.Action)
	c := candidate{item: item, score: score, reasons: reasons, source: source, decision: d}
	r.scored[item.Name] = c
	if score == selection.HardFiltered {
		return candidate{}, false
	}
	r.pool = append(r.pool, c)
	return c, true
}

// rank returns the usable items of a bank ordered by descending score and then name.
func (r *run) rank(items []catalog.Item, source string) []candidate {
	ranked := make([]candidate, 0, len(items))
	for _, item := range items {
		if c, ok := r.consider(item, source); ok {
			ranked = append(ranked, c)
		}
	}
	sortCandidates(ranked)
	return ranked
}

func sortCandidates(cs []candidate) {
	slices.SortStableFunc(cs, func(a, b candidate) int {
		return cmp.Or(cmp.Compare(b.score, a.score), cmp.Compare(a.item.Name, b.item.Name))
	})
}

func (r *run) isCornerstone(item catalog.Item) bool {
	if _, ok := r.cornerstones[item.Name]; ok || item.HasTag("cornerstone") {
		return true
	}
	if len(vocab.NewText(item.Name).Matches(cornerstoneTerms)) > 0 {
		return true
	}
	return slices.ContainsFunc(item.Tags, func(tag string) bool {
		return slices.ContainsFunc(cornerstoneTerms, func(term string) bool {
			return strings.Contains(tag, strings.ReplaceAll(term, " ", "_"))
		})
	})
}

// novel reports whether item may appear although an earlier phase used it.
func (r *run) novel(item catalog.Item) bool {
	if _, seen := r.previous[item.Name]; !seen {
		return true
	}
	if r.isCornerstone(item) {
		return true
	}
	return r.phase == catalog.TAPER && item.HasAnyTag(noveltyExempt)
}

func (r *run) has(name string) bool {
	return slices.ContainsFunc(r.picked, func(c candidate) bool { return c.item.Name == name })
}

// fits reports whether adding item keeps its movement within the cap. The slot at skip is ignored, which
// lets callers test a swap.
func (r *run) fits(item catalog.Item, skip int) bool {
	n := 0
	for i, c := range r.picked {
		if i != skip && c.item.Movement == item.Movement {
			n++
		}
	}
	return n < movementCap
}

func (r *run) add(c candidate, protect bool) {
	r.picked = append(r.picked, c)
	if protect {
		r.protected[c.item.Name] = true
	}
}

func (r *run) covers(set map[string]struct{}) bool {
	return slices.ContainsFunc(r.picked, func(c candidate) bool { return c.item.HasAnyTag(set) })
}

// insertUniversal adds universal GPP exercises for tag groups the selection does not cover yet.
func (r *run) insertUniversal() int {
	universal := r.rank(r.catalog.UniversalStrength, SourceUniversal)
	inserted := 0
	for _, group := range universalGroups {
		if inserted == maxUniversal {
			break
		}
		set := vocab.Set(group...)
		if r.covers(set) {
			continue
		}
		for _, c := range universal {
			if r.has(c.item.Name) || !c.item.HasAnyTag(set) || !r.fits(c.item, -1) {
				continue
			}
			c.source = SourceUniversal
			r.add(c, true)
			inserted++
			break
		}
	}
	return inserted
}

// injectStyle prepends style-specific exercises matching the athlete's styles.
func (r *run) injectStyle() {
	if len(r.styles) == 0 {
		return
	}
	var matching []catalog.Item
	for _, item := range r.catalog.StyleExercises {
		if item.HasAnyTag(r.styles) {
			matching = append(matching, item)
		}
	}
	var injected []candidate
	for _, c := range r.rank(matching, SourceStyle) {
		if len(injected) == maxStyleInjection {
			break
		}
		if r.has(c.item.Name) {
			continue
		}
		if _, recent := r.recent[c.item.Movement]; recent && !r.isCornerstone(c.item) {
			continue
		}
		if !r.fits(c.item, -1) {
			continue
		}
		c.source = SourceStyle
		injected = append(injected, c)
		r.picked = append(r.picked, c)
	}
	if len(injected) == 0 {
		return
	}
	// Move the injected items to the front.
	r.picked = append(injected, r.picked[:len(r.picked)-len(injected)]...)
	for _, c := range injected {
		r.protected[c.item.Name] = true
	}
}

// truncate drops items from the tail until at most limit remain. Unprotected items go first; protected
// ones are dropped only when they alone exceed limit, so the injected style items at the front survive
// longest.
func (r *run) truncate(limit int) {
	for _, protectedPass := range []bool{false, true} {
		for i := len(r.picked) - 1; i >= 0 && len(r.picked) > limit; i-- {
			name := r.picked[i].item.Name
			if r.protected[name] != protectedPass {
				continue
			}
			delete(r.protected, name)
			r.picked = slices.Delete(r.picked, i, i+1)
		}
	}
}

// lowestUnprotected returns the index of the lowest-scoring unprotected slot or -1.
func (r *run) lowestUnprotected() int {
	idx := -1
	for i, c := range r.picked {
		if r.protected[c.item.Name] {
			continue
		}
		if idx < 0 || c.score < r.picked[idx].score {
			idx = i
		}
	}
	return idx
}

// lowest returns the index of the lowest-scoring slot or -1.
func (r *run) lowest() int {
	idx := -1
	for i, c := range r.picked {
		if idx < 0 || c.score < r.picked[idx].score {
			idx = i
		}
	}
	return idx
}

// guaranteeIsometric swaps the weakest slot for the best isometric when GPP or SPP lacks one.
func (r *run) guaranteeIsometric() {
	if r.phase == catalog.TAPER || slices.ContainsFunc(r.picked, func(c candidate) bool {
		return c.item.HasTag("isometric")
	}) {
		return
	}
	slot := r.lowestUnprotected()
	if slot < 0 && len(r.picked) >= r.target {
		slot = r.lowest()
	}
	ranked := slices.Clone(r.pool)
	sortCandidates(ranked)
	for _, c := range ranked {
		if !c.item.HasTag("isometric") || r.has(c.item.Name) || !r.novel(c.item) || !r.fits(c.item, slot) {
			continue
		}
		c.source = SourceIsometric
		if slot < 0 {
			r.add(c, true)
		} else {
			delete(r.protected, r.picked[slot].item.Name)
			r.picked[slot] = c
			r.protected[c.item.Name] = true
		}
		return
	}
}

//nolint:gochecknoglobals // lookup table.
var (
	heavyHingePhrases = []string{"rdl", "romanian deadlift", "stiff leg deadlift"}
	medBallPhrases    = []string{"med ball", "medicine ball"}
)

func isHeavyRDL(item catalog.Item) bool {
	return len(vocab.NewText(item.Name).Matches(heavyHingePhrases)) > 0 || item.HasTag("heavy_hinge")
}

func isMedBallRotational(item catalog.Item) bool {
	medBall := slices.Contains(item.Equipment, "medicine_ball") ||
		len(vocab.NewText(item.Name).Matches(medBallPhrases)) > 0
	rotational := item.Movement == catalog.Rotation || item.HasTag("rotation") || item.HasTag("rotation_high")
	return medBall && rotational
}

// guardConflicts keeps a heavy RDL and a rotational medicine ball throw out of the same block. The lower
// scoring side goes unless only it is protected.
func (r *run) guardConflicts() {
	heavy := slices.IndexFunc(r.picked, func(c candidate) bool { return isHeavyRDL(c.item) })
	rot := slices.IndexFunc(r.picked, func(c candidate) bool { return isMedBallRotational(c.item) })
	if heavy < 0 || rot < 0 {
		return
	}
	victim, other := heavy, rot
	if r.picked[rot].score < r.picked[heavy].score {
		victim, other = rot, heavy
	}
	if r.protected[r.picked[victim].item.Name] && !r.protected[r.picked[other].item.Name] {
		victim = other
	}
	delete(r.protected, r.picked[victim].item.Name)
	ranked := slices.Clone(r.pool)
	sortCandidates(ranked)
	for _, c := range ranked {
		if r.has(c.item.Name) || isHeavyRDL(c.item) || isMedBallRotational(c.item) {
			continue
		}
		if !r.novel(c.item) || !r.fits(c.item, victim) {
			continue
		}
		c.source = SourceConflict
		r.picked[victim] = c
		return
	}
	r.picked = slices.Delete(r.picked, victim, victim+1)
}

// recheck runs the injury decision over the expanded text of every selected item and replaces the items
// it now excludes.
func (r *run) recheck() {
	for i := 0; i < len(r.picked); i++ {
		c := r.picked[i]
		d := r.engine.Review(r.ctx, c.item, r.profile, r.phase)
		if d.Action != injury.Exclude {
			r.picked[i].decision = d
			r.picked[i].reasons.Injury = string(d.Action)
			continue
		}
		slot := i
		replacement, ok := r.engine.Replace(c.item, d, r.candidates(), func(item catalog.Item) bool {
			if r.has(item.Name) || !r.novel(item) || !r.fits(item, slot) {
				return false
			}
			return r.engine.Review(r.ctx, item, r.profile, r.phase).Action != injury.Exclude
		})
		r.logger.LogAttrs(r.ctx, slog.LevelInfo, "strength item excluded on recheck",
			slog.String("phase", string(r.phase)),
			slog.String("item", c.item.Name),
			slog.String("region", string(d.Reason.Region)),
			slog.String("replacement", replacement.Name))
		if !ok {
			r.picked = slices.Delete(r.picked, i, i+1)
			i--
			continue
		}
		next := r.scored[replacement.Name]
		next.source = SourceReplacement
		next.decision = r.engine.Review(r.ctx, replacement, r.profile, r.phase)
		next.reasons.Injury = string(next.decision.Action)
		r.picked[i] = next
	}
}

// capMovements enforces the movement cap, dropping unprotected items first.
func (r *run) capMovements() {
	for _, protectedPass := range []bool{false, true} {
		counts := make(map[catalog.Movement]int)
		for _, c := range r.picked {
			counts[c.item.Movement]++
		}
		for i := len(r.picked) - 1; i >= 0; i-- {
			c := r.picked[i]
			if counts[c.item.Movement] <= movementCap || r.protected[c.item.Name] != protectedPass {
				continue
			}
			counts[c.item.Movement]--
			r.picked = slices.Delete(r.picked, i, i+1)
		}
	}
}

func (r *run) candidates() []injury.Candidate {
	out := make([]injury.Candidate, 0, len(r.pool))
	for _, c := range r.pool {
		out = append(out, injury.Candidate{Item: c.item, Score: c.score})
	}
	injury.SortCandidates(out)
	return out
}

func (r *run) result() *selection.Selection {
	sel := &selection.Selection{
		Module:  selection.Strength,
		Phase:   r.phase,
		Items:   make([]catalog.Item, 0, len(r.picked)),
		WhyLog:  make([]selection.Why, 0, len(r.picked)),
		Pool:    r.candidates(),
		Mods:    make(map[string][]string),
		Missing: nil,
		Block:   "",
	}
	for _, c := range r.picked {
		sel.Items = append(sel.Items, c.item)
		sel.WhyLog = append(sel.WhyLog, selection.Why{
			Name:        c.item.Name,
			Score:       c.score,
			Source:      c.source,
			System:      "",
			Movement:    string(c.item.Movement),
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
		fmt.Sprintf("goal hits %d", c.reasons.GoalHits),
		fmt.Sprintf("weakness hits %d", c.reasons.WeaknessHits),
		fmt.Sprintf("style hits %d", c.reasons.StyleHits),
		fmt.Sprintf("phase hits %d", c.reasons.PhaseHits),
	}
	if c.reasons.EquipmentBoost != 0 {
		parts = append(parts, fmt.Sprintf("equipment boost %+.2f", c.reasons.EquipmentBoost))
	}
	if c.reasons.FatiguePenalty != 0 {
		parts = append(parts, fmt.Sprintf("fatigue %+.2f", c.reasons.FatiguePenalty))
	}
	if c.reasons.RehabPenalty != 0 {
		parts = append(parts, fmt.Sprintf("rehab method %+.2f", c.reasons.RehabPenalty))
	}
	parts = append(parts, fmt.Sprintf("jitter %+.3f", c.reasons.Jitter))
	if c.source != SourceGeneral {
		parts = append(parts, c.source)
	}
	return strings.Join(parts, ", ")
}
