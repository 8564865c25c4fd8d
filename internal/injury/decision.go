package injury

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/logging"
	"github.com/myrjola/fightcamp/internal/vocab"
)

// Action is the verdict for a training item.
type Action string

const (
	Allow   Action = "allow"
	Modify  Action = "modify"
	Exclude Action = "exclude"
)

func (a Action) rank() int {
	switch a {
	case Exclude:
		return 2 //nolint:mnd // ordering.
	case Modify:
		return 1
	default:
		return 0
	}
}

const (
	baseModifyBand       = 0.85
	baseExcludeThreshold = 1.2
	highFatigueDrop      = 0.1
	lowFatigueRaise      = 0.05
	taperRaise           = 0.05
	decisionCacheSize    = 8192
	exclusionMapFactor   = 1.5
)

// Thresholds are the risk levels at which an item is modified or excluded.
type Thresholds struct {
	Modify  float64 `json:"modify"`
	Exclude float64 `json:"exclude"`
}

// ThresholdsFor adjusts the base thresholds for fatigue and phase.
func ThresholdsFor(phase catalog.Phase, fatigue vocab.Fatigue) Thresholds {
	t := Thresholds{Modify: baseModifyBand, Exclude: baseExcludeThreshold}
	switch fatigue {
	case vocab.FatigueHigh:
		t.Modify -= highFatigueDrop
		t.Exclude -= highFatigueDrop
	case vocab.FatigueLow:
		t.Modify += lowFatigueRaise
	case vocab.FatigueModerate:
	}
	if phase == catalog.TAPER {
		t.Exclude += taperRaise
	}
	return t
}

func (t Thresholds) version() string {
	return fmt.Sprintf("%.2f/%.2f", t.Modify, t.Exclude)
}

// Detail is one piece of evidence that an item loads an injured region.
type Detail struct {
	Source string  `json:"source"`
	Match  string  `json:"match"`
	Level  string  `json:"level"`
	Bucket Bucket  `json:"bucket"`
	Risk   float64 `json:"risk"`
}

// Reason explains a decision by its dominant region.
type Reason struct {
	Region   Region   `json:"region"`
	Severity Severity `json:"severity"`
	Bucket   Bucket   `json:"bucket"`
	Matches  []Detail `json:"matches"`
}

// Decision is the verdict for one item against a set of injuries.
type Decision struct {
	Action      Action   `json:"action"`
	RiskScore   float64  `json:"risk_score"`
	Threshold   float64  `json:"threshold"`
	ModifyBand  float64  `json:"modify_band"`
	MatchedTags []string `json:"matched_tags"`
	Mods        []string `json:"mods"`
	Reason      Reason   `json:"reason"`
}

// Profile is the injury state of an athlete for the duration of one plan.
type Profile struct {
	Injuries     []Injury
	Restrictions []Restriction
	Fatigue      vocab.Fatigue
}

// Empty reports whether nothing filters items.
func (p Profile) Empty() bool {
	return len(p.Injuries) == 0 && len(p.Restrictions) == 0
}

type assessment struct {
	risk        float64
	bucket      Bucket
	details     []Detail
	keywordHit  bool
	matchedTags []string
}

type cacheKey struct {
	item        string
	fingerprint uint64
	region      Region
	severity    Severity
	version     string
}

// Engine decides whether items are safe for an athlete's injuries. Decisions are pure functions of their
// inputs and cached per (item, region, severity, threshold version).
type Engine struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
	cache   *lru.Cache[cacheKey, assessment]
	logged  *logging.Once
}

// NewEngine creates an Engine. The catalog supplies the static injury exclusion map and may be nil.
func NewEngine(cat *catalog.Catalog, logger *slog.Logger) *Engine {
	cache, err := lru.New[cacheKey, assessment](decisionCacheSize)
	if err != nil {
		panic(err)
	}
	return &Engine{
		catalog: cat,
		logger:  logger,
		cache:   cache,
		logged:  logging.NewOnce(logging.DefaultOnceSize),
	}
}

// Decide evaluates item against injuries using the name, notes, method and movement fields.
func (e *Engine) Decide(ctx context.Context, item catalog.Item, injuries []Injury, phase catalog.Phase,
	fatigue vocab.Fatigue) Decision {
	return e.decide(ctx, item, injuries, phase, fatigue, false)
}

// DecideExpanded is Decide with the descriptive fields added to the scanned text.
func (e *Engine) DecideExpanded(ctx context.Context, item catalog.Item, injuries []Injury, phase catalog.Phase,
	fatigue vocab.Fatigue) Decision {
	return e.decide(ctx, item, injuries, phase, fatigue, true)
}

func (e *Engine) decide(ctx context.Context, item catalog.Item, injuries []Injury, phase catalog.Phase,
	fatigue vocab.Fatigue, expanded bool) Decision {
	th := ThresholdsFor(phase, fatigue)
	d := Decision{
		Action:      Allow,
		RiskScore:   0,
		Threshold:   th.Exclude,
		ModifyBand:  th.Modify,
		MatchedTags: nil,
		Mods:        nil,
		Reason:      Reason{Region: "", Severity: "", Bucket: BucketDefault, Matches: nil},
	}
	if len(injuries) == 0 {
		return d
	}
	text := item.ScanText(expanded)
	fingerprint := xxhash.Sum64String(text + "\x1f" + strings.Join(item.Tags, ",") + "\x1f" + string(item.TagSource))

	var (
		best    assessment
		bestInj Injury
		found   bool
		tags    []string
	)
	for _, inj := range injuries {
		inj.normalize()
		key := cacheKey{item: item.Name, fingerprint: fingerprint, region: inj.Region, severity: inj.Severity,
			version: th.version()}
		a, ok := e.cache.Get(key)
		if !ok {
			a = e.assess(item, text, inj)
			e.cache.Add(key, a)
		}
		tags = append(tags, a.matchedTags...)
		if !found || a.risk > best.risk {
			best, bestInj, found = a, inj, true
		}
	}

	d.RiskScore = best.risk
	switch {
	case best.risk > th.Exclude:
		d.Action = Exclude
	case best.risk >= th.Modify:
		d.Action = Modify
	}
	if d.Action == Exclude && item.TagSource == catalog.TagsInferred && !best.keywordHit {
		d.Action = Modify
	}
	if d.Action == Modify {
		d.Mods = slices.Clone(profileFor(bestInj.Region).mods)
	}
	slices.Sort(tags)
	d.MatchedTags = slices.Compact(tags)
	d.Reason = Reason{Region: bestInj.Region, Severity: bestInj.Severity, Bucket: best.bucket, Matches: best.details}

	if e.logged.First(item.Name, string(bestInj.Region), string(bestInj.Severity), th.version(), string(d.Action),
		strings.Join(d.MatchedTags, ",")) {
		e.logger.LogAttrs(ctx, slog.LevelDebug, "injury decision",
			slog.String("item", item.Name),
			slog.String("region", string(bestInj.Region)),
			slog.String("severity", string(bestInj.Severity)),
			slog.String("action", string(d.Action)),
			slog.Float64("risk", d.RiskScore),
			slog.String("bucket", string(best.bucket)))
	}
	return d
}

// assess scores one injury against an item. The highest-risk detail wins.
func (e *Engine) assess(item catalog.Item, text string, inj Injury) assessment {
	p := profileFor(inj.Region)
	base := p.weight * severityWeight[inj.Severity]
	scan := vocab.NewText(text, catalog.InferenceAllowlist...)

	var details []Detail
	add := func(source, match string, lvl level, mech mechanism) {
		details = append(details, Detail{
			Source: source,
			Match:  match,
			Level:  string(lvl),
			Bucket: mechanismBuckets[mech],
			Risk:   base * levelWeight[lvl] * mechanismMultiplier[mech],
		})
	}
	for _, lvl := range []level{levelExclude, levelFlag} {
		kw := p.exclude
		if lvl == levelFlag {
			kw = p.flag
		}
		for _, mech := range sortedMechanisms(kw) {
			for _, phrase := range scan.Matches(kw[mech]) {
				add("keyword", phrase, lvl, mech)
			}
		}
	}
	keywordHit := len(details) > 0

	var matchedTags []string
	explicit := item.TagSource == catalog.TagsExplicit
	for _, tag := range item.Tags {
		if mech, ok := p.excludeTags[tag]; ok {
			lvl := levelExclude
			if !explicit {
				lvl = levelFlag
			}
			add("tag", tag, lvl, mech)
			matchedTags = append(matchedTags, tag)
			continue
		}
		if mech, ok := p.flagTags[tag]; ok {
			add("tag", tag, levelFlag, mech)
			matchedTags = append(matchedTags, tag)
		}
	}

	if e.catalog.Excluded(string(inj.Region), item.Name) {
		details = append(details, Detail{
			Source: "exclusion_map",
			Match:  item.Name,
			Level:  string(levelExclude),
			Bucket: BucketDefault,
			Risk:   base * exclusionMapFactor,
		})
		keywordHit = true
	}

	a := assessment{risk: 0, bucket: BucketDefault, details: details, keywordHit: keywordHit, matchedTags: matchedTags}
	for _, d := range details {
		if d.Risk > a.risk {
			a.risk = d.Risk
			a.bucket = d.Bucket
		}
	}
	return a
}

// Restricted checks item against declared restrictions. Avoid restrictions exclude, limit and flare
// restrictions ask for modification. The matched restriction names are returned.
func (e *Engine) Restricted(item catalog.Item, restrictions []Restriction) (Action, []string) {
	action := Allow
	var matched []string
	if len(restrictions) == 0 {
		return action, nil
	}
	scan := vocab.NewText(item.ScanText(false), catalog.InferenceAllowlist...)
	for _, r := range restrictions {
		if !restrictionMatches(r, item, scan) {
			continue
		}
		matched = append(matched, r.Restriction)
		a := Modify
		if r.Strength == Avoid {
			a = Exclude
		}
		if a.rank() > action.rank() {
			action = a
		}
	}
	return action, matched
}

//nolint:gochecknoglobals // lookup table.
var genericStopwords = vocab.Set("avoid", "avoiding", "limit", "limited", "with", "from", "heavy", "under", "load",
	"light", "only", "work", "training", "exercise", "exercises", "movement", "movements", "stuff", "anything",
	"things", "flare", "flares", "careful", "reduce", "restrict", "restricted", "cannot", "dont", "never")

func restrictionMatches(r Restriction, item catalog.Item, scan vocab.Text) bool {
	for _, p := range restrictionPatterns {
		if p.name != r.Restriction {
			continue
		}
		for kw, weight := range p.keywords {
			if weight >= 2 && scan.Contains(kw) { //nolint:mnd // single-weight keywords are too broad.
				return true
			}
		}
		for _, tag := range p.tags {
			if item.HasTag(tag) {
				return true
			}
		}
		return false
	}
	for _, tok := range vocab.Tokenize(r.Phrase) {
		if _, stop := genericStopwords[tok]; stop || len(tok) < 4 {
			continue
		}
		if scan.Contains(tok) {
			return true
		}
	}
	return false
}

// Assess combines Decide with the restriction guard.
func (e *Engine) Assess(ctx context.Context, item catalog.Item, p Profile, phase catalog.Phase) Decision {
	return e.combine(item, p, e.Decide(ctx, item, p.Injuries, phase, p.Fatigue))
}

// Review is Assess over the expanded item text, as used by the coach review.
func (e *Engine) Review(ctx context.Context, item catalog.Item, p Profile, phase catalog.Phase) Decision {
	return e.combine(item, p, e.DecideExpanded(ctx, item, p.Injuries, phase, p.Fatigue))
}

func (e *Engine) combine(item catalog.Item, p Profile, d Decision) Decision {
	action, matched := e.Restricted(item, p.Restrictions)
	if action.rank() <= d.Action.rank() {
		return d
	}
	d.Action = action
	for _, name := range matched {
		d.Reason.Matches = append(d.Reason.Matches, Detail{
			Source: "restriction", Match: name, Level: string(action), Bucket: d.Reason.Bucket, Risk: d.RiskScore,
		})
	}
	if action == Modify && len(d.Mods) == 0 {
		d.Mods = []string{"reduce_range", "reduce_load"}
	}
	return d
}

// Candidate is a possible replacement together with its selector score.
type Candidate struct {
	Item  catalog.Item
	Score float64
}

// SortCandidates orders candidates by descending score and then by name.
func SortCandidates(candidates []Candidate) {
	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Or(cmp.Compare(b.Score, a.Score), cmp.Compare(a.Item.Name, b.Item.Name))
	})
}

// Replace picks a substitute for an excluded item. Candidates are ordered by (-score, name) and filtered
// by safe; the first candidate whose tags overlap the earliest fallback tag group for the decision's
// region and bucket wins, otherwise the first safe candidate.
func (e *Engine) Replace(excluded catalog.Item, d Decision, candidates []Candidate,
	safe func(catalog.Item) bool) (catalog.Item, bool) {
	ordered := slices.Clone(candidates)
	SortCandidates(ordered)
	var pool []catalog.Item
	for _, c := range ordered {
		if c.Item.Name == excluded.Name || !safe(c.Item) {
			continue
		}
		pool = append(pool, c.Item)
	}
	if len(pool) == 0 {
		return catalog.Item{}, false
	}
	for _, group := range profileFor(d.Reason.Region).fallbackGroups(d.Reason.Bucket) {
		set := vocab.Set(group...)
		for _, item := range pool {
			if item.HasAnyTag(set) {
				return item, true
			}
		}
	}
	return pool[0], true
}
