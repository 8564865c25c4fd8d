package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/myrjola/fightcamp/internal/errors"
	"github.com/myrjola/fightcamp/internal/logging"
	"github.com/myrjola/fightcamp/internal/vocab"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"
)

// Bank file names without extension. Each may be stored as .json, .yaml or .yml.
const (
	BankExercises             = "exercise_bank"
	BankConditioning          = "conditioning_bank"
	BankStyleExercises        = "style_specific_exercises"
	BankStyleConditioning     = "style_conditioning_bank"
	BankUniversalStrength     = "universal_gpp_strength"
	BankUniversalConditioning = "universal_gpp_conditioning"
	BankCoordination          = "coordination_bank"
	BankStyleTaper            = "style_taper_conditioning"
	BankRehab                 = "rehab_bank"
	FileVocabulary            = "tags"
	FileExclusions            = "injury_exclusion_map"
)

//nolint:gochecknoglobals // enumeration.
var bankNames = []string{
	BankExercises,
	BankConditioning,
	BankStyleExercises,
	BankStyleConditioning,
	BankUniversalStrength,
	BankUniversalConditioning,
	BankCoordination,
	BankStyleTaper,
	BankRehab,
}

// requiredBanks abort LoadCatalog when missing. The others load as empty banks with a warning.
//
//nolint:gochecknoglobals // enumeration.
var requiredBanks = []string{BankExercises, BankConditioning}

var (
	// ErrMissingName is returned when a bank entry has no name. It aborts the load of that bank.
	ErrMissingName = errors.NewSentinel("bank item missing name")
	// ErrBankNotFound is returned when no file exists for a bank.
	ErrBankNotFound = errors.NewSentinel("bank not found")
)

//go:embed banks/*
var embedded embed.FS

// DefaultBanks returns the banks bundled with the binary.
func DefaultBanks() fs.FS {
	sub, err := fs.Sub(embedded, "banks")
	if err != nil {
		panic(err)
	}
	return sub
}

type bankKind int

const (
	kindStrength bankKind = iota
	kindConditioning
	kindCoordination
	kindRehab
)

func kindOf(bank string) bankKind {
	switch bank {
	case BankExercises, BankStyleExercises, BankUniversalStrength:
		return kindStrength
	case BankConditioning, BankStyleConditioning, BankUniversalConditioning, BankStyleTaper:
		return kindConditioning
	case BankCoordination:
		return kindCoordination
	default:
		return kindRehab
	}
}

// Loader reads banks from a file system and caches them by file name until Reset.
type Loader struct {
	fsys   fs.FS
	logger *slog.Logger
	warned *logging.Once
	group  singleflight.Group

	mu    sync.Mutex
	cache map[string][]Item
}

// NewLoader creates a Loader reading from fsys.
func NewLoader(fsys fs.FS, logger *slog.Logger) *Loader {
	return &Loader{
		fsys:   fsys,
		logger: logger,
		warned: logging.NewOnce(logging.DefaultOnceSize),
		group:  singleflight.Group{},
		mu:     sync.Mutex{},
		cache:  make(map[string][]Item),
	}
}

// Reset drops the bank cache and the warn-once memory.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string][]Item)
	l.warned.Reset()
}

// LoadBank returns the items of the named bank. The name may omit the file extension.
func (l *Loader) LoadBank(ctx context.Context, name string) ([]Item, error) {
	l.mu.Lock()
	items, ok := l.cache[name]
	l.mu.Unlock()
	if ok {
		return items, nil
	}
	v, err, _ := l.group.Do(name, func() (any, error) {
		loaded, err := l.readBank(ctx, name)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[name] = loaded
		l.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err //nolint:wrapcheck // annotated in readBank.
	}
	return v.([]Item), nil //nolint:forcetypeassert // only []Item is stored.
}

// LoadCatalog loads every bank, the tag vocabulary and the injury exclusion map in parallel.
func (l *Loader) LoadCatalog(ctx context.Context) (*Catalog, error) {
	var (
		mu      sync.Mutex
		loaded  = make(map[string][]Item, len(bankNames))
		catalog = &Catalog{}
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range bankNames {
		g.Go(func() error {
			items, err := l.LoadBank(gctx, name)
			if errors.Is(err, ErrBankNotFound) && !slices.Contains(requiredBanks, name) {
				l.warn(gctx, name, "", "bank file missing")
				err = nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			loaded[name] = items
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		vocabulary, err := l.loadVocabulary(gctx)
		catalog.Vocabulary = vocabulary
		return err
	})
	g.Go(func() error {
		exclusions, err := l.loadExclusions(gctx)
		catalog.Exclusions = exclusions
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}
	catalog.Exercises = loaded[BankExercises]
	catalog.Conditioning = loaded[BankConditioning]
	catalog.StyleExercises = loaded[BankStyleExercises]
	catalog.StyleConditioning = loaded[BankStyleConditioning]
	catalog.UniversalStrength = loaded[BankUniversalStrength]
	catalog.UniversalConditioning = loaded[BankUniversalConditioning]
	catalog.Coordination = loaded[BankCoordination]
	catalog.StyleTaper = loaded[BankStyleTaper]
	catalog.Rehab = loaded[BankRehab]
	catalog.index()
	l.logger.LogAttrs(ctx, slog.LevelDebug, "catalog loaded",
		slog.Int("exercises", len(catalog.Exercises)),
		slog.Int("conditioning", len(catalog.Conditioning)),
		slog.Int("vocabulary", len(catalog.Vocabulary)))
	return catalog, nil
}

// resolve finds the file backing a bank name.
func (l *Loader) resolve(name string) (string, error) {
	candidates := []string{name}
	if path.Ext(name) == "" {
		candidates = []string{name + ".json", name + ".yaml", name + ".yml"}
	}
	for _, c := range candidates {
		if _, err := fs.Stat(l.fsys, c); err == nil {
			return c, nil
		}
	}
	return "", errors.Wrap(ErrBankNotFound, "resolve bank", slog.String("bank", name))
}

func (l *Loader) readFile(name string) ([]byte, string, error) {
	file, err := l.resolve(name)
	if err != nil {
		return nil, "", err
	}
	data, err := fs.ReadFile(l.fsys, file)
	if err != nil {
		return nil, "", errors.Wrap(err, "read bank", slog.String("file", file))
	}
	return data, file, nil
}

func decode(file string, data []byte, v any) error {
	switch path.Ext(file) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v) //nolint:wrapcheck // wrapped by caller.
	default:
		return json.Unmarshal(data, v) //nolint:wrapcheck // wrapped by caller.
	}
}

func (l *Loader) readBank(ctx context.Context, name string) ([]Item, error) {
	data, file, err := l.readFile(name)
	if err != nil {
		return nil, err
	}
	var entries []rawItem
	if err = decode(file, data, &entries); err != nil {
		var wrapped rawBank
		if werr := decode(file, data, &wrapped); werr != nil {
			return nil, errors.Wrap(err, "decode bank", slog.String("file", file))
		}
		entries = wrapped.entries()
	}
	bank := strings.TrimSuffix(file, path.Ext(file))
	items := make([]Item, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for i, raw := range entries {
		var item Item
		if item, err = l.guard(ctx, bank, i, raw); err != nil {
			return nil, err
		}
		if _, dup := seen[item.Name]; dup {
			l.warn(ctx, bank, item.Name, "duplicate name")
			continue
		}
		seen[item.Name] = struct{}{}
		items = append(items, item)
	}
	return items, nil
}

// guard validates a raw entry, filling defaults for missing fields and normalising tags.
func (l *Loader) guard(ctx context.Context, bank string, index int, raw rawItem) (Item, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return Item{}, errors.Wrap(ErrMissingName, "validate item",
			slog.String("bank", bank), slog.Int("index", index))
	}
	kind := kindOf(bank)
	item := Item{
		Name:             name,
		Tags:             nil,
		Phases:           nil,
		Equipment:        vocab.NormalizeEquipmentList(raw.Equipment.Values),
		System:           "",
		Movement:         "",
		Method:           raw.Method,
		Purpose:          raw.Purpose,
		Description:      raw.Description,
		Notes:            raw.Notes,
		Timing:           raw.Timing,
		Load:             raw.Load,
		Rest:             raw.Rest,
		Prescription:     raw.Prescription,
		Placement:        vocab.Slug(raw.Placement),
		Format:           raw.Format,
		PhaseProgression: parsePhases(raw.PhaseProgression.Values),
		TagSource:        TagsExplicit,
		Bank:             bank,
	}

	switch {
	case raw.Tags.Invalid:
		l.warn(ctx, bank, name, "tags is not a list")
		item.Tags = []string{}
	case !raw.Tags.Present:
		l.warn(ctx, bank, name, "missing tags")
	}
	if raw.Tags.Present && !raw.Tags.Invalid {
		item.Tags = ExpandTagAliases(raw.Tags.Values)
	}
	if len(item.Tags) == 0 {
		item.Tags = InferTags(name)
		item.TagSource = TagsInferred
	}

	item.Phases = parsePhases(raw.Phases.Values)
	if len(item.Phases) == 0 {
		l.warn(ctx, bank, name, "missing phases")
		item.Phases = slices.Clone(Phases)
	}

	rawSystem := raw.System
	if rawSystem == "" {
		rawSystem = raw.EnergySystem
	}
	switch {
	case rawSystem != "":
		item.System = ParseSystem(rawSystem)
		if !item.System.Known() {
			l.warn(ctx, bank, name, "unknown system "+strconv.Quote(rawSystem))
		}
	case kind == kindConditioning:
		l.warn(ctx, bank, name, "missing system")
		item.System = SystemUnknown
	}

	if kind == kindStrength || kind == kindCoordination {
		item.Movement = ParseMovement(raw.Movement)
		if item.Movement == MovementUnknown {
			item.Movement = InferMovement(name)
		}
	}
	return item, nil
}

func parsePhases(raw []string) []Phase {
	var phases []Phase
	for _, r := range raw {
		if p, ok := ParsePhase(r); ok && !slices.Contains(phases, p) {
			phases = append(phases, p)
		}
	}
	return phases
}

// warn logs a bank defect once per (source, name, issue).
func (l *Loader) warn(ctx context.Context, source, name, issue string) {
	if !l.warned.First(source, name, issue) {
		return
	}
	l.logger.LogAttrs(ctx, slog.LevelWarn, "bank defect",
		slog.String("source", source), slog.String("item", name), slog.String("issue", issue))
}

func (l *Loader) loadVocabulary(ctx context.Context) (map[string]struct{}, error) {
	data, file, err := l.readFile(FileVocabulary)
	if errors.Is(err, ErrBankNotFound) {
		l.warn(ctx, FileVocabulary, "", "tag vocabulary missing")
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, err
	}
	var tags []string
	if err = decode(file, data, &tags); err != nil {
		var wrapped struct {
			Tags []string `json:"tags" yaml:"tags"`
		}
		if werr := decode(file, data, &wrapped); werr != nil {
			return nil, errors.Wrap(err, "decode tag vocabulary", slog.String("file", file))
		}
		tags = wrapped.Tags
	}
	return vocab.Set(vocab.NormalizeTags(tags)...), nil
}

func (l *Loader) loadExclusions(ctx context.Context) (map[string][]string, error) {
	data, file, err := l.readFile(FileExclusions)
	if errors.Is(err, ErrBankNotFound) {
		l.warn(ctx, FileExclusions, "", "injury exclusion map missing")
		return map[string][]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var exclusions map[string][]string
	if err = decode(file, data, &exclusions); err != nil {
		return nil, errors.Wrap(err, "decode injury exclusion map", slog.String("file", file))
	}
	normalized := make(map[string][]string, len(exclusions))
	for region, names := range exclusions {
		key := vocab.Slug(region)
		normalized[key] = append(normalized[key], names...)
	}
	return normalized, nil
}
