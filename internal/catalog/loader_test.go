package catalog_test

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/errors"
	"github.com/myrjola/fightcamp/internal/testhelpers"
)

func file(s string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(s)}
}

func minimalFS() fstest.MapFS {
	return fstest.MapFS{
		"exercise_bank.json": file(`[
			{"name": "Goblet Squat", "tags": ["squat"], "phases": ["GPP"], "equipment": "kettlebell", "movement": "squat"}
		]`),
		"conditioning_bank.json": file(`[
			{"name": "Zone 2 Bike", "tags": ["aerobic"], "phases": ["GPP", "SPP"], "equipment": ["bike"], "system": "zone 2"}
		]`),
	}
}

func TestLoadBankDefaults(t *testing.T) {
	fsys := fstest.MapFS{
		"exercise_bank.json": file(`[
			{"name": "Trap Bar Deadlift", "equipment": "trap bar, bench"},
			{"name": "Band Face Pull", "tags": "pull, Upper Body", "phases": "gpp, taper", "equipment": ["band"]},
			{"name": "Band Face Pull", "tags": ["pull"]}
		]`),
	}
	loader := catalog.NewLoader(fsys, testhelpers.NewTestLogger(t))
	items, err := loader.LoadBank(t.Context(), catalog.BankExercises)
	if err != nil {
		t.Fatalf("LoadBank: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("want duplicate dropped, got %d items", len(items))
	}

	deadlift := items[0]
	if deadlift.TagSource != catalog.TagsInferred {
		t.Errorf("missing tags should be inferred, got %s", deadlift.TagSource)
	}
	if !deadlift.HasTag("hinge") {
		t.Errorf("inferred tags %v lack hinge", deadlift.Tags)
	}
	if diff := cmp.Diff(catalog.Phases, deadlift.Phases); diff != "" {
		t.Errorf("missing phases should default to all phases (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"trap_bar", "bench"}, deadlift.Equipment); diff != "" {
		t.Errorf("equipment mismatch (-want +got):\n%s", diff)
	}
	if deadlift.Movement != catalog.Hinge {
		t.Errorf("want hinge movement, got %s", deadlift.Movement)
	}

	facePull := items[1]
	if diff := cmp.Diff([]catalog.Phase{catalog.GPP, catalog.TAPER}, facePull.Phases); diff != "" {
		t.Errorf("phases mismatch (-want +got):\n%s", diff)
	}
	if !facePull.HasTag("upper_body") || facePull.TagSource != catalog.TagsExplicit {
		t.Errorf("want explicit normalised tags, got %v (%s)", facePull.Tags, facePull.TagSource)
	}
	if facePull.Bank != catalog.BankExercises {
		t.Errorf("want bank %s, got %s", catalog.BankExercises, facePull.Bank)
	}
}

func TestLoadBankMissingName(t *testing.T) {
	fsys := fstest.MapFS{
		"conditioning_bank.json": file(`[{"name": "Assault Bike Sprints", "system": "alactic"}, {"tags": ["aerobic"]}]`),
	}
	loader := catalog.NewLoader(fsys, testhelpers.NewTestLogger(t))
	_, err := loader.LoadBank(t.Context(), catalog.BankConditioning)
	if !errors.Is(err, catalog.ErrMissingName) {
		t.Fatalf("want ErrMissingName, got %v", err)
	}
}

func TestLoadBankFormats(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{
			name: "yaml",
			fsys: fstest.MapFS{"conditioning_bank.yaml": file(`
- name: Heavy Bag Tabata
  tags: [glycolytic]
  phases: SPP
  system: anaerobic
`)},
		},
		{
			name: "wrapped items",
			fsys: fstest.MapFS{"conditioning_bank.json": file(
				`{"items": [{"name": "Heavy Bag Tabata", "tags": ["glycolytic"], "phases": ["SPP"], "system": "lactic"}]}`)},
		},
		{
			name: "wrapped data",
			fsys: fstest.MapFS{"conditioning_bank.json": file(
				`{"data": [{"name": "Heavy Bag Tabata", "tags": ["glycolytic"], "phases": ["SPP"], "energy_system": "glycolytic"}]}`)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := catalog.NewLoader(tt.fsys, testhelpers.NewTestLogger(t))
			items, err := loader.LoadBank(t.Context(), catalog.BankConditioning)
			if err != nil {
				t.Fatalf("LoadBank: %v", err)
			}
			if len(items) != 1 {
				t.Fatalf("want 1 item, got %d", len(items))
			}
			if items[0].System != catalog.Glycolytic {
				t.Errorf("want glycolytic, got %s", items[0].System)
			}
			if diff := cmp.Diff([]catalog.Phase{catalog.SPP}, items[0].Phases); diff != "" {
				t.Errorf("phases mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadBankWarnsOnce(t *testing.T) {
	var buf bytes.Buffer
	fsys := fstest.MapFS{
		"conditioning_bank.json": file(`[{"name": "Mystery Drill", "tags": ["conditioning"], "phases": ["GPP"]}]`),
	}
	loader := catalog.NewLoader(fsys, testhelpers.NewLogger(&buf))
	items, err := loader.LoadBank(t.Context(), "conditioning_bank.json")
	if err != nil {
		t.Fatalf("LoadBank: %v", err)
	}
	if items[0].System != catalog.SystemUnknown {
		t.Errorf("want unknown system, got %s", items[0].System)
	}

	loader.Reset()
	if _, err = loader.LoadBank(t.Context(), "conditioning_bank.json"); err != nil {
		t.Fatalf("LoadBank after reset: %v", err)
	}
	if got := strings.Count(buf.String(), "missing system"); got != 2 {
		t.Errorf("want one warning per load after reset, got %d", got)
	}

	if _, err = loader.LoadBank(t.Context(), "conditioning_bank.json"); err != nil {
		t.Fatalf("cached LoadBank: %v", err)
	}
	if got := strings.Count(buf.String(), "missing system"); got != 2 {
		t.Errorf("cached load should not warn again, got %d warnings", got)
	}
}

func TestLoadCatalogOptionalBanks(t *testing.T) {
	loader := catalog.NewLoader(minimalFS(), testhelpers.NewTestLogger(t))
	cat, err := loader.LoadCatalog(t.Context())
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(cat.Exercises) != 1 || len(cat.Conditioning) != 1 {
		t.Errorf("want one exercise and one drill, got %d and %d", len(cat.Exercises), len(cat.Conditioning))
	}
	if len(cat.Rehab) != 0 || len(cat.Vocabulary) != 0 || len(cat.Exclusions) != 0 {
		t.Errorf("missing optional files should load empty")
	}
	if _, ok := cat.Lookup("Zone 2 Bike"); !ok {
		t.Errorf("Lookup did not find Zone 2 Bike")
	}
}

func TestLoadCatalogRequiredBank(t *testing.T) {
	fsys := minimalFS()
	delete(fsys, "exercise_bank.json")
	loader := catalog.NewLoader(fsys, testhelpers.NewTestLogger(t))
	if _, err := loader.LoadCatalog(t.Context()); !errors.Is(err, catalog.ErrBankNotFound) {
		t.Fatalf("want ErrBankNotFound, got %v", err)
	}
}

func TestDefaultBanks(t *testing.T) {
	loader := catalog.NewLoader(catalog.DefaultBanks(), testhelpers.NewTestLogger(t))
	cat, err := loader.LoadCatalog(t.Context())
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if findings := catalog.Audit(cat); len(findings) != 0 {
		t.Errorf("default banks have audit findings: %+v", findings)
	}
	for _, item := range cat.Conditioning {
		if !item.System.Known() {
			t.Errorf("%s has no energy system", item.Name)
		}
	}
	var coordination bool
	for _, item := range cat.Coordination {
		if item.Placement == "conditioning" && item.InPhase(catalog.GPP) {
			coordination = true
		}
	}
	if !coordination {
		t.Error("no coordination drill is placed in GPP conditioning")
	}
	if !cat.Excluded("knee", "Barbell Back Squat") {
		t.Error("exclusion map should list Barbell Back Squat for knee")
	}
}
