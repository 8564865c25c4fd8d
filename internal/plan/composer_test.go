package plan_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/errors"
	"github.com/myrjola/fightcamp/internal/plan"
	"github.com/myrjola/fightcamp/internal/selection"
	"github.com/myrjola/fightcamp/internal/testhelpers"
	"github.com/myrjola/fightcamp/internal/vocab"
)

//nolint:gochecknoglobals // fixed clock for every scenario.
var today = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

type fakePublisher struct {
	docs []plan.Document
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, doc plan.Document) (string, error) {
	p.docs = append(p.docs, doc)
	if p.err != nil {
		return "", p.err
	}
	return "https://plans.example/" + doc.Athlete, nil
}

func newComposer(t *testing.T, publisher plan.Publisher) *plan.Composer {
	t.Helper()
	c := plan.NewComposer(testhelpers.NewCatalog(t), publisher, testhelpers.NewTestLogger(t))
	c.Now = func() time.Time { return today }
	return c
}

func weeksOut(weeks int) time.Time {
	return today.Truncate(24*time.Hour).AddDate(0, 0, 7*weeks)
}

func seed(v uint64) *uint64 { return &v }

func shoulderPressureIntake() *plan.Intake {
	return &plan.Intake{
		FullName:       "Scenario One",
		TechnicalStyle: "MMA",
		TacticalStyles: []string{"Pressure Fighter"},
		FightDate:      weeksOut(8),
		Fatigue:        "moderate",
		Equipment:      []string{"Dumbbells", "Kettlebell", "Bands"},
		Injuries:       "shoulder pain",
		Goals:          []string{"Power", "Conditioning"},
		Seed:           seed(42),
	}
}

func generate(t *testing.T, c *plan.Composer, in *plan.Intake) *plan.Output {
	t.Helper()
	out, err := c.Generate(t.Context(), in)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return out
}

func names(whys []selection.Why) []string {
	out := make([]string, 0, len(whys))
	for _, w := range whys {
		out = append(out, w.Name)
	}
	return out
}

func TestGenerateShoulderPressureFighter(t *testing.T) {
	out := generate(t, newComposer(t, nil), shoulderPressureIntake())

	for _, header := range []string{
		"## PHASE 1: GPP – 3 WEEKS",
		"## PHASE 2: SPP – 4 WEEKS",
		"## PHASE 3: TAPER – 1 WEEKS",
	} {
		if !strings.Contains(out.PlanText, header) {
			t.Errorf("plan lacks %q", header)
		}
	}
	for phase, whys := range out.WhyLog.Strength {
		for _, name := range names(whys) {
			lower := strings.ToLower(name)
			for _, banned := range []string{"overhead", "bench press", "push press"} {
				if strings.Contains(lower, banned) {
					t.Errorf("%s strength includes %s", phase, name)
				}
			}
		}
	}
	spp := make(map[string]int)
	for _, why := range out.WhyLog.Conditioning[catalog.SPP] {
		spp[why.System]++
	}
	if spp["glycolytic"] < spp["alactic"] || spp["alactic"] < spp["aerobic"] {
		t.Errorf("SPP conditioning should favour glycolytic over alactic over aerobic, got %v", spp)
	}
	if !strings.Contains(out.CoachNotes, "**Shoulder**") {
		t.Errorf("coach notes lack the shoulder summary:\n%s", out.CoachNotes)
	}
	if out.Seed != 42 || out.PDFURL != "" {
		t.Errorf("seed %d, url %q", out.Seed, out.PDFURL)
	}
}

func TestGenerateLayout(t *testing.T) {
	out := generate(t, newComposer(t, nil), shoulderPressureIntake())
	text := out.PlanText

	order := []string{
		"# FIGHT CAMP PLAN\n",
		"## PHASE 1: GPP",
		"### Mindset Focus",
		"### Strength & Power",
		"### Conditioning",
		"### Injury Guardrails",
		"## PHASE 2: SPP",
		"## PHASE 3: TAPER",
		"## Nutrition",
		"## Recovery",
		"## Rehab Protocols",
		"## Mindset Overview",
		"### Sparring & Conditioning Adjustments",
		"## Athlete Profile",
	}
	pos := 0
	for _, heading := range order {
		i := strings.Index(text[pos:], heading)
		if i < 0 {
			t.Fatalf("%q missing or out of order", heading)
		}
		pos += i + len(heading)
	}
	if !strings.HasPrefix(text, "# FIGHT CAMP PLAN\n") {
		t.Errorf("plan does not start with the title")
	}
	if strings.Contains(text, "\n\n\n\n") {
		t.Error("plan has more than two consecutive blank lines")
	}
	if !strings.Contains(text, "**Week 1:**") {
		t.Error("week labels are not bold")
	}
	if strings.Contains(text, "- Week 1:") {
		t.Error("found an unbolded week label")
	}
}

func TestGenerateWithoutInjuriesOmitsGuardrails(t *testing.T) {
	in := shoulderPressureIntake()
	in.Injuries = "none"
	out := generate(t, newComposer(t, nil), in)
	for _, heading := range []string{"### Injury Guardrails", "## Rehab Protocols"} {
		if strings.Contains(out.PlanText, heading) {
			t.Errorf("plan without injuries contains %q", heading)
		}
	}
	if len(out.Substitutions) != 0 {
		t.Errorf("unexpected substitutions %+v", out.Substitutions)
	}
}

func TestGenerateShortBoxingCamp(t *testing.T) {
	in := &plan.Intake{
		FullName:       "Scenario Two",
		TechnicalStyle: "Boxing",
		TacticalStyles: []string{"Counter Striker"},
		FightDate:      weeksOut(2),
		Fatigue:        "low",
		Equipment:      []string{"Heavy bag", "Jump rope", "Dumbbells", "Bands"},
		Injuries:       "achilles tendonitis",
		Goals:          []string{"Speed"},
		Seed:           seed(7),
	}
	out := generate(t, newComposer(t, nil), in)
	if strings.Contains(out.PlanText, ": GPP –") {
		t.Error("a two week camp has no GPP phase")
	}
	for _, header := range []string{"## PHASE 1: SPP – 1 WEEKS", "## PHASE 2: TAPER – 1 WEEKS"} {
		if !strings.Contains(out.PlanText, header) {
			t.Errorf("plan lacks %q", header)
		}
	}
	forbidden := []string{"depth jump", "drop jump", "max sprint", "wrestling", "bjj", "grappling", "sprawl"}
	for _, logs := range []map[catalog.Phase][]selection.Why{out.WhyLog.Strength, out.WhyLog.Conditioning} {
		for phase, whys := range logs {
			for _, name := range names(whys) {
				lower := strings.ToLower(name)
				for _, f := range forbidden {
					if strings.Contains(lower, f) {
						t.Errorf("%s: %s contains %q", phase, name, f)
					}
				}
			}
		}
	}
	for phase, whys := range out.WhyLog.Conditioning {
		for _, why := range whys {
			if vocab.SportBoxing.Bans(why.Name, nil) {
				t.Errorf("%s: %s is not a boxing drill", phase, why.Name)
			}
		}
	}
}

func TestGenerateProfessionalCalendar(t *testing.T) {
	in := &plan.Intake{
		FullName:       "Scenario Three",
		TechnicalStyle: "MMA",
		Status:         "Pro",
		FightDate:      weeksOut(12),
		Fatigue:        "low",
		WeightKG:       80,
		TargetWeightKG: 77.6,
		MentalBlocks:   []string{"confidence"},
		Seed:           seed(3),
	}
	pro := in.Athlete(today)
	amateur := *in
	amateur.Status = "Amateur"
	base := amateur.Athlete(today)

	if shift := pro.Calendar.Ratios.SPP - base.Calendar.Ratios.SPP; shift < 0.099 || shift > 0.101 {
		t.Errorf("pro SPP shift = %.3f, want 0.10", shift)
	}
	w := pro.Calendar.Weeks
	if w.Sum() != 12 || w.TAPER > 2 || w.GPP < 1 || w.SPP < 1 || w.TAPER < 1 {
		t.Errorf("calendar weeks = %+v", w)
	}
	if pro.WeightCutRisk {
		t.Errorf("a %.1f%% cut is not a weight-cut risk", pro.WeightCutPct)
	}

	out := generate(t, newComposer(t, nil), in)
	if !strings.Contains(out.PlanText, "Confidence:") {
		t.Error("mindset sections do not address the confidence blocker")
	}
}

func TestGenerateHamstringGPP(t *testing.T) {
	in := &plan.Intake{
		FullName:       "Scenario Four",
		TechnicalStyle: "MMA",
		TacticalStyles: []string{"Grappler"},
		FightDate:      weeksOut(10),
		Fatigue:        "moderate",
		Equipment:      []string{"Barbell", "Dumbbells", "Kettlebell", "Bench", "Trap bar", "Sled"},
		Injuries:       "hamstring strain",
		Goals:          []string{"Strength"},
		Seed:           seed(4),
	}
	out := generate(t, newComposer(t, nil), in)
	keywords := []string{"rdl", "romanian deadlift", "nordic", "ham curl", "sprint", "good morning"}
	for _, name := range names(out.WhyLog.Strength[catalog.GPP]) {
		if hits := vocab.NewText(name).Matches(keywords); len(hits) > 0 {
			t.Errorf("GPP strength includes %s (matches %v)", name, hits)
		}
	}
	if len(out.WhyLog.Strength[catalog.GPP]) == 0 {
		t.Error("GPP strength is empty")
	}
}

func TestGenerateIsReproducible(t *testing.T) {
	c := newComposer(t, nil)
	first := generate(t, c, shoulderPressureIntake())
	again := generate(t, c, shoulderPressureIntake())
	if first.PlanText != again.PlanText {
		t.Fatal("two seeded calls produced different plans")
	}

	unseeded := shoulderPressureIntake()
	unseeded.Seed = nil
	if out := generate(t, c, unseeded); out.PlanText == "" {
		t.Fatal("unseeded plan is empty")
	}

	after := generate(t, c, shoulderPressureIntake())
	if first.PlanText != after.PlanText {
		t.Error("an unseeded call changed the output of a later seeded call")
	}
}

func TestGenerateCoordinationGoal(t *testing.T) {
	cat := testhelpers.NewCatalog(t)
	in := &plan.Intake{
		FullName:       "Scenario Six",
		TechnicalStyle: "Muay Thai",
		TacticalStyles: []string{"Kicker"},
		FightDate:      weeksOut(8),
		Fatigue:        "moderate",
		Equipment:      []string{"Kettlebell"},
		Goals:          []string{"Coordination"},
		Seed:           seed(6),
	}
	out := generate(t, newComposer(t, nil), in)
	var found bool
	for _, name := range names(out.WhyLog.Conditioning[catalog.GPP]) {
		item, ok := cat.Lookup(name)
		if ok && item.Bank == catalog.BankCoordination && item.InPhase(catalog.GPP) && item.Placement == "conditioning" {
			found = true
		}
	}
	if !found {
		t.Errorf("GPP conditioning has no coordination drill: %v", names(out.WhyLog.Conditioning[catalog.GPP]))
	}
}

func TestGeneratePublishes(t *testing.T) {
	publisher := &fakePublisher{}
	out := generate(t, newComposer(t, publisher), shoulderPressureIntake())
	if out.PDFURL != "https://plans.example/Scenario One" {
		t.Errorf("url = %q", out.PDFURL)
	}
	if len(publisher.docs) != 1 {
		t.Fatalf("want one published document, got %d", len(publisher.docs))
	}
	doc := publisher.docs[0]
	if doc.Markdown != out.PlanText || !strings.Contains(doc.Title, "Scenario One") {
		t.Errorf("published document %q does not match the plan", doc.Title)
	}
}

func TestGeneratePublishFailure(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("upload refused")}
	out := generate(t, newComposer(t, publisher), shoulderPressureIntake())
	if out.PDFURL != plan.PDFFailed {
		t.Errorf("url = %q, want %q", out.PDFURL, plan.PDFFailed)
	}
	if out.PlanText == "" || out.CoachNotes == "" {
		t.Error("a publishing failure must leave the rest of the output intact")
	}
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if _, err := newComposer(t, nil).Generate(ctx, shoulderPressureIntake()); !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", err)
	}
}
