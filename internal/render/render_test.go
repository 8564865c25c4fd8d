package render_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/fightcamp/internal/plan"
	"github.com/myrjola/fightcamp/internal/render"
	"github.com/myrjola/fightcamp/internal/sqlite"
	"github.com/myrjola/fightcamp/internal/testhelpers"
)

const samplePlan = `# FIGHT CAMP PLAN

## PHASE 1: GPP – 3 WEEKS (21 DAYS)

### Strength & Power

**Week 1:** build the base.

- Trap Bar Deadlift – 4x5
- Copenhagen Plank – 3x20s

### Sparring & Conditioning Adjustments

| Situation | Adjustment |
|---|---|
| High fatigue | Drop one conditioning session |

<script>alert("x")</script>
`

func parse(t *testing.T, html []byte) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestPage(t *testing.T) {
	generated := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	page, err := render.New().Page("Fight Camp Plan – Jamie Doe", "Jamie Doe", samplePlan, generated)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	doc := parse(t, page)

	if got := doc.Find("title").Text(); got != "Fight Camp Plan – Jamie Doe" {
		t.Errorf("title = %q", got)
	}
	if got := doc.Find("main h1").Text(); got != "FIGHT CAMP PLAN" {
		t.Errorf("h1 = %q", got)
	}
	if got := doc.Find("main h2").First().Text(); got != "PHASE 1: GPP – 3 WEEKS (21 DAYS)" {
		t.Errorf("h2 = %q", got)
	}
	if got := doc.Find("main li").Length(); got != 2 {
		t.Errorf("want 2 list items, got %d", got)
	}
	if got := doc.Find("main strong").First().Text(); got != "Week 1:" {
		t.Errorf("strong = %q", got)
	}
	if got := doc.Find("main table tbody tr td").First().Text(); got != "High fatigue" {
		t.Errorf("first table cell = %q", got)
	}
	if doc.Find("script").Length() != 0 {
		t.Error("raw HTML from the plan text must not reach the page")
	}
	if got, _ := doc.Find("footer time").Attr("datetime"); got != "2025-01-06" {
		t.Errorf("generated datetime = %q", got)
	}
	if got := doc.Find("footer .athlete").Text(); got != "Jamie Doe" {
		t.Errorf("athlete = %q", got)
	}
}

func TestFragmentDropsRawHTML(t *testing.T) {
	fragment, err := render.New().Fragment("Avoid <b>deep</b> knee flexion & jumps")
	if err != nil {
		t.Fatalf("Fragment: %v", err)
	}
	if strings.Contains(string(fragment), "<b>") {
		t.Errorf("raw HTML passed through: %s", fragment)
	}
	if !strings.Contains(string(fragment), "&amp;") {
		t.Errorf("ampersand not escaped: %s", fragment)
	}
}

func TestArchivePublisher(t *testing.T) {
	ctx := t.Context()
	db, err := sqlite.NewDatabase(ctx, ":memory:", testhelpers.NewTestLogger(t))
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	plans := sqlite.NewPlanRepository(db)
	publisher := render.NewArchivePublisher(render.New(), plans, "https://plans.example/")

	url, err := publisher.Publish(ctx, plan.Document{
		Title:    "Fight Camp Plan – Jamie Doe",
		Athlete:  "Jamie Doe",
		Markdown: samplePlan,
		Output:   &plan.Output{PlanText: samplePlan, Seed: 42},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	id, found := strings.CutPrefix(url, "https://plans.example/plans/")
	if !found {
		t.Fatalf("url = %q", url)
	}
	archived, err := plans.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if archived.Seed != 42 || archived.Markdown != samplePlan || archived.Athlete != "Jamie Doe" {
		t.Errorf("archived = %+v", archived)
	}
	if got := parse(t, archived.HTML).Find("main h1").Text(); got != "FIGHT CAMP PLAN" {
		t.Errorf("archived page h1 = %q", got)
	}
	if !bytes.Contains(archived.Output, []byte(`"random_seed":42`)) {
		t.Errorf("archived output = %s", archived.Output)
	}
}

func TestDirPublisher(t *testing.T) {
	tests := []struct {
		name      string
		baseURL   string
		wantStart string
	}{
		{name: "public url", baseURL: "https://cdn.example/plans", wantStart: "https://cdn.example/plans/jamie-doe-"},
		{name: "file url", baseURL: "", wantStart: "file://"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")
			publisher := render.NewDirPublisher(render.New(), dir, tt.baseURL, testhelpers.NewTestLogger(t))
			url, err := publisher.Publish(t.Context(), plan.Document{
				Title:    "Fight Camp Plan – Jamie Doe",
				Athlete:  "Jamie Doe",
				Markdown: samplePlan,
				Output:   nil,
			})
			if err != nil {
				t.Fatalf("Publish: %v", err)
			}
			if !strings.HasPrefix(url, tt.wantStart) || !strings.HasSuffix(url, ".html") {
				t.Errorf("url = %q, want prefix %q", url, tt.wantStart)
			}
			files, err := filepath.Glob(filepath.Join(dir, "jamie-doe-*.html"))
			if err != nil || len(files) != 1 {
				t.Fatalf("want one written plan, got %v (%v)", files, err)
			}
			page, err := os.ReadFile(files[0])
			if err != nil {
				t.Fatalf("read plan: %v", err)
			}
			if got := parse(t, page).Find("title").Text(); got != "Fight Camp Plan – Jamie Doe" {
				t.Errorf("title = %q", got)
			}
		})
	}
}
