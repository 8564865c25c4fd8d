package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/fightcamp/internal/calendar"
	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/plan"
)

func execute(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()
	lookupEnv := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(lookupEnv, &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	t.Log(stderr.String())
	return stdout.String(), err
}

func TestPlanCommand(t *testing.T) {
	dir := t.TempDir()
	env := map[string]string{"FIGHTCAMP_OUTPUT_DIR": dir}
	stdout, err := execute(t, env, "plan", "../../test_data.json", "--today", "2025-01-06")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !strings.HasPrefix(stdout, "::notice title=Fight Camp Plan::file://") {
		t.Errorf("stdout = %q", stdout)
	}
	files, err := filepath.Glob(filepath.Join(dir, "jamie-doe-*.html"))
	if err != nil || len(files) != 1 {
		t.Fatalf("want one rendered plan, got %v (%v)", files, err)
	}
	page, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("read plan: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		t.Fatalf("parse plan: %v", err)
	}
	if got := doc.Find("main h1").Text(); got != "FIGHT CAMP PLAN" {
		t.Errorf("h1 = %q", got)
	}
	if doc.Find("main h2").Length() < 3 {
		t.Errorf("want phase headings in the rendered plan, got %d h2", doc.Find("main h2").Length())
	}
}

func TestPlanCommandJSONIsReproducible(t *testing.T) {
	env := map[string]string{"FIGHTCAMP_OUTPUT_DIR": t.TempDir(), "FIGHTCAMP_PUBLIC_URL": "https://plans.example"}
	run := func() plan.Output {
		stdout, err := execute(t, env, "plan", "../../test_data.json", "--today", "2025-01-06", "--seed", "9", "--json")
		if err != nil {
			t.Fatalf("plan: %v", err)
		}
		body, _, _ := strings.Cut(stdout, "::notice")
		var out plan.Output
		if err = json.Unmarshal([]byte(body), &out); err != nil {
			t.Fatalf("decode output: %v", err)
		}
		return out
	}
	first, second := run(), run()
	if first.Seed != 9 {
		t.Errorf("seed = %d, want 9", first.Seed)
	}
	if first.PlanText != second.PlanText {
		t.Error("the same seed produced different plans")
	}
	if !strings.HasPrefix(first.PDFURL, "https://plans.example/jamie-doe-") {
		t.Errorf("pdf_url = %q", first.PDFURL)
	}
}

func TestPlanCommandErrors(t *testing.T) {
	env := map[string]string{"FIGHTCAMP_OUTPUT_DIR": t.TempDir()}
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing file", args: []string{"plan", "does-not-exist.json"}},
		{name: "bad today", args: []string{"plan", "../../test_data.json", "--today", "tomorrow"}},
		{name: "too many args", args: []string{"plan", "a.json", "b.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, env, tt.args...); err == nil {
				t.Error("want an error")
			}
		})
	}
}

func TestCalendarCommand(t *testing.T) {
	stdout, err := execute(t, nil, "calendar", "--weeks", "8", "--sport", "MMA", "--style", "Pressure Fighter", "--json")
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	var cal calendar.Calendar
	if err = json.Unmarshal([]byte(stdout), &cal); err != nil {
		t.Fatalf("decode calendar: %v", err)
	}
	if diff := cmp.Diff(calendar.Split[int]{GPP: 3, SPP: 4, TAPER: 1}, cal.Weeks); diff != "" {
		t.Errorf("weeks mismatch (-want +got):\n%s", diff)
	}

	text, err := execute(t, nil, "calendar", "--weeks", "8")
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(text), "\n"); len(lines) != 3 || !strings.HasPrefix(lines[0], "GPP") {
		t.Errorf("text output = %q", text)
	}

	if _, err = execute(t, nil, "calendar", "--weeks", "40"); err == nil {
		t.Error("want an error for a 40 week camp")
	}
}

func TestAuditCommand(t *testing.T) {
	stdout, err := execute(t, nil, "audit", "--json")
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	var findings []catalog.Finding
	if err = json.Unmarshal([]byte(stdout), &findings); err != nil {
		t.Fatalf("decode findings: %v", err)
	}
	for _, f := range findings {
		if f.Bank == "" || f.Issue == "" {
			t.Errorf("incomplete finding %+v", f)
		}
	}
}
