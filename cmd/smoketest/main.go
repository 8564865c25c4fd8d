// Command smoketest checks a deployed fightcamp server end to end: it waits for the health check, posts an
// intake and fetches the archived plan page.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/myrjola/fightcamp/internal/e2etest"
	"github.com/myrjola/fightcamp/internal/errors"
	"github.com/myrjola/fightcamp/internal/logging"
	"github.com/myrjola/fightcamp/internal/plan"
)

const defaultIntakeFile = "test_data.json"

func smokeTest(ctx context.Context, client *e2etest.Client, intake []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second) //nolint:mnd // generous for cold starts.
	defer cancel()

	var out plan.Output
	if err := client.DecodeJSON(ctx, "/api/plans", intake, http.StatusCreated, &out); err != nil {
		return errors.Wrap(err, "create plan")
	}
	if !strings.HasPrefix(out.PlanText, "# FIGHT CAMP PLAN") {
		return errors.New("response carries no plan text")
	}
	link, err := url.Parse(out.PDFURL)
	if err != nil {
		return errors.Wrap(err, "parse pdf_url", slog.String("pdf_url", out.PDFURL))
	}
	doc, err := client.GetDoc(ctx, link.Path)
	if err != nil {
		return errors.Wrap(err, "get plan page", slog.String("path", link.Path))
	}
	if doc.Find("main h1").Length() == 0 {
		return errors.New("plan page has no heading", slog.String("path", link.Path))
	}
	return nil
}

func main() {
	logger := logging.NewLogger(os.Stdout, "debug")
	ctx := context.Background()

	if len(os.Args) < 2 || len(os.Args) > 3 { //nolint:mnd // hostname and optional intake file.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname> [intake.json]")
		os.Exit(1)
	}
	var (
		hostname = os.Args[1]
		file     = defaultIntakeFile
		start    = time.Now()
	)
	if len(os.Args) == 3 { //nolint:mnd // intake file given.
		file = os.Args[2]
	}
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	base := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		base = "http://" + hostname
	}

	intake, err := os.ReadFile(file)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "read intake", errors.SlogError(errors.Wrap(err, "read file")))
		os.Exit(1)
	}
	client := e2etest.NewClient(base)
	if err = client.WaitForReady(ctx, "/api/healthy", 10*time.Second); err != nil { //nolint:mnd // deploys are slow.
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", errors.SlogError(err))
		os.Exit(1)
	}
	if err = smokeTest(ctx, client, intake); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "smoke test failed", errors.SlogError(err))
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
}
