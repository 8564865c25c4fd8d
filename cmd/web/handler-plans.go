package main

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/myrjola/fightcamp/internal/errors"
	"github.com/myrjola/fightcamp/internal/logging"
	"github.com/myrjola/fightcamp/internal/plan"
	"github.com/myrjola/fightcamp/internal/sqlite"
)

const (
	maxIntakeBytes   = 1 << 20
	defaultListLimit = 20
	maxListLimit     = 100
)

// planCreatePOST generates a plan from an intake payload and answers with the plan output.
func (app *application) planCreatePOST(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxIntakeBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		app.clientError(w, r, status, errors.Wrap(err, "read intake"))
		return
	}
	in, err := plan.ParseIntake(payload)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, err)
		return
	}
	ctx := logging.WithAttrs(r.Context(), slog.String("athlete", in.FullName))
	out, err := app.composer.Generate(ctx, in)
	if err != nil {
		app.serverError(w, r.WithContext(ctx), errors.Wrap(err, "generate plan"))
		return
	}
	// Without a configured public URL the archive returns a path on this server.
	if strings.HasPrefix(out.PDFURL, "/") {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		out.PDFURL = scheme + "://" + r.Host + out.PDFURL
	}
	if out.PDFURL != plan.PDFFailed {
		w.Header().Set("Location", out.PDFURL)
	}
	app.writeJSON(w, r, http.StatusCreated, out)
}

// planGET serves an archived plan page.
func (app *application) planGET(w http.ResponseWriter, r *http.Request) {
	p, err := app.plans.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, sqlite.ErrPlanNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "get plan"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(p.HTML)
}

type planSummary struct {
	ID        string    `json:"id"`
	Athlete   string    `json:"athlete"`
	Title     string    `json:"title"`
	Seed      uint64    `json:"random_seed"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// plansGET lists the most recently archived plans. The optional limit query parameter caps the count.
func (app *application) plansGET(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxListLimit {
			app.clientError(w, r, http.StatusBadRequest,
				errors.New("limit must be between 1 and 100", slog.String("limit", raw)))
			return
		}
		limit = n
	}
	plans, err := app.plans.List(r.Context(), limit)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "list plans"))
		return
	}
	summaries := make([]planSummary, 0, len(plans))
	for _, p := range plans {
		summaries = append(summaries, planSummary{
			ID:        p.ID,
			Athlete:   p.Athlete,
			Title:     p.Title,
			Seed:      p.Seed,
			URL:       "/plans/" + p.ID,
			CreatedAt: p.CreatedAt,
		})
	}
	app.writeJSON(w, r, http.StatusOK, summaries)
}
