package main

import (
	"log/slog"
	"net/http"

	"github.com/myrjola/fightcamp/internal/errors"
)

// healthy reports ok when the plan archive answers.
func (app *application) healthy(w http.ResponseWriter, r *http.Request) {
	if err := app.plans.Ping(r.Context()); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "archive unavailable", errors.SlogError(err))
		app.writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
