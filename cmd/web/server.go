package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/myrjola/fightcamp/internal/e2etest"
	"github.com/myrjola/fightcamp/internal/errors"
)

const (
	defaultTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// configureAndStartServer serves handler on addr until ctx is done, then shuts down gracefully.
func (app *application) configureAndStartServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{ //nolint:exhaustruct // defaults are fine for the rest.
		ErrorLog:          slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
		Handler:           handler,
		IdleTimeout:       time.Minute,
		ReadTimeout:       defaultTimeout,
		WriteTimeout:      defaultTimeout + time.Second,
		ReadHeaderTimeout: time.Second,
	}
	shutdownComplete := make(chan struct{})
	go func() {
		defer close(shutdownComplete)
		<-ctx.Done()
		app.logger.LogAttrs(context.WithoutCancel(ctx), slog.LevelInfo, "shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.LogAttrs(shutdownCtx, slog.LevelError, "shut down server",
				errors.SlogError(errors.Wrap(err, "shutdown")))
		}
	}()

	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr) //nolint:exhaustruct // defaults.
	if err != nil {
		return errors.Wrap(err, "listen", slog.String("addr", addr))
	}
	app.logger.LogAttrs(ctx, slog.LevelInfo, "starting server", slog.String(e2etest.LogAddrKey, listener.Addr().String()))
	if err = srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve")
	}
	<-shutdownComplete
	return nil
}
