package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/envstruct"
	"github.com/myrjola/fightcamp/internal/errors"
	"github.com/myrjola/fightcamp/internal/logging"
	"github.com/myrjola/fightcamp/internal/plan"
	"github.com/myrjola/fightcamp/internal/render"
	"github.com/myrjola/fightcamp/internal/sqlite"
)

type application struct {
	logger   *slog.Logger
	composer *plan.Composer
	plans    *sqlite.PlanRepository
	// requestTimeout bounds a single request, plan generation included.
	requestTimeout time.Duration
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"FIGHTCAMP_ADDR" envDefault:"localhost:8081" validate:"required"`
	// SqliteURL is the plan archive. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"FIGHTCAMP_SQLITE_URL" envDefault:"./fightcamp.sqlite3" validate:"required"`
	// BankDir holds the exercise banks. Empty selects the banks bundled with the binary.
	BankDir string `env:"FIGHTCAMP_BANK_DIR" envDefault:""`
	// PublicURL prefixes archived plan links. Empty links are resolved against the request host.
	PublicURL string `env:"FIGHTCAMP_PUBLIC_URL" envDefault:"" validate:"omitempty,url"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `env:"FIGHTCAMP_LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	var banks fs.FS = catalog.DefaultBanks()
	if cfg.BankDir != "" {
		banks = os.DirFS(cfg.BankDir)
	}
	cat, err := catalog.NewLoader(banks, logger).LoadCatalog(ctx)
	if err != nil {
		return errors.Wrap(err, "load catalog", slog.String("bank_dir", cfg.BankDir))
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close db", errors.SlogError(closeErr))
		}
	}()
	plans := sqlite.NewPlanRepository(db)

	app := application{
		logger:         logger,
		composer:       plan.NewComposer(cat, render.NewArchivePublisher(render.New(), plans, cfg.PublicURL), logger),
		plans:          plans,
		requestTimeout: defaultTimeout,
	}
	if err = app.configureAndStartServer(ctx, cfg.Addr, app.routes()); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func main() {
	ctx := context.Background()
	level, _ := os.LookupEnv("FIGHTCAMP_LOG_LEVEL")
	logger := logging.NewLogger(os.Stdout, level)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
