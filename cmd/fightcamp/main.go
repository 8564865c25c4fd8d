// Command fightcamp generates fight camp plans from intake files and inspects the exercise banks.
package main

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/envstruct"
	"github.com/myrjola/fightcamp/internal/errors"
	"github.com/myrjola/fightcamp/internal/logging"
	"github.com/spf13/cobra"
)

type config struct {
	// BankDir holds the exercise banks. Empty selects the banks bundled with the binary.
	BankDir string `env:"FIGHTCAMP_BANK_DIR" envDefault:""`
	// OutputDir receives rendered plans.
	OutputDir string `env:"FIGHTCAMP_OUTPUT_DIR" envDefault:"plans" validate:"required"`
	// PublicURL is where OutputDir is served from. Empty produces file URLs.
	PublicURL string `env:"FIGHTCAMP_PUBLIC_URL" envDefault:"" validate:"omitempty,url"`
}

type cli struct {
	lookupEnv func(string) (string, bool)
	verbose   bool
	cfg       config
	logger    *slog.Logger
}

func newRootCmd(lookupEnv func(string) (string, bool), stdout, stderr io.Writer) *cobra.Command {
	c := &cli{lookupEnv: lookupEnv, verbose: false, cfg: config{}, logger: nil}
	root := &cobra.Command{
		Use:           "fightcamp",
		Short:         "Generate fight camp training plans",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := "info"
			if c.verbose {
				level = "debug"
			}
			c.logger = logging.NewLogger(cmd.ErrOrStderr(), level)
			if err := envstruct.Populate(&c.cfg, c.lookupEnv); err != nil {
				return errors.Wrap(err, "populate config")
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log debug output")
	root.AddCommand(c.planCmd(), c.auditCmd(), c.calendarCmd())
	return root
}

func (c *cli) banks() fs.FS {
	if c.cfg.BankDir == "" {
		return catalog.DefaultBanks()
	}
	return os.DirFS(c.cfg.BankDir)
}

func (c *cli) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	cat, err := catalog.NewLoader(c.banks(), c.logger).LoadCatalog(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog", slog.String("bank_dir", c.cfg.BankDir))
	}
	return cat, nil
}

func main() {
	ctx := context.Background()
	if err := newRootCmd(os.LookupEnv, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		logger := logging.NewLogger(os.Stderr, "info")
		logger.LogAttrs(ctx, slog.LevelError, "fightcamp failed", errors.SlogError(err))
		os.Exit(1)
	}
}
