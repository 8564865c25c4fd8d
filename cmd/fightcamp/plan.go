package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/myrjola/fightcamp/internal/errors"
	"github.com/myrjola/fightcamp/internal/plan"
	"github.com/myrjola/fightcamp/internal/render"
	"github.com/spf13/cobra"
)

const defaultIntakeFile = "test_data.json"

func (c *cli) planCmd() *cobra.Command {
	var (
		seed      uint64
		today     string
		printText bool
		printJSON bool
	)
	cmd := &cobra.Command{
		Use:   "plan [file]",
		Short: "Generate a plan from an intake file (default " + defaultIntakeFile + ")",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			file := defaultIntakeFile
			if len(args) == 1 {
				file = args[0]
			}
			payload, err := os.ReadFile(file)
			if err != nil {
				return errors.Wrap(err, "read intake", slog.String("file", file))
			}
			in, err := plan.ParseIntake(payload)
			if err != nil {
				return errors.Wrap(err, "parse intake", slog.String("file", file))
			}
			if cmd.Flags().Changed("seed") {
				in.Seed = &seed
			}
			cat, err := c.loadCatalog(ctx)
			if err != nil {
				return err
			}
			publisher := render.NewDirPublisher(render.New(), c.cfg.OutputDir, c.cfg.PublicURL, c.logger)
			composer := plan.NewComposer(cat, publisher, c.logger)
			if today != "" {
				anchor, parseErr := time.Parse(time.DateOnly, today)
				if parseErr != nil {
					return errors.Wrap(parseErr, "parse --today", slog.String("today", today))
				}
				composer.Now = func() time.Time { return anchor }
			}
			out, err := composer.Generate(ctx, in)
			if err != nil {
				return errors.Wrap(err, "generate plan")
			}

			w := cmd.OutOrStdout()
			switch {
			case printJSON:
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err = enc.Encode(out); err != nil {
					return errors.Wrap(err, "encode output")
				}
			case printText:
				fmt.Fprint(w, out.PlanText)
			}
			fmt.Fprintf(w, "::notice title=Fight Camp Plan::%s\n", out.PDFURL)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed, overrides the intake's random_seed")
	cmd.Flags().StringVar(&today, "today", "", "date the camp starts from, YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&printText, "markdown", false, "print the plan text")
	cmd.Flags().BoolVar(&printJSON, "json", false, "print the full output as JSON")
	cmd.MarkFlagsMutuallyExclusive("markdown", "json")
	return cmd
}
