package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/myrjola/fightcamp/internal/athlete"
	"github.com/myrjola/fightcamp/internal/calendar"
	"github.com/myrjola/fightcamp/internal/errors"
	"github.com/myrjola/fightcamp/internal/vocab"
	"github.com/spf13/cobra"
)

func (c *cli) calendarCmd() *cobra.Command {
	var (
		weeks     int
		sport     string
		styles    []string
		status    string
		fatigue   string
		weightCut float64
		mental    string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the GPP, SPP and TAPER split for a camp",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if weeks < calendar.MinCampWeeks || weeks > calendar.MaxCampWeeks {
				return errors.New("--weeks out of range", slog.Int("weeks", weeks),
					slog.Int("min", calendar.MinCampWeeks), slog.Int("max", calendar.MaxCampWeeks))
			}
			cal := calendar.Compute(calendar.Input{
				CampWeeks:     weeks,
				Sport:         vocab.ParseSport(sport),
				Styles:        vocab.CanonicalStyles(styles),
				Status:        strings.ToLower(strings.TrimSpace(status)),
				Fatigue:       vocab.ParseFatigue(fatigue),
				WeightCutRisk: weightCut >= athlete.HeavyCutPct,
				MentalBlock:   mental,
				WeightCutPct:  weightCut,
			})
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return errors.Wrap(enc.Encode(cal), "encode calendar")
			}
			for _, phase := range cal.Active() {
				fmt.Fprintf(w, "%-5s %2d weeks %3d days  ratio %.2f\n", phase,
					cal.Weeks.Get(phase), cal.Days.Get(phase), cal.Ratios.Get(phase))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&weeks, "weeks", 8, "camp length in weeks") //nolint:mnd // default camp.
	cmd.Flags().StringVar(&sport, "sport", "mma", "mma, boxing, muay thai or kickboxing")
	cmd.Flags().StringSliceVar(&styles, "style", nil, "tactical style, repeatable")
	cmd.Flags().StringVar(&status, "status", "amateur", "amateur or pro")
	cmd.Flags().StringVar(&fatigue, "fatigue", "moderate", "low, moderate or high")
	cmd.Flags().Float64Var(&weightCut, "weight-cut", 0, "planned weight cut in percent of body weight")
	cmd.Flags().StringVar(&mental, "mental-block", "", "main mental blocker")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the calendar as JSON")
	return cmd
}
