package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/myrjola/fightcamp/internal/catalog"
	"github.com/myrjola/fightcamp/internal/errors"
	"github.com/spf13/cobra"
)

var errAuditFindings = errors.NewSentinel("audit reported findings")

func (c *cli) auditCmd() *cobra.Command {
	var (
		asJSON bool
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Report unknown tags, inferred tags and dangling exclusions in the banks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := c.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			findings := catalog.Audit(cat)
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err = enc.Encode(findings); err != nil {
					return errors.Wrap(err, "encode findings")
				}
			} else {
				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0) //nolint:mnd // column padding.
				fmt.Fprintln(tw, "BANK\tITEM\tISSUE\tDETAIL")
				for _, f := range findings {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Bank, f.Item, f.Issue, f.Detail)
				}
				if err = tw.Flush(); err != nil {
					return errors.Wrap(err, "flush findings")
				}
				fmt.Fprintf(w, "%d findings\n", len(findings))
			}
			if strict && len(findings) > 0 {
				return errAuditFindings
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print findings as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when there are findings")
	return cmd
}
