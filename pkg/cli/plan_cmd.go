package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"feedlake/internal/ingest"
	"feedlake/internal/tablespec"
)

func newPlanCmd(app *appState) *cobra.Command {
	var (
		roles              []tablespec.Role
		allowUnknownFields bool
		annotate           bool
	)

	cmd := &cobra.Command{
		Use:   "plan FILE...",
		Short: "Print the CREATE TABLE statements of each feed",
		Long: `Loads and validates feed definitions, then prints the statements for the
managed tables of every feed. Statements are separated by semicolons so the
output can be piped to a Hive client.`,
		Example: `  # Every table of every feed in a directory
  feedlake plan feeds/*.yaml

  # Only the landing and master tables, as JSON
  feedlake plan feeds/orders.yaml --role feed,master -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := loadFeeds(cmd, args, allowUnknownFields)
			if err != nil {
				return err
			}

			plans, err := ingest.NewPlanner(app.cfg, app.logger).PlanAll(cmd.Context(), defs)
			if err != nil {
				return err
			}
			for i, p := range plans {
				plans[i] = p.Filter(roles...)
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, plans)
			}
			if !cmd.Flags().Changed("annotate") {
				annotate = term.IsTerminal(int(os.Stdout.Fd()))
			}
			writeStatements(os.Stdout, plans, annotate)
			return nil
		},
	}

	addRoleFlag(cmd, &roles)
	cmd.Flags().BoolVar(&allowUnknownFields, "allow-unknown-fields", false, "Allow unknown YAML fields in feed definitions")
	cmd.Flags().BoolVar(&annotate, "annotate", false, "Precede each statement with a comment naming its table and partition formulas (default when stdout is a terminal)")

	return cmd
}

func writeStatements(w io.Writer, plans []*ingest.Plan, annotate bool) {
	for _, p := range plans {
		for _, s := range p.Statements {
			if annotate {
				_, _ = fmt.Fprintf(w, "-- %s.%s %s table (plan %s)\n", p.Category, p.Feed, s.RoleName, p.ID)
				if !s.Role.Policy().UsesPipelineTimePartition {
					for _, pf := range p.Partitions {
						_, _ = fmt.Fprintf(w, "--   partition %s %s = %s\n", pf.Column, pf.Type, pf.Formula)
					}
				}
			}
			_, _ = fmt.Fprintf(w, "%s;\n", s.Statement)
		}
	}
}
