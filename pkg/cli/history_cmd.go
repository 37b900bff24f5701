package cli

import (
	"os"

	"github.com/spf13/cobra"

	"feedlake/internal/db"
	"feedlake/internal/db/repository"
	"feedlake/internal/domain"
	"feedlake/internal/tablespec"
)

func newHistoryCmd(app *appState) *cobra.Command {
	var (
		filter     domain.DDLFilter
		planID     string
		statements bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded statements, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if filter.Role != "" {
				r, err := tablespec.ParseRole(filter.Role)
				if err != nil {
					return err
				}
				filter.Role = r.String()
			}

			historyDB, err := db.OpenHistory(cmd.Context(), app.cfg.HistoryDBPath)
			if err != nil {
				return err
			}
			defer historyDB.Close() //nolint:errcheck

			repo := repository.NewDDLHistoryRepo(historyDB)
			var records []domain.DDLRecord
			if planID != "" {
				records, err = repo.ListByPlan(cmd.Context(), planID)
			} else {
				records, err = repo.List(cmd.Context(), filter)
			}
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, toHistoryEntries(records))
			}
			columns := []string{"created", "plan", "table", "role", "status"}
			if statements {
				columns = append(columns, "statement")
			}
			rows := make([][]string, len(records))
			for i, r := range records {
				row := []string{
					r.CreatedAt.Format("2006-01-02 15:04:05"),
					r.PlanID,
					r.Category + "." + r.TableName,
					r.Role,
					string(r.Status),
				}
				if statements {
					row = append(row, r.Statement)
				}
				rows[i] = row
			}
			printTable(os.Stdout, columns, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Category, "category", "", "Only statements of this category")
	cmd.Flags().StringVar(&filter.Feed, "feed", "", "Only statements of this feed")
	cmd.Flags().StringVar(&filter.Role, "role", "", "Only statements of this table role")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "Maximum number of records (default 100)")
	cmd.Flags().StringVar(&planID, "plan", "", "Only statements of this plan, in registration order")
	cmd.Flags().BoolVar(&statements, "statements", false, "Include the full statement in table output")

	return cmd
}
