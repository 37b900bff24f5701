package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"feedlake/internal/db"
	"feedlake/internal/db/repository"
	"feedlake/internal/domain"
	"feedlake/internal/feed"
	"feedlake/internal/ingest"
	"feedlake/internal/tablespec"
)

func newRegisterCmd(app *appState) *cobra.Command {
	var (
		roles              []tablespec.Role
		allowUnknownFields bool
		schedule           string
	)

	cmd := &cobra.Command{
		Use:   "register FILE...",
		Short: "Plan feeds and record their statements in the DDL history",
		Long: `Plans every feed like "plan" and records each statement in the local DDL
history with status "planned", so later runs can be compared against it.
No statement is executed: the applied and failed statuses are only written by
programs that embed the ingest package with a metastore connection.

With --schedule the command keeps running and repeats the registration on the
given cron schedule, re-reading the feed files each time.`,
		Example: `  feedlake register feeds/*.yaml
  feedlake register feeds/*.yaml --schedule "@every 15m"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			historyDB, err := db.OpenHistory(cmd.Context(), app.cfg.HistoryDBPath)
			if err != nil {
				return err
			}
			defer historyDB.Close() //nolint:errcheck

			registrar := ingest.NewRegistrar(nil, repository.NewDDLHistoryRepo(historyDB), app.logger)
			planner := ingest.NewPlanner(app.cfg, app.logger)

			if schedule != "" {
				return runScheduled(cmd.Context(), app, schedule, func(ctx context.Context) error {
					defs, verrs, err := feed.LoadDefinitions(args, feed.LoadOptions{AllowUnknownFields: allowUnknownFields})
					if err != nil {
						return err
					}
					if len(verrs) > 0 {
						for _, ve := range verrs {
							app.logger.Warn("invalid feed definition", "error", ve.Error())
						}
						return fmt.Errorf("%d validation error(s)", len(verrs))
					}
					_, err = registerFeeds(ctx, planner, registrar, defs, roles)
					return err
				})
			}

			defs, err := loadFeeds(cmd, args, allowUnknownFields)
			if err != nil {
				return err
			}
			recorded, err := registerFeeds(cmd.Context(), planner, registrar, defs, roles)
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, toHistoryEntries(recorded))
			}
			rows := make([][]string, len(recorded))
			for i, r := range recorded {
				rows[i] = []string{r.PlanID, r.Category + "." + r.TableName, r.Role, string(r.Status)}
			}
			printTable(os.Stdout, []string{"plan", "table", "role", "status"}, rows)
			return nil
		},
	}

	addRoleFlag(cmd, &roles)
	cmd.Flags().BoolVar(&allowUnknownFields, "allow-unknown-fields", false, "Allow unknown YAML fields in feed definitions")
	cmd.Flags().StringVar(&schedule, "schedule", "", `Repeat on a cron schedule, e.g. "@every 15m" or "0 * * * *"`)

	return cmd
}

func registerFeeds(ctx context.Context, planner *ingest.Planner, registrar *ingest.Registrar, defs []*feed.Definition, roles []tablespec.Role) ([]domain.DDLRecord, error) {
	plans, err := planner.PlanAll(ctx, defs)
	if err != nil {
		return nil, err
	}

	var recorded []domain.DDLRecord
	for _, p := range plans {
		records, err := registrar.Register(ctx, p.Filter(roles...))
		recorded = append(recorded, records...)
		if err != nil {
			return recorded, fmt.Errorf("register %s.%s: %w", p.Category, p.Feed, err)
		}
	}
	return recorded, nil
}

// runScheduled runs job once, then on schedule until interrupted.
func runScheduled(parent context.Context, app *appState, schedule string, job ingest.Job) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := ingest.NewScheduler(ctx, app.logger)
	if err := scheduler.Schedule("register", schedule, job); err != nil {
		return err
	}
	if err := job(ctx); err != nil {
		app.logger.Warn("registration failed", "error", err)
	}

	scheduler.Start()
	<-ctx.Done()
	scheduler.Stop()
	return nil
}
