// Package cli implements the feedlake command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"feedlake/internal/config"
)

var (
	version = "dev"
	commit  = "none"
)

// appState is resolved once per invocation by the root command and shared
// with every subcommand.
type appState struct {
	cfg    *config.Config
	logger *slog.Logger
}

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		var reported *reportedError
		if errors.As(err, &reported) {
			return 1
		}
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			_ = printJSON(os.Stdout, map[string]interface{}{"error": err.Error()})
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		output       string
		profile      string
		envFile      string
		baseLocation string
		historyDB    string
		logLevel     string
	)
	app := &appState{}

	rootCmd := &cobra.Command{
		Use:   "feedlake",
		Short: "Managed Hive table planner for data feeds",
		Long: `Derives the CREATE TABLE statements of the five managed tables of a feed
(feed, valid, invalid, master, profile) and records them in a local DDL history.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			userCfg, err := LoadUserConfig()
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				userCfg = defaultUserConfig()
			}
			p, err := userCfg.ActiveProfile(profile)
			if err != nil {
				return err
			}

			// Precedence: flag > env > profile > default
			if !cmd.Flags().Changed("output") {
				if v := os.Getenv("FEEDLAKE_OUTPUT"); v != "" {
					output = v
				} else if p.Output != "" {
					output = p.Output
				}
			}
			if err := validateOutputFormat(output); err != nil {
				return err
			}

			if err := config.LoadDotEnv(envFile); err != nil {
				return fmt.Errorf("load env file: %w", err)
			}

			var o config.Overrides
			if _, set := os.LookupEnv("FEEDLAKE_BASE_LOCATION"); !set {
				o.BaseLocation = p.BaseLocation
			}
			if _, set := os.LookupEnv("FEEDLAKE_HISTORY_DB"); !set {
				o.HistoryDBPath = p.HistoryDB
			}
			if cmd.Flags().Changed("base-location") {
				o.BaseLocation = baseLocation
			}
			if cmd.Flags().Changed("history-db") {
				o.HistoryDBPath = historyDB
			}
			if cmd.Flags().Changed("log-level") {
				o.LogLevel = logLevel
			}
			cfg, err := config.Load(o)
			if err != nil {
				return err
			}

			app.cfg = cfg
			app.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
			for _, w := range cfg.Warnings {
				app.logger.Warn(w)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Config profile to use")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before the process environment is read")
	rootCmd.PersistentFlags().StringVar(&baseLocation, "base-location", "", "Root location for table data (overrides FEEDLAKE_BASE_LOCATION)")
	rootCmd.PersistentFlags().StringVar(&historyDB, "history-db", "", "Path to the DDL history database (overrides FEEDLAKE_HISTORY_DB)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	for _, g := range commandGroups {
		rootCmd.AddGroup(&cobra.Group{ID: g.id, Title: g.title})
	}
	addToGroup(rootCmd, groupFeeds, newValidateCmd(), newPlanCmd(app), newRegisterCmd(app))
	addToGroup(rootCmd, groupTables, newRolesCmd())
	addToGroup(rootCmd, groupHistory, newHistoryCmd(app))
	addToGroup(rootCmd, groupSetup, newConfigCmd(), newVersionCmd(), newCommandsCmd(), newCompletionCmd())
	rootCmd.SetHelpCommandGroupID(groupSetup)

	return rootCmd
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
	return cmd
}
