package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Command groups shown by --help and by the commands command.
const (
	groupFeeds   = "feeds"
	groupTables  = "tables"
	groupHistory = "history"
	groupSetup   = "setup"
)

var commandGroups = []struct {
	id    string
	title string
}{
	{groupFeeds, "Feed Commands:"},
	{groupTables, "Table Role Commands:"},
	{groupHistory, "DDL History Commands:"},
	{groupSetup, "Setup Commands:"},
}

func addToGroup(root *cobra.Command, group string, cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.GroupID = group
		root.AddCommand(c)
	}
}

// commandInfo describes one runnable command.
type commandInfo struct {
	Path       string     `json:"path"`
	Group      string     `json:"group"`
	Usage      string     `json:"usage"`
	Summary    string     `json:"summary"`
	ReadsFeeds bool       `json:"reads_feeds"`
	RoleFilter bool       `json:"role_filter"`
	Flags      []flagInfo `json:"flags,omitempty"`
}

type flagInfo struct {
	Name      string `json:"name"`
	Shorthand string `json:"shorthand,omitempty"`
	Type      string `json:"type"`
	Default   string `json:"default,omitempty"`
	Usage     string `json:"usage"`
}

func newCommandsCmd() *cobra.Command {
	var (
		group     string
		feedsOnly bool
	)

	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List commands by group, with the feed files and roles they accept",
		Long: `Lists every runnable command grouped as in --help. Commands that read feed
definition files and commands that accept --role are marked, so scripts can
tell which commands take the same FILE... and role arguments as plan.`,
		Example: `  feedlake commands
  feedlake commands --group feeds
  feedlake commands --feed-files -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if group != "" && !slices.Contains(groupIDs(), group) {
				return fmt.Errorf("unknown group %q (expected one of %s)", group, strings.Join(groupIDs(), ", "))
			}

			var infos []commandInfo
			for _, info := range describeCommands(cmd.Root()) {
				if group != "" && info.Group != group {
					continue
				}
				if feedsOnly && !info.ReadsFeeds {
					continue
				}
				infos = append(infos, info)
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, infos)
			}
			rows := make([][]string, 0, len(infos))
			for _, info := range infos {
				rows = append(rows, []string{info.Group, info.Usage, yesNo(info.ReadsFeeds), yesNo(info.RoleFilter), info.Summary})
			}
			printTable(os.Stdout, []string{"group", "usage", "feeds", "roles", "summary"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "Only list commands of this group ("+strings.Join(groupIDs(), ", ")+")")
	cmd.Flags().BoolVar(&feedsOnly, "feed-files", false, "Only list commands that read feed definition files")
	_ = cmd.RegisterFlagCompletionFunc("group", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return groupIDs(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func groupIDs() []string {
	ids := make([]string, len(commandGroups))
	for i, g := range commandGroups {
		ids[i] = g.id
	}
	return ids
}

// describeCommands returns the runnable commands under root ordered by group,
// then by path. Subcommands inherit the group of their top-level command.
func describeCommands(root *cobra.Command) []commandInfo {
	var infos []commandInfo
	var walk func(c *cobra.Command, group string)
	walk = func(c *cobra.Command, group string) {
		for _, child := range c.Commands() {
			if !child.IsAvailableCommand() || child.Name() == "completion" {
				continue
			}
			g := group
			if g == "" {
				g = child.GroupID
			}
			if child.HasAvailableSubCommands() {
				walk(child, g)
				continue
			}
			path := strings.TrimPrefix(child.CommandPath(), root.Name()+" ")
			infos = append(infos, commandInfo{
				Path:       path,
				Group:      g,
				Usage:      strings.TrimPrefix(child.UseLine(), root.Name()+" "),
				Summary:    child.Short,
				ReadsFeeds: strings.Contains(child.Use, "FILE"),
				RoleFilter: child.Flags().Lookup("role") != nil,
				Flags:      localFlags(child),
			})
		}
	}
	walk(root, "")

	rank := make(map[string]int, len(commandGroups))
	for i, g := range commandGroups {
		rank[g.id] = i
	}
	slices.SortStableFunc(infos, func(a, b commandInfo) int {
		if d := rank[a.Group] - rank[b.Group]; d != 0 {
			return d
		}
		return strings.Compare(a.Path, b.Path)
	})
	return infos
}

// localFlags lists the flags a command defines itself; global flags are the
// same everywhere and are left out.
func localFlags(c *cobra.Command) []flagInfo {
	var flags []flagInfo
	c.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		flags = append(flags, flagInfo{
			Name:      f.Name,
			Shorthand: f.Shorthand,
			Type:      f.Value.Type(),
			Default:   f.DefValue,
			Usage:     f.Usage,
		})
	})
	return flags
}
