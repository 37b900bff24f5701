package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"feedlake/internal/domain"
	"feedlake/internal/feed"
	"feedlake/internal/tablespec"
)

// reportedError marks a failure whose diagnostics the command already
// printed. Execute exits non-zero without printing it again.
type reportedError struct {
	msg string
}

func (e *reportedError) Error() string { return e.msg }

// loadFeeds loads and validates the feed files in paths. Validation errors
// are printed in the requested output format.
func loadFeeds(cmd *cobra.Command, paths []string, allowUnknownFields bool) ([]*feed.Definition, error) {
	defs, verrs, err := feed.LoadDefinitions(paths, feed.LoadOptions{AllowUnknownFields: allowUnknownFields})
	if err != nil {
		return nil, fmt.Errorf("load feeds: %w", err)
	}
	if len(verrs) == 0 {
		return defs, nil
	}

	if getOutputFormat(cmd) == "json" {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		if err := printJSON(os.Stdout, map[string]interface{}{
			"valid":  false,
			"errors": msgs,
		}); err != nil {
			return nil, err
		}
	} else {
		fmt.Fprintf(os.Stderr, "Feed definitions have %d validation error(s):\n", len(verrs))
		for _, ve := range verrs {
			fmt.Fprintf(os.Stderr, "  - %s\n", ve.Error())
		}
	}
	return nil, &reportedError{msg: fmt.Sprintf("%d validation error(s)", len(verrs))}
}

// roleListValue is a repeatable, comma-separated --role flag.
type roleListValue struct {
	roles *[]tablespec.Role
}

func newRoleListValue(p *[]tablespec.Role) *roleListValue {
	return &roleListValue{roles: p}
}

func (v *roleListValue) String() string {
	names := make([]string, len(*v.roles))
	for i, r := range *v.roles {
		names[i] = r.String()
	}
	return strings.Join(names, ",")
}

func (v *roleListValue) Set(s string) error {
	for _, token := range strings.Split(s, ",") {
		r, err := tablespec.ParseRole(token)
		if err != nil {
			return err
		}
		if !containsRole(*v.roles, r) {
			*v.roles = append(*v.roles, r)
		}
	}
	return nil
}

func (v *roleListValue) Type() string { return "roles" }

func containsRole(roles []tablespec.Role, r tablespec.Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}

func addRoleFlag(cmd *cobra.Command, p *[]tablespec.Role) {
	cmd.Flags().Var(newRoleListValue(p), "role", "Restrict to table roles (feed, valid, invalid, master, profile); repeatable or comma-separated")
	_ = cmd.RegisterFlagCompletionFunc("role", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		roles := tablespec.Roles()
		tokens := make([]string, len(roles))
		for i, r := range roles {
			tokens[i] = r.String()
		}
		return tokens, cobra.ShellCompDirectiveNoFileComp
	})
}

// historyEntry is the output form of a DDL history record.
type historyEntry struct {
	ID        string    `json:"id"`
	PlanID    string    `json:"plan_id"`
	Category  string    `json:"category"`
	Feed      string    `json:"feed"`
	Role      string    `json:"role"`
	TableName string    `json:"table_name"`
	Statement string    `json:"statement"`
	Status    string    `json:"status"`
	Error     *string   `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toHistoryEntries(records []domain.DDLRecord) []historyEntry {
	out := make([]historyEntry, len(records))
	for i, r := range records {
		out[i] = historyEntry{
			ID:        r.ID,
			PlanID:    r.PlanID,
			Category:  r.Category,
			Feed:      r.Feed,
			Role:      r.Role,
			TableName: r.TableName,
			Statement: r.Statement,
			Status:    string(r.Status),
			Error:     r.Error,
			CreatedAt: r.CreatedAt,
		}
	}
	return out
}
