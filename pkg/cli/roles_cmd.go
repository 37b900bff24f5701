package cli

import (
	"os"

	"github.com/spf13/cobra"

	"feedlake/internal/tablespec"
)

type roleEntry struct {
	Role                      string `json:"role"`
	Suffix                    string `json:"suffix"`
	UsesPipelineTimePartition bool   `json:"uses_pipeline_time_partition"`
	UseTargetStorageFormat    bool   `json:"use_target_storage_format"`
	WidenToText               bool   `json:"widen_to_text"`
	AppendRejectionReason     bool   `json:"append_rejection_reason"`
}

func newRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "Show the managed table roles and their policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			roles := tablespec.Roles()
			entries := make([]roleEntry, len(roles))
			for i, r := range roles {
				p := r.Policy()
				entries[i] = roleEntry{
					Role:                      r.String(),
					Suffix:                    p.Suffix,
					UsesPipelineTimePartition: p.UsesPipelineTimePartition,
					UseTargetStorageFormat:    p.UseTargetStorageFormat,
					WidenToText:               p.WidenToText,
					AppendRejectionReason:     p.AppendRejectionReason,
				}
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, entries)
			}
			rows := make([][]string, len(entries))
			for i, e := range entries {
				suffix := e.Suffix
				if suffix == "" {
					suffix = "-"
				}
				rows[i] = []string{
					e.Role, suffix,
					yesNo(e.UsesPipelineTimePartition),
					yesNo(e.UseTargetStorageFormat),
					yesNo(e.WidenToText),
					yesNo(e.AppendRejectionReason),
				}
			}
			printTable(os.Stdout, []string{"role", "suffix", "time partition", "target format", "widen", "reject reason"}, rows)
			return nil
		},
	}
}
