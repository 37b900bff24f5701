package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var allowUnknownFields bool

	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate feed definition files offline",
		Long:  "Reads feed definition files and checks them for errors without planning or recording any statement.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := loadFeeds(cmd, args, allowUnknownFields)
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				feeds := make([]string, len(defs))
				for i, d := range defs {
					feeds[i] = d.Key()
				}
				return printJSON(os.Stdout, map[string]interface{}{
					"valid": true,
					"feeds": feeds,
				})
			}
			_, _ = fmt.Fprintf(os.Stdout, "%d feed definition(s) are valid.\n", len(defs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowUnknownFields, "allow-unknown-fields", false, "Allow unknown YAML fields in feed definitions")

	return cmd
}
