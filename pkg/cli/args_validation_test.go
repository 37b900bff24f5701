package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandArgValidation(t *testing.T) {
	dir := setupCLI(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "plan_without_files", args: []string{"plan"}, wantErr: "requires at least 1 arg(s)"},
		{name: "validate_has_no_role_filter", args: []string{"validate", "--role", "feed"}, wantErr: "unknown flag: --role"},
		{name: "register_without_files", args: []string{"register", "--schedule", "@hourly"}, wantErr: "requires at least 1 arg(s)"},
		{name: "roles_extra", args: []string{"roles", "master"}, wantErr: `unknown command "master"`},
		{name: "history_extra", args: []string{"history", "orders"}, wantErr: `unknown command "orders"`},
		{name: "commands_extra", args: []string{"commands", "--group", "feeds", "plan"}, wantErr: `unknown command "plan"`},
		{name: "version_extra", args: []string{"version", "extra"}, wantErr: `unknown command "extra"`},
		{name: "config_show_extra", args: []string{"config", "show", "default"}, wantErr: `unknown command "default"`},
		{name: "use_profile_without_name", args: []string{"config", "use-profile"}, wantErr: "accepts 1 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, dir, tt.args...)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
