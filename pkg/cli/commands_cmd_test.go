package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listCommands(t *testing.T, args ...string) []commandInfo {
	t.Helper()
	dir := setupCLI(t)

	output, err := runCLI(t, dir, append([]string{"-o", "json", "commands"}, args...)...)
	require.NoError(t, err)

	var infos []commandInfo
	require.NoError(t, json.Unmarshal([]byte(output), &infos), "output should be valid JSON")
	return infos
}

func commandPaths(infos []commandInfo) []string {
	paths := make([]string, len(infos))
	for i, info := range infos {
		paths[i] = info.Path
	}
	return paths
}

func TestCommands_Table(t *testing.T) {
	dir := setupCLI(t)

	output, err := runCLI(t, dir, "commands")
	require.NoError(t, err)
	assert.Contains(t, output, "GROUP")
	assert.Contains(t, output, "plan FILE... [flags]")
	assert.Contains(t, output, "config set-profile")
}

func TestCommands_OrderedByGroup(t *testing.T) {
	infos := listCommands(t)

	assert.Equal(t, []string{
		"plan", "register", "validate",
		"roles",
		"history",
		"commands", "config set-profile", "config show", "config use-profile", "version",
	}, commandPaths(infos))
	assert.Equal(t, groupFeeds, infos[0].Group)
	assert.Equal(t, groupSetup, infos[len(infos)-1].Group)
}

func TestCommands_GroupFilter(t *testing.T) {
	tests := []struct {
		group string
		want  []string
	}{
		{group: groupFeeds, want: []string{"plan", "register", "validate"}},
		{group: groupHistory, want: []string{"history"}},
		{group: groupSetup, want: []string{"commands", "config set-profile", "config show", "config use-profile", "version"}},
	}

	for _, tt := range tests {
		t.Run(tt.group, func(t *testing.T) {
			infos := listCommands(t, "--group", tt.group)
			assert.Equal(t, tt.want, commandPaths(infos))
			for _, info := range infos {
				assert.Equal(t, tt.group, info.Group)
			}
		})
	}
}

func TestCommands_UnknownGroup(t *testing.T) {
	dir := setupCLI(t)

	_, err := runCLI(t, dir, "commands", "--group", "agents")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown group "agents"`)
}

func TestCommands_FeedFiles(t *testing.T) {
	infos := listCommands(t, "--feed-files")
	assert.Equal(t, []string{"plan", "register", "validate"}, commandPaths(infos))

	byPath := make(map[string]commandInfo, len(infos))
	for _, info := range infos {
		assert.True(t, info.ReadsFeeds, info.Path)
		byPath[info.Path] = info
	}
	assert.True(t, byPath["plan"].RoleFilter)
	assert.True(t, byPath["register"].RoleFilter)
	assert.False(t, byPath["validate"].RoleFilter)
}

func TestCommands_LocalFlagsOnly(t *testing.T) {
	infos := listCommands(t, "--group", groupFeeds)

	for _, info := range infos {
		if info.Path != "plan" {
			continue
		}
		names := make(map[string]flagInfo, len(info.Flags))
		for _, f := range info.Flags {
			names[f.Name] = f
		}
		require.Contains(t, names, "role")
		assert.Equal(t, "roles", names["role"].Type)
		assert.Contains(t, names, "annotate")
		assert.NotContains(t, names, "output", "global flags are not repeated per command")
		assert.NotContains(t, names, "help")
		return
	}
	t.Fatal("plan command not listed")
}

func TestRootHelp_ShowsGroups(t *testing.T) {
	dir := setupCLI(t)

	output, err := runCLI(t, dir, "--help")
	require.NoError(t, err)
	for _, g := range commandGroups {
		assert.Contains(t, output, g.title)
	}
}
