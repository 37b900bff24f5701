package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const ordersFeedYAML = `apiVersion: feedlake/v1
kind: Feed
metadata:
  category: sales
  name: orders
spec:
  fields:
    - name: id
      type: int
      comment: order id
    - name: amount
      type: decimal(10,2)
    - name: region
      type: string
  partitions:
    - name: region
      type: string
`

// captureStdout redirects os.Stdout to a pipe and returns a function
// that restores stdout and returns the captured output.
// Uses a goroutine to read concurrently, avoiding pipe buffer deadlocks.
func captureStdout(t *testing.T) func() string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w

	// Read concurrently to avoid pipe buffer deadlock on large outputs
	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		_, _ = buf.ReadFrom(r)
		close(done)
	}()

	return func() string {
		_ = w.Close()
		<-done
		os.Stdout = old
		return buf.String()
	}
}

// containsIgnoreCase checks if s contains substr (case-insensitive).
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// setupCLI isolates HOME and the feedlake environment and returns a scratch
// directory.
func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, k := range []string{
		"FEEDLAKE_BASE_LOCATION", "FEEDLAKE_FEED_FORMAT", "FEEDLAKE_TARGET_FORMAT",
		"FEEDLAKE_TARGET_TBLPROPERTIES", "FEEDLAKE_HISTORY_DB", "FEEDLAKE_OUTPUT",
		"LOG_LEVEL", "ENV",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv("FEEDLAKE_HISTORY_DB", filepath.Join(dir, "history.sqlite"))
	return dir
}

// runCLI executes the root command with args and returns captured stdout.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	rootCmd := newRootCmd()
	rootCmd.SetArgs(append([]string{"--env-file", filepath.Join(dir, "missing.env")}, args...))
	done := captureStdout(t)
	err := rootCmd.Execute()
	return done(), err
}

func writeFeedFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
