package cli_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"sharptask/internal/cli"
)

// runCLI invokes the CLI with the given arguments and environment and
// returns stdout, stderr and the exit code.
func runCLI(t *testing.T, env map[string]string, args ...string) (string, string, int) {
	t.Helper()

	if env == nil {
		env = map[string]string{"HOME": t.TempDir()}
	}

	var stdout, stderr bytes.Buffer

	code := cli.Run(strings.NewReader(""), &stdout, &stderr, append([]string{"sharptask"}, args...), env)

	return stdout.String(), stderr.String(), code
}

func Test_Run_PrintsUsage_When_NoArguments(t *testing.T) {
	t.Parallel()

	stdout, _, code := runCLI(t, nil)

	require.Equal(t, 0, code)
	require.Contains(t, stdout, "Usage: sharptask")
	require.Contains(t, stdout, "push")
	require.Contains(t, stdout, "pull")
	require.Contains(t, stdout, "print-config")
}

func Test_Run_PrintsUsage_When_HelpRequested(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{{"--help"}, {"-h"}, {"help"}} {
		stdout, _, code := runCLI(t, nil, args...)

		require.Equal(t, 0, code)
		require.Contains(t, stdout, "Usage: sharptask")
	}
}

func Test_Run_Fails_When_FlagIsUnknown(t *testing.T) {
	t.Parallel()

	stdout, stderr, code := runCLI(t, nil, "--invalid-flag", "push")

	require.Equal(t, 1, code)
	require.Empty(t, stdout)
	require.Contains(t, stderr, "unknown flag")
	require.Contains(t, stderr, "invalid-flag")
}

func Test_Run_Fails_When_CommandIsUnknown(t *testing.T) {
	t.Parallel()

	_, stderr, code := runCLI(t, nil, "frobnicate")

	require.Equal(t, 1, code)
	require.Contains(t, stderr, "unknown command: frobnicate")
	require.Contains(t, stderr, "Usage: sharptask")
}

func Test_Run_Fails_When_ExplicitConfigIsMissing(t *testing.T) {
	t.Parallel()

	home := t.TempDir()

	_, stderr, code := runCLI(t, map[string]string{"HOME": home},
		"-c", filepath.Join(home, "nope.json"), "print-config")

	require.Equal(t, 1, code)
	require.Contains(t, stderr, "config file not found")
}

func Test_PrintConfig_ShowsResolvedValues_And_Sources(t *testing.T) {
	t.Parallel()

	home := t.TempDir()

	stdout, _, code := runCLI(t, map[string]string{"HOME": home},
		"--task-db", "/tmp/tasks.sqlite3", "-v", "/tmp/vault", "--tz", "UTC", "print-config")

	require.Equal(t, 0, code)
	require.Contains(t, stdout, `"task_db": "/tmp/tasks.sqlite3"`)
	require.Contains(t, stdout, `"vault_dir": "/tmp/vault"`)
	require.Contains(t, stdout, `"timezone": "UTC"`)
	require.Contains(t, stdout, "(using defaults only)")
}

func Test_Push_Fails_When_NoTargetIsGiven(t *testing.T) {
	t.Parallel()

	_, stderr, code := runCLI(t, nil, "--task-db", filepath.Join(t.TempDir(), "t.sqlite3"), "push")

	require.Equal(t, 1, code)
	require.Contains(t, stderr, "nothing to process")
}
