package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := newCLIApp()
	a.Writer = &stdout
	a.ErrWriter = &stderr
	a.ExitErrHandler = func(*cli.Context, error) {}
	err := a.Run(append([]string{"ultistats"}, args...))
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPcodeCommand(t *testing.T) {
	path := writeFile(t, "roster.txt", "Justin Kay\n\nKa Jal\nSu\n")

	out, _, err := runCLI(t, "pcode", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, []string{"JUS,Justin Kay", "KAJ,Ka Jal", "SU,Su"}, lines)
}

func TestAnalyzeCommand(t *testing.T) {
	path := writeFile(t, "passes.txt", "JUS-KAJ*\nDAN-NIM(P)\n")

	out, _, err := runCLI(t, "analyze", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	require.Equal(t, []string{"CODE", "CATCH", "DROP", "THROW", "SNATCH", "FOUL"}, strings.Fields(lines[0]))
	require.Equal(t, []string{"JUS", "0", "0", "1", "0", "0"}, strings.Fields(lines[1]))
	require.Equal(t, []string{"KAJ", "1", "1", "0", "0", "0"}, strings.Fields(lines[2]))
	require.Equal(t, []string{"DAN", "0", "0", "1", "0", "0"}, strings.Fields(lines[3]))
	require.Equal(t, []string{"NIM", "1", "0", "0", "0", "0"}, strings.Fields(lines[4]))
	require.Equal(t, "Points: 1", lines[5])
}

func TestCommandsRequireArguments(t *testing.T) {
	for _, cmd := range [][]string{{"pcode"}, {"analyze"}, {"import"}, {"team", "add"}} {
		_, _, err := runCLI(t, cmd...)
		require.Error(t, err, cmd)
		require.Contains(t, err.Error(), "usage:")
	}
}

func TestAnalyzeMissingFile(t *testing.T) {
	_, _, err := runCLI(t, "analyze", filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
