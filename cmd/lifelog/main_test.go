package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifelog/internal/core"
)

func setupEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_BACKEND", "file")
	t.Setenv("DATA_FILE_PATH", filepath.Join(dir, "lifelog.json"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("AMQP_URL", "")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")
}

// run executes the root command with fresh global flags and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	assumeYes, asJSON = false, false
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestStreakCommandsPersistBetweenRuns(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "", "streak", "add", "Read", "daily", "--json")
	require.NoError(t, err)
	var st core.Streak
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, core.ID(1), st.ID)
	assert.Equal(t, "Read daily", st.Title)
	assert.Equal(t, 1, st.Count)

	out, err = run(t, "", "streak", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Read daily")
	assert.Contains(t, out, "from now")

	out, err = run(t, "n\n", "streak", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")

	out, err = run(t, "", "streak", "delete", "1", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted streak 1")

	out, err = run(t, "", "streak", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No streaks yet.")
}

func TestMoneyCommands(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "", "money", "add", "Stipend", "-a", "100", "-c", "academics", "-t", "income")
	require.NoError(t, err)
	_, err = run(t, "", "money", "add", "Lunch", "-a", "12.50", "-c", "food", "-t", "expense")
	require.NoError(t, err)

	out, err := run(t, "", "money", "balance")
	require.NoError(t, err)
	assert.Contains(t, out, "87.50")

	_, err = run(t, "", "money", "add", "Broken", "--amount=-3", "-c", "food", "-t", "expense")
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = run(t, "", "money", "list", "-c", "pets")
	assert.ErrorIs(t, err, core.ErrInvalidCategory)
}

func TestJournalWriteAndShow(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "", "journal", "write", "--date", "2025-01-02", "--title", "Thursday", "Long", "walk")
	require.NoError(t, err)

	out, err := run(t, "", "journal", "show", "2025-01-02")
	require.NoError(t, err)
	assert.Contains(t, out, "Thursday")
	assert.Contains(t, out, "Long walk")

	_, err = run(t, "", "journal", "show", "2025-01-03")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSeedAndDashboard(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "", "seed", "--yes")
	require.NoError(t, err)

	out, err := run(t, "", "dashboard", "--json")
	require.NoError(t, err)
	var d core.Dashboard
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.NotZero(t, d.Streaks)
	assert.NotNil(t, d.LatestJournal)
}

func TestImportFromStdinNeedsYes(t *testing.T) {
	setupEnv(t)

	_, err := run(t, `{"streak":[]}`, "import", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	out, err := run(t, `{"streak":[]}`, "import", "-", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 0 streaks")
}
