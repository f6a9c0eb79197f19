package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultCSV = `Version;Testid;Git commit;Execution time
;;;Arithmetic Mean
1.0;t1;%s;100
1.0;t2;%s;400
select all;t1;%s;1
`

func writeResults(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := []struct {
		name, commit string
		age          time.Duration
	}{
		{"benchmark_1_Anonymize.csv", "abc", 0},
		{"benchmark_2_Anonymize.csv", "def", time.Hour},
		{"benchmark_1_Load.csv", "abc", 0},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		content := strings.ReplaceAll(resultCSV, "%s", f.commit)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		mtime := time.Now().Add(-24 * time.Hour).Add(f.age)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootSubcommands(t *testing.T) {
	have := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		have[c.Name()] = true
	}
	for _, want := range []string{"plot", "list", "stat"} {
		if !have[want] {
			t.Fatalf("missing subcommand %s", want)
		}
	}
}

func TestCommandsHaveDescriptions(t *testing.T) {
	var check func(*cobra.Command)
	check = func(cmd *cobra.Command) {
		if cmd.Short == "" || cmd.Long == "" {
			t.Fatalf("command %s missing Short/Long", cmd.Name())
		}
		for _, sc := range cmd.Commands() {
			if sc.Name() == "help" || sc.Name() == "completion" {
				continue
			}
			check(sc)
		}
	}
	check(newRootCmd())
}

func TestList(t *testing.T) {
	dir := writeResults(t)
	out, err := execute(t, "list", "--dir", dir, "--versions", "1", "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "3 result files, 2 titles")
	lines := strings.Split(out, "\n")
	var rows []string
	for _, l := range lines {
		if strings.HasPrefix(l, "Load") || strings.HasPrefix(l, "Anonymize") {
			rows = append(rows, strings.Join(strings.Fields(l), " "))
		}
	}
	require.Len(t, rows, 3)
	assert.True(t, strings.HasPrefix(rows[0], "Load benchmark_1_Load.csv"), rows[0])
	assert.True(t, strings.HasPrefix(rows[1], "Anonymize benchmark_2_Anonymize.csv"), rows[1])
	assert.True(t, strings.HasSuffix(rows[1], "yes"), rows[1])
	assert.True(t, strings.HasSuffix(rows[2], "no"), rows[2])
}

func TestStat(t *testing.T) {
	dir := writeResults(t)
	tmp := t.TempDir()
	out, err := execute(t, "stat", "--dir", dir, "--temp-dir", tmp, "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "GeoMean")
	assert.Contains(t, out, "Anonymize")
	assert.Contains(t, out, "250.000") // mean of 100 and 400
	assert.Contains(t, out, "200.000") // geometric mean
	assert.NotContains(t, out, "select all")

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPlot(t *testing.T) {
	dir := writeResults(t)
	tmp := t.TempDir()
	_, err := execute(t, "plot", "--dir", dir, "--temp-dir", tmp, "--format", "svg", "--log-level", "error")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "result.svg"))
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPlotConfigFile(t *testing.T) {
	dir := writeResults(t)
	cfgFile := filepath.Join(t.TempDir(), "benchhist.yaml")
	conf := "result_directory: " + dir + "\noutput_name: report\nrender:\n  format: png\nlayout:\n  log_y: false\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(conf), 0644))

	_, err := execute(t, "plot", "--config", cfgFile, "--temp-dir", t.TempDir(), "--log-level", "error")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "report.png"))
	assert.NoError(t, err)
}

func TestEnvironmentConfig(t *testing.T) {
	dir := writeResults(t)
	t.Setenv("BENCHHIST_RESULT_DIRECTORY", dir)
	t.Setenv("BENCHHIST_FILENAME_PREFIX", "nomatch_")

	_, err := execute(t, "list", "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no result files found")
}

func TestInvalidOptions(t *testing.T) {
	dir := writeResults(t)
	_, err := execute(t, "list", "--dir", dir, "--log-level", "loud")
	assert.Error(t, err)

	_, err = execute(t, "list", "--dir", dir, "--order", "random", "--log-level", "error")
	assert.Error(t, err)

	_, err = execute(t, "plot", "--dir", filepath.Join(dir, "missing"), "--log-level", "error")
	assert.Error(t, err)
}
