package bench

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRenderer records what it is asked to render.
type testRenderer struct {
	tempDir string
	err     error
	panic   bool

	groups    []PlotGroup
	path      string
	tempFiles int
}

func (r *testRenderer) Render(groups []PlotGroup, path string) error {
	r.groups, r.path = groups, path
	entries, _ := os.ReadDir(r.tempDir)
	r.tempFiles = len(entries)
	if r.panic {
		panic("render failed")
	}
	return r.err
}

func testConfig(t *testing.T) Config {
	dir := t.TempDir()
	writeResult(t, dir, "benchmark_1_A.csv", seriesCSV, 0)
	writeResult(t, dir, "benchmark_2_A.csv", seriesCSV, time.Hour)
	writeResult(t, dir, "benchmark_1_B.csv", seriesCSV, 0)

	cfg := DefaultConfig()
	cfg.ResultDirectory = dir
	cfg.TempDir = t.TempDir()
	return cfg
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	r := &testRenderer{tempDir: cfg.TempDir}
	require.NoError(t, Run(cfg, r))

	assert.Equal(t, filepath.Join(cfg.ResultDirectory, "result"), r.path)
	assert.Equal(t, 2, r.tempFiles)
	require.Len(t, r.groups, 2)
	assert.Equal(t, "B", r.groups[0].Title)
	assert.Equal(t, "A", r.groups[1].Title)
	assert.Equal(t, cfg.Layout, r.groups[1].Layout)
	assert.Equal(t, []string{"abc", "def"}, r.groups[1].Series.Groups())
	assertEmptyDir(t, cfg.TempDir)
}

func TestRunRenderError(t *testing.T) {
	cfg := testConfig(t)
	renderErr := errors.New("no gnuplot")
	r := &testRenderer{tempDir: cfg.TempDir, err: renderErr}

	err := Run(cfg, r)
	assert.ErrorIs(t, err, renderErr)
	assert.Equal(t, 2, r.tempFiles)
	assertEmptyDir(t, cfg.TempDir)
}

func TestRunRenderPanic(t *testing.T) {
	cfg := testConfig(t)
	r := &testRenderer{tempDir: cfg.TempDir, panic: true}

	assert.Panics(t, func() { Run(cfg, r) })
	assert.Equal(t, 2, r.tempFiles)
	assertEmptyDir(t, cfg.TempDir)
}

func TestRunBadSeries(t *testing.T) {
	cfg := testConfig(t)
	cfg.Columns.Value = "Memory"
	r := &testRenderer{tempDir: cfg.TempDir}

	assert.ErrorIs(t, Run(cfg, r), ErrUnknownField)
	assert.Nil(t, r.groups)
	assertEmptyDir(t, cfg.TempDir)
}

func TestRunNoResults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResultDirectory = t.TempDir()
	cfg.TempDir = t.TempDir()
	r := &testRenderer{tempDir: cfg.TempDir}

	assert.ErrorIs(t, Run(cfg, r), ErrNoResultsFound)
	assert.Nil(t, r.groups)
}
