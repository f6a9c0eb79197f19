package bench

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// headerLines is the number of leading lines dropped from every merged
// source file except the first one.
const headerLines = 2

const defaultMaxLineSize = 1024 * 1024

var ErrNoResultsFound = errors.New("no result files found")

// ReadError is reported for a source file that could not be read.
// It does not abort the merge.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string { return fmt.Sprintf("reading %s: %v", e.Path, e.Err) }
func (e *ReadError) Unwrap() error { return e.Err }

// OutputError is returned when a merged output cannot be created or written.
type OutputError struct {
	Title string
	Path  string
	Err   error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("writing merged output for %q (%s): %v", e.Title, e.Path, e.Err)
}
func (e *OutputError) Unwrap() error { return e.Err }

// ResultFile is a benchmark result file found in the result directory.
type ResultFile struct {
	Path    string
	Name    Name
	ModTime time.Time
	Size    int64
}

// MergeGroup holds the result files of one title in merge order.
type MergeGroup struct {
	Title string
	Files []ResultFile
}

// MergedOutput is a temporary file holding the concatenated rows of a group.
type MergedOutput struct {
	Title      string
	Path       string
	Sources    []ResultFile // files that were merged, including unreadable ones
	Skipped    []ResultFile // files beyond the cap
	ReadErrors []*ReadError
	Lines      int
	Size       int64
}

// Outputs is the result of an aggregation. Call Remove when done with it.
type Outputs []*MergedOutput

// Remove deletes all merged output files.
func (outs Outputs) Remove() error {
	catcher := grip.NewBasicCatcher()
	for _, out := range outs {
		if err := os.Remove(out.Path); err != nil && !os.IsNotExist(err) {
			catcher.Add(errors.Wrapf(err, "removing merged output for %q", out.Title))
		}
	}
	return catcher.Resolve()
}

// Aggregator merges result files per title.
type Aggregator struct {
	Prefix      string // required file name prefix, case-insensitive
	Cap         int    // max files merged per title, 0 means unlimited
	Order       Order
	TempDir     string // directory for merged outputs, os.TempDir() if empty
	MaxLineSize int    // longest accepted source line in bytes
}

// Aggregate merges the result files in dir, keeping at most maxVersions
// files per title.
func Aggregate(dir, prefix string, maxVersions int) (Outputs, error) {
	a := &Aggregator{Prefix: prefix, Cap: maxVersions}
	return a.Aggregate(dir)
}

// Discover lists the result files in dir in merge order: title descending,
// then by modification time as selected by a.Order.
func (a *Aggregator) Discover(dir string) ([]ResultFile, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(ErrNoResultsFound, "at %s (%v)", abs, err)
	}

	ix := newTitleIndex(a.Order)
	for _, e := range entries {
		if e.IsDir() || !hasPrefixFold(e.Name(), a.Prefix) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		info, err := e.Info()
		if err != nil {
			grip.Warning(message.WrapError(err, message.Fields{
				"message": "result file disappeared while listing",
				"file":    path,
			}))
			continue
		}
		name, err := ParseName(e.Name(), a.Prefix)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", path)
		}
		f := ResultFile{Path: path, Name: name, ModTime: info.ModTime(), Size: info.Size()}
		if err := ix.add(f); err != nil {
			return nil, errors.Wrapf(err, "indexing %s", path)
		}
	}
	if ix.len() == 0 {
		return nil, errors.Wrapf(ErrNoResultsFound, "at %s", abs)
	}
	return ix.sorted()
}

// GroupByTitle partitions files by title. Groups appear in the order their
// title is first seen, files keep their relative order.
func GroupByTitle(files []ResultFile) []MergeGroup {
	var (
		groups []MergeGroup
		pos    = make(map[string]int)
	)
	for _, f := range files {
		i, ok := pos[f.Name.Title]
		if !ok {
			i = len(groups)
			pos[f.Name.Title] = i
			groups = append(groups, MergeGroup{Title: f.Name.Title})
		}
		groups[i].Files = append(groups[i].Files, f)
	}
	return groups
}

// Aggregate discovers the result files in dir and merges each title group.
// On error, outputs created so far are removed.
func (a *Aggregator) Aggregate(dir string) (Outputs, error) {
	files, err := a.Discover(dir)
	if err != nil {
		return nil, err
	}
	var outs Outputs
	for _, g := range GroupByTitle(files) {
		out, err := a.Merge(g)
		if err != nil {
			grip.Warning(message.WrapError(outs.Remove(), message.Fields{
				"message": "removing merged outputs after failed aggregation",
			}))
			return nil, err
		}
		outs = append(outs, out)
	}
	return outs, nil
}

// Merge writes the group's rows to a new temporary file. At most a.Cap
// source files are read; the first two lines of every source after the first
// one are treated as a repeated header and dropped. Blank lines are dropped.
func (a *Aggregator) Merge(g MergeGroup) (*MergedOutput, error) {
	f, err := os.CreateTemp(a.TempDir, g.Title+"_*.csv")
	if err != nil {
		return nil, &OutputError{Title: g.Title, Err: err}
	}
	out := &MergedOutput{Title: g.Title, Path: f.Name()}
	fail := func(err error) (*MergedOutput, error) {
		f.Close()
		os.Remove(out.Path)
		return nil, &OutputError{Title: g.Title, Path: out.Path, Err: err}
	}

	w := bufio.NewWriter(f)
	for i, src := range g.Files {
		if a.Cap > 0 && i >= a.Cap {
			out.Skipped = append(out.Skipped, src)
			continue
		}
		out.Sources = append(out.Sources, src)
		err := a.copySource(w, out, src.Path, i > 0)
		if rerr, ok := err.(*ReadError); ok {
			grip.Warning(message.WrapError(rerr, message.Fields{
				"message": "skipping unreadable result file",
				"title":   g.Title,
				"file":    src.Path,
			}))
			out.ReadErrors = append(out.ReadErrors, rerr)
		} else if err != nil {
			return fail(err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		return fail(err)
	}

	grip.Debug(message.Fields{
		"message": "merged result files",
		"title":   g.Title,
		"output":  out.Path,
		"sources": len(out.Sources),
		"skipped": len(out.Skipped),
		"lines":   out.Lines,
		"size":    humanize.Bytes(uint64(out.Size)),
	})
	return out, nil
}

// copySource appends the non-blank lines of the file at path to w.
// Errors reading the file are returned as *ReadError.
func (a *Aggregator) copySource(w *bufio.Writer, out *MergedOutput, path string, skipHeader bool) error {
	in, err := os.Open(path)
	if err != nil {
		return &ReadError{Path: path, Err: err}
	}
	defer in.Close()

	limit := a.MaxLineSize
	if limit <= 0 {
		limit = defaultMaxLineSize
	}
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 4096), limit)
	for read := 1; sc.Scan(); read++ {
		if skipHeader && read <= headerLines {
			continue
		}
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, err := w.WriteString(line); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
		out.Lines++
		out.Size += int64(len(line) + 1)
	}
	if err := sc.Err(); err != nil {
		return &ReadError{Path: path, Err: err}
	}
	return nil
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
