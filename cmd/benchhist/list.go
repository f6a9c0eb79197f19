package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/cheynewallace/tabby"
	"github.com/dustin/go-humanize"
	bench "github.com/fjl/benchhist"
	"github.com/spf13/cobra"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List result files by title",
		Long: `list shows the result files of every title in merge order and marks the
ones that fall within the per-title version limit. No files are written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			agg, err := cfg.Aggregator()
			if err != nil {
				return err
			}
			files, err := agg.Discover(cfg.ResultDirectory)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			t := tabby.NewCustom(tabwriter.NewWriter(out, 0, 0, 2, ' ', 0))
			t.AddHeader("Title", "File", "Modified", "Size", "Merged")
			groups := bench.GroupByTitle(files)
			for _, g := range groups {
				for i, f := range g.Files {
					merged := agg.Cap <= 0 || i < agg.Cap
					t.AddLine(g.Title, filepath.Base(f.Path), humanize.Time(f.ModTime), humanize.Bytes(uint64(f.Size)), yesNo(merged))
				}
			}
			fmt.Fprintf(out, "%d result files, %d titles:\n", len(files), len(groups))
			t.Print()
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
