package main

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/cheynewallace/tabby"
	bench "github.com/fjl/benchhist"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func (a *app) statCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat",
		Short: "Print summary statistics per title and version",
		Long: `stat merges the result files like plot does and prints, for every title and
version, the number of tests and the mean, standard deviation, geometric mean,
minimum and maximum of the value column.`,
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
			outs, err := agg.Aggregate(cfg.ResultDirectory)
			if err != nil {
				return err
			}
			defer outs.Remove()

			reports, err := bench.ReadReports(outs, cfg.SeriesConfig())
			if err != nil {
				return err
			}
			t := tabby.NewCustom(tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0))
			t.AddHeader("Title", "Version", "Tests", "Mean", "StdDev", "GeoMean", "Min", "Max")
			for _, r := range reports {
				for _, g := range r.Series.Groups() {
					s := summarize(r.Series.GroupValues(g))
					t.AddLine(r.Title, g, s.n, fmtFloat(s.mean), fmtFloat(s.std), fmtFloat(s.geo), fmtFloat(s.min), fmtFloat(s.max))
				}
			}
			t.Print()
			return nil
		},
	}
}

type summary struct {
	n                        int
	mean, std, geo, min, max float64
}

func summarize(values []float64) summary {
	s := summary{n: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		s.mean, s.std, s.geo, s.min, s.max = nan, nan, nan, nan, nan
		return s
	}
	s.mean, s.std = stat.MeanStdDev(values, nil)
	s.geo = stat.GeometricMean(values, nil)
	s.min, s.max = floats.Min(values), floats.Max(values)
	return s
}

func fmtFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "-"
	}
	return fmt.Sprintf("%.3f", f)
}
