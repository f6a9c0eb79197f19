package main

import (
	bench "github.com/fjl/benchhist"
	"github.com/fjl/benchhist/render"
	"github.com/spf13/cobra"
)

func (a *app) plotCmd() *cobra.Command {
	def := bench.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render the histogram report",
		Long: `plot merges the result files of every title and writes one clustered
histogram per title into <dir>/<out>.<format>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			return bench.Run(cfg, render.New(cfg.Render))
		},
	}

	f := cmd.Flags()
	f.String("out", def.OutputName, "report name inside the result directory, without extension")
	f.String("format", def.Render.Format, "report format (eps, jpg, pdf, png, svg, tif)")
	f.Float64("width", def.Render.WidthCM, "page width in cm")
	f.Float64("height", def.Render.HeightCM, "height of a histogram in cm")
	f.Bool("log-y", def.Layout.LogY, "use a logarithmic Y axis")
	f.Bool("print-values", def.Layout.PrintValues, "print values above the bars")
	a.bind(f, "output_name", "out")
	a.bind(f, "render.format", "format")
	a.bind(f, "render.width_cm", "width")
	a.bind(f, "render.height_cm", "height")
	a.bind(f, "layout.log_y", "log-y")
	a.bind(f, "layout.print_values", "print-values")
	return cmd
}
