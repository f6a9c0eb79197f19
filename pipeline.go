package bench

import (
	"time"

	"github.com/aristanetworks/goarista/monotime"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// Layout holds the presentation settings of one histogram.
type Layout struct {
	XLabel       string  `mapstructure:"x_label"`
	YLabel       string  `mapstructure:"y_label"`
	LegendTop    bool    `mapstructure:"legend_top"`
	Colorize     bool    `mapstructure:"colorize"`
	Font         string  `mapstructure:"font"`
	FontSize     float64 `mapstructure:"font_size"`      // points
	RotateXTicks float64 `mapstructure:"rotate_x_ticks"` // degrees
	Size         float64 `mapstructure:"size"`           // height factor
	MinY         float64 `mapstructure:"min_y"`
	LogY         bool    `mapstructure:"log_y"`
	PrintValues  bool    `mapstructure:"print_values"`
}

func DefaultLayout() Layout {
	return Layout{
		XLabel:       "Testid",
		YLabel:       "Execution time",
		LegendTop:    true,
		Colorize:     true,
		Font:         "Times-Roman",
		FontSize:     6,
		RotateXTicks: -90,
		Size:         1.5,
		MinY:         1,
		LogY:         true,
	}
}

// PlotGroup is one titled histogram of a report.
type PlotGroup struct {
	Title  string
	Series *Series
	Layout Layout
}

// Renderer writes a report document for the given groups. The path has no
// extension; the renderer adds one for its output format.
type Renderer interface {
	Render(groups []PlotGroup, path string) error
}

// Run aggregates the result files configured by cfg and renders them with r.
// Merged outputs are removed before Run returns, whether rendering succeeds,
// fails or panics.
func Run(cfg Config, r Renderer) (err error) {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	a, err := cfg.Aggregator()
	if err != nil {
		return err
	}

	start := mononow()
	outs, err := a.Aggregate(cfg.ResultDirectory)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := outs.Remove(); rerr != nil {
			grip.Warning(message.WrapError(rerr, message.Fields{
				"message": "could not remove merged outputs",
			}))
			if err == nil {
				err = rerr
			}
		}
	}()
	grip.Info(message.Fields{
		"message":  "aggregated result files",
		"dir":      cfg.ResultDirectory,
		"titles":   len(outs),
		"duration": (mononow() - start).String(),
	})

	start = mononow()
	reports, err := ReadReports(outs, cfg.SeriesConfig())
	if err != nil {
		return err
	}
	groups := make([]PlotGroup, len(reports))
	for i, rep := range reports {
		groups[i] = PlotGroup{Title: rep.Title, Series: rep.Series, Layout: cfg.Layout}
	}
	path := cfg.OutputPath()
	if err := r.Render(groups, path); err != nil {
		return errors.Wrap(err, "rendering report")
	}
	grip.Info(message.Fields{
		"message":  "rendered report",
		"path":     path,
		"groups":   len(groups),
		"duration": (mononow() - start).String(),
	})
	return nil
}

func mononow() time.Duration {
	return time.Duration(monotime.Now())
}
