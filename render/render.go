// Package render draws benchmark reports as clustered histograms.
package render

import (
	"image/color"
	"math"
	"os"
	"strings"

	bench "github.com/fjl/benchhist"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var ErrEmptyReport = errors.New("report has no plot groups")

// Renderer writes all plot groups of a report into one document, one
// histogram below the other.
type Renderer struct {
	Width  vg.Length
	Height vg.Length // height of a histogram with layout size 1
	Format string    // eps, jpg, pdf, png, svg or tif
}

// New creates a renderer from the page settings in cfg.
func New(cfg bench.RenderConfig) *Renderer {
	return &Renderer{
		Width:  vg.Length(cfg.WidthCM) * vg.Centimeter,
		Height: vg.Length(cfg.HeightCM) * vg.Centimeter,
		Format: cfg.Format,
	}
}

// Render implements bench.Renderer. The document is written to path plus
// the format extension.
func (r *Renderer) Render(groups []bench.PlotGroup, path string) error {
	if len(groups) == 0 {
		return ErrEmptyReport
	}
	format := strings.ToLower(r.Format)
	if format == "" {
		format = "pdf"
	}

	var (
		plots = make([][]*plot.Plot, len(groups))
		size  = 0.0
	)
	for i, g := range groups {
		p, err := Histogram(g)
		if err != nil {
			return errors.Wrapf(err, "plotting %q", g.Title)
		}
		plots[i] = []*plot.Plot{p}
		size = math.Max(size, g.Layout.Size)
	}
	if size <= 0 {
		size = 1
	}

	rowHeight := vg.Length(size) * r.Height
	c, err := draw.NewFormattedCanvas(r.Width, rowHeight*vg.Length(len(groups)), format)
	if err != nil {
		return err
	}
	tiles := draw.Tiles{
		Rows: len(groups),
		Cols: 1,
		PadY: 5 * vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, draw.New(c))
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	f, err := os.Create(path + "." + format)
	if err != nil {
		return err
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", f.Name())
	}
	return f.Close()
}

// Histogram creates the clustered histogram of one plot group. Categories
// run along the X axis, every group value gets one bar per category.
func Histogram(g bench.PlotGroup) (*plot.Plot, error) {
	l := g.Layout
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	p.Title.Text = g.Title
	p.X.Label.Text = l.XLabel
	p.Y.Label.Text = l.YLabel
	p.Legend.Top = l.LegendTop
	if l.Font != "" && l.FontSize > 0 {
		font, err := vg.MakeFont(l.Font, vg.Points(l.FontSize))
		if err != nil {
			return nil, err
		}
		p.X.Tick.Label.Font = font
		p.Y.Tick.Label.Font = font
		p.Legend.TextStyle.Font = font
	}
	if l.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{}
	}

	cats := g.Series.Categories()
	names := g.Series.Groups()
	for j, name := range names {
		b := &bars{
			values: make([]float64, len(cats)),
			index:  j,
			n:      len(names),
			color:  barColor(j, len(names), l.Colorize),
			logY:   l.LogY,
		}
		for i, x := range cats {
			v, ok := g.Series.Value(x, name)
			if !ok {
				v = math.NaN()
			}
			b.values[i] = v
		}
		if l.PrintValues {
			sty := p.Y.Tick.Label
			sty.XAlign = draw.XCenter
			sty.YAlign = draw.YBottom
			sty.Rotation = 0
			b.labels = &sty
		}
		p.Add(b)
		p.Legend.Add(name, b)
	}

	if len(cats) > 0 {
		p.NominalX(cats...)
	}
	if l.RotateXTicks != 0 {
		p.X.Tick.Label.Rotation = l.RotateXTicks * math.Pi / 180
		p.X.Tick.Label.YAlign = draw.YCenter
		if l.RotateXTicks < 0 {
			p.X.Tick.Label.XAlign = draw.XLeft
		} else {
			p.X.Tick.Label.XAlign = draw.XRight
		}
	}
	fixYRange(p, l)
	return p, nil
}

// fixYRange applies the layout's minimum and keeps the Y range valid for
// the axis scale.
func fixYRange(p *plot.Plot, l bench.Layout) {
	if math.IsInf(p.Y.Min, 0) || math.IsInf(p.Y.Max, 0) {
		p.Y.Min, p.Y.Max = 1, 10
	}
	if l.MinY > 0 || (l.MinY < 0 && !l.LogY) {
		p.Y.Min = l.MinY
	}
	if l.LogY {
		if p.Y.Min <= 0 {
			p.Y.Min = 1
		}
		if p.Y.Max <= p.Y.Min {
			p.Y.Max = p.Y.Min * 10
		}
	} else if p.Y.Max <= p.Y.Min {
		p.Y.Max = p.Y.Min + 1
	}
}

func barColor(i, n int, colorize bool) color.Color {
	if colorize {
		return plotutil.Color(i)
	}
	if n < 2 {
		return color.Gray{Y: 96}
	}
	return color.Gray{Y: uint8(32 + 160*i/(n-1))}
}
