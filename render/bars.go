package render

import (
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// clusterWidth is the share of the category spacing covered by a cluster.
const clusterWidth = 0.8

// bars draws one bar per category at a fixed position within each cluster.
// Bars start at the bottom of the Y axis if it is above zero.
type bars struct {
	values   []float64 // by category, NaN if missing
	index, n int       // position within the cluster, cluster size
	color    color.Color
	logY     bool
	labels   *draw.TextStyle // value labels, nil if values are not printed
}

func (b *bars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	w := (trX(1) - trX(0)) * clusterWidth / vg.Length(b.n)
	offset := (vg.Length(b.index) - vg.Length(b.n-1)/2) * w

	base := math.Max(0, plt.Y.Min)
	for i, v := range b.values {
		if math.IsNaN(v) || v <= base {
			continue
		}
		x := trX(float64(i)) + offset
		y0, y1 := trY(base), trY(math.Min(v, plt.Y.Max))
		pts := []vg.Point{
			{X: x - w/2, Y: y0},
			{X: x - w/2, Y: y1},
			{X: x + w/2, Y: y1},
			{X: x + w/2, Y: y0},
		}
		c.FillPolygon(b.color, c.ClipPolygonY(pts))
		if b.labels != nil {
			c.FillText(*b.labels, vg.Point{X: x, Y: y1}, strconv.FormatFloat(v, 'g', 4, 64))
		}
	}
}

func (b *bars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = -0.5, float64(len(b.values))-0.5
	ymin, ymax = math.Inf(1), math.Inf(-1)
	for _, v := range b.values {
		if math.IsNaN(v) || (b.logY && v <= 0) {
			continue
		}
		ymin = math.Min(ymin, v)
		ymax = math.Max(ymax, v)
	}
	if math.IsInf(ymin, 1) {
		return xmin, xmax, ymin, ymax
	}
	if !b.logY {
		ymin = math.Min(ymin, 0)
	}
	return xmin, xmax, ymin, ymax
}

func (b *bars) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(b.color, c.ClipPolygonY(pts))
}
