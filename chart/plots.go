// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"image/color"
	"math"
	"sort"
	"strconv"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"golang.org/x/indexbench/aggtable"
	"golang.org/x/indexbench/report"
)

const barWidth = 10 // points

// bars adds a grouped bar chart of column col to pl: one group per
// dataset along X and one colored bar per model within each group.
func bars(pl *plot.Plot, t *aggtable.Table, col string) error {
	p, err := t.Pivot(col)
	if err != nil {
		return err
	}
	w := vg.Points(barWidth)
	n := len(p.Models)
	for i, m := range p.Models {
		offset := w * vg.Length(2*i-n+1) / 2
		legend := false
		for j, d := range p.Datasets {
			v := p.At(m, d)
			if !v.Present {
				continue
			}
			bar, err := plotter.NewBarChart(plotter.Values{v.Num}, w)
			if err != nil {
				return err
			}
			bar.XMin = float64(j)
			bar.Offset = offset
			bar.Color = plotutil.Color(i)
			bar.LineStyle.Width = 0
			pl.Add(bar)
			if !legend {
				pl.Legend.Add(m, bar)
				legend = true
			}
		}
	}
	pl.NominalX(p.Datasets...)
	pl.X.Label.Text = "Dataset"
	pl.Legend.Top = true
	pl.Add(plotter.NewGrid())
	return nil
}

// grid is the GridXYZ of a pivot: columns are datasets and rows are
// models. Absent cells are NaN.
type grid struct {
	p      *aggtable.Pivot
	lo, hi float64
}

func (g *grid) Dims() (c, r int) { return len(g.p.Datasets), len(g.p.Models) }
func (g *grid) X(c int) float64  { return float64(c) }
func (g *grid) Y(r int) float64  { return float64(r) }
func (g *grid) Min() float64     { return g.lo }
func (g *grid) Max() float64     { return g.hi }

func (g *grid) Z(c, r int) float64 {
	v := g.p.At(g.p.Models[r], g.p.Datasets[c])
	if !v.Present {
		return math.NaN()
	}
	return v.Num
}

// heatmap adds an annotated model × dataset heat map of column col to
// pl.
func heatmap(pl *plot.Plot, t *aggtable.Table, col string) error {
	p, err := t.Pivot(col)
	if err != nil {
		return err
	}
	g := &grid{p: p}
	g.lo, g.hi = stats.Bounds(p.Present())
	if g.lo == g.hi {
		// A flat range still needs a nonzero span to map onto
		// the palette.
		g.lo, g.hi = g.lo-0.5, g.hi+0.5
	}

	hm := plotter.NewHeatMap(g, palette.Heat(12, 1))
	hm.NaN = color.Transparent
	pl.Add(hm)

	var labels plotter.XYLabels
	for r, m := range p.Models {
		for c, d := range p.Datasets {
			v := p.At(m, d)
			if !v.Present {
				continue
			}
			labels.XYs = append(labels.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			labels.Labels = append(labels.Labels, annotation(v))
		}
	}
	if len(labels.Labels) > 0 {
		l, err := plotter.NewLabels(labels)
		if err != nil {
			return err
		}
		pl.Add(l)
	}

	pl.NominalX(p.Datasets...)
	pl.NominalY(p.Models...)
	pl.X.Label.Text = "Dataset"
	pl.Y.Label.Text = "Model"
	return nil
}

// annotation formats a heat map cell like a spreadsheet would: three
// significant digits for floats.
func annotation(v report.Value) string {
	if v.Kind == report.KindInt {
		return v.String()
	}
	return strconv.FormatFloat(v.Num, 'g', 3, 64)
}

// scatter adds a scatter plot of column y against column x to pl. Each
// point is colored by model and shaped by dataset; rows lacking either
// value are left out.
func scatter(pl *plot.Plot, t *aggtable.Table, x, y string) error {
	f := table.Filter(t.Frame(), func(a, b report.Value) bool {
		return a.Present && b.Present
	}, x, y)
	ft := f.Table(table.RootGroupID)
	if ft == nil || ft.Len() == 0 {
		return nil
	}
	models := ft.MustColumn("Model").([]string)
	datasets := ft.MustColumn("Dataset").([]string)
	xs := ft.MustColumn(x).([]report.Value)
	ys := ft.MustColumn(y).([]report.Value)

	modelIdx := index(models)
	datasetIdx := index(datasets)

	for i := range models {
		s, err := plotter.NewScatter(plotter.XYs{{X: xs[i].Num, Y: ys[i].Num}})
		if err != nil {
			return err
		}
		s.GlyphStyle = glyph(modelIdx[models[i]], datasetIdx[datasets[i]])
		pl.Add(s)
	}

	// Legend entries are thumbnails only; they are not plotted.
	for _, m := range nub(models) {
		s, err := plotter.NewScatter(plotter.XYs{{}})
		if err != nil {
			return err
		}
		s.GlyphStyle = glyph(modelIdx[m], 0)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		pl.Legend.Add(m, s)
	}
	for _, d := range nub(datasets) {
		s, err := plotter.NewScatter(plotter.XYs{{}})
		if err != nil {
			return err
		}
		s.GlyphStyle = glyph(0, datasetIdx[d])
		s.GlyphStyle.Color = color.Black
		pl.Legend.Add(d, s)
	}
	pl.Legend.Top = true
	pl.Add(plotter.NewGrid())
	return nil
}

func glyph(model, dataset int) draw.GlyphStyle {
	return draw.GlyphStyle{
		Color:  plotutil.Color(model),
		Shape:  plotutil.Shape(dataset),
		Radius: vg.Points(5),
	}
}

// index assigns each distinct string in xs its rank in sorted order,
// so styles are stable across charts.
func index(xs []string) map[string]int {
	m := make(map[string]int)
	for i, x := range sortedNub(xs) {
		m[x] = i
	}
	return m
}

func nub(xs []string) []string {
	return slice.Nub(xs).([]string)
}

func sortedNub(xs []string) []string {
	ys := append([]string(nil), nub(xs)...)
	sort.Strings(ys)
	return ys
}
