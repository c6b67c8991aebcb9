// Copyright 2019 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package haar

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const maxticks = 40

// Point is a value of a wavelet at X, which may be a scale, a
// wavelet number, or anything else being plotted against
type Point struct {
	X, Y float64
}

// Series is a named set of points to be drawn as one line
type Series struct {
	Name   string
	Points []Point
}

// createLine creates a horizontal line with a particular y value for
// a graph
func createLine(xvalues []float64, y float64, c drawing.Color) chart.ContinuousSeries {
	var yvalues []float64
	for range xvalues {
		yvalues = append(yvalues, y)
	}
	return chart.ContinuousSeries{
		XValues: xvalues,
		YValues: yvalues,
		Style: chart.Style{
			StrokeColor:     c,
			StrokeDashArray: []float64{5.0, 5.0},
		},
	}
}

// Graph creates a PNG graph of one or more series of wavelet values,
// with a guide line marking zero
func Graph(series []Series, title string, xaxis string, w io.Writer) error {
	var allx []float64
	miny, maxy := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, p := range s.Points {
			allx = append(allx, p.X)
			miny = math.Min(miny, p.Y)
			maxy = math.Max(maxy, p.Y)
		}
	}
	if len(allx) < 2 {
		return errors.New("Not enough values to graph")
	}
	sort.Float64s(allx)
	if allx[0] == allx[len(allx)-1] {
		return errors.New("Not enough distinct values to graph")
	}

	var ticks []chart.Tick
	tickevery := len(allx) / maxticks
	if tickevery < 1 {
		tickevery = 1
	}
	for i, x := range allx {
		if i%tickevery == 0 && (i == 0 || x != allx[i-1]) {
			ticks = append(ticks, chart.Tick{Value: x, Label: fmt.Sprintf("%g", x)})
		}
	}

	graph := chart.Chart{
		Title:  title,
		Width:  1920,
		Height: 1080,
		XAxis: chart.XAxis{
			Name:  xaxis,
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name: "Value",
		},
	}
	// a flat graph has no range for the axis to cover
	if miny == maxy {
		graph.YAxis.Range = &chart.ContinuousRange{Min: miny - 1, Max: maxy + 1}
	}

	var annotations []chart.Value2
	for i, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		pts := append([]Point(nil), s.Points...)
		sort.Slice(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
		var xvalues, yvalues []float64
		for _, p := range pts {
			xvalues = append(xvalues, p.X)
			yvalues = append(yvalues, p.Y)
		}
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name: s.Name,
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
			},
			XValues: xvalues,
			YValues: yvalues,
		})
		last := pts[len(pts)-1]
		annotations = append(annotations, chart.Value2{Label: s.Name, XValue: last.X, YValue: last.Y})
	}

	if miny < 0 && maxy > 0 {
		graph.Series = append(graph.Series, createLine([]float64{allx[0], allx[len(allx)-1]}, 0, chart.ColorAlternateGray))
	}
	graph.Series = append(graph.Series, chart.AnnotationSeries{Annotations: annotations})
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}
