package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/san-kum/adaptsim/internal/sweep"
)

var palette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorRed,
	chart.ColorGreen,
	chart.ColorOrange,
	chart.ColorAlternateGray,
}

// Line is one named curve of a figure.
type Line struct {
	Name string
	X, Y []float64
}

// LineChart renders curves sharing one time axis as PNG.
func LineChart(w io.Writer, title, xLabel, yLabel string, lines ...Line) error {
	if len(lines) == 0 {
		return errors.New("report: line chart needs at least one line")
	}

	series := make([]chart.Series, len(lines))
	for i, l := range lines {
		series[i] = chart.ContinuousSeries{
			Name:    l.Name,
			XValues: l.X,
			YValues: l.Y,
			Style:   chart.Style{StrokeColor: palette[i%len(palette)], StrokeWidth: 2.0},
		}
	}

	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 540,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  xLabel,
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  yLabel,
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.3f", v.(float64))
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

const (
	heatWidth   = 760
	heatHeight  = 560
	heatLeft    = 80
	heatRight   = 150
	heatTop     = 50
	heatBottom  = 70
	barSegments = 64
)

// Heatmap renders a sweep grid with Values1 on the x axis and Values2 on
// the y axis, origin bottom-left, colored with the jet map.
func Heatmap(w io.Writer, g *sweep.Grid, title, valueLabel string) error {
	r, err := chart.PNG(heatWidth, heatHeight)
	if err != nil {
		return err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}
	r.SetDPI(chart.DefaultDPI)
	r.SetFont(font)

	fillRect(r, 0, 0, heatWidth, heatHeight, chart.ColorWhite)

	rows, cols := g.Dims()
	lo, hi := g.Range()
	if hi <= lo {
		hi = lo + 1
	}

	plotW := heatWidth - heatLeft - heatRight
	plotH := heatHeight - heatTop - heatBottom
	base := heatHeight - heatBottom

	for i := 0; i < rows; i++ {
		x0 := heatLeft + i*plotW/rows
		x1 := heatLeft + (i+1)*plotW/rows
		for j := 0; j < cols; j++ {
			y0 := base - (j+1)*plotH/cols
			y1 := base - j*plotH/cols
			fillRect(r, x0, y0, x1, y1, chart.Jet(g.At(i, j), lo, hi))
		}
	}

	barX := heatWidth - heatRight + 30
	for s := 0; s < barSegments; s++ {
		v := lo + (hi-lo)*(float64(s)+0.5)/barSegments
		y0 := base - (s+1)*plotH/barSegments
		y1 := base - s*plotH/barSegments
		fillRect(r, barX, y0, barX+20, y1, chart.Jet(v, lo, hi))
	}

	r.SetFontColor(chart.ColorBlack)
	r.SetFontSize(14)
	r.Text(title, heatLeft, heatTop-20)

	r.SetFontSize(10)
	r.Text(g.Param1, heatLeft+plotW/2, heatHeight-20)
	r.Text(g.Param2, 10, heatTop+plotH/2)
	r.Text(valueLabel, barX-10, heatTop-8)
	r.Text(fmt.Sprintf("%.3f", hi), barX+26, heatTop+10)
	r.Text(fmt.Sprintf("%.3f", lo), barX+26, base)

	for _, i := range axisTicks(rows) {
		x := heatLeft + i*plotW/rows + plotW/(2*rows)
		r.Text(fmt.Sprintf("%.2f", g.Values1[i]), x-12, base+16)
	}
	for _, j := range axisTicks(cols) {
		y := base - j*plotH/cols - plotH/(2*cols)
		r.Text(fmt.Sprintf("%.2f", g.Values2[j]), heatLeft-36, y+4)
	}

	return r.Save(w)
}

// axisTicks picks the first, middle and last index.
func axisTicks(n int) []int {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []int{0}
	case n == 2:
		return []int{0, 1}
	}
	return []int{0, n / 2, n - 1}
}

func fillRect(r chart.Renderer, x0, y0, x1, y1 int, c drawing.Color) {
	r.SetFillColor(c)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.Close()
	r.Fill()
}
