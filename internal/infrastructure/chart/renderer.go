package chart

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"metalstats-service/internal/application"
	"metalstats-service/internal/domain"
	infraconfig "metalstats-service/internal/infrastructure/config"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var palette = map[string]drawing.Color{
	"gold":   drawing.ColorFromHex("d4af37"),
	"silver": drawing.ColorFromHex("c0c0c0"),
	"ratio":  drawing.ColorFromHex("d64545"),
}

// Renderer writes PNG time-series charts into OutDir.
type Renderer struct {
	OutDir string
	Width  int
	Height int
}

var _ application.ChartRenderer = (*Renderer)(nil)

func NewRenderer(outDir string) *Renderer {
	return &Renderer{
		OutDir: outDir,
		Width:  infraconfig.DefaultChartWidth,
		Height: infraconfig.DefaultChartHeight,
	}
}

func (r *Renderer) Line(name string, p application.LinePlot) error {
	if p.Series.Len() == 0 {
		return fmt.Errorf("chart %s: empty series", name)
	}
	xs, err := toTimes(p.Series.Dates)
	if err != nil {
		return fmt.Errorf("chart %s: %w", name, err)
	}

	series := gochart.TimeSeries{
		Name:    name,
		Style:   lineStyle(p.Style),
		XValues: xs,
		YValues: p.Series.Values,
	}
	graph := gochart.Chart{
		Title:  fmt.Sprintf("%s  ·  min %.2f  max %.2f", p.Title, p.Series.Min(), p.Series.Max()),
		Width:  r.Width,
		Height: r.Height,
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeDateValueFormatter,
			TickStyle:      gochart.Style{TextRotationDegrees: 45},
		},
		YAxis:  gochart.YAxis{Name: p.YLabel},
		Series: []gochart.Series{series},
	}
	if p.ZeroMin {
		graph.YAxis.Range = &gochart.ContinuousRange{Min: 0, Max: p.Series.Max() * 1.05}
	}
	return r.write(name, &graph)
}

func (r *Renderer) Overlay(name string, p application.OverlayPlot) error {
	if len(p.Lines) == 0 {
		return fmt.Errorf("chart %s: no series", name)
	}
	var series []gochart.Series
	for _, l := range p.Lines {
		if l.Series.Len() == 0 {
			return fmt.Errorf("chart %s: empty series %s", name, l.Label)
		}
		xs, err := toTimes(l.Series.Dates)
		if err != nil {
			return fmt.Errorf("chart %s: %w", name, err)
		}
		series = append(series, gochart.TimeSeries{
			Name:    l.Label,
			Style:   lineStyle(l.Style),
			XValues: xs,
			YValues: l.Series.Values,
		})
	}
	graph := gochart.Chart{
		Title:  p.Title,
		Width:  r.Width,
		Height: r.Height,
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeDateValueFormatter,
			TickStyle:      gochart.Style{TextRotationDegrees: 45},
		},
		YAxis:  gochart.YAxis{Name: "Index"},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	return r.write(name, &graph)
}

func (r *Renderer) write(name string, graph *gochart.Chart) error {
	if err := os.MkdirAll(r.OutDir, 0o755); err != nil {
		return fmt.Errorf("chart %s: create dir: %w", name, err)
	}
	path := filepath.Join(r.OutDir, name+".png")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("chart %s: %w", name, err)
	}
	defer f.Close()
	if err := graph.Render(gochart.PNG, f); err != nil {
		return fmt.Errorf("chart %s: render: %w", name, err)
	}
	return nil
}

func lineStyle(style string) gochart.Style {
	color, ok := palette[style]
	if !ok {
		color = gochart.ColorBlue
	}
	s := gochart.Style{StrokeColor: color, StrokeWidth: 2.4}
	if style == "ratio" {
		s.StrokeDashArray = []float64{4.0, 4.0}
		s.StrokeWidth = 2.0
	}
	return s
}

func toTimes(dates []string) ([]time.Time, error) {
	out := make([]time.Time, len(dates))
	for i, d := range dates {
		t, err := domain.ParseDate(d)
		if err != nil {
			return nil, fmt.Errorf("bad date %q: %w", d, err)
		}
		out[i] = t
	}
	return out, nil
}
