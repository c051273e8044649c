// Package chart renders PNG bar charts with go-chart.
package chart

import (
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ChartRenderer = (*Renderer)(nil)

// Bars alternate between these fills so neighbouring states stay distinct
var palette = []drawing.Color{
	drawing.ColorFromHex("9370DB"), // mediumpurple
	drawing.ColorFromHex("FF0000"),
}

// Renderer draws bar charts.
type Renderer struct {
	Height     int
	BarWidth   int
	BarSpacing int
}

// NewRenderer creates a renderer with sizes suited to 51 state bars.
func NewRenderer() *Renderer {
	return &Renderer{Height: 720, BarWidth: 16, BarSpacing: 6}
}

// RenderStateChart draws one bar per state, labelled with its rank.
func (r *Renderer) RenderStateChart(dataset *domain.StatDataset, w io.Writer) error {
	if dataset == nil || len(dataset.Rows) == 0 {
		return domain.ErrEmptyDataset
	}

	bars := make([]gochart.Value, len(dataset.Rows))
	for i, row := range dataset.Rows {
		bars[i] = gochart.Value{
			Value: row.Value,
			Label: fmt.Sprintf("%s #%d", row.State, row.Rank),
			Style: barStyle(i),
		}
	}

	return r.render(dataset.Metric.Title(), dataset.ValueLabel, bars, w)
}

// RenderFrequencyChart draws the n-grams of a table by count, most frequent first.
func (r *Renderer) RenderFrequencyChart(table *domain.FrequencyTable, w io.Writer) error {
	if table == nil || len(table.Entries) == 0 {
		return domain.ErrEmptyDataset
	}

	bars := make([]gochart.Value, len(table.Entries))
	for i, e := range table.Entries {
		bars[i] = gochart.Value{
			Value: float64(e.Count),
			Label: e.NGram,
			Style: barStyle(i),
		}
	}

	title := fmt.Sprintf("Most frequent %d-grams: %s", table.N, table.Corpus)
	return r.render(title, "count", bars, w)
}

func (r *Renderer) render(title, yName string, bars []gochart.Value, w io.Writer) error {
	width := len(bars)*(r.BarWidth+r.BarSpacing) + 240
	width = max(width, 800)

	graph := gochart.BarChart{
		Title:  title,
		Width:  width,
		Height: r.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		BarWidth:   r.BarWidth,
		BarSpacing: r.BarSpacing,
		XAxis: gochart.Style{
			TextRotationDegrees: 90,
		},
		YAxis: gochart.YAxis{
			Name: yName,
		},
		Bars: bars,
	}

	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %q: %w", title, err)
	}
	return nil
}

func barStyle(i int) gochart.Style {
	c := palette[i%len(palette)]
	return gochart.Style{
		FillColor:   c,
		StrokeColor: c,
		StrokeWidth: 1,
	}
}
