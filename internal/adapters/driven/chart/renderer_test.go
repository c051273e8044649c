package chart

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/energy-index/internal/core/domain"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRenderer_RenderStateChart(t *testing.T) {
	ds := &domain.StatDataset{Metric: domain.StatMetricConsumed, ValueLabel: "million Btu"}
	for i := 0; i < 51; i++ {
		ds.Rows = append(ds.Rows, domain.StateStat{State: fmt.Sprintf("S%02d", i), Rank: i + 1, Value: float64(1000 - i*10)})
	}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer().RenderStateChart(ds, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), "output is a PNG")
}

func TestRenderer_RenderFrequencyChart(t *testing.T) {
	table := &domain.FrequencyTable{Corpus: "texas", N: 2, Entries: []domain.FrequencyEntry{
		{NGram: "solar power", Count: 12},
		{NGram: "natural gas", Count: 9},
		{NGram: "coal plant", Count: 3},
	}}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer().RenderFrequencyChart(table, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), "output is a PNG")
}

func TestRenderer_Empty(t *testing.T) {
	r := NewRenderer()
	var buf bytes.Buffer

	assert.ErrorIs(t, r.RenderStateChart(&domain.StatDataset{Metric: domain.StatMetricEmissions}, &buf), domain.ErrEmptyDataset)
	assert.ErrorIs(t, r.RenderStateChart(nil, &buf), domain.ErrEmptyDataset)
	assert.ErrorIs(t, r.RenderFrequencyChart(&domain.FrequencyTable{}, &buf), domain.ErrEmptyDataset)
	assert.Zero(t, buf.Len())
}
