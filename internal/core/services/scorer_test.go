package services

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/energy-index/internal/core/domain"
)

func keywords(phrases ...string) domain.KeywordSpec {
	spec := make(domain.KeywordSpec, len(phrases))
	for i, p := range phrases {
		spec[i] = domain.ParseNGram(p)
	}
	return spec
}

func TestDensityScore_WindowWalkthrough(t *testing.T) {
	tokens := domain.TokenSequence{"a", "b", "coal", "c", "solar", "d", "e", "f", "g", "h"}

	res := density(keywords("coal", "solar"), tokens, 4)

	assert.Equal(t, 5, res.Windows)
	assert.Equal(t, 4, res.Hits)
	assert.Equal(t, 10, res.Tokens)
	assert.InDelta(t, 40.0, res.Score, 1e-9)
}

func TestDensityScore_EmptyTokens(t *testing.T) {
	assert.Equal(t, 0.0, DensityScore(keywords("coal"), domain.TokenSequence{}, 20))
	assert.Equal(t, 0.0, DensityScore(keywords("coal"), nil, 20))
}

func TestDensityScore_InvalidWindow(t *testing.T) {
	tokens := domain.TokenSequence{"coal", "gas"}
	assert.Equal(t, 0.0, DensityScore(keywords("coal"), tokens, 0))
	assert.Equal(t, 0.0, DensityScore(keywords("coal"), tokens, -3))
}

func TestDensityScore_WindowOfOne(t *testing.T) {
	// leap would be 0; it is raised to 1 so every token starts a window
	tokens := domain.TokenSequence{"coal", "gas", "coal"}

	res := density(keywords("coal"), tokens, 1)

	assert.Equal(t, 3, res.Windows)
	assert.Equal(t, 2, res.Hits)
	assert.InDelta(t, 66.666, res.Score, 0.001)
}

func TestDensityScore_MultiWordKeywordIgnoresOrder(t *testing.T) {
	tokens := domain.TokenSequence{"change", "policy", "climate", "report"}

	assert.InDelta(t, 25.0, DensityScore(keywords("climate change"), tokens, 20), 1e-9)
	// One word missing from the window is no hit
	assert.Equal(t, 0.0, DensityScore(keywords("acid rain"), domain.TokenSequence{"acid", "soil"}, 20))
}

func TestDensityScore_ClampedTo100(t *testing.T) {
	tokens := domain.TokenSequence{"coal", "gas", "oil"}

	res := density(keywords("coal", "gas", "oil", "coal gas", "gas oil"), tokens, 20)

	assert.Equal(t, 5, res.Hits)
	assert.Equal(t, 100.0, res.Score)
}

func TestDensityScore_Range(t *testing.T) {
	vocab := []string{"coal", "gas", "oil", "wind", "solar", "grid", "farm", "road", "tax", "school"}
	spec := keywords("coal", "gas", "oil", "wind", "solar", "grid", "coal gas", "wind solar")
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 300; i++ {
		n := rng.Intn(60)
		tokens := make(domain.TokenSequence, n)
		for j := range tokens {
			tokens[j] = vocab[rng.Intn(len(vocab))]
		}
		window := 1 + rng.Intn(30)

		score := DensityScore(spec, tokens, window)
		require.GreaterOrEqual(t, score, 0.0)
		require.LessOrEqual(t, score, 100.0)
	}
}

func TestNewScorer(t *testing.T) {
	_, err := NewScorer(keywords("coal"), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewScorer(nil, 20)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	s, err := NewScorer(keywords("coal"), 20)
	require.NoError(t, err)

	res, err := s.Score(domain.TokenSequence{"coal", "mine"})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, res.Score, 1e-9)
}

func TestScorer_ZeroValue(t *testing.T) {
	var s Scorer
	_, err := s.Score(domain.TokenSequence{"coal"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
