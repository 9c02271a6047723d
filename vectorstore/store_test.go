package vectorstore_test

import (
	"testing"

	"github.com/c360studio/kdd/domain"
	"github.com/c360studio/kdd/vectorstore"
	"github.com/stretchr/testify/assert"
)

func TestSearch_RanksByCosineSimilarity(t *testing.T) {
	s := vectorstore.New()
	s.Load([]domain.Embedding{
		{ID: "a", Vector: []float64{1, 0}},
		{ID: "b", Vector: []float64{0, 1}},
		{ID: "c", Vector: []float64{0.9, 0.1}},
	})

	results := s.Search([]float64{1, 0}, 10, 0)
	assert := assert.New(t)
	assert.Len(results, 3)
	assert.Equal("a", results[0].ID)
	assert.InDelta(1.0, results[0].Score, 1e-9)
}

func TestSearch_ZeroNormQueryReturnsNone(t *testing.T) {
	s := vectorstore.New()
	s.Load([]domain.Embedding{{ID: "a", Vector: []float64{1, 0}}})
	assert.Empty(t, s.Search([]float64{0, 0}, 10, 0))
}

func TestSearch_LimitZeroReturnsNone(t *testing.T) {
	s := vectorstore.New()
	s.Load([]domain.Embedding{{ID: "a", Vector: []float64{1, 0}}})
	assert.Empty(t, s.Search([]float64{1, 0}, 0, 0))
}

func TestSearch_MinScoreAboveMaxReturnsNone(t *testing.T) {
	s := vectorstore.New()
	s.Load([]domain.Embedding{{ID: "a", Vector: []float64{1, 0}}})
	assert.Empty(t, s.Search([]float64{1, 0}, 10, 1.1))
}

func TestSearch_ZeroNormVectorDiscarded(t *testing.T) {
	s := vectorstore.New()
	s.Load([]domain.Embedding{
		{ID: "a", Vector: []float64{0, 0}},
		{ID: "b", Vector: []float64{1, 0}},
	})
	results := s.Search([]float64{1, 0}, 10, 0)
	assert.Len(t, results, 1)
	assert.Equal(t, "b", results[0].ID)
}
