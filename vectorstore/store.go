// Package vectorstore implements the brute-force cosine top-k store
// (spec.md §4.7): parallel ID/vector arrays searched in O(n*d) with no
// approximate index.
package vectorstore

import (
	"math"
	"sort"
	"sync"

	"github.com/c360studio/kdd/domain"
)

// Result is one scored hit from Search.
type Result struct {
	ID    string
	Score float64
}

// Store holds a contiguous pool of embedding vectors, replaced wholesale on
// every Load.
type Store struct {
	mu      sync.RWMutex
	ids     []string
	vectors [][]float64
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Load replaces the ID and vector arrays with the given embeddings, in
// order.
func (s *Store) Load(embeddings []domain.Embedding) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = make([]string, len(embeddings))
	s.vectors = make([][]float64, len(embeddings))
	for i, e := range embeddings {
		s.ids[i] = e.ID
		s.vectors[i] = e.Vector
	}
}

// Count returns the number of loaded vectors.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Search computes cosine similarity between query and every loaded vector,
// discards NaN scores and anything below minScore, and returns the top
// limit hits sorted by score descending (ties broken by original order). A
// zero-norm query or a non-positive limit returns no results.
func (s *Store) Search(query []float64, limit int, minScore float64) []Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		return nil
	}

	qNorm := norm(query)
	if qNorm == 0 {
		return nil
	}

	var results []Result
	for i, v := range s.vectors {
		score := cosine(query, v, qNorm)
		if math.IsNaN(score) {
			continue
		}
		if score < minScore {
			continue
		}
		results = append(results, Result{ID: s.ids[i], Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func cosine(q, v []float64, qNorm float64) float64 {
	vNorm := norm(v)
	if vNorm == 0 {
		return math.NaN()
	}
	return dot(q, v) / (qNorm * vNorm)
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
