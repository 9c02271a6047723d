// Package embed adapts a pluggable text encoder to the internal
// (texts) -> vectors contract (spec.md §4.9/§9). The neural embedding
// model itself is an external collaborator, out of core scope per
// spec.md §1; this package defines the contract consumers depend on and
// a deterministic reference implementation used by tests and by the CLI's
// L2 indexing, where no real model is wired in.
package embed

import (
	"context"
	"hash/fnv"
	"math"
)

// Encoder turns a batch of texts into a batch of equal-length vectors, one
// per input text, in order. Implementations may lazily load a model on
// first use; callers must tolerate the first call being slower.
type Encoder interface {
	// Name identifies the model, recorded on every Embedding it produces.
	Name() string
	Encode(ctx context.Context, texts []string) ([][]float64, error)
}

// DeterministicEncoder is a reference Encoder with no external
// dependencies: it hashes each text into a fixed-dimension unit vector.
// It is not a semantic model — it exists so the hybrid/semantic query
// paths and the chunker/indexer pipeline can be exercised end-to-end
// without a real neural encoder, per spec.md's L1/L2 distinction.
type DeterministicEncoder struct {
	ModelName string
	Dims      int
}

// NewDeterministicEncoder returns a DeterministicEncoder with the given
// name and dimensionality. Dims defaults to 32 if non-positive.
func NewDeterministicEncoder(name string, dims int) *DeterministicEncoder {
	if dims <= 0 {
		dims = 32
	}
	return &DeterministicEncoder{ModelName: name, Dims: dims}
}

// Name implements Encoder.
func (e *DeterministicEncoder) Name() string { return e.ModelName }

// Encode implements Encoder by hashing each text's words into Dims buckets
// and L2-normalizing the result, so cosine similarity reflects shared
// vocabulary between texts.
func (e *DeterministicEncoder) Encode(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = hashVector(t, e.Dims)
	}
	return out, nil
}

func hashVector(text string, dims int) []float64 {
	v := make([]float64, dims)
	var word []byte
	flush := func() {
		if len(word) == 0 {
			return
		}
		h := fnv.New32a()
		_, _ = h.Write(word)
		v[int(h.Sum32())%dims]++
		word = word[:0]
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == ' ' || c == '\n' || c == '\t' || c == '\r' {
			flush()
			continue
		}
		word = append(word, c)
	}
	flush()

	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return v
	}
	for i := range v {
		v[i] /= norm
	}
	return v
}
