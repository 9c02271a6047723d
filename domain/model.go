package domain

import "time"

// GraphNode is the typed vertex produced by indexing exactly one source
// document. It is immutable after extraction; reindexing replaces it
// wholesale rather than mutating it in place.
type GraphNode struct {
	ID          string         `json:"id"`
	Kind        Kind           `json:"kind"`
	SourcePath  string         `json:"source_path"`
	SourceHash  string         `json:"source_hash"`
	Layer       Layer          `json:"layer"`
	Status      string         `json:"status"`
	Aliases     []string       `json:"aliases,omitempty"`
	Domain      string         `json:"domain,omitempty"`
	Indexed     map[string]any `json:"indexed_fields,omitempty"`
	IndexedAt   time.Time      `json:"indexed_at"`
}

// Title returns a best-effort human label for the node: the "title" entry
// of its indexed fields if present, otherwise the document ID portion of
// its ID.
func (n GraphNode) Title() string {
	if t, ok := n.Indexed["title"].(string); ok && t != "" {
		return t
	}
	return n.DocumentID()
}

// DocumentID strips the kind prefix from the node ID ("ENT:Foo" -> "Foo").
func (n GraphNode) DocumentID() string {
	for i := 0; i < len(n.ID); i++ {
		if n.ID[i] == ':' {
			return n.ID[i+1:]
		}
	}
	return n.ID
}

// GraphEdge is a typed directed relation produced alongside a node during
// extraction.
type GraphEdge struct {
	From            string         `json:"from"`
	To              string         `json:"to"`
	Type            EdgeType       `json:"type"`
	SourcePath      string         `json:"source_path"`
	ExtractionMethod string        `json:"extraction_method"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	LayerViolation  bool           `json:"layer_violation"`
	Bidirectional   bool           `json:"bidirectional"`
}

// Key returns the deduplication composite key (from, to, type).
func (e GraphEdge) Key() string {
	return e.From + "\x00" + e.To + "\x00" + string(e.Type)
}

// DeduplicateEdges removes edges that share the same (from, to, type),
// keeping the first occurrence. Idempotent:
// DeduplicateEdges(DeduplicateEdges(x)) == DeduplicateEdges(x).
func DeduplicateEdges(edges []GraphEdge) []GraphEdge {
	seen := make(map[string]bool, len(edges))
	out := make([]GraphEdge, 0, len(edges))
	for _, e := range edges {
		key := e.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}

// Section is an ordered heading/body pair, along with its depth and its
// dotted path of ancestor heading slugs. The markdown parser produces its
// own parser.Section with the same fields rather than this type.
type Section struct {
	Heading string
	Level   int
	Body    string
	Path    string
}

// Chunk is a paragraph-level text window sized for embedding.
type Chunk struct {
	ID         string
	DocumentID string
	Section    string
	Content    string
	Context    string
	Offset     int
	Index      int
}

// Embedding is a chunk's vector under a named model.
type Embedding struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Kind       Kind      `json:"kind"`
	Section    string    `json:"section"`
	ChunkIndex int       `json:"chunk_index"`
	Text       string    `json:"text"`
	Context    string    `json:"context"`
	Vector     []float64 `json:"vector"`
	Model      string    `json:"model"`
	Dimensions int       `json:"dimensions"`
	TextHash   string    `json:"text_hash"`
	GeneratedAt time.Time `json:"generated_at"`
}

// IndexLevel is the capability tier of an index directory.
type IndexLevel string

const (
	IndexLevelL1 IndexLevel = "L1" // graph only
	IndexLevelL2 IndexLevel = "L2" // graph + embeddings
	IndexLevelL3 IndexLevel = "L3" // graph + embeddings + enrichments
)

// DetectIndexLevel implements the fixed rule: L3 if both an encoder and an
// agent API are available, L2 if only an encoder is available, L1
// otherwise.
func DetectIndexLevel(encoderAvailable, agentAPIAvailable bool) IndexLevel {
	switch {
	case encoderAvailable && agentAPIAvailable:
		return IndexLevelL3
	case encoderAvailable:
		return IndexLevelL2
	default:
		return IndexLevelL1
	}
}

// Stats summarizes the contents of an index directory.
type Stats struct {
	Nodes       int `json:"nodes"`
	Edges       int `json:"edges"`
	Embeddings  int `json:"embeddings"`
	Enrichments int `json:"enrichments"`
}

// Manifest is the top-level descriptor of an index directory.
type Manifest struct {
	FormatVersion   string     `json:"format_version"`
	KDDVersion      string     `json:"kdd_version"`
	EmbeddingModel  string     `json:"embedding_model,omitempty"`
	Dimensions      int        `json:"dimensions,omitempty"`
	IndexedAt       time.Time  `json:"indexed_at"`
	Indexer         string     `json:"indexer"`
	Structure       string     `json:"structure"`
	IndexLevel      IndexLevel `json:"index_level"`
	Stats           Stats      `json:"stats"`
	Domains         []string   `json:"domains"`
	GitCommit       string     `json:"git_commit,omitempty"`
}
