// Package artifact implements the on-disk artifact tree reader/writer
// (spec.md §6): a fixed directory layout under an index root holding the
// manifest, one file per node, an append-only edge log, and one file per
// document's embeddings.
package artifact

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/c360studio/kdd/domain"
)

// Store reads and writes the artifact tree rooted at root.
type Store struct {
	root string
}

// New returns a Store rooted at root. The directory need not exist yet;
// writer methods create it on demand.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the index directory path.
func (s *Store) Root() string { return s.root }

func (s *Store) manifestPath() string { return filepath.Join(s.root, "manifest.json") }
func (s *Store) nodesDir(k domain.Kind) string {
	return filepath.Join(s.root, "nodes", string(k))
}
func (s *Store) nodePath(k domain.Kind, documentID string) string {
	return filepath.Join(s.nodesDir(k), documentID+".json")
}
func (s *Store) edgesPath() string { return filepath.Join(s.root, "edges", "edges.jsonl") }
func (s *Store) embeddingsDir(k domain.Kind) string {
	return filepath.Join(s.root, "embeddings", string(k))
}
func (s *Store) embeddingsPath(k domain.Kind, documentID string) string {
	return filepath.Join(s.embeddingsDir(k), documentID+".json")
}

// WriteManifest replaces the manifest file.
func (s *Store) WriteManifest(m domain.Manifest) error {
	return writeJSON(s.manifestPath(), m)
}

// ReadManifest loads the manifest. The second return value is false if no
// manifest file exists yet.
func (s *Store) ReadManifest() (domain.Manifest, bool, error) {
	var m domain.Manifest
	data, err := os.ReadFile(s.manifestPath())
	if os.IsNotExist(err) {
		return m, false, nil
	}
	if err != nil {
		return m, false, fmt.Errorf("read manifest: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, false, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return m, true, nil
}

// WriteNode replaces the node file for n.ID (keyed by document ID within
// its kind directory).
func (s *Store) WriteNode(n domain.GraphNode) error {
	return writeJSON(s.nodePath(n.Kind, n.DocumentID()), n)
}

// ReadNodes loads every persisted node across all kind directories.
func (s *Store) ReadNodes() ([]domain.GraphNode, error) {
	dir := filepath.Join(s.root, "nodes")
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read nodes dir: %w", err)
	}

	var nodes []domain.GraphNode
	for _, kindDir := range entries {
		if !kindDir.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(dir, kindDir.Name()))
		if err != nil {
			return nil, fmt.Errorf("read nodes/%s: %w", kindDir.Name(), err)
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
				continue
			}
			path := filepath.Join(dir, kindDir.Name(), f.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			var n domain.GraphNode
			if err := json.Unmarshal(data, &n); err != nil {
				return nil, fmt.Errorf("unmarshal %s: %w", path, err)
			}
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// AppendEdges appends each edge as one JSON line, creating the edge log if
// it does not already exist.
func (s *Store) AppendEdges(edges []domain.GraphEdge) error {
	if len(edges) == 0 {
		return nil
	}
	path := s.edgesPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create edges dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open edges log: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range edges {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal edge: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write edge: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("write edge: %w", err)
		}
	}
	return w.Flush()
}

// ClearEdges truncates the edge log.
func (s *Store) ClearEdges() error {
	path := s.edgesPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create edges dir: %w", err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return fmt.Errorf("truncate edges log: %w", err)
	}
	return nil
}

// ReadEdges loads every persisted edge.
func (s *Store) ReadEdges() ([]domain.GraphEdge, error) {
	path := s.edgesPath()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open edges log: %w", err)
	}
	defer f.Close()

	var edges []domain.GraphEdge
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var e domain.GraphEdge
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("unmarshal edge line: %w", err)
		}
		edges = append(edges, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan edges log: %w", err)
	}
	return edges, nil
}

// WriteEmbeddings replaces the embeddings file for (kind, documentID) with
// embeddings, grouped as a single JSON array.
func (s *Store) WriteEmbeddings(k domain.Kind, documentID string, embeddings []domain.Embedding) error {
	return writeJSON(s.embeddingsPath(k, documentID), embeddings)
}

// ReadEmbeddings loads every persisted embedding across all kind
// directories.
func (s *Store) ReadEmbeddings() ([]domain.Embedding, error) {
	dir := filepath.Join(s.root, "embeddings")
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read embeddings dir: %w", err)
	}

	var embeddings []domain.Embedding
	for _, kindDir := range entries {
		if !kindDir.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(dir, kindDir.Name()))
		if err != nil {
			return nil, fmt.Errorf("read embeddings/%s: %w", kindDir.Name(), err)
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
				continue
			}
			path := filepath.Join(dir, kindDir.Name(), f.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			var batch []domain.Embedding
			if err := json.Unmarshal(data, &batch); err != nil {
				return nil, fmt.Errorf("unmarshal %s: %w", path, err)
			}
			embeddings = append(embeddings, batch...)
		}
	}
	return embeddings, nil
}

// DeleteDocumentArtifacts removes everything persisted for nodeID: its node
// file, its embeddings file, and every edge line where either endpoint
// equals nodeID.
func (s *Store) DeleteDocumentArtifacts(k domain.Kind, documentID, nodeID string) error {
	if err := os.Remove(s.nodePath(k, documentID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove node file: %w", err)
	}
	if err := os.Remove(s.embeddingsPath(k, documentID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove embeddings file: %w", err)
	}

	edges, err := s.ReadEdges()
	if err != nil {
		return err
	}
	kept := edges[:0]
	for _, e := range edges {
		if e.From == nodeID || e.To == nodeID {
			continue
		}
		kept = append(kept, e)
	}
	if err := s.ClearEdges(); err != nil {
		return err
	}
	return s.AppendEdges(kept)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
