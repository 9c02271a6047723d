package extract

import (
	"strings"
	"time"

	"github.com/c360studio/kdd/domain"
	"github.com/c360studio/kdd/parser"
)

// Extractor is the capability set one document kind implements: it knows
// its own kind and can turn a Document into one node plus zero or more
// edges. The registry dispatches by enum value, not by dynamic class.
type Extractor interface {
	Kind() domain.Kind
	ExtractNode(doc Document) domain.GraphNode
	ExtractEdges(doc Document) []domain.GraphEdge
}

// Registry maps a kind to the single extractor responsible for it.
type Registry struct {
	extractors map[domain.Kind]Extractor
}

// For returns the extractor registered for k, if any.
func (r *Registry) For(k domain.Kind) (Extractor, bool) {
	e, ok := r.extractors[k]
	return e, ok
}

// NewDefaultRegistry builds the registry with one extractor per closed kind
// (spec.md §4.4).
func NewDefaultRegistry() *Registry {
	extraEdges := map[domain.Kind]func(Document) []domain.GraphEdge{
		domain.KindEntity:         entityEdges,
		domain.KindCommand:        commandEdges,
		domain.KindBusinessRule:   entityRuleEdges("declaration"),
		domain.KindBusinessPolicy: entityRuleEdges("declaration"),
		domain.KindCrossPolicy:    entityRuleEdges("purpose"),
		domain.KindUseCase:        useCaseEdges,
	}

	r := &Registry{extractors: make(map[domain.Kind]Extractor)}
	for _, k := range domain.Kinds() {
		r.extractors[k] = &kindExtractor{kind: k, extraEdges: extraEdges[k]}
	}
	return r
}

// kindExtractor is the single Extractor implementation shared by every
// kind: the node envelope and the wiki-link edges it produces are
// identical across kinds, so only the per-kind additional-edges function
// varies.
type kindExtractor struct {
	kind       domain.Kind
	extraEdges func(Document) []domain.GraphEdge
}

func (e *kindExtractor) Kind() domain.Kind { return e.kind }

// NodeID returns the canonical "prefix:documentId" node ID for a document.
func NodeID(doc Document) string {
	return domain.Prefix(doc.Kind) + ":" + doc.DocumentID
}

func (e *kindExtractor) ExtractNode(doc Document) domain.GraphNode {
	info := domain.Info(doc.Kind)

	indexed := make(map[string]any, len(info.Fields)+1)
	for _, f := range info.Fields {
		if body, ok := doc.Field(f.Key); ok {
			if items := ListItems(body); len(items) > 0 {
				indexed[f.Key] = items
			} else {
				indexed[f.Key] = body
			}
		}
	}
	if t := doc.Title(); t != "" {
		indexed["title"] = t
	}

	return domain.GraphNode{
		ID:         NodeID(doc),
		Kind:       doc.Kind,
		SourcePath: doc.SourcePath,
		SourceHash: doc.SourceHash,
		Layer:      doc.Layer,
		Status:     doc.Status(),
		Aliases:    doc.Aliases(),
		Domain:     doc.DomainTag(),
		Indexed:    indexed,
		IndexedAt:  time.Now(),
	}
}

func (e *kindExtractor) ExtractEdges(doc Document) []domain.GraphEdge {
	edges := wikiLinkEdges(doc)
	if e.extraEdges != nil {
		edges = append(edges, e.extraEdges(doc)...)
	}
	return domain.DeduplicateEdges(edges)
}

// ResolveWikiTarget maps a parsed wiki-link target to the canonical
// "prefix:documentId" node-ID form so edges resolve against the graph
// store's node IDs: a typed target ("UC-042") becomes "UC:042"; any other
// target is treated as an entity reference ("Customer" becomes
// "ENT:Customer").
func ResolveWikiTarget(link parser.WikiLink) (nodeID, prefix string) {
	if link.Typed {
		p := parser.TargetPrefix(link.Target)
		rest := strings.TrimPrefix(link.Target, p+"-")
		return p + ":" + rest, p
	}
	return domain.Prefix(domain.KindEntity) + ":" + link.Target, domain.Prefix(domain.KindEntity)
}

func wikiLinkEdges(doc Document) []domain.GraphEdge {
	from := NodeID(doc)
	edges := make([]domain.GraphEdge, 0, len(doc.WikiLinks))
	for _, link := range doc.WikiLinks {
		to, prefix := ResolveWikiTarget(link)
		violation := false
		if destLayer, known := domain.LayerForPrefix(prefix); known {
			violation = domain.IsLayerViolation(doc.Layer, destLayer)
		}
		edges = append(edges, domain.GraphEdge{
			From:             from,
			To:               to,
			Type:             domain.EdgeWikiLink,
			SourcePath:       doc.SourcePath,
			ExtractionMethod: "wikilink",
			Bidirectional:    true,
			LayerViolation:   violation,
		})
	}
	return edges
}

// wikiTargetsWithPrefix scans text for wiki-links whose target carries one
// of the given reserved prefixes.
func wikiTargetsWithPrefix(text string, prefixes ...string) []parser.WikiLink {
	var out []parser.WikiLink
	for _, link := range parser.ParseWikiLinks(text) {
		for _, p := range prefixes {
			if strings.HasPrefix(link.Target, p) {
				out = append(out, link)
				break
			}
		}
	}
	return out
}

// entityTargetsIn scans text for untyped (entity) wiki-link targets.
func entityTargetsIn(text string) []parser.WikiLink {
	var out []parser.WikiLink
	for _, link := range parser.ParseWikiLinks(text) {
		if !link.Typed {
			out = append(out, link)
		}
	}
	return out
}

func entityEdges(doc Document) []domain.GraphEdge {
	from := NodeID(doc)
	var edges []domain.GraphEdge

	if relations, ok := doc.Field("relations"); ok {
		for _, row := range TableRows(relations) {
			target := cell(row, "entity", "target", "related entity")
			if target == "" {
				continue
			}
			edges = append(edges, domain.GraphEdge{
				From:             from,
				To:               domain.Prefix(domain.KindEntity) + ":" + target,
				Type:             domain.EdgeDomainRelation,
				SourcePath:       doc.SourcePath,
				ExtractionMethod: "relations-table",
				Metadata: map[string]any{
					"relation":    cell(row, "relation", "relationship", "type"),
					"cardinality": cell(row, "cardinality"),
				},
			})
		}
	}

	if lifecycleEvents, ok := doc.Field("lifecycle_events"); ok {
		for _, link := range wikiTargetsWithPrefix(lifecycleEvents, "EVT-") {
			to, _ := ResolveWikiTarget(link)
			edges = append(edges, domain.GraphEdge{
				From:             from,
				To:               to,
				Type:             domain.EdgeEmits,
				SourcePath:       doc.SourcePath,
				ExtractionMethod: "lifecycle-events",
			})
		}
	}

	return edges
}

func commandEdges(doc Document) []domain.GraphEdge {
	from := NodeID(doc)
	var edges []domain.GraphEdge

	if postconditions, ok := doc.Field("postconditions"); ok {
		for _, link := range wikiTargetsWithPrefix(postconditions, "EVT-") {
			to, _ := ResolveWikiTarget(link)
			edges = append(edges, domain.GraphEdge{
				From:             from,
				To:               to,
				Type:             domain.EdgeEmits,
				SourcePath:       doc.SourcePath,
				ExtractionMethod: "postconditions",
			})
		}
	}

	return edges
}

// entityRuleEdges returns a builder that emits ENTITY_RULE edges to every
// entity target found in the named section (business-rule/business-policy
// use "declaration"; cross-policy uses "purpose").
func entityRuleEdges(fieldKey string) func(Document) []domain.GraphEdge {
	return func(doc Document) []domain.GraphEdge {
		from := NodeID(doc)
		var edges []domain.GraphEdge

		text, ok := doc.Field(fieldKey)
		if !ok {
			return nil
		}
		for _, link := range entityTargetsIn(text) {
			to, _ := ResolveWikiTarget(link)
			edges = append(edges, domain.GraphEdge{
				From:             from,
				To:               to,
				Type:             domain.EdgeEntityRule,
				SourcePath:       doc.SourcePath,
				ExtractionMethod: fieldKey,
			})
		}
		return edges
	}
}

func useCaseEdges(doc Document) []domain.GraphEdge {
	from := NodeID(doc)
	var edges []domain.GraphEdge

	if applied, ok := doc.Field("applied_rules"); ok {
		for _, link := range wikiTargetsWithPrefix(applied, "BR-", "BP-", "XP-") {
			to, _ := ResolveWikiTarget(link)
			edges = append(edges, domain.GraphEdge{
				From: from, To: to, Type: domain.EdgeUCAppliesRule,
				SourcePath: doc.SourcePath, ExtractionMethod: "applied-rules",
			})
		}
	}

	if cmds, ok := doc.Field("commands_executed"); ok {
		for _, link := range wikiTargetsWithPrefix(cmds, "CMD-") {
			to, _ := ResolveWikiTarget(link)
			edges = append(edges, domain.GraphEdge{
				From: from, To: to, Type: domain.EdgeUCExecutesCmd,
				SourcePath: doc.SourcePath, ExtractionMethod: "commands-executed",
			})
		}
	}

	for _, link := range wikiTargetsWithPrefix(doc.Body, "OBJ-") {
		to, _ := ResolveWikiTarget(link)
		edges = append(edges, domain.GraphEdge{
			From: from, To: to, Type: domain.EdgeUCStory,
			SourcePath: doc.SourcePath, ExtractionMethod: "use-case-story",
		})
	}

	return edges
}

// cell looks up a table row value by a list of acceptable (case-insensitive,
// whitespace-insensitive) header name candidates.
func cell(row map[string]string, candidates ...string) string {
	normalized := make(map[string]string, len(row))
	for k, v := range row {
		normalized[normalizeHeader(k)] = v
	}
	for _, c := range candidates {
		if v, ok := normalized[normalizeHeader(c)]; ok {
			return v
		}
	}
	return ""
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
