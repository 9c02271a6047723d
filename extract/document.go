// Package extract implements the per-kind extractor registry (spec.md
// §4.4): each extractor turns a parsed document into exactly one
// domain.GraphNode and zero or more domain.GraphEdge values.
package extract

import (
	"strings"

	"github.com/c360studio/kdd/domain"
	"github.com/c360studio/kdd/parser"
)

// Document is the fully-parsed input an extractor consumes: front-matter,
// sections, routed kind/layer, and the unique wiki-link targets found
// anywhere in the document.
type Document struct {
	SourcePath  string
	SourceHash  string
	DocumentID  string
	Kind        domain.Kind
	Layer       domain.Layer
	FrontMatter map[string]any
	Sections    []parser.Section
	Body        string
	WikiLinks   []parser.WikiLink
}

// NewDocument builds a Document, deduplicating wiki-link targets across
// every section plus the document body itself.
func NewDocument(sourcePath, sourceHash, documentID string, k domain.Kind, layer domain.Layer,
	frontMatter map[string]any, sections []parser.Section, body string) Document {

	seen := make(map[string]bool)
	var links []parser.WikiLink
	addLinks := func(text string) {
		for _, l := range parser.ParseWikiLinks(text) {
			if seen[l.Target] {
				continue
			}
			seen[l.Target] = true
			links = append(links, l)
		}
	}
	for _, s := range sections {
		addLinks(s.Body)
	}
	addLinks(body)

	return Document{
		SourcePath:  sourcePath,
		SourceHash:  sourceHash,
		DocumentID:  documentID,
		Kind:        k,
		Layer:       layer,
		FrontMatter: frontMatter,
		Sections:    sections,
		Body:        body,
		WikiLinks:   links,
	}
}

// Field concatenates the bodies of every section whose heading resolves
// (via domain.FieldForHeading) to the given canonical key, in document
// order, separated by a blank line. Returns ("", false) if no section
// matched — a missing section never fails extraction, it simply omits the
// field.
func (d Document) Field(key string) (string, bool) {
	var parts []string
	for _, s := range d.Sections {
		fieldKey, ok := domain.FieldForHeading(d.Kind, strings.ToLower(s.Heading))
		if !ok || fieldKey != key {
			continue
		}
		if strings.TrimSpace(s.Body) == "" {
			continue
		}
		parts = append(parts, s.Body)
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "\n\n"), true
}

// Aliases coerces front-matter "aliases" into a []string, defaulting to nil
// for anything that isn't a list of strings.
func (d Document) Aliases() []string {
	raw, ok := d.FrontMatter["aliases"]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Status returns front-matter "status" or the default "draft".
func (d Document) Status() string {
	if s, ok := d.FrontMatter["status"].(string); ok && s != "" {
		return s
	}
	return "draft"
}

// DomainTag returns front-matter "domain" if present.
func (d Document) DomainTag() string {
	s, _ := d.FrontMatter["domain"].(string)
	return s
}

// Title returns front-matter "title" if present.
func (d Document) Title() string {
	s, _ := d.FrontMatter["title"].(string)
	return s
}
