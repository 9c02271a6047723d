// Package chunk implements the paragraph-level chunker (spec.md §4.5):
// embeddable sections are split into context-prefixed chunks bounded by a
// max character size, with overlap carried from the tail of a full
// accumulator into the next one.
package chunk

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/c360studio/kdd/domain"
	"github.com/c360studio/kdd/extract"
)

// Config holds chunking bounds.
type Config struct {
	MaxChunkChars int
	OverlapChars  int
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() Config {
	return Config{MaxChunkChars: 1500, OverlapChars: 200}
}

var sentenceBoundary = regexp.MustCompile(`\.\s+`)

// Document builds every chunk for a document's embeddable sections. Title
// is the document's front-matter title, if any (used in the context
// preface).
func Document(doc extract.Document, title string, cfg Config) []domain.Chunk {
	if cfg.MaxChunkChars == 0 {
		cfg = DefaultConfig()
	}

	embeddable := domain.EmbeddableSections(doc.Kind)
	if len(embeddable) == 0 {
		return nil
	}

	var chunks []domain.Chunk
	index := 0

	for _, section := range doc.Sections {
		if !embeddable[strings.ToLower(section.Heading)] {
			continue
		}
		if strings.TrimSpace(section.Body) == "" {
			continue
		}

		for _, raw := range chunkSection(section.Body, cfg) {
			id := fmt.Sprintf("%s:chunk-%d", doc.DocumentID, index)
			chunks = append(chunks, domain.Chunk{
				ID:         id,
				DocumentID: doc.DocumentID,
				Section:    section.Heading,
				Content:    raw.content,
				Context:    buildContext(doc, title, section.Heading, raw.content),
				Offset:     raw.offset,
				Index:      index,
			})
			index++
		}
	}

	return chunks
}

func buildContext(doc extract.Document, title, heading, content string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Document: %s\n", doc.DocumentID)
	fmt.Fprintf(&b, "Kind: %s\n", doc.Kind)
	fmt.Fprintf(&b, "Layer: %s\n", doc.Layer)
	if title != "" {
		fmt.Fprintf(&b, "Title: %s\n", title)
	}
	fmt.Fprintf(&b, "Section: %s\n\n", heading)
	b.WriteString(content)
	return b.String()
}

type rawChunk struct {
	content string
	offset  int
}

// chunkSection implements the three-level packing rule: paragraphs are
// greedily accumulated up to MaxChunkChars, a paragraph that alone exceeds
// the max is sentence-split, and the tail paragraph of a full accumulator
// seeds the next one when it's short enough to act as overlap.
func chunkSection(body string, cfg Config) []rawChunk {
	paragraphs, offsets := splitParagraphs(body)
	if len(paragraphs) == 0 {
		return nil
	}

	var chunks []rawChunk
	var acc []string
	var accLen int
	accOffset := offsets[0]

	flush := func() {
		if accLen == 0 {
			return
		}
		chunks = append(chunks, rawChunk{content: strings.Join(acc, "\n\n"), offset: accOffset})
		acc = nil
		accLen = 0
	}

	for i, p := range paragraphs {
		if len(p) > cfg.MaxChunkChars {
			flush()
			for _, sub := range sentenceChunks(p, cfg) {
				chunks = append(chunks, rawChunk{content: sub, offset: offsets[i]})
			}
			continue
		}

		addedLen := len(p)
		if accLen > 0 {
			addedLen += 2 // the "\n\n" separator
		}

		if accLen > 0 && accLen+addedLen > cfg.MaxChunkChars {
			tail := acc[len(acc)-1]
			flush()
			if len(tail) <= cfg.OverlapChars {
				acc = []string{tail}
				accLen = len(tail)
				accOffset = offsets[i] // best-effort: overlap seed carries forward from here
			}
		}

		if accLen == 0 {
			accOffset = offsets[i]
		}
		acc = append(acc, p)
		accLen += addedLen
	}
	flush()

	return chunks
}

// sentenceChunks splits an over-long paragraph into sentence-packed
// sub-chunks, falling back to the whole paragraph as one chunk if no
// sentence boundary exists.
func sentenceChunks(paragraph string, cfg Config) []string {
	sentences := splitSentences(paragraph)
	if len(sentences) <= 1 {
		return []string{paragraph}
	}

	var chunks []string
	var acc []string
	var accLen int

	flush := func() {
		if accLen == 0 {
			return
		}
		chunks = append(chunks, strings.Join(acc, " "))
		acc = nil
		accLen = 0
	}

	for _, s := range sentences {
		addedLen := len(s)
		if accLen > 0 {
			addedLen++ // the joining space
		}
		if accLen > 0 && accLen+addedLen > cfg.MaxChunkChars {
			flush()
		}
		acc = append(acc, s)
		accLen += addedLen
	}
	flush()

	if len(chunks) == 0 {
		return []string{paragraph}
	}
	return chunks
}

// splitSentences splits on a period followed by whitespace, keeping the
// period on the sentence it terminates. RE2 has no lookbehind for the
// spec's `(?<=\.)\s+` pattern, so the boundary is located with
// FindAllStringIndex and the split points are computed by hand instead of
// via regexp.Split, which would consume the period into the delimiter.
func splitSentences(paragraph string) []string {
	locs := sentenceBoundary.FindAllStringIndex(paragraph, -1)
	if len(locs) == 0 {
		return []string{paragraph}
	}

	var sentences []string
	start := 0
	for _, loc := range locs {
		sentences = append(sentences, paragraph[start:loc[0]+1])
		start = loc[1]
	}
	if start < len(paragraph) {
		sentences = append(sentences, paragraph[start:])
	}
	return sentences
}

// splitParagraphs splits body on blank lines, trimming each paragraph and
// tracking its starting character offset in the original body.
func splitParagraphs(body string) ([]string, []int) {
	var paragraphs []string
	var offsets []int

	blocks := regexp.MustCompile(`\n\s*\n`).Split(body, -1)
	pos := 0
	for _, block := range blocks {
		start := strings.Index(body[pos:], block)
		offset := pos
		if start >= 0 {
			offset = pos + start
		}

		trimmed := strings.TrimSpace(block)
		if trimmed != "" {
			// offset of the trimmed content within the block.
			leadTrim := strings.Index(block, trimmed)
			if leadTrim > 0 {
				offset += leadTrim
			}
			paragraphs = append(paragraphs, trimmed)
			offsets = append(offsets, offset)
		}

		pos += len(block) + 2
	}

	return paragraphs, offsets
}
