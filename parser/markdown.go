// Package parser turns raw specification bytes into front-matter plus an
// ordered section tree, and extracts wiki-link references from free text.
// It never fails: malformed front-matter or unparsable headings fall back
// to the safe defaults described by spec.md §4.2 and §7.
package parser

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the result of parsing one source file: its front-matter
// mapping (nil if none was present or it failed to parse), the body text
// that follows it, and the ordered sections scanned from that body.
type Document struct {
	FrontMatter map[string]any
	Body        string
	Sections    []Section
}

// Section has the same fields as domain.Section but stays parser-local so
// this package has no dependency on domain; extract.Document carries it
// as is.
type Section struct {
	Heading string
	Level   int
	Body    string
	Path    string
}

const delimiter = "---"

// Parse splits content into front-matter and body, then scans the body for
// sections. On front-matter parse failure the whole content is treated as
// body with an empty front-matter mapping, per spec.md §4.2.
func Parse(content string) Document {
	frontMatter, body := splitFrontMatter(content)
	return Document{
		FrontMatter: frontMatter,
		Body:        body,
		Sections:    ParseSections(body),
	}
}

func splitFrontMatter(content string) (map[string]any, string) {
	if !strings.HasPrefix(content, delimiter+"\n") && !strings.HasPrefix(content, delimiter+"\r\n") {
		return nil, content
	}

	start := len(delimiter)
	if start < len(content) && content[start] == '\r' {
		start++
	}
	if start < len(content) && content[start] == '\n' {
		start++
	}

	rest := content[start:]
	closeIdx := strings.Index(rest, "\n"+delimiter)
	if closeIdx == -1 {
		return nil, content
	}

	yamlBlock := rest[:closeIdx]
	afterClose := rest[closeIdx+1+len(delimiter):]
	afterClose = strings.TrimLeft(afterClose, "\r\n")

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(yamlBlock), &fm); err != nil {
		return nil, content
	}

	return fm, afterClose
}

// ParseSections scans body for ATX-style headings (# through ######) and
// builds the ordered section list, each carrying its dotted ancestor-slug
// path. Sibling and deeper open sections are popped so a section's path is
// exactly the chain of ancestor headings.
func ParseSections(body string) []Section {
	lines := strings.Split(body, "\n")

	type open struct {
		level int
		slug  string
	}
	var stack []open
	var sections []Section

	var currentLines []string
	var current *Section

	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.Trim(strings.Join(currentLines, "\n"), "\n")
		sections = append(sections, *current)
		current = nil
		currentLines = nil
	}

	for _, line := range lines {
		level, heading := parseHeadingLine(line)
		if level == 0 {
			if current != nil {
				currentLines = append(currentLines, line)
			}
			continue
		}

		flush()

		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}

		slug := Slugify(heading)
		parts := make([]string, 0, len(stack)+1)
		for _, o := range stack {
			parts = append(parts, o.slug)
		}
		parts = append(parts, slug)

		stack = append(stack, open{level: level, slug: slug})

		current = &Section{
			Heading: heading,
			Level:   level,
			Path:    strings.Join(parts, "."),
		}
	}
	flush()

	return sections
}

func parseHeadingLine(line string) (level int, heading string) {
	i := 0
	for i < len(line) && line[i] == '#' {
		i++
	}
	if i == 0 || i > 6 {
		return 0, ""
	}
	if i >= len(line) || (line[i] != ' ' && line[i] != '\t') {
		return 0, ""
	}
	return i, strings.TrimSpace(line[i:])
}
