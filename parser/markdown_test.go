package parser_test

import (
	"testing"

	"github.com/c360studio/kdd/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FrontMatterAndBody(t *testing.T) {
	content := "---\nkind: entity\nid: Order\n---\n# Description\n\nAn order.\n"
	doc := parser.Parse(content)

	require.NotNil(t, doc.FrontMatter)
	assert.Equal(t, "entity", doc.FrontMatter["kind"])
	assert.Equal(t, "Order", doc.FrontMatter["id"])
	assert.Contains(t, doc.Body, "An order.")
}

func TestParse_NoFrontMatter(t *testing.T) {
	doc := parser.Parse("# Just a heading\n\nBody text.\n")
	assert.Nil(t, doc.FrontMatter)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "Just a heading", doc.Sections[0].Heading)
}

func TestParse_MalformedFrontMatterFallsBackToBody(t *testing.T) {
	content := "---\nkind: [unterminated\nrest of file without closing delimiter\n"
	doc := parser.Parse(content)
	assert.Nil(t, doc.FrontMatter)
	assert.Equal(t, content, doc.Body)
}

func TestParseSections_NestedHeadings(t *testing.T) {
	body := "# Top\n\nIntro.\n\n## Child\n\nChild body.\n\n## Child Two\n\nMore.\n"
	sections := parser.ParseSections(body)

	require.Len(t, sections, 3)
	assert.Equal(t, "top", sections[0].Path)
	assert.Equal(t, "top.child", sections[1].Path)
	assert.Equal(t, "top.child-two", sections[2].Path)
	assert.Equal(t, "Intro.", sections[0].Body)
	assert.Equal(t, "Child body.", sections[1].Body)
}

func TestParseSections_SiblingsPopDeeperAncestors(t *testing.T) {
	body := "# A\n## B\n### C\n## D\n"
	sections := parser.ParseSections(body)

	require.Len(t, sections, 4)
	assert.Equal(t, "a.b.c", sections[2].Path)
	assert.Equal(t, "a.d", sections[3].Path)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", parser.Slugify("Hello, World!"))
	assert.Equal(t, "descripcion", parser.Slugify("Descripción"))
	assert.Equal(t, "a-b_c", parser.Slugify("  A   B_C  "))
}
