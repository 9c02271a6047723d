package parser_test

import (
	"testing"

	"github.com/c360studio/kdd/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWikiLinks_Simple(t *testing.T) {
	links := parser.ParseWikiLinks("See [[Customer]] for details.")
	require.Len(t, links, 1)
	assert.Equal(t, "Customer", links[0].Target)
	assert.False(t, links[0].Typed)
}

func TestParseWikiLinks_DomainAndAlias(t *testing.T) {
	links := parser.ParseWikiLinks("[[sales::UC-042|Place Order]]")
	require.Len(t, links, 1)
	assert.Equal(t, "sales", links[0].Domain)
	assert.Equal(t, "UC-042", links[0].Target)
	assert.Equal(t, "Place Order", links[0].Alias)
	assert.True(t, links[0].Typed)
}

func TestParseWikiLinks_EmptyIgnored(t *testing.T) {
	links := parser.ParseWikiLinks("Nothing here [[ ]] to see.")
	assert.Empty(t, links)
}

func TestParseWikiLinks_MultipleAndEntityTarget(t *testing.T) {
	text := "Relates to [[EVT-OrderPlaced]] and [[Customer|the customer]]."
	links := parser.ParseWikiLinks(text)
	require.Len(t, links, 2)
	assert.True(t, links[0].Typed)
	assert.False(t, links[1].Typed)
	assert.Equal(t, "the customer", links[1].Alias)
}

func TestTargetPrefix(t *testing.T) {
	assert.Equal(t, "UC", parser.TargetPrefix("UC-042"))
	assert.Equal(t, "", parser.TargetPrefix("Customer"))
}
