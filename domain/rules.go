package domain

import (
	"fmt"
	"strings"
)

// RouteResult is the outcome of routing a document to a kind.
type RouteResult struct {
	Kind    Kind
	Found   bool
	Warning string
}

// RouteKind implements the kind-routing domain rule (§4.1): given a
// front-matter mapping (nil means absent) and a source path, resolve the
// document's kind and flag a misplaced-file warning.
//
// Absent front-matter returns a zero RouteResult without error. An
// unrecognized or missing "kind" field also returns a zero RouteResult.
func RouteKind(frontMatter map[string]any, sourcePath string) RouteResult {
	if frontMatter == nil {
		return RouteResult{}
	}

	raw, ok := frontMatter["kind"]
	if !ok {
		return RouteResult{}
	}

	rawStr, ok := raw.(string)
	if !ok {
		return RouteResult{}
	}

	k, ok := LookupKind(rawStr)
	if !ok {
		return RouteResult{}
	}

	result := RouteResult{Kind: k, Found: true}

	expected := Info(k).ExpectedPathPrefix
	if expected != "" && !strings.Contains(normalizePath(sourcePath), expected) {
		result.Warning = fmt.Sprintf("%s '%s' found outside expected path '%s'", k, sourcePath, expected)
	}

	return result
}

func normalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
