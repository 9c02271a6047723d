package parser

import "strings"

// WikiLink is one parsed [[...]] reference.
type WikiLink struct {
	Domain string
	Target string
	Alias  string
	// Typed is true when Target starts with one of the reserved kind
	// prefixes and should be treated as a typed reference rather than an
	// entity target.
	Typed bool
}

// reservedPrefixes is the fixed set from spec.md §4.3 used to classify a
// wiki-link target as typed vs. entity. This is deliberately a narrower,
// literal list than domain.Kinds()'s node-ID prefixes — entity, ui-component
// and glossary targets are never "typed" references by this rule.
var reservedPrefixes = []string{
	"EVT-", "BR-", "BP-", "XP-", "CMD-", "QRY-", "UC-", "PROC-",
	"REQ-", "OBJ-", "ADR-", "PRD-", "UI-",
}

// ParseWikiLinks scans free text for every [[...]] occurrence and returns
// the parsed references. Empty inner contents are ignored.
func ParseWikiLinks(text string) []WikiLink {
	var links []WikiLink

	i := 0
	for i < len(text) {
		start := strings.Index(text[i:], "[[")
		if start == -1 {
			break
		}
		start += i
		end := strings.Index(text[start+2:], "]]")
		if end == -1 {
			break
		}
		end += start + 2

		inner := strings.TrimSpace(text[start+2 : end])
		i = end + 2

		if inner == "" {
			continue
		}

		if link, ok := parseWikiLinkInner(inner); ok {
			links = append(links, link)
		}
	}

	return links
}

func parseWikiLinkInner(inner string) (WikiLink, bool) {
	domainPart := ""
	rest := inner
	if idx := strings.Index(inner, "::"); idx != -1 {
		domainPart = strings.TrimSpace(inner[:idx])
		rest = strings.TrimSpace(inner[idx+2:])
	}

	target := rest
	alias := ""
	if idx := strings.Index(rest, "|"); idx != -1 {
		target = strings.TrimSpace(rest[:idx])
		alias = strings.TrimSpace(rest[idx+1:])
	}

	target = strings.TrimSpace(target)
	if target == "" {
		return WikiLink{}, false
	}

	return WikiLink{
		Domain: domainPart,
		Target: target,
		Alias:  alias,
		Typed:  isTypedTarget(target),
	}, true
}

func isTypedTarget(target string) bool {
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(target, prefix) {
			return true
		}
	}
	return false
}

// TargetPrefix returns the ID prefix portion of a target ("UC-042" ->
// "UC"), or "" if the target has no hyphen-delimited prefix.
func TargetPrefix(target string) string {
	idx := strings.Index(target, "-")
	if idx <= 0 {
		return ""
	}
	return target[:idx]
}
