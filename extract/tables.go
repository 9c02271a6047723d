package extract

import "strings"

// TableRows parses an aligned pipe-delimited Markdown table. The first
// non-separator line is the header; cells are trimmed and stripped of
// back-ticks; rows shorter than the header are dropped.
func TableRows(body string) []map[string]string {
	lines := strings.Split(body, "\n")

	var header []string
	var rows []map[string]string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !strings.Contains(trimmed, "|") {
			continue
		}
		if isSeparatorRow(trimmed) {
			continue
		}

		cells := splitRow(trimmed)
		if header == nil {
			header = cells
			continue
		}

		if len(cells) < len(header) {
			continue
		}

		row := make(map[string]string, len(header))
		for i, h := range header {
			row[h] = cells[i]
		}
		rows = append(rows, row)
	}

	return rows
}

func splitRow(line string) []string {
	trimmed := strings.Trim(line, "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.Trim(strings.TrimSpace(p), "`"))
	}
	return cells
}

func isSeparatorRow(line string) bool {
	trimmed := strings.Trim(line, "|")
	for _, cell := range strings.Split(trimmed, "|") {
		cell = strings.TrimSpace(cell)
		cell = strings.Trim(cell, ":")
		if cell == "" {
			continue
		}
		for _, r := range cell {
			if r != '-' {
				return false
			}
		}
	}
	return true
}

// ListItems returns the text of every "- " or "* " bulleted line, with the
// marker removed.
func ListItems(body string) []string {
	var items []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "- "):
			items = append(items, strings.TrimSpace(trimmed[2:]))
		case strings.HasPrefix(trimmed, "* "):
			items = append(items, strings.TrimSpace(trimmed[2:]))
		}
	}
	return items
}
