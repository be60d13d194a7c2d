package cmd

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/teal-bauer/aemctl/api"
	"github.com/teal-bauer/aemctl/internal/output"
)

// printRows renders projected rows using the projection's columns
func printRows(out *output.Output, p api.Projection, rows []*api.Node) error {
	cols := p.Columns()

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = columnHeader(c)
	}

	table := make([][]string, len(rows))
	for i, r := range rows {
		cells := make([]string, len(cols))
		for j, c := range cols {
			cells[j] = r.Text(c)
		}
		table[i] = cells
	}

	return out.Print(headers, table, rows)
}

// columnHeader turns "mimeType" into "MIME TYPE"
func columnHeader(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// lookupText returns the first non-empty value among paths
func lookupText(doc *api.Node, paths ...string) string {
	for _, p := range paths {
		if s := doc.LookupText(p); s != "" {
			return s
		}
	}
	return ""
}

// checkLimit rejects negative --limit values
func checkLimit(limit int) error {
	if limit < 0 {
		return fmt.Errorf("--limit must be zero or more, got %d", limit)
	}
	return nil
}
