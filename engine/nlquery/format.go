package nlquery

import (
	"fmt"
	"strings"

	"github.com/pravinyadav/No4jConnect/engine/graph"
)

// NoResults is the single block returned for an empty result set.
const NoResults = "no results"

// NotSupported is the block surfaced for unsupported questions.
const NotSupported = "query not supported"

// displayFields fixes the field order within a block. Fields absent from a
// row are omitted rather than rendered empty.
var displayFields = []string{"name", "age", "email", "phone", "skills"}

// Format renders result rows into display blocks, one block per row. Skills
// render as a comma-joined list. Empty input yields exactly one "no
// results" block.
func Format(rows []graph.Row) []string {
	if len(rows) == 0 {
		return []string{NoResults}
	}

	blocks := make([]string, 0, len(rows))
	for _, row := range rows {
		var lines []string
		for _, field := range displayFields {
			v, ok := row[field]
			if !ok || v == nil {
				continue
			}
			switch field {
			case "skills":
				skills := row.Strings(field)
				if len(skills) == 0 {
					continue
				}
				lines = append(lines, field+": "+strings.Join(skills, ", "))
			default:
				lines = append(lines, fmt.Sprintf("%s: %v", field, v))
			}
		}
		if len(lines) == 0 {
			continue
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	if len(blocks) == 0 {
		return []string{NoResults}
	}
	return blocks
}
