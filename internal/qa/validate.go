package qa

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	fenceRe = regexp.MustCompile("(?s)```(?:cypher|sql)?\\s*(.*?)```")
	labelRe = regexp.MustCompile(`\(\s*\w*\s*:\s*` + "`?" + `(\w+)` + "`?")
	relRe   = regexp.MustCompile(`\[\s*\w*\s*:\s*` + "`?" + `(\w+)` + "`?")

	// alias.property references. Both sides must start with a letter so
	// numeric literals like 1.5 do not match.
	propRe = regexp.MustCompile(`\b[A-Za-z_]\w*\.([A-Za-z_]\w*)`)

	stringLitRe = regexp.MustCompile(`'[^']*'|"[^"]*"`)

	// Clauses that would write to the store. Generated queries are
	// read-only by contract; anything else is rejected outright.
	mutationRe = regexp.MustCompile(`(?i)\b(CREATE|MERGE|DELETE|DETACH|SET|REMOVE|DROP|FOREACH)\b|\bLOAD\s+CSV\b`)
)

// extractQuery strips code fences and surrounding prose from raw model
// output, returning the best-effort query text.
func extractQuery(raw string) string {
	raw = strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		raw = strings.TrimSpace(m[1])
	}
	// Some models prefix the query with a label line.
	raw = strings.TrimPrefix(raw, "Cypher:")
	raw = strings.TrimPrefix(raw, "A:")
	return strings.TrimSpace(raw)
}

// validateQuery applies the structural constraints: non-empty, read-only,
// every referenced label/relationship/property must exist in the schema,
// and at least one schema entity must be referenced at all.
func validateQuery(query string) error {
	if query == "" {
		return fmt.Errorf("empty query")
	}

	if m := mutationRe.FindString(query); m != "" {
		return fmt.Errorf("contains data-mutating clause %q", strings.ToUpper(strings.TrimSpace(m)))
	}

	referenced := 0
	for _, m := range labelRe.FindAllStringSubmatch(query, -1) {
		if !knownLabels[m[1]] {
			return fmt.Errorf("unknown node label %q", m[1])
		}
		referenced++
	}
	for _, m := range relRe.FindAllStringSubmatch(query, -1) {
		if !knownRelationships[m[1]] {
			return fmt.Errorf("unknown relationship type %q", m[1])
		}
		referenced++
	}
	if referenced == 0 {
		return fmt.Errorf("references no known schema entities")
	}

	// Property references are scanned with string literals blanked out so a
	// dot inside quoted text cannot trip the check.
	stripped := stringLitRe.ReplaceAllString(query, "''")
	for _, m := range propRe.FindAllStringSubmatch(stripped, -1) {
		if !knownProperties[m[1]] {
			return fmt.Errorf("unknown property %q", m[1])
		}
	}

	return nil
}
