package query

import (
	"fmt"
	"strings"
)

// DefaultMaxContextChars bounds the amount of context text forwarded to the
// answer generator per question.
const DefaultMaxContextChars = 4000

// maxEffectsPerLine limits how many side effects one context line names.
const maxEffectsPerLine = 10

// BuildContextLines turns ranked hits and their side-effect lookups into
// candidate context lines, one or two lines per hit in ranking order.
func BuildContextLines(hits []Hit, sideEffects map[string][]string) []string {
	var lines []string
	for _, hit := range hits {
		lines = append(lines, fmt.Sprintf("Drug: %s (score=%.3f) - %s", hit.Name, hit.Score, hit.Description))

		effects := sideEffects[hit.Name]
		if len(effects) > 0 {
			if len(effects) > maxEffectsPerLine {
				effects = effects[:maxEffectsPerLine]
			}
			lines = append(lines, fmt.Sprintf("Side effects of %s: %s", hit.Name, strings.Join(effects, ", ")))
		}
	}
	return lines
}

// TruncateContext keeps a greedy prefix of lines whose combined length stays
// within maxChars. The first line that would overflow stops inclusion; lines
// after it are dropped regardless of their own size.
func TruncateContext(lines []string, maxChars int) []string {
	result := []string{}
	total := 0
	for _, line := range lines {
		if total+len(line) > maxChars {
			break
		}
		result = append(result, line)
		total += len(line)
	}
	return result
}
