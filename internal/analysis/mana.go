package analysis

import (
	"regexp"
	"strings"
)

var pipPattern = regexp.MustCompile(`\{(.*?)\}`)

// countManaPips parses a mana cost like "{2}{G/U}{G/U}" into a total
// symbol count and per-symbol counts. Hybrid symbols contribute one
// count per half, so "{U/B}" counts both U and B.
func countManaPips(manaCost string) (int, map[string]int) {
	total := 0
	counts := map[string]int{}

	tokens := pipPattern.FindAllStringSubmatch(manaCost, -1)
	for _, token := range tokens {
		contents := strings.ToUpper(token[1])
		parts := strings.Split(contents, "/")
		for _, part := range parts {
			if part == "" {
				continue
			}
			counts[part]++
			total++
		}
	}

	return total, counts
}

// colorSymbols are the pips tracked in deck color statistics.
var colorSymbols = map[string]bool{"W": true, "U": true, "B": true, "R": true, "G": true, "C": true}
