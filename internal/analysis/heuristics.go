// Package analysis classifies deck lists with oracle-text heuristics and
// aggregates mana statistics into stored per-deck summaries.
package analysis

import (
	"regexp"
	"strings"
)

func containsWord(text string, pattern string) bool {
	r := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(pattern) + `\b`)
	return r.MatchString(text)
}

func containsAnyWord(text string, words ...string) bool {
	for _, w := range words {
		if containsWord(text, w) {
			return true
		}
	}
	return false
}

// containsAnyPhrase is case-sensitive; callers lower-case oracle text
// before classifying.
func containsAnyPhrase(text string, phrases ...string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func isDrawEffect(text string) bool {
	return containsAnyPhrase(text,
		"draw a card", "you may draw", "then draw", "draw two", "draw x", "investigate")
}

func isRampEffect(text string) bool {
	return containsAnyPhrase(text,
		"add {", "add one mana", "add two mana", "add three mana", "add an amount of mana",
		"search your library for a land", "create a treasure", "mana pool", "untap target land",
		"put a land card")
}

func isSingleTargetRemoval(text string) bool {
	return containsAnyPhrase(text,
		"destroy target", "exile target", "damage to target", "fight target creature",
		"choose one or both")
}

func isMassRemoval(text string) bool {
	return containsAnyPhrase(text,
		"each creature", "all creatures", "all permanents", "destroy all", "exile all",
		"sacrifice all", "each opponent sacrifices")
}

func isCounterspell(text string) bool {
	return containsAnyPhrase(text,
		"counter target", "unless its controller pays")
}

func isTokenGenerator(text string) bool {
	return containsAnyPhrase(text,
		"create a", "create a copy of", "token")
}

func isRecursionEffect(text string) bool {
	return containsAnyPhrase(text,
		"return target", "from your graveyard", "escape", "retrace", "unearth", "eternalize",
		"disturb", "embalm", "delve", "undying", "persist")
}
