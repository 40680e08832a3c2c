package tui

import (
	"slices"
	"sort"
	"strings"

	"github.com/admin/mtg-cli/internal/cards"
)

// rarityRank orders rarities for sorting; unknown rarities sort last.
var rarityRank = map[string]int{
	"common":   0,
	"uncommon": 1,
	"rare":     2,
	"mythic":   3,
}

// filterCards returns the cards matching the filter type and color.
func filterCards(all []cards.Card, filter Filter, color string) []cards.Card {
	result := make([]cards.Card, 0, len(all))

	for _, c := range all {
		switch filter {
		case FilterAll:
			// Include everything
		case FilterCreatures:
			if !strings.Contains(c.TypeLine, "Creature") {
				continue
			}
		case FilterSpells:
			if !strings.Contains(c.TypeLine, "Instant") && !strings.Contains(c.TypeLine, "Sorcery") {
				continue
			}
		case FilterLands:
			if !strings.Contains(c.TypeLine, "Land") {
				continue
			}
		}

		if color != "" {
			if color == "C" {
				if len(c.Colors) != 0 {
					continue
				}
			} else if !slices.Contains(c.Colors, color) {
				continue
			}
		}

		result = append(result, c)
	}

	return result
}

// sortCards returns a sorted copy of the card slice. Stable sort keeps
// the relative order of equal elements.
func sortCards(in []cards.Card, field SortField, ascending bool) []cards.Card {
	result := make([]cards.Card, len(in))
	copy(result, in)

	sort.SliceStable(result, func(i, j int) bool {
		var less bool

		switch field {
		case SortName:
			less = strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
		case SortCMC:
			less = result[i].CMC < result[j].CMC
		case SortRarity:
			less = rarityRank[result[i].Rarity] < rarityRank[result[j].Rarity]
		case SortSet:
			less = result[i].Set < result[j].Set
		default:
			less = strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
		}

		if ascending {
			return less
		}
		return !less
	})

	return result
}

// searchCards narrows the slice to cards whose name contains the query,
// case-insensitively.
func searchCards(in []cards.Card, query string) []cards.Card {
	if query == "" {
		return in
	}
	q := strings.ToLower(query)
	result := make([]cards.Card, 0, len(in))
	for _, c := range in {
		if strings.Contains(strings.ToLower(c.Name), q) {
			result = append(result, c)
		}
	}
	return result
}

// ApplyFilter sets the current filter and refreshes the card list.
func (m *Model) ApplyFilter(filter Filter) {
	m.currentFilter = filter
	m.RefreshFilteredCards()
}

// ApplyColorFilter sets the color filter and refreshes the card list.
func (m *Model) ApplyColorFilter(color string) {
	m.colorFilter = color
	m.RefreshFilteredCards()
}

// ApplySort sets the sort field and refreshes the card list.
func (m *Model) ApplySort(field SortField) {
	m.sortField = field
	m.RefreshFilteredCards()
}

// ToggleSortDirection flips between ascending and descending order.
func (m *Model) ToggleSortDirection() {
	m.sortAscending = !m.sortAscending
	m.RefreshFilteredCards()
}

// RefreshFilteredCards applies the current filter, search, and sort.
func (m *Model) RefreshFilteredCards() {
	filtered := filterCards(m.allCards, m.currentFilter, m.colorFilter)
	filtered = searchCards(filtered, m.searchQuery)
	m.filteredCards = sortCards(filtered, m.sortField, m.sortAscending)

	if m.cursor >= len(m.filteredCards) {
		m.cursor = len(m.filteredCards) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
