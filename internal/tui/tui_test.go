package tui

import (
	"context"
	"fmt"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admin/mtg-cli/internal/cards"
)

func sampleCards() []cards.Card {
	return []cards.Card{
		{ID: "1", Name: "Llanowar Elves", TypeLine: "Creature — Elf Druid", CMC: 1, Colors: []string{"G"}, Rarity: "common", Set: "dom"},
		{ID: "2", Name: "Counterspell", TypeLine: "Instant", CMC: 2, Colors: []string{"U"}, Rarity: "uncommon", Set: "mh2"},
		{ID: "3", Name: "Wrath of God", TypeLine: "Sorcery", CMC: 4, Colors: []string{"W"}, Rarity: "rare", Set: "m10"},
		{ID: "4", Name: "Command Tower", TypeLine: "Land", CMC: 0, Colors: []string{}, Rarity: "common", Set: "cmd"},
		{ID: "5", Name: "Sol Ring", TypeLine: "Artifact", CMC: 1, Colors: []string{}, Rarity: "uncommon", Set: "cmd"},
	}
}

func keyPress(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(keyPress(k))
		m = next.(Model)
	}
	return m
}

func names(in []cards.Card) []string {
	out := make([]string, len(in))
	for i, c := range in {
		out[i] = c.Name
	}
	return out
}

func TestFilterCards(t *testing.T) {
	all := sampleCards()

	tests := []struct {
		name   string
		filter Filter
		color  string
		want   []string
	}{
		{"all", FilterAll, "", []string{"Llanowar Elves", "Counterspell", "Wrath of God", "Command Tower", "Sol Ring"}},
		{"creatures", FilterCreatures, "", []string{"Llanowar Elves"}},
		{"spells", FilterSpells, "", []string{"Counterspell", "Wrath of God"}},
		{"lands", FilterLands, "", []string{"Command Tower"}},
		{"green only", FilterAll, "G", []string{"Llanowar Elves"}},
		{"colorless", FilterAll, "C", []string{"Command Tower", "Sol Ring"}},
		{"spells in white", FilterSpells, "W", []string{"Wrath of God"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterCards(all, tt.filter, tt.color)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestSortCards(t *testing.T) {
	all := sampleCards()

	byName := sortCards(all, SortName, true)
	assert.Equal(t, []string{"Command Tower", "Counterspell", "Llanowar Elves", "Sol Ring", "Wrath of God"}, names(byName))

	byNameDesc := sortCards(all, SortName, false)
	assert.Equal(t, "Wrath of God", byNameDesc[0].Name)

	byCMC := sortCards(all, SortCMC, true)
	assert.Equal(t, "Command Tower", byCMC[0].Name)
	assert.Equal(t, "Wrath of God", byCMC[len(byCMC)-1].Name)

	byRarity := sortCards(all, SortRarity, false)
	assert.Equal(t, "Wrath of God", byRarity[0].Name)

	// Sorting must not reorder the input slice.
	assert.Equal(t, "Llanowar Elves", all[0].Name)
}

func TestSortCards_StableOnEqualKeys(t *testing.T) {
	all := sampleCards()

	// Llanowar Elves and Sol Ring share CMC 1; input order wins.
	byCMC := sortCards(all, SortCMC, true)
	assert.Equal(t, []string{"Command Tower", "Llanowar Elves", "Sol Ring", "Counterspell", "Wrath of God"}, names(byCMC))
}

func TestSearchCards(t *testing.T) {
	all := sampleCards()

	assert.Len(t, searchCards(all, ""), 5)
	assert.Equal(t, []string{"Counterspell"}, names(searchCards(all, "counter")))
	assert.Equal(t, []string{"Llanowar Elves", "Counterspell"}, names(searchCards(all, "ll")))
	assert.Empty(t, searchCards(all, "zzz"))
}

func TestModel_InitialState(t *testing.T) {
	m := NewModel(sampleCards())

	// Default sort is name ascending.
	require.Len(t, m.filteredCards, 5)
	assert.Equal(t, "Command Tower", m.filteredCards[0].Name)
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, ModalNone, m.activeModal)
}

func TestModel_Navigation(t *testing.T) {
	m := NewModel(sampleCards())

	m = press(m, "j", "j")
	assert.Equal(t, 2, m.cursor)

	m = press(m, "k")
	assert.Equal(t, 1, m.cursor)

	m = press(m, "G")
	assert.Equal(t, 4, m.cursor)

	// Moving past the end clamps.
	m = press(m, "j")
	assert.Equal(t, 4, m.cursor)

	m = press(m, "g")
	assert.Equal(t, 0, m.cursor)

	m = press(m, "k")
	assert.Equal(t, 0, m.cursor)
}

func TestModel_FilterKeysAndCursorClamp(t *testing.T) {
	m := NewModel(sampleCards())

	m = press(m, "G")
	assert.Equal(t, 4, m.cursor)

	// Narrowing to creatures leaves one card; the cursor must follow.
	m = press(m, "c")
	require.Len(t, m.filteredCards, 1)
	assert.Equal(t, "Llanowar Elves", m.filteredCards[0].Name)
	assert.Equal(t, 0, m.cursor)

	m = press(m, "a")
	assert.Len(t, m.filteredCards, 5)
}

func TestModel_SortKeyTogglesDirection(t *testing.T) {
	m := NewModel(sampleCards())

	m = press(m, "2")
	assert.Equal(t, SortCMC, m.sortField)
	assert.True(t, m.sortAscending)
	assert.Equal(t, "Command Tower", m.filteredCards[0].Name)

	// Same key again flips to descending.
	m = press(m, "2")
	assert.False(t, m.sortAscending)
	assert.Equal(t, "Wrath of God", m.filteredCards[0].Name)

	// Switching fields resets to ascending.
	m = press(m, "1")
	assert.Equal(t, SortName, m.sortField)
	assert.True(t, m.sortAscending)
}

func TestModel_Search(t *testing.T) {
	m := NewModel(sampleCards())

	m = press(m, "/")
	assert.True(t, m.searchMode)

	m = press(m, "s", "o", "l")
	require.Len(t, m.filteredCards, 1)
	assert.Equal(t, "Sol Ring", m.filteredCards[0].Name)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.False(t, m.searchMode)
	assert.Equal(t, "sol", m.searchQuery)

	// Escape clears the query entirely.
	m = press(m, "/")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = next.(Model)
	assert.False(t, m.searchMode)
	assert.Len(t, m.filteredCards, 5)
}

func TestModel_SearchBackspace(t *testing.T) {
	m := NewModel(sampleCards())

	m = press(m, "/", "x", "y")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = next.(Model)
	assert.Equal(t, "x", m.searchQuery)
}

func TestModel_Marking(t *testing.T) {
	m := NewModel(sampleCards())

	m = press(m, " ")
	require.Len(t, m.MarkedCards(), 1)
	assert.Equal(t, "Command Tower", m.MarkedCards()[0].Name)

	// Space on a marked card unmarks it.
	m = press(m, " ")
	assert.Empty(t, m.MarkedCards())

	m = press(m, "A")
	assert.Len(t, m.MarkedCards(), 5)

	m = press(m, "U")
	assert.Empty(t, m.MarkedCards())
}

func TestModel_MarkedCardsSurviveFilter(t *testing.T) {
	m := NewModel(sampleCards())

	// Mark the first card (Command Tower), then filter it out of view.
	m = press(m, " ", "c")
	require.Len(t, m.filteredCards, 1)

	picked := m.MarkedCards()
	require.Len(t, picked, 1)
	assert.Equal(t, "Command Tower", picked[0].Name)
}

func TestModel_DetailModal(t *testing.T) {
	m := NewModel(sampleCards())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.Equal(t, ModalDetail, m.activeModal)
	require.NotNil(t, m.selectedCard)
	assert.Equal(t, "Command Tower", m.selectedCard.Name)

	m = press(m, "q")
	assert.Equal(t, ModalNone, m.activeModal)
	assert.Nil(t, m.selectedCard)
}

func TestModel_ColorModal(t *testing.T) {
	m := NewModel(sampleCards())

	m = press(m, "o")
	assert.Equal(t, ModalColor, m.activeModal)

	// Down to "Blue", then apply.
	m = press(m, "j", "j")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	assert.Equal(t, ModalNone, m.activeModal)
	require.Len(t, m.filteredCards, 1)
	assert.Equal(t, "Counterspell", m.filteredCards[0].Name)
}

func TestModel_QuitKeys(t *testing.T) {
	m := NewModel(sampleCards())

	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

type fakeSaver struct {
	name   string
	picked []cards.Card
	err    error
}

func (f *fakeSaver) SaveFromCards(_ context.Context, name string, picked []cards.Card) (uuid.UUID, error) {
	f.name = name
	f.picked = picked
	return uuid.New(), f.err
}

func TestModel_BuildModeSave(t *testing.T) {
	saver := &fakeSaver{}
	m := NewBuildModel(sampleCards(), "my-deck", saver)

	// Save is a no-op with nothing marked.
	m = press(m, "s")
	assert.Equal(t, ModalNone, m.activeModal)

	m = press(m, " ", "s")
	assert.Equal(t, ModalConfirm, m.activeModal)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)

	msg := cmd()
	saved, ok := msg.(deckSavedMsg)
	require.True(t, ok)
	require.NoError(t, saved.err)
	assert.Equal(t, "my-deck", saver.name)
	require.Len(t, saver.picked, 1)
	assert.Equal(t, "Command Tower", saver.picked[0].Name)

	// Delivering the message clears the marks and sets a status line.
	next, _ = m.Update(msg)
	m = next.(Model)
	assert.Empty(t, m.MarkedCards())
	assert.Contains(t, m.statusMessage, "my-deck")
}

func TestModel_BuildModeSaveError(t *testing.T) {
	saver := &fakeSaver{err: fmt.Errorf("deck already exists")}
	m := NewBuildModel(sampleCards(), "dup", saver)

	m = press(m, " ", "s")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)

	next, _ = m.Update(cmd())
	m = next.(Model)
	assert.Error(t, m.lastError)
	// Marks are kept so the save can be retried.
	assert.Len(t, m.MarkedCards(), 1)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Sol Ring", 20, "Sol Ring"},
		{"Sol Ring", 5, "Sol …"},
		{"Lim-Dûl's Vault", 6, "Lim-D…"},
		{"Jötunheim", 1, "J"},
		{"Jötunheim", 0, ""},
	}

	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		assert.Equal(t, tt.want, got, "truncate(%q, %d)", tt.in, tt.n)
		assert.True(t, utf8.ValidString(got), "truncate(%q, %d) produced invalid UTF-8", tt.in, tt.n)
	}

	// Re-truncating keeps the ellipsis intact rather than splitting it.
	again := truncate(truncate("Atraxa, Praetors' Voice", 10), 5)
	assert.Equal(t, "Atra…", again)
	assert.True(t, utf8.ValidString(again))
}

func TestVisibleWindowFollowsCursor(t *testing.T) {
	many := make([]cards.Card, 30)
	for i := range many {
		many[i] = cards.Card{ID: fmt.Sprintf("%02d", i), Name: fmt.Sprintf("Card %02d", i)}
	}

	m := NewModel(many)
	m.height = 18 // 10 visible rows

	start, end := m.visibleWindow()
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)

	m.cursor = 25
	start, end = m.visibleWindow()
	assert.Equal(t, 16, start)
	assert.Equal(t, 26, end)
	assert.GreaterOrEqual(t, m.cursor, start)
	assert.Less(t, m.cursor, end)

	m.cursor = 29
	start, end = m.visibleWindow()
	assert.Equal(t, 20, start)
	assert.Equal(t, 30, end)
}

func TestModel_ViewRenders(t *testing.T) {
	m := NewModel(sampleCards())
	m.width = 100
	m.height = 40

	out := m.View()
	assert.Contains(t, out, "Command Tower")
	assert.Contains(t, out, "Sol Ring")
}
