// Package tui provides the Bubble Tea card browser entered from
// `card-search --interactive` and `deck-builder build`.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/admin/mtg-cli/internal/cards"
)

// Filter represents the available card filter options.
type Filter int

const (
	FilterAll Filter = iota
	FilterCreatures
	FilterSpells
	FilterLands
)

// SortField represents the available sorting fields.
type SortField int

const (
	SortName SortField = iota
	SortCMC
	SortRarity
	SortSet
)

// ModalType represents the type of modal currently displayed.
type ModalType int

const (
	ModalNone ModalType = iota
	ModalDetail
	ModalConfirm
	ModalHelp
	ModalColor
)

// Mode selects browser behavior: plain browsing, or building a deck
// from marked cards.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeBuild
)

// DeckSaver persists a deck built from marked cards. Satisfied by
// decks.Store.
type DeckSaver interface {
	SaveFromCards(ctx context.Context, name string, picked []cards.Card) (uuid.UUID, error)
}

// colorOption is one entry in the color filter modal.
type colorOption struct {
	symbol string
	label  string
}

var colorOptions = []colorOption{
	{"", "Any"},
	{"W", "White"},
	{"U", "Blue"},
	{"B", "Black"},
	{"R", "Red"},
	{"G", "Green"},
	{"C", "Colorless"},
}

// Model is the card browser model.
type Model struct {
	// Data
	allCards      []cards.Card
	filteredCards []cards.Card

	// Build mode
	mode     Mode
	deckName string
	saver    DeckSaver

	// UI state
	cursor int
	marked map[string]bool // key: card id; one copy per card

	// Filters
	currentFilter Filter
	colorFilter   string

	// Sorting
	sortField     SortField
	sortAscending bool

	// Modals
	activeModal  ModalType
	selectedCard *cards.Card
	colorCursor  int

	// Search
	searchMode  bool
	searchQuery string

	// Dimensions
	width, height int

	// Messages
	lastError     error
	statusMessage string

	// Styles
	styles Styles
}

// deckSavedMsg reports the outcome of a save from the confirm modal.
type deckSavedMsg struct {
	name string
	err  error
}

// NewModel creates a browse-mode model over the given cards.
func NewModel(results []cards.Card) Model {
	m := Model{
		allCards:      results,
		marked:        make(map[string]bool),
		currentFilter: FilterAll,
		sortField:     SortName,
		sortAscending: true,
		activeModal:   ModalNone,
		styles:        DefaultStyles(),
	}
	m.RefreshFilteredCards()
	return m
}

// NewBuildModel creates a build-mode model that saves marked cards as a
// deck with the given name.
func NewBuildModel(results []cards.Card, deckName string, saver DeckSaver) Model {
	m := NewModel(results)
	m.mode = ModeBuild
	m.deckName = deckName
	m.saver = saver
	return m
}

// MarkedCards returns the marked cards in display order.
func (m Model) MarkedCards() []cards.Card {
	var picked []cards.Card
	for _, c := range m.filteredCards {
		if m.marked[c.ID] {
			picked = append(picked, c)
		}
	}
	// Marked cards filtered out of view still count.
	seen := make(map[string]bool, len(picked))
	for _, c := range picked {
		seen[c.ID] = true
	}
	for _, c := range m.allCards {
		if m.marked[c.ID] && !seen[c.ID] {
			picked = append(picked, c)
		}
	}
	return picked
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}
