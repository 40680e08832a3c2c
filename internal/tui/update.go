package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case deckSavedMsg:
		if msg.err != nil {
			m.lastError = msg.err
		} else {
			m.statusMessage = fmt.Sprintf("Saved deck %q", msg.name)
			m.marked = make(map[string]bool)
		}
	}
	return m, nil
}

// handleKeyMsg routes key messages to the appropriate handler.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchMode {
		return m.handleSearchInput(msg)
	}
	if m.activeModal != ModalNone {
		return m.handleModalKeys(msg)
	}
	return m.handleMainViewKeys(msg)
}

// handleSearchInput handles key input when in search mode.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.searchMode = false
		m.searchQuery = ""
		m.RefreshFilteredCards()
		return m, nil

	case tea.KeyEnter:
		m.searchMode = false
		m.RefreshFilteredCards()
		return m, nil

	case tea.KeyBackspace:
		if len(m.searchQuery) > 0 {
			m.searchQuery = m.searchQuery[:len(m.searchQuery)-1]
		}
		m.RefreshFilteredCards()
		return m, nil

	case tea.KeyRunes:
		m.searchQuery += string(msg.Runes)
		m.RefreshFilteredCards()
		return m, nil

	case tea.KeySpace:
		m.searchQuery += " "
		m.RefreshFilteredCards()
		return m, nil
	}

	return m, nil
}

// handleModalKeys handles key input when a modal is active.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.activeModal = ModalNone
		m.selectedCard = nil
		return m, nil

	case "enter":
		switch m.activeModal {
		case ModalConfirm:
			m.activeModal = ModalNone
			return m, m.saveDeck()
		case ModalColor:
			m.activeModal = ModalNone
			m.ApplyColorFilter(colorOptions[m.colorCursor].symbol)
			return m, nil
		}
		m.activeModal = ModalNone
		m.selectedCard = nil
		return m, nil

	case "j", "down":
		if m.activeModal == ModalColor && m.colorCursor < len(colorOptions)-1 {
			m.colorCursor++
		}
		return m, nil

	case "k", "up":
		if m.activeModal == ModalColor && m.colorCursor > 0 {
			m.colorCursor--
		}
		return m, nil
	}

	return m, nil
}

// handleMainViewKeys handles key input in the main card list view.
func (m Model) handleMainViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	// Navigation
	case "j", "down":
		m.cursor = min(m.cursor+1, len(m.filteredCards)-1)
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case "k", "up":
		m.cursor = max(m.cursor-1, 0)
		return m, nil

	case "g":
		m.cursor = 0
		return m, nil

	case "G":
		if len(m.filteredCards) > 0 {
			m.cursor = len(m.filteredCards) - 1
		}
		return m, nil

	// Search
	case "/":
		m.searchMode = true
		m.searchQuery = ""
		return m, nil

	// Filters
	case "a":
		m.ApplyFilter(FilterAll)
		return m, nil

	case "c":
		m.ApplyFilter(FilterCreatures)
		return m, nil

	case "p":
		m.ApplyFilter(FilterSpells)
		return m, nil

	case "l":
		m.ApplyFilter(FilterLands)
		return m, nil

	case "o":
		m.activeModal = ModalColor
		m.colorCursor = 0
		return m, nil

	// Sorting
	case "1":
		m.toggleOrApplySort(SortName)
		return m, nil

	case "2":
		m.toggleOrApplySort(SortCMC)
		return m, nil

	case "3":
		m.toggleOrApplySort(SortRarity)
		return m, nil

	case "4":
		m.toggleOrApplySort(SortSet)
		return m, nil

	// Marking
	case " ":
		if len(m.filteredCards) > 0 {
			id := m.filteredCards[m.cursor].ID
			if m.marked[id] {
				delete(m.marked, id)
			} else {
				m.marked[id] = true
			}
		}
		return m, nil

	case "A":
		for _, c := range m.filteredCards {
			m.marked[c.ID] = true
		}
		return m, nil

	case "U":
		m.marked = make(map[string]bool)
		return m, nil

	// Modals
	case "enter":
		if len(m.filteredCards) > 0 {
			card := m.filteredCards[m.cursor]
			m.selectedCard = &card
			m.activeModal = ModalDetail
		}
		return m, nil

	case "s":
		if m.mode == ModeBuild && len(m.marked) > 0 {
			m.activeModal = ModalConfirm
		}
		return m, nil

	case "?":
		m.activeModal = ModalHelp
		return m, nil
	}

	return m, nil
}

// toggleOrApplySort applies the sort field, or flips direction when the
// field is already active.
func (m *Model) toggleOrApplySort(field SortField) {
	if m.sortField == field {
		m.ToggleSortDirection()
		return
	}
	m.sortAscending = true
	m.ApplySort(field)
}

// saveDeck persists marked cards through the deck saver.
func (m Model) saveDeck() tea.Cmd {
	picked := m.MarkedCards()
	name := m.deckName
	saver := m.saver
	return func() tea.Msg {
		if saver == nil {
			return deckSavedMsg{name: name, err: fmt.Errorf("no deck store available")}
		}
		_, err := saver.SaveFromCards(context.Background(), name, picked)
		return deckSavedMsg{name: name, err: err}
	}
}
