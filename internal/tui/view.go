package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/admin/mtg-cli/internal/cards"
)

// visibleRows is the table height before window size is known.
const defaultVisibleRows = 20

// View implements tea.Model and renders the complete browser.
func (m Model) View() string {
	sections := []string{
		m.renderHeader(),
		m.renderTableHeader(),
		m.renderTableBody(),
		m.renderFooter(),
	}

	if m.lastError != nil {
		errMsg := m.styles.Error.Render(fmt.Sprintf("Error: %s", m.lastError.Error()))
		sections = append([]string{errMsg}, sections...)
	}

	if m.searchMode {
		searchBar := m.styles.FilterBar.Render(
			fmt.Sprintf("/ %s (%d matches)_", m.searchQuery, len(m.filteredCards)),
		)
		sections = append([]string{sections[0], searchBar}, sections[1:]...)
	}

	view := strings.Join(sections, "\n")

	if m.activeModal != ModalNone {
		var modalContent string
		switch m.activeModal {
		case ModalDetail:
			modalContent = m.renderDetailModal()
		case ModalConfirm:
			modalContent = m.renderConfirmModal()
		case ModalHelp:
			modalContent = m.renderHelpModal()
		case ModalColor:
			modalContent = m.renderColorModal()
		default:
			modalContent = m.styles.ModalBorder.Render("Unknown modal")
		}
		view = lipgloss.JoinVertical(lipgloss.Left, view, modalContent)
	}

	return view
}

func (m Model) renderHeader() string {
	title := "card browser"
	if m.mode == ModeBuild {
		title = fmt.Sprintf("deck builder - %s", m.deckName)
	}
	headerLine := fmt.Sprintf("%s (%d cards, %d marked)  [? Help]",
		title, len(m.filteredCards), len(m.marked))

	filterNames := map[Filter]string{
		FilterAll: "All", FilterCreatures: "Creatures", FilterSpells: "Spells", FilterLands: "Lands",
	}
	colorLabel := "Any"
	for _, opt := range colorOptions {
		if opt.symbol == m.colorFilter {
			colorLabel = opt.label
		}
	}
	sortNames := map[SortField]string{
		SortName: "Name", SortCMC: "CMC", SortRarity: "Rarity", SortSet: "Set",
	}
	dir := "asc"
	if !m.sortAscending {
		dir = "desc"
	}
	filterLine := fmt.Sprintf("Filter: %s | Color: %s | Sort: %s (%s)",
		filterNames[m.currentFilter], colorLabel, sortNames[m.sortField], dir)

	return m.styles.Header.Render(headerLine) + "\n" + m.styles.FilterBar.Render(filterLine)
}

func (m Model) renderTableHeader() string {
	return m.styles.TableHeader.Render(
		fmt.Sprintf("  %-36s %-12s %-28s %-5s %-8s", "NAME", "COST", "TYPE", "SET", "RARITY"))
}

// visibleWindow returns the slice bounds of the rows on screen. The
// window is derived from the cursor alone, so it always contains it.
func (m Model) visibleWindow() (int, int) {
	rows := defaultVisibleRows
	if m.height > 8 {
		rows = m.height - 8
	}
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(m.filteredCards))
	return start, end
}

func (m Model) renderTableBody() string {
	if len(m.filteredCards) == 0 {
		return m.styles.FilterBar.Render("  no cards")
	}

	start, end := m.visibleWindow()

	var b strings.Builder
	for i := start; i < end; i++ {
		c := m.filteredCards[i]
		b.WriteString(m.renderRow(c, i == m.cursor))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderRow(c cards.Card, selected bool) string {
	mark := " "
	if m.marked[c.ID] {
		mark = "*"
	}
	line := fmt.Sprintf("%s %-36s %-12s %-28s %-5s %-8s",
		mark, truncate(c.Name, 36), truncate(c.ManaCost, 12), truncate(c.TypeLine, 28),
		strings.ToUpper(c.Set), c.Rarity)

	switch {
	case selected:
		return m.styles.SelectedRow.Render(line)
	case m.marked[c.ID]:
		return m.styles.MarkedRow.Render(line)
	default:
		return m.styles.TableRow.Render(line)
	}
}

func (m Model) renderFooter() string {
	if m.statusMessage != "" {
		return m.styles.Success.Render(m.statusMessage)
	}
	keys := "j/k move  g/G jump  / search  space mark  enter detail  a/c/p/l filter  o color  1-4 sort  q quit"
	if m.mode == ModeBuild {
		keys += "  s save deck"
	}
	return m.styles.Footer.Render(keys)
}

func (m Model) renderDetailModal() string {
	if m.selectedCard == nil {
		return m.styles.ModalBorder.Render("No card selected")
	}
	c := m.selectedCard

	var b strings.Builder
	b.WriteString(m.styles.ModalTitle.Render(c.Name) + "\n\n")
	if c.ManaCost != "" {
		fmt.Fprintf(&b, "Cost:    %s\n", c.ManaCost)
	}
	fmt.Fprintf(&b, "Type:    %s\n", c.TypeLine)
	if c.Power != "" || c.Toughness != "" {
		fmt.Fprintf(&b, "P/T:     %s/%s\n", c.Power, c.Toughness)
	}
	if c.Loyalty != "" {
		fmt.Fprintf(&b, "Loyalty: %s\n", c.Loyalty)
	}
	fmt.Fprintf(&b, "Set:     %s #%s (%s)\n", strings.ToUpper(c.Set), c.CollectorNum, c.Rarity)
	if c.Artist != "" {
		fmt.Fprintf(&b, "Artist:  %s\n", c.Artist)
	}
	if c.OracleText != "" {
		b.WriteString("\n" + c.OracleText + "\n")
	}

	legal := 0
	for _, status := range c.Legalities {
		if status == "legal" {
			legal++
		}
	}
	fmt.Fprintf(&b, "\nLegal in %d formats\n", legal)
	b.WriteString("\n" + m.styles.Footer.Render("esc close"))

	return m.styles.ModalBorder.Render(b.String())
}

func (m Model) renderConfirmModal() string {
	picked := m.MarkedCards()

	var b strings.Builder
	b.WriteString(m.styles.ModalTitle.Render(fmt.Sprintf("Save %d cards as deck %q?", len(picked), m.deckName)) + "\n\n")
	for i, c := range picked {
		if i >= 5 {
			fmt.Fprintf(&b, "  ... and %d more\n", len(picked)-5)
			break
		}
		fmt.Fprintf(&b, "  %s\n", c.Name)
	}
	b.WriteString("\n" + m.styles.Footer.Render("enter save / esc cancel"))

	return m.styles.ModalBorder.Render(b.String())
}

func (m Model) renderHelpModal() string {
	help := [][2]string{
		{"j/k", "move cursor"},
		{"g/G", "jump to top/bottom"},
		{"/", "search by name"},
		{"space", "mark/unmark card"},
		{"A/U", "mark/unmark all"},
		{"enter", "card detail"},
		{"a/c/p/l", "filter: all/creatures/spells/lands"},
		{"o", "color filter"},
		{"1-4", "sort: name/cmc/rarity/set"},
		{"s", "save marked as deck (build mode)"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(m.styles.ModalTitle.Render("Help") + "\n\n")
	for _, h := range help {
		fmt.Fprintf(&b, "  %-8s %s\n", h[0], h[1])
	}

	return m.styles.ModalBorder.Render(b.String())
}

func (m Model) renderColorModal() string {
	var b strings.Builder
	b.WriteString(m.styles.ModalTitle.Render("Filter by color") + "\n\n")
	for i, opt := range colorOptions {
		cursor := " "
		if i == m.colorCursor {
			cursor = ">"
		}
		fmt.Fprintf(&b, "%s %s\n", cursor, opt.label)
	}
	b.WriteString("\n" + m.styles.Footer.Render("enter apply / esc cancel"))

	return m.styles.ModalBorder.Render(b.String())
}

// truncate shortens s to n runes, ending in an ellipsis. Slicing by
// runes keeps multi-byte card names intact.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
