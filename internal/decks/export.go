package decks

import (
	"fmt"
	"io"
	"strings"
)

// boardTitles maps board names back to the section headers the parser
// recognizes.
var boardTitles = map[string]string{
	BoardCommander:  "Commander",
	BoardMainboard:  "Mainboard",
	BoardSideboard:  "Sideboard",
	BoardMaybeboard: "Maybeboard",
}

// Export writes the deck back out in the text list format, one section
// per board in commander/mainboard/sideboard/maybeboard order. Empty
// boards are omitted. The output round-trips through Parse.
func Export(w io.Writer, deck Decklist) error {
	byBoard := make(map[string][]Entry)
	for _, e := range deck.Entries {
		byBoard[e.Board] = append(byBoard[e.Board], e)
	}

	var sections []string
	for _, board := range boardOrder {
		entries := byBoard[board]
		if len(entries) == 0 {
			continue
		}
		var b strings.Builder
		b.WriteString(boardTitles[board])
		b.WriteString("\n")
		for _, e := range entries {
			fmt.Fprintf(&b, "%d %s\n", e.Quantity, e.Name)
		}
		sections = append(sections, b.String())
	}

	_, err := io.WriteString(w, strings.Join(sections, "\n"))
	return err
}
