package decks

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// manifest is the YAML deck format. Boards map board names to card
// entries; a missing quantity defaults to 1.
//
//	name: Atraxa Superfriends
//	commander: Atraxa, Praetors' Voice
//	boards:
//	  mainboard:
//	    - name: Sol Ring
//	    - name: Forest
//	      quantity: 10
type manifest struct {
	Name      string                     `yaml:"name"`
	Commander string                     `yaml:"commander"`
	Boards    map[string][]manifestEntry `yaml:"boards"`
}

type manifestEntry struct {
	Name     string `yaml:"name"`
	Quantity int    `yaml:"quantity"`
}

// ParseManifestFile reads a YAML deck manifest.
func ParseManifestFile(path string) (Decklist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Decklist{}, err
	}
	return parseManifest(data)
}

func parseManifest(data []byte) (Decklist, error) {
	var mf manifest
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return Decklist{}, fmt.Errorf("parsing deck manifest: %w", err)
	}
	if mf.Name == "" {
		return Decklist{}, fmt.Errorf("deck manifest is missing a name")
	}

	deck := Decklist{Name: mf.Name, Commander: mf.Commander}

	if mf.Commander != "" {
		deck.Entries = append(deck.Entries, Entry{Name: mf.Commander, Quantity: 1, Board: BoardCommander})
	}

	// Walk boards in the exporter's order so imports are deterministic.
	for _, board := range boardOrder {
		entries, ok := mf.Boards[board]
		if !ok {
			continue
		}
		for _, e := range entries {
			if e.Name == "" {
				continue
			}
			// The top-level commander is already recorded; keep any
			// further commander-board entries (partner commanders).
			if board == BoardCommander && e.Name == mf.Commander {
				continue
			}
			qty := e.Quantity
			if qty <= 0 {
				qty = 1
			}
			deck.Entries = append(deck.Entries, Entry{Name: e.Name, Quantity: qty, Board: board})
			if board == BoardCommander && deck.Commander == "" {
				deck.Commander = e.Name
			}
		}
	}

	for board := range mf.Boards {
		if _, ok := sectionHeaders[board]; !ok {
			return Decklist{}, fmt.Errorf("unknown board %q in deck manifest", board)
		}
	}

	return deck, nil
}
