// Package decks covers deck list parsing, import, export, and the deck
// enrichment flows (analysis storage, descriptions, Spellbook lookups).
package decks

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Board names as stored in deck_cards.board_type.
const (
	BoardCommander  = "commander"
	BoardMainboard  = "mainboard"
	BoardSideboard  = "sideboard"
	BoardMaybeboard = "maybeboard"
)

// boardOrder is the section order used by the exporter.
var boardOrder = []string{BoardCommander, BoardMainboard, BoardSideboard, BoardMaybeboard}

var sectionHeaders = map[string]string{
	"commander":  BoardCommander,
	"mainboard":  BoardMainboard,
	"sideboard":  BoardSideboard,
	"maybeboard": BoardMaybeboard,
}

var quantityPattern = regexp.MustCompile(`(?i)^(\d+)x?\s+(.*)$`)

// Entry is one card line in a deck list.
type Entry struct {
	Name     string
	Quantity int
	Board    string
}

// Decklist is a parsed deck list: a named, ordered sequence of entries.
type Decklist struct {
	Name      string
	Commander string
	Entries   []Entry
}

// Parse reads a text deck list. Section headers (Commander, Mainboard,
// Sideboard, Maybeboard, case-insensitive) switch the current board;
// entries take the form "N Name" or "Nx Name". Lines that are neither
// are skipped. Entries before any header land on the mainboard.
func Parse(r io.Reader, name string) (Decklist, error) {
	deck := Decklist{Name: name}
	currentBoard := BoardMainboard

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if board, ok := sectionHeaders[strings.ToLower(line)]; ok {
			currentBoard = board
			continue
		}

		matches := quantityPattern.FindStringSubmatch(line)
		if len(matches) != 3 {
			continue
		}

		qty, _ := strconv.Atoi(matches[1])
		cardName := strings.TrimSpace(matches[2])
		if qty <= 0 || cardName == "" {
			continue
		}
		deck.Entries = append(deck.Entries, Entry{Name: cardName, Quantity: qty, Board: currentBoard})

		if currentBoard == BoardCommander && deck.Commander == "" {
			deck.Commander = cardName
		}
	}
	if err := scanner.Err(); err != nil {
		return Decklist{}, fmt.Errorf("reading deck list: %w", err)
	}

	return deck, nil
}

// ParseFile parses a deck list file. Text lists are named after the file;
// YAML manifests carry their own name.
func ParseFile(path string) (Decklist, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		return ParseManifestFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return Decklist{}, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(f, name)
}
