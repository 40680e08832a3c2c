package decks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/admin/mtg-cli/internal/cards"
	"github.com/admin/mtg-cli/internal/logging"
)

// ErrNotFound is returned when a requested deck does not exist.
var ErrNotFound = errors.New("deck not found")

// Store provides access to the decks, deck_cards, and missing_cards
// tables.
type Store struct {
	pool  *pgxpool.Pool
	cards *cards.Store
	log   *slog.Logger
}

// NewStore creates a Store on the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:  pool,
		cards: cards.NewStore(pool),
		log:   logging.WithComponent("decks"),
	}
}

// ImportResult reports what an import did.
type ImportResult struct {
	DeckID     uuid.UUID
	Imported   int      // entries written to deck_cards
	Unresolved []string // card names not present in the cards table
	Replaced   bool     // an existing deck of the same name was replaced
}

// Import upserts a parsed deck list. Re-importing a deck name replaces
// its card rows. Cards resolve case-insensitively against the cards
// table; unresolved names are reported but do not fail the import.
// Resolved cards that are not owned, or owned but committed to other
// decks, are recorded in missing_cards.
func (s *Store) Import(ctx context.Context, deck Decklist) (ImportResult, error) {
	res := ImportResult{DeckID: uuid.New()}

	var existingID string
	err := s.pool.QueryRow(ctx, `SELECT id FROM decks WHERE name = $1 LIMIT 1`, deck.Name).Scan(&existingID)
	switch {
	case err == nil:
		res.DeckID = uuid.MustParse(existingID)
		res.Replaced = true
		if _, err := s.pool.Exec(ctx, `DELETE FROM missing_cards WHERE deck_id = $1`, res.DeckID); err != nil {
			return res, fmt.Errorf("clearing missing cards: %w", err)
		}
		if _, err := s.pool.Exec(ctx, `DELETE FROM deck_cards WHERE deck_id = $1`, res.DeckID); err != nil {
			return res, fmt.Errorf("clearing deck cards: %w", err)
		}
		if _, err := s.pool.Exec(ctx, `UPDATE decks SET commander_name = $1 WHERE id = $2`, deck.Commander, res.DeckID); err != nil {
			return res, fmt.Errorf("updating deck: %w", err)
		}
	case errors.Is(err, pgx.ErrNoRows):
		_, err = s.pool.Exec(ctx,
			`INSERT INTO decks (id, name, commander_name, created_at) VALUES ($1, $2, $3, $4)`,
			res.DeckID, deck.Name, deck.Commander, time.Now())
		if err != nil {
			return res, fmt.Errorf("failed to create deck: %w", err)
		}
	default:
		return res, fmt.Errorf("looking up deck: %w", err)
	}

	for _, entry := range deck.Entries {
		cardID, err := s.cards.ResolveIDByName(ctx, entry.Name)
		if errors.Is(err, cards.ErrNotFound) {
			s.log.Warn("card not found in database", "card", entry.Name)
			res.Unresolved = append(res.Unresolved, entry.Name)
			continue
		}
		if err != nil {
			return res, err
		}

		_, err = s.pool.Exec(ctx, `
			INSERT INTO deck_cards (deck_id, card_id, quantity, board_type)
			VALUES ($1, $2, $3, $4)
		`, res.DeckID, cardID, entry.Quantity, entry.Board)
		if err != nil {
			return res, fmt.Errorf("failed to insert deck card: %w", err)
		}
		res.Imported++

		if err := s.recordAvailability(ctx, res.DeckID, cardID, entry.Quantity); err != nil {
			s.log.Warn("availability check failed", "card", entry.Name, "error", err)
		}
	}

	return res, nil
}

// recordAvailability writes a missing_cards row when the card is not
// owned, or owned copies are already committed to other decks.
func (s *Store) recordAvailability(ctx context.Context, deckID uuid.UUID, cardID string, quantity int) error {
	var owned, inUse int
	if err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM owned_cards WHERE card_id = $1`, cardID).Scan(&owned); err != nil {
		return err
	}
	if err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM deck_cards WHERE card_id = $1 AND deck_id != $2`,
		cardID, deckID).Scan(&inUse); err != nil {
		return err
	}

	reason := ""
	if owned == 0 {
		reason = "not_owned"
	} else if owned-inUse < quantity {
		reason = "in_use_elsewhere"
	}
	if reason == "" {
		return nil
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO missing_cards (deck_id, card_id, reason) VALUES ($1, $2, $3)`,
		deckID, cardID, reason)
	return err
}

// Summary is one row of `deck-builder list`.
type Summary struct {
	ID        uuid.UUID
	Name      string
	Commander string
	CardCount int
	Analyzed  bool
}

// List returns all decks with card counts and analysis presence.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT d.id, d.name, d.commander_name,
		       COALESCE(SUM(dc.quantity), 0) AS card_count,
		       (a.deck_id IS NOT NULL) AS analyzed
		FROM decks d
		LEFT JOIN deck_cards dc ON dc.deck_id = d.id
		LEFT JOIN deck_analysis a ON a.deck_id = d.id
		GROUP BY d.id, d.name, d.commander_name, a.deck_id
		ORDER BY d.name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying decks: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Commander, &sum.CardCount, &sum.Analyzed); err != nil {
			return nil, fmt.Errorf("scanning deck: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Get loads a deck and its card entries by name.
func (s *Store) Get(ctx context.Context, name string) (uuid.UUID, Decklist, error) {
	var (
		deckID    uuid.UUID
		deck      Decklist
		commander string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, commander_name FROM decks WHERE lower(name) = lower($1) LIMIT 1`,
		name).Scan(&deckID, &deck.Name, &commander)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, Decklist{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return uuid.Nil, Decklist{}, fmt.Errorf("looking up deck: %w", err)
	}
	deck.Commander = commander

	rows, err := s.pool.Query(ctx, `
		SELECT c.name, dc.quantity, dc.board_type
		FROM deck_cards dc
		JOIN cards c ON c.id = dc.card_id
		WHERE dc.deck_id = $1
		ORDER BY dc.board_type, c.name
	`, deckID)
	if err != nil {
		return uuid.Nil, Decklist{}, fmt.Errorf("querying deck cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Quantity, &e.Board); err != nil {
			return uuid.Nil, Decklist{}, fmt.Errorf("scanning deck card: %w", err)
		}
		deck.Entries = append(deck.Entries, e)
	}
	return deckID, deck, rows.Err()
}

// Description returns the stored deck description, if any.
func (s *Store) Description(ctx context.Context, deckID uuid.UUID) (string, string, error) {
	var description, model *string
	err := s.pool.QueryRow(ctx,
		`SELECT description, description_gpt_model FROM decks WHERE id = $1`, deckID).
		Scan(&description, &model)
	if err != nil {
		return "", "", err
	}
	desc, mdl := "", ""
	if description != nil {
		desc = *description
	}
	if model != nil {
		mdl = *model
	}
	return desc, mdl, nil
}

// SaveFromCards creates a deck from browser-marked cards: one copy per
// card on the mainboard. An existing deck of that name is an error so
// the browser cannot clobber an imported deck.
func (s *Store) SaveFromCards(ctx context.Context, name string, picked []cards.Card) (uuid.UUID, error) {
	if name == "" {
		return uuid.Nil, fmt.Errorf("deck name is required")
	}
	if len(picked) == 0 {
		return uuid.Nil, fmt.Errorf("no cards to save")
	}

	var existing string
	err := s.pool.QueryRow(ctx, `SELECT id FROM decks WHERE name = $1 LIMIT 1`, name).Scan(&existing)
	if err == nil {
		return uuid.Nil, fmt.Errorf("deck %q already exists", name)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("looking up deck: %w", err)
	}

	deckID := uuid.New()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO decks (id, name, created_at) VALUES ($1, $2, $3)`,
		deckID, name, time.Now())
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create deck: %w", err)
	}

	for _, c := range picked {
		_, err = s.pool.Exec(ctx, `
			INSERT INTO deck_cards (deck_id, card_id, quantity, board_type)
			VALUES ($1, $2, 1, $3)
		`, deckID, c.ID, BoardMainboard)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert deck card: %w", err)
		}
	}

	return deckID, nil
}
