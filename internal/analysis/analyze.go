package analysis

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/admin/mtg-cli/internal/logging"
)

// DeckCard is one commander/mainboard card row fed into Summarize.
type DeckCard struct {
	Name       string
	CMC        float64
	TypeLine   string
	ManaCost   string
	OracleText string
	IsLand     bool
	IsBasic    bool
	Quantity   int
}

// Summary is the computed analysis of a deck.
type Summary struct {
	DrawCount           int
	SingleTargetRemoval int
	MassRemoval         int
	Counterspells       int
	Ramp                int
	Tokens              int
	Recursion           int

	AverageManaValue float64
	HighestManaValue float64
	ManaCurve        map[int]int
	ColorPips        map[string]int

	BasicLands    int
	NonBasicLands int
	Lands         int

	CardTypes []string
}

// Summarize computes the deck summary from its card rows. Pure function;
// the database only enters through LoadDeckCards and save.
func Summarize(deckCards []DeckCard) Summary {
	sum := Summary{
		ManaCurve: map[int]int{},
		ColorPips: map[string]int{"W": 0, "U": 0, "B": 0, "R": 0, "G": 0, "C": 0},
	}

	totalCMC := 0.0
	totalNonLand := 0
	typeSet := map[string]bool{}

	for _, card := range deckCards {
		oracle := strings.ToLower(card.OracleText)

		if isDrawEffect(oracle) {
			sum.DrawCount += card.Quantity
		}
		if isRampEffect(oracle) && !card.IsLand {
			sum.Ramp += card.Quantity
		}
		if isSingleTargetRemoval(oracle) {
			sum.SingleTargetRemoval += card.Quantity
		}
		if isMassRemoval(oracle) {
			sum.MassRemoval += card.Quantity
		}
		if isCounterspell(oracle) {
			sum.Counterspells += card.Quantity
		}
		if isTokenGenerator(oracle) {
			sum.Tokens += card.Quantity
		}
		if isRecursionEffect(oracle) {
			sum.Recursion += card.Quantity
		}

		if card.IsLand {
			sum.Lands += card.Quantity
			if card.IsBasic {
				sum.BasicLands += card.Quantity
			} else {
				sum.NonBasicLands += card.Quantity
			}
			continue
		}

		totalCMC += card.CMC * float64(card.Quantity)
		totalNonLand += card.Quantity
		sum.ManaCurve[int(card.CMC)] += card.Quantity

		_, pips := countManaPips(card.ManaCost)
		for sym, n := range pips {
			if colorSymbols[sym] {
				sum.ColorPips[sym] += n * card.Quantity
			}
		}

		for _, t := range strings.Split(card.TypeLine, " ") {
			if len(t) > 0 && unicode.IsUpper(rune(t[0])) {
				typeSet[t] = true
			}
		}

		if card.CMC > sum.HighestManaValue {
			sum.HighestManaValue = card.CMC
		}
	}

	if totalNonLand > 0 {
		sum.AverageManaValue = totalCMC / float64(totalNonLand)
	}

	for t := range typeSet {
		sum.CardTypes = append(sum.CardTypes, t)
	}
	sort.Strings(sum.CardTypes)

	return sum
}

// LoadDeckCards loads the commander and mainboard rows for a deck.
func LoadDeckCards(ctx context.Context, handle *sql.DB, deckID string) ([]DeckCard, error) {
	rows, err := handle.QueryContext(ctx, `
		SELECT c.name, c.cmc, c.type_line, c.mana_cost, c.oracle_text,
		       (POSITION('Land' IN c.type_line) > 0) AS is_land,
		       (POSITION('Basic' IN c.type_line) > 0) AS is_basic,
		       dc.quantity
		FROM deck_cards dc
		JOIN cards c ON c.id = dc.card_id
		WHERE dc.deck_id = $1 AND dc.board_type IN ('commander', 'mainboard')
	`, deckID)
	if err != nil {
		return nil, fmt.Errorf("querying deck cards: %w", err)
	}
	defer rows.Close()

	var deckCards []DeckCard
	for rows.Next() {
		var card DeckCard
		err := rows.Scan(&card.Name, &card.CMC, &card.TypeLine, &card.ManaCost, &card.OracleText,
			&card.IsLand, &card.IsBasic, &card.Quantity)
		if err != nil {
			return nil, fmt.Errorf("scanning deck card: %w", err)
		}
		deckCards = append(deckCards, card)
	}
	return deckCards, rows.Err()
}

// AnalyzeDeck computes and stores the analysis for one deck.
func AnalyzeDeck(ctx context.Context, handle *sql.DB, deckID string) error {
	deckCards, err := LoadDeckCards(ctx, handle, deckID)
	if err != nil {
		return err
	}

	sum := Summarize(deckCards)

	typesJSON, _ := json.Marshal(sum.CardTypes)
	manaCurveJSON, _ := json.Marshal(sum.ManaCurve)
	colorPipsJSON, _ := json.Marshal(sum.ColorPips)

	_, err = handle.ExecContext(ctx, `
		INSERT INTO deck_analysis (
			deck_id, draw_count, single_target_removal_count, mass_removal_count, counterspell_count, ramp_count, token_count, recursion_count,
			average_mana_value, mana_curve, color_symbols, basic_land_count, nonbasic_land_count, land_count, card_types, highest_mana_value
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		) ON CONFLICT (deck_id) DO UPDATE SET
			draw_count = EXCLUDED.draw_count,
			single_target_removal_count = EXCLUDED.single_target_removal_count,
			mass_removal_count = EXCLUDED.mass_removal_count,
			counterspell_count = EXCLUDED.counterspell_count,
			ramp_count = EXCLUDED.ramp_count,
			token_count = EXCLUDED.token_count,
			recursion_count = EXCLUDED.recursion_count,
			average_mana_value = EXCLUDED.average_mana_value,
			mana_curve = EXCLUDED.mana_curve,
			color_symbols = EXCLUDED.color_symbols,
			basic_land_count = EXCLUDED.basic_land_count,
			nonbasic_land_count = EXCLUDED.nonbasic_land_count,
			land_count = EXCLUDED.land_count,
			card_types = EXCLUDED.card_types,
			highest_mana_value = EXCLUDED.highest_mana_value
	`,
		deckID, sum.DrawCount, sum.SingleTargetRemoval, sum.MassRemoval, sum.Counterspells, sum.Ramp, sum.Tokens, sum.Recursion,
		sum.AverageManaValue, string(manaCurveJSON), string(colorPipsJSON), sum.BasicLands, sum.NonBasicLands, sum.Lands,
		string(typesJSON), sum.HighestManaValue)
	if err != nil {
		return fmt.Errorf("failed to update deck_analysis: %w", err)
	}
	return nil
}

// AnalyzeMissing analyzes every deck without a stored analysis.
// Per-deck failures are logged and skipped.
func AnalyzeMissing(ctx context.Context, handle *sql.DB) error {
	log := logging.WithComponent("analysis")

	rows, err := handle.QueryContext(ctx, `
		SELECT d.id, d.name
		FROM decks d
		LEFT JOIN deck_analysis a ON d.id = a.deck_id
		WHERE a.deck_id IS NULL
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	type deckRow struct{ id, name string }
	var pending []deckRow
	for rows.Next() {
		var r deckRow
		if err := rows.Scan(&r.id, &r.name); err != nil {
			log.Warn("error scanning deck", "error", err)
			continue
		}
		pending = append(pending, r)
	}
	rows.Close()

	for _, r := range pending {
		fmt.Printf("Analyzing deck: %s (%s)\n", r.name, r.id)
		if err := AnalyzeDeck(ctx, handle, r.id); err != nil {
			log.Warn("analysis failed", "deck", r.name, "error", err)
		}
	}
	return nil
}

// LoadStored returns the stored analysis row for a deck, or nil when
// the deck has not been analyzed yet.
func LoadStored(ctx context.Context, handle *sql.DB, deckID string) (*Summary, error) {
	var (
		sum           Summary
		manaCurveJSON []byte
		colorPipsJSON []byte
		typesJSON     []byte
	)
	err := handle.QueryRowContext(ctx, `
		SELECT draw_count, single_target_removal_count, mass_removal_count, counterspell_count,
		       ramp_count, token_count, recursion_count, average_mana_value, mana_curve,
		       color_symbols, basic_land_count, nonbasic_land_count, land_count, card_types,
		       highest_mana_value
		FROM deck_analysis WHERE deck_id = $1
	`, deckID).Scan(
		&sum.DrawCount, &sum.SingleTargetRemoval, &sum.MassRemoval, &sum.Counterspells,
		&sum.Ramp, &sum.Tokens, &sum.Recursion, &sum.AverageManaValue, &manaCurveJSON,
		&colorPipsJSON, &sum.BasicLands, &sum.NonBasicLands, &sum.Lands, &typesJSON,
		&sum.HighestManaValue,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading analysis: %w", err)
	}

	_ = json.Unmarshal(manaCurveJSON, &sum.ManaCurve)
	_ = json.Unmarshal(colorPipsJSON, &sum.ColorPips)
	_ = json.Unmarshal(typesJSON, &sum.CardTypes)

	return &sum, nil
}
