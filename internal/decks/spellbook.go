package decks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/admin/mtg-cli/internal/logging"
)

const defaultSpellbookURL = "https://backend.commanderspellbook.com"

// Spellbook is a client for the Commander Spellbook backend: bracket
// estimation and combo lookup. BaseURL and Client are injectable for
// tests.
type Spellbook struct {
	BaseURL string
	Client  *http.Client

	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewSpellbook creates a Spellbook client on the given pool.
func NewSpellbook(pool *pgxpool.Pool) *Spellbook {
	return &Spellbook{
		BaseURL: defaultSpellbookURL,
		Client:  &http.Client{Timeout: 2 * time.Minute},
		pool:    pool,
		log:     logging.WithComponent("spellbook"),
	}
}

// CardPayload is one card entry in a Spellbook request.
type CardPayload struct {
	Card     string `json:"card"`
	Quantity int    `json:"quantity"`
}

// deckPayload is the request body shared by both endpoints.
type deckPayload struct {
	Main       []CardPayload `json:"main"`
	Commanders []CardPayload `json:"commanders"`
}

// BracketEstimation is the estimate-bracket response, stored per deck.
type BracketEstimation struct {
	DeckID                    uuid.UUID       `json:"deck_id"`
	BracketTag                string          `json:"bracketTag"`
	GameChangerCards          json.RawMessage `json:"gameChangerCards"`
	MassLandDenialCards       json.RawMessage `json:"massLandDenialCards"`
	MassLandDenialTemplates   json.RawMessage `json:"massLandDenialTemplates"`
	MassLandDenialCombos      json.RawMessage `json:"massLandDenialCombos"`
	ExtraTurnCards            json.RawMessage `json:"extraTurnCards"`
	ExtraTurnTemplates        json.RawMessage `json:"extraTurnTemplates"`
	ExtraTurnsCombos          json.RawMessage `json:"extraTurnsCombos"`
	TutorCards                json.RawMessage `json:"tutorCards"`
	TutorTemplates            json.RawMessage `json:"tutorTemplates"`
	LockCombos                json.RawMessage `json:"lockCombos"`
	SkipTurnsCombos           json.RawMessage `json:"skipTurnsCombos"`
	DefinitelyEarlyGameCombos json.RawMessage `json:"definitelyEarlyGameTwoCardCombos"`
	ArguablyEarlyGameCombos   json.RawMessage `json:"arguablyEarlyGameTwoCardCombos"`
	DefinitelyLateGameCombos  json.RawMessage `json:"definitelyLateGameTwoCardCombos"`
	BorderlineLateGameCombos  json.RawMessage `json:"borderlineLateGameTwoCardCombos"`
}

// Combo is one combo entry from find-my-combos.
type Combo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
	Produces    []struct {
		Feature struct {
			Name string `json:"name"`
		} `json:"feature"`
	} `json:"produces"`
	Requires []struct {
		Template struct {
			Name string `json:"name"`
		} `json:"template"`
	} `json:"requires"`
	Uses []struct {
		Card struct {
			Name string `json:"name"`
		} `json:"card"`
	} `json:"uses"`
	NotablePrerequisites string `json:"notablePrerequisites"`
	BracketTag           string `json:"bracketTag"`
}

// ComboBuckets groups combos by how close the deck is to having them.
type ComboBuckets struct {
	Included                                          []Combo `json:"included"`
	IncludedByChangingCommanders                      []Combo `json:"includedByChangingCommanders"`
	AlmostIncluded                                    []Combo `json:"almostIncluded"`
	AlmostIncludedByAddingColors                      []Combo `json:"almostIncludedByAddingColors"`
	AlmostIncludedByChangingCommanders                []Combo `json:"almostIncludedByChangingCommanders"`
	AlmostIncludedByAddingColorsAndChangingCommanders []Combo `json:"almostIncludedByAddingColorsAndChangingCommanders"`
}

type spellbookResponse struct {
	Count    int          `json:"count"`
	Next     *string      `json:"next"`
	Previous *string      `json:"previous"`
	Results  ComboBuckets `json:"results"`
}

// loadPayload builds the request payload for one deck from its card rows.
func (s *Spellbook) loadPayload(ctx context.Context, deckID uuid.UUID) (deckPayload, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.name, dc.board_type
		FROM deck_cards dc
		JOIN cards c ON c.id = dc.card_id
		WHERE dc.deck_id = $1
	`, deckID)
	if err != nil {
		return deckPayload{}, fmt.Errorf("querying deck cards: %w", err)
	}
	defer rows.Close()

	var payload deckPayload
	for rows.Next() {
		var name, board string
		if err := rows.Scan(&name, &board); err != nil {
			continue
		}
		entry := CardPayload{Card: name, Quantity: 1}
		if board == BoardCommander {
			payload.Commanders = append(payload.Commanders, entry)
		} else {
			payload.Main = append(payload.Main, entry)
		}
	}
	return payload, rows.Err()
}

func (s *Spellbook) post(ctx context.Context, path string, payload deckPayload) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+path, bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API call failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API call failed: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// EstimateBracket fetches and stores the bracket estimation for a deck.
func (s *Spellbook) EstimateBracket(ctx context.Context, deckID uuid.UUID) error {
	payload, err := s.loadPayload(ctx, deckID)
	if err != nil {
		return err
	}

	fmt.Printf("Processing deck: %s\n", deckID.String())

	body, err := s.post(ctx, "/estimate-bracket", payload)
	if err != nil {
		return err
	}

	var result BracketEstimation
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("unmarshal failed: %w", err)
	}
	result.DeckID = deckID

	_, err = s.pool.Exec(ctx, `
		INSERT INTO bracket_estimation (
			deck_id, bracket_tag, game_changer_cards, mass_land_denial_cards,
			mass_land_denial_templates, mass_land_denial_combos, extra_turn_cards,
			extra_turn_templates, extra_turns_combos, tutor_cards, tutor_templates,
			lock_combos, skip_turns_combos, definitely_early_game_two_card_combos,
			arguably_early_game_two_card_combos, definitely_late_game_two_card_combos,
			borderline_late_game_two_card_combos
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14, $15, $16, $17
		)
		ON CONFLICT (deck_id) DO UPDATE SET
			bracket_tag = EXCLUDED.bracket_tag,
			game_changer_cards = EXCLUDED.game_changer_cards,
			mass_land_denial_cards = EXCLUDED.mass_land_denial_cards,
			mass_land_denial_templates = EXCLUDED.mass_land_denial_templates,
			mass_land_denial_combos = EXCLUDED.mass_land_denial_combos,
			extra_turn_cards = EXCLUDED.extra_turn_cards,
			extra_turn_templates = EXCLUDED.extra_turn_templates,
			extra_turns_combos = EXCLUDED.extra_turns_combos,
			tutor_cards = EXCLUDED.tutor_cards,
			tutor_templates = EXCLUDED.tutor_templates,
			lock_combos = EXCLUDED.lock_combos,
			skip_turns_combos = EXCLUDED.skip_turns_combos,
			definitely_early_game_two_card_combos = EXCLUDED.definitely_early_game_two_card_combos,
			arguably_early_game_two_card_combos = EXCLUDED.arguably_early_game_two_card_combos,
			definitely_late_game_two_card_combos = EXCLUDED.definitely_late_game_two_card_combos,
			borderline_late_game_two_card_combos = EXCLUDED.borderline_late_game_two_card_combos
	`,
		result.DeckID, result.BracketTag,
		result.GameChangerCards, result.MassLandDenialCards, result.MassLandDenialTemplates,
		result.MassLandDenialCombos, result.ExtraTurnCards, result.ExtraTurnTemplates,
		result.ExtraTurnsCombos, result.TutorCards, result.TutorTemplates, result.LockCombos,
		result.SkipTurnsCombos, result.DefinitelyEarlyGameCombos,
		result.ArguablyEarlyGameCombos, result.DefinitelyLateGameCombos,
		result.BorderlineLateGameCombos,
	)
	if err != nil {
		return fmt.Errorf("failed to insert estimation: %w", err)
	}
	fmt.Printf("Finished deck: %s\n", deckID.String())
	return nil
}

// EstimateAllBrackets runs bracket estimation for every deck. Per-deck
// failures are logged and skipped.
func (s *Spellbook) EstimateAllBrackets(ctx context.Context) error {
	ids, err := s.allDeckIDs(ctx, "")
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.EstimateBracket(ctx, id); err != nil {
			s.log.Warn("bracket estimation failed", "deck", id, "error", err)
		}
	}
	return nil
}

// ImportCombos fetches and stores find-my-combos results for a deck,
// replacing any previously stored combos.
func (s *Spellbook) ImportCombos(ctx context.Context, deckID uuid.UUID) error {
	payload, err := s.loadPayload(ctx, deckID)
	if err != nil {
		return err
	}

	body, err := s.post(ctx, "/api/v1/find-my-combos/", payload)
	if err != nil {
		return err
	}

	var spellResp spellbookResponse
	if err := json.Unmarshal(body, &spellResp); err != nil {
		return fmt.Errorf("unmarshal failed: %w", err)
	}

	if _, err := s.pool.Exec(ctx, `DELETE FROM deck_combos WHERE deck_id = $1`, deckID); err != nil {
		return fmt.Errorf("clearing combos: %w", err)
	}

	s.insertCombos(ctx, deckID, spellResp.Results.Included, "included")
	s.insertCombos(ctx, deckID, spellResp.Results.IncludedByChangingCommanders, "includedByChangingCommanders")
	s.insertCombos(ctx, deckID, spellResp.Results.AlmostIncluded, "almostIncluded")
	s.insertCombos(ctx, deckID, spellResp.Results.AlmostIncludedByAddingColors, "almostIncludedByAddingColors")
	s.insertCombos(ctx, deckID, spellResp.Results.AlmostIncludedByChangingCommanders, "almostIncludedByChangingCommanders")
	s.insertCombos(ctx, deckID, spellResp.Results.AlmostIncludedByAddingColorsAndChangingCommanders, "almostIncludedByAddingColorsAndChangingCommanders")

	return nil
}

// ImportMissingCombos fetches combos for every deck without stored
// combo rows.
func (s *Spellbook) ImportMissingCombos(ctx context.Context) error {
	ids, err := s.allDeckIDs(ctx, `WHERE id NOT IN (SELECT deck_id FROM deck_combos)`)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Printf("Fetching combos for deck: %s\n", id)
		if err := s.ImportCombos(ctx, id); err != nil {
			s.log.Warn("combo import failed", "deck", id, "error", err)
		}
	}
	return nil
}

func (s *Spellbook) allDeckIDs(ctx context.Context, where string) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM decks `+where)
	if err != nil {
		return nil, fmt.Errorf("querying decks: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Spellbook) insertCombos(ctx context.Context, deckID uuid.UUID, combos []Combo, bucket string) {
	for _, combo := range combos {
		var cardNames []string
		for _, use := range combo.Uses {
			cardNames = append(cardNames, use.Card.Name)
		}

		var produces []string
		for _, p := range combo.Produces {
			produces = append(produces, p.Feature.Name)
		}

		var requires []string
		for _, r := range combo.Requires {
			requires = append(requires, r.Template.Name)
		}

		_, err := s.pool.Exec(ctx, `
			INSERT INTO deck_combos (deck_id, combo_id, cards, description, prerequisites, requires, produces, inclusion_bucket)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			deckID, combo.ID, cardNames, combo.Description, combo.NotablePrerequisites, requires, produces, bucket)
		if err != nil {
			s.log.Warn("failed to insert combo", "deck", deckID, "combo", combo.ID, "error", err)
		}
	}
}
