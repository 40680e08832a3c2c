package decks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

// Model fallback order: cheapest capable model first.
var defaultOpenAIModels = []string{"gpt-4o-mini", "gpt-3.5-turbo"}

// Describer generates play-style descriptions for decks via the OpenAI
// chat completions API and stores them on the deck row.
type Describer struct {
	APIKey  string
	BaseURL string
	Models  []string
	Client  *http.Client

	pool *pgxpool.Pool
}

// NewDescriber creates a Describer on the given pool.
func NewDescriber(pool *pgxpool.Pool, apiKey string) *Describer {
	return &Describer{
		APIKey:  apiKey,
		BaseURL: defaultOpenAIURL,
		Models:  defaultOpenAIModels,
		Client:  &http.Client{Timeout: 60 * time.Second},
		pool:    pool,
	}
}

// DescribeDeck generates and stores a description for a single deck.
func (d *Describer) DescribeDeck(ctx context.Context, deckID uuid.UUID) error {
	var deckName, commanderName string
	err := d.pool.QueryRow(ctx,
		`SELECT name, commander_name FROM decks WHERE id = $1`, deckID).
		Scan(&deckName, &commanderName)
	if err != nil {
		return fmt.Errorf("looking up deck: %w", err)
	}
	return d.describe(ctx, deckID.String(), deckName, commanderName)
}

// DescribeMissing generates descriptions for every deck without one.
func (d *Describer) DescribeMissing(ctx context.Context) error {
	rows, err := d.pool.Query(ctx,
		`SELECT id, name, commander_name FROM decks WHERE description IS NULL OR description = ''`)
	if err != nil {
		return err
	}
	defer rows.Close()

	type deckRow struct{ id, name, commander string }
	var pending []deckRow
	for rows.Next() {
		var r deckRow
		if err := rows.Scan(&r.id, &r.name, &r.commander); err != nil {
			fmt.Println("Failed to scan deck:", err)
			continue
		}
		pending = append(pending, r)
	}
	rows.Close()

	for _, r := range pending {
		if err := d.describe(ctx, r.id, r.name, r.commander); err != nil {
			fmt.Println("OpenAI API error for deck:", r.name, err)
		}
	}
	return nil
}

func (d *Describer) describe(ctx context.Context, deckID, deckName, commanderName string) error {
	cardNames := []string{}
	cards, err := d.pool.Query(ctx, `
		SELECT c.name
		FROM deck_cards dc
		JOIN cards c ON c.id = dc.card_id
		WHERE dc.deck_id = $1 AND dc.board_type IN ('commander', 'mainboard')
	`, deckID)
	if err != nil {
		return fmt.Errorf("querying cards for deck %s: %w", deckName, err)
	}
	for cards.Next() {
		var name string
		if err := cards.Scan(&name); err != nil {
			continue
		}
		cardNames = append(cardNames, name)
	}
	cards.Close()

	prompt := fmt.Sprintf("Create a short (max 3 sentences) description of the play style of the following MTG commander deck:\nCommander: %s\nDeck List: %s",
		commanderName, strings.Join(cardNames, ", "))
	description, modelUsed, err := d.callOpenAI(ctx, prompt)
	if err != nil {
		return err
	}

	_, err = d.pool.Exec(ctx,
		`UPDATE decks SET description = $1, description_gpt_model = $2 WHERE id = $3`,
		description, modelUsed, deckID)
	if err != nil {
		return fmt.Errorf("failed to update deck description: %w", err)
	}
	fmt.Printf("Updated description for deck '%s' using model: %s\n%s\n", deckName, modelUsed, description)
	return nil
}

// callOpenAI walks the model fallback list until one answers.
func (d *Describer) callOpenAI(ctx context.Context, prompt string) (string, string, error) {
	if d.APIKey == "" {
		return "", "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	for _, model := range d.Models {
		body := map[string]interface{}{
			"model": model,
			"messages": []map[string]string{
				{"role": "system", "content": "You are a helpful assistant who summarizes Magic: The Gathering decks."},
				{"role": "user", "content": prompt},
			},
			"temperature": 0.7,
		}

		encoded, _ := json.Marshal(body)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.BaseURL, bytes.NewBuffer(encoded))
		if err != nil {
			return "", "", err
		}
		req.Header.Set("Authorization", "Bearer "+d.APIKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := d.Client.Do(req)
		if err != nil {
			fmt.Printf("Model %s failed, retrying next if available...\n", model)
			time.Sleep(2 * time.Second)
			continue // try next model
		}

		var result struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		err = json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()
		if err != nil {
			continue
		}
		if len(result.Choices) == 0 {
			continue
		}

		return strings.TrimSpace(result.Choices[0].Message.Content), model, nil
	}

	return "", "", fmt.Errorf("all model attempts failed")
}
