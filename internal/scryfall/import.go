package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/admin/mtg-cli/internal/cards"
	"github.com/admin/mtg-cli/internal/logging"
)

// Normalize fills in the row defaults the importer relies on:
// oracle_id falls back to id, nil maps and slices become empty, and
// oracle text is trimmed.
func Normalize(card *cards.Card) {
	if card.OracleID == "" {
		card.OracleID = card.ID
	}
	if card.ImageURIs == nil {
		card.ImageURIs = make(map[string]string)
	}
	if card.Legalities == nil {
		card.Legalities = make(map[string]string)
	}
	if card.Colors == nil {
		card.Colors = make([]string, 0)
	}
	if card.ColorIdentity == nil {
		card.ColorIdentity = make([]string, 0)
	}
	if card.Keywords == nil {
		card.Keywords = make([]string, 0)
	}
	card.OracleText = strings.TrimSpace(card.OracleText)
}

// ImportCards stream-decodes the dump file at dumpPath and upserts every
// card into the cards table. Per-card failures are logged and skipped.
func ImportCards(ctx context.Context, pool *pgxpool.Pool, dumpPath string) error {
	log := logging.WithComponent("scryfall")

	fmt.Println("Using dump:", dumpPath)
	file, err := os.Open(dumpPath)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)

	// Read array start
	if _, err := decoder.Token(); err != nil {
		return err
	}

	count := 0
	skipped := 0
	for decoder.More() {
		var card cards.Card
		if err := decoder.Decode(&card); err != nil {
			log.Warn("error decoding card", "error", err)
			continue
		}

		if card.ID == "" {
			skipped++
			continue
		}
		Normalize(&card)

		_, err = pool.Exec(ctx, `
			INSERT INTO cards (
				id, oracle_id, name, oracle_text, layout, mana_cost, cmc, type_line, power, toughness,
				loyalty, defense, colors, color_identity, keywords, set_code, collector_number,
				rarity, artist, image_uris, legalities, full_data, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9,
				$10, $11, $12, $13, $14, $15, $16,
				$17, $18, $19, $20, $21, $22, $23
			)
			ON CONFLICT (id) DO UPDATE SET
				oracle_id = EXCLUDED.oracle_id,
				name = EXCLUDED.name,
				oracle_text = EXCLUDED.oracle_text,
				layout = EXCLUDED.layout,
				mana_cost = EXCLUDED.mana_cost,
				cmc = EXCLUDED.cmc,
				type_line = EXCLUDED.type_line,
				power = EXCLUDED.power,
				toughness = EXCLUDED.toughness,
				loyalty = EXCLUDED.loyalty,
				defense = EXCLUDED.defense,
				colors = EXCLUDED.colors,
				color_identity = EXCLUDED.color_identity,
				keywords = EXCLUDED.keywords,
				set_code = EXCLUDED.set_code,
				collector_number = EXCLUDED.collector_number,
				rarity = EXCLUDED.rarity,
				artist = EXCLUDED.artist,
				image_uris = EXCLUDED.image_uris,
				legalities = EXCLUDED.legalities,
				full_data = EXCLUDED.full_data,
				updated_at = NOW()
		`, card.ID, card.OracleID, card.Name, card.OracleText, card.Layout, card.ManaCost, card.CMC, card.TypeLine,
			card.Power, card.Toughness, card.Loyalty, card.Defense,
			card.Colors, card.ColorIdentity, card.Keywords, card.Set, card.CollectorNum,
			card.Rarity, card.Artist, card.ImageURIs, card.Legalities, card, time.Now())
		if err != nil {
			log.Warn("error inserting card", "card", card.Name, "error", err)
			continue
		}
		count++
		if count%1000 == 0 {
			fmt.Printf("Processed %d cards...\n", count)
		}
	}
	fmt.Printf("Import complete. Successfully imported %d cards. Skipped %d invalid cards.\n", count, skipped)
	return nil
}
