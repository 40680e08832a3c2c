package cards

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested card does not exist.
var ErrNotFound = errors.New("card not found")

// Store provides read access to the cards table.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store on the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Search runs the filter query and returns the matching cards.
func (s *Store) Search(ctx context.Context, f Filters) ([]Card, error) {
	query, args := f.BuildQuery()

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	var results []Card
	for rows.Next() {
		var c Card
		err := rows.Scan(
			&c.ID, &c.OracleID, &c.Name, &c.OracleText, &c.Layout, &c.ManaCost, &c.CMC,
			&c.TypeLine, &c.Power, &c.Toughness, &c.Loyalty, &c.Defense,
			&c.Colors, &c.ColorIdentity, &c.Keywords,
			&c.Set, &c.CollectorNum, &c.Rarity, &c.Artist, &c.ImageURIs, &c.Legalities,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning card: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading cards: %w", err)
	}

	return results, nil
}

// ResolveIDByName returns the id of the card with the given name,
// matched case-insensitively.
func (s *Store) ResolveIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM cards WHERE lower(name) = lower($1) LIMIT 1`, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolving card %q: %w", name, err)
	}
	return id, nil
}
