package cards

import (
	"fmt"
	"strings"
)

// Filters describes a card search. Zero values mean "no constraint";
// MinCMC/MaxCMC use -1 as the unset sentinel so a 0 bound stays usable.
type Filters struct {
	Name     string
	Text     string
	TypeLine string
	Colors   string // e.g. "WU": cards whose colors are a subset of these
	Identity string // color identity subset, commander-style
	Set      string
	Rarity   string
	MinCMC   float64
	MaxCMC   float64
	Legal    string // format name, e.g. "commander"
	Limit    int
}

// NewFilters returns Filters with the unset sentinels in place.
func NewFilters() Filters {
	return Filters{MinCMC: -1, MaxCMC: -1, Limit: 50}
}

// splitColors expands a compact color string like "wub" into upper-case
// single-symbol entries. Unknown symbols are dropped.
func splitColors(s string) []string {
	var out []string
	for _, r := range strings.ToUpper(s) {
		switch r {
		case 'W', 'U', 'B', 'R', 'G', 'C':
			out = append(out, string(r))
		}
	}
	return out
}

// BuildQuery turns the filters into a SQL statement and its ordered
// arguments. It is a pure function so the search path is testable
// without a database.
func (f Filters) BuildQuery() (string, []any) {
	var (
		conds []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Name != "" {
		conds = append(conds, fmt.Sprintf("name ILIKE '%%' || %s || '%%'", arg(f.Name)))
	}
	if f.Text != "" {
		conds = append(conds, fmt.Sprintf("oracle_text ILIKE '%%' || %s || '%%'", arg(f.Text)))
	}
	if f.TypeLine != "" {
		conds = append(conds, fmt.Sprintf("type_line ILIKE '%%' || %s || '%%'", arg(f.TypeLine)))
	}
	if f.Colors != "" {
		conds = append(conds, fmt.Sprintf("colors <@ %s::text[]", arg(splitColors(f.Colors))))
	}
	if f.Identity != "" {
		conds = append(conds, fmt.Sprintf("color_identity <@ %s::text[]", arg(splitColors(f.Identity))))
	}
	if f.Set != "" {
		conds = append(conds, fmt.Sprintf("set_code = %s", arg(strings.ToLower(f.Set))))
	}
	if f.Rarity != "" {
		conds = append(conds, fmt.Sprintf("rarity = %s", arg(strings.ToLower(f.Rarity))))
	}
	if f.MinCMC >= 0 {
		conds = append(conds, fmt.Sprintf("cmc >= %s", arg(f.MinCMC)))
	}
	if f.MaxCMC >= 0 {
		conds = append(conds, fmt.Sprintf("cmc <= %s", arg(f.MaxCMC)))
	}
	if f.Legal != "" {
		conds = append(conds, fmt.Sprintf("legalities ->> %s = 'legal'", arg(strings.ToLower(f.Legal))))
	}

	query := `SELECT id, oracle_id, name, oracle_text, layout, mana_cost, cmc, type_line,
		power, toughness, loyalty, defense, colors, color_identity, keywords,
		set_code, collector_number, rarity, artist, image_uris, legalities
	FROM cards`
	if len(conds) > 0 {
		query += "\n\tWHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\tORDER BY name"

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf("\n\tLIMIT %s", arg(limit))

	return query, args
}
