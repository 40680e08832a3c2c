package cards

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuery_NoFilters(t *testing.T) {
	f := NewFilters()
	query, args := f.BuildQuery()

	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY name")
	assert.Contains(t, query, "LIMIT $1")
	require.Len(t, args, 1)
	assert.Equal(t, 50, args[0])
}

func TestBuildQuery_NameAndText(t *testing.T) {
	f := NewFilters()
	f.Name = "bolt"
	f.Text = "damage"

	query, args := f.BuildQuery()

	assert.Contains(t, query, "name ILIKE '%' || $1 || '%'")
	assert.Contains(t, query, "oracle_text ILIKE '%' || $2 || '%'")
	require.Len(t, args, 3)
	assert.Equal(t, "bolt", args[0])
	assert.Equal(t, "damage", args[1])
}

func TestBuildQuery_ColorsAndIdentity(t *testing.T) {
	f := NewFilters()
	f.Colors = "wu"
	f.Identity = "WUBG"

	query, args := f.BuildQuery()

	assert.Contains(t, query, "colors <@ $1::text[]")
	assert.Contains(t, query, "color_identity <@ $2::text[]")
	require.Len(t, args, 3)
	assert.Equal(t, []string{"W", "U"}, args[0])
	assert.Equal(t, []string{"W", "U", "B", "G"}, args[1])
}

func TestBuildQuery_CMCBounds(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		wantMin  bool
		wantMax  bool
	}{
		{"both unset", -1, -1, false, false},
		{"min only", 2, -1, true, false},
		{"zero min is a real bound", 0, -1, true, false},
		{"both set", 1, 4, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFilters()
			f.MinCMC = tt.min
			f.MaxCMC = tt.max
			query, _ := f.BuildQuery()

			assert.Equal(t, tt.wantMin, strings.Contains(query, "cmc >="))
			assert.Equal(t, tt.wantMax, strings.Contains(query, "cmc <="))
		})
	}
}

func TestBuildQuery_LegalityAndSet(t *testing.T) {
	f := NewFilters()
	f.Set = "NEO"
	f.Rarity = "Rare"
	f.Legal = "Commander"

	query, args := f.BuildQuery()

	assert.Contains(t, query, "set_code = $1")
	assert.Contains(t, query, "rarity = $2")
	assert.Contains(t, query, "legalities ->> $3 = 'legal'")
	require.Len(t, args, 4)
	// Enumerated filters are lower-cased to match stored values.
	assert.Equal(t, "neo", args[0])
	assert.Equal(t, "rare", args[1])
	assert.Equal(t, "commander", args[2])
}

func TestBuildQuery_ArgOrderMatchesPlaceholders(t *testing.T) {
	f := NewFilters()
	f.Name = "dragon"
	f.TypeLine = "Creature"
	f.Rarity = "mythic"
	f.Limit = 10

	query, args := f.BuildQuery()

	require.Len(t, args, 4)
	assert.Equal(t, "dragon", args[0])
	assert.Equal(t, "Creature", args[1])
	assert.Equal(t, "mythic", args[2])
	assert.Equal(t, 10, args[3])
	assert.Contains(t, query, "LIMIT $4")
}

func TestSplitColors(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"WU", []string{"W", "U"}},
		{"wub", []string{"W", "U", "B"}},
		{"XYZ", nil},
		{"c", []string{"C"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, splitColors(tt.in), "splitColors(%q)", tt.in)
	}
}
