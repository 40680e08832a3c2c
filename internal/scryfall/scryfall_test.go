package scryfall

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admin/mtg-cli/internal/cards"
)

func TestNormalize_OracleIDFallback(t *testing.T) {
	card := cards.Card{ID: "abc-123"}
	Normalize(&card)

	assert.Equal(t, "abc-123", card.OracleID)
}

func TestNormalize_KeepsExistingOracleID(t *testing.T) {
	card := cards.Card{ID: "abc-123", OracleID: "def-456"}
	Normalize(&card)

	assert.Equal(t, "def-456", card.OracleID)
}

func TestNormalize_NilDefaults(t *testing.T) {
	card := cards.Card{ID: "abc-123"}
	Normalize(&card)

	assert.NotNil(t, card.ImageURIs)
	assert.NotNil(t, card.Legalities)
	assert.NotNil(t, card.Colors)
	assert.NotNil(t, card.ColorIdentity)
	assert.NotNil(t, card.Keywords)
	assert.Empty(t, card.Colors)
}

func TestNormalize_TrimsOracleText(t *testing.T) {
	card := cards.Card{ID: "abc-123", OracleText: "  Draw a card.\n"}
	Normalize(&card)

	assert.Equal(t, "Draw a card.", card.OracleText)
}

// testServer serves bulk metadata plus a card dump. The metadata lists a
// decoy entry first so the downloader has to pick default_cards by type.
func testServer(t *testing.T, dump string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/bulk-data", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data":[
			{"type":"oracle_cards","download_uri":"%s/oracle.json"},
			{"type":"default_cards","download_uri":"%s/cards.json"}
		]}`, srv.URL, srv.URL)
	})
	mux.HandleFunc("/cards.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, dump)
	})
	mux.HandleFunc("/oracle.json", func(w http.ResponseWriter, r *http.Request) {
		t.Error("downloader fetched the wrong bulk entry")
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestDumpBulkCards_WritesDatedFile(t *testing.T) {
	dump := `[{"id":"abc","name":"Sol Ring"}]`
	srv := testServer(t, dump)

	dir := t.TempDir()
	d := NewDownloader(dir)
	d.BaseURL = srv.URL
	d.Client = srv.Client()

	outPath, err := d.DumpBulkCards(context.Background())
	require.NoError(t, err)

	wantName := fmt.Sprintf("scryfall_cards_%s.json", time.Now().Format("2006-01-02"))
	assert.Equal(t, wantName, filepath.Base(outPath))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, dump, string(data))
}

func TestDumpBulkCards_PrunesOldDumps(t *testing.T) {
	srv := testServer(t, `[]`)

	dir := t.TempDir()
	// Seed more than the retention count of older dumps.
	for i := 0; i < retentionCount+2; i++ {
		name := fmt.Sprintf("scryfall_cards_2000-01-%02d.json", i+1)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0644))
	}

	d := NewDownloader(dir)
	d.BaseURL = srv.URL
	d.Client = srv.Client()

	_, err := d.DumpBulkCards(context.Background())
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(dir, "scryfall_cards_*.json"))
	require.NoError(t, err)
	assert.Len(t, files, retentionCount)

	// The newest file must survive pruning.
	today := fmt.Sprintf("scryfall_cards_%s.json", time.Now().Format("2006-01-02"))
	assert.FileExists(t, filepath.Join(dir, today))
}

func TestDumpBulkCards_MissingDefaultCards(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bulk-data", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"type":"oracle_cards","download_uri":"http://example.invalid/x"}]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	d := NewDownloader(t.TempDir())
	d.BaseURL = srv.URL
	d.Client = srv.Client()

	_, err := d.DumpBulkCards(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_cards")
}

func TestFindLatestDump(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, "scryfall_cards_2024-01-01.json")
	newer := filepath.Join(dir, "scryfall_cards_2024-06-01.json")
	require.NoError(t, os.WriteFile(older, []byte("[]"), 0644))
	require.NoError(t, os.WriteFile(newer, []byte("[]"), 0644))

	// Latest is decided by modification time, not name.
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(newer, past, past))

	got, err := FindLatestDump(dir)
	require.NoError(t, err)
	assert.Equal(t, older, got)
}

func TestFindLatestDump_Empty(t *testing.T) {
	_, err := FindLatestDump(t.TempDir())
	require.Error(t, err)
}
