// Package scryfall downloads Scryfall bulk card dumps and imports them
// into the local card database.
package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.scryfall.com"

// retentionCount is how many dated dump files are kept on disk.
const retentionCount = 5

// Downloader fetches bulk dumps from the Scryfall API. BaseURL and
// Client are injectable for tests.
type Downloader struct {
	BaseURL string
	Client  *http.Client
	DumpDir string
}

// NewDownloader creates a Downloader writing into dumpDir.
func NewDownloader(dumpDir string) *Downloader {
	return &Downloader{
		BaseURL: defaultBaseURL,
		Client:  &http.Client{Timeout: 10 * time.Minute},
		DumpDir: dumpDir,
	}
}

type bulkEntry struct {
	Type        string `json:"type"`
	DownloadURI string `json:"download_uri"`
}

type bulkData struct {
	Data []bulkEntry `json:"data"`
}

// DumpBulkCards downloads the default_cards bulk dump into the dump
// directory under a date-stamped filename and prunes old dumps down to
// the retention count. It returns the path of the written file.
func (d *Downloader) DumpBulkCards(ctx context.Context) (string, error) {
	if err := os.MkdirAll(d.DumpDir, 0755); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.BaseURL+"/bulk-data", nil)
	if err != nil {
		return "", err
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch metadata: %w", err)
	}
	defer resp.Body.Close()

	var meta bulkData
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return "", fmt.Errorf("failed to decode metadata: %w", err)
	}

	var downloadURL string
	for _, entry := range meta.Data {
		if entry.Type == "default_cards" {
			downloadURL = entry.DownloadURI
			break
		}
	}
	if downloadURL == "" {
		return "", fmt.Errorf("could not find 'default_cards' entry")
	}

	timestamp := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("scryfall_cards_%s.json", timestamp)
	outPath := filepath.Join(d.DumpDir, filename)

	fmt.Printf("Downloading to %s...\n", outPath)
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return "", err
	}
	resp, err = d.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download JSON: %w", err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	fmt.Println("Download complete.")

	if err := d.pruneOldDumps(); err != nil {
		return "", err
	}

	return outPath, nil
}

// pruneOldDumps deletes dump files beyond the retention count, oldest
// first. Date-stamped names sort lexicographically.
func (d *Downloader) pruneOldDumps() error {
	files, err := filepath.Glob(filepath.Join(d.DumpDir, "scryfall_cards_*.json"))
	if err != nil {
		return err
	}

	sort.Slice(files, func(i, j int) bool {
		return strings.Compare(files[j], files[i]) < 0 // newer first
	})

	if len(files) > retentionCount {
		for _, f := range files[retentionCount:] {
			fmt.Println("Deleting old backup:", f)
			_ = os.Remove(f)
		}
	}

	return nil
}

// FindLatestDump returns the most recently modified dump file in dumpDir.
func FindLatestDump(dumpDir string) (string, error) {
	files, err := filepath.Glob(filepath.Join(dumpDir, "scryfall_cards_*.json"))
	if err != nil || len(files) == 0 {
		return "", fmt.Errorf("no dump files found in %s", dumpDir)
	}

	sort.Slice(files, func(i, j int) bool {
		fi, _ := os.Stat(files[i])
		fj, _ := os.Stat(files[j])
		return fi.ModTime().After(fj.ModTime())
	})

	return files[0], nil
}
