package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/kovocab/internal/lexicon"
)

// SubtitleSource fetches raw subtitle text.
type SubtitleSource func(ctx context.Context) (string, error)

// TableSource fetches dictionary tables.
type TableSource func(ctx context.Context) (*lexicon.Tables, error)

// Loaded is the outcome of session setup.
type Loaded struct {
	Subtitles string
	Tables    *lexicon.Tables
	// Warnings holds auxiliary load failures that were degraded to empty tables.
	Warnings []error
}

// Load runs both sources concurrently. A subtitle failure fails the load; a
// table failure is recorded as a warning and replaced by empty tables.
func Load(ctx context.Context, subtitles SubtitleSource, tables TableSource) (Loaded, error) {
	var out Loaded
	var tableErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := subtitles(gctx)
		if err != nil {
			return fmt.Errorf("failed to load subtitles: %w", err)
		}
		out.Subtitles = text
		return nil
	})
	g.Go(func() error {
		if tables == nil {
			return nil
		}
		t, err := tables(gctx)
		if err != nil {
			tableErr = fmt.Errorf("failed to load dictionary tables: %w", err)
			return nil
		}
		out.Tables = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return Loaded{}, err
	}

	if tableErr != nil {
		out.Warnings = append(out.Warnings, tableErr)
	}
	if out.Tables == nil {
		out.Tables = lexicon.NewTables()
	}
	return out, nil
}

// OpenSubtitles returns a source reading a local file or an http(s) URL.
func OpenSubtitles(location string) SubtitleSource {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return func(ctx context.Context) (string, error) {
			return fetchText(ctx, location)
		}
	}
	return func(context.Context) (string, error) {
		data, err := os.ReadFile(location)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

func fetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(data), nil
}

// TablesFromFiles returns a source that merges JSON dictionary, JSON
// inflection and TSV frequency files. Empty paths are skipped.
func TablesFromFiles(dictPath, inflectionPath, frequencyPath string) TableSource {
	return func(context.Context) (*lexicon.Tables, error) {
		tables := lexicon.NewTables()
		loaders := []struct {
			path string
			load func(io.Reader) (*lexicon.Tables, error)
		}{
			{dictPath, lexicon.LoadDictionaryJSON},
			{inflectionPath, lexicon.LoadInflectionsJSON},
			{frequencyPath, lexicon.LoadFrequencyTSV},
		}
		for _, l := range loaders {
			if l.path == "" {
				continue
			}
			t, err := loadFile(l.path, l.load)
			if err != nil {
				return nil, err
			}
			tables.Merge(t)
		}
		return tables, nil
	}
}

func loadFile(path string, load func(io.Reader) (*lexicon.Tables, error)) (*lexicon.Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	t, err := load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
