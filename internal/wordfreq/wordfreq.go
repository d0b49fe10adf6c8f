// Package wordfreq builds frequency ranks from the wordfreq dataset.
package wordfreq

import (
	"archive/zip"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/kovocab/internal/model"
	"github.com/verte-zerg/kovocab/internal/wordlist"
)

var pypiEndpoint = "https://pypi.org/pypi/wordfreq/json"

// Attribution is the notice required when redistributing wordfreq data.
const Attribution = "Frequency ranks derived from the wordfreq dataset (https://github.com/rspeer/wordfreq), " +
	"licensed CC BY-SA 4.0 (https://creativecommons.org/licenses/by-sa/4.0/)."

// Wheel describes a cached wordfreq wheel.
type Wheel struct {
	Version  string
	Path     string
	Filename string
	Cached   bool
}

type pypiFile struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Packagetype string `json:"packagetype"`
}

type pypiResponse struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
	URLs []pypiFile `json:"urls"`
}

// DownloadLatestWheel fetches the latest wordfreq wheel into cacheDir. A
// wheel already present in the cache is reused.
func DownloadLatestWheel(ctx context.Context, cacheDir string) (Wheel, error) {
	if cacheDir == "" {
		return Wheel{}, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Wheel{}, fmt.Errorf("failed to create cache dir: %w", err)
	}

	var payload pypiResponse
	if err := getJSON(ctx, pypiEndpoint, &payload); err != nil {
		return Wheel{}, err
	}
	if payload.Info.Version == "" {
		return Wheel{}, fmt.Errorf("missing version in pypi response")
	}
	file, ok := pickWheel(payload.URLs)
	if !ok {
		return Wheel{}, fmt.Errorf("no suitable wordfreq wheel found")
	}

	wheel := Wheel{Version: payload.Info.Version, Path: filepath.Join(cacheDir, file.Filename), Filename: file.Filename}
	if _, err := os.Stat(wheel.Path); err == nil {
		wheel.Cached = true
		return wheel, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return Wheel{}, fmt.Errorf("failed to stat cached wheel: %w", err)
	}

	if err := download(ctx, file.URL, wheel.Path); err != nil {
		return Wheel{}, err
	}
	return wheel, nil
}

// ExtractRanks returns up to limit words of lang ordered by frequency, rank 1
// being the most frequent. Words failing the language filter are skipped and
// do not consume a rank.
func ExtractRanks(wheelPath, lang string, limit int) ([]model.FrequencyEntry, error) {
	if wheelPath == "" {
		return nil, fmt.Errorf("wheel path is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0")
	}
	lang = strings.ToLower(lang)

	words, err := readWords(wheelPath, lang)
	if err != nil {
		return nil, err
	}

	keep := wordlist.FilterForLang(lang)
	seen := make(map[string]struct{})
	out := make([]model.FrequencyEntry, 0, min(limit, len(words)))
	for _, word := range words {
		if _, dup := seen[word]; dup {
			continue
		}
		if !keep(word) || utf8.RuneCountInString(word) > 20 {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, model.FrequencyEntry{Headword: word, Rank: len(out) + 1})
		if len(out) >= limit {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no words found for %s", lang)
	}
	return out, nil
}

func readWords(wheelPath, lang string) ([]string, error) {
	reader, err := zip.OpenReader(wheelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wheel: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	file := selectDataFile(reader.File, lang)
	if file == nil {
		return nil, fmt.Errorf("no data file found for %s", lang)
	}
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer func() {
		_ = rc.Close()
	}()

	var r io.Reader = rc
	if strings.HasSuffix(file.Name, ".gz") {
		gz, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer func() {
			_ = gz.Close()
		}()
		r = gz
	}

	payload, err := decodeMsgpack(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", file.Name, err)
	}
	return wordsFromCBPack(payload)
}

// selectDataFile prefers the large list over the small one.
func selectDataFile(files []*zip.File, lang string) *zip.File {
	var small *zip.File
	for _, f := range files {
		switch strings.ToLower(f.Name) {
		case "wordfreq/data/large_" + lang + ".msgpack.gz", "wordfreq/data/large_" + lang + ".msgpack":
			return f
		case "wordfreq/data/small_" + lang + ".msgpack.gz", "wordfreq/data/small_" + lang + ".msgpack":
			small = f
		}
	}
	return small
}

// wordsFromCBPack flattens the cBpack layout: a header map followed by one
// word list per centibel bucket, most frequent bucket first.
func wordsFromCBPack(payload any) ([]string, error) {
	items, ok := payload.([]any)
	if !ok {
		return nil, fmt.Errorf("unsupported wordfreq root type %T", payload)
	}
	if len(items) > 0 {
		if header, ok := items[0].(map[any]any); ok {
			if format, _ := header["format"].(string); format != "" && format != "cB" {
				return nil, fmt.Errorf("unsupported wordfreq format %q", format)
			}
			items = items[1:]
		}
	}

	var words []string
	for i, bucket := range items {
		list, ok := bucket.([]any)
		if !ok {
			return nil, fmt.Errorf("bucket %d: unexpected type %T", i, bucket)
		}
		for _, item := range list {
			switch w := item.(type) {
			case string:
				words = append(words, w)
			case []byte:
				if utf8.Valid(w) {
					words = append(words, string(w))
				}
			}
		}
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("wordfreq data contained no words")
	}
	return words, nil
}

func pickWheel(files []pypiFile) (pypiFile, bool) {
	for _, f := range files {
		if f.Packagetype == "bdist_wheel" && strings.HasSuffix(f.Filename, "py3-none-any.whl") {
			return f, true
		}
	}
	for _, f := range files {
		if f.Packagetype == "bdist_wheel" {
			return f, true
		}
	}
	return pypiFile{}, false
}

func getJSON(ctx context.Context, url string, out any) error {
	resp, err := httpRequest(ctx, url)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected pypi status: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode pypi response: %w", err)
	}
	return nil
}

func download(ctx context.Context, url, dest string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(dest), "wordfreq-*.whl")
	if err != nil {
		return fmt.Errorf("failed to create temp wheel: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	resp, err := httpRequest(ctx, url)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected wheel status: %s", resp.Status)
	}
	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return fmt.Errorf("failed to download wheel: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp wheel: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to move wheel into cache: %w", err)
	}
	return nil
}

func httpRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
