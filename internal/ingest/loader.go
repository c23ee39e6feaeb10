// Package ingest reads a Spotify extended streaming history export, a
// ZIP archive or an already-extracted directory, and feeds its
// payloads through batch normalization.
package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/ademuri/spotify-stats-tools/internal/history"
)

const historyFileMarker = "Streaming_History_Audio"

// DefaultBatchSize is how many raw records are normalized per chunk
// when the caller does not choose one.
const DefaultBatchSize = 1000

// Loader drives ingestion. Normalization runs in fixed-size batches
// with the context checked and Progress invoked between batches, so a
// host can keep a UI responsive while hundreds of thousands of
// records load.
type Loader struct {
	// BatchSize is the normalization chunk size; zero means
	// DefaultBatchSize.
	BatchSize int

	// Progress, if set, is called after each batch with the number of
	// raw records processed so far and the total.
	Progress func(processed, total int)

	Logger zerolog.Logger
}

// Load reads every streaming history payload under path and returns
// the normalized corpus in source order. Malformed files and records
// are skipped; a corpus with zero valid records is an error.
func (l *Loader) Load(ctx context.Context, path string) ([]history.Event, error) {
	raw, err := l.collect(path)
	if err != nil {
		return nil, err
	}

	batchSize := l.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	events := make([]history.Event, 0, len(raw))
	for processed := 0; processed < len(raw); {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := processed + batchSize
		if end > len(raw) {
			end = len(raw)
		}
		events = append(events, history.NormalizeBatch(raw[processed:end])...)
		processed = end
		if l.Progress != nil {
			l.Progress(processed, len(raw))
		}
	}

	if len(events) == 0 {
		return nil, history.ErrNoRecords
	}
	l.Logger.Info().
		Int("records", len(raw)).
		Int("valid", len(events)).
		Msg("normalized listening history")
	return events, nil
}

func (l *Loader) collect(path string) ([]history.RawRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading export %q: %w", path, err)
	}

	var raw []history.RawRecord
	var files int
	if info.IsDir() {
		raw, files, err = l.collectDir(path)
	} else if strings.EqualFold(filepath.Ext(path), ".zip") {
		raw, files, err = l.collectZip(path)
	} else {
		return nil, fmt.Errorf("export %q is neither a directory nor a ZIP archive", path)
	}
	if err != nil {
		return nil, err
	}
	if files == 0 {
		return nil, fmt.Errorf("no streaming history files found in %q", path)
	}
	return raw, nil
}

func (l *Loader) collectZip(path string) ([]history.RawRecord, int, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening archive %q: %w", path, err)
	}
	defer reader.Close()

	var raw []history.RawRecord
	var files int
	for _, file := range reader.File {
		if file.FileInfo().IsDir() || !isHistoryFile(file.Name) {
			continue
		}
		payload, err := readZipFile(file)
		if err != nil {
			l.Logger.Warn().Str("file", file.Name).Err(err).Msg("skipping unreadable file")
			continue
		}
		records, ok := l.decode(file.Name, payload)
		if !ok {
			continue
		}
		files++
		raw = append(raw, records...)
	}
	return raw, files, nil
}

func (l *Loader) collectDir(path string) ([]history.RawRecord, int, error) {
	var raw []history.RawRecord
	var files int
	err := filepath.WalkDir(path, func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !isHistoryFile(name) {
			return nil
		}
		payload, err := os.ReadFile(name)
		if err != nil {
			l.Logger.Warn().Str("file", name).Err(err).Msg("skipping unreadable file")
			return nil
		}
		records, ok := l.decode(name, payload)
		if !ok {
			return nil
		}
		files++
		raw = append(raw, records...)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("walking %q: %w", path, err)
	}
	return raw, files, nil
}

// decode parses one payload as a JSON array of raw records. Files
// that do not hold an array are skipped, not fatal: partial corpus
// validity is fine.
func (l *Loader) decode(name string, payload []byte) ([]history.RawRecord, bool) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		l.Logger.Warn().Str("file", name).Msg("skipping non-array payload")
		return nil, false
	}
	var records []history.RawRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		l.Logger.Warn().Str("file", name).Err(err).Msg("skipping unparseable file")
		return nil, false
	}
	l.Logger.Debug().Str("file", name).Int("records", len(records)).Msg("loaded history file")
	return records, true
}

// isHistoryFile matches streaming history payload names and filters
// macOS metadata noise.
func isHistoryFile(name string) bool {
	if strings.Contains(name, "__MACOSX") {
		return false
	}
	base := filepath.Base(name)
	if strings.HasPrefix(base, "._") {
		return false
	}
	return strings.Contains(base, historyFileMarker) && strings.HasSuffix(base, ".json")
}

func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
