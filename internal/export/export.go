// Package export writes a computed analytics snapshot to a SQLite
// database file. Only derived output is persisted, never the event
// corpus itself.
package export

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ademuri/spotify-stats-tools/internal/analytics"
)

const schema = `
CREATE TABLE IF NOT EXISTS Snapshot (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	generated_at INTEGER NOT NULL,
	period TEXT NOT NULL,
	mode TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS TopEntry (
	snapshot INTEGER NOT NULL REFERENCES Snapshot(id),
	list TEXT NOT NULL,
	rank INTEGER NOT NULL,
	name TEXT NOT NULL,
	time_ms INTEGER NOT NULL,
	plays INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS Insight (
	snapshot INTEGER NOT NULL REFERENCES Snapshot(id),
	name TEXT NOT NULL,
	value TEXT NOT NULL
);
`

// Snapshot is one fully computed result set to persist.
type Snapshot struct {
	GeneratedAt time.Time
	Period      string
	Mode        string
	Artists     []analytics.TopEntry
	Tracks      []analytics.TopEntry
	Albums      []analytics.TopEntry
	Insights    analytics.Insights
}

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// WriteSnapshot inserts a snapshot transactionally and returns its id.
func (s *Store) WriteSnapshot(snap Snapshot) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		"INSERT INTO Snapshot (generated_at, period, mode) VALUES (?, ?, ?)",
		snap.GeneratedAt.Unix(), snap.Period, snap.Mode)
	if err != nil {
		return 0, fmt.Errorf("inserting snapshot: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading snapshot id: %w", err)
	}

	for list, entries := range map[string][]analytics.TopEntry{
		"artists": snap.Artists,
		"tracks":  snap.Tracks,
		"albums":  snap.Albums,
	} {
		if err := insertEntries(tx, id, list, entries); err != nil {
			return 0, err
		}
	}
	if err := insertInsights(tx, id, snap.Insights); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return id, nil
}

func insertEntries(tx *sql.Tx, snapshot int64, list string, entries []analytics.TopEntry) error {
	for rank, entry := range entries {
		_, err := tx.Exec(
			"INSERT INTO TopEntry (snapshot, list, rank, name, time_ms, plays) VALUES (?, ?, ?, ?, ?, ?)",
			snapshot, list, rank+1, entry.Name, entry.TotalTimeMs, entry.PlayCount)
		if err != nil {
			return fmt.Errorf("inserting %s entry %q: %w", list, entry.Name, err)
		}
	}
	return nil
}

func insertInsights(tx *sql.Tx, snapshot int64, in analytics.Insights) error {
	values := map[string]string{
		"total_time_ms":      strconv.FormatInt(in.TotalTimeMs, 10),
		"total_plays":        strconv.Itoa(in.TotalPlays),
		"unique_artists":     strconv.Itoa(in.UniqueArtists),
		"unique_tracks":      strconv.Itoa(in.UniqueTracks),
		"top_country":        in.TopCountry,
		"top_platform":       in.TopPlatform,
		"completion_rate":    strconv.Itoa(in.CompletionRate),
		"shuffle_rate":       strconv.Itoa(in.ShuffleRate),
		"offline_rate":       strconv.Itoa(in.OfflineRate),
		"skip_rate":          strconv.Itoa(in.SkipRate),
		"discovery_score":    strconv.Itoa(in.DiscoveryScore),
		"variety_score":      strconv.Itoa(in.VarietyScore),
		"night_owl_score":    strconv.Itoa(in.NightOwlScore),
		"early_bird_score":   strconv.Itoa(in.EarlyBirdScore),
		"longest_session_ms": strconv.FormatInt(in.LongestSessionMs, 10),
		"most_active_day":    in.MostActiveDay,
	}
	for name, value := range values {
		_, err := tx.Exec(
			"INSERT INTO Insight (snapshot, name, value) VALUES (?, ?, ?)",
			snapshot, name, value)
		if err != nil {
			return fmt.Errorf("inserting insight %q: %w", name, err)
		}
	}
	return nil
}

// ReadTopEntries returns a snapshot's entries for one list in rank
// order.
func (s *Store) ReadTopEntries(snapshot int64, list string) ([]analytics.TopEntry, error) {
	rows, err := s.db.Query(
		"SELECT name, time_ms, plays FROM TopEntry WHERE snapshot = ? AND list = ? ORDER BY rank",
		snapshot, list)
	if err != nil {
		return nil, fmt.Errorf("querying %s entries: %w", list, err)
	}
	defer rows.Close()

	var entries []analytics.TopEntry
	for rows.Next() {
		var entry analytics.TopEntry
		if err := rows.Scan(&entry.Name, &entry.TotalTimeMs, &entry.PlayCount); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ReadInsight returns one insight value from a snapshot.
func (s *Store) ReadInsight(snapshot int64, name string) (string, error) {
	var value string
	err := s.db.QueryRow(
		"SELECT value FROM Insight WHERE snapshot = ? AND name = ?",
		snapshot, name).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("reading insight %q: %w", name, err)
	}
	return value, nil
}
