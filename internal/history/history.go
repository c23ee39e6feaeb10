// Package history defines the normalized play-event model and the
// validation that turns raw Spotify extended streaming history records
// into it.
package history

import (
	"errors"
	"time"
)

// ErrNoRecords is returned when a corpus contains zero valid play
// records after normalization.
var ErrNoRecords = errors.New("no valid listening records found")

// RawRecord mirrors one entry of a Spotify extended streaming history
// JSON payload. Boolean flags may be null in real exports; decoding
// leaves them false.
type RawRecord struct {
	Timestamp  string `json:"ts"`
	MsPlayed   int64  `json:"ms_played"`
	TrackName  string `json:"master_metadata_track_name"`
	ArtistName string `json:"master_metadata_album_artist_name"`
	AlbumName  string `json:"master_metadata_album_album_name"`
	Platform   string `json:"platform"`
	Country    string `json:"conn_country"`
	Shuffle    bool   `json:"shuffle"`
	Offline    bool   `json:"offline"`
	Skipped    bool   `json:"skipped"`
}

// Event is one normalized play record. Events are never mutated after
// creation; every derived view is recomputed from scratch.
type Event struct {
	TrackName  string
	ArtistName string
	// AlbumName may be empty, in which case the event is excluded
	// from album aggregation.
	AlbumName string
	Timestamp time.Time
	MsPlayed  int64
	Platform  string
	Country   string
	Shuffle   bool
	Offline   bool
	Skipped   bool
}

// Normalize validates a raw record and converts it to an Event.
// Records with a missing track or artist name, a non-positive play
// duration, or an unparseable timestamp are rejected. Timestamps are
// shifted to the local time zone so that calendar bucketing matches
// the viewer's clock.
func Normalize(raw RawRecord) (Event, bool) {
	if raw.TrackName == "" || raw.ArtistName == "" {
		return Event{}, false
	}
	if raw.MsPlayed <= 0 {
		return Event{}, false
	}
	ts, err := time.Parse(time.RFC3339, raw.Timestamp)
	if err != nil {
		return Event{}, false
	}

	return Event{
		TrackName:  raw.TrackName,
		ArtistName: raw.ArtistName,
		AlbumName:  raw.AlbumName,
		Timestamp:  ts.In(time.Local),
		MsPlayed:   raw.MsPlayed,
		Platform:   raw.Platform,
		Country:    raw.Country,
		Shuffle:    raw.Shuffle,
		Offline:    raw.Offline,
		Skipped:    raw.Skipped,
	}, true
}

// NormalizeBatch normalizes one chunk of raw records, silently
// dropping invalid ones. Callers processing large corpora drive this
// in a loop with their own scheduling between chunks.
func NormalizeBatch(chunk []RawRecord) []Event {
	events := make([]Event, 0, len(chunk))
	for _, raw := range chunk {
		if event, ok := Normalize(raw); ok {
			events = append(events, event)
		}
	}
	return events
}
