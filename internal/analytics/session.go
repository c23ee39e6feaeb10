package analytics

import (
	"time"

	"github.com/ademuri/spotify-stats-tools/internal/history"
)

// SessionGap is the maximum silence between two plays that still
// belong to the same listening session. The boundary is inclusive: a
// gap of exactly 30 minutes continues the session.
const SessionGap = 30 * time.Minute

// Session is a maximal run of chronologically adjacent events with no
// gap exceeding SessionGap. Sessions are recomputed on every
// aggregation pass and never persisted.
type Session struct {
	Start           time.Time
	LastActivity    time.Time
	TotalDurationMs int64
	TrackCount      int
}

// Sessions segments events into listening sessions. The input is
// sorted defensively if it is not already chronological.
func Sessions(events []history.Event) []Session {
	if !isChronological(events) {
		sorted := make([]history.Event, len(events))
		copy(sorted, events)
		sortChronologically(sorted)
		events = sorted
	}

	var sessions []Session
	for _, event := range events {
		if len(sessions) == 0 || event.Timestamp.Sub(sessions[len(sessions)-1].LastActivity) > SessionGap {
			sessions = append(sessions, Session{
				Start:           event.Timestamp,
				LastActivity:    event.Timestamp,
				TotalDurationMs: event.MsPlayed,
				TrackCount:      1,
			})
			continue
		}
		current := &sessions[len(sessions)-1]
		current.LastActivity = event.Timestamp
		current.TotalDurationMs += event.MsPlayed
		current.TrackCount++
	}
	return sessions
}
