// Package analytics turns a normalized play-event corpus into derived
// views: filtered active sets, listening sessions, temporal
// aggregates, ranked top lists, and scalar insights.
package analytics

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/ademuri/spotify-stats-tools/internal/history"
)

type PeriodKind int

const (
	PeriodAll PeriodKind = iota
	PeriodLast7
	PeriodLast30
	PeriodYear
)

// Period selects a sub-range of the corpus by timestamp: the whole
// history, a trailing window, or a single calendar year.
type Period struct {
	Kind PeriodKind
	Year int
}

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// ParsePeriod parses a period key. Unknown keys are an error rather
// than an implicit "all": silent fallback hides caller typos.
func ParsePeriod(s string) (Period, error) {
	switch s {
	case "all":
		return Period{Kind: PeriodAll}, nil
	case "last7":
		return Period{Kind: PeriodLast7}, nil
	case "last30":
		return Period{Kind: PeriodLast30}, nil
	}
	if yearPattern.MatchString(s) {
		year, err := strconv.Atoi(s)
		if err != nil {
			return Period{}, fmt.Errorf("parsing period year %q: %w", s, err)
		}
		return Period{Kind: PeriodYear, Year: year}, nil
	}
	return Period{}, fmt.Errorf("unknown period %q: want all, last7, last30, or a four-digit year", s)
}

func (p Period) String() string {
	switch p.Kind {
	case PeriodLast7:
		return "last7"
	case PeriodLast30:
		return "last30"
	case PeriodYear:
		return strconv.Itoa(p.Year)
	default:
		return "all"
	}
}

// Filter selects the active set for a period. The result is always a
// fresh slice in chronological order; the input is never mutated.
// "Now" for the trailing windows is evaluated once per call.
func Filter(events []history.Event, period Period) []history.Event {
	now := time.Now()

	var cutoff time.Time
	switch period.Kind {
	case PeriodLast7:
		cutoff = now.AddDate(0, 0, -7)
	case PeriodLast30:
		cutoff = now.AddDate(0, 0, -30)
	}

	active := make([]history.Event, 0, len(events))
	for _, event := range events {
		switch period.Kind {
		case PeriodAll:
			active = append(active, event)
		case PeriodLast7, PeriodLast30:
			if !event.Timestamp.Before(cutoff) {
				active = append(active, event)
			}
		case PeriodYear:
			if event.Timestamp.Year() == period.Year {
				active = append(active, event)
			}
		}
	}

	// Source order is assumed chronological but not guaranteed;
	// session and series logic both depend on it.
	sortChronologically(active)
	return active
}

func sortChronologically(events []history.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
}

func isChronological(events []history.Event) bool {
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.Before(events[i-1].Timestamp) {
			return false
		}
	}
	return true
}
