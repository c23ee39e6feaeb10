package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ademuri/spotify-stats-tools/internal/history"
)

// Mode selects the ranking key for top lists and breakdowns.
type Mode int

const (
	ModeTime Mode = iota
	ModeCount
)

func ParseMode(s string) (Mode, error) {
	switch s {
	case "time":
		return ModeTime, nil
	case "count":
		return ModeCount, nil
	}
	return 0, fmt.Errorf("unknown display mode %q: want time or count", s)
}

func (m Mode) String() string {
	if m == ModeCount {
		return "count"
	}
	return "time"
}

// PageSize is the number of entries exposed per "show more" step.
const PageSize = 20

// TopEntry is one aggregated identity in a top list. Name is the
// display form; the aggregation key is the literal name pair, so
// differently spelled names stay distinct.
type TopEntry struct {
	Name        string
	TotalTimeMs int64
	PlayCount   int
}

// identity is a literal (name, artist) pair. Aggregation keys on the
// pair itself, never on the rendered display string: a name that
// happens to contain the display separator must not merge with
// another pair.
type identity struct {
	name   string
	artist string
}

func (id identity) display() string {
	if id.artist == "" {
		return id.name
	}
	return id.name + " - " + id.artist
}

type keyFunc func(history.Event) (identity, bool)

// aggregate reduces events into entries keyed by key, preserving
// first-encounter order so that sort ties stay deterministic.
func aggregate(events []history.Event, key keyFunc) []TopEntry {
	index := make(map[identity]int)
	var entries []TopEntry
	for _, event := range events {
		id, ok := key(event)
		if !ok {
			continue
		}
		i, seen := index[id]
		if !seen {
			i = len(entries)
			index[id] = i
			entries = append(entries, TopEntry{Name: id.display()})
		}
		entries[i].TotalTimeMs += event.MsPlayed
		entries[i].PlayCount++
	}
	return entries
}

// AggregateArtists reduces events into per-artist entries.
func AggregateArtists(events []history.Event) []TopEntry {
	return aggregate(events, func(e history.Event) (identity, bool) {
		return identity{name: e.ArtistName}, true
	})
}

// AggregateTracks reduces events into per (track, artist) entries.
func AggregateTracks(events []history.Event) []TopEntry {
	return aggregate(events, func(e history.Event) (identity, bool) {
		return identity{name: e.TrackName, artist: e.ArtistName}, true
	})
}

// AggregateAlbums reduces events into per (album, artist) entries.
// Events without an album name are excluded.
func AggregateAlbums(events []history.Event) []TopEntry {
	return aggregate(events, func(e history.Event) (identity, bool) {
		if e.AlbumName == "" {
			return identity{}, false
		}
		return identity{name: e.AlbumName, artist: e.ArtistName}, true
	})
}

// TopList is a ranked, searchable, paginated aggregation. The full
// aggregation is computed once; searching and paging only re-select
// from the already-sorted entries.
type TopList struct {
	base     []TopEntry // first-encounter order, never re-sorted
	sorted   []TopEntry
	filtered []TopEntry
	mode     Mode
	query    string
	shown    int
}

// NewTopList ranks entries under mode with pagination at the first
// page and no search filter.
func NewTopList(entries []TopEntry, mode Mode) *TopList {
	t := &TopList{base: entries, mode: mode, shown: PageSize}
	t.resort()
	t.refilter()
	return t
}

func (t *TopList) resort() {
	t.sorted = make([]TopEntry, len(t.base))
	copy(t.sorted, t.base)
	sort.SliceStable(t.sorted, func(i, j int) bool {
		if t.mode == ModeCount {
			return t.sorted[i].PlayCount > t.sorted[j].PlayCount
		}
		return t.sorted[i].TotalTimeMs > t.sorted[j].TotalTimeMs
	})
}

func (t *TopList) refilter() {
	if t.query == "" {
		t.filtered = t.sorted
		return
	}
	needle := strings.ToLower(t.query)
	t.filtered = nil
	for _, entry := range t.sorted {
		if strings.Contains(strings.ToLower(entry.Name), needle) {
			t.filtered = append(t.filtered, entry)
		}
	}
}

// SetMode re-sorts under the new ranking key. The search filter and
// the pagination window both survive a mode change.
func (t *TopList) SetMode(mode Mode) {
	t.mode = mode
	t.resort()
	t.refilter()
}

// Search applies a case-insensitive substring filter against entry
// names and resets pagination to the first page.
func (t *TopList) Search(query string) {
	t.query = query
	t.shown = PageSize
	t.refilter()
}

// ShowMore advances the pagination window by one page.
func (t *TopList) ShowMore() {
	t.shown += PageSize
}

// Page returns the currently visible entries.
func (t *TopList) Page() []TopEntry {
	if t.shown >= len(t.filtered) {
		return t.filtered
	}
	return t.filtered[:t.shown]
}

// Entries returns the full ranked aggregation, ignoring search and
// pagination.
func (t *TopList) Entries() []TopEntry {
	return t.sorted
}

// Len is the number of entries matching the current search.
func (t *TopList) Len() int {
	return len(t.filtered)
}

// Remaining is the number of matching entries not yet shown.
func (t *TopList) Remaining() int {
	if remaining := len(t.filtered) - t.shown; remaining > 0 {
		return remaining
	}
	return 0
}
