package analytics

import (
	"math"
	"sort"

	"github.com/ademuri/spotify-stats-tools/internal/history"
)

// completionThresholdMs is the "played past 30 seconds" proxy for a
// completed listen. This is not the explicit skip flag.
const completionThresholdMs = 30000

// Insights are the scalar scores and superlatives derived from the
// active set. All values are recomputed in full on every filter or
// mode change. Rates and scores are whole percentages.
type Insights struct {
	TotalTimeMs   int64
	TotalPlays    int
	UniqueArtists int
	UniqueTracks  int
	SpanDays      int
	AvgDailyMs    int64
	AvgDailyPlays int

	TopCountry     string
	CountryListens int
	TopPlatform    string
	PlatformTimeMs int64

	CompletionRate int
	ShuffleRate    int
	OfflineRate    int
	SkipRate       int

	DiscoveryScore int
	VarietyScore   int
	NightOwlScore  int
	EarlyBirdScore int

	LongestSessionMs  int64
	MostActiveDay     string
	MostActiveDayStat DayStat
}

// ComputeInsights derives all insight values from the active set and
// its precomputed views.
func ComputeInsights(events []history.Event, sessions []Session, daily map[string]DayStat, hourly [24]int, weeklyArtists map[WeekKey]map[string]struct{}) Insights {
	in := Insights{
		TotalPlays: len(events),
	}

	artists := make(map[string]struct{})
	tracks := make(map[identity]struct{})
	var completed, shuffled, offline, skipped int
	for _, event := range events {
		in.TotalTimeMs += event.MsPlayed
		artists[event.ArtistName] = struct{}{}
		tracks[identity{name: event.TrackName, artist: event.ArtistName}] = struct{}{}
		if event.MsPlayed > completionThresholdMs {
			completed++
		}
		if event.Shuffle {
			shuffled++
		}
		if event.Offline {
			offline++
		}
		if event.Skipped {
			skipped++
		}
	}
	in.UniqueArtists = len(artists)
	in.UniqueTracks = len(tracks)

	in.SpanDays = spanDays(events)
	if in.SpanDays > 0 {
		in.AvgDailyMs = in.TotalTimeMs / int64(in.SpanDays)
		in.AvgDailyPlays = int(math.Round(float64(in.TotalPlays) / float64(in.SpanDays)))
	}

	in.CompletionRate = percent(completed, in.TotalPlays)
	in.ShuffleRate = percent(shuffled, in.TotalPlays)
	in.OfflineRate = percent(offline, in.TotalPlays)
	in.SkipRate = percent(skipped, in.TotalPlays)

	in.DiscoveryScore = DiscoveryScore(events)
	in.TopCountry, in.CountryListens = TopCountry(events)
	in.TopPlatform, in.PlatformTimeMs = TopPlatform(events)
	in.VarietyScore = VarietyScore(weeklyArtists)
	in.NightOwlScore, in.EarlyBirdScore = ListeningClockScores(hourly)
	in.LongestSessionMs = LongestSession(sessions)
	in.MostActiveDay, in.MostActiveDayStat = MostActiveDay(daily)

	return in
}

// spanDays is the length of the active range in whole days, at least
// one when any events exist.
func spanDays(events []history.Event) int {
	if len(events) == 0 {
		return 0
	}
	min, max := events[0].Timestamp, events[0].Timestamp
	for _, event := range events[1:] {
		if event.Timestamp.Before(min) {
			min = event.Timestamp
		}
		if event.Timestamp.After(max) {
			max = event.Timestamp
		}
	}
	days := int(math.Ceil(max.Sub(min).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// TopCountry is the most frequent country in the active set, with its
// listen count. Ties break on the first maximum in event order.
func TopCountry(events []history.Event) (string, int) {
	counts := make(map[string]int)
	for _, event := range events {
		if event.Country != "" {
			counts[event.Country]++
		}
	}
	var top string
	var best int
	seen := make(map[string]struct{})
	for _, event := range events {
		if event.Country == "" {
			continue
		}
		if _, dup := seen[event.Country]; dup {
			continue
		}
		seen[event.Country] = struct{}{}
		if counts[event.Country] > best {
			top = event.Country
			best = counts[event.Country]
		}
	}
	return top, best
}

// TopPlatform is the platform with the most accumulated play time.
// Ties break on the first maximum in event order.
func TopPlatform(events []history.Event) (string, int64) {
	totals := make(map[string]int64)
	for _, event := range events {
		if event.Platform != "" {
			totals[event.Platform] += event.MsPlayed
		}
	}
	var top string
	var best int64
	seen := make(map[string]struct{})
	for _, event := range events {
		if event.Platform == "" {
			continue
		}
		if _, dup := seen[event.Platform]; dup {
			continue
		}
		seen[event.Platform] = struct{}{}
		if totals[event.Platform] > best {
			top = event.Platform
			best = totals[event.Platform]
		}
	}
	return top, best
}

// DiscoveryScore counts (track, artist) identities played exactly once.
func DiscoveryScore(events []history.Event) int {
	counts := make(map[identity]int)
	for _, event := range events {
		counts[identity{name: event.TrackName, artist: event.ArtistName}]++
	}
	var score int
	for _, count := range counts {
		if count == 1 {
			score++
		}
	}
	return score
}

// VarietyScore is the rounded mean of distinct artists per ISO week,
// over weeks that had any listening.
func VarietyScore(weeklyArtists map[WeekKey]map[string]struct{}) int {
	if len(weeklyArtists) == 0 {
		return 0
	}
	var total int
	for _, artists := range weeklyArtists {
		total += len(artists)
	}
	return int(math.Round(float64(total) / float64(len(weeklyArtists))))
}

// ListeningClockScores derives the night-owl and early-bird
// percentages from the hourly distribution. Hour 5 counts toward both
// windows; the overlap is deliberate.
func ListeningClockScores(hourly [24]int) (nightOwl, earlyBird int) {
	var total, night, early int
	for hour, count := range hourly {
		total += count
		if hour >= 22 || hour <= 5 {
			night += count
		}
		if hour >= 5 && hour <= 7 {
			early += count
		}
	}
	return percent(night, total), percent(early, total)
}

// LongestSession is the largest total duration across sessions.
func LongestSession(sessions []Session) int64 {
	var longest int64
	for _, session := range sessions {
		if session.TotalDurationMs > longest {
			longest = session.TotalDurationMs
		}
	}
	return longest
}

// MostActiveDay is the calendar day with the most plays. Ties break
// on the earliest date.
func MostActiveDay(daily map[string]DayStat) (string, DayStat) {
	days := make([]string, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Strings(days)

	var top string
	var best DayStat
	for _, day := range days {
		if stat := daily[day]; stat.TrackCount > best.TrackCount {
			top = day
			best = stat
		}
	}
	return top, best
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// LabelStat is one label's share of a breakdown.
type LabelStat struct {
	Label       string
	TotalTimeMs int64
	PlayCount   int
}

// PlatformBreakdown lists platform totals in descending play-time
// order.
func PlatformBreakdown(events []history.Event) []LabelStat {
	return breakdown(events, func(e history.Event) string { return e.Platform })
}

// CountryBreakdown lists country totals in descending play-time order.
func CountryBreakdown(events []history.Event) []LabelStat {
	return breakdown(events, func(e history.Event) string { return e.Country })
}

func breakdown(events []history.Event, label func(history.Event) string) []LabelStat {
	index := make(map[string]int)
	var stats []LabelStat
	for _, event := range events {
		name := label(event)
		if name == "" {
			continue
		}
		i, seen := index[name]
		if !seen {
			i = len(stats)
			index[name] = i
			stats = append(stats, LabelStat{Label: name})
		}
		stats[i].TotalTimeMs += event.MsPlayed
		stats[i].PlayCount++
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalTimeMs > stats[j].TotalTimeMs
	})
	return stats
}
