package analytics

import (
	"sort"

	"github.com/ademuri/spotify-stats-tools/internal/history"
)

const dayKeyFormat = "2006-01-02"

// DayStat accumulates one calendar day's plays.
type DayStat struct {
	TrackCount  int
	TotalTimeMs int64
}

// DailyStats buckets events by calendar date, keyed "YYYY-MM-DD" in
// the event's local time.
func DailyStats(events []history.Event) map[string]DayStat {
	daily := make(map[string]DayStat)
	for _, event := range events {
		key := event.Timestamp.Format(dayKeyFormat)
		stat := daily[key]
		stat.TrackCount++
		stat.TotalTimeMs += event.MsPlayed
		daily[key] = stat
	}
	return daily
}

// HourlyDistribution counts events by hour of day, 0 through 23.
func HourlyDistribution(events []history.Event) [24]int {
	var hourly [24]int
	for _, event := range events {
		hourly[event.Timestamp.Hour()]++
	}
	return hourly
}

// WeekdayStat accumulates one day-of-week's plays. Both count and
// time are kept so the display mode selects at render time.
type WeekdayStat struct {
	PlayCount   int
	TotalTimeMs int64
}

// WeeklyDistribution buckets events by day of week, Sunday through
// Saturday.
func WeeklyDistribution(events []history.Event) [7]WeekdayStat {
	var weekly [7]WeekdayStat
	for _, event := range events {
		day := int(event.Timestamp.Weekday())
		weekly[day].PlayCount++
		weekly[day].TotalTimeMs += event.MsPlayed
	}
	return weekly
}

// WeekKey identifies an ISO calendar week.
type WeekKey struct {
	Year int
	Week int
}

// WeeklyArtists collects the set of distinct artists heard in each ISO
// week. Weeks with no events have no entry.
func WeeklyArtists(events []history.Event) map[WeekKey]map[string]struct{} {
	weeks := make(map[WeekKey]map[string]struct{})
	for _, event := range events {
		year, week := event.Timestamp.ISOWeek()
		key := WeekKey{Year: year, Week: week}
		artists := weeks[key]
		if artists == nil {
			artists = make(map[string]struct{})
			weeks[key] = artists
		}
		artists[event.ArtistName] = struct{}{}
	}
	return weeks
}

// SeriesPoint is one bucket of the listening time series.
type SeriesPoint struct {
	Label       string
	TrackCount  int
	TotalTimeMs int64
}

// Series rolls daily stats up into a sorted time series. Trailing
// windows stay per-day; longer periods group by month.
func Series(daily map[string]DayStat, period Period) []SeriesPoint {
	grouped := make(map[string]DayStat)
	for day, stat := range daily {
		key := day
		if period.Kind != PeriodLast7 && period.Kind != PeriodLast30 {
			key = day[:7] // "YYYY-MM"
		}
		sum := grouped[key]
		sum.TrackCount += stat.TrackCount
		sum.TotalTimeMs += stat.TotalTimeMs
		grouped[key] = sum
	}

	labels := make([]string, 0, len(grouped))
	for label := range grouped {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	series := make([]SeriesPoint, 0, len(labels))
	for _, label := range labels {
		stat := grouped[label]
		series = append(series, SeriesPoint{
			Label:       label,
			TrackCount:  stat.TrackCount,
			TotalTimeMs: stat.TotalTimeMs,
		})
	}
	return series
}
