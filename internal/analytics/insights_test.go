package analytics

import (
	"math/rand"
	"testing"

	"github.com/ademuri/spotify-stats-tools/internal/history"
)

func TestTopCountry(t *testing.T) {
	var events []history.Event
	for i := 0; i < 5; i++ {
		event := play(at(2024, 1, 1, 10, i), "t", "a", 1000)
		event.Country = "US"
		events = append(events, event)
	}
	outlier := play(at(2024, 1, 1, 11, 0), "t", "a", 1000)
	outlier.Country = "DE"
	events = append(events, outlier)

	country, listens := TopCountry(events)
	if country != "US" {
		t.Errorf("TopCountry = %q, want US", country)
	}
	if listens != 5 {
		t.Errorf("listens = %d, want 5", listens)
	}
}

func TestTopCountryTieBreaksOnFirstSeen(t *testing.T) {
	first := play(at(2024, 1, 1, 10, 0), "t", "a", 1000)
	first.Country = "DE"
	second := play(at(2024, 1, 1, 11, 0), "t", "a", 1000)
	second.Country = "US"

	country, _ := TopCountry([]history.Event{first, second})
	if country != "DE" {
		t.Errorf("TopCountry = %q, want first-seen DE on a tie", country)
	}
}

func TestTopCountryEmpty(t *testing.T) {
	events := []history.Event{play(at(2024, 1, 1, 10, 0), "t", "a", 1000)}
	if country, listens := TopCountry(events); country != "" || listens != 0 {
		t.Errorf("TopCountry with no countries = %q/%d", country, listens)
	}
}

func TestTopPlatformByTime(t *testing.T) {
	// android has more plays, web has more accumulated time.
	var events []history.Event
	for i := 0; i < 3; i++ {
		event := play(at(2024, 1, 1, 10, i), "t", "a", 1000)
		event.Platform = "android"
		events = append(events, event)
	}
	long := play(at(2024, 1, 1, 11, 0), "t", "a", 10000)
	long.Platform = "web"
	events = append(events, long)

	platform, ms := TopPlatform(events)
	if platform != "web" {
		t.Errorf("TopPlatform = %q, want web", platform)
	}
	if ms != 10000 {
		t.Errorf("platform time = %d, want 10000", ms)
	}
}

func flagged(shuffle, offline, skipped bool) history.Event {
	event := play(at(2024, 1, 1, 10, 0), "t", "a", 1000)
	event.Shuffle = shuffle
	event.Offline = offline
	event.Skipped = skipped
	return event
}

func TestComputeInsightsRates(t *testing.T) {
	events := []history.Event{
		flagged(true, false, false),
		flagged(true, true, false),
		flagged(false, false, true),
		flagged(false, false, false),
	}
	// One event over the 30-second completion threshold.
	events[0].MsPlayed = 45000

	in := ComputeInsights(events, nil, nil, [24]int{}, nil)
	if in.ShuffleRate != 50 {
		t.Errorf("ShuffleRate = %d, want 50", in.ShuffleRate)
	}
	if in.OfflineRate != 25 {
		t.Errorf("OfflineRate = %d, want 25", in.OfflineRate)
	}
	if in.SkipRate != 25 {
		t.Errorf("SkipRate = %d, want 25", in.SkipRate)
	}
	if in.CompletionRate != 25 {
		t.Errorf("CompletionRate = %d, want 25", in.CompletionRate)
	}
}

func TestCompletionThresholdIsExclusive(t *testing.T) {
	boundary := []history.Event{play(at(2024, 1, 1, 10, 0), "t", "a", 30000)}
	in := ComputeInsights(boundary, nil, nil, [24]int{}, nil)
	if in.CompletionRate != 0 {
		t.Errorf("exactly 30000ms should not count as completed, rate = %d", in.CompletionRate)
	}

	over := []history.Event{play(at(2024, 1, 1, 10, 0), "t", "a", 30001)}
	in = ComputeInsights(over, nil, nil, [24]int{}, nil)
	if in.CompletionRate != 100 {
		t.Errorf("30001ms should count as completed, rate = %d", in.CompletionRate)
	}
}

func TestDiscoveryScoreBounds(t *testing.T) {
	events := []history.Event{
		play(at(2024, 1, 1, 10, 0), "once", "a", 1000),
		play(at(2024, 1, 1, 11, 0), "twice", "a", 1000),
		play(at(2024, 1, 1, 12, 0), "twice", "a", 1000),
	}
	if got := DiscoveryScore(events); got != 1 {
		t.Errorf("DiscoveryScore = %d, want 1", got)
	}

	// Every track unique: score equals the identity count.
	unique := []history.Event{
		play(at(2024, 1, 1, 10, 0), "a", "x", 1000),
		play(at(2024, 1, 1, 11, 0), "b", "x", 1000),
		play(at(2024, 1, 1, 12, 0), "c", "x", 1000),
	}
	if got := DiscoveryScore(unique); got != 3 {
		t.Errorf("DiscoveryScore = %d, want 3", got)
	}
}

func TestVarietyScoreOrderIndependent(t *testing.T) {
	var events []history.Event
	artists := []string{"A", "B", "C", "D"}
	for i, artist := range artists {
		events = append(events, play(at(2024, 3, 11, 9, i), "t", artist, 1000))
	}
	// A second week with two artists: mean of 4 and 2 is 3.
	events = append(events,
		play(at(2024, 3, 18, 9, 0), "t", "A", 1000),
		play(at(2024, 3, 18, 10, 0), "t", "E", 1000),
	)

	want := VarietyScore(WeeklyArtists(events))
	if want != 3 {
		t.Fatalf("VarietyScore = %d, want 3", want)
	}

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]history.Event, len(events))
		copy(shuffled, events)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		if got := VarietyScore(WeeklyArtists(shuffled)); got != want {
			t.Fatalf("VarietyScore changed under reordering: %d != %d", got, want)
		}
	}
}

func TestListeningClockScores(t *testing.T) {
	var hourly [24]int
	hourly[23] = 2
	hourly[3] = 1
	hourly[6] = 1
	hourly[12] = 4

	night, early := ListeningClockScores(hourly)
	// 3 of 8 events in the night window, 1 of 8 in the early window.
	if night != 38 {
		t.Errorf("night owl = %d, want 38", night)
	}
	if early != 13 {
		t.Errorf("early bird = %d, want 13", early)
	}
}

func TestListeningClockHourFiveOverlap(t *testing.T) {
	// Hour 5 counts toward both windows. Known quirk, kept on
	// purpose.
	var hourly [24]int
	hourly[5] = 10

	night, early := ListeningClockScores(hourly)
	if night != 100 || early != 100 {
		t.Errorf("hour 5 should count in both windows, got night=%d early=%d", night, early)
	}
}

func TestLongestSession(t *testing.T) {
	sessions := []Session{
		{TotalDurationMs: 100},
		{TotalDurationMs: 900},
		{TotalDurationMs: 500},
	}
	if got := LongestSession(sessions); got != 900 {
		t.Errorf("LongestSession = %d, want 900", got)
	}
	if got := LongestSession(nil); got != 0 {
		t.Errorf("LongestSession(nil) = %d, want 0", got)
	}
}

func TestMostActiveDay(t *testing.T) {
	daily := map[string]DayStat{
		"2024-03-10": {TrackCount: 5, TotalTimeMs: 100},
		"2024-03-11": {TrackCount: 9, TotalTimeMs: 300},
		"2024-03-12": {TrackCount: 9, TotalTimeMs: 200},
	}

	day, stat := MostActiveDay(daily)
	if day != "2024-03-11" {
		t.Errorf("MostActiveDay = %q, want the earliest of the tied days", day)
	}
	if stat.TrackCount != 9 || stat.TotalTimeMs != 300 {
		t.Errorf("stat = %+v", stat)
	}
}

func TestComputeInsightsBasicStats(t *testing.T) {
	events := []history.Event{
		play(at(2024, 3, 10, 9, 0), "a", "X", 60000),
		play(at(2024, 3, 11, 9, 0), "b", "X", 120000),
		play(at(2024, 3, 12, 9, 0), "a", "Y", 60000),
	}

	in := ComputeInsights(events, nil, nil, [24]int{}, nil)
	if in.TotalTimeMs != 240000 {
		t.Errorf("TotalTimeMs = %d, want 240000", in.TotalTimeMs)
	}
	if in.TotalPlays != 3 {
		t.Errorf("TotalPlays = %d, want 3", in.TotalPlays)
	}
	if in.UniqueArtists != 2 {
		t.Errorf("UniqueArtists = %d, want 2", in.UniqueArtists)
	}
	// "a - X" and "a - Y" are distinct identities.
	if in.UniqueTracks != 3 {
		t.Errorf("UniqueTracks = %d, want 3", in.UniqueTracks)
	}
	if in.SpanDays != 2 {
		t.Errorf("SpanDays = %d, want 2", in.SpanDays)
	}
	if in.AvgDailyMs != 120000 {
		t.Errorf("AvgDailyMs = %d, want 120000", in.AvgDailyMs)
	}
}

func TestComputeInsightsDashInNames(t *testing.T) {
	// Two identities that render to the same display string must stay
	// distinct in the unique-track and discovery counts.
	events := []history.Event{
		play(at(2024, 1, 1, 10, 0), "Home - Acoustic", "Edith", 1000),
		play(at(2024, 1, 1, 11, 0), "Home", "Acoustic - Edith", 1000),
	}

	in := ComputeInsights(events, nil, nil, [24]int{}, nil)
	if in.UniqueTracks != 2 {
		t.Errorf("UniqueTracks = %d, want 2", in.UniqueTracks)
	}
	if in.DiscoveryScore != 2 {
		t.Errorf("DiscoveryScore = %d, want 2", in.DiscoveryScore)
	}
}

func TestBreakdownsSorted(t *testing.T) {
	mk := func(platform, country string, ms int64) history.Event {
		event := play(at(2024, 1, 1, 10, 0), "t", "a", ms)
		event.Platform = platform
		event.Country = country
		return event
	}
	events := []history.Event{
		mk("android", "US", 100),
		mk("web", "DE", 500),
		mk("android", "US", 150),
		mk("", "", 999), // no labels, excluded
	}

	platforms := PlatformBreakdown(events)
	if len(platforms) != 2 {
		t.Fatalf("PlatformBreakdown returned %d entries, want 2", len(platforms))
	}
	if platforms[0].Label != "web" || platforms[0].TotalTimeMs != 500 {
		t.Errorf("platforms[0] = %+v", platforms[0])
	}
	if platforms[1].Label != "android" || platforms[1].PlayCount != 2 {
		t.Errorf("platforms[1] = %+v", platforms[1])
	}

	countries := CountryBreakdown(events)
	if len(countries) != 2 || countries[0].Label != "DE" {
		t.Errorf("countries = %+v", countries)
	}
}
