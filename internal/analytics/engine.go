package analytics

import (
	"fmt"

	"github.com/ademuri/spotify-stats-tools/internal/history"
)

// Engine holds the normalized corpus plus the active filter and
// display configuration, and recomputes every derived view through
// the documented setters. There is no shared mutable state: each
// recomputation reads the immutable corpus and replaces the previous
// snapshot wholesale.
type Engine struct {
	events []history.Event

	period    Period
	mode      Mode
	timeUnit  TimeUnit
	precision int

	active        []history.Event
	sessions      []Session
	daily         map[string]DayStat
	hourly        [24]int
	weekly        [7]WeekdayStat
	weeklyArtists map[WeekKey]map[string]struct{}
	insights      Insights
	artists       *TopList
	tracks        *TopList
	albums        *TopList
}

// NewEngine builds an engine over a normalized corpus with the
// defaults the presentation layer starts from: all time, time mode,
// minutes, one decimal place. An empty corpus is the corpus-level
// error.
func NewEngine(events []history.Event) (*Engine, error) {
	if len(events) == 0 {
		return nil, history.ErrNoRecords
	}
	e := &Engine{
		events:    events,
		period:    Period{Kind: PeriodAll},
		mode:      ModeTime,
		timeUnit:  UnitMinutes,
		precision: 1,
	}
	e.recompute()
	return e, nil
}

// recompute replaces every derived view from the current active set.
// Top lists start back at the first page with no search filter.
func (e *Engine) recompute() {
	e.active = Filter(e.events, e.period)
	e.sessions = Sessions(e.active)
	e.daily = DailyStats(e.active)
	e.hourly = HourlyDistribution(e.active)
	e.weekly = WeeklyDistribution(e.active)
	e.weeklyArtists = WeeklyArtists(e.active)
	e.insights = ComputeInsights(e.active, e.sessions, e.daily, e.hourly, e.weeklyArtists)
	e.artists = NewTopList(AggregateArtists(e.active), e.mode)
	e.tracks = NewTopList(AggregateTracks(e.active), e.mode)
	e.albums = NewTopList(AggregateAlbums(e.active), e.mode)
}

// SetPeriod selects a new active set and recomputes all views.
func (e *Engine) SetPeriod(period Period) {
	e.period = period
	e.recompute()
}

// SetDisplayMode re-ranks the top lists. Search filters and
// pagination windows survive a mode change.
func (e *Engine) SetDisplayMode(mode Mode) {
	e.mode = mode
	e.artists.SetMode(mode)
	e.tracks.SetMode(mode)
	e.albums.SetMode(mode)
}

// SetTimeUnit changes duration rendering only.
func (e *Engine) SetTimeUnit(unit TimeUnit) {
	e.timeUnit = unit
}

// SetDecimalPrecision changes duration rendering only. Out-of-range
// values are a caller error.
func (e *Engine) SetDecimalPrecision(precision int) error {
	if precision < 0 || precision > MaxPrecision {
		return fmt.Errorf("decimal precision %d out of range [0, %d]", precision, MaxPrecision)
	}
	e.precision = precision
	return nil
}

// SearchTopList filters one list by a case-insensitive substring and
// resets its pagination.
func (e *Engine) SearchTopList(list, query string) error {
	t, err := e.TopList(list)
	if err != nil {
		return err
	}
	t.Search(query)
	return nil
}

// ShowMore advances one list's pagination window by a page.
func (e *Engine) ShowMore(list string) error {
	t, err := e.TopList(list)
	if err != nil {
		return err
	}
	t.ShowMore()
	return nil
}

// TopList resolves a list by name: artists, tracks, or albums.
func (e *Engine) TopList(list string) (*TopList, error) {
	switch list {
	case "artists":
		return e.artists, nil
	case "tracks":
		return e.tracks, nil
	case "albums":
		return e.albums, nil
	}
	return nil, fmt.Errorf("unknown top list %q: want artists, tracks, or albums", list)
}

func (e *Engine) Period() Period     { return e.period }
func (e *Engine) Mode() Mode         { return e.mode }
func (e *Engine) TimeUnit() TimeUnit { return e.timeUnit }
func (e *Engine) Precision() int     { return e.precision }

// Active is the currently filtered event set, in chronological order.
func (e *Engine) Active() []history.Event { return e.active }

func (e *Engine) Sessions() []Session                          { return e.sessions }
func (e *Engine) Daily() map[string]DayStat                    { return e.daily }
func (e *Engine) Hourly() [24]int                              { return e.hourly }
func (e *Engine) Weekly() [7]WeekdayStat                       { return e.weekly }
func (e *Engine) WeeklyArtists() map[WeekKey]map[string]struct{} { return e.weeklyArtists }
func (e *Engine) Insights() Insights                           { return e.insights }

// Series is the listening time series bucketed for the active period.
func (e *Engine) Series() []SeriesPoint {
	return Series(e.daily, e.period)
}

// Platforms is the descending per-platform breakdown of the active set.
func (e *Engine) Platforms() []LabelStat {
	return PlatformBreakdown(e.active)
}

// Countries is the descending per-country breakdown of the active set.
func (e *Engine) Countries() []LabelStat {
	return CountryBreakdown(e.active)
}

// FormatDuration renders a millisecond total under the engine's
// current display settings.
func (e *Engine) FormatDuration(ms int64) string {
	return FormatDuration(ms, e.timeUnit, e.precision)
}
