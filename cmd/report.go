/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ademuri/spotify-stats-tools/internal/analytics"
)

const reportTopN = 10

const breakdownTopN = 5

var reportCmd = &cobra.Command{
	Use:   "report [export]",
	Short: "Prints a full listening report",
	Long: `Summarizes the selected period: overall totals, insight scores,
top artists, tracks, and albums, and platform/country breakdowns.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := loadEngine(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := printReport(os.Stdout, engine); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func printReport(out io.Writer, engine *analytics.Engine) error {
	in := engine.Insights()

	fmt.Fprintf(out, "Listening Report\n")
	fmt.Fprintf(out, "Period: %s, ranked by %s\n\n", engine.Period(), engine.Mode())

	overview := [][]string{
		{"Total time", engine.FormatDuration(in.TotalTimeMs)},
		{"Tracks played", strconv.Itoa(in.TotalPlays)},
		{"Unique artists", strconv.Itoa(in.UniqueArtists)},
		{"Unique tracks", strconv.Itoa(in.UniqueTracks)},
		{"Average daily time", engine.FormatDuration(in.AvgDailyMs)},
		{"Average daily tracks", strconv.Itoa(in.AvgDailyPlays)},
	}
	if err := renderPairs(out, "Overview", overview); err != nil {
		return err
	}

	insights := [][]string{
		{"Top country", fmt.Sprintf("%s (%d listens)", orNA(in.TopCountry), in.CountryListens)},
		{"Top platform", fmt.Sprintf("%s (%s)", orNA(in.TopPlatform), engine.FormatDuration(in.PlatformTimeMs))},
		{"Completion rate", fmt.Sprintf("%d%%", in.CompletionRate)},
		{"Shuffle rate", fmt.Sprintf("%d%%", in.ShuffleRate)},
		{"Offline rate", fmt.Sprintf("%d%%", in.OfflineRate)},
		{"Skip rate", fmt.Sprintf("%d%%", in.SkipRate)},
		{"Discovery score", strconv.Itoa(in.DiscoveryScore)},
		{"Variety score", strconv.Itoa(in.VarietyScore)},
		{"Night owl score", fmt.Sprintf("%d%%", in.NightOwlScore)},
		{"Early bird score", fmt.Sprintf("%d%%", in.EarlyBirdScore)},
		{"Longest session", engine.FormatDuration(in.LongestSessionMs)},
		{"Most active day", fmt.Sprintf("%s (%d tracks)", orNA(in.MostActiveDay), in.MostActiveDayStat.TrackCount)},
	}
	if err := renderPairs(out, "Insights", insights); err != nil {
		return err
	}

	for _, list := range []string{"artists", "tracks", "albums"} {
		top, err := engine.TopList(list)
		if err != nil {
			return err
		}
		entries := top.Entries()
		if len(entries) > reportTopN {
			entries = entries[:reportTopN]
		}
		if err := renderEntries(out, fmt.Sprintf("Top %s", list), entries, engine); err != nil {
			return err
		}
	}

	if err := renderBreakdown(out, "Platforms", engine.Platforms(), engine); err != nil {
		return err
	}
	return renderBreakdown(out, "Countries", engine.Countries(), engine)
}

func renderPairs(out io.Writer, title string, rows [][]string) error {
	fmt.Fprintf(out, "## %s\n", title)
	table := tablewriter.NewWriter(out)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("rendering %s: %w", title, err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering %s: %w", title, err)
	}
	fmt.Fprintln(out)
	return nil
}

func renderEntries(out io.Writer, title string, entries []analytics.TopEntry, engine *analytics.Engine) error {
	fmt.Fprintf(out, "## %s\n", title)
	table := tablewriter.NewWriter(out)
	table.Header([]string{"#", "Name", "Time", "Plays"})
	for i, entry := range entries {
		row := []string{
			strconv.Itoa(i + 1),
			entry.Name,
			engine.FormatDuration(entry.TotalTimeMs),
			strconv.Itoa(entry.PlayCount),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("rendering %s: %w", title, err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering %s: %w", title, err)
	}
	fmt.Fprintln(out)
	return nil
}

func renderBreakdown(out io.Writer, title string, stats []analytics.LabelStat, engine *analytics.Engine) error {
	if len(stats) > breakdownTopN {
		stats = stats[:breakdownTopN]
	}
	fmt.Fprintf(out, "## %s\n", title)
	table := tablewriter.NewWriter(out)
	table.Header([]string{"Name", "Time", "Plays"})
	for _, stat := range stats {
		row := []string{
			stat.Label,
			engine.FormatDuration(stat.TotalTimeMs),
			strconv.Itoa(stat.PlayCount),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("rendering %s: %w", title, err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering %s: %w", title, err)
	}
	fmt.Fprintln(out)
	return nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
