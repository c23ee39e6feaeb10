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
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ademuri/spotify-stats-tools/internal/analytics"
)

const sessionsTopN = 10

var sessionsCmd = &cobra.Command{
	Use:   "sessions [export]",
	Short: "Prints listening session statistics",
	Long: `Segments the selected period into listening sessions (plays separated
by no more than 30 minutes) and summarizes them.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := loadEngine(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := printSessions(os.Stdout, engine); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func printSessions(out io.Writer, engine *analytics.Engine) error {
	sessions := engine.Sessions()
	in := engine.Insights()

	var totalMs int64
	for _, session := range sessions {
		totalMs += session.TotalDurationMs
	}
	var averageMs int64
	if len(sessions) > 0 {
		averageMs = totalMs / int64(len(sessions))
	}

	summary := [][]string{
		{"Sessions", strconv.Itoa(len(sessions))},
		{"Longest session", engine.FormatDuration(in.LongestSessionMs)},
		{"Average session", engine.FormatDuration(averageMs)},
		{"Most active day", fmt.Sprintf("%s (%d tracks, %s)",
			orNA(in.MostActiveDay), in.MostActiveDayStat.TrackCount,
			engine.FormatDuration(in.MostActiveDayStat.TotalTimeMs))},
	}
	if err := renderPairs(out, "Sessions", summary); err != nil {
		return err
	}

	longest := make([]analytics.Session, len(sessions))
	copy(longest, sessions)
	sort.SliceStable(longest, func(i, j int) bool {
		return longest[i].TotalDurationMs > longest[j].TotalDurationMs
	})
	if len(longest) > sessionsTopN {
		longest = longest[:sessionsTopN]
	}

	fmt.Fprintln(out, "## Longest sessions")
	table := tablewriter.NewWriter(out)
	table.Header([]string{"Start", "Duration", "Tracks"})
	for _, session := range longest {
		row := []string{
			session.Start.Format("2006-01-02 15:04"),
			engine.FormatDuration(session.TotalDurationMs),
			strconv.Itoa(session.TrackCount),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("rendering sessions: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering sessions: %w", err)
	}
	return nil
}
