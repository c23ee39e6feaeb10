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

	"github.com/spf13/cobra"

	"github.com/ademuri/spotify-stats-tools/internal/analytics"
)

var (
	topListName string
	topSearch   string
	topPages    int
)

var topCmd = &cobra.Command{
	Use:   "top [export]",
	Short: "Prints one ranked top list",
	Long: `Prints a ranked top list of artists, tracks, or albums, optionally
filtered by a case-insensitive search, in pages of 20 entries.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := loadEngine(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := printTop(os.Stdout, engine, topListName, topSearch, topPages); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topCmd)
	topCmd.Flags().StringVar(&topListName, "list", "artists", "Which list to show: artists, tracks, or albums")
	topCmd.Flags().StringVar(&topSearch, "search", "", "Filter entries by a case-insensitive substring")
	topCmd.Flags().IntVar(&topPages, "pages", 1, "Number of 20-entry pages to show")
}

func printTop(out io.Writer, engine *analytics.Engine, list, search string, pages int) error {
	if search != "" {
		if err := engine.SearchTopList(list, search); err != nil {
			return err
		}
	}
	for i := 1; i < pages; i++ {
		if err := engine.ShowMore(list); err != nil {
			return err
		}
	}

	top, err := engine.TopList(list)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Top %s", list)
	if search != "" {
		title = fmt.Sprintf("%s matching %q", title, search)
	}
	if err := renderEntries(out, title, top.Page(), engine); err != nil {
		return err
	}

	if remaining := top.Remaining(); remaining > 0 {
		fmt.Fprintf(out, "%d more entries; re-run with --pages %d\n", remaining, pages+1)
	} else {
		fmt.Fprintln(out, "All entries shown")
	}
	return nil
}
