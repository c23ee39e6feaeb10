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
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ademuri/spotify-stats-tools/internal/analytics"
	"github.com/ademuri/spotify-stats-tools/internal/export"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export [export]",
	Short: "Writes the computed analytics to a SQLite database",
	Long: `Computes the top lists and insights for the selected period and
persists the snapshot to a SQLite database file.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := loadEngine(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := exportSnapshot(engine, exportOutput); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("Wrote snapshot to %s\n", exportOutput)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "stats.db", "Path to the SQLite database to write")
}

func exportSnapshot(engine *analytics.Engine, output string) error {
	store, err := export.New(output)
	if err != nil {
		return fmt.Errorf("opening %q: %w", output, err)
	}
	defer store.Close()

	snap, err := buildSnapshot(engine)
	if err != nil {
		return err
	}
	if _, err := store.WriteSnapshot(snap); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

func buildSnapshot(engine *analytics.Engine) (export.Snapshot, error) {
	snap := export.Snapshot{
		GeneratedAt: time.Now(),
		Period:      engine.Period().String(),
		Mode:        engine.Mode().String(),
		Insights:    engine.Insights(),
	}
	for _, list := range []struct {
		name string
		dst  *[]analytics.TopEntry
	}{
		{"artists", &snap.Artists},
		{"tracks", &snap.Tracks},
		{"albums", &snap.Albums},
	} {
		top, err := engine.TopList(list.name)
		if err != nil {
			return export.Snapshot{}, err
		}
		*list.dst = top.Entries()
	}
	return snap, nil
}
