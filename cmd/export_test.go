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
	"path/filepath"
	"testing"

	"github.com/ademuri/spotify-stats-tools/internal/export"
)

func TestBuildSnapshot(t *testing.T) {
	snap, err := buildSnapshot(testEngine(t))
	if err != nil {
		t.Fatalf("buildSnapshot: %v", err)
	}

	if snap.Period != "all" {
		t.Errorf("snap.Period = %q, want all", snap.Period)
	}
	if snap.Mode != "time" {
		t.Errorf("snap.Mode = %q, want time", snap.Mode)
	}
	if len(snap.Artists) != 25 {
		t.Errorf("got %d artist entries, want 25", len(snap.Artists))
	}
	if snap.Artists[0].Name != "Artist 00" {
		t.Errorf("snap.Artists[0].Name = %q, want Artist 00", snap.Artists[0].Name)
	}
	if snap.Insights.TotalPlays != 25 {
		t.Errorf("snap.Insights.TotalPlays = %d, want 25", snap.Insights.TotalPlays)
	}
}

func TestExportSnapshot(t *testing.T) {
	output := filepath.Join(t.TempDir(), "stats.db")
	if err := exportSnapshot(testEngine(t), output); err != nil {
		t.Fatalf("exportSnapshot: %v", err)
	}

	store, err := export.New(output)
	if err != nil {
		t.Fatalf("reopening %q: %v", output, err)
	}
	defer store.Close()

	artists, err := store.ReadTopEntries(1, "artists")
	if err != nil {
		t.Fatalf("ReadTopEntries: %v", err)
	}
	if len(artists) != 25 {
		t.Fatalf("got %d artist entries, want 25", len(artists))
	}
	if artists[0].Name != "Artist 00" || artists[0].PlayCount != 1 {
		t.Errorf("artists[0] = %+v", artists[0])
	}

	plays, err := store.ReadInsight(1, "total_plays")
	if err != nil {
		t.Fatalf("ReadInsight: %v", err)
	}
	if plays != "25" {
		t.Errorf("total_plays = %q, want 25", plays)
	}
}
