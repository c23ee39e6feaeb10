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
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ademuri/spotify-stats-tools/internal/analytics"
	"github.com/ademuri/spotify-stats-tools/internal/history"
)

// testEngine builds an engine over 25 plays of 25 distinct artists,
// one minute apart, with strictly decreasing durations so every
// ranking is deterministic.
func testEngine(t *testing.T) *analytics.Engine {
	t.Helper()
	base := time.Date(2024, 3, 10, 10, 0, 0, 0, time.Local)
	var events []history.Event
	for i := 0; i < 25; i++ {
		events = append(events, history.Event{
			TrackName:  fmt.Sprintf("Song %02d", i),
			ArtistName: fmt.Sprintf("Artist %02d", i),
			AlbumName:  "Album",
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			MsPlayed:   int64((25 - i) * 60000),
			Platform:   "android",
			Country:    "US",
		})
	}
	engine, err := analytics.NewEngine(events)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func TestPrintReport(t *testing.T) {
	var out bytes.Buffer
	if err := printReport(&out, testEngine(t)); err != nil {
		t.Fatalf("printReport: %v", err)
	}
	got := out.String()

	for _, want := range []string{
		"Listening Report",
		"Period: all, ranked by time",
		"## Overview",
		// 25+24+...+1 minutes in total.
		"325.0 min",
		"## Insights",
		"US (25 listens)",
		"android",
		"2024-03-10 (25 tracks)",
		"## Top artists",
		"## Top tracks",
		"Song 00 - Artist 00",
		"## Top albums",
		"Album - Artist 00",
		"## Platforms",
		"## Countries",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report output missing %q\n%s", want, got)
		}
	}
}

func TestPrintReportCapsLists(t *testing.T) {
	var out bytes.Buffer
	if err := printReport(&out, testEngine(t)); err != nil {
		t.Fatalf("printReport: %v", err)
	}
	got := out.String()

	if !strings.Contains(got, "Artist 09") {
		t.Error("report should include the 10th ranked artist")
	}
	if strings.Contains(got, "Artist 10") {
		t.Error("report should stop at 10 entries per list")
	}
}

func TestOrNA(t *testing.T) {
	if got := orNA(""); got != "N/A" {
		t.Errorf("orNA(\"\") = %q, want N/A", got)
	}
	if got := orNA("US"); got != "US" {
		t.Errorf("orNA(\"US\") = %q, want US", got)
	}
}
