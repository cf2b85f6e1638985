package track

import (
	"testing"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
)

func TestExtractYear(t *testing.T) {
	cases := []struct {
		period string
		want   int
	}{
		{"1980-2000", 1980},
		{"Pre-1900", 1900},
		{"2020-Present", 2020},
		{"6th-5th century BCE", 2000},
		{"19th century", 1850},
		{"Present day", 2022},
		{"", 2000},
	}

	for _, tc := range cases {
		if got := ExtractYear(tc.period); got != tc.want {
			t.Errorf("ExtractYear(%q) = %d, want %d", tc.period, got, tc.want)
		}
	}
}

func TestTimeline(t *testing.T) {
	rec := &model.TermRecord{
		Term:           "virus",
		Domain:         "technology",
		OriginPeriod:   "1890s",
		OriginLanguage: "Latin",
		Etymology:      "From Latin virus, poison.",
		Snapshots: []model.TermSnapshot{
			{Period: "1950-1980", YearStart: 1950, YearEnd: 1980, Definition: "biological agent", Status: "established", Frequency: "high"},
			{Period: "1980-2000", YearStart: 1980, YearEnd: 2000, Definition: "malicious program", Status: "evolving", Frequency: "high"},
		},
		SemanticShifts: []model.SemanticShift{
			{ShiftType: "metaphor", PeriodFrom: "1950-1980", PeriodTo: "1980-2000", MeaningBefore: "pathogen", MeaningAfter: "program"},
		},
	}

	data := Timeline(rec)

	if data.Term != "virus" || data.Domain != "technology" {
		t.Errorf("Unexpected term/domain: %s/%s", data.Term, data.Domain)
	}
	if len(data.Events) != 1 {
		t.Fatalf("Expected 1 origin event, got %d", len(data.Events))
	}
	origin := data.Events[0]
	if origin.Type != "origin" || origin.Year != 1890 {
		t.Errorf("Unexpected origin event: %+v", origin)
	}
	if origin.Label != "Origin: Latin" {
		t.Errorf("Unexpected origin label: %s", origin.Label)
	}
	if len(data.Periods) != 2 || data.Periods[1].YearEnd != 2000 {
		t.Errorf("Unexpected periods: %+v", data.Periods)
	}
	if len(data.Shifts) != 1 || data.Shifts[0].Type != "metaphor" {
		t.Errorf("Unexpected shifts: %+v", data.Shifts)
	}
}

func TestTimeline_EmptySections(t *testing.T) {
	data := Timeline(&model.TermRecord{Term: "x", OriginPeriod: "Unknown"})

	// Charting consumers expect arrays, not nulls
	if data.Periods == nil || data.Shifts == nil {
		t.Error("Expected empty slices, not nil")
	}
	if data.Events[0].Year != 2000 {
		t.Errorf("Expected default year 2000 for unknown origin, got %d", data.Events[0].Year)
	}
}
