package render

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
)

func sampleRecord() *model.TermRecord {
	return &model.TermRecord{
		Term:           "virus",
		Domain:         "medicine",
		OriginPeriod:   "Pre-1900",
		OriginLanguage: "Latin",
		Etymology:      "From Latin virus meaning poison.",
		EtymologyZH:    "源自拉丁語，意為毒液。",
		Snapshots: []model.TermSnapshot{
			{
				Term:         "virus",
				Period:       "Pre-1900",
				YearStart:    1800,
				YearEnd:      1900,
				Definition:   "A poisonous substance.",
				DefinitionZH: "有毒物質。",
				Status:       "established",
				Frequency:    "low",
			},
			{
				Term:         "virus",
				Period:       "1980-2000",
				YearStart:    1980,
				YearEnd:      2000,
				Definition:   "A malicious self-replicating program.",
				DefinitionZH: "惡意自我複製程式。",
				Status:       "evolving",
				Frequency:    "high",
			},
		},
		SemanticShifts: []model.SemanticShift{
			{
				Term:          "virus",
				ShiftType:     "metaphor",
				PeriodFrom:    "1950-1980",
				PeriodTo:      "1980-2000",
				MeaningBefore: "Infectious biological agent.",
				MeaningAfter:  "Self-replicating program.",
				Explanation:   "Computing borrowed the biological metaphor.",
				ExplanationZH: "計算機領域借用了生物學隱喻。",
			},
		},
		RelatedTerms:  []string{"bacteria", "malware"},
		CurrentStatus: "Dual meaning in biology and computing.",
		Prediction:    "Will keep both senses.",
		PredictionZH:  "將保留兩種含義。",
		Provider:      "mistral",
		Model:         "mistral-medium-latest",
		AnalyzedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestWriteRecord_Content(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(false)

	if err := r.WriteRecord(&buf, sampleRecord()); err != nil {
		t.Fatalf("WriteRecord failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"TERMINOLOGY EVOLUTION REPORT",
		"術語演變報告",
		"Term 術語: virus",
		"Domain 領域: medicine",
		"Origin 起源: Pre-1900 (Latin)",
		"From Latin virus meaning poison.",
		"源自拉丁語，意為毒液。",
		"【1】 Pre-1900",
		"【2】 1980-2000",
		"Status: evolving | Frequency: high",
		"METAPHOR",
		"1950-1980 → 1980-2000",
		"計算機領域借用了生物學隱喻。",
		"Prediction: Will keep both senses.",
		"預測: 將保留兩種含義。",
		"Related: bacteria, malware",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected report to contain %q", want)
		}
	}
}

func TestWriteRecord_ShiftExplanationFallsBackToEnglish(t *testing.T) {
	rec := sampleRecord()
	rec.SemanticShifts[0].ExplanationZH = ""

	var buf bytes.Buffer
	if err := NewRenderer(false).WriteRecord(&buf, rec); err != nil {
		t.Fatalf("WriteRecord failed: %v", err)
	}

	if !strings.Contains(buf.String(), "說明: Computing borrowed the biological metaphor.") {
		t.Error("Expected English explanation when Chinese is missing")
	}
}

func TestWriteRecord_MissingFieldsShowNA(t *testing.T) {
	rec := &model.TermRecord{
		Term:      "widget",
		Snapshots: []model.TermSnapshot{{Period: "2000-2010"}},
	}

	var buf bytes.Buffer
	if err := NewRenderer(false).WriteRecord(&buf, rec); err != nil {
		t.Fatalf("WriteRecord failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Domain 領域: N/A") {
		t.Error("Expected missing domain to render as N/A")
	}
	if !strings.Contains(out, "EN: N/A") {
		t.Error("Expected missing definition to render as N/A")
	}
}

func TestWriteRecord_Nil(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(true).WriteRecord(&buf, nil); err != nil {
		t.Fatalf("WriteRecord failed: %v", err)
	}
	if buf.String() != "No data available\n" {
		t.Errorf("Unexpected nil-record output: %q", buf.String())
	}
}

func TestFooter_Toggle(t *testing.T) {
	rec := sampleRecord()

	var with bytes.Buffer
	if err := NewRenderer(true).WriteRecord(&with, rec); err != nil {
		t.Fatalf("WriteRecord failed: %v", err)
	}
	if !strings.Contains(with.String(), "Generated by termtrack (mistral/mistral-medium-latest)") {
		t.Error("Expected footer with provider and model")
	}
	if !strings.Contains(with.String(), "2025-06-01T12:00:00Z") {
		t.Error("Expected footer timestamp")
	}

	var without bytes.Buffer
	if err := NewRenderer(false).WriteRecord(&without, rec); err != nil {
		t.Fatalf("WriteRecord failed: %v", err)
	}
	if strings.Contains(without.String(), "Generated by termtrack") {
		t.Error("Expected no footer when disabled")
	}
}

func TestWriteJSON_KeepsChineseAndHTML(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(false)

	v := map[string]string{"summary": "術語 <b>evolution</b>"}
	if err := r.WriteJSON(&buf, v); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "術語") {
		t.Error("Expected Chinese characters unescaped in JSON output")
	}
	if !strings.Contains(out, "<b>") {
		t.Errorf("Expected HTML left unescaped, got %s", out)
	}
	if strings.Contains(out, `<`) {
		t.Error("Expected no \\u003c escaping")
	}
}

func TestRenderJSON_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	r := NewRenderer(false)

	if err := r.RenderJSON(sampleRecord(), path); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}

	var got model.TermRecord
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if got.Term != "virus" {
		t.Errorf("Expected term 'virus', got '%s'", got.Term)
	}
	if len(got.Snapshots) != 2 {
		t.Errorf("Expected 2 snapshots, got %d", len(got.Snapshots))
	}
}

func TestWriteComparison_Content(t *testing.T) {
	rep := &model.ComparisonReport{
		TermsCompared: []string{"telephone", "smartphone"},
		Domain:        "technology",
		Summary:       "Smartphone largely displaced telephone.",
		SummaryZH:     "智慧型手機大幅取代電話。",
		EmergenceTimeline: []model.EmergenceEntry{
			{Term: "telephone", Emerged: "1870s", YearApprox: 1876},
			{Term: "smartphone", Emerged: "1990s", YearApprox: 1994},
		},
		Replacements: []model.Replacement{
			{OldTerm: "telephone", NewTerm: "smartphone", TransitionPeriod: "2007-2015", Reason: "Touchscreen devices became the default."},
		},
		Divergences: []model.Divergence{
			{
				Terms:      []string{"telephone", "smartphone"},
				Originally: "Voice communication device.",
				DivergedTo: map[string]string{
					"smartphone": "Pocket computer.",
					"telephone":  "Landline voice device.",
				},
				DivergencePeriod: "2000s",
			},
		},
		UsageRanking: []model.UsageRank{
			{Term: "smartphone", Frequency: "high", Trend: "stable"},
			{Term: "telephone", Frequency: "medium", Trend: "decreasing"},
		},
		Predictions: &model.TrendPredictions{
			LikelyToGrow:    []string{"smartphone"},
			LikelyToDecline: []string{"telephone"},
			Reasoning:       "Mobile-first habits.",
			ReasoningZH:     "行動優先的習慣。",
		},
	}

	var buf bytes.Buffer
	if err := NewRenderer(false).WriteComparison(&buf, rep); err != nil {
		t.Fatalf("WriteComparison failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"TERM COMPARISON REPORT",
		"Terms 術語: telephone, smartphone",
		"telephone: 1870s (~1876)",
		"telephone → smartphone (2007-2015)",
		"Now (smartphone): Pocket computer.",
		"Now (telephone): Landline voice device.",
		"1. smartphone (frequency: high, trend: stable)",
		"Likely to grow: smartphone",
		"行動優先的習慣。",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected comparison report to contain %q", want)
		}
	}

	// Map-backed divergence lines render in sorted key order
	smartphoneIdx := strings.Index(out, "Now (smartphone)")
	telephoneIdx := strings.Index(out, "Now (telephone)")
	if smartphoneIdx == -1 || telephoneIdx == -1 || smartphoneIdx > telephoneIdx {
		t.Error("Expected divergence entries in sorted term order")
	}
}

func TestWriteNeologisms_Content(t *testing.T) {
	rep := &model.NeologismReport{
		Neologisms: []model.Neologism{
			{
				Term:               "doomscrolling",
				TranslationZH:      "末日滾動",
				FirstAppeared:      "2020",
				FormationType:      "compound",
				SourceElements:     []string{"doom", "scrolling"},
				Definition:         "Compulsively reading bad news online.",
				DefinitionZH:       "強迫性地瀏覽網上負面新聞。",
				AdoptionLevel:      "mainstream",
				PredictedLongevity: "established",
				ExampleUsage:       "I spent the night doomscrolling.",
			},
		},
		EmergingTrends: []model.TermTrend{
			{Trend: "Pandemic-era compounds", TrendZH: "疫情時代複合詞", Examples: []string{"doomscrolling", "quarantini"}},
		},
		TotalNeologisms: 1,
		Summary:         "One strong neologism found.",
		SummaryZH:       "發現一個明顯新詞。",
		Domain:          "general",
		ReferencePeriod: "2020",
	}

	var buf bytes.Buffer
	if err := NewRenderer(false).WriteNeologisms(&buf, rep); err != nil {
		t.Fatalf("WriteNeologisms failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"NEOLOGISM DETECTION REPORT",
		"New since 基準: 2020",
		"Total found 總數: 1",
		"【1】 doomscrolling (末日滾動)",
		"First appeared: 2020 | Formation: compound",
		"From: doom + scrolling",
		"Adoption: mainstream | Longevity: established",
		"Example: I spent the night doomscrolling.",
		"EMERGING TRENDS",
		"Examples: doomscrolling, quarantini",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected neologism report to contain %q", want)
		}
	}
}

func TestRenderRecord_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")

	if err := NewRenderer(true).RenderRecord(sampleRecord(), path); err != nil {
		t.Fatalf("RenderRecord failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if !strings.Contains(string(data), "Term 術語: virus") {
		t.Error("Expected rendered file to contain the report")
	}
}
