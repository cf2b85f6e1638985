package track

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`, true},
		{"markdown fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"surrounding prose", `Sure! Here you go: {"a": 1} Hope that helps.`, `{"a": 1}`, true},
		{"first to last brace", `{"a": {"b": 2}} trailing {"c": 3}`, `{"a": {"b": 2}} trailing {"c": 3}`, true},
		{"no object", "I cannot do that.", "", false},
		{"only close brace", "oops }", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractJSON(tc.in)
			if tc.ok && err != nil {
				t.Fatalf("Expected success, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("Expected error, got %q", got)
			}
			if tc.ok && got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDecodeRecord_Defaults(t *testing.T) {
	raw := `{"snapshots": [{"period": "2000-2010", "year_start": 2000, "year_end": 2010, "definition": "d"}]}`

	rec, err := decodeRecord(raw, "cloud", "technology")
	if err != nil {
		t.Fatalf("decodeRecord failed: %v", err)
	}

	if rec.Term != "cloud" {
		t.Errorf("Expected requested term to fill the blank, got %s", rec.Term)
	}
	if rec.Domain != "technology" {
		t.Errorf("Expected requested domain to fill the blank, got %s", rec.Domain)
	}
	if rec.OriginPeriod != "Unknown" || rec.OriginLanguage != "Unknown" {
		t.Errorf("Expected Unknown origin defaults, got %s / %s", rec.OriginPeriod, rec.OriginLanguage)
	}
	if rec.Raw != raw {
		t.Error("Expected raw text retained on the record")
	}
}

func TestDecodeRecord_Rejects(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"no object", "nope"},
		{"malformed", `{"term": "x", "snapshots": [}`},
		{"mistyped snapshots", `{"term": "x", "snapshots": 42}`},
		{"empty snapshots", `{"term": "x", "snapshots": []}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeRecord(tc.raw, "x", "general")
			if !errors.Is(err, ErrUpstream) {
				t.Fatalf("Expected ErrUpstream, got %v", err)
			}
		})
	}
}

func TestDecodeComparison(t *testing.T) {
	raw := `{"comparison_summary": "summary", "semantic_divergence": [
		{"terms": ["a", "b"], "originally": "same", "diverged_to": {"a": "x", "b": "y"}}
	]}`

	rep, err := decodeComparison(raw, []string{"a", "b"}, "general")
	if err != nil {
		t.Fatalf("decodeComparison failed: %v", err)
	}
	if len(rep.TermsCompared) != 2 {
		t.Errorf("Expected requested terms to fill the blank, got %v", rep.TermsCompared)
	}
	if rep.Divergences[0].DivergedTo["b"] != "y" {
		t.Errorf("Unexpected divergence map: %+v", rep.Divergences)
	}

	_, err = decodeComparison(`{"terms_compared": ["a"]}`, []string{"a", "b"}, "general")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("Expected ErrUpstream for missing summary, got %v", err)
	}
}

func TestDecodeNeologisms_Validation(t *testing.T) {
	_, err := decodeNeologisms(`{"total_neologisms": -1}`, "general", "2020")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("Expected ErrUpstream for negative total, got %v", err)
	}
	if !strings.Contains(err.Error(), "negative") {
		t.Errorf("Expected detail about the negative count, got %v", err)
	}

	rep, err := decodeNeologisms(`{"neologisms_found": [], "total_neologisms": 0}`, "general", "2020")
	if err != nil {
		t.Fatalf("decodeNeologisms failed: %v", err)
	}
	// Zero finds is a valid outcome, not a shape mismatch
	if rep.TotalNeologisms != 0 {
		t.Errorf("Expected 0 neologisms, got %d", rep.TotalNeologisms)
	}
}
