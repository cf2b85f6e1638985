package track

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
)

// extractJSON returns the JSON object embedded in model output: everything
// from the first '{' to the last '}'. Models often wrap the object in prose
// or markdown fences; both sit outside the braces.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("no JSON object in model output")
	}
	return text[start : end+1], nil
}

// decodeRecord validates raw model output into a TermRecord. The term and
// domain from the request fill any fields the model left out; a missing
// object, malformed JSON, mistyped fields, or a record with no snapshots
// fail with ErrUpstream.
func decodeRecord(raw, term, domain string) (*model.TermRecord, error) {
	blob, err := extractJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	var rec model.TermRecord
	if err := json.Unmarshal([]byte(blob), &rec); err != nil {
		return nil, fmt.Errorf("%w: parse record: %v", ErrUpstream, err)
	}

	if rec.Term == "" {
		rec.Term = term
	}
	if rec.Domain == "" {
		rec.Domain = domain
	}
	if rec.OriginPeriod == "" {
		rec.OriginPeriod = "Unknown"
	}
	if rec.OriginLanguage == "" {
		rec.OriginLanguage = "Unknown"
	}

	if len(rec.Snapshots) == 0 {
		return nil, fmt.Errorf("%w: record for %q has no snapshots", ErrUpstream, term)
	}

	rec.Raw = raw
	return &rec, nil
}

// decodeComparison validates raw model output into a ComparisonReport.
func decodeComparison(raw string, terms []string, domain string) (*model.ComparisonReport, error) {
	blob, err := extractJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	var rep model.ComparisonReport
	if err := json.Unmarshal([]byte(blob), &rep); err != nil {
		return nil, fmt.Errorf("%w: parse comparison: %v", ErrUpstream, err)
	}

	if len(rep.TermsCompared) == 0 {
		rep.TermsCompared = terms
	}
	if rep.Domain == "" {
		rep.Domain = domain
	}
	if rep.Summary == "" {
		return nil, fmt.Errorf("%w: comparison has no summary", ErrUpstream)
	}

	rep.Raw = raw
	return &rep, nil
}

// decodeNeologisms validates raw model output into a NeologismReport.
func decodeNeologisms(raw, domain, referencePeriod string) (*model.NeologismReport, error) {
	blob, err := extractJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	var rep model.NeologismReport
	if err := json.Unmarshal([]byte(blob), &rep); err != nil {
		return nil, fmt.Errorf("%w: parse neologism report: %v", ErrUpstream, err)
	}

	if rep.TotalNeologisms < 0 {
		return nil, fmt.Errorf("%w: negative neologism count", ErrUpstream)
	}
	if rep.TotalNeologisms < len(rep.Neologisms) {
		rep.TotalNeologisms = len(rep.Neologisms)
	}
	if rep.Domain == "" {
		rep.Domain = domain
	}
	if rep.ReferencePeriod == "" {
		rep.ReferencePeriod = referencePeriod
	}

	rep.Raw = raw
	return &rep, nil
}
