package track

import (
	_ "embed"
	"encoding/json"
	"sort"
	"strings"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
)

// The demo catalog lets the CLI and server show real-shaped evolution
// records without an API key. Lookups sit above the Tracker: a Tracker with
// no credential still fails with ErrMissingCredential.

//go:embed demo_records.json
var demoRecordsJSON []byte

var demoRecords map[string]*model.TermRecord

func init() {
	if err := json.Unmarshal(demoRecordsJSON, &demoRecords); err != nil {
		panic("track: bad demo_records.json: " + err.Error())
	}
	for _, rec := range demoRecords {
		rec.Provider = "demo"
	}
}

// DemoRecord returns the built-in record for a term, if one exists.
// Lookups are case-insensitive.
func DemoRecord(term string) (*model.TermRecord, bool) {
	rec, ok := demoRecords[strings.ToLower(strings.TrimSpace(term))]
	return rec, ok
}

// DemoTerms lists the catalog's terms, sorted
func DemoTerms() []string {
	terms := make([]string, 0, len(demoRecords))
	for term := range demoRecords {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}
