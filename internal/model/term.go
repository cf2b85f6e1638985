package model

import "time"

// TermStatus describes where a term sits in its lifecycle during a period
type TermStatus string

const (
	StatusEmerging    TermStatus = "emerging"
	StatusEstablished TermStatus = "established"
	StatusEvolving    TermStatus = "evolving"
	StatusDeprecated  TermStatus = "deprecated"
	StatusArchaic     TermStatus = "archaic"
	StatusRevived     TermStatus = "revived"
)

// ShiftType classifies a semantic shift between two periods
type ShiftType string

const (
	ShiftNarrowing      ShiftType = "narrowing"
	ShiftBroadening     ShiftType = "broadening"
	ShiftAmelioration   ShiftType = "amelioration"
	ShiftPejoration     ShiftType = "pejoration"
	ShiftMetaphor       ShiftType = "metaphor"
	ShiftMetonymy       ShiftType = "metonymy"
	ShiftSpecialization ShiftType = "specialization"
	ShiftGeneralization ShiftType = "generalization"
)

// Frequency is the coarse usage frequency of a term within a period
type Frequency string

const (
	FrequencyHigh   Frequency = "high"
	FrequencyMedium Frequency = "medium"
	FrequencyLow    Frequency = "low"
	FrequencyRare   Frequency = "rare"
)

// Observation is a (term, period label, text sample) triple supplied by the
// caller as contextual input for an analysis request
type Observation struct {
	Term   string `json:"term"`
	Period string `json:"period"`         // e.g. "1950s", "2000-2010"
	Text   string `json:"text,omitempty"` // optional source text from that period
}

// TermSnapshot captures a term's form and meaning in one time period
type TermSnapshot struct {
	Term            string `json:"term"`             // form used in this period (spelling may differ)
	Period          string `json:"period"`           // period label, e.g. "1900-1950"
	YearStart       int    `json:"year_start"`
	YearEnd         int    `json:"year_end"`
	Definition      string `json:"definition"`
	DefinitionZH    string `json:"definition_zh,omitempty"` // Traditional Chinese
	UsageContext    string `json:"usage_context,omitempty"`
	Frequency       string `json:"frequency,omitempty"` // high/medium/low/rare
	Domain          string `json:"domain,omitempty"`
	Status          string `json:"status,omitempty"` // emerging/established/evolving/deprecated/archaic/revived
	ExampleSentence string `json:"example_sentence,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// SemanticShift records one change in a term's meaning between two periods
type SemanticShift struct {
	Term          string `json:"term"`
	ShiftType     string `json:"shift_type"` // see ShiftType constants
	PeriodFrom    string `json:"period_from"`
	PeriodTo      string `json:"period_to"`
	MeaningBefore string `json:"meaning_before"`
	MeaningAfter  string `json:"meaning_after"`
	Explanation   string `json:"explanation"`
	ExplanationZH string `json:"explanation_zh,omitempty"`
	Evidence      string `json:"evidence,omitempty"`
}

// TermRecord is the complete evolution record for one term.
// The JSON field names match the schema the model is prompted to emit, so a
// validated upstream payload unmarshals directly into this type.
type TermRecord struct {
	Term           string          `json:"term"`
	Domain         string          `json:"domain"`
	OriginPeriod   string          `json:"origin_period"`
	OriginLanguage string          `json:"origin_language"`
	Etymology      string          `json:"etymology"`
	EtymologyZH    string          `json:"etymology_zh,omitempty"`
	Snapshots      []TermSnapshot  `json:"snapshots"`
	SemanticShifts []SemanticShift `json:"semantic_shifts,omitempty"`
	RelatedTerms   []string        `json:"related_terms,omitempty"`
	CurrentStatus  string          `json:"current_status,omitempty"`
	Prediction     string          `json:"future_prediction,omitempty"`
	PredictionZH   string          `json:"future_prediction_zh,omitempty"`

	// Attribution added by the orchestrator, not requested from the model
	ID         string    `json:"id,omitempty"`       // record UUID assigned on save
	AnalyzedAt time.Time `json:"analyzed_at,omitempty"`
	Provider   string    `json:"provider,omitempty"` // mistral, openai, ollama
	Model      string    `json:"model,omitempty"`
	TokensUsed int       `json:"tokens_used,omitempty"`

	// Raw is the unmodified model output the record was parsed from.
	// Kept out of rendered reports; the history store archives it.
	Raw string `json:"-"`
}

// Span returns the inclusive year range covered by the record's snapshots,
// or (0, 0) when there are none.
func (r *TermRecord) Span() (int, int) {
	if len(r.Snapshots) == 0 {
		return 0, 0
	}
	lo, hi := r.Snapshots[0].YearStart, r.Snapshots[0].YearEnd
	for _, s := range r.Snapshots[1:] {
		if s.YearStart < lo {
			lo = s.YearStart
		}
		if s.YearEnd > hi {
			hi = s.YearEnd
		}
	}
	return lo, hi
}
