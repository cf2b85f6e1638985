package model

import "time"

// FormationType classifies how a neologism was coined
type FormationType string

const (
	FormationCompound      FormationType = "compound"
	FormationBlend         FormationType = "blend"
	FormationAcronym       FormationType = "acronym"
	FormationBorrowing     FormationType = "borrowing"
	FormationSemanticShift FormationType = "semantic_shift"
	FormationDerivation    FormationType = "derivation"
)

// Neologism is one newly coined term detected in a corpus
type Neologism struct {
	Term               string   `json:"term"`
	TranslationZH      string   `json:"translation_zh,omitempty"`
	FirstAppeared      string   `json:"first_appeared,omitempty"` // year or period
	FormationType      string   `json:"formation_type,omitempty"` // see FormationType constants
	FormationTypeZH    string   `json:"formation_type_zh,omitempty"`
	SourceElements     []string `json:"source_elements,omitempty"`
	Definition         string   `json:"definition"`
	DefinitionZH       string   `json:"definition_zh,omitempty"`
	Domain             string   `json:"domain,omitempty"`
	AdoptionLevel      string   `json:"adoption_level,omitempty"`      // niche/growing/mainstream
	PredictedLongevity string   `json:"predicted_longevity,omitempty"` // ephemeral/established/permanent
	ExampleUsage       string   `json:"example_usage,omitempty"`
	Notes              string   `json:"notes,omitempty"`
}

// TermTrend is an emerging terminology trend observed across the corpus
type TermTrend struct {
	Trend    string   `json:"trend"`
	TrendZH  string   `json:"trend_zh,omitempty"`
	Examples []string `json:"examples,omitempty"`
}

// NeologismReport is the result of scanning a corpus for new terms
type NeologismReport struct {
	Neologisms      []Neologism `json:"neologisms_found"`
	EmergingTrends  []TermTrend `json:"emerging_trends,omitempty"`
	TotalNeologisms int         `json:"total_neologisms"`
	Summary         string      `json:"analysis_summary,omitempty"`
	SummaryZH       string      `json:"analysis_summary_zh,omitempty"`

	Domain          string    `json:"domain,omitempty"`
	ReferencePeriod string    `json:"reference_period,omitempty"` // terms new since this period
	AnalyzedAt      time.Time `json:"analyzed_at,omitempty"`
	Provider        string    `json:"provider,omitempty"`
	Model           string    `json:"model,omitempty"`

	Raw string `json:"-"`
}
