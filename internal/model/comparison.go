package model

import "time"

// ComparisonReport compares the evolution of several terms within a domain
type ComparisonReport struct {
	TermsCompared []string `json:"terms_compared"`
	Domain        string   `json:"domain"`
	Summary       string   `json:"comparison_summary"`
	SummaryZH     string   `json:"comparison_summary_zh,omitempty"`

	EmergenceTimeline []EmergenceEntry   `json:"emergence_timeline,omitempty"`
	Patterns          []EvolutionPattern `json:"evolution_patterns,omitempty"`
	Replacements      []Replacement      `json:"replacement_relationships,omitempty"`
	Divergences       []Divergence       `json:"semantic_divergence,omitempty"`
	UsageRanking      []UsageRank        `json:"current_usage_ranking,omitempty"`
	Predictions       *TrendPredictions  `json:"predictions,omitempty"`

	AnalyzedAt time.Time `json:"analyzed_at,omitempty"`
	Provider   string    `json:"provider,omitempty"`
	Model      string    `json:"model,omitempty"`

	Raw string `json:"-"`
}

// EmergenceEntry places one term's first appearance on a shared timeline
type EmergenceEntry struct {
	Term       string `json:"term"`
	Emerged    string `json:"emerged"` // period label
	YearApprox int    `json:"year_approx,omitempty"`
}

// EvolutionPattern names a pattern shared by a subset of the compared terms
type EvolutionPattern struct {
	Name          string   `json:"pattern_name"`
	NameZH        string   `json:"pattern_name_zh,omitempty"`
	Description   string   `json:"description"`
	DescriptionZH string   `json:"description_zh,omitempty"`
	Terms         []string `json:"terms_showing_pattern,omitempty"`
}

// Replacement records one term supplanting another
type Replacement struct {
	OldTerm          string `json:"old_term"`
	NewTerm          string `json:"new_term"`
	TransitionPeriod string `json:"transition_period,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

// Divergence records terms that shared a meaning and then split
type Divergence struct {
	Terms            []string          `json:"terms"`
	Originally       string            `json:"originally"`
	DivergedTo       map[string]string `json:"diverged_to,omitempty"` // term -> current meaning
	DivergencePeriod string            `json:"divergence_period,omitempty"`
}

// UsageRank ranks a term's present-day usage
type UsageRank struct {
	Term      string `json:"term"`
	Frequency string `json:"frequency"`       // high/medium/low/rare
	Trend     string `json:"trend,omitempty"` // increasing/stable/decreasing
}

// TrendPredictions forecasts which of the compared terms will grow or fade
type TrendPredictions struct {
	LikelyToGrow    []string `json:"likely_to_grow,omitempty"`
	LikelyToDecline []string `json:"likely_to_decline,omitempty"`
	Reasoning       string   `json:"reasoning,omitempty"`
	ReasoningZH     string   `json:"reasoning_zh,omitempty"`
}
