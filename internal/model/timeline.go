package model

// TimelineData is the structured feed consumed by external charting tools.
// It flattens a TermRecord into events, period bands, and shift markers.
type TimelineData struct {
	Term    string           `json:"term"`
	Domain  string           `json:"domain"`
	Events  []TimelineEvent  `json:"events"`
	Periods []TimelinePeriod `json:"periods"`
	Shifts  []TimelineShift  `json:"shifts"`
}

// TimelineEvent is a point event, e.g. the term's origin
type TimelineEvent struct {
	Type        string `json:"type"` // "origin"
	Year        int    `json:"year"`
	Period      string `json:"period"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// TimelinePeriod is a horizontal band covering one snapshot's year range
type TimelinePeriod struct {
	Period     string `json:"period"`
	YearStart  int    `json:"year_start"`
	YearEnd    int    `json:"year_end"`
	Definition string `json:"definition,omitempty"`
	Status     string `json:"status,omitempty"`
	Frequency  string `json:"frequency,omitempty"`
}

// TimelineShift marks a semantic shift between two periods
type TimelineShift struct {
	Type          string `json:"type"`
	PeriodFrom    string `json:"period_from"`
	PeriodTo      string `json:"period_to"`
	MeaningBefore string `json:"meaning_before,omitempty"`
	MeaningAfter  string `json:"meaning_after,omitempty"`
	Explanation   string `json:"explanation,omitempty"`
}
