package track

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// ExtractYear returns an approximate year for a period label. Labels with a
// four-digit year use the first one found ("1980-2000" -> 1980); a few
// common phrasings get fixed anchors; everything else lands on 2000.
func ExtractYear(period string) int {
	if m := yearPattern.FindString(period); m != "" {
		year, _ := strconv.Atoi(m)
		return year
	}

	lower := strings.ToLower(period)
	switch {
	case strings.Contains(lower, "19th century"):
		return 1850
	case strings.Contains(lower, "present"):
		return 2022
	}

	return 2000
}

// Timeline flattens a record into the data feed consumed by external
// charting tools: one origin event, a band per snapshot, a marker per shift.
func Timeline(rec *model.TermRecord) *model.TimelineData {
	data := &model.TimelineData{
		Term:    rec.Term,
		Domain:  rec.Domain,
		Events:  []model.TimelineEvent{},
		Periods: []model.TimelinePeriod{},
		Shifts:  []model.TimelineShift{},
	}

	data.Events = append(data.Events, model.TimelineEvent{
		Type:        "origin",
		Year:        ExtractYear(rec.OriginPeriod),
		Period:      rec.OriginPeriod,
		Label:       fmt.Sprintf("Origin: %s", rec.OriginLanguage),
		Description: rec.Etymology,
	})

	for _, snap := range rec.Snapshots {
		data.Periods = append(data.Periods, model.TimelinePeriod{
			Period:     snap.Period,
			YearStart:  snap.YearStart,
			YearEnd:    snap.YearEnd,
			Definition: snap.Definition,
			Status:     snap.Status,
			Frequency:  snap.Frequency,
		})
	}

	for _, shift := range rec.SemanticShifts {
		data.Shifts = append(data.Shifts, model.TimelineShift{
			Type:          shift.ShiftType,
			PeriodFrom:    shift.PeriodFrom,
			PeriodTo:      shift.PeriodTo,
			MeaningBefore: shift.MeaningBefore,
			MeaningAfter:  shift.MeaningAfter,
			Explanation:   shift.Explanation,
		})
	}

	return data
}
