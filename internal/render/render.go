package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
)

const (
	doubleRule = "============================================================"
	rule       = "------------------------------------------------------------"
)

// Renderer renders analysis reports as JSON or bilingual text reports.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new Renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// WriteJSON writes v as indented JSON. HTML escaping is off so Chinese
// text round-trips readably instead of as \uXXXX sequences.
func (r *Renderer) WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RenderJSON writes v as indented JSON to path
func (r *Renderer) RenderJSON(v any, path string) error {
	return r.renderToFile(path, func(w io.Writer) error {
		return r.WriteJSON(w, v)
	})
}

// WriteRecord writes a term evolution report in the bilingual text format
func (r *Renderer) WriteRecord(w io.Writer, rec *model.TermRecord) error {
	if rec == nil {
		_, err := io.WriteString(w, "No data available\n")
		return err
	}

	var b strings.Builder

	b.WriteString(doubleRule + "\n")
	b.WriteString("📚 TERMINOLOGY EVOLUTION REPORT 術語演變報告\n")
	b.WriteString(doubleRule + "\n\n")

	fmt.Fprintf(&b, "📌 Term 術語: %s\n", orNA(rec.Term))
	fmt.Fprintf(&b, "🏷️  Domain 領域: %s\n", orNA(rec.Domain))
	fmt.Fprintf(&b, "🌍 Origin 起源: %s (%s)\n", orNA(rec.OriginPeriod), orNA(rec.OriginLanguage))
	b.WriteString("\n📖 Etymology 詞源:\n")
	fmt.Fprintf(&b, "   EN: %s\n", orNA(rec.Etymology))
	fmt.Fprintf(&b, "   中: %s\n", orNA(rec.EtymologyZH))

	b.WriteString("\n" + rule + "\n")
	b.WriteString("📅 HISTORICAL SNAPSHOTS 歷史快照\n")
	b.WriteString(rule + "\n")

	for i, snap := range rec.Snapshots {
		fmt.Fprintf(&b, "\n【%d】 %s\n", i+1, orNA(snap.Period))
		fmt.Fprintf(&b, "    Status: %s | Frequency: %s\n", orNA(snap.Status), orNA(snap.Frequency))
		fmt.Fprintf(&b, "    EN: %s\n", orNA(snap.Definition))
		fmt.Fprintf(&b, "    中: %s\n", orNA(snap.DefinitionZH))
	}

	b.WriteString("\n" + rule + "\n")
	b.WriteString("🔄 SEMANTIC SHIFTS 語義轉變\n")
	b.WriteString(rule + "\n")

	for i, shift := range rec.SemanticShifts {
		fmt.Fprintf(&b, "\n【%d】 %s\n", i+1, strings.ToUpper(orNA(shift.ShiftType)))
		fmt.Fprintf(&b, "    %s → %s\n", shift.PeriodFrom, shift.PeriodTo)
		fmt.Fprintf(&b, "    Before: %s\n", orNA(shift.MeaningBefore))
		fmt.Fprintf(&b, "    After: %s\n", orNA(shift.MeaningAfter))
		explanation := shift.ExplanationZH
		if explanation == "" {
			explanation = shift.Explanation
		}
		fmt.Fprintf(&b, "    說明: %s\n", orNA(explanation))
	}

	b.WriteString("\n" + rule + "\n")
	b.WriteString("🔮 CURRENT STATUS & PREDICTIONS\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "\nCurrent: %s\n", orNA(rec.CurrentStatus))
	fmt.Fprintf(&b, "\nPrediction: %s\n", orNA(rec.Prediction))
	fmt.Fprintf(&b, "預測: %s\n", orNA(rec.PredictionZH))

	if len(rec.RelatedTerms) > 0 {
		fmt.Fprintf(&b, "\n🔗 Related: %s\n", strings.Join(rec.RelatedTerms, ", "))
	}

	r.footer(&b, rec.Provider, rec.Model, rec.AnalyzedAt)

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderRecord writes a term evolution report to path
func (r *Renderer) RenderRecord(rec *model.TermRecord, path string) error {
	return r.renderToFile(path, func(w io.Writer) error {
		return r.WriteRecord(w, rec)
	})
}

// WriteComparison writes a multi-term comparison report
func (r *Renderer) WriteComparison(w io.Writer, rep *model.ComparisonReport) error {
	if rep == nil {
		_, err := io.WriteString(w, "No data available\n")
		return err
	}

	var b strings.Builder

	b.WriteString(doubleRule + "\n")
	b.WriteString("🔀 TERM COMPARISON REPORT 術語比較報告\n")
	b.WriteString(doubleRule + "\n\n")

	fmt.Fprintf(&b, "📌 Terms 術語: %s\n", strings.Join(rep.TermsCompared, ", "))
	fmt.Fprintf(&b, "🏷️  Domain 領域: %s\n", orNA(rep.Domain))
	b.WriteString("\n📝 Summary 摘要:\n")
	fmt.Fprintf(&b, "   EN: %s\n", orNA(rep.Summary))
	fmt.Fprintf(&b, "   中: %s\n", orNA(rep.SummaryZH))

	if len(rep.EmergenceTimeline) > 0 {
		b.WriteString("\n" + rule + "\n")
		b.WriteString("📅 EMERGENCE TIMELINE 出現時間線\n")
		b.WriteString(rule + "\n\n")
		for _, e := range rep.EmergenceTimeline {
			if e.YearApprox != 0 {
				fmt.Fprintf(&b, "    %s: %s (~%d)\n", e.Term, orNA(e.Emerged), e.YearApprox)
			} else {
				fmt.Fprintf(&b, "    %s: %s\n", e.Term, orNA(e.Emerged))
			}
		}
	}

	if len(rep.Patterns) > 0 {
		b.WriteString("\n" + rule + "\n")
		b.WriteString("🧭 EVOLUTION PATTERNS 演變模式\n")
		b.WriteString(rule + "\n")
		for i, p := range rep.Patterns {
			fmt.Fprintf(&b, "\n【%d】 %s", i+1, orNA(p.Name))
			if p.NameZH != "" {
				fmt.Fprintf(&b, " (%s)", p.NameZH)
			}
			b.WriteString("\n")
			fmt.Fprintf(&b, "    EN: %s\n", orNA(p.Description))
			fmt.Fprintf(&b, "    中: %s\n", orNA(p.DescriptionZH))
			if len(p.Terms) > 0 {
				fmt.Fprintf(&b, "    Terms: %s\n", strings.Join(p.Terms, ", "))
			}
		}
	}

	if len(rep.Replacements) > 0 {
		b.WriteString("\n" + rule + "\n")
		b.WriteString("♻️  REPLACEMENTS 替代關係\n")
		b.WriteString(rule + "\n")
		for _, rel := range rep.Replacements {
			fmt.Fprintf(&b, "\n    %s → %s (%s)\n", rel.OldTerm, rel.NewTerm, orNA(rel.TransitionPeriod))
			fmt.Fprintf(&b, "    Reason: %s\n", orNA(rel.Reason))
		}
	}

	if len(rep.Divergences) > 0 {
		b.WriteString("\n" + rule + "\n")
		b.WriteString("🌿 SEMANTIC DIVERGENCE 語義分化\n")
		b.WriteString(rule + "\n")
		for _, d := range rep.Divergences {
			fmt.Fprintf(&b, "\n    %s\n", strings.Join(d.Terms, " / "))
			fmt.Fprintf(&b, "    Originally: %s\n", orNA(d.Originally))
			for _, term := range sortedKeys(d.DivergedTo) {
				fmt.Fprintf(&b, "    Now (%s): %s\n", term, d.DivergedTo[term])
			}
			fmt.Fprintf(&b, "    Since: %s\n", orNA(d.DivergencePeriod))
		}
	}

	if len(rep.UsageRanking) > 0 {
		b.WriteString("\n" + rule + "\n")
		b.WriteString("📊 CURRENT USAGE 當前使用排名\n")
		b.WriteString(rule + "\n\n")
		for i, u := range rep.UsageRanking {
			fmt.Fprintf(&b, "    %d. %s (frequency: %s, trend: %s)\n", i+1, u.Term, orNA(u.Frequency), orNA(u.Trend))
		}
	}

	if rep.Predictions != nil {
		b.WriteString("\n" + rule + "\n")
		b.WriteString("🔮 PREDICTIONS 預測\n")
		b.WriteString(rule + "\n\n")
		if len(rep.Predictions.LikelyToGrow) > 0 {
			fmt.Fprintf(&b, "    Likely to grow: %s\n", strings.Join(rep.Predictions.LikelyToGrow, ", "))
		}
		if len(rep.Predictions.LikelyToDecline) > 0 {
			fmt.Fprintf(&b, "    Likely to decline: %s\n", strings.Join(rep.Predictions.LikelyToDecline, ", "))
		}
		fmt.Fprintf(&b, "    EN: %s\n", orNA(rep.Predictions.Reasoning))
		fmt.Fprintf(&b, "    中: %s\n", orNA(rep.Predictions.ReasoningZH))
	}

	r.footer(&b, rep.Provider, rep.Model, rep.AnalyzedAt)

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderComparison writes a comparison report to path
func (r *Renderer) RenderComparison(rep *model.ComparisonReport, path string) error {
	return r.renderToFile(path, func(w io.Writer) error {
		return r.WriteComparison(w, rep)
	})
}

// WriteNeologisms writes a neologism detection report
func (r *Renderer) WriteNeologisms(w io.Writer, rep *model.NeologismReport) error {
	if rep == nil {
		_, err := io.WriteString(w, "No data available\n")
		return err
	}

	var b strings.Builder

	b.WriteString(doubleRule + "\n")
	b.WriteString("🆕 NEOLOGISM DETECTION REPORT 新詞檢測報告\n")
	b.WriteString(doubleRule + "\n\n")

	fmt.Fprintf(&b, "🏷️  Domain 領域: %s\n", orNA(rep.Domain))
	fmt.Fprintf(&b, "📆 New since 基準: %s\n", orNA(rep.ReferencePeriod))
	fmt.Fprintf(&b, "🔢 Total found 總數: %d\n", rep.TotalNeologisms)
	b.WriteString("\n📝 Summary 摘要:\n")
	fmt.Fprintf(&b, "   EN: %s\n", orNA(rep.Summary))
	fmt.Fprintf(&b, "   中: %s\n", orNA(rep.SummaryZH))

	b.WriteString("\n" + rule + "\n")
	b.WriteString("📚 DETECTED TERMS 檢測到的新詞\n")
	b.WriteString(rule + "\n")

	for i, n := range rep.Neologisms {
		fmt.Fprintf(&b, "\n【%d】 %s", i+1, n.Term)
		if n.TranslationZH != "" {
			fmt.Fprintf(&b, " (%s)", n.TranslationZH)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "    First appeared: %s | Formation: %s\n", orNA(n.FirstAppeared), orNA(n.FormationType))
		if len(n.SourceElements) > 0 {
			fmt.Fprintf(&b, "    From: %s\n", strings.Join(n.SourceElements, " + "))
		}
		fmt.Fprintf(&b, "    EN: %s\n", orNA(n.Definition))
		fmt.Fprintf(&b, "    中: %s\n", orNA(n.DefinitionZH))
		fmt.Fprintf(&b, "    Adoption: %s | Longevity: %s\n", orNA(n.AdoptionLevel), orNA(n.PredictedLongevity))
		if n.ExampleUsage != "" {
			fmt.Fprintf(&b, "    Example: %s\n", n.ExampleUsage)
		}
	}

	if len(rep.EmergingTrends) > 0 {
		b.WriteString("\n" + rule + "\n")
		b.WriteString("📈 EMERGING TRENDS 新興趨勢\n")
		b.WriteString(rule + "\n")
		for i, tr := range rep.EmergingTrends {
			fmt.Fprintf(&b, "\n【%d】 %s\n", i+1, orNA(tr.Trend))
			fmt.Fprintf(&b, "    中: %s\n", orNA(tr.TrendZH))
			if len(tr.Examples) > 0 {
				fmt.Fprintf(&b, "    Examples: %s\n", strings.Join(tr.Examples, ", "))
			}
		}
	}

	r.footer(&b, rep.Provider, rep.Model, rep.AnalyzedAt)

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderNeologisms writes a neologism report to path
func (r *Renderer) RenderNeologisms(rep *model.NeologismReport, path string) error {
	return r.renderToFile(path, func(w io.Writer) error {
		return r.WriteNeologisms(w, rep)
	})
}

func (r *Renderer) renderToFile(path string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func (r *Renderer) footer(b *strings.Builder, provider, model string, at time.Time) {
	if !r.includeFooter {
		return
	}

	who := "termtrack"
	if provider != "" && model != "" {
		who = provider + "/" + model
	} else if provider != "" {
		who = provider
	}

	b.WriteString("\n" + rule + "\n")
	if at.IsZero() {
		fmt.Fprintf(b, "Generated by termtrack (%s)\n", who)
	} else {
		fmt.Fprintf(b, "Generated by termtrack (%s) at %s\n", who, at.UTC().Format(time.RFC3339))
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
