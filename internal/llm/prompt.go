package llm

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
)

// SystemPrompt is the default system instruction for all analysis calls
const SystemPrompt = "You are a historical linguist and terminology expert. " +
	"You respond only with valid JSON matching the requested schema."

//go:embed templates/evolution.tmpl
var evolutionTemplateText string

//go:embed templates/comparison.tmpl
var comparisonTemplateText string

//go:embed templates/neologism.tmpl
var neologismTemplateText string

var (
	evolutionTemplate  *template.Template
	comparisonTemplate *template.Template
	neologismTemplate  *template.Template
)

func init() {
	funcs := template.FuncMap{"join": strings.Join}
	evolutionTemplate = template.Must(
		template.New("evolution").Funcs(funcs).Parse(evolutionTemplateText))
	comparisonTemplate = template.Must(
		template.New("comparison").Funcs(funcs).Parse(comparisonTemplateText))
	neologismTemplate = template.Must(
		template.New("neologism").Funcs(funcs).Parse(neologismTemplateText))
}

// EvolutionPromptData fills the term-evolution template
type EvolutionPromptData struct {
	Term         string
	Domain       string
	Periods      []string
	Observations []model.Observation // optional period text samples
	Bilingual    bool
}

// ComparisonPromptData fills the term-comparison template
type ComparisonPromptData struct {
	Terms     []string
	Domain    string
	Bilingual bool
}

// NeologismPromptData fills the neologism-detection template
type NeologismPromptData struct {
	Text            string
	Domain          string
	ReferencePeriod string
	Bilingual       bool
}

// BuildEvolutionPrompt renders the prompt for one term's evolution analysis
func BuildEvolutionPrompt(data EvolutionPromptData) (string, error) {
	return render(evolutionTemplate, data)
}

// BuildComparisonPrompt renders the prompt for a multi-term comparison
func BuildComparisonPrompt(data ComparisonPromptData) (string, error) {
	return render(comparisonTemplate, data)
}

// BuildNeologismPrompt renders the prompt for corpus neologism detection
func BuildNeologismPrompt(data NeologismPromptData) (string, error) {
	return render(neologismTemplate, data)
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
