package corpus

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// skipElements are subtrees that never contribute visible text.
var skipElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
}

const (
	minSentenceLen = 30
	maxSentenceLen = 500
)

// ExtractText returns the visible text of an HTML document.
func ExtractText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var parts []string
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && skipElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(doc)

	return strings.Join(parts, " "), nil
}

// Sentences splits prose into sentence-sized fragments using a simple
// terminator heuristic. Fragments outside the minSentenceLen to
// maxSentenceLen byte window are dropped.
func Sentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var out []string
	keep := func(fragment string) {
		fragment = strings.TrimSpace(fragment)
		if len(fragment) >= minSentenceLen && len(fragment) <= maxSentenceLen {
			out = append(out, fragment)
		}
	}

	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			// A terminator mid-token (abbreviation, decimal) doesn't split
			if i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\t') {
				keep(text[start : i+1])
				start = i + 1
			}
		}
	}
	if start < len(text) {
		keep(text[start:])
	}

	return out
}

// Clip truncates text to at most maxChars bytes, cutting on a sentence
// boundary where one exists so prompts don't end mid-thought.
func Clip(text string, maxChars int) string {
	text = strings.TrimSpace(text)
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}

	// Back the cut up to a rune boundary for CJK text
	for maxChars > 0 && !utf8.RuneStart(text[maxChars]) {
		maxChars--
	}
	clipped := text[:maxChars]

	cut := -1
	for _, term := range []string{". ", "! ", "? "} {
		if idx := strings.LastIndex(clipped, term); idx > cut {
			cut = idx
		}
	}
	if cut > maxChars/2 {
		return strings.TrimSpace(clipped[:cut+1])
	}

	if idx := strings.LastIndex(clipped, " "); idx > 0 {
		clipped = clipped[:idx]
	}
	return strings.TrimSpace(clipped)
}
