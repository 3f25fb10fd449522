package textproc

import (
	"regexp"
	"strconv"
	"strings"

	"vozdalei-backend/models"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	articlePattern   = regexp.MustCompile(`(?i)Art\.?\s*(\d+)[º°]?`)
	paragraphPattern = regexp.MustCompile(`§\s*(\d+)[º°]?`)

	yearPattern      = regexp.MustCompile(`\b(20\d{2})\b`)
	lawNumberPattern = regexp.MustCompile(`(?i)lei\s+(?:n[º°]|n\.?\s*)?\s*(\d+)`)
)

// NormalizeText strips markup tags, collapses whitespace and removes the
// odd characters that government APIs leak into legislative text.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	text = tagPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")

	text = strings.ReplaceAll(text, " ", " ") // non-breaking space
	text = strings.ReplaceAll(text, "​", "")  // zero-width space
	text = strings.ReplaceAll(text, "“", `"`)
	text = strings.ReplaceAll(text, "”", `"`)
	text = strings.ReplaceAll(text, "‘", "'")
	text = strings.ReplaceAll(text, "’", "'")

	return strings.TrimSpace(text)
}

// ExtractCitations finds article and paragraph references in a text
func ExtractCitations(text string) []models.Citation {
	var citations []models.Citation

	for _, m := range articlePattern.FindAllStringSubmatch(text, -1) {
		citations = append(citations, models.Citation{Type: "article", Reference: m[0], Number: m[1]})
	}
	for _, m := range paragraphPattern.FindAllStringSubmatch(text, -1) {
		citations = append(citations, models.Citation{Type: "paragraph", Reference: m[0], Number: m[1]})
	}

	return citations
}

// ExtractYear pulls a four-digit year out of a free-text query, or 0
func ExtractYear(query string) int {
	m := yearPattern.FindStringSubmatch(query)
	if m == nil {
		return 0
	}
	year, _ := strconv.Atoi(m[1])
	return year
}

// Truncate cuts a string to at most max runes, appending an ellipsis when
// anything was dropped.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}

// ExtractLawNumber pulls a law number out of phrasings like "lei nº 14.133"
// or "lei 8080". Returns the empty string when the query names no law.
func ExtractLawNumber(query string) string {
	m := lawNumberPattern.FindStringSubmatch(query)
	if m == nil {
		return ""
	}
	return m[1]
}
