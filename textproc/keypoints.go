package textproc

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"vozdalei-backend/models"
)

const (
	maxKeyPoints    = 4
	minSentenceLen  = 20  // guards against fragments
	maxSentenceLen  = 200 // guards against run-ons
	minQualifying   = 2
)

// ExtractKeyPoints selects up to four representative sentences from a
// simplified text, in original order. Sentences shorter than 20 or at least
// 200 runes are discarded. When fewer than two sentences qualify, filler
// points are synthesized from the document metadata so the result is never
// empty for a non-empty input.
func ExtractKeyPoints(text string, doc *models.LegislativeDocument) []string {
	points := make([]string, 0, maxKeyPoints)

	for _, sentence := range SplitSentences(text) {
		n := utf8.RuneCountInString(sentence)
		if n < minSentenceLen || n >= maxSentenceLen {
			continue
		}
		points = append(points, capitalize(sentence))
		if len(points) == maxKeyPoints {
			break
		}
	}

	if len(points) >= minQualifying {
		return points
	}

	for _, filler := range fillerPoints(doc) {
		if len(points) == maxKeyPoints {
			break
		}
		points = append(points, filler)
	}

	if len(points) == 0 && strings.TrimSpace(text) != "" {
		points = append(points, capitalize(truncateRunes(strings.TrimSpace(text), maxSentenceLen-1)))
	}

	return points
}

// SplitSentences splits text on sentence-terminating punctuation
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

func fillerPoints(doc *models.LegislativeDocument) []string {
	if doc == nil {
		return nil
	}

	var points []string
	if doc.Author != "" {
		points = append(points, fmt.Sprintf("Proposta apresentada por %s.", doc.Author))
	}
	if doc.Type != "" && doc.Year > 0 {
		points = append(points, fmt.Sprintf("Documento do tipo %s de %d.", doc.Type, doc.Year))
	}
	if doc.Status != "" {
		points = append(points, fmt.Sprintf("Situação atual: %s.", doc.Status))
	}
	return points
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
