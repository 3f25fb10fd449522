package textproc

import (
	"math"
	"strings"
)

// wordsPerMinute is the average reading speed assumed for Portuguese prose
const wordsPerMinute = 200

// ReadingTime estimates how many minutes a text takes to read, rounded to
// one decimal. Any non-empty text yields at least 0.1 minutes; the empty
// text yields 0. The estimate never decreases as the text grows.
func ReadingTime(text string) float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}

	minutes := math.Round(float64(words)/wordsPerMinute*10) / 10
	if minutes < 0.1 {
		return 0.1
	}
	return minutes
}
