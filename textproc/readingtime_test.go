package textproc

import (
	"strings"
	"testing"
)

func TestReadingTime(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"empty", "", 0},
		{"whitespace only", "   \n\t ", 0},
		{"single word floors at 0.1", "lei", 0.1},
		{"thirty words", strings.Repeat("palavra ", 30), 0.2},
		{"two hundred words is one minute", strings.Repeat("palavra ", 200), 1.0},
		{"five hundred words", strings.Repeat("palavra ", 500), 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReadingTime(tt.text)
			if got != tt.want {
				t.Errorf("ReadingTime(%d words) = %v, want %v", len(strings.Fields(tt.text)), got, tt.want)
			}
		})
	}
}

func TestReadingTimeMonotonic(t *testing.T) {
	prev := 0.0
	for words := 1; words <= 2000; words += 50 {
		text := strings.Repeat("palavra ", words)
		got := ReadingTime(text)
		if got < prev {
			t.Fatalf("reading time decreased: %d words gave %v, previous %v", words, got, prev)
		}
		prev = got
	}
}

func TestReadingTimeNonEmptyFloor(t *testing.T) {
	for _, text := range []string{"a", "uma lei", "Art. 1º desta Lei"} {
		if got := ReadingTime(text); got < 0.1 {
			t.Errorf("ReadingTime(%q) = %v, want >= 0.1", text, got)
		}
	}
}
