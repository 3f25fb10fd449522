package models

// SimplificationLevel controls the vocabulary complexity of generated text
type SimplificationLevel string

const (
	LevelSimple    SimplificationLevel = "simple"
	LevelModerate  SimplificationLevel = "moderate"
	LevelTechnical SimplificationLevel = "technical"
)

// Valid reports whether the level is one of the three supported values
func (l SimplificationLevel) Valid() bool {
	switch l {
	case LevelSimple, LevelModerate, LevelTechnical:
		return true
	}
	return false
}

// Citation is an internal reference in a legislative text, such as
// "Art. 5º" or "§ 2º"
type Citation struct {
	Type      string `json:"type"` // article, paragraph
	Reference string `json:"reference"`
	Number    string `json:"number"`
}

// SimplificationResult is the outcome of simplifying a legislative text.
// It lives for the single request/response cycle.
type SimplificationResult struct {
	OriginalText       string              `json:"original_text"`
	SimplifiedText     string              `json:"simplified_text"`
	TargetLevel        SimplificationLevel `json:"target_level"`
	ReadingTimeMinutes float64             `json:"reading_time_minutes"`
	KeyPoints          []string            `json:"key_points,omitempty"`
	Citations          []Citation          `json:"citations,omitempty"`
	AudioURL           *string             `json:"audio_url,omitempty"`
}
