package domain

import "time"

// Option is one discrete answer for an item.
type Option struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// Item is a single assessment question with its ordered answer options.
type Item struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	MaxPoints int      `json:"maxPoints"`
	Options   []Option `json:"options"`
}

// BandLevel identifies one of the interpretation bands.
type BandLevel string

const (
	BandHigh       BandLevel = "HIGH"
	BandMinimal    BandLevel = "MINIMAL"
	BandNoneOrComa BandLevel = "NONE_OR_COMA"
)

// Band is the interpretation attached to a score range.
type Band struct {
	Level BandLevel `json:"level"`
	Text  string    `json:"text"`
	Icon  string    `json:"icon"`
	Color string    `json:"color"`
	// Legend range, display only.
	Min int `json:"min"`
	Max int `json:"max"`
}

// ScaleDefinition is an immutable scale: ordered items and bands ordered by
// descending Min. The last band is the fallback for any lower total.
type ScaleDefinition struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Items       []Item `json:"items"`
	Bands       []Band `json:"bands"`
}

// AnswerSet maps item IDs to the selected point value. Absent means unanswered.
type AnswerSet map[string]int

// Clone returns an independent copy of the answers.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Result is a scored assessment. The band is always derived from Total.
type Result struct {
	Total int `json:"total"`
}

// ScoreRecord is the payload handed to the persistence sink on save.
type ScoreRecord struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"sessionId"`
	ScaleName      string    `json:"scaleName"`
	Score          int       `json:"score"`
	Interpretation string    `json:"interpretation"`
	CreatedAt      time.Time `json:"createdAt"`
}
