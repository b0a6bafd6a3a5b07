package sentiment

import "github.com/jonreiter/govader"

// Labels assigned to note content.
const (
	Positive = "positive"
	Neutral  = "neutral"
	Negative = "negative"
)

// threshold bounds the neutral band. Scores at exactly +-threshold
// stay neutral.
const threshold = 0.1

// Scorer produces a polarity score in [-1, 1] for a text.
type Scorer interface {
	Polarity(text string) float64
}

// Classifier maps a polarity score to one of the three labels.
// It holds no state beyond the scorer and is safe for concurrent use.
type Classifier struct {
	scorer Scorer
}

func NewClassifier(s Scorer) *Classifier {
	return &Classifier{scorer: s}
}

func (c *Classifier) Classify(text string) string {
	score := c.scorer.Polarity(text)
	switch {
	case score > threshold:
		return Positive
	case score < -threshold:
		return Negative
	default:
		return Neutral
	}
}

// VaderScorer scores polarity with the VADER lexicon model.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Polarity returns the compound VADER score, already normalized to [-1, 1].
func (v *VaderScorer) Polarity(text string) float64 {
	return v.analyzer.PolarityScores(text).Compound
}
