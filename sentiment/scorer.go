package sentiment

import (
	reviewpipe "github.com/heibot/reviewpipe"
)

// Scorer computes polarity scores for one normalized token sequence.
// Implementations are injected so tests can use deterministic fixtures.
type Scorer interface {
	Score(tokens []string) reviewpipe.SentimentScores
}

// KeywordScorer scores tokens against a fixed lexicon. For a field with
// total tokens: pos = positive/total, neg = negative/total,
// neu = max(0, 1-pos-neg), compound = (positive-negative)/total clamped
// to [-1, 1]. A zero-token field scores zero everywhere, including
// neutral.
type KeywordScorer struct {
	lexicon *Lexicon
}

// NewKeywordScorer creates a scorer. A nil lexicon uses the default.
func NewKeywordScorer(lexicon *Lexicon) *KeywordScorer {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &KeywordScorer{lexicon: lexicon}
}

// Score implements Scorer.
func (s *KeywordScorer) Score(tokens []string) reviewpipe.SentimentScores {
	if len(tokens) == 0 {
		return reviewpipe.SentimentScores{}
	}

	var pos, neg int
	for _, token := range tokens {
		switch s.lexicon.Polarity(token) {
		case 1:
			pos++
		case -1:
			neg++
		}
	}

	total := float64(len(tokens))
	scores := reviewpipe.SentimentScores{
		Positive: float64(pos) / total,
		Negative: float64(neg) / total,
		Compound: clamp(float64(pos-neg)/total, -1, 1),
	}
	if neu := 1 - scores.Positive - scores.Negative; neu > 0 {
		scores.Neutral = neu
	}
	return scores
}

// Aggregate combines per-field compound scores into one weighted score
// and label. Weights are the per-field token counts; fields with zero
// tokens contribute zero weight and zero score. All-zero weights yield
// a compound of 0 and a neutral label by construction.
func Aggregate(fields []reviewpipe.SentimentScores, weights []int) (float64, reviewpipe.SentimentLabel) {
	var sum, totalWeight float64
	for i, scores := range fields {
		if i >= len(weights) || weights[i] <= 0 {
			continue
		}
		sum += scores.Compound * float64(weights[i])
		totalWeight += float64(weights[i])
	}

	var compound float64
	if totalWeight > 0 {
		compound = sum / totalWeight
	}
	return compound, Label(compound)
}

// Label maps an aggregate compound score to its sentiment label.
func Label(compound float64) reviewpipe.SentimentLabel {
	switch {
	case compound >= reviewpipe.PositiveThreshold:
		return reviewpipe.SentimentPositive
	case compound <= reviewpipe.NegativeThreshold:
		return reviewpipe.SentimentNegative
	default:
		return reviewpipe.SentimentNeutral
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
