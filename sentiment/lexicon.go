// Package sentiment computes signed polarity scores per text field and
// combines them into one weighted label per review.
package sentiment

import "strings"

// Lexicon holds two disjoint vocabularies of positive and negative
// tokens. Entries are matched exactly against normalized (stemmed)
// tokens, so lists must be expressed in post-normalization form; note
// stemmed entries like "amaz" and "disappoint" below.
type Lexicon struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

// NewLexicon builds a lexicon from positive and negative word lists.
// A word present in both lists is treated as positive and dropped from
// the negative set to keep the vocabularies disjoint.
func NewLexicon(positive, negative []string) *Lexicon {
	l := &Lexicon{
		positive: make(map[string]struct{}, len(positive)),
		negative: make(map[string]struct{}, len(negative)),
	}
	for _, w := range positive {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			l.positive[w] = struct{}{}
		}
	}
	for _, w := range negative {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, dup := l.positive[w]; dup {
			continue
		}
		l.negative[w] = struct{}{}
	}
	return l
}

// Polarity classifies one token: +1 positive, -1 negative, 0 neither.
func (l *Lexicon) Polarity(token string) int {
	if _, ok := l.positive[token]; ok {
		return 1
	}
	if _, ok := l.negative[token]; ok {
		return -1
	}
	return 0
}

// DefaultLexicon returns the built-in keyword lists. They substitute
// for a full linguistic library and are swappable wholesale.
func DefaultLexicon() *Lexicon {
	return NewLexicon(
		[]string{
			"good", "great", "excellent", "perfect", "best", "awesome",
			"fantastic", "wonder", "wonderful", "love", "like", "nice",
			"amaz", "happy", "recommend", "solid", "comfortable", "durable",
			"beautiful", "fast", "easy", "works", "work", "quality",
			"satisfi", "pleased", "impress", "value", "sturdy", "reliable",
		},
		[]string{
			"bad", "terrible", "awful", "worst", "horrible", "poor",
			"disappoint", "broke", "broken", "cheap", "waste", "useless",
			"garbage", "trash", "hate", "defect", "defective", "refund",
			"junk", "slow", "fail", "flimsy", "return", "wrong", "annoy",
			"uncomfortable", "unreliable", "damag", "miss", "leak",
		},
	)
}
