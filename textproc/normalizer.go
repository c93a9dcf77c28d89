// Package textproc turns raw free text into normalized token sequences
// for downstream matching and scoring.
package textproc

import (
	"strings"
	"unicode"

	reviewpipe "github.com/heibot/reviewpipe"
)

// Normalizer produces lowercase, punctuation-stripped, stopword-filtered,
// stemmed token sequences. Token order is preserved from input order
// after filtering; downstream weighting uses counts, not order, but the
// deterministic order aids testability.
type Normalizer struct {
	stopwords map[string]struct{}
	stemmer   Stemmer

	// MinTokenLen is the exclusive lower bound on token length; tokens
	// of this length or shorter are dropped.
	minTokenLen int
}

// NormalizerOption customizes a Normalizer.
type NormalizerOption func(*Normalizer)

// WithStemmer replaces the default suffix stemmer.
func WithStemmer(s Stemmer) NormalizerOption {
	return func(n *Normalizer) { n.stemmer = s }
}

// WithStopwords replaces the default stopword set.
func WithStopwords(words map[string]struct{}) NormalizerOption {
	return func(n *Normalizer) { n.stopwords = words }
}

// NewNormalizer creates a normalizer with the fixed English stopword
// set and the heuristic suffix stemmer.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		stopwords:   DefaultStopwords,
		stemmer:     SuffixStemmer{},
		minTokenLen: 2,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize processes one free-text field. Empty input returns an empty
// token sequence and zero count; it never fails.
func (n *Normalizer) Normalize(text string) reviewpipe.ProcessedField {
	if text == "" {
		return reviewpipe.ProcessedField{}
	}

	cleaned := stripNonWord(strings.ToLower(text))

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= n.minTokenLen {
			continue
		}
		if _, stop := n.stopwords[word]; stop {
			continue
		}
		tokens = append(tokens, n.stemmer.Stem(word))
	}

	return reviewpipe.ProcessedField{
		Tokens:    tokens,
		Text:      strings.Join(tokens, " "),
		WordCount: len(tokens),
	}
}

// stripNonWord removes every rune that is not a letter, digit, or
// whitespace.
func stripNonWord(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}
