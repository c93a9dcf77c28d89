package textproc

import "strings"

// Stemmer reduces a token to its stem. Implementations are injected so
// tests can pin token identity to deterministic fixtures.
type Stemmer interface {
	Stem(token string) string
}

// SuffixStemmer is a small suffix-stripping heuristic: it removes one
// trailing "ing", "ed", "er", or "ly", first match wins. It is not
// linguistically exact and is deliberately not a full stemmer; swapping
// in one would change token identity and break reproducibility of
// downstream vocabulary matching.
type SuffixStemmer struct{}

var suffixes = []string{"ing", "ed", "er", "ly"}

// Stem strips the first matching suffix from the token.
func (SuffixStemmer) Stem(token string) string {
	for _, suffix := range suffixes {
		if strings.HasSuffix(token, suffix) {
			return token[:len(token)-len(suffix)]
		}
	}
	return token
}

// NopStemmer leaves tokens untouched. Useful as a test fixture.
type NopStemmer struct{}

// Stem returns the token unchanged.
func (NopStemmer) Stem(token string) string { return token }
