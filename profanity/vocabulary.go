// Package profanity decides containment of disallowed vocabulary in
// review text, extracts the offending tokens, and produces a censored
// rendering.
package profanity

import (
	"bufio"
	"io"
	"sort"
	"strings"
)

// Vocabulary is a set of disallowed tokens. Matching is exact against
// lowercased, punctuation-stripped words.
type Vocabulary map[string]struct{}

// NewVocabulary builds a vocabulary from a word list. Words are
// lowercased; empty entries are dropped.
func NewVocabulary(words ...string) Vocabulary {
	v := make(Vocabulary, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			v[w] = struct{}{}
		}
	}
	return v
}

// ReadVocabulary loads a vocabulary from a reader with one word per
// line. Blank lines and lines starting with '#' are skipped, so
// operators can extend coverage with an annotated list and without
// redeploying logic.
func ReadVocabulary(r io.Reader) (Vocabulary, error) {
	v := make(Vocabulary)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v[strings.ToLower(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return v, nil
}

// Contains checks membership of a single token.
func (v Vocabulary) Contains(token string) bool {
	_, ok := v[token]
	return ok
}

// Words returns the vocabulary entries in sorted order.
func (v Vocabulary) Words() []string {
	out := make([]string, 0, len(v))
	for w := range v {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// DefaultVocabulary returns the built-in disallowed word list. It is a
// starting point only; production deployments load an operator-managed
// list via config.
func DefaultVocabulary() Vocabulary {
	return NewVocabulary(
		"damn", "hell", "crap", "stupid", "hate", "terrible",
		"awful", "worst", "horrible", "garbage", "trash", "shit",
		"fuck", "bitch", "suck", "sucks", "disappointing", "bad",
	)
}
