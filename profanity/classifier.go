package profanity

import (
	"context"
	"sort"
	"strings"
	"unicode"

	reviewpipe "github.com/heibot/reviewpipe"
)

// Detector decides whether one text field contains disallowed
// vocabulary. Implementations are injected so tests can pin results to
// deterministic fixtures and deployments can swap in external services.
type Detector interface {
	// Check analyzes one text field. Empty input yields a verdict with
	// the contains-flag false, no words, and empty censored text.
	Check(ctx context.Context, text string) (reviewpipe.FieldVerdict, error)
}

// KeywordDetector flags text whose words exactly match a vocabulary
// entry after lowercasing and stripping non-word runes. The censored
// rendering is rebuilt from the original words, replacing each matched
// word with an equal-length run of the mask rune, so a diff between
// original and censored text reveals exactly the disallowed tokens.
type KeywordDetector struct {
	vocab Vocabulary
}

// NewKeywordDetector creates a detector over the given vocabulary. A
// nil vocabulary falls back to the built-in default list.
func NewKeywordDetector(vocab Vocabulary) *KeywordDetector {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &KeywordDetector{vocab: vocab}
}

// Check implements Detector. It never fails.
func (d *KeywordDetector) Check(_ context.Context, text string) (reviewpipe.FieldVerdict, error) {
	if text == "" {
		return reviewpipe.FieldVerdict{}, nil
	}

	words := strings.Fields(text)
	censored := make([]string, len(words))
	matched := make(map[string]struct{})

	for i, word := range words {
		token := matchToken(word)
		if token != "" && d.vocab.Contains(token) {
			matched[token] = struct{}{}
			censored[i] = strings.Repeat(string(reviewpipe.MaskRune), len([]rune(word)))
		} else {
			censored[i] = word
		}
	}

	verdict := reviewpipe.FieldVerdict{
		ContainsProfanity: len(matched) > 0,
		CensoredText:      strings.Join(censored, " "),
	}
	for token := range matched {
		verdict.ProfanityWords = append(verdict.ProfanityWords, token)
	}
	sort.Strings(verdict.ProfanityWords)
	return verdict, nil
}

// matchToken derives the comparison token for one original word:
// lowercase with every non-letter, non-digit rune stripped.
func matchToken(word string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, word)
}
