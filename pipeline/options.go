// Package pipeline wires the moderation stages together: it moves
// review documents through normalization, profanity enforcement, and
// sentiment classification against pluggable collaborators.
package pipeline

import (
	"log/slog"

	"github.com/heibot/reviewpipe/config"
	"github.com/heibot/reviewpipe/hooks"
	"github.com/heibot/reviewpipe/ledger"
	"github.com/heibot/reviewpipe/objstore"
	"github.com/heibot/reviewpipe/profanity"
	"github.com/heibot/reviewpipe/sentiment"
	"github.com/heibot/reviewpipe/textproc"
)

// Options configures a Processor.
type Options struct {
	// Store is the durable object store holding review documents
	// (required).
	Store objstore.Store

	// Counter is the atomic violation counter backend (required).
	Counter ledger.CounterStore

	// Config supplies runtime settings. Nil resolves everything to
	// defaults with a warning.
	Config config.Store

	// Detector decides per-field profanity. Nil uses the keyword
	// detector over the configured or built-in vocabulary.
	Detector profanity.Detector

	// Scorer computes per-field sentiment. Nil uses the keyword scorer
	// over the built-in lexicon.
	Scorer sentiment.Scorer

	// Normalizer produces token sequences. Nil uses the default
	// stopword set and suffix stemmer.
	Normalizer *textproc.Normalizer

	// Hooks receives pipeline events. Hook errors are logged, never
	// propagated.
	Hooks hooks.Hooks

	// Logger receives structured pipeline logs. Nil uses slog.Default.
	Logger *slog.Logger
}

// DefaultOptions returns default options. Store and Counter must still
// be provided by the caller.
func DefaultOptions() Options {
	return Options{
		Hooks:      hooks.NopHooks{},
		Normalizer: textproc.NewNormalizer(),
		Scorer:     sentiment.NewKeywordScorer(nil),
	}
}
