// Package reviewpipe implements a three-stage moderation and analysis
// pipeline for user-submitted product reviews: text normalization,
// profanity detection with cumulative per-author enforcement, and
// sentiment classification. Storage, counting, and configuration are
// pluggable collaborators so the pipeline core stays stateless.
package reviewpipe

// Stage is a document's position in the pipeline. Stages only advance
// forward; a document is never regressed.
type Stage string

const (
	StagePreprocessed      Stage = "preprocessed"
	StageProfanityChecked  Stage = "profanity_checked"
	StageSentimentAnalyzed Stage = "sentiment_analyzed"
)

// Order returns the stage's position in the pipeline, or -1 for an
// unknown stage.
func (s Stage) Order() int {
	switch s {
	case StagePreprocessed:
		return 0
	case StageProfanityChecked:
		return 1
	case StageSentimentAnalyzed:
		return 2
	default:
		return -1
	}
}

// After reports whether s comes after other in the pipeline.
func (s Stage) After(other Stage) bool {
	return s.Order() > other.Order()
}

// SentimentLabel classifies a review's aggregate sentiment polarity.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// Sentiment label thresholds. Aggregate compound scores inside the open
// band (-0.05, +0.05) are neutral. These are tunable constants, not
// derived statistics.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// Default configuration values. Used when the config store has no value
// for the corresponding key; every fallback is logged as a warning.
const (
	DefaultBanThreshold = 3

	DefaultRawBucket       = "raw-reviews"
	DefaultProcessedBucket = "processed-reviews"
	DefaultCleanBucket     = "clean-reviews"
	DefaultFlaggedBucket   = "flagged-reviews"
	DefaultFinalBucket     = "final-reviews"

	DefaultRating = 3
)

// MaskRune replaces each rune of a disallowed word in censored text.
const MaskRune = '*'
