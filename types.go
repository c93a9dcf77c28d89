package reviewpipe

// Review is the immutable input to the pipeline, as submitted by a
// reviewer. Field names follow the upstream review dataset schema.
type Review struct {
	ReviewerID   string  `json:"reviewer_id"`
	ReviewerName string  `json:"reviewer_name,omitempty"`
	ASIN         string  `json:"asin"`          // Product identifier
	Overall      float64 `json:"overall"`       // Numeric rating 1-5
	Summary      string  `json:"summary"`       // Short free-text summary
	ReviewText   string  `json:"reviewText"`    // Free-text body
	UnixTime     int64   `json:"unixReviewTime,omitempty"`
	Category     string  `json:"category,omitempty"`
	Helpful      []int   `json:"helpful,omitempty"`
}

// ProcessedField is the normalized form of one text field: the filtered
// stemmed token sequence, the tokens rejoined with single spaces, and
// the token count. Derived deterministically and never mutated once set.
type ProcessedField struct {
	Tokens    []string `json:"tokens"`
	Text      string   `json:"text"`
	WordCount int      `json:"word_count"`
}

// FieldVerdict is the profanity result for one text field.
type FieldVerdict struct {
	ContainsProfanity bool     `json:"contains_profanity"`
	ProfanityWords    []string `json:"profanity_words,omitempty"` // Unique matched tokens, order irrelevant
	CensoredText      string   `json:"censored_text"`
}

// ProfanityAnalysis aggregates the per-field verdicts for one review.
type ProfanityAnalysis struct {
	ContainsProfanity bool         `json:"contains_profanity"`
	ProfanityWords    []string     `json:"profanity_words,omitempty"`
	CensoredText      string       `json:"censored_text"`
	Summary           FieldVerdict `json:"summary_profanity"`
	ReviewText        FieldVerdict `json:"reviewtext_profanity"`
	Overall           FieldVerdict `json:"overall_profanity"`

	// Ban ledger outcome. Count is zero for clean reviews because the
	// counter is never touched for them.
	ReviewerBanned bool  `json:"reviewer_banned"`
	ProfanityCount int64 `json:"current_reviewer_profanity_count"`
}

// SentimentScores holds the polarity scores for one text field.
// Compound is a signed scalar in [-1, 1].
type SentimentScores struct {
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Positive float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

// SentimentAnalysis is the terminal sentiment result for one review.
// The aggregate compound score is the token-count-weighted mean of the
// per-field compound scores.
type SentimentAnalysis struct {
	Summary    SentimentScores `json:"summary_sentiment"`
	ReviewText SentimentScores `json:"reviewtext_sentiment"`
	Overall    SentimentScores `json:"overall_sentiment"`
	Aggregate  float64         `json:"aggregated_compound_score"`
	Label      SentimentLabel  `json:"sentiment_label"`
}

// Document is the stage-tagged pipeline record for one review. It is
// created at normalization and mutated in place by each subsequent
// stage: new fields are appended and the stage advances, but earlier
// fields are never altered. Exactly one producer writes a document per
// stage.
type Document struct {
	ReviewID     string  `json:"review_id"`
	ReviewerID   string  `json:"reviewer_id"`
	ReviewerName string  `json:"reviewer_name,omitempty"`
	ASIN         string  `json:"asin"`
	Rating       float64 `json:"overall_rating"`
	UnixTime     int64   `json:"timestamp,omitempty"`
	Category     string  `json:"category,omitempty"`
	Helpful      []int   `json:"helpful,omitempty"`

	OriginalSummary    string `json:"original_summary"`
	OriginalReviewText string `json:"original_reviewText"`
	OriginalOverall    string `json:"original_overall"` // Rating rendered as text

	ProcessedSummary    string   `json:"processed_summary"`
	SummaryTokens       []string `json:"summary_tokens"`
	SummaryWordCount    int      `json:"summary_word_count"`
	ProcessedReviewText string   `json:"processed_reviewText"`
	ReviewTextTokens    []string `json:"reviewText_tokens"`
	ReviewTextWordCount int      `json:"reviewText_word_count"`
	ProcessedOverall    string   `json:"processed_overall"`
	OverallTokens       []string `json:"overall_tokens"`
	OverallWordCount    int      `json:"overall_word_count"`
	TotalWordCount      int      `json:"total_word_count"`

	ProcessingStage Stage `json:"processing_stage"`

	Profanity *ProfanityAnalysis `json:"profanity_analysis,omitempty"`
	Sentiment *SentimentAnalysis `json:"sentiment_analysis,omitempty"`
}
