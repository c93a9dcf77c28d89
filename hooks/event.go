package hooks

import (
	"time"

	reviewpipe "github.com/heibot/reviewpipe"
)

// StageCompletedEvent is emitted after each successful stage transition.
type StageCompletedEvent struct {
	// ReviewID is the deterministic review identifier.
	ReviewID string `json:"review_id"`

	// Stage the document just reached.
	Stage reviewpipe.Stage `json:"stage"`

	// Bucket and Key of the written document.
	Bucket string `json:"bucket"`
	Key    string `json:"key"`

	// Tracing
	TraceID   string    `json:"trace_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ReviewFlaggedEvent is emitted when profanity is found in a review.
type ReviewFlaggedEvent struct {
	ReviewID   string `json:"review_id"`
	ReviewerID string `json:"reviewer_id"`

	// Distinct disallowed words matched across all fields.
	ProfanityWords []string `json:"profanity_words"`

	// Cumulative violation count after this review, 0 when the
	// counter update failed.
	ViolationCount int64 `json:"violation_count"`

	// Tracing
	TraceID   string    `json:"trace_id"`
	Timestamp time.Time `json:"timestamp"`
}

// AuthorBannedEvent is emitted when a reviewer's cumulative count
// reaches the ban threshold. It fires on the crossing review and on
// every flagged review after it.
type AuthorBannedEvent struct {
	ReviewerID     string `json:"reviewer_id"`
	ViolationCount int64  `json:"violation_count"`
	Threshold      int64  `json:"threshold"`

	// Tracing
	TraceID   string    `json:"trace_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ReviewCompletedEvent is emitted when a review finishes the final
// stage and its document lands in the final bucket.
type ReviewCompletedEvent struct {
	ReviewID string `json:"review_id"`

	// Label is the aggregate sentiment classification.
	Label reviewpipe.SentimentLabel `json:"label"`

	// Compound is the aggregate compound score behind the label.
	Compound float64 `json:"compound"`

	// ContainsProfanity carries the stage-two verdict through.
	ContainsProfanity bool `json:"contains_profanity"`

	// Tracing
	TraceID   string    `json:"trace_id"`
	Timestamp time.Time `json:"timestamp"`
}
