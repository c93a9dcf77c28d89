package reviewpipe

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseReview decodes a raw review submission. Missing ratings default
// to 3 and out-of-range ratings are clamped to [1, 5]; missing text
// fields stay empty, which is valid input throughout the pipeline.
func ParseReview(data []byte) (*Review, error) {
	var r Review
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, NewMalformedInputError("", err)
	}
	if r.Overall == 0 {
		r.Overall = DefaultRating
	}
	if r.Overall < 1 {
		r.Overall = 1
	}
	if r.Overall > 5 {
		r.Overall = 5
	}
	return &r, nil
}

// ReviewID derives the deterministic document identifier for a review:
// product id and reviewer id joined, or a stable surrogate hashed from
// the review content when either is missing. Determinism matters here:
// re-delivery of the same review must map to the same storage key so
// that retries overwrite instead of duplicating.
func ReviewID(r *Review) string {
	if r.ASIN != "" && r.ReviewerID != "" {
		return r.ASIN + "_" + r.ReviewerID
	}
	h := sha256.Sum256([]byte(r.ASIN + "\x00" + r.ReviewerID + "\x00" + r.Summary + "\x00" + r.ReviewText))
	return "surrogate_" + hex.EncodeToString(h[:8])
}

// RatingText renders the numeric rating as the text field processed by
// the pipeline alongside summary and body.
func RatingText(rating float64) string {
	if rating == float64(int64(rating)) {
		return strconv.FormatInt(int64(rating), 10)
	}
	return strconv.FormatFloat(rating, 'f', -1, 64)
}

// Storage keys per stage. Deterministic, derived from review identity.
func ProcessedKey(reviewID string) string { return "processed/" + reviewID + ".json" }
func CleanKey(reviewID string) string     { return "clean/" + reviewID + ".json" }
func FlaggedKey(reviewID string) string   { return "flagged/" + reviewID + ".json" }
func AnalyzedKey(reviewID string) string  { return "analyzed/" + reviewID + ".json" }

// DestinationKey selects the storage key after the profanity stage.
// A document lands at exactly one of the clean or flagged locations,
// determined solely by the aggregate contains-flag.
func DestinationKey(reviewID string, containsProfanity bool) string {
	if containsProfanity {
		return FlaggedKey(reviewID)
	}
	return CleanKey(reviewID)
}

// MarshalDocument encodes a document for storage. Output is
// deterministic for a given document so that replayed transitions
// overwrite with byte-identical content.
func MarshalDocument(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// UnmarshalDocument decodes a stored pipeline document and validates
// its stage tag.
func UnmarshalDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, NewMalformedInputError("", err)
	}
	if doc.ProcessingStage.Order() < 0 {
		return nil, NewMalformedInputError("", fmt.Errorf("unknown processing stage %q", doc.ProcessingStage))
	}
	return &doc, nil
}

// SplitJSONL splits raw input into individual review payloads. Input
// may be a single JSON object or JSONL with one review per line; blank
// lines are skipped.
func SplitJSONL(data []byte) [][]byte {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil
	}
	if !strings.Contains(text, "\n") {
		return [][]byte{[]byte(text)}
	}
	var out [][]byte
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, []byte(line))
	}
	return out
}
