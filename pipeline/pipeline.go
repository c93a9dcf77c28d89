package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	reviewpipe "github.com/heibot/reviewpipe"
	"github.com/heibot/reviewpipe/config"
	"github.com/heibot/reviewpipe/hooks"
	"github.com/heibot/reviewpipe/ledger"
	"github.com/heibot/reviewpipe/objstore"
	"github.com/heibot/reviewpipe/profanity"
	"github.com/heibot/reviewpipe/sentiment"
	"github.com/heibot/reviewpipe/textproc"
)

type traceIDKey struct{}

// WithTraceID attaches a trace ID to the context. Pipeline logs and
// hook events carry it through.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// TraceID returns the trace ID attached to the context, if any.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// Processor runs the three stage transitions. It holds no per-review
// state; any number of goroutines may share one Processor as long as
// distinct reviews are processed by distinct calls.
type Processor struct {
	store      objstore.Store
	ledger     *ledger.Ledger
	settings   config.Settings
	normalizer *textproc.Normalizer
	detector   profanity.Detector
	scorer     sentiment.Scorer
	hooks      hooks.Hooks
	logger     *slog.Logger
}

// New creates a Processor. Configuration is resolved once, here; the
// profanity vocabulary is fetched from the object store when the
// settings name a location, falling back to the built-in list.
func New(ctx context.Context, opts Options) (*Processor, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("%w: object store", reviewpipe.ErrStoreNotConfigured)
	}
	if opts.Counter == nil {
		return nil, fmt.Errorf("%w: counter store", reviewpipe.ErrStoreNotConfigured)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	settings := config.Load(ctx, opts.Config, logger)

	p := &Processor{
		store:      opts.Store,
		ledger:     ledger.New(opts.Counter, settings.BanThreshold),
		settings:   settings,
		normalizer: opts.Normalizer,
		detector:   opts.Detector,
		scorer:     opts.Scorer,
		hooks:      opts.Hooks,
		logger:     logger,
	}
	if p.normalizer == nil {
		p.normalizer = textproc.NewNormalizer()
	}
	if p.scorer == nil {
		p.scorer = sentiment.NewKeywordScorer(nil)
	}
	if p.hooks == nil {
		p.hooks = hooks.NopHooks{}
	}
	if p.detector == nil {
		p.detector = profanity.NewKeywordDetector(p.loadVocabulary(ctx))
	}
	return p, nil
}

// Settings returns the resolved runtime settings.
func (p *Processor) Settings() config.Settings { return p.settings }

// loadVocabulary fetches the word list named by the settings, one word
// per line. Any failure falls back to the built-in vocabulary with a
// warning.
func (p *Processor) loadVocabulary(ctx context.Context) profanity.Vocabulary {
	loc := p.settings.VocabularyKey
	if loc == "" {
		return nil
	}
	bucket, key, ok := strings.Cut(loc, "/")
	if !ok {
		p.logger.WarnContext(ctx, "vocabulary location not bucket/key, using built-in list", "location", loc)
		return nil
	}
	data, err := p.store.Get(ctx, bucket, key)
	if err != nil {
		p.logger.WarnContext(ctx, "vocabulary fetch failed, using built-in list",
			"location", loc, "error", err)
		return nil
	}
	vocab, err := profanity.ReadVocabulary(bytes.NewReader(data))
	if err != nil {
		p.logger.WarnContext(ctx, "vocabulary parse failed, using built-in list",
			"location", loc, "error", err)
		return nil
	}
	return vocab
}

// Preprocess runs the first transition: it parses one raw review
// payload, normalizes the three text fields, and writes the
// stage-tagged document to processed storage. Redelivery of the same
// payload overwrites the same key with identical bytes.
func (p *Processor) Preprocess(ctx context.Context, payload []byte) (*reviewpipe.Document, error) {
	review, err := reviewpipe.ParseReview(payload)
	if err != nil {
		return nil, err
	}

	summary := p.normalizer.Normalize(review.Summary)
	body := p.normalizer.Normalize(review.ReviewText)
	overallText := reviewpipe.RatingText(review.Overall)
	overall := p.normalizer.Normalize(overallText)

	doc := &reviewpipe.Document{
		ReviewID:     reviewpipe.ReviewID(review),
		ReviewerID:   review.ReviewerID,
		ReviewerName: review.ReviewerName,
		ASIN:         review.ASIN,
		Rating:       review.Overall,
		UnixTime:     review.UnixTime,
		Category:     review.Category,
		Helpful:      review.Helpful,

		OriginalSummary:    review.Summary,
		OriginalReviewText: review.ReviewText,
		OriginalOverall:    overallText,

		ProcessedSummary:    summary.Text,
		SummaryTokens:       summary.Tokens,
		SummaryWordCount:    summary.WordCount,
		ProcessedReviewText: body.Text,
		ReviewTextTokens:    body.Tokens,
		ReviewTextWordCount: body.WordCount,
		ProcessedOverall:    overall.Text,
		OverallTokens:       overall.Tokens,
		OverallWordCount:    overall.WordCount,
		TotalWordCount:      summary.WordCount + body.WordCount + overall.WordCount,

		ProcessingStage: reviewpipe.StagePreprocessed,
	}

	key := reviewpipe.ProcessedKey(doc.ReviewID)
	if err := p.writeDocument(ctx, p.settings.ProcessedBucket, key, doc); err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "review preprocessed",
		"review_id", doc.ReviewID, "total_word_count", doc.TotalWordCount, "trace_id", TraceID(ctx))
	p.emitStageCompleted(ctx, doc, p.settings.ProcessedBucket, key)
	return doc, nil
}

// CheckProfanity runs the second transition on a preprocessed document:
// every original text field is checked against the detector, flagged
// reviews count one violation against their author, and the document
// routes to exactly one of clean or flagged storage. The counter
// increment is the only non-idempotent effect in the pipeline; it runs
// before the storage write so the stored document carries the
// post-increment count.
func (p *Processor) CheckProfanity(ctx context.Context, doc *reviewpipe.Document) (*reviewpipe.Document, error) {
	// Redelivery of an already-checked document replays the transition;
	// only a further-advanced document conflicts.
	switch doc.ProcessingStage {
	case reviewpipe.StagePreprocessed, reviewpipe.StageProfanityChecked:
	default:
		return nil, fmt.Errorf("%w: profanity check needs %q, document is %q",
			reviewpipe.ErrStageConflict, reviewpipe.StagePreprocessed, doc.ProcessingStage)
	}

	analysis, err := p.checkFields(ctx, doc)
	if err != nil {
		return nil, err
	}

	if analysis.ContainsProfanity {
		// Reviews without an author identity still route to flagged
		// storage, but there is no counter to attribute them to.
		if doc.ReviewerID != "" {
			v, verr := p.ledger.RecordViolation(ctx, doc.ReviewerID)
			if verr != nil {
				// Non-fatal: the review still routes to flagged storage
				// with a zero count. The author is under-counted by one.
				p.logger.ErrorContext(ctx, "violation count failed",
					"review_id", doc.ReviewID, "reviewer_id", doc.ReviewerID,
					"error", verr, "trace_id", TraceID(ctx))
			}
			analysis.ProfanityCount = v.Count
			analysis.ReviewerBanned = v.Banned
			if v.Banned {
				p.logger.WarnContext(ctx, "reviewer banned",
					"reviewer_id", doc.ReviewerID, "violation_count", v.Count,
					"threshold", p.ledger.Threshold(), "trace_id", TraceID(ctx))
				p.emitAuthorBanned(ctx, doc, v)
			}
		}
		p.emitReviewFlagged(ctx, doc, analysis)
	}

	doc.Profanity = analysis
	doc.ProcessingStage = reviewpipe.StageProfanityChecked

	bucket := p.settings.CleanBucket
	if analysis.ContainsProfanity {
		bucket = p.settings.FlaggedBucket
	}
	key := reviewpipe.DestinationKey(doc.ReviewID, analysis.ContainsProfanity)
	if err := p.writeDocument(ctx, bucket, key, doc); err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "profanity checked",
		"review_id", doc.ReviewID, "contains_profanity", analysis.ContainsProfanity,
		"violation_count", analysis.ProfanityCount, "banned", analysis.ReviewerBanned,
		"trace_id", TraceID(ctx))
	p.emitStageCompleted(ctx, doc, bucket, key)
	return doc, nil
}

// CheckProfanityID loads the preprocessed document for a review and
// runs CheckProfanity on it.
func (p *Processor) CheckProfanityID(ctx context.Context, reviewID string) (*reviewpipe.Document, error) {
	doc, err := p.readDocument(ctx, p.settings.ProcessedBucket, reviewpipe.ProcessedKey(reviewID))
	if err != nil {
		return nil, err
	}
	return p.CheckProfanity(ctx, doc)
}

// checkFields runs the detector over the three original fields and
// folds the verdicts into one analysis. Detection uses the original
// text, not the normalized tokens, so censoring aligns with what the
// reviewer actually wrote.
func (p *Processor) checkFields(ctx context.Context, doc *reviewpipe.Document) (*reviewpipe.ProfanityAnalysis, error) {
	summary, err := p.detector.Check(ctx, doc.OriginalSummary)
	if err != nil {
		return nil, err
	}
	body, err := p.detector.Check(ctx, doc.OriginalReviewText)
	if err != nil {
		return nil, err
	}
	overall, err := p.detector.Check(ctx, doc.OriginalOverall)
	if err != nil {
		return nil, err
	}

	analysis := &reviewpipe.ProfanityAnalysis{
		ContainsProfanity: summary.ContainsProfanity || body.ContainsProfanity || overall.ContainsProfanity,
		CensoredText:      summary.CensoredText + "\n" + body.CensoredText + "\n" + overall.CensoredText,
		Summary:           summary,
		ReviewText:        body,
		Overall:           overall,
	}

	seen := make(map[string]struct{})
	for _, verdict := range []reviewpipe.FieldVerdict{summary, body, overall} {
		for _, word := range verdict.ProfanityWords {
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			analysis.ProfanityWords = append(analysis.ProfanityWords, word)
		}
	}
	sort.Strings(analysis.ProfanityWords)
	return analysis, nil
}

// AnalyzeSentiment runs the final transition on a profanity-checked
// document: per-field scores over the normalized tokens, a
// token-count-weighted aggregate, and the label. The finished document
// lands in final storage.
func (p *Processor) AnalyzeSentiment(ctx context.Context, doc *reviewpipe.Document) (*reviewpipe.Document, error) {
	switch doc.ProcessingStage {
	case reviewpipe.StageProfanityChecked, reviewpipe.StageSentimentAnalyzed:
	default:
		return nil, fmt.Errorf("%w: sentiment analysis needs %q, document is %q",
			reviewpipe.ErrStageConflict, reviewpipe.StageProfanityChecked, doc.ProcessingStage)
	}

	summary := p.scorer.Score(doc.SummaryTokens)
	body := p.scorer.Score(doc.ReviewTextTokens)
	overall := p.scorer.Score(doc.OverallTokens)

	compound, label := sentiment.Aggregate(
		[]reviewpipe.SentimentScores{summary, body, overall},
		[]int{doc.SummaryWordCount, doc.ReviewTextWordCount, doc.OverallWordCount},
	)

	doc.Sentiment = &reviewpipe.SentimentAnalysis{
		Summary:    summary,
		ReviewText: body,
		Overall:    overall,
		Aggregate:  compound,
		Label:      label,
	}
	doc.ProcessingStage = reviewpipe.StageSentimentAnalyzed

	key := reviewpipe.AnalyzedKey(doc.ReviewID)
	if err := p.writeDocument(ctx, p.settings.FinalBucket, key, doc); err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "sentiment analyzed",
		"review_id", doc.ReviewID, "label", label, "compound", compound,
		"trace_id", TraceID(ctx))
	p.emitStageCompleted(ctx, doc, p.settings.FinalBucket, key)
	p.emitReviewCompleted(ctx, doc)
	return doc, nil
}

// AnalyzeSentimentID loads the stage-two document for a review from
// clean or flagged storage and runs AnalyzeSentiment on it.
func (p *Processor) AnalyzeSentimentID(ctx context.Context, reviewID string, flagged bool) (*reviewpipe.Document, error) {
	bucket := p.settings.CleanBucket
	if flagged {
		bucket = p.settings.FlaggedBucket
	}
	doc, err := p.readDocument(ctx, bucket, reviewpipe.DestinationKey(reviewID, flagged))
	if err != nil {
		return nil, err
	}
	return p.AnalyzeSentiment(ctx, doc)
}

// Process runs one raw review payload through all three transitions.
func (p *Processor) Process(ctx context.Context, payload []byte) (*reviewpipe.Document, error) {
	doc, err := p.Preprocess(ctx, payload)
	if err != nil {
		return nil, err
	}
	if doc, err = p.CheckProfanity(ctx, doc); err != nil {
		return nil, err
	}
	return p.AnalyzeSentiment(ctx, doc)
}

func (p *Processor) readDocument(ctx context.Context, bucket, key string) (*reviewpipe.Document, error) {
	data, err := p.store.Get(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	doc, err := reviewpipe.UnmarshalDocument(data)
	if err != nil {
		return nil, reviewpipe.NewMalformedInputError(bucket+"/"+key, err)
	}
	return doc, nil
}

func (p *Processor) writeDocument(ctx context.Context, bucket, key string, doc *reviewpipe.Document) error {
	data, err := reviewpipe.MarshalDocument(doc)
	if err != nil {
		return err
	}
	return p.store.Put(ctx, bucket, key, data)
}

// Hook emission. Failures are logged and swallowed; observation never
// fails a transition.

func (p *Processor) emitStageCompleted(ctx context.Context, doc *reviewpipe.Document, bucket, key string) {
	err := p.hooks.OnStageCompleted(ctx, hooks.StageCompletedEvent{
		ReviewID:  doc.ReviewID,
		Stage:     doc.ProcessingStage,
		Bucket:    bucket,
		Key:       key,
		TraceID:   TraceID(ctx),
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		p.logger.WarnContext(ctx, "stage completed hook failed", "review_id", doc.ReviewID, "error", err)
	}
}

func (p *Processor) emitReviewFlagged(ctx context.Context, doc *reviewpipe.Document, analysis *reviewpipe.ProfanityAnalysis) {
	err := p.hooks.OnReviewFlagged(ctx, hooks.ReviewFlaggedEvent{
		ReviewID:       doc.ReviewID,
		ReviewerID:     doc.ReviewerID,
		ProfanityWords: analysis.ProfanityWords,
		ViolationCount: analysis.ProfanityCount,
		TraceID:        TraceID(ctx),
		Timestamp:      time.Now().UTC(),
	})
	if err != nil {
		p.logger.WarnContext(ctx, "review flagged hook failed", "review_id", doc.ReviewID, "error", err)
	}
}

func (p *Processor) emitAuthorBanned(ctx context.Context, doc *reviewpipe.Document, v ledger.Violation) {
	err := p.hooks.OnAuthorBanned(ctx, hooks.AuthorBannedEvent{
		ReviewerID:     doc.ReviewerID,
		ViolationCount: v.Count,
		Threshold:      p.ledger.Threshold(),
		TraceID:        TraceID(ctx),
		Timestamp:      time.Now().UTC(),
	})
	if err != nil {
		p.logger.WarnContext(ctx, "author banned hook failed", "reviewer_id", doc.ReviewerID, "error", err)
	}
}

func (p *Processor) emitReviewCompleted(ctx context.Context, doc *reviewpipe.Document) {
	err := p.hooks.OnReviewCompleted(ctx, hooks.ReviewCompletedEvent{
		ReviewID:          doc.ReviewID,
		Label:             doc.Sentiment.Label,
		Compound:          doc.Sentiment.Aggregate,
		ContainsProfanity: doc.Profanity != nil && doc.Profanity.ContainsProfanity,
		TraceID:           TraceID(ctx),
		Timestamp:         time.Now().UTC(),
	})
	if err != nil {
		p.logger.WarnContext(ctx, "review completed hook failed", "review_id", doc.ReviewID, "error", err)
	}
}
