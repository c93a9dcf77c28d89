// Package main demonstrates how to use the reviewpipe moderation pipeline.
//
// This example shows:
// 1. Initializing the violation counter over MySQL
// 2. Wiring a cloud profanity detector with a local fallback
// 3. Observing pipeline events via hooks
// 4. Running a batch of raw reviews through all three stages
package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"

	"github.com/heibot/reviewpipe/config"
	"github.com/heibot/reviewpipe/hooks"
	sqlstore "github.com/heibot/reviewpipe/ledger/sql"
	"github.com/heibot/reviewpipe/objstore"
	"github.com/heibot/reviewpipe/pipeline"
	"github.com/heibot/reviewpipe/profanity"
	"github.com/heibot/reviewpipe/utils"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// ============================================================
	// Step 1: Initialize the Violation Counter
	// ============================================================
	db, err := sql.Open("mysql", "user:password@tcp(localhost:3306)/reviewpipe?parseTime=true")
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	counter := sqlstore.NewWithDB(db, sqlstore.DialectMySQL)
	if err := counter.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate counter store: %v", err)
	}

	// ============================================================
	// Step 2: Initialize the Object Store
	// ============================================================
	// The in-memory store keeps the example self-contained; swap in
	// objstore.NewFSStore or objstore.NewGCSStore for real storage.
	store := objstore.NewMemoryStore()

	raw := `{"reviewer_id": "R1", "asin": "B001", "overall": 5, "summary": "Great product!", "reviewText": "Excellent quality"}
{"reviewer_id": "R2", "asin": "B002", "overall": 1, "summary": "This is shit", "reviewText": "Damn awful product"}`
	if err := store.Put(ctx, "raw-reviews", "batch-0001.jsonl", []byte(raw)); err != nil {
		log.Fatalf("Failed to seed raw reviews: %v", err)
	}

	// ============================================================
	// Step 3: Initialize the Profanity Detector
	// ============================================================
	cloud, err := profanity.NewAliyunDetector(profanity.AliyunConfig{
		AccessKeyID:     "your-aliyun-access-key",
		AccessKeySecret: "your-aliyun-secret",
		Region:          "cn-shanghai",
		Endpoint:        "green-cip.cn-shanghai.aliyuncs.com",
		Service:         "comment_detection",
	})
	if err != nil {
		log.Fatalf("Failed to create aliyun detector: %v", err)
	}

	// The resilient wrapper degrades to the local keyword list when the
	// cloud endpoint is unreachable, so this example runs offline too.
	detector := profanity.NewResilientDetector(cloud, nil, logger)

	// ============================================================
	// Step 4: Implement Business Hooks
	// ============================================================
	myHooks := hooks.FuncHooks{
		OnReviewFlaggedFunc: func(ctx context.Context, e hooks.ReviewFlaggedEvent) error {
			log.Printf("[Hook] Review %s flagged, words=%v count=%d",
				e.ReviewID, e.ProfanityWords, e.ViolationCount)
			return nil
		},
		OnAuthorBannedFunc: func(ctx context.Context, e hooks.AuthorBannedEvent) error {
			log.Printf("[Hook] Reviewer %s banned at %d violations (threshold %d)",
				e.ReviewerID, e.ViolationCount, e.Threshold)
			return nil
		},
		OnReviewCompletedFunc: func(ctx context.Context, e hooks.ReviewCompletedEvent) error {
			log.Printf("[Hook] Review %s completed, label=%s compound=%.2f",
				e.ReviewID, e.Label, e.Compound)
			return nil
		},
	}

	// ============================================================
	// Step 5: Build the Processor
	// ============================================================
	proc, err := pipeline.New(ctx, pipeline.Options{
		Store:    store,
		Counter:  counter,
		Config:   config.StaticStore{config.KeyBanThreshold: "3"},
		Detector: detector,
		Hooks:    myHooks,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("Failed to create processor: %v", err)
	}

	// ============================================================
	// Step 6: Run the Batch
	// ============================================================
	worker := pipeline.NewWorker(proc, pipeline.WorkerOptions{
		Concurrency: 4,
		Retry:       utils.DefaultRetryConfig(),
	})

	result, err := worker.RunBucket(ctx, "")
	if err != nil {
		log.Fatalf("Batch run failed: %v", err)
	}
	log.Printf("Batch done: processed=%d flagged=%d skipped=%d failed=%d",
		result.Processed, result.Flagged, result.Skipped, len(result.Failed))

	// Finished documents land in the final bucket under analyzed/.
	keys, err := store.List(ctx, proc.Settings().FinalBucket, "analyzed/")
	if err != nil {
		log.Fatalf("Failed to list final bucket: %v", err)
	}
	for _, key := range keys {
		data, err := store.Get(ctx, proc.Settings().FinalBucket, key)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", key, err)
		}
		log.Printf("Final document %s:\n%s", key, data)
	}
}
