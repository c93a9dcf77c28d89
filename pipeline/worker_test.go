package pipeline

import (
	"context"
	"testing"

	reviewpipe "github.com/heibot/reviewpipe"
)

func seedRaw(t *testing.T, proc *Processor, key, content string) {
	t.Helper()
	if err := proc.store.Put(context.Background(), proc.settings.RawBucket, key, []byte(content)); err != nil {
		t.Fatalf("seed %s: %v", key, err)
	}
}

func TestWorker_Run(t *testing.T) {
	ctx := context.Background()
	proc, store, _ := newTestProcessor(t, Options{})
	w := NewWorker(proc, WorkerOptions{Concurrency: 3})

	seedRaw(t, proc, "a.json", cleanReview)
	seedRaw(t, proc, "b.json", profaneReview)

	result, err := w.Run(ctx, []string{"a.json", "b.json"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Processed != 2 {
		t.Errorf("Processed = %d, want 2", result.Processed)
	}
	if result.Flagged != 1 {
		t.Errorf("Flagged = %d, want 1", result.Flagged)
	}
	if result.Skipped != 0 || len(result.Failed) != 0 {
		t.Errorf("Skipped = %d, Failed = %v, want none", result.Skipped, result.Failed)
	}

	if _, err := store.Get(ctx, reviewpipe.DefaultFinalBucket, "analyzed/B001_R1.json"); err != nil {
		t.Errorf("final document for clean review missing: %v", err)
	}
	if _, err := store.Get(ctx, reviewpipe.DefaultFinalBucket, "analyzed/B002_R2.json"); err != nil {
		t.Errorf("final document for flagged review missing: %v", err)
	}
}

func TestWorker_RunJSONLObject(t *testing.T) {
	proc, _, _ := newTestProcessor(t, Options{})
	w := NewWorker(proc, WorkerOptions{})

	seedRaw(t, proc, "batch.jsonl", cleanReview+"\n"+profaneReview+"\n")

	result, err := w.Run(context.Background(), []string{"batch.jsonl"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Processed != 2 {
		t.Errorf("Processed = %d, want 2", result.Processed)
	}
	if result.Flagged != 1 {
		t.Errorf("Flagged = %d, want 1", result.Flagged)
	}
}

func TestWorker_MalformedReviewSkipped(t *testing.T) {
	proc, _, _ := newTestProcessor(t, Options{})
	w := NewWorker(proc, WorkerOptions{})

	seedRaw(t, proc, "mixed.jsonl", cleanReview+"\nnot json\n")

	result, err := w.Run(context.Background(), []string{"mixed.jsonl"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Processed != 1 {
		t.Errorf("Processed = %d, want 1", result.Processed)
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
	if len(result.Failed) != 0 {
		t.Errorf("Failed = %v, want none", result.Failed)
	}
}

func TestWorker_MissingObjectReported(t *testing.T) {
	proc, _, _ := newTestProcessor(t, Options{})
	w := NewWorker(proc, WorkerOptions{})

	result, err := w.Run(context.Background(), []string{"absent.json"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Failed) != 1 {
		t.Fatalf("Failed = %v, want one entry", result.Failed)
	}
	if ferr := result.Failed["absent.json"]; !reviewpipe.IsNotFound(ferr) {
		t.Errorf("Failed[absent.json] = %v, want ErrNotFound", ferr)
	}
}

func TestWorker_RunBucket(t *testing.T) {
	proc, _, _ := newTestProcessor(t, Options{})
	w := NewWorker(proc, WorkerOptions{})

	seedRaw(t, proc, "a.json", cleanReview)
	seedRaw(t, proc, "b.json", profaneReview)

	result, err := w.RunBucket(context.Background(), "")
	if err != nil {
		t.Fatalf("RunBucket() error = %v", err)
	}
	if result.Processed != 2 {
		t.Errorf("Processed = %d, want 2", result.Processed)
	}
}

func TestWorker_RunEmpty(t *testing.T) {
	proc, _, _ := newTestProcessor(t, Options{})
	w := NewWorker(proc, WorkerOptions{})

	result, err := w.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Processed != 0 || result.Flagged != 0 || result.Skipped != 0 || len(result.Failed) != 0 {
		t.Errorf("Run(nil) = %+v, want empty result", result)
	}
}

func TestWorker_ContextCancelled(t *testing.T) {
	proc, _, _ := newTestProcessor(t, Options{})
	w := NewWorker(proc, WorkerOptions{Concurrency: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	keys := make([]string, 100)
	for i := range keys {
		keys[i] = "k.json"
	}
	if _, err := w.Run(ctx, keys); err == nil {
		t.Error("Run() error = nil, want context error")
	}
}
