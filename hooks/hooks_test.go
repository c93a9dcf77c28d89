package hooks

import (
	"context"
	"errors"
	"testing"
)

func TestChainHooks_CallsAllInOrder(t *testing.T) {
	var calls []string
	mk := func(name string) Hooks {
		return FuncHooks{
			OnStageCompletedFunc: func(context.Context, StageCompletedEvent) error {
				calls = append(calls, name)
				return nil
			},
		}
	}

	ch := ChainHooks{mk("first"), mk("second")}
	if err := ch.OnStageCompleted(context.Background(), StageCompletedEvent{}); err != nil {
		t.Fatalf("OnStageCompleted() error = %v", err)
	}

	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Errorf("calls = %v, want [first second]", calls)
	}
}

func TestChainHooks_StopsOnError(t *testing.T) {
	wantErr := errors.New("boom")
	called := false

	ch := ChainHooks{
		FuncHooks{OnReviewFlaggedFunc: func(context.Context, ReviewFlaggedEvent) error {
			return wantErr
		}},
		FuncHooks{OnReviewFlaggedFunc: func(context.Context, ReviewFlaggedEvent) error {
			called = true
			return nil
		}},
	}

	if err := ch.OnReviewFlagged(context.Background(), ReviewFlaggedEvent{}); !errors.Is(err, wantErr) {
		t.Errorf("OnReviewFlagged() error = %v, want %v", err, wantErr)
	}
	if called {
		t.Error("second hook called after first failed")
	}
}

func TestFuncHooks_NilFuncsAreNoops(t *testing.T) {
	fh := FuncHooks{}
	ctx := context.Background()

	if err := fh.OnStageCompleted(ctx, StageCompletedEvent{}); err != nil {
		t.Errorf("OnStageCompleted() error = %v", err)
	}
	if err := fh.OnReviewFlagged(ctx, ReviewFlaggedEvent{}); err != nil {
		t.Errorf("OnReviewFlagged() error = %v", err)
	}
	if err := fh.OnAuthorBanned(ctx, AuthorBannedEvent{}); err != nil {
		t.Errorf("OnAuthorBanned() error = %v", err)
	}
	if err := fh.OnReviewCompleted(ctx, ReviewCompletedEvent{}); err != nil {
		t.Errorf("OnReviewCompleted() error = %v", err)
	}
}
