// Package hooks provides the hook interface for observing pipeline events.
package hooks

import (
	"context"
)

// Hooks defines the interface for handling pipeline events.
// Implement this interface to receive notifications as reviews move
// through the stages. Hook errors are logged by the pipeline but never
// fail a transition.
type Hooks interface {
	// OnStageCompleted is called after each successful stage transition.
	OnStageCompleted(ctx context.Context, e StageCompletedEvent) error

	// OnReviewFlagged is called when profanity is found in a review.
	OnReviewFlagged(ctx context.Context, e ReviewFlaggedEvent) error

	// OnAuthorBanned is called when a reviewer crosses the ban threshold.
	OnAuthorBanned(ctx context.Context, e AuthorBannedEvent) error

	// OnReviewCompleted is called when a review finishes the pipeline.
	OnReviewCompleted(ctx context.Context, e ReviewCompletedEvent) error
}

// NopHooks is a no-op implementation of Hooks.
type NopHooks struct{}

// OnStageCompleted does nothing.
func (NopHooks) OnStageCompleted(ctx context.Context, e StageCompletedEvent) error {
	return nil
}

// OnReviewFlagged does nothing.
func (NopHooks) OnReviewFlagged(ctx context.Context, e ReviewFlaggedEvent) error {
	return nil
}

// OnAuthorBanned does nothing.
func (NopHooks) OnAuthorBanned(ctx context.Context, e AuthorBannedEvent) error {
	return nil
}

// OnReviewCompleted does nothing.
func (NopHooks) OnReviewCompleted(ctx context.Context, e ReviewCompletedEvent) error {
	return nil
}

// Ensure NopHooks implements Hooks.
var _ Hooks = NopHooks{}

// ChainHooks chains multiple Hooks implementations.
type ChainHooks []Hooks

// OnStageCompleted calls all hooks in order.
func (ch ChainHooks) OnStageCompleted(ctx context.Context, e StageCompletedEvent) error {
	for _, h := range ch {
		if err := h.OnStageCompleted(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// OnReviewFlagged calls all hooks in order.
func (ch ChainHooks) OnReviewFlagged(ctx context.Context, e ReviewFlaggedEvent) error {
	for _, h := range ch {
		if err := h.OnReviewFlagged(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// OnAuthorBanned calls all hooks in order.
func (ch ChainHooks) OnAuthorBanned(ctx context.Context, e AuthorBannedEvent) error {
	for _, h := range ch {
		if err := h.OnAuthorBanned(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// OnReviewCompleted calls all hooks in order.
func (ch ChainHooks) OnReviewCompleted(ctx context.Context, e ReviewCompletedEvent) error {
	for _, h := range ch {
		if err := h.OnReviewCompleted(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// FuncHooks allows using functions as hooks.
type FuncHooks struct {
	OnStageCompletedFunc  func(ctx context.Context, e StageCompletedEvent) error
	OnReviewFlaggedFunc   func(ctx context.Context, e ReviewFlaggedEvent) error
	OnAuthorBannedFunc    func(ctx context.Context, e AuthorBannedEvent) error
	OnReviewCompletedFunc func(ctx context.Context, e ReviewCompletedEvent) error
}

// OnStageCompleted calls the function if set.
func (fh FuncHooks) OnStageCompleted(ctx context.Context, e StageCompletedEvent) error {
	if fh.OnStageCompletedFunc != nil {
		return fh.OnStageCompletedFunc(ctx, e)
	}
	return nil
}

// OnReviewFlagged calls the function if set.
func (fh FuncHooks) OnReviewFlagged(ctx context.Context, e ReviewFlaggedEvent) error {
	if fh.OnReviewFlaggedFunc != nil {
		return fh.OnReviewFlaggedFunc(ctx, e)
	}
	return nil
}

// OnAuthorBanned calls the function if set.
func (fh FuncHooks) OnAuthorBanned(ctx context.Context, e AuthorBannedEvent) error {
	if fh.OnAuthorBannedFunc != nil {
		return fh.OnAuthorBannedFunc(ctx, e)
	}
	return nil
}

// OnReviewCompleted calls the function if set.
func (fh FuncHooks) OnReviewCompleted(ctx context.Context, e ReviewCompletedEvent) error {
	if fh.OnReviewCompletedFunc != nil {
		return fh.OnReviewCompletedFunc(ctx, e)
	}
	return nil
}
