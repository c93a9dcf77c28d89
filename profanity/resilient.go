package profanity

import (
	"context"
	"log/slog"

	reviewpipe "github.com/heibot/reviewpipe"
)

// ResilientDetector wraps a primary detector with a local fallback.
// When the primary fails transiently (for example a cloud moderation
// endpoint is unreachable), the fallback keyword detector still
// produces a verdict, so moderation keeps functioning in degraded mode.
type ResilientDetector struct {
	primary  Detector
	fallback Detector
	logger   *slog.Logger
}

// NewResilientDetector wraps primary with fallback. A nil fallback uses
// the default keyword detector; a nil logger uses slog.Default.
func NewResilientDetector(primary, fallback Detector, logger *slog.Logger) *ResilientDetector {
	if fallback == nil {
		fallback = NewKeywordDetector(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ResilientDetector{primary: primary, fallback: fallback, logger: logger}
}

// Check implements Detector. Primary errors that are not transient are
// returned as-is; transient ones degrade to the fallback verdict.
func (d *ResilientDetector) Check(ctx context.Context, text string) (reviewpipe.FieldVerdict, error) {
	verdict, err := d.primary.Check(ctx, text)
	if err == nil {
		return verdict, nil
	}
	if !reviewpipe.IsTransient(err) {
		return reviewpipe.FieldVerdict{}, err
	}
	d.logger.Warn("primary detector failed, using fallback", "error", err)
	return d.fallback.Check(ctx, text)
}
