// Package config resolves pipeline settings from a pluggable store.
// Missing values fall back to documented defaults; every fallback is
// logged as a warning so a misdeployed parameter set is visible without
// failing the pipeline.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	reviewpipe "github.com/heibot/reviewpipe"
)

// Well-known configuration keys.
const (
	KeyRawBucket       = "raw_bucket"
	KeyProcessedBucket = "processed_bucket"
	KeyCleanBucket     = "clean_bucket"
	KeyFlaggedBucket   = "flagged_bucket"
	KeyFinalBucket     = "final_bucket"
	KeyBanThreshold    = "ban_threshold"
	KeyVocabularyKey   = "vocabulary_key"
)

// Store supplies configuration values by name. A missing value is
// reported as reviewpipe.ErrConfigMissing (wrapped); any other failure
// is treated the same way by Load, which only distinguishes "got a
// value" from "did not".
type Store interface {
	GetValue(ctx context.Context, name string) (string, error)
}

// EnvStore reads configuration from environment variables. Keys are
// upper-cased and prefixed, so "ban_threshold" with prefix "REVIEWPIPE"
// reads REVIEWPIPE_BAN_THRESHOLD.
type EnvStore struct {
	Prefix string
}

// GetValue implements Store.
func (s EnvStore) GetValue(_ context.Context, name string) (string, error) {
	env := strings.ToUpper(name)
	if s.Prefix != "" {
		env = s.Prefix + "_" + env
	}
	v, ok := os.LookupEnv(env)
	if !ok {
		return "", fmt.Errorf("%w: %s", reviewpipe.ErrConfigMissing, env)
	}
	return v, nil
}

// StaticStore serves configuration from a fixed map, mainly for tests
// and examples.
type StaticStore map[string]string

// GetValue implements Store.
func (s StaticStore) GetValue(_ context.Context, name string) (string, error) {
	v, ok := s[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", reviewpipe.ErrConfigMissing, name)
	}
	return v, nil
}

// FileStore serves configuration from a YAML file of flat string
// key/value pairs, loaded once at construction.
type FileStore struct {
	values map[string]string
}

// NewFileStore loads a YAML configuration file.
func NewFileStore(path string) (*FileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, reviewpipe.NewCollaboratorError("config", "read", err)
	}
	values := make(map[string]string)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, reviewpipe.NewCollaboratorError("config", "parse", err)
	}
	return &FileStore{values: values}, nil
}

// GetValue implements Store.
func (s *FileStore) GetValue(_ context.Context, name string) (string, error) {
	v, ok := s.values[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", reviewpipe.ErrConfigMissing, name)
	}
	return v, nil
}

// Settings is the fully resolved pipeline configuration.
type Settings struct {
	RawBucket       string
	ProcessedBucket string
	CleanBucket     string
	FlaggedBucket   string
	FinalBucket     string
	BanThreshold    int64

	// VocabularyKey locates the profanity word list in the object
	// store. Empty means use the built-in vocabulary.
	VocabularyKey string
}

// Defaults returns the settings used when no store value is present.
func Defaults() Settings {
	return Settings{
		RawBucket:       reviewpipe.DefaultRawBucket,
		ProcessedBucket: reviewpipe.DefaultProcessedBucket,
		CleanBucket:     reviewpipe.DefaultCleanBucket,
		FlaggedBucket:   reviewpipe.DefaultFlaggedBucket,
		FinalBucket:     reviewpipe.DefaultFinalBucket,
		BanThreshold:    reviewpipe.DefaultBanThreshold,
	}
}

// Load resolves every known key against store, falling back to
// Defaults for anything missing or malformed. Each fallback logs a
// warning; Load itself never fails. A nil store resolves everything
// to defaults.
func Load(ctx context.Context, store Store, logger *slog.Logger) Settings {
	if logger == nil {
		logger = slog.Default()
	}
	s := Defaults()
	if store == nil {
		logger.WarnContext(ctx, "no config store, using defaults")
		return s
	}

	resolve := func(key string, dst *string) {
		v, err := store.GetValue(ctx, key)
		if err != nil {
			logger.WarnContext(ctx, "config value missing, using default",
				"key", key, "default", *dst, "error", err)
			return
		}
		*dst = v
	}

	resolve(KeyRawBucket, &s.RawBucket)
	resolve(KeyProcessedBucket, &s.ProcessedBucket)
	resolve(KeyCleanBucket, &s.CleanBucket)
	resolve(KeyFlaggedBucket, &s.FlaggedBucket)
	resolve(KeyFinalBucket, &s.FinalBucket)
	resolve(KeyVocabularyKey, &s.VocabularyKey)

	if v, err := store.GetValue(ctx, KeyBanThreshold); err != nil {
		logger.WarnContext(ctx, "config value missing, using default",
			"key", KeyBanThreshold, "default", s.BanThreshold, "error", err)
	} else if n, perr := strconv.ParseInt(v, 10, 64); perr != nil || n <= 0 {
		logger.WarnContext(ctx, "config value invalid, using default",
			"key", KeyBanThreshold, "value", v, "default", s.BanThreshold)
	} else {
		s.BanThreshold = n
	}

	return s
}
