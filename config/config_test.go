package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	reviewpipe "github.com/heibot/reviewpipe"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad_AllDefaults(t *testing.T) {
	s := Load(context.Background(), nil, discard())

	if s != Defaults() {
		t.Errorf("Load(nil) = %+v, want defaults %+v", s, Defaults())
	}
	if s.BanThreshold != reviewpipe.DefaultBanThreshold {
		t.Errorf("BanThreshold = %d, want %d", s.BanThreshold, reviewpipe.DefaultBanThreshold)
	}
}

func TestLoad_StaticStore(t *testing.T) {
	store := StaticStore{
		KeyFlaggedBucket: "my-flagged",
		KeyBanThreshold:  "5",
		KeyVocabularyKey: "config-bucket/profanity_words.txt",
	}

	s := Load(context.Background(), store, discard())

	if s.FlaggedBucket != "my-flagged" {
		t.Errorf("FlaggedBucket = %q, want my-flagged", s.FlaggedBucket)
	}
	if s.BanThreshold != 5 {
		t.Errorf("BanThreshold = %d, want 5", s.BanThreshold)
	}
	if s.VocabularyKey != "config-bucket/profanity_words.txt" {
		t.Errorf("VocabularyKey = %q", s.VocabularyKey)
	}
	// Unset keys keep their defaults.
	if s.CleanBucket != reviewpipe.DefaultCleanBucket {
		t.Errorf("CleanBucket = %q, want default %q", s.CleanBucket, reviewpipe.DefaultCleanBucket)
	}
}

func TestLoad_InvalidThresholdFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not a number", "three"},
		{"zero", "0"},
		{"negative", "-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Load(context.Background(), StaticStore{KeyBanThreshold: tt.value}, discard())
			if s.BanThreshold != reviewpipe.DefaultBanThreshold {
				t.Errorf("BanThreshold = %d, want default %d", s.BanThreshold, reviewpipe.DefaultBanThreshold)
			}
		})
	}
}

func TestEnvStore_GetValue(t *testing.T) {
	t.Setenv("REVIEWPIPE_BAN_THRESHOLD", "7")

	store := EnvStore{Prefix: "REVIEWPIPE"}

	v, err := store.GetValue(context.Background(), KeyBanThreshold)
	if err != nil {
		t.Fatalf("GetValue() error = %v", err)
	}
	if v != "7" {
		t.Errorf("GetValue() = %q, want 7", v)
	}

	if _, err := store.GetValue(context.Background(), "no_such_key"); err == nil {
		t.Error("GetValue() error = nil, want ErrConfigMissing")
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	content := "flagged_bucket: yaml-flagged\nban_threshold: \"4\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	s := Load(context.Background(), store, discard())
	if s.FlaggedBucket != "yaml-flagged" {
		t.Errorf("FlaggedBucket = %q, want yaml-flagged", s.FlaggedBucket)
	}
	if s.BanThreshold != 4 {
		t.Errorf("BanThreshold = %d, want 4", s.BanThreshold)
	}
}

func TestNewFileStore_MissingFile(t *testing.T) {
	if _, err := NewFileStore(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("NewFileStore() error = nil, want error")
	}
}
