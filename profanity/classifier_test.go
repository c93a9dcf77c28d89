package profanity

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	reviewpipe "github.com/heibot/reviewpipe"
)

func TestKeywordDetector_Check(t *testing.T) {
	d := NewKeywordDetector(nil)

	tests := []struct {
		name         string
		input        string
		wantFlag     bool
		wantWords    []string
		wantCensored string
	}{
		{
			name:  "empty input",
			input: "",
		},
		{
			name:         "clean text",
			input:        "Great product, love it",
			wantCensored: "Great product, love it",
		},
		{
			name:         "single profane word",
			input:        "This is shit",
			wantFlag:     true,
			wantWords:    []string{"shit"},
			wantCensored: "This is ****",
		},
		{
			name:         "punctuation attached",
			input:        "Damn, what garbage!",
			wantFlag:     true,
			wantWords:    []string{"damn", "garbage"},
			wantCensored: "***** what ********",
		},
		{
			name:         "mixed case",
			input:        "AWFUL product",
			wantFlag:     true,
			wantWords:    []string{"awful"},
			wantCensored: "***** product",
		},
		{
			name:         "repeated word reported once",
			input:        "hate hate hate",
			wantFlag:     true,
			wantWords:    []string{"hate"},
			wantCensored: "**** **** ****",
		},
		{
			name:         "substring does not match",
			input:        "classic shellfish",
			wantCensored: "classic shellfish",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Check(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if got.ContainsProfanity != tt.wantFlag {
				t.Errorf("ContainsProfanity = %v, want %v", got.ContainsProfanity, tt.wantFlag)
			}
			if !reflect.DeepEqual(got.ProfanityWords, tt.wantWords) {
				t.Errorf("ProfanityWords = %v, want %v", got.ProfanityWords, tt.wantWords)
			}
			if got.CensoredText != tt.wantCensored {
				t.Errorf("CensoredText = %q, want %q", got.CensoredText, tt.wantCensored)
			}
		})
	}
}

func TestKeywordDetector_CustomVocabulary(t *testing.T) {
	d := NewKeywordDetector(NewVocabulary("banana"))

	got, err := d.Check(context.Background(), "this shit has a banana")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !reflect.DeepEqual(got.ProfanityWords, []string{"banana"}) {
		t.Errorf("ProfanityWords = %v, want [banana]", got.ProfanityWords)
	}
	if got.CensoredText != "this shit has a ******" {
		t.Errorf("CensoredText = %q", got.CensoredText)
	}
}

func TestReadVocabulary(t *testing.T) {
	input := "# disallowed words\ndamn\n\nShit\n  hell  \n"

	v, err := ReadVocabulary(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadVocabulary() error = %v", err)
	}

	want := []string{"damn", "hell", "shit"}
	if !reflect.DeepEqual(v.Words(), want) {
		t.Errorf("Words() = %v, want %v", v.Words(), want)
	}
}

type stubDetector struct {
	verdict reviewpipe.FieldVerdict
	err     error
}

func (s stubDetector) Check(context.Context, string) (reviewpipe.FieldVerdict, error) {
	return s.verdict, s.err
}

func TestResilientDetector_FallsBackOnTransientError(t *testing.T) {
	primary := stubDetector{err: reviewpipe.NewCollaboratorError("aliyun", "text_moderation", errors.New("timeout"))}
	d := NewResilientDetector(primary, nil, nil)

	got, err := d.Check(context.Background(), "this is shit")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !got.ContainsProfanity {
		t.Error("ContainsProfanity = false, want fallback verdict")
	}
}

func TestResilientDetector_PropagatesNonTransientError(t *testing.T) {
	wantErr := reviewpipe.NewMalformedInputError("k", errors.New("bad payload"))
	primary := stubDetector{err: wantErr}
	d := NewResilientDetector(primary, nil, nil)

	_, err := d.Check(context.Background(), "anything")
	if !errors.Is(err, wantErr) {
		t.Errorf("Check() error = %v, want %v", err, wantErr)
	}
}

func TestResilientDetector_UsesPrimaryVerdict(t *testing.T) {
	primary := stubDetector{verdict: reviewpipe.FieldVerdict{ContainsProfanity: true, CensoredText: "****"}}
	d := NewResilientDetector(primary, nil, nil)

	got, err := d.Check(context.Background(), "damn")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if got.CensoredText != "****" {
		t.Errorf("CensoredText = %q, want primary verdict", got.CensoredText)
	}
}
