package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"talentscout/internal/ai"
	"talentscout/internal/errors"
	"talentscout/internal/types"
)

// stubProvider lets each test script the structuring outcome.
type stubProvider struct {
	record types.StructuredJobRecord
	usage  *ai.TokenUsage
	err    error
	calls  int
}

func (s *stubProvider) StructureJob(_ context.Context, _ types.StructureJobInput) (types.StructuredJobRecord, *ai.TokenUsage, error) {
	s.calls++
	return s.record, s.usage, s.err
}

func (s *stubProvider) GenerateSearchPrompt(_ context.Context, _ types.GeneratePromptInput) (string, *ai.TokenUsage, error) {
	return "", nil, nil
}

func (s *stubProvider) ScoreCandidate(_ context.Context, _ types.ScoreCandidateInput) (types.CandidateScore, *ai.TokenUsage, error) {
	return types.CandidateScore{}, nil, nil
}

func (s *stubProvider) GetModelInfo(_ context.Context) *ai.ModelInfo { return nil }

func (s *stubProvider) Close() error { return nil }

var structurerTestLogger = errors.NewLogger(slog.LevelError)

const sampleJobText = `Senior Backend Engineer
Company: Acme Corp
Location: Bangalore
5+ years of experience with Python and AWS.

Requirements:
- Strong knowledge of distributed systems
- Experience with PostgreSQL databases

Responsibilities:
- Design and build backend services
- Mentor junior engineers on the team`

func TestStructureSemanticSuccess(t *testing.T) {
	provider := &stubProvider{
		record: types.StructuredJobRecord{
			JobTitle:       types.StrPtr("Senior Backend Engineer"),
			JobDescription: "Backend role building distributed systems.",
			SkillsRequired: []string{"Python", "Aws"},
		},
		usage: &ai.TokenUsage{InputTokens: 100, OutputTokens: 50, TotalTokens: 150},
	}

	s := NewStructurer(provider, structurerTestLogger)
	record, err := s.Structure(context.Background(), sampleJobText, types.ContentTypeText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.FallbackUsed {
		t.Error("expected FallbackUsed=false on the semantic path")
	}
	if types.StrVal(record.JobTitle) != "Senior Backend Engineer" {
		t.Errorf("unexpected job title: %q", types.StrVal(record.JobTitle))
	}
	if record.RawText != strings.TrimSpace(sampleJobText) {
		t.Error("record should carry the trimmed raw text")
	}
	if record.ContentType != types.ContentTypeText {
		t.Errorf("content type = %q, want %q", record.ContentType, types.ContentTypeText)
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1", provider.calls)
	}
}

func TestStructureFallbackOnProviderError(t *testing.T) {
	provider := &stubProvider{
		err: fmt.Errorf("model unavailable"),
	}

	s := NewStructurer(provider, structurerTestLogger)
	record, err := s.Structure(context.Background(), sampleJobText, types.ContentTypeText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !record.FallbackUsed {
		t.Error("expected FallbackUsed=true after a provider failure")
	}
	if !strings.Contains(types.StrVal(record.JobTitle), "Senior Backend Engineer") {
		t.Errorf("rule-based title = %q", types.StrVal(record.JobTitle))
	}
	if len(record.SkillsRequired) == 0 {
		t.Error("rule-based extraction should still find skills")
	}
	if record.RawText != strings.TrimSpace(sampleJobText) {
		t.Error("record should carry the trimmed raw text")
	}
}

func TestStructureFallbackOnEmptyDescription(t *testing.T) {
	provider := &stubProvider{
		record: types.StructuredJobRecord{
			JobTitle:       types.StrPtr("Ghost Role"),
			JobDescription: "   ",
		},
	}

	s := NewStructurer(provider, structurerTestLogger)
	record, err := s.Structure(context.Background(), sampleJobText, types.ContentTypeText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !record.FallbackUsed {
		t.Error("an empty job description should trigger the rule-based path")
	}
	if types.StrVal(record.JobTitle) == "Ghost Role" {
		t.Error("the rejected semantic record should not leak through")
	}
}

func TestStructureNilProvider(t *testing.T) {
	s := NewStructurer(nil, structurerTestLogger)
	record, err := s.Structure(context.Background(), sampleJobText, types.ContentTypePDF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !record.FallbackUsed {
		t.Error("a nil provider must force the rule-based path")
	}
	if record.ContentType != types.ContentTypePDF {
		t.Errorf("content type = %q, want %q", record.ContentType, types.ContentTypePDF)
	}
}

func TestStructureEmptyInput(t *testing.T) {
	provider := &stubProvider{}
	s := NewStructurer(provider, structurerTestLogger)

	for _, input := range []string{"", "   ", "\n\t\n"} {
		_, err := s.Structure(context.Background(), input, types.ContentTypeText)
		if err == nil {
			t.Errorf("input %q: expected an error", input)
			continue
		}
		appErr, ok := err.(*errors.AppError)
		if !ok {
			t.Errorf("input %q: expected *errors.AppError, got %T", input, err)
			continue
		}
		if appErr.Code != errors.ErrCodeNoExtractableText {
			t.Errorf("input %q: code = %q, want %q", input, appErr.Code, errors.ErrCodeNoExtractableText)
		}
	}
	if provider.calls != 0 {
		t.Errorf("provider should not be called for empty input, got %d calls", provider.calls)
	}
}
