package query

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

var synthTestLogger = errors.NewLogger(slog.LevelError)

// promptStub scripts GenerateSearchPrompt per platform.
type promptStub struct {
	prompts map[string]string
	errs    map[string]error
	calls   []string
}

func (p *promptStub) StructureJob(_ context.Context, _ types.StructureJobInput) (types.StructuredJobRecord, *ai.TokenUsage, error) {
	return types.StructuredJobRecord{}, nil, nil
}

func (p *promptStub) GenerateSearchPrompt(_ context.Context, input types.GeneratePromptInput) (string, *ai.TokenUsage, error) {
	p.calls = append(p.calls, input.Platform)
	if err := p.errs[input.Platform]; err != nil {
		return "", nil, err
	}
	return p.prompts[input.Platform], nil, nil
}

func (p *promptStub) ScoreCandidate(_ context.Context, _ types.ScoreCandidateInput) (types.CandidateScore, *ai.TokenUsage, error) {
	return types.CandidateScore{}, nil, nil
}

func (p *promptStub) GetModelInfo(_ context.Context) *ai.ModelInfo { return nil }

func (p *promptStub) Close() error { return nil }

func testRecord() *types.StructuredJobRecord {
	return &types.StructuredJobRecord{
		JobTitle:           types.StrPtr("Senior Backend Engineer"),
		Company:            types.StrPtr("Acme Corp"),
		Location:           types.StrPtr("Bangalore"),
		ExperienceRequired: types.StrPtr("5+"),
		SkillsRequired:     []string{"Python", "Aws", "Docker", "Communication"},
		Requirements:       []string{"Develop backend services", "Good attitude"},
		Responsibilities:   []string{"Build scalable services"},
	}
}

func TestSynthesizeGeneratedPrompts(t *testing.T) {
	stub := &promptStub{
		prompts: map[string]string{
			"network": "Senior Backend Engineer Python AWS Bangalore",
			"code":    "Senior Backend Engineer Python Docker",
		},
	}

	s := NewSynthesizer(stub, synthTestLogger)
	pair := s.Synthesize(context.Background(), testRecord())

	if pair.Network != "Senior Backend Engineer Python AWS Bangalore" {
		t.Errorf("network prompt = %q", pair.Network)
	}
	if pair.Code != "Senior Backend Engineer Python Docker" {
		t.Errorf("code prompt = %q", pair.Code)
	}
	if len(stub.calls) != 2 || stub.calls[0] != "network" || stub.calls[1] != "code" {
		t.Errorf("calls = %v, want [network code]", stub.calls)
	}
}

func TestSynthesizeIndependentFallback(t *testing.T) {
	stub := &promptStub{
		prompts: map[string]string{
			"network": "Senior Backend Engineer talent in Bangalore",
		},
		errs: map[string]error{
			"code": fmt.Errorf("model unavailable"),
		},
	}

	s := NewSynthesizer(stub, synthTestLogger)
	pair := s.Synthesize(context.Background(), testRecord())

	if pair.Network != "Senior Backend Engineer talent in Bangalore" {
		t.Errorf("network prompt = %q", pair.Network)
	}
	// Code prompt degrades to the template, then the validation pass
	// prepends the title since the template swapped Engineer for Developer.
	want := "Senior Backend Engineer Senior Backend Developer in Bangalore Python"
	if pair.Code != want {
		t.Errorf("code prompt = %q, want %q", pair.Code, want)
	}
}

func TestSynthesizeSkipsProviderAfterRuleBasedExtraction(t *testing.T) {
	stub := &promptStub{}
	record := testRecord()
	record.FallbackUsed = true

	s := NewSynthesizer(stub, synthTestLogger)
	pair := s.Synthesize(context.Background(), record)

	if len(stub.calls) != 0 {
		t.Errorf("provider should not be called for rule-based records, got %v", stub.calls)
	}
	if !strings.Contains(pair.Network, "Senior Backend Engineer") {
		t.Errorf("network prompt = %q", pair.Network)
	}
}

func TestFallbackNetworkPrompt(t *testing.T) {
	got := fallbackNetworkPrompt(testRecord())
	want := "Senior Backend Engineer in Bangalore Python Aws Docker"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Defaults when the record is bare.
	got = fallbackNetworkPrompt(&types.StructuredJobRecord{})
	if got != "Software Engineer in India" {
		t.Errorf("bare record prompt = %q", got)
	}
}

func TestFallbackCodePrompt(t *testing.T) {
	got := fallbackCodePrompt(testRecord())
	want := "Senior Backend Developer in Bangalore Python"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// No recognized languages: fall back to the top-2 general skills.
	record := &types.StructuredJobRecord{
		JobTitle:       types.StrPtr("Data Analyst"),
		SkillsRequired: []string{"Excel", "Tableau", "Sql Server"},
	}
	got = fallbackCodePrompt(record)
	if got != "Data Analyst in India Excel Tableau" {
		t.Errorf("got %q", got)
	}

	got = fallbackCodePrompt(&types.StructuredJobRecord{})
	if got != "Developer in India" {
		t.Errorf("bare record prompt = %q", got)
	}
}

func TestBuildCodeContextFiltersRequirements(t *testing.T) {
	ctx := BuildCodeContext(testRecord())

	if !strings.Contains(ctx, "Develop backend services") {
		t.Error("technical requirement should survive the filter")
	}
	if strings.Contains(ctx, "Good attitude") {
		t.Error("non-technical requirement should be filtered out")
	}
	if !strings.Contains(ctx, "Python, Aws, Docker") {
		t.Errorf("technical skills missing from context:\n%s", ctx)
	}
	if strings.Contains(ctx, "Communication") {
		t.Error("non-technical skill should be filtered out")
	}
}

func TestBuildNetworkContextDefaults(t *testing.T) {
	ctx := BuildNetworkContext(&types.StructuredJobRecord{})
	for _, line := range []string{
		"Job Title: Not specified",
		"Company: Not specified",
		"Location: Not specified",
		"Experience Required: Not specified",
		"Job Type: Not specified",
	} {
		if !strings.Contains(ctx, line) {
			t.Errorf("context missing %q:\n%s", line, ctx)
		}
	}
}

func TestOptimizePromptTruncation(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("engineer ", 40))
	got := OptimizePrompt(long, "")
	if len(strings.Fields(got)) != 25 {
		t.Errorf("want 25 words, got %d", len(strings.Fields(got)))
	}
}

func TestOptimizePromptPrependsTitle(t *testing.T) {
	got := OptimizePrompt("Python AWS Bangalore", "Backend Engineer")
	if got != "Backend Engineer Python AWS Bangalore" {
		t.Errorf("got %q", got)
	}

	// Case-insensitive presence check suppresses the prepend.
	got = OptimizePrompt("backend engineer Python", "Backend Engineer")
	if got != "backend engineer Python" {
		t.Errorf("got %q", got)
	}
}

func TestOptimizePromptIdempotent(t *testing.T) {
	prompts := []string{
		"Python AWS Bangalore",
		strings.TrimSpace(strings.Repeat("distributed systems engineer ", 20)),
		"backend engineer already titled",
		"",
	}
	titles := []string{"", "Backend Engineer", "Senior Distributed Systems Platform Engineer"}

	for _, p := range prompts {
		for _, title := range titles {
			once := OptimizePrompt(p, title)
			twice := OptimizePrompt(once, title)
			if once != twice {
				t.Errorf("not idempotent for prompt %q title %q:\nonce:  %q\ntwice: %q", p, title, once, twice)
			}
		}
	}
}
