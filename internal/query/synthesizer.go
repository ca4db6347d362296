package query

import (
	"context"
	"fmt"
	"strings"

	"talentscout/internal/ai"
	"talentscout/internal/errors"
	"talentscout/internal/types"
)

// maxPromptLength bounds generated search prompts; anything longer is cut
// to its first 25 space-separated words.
const (
	maxPromptLength = 200
	maxPromptWords  = 25
)

// contextTechTerms selects which skills and requirements count as technical
// when building the code-platform context string.
var contextTechTerms = []string{
	"python", "java", "javascript", "react", "node", "sql", "aws", "docker",
	"kubernetes", "git", "api", "database", "framework", "library", "tool",
}

// requirementTechTerms selects requirements worth surfacing to the code platform.
var requirementTechTerms = []string{
	"develop", "code", "program", "build", "implement", "technical",
}

// fallbackTechTerms is the narrower language set used by the deterministic
// code-prompt template.
var fallbackTechTerms = []string{
	"python", "java", "javascript", "react", "node", "go", "rust", "c++",
}

// Synthesizer turns a structured job record into one search prompt per
// sourcing platform. Each platform gets an independent generation attempt;
// a failed attempt degrades to a deterministic template built from the
// record's own fields.
type Synthesizer struct {
	provider ai.AIProvider
	logger   *errors.Logger
}

// NewSynthesizer creates a synthesizer backed by the given provider. A nil
// provider forces the deterministic templates for both platforms.
func NewSynthesizer(provider ai.AIProvider, logger *errors.Logger) *Synthesizer {
	return &Synthesizer{
		provider: provider,
		logger:   logger,
	}
}

// Synthesize produces the network and code search prompts for record. Records
// produced by rule-based extraction skip the generation capability entirely,
// since the upstream failure that forced the fallback would recur here.
func (s *Synthesizer) Synthesize(ctx context.Context, record *types.StructuredJobRecord) types.PromptPair {
	title := types.StrVal(record.JobTitle)

	var network, code string
	if s.provider == nil || record.FallbackUsed {
		s.logger.Debug("Using deterministic prompt templates",
			"fallback_used", record.FallbackUsed)
		network = fallbackNetworkPrompt(record)
		code = fallbackCodePrompt(record)
	} else {
		network = s.generate(ctx, "network", BuildNetworkContext(record), func() string {
			return fallbackNetworkPrompt(record)
		})
		code = s.generate(ctx, "code", BuildCodeContext(record), func() string {
			return fallbackCodePrompt(record)
		})
	}

	return types.PromptPair{
		Network: OptimizePrompt(network, title),
		Code:    OptimizePrompt(code, title),
	}
}

// generate runs one generation attempt and falls back on any failure.
func (s *Synthesizer) generate(ctx context.Context, platform, contextText string, fallback func() string) string {
	prompt, usage, err := s.provider.GenerateSearchPrompt(ctx, types.GeneratePromptInput{
		Platform: platform,
		Context:  contextText,
	})
	if err != nil {
		s.logger.Warn("Search prompt generation failed, using deterministic template",
			"platform", platform,
			"error", err.Error())
		return fallback()
	}

	logArgs := []any{
		"platform", platform,
		"prompt_length", len(prompt),
	}
	if usage != nil {
		logArgs = append(logArgs, "total_tokens", usage.TotalTokens)
	}
	s.logger.Debug("Generated search prompt", logArgs...)

	return prompt
}

// BuildNetworkContext renders the full record for the professional-network
// platform. Absent optional fields read "Not specified".
func BuildNetworkContext(record *types.StructuredJobRecord) string {
	return fmt.Sprintf(`Job Title: %s
Company: %s
Location: %s
Experience Required: %s
Skills Required: %s
Job Type: %s
Key Requirements: %s
Key Responsibilities: %s`,
		orNotSpecified(record.JobTitle),
		orNotSpecified(record.Company),
		orNotSpecified(record.Location),
		orNotSpecified(record.ExperienceRequired),
		strings.Join(record.SkillsRequired, ", "),
		orNotSpecified(record.JobType),
		strings.Join(record.Requirements, ", "),
		strings.Join(record.Responsibilities, ", "))
}

// BuildCodeContext renders the technical subset of the record for the code
// hosting platform. Skills without a recognized technical term fall back to
// the full skill list; requirements are filtered to technical phrasing.
func BuildCodeContext(record *types.StructuredJobRecord) string {
	technical := filterByTerms(record.SkillsRequired, contextTechTerms)
	if len(technical) == 0 {
		technical = record.SkillsRequired
	}
	requirements := filterByTerms(record.Requirements, requirementTechTerms)

	return fmt.Sprintf(`Job Title: %s
Location: %s
Experience Required: %s
Technical Skills Required: %s
Key Technical Requirements: %s`,
		orNotSpecified(record.JobTitle),
		orNotSpecified(record.Location),
		orNotSpecified(record.ExperienceRequired),
		strings.Join(technical, ", "),
		strings.Join(requirements, ", "))
}

// fallbackNetworkPrompt builds the deterministic network prompt:
// title, location, top skills.
func fallbackNetworkPrompt(record *types.StructuredJobRecord) string {
	title := types.StrVal(record.JobTitle)
	if title == "" {
		title = "Software Engineer"
	}
	location := types.StrVal(record.Location)
	if location == "" {
		location = "India"
	}

	parts := []string{title, "in " + location}
	parts = append(parts, topN(record.SkillsRequired, 3)...)
	return strings.Join(parts, " ")
}

// fallbackCodePrompt builds the deterministic code prompt. The title swaps
// "Engineer" for "Developer" to match how developers label themselves on
// code hosting platforms.
func fallbackCodePrompt(record *types.StructuredJobRecord) string {
	title := types.StrVal(record.JobTitle)
	if title == "" {
		title = "Developer"
	}
	location := types.StrVal(record.Location)
	if location == "" {
		location = "India"
	}

	parts := []string{strings.ReplaceAll(title, "Engineer", "Developer"), "in " + location}

	technical := filterByTerms(record.SkillsRequired, fallbackTechTerms)
	if len(technical) > 0 {
		parts = append(parts, topN(technical, 2)...)
	} else {
		parts = append(parts, topN(record.SkillsRequired, 2)...)
	}
	return strings.Join(parts, " ")
}

// OptimizePrompt applies the validation pass every prompt goes through
// regardless of which path produced it: cut overlong prompts to their first
// 25 words, then make sure the job title appears. The result is a fixed
// point, so rerunning the pass returns the same string.
func OptimizePrompt(prompt, jobTitle string) string {
	optimized := strings.TrimSpace(prompt)

	if len(optimized) > maxPromptLength {
		optimized = firstWords(optimized, maxPromptWords)
	}

	if jobTitle != "" && !strings.Contains(strings.ToLower(optimized), strings.ToLower(jobTitle)) {
		optimized = jobTitle + " " + optimized
		if len(optimized) > maxPromptLength {
			optimized = firstWords(optimized, maxPromptWords)
		}
	}

	return optimized
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

func filterByTerms(items, terms []string) []string {
	filtered := []string{}
	for _, item := range items {
		lower := strings.ToLower(item)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				filtered = append(filtered, item)
				break
			}
		}
	}
	return filtered
}

func topN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func orNotSpecified(s *string) string {
	if v := types.StrVal(s); v != "" {
		return v
	}
	return "Not specified"
}
