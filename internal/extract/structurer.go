package extract

import (
	"context"
	"strings"

	"talentscout/internal/ai"
	"talentscout/internal/errors"
	"talentscout/internal/types"
)

// Structurer converts raw job document text into a structured record.
// It makes a single semantic attempt through the AI provider; any failure,
// including a schema-non-conforming response, falls back to rule-based
// extraction. Only the fallback path sets FallbackUsed.
type Structurer struct {
	provider ai.AIProvider
	logger   *errors.Logger
}

// NewStructurer creates a structurer backed by the given provider. A nil
// provider is allowed and forces the rule-based path for every document.
func NewStructurer(provider ai.AIProvider, logger *errors.Logger) *Structurer {
	return &Structurer{
		provider: provider,
		logger:   logger,
	}
}

// semanticOutcome is the tagged result of the single semantic attempt
type semanticOutcome struct {
	record types.StructuredJobRecord
	ok     bool
}

// Structure runs the two-tier extraction strategy over rawText. The returned
// record always carries rawText and contentType. Empty input is the only
// failure condition.
func (s *Structurer) Structure(ctx context.Context, rawText string, contentType types.ContentType) (types.StructuredJobRecord, error) {
	trimmed := strings.TrimSpace(rawText)
	if trimmed == "" {
		return types.StructuredJobRecord{}, errors.NewValidationError(errors.ErrCodeNoExtractableText,
			"Document contains no extractable text", nil)
	}

	outcome := s.trySemantic(ctx, trimmed)

	var record types.StructuredJobRecord
	if outcome.ok {
		record = outcome.record
	} else {
		record = Extract(trimmed)
	}

	record.RawText = trimmed
	record.ContentType = contentType
	return record, nil
}

// trySemantic performs the single external structuring attempt. No retry
// beyond what the provider itself applies; the caller decides the fallback.
func (s *Structurer) trySemantic(ctx context.Context, rawText string) semanticOutcome {
	if s.provider == nil {
		return semanticOutcome{}
	}

	record, tokenUsage, err := s.provider.StructureJob(ctx, types.StructureJobInput{RawText: rawText})
	if err != nil {
		s.logger.Warn("Semantic structuring failed, using rule-based extraction",
			"error", err.Error())
		return semanticOutcome{}
	}

	// A response without a job description violates the output schema
	if strings.TrimSpace(record.JobDescription) == "" {
		s.logger.Warn("Semantic structuring returned empty job description, using rule-based extraction")
		return semanticOutcome{}
	}

	record.NormalizeSlices()
	record.FallbackUsed = false

	logArgs := []any{
		"job_title", types.StrVal(record.JobTitle),
		"skills_count", len(record.SkillsRequired),
	}
	if tokenUsage != nil {
		logArgs = append(logArgs, "total_tokens", tokenUsage.TotalTokens)
	}
	s.logger.Debug("Semantic structuring succeeded", logArgs...)

	return semanticOutcome{record: record, ok: true}
}
