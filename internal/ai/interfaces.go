package ai

import (
	"context"

	"talentscout/internal/types"
)

// AIProvider interface for different AI implementations
// All methods return token usage information - callers can ignore it if not needed
type AIProvider interface {
	StructureJob(ctx context.Context, input types.StructureJobInput) (types.StructuredJobRecord, *TokenUsage, error)
	GenerateSearchPrompt(ctx context.Context, input types.GeneratePromptInput) (string, *TokenUsage, error)
	ScoreCandidate(ctx context.Context, input types.ScoreCandidateInput) (types.CandidateScore, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
