package ranking

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"talentscout/internal/ai"
	"talentscout/internal/errors"
	"talentscout/internal/types"
)

// maxReposInSummary caps how many repositories are surfaced to the scoring
// capability per profile.
const maxReposInSummary = 5

// Ranker scores candidate profiles against a job search prompt and orders
// them by match score. Scoring failures are isolated per profile; a failed
// call never aborts the batch.
type Ranker struct {
	provider ai.AIProvider
	logger   *errors.Logger
}

// NewRanker creates a ranker backed by the given provider. A nil provider
// sends every profile down the deterministic reasoning path.
func NewRanker(provider ai.AIProvider, logger *errors.Logger) *Ranker {
	return &Ranker{
		provider: provider,
		logger:   logger,
	}
}

// Rank scores each profile against jobPrompt and returns the profiles sorted
// by match score descending. Equal scores keep their input order. An empty
// input returns an empty slice without touching the provider. Context
// cancellation stops further scoring calls but still returns the batch with
// whatever scores were assigned so far.
func (r *Ranker) Rank(ctx context.Context, profiles []types.CandidateProfile, jobPrompt string) []types.CandidateProfile {
	if len(profiles) == 0 {
		return []types.CandidateProfile{}
	}

	ranked := make([]types.CandidateProfile, len(profiles))
	copy(ranked, profiles)

	for i := range ranked {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("Ranking interrupted, returning partially scored batch",
				"scored", i,
				"total", len(ranked),
				"error", err.Error())
			break
		}
		r.scoreProfile(ctx, &ranked[i], jobPrompt)
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].MatchScore > ranked[b].MatchScore
	})
	return ranked
}

// scoreProfile runs a single scoring call, falling back to reasoning built
// from the profile's own fields when the call fails.
func (r *Ranker) scoreProfile(ctx context.Context, profile *types.CandidateProfile, jobPrompt string) {
	if r.provider == nil {
		r.applyFallback(profile)
		return
	}

	score, usage, err := r.provider.ScoreCandidate(ctx, types.ScoreCandidateInput{
		JobPrompt:    jobPrompt,
		Source:       profile.Source,
		Title:        types.StrVal(profile.Title),
		Snippet:      types.StrVal(profile.Snippet),
		ReposSummary: ReposSummary(profile.Repos),
	})
	if err != nil {
		r.logger.Warn("Candidate scoring failed, using profile-derived reasoning",
			"candidate", profile.Name,
			"error", err.Error())
		r.applyFallback(profile)
		return
	}

	profile.MatchScore = score.MatchScore
	profile.Reasoning = score.Reasoning

	logArgs := []any{
		"candidate", profile.Name,
		"match_score", profile.MatchScore,
	}
	if usage != nil {
		logArgs = append(logArgs, "total_tokens", usage.TotalTokens)
	}
	r.logger.Debug("Scored candidate", logArgs...)
}

// applyFallback keeps any previously assigned score (0 otherwise) and builds
// reasoning from whatever profile fields are available.
func (r *Ranker) applyFallback(profile *types.CandidateProfile) {
	bits := []string{}
	if title := types.StrVal(profile.Title); title != "" {
		bits = append(bits, title)
	}
	if profile.Source != "" {
		bits = append(bits, profile.Source)
	}
	if len(profile.Repos) > 0 {
		bits = append(bits, "GitHub repos present")
	}

	if len(bits) > 0 {
		profile.Reasoning = strings.Join(bits, ", ")
	} else {
		profile.Reasoning = "Insufficient data."
	}
}

// ReposSummary renders up to five repositories as "name(stars)" joined by
// ", ", or the literal "None" when the profile has no repositories.
func ReposSummary(repos []types.Repo) string {
	if len(repos) == 0 {
		return "None"
	}
	if len(repos) > maxReposInSummary {
		repos = repos[:maxReposInSummary]
	}

	parts := make([]string, 0, len(repos))
	for _, repo := range repos {
		parts = append(parts, fmt.Sprintf("%s(%d)", repo.Name, repo.Stars))
	}
	return strings.Join(parts, ", ")
}
