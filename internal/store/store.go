package store

import (
	"context"

	"talentscout/internal/errors"
	"talentscout/internal/types"
)

// ErrJobNotFound is returned when a job id resolves to nothing. Handlers
// compare with errors.Is to map it to a 404.
var ErrJobNotFound = errors.NewValidationError(errors.ErrCodeJobNotFound, "Job not found", nil)

// Store persists sourcing jobs and their candidates. Implementations must
// be safe for concurrent use; the HTTP handlers and the background worker
// share one instance.
type Store interface {
	// CreateJob inserts a new job. The job's ID, Status and timestamps
	// must already be set by the caller.
	CreateJob(ctx context.Context, job *types.SourcingJob) error

	// GetJob returns the job with the given id or ErrJobNotFound.
	GetJob(ctx context.Context, id string) (*types.SourcingJob, error)

	// ListRecentJobs returns up to limit jobs, newest first.
	ListRecentJobs(ctx context.Context, limit int) ([]types.SourcingJob, error)

	// UpdateJobStatus transitions a job and records an optional error
	// message. Returns ErrJobNotFound for an unknown id.
	UpdateJobStatus(ctx context.Context, id string, status types.JobStatus, errMsg string) error

	// UpdateJobResults attaches the structured record and prompt pair
	// produced by the pipeline.
	UpdateJobResults(ctx context.Context, id string, record *types.StructuredJobRecord, prompts *types.PromptPair) error

	// ClaimQueuedJob atomically picks the oldest queued job and moves it
	// to processing. Returns (nil, nil) when the queue is empty.
	ClaimQueuedJob(ctx context.Context) (*types.SourcingJob, error)

	// SaveCandidates replaces the ranked candidate set for a job.
	SaveCandidates(ctx context.Context, jobID string, candidates []types.CandidateProfile) error

	// ListCandidates returns a job's candidates sorted by match score
	// descending.
	ListCandidates(ctx context.Context, jobID string) ([]types.CandidateProfile, error)

	// SaveCandidate bookmarks a single candidate for a job. Saving the
	// same profile URL twice is an upsert, not an error.
	SaveCandidate(ctx context.Context, jobID string, candidate types.CandidateProfile) error

	// ListSavedCandidates returns a job's bookmarked candidates, most
	// recently saved first.
	ListSavedCandidates(ctx context.Context, jobID string) ([]types.CandidateProfile, error)

	// DeleteSavedCandidate removes a bookmark by profile URL.
	DeleteSavedCandidate(ctx context.Context, jobID, profileURL string) error

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error

	Close() error
}
