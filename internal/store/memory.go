package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"talentscout/internal/types"
)

// MemoryStore is an in-process Store used for tests and for running the
// worker without a database.
type MemoryStore struct {
	mu         sync.RWMutex
	jobs       map[string]*types.SourcingJob
	candidates map[string][]types.CandidateProfile
	saved      map[string][]savedEntry
}

type savedEntry struct {
	profile types.CandidateProfile
	savedAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:       map[string]*types.SourcingJob{},
		candidates: map[string][]types.CandidateProfile{},
		saved:      map[string][]savedEntry{},
	}
}

func (s *MemoryStore) CreateJob(_ context.Context, job *types.SourcingJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *job
	s.jobs[job.ID] = &copied
	return nil
}

func (s *MemoryStore) GetJob(_ context.Context, id string) (*types.SourcingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	copied := *job
	return &copied, nil
}

func (s *MemoryStore) ListRecentJobs(_ context.Context, limit int) ([]types.SourcingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]types.SourcingJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, *job)
	}
	sort.Slice(jobs, func(a, b int) bool {
		return jobs[a].CreatedAt.After(jobs[b].CreatedAt)
	})
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

func (s *MemoryStore) UpdateJobStatus(_ context.Context, id string, status types.JobStatus, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	job.Status = status
	job.Error = errMsg
	job.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) UpdateJobResults(_ context.Context, id string, record *types.StructuredJobRecord, prompts *types.PromptPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	job.Record = record
	job.Prompts = prompts
	job.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) ClaimQueuedJob(_ context.Context) (*types.SourcingJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var oldest *types.SourcingJob
	for _, job := range s.jobs {
		if job.Status != types.JobStatusQueued {
			continue
		}
		if oldest == nil || job.CreatedAt.Before(oldest.CreatedAt) {
			oldest = job
		}
	}
	if oldest == nil {
		return nil, nil
	}

	oldest.Status = types.JobStatusProcessing
	oldest.UpdatedAt = time.Now().UTC()
	copied := *oldest
	return &copied, nil
}

func (s *MemoryStore) SaveCandidates(_ context.Context, jobID string, candidates []types.CandidateProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]types.CandidateProfile, len(candidates))
	copy(copied, candidates)
	s.candidates[jobID] = copied
	return nil
}

func (s *MemoryStore) ListCandidates(_ context.Context, jobID string) ([]types.CandidateProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make([]types.CandidateProfile, len(s.candidates[jobID]))
	copy(candidates, s.candidates[jobID])
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].MatchScore > candidates[b].MatchScore
	})
	return candidates, nil
}

func (s *MemoryStore) SaveCandidate(_ context.Context, jobID string, candidate types.CandidateProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	url := types.StrVal(candidate.ProfileURL)
	entries := s.saved[jobID]
	for i := range entries {
		if types.StrVal(entries[i].profile.ProfileURL) == url {
			entries[i] = savedEntry{profile: candidate, savedAt: time.Now().UTC()}
			return nil
		}
	}
	s.saved[jobID] = append(entries, savedEntry{profile: candidate, savedAt: time.Now().UTC()})
	return nil
}

func (s *MemoryStore) ListSavedCandidates(_ context.Context, jobID string) ([]types.CandidateProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]savedEntry, len(s.saved[jobID]))
	copy(entries, s.saved[jobID])
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].savedAt.After(entries[b].savedAt)
	})

	profiles := make([]types.CandidateProfile, 0, len(entries))
	for _, entry := range entries {
		profiles = append(profiles, entry.profile)
	}
	return profiles, nil
}

func (s *MemoryStore) DeleteSavedCandidate(_ context.Context, jobID, profileURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.saved[jobID]
	for i := range entries {
		if types.StrVal(entries[i].profile.ProfileURL) == profileURL {
			s.saved[jobID] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
