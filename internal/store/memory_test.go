package store

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"talentscout/internal/types"
)

func newJob(status types.JobStatus, createdAt time.Time) *types.SourcingJob {
	return &types.SourcingJob{
		ID:          uuid.NewString(),
		Status:      status,
		RawText:     "Backend Engineer",
		ContentType: types.ContentTypeText,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestMemoryStoreJobLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	job := newJob(types.JobStatusQueued, time.Now().UTC())
	if err := s.CreateJob(ctx, job); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	got, err := s.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Status != types.JobStatusQueued || got.RawText != "Backend Engineer" {
		t.Errorf("round-tripped job = %+v", got)
	}

	if err := s.UpdateJobStatus(ctx, job.ID, types.JobStatusCompleted, ""); err != nil {
		t.Fatalf("UpdateJobStatus: %v", err)
	}
	got, _ = s.GetJob(ctx, job.ID)
	if got.Status != types.JobStatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}

	record := &types.StructuredJobRecord{JobTitle: types.StrPtr("Backend Engineer")}
	prompts := &types.PromptPair{Network: "n", Code: "c"}
	if err := s.UpdateJobResults(ctx, job.ID, record, prompts); err != nil {
		t.Fatalf("UpdateJobResults: %v", err)
	}
	got, _ = s.GetJob(ctx, job.ID)
	if got.Record == nil || types.StrVal(got.Record.JobTitle) != "Backend Engineer" {
		t.Errorf("record not persisted: %+v", got.Record)
	}
	if got.Prompts == nil || got.Prompts.Network != "n" {
		t.Errorf("prompts not persisted: %+v", got.Prompts)
	}
}

func TestMemoryStoreJobNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.GetJob(ctx, "missing"); !stderrors.Is(err, ErrJobNotFound) {
		t.Errorf("GetJob error = %v, want ErrJobNotFound", err)
	}
	if err := s.UpdateJobStatus(ctx, "missing", types.JobStatusFailed, "x"); !stderrors.Is(err, ErrJobNotFound) {
		t.Errorf("UpdateJobStatus error = %v, want ErrJobNotFound", err)
	}
	if err := s.UpdateJobResults(ctx, "missing", nil, nil); !stderrors.Is(err, ErrJobNotFound) {
		t.Errorf("UpdateJobResults error = %v, want ErrJobNotFound", err)
	}
}

func TestMemoryStoreListRecentJobs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Now().UTC()
	var ids []string
	for i := 0; i < 3; i++ {
		job := newJob(types.JobStatusQueued, base.Add(time.Duration(i)*time.Minute))
		ids = append(ids, job.ID)
		if err := s.CreateJob(ctx, job); err != nil {
			t.Fatalf("CreateJob: %v", err)
		}
	}

	jobs, err := s.ListRecentJobs(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecentJobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("want 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != ids[2] || jobs[1].ID != ids[1] {
		t.Errorf("jobs not newest-first: %v then %v", jobs[0].ID, jobs[1].ID)
	}
}

func TestMemoryStoreClaimQueuedJob(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	got, err := s.ClaimQueuedJob(ctx)
	if err != nil || got != nil {
		t.Fatalf("empty queue should yield (nil, nil), got (%v, %v)", got, err)
	}

	base := time.Now().UTC()
	older := newJob(types.JobStatusQueued, base)
	newer := newJob(types.JobStatusQueued, base.Add(time.Minute))
	done := newJob(types.JobStatusCompleted, base.Add(-time.Hour))
	for _, job := range []*types.SourcingJob{newer, older, done} {
		if err := s.CreateJob(ctx, job); err != nil {
			t.Fatalf("CreateJob: %v", err)
		}
	}

	claimed, err := s.ClaimQueuedJob(ctx)
	if err != nil {
		t.Fatalf("ClaimQueuedJob: %v", err)
	}
	if claimed.ID != older.ID {
		t.Errorf("claimed %s, want oldest queued %s", claimed.ID, older.ID)
	}
	if claimed.Status != types.JobStatusProcessing {
		t.Errorf("claimed status = %q, want processing", claimed.Status)
	}

	// The claim must be visible to other readers.
	persisted, _ := s.GetJob(ctx, older.ID)
	if persisted.Status != types.JobStatusProcessing {
		t.Errorf("persisted status = %q, want processing", persisted.Status)
	}

	second, err := s.ClaimQueuedJob(ctx)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if second.ID != newer.ID {
		t.Errorf("second claim = %s, want %s", second.ID, newer.ID)
	}
}

func TestMemoryStoreCandidatesReplaceAndOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	jobID := uuid.NewString()

	first := []types.CandidateProfile{
		{Name: "alice", Source: "linkedin", MatchScore: 40},
	}
	if err := s.SaveCandidates(ctx, jobID, first); err != nil {
		t.Fatalf("SaveCandidates: %v", err)
	}

	replacement := []types.CandidateProfile{
		{Name: "bob", Source: "github", MatchScore: 55},
		{Name: "carol", Source: "github", MatchScore: 90},
		{Name: "dave", Source: "linkedin", MatchScore: 55},
	}
	if err := s.SaveCandidates(ctx, jobID, replacement); err != nil {
		t.Fatalf("SaveCandidates replace: %v", err)
	}

	got, err := s.ListCandidates(ctx, jobID)
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	wantOrder := []string{"carol", "bob", "dave"}
	if len(got) != len(wantOrder) {
		t.Fatalf("want %d candidates, got %d", len(wantOrder), len(got))
	}
	for i, name := range wantOrder {
		if got[i].Name != name {
			t.Errorf("position %d = %s, want %s", i, got[i].Name, name)
		}
	}
}

func TestMemoryStoreSavedCandidates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	jobID := uuid.NewString()

	alice := types.CandidateProfile{
		Name:       "alice",
		Source:     "linkedin",
		ProfileURL: types.StrPtr("https://example.com/alice"),
		MatchScore: 70,
	}
	if err := s.SaveCandidate(ctx, jobID, alice); err != nil {
		t.Fatalf("SaveCandidate: %v", err)
	}

	// Saving the same profile URL again upserts rather than duplicating.
	alice.MatchScore = 85
	if err := s.SaveCandidate(ctx, jobID, alice); err != nil {
		t.Fatalf("SaveCandidate upsert: %v", err)
	}

	saved, err := s.ListSavedCandidates(ctx, jobID)
	if err != nil {
		t.Fatalf("ListSavedCandidates: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("want 1 saved candidate, got %d", len(saved))
	}
	if saved[0].MatchScore != 85 {
		t.Errorf("upsert did not replace the profile, score = %d", saved[0].MatchScore)
	}

	if err := s.DeleteSavedCandidate(ctx, jobID, "https://example.com/alice"); err != nil {
		t.Fatalf("DeleteSavedCandidate: %v", err)
	}
	saved, _ = s.ListSavedCandidates(ctx, jobID)
	if len(saved) != 0 {
		t.Errorf("candidate should be gone, got %v", saved)
	}

	// Deleting a missing bookmark is a no-op.
	if err := s.DeleteSavedCandidate(ctx, jobID, "https://example.com/ghost"); err != nil {
		t.Errorf("delete of missing bookmark should not fail: %v", err)
	}
}
