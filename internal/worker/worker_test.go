package worker

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"talentscout/internal/config"
	"talentscout/internal/errors"
	"talentscout/internal/extract"
	"talentscout/internal/query"
	"talentscout/internal/store"
	"talentscout/internal/types"
)

var workerTestLogger = errors.NewLogger(slog.LevelError)

func testWorker(st store.Store) *Worker {
	cfg := &config.WorkerConfig{
		Enabled:      true,
		PollInterval: 10 * time.Millisecond,
		JobsPerMin:   6000,
	}
	// Nil providers force the deterministic extraction and template paths.
	structurer := extract.NewStructurer(nil, workerTestLogger)
	synthesizer := query.NewSynthesizer(nil, workerTestLogger)
	return New(st, structurer, synthesizer, cfg, workerTestLogger)
}

func waitForStatus(t *testing.T, st store.Store, jobID string, want types.JobStatus) *types.SourcingJob {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		job, err := st.GetJob(context.Background(), jobID)
		if err != nil {
			t.Fatalf("GetJob: %v", err)
		}
		if job.Status == want {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %q", jobID, want)
	return nil
}

func TestWorkerProcessesQueuedJob(t *testing.T) {
	st := store.NewMemoryStore()
	now := time.Now().UTC()
	job := &types.SourcingJob{
		ID:          uuid.NewString(),
		Status:      types.JobStatusQueued,
		RawText:     "Senior Backend Engineer\n\nRequirements:\n- Strong in Python and AWS",
		ContentType: types.ContentTypeText,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := st.CreateJob(context.Background(), job); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	w := testWorker(st)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	done := waitForStatus(t, st, job.ID, types.JobStatusCompleted)
	if done.Record == nil {
		t.Fatal("completed job should carry a structured record")
	}
	if !done.Record.FallbackUsed {
		t.Error("record should come from rule-based extraction")
	}
	if done.Prompts == nil || done.Prompts.Network == "" || done.Prompts.Code == "" {
		t.Errorf("completed job should carry both prompts, got %+v", done.Prompts)
	}
}

func TestWorkerMarksEmptyDocumentFailed(t *testing.T) {
	st := store.NewMemoryStore()
	now := time.Now().UTC()
	job := &types.SourcingJob{
		ID:          uuid.NewString(),
		Status:      types.JobStatusQueued,
		RawText:     "   \n\t  ",
		ContentType: types.ContentTypeText,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := st.CreateJob(context.Background(), job); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	w := testWorker(st)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	failed := waitForStatus(t, st, job.ID, types.JobStatusFailed)
	if failed.Error == "" {
		t.Error("failed job should record an error message")
	}
}

func TestWorkerStartStop(t *testing.T) {
	st := store.NewMemoryStore()
	w := testWorker(st)

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := w.Start(context.Background()); err == nil {
		t.Error("second Start should fail while running")
	}

	w.Stop()
	// Stop is idempotent.
	w.Stop()
}
