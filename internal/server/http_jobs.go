package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"talentscout/internal/ingest"
	"talentscout/internal/observability"
	"talentscout/internal/store"
	"talentscout/internal/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const defaultRecentJobsLimit = 20

// jobsHandler serves the job collection: POST enqueues a new sourcing job,
// GET lists recent jobs.
func (s *Server) jobsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Store == nil {
			writeErrorResponse(w, "Job storage disabled", "persistent job storage is not configured", http.StatusNotFound)
			return
		}

		switch r.Method {
		case http.MethodPost:
			s.createJobHandler(om, w, r)
		case http.MethodGet:
			s.listRecentJobsHandler(om, w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// jobDetailHandler routes /api/v1/jobs/{id} and its sub-resources
func (s *Server) jobDetailHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Store == nil {
			writeErrorResponse(w, "Job storage disabled", "persistent job storage is not configured", http.StatusNotFound)
			return
		}

		rest := strings.TrimPrefix(r.URL.Path, "/api/v1/jobs/")
		jobID, subResource, _ := strings.Cut(rest, "/")
		if jobID == "" {
			writeErrorResponse(w, "Missing job ID", "job ID is required", http.StatusBadRequest)
			return
		}
		if jobID == "recent" && subResource == "" {
			if r.Method != http.MethodGet {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			s.listRecentJobsHandler(om, w, r)
			return
		}

		switch subResource {
		case "":
			if r.Method != http.MethodGet {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			s.getJobHandler(om, w, r, jobID)
		case "candidates":
			if r.Method != http.MethodGet {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			s.listCandidatesHandler(om, w, r, jobID)
		case "saved":
			s.savedCandidatesHandler(om, w, r, jobID)
		default:
			writeErrorResponse(w, "Not found", "unknown job resource", http.StatusNotFound)
		}
	}
}

func (s *Server) createJobHandler(om *observability.ObservabilityManager, w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tracer := om.Tracer("talentscout.api")
	ctx, span := tracer.Start(ctx, "api.jobs.create")
	defer span.End()

	var req CreateJobRequest
	if err := parseJSONRequest(r, &req); err != nil {
		span.RecordError(err)
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.RawText) == "" {
		err := fmt.Errorf("missing raw text")
		span.RecordError(err)
		writeErrorResponse(w, "Missing raw text", "rawText field is required", http.StatusBadRequest)
		return
	}

	contentType := types.ContentTypeText
	if req.ContentType != "" {
		contentType = ingest.DetectContentType("", req.ContentType)
	}

	now := time.Now().UTC()
	job := &types.SourcingJob{
		ID:          uuid.NewString(),
		Status:      types.JobStatusQueued,
		RawText:     req.RawText,
		ContentType: contentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Store.CreateJob(ctx, job); err != nil {
		span.RecordError(err)
		writeErrorResponse(w, "Failed to enqueue job", err.Error(), http.StatusInternalServerError)
		return
	}

	metrics := om.GetMetrics()
	metrics.RecordBusinessMetric(ctx, "job_enqueued", true, om,
		attribute.String("content_type", string(contentType)))

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.String("job.id", job.ID),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(job); err != nil {
		span.RecordError(err)
	}
}

func (s *Server) listRecentJobsHandler(om *observability.ObservabilityManager, w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tracer := om.Tracer("talentscout.api")
	ctx, span := tracer.Start(ctx, "api.jobs.recent")
	defer span.End()

	limit := defaultRecentJobsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeErrorResponse(w, "Invalid limit", "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	jobs, err := s.Store.ListRecentJobs(ctx, limit)
	if err != nil {
		span.RecordError(err)
		writeErrorResponse(w, "Failed to list jobs", err.Error(), http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.Int("response.job_count", len(jobs)))
	writeJSONResponse(w, span, jobs)
}

func (s *Server) getJobHandler(om *observability.ObservabilityManager, w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()
	tracer := om.Tracer("talentscout.api")
	ctx, span := tracer.Start(ctx, "api.jobs.get")
	defer span.End()

	job, err := s.Store.GetJob(ctx, jobID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, store.ErrJobNotFound) {
			writeErrorResponse(w, "Job not found", fmt.Sprintf("no job with ID %s", jobID), http.StatusNotFound)
			return
		}
		writeErrorResponse(w, "Failed to load job", err.Error(), http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("job.status", string(job.Status)))
	writeJSONResponse(w, span, job)
}

func (s *Server) listCandidatesHandler(om *observability.ObservabilityManager, w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()
	tracer := om.Tracer("talentscout.api")
	ctx, span := tracer.Start(ctx, "api.jobs.candidates")
	defer span.End()

	// Surface a 404 for unknown jobs instead of an empty list
	if _, err := s.Store.GetJob(ctx, jobID); err != nil {
		span.RecordError(err)
		if errors.Is(err, store.ErrJobNotFound) {
			writeErrorResponse(w, "Job not found", fmt.Sprintf("no job with ID %s", jobID), http.StatusNotFound)
			return
		}
		writeErrorResponse(w, "Failed to load job", err.Error(), http.StatusInternalServerError)
		return
	}

	profiles, err := s.Store.ListCandidates(ctx, jobID)
	if err != nil {
		span.RecordError(err)
		writeErrorResponse(w, "Failed to list candidates", err.Error(), http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.Int("response.candidate_count", len(profiles)))
	writeJSONResponse(w, span, profiles)
}

// savedCandidatesHandler manages the shortlist attached to a job
func (s *Server) savedCandidatesHandler(om *observability.ObservabilityManager, w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()
	tracer := om.Tracer("talentscout.api")
	ctx, span := tracer.Start(ctx, "api.jobs.saved")
	defer span.End()

	switch r.Method {
	case http.MethodGet:
		profiles, err := s.Store.ListSavedCandidates(ctx, jobID)
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to list saved candidates", err.Error(), http.StatusInternalServerError)
			return
		}
		span.SetAttributes(attribute.Int("response.saved_count", len(profiles)))
		writeJSONResponse(w, span, profiles)

	case http.MethodPost:
		var profile types.CandidateProfile
		if err := parseJSONRequest(r, &profile); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		if types.StrVal(profile.ProfileURL) == "" {
			err := fmt.Errorf("missing profile URL")
			span.RecordError(err)
			writeErrorResponse(w, "Missing profile URL", "profile_url field is required", http.StatusBadRequest)
			return
		}
		if err := s.Store.SaveCandidate(ctx, jobID, profile); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to save candidate", err.Error(), http.StatusInternalServerError)
			return
		}
		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "candidate_saved", true, om,
			attribute.String("source", profile.Source))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(&profile); err != nil {
			span.RecordError(err)
		}

	case http.MethodDelete:
		profileURL := r.URL.Query().Get("profile_url")
		if profileURL == "" {
			writeErrorResponse(w, "Missing profile URL", "profile_url query parameter is required", http.StatusBadRequest)
			return
		}
		if err := s.Store.DeleteSavedCandidate(ctx, jobID, profileURL); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to delete saved candidate", err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
