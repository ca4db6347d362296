package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"talentscout/internal/ai"
	"talentscout/internal/extract"
	"talentscout/internal/ingest"
	"talentscout/internal/match"
	"talentscout/internal/observability"
	"talentscout/internal/query"
	"talentscout/internal/ranking"
	"talentscout/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createProcessHandler wraps document processing with observability
func (s *Server) createProcessHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("talentscout.api")
		ctx, span := tracer.Start(ctx, "api.process")
		defer span.End()

		rawText, contentType, err := s.extractDocument(r)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid document", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(rawText) == "" {
			err := fmt.Errorf("no extractable text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "No extractable text", "document contains no extractable text", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.text_length", len(rawText)),
			attribute.String("request.content_type", string(contentType)),
			attribute.String("operation", "structure"),
		)

		// Create AI service for the structure operation
		structureConfig := s.AppConfig.GetStructureConfig()
		aiService, err := ai.NewService(&structureConfig, "structure", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		structurer := extract.NewStructurer(aiService.Provider, s.Logger)

		metrics := om.GetMetrics()
		var record types.StructuredJobRecord
		err = metrics.TrackAIOperationWithTokens(ctx, "structure", func(ctx context.Context) *observability.AIOperationResult {
			output, structureErr := structurer.Structure(ctx, rawText, contentType)
			record = output
			return &observability.AIOperationResult{Error: structureErr}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "processing"))
			metrics.RecordBusinessMetric(ctx, "job_processed", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to process document", err.Error(), http.StatusBadRequest)
			return
		}

		quality := extract.ValidateQuality(&record)
		response := ProcessResponse{
			Record:  record,
			Quality: quality,
		}

		if r.URL.Query().Get("prompts") == "true" {
			prompts := s.synthesizePrompts(ctx, &record)
			response.Prompts = &prompts
		}

		metrics.RecordBusinessMetric(ctx, "job_processed", true, om,
			attribute.Bool("fallback_used", record.FallbackUsed),
			attribute.Int("quality_score", quality.Score))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Bool("fallback_used", record.FallbackUsed),
			attribute.Int("quality.score", quality.Score),
			attribute.Int("skills_count", len(record.SkillsRequired)),
		)

		writeJSONResponse(w, span, response)
	}
}

// createPromptsHandler wraps prompt synthesis with observability
func (s *Server) createPromptsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("talentscout.api")
		ctx, span := tracer.Start(ctx, "api.prompts")
		defer span.End()

		var req PromptsRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if req.Record == nil {
			err := fmt.Errorf("missing record")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing record", "record field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("request.job_title", types.StrVal(req.Record.JobTitle)),
			attribute.Bool("request.fallback_used", req.Record.FallbackUsed),
			attribute.String("operation", "prompts"),
		)

		metrics := om.GetMetrics()
		var prompts types.PromptPair
		err := metrics.TrackAIOperationWithTokens(ctx, "prompts", func(ctx context.Context) *observability.AIOperationResult {
			prompts = s.synthesizePrompts(ctx, req.Record)
			return &observability.AIOperationResult{}
		}, om)
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to synthesize prompts", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "prompts_synthesized", true, om,
			attribute.Int("network_prompt_length", len(prompts.Network)),
			attribute.Int("code_prompt_length", len(prompts.Code)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.network_length", len(prompts.Network)),
			attribute.Int("response.code_length", len(prompts.Code)),
		)

		writeJSONResponse(w, span, prompts)
	}
}

// createRankHandler wraps candidate ranking with observability
func (s *Server) createRankHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("talentscout.api")
		ctx, span := tracer.Start(ctx, "api.rank")
		defer span.End()

		var req RankRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobPrompt) == "" {
			err := fmt.Errorf("missing job prompt")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job prompt", "jobPrompt field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.profile_count", len(req.Profiles)),
			attribute.String("operation", "rank"),
		)

		// Create AI service for the rank operation
		rankConfig := s.AppConfig.GetRankConfig()
		aiService, err := ai.NewService(&rankConfig, "rank", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		ranker := ranking.NewRanker(aiService.Provider, s.Logger)

		metrics := om.GetMetrics()
		var ranked []types.CandidateProfile
		err = metrics.TrackAIOperationWithTokens(ctx, "rank", func(ctx context.Context) *observability.AIOperationResult {
			ranked = ranker.Rank(ctx, req.Profiles, req.JobPrompt)
			return &observability.AIOperationResult{}
		}, om)
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to rank candidates", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "candidates_ranked", true, om,
			attribute.Int("profile_count", len(ranked)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.profile_count", len(ranked)),
		)

		writeJSONResponse(w, span, ranked)
	}
}

// createScoreHandler computes the deterministic resume similarity score.
// No AI call is involved, so only the span records the outcome.
func (s *Server) createScoreHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("talentscout.api")
		ctx, span := tracer.Start(ctx, "api.score")
		defer span.End()

		var req ScoreRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Bool("request.has_record", req.Record != nil),
			attribute.String("operation", "score"),
		)

		jobFallback := req.JobText
		if req.Record != nil && req.Record.JobDescription != "" {
			jobFallback = req.Record.JobDescription
		}

		score, reasoning := match.ScoreResume(req.ResumeText, req.Record, jobFallback)
		result := types.ResumeScore{Score: score, Reasoning: reasoning}

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "resume_scored", true, om,
			attribute.Int("score", score))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.score", score),
		)

		writeJSONResponse(w, span, result)
	}
}

// synthesizePrompts builds a synthesizer for the prompts operation and runs
// it. A service creation failure degrades to the deterministic templates
// rather than failing the request.
func (s *Server) synthesizePrompts(ctx context.Context, record *types.StructuredJobRecord) types.PromptPair {
	promptsConfig := s.AppConfig.GetPromptsConfig()
	aiService, err := ai.NewService(&promptsConfig, "prompts", s.Logger)

	var provider ai.AIProvider
	if err != nil {
		s.Logger.Warn("Failed to create prompts AI service, using deterministic templates",
			"error", err.Error())
	} else {
		provider = aiService.Provider
	}

	synthesizer := query.NewSynthesizer(provider, s.Logger)
	return synthesizer.Synthesize(ctx, record)
}

// extractDocument pulls raw text and content type from either a multipart
// upload or a JSON body.
func (s *Server) extractDocument(r *http.Request) (string, types.ContentType, error) {
	mediaType := r.Header.Get("Content-Type")
	if strings.HasPrefix(mediaType, "multipart/form-data") {
		return s.extractMultipartDocument(r)
	}

	var req ProcessRequest
	if err := parseJSONRequest(r, &req); err != nil {
		return "", "", err
	}

	contentType := types.ContentTypeText
	if req.ContentType != "" {
		contentType = ingest.DetectContentType("", req.ContentType)
	}
	return req.RawText, contentType, nil
}

func (s *Server) extractMultipartDocument(r *http.Request) (string, types.ContentType, error) {
	if err := r.ParseMultipartForm(s.MaxRequestSize); err != nil {
		return "", "", fmt.Errorf("failed to parse multipart form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", "", fmt.Errorf("missing file part: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", "", fmt.Errorf("failed to read uploaded file: %w", err)
	}

	contentType := ingest.DetectContentType(header.Filename, r.FormValue("contentType"))
	rawText, err := s.Decoder.Decode(data, contentType)
	if err != nil {
		return "", "", err
	}
	return rawText, contentType, nil
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Check if this request was rate limited by examining the response
			// We'll wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
