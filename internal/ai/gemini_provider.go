package ai

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"talentscout/internal/config"
	talentscoutErrors "talentscout/internal/errors"
	"talentscout/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiProvider implements AIProvider for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	httpClient     *http.Client
	config         *config.OperationAIConfig
	operationType  string
	circuitBreaker *AICircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	logger         *talentscoutErrors.Logger
}

// Ensure GeminiProvider implements AIProvider
var _ AIProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance for a specific operation
func NewGeminiProvider(cfg *config.OperationAIConfig, operationType string, logger *talentscoutErrors.Logger) (*GeminiProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, talentscoutErrors.NewAIError(talentscoutErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	// Initialize circuit breaker with operation-specific configuration
	circuitBreaker := NewAICircuitBreaker(operationType, cfg, logger)
	modelBreaker := NewModelCircuitBreaker(operationType, cfg, logger)

	return &GeminiProvider{
		client: client,
		httpClient: &http.Client{
			Timeout: *cfg.Timeout,
		},
		config:         cfg,
		operationType:  operationType,
		circuitBreaker: circuitBreaker,
		modelBreaker:   modelBreaker,
		logger:         logger,
	}, nil
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	// Create a timeout context for the model check
	timeout := getAIModelCheckTimeout()
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Get model information from Gemini API with circuit breaker
	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)

		// Log the error for debugging
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	// Model is available, populate info
	modelInfo.Available = true
	if model.DisplayName != "" {
		modelInfo.DisplayName = model.DisplayName
	}
	if model.Version != "" {
		modelInfo.Version = model.Version
	}

	// Log successful check
	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"provider", g.config.Provider,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// executeWithRetry executes an AI operation with retry logic and exponential backoff
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= *g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			// Log retry attempt
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", *g.config.MaxRetries,
				"error", lastErr.Error())

			// Exponential backoff with jitter to prevent thundering herd
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			// Use crypto/rand for secure random jitter
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			jitter := time.Duration(jitterBig.Int64())
			// Cap maximum backoff at 30 seconds
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt+1,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		// Don't retry on certain errors (auth, invalid input, etc.)
		if !g.isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	// Log final failure
	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", *g.config.MaxRetries+1)

	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, *g.config.MaxRetries, lastErr)
}

// isRetryableError determines if an error should trigger a retry
func (g *GeminiProvider) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Check for network errors (timeouts, connection issues)
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return true // Retry on timeouts
		}
		// Consider other network errors retryable (e.g., connection refused)
		return true
	}

	// Check for Google API errors (HTTP status codes)
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// generateContent runs a single generation round trip with tracing, circuit
// breaker and retry handling, returning the raw response.
func (g *GeminiProvider) generateContent(
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (*genai.GenerateContentResponse, trace.Span, error) {
	tracer := otel.Tracer("talentscout.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+operationName)

	// Set base attributes
	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		span.End()
		return nil, nil, talentscoutErrors.NewAIError(talentscoutErrors.ErrCodeAIServiceFailed, "Failed to generate content for "+operationName, err)
	}

	return result, span, nil
}

// executeAIOperation is a generic helper to run schema-constrained AI operations
// with common tracing, circuit breaker, and JSON parsing logic.
func executeAIOperation[Out any](
	g *GeminiProvider,
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out

	result, span, err := g.generateContent(ctx, operationName, userPrompt, systemPrompt, genaiConfig, spanAttributes...)
	if err != nil {
		return output, nil, err
	}
	defer span.End()

	if err := json.Unmarshal([]byte(result.Text()), &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, talentscoutErrors.NewAIError("AI_RESPONSE_PARSE_FAILED", "Failed to parse AI response for "+operationName, err)
	}

	tokenUsage := extractTokenUsage(result)
	recordTokenUsage(span, tokenUsage)

	span.SetAttributes(attribute.Bool("success", true))
	return output, tokenUsage, nil
}

// executeAITextOperation runs a free-text AI operation with the same tracing,
// circuit breaker and retry handling as the schema-constrained path.
func (g *GeminiProvider) executeAITextOperation(
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (string, *TokenUsage, error) {
	result, span, err := g.generateContent(ctx, operationName, userPrompt, systemPrompt, genaiConfig, spanAttributes...)
	if err != nil {
		return "", nil, err
	}
	defer span.End()

	text := strings.TrimSpace(result.Text())
	if text == "" {
		err := fmt.Errorf("empty response text")
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", nil, talentscoutErrors.NewAIError("AI_RESPONSE_PARSE_FAILED", "Empty AI response for "+operationName, err)
	}

	tokenUsage := extractTokenUsage(result)
	recordTokenUsage(span, tokenUsage)

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.prompt_length", len(text)),
	)
	return text, tokenUsage, nil
}

func recordTokenUsage(span trace.Span, tokenUsage *TokenUsage) {
	if tokenUsage == nil {
		return
	}
	span.SetAttributes(
		attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
		attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
		attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
	)
}

// StructureJob implements AIProvider interface for job document structuring
func (g *GeminiProvider) StructureJob(ctx context.Context, input types.StructureJobInput) (types.StructuredJobRecord, *TokenUsage, error) {
	systemPrompt := g.getSystemPrompt("structureJob")
	userPrompt := fmt.Sprintf(g.getUserPrompt("structureJob"), input.RawText)
	config := g.buildStructureSchema()

	output, tokenUsage, err := executeAIOperation[types.StructuredJobRecord](
		g,
		ctx,
		"structure_job",
		userPrompt,
		systemPrompt,
		config,
		attribute.Int("input.raw_text_length", len(input.RawText)),
	)

	if err != nil {
		return types.StructuredJobRecord{}, nil, err
	}

	output.NormalizeSlices()

	// Add operation-specific success metrics to the span created by the helper
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("output.skills_count", len(output.SkillsRequired)),
			attribute.Int("output.description_length", len(output.JobDescription)),
		)
	}

	return output, tokenUsage, nil
}

// GenerateSearchPrompt implements AIProvider interface for search prompt generation
func (g *GeminiProvider) GenerateSearchPrompt(ctx context.Context, input types.GeneratePromptInput) (string, *TokenUsage, error) {
	promptName := "networkSearch"
	if input.Platform == "code" {
		promptName = "codeSearch"
	}

	systemPrompt := g.getSystemPrompt(promptName)
	userPrompt := fmt.Sprintf(g.getUserPrompt(promptName), input.Context)
	config := g.buildTextConfig()

	return g.executeAITextOperation(
		ctx,
		"generate_search_prompt",
		userPrompt,
		systemPrompt,
		config,
		attribute.String("input.platform", input.Platform),
		attribute.Int("input.context_length", len(input.Context)),
	)
}

// ScoreCandidate implements AIProvider interface for candidate profile scoring
func (g *GeminiProvider) ScoreCandidate(ctx context.Context, input types.ScoreCandidateInput) (types.CandidateScore, *TokenUsage, error) {
	systemPrompt := g.getSystemPrompt("scoreCandidate")
	userPrompt := fmt.Sprintf(g.getUserPrompt("scoreCandidate"),
		input.JobPrompt, input.Source, input.Title, input.Snippet, input.ReposSummary)
	config := g.buildScoreSchema()

	output, tokenUsage, err := executeAIOperation[types.CandidateScore](
		g,
		ctx,
		"score_candidate",
		userPrompt,
		systemPrompt,
		config,
		attribute.String("input.source", input.Source),
		attribute.Int("input.snippet_length", len(input.Snippet)),
	)

	if err != nil {
		return types.CandidateScore{}, nil, err
	}

	// Add operation-specific success metrics to the span created by the helper
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("match_score", output.MatchScore),
		)
	}

	return output, tokenUsage, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetModelStats(),
	}

	// Overall health - both breakers must be healthy
	aiHealthy := g.circuitBreaker.IsHealthy()
	modelHealthy := g.modelBreaker.IsModelHealthy()
	stats["overall_healthy"] = aiHealthy && modelHealthy

	return stats
}

// Close implements AIProvider interface
func (g *GeminiProvider) Close() error {
	// Gemini client doesn't have a Close method in current single-shot usage
	// Probably needed in streaming mode
	return nil
}

// buildStructureSchema creates the schema for job structuring requests
func (g *GeminiProvider) buildStructureSchema() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"job_title":           {Type: genai.TypeString, Nullable: genai.Ptr(true)},
				"company":             {Type: genai.TypeString, Nullable: genai.Ptr(true)},
				"location":            {Type: genai.TypeString, Nullable: genai.Ptr(true)},
				"experience_required": {Type: genai.TypeString, Nullable: genai.Ptr(true)},
				"skills_required": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"job_type":        {Type: genai.TypeString, Nullable: genai.Ptr(true)},
				"salary_range":    {Type: genai.TypeString, Nullable: genai.Ptr(true)},
				"job_description": {Type: genai.TypeString},
				"requirements": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"responsibilities": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"job_description", "skills_required", "requirements", "responsibilities"},
		},
	}

	// Apply temperature configuration if set
	if *g.config.Temperature > 0 {
		config.Temperature = g.config.Temperature
	}

	return config
}

// buildScoreSchema creates the schema for candidate scoring requests
func (g *GeminiProvider) buildScoreSchema() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"match_score": {Type: genai.TypeInteger},
				"reasoning":   {Type: genai.TypeString},
			},
			Required: []string{"match_score", "reasoning"},
		},
	}

	// Apply temperature configuration if set
	if *g.config.Temperature > 0 {
		config.Temperature = g.config.Temperature
	}

	return config
}

// buildTextConfig creates the config for unconstrained text generation
func (g *GeminiProvider) buildTextConfig() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}

	// Apply temperature configuration if set
	if *g.config.Temperature > 0 {
		config.Temperature = g.config.Temperature
	}

	return config
}

// getSystemPrompt returns the appropriate system prompt
func (g *GeminiProvider) getSystemPrompt(promptName string) string {
	loadedPrompts, configPrompts := g.getPrompts()
	var configSystemPrompts *config.SystemPrompts
	if configPrompts != nil {
		configSystemPrompts = &configPrompts.SystemPrompts
	} else {
		// Create an empty struct to avoid nil pointer panics
		configSystemPrompts = &config.SystemPrompts{}
	}

	switch promptName {
	case "structureJob":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.StructureJob,
			configSystemPrompts.StructureJob,
			DefaultSystemPrompts.StructureJob,
		)
	case "networkSearch":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.NetworkSearch,
			configSystemPrompts.NetworkSearch,
			DefaultSystemPrompts.NetworkSearch,
		)
	case "codeSearch":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.CodeSearch,
			configSystemPrompts.CodeSearch,
			DefaultSystemPrompts.CodeSearch,
		)
	case "scoreCandidate":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.ScoreCandidate,
			configSystemPrompts.ScoreCandidate,
			DefaultSystemPrompts.ScoreCandidate,
		)
	default:
		return ""
	}
}

// getUserPrompt returns the appropriate user prompt template
func (g *GeminiProvider) getUserPrompt(promptName string) string {
	loadedPrompts, configPrompts := g.getPrompts()
	var configUserPrompts *config.UserPrompts
	if configPrompts != nil {
		configUserPrompts = &configPrompts.UserPrompts
	} else {
		// Create an empty struct to avoid nil pointer panics
		configUserPrompts = &config.UserPrompts{}
	}

	switch promptName {
	case "structureJob":
		return resolvePrompt(
			loadedPrompts.UserPrompts.StructureJob,
			configUserPrompts.StructureJob,
			DefaultUserPrompts.StructureJob,
		)
	case "networkSearch":
		return resolvePrompt(
			loadedPrompts.UserPrompts.NetworkSearch,
			configUserPrompts.NetworkSearch,
			DefaultUserPrompts.NetworkSearch,
		)
	case "codeSearch":
		return resolvePrompt(
			loadedPrompts.UserPrompts.CodeSearch,
			configUserPrompts.CodeSearch,
			DefaultUserPrompts.CodeSearch,
		)
	case "scoreCandidate":
		return resolvePrompt(
			loadedPrompts.UserPrompts.ScoreCandidate,
			configUserPrompts.ScoreCandidate,
			DefaultUserPrompts.ScoreCandidate,
		)
	default:
		return ""
	}
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}

// getAIModelCheckTimeout returns the configured AI model check timeout
func getAIModelCheckTimeout() time.Duration {
	// Use default timeout since we don't have access to config here
	// This function should be refactored to accept timeout as parameter
	// Fallback to default
	return 10 * time.Second
}

// getPrompts returns the prompts for this provider's operation, prioritizing loaded content over config
func (g *GeminiProvider) getPrompts() (config.OperationLoadedPrompts, *config.PromptConfig) {
	// Get loaded prompts (returns a copy)
	loadedPrompts := config.GetPromptsForOperation(g.operationType)
	configPrompts := &g.config.CustomPrompts
	return loadedPrompts, configPrompts
}

// resolvePrompt selects the correct prompt string based on a clear priority order:
// 1. A prompt loaded from a file.
// 2. A prompt defined directly in the configuration.
// 3. A hardcoded default prompt.
// This helper function centralizes the decision logic, making it DRY and easy to maintain.
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
