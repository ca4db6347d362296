package server

import (
	"time"

	"talentscout/internal/config"
	talentscoutErrors "talentscout/internal/errors"
	"talentscout/internal/ingest"
	"talentscout/internal/store"
	"talentscout/internal/types"
	"talentscout/internal/worker"
)

// ProcessRequest is the JSON body for the process endpoint. Multipart
// uploads carry the document as a file part instead of RawText.
type ProcessRequest struct {
	RawText     string `json:"rawText"`
	ContentType string `json:"contentType,omitempty"`
}

// PromptsRequest carries a structured record to synthesize search prompts for.
type PromptsRequest struct {
	Record *types.StructuredJobRecord `json:"record"`
}

// RankRequest carries the job prompt plus the candidate profiles to score.
type RankRequest struct {
	JobPrompt string                   `json:"jobPrompt"`
	Profiles  []types.CandidateProfile `json:"profiles"`
}

// ScoreRequest carries resume text plus either a structured record or raw
// job text to score against.
type ScoreRequest struct {
	ResumeText string                     `json:"resumeText"`
	Record     *types.StructuredJobRecord `json:"record,omitempty"`
	JobText    string                     `json:"jobText,omitempty"`
}

// ProcessResponse is the result of running a document through ingestion and
// structuring.
type ProcessResponse struct {
	Record  types.StructuredJobRecord `json:"record"`
	Quality types.QualityReport       `json:"quality"`
	Prompts *types.PromptPair         `json:"prompts,omitempty"`
}

// CreateJobRequest enqueues a sourcing job for the background worker.
type CreateJobRequest struct {
	RawText     string `json:"rawText"`
	ContentType string `json:"contentType,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Certificate management
	CertificateManager *CertificateManager

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Document decoding
	Decoder *ingest.Decoder

	// Persistence; nil when the store is disabled, which turns the job
	// endpoints into 404s.
	Store store.Store

	// Background sourcing worker, started with the server when configured
	Worker *worker.Worker

	// Logger
	Logger *talentscoutErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
// (Refactored to reduce long parameter list in NewServer)
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *talentscoutErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Decoder:        ingest.NewDecoder(logger),
		Logger:         logger,
	}
}
