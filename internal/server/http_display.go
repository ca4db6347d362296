package server

import "fmt"

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo() {
	s.displayEndpoints()
	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
	s.displayStoreInfo()
}

// displayEndpoints shows available API endpoints
func (s *Server) displayEndpoints() {
	fmt.Println("Available endpoints:")
	fmt.Println("  GET  /health                         - Health check")
	fmt.Println("  GET  /stats                          - Server statistics")
	fmt.Println("  POST /api/v1/process                 - Structure a job document (requires API key)")
	fmt.Println("  POST /api/v1/prompts                 - Synthesize search prompts (requires API key)")
	fmt.Println("  POST /api/v1/rank                    - Rank candidate profiles (requires API key)")
	fmt.Println("  POST /api/v1/score                   - Score a resume against a job (requires API key)")
	if s.Store != nil {
		fmt.Println("  POST /api/v1/jobs                    - Enqueue an async sourcing job (requires API key)")
		fmt.Println("  GET  /api/v1/jobs                    - List recent jobs (requires API key)")
		fmt.Println("  GET  /api/v1/jobs/{id}               - Job status and results (requires API key)")
		fmt.Println("  GET  /api/v1/jobs/{id}/candidates    - Ranked candidates for a job (requires API key)")
		fmt.Println("  *    /api/v1/jobs/{id}/saved         - Manage saved candidates (requires API key)")
	}
}

// displayAuthInfo shows authentication configuration
func (s *Server) displayAuthInfo() {
	if len(s.APIKeys) > 0 {
		fmt.Printf("API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
		fmt.Println("Include 'X-API-Key: <your-key>' header in requests to /api/v1 endpoints")
	} else {
		fmt.Println("API authentication: DISABLED (no API keys configured)")
		fmt.Println("WARNING: API endpoints are publicly accessible!")
	}
}

// displayRequestLimitInfo shows request size limit configuration
func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Println("Request size limit: DISABLED")
		fmt.Println("WARNING: No request size limits configured!")
	}
}

// displayRateLimitInfo shows rate limiting configuration
func (s *Server) displayRateLimitInfo() {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Printf("Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Println("  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Println("  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Println("Rate limiting: DISABLED")
		fmt.Println("WARNING: No rate limiting configured!")
	}
}

// displayStoreInfo shows job storage and background worker configuration
func (s *Server) displayStoreInfo() {
	if s.Store != nil {
		fmt.Printf("Job storage: ENABLED (driver: %s)\n", s.AppConfig.Store.Driver)
	} else {
		fmt.Println("Job storage: DISABLED (async job endpoints unavailable)")
	}
	if s.Worker != nil {
		fmt.Println("Background worker: ENABLED")
	} else {
		fmt.Println("Background worker: DISABLED")
	}
}
