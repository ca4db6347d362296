package types

import "time"

// ContentType identifies the original format of an ingested job document
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypePDF   ContentType = "pdf"
	ContentTypeDocx  ContentType = "docx"
	ContentTypeImage ContentType = "image"
)

// StructuredJobRecord is the canonical structured form of a job document.
// Optional fields are pointers so "absent" and "empty" stay distinguishable;
// slice fields are never nil so they serialize as [] rather than null.
type StructuredJobRecord struct {
	JobTitle           *string     `json:"job_title"`
	Company            *string     `json:"company"`
	Location           *string     `json:"location"`
	ExperienceRequired *string     `json:"experience_required"`
	SkillsRequired     []string    `json:"skills_required"`
	JobType            *string     `json:"job_type"`
	SalaryRange        *string     `json:"salary_range"`
	JobDescription     string      `json:"job_description"`
	Requirements       []string    `json:"requirements"`
	Responsibilities   []string    `json:"responsibilities"`
	FallbackUsed       bool        `json:"fallback_used"`
	RawText            string      `json:"raw_text"`
	ContentType        ContentType `json:"content_type"`
}

// NormalizeSlices replaces nil slice fields with empty slices
func (r *StructuredJobRecord) NormalizeSlices() {
	if r.SkillsRequired == nil {
		r.SkillsRequired = []string{}
	}
	if r.Requirements == nil {
		r.Requirements = []string{}
	}
	if r.Responsibilities == nil {
		r.Responsibilities = []string{}
	}
}

// Repo is a public code repository attached to a candidate profile
type Repo struct {
	Name  string `json:"name"`
	Stars int    `json:"stars"`
}

// CandidateProfile represents a sourced candidate before and after ranking.
// MatchScore and Reasoning are populated by the ranking engine.
type CandidateProfile struct {
	Name       string  `json:"name"`
	Source     string  `json:"source"`
	Title      *string `json:"title"`
	Snippet    *string `json:"snippet"`
	ProfileURL *string `json:"profile_url"`
	Repos      []Repo  `json:"repos"`
	MatchScore int     `json:"match_score"`
	Reasoning  string  `json:"reasoning"`
}

// PromptPair holds the two platform-targeted search prompts
type PromptPair struct {
	Network string `json:"network"`
	Code    string `json:"code"`
}

// CandidateScore is the structured result of a single profile scoring call
type CandidateScore struct {
	MatchScore int    `json:"match_score"` // 1-100
	Reasoning  string `json:"reasoning"`   // one sentence
}

// StructureJobInput is the input to the semantic structuring operation
type StructureJobInput struct {
	RawText string `json:"rawText"`
}

// GeneratePromptInput is the input to a search prompt generation call
type GeneratePromptInput struct {
	Platform string `json:"platform"` // "network" or "code"
	Context  string `json:"context"`
}

// ScoreCandidateInput is the input to a single candidate scoring call
type ScoreCandidateInput struct {
	JobPrompt    string `json:"jobPrompt"`
	Source       string `json:"source"`
	Title        string `json:"title"`
	Snippet      string `json:"snippet"`
	ReposSummary string `json:"reposSummary"`
}

// QualityReport summarizes how complete a structured job record is
type QualityReport struct {
	Score           int      `json:"score"` // 0-100
	Level           string   `json:"level"` // Excellent, Good, Fair, Poor
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// ResumeScore is the result of scoring resume text against a job record
type ResumeScore struct {
	Score     int    `json:"score"` // 0-100
	Reasoning string `json:"reasoning"`
}

// ProcessResult bundles the structured record with its quality report and,
// optionally, the synthesized search prompts
type ProcessResult struct {
	Record  StructuredJobRecord `json:"record"`
	Quality QualityReport       `json:"quality"`
	Prompts *PromptPair         `json:"prompts,omitempty"`
}

// JobStatus tracks a persisted sourcing job through the pipeline
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// SourcingJob is a persisted pipeline run: one job document plus its
// structured record, prompts and ranked candidates.
type SourcingJob struct {
	ID          string               `json:"id"`
	Status      JobStatus            `json:"status"`
	RawText     string               `json:"raw_text,omitempty"`
	ContentType ContentType          `json:"content_type,omitempty"`
	Record      *StructuredJobRecord `json:"record,omitempty"`
	Prompts     *PromptPair          `json:"prompts,omitempty"`
	Error       string               `json:"error,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// StrPtr returns a pointer to s, or nil when s is empty
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StrVal dereferences p, returning "" for nil
func StrVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
