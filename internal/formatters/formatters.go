package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"talentscout/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ProcessResult", &ProcessTextFormatter{})
	registry.RegisterFormatter("markdown", "ProcessResult", &ProcessMarkdownFormatter{})
	registry.RegisterFormatter("text", "PromptPair", &PromptsTextFormatter{})
	registry.RegisterFormatter("markdown", "PromptPair", &PromptsMarkdownFormatter{})
	registry.RegisterFormatter("text", "CandidateProfiles", &RankTextFormatter{})
	registry.RegisterFormatter("markdown", "CandidateProfiles", &RankMarkdownFormatter{})
	registry.RegisterFormatter("text", "ResumeScore", &ScoreTextFormatter{})
	registry.RegisterFormatter("markdown", "ResumeScore", &ScoreMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ProcessResult:
		return "ProcessResult"
	case types.PromptPair:
		return "PromptPair"
	case []types.CandidateProfile:
		return "CandidateProfiles"
	case types.ResumeScore:
		return "ResumeScore"
	default:
		return "any"
	}
}

// orDash returns the value of an optional field, or a dash when absent
func orDash(p *string) string {
	if v := types.StrVal(p); v != "" {
		return v
	}
	return "-"
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ProcessTextFormatter handles text formatting for processing results
type ProcessTextFormatter struct{}

func (ptf *ProcessTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ProcessResult)
	if !ok {
		return "", fmt.Errorf("expected ProcessResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== STRUCTURED JOB RECORD ===\n\n")
	output.WriteString(fmt.Sprintf("Job Title: %s\n", orDash(result.Record.JobTitle)))
	output.WriteString(fmt.Sprintf("Company: %s\n", orDash(result.Record.Company)))
	output.WriteString(fmt.Sprintf("Location: %s\n", orDash(result.Record.Location)))
	output.WriteString(fmt.Sprintf("Experience Required: %s\n", orDash(result.Record.ExperienceRequired)))
	output.WriteString(fmt.Sprintf("Job Type: %s\n", orDash(result.Record.JobType)))
	output.WriteString(fmt.Sprintf("Salary Range: %s\n", orDash(result.Record.SalaryRange)))
	output.WriteString(fmt.Sprintf("Extraction: %s\n\n", extractionMode(result.Record.FallbackUsed)))

	if len(result.Record.SkillsRequired) > 0 {
		output.WriteString("Skills Required:\n")
		for _, skill := range result.Record.SkillsRequired {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(result.Record.Requirements) > 0 {
		output.WriteString("Requirements:\n")
		for _, requirement := range result.Record.Requirements {
			output.WriteString(fmt.Sprintf("- %s\n", requirement))
		}
		output.WriteString("\n")
	}

	if len(result.Record.Responsibilities) > 0 {
		output.WriteString("Responsibilities:\n")
		for _, responsibility := range result.Record.Responsibilities {
			output.WriteString(fmt.Sprintf("- %s\n", responsibility))
		}
		output.WriteString("\n")
	}

	output.WriteString("Description:\n")
	output.WriteString(result.Record.JobDescription)
	output.WriteString("\n\n")

	output.WriteString("=== QUALITY REPORT ===\n")
	output.WriteString(fmt.Sprintf("Score: %d/100 (%s)\n\n", result.Quality.Score, result.Quality.Level))
	if len(result.Quality.Issues) > 0 {
		output.WriteString("Issues:\n")
		for _, issue := range result.Quality.Issues {
			output.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		output.WriteString("\n")
	}
	if len(result.Quality.Recommendations) > 0 {
		output.WriteString("Recommendations:\n")
		for _, recommendation := range result.Quality.Recommendations {
			output.WriteString(fmt.Sprintf("- %s\n", recommendation))
		}
		output.WriteString("\n")
	}

	if result.Prompts != nil {
		output.WriteString("=== SEARCH PROMPTS ===\n")
		output.WriteString("Network:\n")
		output.WriteString(result.Prompts.Network)
		output.WriteString("\n\n")
		output.WriteString("Code:\n")
		output.WriteString(result.Prompts.Code)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (ptf *ProcessTextFormatter) SupportedType() string {
	return "ProcessResult"
}

// ProcessMarkdownFormatter handles markdown formatting for processing results
type ProcessMarkdownFormatter struct{}

func (pmf *ProcessMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ProcessResult)
	if !ok {
		return "", fmt.Errorf("expected ProcessResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Structured Job Record\n\n")
	output.WriteString(fmt.Sprintf("**Job Title:** %s\n\n", orDash(result.Record.JobTitle)))
	output.WriteString(fmt.Sprintf("**Company:** %s\n\n", orDash(result.Record.Company)))
	output.WriteString(fmt.Sprintf("**Location:** %s\n\n", orDash(result.Record.Location)))
	output.WriteString(fmt.Sprintf("**Experience Required:** %s\n\n", orDash(result.Record.ExperienceRequired)))
	output.WriteString(fmt.Sprintf("**Job Type:** %s\n\n", orDash(result.Record.JobType)))
	output.WriteString(fmt.Sprintf("**Salary Range:** %s\n\n", orDash(result.Record.SalaryRange)))
	output.WriteString(fmt.Sprintf("**Extraction:** %s\n\n", extractionMode(result.Record.FallbackUsed)))

	if len(result.Record.SkillsRequired) > 0 {
		output.WriteString("## Skills Required\n\n")
		for _, skill := range result.Record.SkillsRequired {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(result.Record.Requirements) > 0 {
		output.WriteString("## Requirements\n\n")
		for _, requirement := range result.Record.Requirements {
			output.WriteString(fmt.Sprintf("- %s\n", requirement))
		}
		output.WriteString("\n")
	}

	if len(result.Record.Responsibilities) > 0 {
		output.WriteString("## Responsibilities\n\n")
		for _, responsibility := range result.Record.Responsibilities {
			output.WriteString(fmt.Sprintf("- %s\n", responsibility))
		}
		output.WriteString("\n")
	}

	output.WriteString("## Description\n\n")
	output.WriteString(result.Record.JobDescription)
	output.WriteString("\n\n")

	output.WriteString("## Quality Report\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100 (%s)\n\n", result.Quality.Score, result.Quality.Level))
	if len(result.Quality.Issues) > 0 {
		output.WriteString("### Issues\n\n")
		for _, issue := range result.Quality.Issues {
			output.WriteString(fmt.Sprintf("- %s\n", issue))
		}
		output.WriteString("\n")
	}
	if len(result.Quality.Recommendations) > 0 {
		output.WriteString("### Recommendations\n\n")
		for _, recommendation := range result.Quality.Recommendations {
			output.WriteString(fmt.Sprintf("- %s\n", recommendation))
		}
		output.WriteString("\n")
	}

	if result.Prompts != nil {
		output.WriteString("## Search Prompts\n\n")
		output.WriteString("### Network\n\n")
		output.WriteString(result.Prompts.Network)
		output.WriteString("\n\n")
		output.WriteString("### Code\n\n")
		output.WriteString(result.Prompts.Code)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (pmf *ProcessMarkdownFormatter) SupportedType() string {
	return "ProcessResult"
}

func extractionMode(fallbackUsed bool) string {
	if fallbackUsed {
		return "rule-based fallback"
	}
	return "semantic"
}

// PromptsTextFormatter handles text formatting for search prompt pairs
type PromptsTextFormatter struct{}

func (ptf *PromptsTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.PromptPair)
	if !ok {
		return "", fmt.Errorf("expected PromptPair, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== SEARCH PROMPTS ===\n\n")
	output.WriteString("Network:\n")
	output.WriteString(result.Network)
	output.WriteString("\n\n")
	output.WriteString("Code:\n")
	output.WriteString(result.Code)
	output.WriteString("\n")

	return output.String(), nil
}

func (ptf *PromptsTextFormatter) SupportedType() string {
	return "PromptPair"
}

// PromptsMarkdownFormatter handles markdown formatting for search prompt pairs
type PromptsMarkdownFormatter struct{}

func (pmf *PromptsMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.PromptPair)
	if !ok {
		return "", fmt.Errorf("expected PromptPair, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Search Prompts\n\n")
	output.WriteString("## Network\n\n")
	output.WriteString(result.Network)
	output.WriteString("\n\n")
	output.WriteString("## Code\n\n")
	output.WriteString(result.Code)
	output.WriteString("\n")

	return output.String(), nil
}

func (pmf *PromptsMarkdownFormatter) SupportedType() string {
	return "PromptPair"
}

// RankTextFormatter handles text formatting for ranked candidate lists
type RankTextFormatter struct{}

func (rtf *RankTextFormatter) Format(data any) (string, error) {
	profiles, ok := data.([]types.CandidateProfile)
	if !ok {
		return "", fmt.Errorf("expected []CandidateProfile, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RANKED CANDIDATES ===\n\n")
	if len(profiles) == 0 {
		output.WriteString("No candidates.\n")
		return output.String(), nil
	}

	for i, profile := range profiles {
		output.WriteString(fmt.Sprintf("%d. %s (%s) - %d/100\n", i+1, profile.Name, profile.Source, profile.MatchScore))
		if title := types.StrVal(profile.Title); title != "" {
			output.WriteString(fmt.Sprintf("   Title: %s\n", title))
		}
		if url := types.StrVal(profile.ProfileURL); url != "" {
			output.WriteString(fmt.Sprintf("   URL: %s\n", url))
		}
		output.WriteString(fmt.Sprintf("   Reasoning: %s\n\n", profile.Reasoning))
	}

	return output.String(), nil
}

func (rtf *RankTextFormatter) SupportedType() string {
	return "CandidateProfiles"
}

// RankMarkdownFormatter handles markdown formatting for ranked candidate lists
type RankMarkdownFormatter struct{}

func (rmf *RankMarkdownFormatter) Format(data any) (string, error) {
	profiles, ok := data.([]types.CandidateProfile)
	if !ok {
		return "", fmt.Errorf("expected []CandidateProfile, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Ranked Candidates\n\n")
	if len(profiles) == 0 {
		output.WriteString("No candidates.\n")
		return output.String(), nil
	}

	for i, profile := range profiles {
		output.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, profile.Name))
		output.WriteString(fmt.Sprintf("**Source:** %s\n\n", profile.Source))
		output.WriteString(fmt.Sprintf("**Match Score:** %d/100\n\n", profile.MatchScore))
		if title := types.StrVal(profile.Title); title != "" {
			output.WriteString(fmt.Sprintf("**Title:** %s\n\n", title))
		}
		if url := types.StrVal(profile.ProfileURL); url != "" {
			output.WriteString(fmt.Sprintf("**URL:** %s\n\n", url))
		}
		output.WriteString(fmt.Sprintf("**Reasoning:** %s\n\n", profile.Reasoning))
	}

	return output.String(), nil
}

func (rmf *RankMarkdownFormatter) SupportedType() string {
	return "CandidateProfiles"
}

// ScoreTextFormatter handles text formatting for resume scores
type ScoreTextFormatter struct{}

func (stf *ScoreTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ResumeScore)
	if !ok {
		return "", fmt.Errorf("expected ResumeScore, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME SCORE ===\n\n")
	output.WriteString(fmt.Sprintf("Score: %d/100\n", result.Score))
	output.WriteString(fmt.Sprintf("Reasoning: %s\n", result.Reasoning))

	return output.String(), nil
}

func (stf *ScoreTextFormatter) SupportedType() string {
	return "ResumeScore"
}

// ScoreMarkdownFormatter handles markdown formatting for resume scores
type ScoreMarkdownFormatter struct{}

func (smf *ScoreMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ResumeScore)
	if !ok {
		return "", fmt.Errorf("expected ResumeScore, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Score\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", result.Score))
	output.WriteString(fmt.Sprintf("**Reasoning:** %s\n", result.Reasoning))

	return output.String(), nil
}

func (smf *ScoreMarkdownFormatter) SupportedType() string {
	return "ResumeScore"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
