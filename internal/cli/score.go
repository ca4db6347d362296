package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"talentscout/internal/ai"
	"talentscout/internal/common"
	"talentscout/internal/match"
	"talentscout/internal/types"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [resume-file] [job-file]",
	Short: "Score a resume against a job for keyword overlap",
	Long: `Score resume text against a job using deterministic keyword overlap.
The command takes two arguments: the path to the resume text file and the
path to the job file. The job file may be either a structured record JSON
(as produced by the process command) or plain job description text.

No AI call is involved; the score is reproducible for the same inputs.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if scoreConfig.OutputFormat == "" {
			scoreConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(scoreConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runScore,
}

var scoreConfig common.CommandConfig

// scoreInput carries the resume text and the raw job file content
type scoreInput struct {
	ResumeText string
	JobContent string
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	scoreCmd.Flags().StringVar(&scoreConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = scoreCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runScore(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	createInput := func(contents []string) (scoreInput, error) {
		if len(contents) != 2 {
			return scoreInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return scoreInput{ResumeText: contents[0], JobContent: contents[1]}, nil
	}

	logDetails := func(input scoreInput, cfg common.CommandConfig) {
		logger.Info("Starting resume scoring",
			"resume_chars", len(input.ResumeText),
			"job_chars", len(input.JobContent),
			"output_format", cfg.OutputFormat)
	}

	scoreOperation := func(ctx context.Context, input scoreInput) (types.ResumeScore, *ai.TokenUsage, error) {
		record, jobText := parseJobContent(input.JobContent)
		score, reasoning := match.ScoreResume(input.ResumeText, record, jobText)
		return types.ResumeScore{Score: score, Reasoning: reasoning}, nil, nil
	}

	err := common.RunAICommand(
		cmd.Context(),
		logger,
		scoreConfig,
		args,
		createInput,
		scoreOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}
	logger.Info("Resume scoring completed successfully")
	return nil
}

// parseJobContent interprets the job file as a structured record when it
// holds JSON, falling back to raw description text otherwise
func parseJobContent(content string) (*types.StructuredJobRecord, string) {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") {
		var record types.StructuredJobRecord
		if err := json.Unmarshal([]byte(trimmed), &record); err == nil {
			return &record, record.JobDescription
		}
	}
	return nil, content
}
