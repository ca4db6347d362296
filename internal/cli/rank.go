package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"talentscout/internal/ai"
	"talentscout/internal/common"
	"talentscout/internal/ranking"
	"talentscout/internal/types"

	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank [prompt-file] [profiles-file]",
	Short: "Rank candidate profiles against a job prompt",
	Long: `Rank sourced candidate profiles against a job search prompt using AI.
The command takes two arguments: a file containing the job prompt text and a
file containing a JSON array of candidate profiles. Profiles whose scoring
call fails keep their previous score and get a deterministic reasoning
summary, so a single failure never discards the batch.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if rankConfig.OutputFormat == "" {
			rankConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(rankConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runRank,
}

var rankConfig common.CommandConfig

// rankInput pairs the job prompt with the profiles to score
type rankInput struct {
	JobPrompt string
	Profiles  []types.CandidateProfile
}

func init() {
	rankCmd.Flags().StringVarP(&rankConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	rankCmd.Flags().StringVar(&rankConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = rankCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Create AI service for the rank operation
	rankAIConfig := cfg.GetRankConfig()
	aiService, err := ai.NewService(&rankAIConfig, "rank", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	createInput := func(contents []string) (rankInput, error) {
		if len(contents) != 2 {
			return rankInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		jobPrompt := strings.TrimSpace(contents[0])
		if jobPrompt == "" {
			return rankInput{}, fmt.Errorf("prompt file is empty")
		}
		var profiles []types.CandidateProfile
		if err := json.Unmarshal([]byte(contents[1]), &profiles); err != nil {
			return rankInput{}, fmt.Errorf("failed to parse profiles file: %w", err)
		}
		return rankInput{JobPrompt: jobPrompt, Profiles: profiles}, nil
	}

	logDetails := func(input rankInput, cfg common.CommandConfig) {
		logger.Info("Starting candidate ranking",
			"profile_count", len(input.Profiles),
			"prompt_chars", len(input.JobPrompt),
			"output_format", cfg.OutputFormat)
	}

	rankOperation := func(ctx context.Context, input rankInput) ([]types.CandidateProfile, *ai.TokenUsage, error) {
		ranked := ranking.NewRanker(aiService.Provider, logger).Rank(ctx, input.Profiles, input.JobPrompt)
		return ranked, nil, nil
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		rankConfig,
		args,
		createInput,
		rankOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to rank candidates: %w", err)
	}
	logger.Info("Candidate ranking completed successfully")
	return nil
}
