package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"talentscout/internal/ai"
	"talentscout/internal/common"
	"talentscout/internal/query"
	"talentscout/internal/types"

	"github.com/spf13/cobra"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts [record-file]",
	Short: "Synthesize candidate search prompts from a structured record",
	Long: `Synthesize the two platform-targeted candidate search prompts (professional
network and code hosting) from a structured job record. The record file must
contain the JSON produced by the process command.

Records produced by the rule-based fallback skip the AI call and use the
deterministic prompt templates directly.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if promptsConfig.OutputFormat == "" {
			promptsConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(promptsConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runPrompts,
}

var promptsConfig common.CommandConfig

func init() {
	promptsCmd.Flags().StringVarP(&promptsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	promptsCmd.Flags().StringVar(&promptsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = promptsCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runPrompts(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Create AI service for the prompts operation
	promptsAIConfig := cfg.GetPromptsConfig()
	aiService, err := ai.NewService(&promptsAIConfig, "prompts", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	createInput := func(contents []string) (types.StructuredJobRecord, error) {
		if len(contents) != 1 {
			return types.StructuredJobRecord{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		var record types.StructuredJobRecord
		if err := json.Unmarshal([]byte(contents[0]), &record); err != nil {
			return types.StructuredJobRecord{}, fmt.Errorf("failed to parse record file: %w", err)
		}
		return record, nil
	}

	logDetails := func(input types.StructuredJobRecord, cfg common.CommandConfig) {
		logger.Info("Starting search prompt synthesis",
			"job_title", types.StrVal(input.JobTitle),
			"fallback_used", input.FallbackUsed,
			"output_format", cfg.OutputFormat)
	}

	promptsOperation := func(ctx context.Context, record types.StructuredJobRecord) (types.PromptPair, *ai.TokenUsage, error) {
		pair := query.NewSynthesizer(aiService.Provider, logger).Synthesize(ctx, &record)
		return pair, nil, nil
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		promptsConfig,
		args,
		createInput,
		promptsOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to synthesize prompts: %w", err)
	}
	logger.Info("Search prompt synthesis completed successfully")
	return nil
}
