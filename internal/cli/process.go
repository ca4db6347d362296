package cli

import (
	"context"
	"fmt"

	"talentscout/internal/ai"
	"talentscout/internal/common"
	"talentscout/internal/extract"
	"talentscout/internal/ingest"
	"talentscout/internal/query"
	"talentscout/internal/types"

	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process [job-document-file]",
	Short: "Structure a job document into a canonical record",
	Long: `Process a raw job document into a structured record with a quality report.
The document may be plain text, PDF or DOCX; the format is detected from the
file extension and can be overridden with --content-type. When the AI
structuring call fails, a deterministic rule-based extraction is used instead.

Use --prompts to also synthesize the platform-targeted candidate search
prompts for the structured record.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if processConfig.OutputFormat == "" {
			processConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(processConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runProcess,
}

var (
	processConfig      common.CommandConfig
	processWithPrompts bool
	processContentType string
)

func init() {
	processCmd.Flags().StringVarP(&processConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	processCmd.Flags().StringVar(&processConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	processCmd.Flags().BoolVar(&processWithPrompts, "prompts", false, "Also synthesize candidate search prompts")
	processCmd.Flags().StringVar(&processContentType, "content-type", "", "Document content type: text, pdf, or docx (default: detected from extension)")

	// Add completion for format flag
	_ = processCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Create AI service for the structure operation
	structureAIConfig := cfg.GetStructureConfig()
	aiService, err := ai.NewService(&structureAIConfig, "structure", logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}

	decoder := ingest.NewDecoder(logger)
	contentType := ingest.DetectContentType(args[0], processContentType)

	createInput := func(contents []string) (types.StructureJobInput, error) {
		if len(contents) != 1 {
			return types.StructureJobInput{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		rawText, err := decoder.Decode([]byte(contents[0]), contentType)
		if err != nil {
			return types.StructureJobInput{}, err
		}
		return types.StructureJobInput{RawText: rawText}, nil
	}

	logDetails := func(input types.StructureJobInput, cfg common.CommandConfig) {
		logger.Info("Starting job document processing",
			"document_chars", len(input.RawText),
			"content_type", string(contentType),
			"output_format", cfg.OutputFormat)
	}

	processOperation := func(ctx context.Context, input types.StructureJobInput) (types.ProcessResult, *ai.TokenUsage, error) {
		structurer := extract.NewStructurer(aiService.Provider, logger)
		record, err := structurer.Structure(ctx, input.RawText, contentType)
		if err != nil {
			return types.ProcessResult{}, nil, err
		}

		result := types.ProcessResult{
			Record:  record,
			Quality: extract.ValidateQuality(&record),
		}

		if processWithPrompts {
			promptsAIConfig := cfg.GetPromptsConfig()
			promptsService, err := ai.NewService(&promptsAIConfig, "prompts", logger)
			var provider ai.AIProvider
			if err != nil {
				logger.Warn("Failed to create prompts AI service, using deterministic templates",
					"error", err.Error())
			} else {
				provider = promptsService.Provider
			}
			pair := query.NewSynthesizer(provider, logger).Synthesize(ctx, &record)
			result.Prompts = &pair
		}

		return result, nil, nil
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		processConfig,
		args,
		createInput,
		processOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to process job document: %w", err)
	}
	logger.Info("Job document processing completed successfully")
	return nil
}
