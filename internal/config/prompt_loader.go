package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// PromptSource represents where a prompt was loaded from
type PromptSource struct {
	Source    string // "file", "operation-config", "global-config", or "default"
	FilePath  string // Set if Source is "file"
	Operation string // The operation this prompt is for
	Type      string // "system" or "user"
}

// GetLoadedPrompts returns the loaded prompt content in a thread-safe way
func GetLoadedPrompts() *AllLoadedPrompts {
	return &loadedPrompts
}

// loadPromptsFromFiles loads custom prompts from external files if file paths are specified
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	// Initialize loaded prompts exactly once
	loadedPromptsOnce.Do(func() {
		loadedPrompts = AllLoadedPrompts{}
	})

	// Load global prompts
	if err := c.loadSystemPromptsFromFiles(&c.AI.CustomPrompts.SystemPrompts, &loadedPrompts.Global.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load global system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.CustomPrompts.UserPrompts, &loadedPrompts.Global.UserPrompts); err != nil {
		return fmt.Errorf("failed to load global user prompts: %w", err)
	}

	// Load operation-specific prompts
	if err := c.loadSystemPromptsFromFiles(&c.AI.Structure.CustomPrompts.SystemPrompts, &loadedPrompts.Structure.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load structure system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.Structure.CustomPrompts.UserPrompts, &loadedPrompts.Structure.UserPrompts); err != nil {
		return fmt.Errorf("failed to load structure user prompts: %w", err)
	}

	if err := c.loadSystemPromptsFromFiles(&c.AI.Prompts.CustomPrompts.SystemPrompts, &loadedPrompts.Prompts.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load prompts system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.Prompts.CustomPrompts.UserPrompts, &loadedPrompts.Prompts.UserPrompts); err != nil {
		return fmt.Errorf("failed to load prompts user prompts: %w", err)
	}

	if err := c.loadSystemPromptsFromFiles(&c.AI.Rank.CustomPrompts.SystemPrompts, &loadedPrompts.Rank.SystemPrompts); err != nil {
		return fmt.Errorf("failed to load rank system prompts: %w", err)
	}
	if err := c.loadUserPromptsFromFiles(&c.AI.Rank.CustomPrompts.UserPrompts, &loadedPrompts.Rank.UserPrompts); err != nil {
		return fmt.Errorf("failed to load rank user prompts: %w", err)
	}

	// Log summary of prompt sources after loading
	c.logPromptLoadingSummary()

	return nil
}

// loadSystemPromptsFromFiles loads system prompts from files if file paths are specified
func (c *Config) loadSystemPromptsFromFiles(prompts *SystemPrompts, target *LoadedSystemPrompts) error {
	if prompts.StructureJobFile != "" {
		content, err := c.loadPromptFromFile(prompts.StructureJobFile, "system", "structureJob")
		if err != nil {
			return err
		}
		target.StructureJob = content
	}

	if prompts.NetworkSearchFile != "" {
		content, err := c.loadPromptFromFile(prompts.NetworkSearchFile, "system", "networkSearch")
		if err != nil {
			return err
		}
		target.NetworkSearch = content
	}

	if prompts.CodeSearchFile != "" {
		content, err := c.loadPromptFromFile(prompts.CodeSearchFile, "system", "codeSearch")
		if err != nil {
			return err
		}
		target.CodeSearch = content
	}

	if prompts.ScoreCandidateFile != "" {
		content, err := c.loadPromptFromFile(prompts.ScoreCandidateFile, "system", "scoreCandidate")
		if err != nil {
			return err
		}
		target.ScoreCandidate = content
	}

	return nil
}

// loadUserPromptsFromFiles loads user prompts from files if file paths are specified
func (c *Config) loadUserPromptsFromFiles(prompts *UserPrompts, target *LoadedUserPrompts) error {
	if prompts.StructureJobFile != "" {
		content, err := c.loadPromptFromFile(prompts.StructureJobFile, "user", "structureJob")
		if err != nil {
			return err
		}
		target.StructureJob = content
	}

	if prompts.NetworkSearchFile != "" {
		content, err := c.loadPromptFromFile(prompts.NetworkSearchFile, "user", "networkSearch")
		if err != nil {
			return err
		}
		target.NetworkSearch = content
	}

	if prompts.CodeSearchFile != "" {
		content, err := c.loadPromptFromFile(prompts.CodeSearchFile, "user", "codeSearch")
		if err != nil {
			return err
		}
		target.CodeSearch = content
	}

	if prompts.ScoreCandidateFile != "" {
		content, err := c.loadPromptFromFile(prompts.ScoreCandidateFile, "user", "scoreCandidate")
		if err != nil {
			return err
		}
		target.ScoreCandidate = content
	}

	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func (c *Config) loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	// Resolve relative paths
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	// Check if file exists
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
	}

	// Read file content
	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	// Validate content is not empty
	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	// Log successful loading
	log.Printf("[CONFIG] Successfully loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles validates that prompt files exist and are readable before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	// Helper function to validate a file path
	validateFile := func(filePath, promptType, operation string) {
		if filePath == "" {
			return // No file specified, skip validation
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s prompt: %s", promptType, operation, filePath))
			return
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s prompt file not found: %s", promptType, operation, absPath))
		}
	}

	// Validate global prompt files
	validateFile(c.AI.CustomPrompts.SystemPrompts.StructureJobFile, "system", "structureJob")
	validateFile(c.AI.CustomPrompts.SystemPrompts.NetworkSearchFile, "system", "networkSearch")
	validateFile(c.AI.CustomPrompts.SystemPrompts.CodeSearchFile, "system", "codeSearch")
	validateFile(c.AI.CustomPrompts.SystemPrompts.ScoreCandidateFile, "system", "scoreCandidate")
	validateFile(c.AI.CustomPrompts.UserPrompts.StructureJobFile, "user", "structureJob")
	validateFile(c.AI.CustomPrompts.UserPrompts.NetworkSearchFile, "user", "networkSearch")
	validateFile(c.AI.CustomPrompts.UserPrompts.CodeSearchFile, "user", "codeSearch")
	validateFile(c.AI.CustomPrompts.UserPrompts.ScoreCandidateFile, "user", "scoreCandidate")

	// Validate operation-specific prompt files
	validateFile(c.AI.Structure.CustomPrompts.SystemPrompts.StructureJobFile, "structure system", "structureJob")
	validateFile(c.AI.Structure.CustomPrompts.UserPrompts.StructureJobFile, "structure user", "structureJob")
	validateFile(c.AI.Prompts.CustomPrompts.SystemPrompts.NetworkSearchFile, "prompts system", "networkSearch")
	validateFile(c.AI.Prompts.CustomPrompts.UserPrompts.NetworkSearchFile, "prompts user", "networkSearch")
	validateFile(c.AI.Prompts.CustomPrompts.SystemPrompts.CodeSearchFile, "prompts system", "codeSearch")
	validateFile(c.AI.Prompts.CustomPrompts.UserPrompts.CodeSearchFile, "prompts user", "codeSearch")
	validateFile(c.AI.Rank.CustomPrompts.SystemPrompts.ScoreCandidateFile, "rank system", "scoreCandidate")
	validateFile(c.AI.Rank.CustomPrompts.UserPrompts.ScoreCandidateFile, "rank user", "scoreCandidate")

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

// logPromptLoadingSummary logs a summary of loaded prompts
func (c *Config) logPromptLoadingSummary() {
	log.Println("[CONFIG] === Custom Prompt Loading Summary ===")

	promptCount := 0

	promptChecks := []struct {
		content string
		message string
	}{
		{loadedPrompts.Global.SystemPrompts.StructureJob, "[CONFIG] Global system structure prompt: loaded from config/file"},
		{loadedPrompts.Global.SystemPrompts.NetworkSearch, "[CONFIG] Global system network-search prompt: loaded from config/file"},
		{loadedPrompts.Global.SystemPrompts.CodeSearch, "[CONFIG] Global system code-search prompt: loaded from config/file"},
		{loadedPrompts.Global.SystemPrompts.ScoreCandidate, "[CONFIG] Global system score prompt: loaded from config/file"},
		{loadedPrompts.Global.UserPrompts.StructureJob, "[CONFIG] Global user structure prompt: loaded from config/file"},
		{loadedPrompts.Global.UserPrompts.NetworkSearch, "[CONFIG] Global user network-search prompt: loaded from config/file"},
		{loadedPrompts.Global.UserPrompts.CodeSearch, "[CONFIG] Global user code-search prompt: loaded from config/file"},
		{loadedPrompts.Global.UserPrompts.ScoreCandidate, "[CONFIG] Global user score prompt: loaded from config/file"},
		{loadedPrompts.Structure.SystemPrompts.StructureJob, "[CONFIG] Structure-specific system prompt: loaded from config/file"},
		{loadedPrompts.Structure.UserPrompts.StructureJob, "[CONFIG] Structure-specific user prompt: loaded from config/file"},
		{loadedPrompts.Prompts.SystemPrompts.NetworkSearch, "[CONFIG] Prompts-specific network system prompt: loaded from config/file"},
		{loadedPrompts.Prompts.UserPrompts.NetworkSearch, "[CONFIG] Prompts-specific network user prompt: loaded from config/file"},
		{loadedPrompts.Prompts.SystemPrompts.CodeSearch, "[CONFIG] Prompts-specific code system prompt: loaded from config/file"},
		{loadedPrompts.Prompts.UserPrompts.CodeSearch, "[CONFIG] Prompts-specific code user prompt: loaded from config/file"},
		{loadedPrompts.Rank.SystemPrompts.ScoreCandidate, "[CONFIG] Rank-specific system prompt: loaded from config/file"},
		{loadedPrompts.Rank.UserPrompts.ScoreCandidate, "[CONFIG] Rank-specific user prompt: loaded from config/file"},
	}

	for _, check := range promptChecks {
		if check.content != "" {
			log.Println(check.message)
			promptCount++
		}
	}

	if promptCount == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", promptCount)
	}

	log.Println("[CONFIG] ==========================================")
}
