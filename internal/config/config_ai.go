package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetStructureConfig returns the AI configuration for job structuring with fallback to global config
func (c *Config) GetStructureConfig() OperationAIConfig {
	config := c.AI.Structure

	// Apply common defaults
	c.applyOperationDefaults(&config)

	// Apply structure-specific prompt fallbacks
	if config.CustomPrompts.SystemPrompts.StructureJob == "" {
		config.CustomPrompts.SystemPrompts.StructureJob = c.AI.CustomPrompts.SystemPrompts.StructureJob
	}
	if config.CustomPrompts.UserPrompts.StructureJob == "" {
		config.CustomPrompts.UserPrompts.StructureJob = c.AI.CustomPrompts.UserPrompts.StructureJob
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.StructureJobFile == "" {
		config.CustomPrompts.SystemPrompts.StructureJobFile = c.AI.CustomPrompts.SystemPrompts.StructureJobFile
	}
	if config.CustomPrompts.UserPrompts.StructureJobFile == "" {
		config.CustomPrompts.UserPrompts.StructureJobFile = c.AI.CustomPrompts.UserPrompts.StructureJobFile
	}

	return config
}

// GetPromptsConfig returns the AI configuration for search prompt generation with fallback to global config.
// The prompts operation carries two prompt templates, one per target platform.
func (c *Config) GetPromptsConfig() OperationAIConfig {
	config := c.AI.Prompts

	// Apply common defaults
	c.applyOperationDefaults(&config)

	if config.CustomPrompts.SystemPrompts.NetworkSearch == "" {
		config.CustomPrompts.SystemPrompts.NetworkSearch = c.AI.CustomPrompts.SystemPrompts.NetworkSearch
	}
	if config.CustomPrompts.UserPrompts.NetworkSearch == "" {
		config.CustomPrompts.UserPrompts.NetworkSearch = c.AI.CustomPrompts.UserPrompts.NetworkSearch
	}
	if config.CustomPrompts.SystemPrompts.CodeSearch == "" {
		config.CustomPrompts.SystemPrompts.CodeSearch = c.AI.CustomPrompts.SystemPrompts.CodeSearch
	}
	if config.CustomPrompts.UserPrompts.CodeSearch == "" {
		config.CustomPrompts.UserPrompts.CodeSearch = c.AI.CustomPrompts.UserPrompts.CodeSearch
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.NetworkSearchFile == "" {
		config.CustomPrompts.SystemPrompts.NetworkSearchFile = c.AI.CustomPrompts.SystemPrompts.NetworkSearchFile
	}
	if config.CustomPrompts.UserPrompts.NetworkSearchFile == "" {
		config.CustomPrompts.UserPrompts.NetworkSearchFile = c.AI.CustomPrompts.UserPrompts.NetworkSearchFile
	}
	if config.CustomPrompts.SystemPrompts.CodeSearchFile == "" {
		config.CustomPrompts.SystemPrompts.CodeSearchFile = c.AI.CustomPrompts.SystemPrompts.CodeSearchFile
	}
	if config.CustomPrompts.UserPrompts.CodeSearchFile == "" {
		config.CustomPrompts.UserPrompts.CodeSearchFile = c.AI.CustomPrompts.UserPrompts.CodeSearchFile
	}

	return config
}

// GetRankConfig returns the AI configuration for candidate scoring with fallback to global config
func (c *Config) GetRankConfig() OperationAIConfig {
	config := c.AI.Rank

	// Apply common defaults
	c.applyOperationDefaults(&config)

	// Apply rank-specific prompt fallbacks
	if config.CustomPrompts.SystemPrompts.ScoreCandidate == "" {
		config.CustomPrompts.SystemPrompts.ScoreCandidate = c.AI.CustomPrompts.SystemPrompts.ScoreCandidate
	}
	if config.CustomPrompts.UserPrompts.ScoreCandidate == "" {
		config.CustomPrompts.UserPrompts.ScoreCandidate = c.AI.CustomPrompts.UserPrompts.ScoreCandidate
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.ScoreCandidateFile == "" {
		config.CustomPrompts.SystemPrompts.ScoreCandidateFile = c.AI.CustomPrompts.SystemPrompts.ScoreCandidateFile
	}
	if config.CustomPrompts.UserPrompts.ScoreCandidateFile == "" {
		config.CustomPrompts.UserPrompts.ScoreCandidateFile = c.AI.CustomPrompts.UserPrompts.ScoreCandidateFile
	}

	return config
}

// GetLoadedStructurePrompts returns a copy of the loaded prompts for the structure operation
func (c *Config) GetLoadedStructurePrompts() OperationLoadedPrompts {
	return loadedPrompts.Structure
}

// GetLoadedPromptsPrompts returns a copy of the loaded prompts for the prompts operation
func (c *Config) GetLoadedPromptsPrompts() OperationLoadedPrompts {
	return loadedPrompts.Prompts
}

// GetLoadedRankPrompts returns a copy of the loaded prompts for the rank operation
func (c *Config) GetLoadedRankPrompts() OperationLoadedPrompts {
	return loadedPrompts.Rank
}

// GetLoadedGlobalPrompts returns a copy of the loaded global prompts
func (c *Config) GetLoadedGlobalPrompts() LoadedPrompts {
	return loadedPrompts.Global
}
