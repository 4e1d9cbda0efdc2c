// Package config loads hokuspokus application configuration and project ignore rules.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/hokuspokus/internal/utils"
)

// Defaults applied when no configuration file sets a value.
const (
	DefaultModel            = "gpt-4o"
	DefaultTemperature      = 0.2
	DefaultContextMaxTokens = 100000
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds the merged configuration. Pointer fields distinguish unset values from zero values.
type ApplicationConfiguration struct {
	Completion CompletionConfiguration `mapstructure:"completion"`
	Context    ContextConfiguration    `mapstructure:"context"`
	Clipboard  *bool                   `mapstructure:"clipboard"`
}

// CompletionConfiguration selects the model and endpoint of the completion service.
type CompletionConfiguration struct {
	Model       string   `mapstructure:"model"`
	Temperature *float32 `mapstructure:"temperature"`
	BaseURL     string   `mapstructure:"base_url"`
}

// ContextConfiguration controls project context aggregation for debug and develop.
type ContextConfiguration struct {
	MaxTokens      *int     `mapstructure:"max_tokens"`
	TokenizerModel string   `mapstructure:"tokenizer_model"`
	Exclude        []string `mapstructure:"exclude"`
	UseGitignore   *bool    `mapstructure:"use_gitignore"`
	UseIgnoreFile  *bool    `mapstructure:"use_ignore"`
	IncludeGit     *bool    `mapstructure:"include_git"`
}

// LoadApplicationConfiguration merges the global file and the local (or explicit) file; local values win.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)
	merged.Context.Exclude = utils.DeduplicatePatterns(merged.Context.Exclude)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.LocalConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var configuration ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&configuration); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Completion = result.Completion.merge(override.Completion)
	result.Context = result.Context.merge(override.Context)
	if override.Clipboard != nil {
		result.Clipboard = clonePointer(override.Clipboard)
	}
	return result
}

func (configuration CompletionConfiguration) merge(override CompletionConfiguration) CompletionConfiguration {
	result := configuration
	if override.Model != "" {
		result.Model = override.Model
	}
	if override.Temperature != nil {
		result.Temperature = clonePointer(override.Temperature)
	}
	if override.BaseURL != "" {
		result.BaseURL = override.BaseURL
	}
	return result
}

func (configuration ContextConfiguration) merge(override ContextConfiguration) ContextConfiguration {
	result := configuration
	if override.MaxTokens != nil {
		result.MaxTokens = clonePointer(override.MaxTokens)
	}
	if override.TokenizerModel != "" {
		result.TokenizerModel = override.TokenizerModel
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = clonePointer(override.UseGitignore)
	}
	if override.UseIgnoreFile != nil {
		result.UseIgnoreFile = clonePointer(override.UseIgnoreFile)
	}
	if override.IncludeGit != nil {
		result.IncludeGit = clonePointer(override.IncludeGit)
	}
	return result
}

// ModelOrDefault returns the configured model or DefaultModel.
func (configuration CompletionConfiguration) ModelOrDefault() string {
	if configuration.Model == "" {
		return DefaultModel
	}
	return configuration.Model
}

// TemperatureOrDefault returns the configured temperature or DefaultTemperature.
func (configuration CompletionConfiguration) TemperatureOrDefault() float32 {
	if configuration.Temperature == nil {
		return DefaultTemperature
	}
	return *configuration.Temperature
}

// MaxTokensOrDefault returns the configured context budget or DefaultContextMaxTokens. Zero disables the budget.
func (configuration ContextConfiguration) MaxTokensOrDefault() int {
	if configuration.MaxTokens == nil {
		return DefaultContextMaxTokens
	}
	return *configuration.MaxTokens
}

// TokenizerModelOrDefault returns the tokenizer model, falling back to the completion model.
func (configuration ContextConfiguration) TokenizerModelOrDefault(completionModel string) string {
	if configuration.TokenizerModel == "" {
		return completionModel
	}
	return configuration.TokenizerModel
}

// ClipboardEnabled reports whether accepted commands and snippets are copied to the clipboard. Defaults to true.
func (configuration ApplicationConfiguration) ClipboardEnabled() bool {
	return boolOrDefault(configuration.Clipboard, true)
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func clonePointer[T any](value *T) *T {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
