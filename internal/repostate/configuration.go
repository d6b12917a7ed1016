package repostate

import "strings"

const defaultArchivePathConstant = "project-source.tar"

// CommandConfiguration captures configuration values for the repo commands.
type CommandConfiguration struct {
	WorkingDirectory string `mapstructure:"working_directory"`
	ArchivePath      string `mapstructure:"archive_path"`
	AssumeYes        bool   `mapstructure:"assume_yes"`
}

// DefaultCommandConfiguration provides baseline configuration values for the repo commands.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		WorkingDirectory: "",
		ArchivePath:      defaultArchivePathConstant,
		AssumeYes:        false,
	}
}

// DefaultConfigurationValues exposes baseline values keyed for the configuration loader.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKeyPrefix + ".working_directory": defaults.WorkingDirectory,
		configurationKeyPrefix + ".archive_path":      defaults.ArchivePath,
		configurationKeyPrefix + ".assume_yes":        defaults.AssumeYes,
	}
}

// sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.WorkingDirectory = strings.TrimSpace(configuration.WorkingDirectory)
	sanitized.ArchivePath = strings.TrimSpace(configuration.ArchivePath)
	return sanitized
}
