package scheme

import "strings"

const defaultPlistPathConstant = "ios/Info.plist"

// CommandConfiguration captures configuration values for the scheme commands.
type CommandConfiguration struct {
	PlistPath    string `mapstructure:"plist_path"`
	SyncFilePath string `mapstructure:"sync_file"`
}

// DefaultCommandConfiguration provides baseline configuration values for scheme editing.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		PlistPath:    defaultPlistPathConstant,
		SyncFilePath: "",
	}
}

// DefaultConfigurationValues exposes baseline values keyed for the configuration loader.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKeyPrefix + ".plist_path": defaults.PlistPath,
		configurationKeyPrefix + ".sync_file":  defaults.SyncFilePath,
	}
}

// sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.PlistPath = strings.TrimSpace(configuration.PlistPath)
	sanitized.SyncFilePath = strings.TrimSpace(configuration.SyncFilePath)
	return sanitized
}
