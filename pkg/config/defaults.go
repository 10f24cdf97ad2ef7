package config

import (
	"os"
	"path/filepath"
)

// localConfigFile is looked up in the working directory.
const localConfigFile = "boxoffice.yaml"

// dotEnvFile holds credentials next to the working directory.
const dotEnvFile = ".env"

// defaultConfigPath returns ~/.config/boxoffice/config.yaml.
func defaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}

	return filepath.Join(homeDir, ".config", "boxoffice", "config.yaml")
}

// SearchPaths returns the config file candidates in lookup order.
func SearchPaths() []string {
	return []string{
		"./" + localConfigFile,
		defaultConfigPath(),
	}
}
