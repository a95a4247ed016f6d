package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Remote persistent store
	RemoteURL    string
	RemoteAPIKey string

	// Content catalog
	CatalogURL          string
	CatalogCacheMinutes int // How long unit lists stay cached (default: 15)

	// Server
	ServerPort string

	// Paths
	SessionFile  string // $CONFIG_DIR/session.json
	DatabaseFile string // $CONFIG_DIR/yomarr.db

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("CATALOG_CACHE_MINUTES", 15)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "yomarr")
	} else {
		// Convert relative path to absolute path
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		// Remote store
		RemoteURL:    viper.GetString("REMOTE_URL"),
		RemoteAPIKey: viper.GetString("REMOTE_API_KEY"),

		// Catalog
		CatalogURL:          viper.GetString("CATALOG_URL"),
		CatalogCacheMinutes: viper.GetInt("CATALOG_CACHE_MINUTES"),

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Paths
		SessionFile:  filepath.Join(configDir, "session.json"),
		DatabaseFile: filepath.Join(configDir, "yomarr.db"),

		// Logging
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	// Validate required fields
	if config.RemoteURL == "" {
		return nil, fmt.Errorf("REMOTE_URL is required")
	}
	if config.RemoteAPIKey == "" {
		return nil, fmt.Errorf("REMOTE_API_KEY is required")
	}
	if config.CatalogURL == "" {
		return nil, fmt.Errorf("CATALOG_URL is required")
	}

	return config, nil
}
