// Package config provides configuration management for mgnify-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Overrides from a .env file and the process environment
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Talks to https://www.ebi.ac.uk/metagenomics/api/v1
//	// Three concurrent workers, 750ms pause per listing page
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Environment Overrides
//
//	err := settings.ApplyEnv(".env")
//	// MGNIFY_API_BASE, MGNIFY_USER_AGENT, MGNIFY_HTTP_TIMEOUT,
//	// MGNIFY_PAGE_SIZE and MGNIFY_WORKERS replace the loaded values.
//
// Command line flags are applied by the caller after ApplyEnv, so the order
// of precedence is flags, environment, .env file, JSON file, defaults.
package config
