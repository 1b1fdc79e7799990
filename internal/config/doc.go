// Package config provides centralized configuration management for kscompare.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones winning:
//
//	1. Default values (Default)
//	2. A YAML file: $KSC_CONFIG, or config.yaml / configs/config.yaml
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables use the KSC_ prefix followed by the section:
//
//	KSC_SERVER_PORT=8080
//	KSC_PATHS_DATA_DIR=/srv/prices
//	KSC_LOGGING_LEVEL=debug
//	KSC_ANALYSIS_ROW_POLICY=strict
//	KSC_ANALYSIS_ALPHA=0.01
//
// # Paths
//
// Relative directories are resolved against the config file's directory,
// or the working directory when no file is used.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
