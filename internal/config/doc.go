// Package config provides centralized configuration management for the solar
// dashboard. It loads settings from defaults, an optional YAML file and the
// environment, validates them, and resolves the directories the application
// reads measurement files from.
//
// # Configuration Sources
//
// Sources are applied in order, later ones winning:
//
//	1. Built-in defaults (Default)
//	2. config.yaml, configs/config.yaml or the file named by SOLAR_CONFIG_FILE
//	3. Environment variables
//
// # Environment Variables
//
// Variables are namespaced SOLAR_<SECTION>_<FIELD>:
//
//	SOLAR_SERVER_PORT=8501
//	SOLAR_PATHS_DATA_DIR=/srv/solar/data
//	SOLAR_DATA_CACHE_TTL=5m
//	SOLAR_LOGGING_LEVEL=debug
//
// # Paths
//
// Cleaned country files are looked up in the data directory next to the
// executable, then in data/ under the working directory. Setting
// SOLAR_PATHS_DATA_DIR pins the lookup to a single directory.
package config
