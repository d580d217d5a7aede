// Package config loads and merges datecommit configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (DATECOMMIT_THRESHOLD_MB, DATECOMMIT_TIMESTAMP_SOURCE, etc.)
//  3. Config file ($XDG_CONFIG_HOME/datecommit/config.yaml, or --config)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged and validated [Config], [Save] to write a
// config file, and [SetField] to update a single key.
package config
