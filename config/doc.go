// Package config resolves workflow configuration hierarchically.
//
// Values merge from four layers, highest priority first:
//
//  1. TDDFLOW_* environment variables
//  2. .tddflow.yaml in the project root
//  3. ~/.config/tddflow/config.yaml
//  4. Built-in defaults
//
// Missing files are skipped silently; unparseable files produce a
// warning and are ignored. Loader.Source reports which layer supplied
// each value.
package config
