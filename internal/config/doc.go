// Package config loads, defaults, and validates the TOML configuration used
// by the archivist daemon and CLI.
//
// Load resolves the config path (explicit flag, ~/.config/archivist, or a
// project-local archivist.toml), decodes it over Default(), normalizes paths
// with ~ expansion, and validates the result. Other packages receive a fully
// populated *Config and never consult the environment directly.
package config
