// Package config loads engine limits and logging settings.
//
// Configuration is layered: compiled-in defaults, then an optional
// TOML file, then REDLINE_* environment variables. A missing config
// file is not an error; a malformed one is.
package config
