// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structures for server settings, including the active
// game system identifier and the recognized trait keys.
//
// # Configuration
//
// The Config struct defines the HTTP port, API key, the active game system, and
// the comma-separated trait list.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the content feature to resolve the active system and trait capability.
package server
