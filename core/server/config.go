package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// System is the active game system identifier. Canonical records
	// targeting a different system are rejected.
	System string `mapstructure:"system" default:"pf2e"`
	// Traits is a comma-separated list of recognized trait keys.
	// Empty means every trait is accepted.
	Traits string `mapstructure:"traits" default:""`
}

// HasSystem checks whether an active system identifier is configured.
func (c Config) HasSystem() bool {
	return strings.TrimSpace(c.System) != ""
}

// TraitKeys splits the configured trait list into individual keys.
func (c Config) TraitKeys() []string {
	if strings.TrimSpace(c.Traits) == "" {
		return nil
	}
	parts := strings.Split(c.Traits, ",")
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		if key := strings.TrimSpace(part); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
