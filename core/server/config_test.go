package server_test

import (
	"testing"

	"content-forge/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_HasSystem(t *testing.T) {
	tests := []struct {
		name   string
		system string
		want   bool
	}{
		{"Configured", "pf2e", true},
		{"Whitespace", "   ", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{System: tt.system}
			assert.Equal(t, tt.want, c.HasSystem())
		})
	}
}

func TestConfig_TraitKeys(t *testing.T) {
	tests := []struct {
		name   string
		traits string
		want   []string
	}{
		{"Empty", "", nil},
		{"Single", "magical", []string{"magical"}},
		{"TrimsAndSkipsBlanks", " fire , , evocation ", []string{"fire", "evocation"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Traits: tt.traits}
			assert.Equal(t, tt.want, c.TraitKeys())
		})
	}
}
