package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type fakeFeature struct {
	name    string
	enabled bool
	loadErr error
	loaded  bool
}

func (f *fakeFeature) Name() string    { return f.name }
func (f *fakeFeature) IsEnabled() bool { return f.enabled }
func (f *fakeFeature) Load(app fiber.Router) error {
	f.loaded = true
	return f.loadErr
}

func TestManager_LoadAll(t *testing.T) {
	m := NewManager()
	enabled := &fakeFeature{name: "content", enabled: true}
	disabled := &fakeFeature{name: "extras", enabled: false}
	m.Register(enabled)
	m.Register(disabled)

	err := m.LoadAll(fiber.New())
	assert.NoError(t, err)
	assert.True(t, enabled.loaded)
	assert.False(t, disabled.loaded)
}

func TestManager_LoadAll_WrapsFailure(t *testing.T) {
	m := NewManager()
	failing := &fakeFeature{name: "content", enabled: true, loadErr: errors.New("boom")}
	m.Register(failing)

	err := m.LoadAll(fiber.New())
	assert.ErrorContains(t, err, "failed to load feature content")
}
