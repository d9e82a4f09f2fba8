package content

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	storagemocks "content-forge/core/storage/mocks"
	"content-forge/feature/content/store"
	storemocks "content-forge/feature/content/store/mocks"
)

func TestLoader(t *testing.T) {
	logger := zap.NewNop()
	libraries := store.NewLibraryStore(new(storagemocks.Client), "content-libraries")
	feature, err := NewFeature(logger, new(storemocks.DocumentStore), libraries, "pf2e", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "content", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	err = feature.Load(app)
	assert.NoError(t, err)
}
