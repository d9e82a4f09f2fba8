package content

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	storagemocks "content-forge/core/storage/mocks"
	"content-forge/feature/content/models"
	"content-forge/feature/content/store"
	storemocks "content-forge/feature/content/store/mocks"
)

func newTestApp(t *testing.T, world store.DocumentStore) *fiber.App {
	libraries := store.NewLibraryStore(new(storagemocks.Client), "content-libraries")
	svc, err := NewService(zap.NewNop(), world, libraries, "pf2e", nil, nil)
	require.NoError(t, err)

	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)
	return app
}

func decodeBody(t *testing.T, resp io.Reader) map[string]any {
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp).Decode(&body))
	return body
}

func TestHandleValidate_Valid(t *testing.T) {
	app := newTestApp(t, new(storemocks.DocumentStore))

	req := httptest.NewRequest("POST", "/content/validate", strings.NewReader(validItemJSON))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, true, body["valid"])
}

func TestHandleValidate_Violations(t *testing.T) {
	app := newTestApp(t, new(storemocks.DocumentStore))

	payload := `{"schema_version": 1, "systemId": "pf2e", "type": "item", "slug": "x", "name": "X"}`
	req := httptest.NewRequest("POST", "/content/validate", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, false, body["valid"])
	assert.NotEmpty(t, body["violations"])
}

func TestHandleImport_SystemMismatch(t *testing.T) {
	app := newTestApp(t, new(storemocks.DocumentStore))

	payload := strings.Replace(validItemJSON, `"pf2e"`, `"dnd5e"`, 1)
	req := httptest.NewRequest("POST", "/content/import", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestHandleExport_NotFound(t *testing.T) {
	world := new(storemocks.DocumentStore)
	world.On("GetBySlug", mock.Anything, "missing").Return(nil, store.ErrNotFound)
	app := newTestApp(t, world)

	resp, err := app.Test(httptest.NewRequest("GET", "/content/missing/export", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleExport_World(t *testing.T) {
	world := new(storemocks.DocumentStore)
	world.On("GetBySlug", mock.Anything, "potion-of-healing").Return(&models.Document{
		ID:   "potion0000000001",
		Name: "Potion of Healing",
		Type: "consumable",
		System: map[string]any{
			"slug": "potion-of-healing",
		},
	}, nil)
	app := newTestApp(t, world)

	resp, err := app.Test(httptest.NewRequest("GET", "/content/potion-of-healing/export", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, "potion-of-healing", body["slug"])
	assert.Equal(t, "item", body["type"])
}

func TestHandleMerge_BadSection(t *testing.T) {
	app := newTestApp(t, new(storemocks.DocumentStore))

	payload := `{"sections": {"loot": "add"}, "patch": {}}`
	req := httptest.NewRequest("POST", "/content/goblin-warrior/merge", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleMerge_DryRun(t *testing.T) {
	world := new(storemocks.DocumentStore)
	world.On("GetBySlug", mock.Anything, "goblin-warrior").Return(&models.Document{
		ID:   "goblin0000000001",
		Name: "Goblin Warrior",
		Type: "npc",
		System: models.ActorSystem{
			Slug: "goblin-warrior",
		},
	}, nil)
	app := newTestApp(t, world)

	payload := `{"sections": {"skills": "add"}, "patch": {"skills": [{"name": "Stealth", "value": 7}]}}`
	req := httptest.NewRequest("POST", "/content/goblin-warrior/merge?dry_run=true", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, float64(0), body["executed"])
	require.NotNil(t, body["plan"])

	world.AssertExpectations(t)
}

func TestHandleGenerate_NoProvider(t *testing.T) {
	app := newTestApp(t, new(storemocks.DocumentStore))

	req := httptest.NewRequest("POST", "/content/generate", strings.NewReader(`{"type": "item", "prompt": "a potion"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
