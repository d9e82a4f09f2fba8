package content

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"content-forge/core/logger"
	"content-forge/feature/content/convert"
	"content-forge/feature/content/merge"
	"content-forge/feature/content/models"
	"content-forge/feature/content/schema"
	"content-forge/feature/content/store"
)

// Handler handles HTTP requests for canonical content.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the content routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/content")
	group.Post("/validate", h.HandleValidate)
	group.Post("/import", h.HandleImport)
	group.Post("/generate", h.HandleGenerate)
	group.Get("/libraries/:library", h.HandleListLibrary)
	group.Get("/:slug/export", h.HandleExport)
	group.Post("/:slug/merge", h.HandleMerge)
}

// HandleValidate checks a canonical record against its declared schema.
// @Summary Validate Canonical Record
// @Description Validate a canonical JSON record against the schema for its declared version.
// @Tags content
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any "Validation Result"
// @Failure 422 {object} map[string]any "Schema Violations"
// @Router /content/validate [post]
func (h *Handler) HandleValidate(c *fiber.Ctx) error {
	if err := h.service.Validate(c.Body()); err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"valid":      false,
				"violations": verr.Violations,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"valid": true})
}

// HandleImport synthesizes a canonical record into the target scope.
// @Summary Import Canonical Record
// @Description Validate and synthesize a canonical record into the world or a shared content library. An existing document with the same slug is fully replaced.
// @Tags content
// @Accept json
// @Produce json
// @Param library query string false "Target content library (world scope when omitted)"
// @Success 200 {object} ImportResult "Updated"
// @Success 201 {object} ImportResult "Created"
// @Failure 409 {object} map[string]string "System Mismatch"
// @Failure 422 {object} map[string]any "Schema Violations"
// @Router /content/import [post]
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	scope := store.Scope{Library: c.Query("library")}

	result, err := h.service.Import(c.Context(), c.Body(), scope)
	if err != nil {
		return h.importError(c, l, result, err)
	}
	if result.Created {
		return c.Status(fiber.StatusCreated).JSON(result)
	}
	return c.JSON(result)
}

// HandleExport normalizes a document back into a canonical record.
// @Summary Export Canonical Record
// @Description Normalize the document with the given slug back into the canonical schema.
// @Tags content
// @Produce json
// @Param slug path string true "Document Slug"
// @Param library query string false "Source content library (world scope when omitted)"
// @Success 200 {object} any "Canonical Record"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /content/{slug}/export [get]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	scope := store.Scope{Library: c.Query("library")}

	rec, err := h.service.Export(c.Context(), c.Params("slug"), scope)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rec)
}

// mergeRequestBody is the wire shape of a section merge request.
type mergeRequestBody struct {
	// Sections maps section names to "add" or "replace".
	Sections map[string]string `json:"sections"`
	// Patch is a canonical actor restricted to the selected sections.
	Patch json.RawMessage `json:"patch"`
}

// HandleMerge applies a partial canonical patch to selected sections.
// @Summary Merge Sections
// @Description Apply a partial canonical patch to selected sections of an existing actor document. Unselected sections are preserved.
// @Tags content
// @Accept json
// @Produce json
// @Param slug path string true "Document Slug"
// @Param library query string false "Target content library (world scope when omitted)"
// @Param dry_run query bool false "Build the plan without executing it"
// @Success 200 {object} MergeResult "Merge Result"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 422 {object} map[string]any "Schema Violations"
// @Failure 502 {object} map[string]any "Partial Failure"
// @Router /content/{slug}/merge [post]
func (h *Handler) HandleMerge(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var body mergeRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	req, err := parseSections(body.Sections)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	var patch models.Actor
	if err := json.Unmarshal(body.Patch, &patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	scope := store.Scope{Library: c.Query("library")}
	opts := merge.Options{DryRun: c.QueryBool("dry_run"), Confirmed: true}

	result, err := h.service.MergeSections(c.Context(), c.Params("slug"), scope, &patch, req, opts)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":      "merged record failed validation",
				"violations": verr.Violations,
			})
		}
		l.Error("Merge failed", zap.Error(err))
		if result != nil {
			// The document may be partially updated; the plan is returned
			// so the caller can inspect and recover the remaining work.
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error":    err.Error(),
				"plan":     result.Plan,
				"executed": result.Executed,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// HandleGenerate runs the configured generation provider.
// @Summary Generate Canonical Record
// @Description Run the generation provider and return its output once it passes schema validation.
// @Tags content
// @Accept json
// @Produce json
// @Success 200 {object} any "Canonical Record"
// @Failure 422 {object} map[string]any "Schema Violations"
// @Failure 503 {object} map[string]string "No Provider"
// @Router /content/generate [post]
func (h *Handler) HandleGenerate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var input GenerationInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	rec, _, err := h.service.Generate(c.Context(), input)
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":      "generated record failed validation",
				"violations": verr.Violations,
			})
		}
		if h.service.generator == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Generation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rec)
}

// HandleListLibrary lists the slugs stored in a content library.
// @Summary List Library
// @Description List the document slugs stored in a shared content library.
// @Tags content
// @Produce json
// @Param library path string true "Library Name"
// @Success 200 {object} map[string]any "Library Contents"
// @Router /content/libraries/{library} [get]
func (h *Handler) HandleListLibrary(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	slugs, err := h.service.ListLibrary(c.Context(), c.Params("library"))
	if err != nil {
		l.Error("Library listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"library": c.Params("library"), "slugs": slugs})
}

// parseSections converts wire section and operation names into a merge
// request.
func parseSections(sections map[string]string) (merge.Request, error) {
	if len(sections) == 0 {
		return nil, errors.New("no sections selected")
	}
	req := merge.Request{}
	for name, op := range sections {
		section, err := merge.ParseSection(name)
		if err != nil {
			return nil, err
		}
		parsed, err := merge.ParseOp(op)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", name, err)
		}
		req[section] = parsed
	}
	return req, nil
}

func (h *Handler) importError(c *fiber.Ctx, l *zap.Logger, result *ImportResult, err error) error {
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":      "record failed validation",
			"violations": verr.Violations,
		})
	}
	if errors.Is(err, convert.ErrSystemMismatch) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	l.Error("Import failed", zap.Error(err))
	if result != nil && result.Executed > 0 {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":  err.Error(),
			"result": result,
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
