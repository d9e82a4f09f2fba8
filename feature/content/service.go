package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"content-forge/feature/content/convert"
	"content-forge/feature/content/ident"
	"content-forge/feature/content/merge"
	"content-forge/feature/content/models"
	"content-forge/feature/content/parse"
	"content-forge/feature/content/schema"
	"content-forge/feature/content/store"
)

// Generator is the generation boundary: an opaque oracle producing a
// canonical record or section patch. The service never retries it or
// judges its quality, only the structural conformance of its output.
type Generator interface {
	Generate(ctx context.Context, input GenerationInput) (json.RawMessage, error)
}

// GenerationInput carries the user intent forwarded to the generator.
type GenerationInput struct {
	Type     models.RecordType `json:"type"`
	Prompt   string            `json:"prompt"`
	Sections []merge.Section   `json:"sections,omitempty"`
}

// Service wires the canonical mapping pipeline to the stores.
type Service struct {
	logger    *zap.Logger
	world     store.DocumentStore
	libraries *store.LibraryStore
	resolver  *store.Resolver
	validator *schema.Validator
	synth     *convert.Synthesizer
	norm      *convert.Normalizer
	generator Generator
}

// NewService builds the content service for one active game system. The
// trait set is the host capability listing recognized trait keys; empty
// means unrestricted. generator may be nil when no provider is configured.
func NewService(logger *zap.Logger, world store.DocumentStore, libraries *store.LibraryStore, system string, traits parse.TraitSet, generator Generator) (*Service, error) {
	validator, err := schema.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to compile canonical schemas: %w", err)
	}
	return &Service{
		logger:    logger,
		world:     world,
		libraries: libraries,
		resolver:  &store.Resolver{World: world, Libraries: libraries},
		validator: validator,
		synth:     convert.NewSynthesizer(system, traits, validator),
		norm:      convert.NewNormalizer(system),
		generator: generator,
	}, nil
}

// Validate checks a canonical JSON record against its declared schema.
// A nil return means the record is structurally valid; violations come
// back as a *schema.ValidationError carrying the full list.
func (s *Service) Validate(raw []byte) error {
	return s.validator.Validate(raw)
}

// ImportResult reports what an import changed.
type ImportResult struct {
	Slug       string               `json:"slug"`
	DocumentID string               `json:"document_id,omitempty"`
	Library    string               `json:"library,omitempty"`
	Created    bool                 `json:"created"`
	Executed   int                  `json:"executed,omitempty"`
	Skipped    []merge.SkippedSpell `json:"skipped,omitempty"`
}

// allReplace targets every section with a replace operation.
var allReplace = merge.Request{
	merge.SectionCore:      merge.OpReplace,
	merge.SectionDefenses:  merge.OpReplace,
	merge.SectionSkills:    merge.OpReplace,
	merge.SectionStrikes:   merge.OpReplace,
	merge.SectionActions:   merge.OpReplace,
	merge.SectionInventory: merge.OpReplace,
	merge.SectionSpells:    merge.OpReplace,
	merge.SectionNarrative: merge.OpReplace,
}

// Import validates a canonical JSON record and writes it into the target
// scope. The slug decides update versus create: a document with the same
// slug in scope is fully replaced, otherwise a new one is created.
func (s *Service) Import(ctx context.Context, raw []byte, scope store.Scope) (*ImportResult, error) {
	// Validate the raw payload first. Decoding into record structs drops
	// unknown fields, so a post-decode check could never reject them.
	if err := s.validator.Validate(raw); err != nil {
		return nil, err
	}
	rec, err := models.DecodeRecord(raw)
	if err != nil {
		return nil, err
	}

	alloc := ident.NewAllocator()
	var doc *models.Document
	var actor *models.Actor
	switch r := rec.(type) {
	case *models.Action:
		doc, err = s.synth.Action(r)
	case *models.Item:
		doc, err = s.synth.Item(r)
	case *models.Actor:
		actor = r
		doc, err = s.synth.Actor(r, alloc)
	}
	if err != nil {
		return nil, err
	}

	slug := convert.SystemText(doc.System, "slug")
	s.logger.Info("importing canonical record",
		zap.String("slug", slug),
		zap.String("type", doc.Type),
		zap.String("library", scope.Library))

	if scope.Library != "" {
		return s.importToLibrary(ctx, scope.Library, slug, doc)
	}
	return s.importToWorld(ctx, slug, doc, actor, alloc)
}

// importToLibrary overwrites the library object wholesale. Library
// documents are self-contained blobs, so provisional identifiers stay
// internally consistent and need no remap.
func (s *Service) importToLibrary(ctx context.Context, library, slug string, doc *models.Document) (*ImportResult, error) {
	created := false
	existing, err := s.libraries.Get(ctx, library, slug)
	switch {
	case err == nil:
		doc.ID = existing.ID
		if !convert.IsPlaceholderImage(existing.Img) {
			doc.Img = existing.Img
		}
	case errors.Is(err, store.ErrNotFound):
		created = true
		doc.ID = ident.NewID()
	default:
		return nil, err
	}
	if err := s.libraries.Put(ctx, library, slug, doc); err != nil {
		return nil, err
	}
	return &ImportResult{Slug: slug, DocumentID: doc.ID, Library: library, Created: created}, nil
}

func (s *Service) importToWorld(ctx context.Context, slug string, doc *models.Document, actor *models.Actor, alloc *ident.Allocator) (*ImportResult, error) {
	existing, err := s.world.GetBySlug(ctx, slug)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	created := existing == nil
	if created {
		// The root is created bare; embedded records go through the plan
		// path below so spell references resolve against host-assigned
		// entry identifiers.
		root := *doc
		root.Items = nil
		existing, err = s.world.Create(ctx, &root)
		if err != nil {
			return nil, err
		}
	}

	result := &ImportResult{Slug: slug, DocumentID: existing.ID, Created: created}
	if actor == nil {
		doc.ID = existing.ID
		if !convert.IsPlaceholderImage(existing.Img) {
			doc.Img = existing.Img
		}
		if err := s.world.Update(ctx, doc); err != nil {
			return nil, err
		}
		result.Executed = 1
		return result, nil
	}

	plan, err := merge.BuildPlan(existing, actor, allReplace, s.synth, alloc)
	if err != nil {
		return nil, err
	}
	applied, err := merge.Apply(ctx, s.world, plan, merge.Options{Confirmed: true})
	if applied != nil {
		result.Executed = applied.Executed
		result.Skipped = applied.Skipped
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

// Export normalizes the document with the given slug back into a
// canonical record.
func (s *Service) Export(ctx context.Context, slug string, scope store.Scope) (any, error) {
	doc, err := s.resolver.GetBySlug(ctx, slug, scope)
	if err != nil {
		return nil, err
	}
	return s.norm.Normalize(doc), nil
}

// MergeResult couples the built plan with what its application executed.
type MergeResult struct {
	Plan     *merge.Plan          `json:"plan"`
	Applied  *merge.ApplyResult   `json:"-"`
	Executed int                  `json:"executed"`
	Skipped  []merge.SkippedSpell `json:"skipped,omitempty"`
}

// MergeSections applies a partial canonical patch to the actor with the
// given slug. The request names the targeted sections and their
// operations; unselected sections are preserved untouched. With DryRun
// set, the plan is built and returned but nothing is executed. The caller
// keeps the returned plan even on failure so partially applied work can
// be inspected and recovered.
func (s *Service) MergeSections(ctx context.Context, slug string, scope store.Scope, patch *models.Actor, req merge.Request, opts merge.Options) (*MergeResult, error) {
	if scope.Library != "" {
		return s.mergeInLibrary(ctx, scope.Library, slug, patch, req, opts)
	}

	existing, err := s.world.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	base, ok := s.norm.Normalize(existing).(*models.Actor)
	if !ok {
		return nil, fmt.Errorf("document %s is not an actor", slug)
	}

	merged := merge.Sections(base, patch, req)
	alloc := ident.NewAllocator()
	plan, err := merge.BuildPlan(existing, merged, req, s.synth, alloc)
	if err != nil {
		return nil, err
	}

	applied, err := merge.Apply(ctx, s.world, plan, opts)
	result := &MergeResult{Plan: plan, Applied: applied}
	if applied != nil {
		result.Executed = applied.Executed
		result.Skipped = applied.Skipped
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

// mergeInLibrary rewrites the stored library object from the merged
// canonical record. Library objects are replaced atomically, so no
// mutation plan is needed.
func (s *Service) mergeInLibrary(ctx context.Context, library, slug string, patch *models.Actor, req merge.Request, opts merge.Options) (*MergeResult, error) {
	existing, err := s.libraries.Get(ctx, library, slug)
	if err != nil {
		return nil, err
	}
	base, ok := s.norm.Normalize(existing).(*models.Actor)
	if !ok {
		return nil, fmt.Errorf("document %s in library %s is not an actor", slug, library)
	}

	merged := merge.Sections(base, patch, req)
	doc, err := s.synth.Actor(merged, ident.NewAllocator())
	if err != nil {
		return nil, err
	}
	doc.ID = existing.ID
	if !convert.IsPlaceholderImage(existing.Img) {
		doc.Img = existing.Img
	}

	result := &MergeResult{}
	if !opts.Confirmed || opts.DryRun {
		return result, nil
	}
	if err := s.libraries.Put(ctx, library, slug, doc); err != nil {
		return result, err
	}
	result.Executed = 1
	return result, nil
}

// Generate runs the configured generation provider and returns its output
// once it passes structural validation. The raw payload is returned
// alongside the decoded record so callers can hand it straight to Import.
func (s *Service) Generate(ctx context.Context, input GenerationInput) (any, json.RawMessage, error) {
	if s.generator == nil {
		return nil, nil, errors.New("no generation provider configured")
	}
	raw, err := s.generator.Generate(ctx, input)
	if err != nil {
		return nil, nil, fmt.Errorf("generation failed: %w", err)
	}
	if err := s.validator.Validate(raw); err != nil {
		return nil, nil, err
	}
	rec, err := models.DecodeRecord(raw)
	if err != nil {
		return nil, nil, err
	}
	return rec, raw, nil
}

// ListLibrary returns the slugs stored in a shared content library.
func (s *Service) ListLibrary(ctx context.Context, library string) ([]string, error) {
	return s.libraries.List(ctx, library)
}
