package store

import (
	"context"
	"errors"

	"content-forge/feature/content/models"
)

// ErrNotFound is returned when no document matches a lookup.
var ErrNotFound = errors.New("document not found")

// Scope selects where a slug lookup resolves. An empty Library means the
// unscoped world; a name selects that shared content library.
type Scope struct {
	Library string
}

// DocumentStore is the host document boundary. Identifiers for created
// documents and embedded records are assigned by the store, not the
// caller; provisional identifiers on the input are replaced.
type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) (*models.Document, error)
	Update(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, id string) error
	GetBySlug(ctx context.Context, slug string) (*models.Document, error)
	CreateEmbedded(ctx context.Context, ownerID string, records []models.Embedded) ([]models.Embedded, error)
	DeleteEmbedded(ctx context.Context, ownerID string, ids []string) error
}

// Resolver performs slug-indexed lookups across the world store and the
// shared content libraries. A document present in both resolves to the
// library copy when a library is named, and to the world copy otherwise.
type Resolver struct {
	World     DocumentStore
	Libraries *LibraryStore
}

// GetBySlug resolves a slug within the given scope.
func (r *Resolver) GetBySlug(ctx context.Context, slug string, scope Scope) (*models.Document, error) {
	if scope.Library != "" {
		return r.Libraries.Get(ctx, scope.Library, slug)
	}
	return r.World.GetBySlug(ctx, slug)
}
