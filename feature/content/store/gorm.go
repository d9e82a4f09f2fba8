package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"content-forge/feature/content/convert"
	"content-forge/feature/content/ident"
	"content-forge/feature/content/models"
)

// documentRow is the persistence shape for world-scope documents. The full
// document graph lives in the JSON payload; slug, type and name are lifted
// into columns for lookups.
type documentRow struct {
	ID        string `gorm:"column:id;primaryKey;size:32"`
	Slug      string `gorm:"column:slug;size:191;index:idx_documents_slug"`
	Type      string `gorm:"column:type;size:32"`
	Name      string `gorm:"column:name;size:255"`
	Payload   []byte `gorm:"column:payload;type:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (documentRow) TableName() string {
	return "documents"
}

// GormStore persists world-scope documents in MySQL.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an established database connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates or updates the documents table.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&documentRow{})
}

// RequiredColumns lists the documents table columns the store queries.
// Startup schema inspection checks these against the live table.
func RequiredColumns() []string {
	return []string{"id", "slug", "type", "name", "payload"}
}

// Create stores a new document. The store assigns the root identifier and
// fresh identifiers for every embedded record, replacing any provisional
// ones; the stored document is returned.
func (s *GormStore) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	stored := *doc
	stored.ID = ident.NewID()
	stored.Items = append([]models.Embedded(nil), doc.Items...)
	for i := range stored.Items {
		stored.Items[i].ID = ident.NewID()
	}

	row, err := rowFor(&stored)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create document %s: %w", stored.Name, err)
	}
	return &stored, nil
}

// Update replaces the root fields of an existing document. Embedded
// records are left untouched; use CreateEmbedded and DeleteEmbedded to
// mutate them.
func (s *GormStore) Update(ctx context.Context, doc *models.Document) error {
	current, err := s.load(ctx, doc.ID)
	if err != nil {
		return err
	}
	current.Name = doc.Name
	current.Type = doc.Type
	current.Img = doc.Img
	current.System = doc.System
	current.Token = doc.Token
	return s.save(ctx, current)
}

// Delete removes a document and its embedded records.
func (s *GormStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&documentRow{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	return nil
}

// GetBySlug looks a document up by its slug.
func (s *GormStore) GetBySlug(ctx context.Context, slug string) (*models.Document, error) {
	var row documentRow
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: slug %s", ErrNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up slug %s: %w", slug, err)
	}
	return decodeRow(&row)
}

// CreateEmbedded appends embedded records to a document. The store assigns
// each record a fresh identifier; the created records are returned so
// callers can resolve references against the assigned identifiers.
func (s *GormStore) CreateEmbedded(ctx context.Context, ownerID string, records []models.Embedded) ([]models.Embedded, error) {
	doc, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	created := make([]models.Embedded, len(records))
	for i, rec := range records {
		rec.ID = ident.NewID()
		created[i] = rec
		doc.Items = append(doc.Items, rec)
	}
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteEmbedded removes embedded records by identifier. Unknown
// identifiers are ignored.
func (s *GormStore) DeleteEmbedded(ctx context.Context, ownerID string, ids []string) error {
	doc, err := s.load(ctx, ownerID)
	if err != nil {
		return err
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := doc.Items[:0]
	for _, item := range doc.Items {
		if !drop[item.ID] {
			kept = append(kept, item)
		}
	}
	doc.Items = kept
	return s.save(ctx, doc)
}

func (s *GormStore) load(ctx context.Context, id string) (*models.Document, error) {
	var row documentRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", id, err)
	}
	return decodeRow(&row)
}

func (s *GormStore) save(ctx context.Context, doc *models.Document) error {
	row, err := rowFor(doc)
	if err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Model(&documentRow{}).Where("id = ?", doc.ID).Updates(map[string]any{
		"slug":    row.Slug,
		"type":    row.Type,
		"name":    row.Name,
		"payload": row.Payload,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to save document %s: %w", doc.ID, result.Error)
	}
	return nil
}

func rowFor(doc *models.Document) (*documentRow, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document %s: %w", doc.ID, err)
	}
	return &documentRow{
		ID:      doc.ID,
		Slug:    documentSlug(doc),
		Type:    doc.Type,
		Name:    doc.Name,
		Payload: payload,
	}, nil
}

func decodeRow(row *documentRow) (*models.Document, error) {
	var doc models.Document
	if err := json.Unmarshal(row.Payload, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", row.ID, err)
	}
	doc.ID = row.ID
	return &doc, nil
}

// documentSlug lifts the slug column out of the system object, falling
// back to the slugged name for legacy payloads.
func documentSlug(doc *models.Document) string {
	if slug := convert.SystemText(doc.System, "slug"); slug != "" {
		return slug
	}
	return models.Sluggify(doc.Name)
}
