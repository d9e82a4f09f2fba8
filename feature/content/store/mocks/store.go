package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"content-forge/feature/content/models"
)

// DocumentStore is a mock implementation of store.DocumentStore
type DocumentStore struct {
	mock.Mock
}

func (m *DocumentStore) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	args := m.Called(ctx, doc)
	if created, ok := args.Get(0).(*models.Document); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DocumentStore) Update(ctx context.Context, doc *models.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *DocumentStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *DocumentStore) GetBySlug(ctx context.Context, slug string) (*models.Document, error) {
	args := m.Called(ctx, slug)
	if doc, ok := args.Get(0).(*models.Document); ok {
		return doc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DocumentStore) CreateEmbedded(ctx context.Context, ownerID string, records []models.Embedded) ([]models.Embedded, error) {
	args := m.Called(ctx, ownerID, records)
	if created, ok := args.Get(0).([]models.Embedded); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DocumentStore) DeleteEmbedded(ctx context.Context, ownerID string, ids []string) error {
	args := m.Called(ctx, ownerID, ids)
	return args.Error(0)
}
