package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"content-forge/feature/content/ident"
	"content-forge/feature/content/models"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func documentColumns() []string {
	return []string{"id", "slug", "type", "name", "payload", "created_at", "updated_at"}
}

func TestGormStore_GetBySlug(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	doc := &models.Document{
		ID:   "goblin0000000001",
		Name: "Goblin Warrior",
		Type: "npc",
		System: map[string]any{
			"slug": "goblin-warrior",
		},
	}
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT \\* FROM `documents` WHERE slug = \\?").
		WithArgs("goblin-warrior", 1).
		WillReturnRows(sqlmock.NewRows(documentColumns()).
			AddRow(doc.ID, "goblin-warrior", "npc", "Goblin Warrior", payload, nil, nil))

	got, err := store.GetBySlug(context.Background(), "goblin-warrior")
	require.NoError(t, err)
	assert.Equal(t, "goblin0000000001", got.ID)
	assert.Equal(t, "Goblin Warrior", got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetBySlug_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	mock.ExpectQuery("SELECT \\* FROM `documents`").
		WillReturnRows(sqlmock.NewRows(documentColumns()))

	_, err := store.GetBySlug(context.Background(), "no-such-slug")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Create_AssignsIdentifiers(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `documents`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, err := store.Create(context.Background(), &models.Document{
		Name:   "Goblin Warrior",
		Type:   "npc",
		System: map[string]any{"slug": "goblin-warrior"},
		Items: []models.Embedded{
			{ID: "provisional00001", Name: "Dogslicer", Type: "weapon", System: map[string]any{}},
		},
	})
	require.NoError(t, err)

	assert.Len(t, created.ID, ident.IDLength)
	require.Len(t, created.Items, 1)
	assert.Len(t, created.Items[0].ID, ident.IDLength)
	// Provisional identifiers never reach the store.
	assert.NotEqual(t, "provisional00001", created.Items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Delete_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `documents`").
		WithArgs("missing000000001").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := store.Delete(context.Background(), "missing000000001")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_DeleteEmbedded_FiltersItems(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewGormStore(db)

	doc := &models.Document{
		ID:     "goblin0000000001",
		Name:   "Goblin Warrior",
		Type:   "npc",
		System: map[string]any{"slug": "goblin-warrior"},
		Items: []models.Embedded{
			{ID: "keep000000000001", Name: "Acrobatics", Type: "lore", System: map[string]any{}},
			{ID: "drop000000000001", Name: "Stealth", Type: "lore", System: map[string]any{}},
		},
	}
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT \\* FROM `documents` WHERE id = \\?").
		WithArgs(doc.ID, 1).
		WillReturnRows(sqlmock.NewRows(documentColumns()).
			AddRow(doc.ID, "goblin-warrior", "npc", "Goblin Warrior", payload, nil, nil))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `documents` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = store.DeleteEmbedded(context.Background(), doc.ID, []string{"drop000000000001"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
