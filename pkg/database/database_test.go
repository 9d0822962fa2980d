package database_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"smart-notes-be/internal/entity"
	"smart-notes-be/internal/model"
	"smart-notes-be/internal/repository/specification"
	"smart-notes-be/internal/repository/unitofwork"
	"smart-notes-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "notes.db")

	db, driver, err := database.Open("", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	assert.Equal(t, database.DriverSQLite, driver)
	assert.FileExists(t, path)
	assert.NoError(t, database.Ping(db))
	require.NoError(t, database.Migrate(db, model.All()...))
	assert.True(t, db.Migrator().HasTable(&model.Note{}))
}

func TestMigrate_Idempotent(t *testing.T) {
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.Migrate(db, model.All()...))
	require.NoError(t, database.Migrate(db, model.All()...))
}

func TestTransactionRollback(t *testing.T) {
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db, model.All()...))

	checkRollback(t, unitofwork.NewRepositoryFactory(db))
}

// TestPostgresConnection runs against a real postgres when
// DB_CONNECTION_STRING is set.
func TestPostgresConnection(t *testing.T) {
	_ = godotenv.Load("../../.env")

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, driver, err := database.Open(dsn, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	assert.Equal(t, database.DriverPostgres, driver)
	require.NoError(t, database.Ping(db))
	require.NoError(t, database.Migrate(db, model.All()...))

	checkRollback(t, unitofwork.NewRepositoryFactory(db))
}

func checkRollback(t *testing.T, factory unitofwork.RepositoryFactory) {
	t.Helper()
	ctx := context.Background()

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))

	note := &entity.Note{Id: uuid.New(), Title: "Integration", Content: "Rolled back", Keywords: []string{}, Tags: []string{}}
	require.NoError(t, uow.NoteRepository().Create(ctx, note))

	inside, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: note.Id})
	require.NoError(t, err)
	assert.NotNil(t, inside)

	require.NoError(t, uow.Rollback())

	after, err := factory.NewUnitOfWork(ctx).NoteRepository().FindOne(ctx, specification.ByID{ID: note.Id})
	require.NoError(t, err)
	assert.Nil(t, after)
}
