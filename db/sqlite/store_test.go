package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/model"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) db2.Database {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func createTestUser(t *testing.T, store db2.Database, email string) *model.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), &db2.CreateUser{
		Name:     "Test User",
		Email:    email,
		Password: "secret",
	})
	require.NoError(t, err)
	return user
}

func createTestProject(t *testing.T, store db2.Database, authorId, title string) *model.Project {
	t.Helper()
	project, err := store.CreateProject(context.Background(), &db2.CreateProject{
		Title:       title,
		Tagline:     "a tagline",
		Description: "a description",
		Category:    "productivity",
		AuthorId:    authorId,
	})
	require.NoError(t, err)
	return project
}

func createTestDiscussion(t *testing.T, store db2.Database, authorId, title string) *model.Discussion {
	t.Helper()
	discussion, err := store.CreateDiscussion(context.Background(), &db2.CreateDiscussion{
		Title:    title,
		Content:  "some content",
		Type:     model.TypeDiscussion,
		Category: "general",
		AuthorId: authorId,
	})
	require.NoError(t, err)
	return discussion
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(path)
	require.NoError(t, err)
	user := createTestUser(t, store, "keep@example.com")
	require.NoError(t, store.Close())

	// Reopening runs migrations again; existing data must survive.
	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.GetUserById(context.Background(), user.Id)
	require.NoError(t, err)
	require.Equal(t, "keep@example.com", got.Email)
}

func TestGetSQLDB(t *testing.T) {
	store := openTestStore(t)
	sqlDB := store.GetSQLDB()
	require.NotNil(t, sqlDB)
	require.NoError(t, sqlDB.Ping())
}
