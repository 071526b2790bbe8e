package controllers

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/db/sqlite"
	"github.com/project-launch/project-launch-be/model"
	"github.com/project-launch/project-launch-be/services"
	"github.com/stretchr/testify/require"
)

// RecordingNotifier captures notifications so tests can assert on the exact
// user-facing feedback an action produced.
type RecordingNotifier struct {
	mu            sync.Mutex
	notifications []services.Notification
}

func (rn *RecordingNotifier) Notify(notification services.Notification) {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	rn.notifications = append(rn.notifications, notification)
}

func (rn *RecordingNotifier) Last() *services.Notification {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	if len(rn.notifications) == 0 {
		return nil
	}
	last := rn.notifications[len(rn.notifications)-1]
	return &last
}

func (rn *RecordingNotifier) Has(title string) bool {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	for _, notification := range rn.notifications {
		if notification.Title == title {
			return true
		}
	}
	return false
}

func (rn *RecordingNotifier) Reset() {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	rn.notifications = nil
}

func openTestStore(t *testing.T) db2.Database {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func newTestSessionStore(t *testing.T) *services.SessionStore {
	t.Helper()
	return services.NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
}

func createUser(t *testing.T, store db2.Database, name, email string) *model.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), &db2.CreateUser{
		Name:     name,
		Email:    email,
		Password: "secret",
	})
	require.NoError(t, err)
	return user
}
