package controllers

import (
	"context"
	"testing"

	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/model"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	store := openTestStore(t)
	sessions := newTestSessionStore(t)
	notifier := &RecordingNotifier{}
	auth := NewAuthController(store, sessions, notifier)
	ctx := context.Background()

	user, err := auth.Register(ctx, "Alice Maker", "alice@example.com", "secret")
	require.NoError(t, err)
	require.Empty(t, user.Password)
	require.True(t, notifier.Has("Welcome to ProjectLaunch!"))

	current, err := auth.CurrentUser()
	require.NoError(t, err)
	require.Equal(t, user.Id, current.Id)
	require.Empty(t, current.Password)

	require.NoError(t, auth.Logout())
	current, err = auth.CurrentUser()
	require.NoError(t, err)
	require.Nil(t, current)

	_, err = auth.Login(ctx, "alice@example.com", "secret")
	require.NoError(t, err)
	require.True(t, notifier.Has("Welcome back!"))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := openTestStore(t)
	sessions := newTestSessionStore(t)
	notifier := &RecordingNotifier{}
	auth := NewAuthController(store, sessions, notifier)
	ctx := context.Background()

	_, err := auth.Register(ctx, "Alice Maker", "alice@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, auth.Logout())
	notifier.Reset()

	_, err = auth.Login(ctx, "alice@example.com", "wrong")
	require.Error(t, err)
	last := notifier.Last()
	require.NotNil(t, last)
	require.Equal(t, "Login failed", last.Title)
	require.Equal(t, "Invalid email or password", last.Description)

	// The failed login leaves the session signed out.
	current, err := auth.CurrentUser()
	require.NoError(t, err)
	require.Nil(t, current)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := openTestStore(t)
	sessions := newTestSessionStore(t)
	notifier := &RecordingNotifier{}
	auth := NewAuthController(store, sessions, notifier)
	ctx := context.Background()

	_, err := auth.Register(ctx, "Alice Maker", "alice@example.com", "secret")
	require.NoError(t, err)

	_, err = auth.Register(ctx, "Impostor", "alice@example.com", "other")
	require.True(t, db2.IsConflict(err))
	last := notifier.Last()
	require.Equal(t, "Registration failed", last.Title)
	require.Equal(t, "Email already exists", last.Description)
}

func TestProfileMutationsWriteThroughToSession(t *testing.T) {
	store := openTestStore(t)
	sessions := newTestSessionStore(t)
	notifier := &RecordingNotifier{}
	auth := NewAuthController(store, sessions, notifier)
	ctx := context.Background()

	user, err := auth.Register(ctx, "Alice Maker", "alice@example.com", "secret")
	require.NoError(t, err)

	theme := &model.ProfileTheme{Gradient: model.GradientOcean, Pattern: model.PatternDots, ShowStats: true}
	_, err = auth.UpdateTheme(ctx, user.Id, theme)
	require.NoError(t, err)
	require.True(t, notifier.Has("Theme updated"))

	// Both copies must agree after every profile mutation.
	stored, err := store.GetUserById(ctx, user.Id)
	require.NoError(t, err)
	require.Equal(t, model.GradientOcean, stored.Theme.Gradient)

	session, err := sessions.Get()
	require.NoError(t, err)
	require.Equal(t, model.GradientOcean, session.Theme.Gradient)
	require.Equal(t, model.PatternDots, session.Theme.Pattern)
	require.Empty(t, session.Password)
}

func TestProfileMutationForOtherUserLeavesSessionAlone(t *testing.T) {
	store := openTestStore(t)
	sessions := newTestSessionStore(t)
	notifier := &RecordingNotifier{}
	auth := NewAuthController(store, sessions, notifier)
	ctx := context.Background()

	signedIn, err := auth.Register(ctx, "Alice Maker", "alice@example.com", "secret")
	require.NoError(t, err)
	other := createUser(t, store, "Bob Builder", "bob@example.com")

	bio := "someone else"
	_, err = auth.UpdateProfile(ctx, other.Id, &db2.UserPatch{Bio: &bio})
	require.NoError(t, err)

	session, err := sessions.Get()
	require.NoError(t, err)
	require.Equal(t, signedIn.Id, session.Id)
	require.Empty(t, session.Bio)
}

func TestResetPassword(t *testing.T) {
	store := openTestStore(t)
	sessions := newTestSessionStore(t)
	notifier := &RecordingNotifier{}
	auth := NewAuthController(store, sessions, notifier)
	ctx := context.Background()

	_, err := auth.Register(ctx, "Alice Maker", "alice@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, auth.Logout())

	require.NoError(t, auth.ResetPassword(ctx, "alice@example.com", "newsecret"))

	_, err = auth.Login(ctx, "alice@example.com", "secret")
	require.Error(t, err)
	_, err = auth.Login(ctx, "alice@example.com", "newsecret")
	require.NoError(t, err)
}

func TestRemoveAvatarRestoresPlaceholder(t *testing.T) {
	store := openTestStore(t)
	sessions := newTestSessionStore(t)
	notifier := &RecordingNotifier{}
	auth := NewAuthController(store, sessions, notifier)
	ctx := context.Background()

	user, err := auth.Register(ctx, "Alice Maker", "alice@example.com", "secret")
	require.NoError(t, err)

	custom, err := auth.UpdateAvatar(ctx, user.Id, "https://example.com/me.png")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/me.png", custom.Avatar)

	restored, err := auth.RemoveAvatar(ctx, user.Id)
	require.NoError(t, err)
	require.NotEqual(t, custom.Avatar, restored.Avatar)
	require.Contains(t, restored.Avatar, user.Id)
}

func TestBannedUserCannotLogin(t *testing.T) {
	store := openTestStore(t)
	sessions := newTestSessionStore(t)
	notifier := &RecordingNotifier{}
	auth := NewAuthController(store, sessions, notifier)
	ctx := context.Background()

	user, err := auth.Register(ctx, "Alice Maker", "alice@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, auth.Logout())

	require.NoError(t, store.UpdateUserStatus(ctx, user.Id, model.UserBanned))

	_, err = auth.Login(ctx, "alice@example.com", "secret")
	require.True(t, db2.IsUnauthorized(err))
}
