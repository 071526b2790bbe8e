package controllers

import (
	"context"
	"testing"

	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/model"
	"github.com/stretchr/testify/require"
)

// Exercises the full register -> launch -> star -> badge path the way the
// application drives it.
func TestLaunchAndStarFlow(t *testing.T) {
	store := openTestStore(t)
	sessions := newTestSessionStore(t)
	notifier := &RecordingNotifier{}
	ctx := context.Background()

	auth := NewAuthController(store, sessions, notifier)
	projects := newProjectController(t, store, notifier)
	badgeController := NewBadgeController(store, notifier)

	alice, err := auth.Register(ctx, "Alice Maker", "alice@example.com", "secret")
	require.NoError(t, err)
	_, err = badgeController.CheckEarlySupporter(ctx, alice.Id)
	require.NoError(t, err)

	bob, err := auth.Register(ctx, "Bob Builder", "bob@example.com", "secret")
	require.NoError(t, err)

	project, err := projects.AddProject(ctx, &db2.CreateProject{
		Title:       "Side Project",
		Tagline:     "weekend build",
		Description: "built over a weekend",
		Category:    "developer-tools",
		AuthorId:    alice.Id,
	})
	require.NoError(t, err)

	// Bob stars, un-stars and stars again; the voters set ends with just bob.
	_, err = projects.ToggleStar(ctx, project.Id, bob.Id)
	require.NoError(t, err)
	_, err = projects.ToggleStar(ctx, project.Id, bob.Id)
	require.NoError(t, err)
	final, err := projects.ToggleStar(ctx, project.Id, bob.Id)
	require.NoError(t, err)
	require.Equal(t, []string{bob.Id}, final.Voters)
	require.Equal(t, 1, final.Upvotes)

	// Alice earned first-launch, bob earned first-upvote (starred twice but
	// one un-star in between means two logged upvote activities).
	aliceEarned, err := badgeController.CheckAndAwardBadges(ctx, alice.Id)
	require.NoError(t, err)
	require.Len(t, aliceEarned, 1)
	require.Equal(t, "first-launch", aliceEarned[0].Id)

	bobEarned, err := badgeController.CheckAndAwardBadges(ctx, bob.Id)
	require.NoError(t, err)
	require.Len(t, bobEarned, 1)
	require.Equal(t, "first-upvote", bobEarned[0].Id)

	// Deleting the project sweeps its activity trail.
	require.NoError(t, projects.DeleteProject(ctx, project.Id, alice.Id))
	activities, err := store.GetActivitiesByUser(ctx, alice.Id)
	require.NoError(t, err)
	for _, activity := range activities {
		require.NotEqual(t, model.ActivityProjectLaunch, activity.Type)
	}
}
