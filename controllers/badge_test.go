package controllers

import (
	"context"
	"testing"

	"github.com/project-launch/project-launch-be/badges"
	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/model"
	"github.com/stretchr/testify/require"
)

func logActivities(t *testing.T, store db2.Database, userId string, activityType model.ActivityType, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		_, err := store.LogActivity(context.Background(), &db2.CreateActivity{
			Type:   activityType,
			UserId: userId,
		})
		require.NoError(t, err)
	}
}

func TestProgressAggregatesFromActivityLog(t *testing.T) {
	store := openTestStore(t)
	notifier := &RecordingNotifier{}
	badgeController := NewBadgeController(store, notifier)
	ctx := context.Background()
	user := createUser(t, store, "Earner", "earner@example.com")

	logActivities(t, store, user.Id, model.ActivityProjectUpvote, 3)
	logActivities(t, store, user.Id, model.ActivityProjectLaunch, 1)
	logActivities(t, store, user.Id, model.ActivityComment, 2)

	criteria, err := badgeController.Progress(ctx, user.Id)
	require.NoError(t, err)
	require.Equal(t, 3, criteria.ProjectsUpvoted)
	require.Equal(t, 1, criteria.ProjectsLaunched)
	require.Equal(t, 2, criteria.CommentsPosted)
	require.Zero(t, criteria.DiscussionsStarted)
}

func TestCheckAndAwardBadgesIsIdempotent(t *testing.T) {
	store := openTestStore(t)
	notifier := &RecordingNotifier{}
	badgeController := NewBadgeController(store, notifier)
	ctx := context.Background()
	user := createUser(t, store, "Earner", "earner@example.com")

	logActivities(t, store, user.Id, model.ActivityProjectLaunch, 5)

	earned, err := badgeController.CheckAndAwardBadges(ctx, user.Id)
	require.NoError(t, err)

	earnedIds := make([]string, len(earned))
	for i, badge := range earned {
		earnedIds[i] = badge.Id
	}
	require.Contains(t, earnedIds, "first-launch")
	require.Contains(t, earnedIds, "serial-launcher")
	require.NotContains(t, earnedIds, "launch-master")

	// Recomputing on the same state awards nothing new.
	again, err := badgeController.CheckAndAwardBadges(ctx, user.Id)
	require.NoError(t, err)
	require.Empty(t, again)

	awarded, err := badgeController.UserBadges(ctx, user.Id)
	require.NoError(t, err)
	require.Len(t, awarded, 2)
	for _, badge := range awarded {
		require.NotNil(t, badge.UnlockedAt)
	}
}

func TestAwardingLogsBadgeActivityAndNotifies(t *testing.T) {
	store := openTestStore(t)
	notifier := &RecordingNotifier{}
	badgeController := NewBadgeController(store, notifier)
	ctx := context.Background()
	user := createUser(t, store, "Earner", "earner@example.com")

	logActivities(t, store, user.Id, model.ActivityProjectUpvote, 1)

	_, err := badgeController.CheckAndAwardBadges(ctx, user.Id)
	require.NoError(t, err)
	require.True(t, notifier.Has("Badge unlocked!"))

	count, err := store.CountActivities(ctx, user.Id, model.ActivityBadgeEarned)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestCheckEarlySupporter(t *testing.T) {
	store := openTestStore(t)
	notifier := &RecordingNotifier{}
	badgeController := NewBadgeController(store, notifier)
	ctx := context.Background()
	first := createUser(t, store, "First", "first@example.com")
	second := createUser(t, store, "Second", "second@example.com")

	n1, err := badgeController.CheckEarlySupporter(ctx, first.Id)
	require.NoError(t, err)
	require.Equal(t, 1, n1)

	n2, err := badgeController.CheckEarlySupporter(ctx, second.Id)
	require.NoError(t, err)
	require.Equal(t, 2, n2)

	// The number sticks; repeated checks neither renumber nor re-award.
	again, err := badgeController.CheckEarlySupporter(ctx, first.Id)
	require.NoError(t, err)
	require.Equal(t, 1, again)

	awarded, err := badgeController.UserBadges(ctx, first.Id)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	require.Equal(t, "early-supporter", awarded[0].Id)
}

func TestBadgeProgress(t *testing.T) {
	store := openTestStore(t)
	notifier := &RecordingNotifier{}
	badgeController := NewBadgeController(store, notifier)
	ctx := context.Background()
	user := createUser(t, store, "Earner", "earner@example.com")

	logActivities(t, store, user.Id, model.ActivityComment, 4)

	current, required, err := badgeController.BadgeProgress(ctx, user.Id, "helpful-commenter")
	require.NoError(t, err)
	require.Equal(t, 4, current)
	require.Equal(t, 10, required)

	_, _, err = badgeController.BadgeProgress(ctx, user.Id, "no-such-badge")
	require.True(t, db2.IsNotFound(err))
}

func TestCommentUpvoteProgress(t *testing.T) {
	store := openTestStore(t)
	notifier := &RecordingNotifier{}
	badgeController := NewBadgeController(store, notifier)
	ctx := context.Background()
	author := createUser(t, store, "Author", "author@example.com")
	fanOne := createUser(t, store, "Fan One", "fan1@example.com")
	fanTwo := createUser(t, store, "Fan Two", "fan2@example.com")

	discussion, err := store.CreateDiscussion(ctx, &db2.CreateDiscussion{
		Title:    "Feedback wanted",
		Content:  "tear my launch plan apart",
		Type:     model.TypeDiscussion,
		Category: "general",
		AuthorId: author.Id,
	})
	require.NoError(t, err)
	reply, err := store.AddReply(ctx, discussion.Id, &db2.CreateReply{
		AuthorId: author.Id,
		Content:  "try shipping earlier",
	})
	require.NoError(t, err)
	_, err = store.ToggleReplyUpvote(ctx, discussion.Id, reply.Id, fanOne.Id)
	require.NoError(t, err)
	_, err = store.ToggleReplyUpvote(ctx, discussion.Id, reply.Id, fanTwo.Id)
	require.NoError(t, err)

	criteria, err := badgeController.Progress(ctx, author.Id)
	require.NoError(t, err)
	require.Equal(t, 2, criteria.CommentUpvotes)

	current, required, err := badgeController.BadgeProgress(ctx, author.Id, "community-leader")
	require.NoError(t, err)
	require.Equal(t, 2, current)
	require.Equal(t, 100, required)
}

func TestCatalogCriteriaMapToActivityTypes(t *testing.T) {
	for _, definition := range badges.Catalog {
		if definition.Criterion == badges.CriterionNone {
			require.Zero(t, definition.Requirement)
			continue
		}
		require.Positive(t, definition.Requirement)
		if definition.Criterion == badges.CriterionCommentUpvotes {
			// Comment upvotes are aggregated from vote rows, not activities.
			require.Empty(t, definition.ActivityType())
			continue
		}
		require.NotEmpty(t, definition.ActivityType(), "badge %v has an unmapped criterion", definition.Id)
	}
}
