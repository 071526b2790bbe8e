package sqlite

import (
	"context"
	"testing"
	"time"

	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/model"
	"github.com/stretchr/testify/require"
)

func TestLogActivityValidatesRequest(t *testing.T) {
	store := openTestStore(t)

	_, err := store.LogActivity(context.Background(), &db2.CreateActivity{
		Type: model.ActivityComment,
	})
	require.True(t, db2.IsValidation(err))
}

func TestGetRecentActivitiesLimitAndOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store, "busy@example.com")

	for i := 0; i < 12; i++ {
		_, err := store.LogActivity(ctx, &db2.CreateActivity{
			Type:   model.ActivityComment,
			UserId: user.Id,
		})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}
	latest, err := store.LogActivity(ctx, &db2.CreateActivity{
		Type:   model.ActivityDiscussion,
		UserId: user.Id,
	})
	require.NoError(t, err)

	// A non-positive limit falls back to the default of 10.
	recent, err := store.GetRecentActivities(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 10)
	require.Equal(t, latest.Id, recent[0].Id)

	limited, err := store.GetRecentActivities(ctx, 3)
	require.NoError(t, err)
	require.Len(t, limited, 3)
}

func TestGetActivitiesByTypeAndCount(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store, "typed@example.com")
	other := createTestUser(t, store, "other@example.com")

	for i := 0; i < 3; i++ {
		_, err := store.LogActivity(ctx, &db2.CreateActivity{
			Type:   model.ActivityProjectUpvote,
			UserId: user.Id,
		})
		require.NoError(t, err)
	}
	_, err := store.LogActivity(ctx, &db2.CreateActivity{
		Type:   model.ActivityProjectUpvote,
		UserId: other.Id,
	})
	require.NoError(t, err)

	byType, err := store.GetActivitiesByType(ctx, model.ActivityProjectUpvote)
	require.NoError(t, err)
	require.Len(t, byType, 4)

	count, err := store.CountActivities(ctx, user.Id, model.ActivityProjectUpvote)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	count, err = store.CountActivities(ctx, user.Id, model.ActivityComment)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestActivityDataRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store, "data@example.com")

	logged, err := store.LogActivity(ctx, &db2.CreateActivity{
		Type:   model.ActivityBadgeEarned,
		UserId: user.Id,
		Data: model.ActivityData{
			BadgeId:   "first-launch",
			BadgeName: "First Launch",
		},
	})
	require.NoError(t, err)

	activities, err := store.GetActivitiesByUser(ctx, user.Id)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	require.Equal(t, logged.Id, activities[0].Id)
	require.Equal(t, "first-launch", activities[0].Data.BadgeId)
	require.Equal(t, "First Launch", activities[0].Data.BadgeName)
}
