package sqlite

import (
	"context"
	"testing"
	"time"

	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/model"
	"github.com/stretchr/testify/require"
)

func TestCreateProjectDefaults(t *testing.T) {
	store := openTestStore(t)
	author := createTestUser(t, store, "author@example.com")

	project := createTestProject(t, store, author.Id, "First Project")

	require.Equal(t, model.PricingFree, project.Pricing)
	require.Equal(t, model.ProjectPublished, project.Status)
	require.Empty(t, project.Voters)
	require.Empty(t, project.Subscribers)
	require.Empty(t, project.Comments)
	require.Zero(t, project.Upvotes)
	require.Equal(t, 1, project.Rank)
	require.NotNil(t, project.LaunchDate)
	require.Equal(t, author.Id, project.Author.Id)
	require.Equal(t, author.Name, project.Author.Name)
}

func TestCreateProjectAssignsRankInSubmissionOrder(t *testing.T) {
	store := openTestStore(t)
	author := createTestUser(t, store, "author@example.com")

	first := createTestProject(t, store, author.Id, "First")
	second := createTestProject(t, store, author.Id, "Second")
	third := createTestProject(t, store, author.Id, "Third")

	require.Equal(t, 1, first.Rank)
	require.Equal(t, 2, second.Rank)
	require.Equal(t, 3, third.Rank)
}

func TestCreateProjectSanitizesDescription(t *testing.T) {
	store := openTestStore(t)
	author := createTestUser(t, store, "author@example.com")

	project, err := store.CreateProject(context.Background(), &db2.CreateProject{
		Title:       "Sanitized",
		Tagline:     "safe",
		Description: `hello <script>alert("x")</script>world`,
		Category:    "productivity",
		AuthorId:    author.Id,
	})
	require.NoError(t, err)
	require.NotContains(t, project.Description, "<script>")
	require.Contains(t, project.Description, "hello")
}

func TestToggleUpvoteTwiceRestoresOriginalState(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	author := createTestUser(t, store, "author@example.com")
	voter := createTestUser(t, store, "voter@example.com")
	project := createTestProject(t, store, author.Id, "Votable")

	toggled, err := store.ToggleProjectUpvote(ctx, project.Id, voter.Id)
	require.NoError(t, err)
	require.Equal(t, []string{voter.Id}, toggled.Voters)
	require.Equal(t, len(toggled.Voters), toggled.Upvotes)

	restored, err := store.ToggleProjectUpvote(ctx, project.Id, voter.Id)
	require.NoError(t, err)
	require.Empty(t, restored.Voters)
	require.Zero(t, restored.Upvotes)
}

func TestUpvoteCountAlwaysMatchesVoters(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	author := createTestUser(t, store, "author@example.com")
	a := createTestUser(t, store, "a@example.com")
	b := createTestUser(t, store, "b@example.com")
	project := createTestProject(t, store, author.Id, "Popular")

	for _, userId := range []string{a.Id, b.Id, a.Id, b.Id, a.Id} {
		updated, err := store.ToggleProjectUpvote(ctx, project.Id, userId)
		require.NoError(t, err)
		require.Equal(t, len(updated.Voters), updated.Upvotes)
	}

	final, err := store.GetProjectById(ctx, project.Id)
	require.NoError(t, err)
	require.Equal(t, []string{a.Id}, final.Voters)
	require.Equal(t, 1, final.Upvotes)
}

func TestToggleUpvoteMissingProject(t *testing.T) {
	store := openTestStore(t)
	voter := createTestUser(t, store, "voter@example.com")
	_, err := store.ToggleProjectUpvote(context.Background(), "missing-id", voter.Id)
	require.True(t, db2.IsNotFound(err))
}

func TestToggleSubscription(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	author := createTestUser(t, store, "author@example.com")
	subscriber := createTestUser(t, store, "sub@example.com")
	project := createTestProject(t, store, author.Id, "Subscribable")

	subscribed, err := store.ToggleProjectSubscription(ctx, project.Id, subscriber.Id)
	require.NoError(t, err)
	require.True(t, subscribed.HasSubscriber(subscriber.Id))

	unsubscribed, err := store.ToggleProjectSubscription(ctx, project.Id, subscriber.Id)
	require.NoError(t, err)
	require.False(t, unsubscribed.HasSubscriber(subscriber.Id))
}

func TestAddCommentPreservesInsertionOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	author := createTestUser(t, store, "author@example.com")
	commenter := createTestUser(t, store, "commenter@example.com")
	project := createTestProject(t, store, author.Id, "Commented")
	other := createTestProject(t, store, author.Id, "Untouched")

	for _, content := range []string{"first", "second", "third"} {
		_, err := store.AddComment(ctx, project.Id, &db2.CreateComment{
			AuthorId: commenter.Id,
			Content:  content,
		})
		require.NoError(t, err)
	}

	updated, err := store.GetProjectById(ctx, project.Id)
	require.NoError(t, err)
	require.Len(t, updated.Comments, 3)
	require.Equal(t, "first", updated.Comments[0].Content)
	require.Equal(t, "second", updated.Comments[1].Content)
	require.Equal(t, "third", updated.Comments[2].Content)
	require.Equal(t, commenter.Name, updated.Comments[0].Author.Name)

	// Comments land only on the targeted project.
	untouched, err := store.GetProjectById(ctx, other.Id)
	require.NoError(t, err)
	require.Empty(t, untouched.Comments)
}

func TestAddCommentMissingProject(t *testing.T) {
	store := openTestStore(t)
	commenter := createTestUser(t, store, "commenter@example.com")
	_, err := store.AddComment(context.Background(), "missing-id", &db2.CreateComment{
		AuthorId: commenter.Id,
		Content:  "hello",
	})
	require.True(t, db2.IsNotFound(err))
}

func TestDeleteProjectCascadesActivities(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	author := createTestUser(t, store, "author@example.com")
	project := createTestProject(t, store, author.Id, "Doomed")

	_, err := store.LogActivity(ctx, &db2.CreateActivity{
		Type:   model.ActivityProjectLaunch,
		UserId: author.Id,
		Data:   model.ActivityData{ProjectId: project.Id, ProjectTitle: project.Title},
	})
	require.NoError(t, err)
	_, err = store.LogActivity(ctx, &db2.CreateActivity{
		Type:   model.ActivityComment,
		UserId: author.Id,
		Data:   model.ActivityData{ProjectId: project.Id},
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteProject(ctx, project.Id, author.Id))

	_, err = store.GetProjectById(ctx, project.Id)
	require.True(t, db2.IsNotFound(err))

	activities, err := store.GetActivitiesByUser(ctx, author.Id)
	require.NoError(t, err)
	for _, activity := range activities {
		require.NotEqual(t, project.Id, activity.Data.ProjectId)
	}
}

func TestDeleteProjectByNonAuthorLeavesStateUnchanged(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	author := createTestUser(t, store, "author@example.com")
	intruder := createTestUser(t, store, "intruder@example.com")
	project := createTestProject(t, store, author.Id, "Protected")

	_, err := store.LogActivity(ctx, &db2.CreateActivity{
		Type:   model.ActivityProjectLaunch,
		UserId: author.Id,
		Data:   model.ActivityData{ProjectId: project.Id},
	})
	require.NoError(t, err)

	err = store.DeleteProject(ctx, project.Id, intruder.Id)
	require.True(t, db2.IsUnauthorized(err))

	survived, err := store.GetProjectById(ctx, project.Id)
	require.NoError(t, err)
	require.Equal(t, project.Id, survived.Id)

	count, err := store.CountActivities(ctx, author.Id, model.ActivityProjectLaunch)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestGetAllProjectsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	author := createTestUser(t, store, "author@example.com")

	createTestProject(t, store, author.Id, "Oldest")
	time.Sleep(5 * time.Millisecond)
	createTestProject(t, store, author.Id, "Middle")
	time.Sleep(5 * time.Millisecond)
	createTestProject(t, store, author.Id, "Newest")

	projects, err := store.GetAllProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 3)
	require.Equal(t, "Newest", projects[0].Title)
	require.Equal(t, "Oldest", projects[2].Title)
}

func TestGetProjectsByAuthor(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	author := createTestUser(t, store, "author@example.com")
	other := createTestUser(t, store, "other@example.com")
	createTestProject(t, store, author.Id, "Mine")
	createTestProject(t, store, other.Id, "Theirs")

	mine, err := store.GetProjectsByAuthor(ctx, author.Id)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "Mine", mine[0].Title)
}

func TestUpdateProjectPatch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	author := createTestUser(t, store, "author@example.com")
	project := createTestProject(t, store, author.Id, "Original Title")

	title := "New Title"
	pricing := model.PricingPaid
	updated, err := store.UpdateProject(ctx, project.Id, &db2.ProjectPatch{
		Title:   &title,
		Pricing: &pricing,
		Tags:    []string{"launch"},
	})
	require.NoError(t, err)
	require.Equal(t, "New Title", updated.Title)
	require.Equal(t, model.PricingPaid, updated.Pricing)
	require.Equal(t, []string{"launch"}, updated.Tags)
	require.Equal(t, project.Tagline, updated.Tagline)
	// The author never changes on update.
	require.Equal(t, author.Id, updated.Author.Id)
}

func TestGetProjectByIdNotFound(t *testing.T) {
	store := openTestStore(t)
	_, err := store.GetProjectById(context.Background(), "missing-id")
	require.True(t, db2.IsNotFound(err))
}
