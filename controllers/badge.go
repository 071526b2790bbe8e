package controllers

import (
	"context"
	"log"

	"github.com/project-launch/project-launch-be/badges"
	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/model"
	"github.com/project-launch/project-launch-be/services"
)

type BadgeStore interface {
	db2.ActivityDatabase
	db2.BadgeDatabase
}

// BadgeController awards badges by recomputing progress from the activity log.
// Recomputation is idempotent; running it twice never double-awards.
type BadgeController struct {
	db       BadgeStore
	notifier services.Notifier
}

func NewBadgeController(db BadgeStore, notifier services.Notifier) *BadgeController {
	return &BadgeController{
		db:       db,
		notifier: notifier,
	}
}

// Progress aggregates the user's counters from the activity log.
func (bc *BadgeController) Progress(c context.Context, userId string) (*model.BadgeCriteria, error) {
	upvoted, err := bc.db.CountActivities(c, userId, model.ActivityProjectUpvote)
	if err != nil {
		return nil, err
	}
	launched, err := bc.db.CountActivities(c, userId, model.ActivityProjectLaunch)
	if err != nil {
		return nil, err
	}
	commented, err := bc.db.CountActivities(c, userId, model.ActivityComment)
	if err != nil {
		return nil, err
	}
	started, err := bc.db.CountActivities(c, userId, model.ActivityDiscussion)
	if err != nil {
		return nil, err
	}
	commentUpvotes, err := bc.db.CountCommentUpvotesReceived(c, userId)
	if err != nil {
		return nil, err
	}
	return &model.BadgeCriteria{
		ProjectsUpvoted:    upvoted,
		ProjectsLaunched:   launched,
		CommentsPosted:     commented,
		DiscussionsStarted: started,
		CommentUpvotes:     commentUpvotes,
	}, nil
}

// CheckAndAwardBadges awards every catalog badge whose counter has reached its
// requirement and returns the newly earned ones.
func (bc *BadgeController) CheckAndAwardBadges(c context.Context, userId string) ([]*model.Badge, error) {
	criteria, err := bc.Progress(c, userId)
	if err != nil {
		return nil, err
	}

	var earned []*model.Badge
	for _, definition := range badges.Catalog {
		if definition.Criterion == badges.CriterionNone {
			continue
		}
		if counterFor(criteria, definition.Criterion) < definition.Requirement {
			continue
		}
		badge, err := bc.award(c, userId, definition)
		if err != nil {
			return nil, err
		}
		if badge != nil {
			earned = append(earned, badge)
		}
	}
	return earned, nil
}

// CheckEarlySupporter claims the user's registration number and awards the
// early-supporter badge while numbers last. The number sticks across calls.
func (bc *BadgeController) CheckEarlySupporter(c context.Context, userId string) (int, error) {
	number, err := bc.db.AssignMemberNumber(c, userId)
	if err != nil {
		return 0, err
	}
	if number > badges.EarlySupporterLimit {
		return number, nil
	}
	definition := badges.ById("early-supporter")
	if definition == nil {
		return number, nil
	}
	if _, err := bc.award(c, userId, *definition); err != nil {
		return 0, err
	}
	return number, nil
}

// UserBadges resolves the persisted awards against the catalog. Awards for
// ids no longer in the catalog are dropped from display.
func (bc *BadgeController) UserBadges(c context.Context, userId string) ([]*model.Badge, error) {
	awarded, err := bc.db.GetUserBadges(c, userId)
	if err != nil {
		return nil, err
	}
	result := make([]*model.Badge, 0, len(awarded))
	for _, award := range awarded {
		definition := badges.ById(award.BadgeId)
		if definition == nil {
			continue
		}
		unlockedAt := award.UnlockedAt
		result = append(result, &model.Badge{
			Id:          definition.Id,
			Name:        definition.Name,
			Description: definition.Description,
			Category:    definition.Category,
			Tier:        definition.Tier,
			UnlockedAt:  &unlockedAt,
		})
	}
	return result, nil
}

// BadgeProgress reports how far the user is toward a badge.
func (bc *BadgeController) BadgeProgress(c context.Context, userId, badgeId string) (current, required int, err error) {
	definition := badges.ById(badgeId)
	if definition == nil {
		return 0, 0, &db2.NotFoundError{Collection: "badges", Id: badgeId}
	}
	if definition.Criterion == badges.CriterionNone {
		return 0, 0, nil
	}
	criteria, err := bc.Progress(c, userId)
	if err != nil {
		return 0, 0, err
	}
	return counterFor(criteria, definition.Criterion), definition.Requirement, nil
}

func (bc *BadgeController) award(c context.Context, userId string, definition badges.Definition) (*model.Badge, error) {
	granted, err := bc.db.AwardBadge(c, userId, definition.Id)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, nil
	}
	if _, err := bc.db.LogActivity(c, &db2.CreateActivity{
		Type:   model.ActivityBadgeEarned,
		UserId: userId,
		Data: model.ActivityData{
			BadgeId:   definition.Id,
			BadgeName: definition.Name,
		},
	}); err != nil {
		log.Println("an error occurred while logging activity", err)
	}
	bc.notifier.Notify(services.Notification{
		Title:       "Badge unlocked!",
		Description: definition.Name,
	})
	return &model.Badge{
		Id:          definition.Id,
		Name:        definition.Name,
		Description: definition.Description,
		Category:    definition.Category,
		Tier:        definition.Tier,
	}, nil
}

func counterFor(criteria *model.BadgeCriteria, criterion badges.Criterion) int {
	switch criterion {
	case badges.CriterionProjectsUpvoted:
		return criteria.ProjectsUpvoted
	case badges.CriterionProjectsLaunched:
		return criteria.ProjectsLaunched
	case badges.CriterionCommentsPosted:
		return criteria.CommentsPosted
	case badges.CriterionDiscussionsStarted:
		return criteria.DiscussionsStarted
	case badges.CriterionCommentUpvotes:
		return criteria.CommentUpvotes
	}
	return 0
}
