// Package badges holds the static badge catalog. Awards are persisted rows
// keyed by badge id; everything displayable lives here.
package badges

import "github.com/project-launch/project-launch-be/model"

// EarlySupporterLimit caps how many registered users receive the
// early-supporter badge.
const EarlySupporterLimit = 250

// Criterion names the progress counter a badge is judged against.
type Criterion string

const (
	CriterionNone               Criterion = ""
	CriterionProjectsUpvoted    Criterion = "projectsUpvoted"
	CriterionProjectsLaunched   Criterion = "projectsLaunched"
	CriterionCommentsPosted     Criterion = "commentsPosted"
	CriterionDiscussionsStarted Criterion = "discussionsStarted"
	// CriterionCommentUpvotes counts votes received on the user's replies.
	// It is aggregated from the vote tables, not the activity log.
	CriterionCommentUpvotes Criterion = "commentUpvotes"
)

type Definition struct {
	Id          string
	Name        string
	Description string
	Category    model.BadgeCategory
	Tier        model.BadgeTier
	Criterion   Criterion
	Requirement int
}

// ActivityType maps the criterion to the activity-log entry type counted
// for it. Badges without a counter, and comment upvotes (counted from vote
// rows rather than activities), return "".
func (d Definition) ActivityType() model.ActivityType {
	switch d.Criterion {
	case CriterionProjectsUpvoted:
		return model.ActivityProjectUpvote
	case CriterionProjectsLaunched:
		return model.ActivityProjectLaunch
	case CriterionCommentsPosted:
		return model.ActivityComment
	case CriterionDiscussionsStarted:
		return model.ActivityDiscussion
	}
	return ""
}

var Catalog = []Definition{
	{
		Id:          "early-supporter",
		Name:        "Early Supporter",
		Description: "One of the first 250 members to join",
		Category:    model.BadgeSpecial,
		Tier:        model.TierPlatinum,
	},
	{
		Id:          "early-adopter",
		Name:        "Early Adopter",
		Description: "Joined during the platform launch",
		Category:    model.BadgeSpecial,
		Tier:        model.TierPlatinum,
	},
	{
		Id:          "first-upvote",
		Name:        "First Upvote",
		Description: "Upvoted your first project",
		Category:    model.BadgeEngagement,
		Tier:        model.TierBronze,
		Criterion:   CriterionProjectsUpvoted,
		Requirement: 1,
	},
	{
		Id:          "super-supporter",
		Name:        "Super Supporter",
		Description: "Upvoted 50 projects",
		Category:    model.BadgeEngagement,
		Tier:        model.TierSilver,
		Criterion:   CriterionProjectsUpvoted,
		Requirement: 50,
	},
	{
		Id:          "community-pillar",
		Name:        "Community Pillar",
		Description: "Upvoted 200 projects",
		Category:    model.BadgeEngagement,
		Tier:        model.TierGold,
		Criterion:   CriterionProjectsUpvoted,
		Requirement: 200,
	},
	{
		Id:          "first-launch",
		Name:        "First Launch",
		Description: "Launched your first project",
		Category:    model.BadgeAchievement,
		Tier:        model.TierBronze,
		Criterion:   CriterionProjectsLaunched,
		Requirement: 1,
	},
	{
		Id:          "serial-launcher",
		Name:        "Serial Launcher",
		Description: "Launched 5 projects",
		Category:    model.BadgeAchievement,
		Tier:        model.TierSilver,
		Criterion:   CriterionProjectsLaunched,
		Requirement: 5,
	},
	{
		Id:          "launch-master",
		Name:        "Launch Master",
		Description: "Launched 20 projects",
		Category:    model.BadgeAchievement,
		Tier:        model.TierGold,
		Criterion:   CriterionProjectsLaunched,
		Requirement: 20,
	},
	{
		Id:          "helpful-commenter",
		Name:        "Helpful Commenter",
		Description: "Posted 10 comments",
		Category:    model.BadgeContribution,
		Tier:        model.TierBronze,
		Criterion:   CriterionCommentsPosted,
		Requirement: 10,
	},
	{
		Id:          "discussion-starter",
		Name:        "Discussion Starter",
		Description: "Started 5 discussions",
		Category:    model.BadgeContribution,
		Tier:        model.TierSilver,
		Criterion:   CriterionDiscussionsStarted,
		Requirement: 5,
	},
	{
		Id:          "community-leader",
		Name:        "Community Leader",
		Description: "Received 100 upvotes on comments",
		Category:    model.BadgeContribution,
		Tier:        model.TierGold,
		Criterion:   CriterionCommentUpvotes,
		Requirement: 100,
	},
}

// ById returns the catalog entry for id, or nil for unknown ids.
func ById(id string) *Definition {
	for i := range Catalog {
		if Catalog[i].Id == id {
			return &Catalog[i]
		}
	}
	return nil
}
