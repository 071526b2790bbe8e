package model

import "time"

type BadgeCategory string

const (
	BadgeSpecial      BadgeCategory = "special"
	BadgeEngagement   BadgeCategory = "engagement"
	BadgeAchievement  BadgeCategory = "achievement"
	BadgeContribution BadgeCategory = "contribution"
)

type BadgeTier string

const (
	TierBronze   BadgeTier = "bronze"
	TierSilver   BadgeTier = "silver"
	TierGold     BadgeTier = "gold"
	TierPlatinum BadgeTier = "platinum"
)

type Badge struct {
	Id          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    BadgeCategory `json:"category"`
	Tier        BadgeTier     `json:"tier"`
	UnlockedAt  *time.Time    `json:"unlockedAt,omitempty"`
}

// BadgeCriteria are the progress counters badges are judged against. They are
// never stored; they are recomputed from the activity log on demand.
type BadgeCriteria struct {
	ProjectsUpvoted    int `json:"projectsUpvoted"`
	ProjectsLaunched   int `json:"projectsLaunched"`
	CommentsPosted     int `json:"commentsPosted"`
	DiscussionsStarted int `json:"discussionsStarted"`
	CommentUpvotes     int `json:"commentUpvotes"`
}

// AwardedBadge is the persisted award row; display fields come from the
// badge catalog.
type AwardedBadge struct {
	BadgeId    string    `db:"badge_id" json:"badgeId"`
	UnlockedAt time.Time `db:"unlocked_at" json:"unlockedAt"`
}
