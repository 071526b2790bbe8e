package model

import "time"

type ActivityType string

const (
	ActivityProjectLaunch ActivityType = "project_launch"
	ActivityProjectUpvote ActivityType = "project_upvote"
	ActivityComment       ActivityType = "comment"
	ActivityDiscussion    ActivityType = "discussion"
	ActivityBadgeEarned   ActivityType = "badge_earned"
	ActivitySkillEndorsed ActivityType = "skill_endorsed"
	ActivityRoleChange    ActivityType = "role_change"
	ActivityStatusChange  ActivityType = "status_change"
)

// ActivityData is the free-form payload keyed by activity type. Only the
// fields relevant to the type are set.
type ActivityData struct {
	ProjectId       string `json:"projectId,omitempty"`
	ProjectTitle    string `json:"projectTitle,omitempty"`
	DiscussionId    string `json:"discussionId,omitempty"`
	DiscussionTitle string `json:"discussionTitle,omitempty"`
	CommentId       string `json:"commentId,omitempty"`
	CommentText     string `json:"commentText,omitempty"`
	BadgeId         string `json:"badgeId,omitempty"`
	BadgeName       string `json:"badgeName,omitempty"`
	SkillId         string `json:"skillId,omitempty"`
	SkillName       string `json:"skillName,omitempty"`
	Role            string `json:"role,omitempty"`
	Status          string `json:"status,omitempty"`
}

// Activity is an append-only log entry. Entries are never mutated and only
// disappear when cascade-deleted with their parent project.
type Activity struct {
	Id        string       `json:"id"`
	Type      ActivityType `json:"type"`
	UserId    string       `json:"userId"`
	Timestamp time.Time    `json:"timestamp"`
	Data      ActivityData `json:"data"`
}
