package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/project-launch/project-launch-be/model"
)

type Database interface {
	UserDatabase
	ProjectDatabase
	DiscussionDatabase
	ActivityDatabase
	ConnectionDatabase
	EventDatabase
	JobDatabase
	BadgeDatabase
	GetSQLDB() *sql.DB
	Close() error
}

type CreateUser struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Username string
	Avatar   string
	Role     model.Role
	Theme    *model.ProfileTheme
}

// UserPatch merges over the existing record; nil fields are left unchanged.
type UserPatch struct {
	Name      *string
	Username  *string
	Password  *string
	Avatar    *string
	Bio       *string
	Location  *string
	Website   *string
	Twitter   *string
	Github    *string
	Linkedin  *string
	Theme     *model.ProfileTheme
	Skills    []*model.Skill
	Portfolio []*model.PortfolioItem
}

type UserDatabase interface {
	CreateUser(ctx context.Context, req *CreateUser) (*model.User, error)
	UpdateUser(ctx context.Context, id string, patch *UserPatch) (*model.User, error)
	GetUserById(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]*model.User, error)
	UpdateUserRole(ctx context.Context, id string, role model.Role) error
	UpdateUserStatus(ctx context.Context, id string, status model.UserStatus) error
}

type CreateProject struct {
	Title       string `validate:"required"`
	Tagline     string `validate:"required"`
	Description string `validate:"required"`
	Category    string `validate:"required"`
	AuthorId    string `validate:"required"`
	Pricing     model.Pricing
	Status      model.ProjectStatus
	ProjectURL  string
	VideoURL    string
	Thumbnail   string
	Images      []string
	TechStack   []string
	Tags        []string
	Social      *model.SocialLinks
	Hiring      *model.HiringInfo
	LaunchDate  *time.Time
}

type ProjectPatch struct {
	Title       *string
	Tagline     *string
	Description *string
	Category    *string
	Pricing     *model.Pricing
	Status      *model.ProjectStatus
	ProjectURL  *string
	VideoURL    *string
	Thumbnail   *string
	Images      []string
	TechStack   []string
	Tags        []string
	Social      *model.SocialLinks
	Hiring      *model.HiringInfo
	LaunchDate  *time.Time
}

type CreateComment struct {
	AuthorId string `validate:"required"`
	Content  string `validate:"required"`
	// Id and CreatedAt are assigned when left empty.
	Id        string
	CreatedAt time.Time
}

type ProjectDatabase interface {
	CreateProject(ctx context.Context, req *CreateProject) (*model.Project, error)
	UpdateProject(ctx context.Context, id string, patch *ProjectPatch) (*model.Project, error)
	// DeleteProject removes the project and its logged activities in a single
	// transaction. Only the owning author may delete.
	DeleteProject(ctx context.Context, id, callerId string) error
	GetProjectById(ctx context.Context, id string) (*model.Project, error)
	GetProjectsByAuthor(ctx context.Context, authorId string) ([]*model.Project, error)
	GetAllProjects(ctx context.Context) ([]*model.Project, error)
	// ToggleProjectUpvote atomically flips membership of userId in the voters
	// set. Calling it twice restores the original state.
	ToggleProjectUpvote(ctx context.Context, projectId, userId string) (*model.Project, error)
	ToggleProjectSubscription(ctx context.Context, projectId, userId string) (*model.Project, error)
	AddComment(ctx context.Context, projectId string, req *CreateComment) (*model.Project, error)
}

type CreateDiscussion struct {
	Title       string               `validate:"required"`
	Type        model.DiscussionType `validate:"required,oneof=discussion poll"`
	Category    string               `validate:"required"`
	AuthorId    string               `validate:"required"`
	Content     string
	Subcategory string
	Tags        []string
	PollOptions []*model.PollOption
}

type DiscussionPatch struct {
	Title       *string
	Content     *string
	Category    *string
	Subcategory *string
	Tags        []string
	Featured    *bool
}

type CreateReply struct {
	AuthorId      string `validate:"required"`
	Content       string `validate:"required"`
	ParentReplyId string
}

type DiscussionDatabase interface {
	CreateDiscussion(ctx context.Context, req *CreateDiscussion) (*model.Discussion, error)
	UpdateDiscussion(ctx context.Context, id string, patch *DiscussionPatch) (*model.Discussion, error)
	DeleteDiscussion(ctx context.Context, id, callerId string) error
	GetDiscussionById(ctx context.Context, id string) (*model.Discussion, error)
	GetAllDiscussions(ctx context.Context) ([]*model.Discussion, error)
	AddReply(ctx context.Context, discussionId string, req *CreateReply) (*model.Reply, error)
	ToggleDiscussionUpvote(ctx context.Context, discussionId, userId string) (*model.Discussion, error)
	ToggleReplyUpvote(ctx context.Context, discussionId, replyId, userId string) (*model.Discussion, error)
	// IncrementViews is a monotonic counter with no dedup.
	IncrementViews(ctx context.Context, discussionId string) (*model.Discussion, error)
	// VotePoll enforces the exclusive-vote invariant: any previous vote by the
	// user on another option of the same poll is removed first.
	VotePoll(ctx context.Context, discussionId, optionId, userId string) (*model.Discussion, error)
	// ModerateDiscussion moves an active discussion to locked or hidden.
	// Both outcomes are terminal.
	ModerateDiscussion(ctx context.Context, id string, status model.DiscussionStatus) (*model.Discussion, error)
}

type CreateActivity struct {
	Type   model.ActivityType `validate:"required"`
	UserId string             `validate:"required"`
	Data   model.ActivityData
}

type ActivityDatabase interface {
	LogActivity(ctx context.Context, req *CreateActivity) (*model.Activity, error)
	GetRecentActivities(ctx context.Context, limit int) ([]*model.Activity, error)
	GetActivitiesByUser(ctx context.Context, userId string) ([]*model.Activity, error)
	GetActivitiesByType(ctx context.Context, activityType model.ActivityType) ([]*model.Activity, error)
	CountActivities(ctx context.Context, userId string, activityType model.ActivityType) (int, error)
}

type ConnectionDatabase interface {
	// CreateConnection fails with a ConflictError when the edge already exists.
	CreateConnection(ctx context.Context, followerId, followingId string) (*model.Connection, error)
	DeleteConnection(ctx context.Context, followerId, followingId string) error
	GetConnections(ctx context.Context) ([]*model.Connection, error)
}

type CreateEvent struct {
	Title       string    `validate:"required"`
	Description string    `validate:"required"`
	Type        string    `validate:"required"`
	Date        time.Time `validate:"required"`
	OrganizerId string    `validate:"required"`
	Category    string
	EndDate     *time.Time
	Location    string
	Price       string
	Tags        []string
	Featured    bool
}

type EventDatabase interface {
	CreateEvent(ctx context.Context, req *CreateEvent) (*model.Event, error)
	GetAllEvents(ctx context.Context) ([]*model.Event, error)
	// RegisterForEvent is idempotent; registering twice is a no-op.
	RegisterForEvent(ctx context.Context, eventId, userId string) error
	UnregisterFromEvent(ctx context.Context, eventId, userId string) error
	GetEventRegistrations(ctx context.Context, userId string) ([]string, error)
}

type CreateJobListing struct {
	ProjectId   string            `validate:"required"`
	Title       string            `validate:"required"`
	Description string            `validate:"required"`
	Type        model.HiringType  `validate:"required"`
	Tier        model.ListingTier `validate:"omitempty,oneof=free premium sponsored"`
	Location    string
	Remote      bool
	Salary      model.Salary
	Skills      []string
	Experience  string
	Featured    bool
	ExpiresAt   time.Time
}

type JobDatabase interface {
	CreateJobListing(ctx context.Context, req *CreateJobListing) (*model.JobListing, error)
	GetAllJobListings(ctx context.Context, includeExpired bool) ([]*model.JobListing, error)
	GetJobListingsByProject(ctx context.Context, projectId string) ([]*model.JobListing, error)
	DeleteJobListing(ctx context.Context, id, callerId string) error
}

type BadgeDatabase interface {
	// AwardBadge inserts the award if missing and reports whether it was
	// newly granted. Re-awarding is a no-op.
	AwardBadge(ctx context.Context, userId, badgeId string) (bool, error)
	GetUserBadges(ctx context.Context, userId string) ([]*model.AwardedBadge, error)
	// AssignMemberNumber gives the user the next registration number exactly
	// once and returns it; subsequent calls return the existing number.
	AssignMemberNumber(ctx context.Context, userId string) (int, error)
	GetMemberNumber(ctx context.Context, userId string) (int, error)
	// CountCommentUpvotesReceived counts upvotes cast on replies the user
	// authored, across all discussions.
	CountCommentUpvotesReceived(ctx context.Context, userId string) (int, error)
}
