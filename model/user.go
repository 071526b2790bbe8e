package model

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
	UserBanned   UserStatus = "banned"
)

// User is the full account record held in the users collection. The session
// store keeps a copy of it with the password stripped.
type User struct {
	Id         string           `json:"id"`
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	Username   string           `json:"username"`
	Password   string           `json:"-"`
	Avatar     string           `json:"avatar"`
	Bio        string           `json:"bio,omitempty"`
	Location   string           `json:"location,omitempty"`
	Website    string           `json:"website,omitempty"`
	Twitter    string           `json:"twitter,omitempty"`
	Github     string           `json:"github,omitempty"`
	Linkedin   string           `json:"linkedin,omitempty"`
	Role       Role             `json:"role"`
	Status     UserStatus       `json:"status"`
	IsVerified bool             `json:"isVerified"`
	Theme      *ProfileTheme    `json:"theme,omitempty"`
	Skills     []*Skill         `json:"skills,omitempty"`
	Portfolio  []*PortfolioItem `json:"portfolio,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
	LastActive time.Time        `json:"lastActive"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// WithoutPassword returns a copy safe to hand to the session store.
func (u *User) WithoutPassword() *User {
	stripped := *u
	stripped.Password = ""
	return &stripped
}

// Author is the displayable slice of a user embedded in content records.
// Rows store only the author id; these fields are resolved by joining the
// users collection at read time, so they never go stale.
type Author struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	Avatar   string `json:"avatar"`
}

func (u *User) AsAuthor() *Author {
	return &Author{
		Id:       u.Id,
		Name:     u.Name,
		Username: u.Username,
		Avatar:   u.Avatar,
	}
}

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillExpert       SkillLevel = "expert"
)

type Skill struct {
	Id           string     `json:"id"`
	Name         string     `json:"name"`
	Level        SkillLevel `json:"level"`
	Category     string     `json:"category"`
	Endorsements []string   `json:"endorsements,omitempty"`
}

type PortfolioItem struct {
	Id          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	ProjectURL  string   `json:"projectUrl,omitempty"`
	GithubURL   string   `json:"githubUrl,omitempty"`
	Featured    bool     `json:"featured"`
	Tags        []string `json:"tags,omitempty"`
}
