package model

import "time"

type ListingTier string

const (
	TierFree      ListingTier = "free"
	TierPremium   ListingTier = "premium"
	TierSponsored ListingTier = "sponsored"
)

type Salary struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// JobListing is a job-board posting attached to a project. The tier controls
// board placement; sponsored and premium listings sort ahead of free ones.
type JobListing struct {
	Id          string      `json:"id"`
	ProjectId   string      `json:"projectId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        HiringType  `json:"type"`
	Tier        ListingTier `json:"tier"`
	Location    string      `json:"location"`
	Remote      bool        `json:"remote"`
	Salary      Salary      `json:"salary"`
	Skills      []string    `json:"skills,omitempty"`
	Experience  string      `json:"experience,omitempty"`
	Featured    bool        `json:"featured,omitempty"`
	PostedAt    time.Time   `json:"postedAt"`
	ExpiresAt   time.Time   `json:"expiresAt"`
}

func (j *JobListing) Expired(now time.Time) bool {
	return now.After(j.ExpiresAt)
}
