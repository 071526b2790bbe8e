package model

import "time"

type Pricing string

const (
	PricingFree     Pricing = "free"
	PricingPaid     Pricing = "paid"
	PricingFreemium Pricing = "freemium"
)

type ProjectStatus string

const (
	ProjectPublished ProjectStatus = "published"
	ProjectUpcoming  ProjectStatus = "upcoming"
)

type SocialLinks struct {
	Twitter  string `json:"twitter,omitempty"`
	Linkedin string `json:"linkedin,omitempty"`
	Github   string `json:"github,omitempty"`
}

type HiringType string

const (
	HiringFullTime HiringType = "full-time"
	HiringPartTime HiringType = "part-time"
	HiringContract HiringType = "contract"
)

type HiringInfo struct {
	Status       bool       `json:"status"`
	Type         HiringType `json:"type,omitempty"`
	Rate         string     `json:"rate,omitempty"`
	Skills       []string   `json:"skills,omitempty"`
	Availability string     `json:"availability,omitempty"`
}

// Project is a submitted project. Upvotes is always derived from the voters
// set; it is never stored independently.
type Project struct {
	Id          string        `json:"id"`
	Title       string        `json:"title"`
	Tagline     string        `json:"tagline"`
	Description string        `json:"description"`
	ProjectURL  string        `json:"projectUrl,omitempty"`
	VideoURL    string        `json:"videoUrl,omitempty"`
	Thumbnail   string        `json:"thumbnail,omitempty"`
	Category    string        `json:"category"`
	Pricing     Pricing       `json:"pricing"`
	Status      ProjectStatus `json:"status"`
	Images      []string      `json:"images,omitempty"`
	TechStack   []string      `json:"techStack,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Social      *SocialLinks  `json:"social,omitempty"`
	Hiring      *HiringInfo   `json:"hiring,omitempty"`
	Author      *Author       `json:"author"`
	Upvotes     int           `json:"upvotes"`
	Voters      []string      `json:"voters"`
	Subscribers []string      `json:"subscribers"`
	Comments    []*Comment    `json:"comments"`
	LaunchDate  *time.Time    `json:"launchDate,omitempty"`
	Rank        int           `json:"rank"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// HasVoter reports membership of the voters set.
func (p *Project) HasVoter(userId string) bool {
	for _, id := range p.Voters {
		if id == userId {
			return true
		}
	}
	return false
}

func (p *Project) HasSubscriber(userId string) bool {
	for _, id := range p.Subscribers {
		if id == userId {
			return true
		}
	}
	return false
}

// Comment is owned by exactly one project and immutable once created.
type Comment struct {
	Id        string    `json:"id"`
	Author    *Author   `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
