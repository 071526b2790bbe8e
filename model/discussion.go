package model

import "time"

type DiscussionType string

const (
	TypeDiscussion DiscussionType = "discussion"
	TypePoll       DiscussionType = "poll"
)

type DiscussionStatus string

const (
	DiscussionActive DiscussionStatus = "active"
	DiscussionLocked DiscussionStatus = "locked"
	DiscussionHidden DiscussionStatus = "hidden"
)

// Discussion is a forum thread or a poll. PollVotes maps option id to the set
// of voter ids; a user holds at most one vote across all options.
type Discussion struct {
	Id          string              `json:"id"`
	Title       string              `json:"title"`
	Content     string              `json:"content,omitempty"`
	Type        DiscussionType      `json:"type"`
	Category    string              `json:"category"`
	Subcategory string              `json:"subcategory,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	Author      *Author             `json:"author"`
	Upvotes     int                 `json:"upvotes"`
	Voters      []string            `json:"voters"`
	Replies     []*Reply            `json:"replies"`
	Views       int                 `json:"views"`
	Featured    bool                `json:"featured,omitempty"`
	PollOptions []*PollOption       `json:"pollOptions,omitempty"`
	PollVotes   map[string][]string `json:"pollVotes,omitempty"`
	Status      DiscussionStatus    `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

func (d *Discussion) HasVoter(userId string) bool {
	for _, id := range d.Voters {
		if id == userId {
			return true
		}
	}
	return false
}

// PollVoteFor returns the option id the user currently votes for, or "".
func (d *Discussion) PollVoteFor(userId string) string {
	for optionId, voters := range d.PollVotes {
		for _, id := range voters {
			if id == userId {
				return optionId
			}
		}
	}
	return ""
}

// Reply carries a back-reference to its discussion. ParentReplyId is set for
// one-level threading only; replies never nest deeper.
type Reply struct {
	Id            string    `json:"id"`
	DiscussionId  string    `json:"discussionId"`
	Author        *Author   `json:"author"`
	Content       string    `json:"content"`
	ParentReplyId string    `json:"parentReplyId,omitempty"`
	Upvotes       int       `json:"upvotes"`
	Voters        []string  `json:"voters"`
	CreatedAt     time.Time `json:"createdAt"`
}

type PollOption struct {
	Id   string `json:"id"`
	Text string `json:"text"`
}
