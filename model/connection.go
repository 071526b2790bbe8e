package model

import "time"

// Connection is a directed follow edge. A mutual connection exists when edges
// run in both directions between the same pair of users.
type Connection struct {
	Id          string    `db:"id" json:"id"`
	FollowerId  string    `db:"follower_id" json:"followerId"`
	FollowingId string    `db:"following_id" json:"followingId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type NetworkStats struct {
	Followers         int `json:"followers"`
	Following         int `json:"following"`
	MutualConnections int `json:"mutualConnections"`
}

type NetworkUser struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	Avatar      string `json:"avatar"`
	Bio         string `json:"bio,omitempty"`
	IsFollowing bool   `json:"isFollowing,omitempty"`
	IsFollower  bool   `json:"isFollower,omitempty"`
	MutualCount int    `json:"mutualCount,omitempty"`
}
