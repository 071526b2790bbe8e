package controllers

import (
	"context"
	"sync"

	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/model"
	"github.com/project-launch/project-launch-be/services"
)

type ConnectionStore interface {
	db2.ConnectionDatabase
	db2.UserDatabase
}

// ConnectionController mirrors the full follow graph; the edge count stays
// small enough that per-user queries are plain scans over the mirror.
type ConnectionController struct {
	db       ConnectionStore
	notifier services.Notifier

	mirror     []*model.Connection
	mirrorLock sync.Mutex
}

func NewConnectionController(c context.Context, db ConnectionStore, notifier services.Notifier) (*ConnectionController, error) {
	connections, err := db.GetConnections(c)
	if err != nil {
		return nil, err
	}
	return &ConnectionController{
		db:       db,
		notifier: notifier,
		mirror:   connections,
	}, nil
}

func (cc *ConnectionController) Follow(c context.Context, followerId, followingId string) error {
	connection, err := cc.db.CreateConnection(c, followerId, followingId)
	if err != nil {
		if db2.IsConflict(err) {
			cc.notifier.Notify(services.Notification{
				Title:   "Already following",
				Variant: services.VariantDestructive,
			})
			return err
		}
		cc.notifier.Notify(services.Notification{
			Title:       "Could not follow",
			Description: err.Error(),
			Variant:     services.VariantDestructive,
		})
		return err
	}

	cc.mirrorLock.Lock()
	cc.mirror = append(cc.mirror, connection)
	cc.mirrorLock.Unlock()
	return nil
}

func (cc *ConnectionController) Unfollow(c context.Context, followerId, followingId string) error {
	if err := cc.db.DeleteConnection(c, followerId, followingId); err != nil {
		cc.notifier.Notify(services.Notification{
			Title:       "Could not unfollow",
			Description: err.Error(),
			Variant:     services.VariantDestructive,
		})
		return err
	}

	cc.mirrorLock.Lock()
	for i, connection := range cc.mirror {
		if connection.FollowerId == followerId && connection.FollowingId == followingId {
			cc.mirror = append(cc.mirror[:i], cc.mirror[i+1:]...)
			break
		}
	}
	cc.mirrorLock.Unlock()
	return nil
}

func (cc *ConnectionController) IsFollowing(followerId, followingId string) bool {
	cc.mirrorLock.Lock()
	defer cc.mirrorLock.Unlock()
	return cc.hasEdge(followerId, followingId)
}

// NetworkStats counts the user's followers, following and mutuals. A mutual
// connection is an edge pair running in both directions.
func (cc *ConnectionController) NetworkStats(userId string) model.NetworkStats {
	cc.mirrorLock.Lock()
	defer cc.mirrorLock.Unlock()

	stats := model.NetworkStats{}
	for _, connection := range cc.mirror {
		if connection.FollowingId == userId {
			stats.Followers++
		}
		if connection.FollowerId == userId {
			stats.Following++
			if cc.hasEdge(connection.FollowingId, userId) {
				stats.MutualConnections++
			}
		}
	}
	return stats
}

// MutualConnections returns the ids of users connected to userId in both
// directions.
func (cc *ConnectionController) MutualConnections(userId string) []string {
	cc.mirrorLock.Lock()
	defer cc.mirrorLock.Unlock()

	mutuals := []string{}
	for _, connection := range cc.mirror {
		if connection.FollowerId == userId && cc.hasEdge(connection.FollowingId, userId) {
			mutuals = append(mutuals, connection.FollowingId)
		}
	}
	return mutuals
}

func (cc *ConnectionController) Followers(c context.Context, userId string) ([]*model.NetworkUser, error) {
	return cc.networkUsers(c, userId, func(connection *model.Connection) (string, bool) {
		return connection.FollowerId, connection.FollowingId == userId
	})
}

func (cc *ConnectionController) Following(c context.Context, userId string) ([]*model.NetworkUser, error) {
	return cc.networkUsers(c, userId, func(connection *model.Connection) (string, bool) {
		return connection.FollowingId, connection.FollowerId == userId
	})
}

func (cc *ConnectionController) networkUsers(c context.Context, userId string, pick func(*model.Connection) (string, bool)) ([]*model.NetworkUser, error) {
	users, err := cc.db.GetAllUsers(c)
	if err != nil {
		return nil, err
	}
	byId := make(map[string]*model.User, len(users))
	for _, user := range users {
		byId[user.Id] = user
	}

	cc.mirrorLock.Lock()
	defer cc.mirrorLock.Unlock()

	ownMutuals := cc.mutualsOf(userId)
	result := []*model.NetworkUser{}
	for _, connection := range cc.mirror {
		otherId, matches := pick(connection)
		if !matches {
			continue
		}
		user, ok := byId[otherId]
		if !ok {
			continue
		}
		result = append(result, &model.NetworkUser{
			Id:          user.Id,
			Name:        user.Name,
			Username:    user.Username,
			Avatar:      user.Avatar,
			Bio:         user.Bio,
			IsFollowing: cc.hasEdge(userId, user.Id),
			IsFollower:  cc.hasEdge(user.Id, userId),
			MutualCount: cc.sharedMutuals(ownMutuals, user.Id),
		})
	}
	return result, nil
}

// mutualsOf collects the ids mutually connected with userId. The caller holds
// mirrorLock.
func (cc *ConnectionController) mutualsOf(userId string) map[string]bool {
	mutuals := map[string]bool{}
	for _, connection := range cc.mirror {
		if connection.FollowerId == userId && cc.hasEdge(connection.FollowingId, userId) {
			mutuals[connection.FollowingId] = true
		}
	}
	return mutuals
}

// sharedMutuals counts the mutual connections two users have in common. The
// caller holds mirrorLock.
func (cc *ConnectionController) sharedMutuals(ownMutuals map[string]bool, otherId string) int {
	shared := 0
	for id := range cc.mutualsOf(otherId) {
		if id != otherId && ownMutuals[id] {
			shared++
		}
	}
	return shared
}

// hasEdge assumes the caller holds mirrorLock.
func (cc *ConnectionController) hasEdge(followerId, followingId string) bool {
	for _, connection := range cc.mirror {
		if connection.FollowerId == followerId && connection.FollowingId == followingId {
			return true
		}
	}
	return false
}
