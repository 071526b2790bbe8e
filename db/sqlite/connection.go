package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/model"
	"github.com/upper/db/v4"
)

type ConnectionDB struct {
	sess db.Session
}

func getConnectionDB(sess db.Session) *ConnectionDB {
	return &ConnectionDB{sess}
}

func (cdb *ConnectionDB) CreateConnection(ctx context.Context, followerId, followingId string) (*model.Connection, error) {
	if followerId == "" || followingId == "" {
		return nil, &db2.ValidationError{Message: "follower id and following id are required"}
	}
	if followerId == followingId {
		return nil, &db2.ValidationError{Message: "users cannot follow themselves"}
	}
	connection := &model.Connection{
		Id:          uuid.NewString(),
		FollowerId:  followerId,
		FollowingId: followingId,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := cdb.sess.WithContext(ctx).Collection("connections").Insert(connection); err != nil {
		return nil, db2.WrapStorage(err)
	}
	return connection, nil
}

func (cdb *ConnectionDB) DeleteConnection(ctx context.Context, followerId, followingId string) error {
	if followerId == "" || followingId == "" {
		return &db2.ValidationError{Message: "follower id and following id are required"}
	}
	if _, err := cdb.sess.SQL().
		DeleteFrom("connections").
		Where("follower_id = ? AND following_id = ?", followerId, followingId).
		ExecContext(ctx); err != nil {
		return db2.WrapStorage(err)
	}
	return nil
}

func (cdb *ConnectionDB) GetConnections(ctx context.Context) ([]*model.Connection, error) {
	var connections []*model.Connection
	if err := cdb.sess.SQL().
		Select("*").
		From("connections").
		OrderBy("created_at DESC", "id DESC").
		IteratorContext(ctx).
		All(&connections); err != nil {
		return nil, db2.WrapStorage(err)
	}
	if connections == nil {
		connections = []*model.Connection{}
	}
	return connections, nil
}
