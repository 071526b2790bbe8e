package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/model"
	"github.com/upper/db/v4"
)

const defaultActivityLimit = 10

type ActivityDB struct {
	sess db.Session
}

func getActivityDB(sess db.Session) *ActivityDB {
	return &ActivityDB{sess}
}

type activityRow struct {
	Id        string    `db:"id"`
	UserId    string    `db:"user_id"`
	Type      string    `db:"type"`
	ProjectId *string   `db:"project_id"`
	DataJSON  string    `db:"data"`
	Timestamp time.Time `db:"timestamp"`
}

func (adb *ActivityDB) LogActivity(ctx context.Context, req *db2.CreateActivity) (*model.Activity, error) {
	if err := checkReq(req); err != nil {
		return nil, err
	}
	return insertActivity(ctx, adb.sess, req)
}

func (adb *ActivityDB) GetRecentActivities(ctx context.Context, limit int) ([]*model.Activity, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	return adb.getActivitiesWhere(ctx, limit, "")
}

func (adb *ActivityDB) GetActivitiesByUser(ctx context.Context, userId string) ([]*model.Activity, error) {
	if userId == "" {
		return nil, &db2.ValidationError{Message: "user id is required"}
	}
	return adb.getActivitiesWhere(ctx, 0, "user_id = ?", userId)
}

func (adb *ActivityDB) GetActivitiesByType(ctx context.Context, activityType model.ActivityType) ([]*model.Activity, error) {
	if activityType == "" {
		return nil, &db2.ValidationError{Message: "activity type is required"}
	}
	return adb.getActivitiesWhere(ctx, 0, "type = ?", string(activityType))
}

func (adb *ActivityDB) CountActivities(ctx context.Context, userId string, activityType model.ActivityType) (int, error) {
	if userId == "" || activityType == "" {
		return 0, &db2.ValidationError{Message: "user id and activity type are required"}
	}
	count, err := adb.sess.WithContext(ctx).Collection("activities").
		Find("user_id = ? AND type = ?", userId, string(activityType)).
		Count()
	if err != nil {
		return 0, db2.WrapStorage(err)
	}
	return int(count), nil
}

func (adb *ActivityDB) getActivitiesWhere(ctx context.Context, limit int, cond string, args ...interface{}) ([]*model.Activity, error) {
	selector := adb.sess.SQL().
		Select("*").
		From("activities")
	if cond != "" {
		selector = selector.Where(append([]interface{}{cond}, args...)...)
	}
	selector = selector.OrderBy("timestamp DESC", "id DESC")
	if limit > 0 {
		selector = selector.Limit(limit)
	}

	var rows []*activityRow
	if err := selector.IteratorContext(ctx).All(&rows); err != nil {
		return nil, db2.WrapStorage(err)
	}
	activities := make([]*model.Activity, len(rows))
	for i, row := range rows {
		activity, err := buildActivity(row)
		if err != nil {
			return nil, err
		}
		activities[i] = activity
	}
	return activities, nil
}

// insertActivity appends a log entry within whatever session it is handed, so
// callers can log inside their own transactions.
func insertActivity(ctx context.Context, sess db.Session, req *db2.CreateActivity) (*model.Activity, error) {
	dataJSON, err := toJSON(req.Data)
	if err != nil {
		return nil, db2.WrapStorage(err)
	}
	row := &activityRow{
		Id:        uuid.NewString(),
		UserId:    req.UserId,
		Type:      string(req.Type),
		DataJSON:  dataJSON,
		Timestamp: time.Now().UTC(),
	}
	// The project id is mirrored into its own column so deleting a project can
	// sweep its activities without parsing payloads.
	if req.Data.ProjectId != "" {
		projectId := req.Data.ProjectId
		row.ProjectId = &projectId
	}
	if _, err := sess.WithContext(ctx).Collection("activities").Insert(row); err != nil {
		return nil, db2.WrapStorage(err)
	}
	return buildActivity(row)
}

func buildActivity(row *activityRow) (*model.Activity, error) {
	var data model.ActivityData
	if err := fromJSON(row.DataJSON, &data); err != nil {
		return nil, db2.WrapStorage(err)
	}
	return &model.Activity{
		Id:        row.Id,
		Type:      model.ActivityType(row.Type),
		UserId:    row.UserId,
		Timestamp: row.Timestamp,
		Data:      data,
	}, nil
}
