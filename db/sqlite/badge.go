package sqlite

import (
	"context"
	"time"

	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/model"
	"github.com/upper/db/v4"
)

type BadgeDB struct {
	sess db.Session
}

func getBadgeDB(sess db.Session) *BadgeDB {
	return &BadgeDB{sess}
}

type userBadgeRow struct {
	UserId     string    `db:"user_id"`
	BadgeId    string    `db:"badge_id"`
	UnlockedAt time.Time `db:"unlocked_at"`
}

type memberNumberRow struct {
	UserId string `db:"user_id"`
	Number int    `db:"number"`
}

func (bdb *BadgeDB) AwardBadge(ctx context.Context, userId, badgeId string) (bool, error) {
	if userId == "" || badgeId == "" {
		return false, &db2.ValidationError{Message: "user id and badge id are required"}
	}
	_, err := bdb.sess.WithContext(ctx).Collection("user_badge").Insert(&userBadgeRow{
		UserId:     userId,
		BadgeId:    badgeId,
		UnlockedAt: time.Now().UTC(),
	})
	if err != nil {
		// An existing award stays untouched, including its unlock time.
		if db2.IsDupKeyErr(err) {
			return false, nil
		}
		return false, db2.WrapStorage(err)
	}
	return true, nil
}

func (bdb *BadgeDB) GetUserBadges(ctx context.Context, userId string) ([]*model.AwardedBadge, error) {
	if userId == "" {
		return nil, &db2.ValidationError{Message: "user id is required"}
	}
	var badges []*model.AwardedBadge
	if err := bdb.sess.SQL().
		Select("badge_id", "unlocked_at").
		From("user_badge").
		Where("user_id = ?", userId).
		OrderBy("unlocked_at", "badge_id").
		IteratorContext(ctx).
		All(&badges); err != nil {
		return nil, db2.WrapStorage(err)
	}
	if badges == nil {
		badges = []*model.AwardedBadge{}
	}
	return badges, nil
}

func (bdb *BadgeDB) AssignMemberNumber(ctx context.Context, userId string) (int, error) {
	if userId == "" {
		return 0, &db2.ValidationError{Message: "user id is required"}
	}
	var number int
	err := bdb.sess.TxContext(ctx, func(sess db.Session) error {
		var existing memberNumberRow
		err := sess.SQL().
			Select("*").
			From("member_number").
			Where("user_id = ?", userId).
			IteratorContext(ctx).
			One(&existing)
		if err == nil {
			number = existing.Number
			return nil
		}
		if err != db.ErrNoMoreRows {
			return err
		}

		total, err := sess.WithContext(ctx).Collection("member_number").Find().Count()
		if err != nil {
			return err
		}
		number = int(total) + 1
		_, err = sess.WithContext(ctx).Collection("member_number").Insert(&memberNumberRow{
			UserId: userId,
			Number: number,
		})
		return err
	}, nil)
	if err != nil {
		return 0, db2.WrapStorage(err)
	}
	return number, nil
}

func (bdb *BadgeDB) CountCommentUpvotesReceived(ctx context.Context, userId string) (int, error) {
	if userId == "" {
		return 0, &db2.ValidationError{Message: "user id is required"}
	}
	var row struct {
		Total int `db:"total"`
	}
	if err := bdb.sess.SQL().
		Select(db.Raw("COUNT(*) AS total")).
		From("reply_vote AS rv").
		Join("reply AS r").On("rv.reply_id = r.id").
		Where("r.author_id = ?", userId).
		IteratorContext(ctx).
		One(&row); err != nil {
		return 0, db2.WrapStorage(err)
	}
	return row.Total, nil
}

func (bdb *BadgeDB) GetMemberNumber(ctx context.Context, userId string) (int, error) {
	if userId == "" {
		return 0, &db2.ValidationError{Message: "user id is required"}
	}
	var row memberNumberRow
	err := bdb.sess.SQL().
		Select("*").
		From("member_number").
		Where("user_id = ?", userId).
		IteratorContext(ctx).
		One(&row)
	if err == db.ErrNoMoreRows {
		return 0, nil
	}
	if err != nil {
		return 0, db2.WrapStorage(err)
	}
	return row.Number, nil
}
