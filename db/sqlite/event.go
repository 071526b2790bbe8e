package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/model"
	"github.com/upper/db/v4"
)

type EventDB struct {
	sess db.Session
}

func getEventDB(sess db.Session) *EventDB {
	return &EventDB{sess}
}

type eventRow struct {
	Id          string     `db:"id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Type        string     `db:"type"`
	Date        time.Time  `db:"date"`
	EndDate     *time.Time `db:"end_date"`
	Location    string     `db:"location"`
	OrganizerId string     `db:"organizer_id"`
	Category    string     `db:"category"`
	Price       string     `db:"price"`
	TagsJSON    string     `db:"tags"`
	Featured    bool       `db:"featured"`
	CreatedAt   time.Time  `db:"created_at"`
}

type flattenedEvent struct {
	eventRow          `db:",inline"`
	OrganizerName     string `db:"organizer_name"`
	OrganizerUsername string `db:"organizer_username"`
	OrganizerAvatar   string `db:"organizer_avatar"`
	Attendees         int    `db:"attendees"`
}

func (edb *EventDB) CreateEvent(ctx context.Context, req *db2.CreateEvent) (*model.Event, error) {
	if err := checkReq(req); err != nil {
		return nil, err
	}
	row := &eventRow{
		Id:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Date:        req.Date,
		EndDate:     req.EndDate,
		Location:    req.Location,
		OrganizerId: req.OrganizerId,
		Category:    req.Category,
		Price:       req.Price,
		TagsJSON:    stringsToJSON(req.Tags),
		Featured:    req.Featured,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := edb.sess.WithContext(ctx).Collection("events").Insert(row); err != nil {
		return nil, db2.WrapStorage(err)
	}
	return edb.getEventById(ctx, row.Id)
}

func (edb *EventDB) GetAllEvents(ctx context.Context) ([]*model.Event, error) {
	return edb.getEventsWhere(ctx, "")
}

func (edb *EventDB) RegisterForEvent(ctx context.Context, eventId, userId string) error {
	if eventId == "" || userId == "" {
		return &db2.ValidationError{Message: "event id and user id are required"}
	}
	exists, err := edb.sess.WithContext(ctx).Collection("events").Find("id = ?", eventId).Exists()
	if err != nil {
		return db2.WrapStorage(err)
	}
	if !exists {
		return &db2.NotFoundError{Collection: "events", Id: eventId}
	}
	_, err = edb.sess.SQL().
		InsertInto("event_registration").
		Columns("event_id", "user_id", "created_at").
		Values(eventId, userId, time.Now().UTC()).
		ExecContext(ctx)
	// Registering twice is a no-op.
	if err != nil && !db2.IsDupKeyErr(err) {
		return db2.WrapStorage(err)
	}
	return nil
}

func (edb *EventDB) UnregisterFromEvent(ctx context.Context, eventId, userId string) error {
	if eventId == "" || userId == "" {
		return &db2.ValidationError{Message: "event id and user id are required"}
	}
	if _, err := edb.sess.SQL().
		DeleteFrom("event_registration").
		Where("event_id = ? AND user_id = ?", eventId, userId).
		ExecContext(ctx); err != nil {
		return db2.WrapStorage(err)
	}
	return nil
}

func (edb *EventDB) GetEventRegistrations(ctx context.Context, userId string) ([]string, error) {
	if userId == "" {
		return nil, &db2.ValidationError{Message: "user id is required"}
	}
	var rows []*struct {
		EventId string `db:"event_id"`
	}
	if err := edb.sess.SQL().
		Select("event_id").
		From("event_registration").
		Where("user_id = ?", userId).
		OrderBy("created_at").
		IteratorContext(ctx).
		All(&rows); err != nil {
		return nil, db2.WrapStorage(err)
	}
	eventIds := make([]string, len(rows))
	for i, row := range rows {
		eventIds[i] = row.EventId
	}
	return eventIds, nil
}

func (edb *EventDB) getEventById(ctx context.Context, id string) (*model.Event, error) {
	events, err := edb.getEventsWhere(ctx, "e.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, &db2.NotFoundError{Collection: "events", Id: id}
	}
	return events[0], nil
}

func (edb *EventDB) getEventsWhere(ctx context.Context, cond string, args ...interface{}) ([]*model.Event, error) {
	selector := edb.sess.SQL().
		Select(
			"e.*",
			"u.name AS organizer_name",
			"u.username AS organizer_username",
			"u.avatar AS organizer_avatar",
			db.Raw("(SELECT COUNT(*) FROM event_registration er WHERE er.event_id = e.id) AS attendees"),
		).
		From("events AS e").
		Join("users AS u").On("e.organizer_id = u.id")
	if cond != "" {
		selector = selector.Where(append([]interface{}{cond}, args...)...)
	}

	var flattened []*flattenedEvent
	if err := selector.
		OrderBy("e.date", "e.id").
		IteratorContext(ctx).
		All(&flattened); err != nil {
		return nil, db2.WrapStorage(err)
	}

	events := make([]*model.Event, len(flattened))
	for i, row := range flattened {
		tags, err := stringsFromJSON(row.TagsJSON)
		if err != nil {
			return nil, db2.WrapStorage(err)
		}
		events[i] = &model.Event{
			Id:          row.Id,
			Title:       row.Title,
			Description: row.Description,
			Type:        row.Type,
			Date:        row.Date,
			EndDate:     row.EndDate,
			Location:    row.Location,
			Organizer: &model.Author{
				Id:       row.OrganizerId,
				Name:     row.OrganizerName,
				Username: row.OrganizerUsername,
				Avatar:   row.OrganizerAvatar,
			},
			Attendees: row.Attendees,
			Category:  row.Category,
			Price:     row.Price,
			Tags:      tags,
			Featured:  row.Featured,
			CreatedAt: row.CreatedAt,
		}
	}
	return events, nil
}
