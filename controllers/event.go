package controllers

import (
	"context"
	"sync"

	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/model"
	"github.com/project-launch/project-launch-be/services"
)

// EventController is session-aware: registration actions act on behalf of the
// signed-in user and refuse to run signed out.
type EventController struct {
	db       db2.EventDatabase
	sessions *services.SessionStore
	notifier services.Notifier

	mirror     []*model.Event
	mirrorLock sync.Mutex
}

func NewEventController(c context.Context, db db2.EventDatabase, sessions *services.SessionStore, notifier services.Notifier) (*EventController, error) {
	events, err := db.GetAllEvents(c)
	if err != nil {
		return nil, err
	}
	return &EventController{
		db:       db,
		sessions: sessions,
		notifier: notifier,
		mirror:   events,
	}, nil
}

func (ec *EventController) Events() []*model.Event {
	ec.mirrorLock.Lock()
	defer ec.mirrorLock.Unlock()
	snapshot := make([]*model.Event, len(ec.mirror))
	copy(snapshot, ec.mirror)
	return snapshot
}

func (ec *EventController) AddEvent(c context.Context, req *db2.CreateEvent) (*model.Event, error) {
	event, err := ec.db.CreateEvent(c, req)
	if err != nil {
		ec.notifyFailure("Could not create event", err)
		return nil, err
	}
	ec.refreshMirror(c)
	ec.notifier.Notify(services.Notification{
		Title:       "Event created",
		Description: event.Title,
	})
	return event, nil
}

func (ec *EventController) Register(c context.Context, eventId string) error {
	user, err := ec.requireUser()
	if err != nil {
		return err
	}
	if err := ec.db.RegisterForEvent(c, eventId, user.Id); err != nil {
		ec.notifyFailure("Registration failed", err)
		return err
	}
	ec.refreshMirror(c)
	ec.notifier.Notify(services.Notification{Title: "You're registered!"})
	return nil
}

func (ec *EventController) Unregister(c context.Context, eventId string) error {
	user, err := ec.requireUser()
	if err != nil {
		return err
	}
	if err := ec.db.UnregisterFromEvent(c, eventId, user.Id); err != nil {
		ec.notifyFailure("Something went wrong", err)
		return err
	}
	ec.refreshMirror(c)
	ec.notifier.Notify(services.Notification{Title: "Registration cancelled"})
	return nil
}

func (ec *EventController) IsRegistered(c context.Context, eventId string) (bool, error) {
	user, err := ec.sessions.Get()
	if err != nil || user == nil {
		return false, err
	}
	eventIds, err := ec.db.GetEventRegistrations(c, user.Id)
	if err != nil {
		return false, err
	}
	for _, id := range eventIds {
		if id == eventId {
			return true, nil
		}
	}
	return false, nil
}

func (ec *EventController) requireUser() (*model.User, error) {
	user, err := ec.sessions.Get()
	if err != nil {
		return nil, err
	}
	if user == nil {
		ec.notifier.Notify(services.Notification{
			Title:       "Authentication required",
			Description: "Sign in to register for events",
			Variant:     services.VariantDestructive,
		})
		return nil, &db2.UnauthorizedError{Message: "no signed-in user"}
	}
	return user, nil
}

// refreshMirror reloads the full list so derived attendee counts stay right.
func (ec *EventController) refreshMirror(c context.Context) {
	events, err := ec.db.GetAllEvents(c)
	if err != nil {
		return
	}
	ec.mirrorLock.Lock()
	ec.mirror = events
	ec.mirrorLock.Unlock()
}

func (ec *EventController) notifyFailure(title string, err error) {
	ec.notifier.Notify(services.Notification{
		Title:       title,
		Description: err.Error(),
		Variant:     services.VariantDestructive,
	})
}
