package controllers

import (
	"context"
	"log"
	"sync"

	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/model"
	"github.com/project-launch/project-launch-be/services"
)

type DiscussionStore interface {
	db2.DiscussionDatabase
	db2.ActivityDatabase
}

type DiscussionController struct {
	db       DiscussionStore
	notifier services.Notifier

	mirror     []*model.Discussion
	mirrorLock sync.Mutex
}

func NewDiscussionController(c context.Context, db DiscussionStore, notifier services.Notifier) (*DiscussionController, error) {
	discussions, err := db.GetAllDiscussions(c)
	if err != nil {
		return nil, err
	}
	return &DiscussionController{
		db:       db,
		notifier: notifier,
		mirror:   discussions,
	}, nil
}

func (dc *DiscussionController) Discussions() []*model.Discussion {
	dc.mirrorLock.Lock()
	defer dc.mirrorLock.Unlock()
	snapshot := make([]*model.Discussion, len(dc.mirror))
	copy(snapshot, dc.mirror)
	return snapshot
}

func (dc *DiscussionController) GetDiscussion(id string) *model.Discussion {
	dc.mirrorLock.Lock()
	defer dc.mirrorLock.Unlock()
	for _, discussion := range dc.mirror {
		if discussion.Id == id {
			return discussion
		}
	}
	return nil
}

func (dc *DiscussionController) AddDiscussion(c context.Context, req *db2.CreateDiscussion) (*model.Discussion, error) {
	discussion, err := dc.db.CreateDiscussion(c, req)
	if err != nil {
		dc.notifyFailure("Could not post discussion", err)
		return nil, err
	}
	dc.logActivity(c, &db2.CreateActivity{
		Type:   model.ActivityDiscussion,
		UserId: discussion.Author.Id,
		Data: model.ActivityData{
			DiscussionId:    discussion.Id,
			DiscussionTitle: discussion.Title,
		},
	})

	dc.mirrorLock.Lock()
	dc.mirror = append([]*model.Discussion{discussion}, dc.mirror...)
	dc.mirrorLock.Unlock()

	dc.notifier.Notify(services.Notification{
		Title:       "Discussion posted",
		Description: discussion.Title,
	})
	return discussion, nil
}

func (dc *DiscussionController) UpdateDiscussion(c context.Context, id string, patch *db2.DiscussionPatch) (*model.Discussion, error) {
	discussion, err := dc.db.UpdateDiscussion(c, id, patch)
	if err != nil {
		dc.notifyFailure("Update failed", err)
		return nil, err
	}
	dc.replaceInMirror(discussion)
	return discussion, nil
}

func (dc *DiscussionController) DeleteDiscussion(c context.Context, id, callerId string) error {
	if err := dc.db.DeleteDiscussion(c, id, callerId); err != nil {
		dc.notifyFailure("Delete failed", err)
		return err
	}
	dc.mirrorLock.Lock()
	for i, discussion := range dc.mirror {
		if discussion.Id == id {
			dc.mirror = append(dc.mirror[:i], dc.mirror[i+1:]...)
			break
		}
	}
	dc.mirrorLock.Unlock()

	dc.notifier.Notify(services.Notification{Title: "Discussion deleted"})
	return nil
}

func (dc *DiscussionController) AddReply(c context.Context, discussionId string, req *db2.CreateReply) (*model.Reply, error) {
	reply, err := dc.db.AddReply(c, discussionId, req)
	if err != nil {
		dc.notifyFailure("Reply failed", err)
		return nil, err
	}
	dc.refreshDiscussion(c, discussionId)
	return reply, nil
}

func (dc *DiscussionController) ToggleUpvote(c context.Context, discussionId, userId string) (*model.Discussion, error) {
	discussion, err := dc.db.ToggleDiscussionUpvote(c, discussionId, userId)
	if err != nil {
		dc.notifyFailure("Something went wrong", err)
		return nil, err
	}
	dc.replaceInMirror(discussion)
	return discussion, nil
}

func (dc *DiscussionController) ToggleReplyUpvote(c context.Context, discussionId, replyId, userId string) (*model.Discussion, error) {
	discussion, err := dc.db.ToggleReplyUpvote(c, discussionId, replyId, userId)
	if err != nil {
		dc.notifyFailure("Something went wrong", err)
		return nil, err
	}
	dc.replaceInMirror(discussion)
	return discussion, nil
}

func (dc *DiscussionController) IncrementViews(c context.Context, discussionId string) (*model.Discussion, error) {
	discussion, err := dc.db.IncrementViews(c, discussionId)
	if err != nil {
		// View counting is invisible to the user; no notification.
		return nil, err
	}
	dc.replaceInMirror(discussion)
	return discussion, nil
}

func (dc *DiscussionController) VotePoll(c context.Context, discussionId, optionId, userId string) (*model.Discussion, error) {
	discussion, err := dc.db.VotePoll(c, discussionId, optionId, userId)
	if err != nil {
		dc.notifyFailure("Vote failed", err)
		return nil, err
	}
	dc.replaceInMirror(discussion)
	return discussion, nil
}

func (dc *DiscussionController) Moderate(c context.Context, id string, status model.DiscussionStatus) (*model.Discussion, error) {
	discussion, err := dc.db.ModerateDiscussion(c, id, status)
	if err != nil {
		dc.notifyFailure("Moderation failed", err)
		return nil, err
	}
	dc.replaceInMirror(discussion)
	dc.notifier.Notify(services.Notification{
		Title:       "Discussion " + string(status),
		Description: discussion.Title,
	})
	return discussion, nil
}

func (dc *DiscussionController) replaceInMirror(discussion *model.Discussion) {
	dc.mirrorLock.Lock()
	defer dc.mirrorLock.Unlock()
	for i, existing := range dc.mirror {
		if existing.Id == discussion.Id {
			dc.mirror[i] = discussion
			return
		}
	}
	dc.mirror = append([]*model.Discussion{discussion}, dc.mirror...)
}

func (dc *DiscussionController) refreshDiscussion(c context.Context, id string) {
	discussion, err := dc.db.GetDiscussionById(c, id)
	if err != nil {
		log.Println("an error occurred while refreshing discussion", id, err)
		return
	}
	dc.replaceInMirror(discussion)
}

func (dc *DiscussionController) logActivity(c context.Context, req *db2.CreateActivity) {
	if _, err := dc.db.LogActivity(c, req); err != nil {
		log.Println("an error occurred while logging activity", err)
	}
}

func (dc *DiscussionController) notifyFailure(title string, err error) {
	dc.notifier.Notify(services.Notification{
		Title:       title,
		Description: err.Error(),
		Variant:     services.VariantDestructive,
	})
}
