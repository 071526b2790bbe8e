package controllers

import (
	"context"
	"log"
	"sync"

	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/model"
	"github.com/project-launch/project-launch-be/services"
)

// ProjectStore is the slice of the database the project controller needs.
type ProjectStore interface {
	db2.ProjectDatabase
	db2.ActivityDatabase
}

// ProjectController keeps an in-memory mirror of the projects collection and
// writes through to the store on every action. The store stays the source of
// truth; the mirror only ever holds records the store returned.
type ProjectController struct {
	db       ProjectStore
	notifier services.Notifier

	mirror     []*model.Project
	mirrorLock sync.Mutex
}

func NewProjectController(c context.Context, db ProjectStore, notifier services.Notifier) (*ProjectController, error) {
	projects, err := db.GetAllProjects(c)
	if err != nil {
		return nil, err
	}
	return &ProjectController{
		db:       db,
		notifier: notifier,
		mirror:   projects,
	}, nil
}

// Projects returns a snapshot of the mirror.
func (pc *ProjectController) Projects() []*model.Project {
	pc.mirrorLock.Lock()
	defer pc.mirrorLock.Unlock()
	snapshot := make([]*model.Project, len(pc.mirror))
	copy(snapshot, pc.mirror)
	return snapshot
}

func (pc *ProjectController) GetProject(id string) *model.Project {
	pc.mirrorLock.Lock()
	defer pc.mirrorLock.Unlock()
	for _, project := range pc.mirror {
		if project.Id == id {
			return project
		}
	}
	return nil
}

func (pc *ProjectController) GetComments(projectId string) []*model.Comment {
	if project := pc.GetProject(projectId); project != nil {
		return project.Comments
	}
	return nil
}

func (pc *ProjectController) AddProject(c context.Context, req *db2.CreateProject) (*model.Project, error) {
	project, err := pc.db.CreateProject(c, req)
	if err != nil {
		pc.notifyFailure("Submission failed", err)
		return nil, err
	}
	pc.logActivity(c, &db2.CreateActivity{
		Type:   model.ActivityProjectLaunch,
		UserId: project.Author.Id,
		Data: model.ActivityData{
			ProjectId:    project.Id,
			ProjectTitle: project.Title,
		},
	})

	pc.mirrorLock.Lock()
	pc.mirror = append([]*model.Project{project}, pc.mirror...)
	pc.mirrorLock.Unlock()

	pc.notifier.Notify(services.Notification{
		Title:       "Project launched!",
		Description: project.Title + " is now live",
	})
	return project, nil
}

func (pc *ProjectController) UpdateProject(c context.Context, id string, patch *db2.ProjectPatch) (*model.Project, error) {
	project, err := pc.db.UpdateProject(c, id, patch)
	if err != nil {
		pc.notifyFailure("Update failed", err)
		return nil, err
	}
	pc.replaceInMirror(project)
	pc.notifier.Notify(services.Notification{
		Title:       "Project updated",
		Description: project.Title,
	})
	return project, nil
}

func (pc *ProjectController) DeleteProject(c context.Context, id, callerId string) error {
	if err := pc.db.DeleteProject(c, id, callerId); err != nil {
		pc.notifyFailure("Delete failed", err)
		return err
	}
	pc.mirrorLock.Lock()
	for i, project := range pc.mirror {
		if project.Id == id {
			pc.mirror = append(pc.mirror[:i], pc.mirror[i+1:]...)
			break
		}
	}
	pc.mirrorLock.Unlock()

	pc.notifier.Notify(services.Notification{Title: "Project deleted"})
	return nil
}

// ToggleStar flips the caller's upvote. Only the flip onto the voters set
// counts toward badge progress; un-starring logs nothing.
func (pc *ProjectController) ToggleStar(c context.Context, projectId, userId string) (*model.Project, error) {
	project, err := pc.db.ToggleProjectUpvote(c, projectId, userId)
	if err != nil {
		pc.notifyFailure("Something went wrong", err)
		return nil, err
	}
	if project.HasVoter(userId) {
		pc.logActivity(c, &db2.CreateActivity{
			Type:   model.ActivityProjectUpvote,
			UserId: userId,
			Data: model.ActivityData{
				ProjectId:    project.Id,
				ProjectTitle: project.Title,
			},
		})
	}
	pc.replaceInMirror(project)
	return project, nil
}

func (pc *ProjectController) ToggleSubscribe(c context.Context, projectId, userId string) (*model.Project, error) {
	project, err := pc.db.ToggleProjectSubscription(c, projectId, userId)
	if err != nil {
		pc.notifyFailure("Something went wrong", err)
		return nil, err
	}
	pc.replaceInMirror(project)
	if project.HasSubscriber(userId) {
		pc.notifier.Notify(services.Notification{
			Title:       "Subscribed",
			Description: "You will be notified about " + project.Title,
		})
	}
	return project, nil
}

func (pc *ProjectController) AddComment(c context.Context, projectId string, req *db2.CreateComment) (*model.Project, error) {
	project, err := pc.db.AddComment(c, projectId, req)
	if err != nil {
		pc.notifyFailure("Comment failed", err)
		return nil, err
	}
	pc.logActivity(c, &db2.CreateActivity{
		Type:   model.ActivityComment,
		UserId: req.AuthorId,
		Data: model.ActivityData{
			ProjectId:    project.Id,
			ProjectTitle: project.Title,
		},
	})
	pc.replaceInMirror(project)
	return project, nil
}

func (pc *ProjectController) replaceInMirror(project *model.Project) {
	pc.mirrorLock.Lock()
	defer pc.mirrorLock.Unlock()
	for i, existing := range pc.mirror {
		if existing.Id == project.Id {
			pc.mirror[i] = project
			return
		}
	}
	pc.mirror = append([]*model.Project{project}, pc.mirror...)
}

// logActivity is best effort; a failed log entry never fails the action that
// already persisted.
func (pc *ProjectController) logActivity(c context.Context, req *db2.CreateActivity) {
	if _, err := pc.db.LogActivity(c, req); err != nil {
		log.Println("an error occurred while logging activity", err)
	}
}

func (pc *ProjectController) notifyFailure(title string, err error) {
	pc.notifier.Notify(services.Notification{
		Title:       title,
		Description: err.Error(),
		Variant:     services.VariantDestructive,
	})
}
