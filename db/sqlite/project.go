package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/model"
	"github.com/project-launch/project-launch-be/util"
	"github.com/upper/db/v4"
)

type ProjectDB struct {
	sess db.Session
}

func getProjectDB(sess db.Session) *ProjectDB {
	return &ProjectDB{sess}
}

type projectRow struct {
	Id            string     `db:"id"`
	Title         string     `db:"title"`
	Tagline       string     `db:"tagline"`
	Description   string     `db:"description"`
	ProjectURL    string     `db:"project_url"`
	VideoURL      string     `db:"video_url"`
	Thumbnail     string     `db:"thumbnail"`
	Category      string     `db:"category"`
	Pricing       string     `db:"pricing"`
	Status        string     `db:"status"`
	ImagesJSON    string     `db:"images"`
	TechStackJSON string     `db:"tech_stack"`
	TagsJSON      string     `db:"tags"`
	SocialJSON    string     `db:"social"`
	HiringJSON    string     `db:"hiring"`
	AuthorId      string     `db:"author_id"`
	LaunchDate    *time.Time `db:"launch_date"`
	Rank          int        `db:"rank"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

type flattenedProject struct {
	projectRow     `db:",inline"`
	AuthorName     string `db:"author_name"`
	AuthorUsername string `db:"author_username"`
	AuthorAvatar   string `db:"author_avatar"`
	Upvotes        int    `db:"upvotes"`
}

type memberRow struct {
	ProjectId string `db:"project_id"`
	UserId    string `db:"user_id"`
}

type flattenedProjectComment struct {
	Id             string    `db:"id"`
	ProjectId      string    `db:"project_id"`
	AuthorId       string    `db:"author_id"`
	Content        string    `db:"content"`
	CreatedAt      time.Time `db:"created_at"`
	AuthorName     string    `db:"author_name"`
	AuthorUsername string    `db:"author_username"`
	AuthorAvatar   string    `db:"author_avatar"`
}

var projectColumns = []interface{}{
	"p.*",
	"u.name AS author_name",
	"u.username AS author_username",
	"u.avatar AS author_avatar",
	db.Raw("(SELECT COUNT(*) FROM project_vote pv WHERE pv.project_id = p.id) AS upvotes"),
}

func (pdb *ProjectDB) CreateProject(ctx context.Context, req *db2.CreateProject) (*model.Project, error) {
	if err := checkReq(req); err != nil {
		return nil, err
	}

	pricing := req.Pricing
	if pricing == "" {
		pricing = model.PricingFree
	}
	status := req.Status
	if status == "" {
		status = model.ProjectPublished
	}
	launchDate := req.LaunchDate
	if launchDate == nil {
		now := time.Now().UTC()
		launchDate = &now
	}
	socialJSON, err := toJSON(req.Social)
	if err != nil {
		return nil, db2.WrapStorage(err)
	}
	hiringJSON, err := toJSON(req.Hiring)
	if err != nil {
		return nil, db2.WrapStorage(err)
	}

	now := time.Now().UTC()
	row := &projectRow{
		Id:            uuid.NewString(),
		Title:         req.Title,
		Tagline:       util.XSSSanitize(req.Tagline),
		Description:   util.XSSSanitize(req.Description),
		ProjectURL:    req.ProjectURL,
		VideoURL:      req.VideoURL,
		Thumbnail:     req.Thumbnail,
		Category:      req.Category,
		Pricing:       string(pricing),
		Status:        string(status),
		ImagesJSON:    stringsToJSON(req.Images),
		TechStackJSON: stringsToJSON(req.TechStack),
		TagsJSON:      stringsToJSON(req.Tags),
		SocialJSON:    socialJSON,
		HiringJSON:    hiringJSON,
		AuthorId:      req.AuthorId,
		LaunchDate:    launchDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Rank is assigned in submission order at creation and never recomputed.
	if err := pdb.sess.TxContext(ctx, func(sess db.Session) error {
		total, err := sess.WithContext(ctx).Collection("projects").Find().Count()
		if err != nil {
			return err
		}
		row.Rank = int(total) + 1
		_, err = sess.WithContext(ctx).Collection("projects").Insert(row)
		return err
	}, nil); err != nil {
		return nil, db2.WrapStorage(err)
	}

	return pdb.GetProjectById(ctx, row.Id)
}

func (pdb *ProjectDB) UpdateProject(ctx context.Context, id string, patch *db2.ProjectPatch) (*model.Project, error) {
	if patch == nil {
		return nil, &db2.ValidationError{Message: "patch data is required"}
	}
	row, err := getProjectRow(ctx, pdb.sess, id)
	if err != nil {
		return nil, err
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&row.Title, patch.Title)
	setString(&row.ProjectURL, patch.ProjectURL)
	setString(&row.VideoURL, patch.VideoURL)
	setString(&row.Thumbnail, patch.Thumbnail)
	setString(&row.Category, patch.Category)
	if patch.Tagline != nil {
		row.Tagline = util.XSSSanitize(*patch.Tagline)
	}
	if patch.Description != nil {
		row.Description = util.XSSSanitize(*patch.Description)
	}
	if patch.Pricing != nil {
		row.Pricing = string(*patch.Pricing)
	}
	if patch.Status != nil {
		row.Status = string(*patch.Status)
	}
	if patch.Images != nil {
		row.ImagesJSON = stringsToJSON(patch.Images)
	}
	if patch.TechStack != nil {
		row.TechStackJSON = stringsToJSON(patch.TechStack)
	}
	if patch.Tags != nil {
		row.TagsJSON = stringsToJSON(patch.Tags)
	}
	if patch.Social != nil {
		socialJSON, err := toJSON(patch.Social)
		if err != nil {
			return nil, db2.WrapStorage(err)
		}
		row.SocialJSON = socialJSON
	}
	if patch.Hiring != nil {
		hiringJSON, err := toJSON(patch.Hiring)
		if err != nil {
			return nil, db2.WrapStorage(err)
		}
		row.HiringJSON = hiringJSON
	}
	if patch.LaunchDate != nil {
		row.LaunchDate = patch.LaunchDate
	}
	row.UpdatedAt = time.Now().UTC()

	if err := pdb.sess.WithContext(ctx).Collection("projects").Find("id = ?", id).Update(row); err != nil {
		return nil, db2.WrapStorage(err)
	}
	return pdb.GetProjectById(ctx, id)
}

func (pdb *ProjectDB) DeleteProject(ctx context.Context, id, callerId string) error {
	if id == "" || callerId == "" {
		return &db2.ValidationError{Message: "project id and author id are required"}
	}
	// The project and its logged activities go in the same transaction; a
	// partial failure must not leave either side orphaned.
	err := pdb.sess.TxContext(ctx, func(sess db.Session) error {
		row, err := getProjectRow(ctx, sess, id)
		if err != nil {
			return err
		}
		if row.AuthorId != callerId {
			return &db2.UnauthorizedError{Message: "only the author can delete this project"}
		}
		if _, err := sess.SQL().
			DeleteFrom("activities").
			Where("project_id = ?", id).
			ExecContext(ctx); err != nil {
			return err
		}
		_, err = sess.SQL().
			DeleteFrom("projects").
			Where("id = ?", id).
			ExecContext(ctx)
		return err
	}, nil)
	return wrapUnlessTyped(err)
}

func (pdb *ProjectDB) GetProjectById(ctx context.Context, id string) (*model.Project, error) {
	if id == "" {
		return nil, &db2.ValidationError{Message: "project id is required"}
	}
	projects, err := pdb.getProjectsWhere(ctx, "p.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, &db2.NotFoundError{Collection: "projects", Id: id}
	}
	return projects[0], nil
}

func (pdb *ProjectDB) GetProjectsByAuthor(ctx context.Context, authorId string) ([]*model.Project, error) {
	if authorId == "" {
		return nil, &db2.ValidationError{Message: "author id is required"}
	}
	return pdb.getProjectsWhere(ctx, "p.author_id = ?", authorId)
}

func (pdb *ProjectDB) GetAllProjects(ctx context.Context) ([]*model.Project, error) {
	return pdb.getProjectsWhere(ctx, "")
}

func (pdb *ProjectDB) ToggleProjectUpvote(ctx context.Context, projectId, userId string) (*model.Project, error) {
	if projectId == "" || userId == "" {
		return nil, &db2.ValidationError{Message: "project id and user id are required"}
	}
	err := pdb.sess.TxContext(ctx, func(sess db.Session) error {
		return toggleMembership(ctx, sess, "project_vote", "project_id", projectId, userId)
	}, nil)
	if err != nil {
		return nil, wrapUnlessTyped(err)
	}
	return pdb.GetProjectById(ctx, projectId)
}

func (pdb *ProjectDB) ToggleProjectSubscription(ctx context.Context, projectId, userId string) (*model.Project, error) {
	if projectId == "" || userId == "" {
		return nil, &db2.ValidationError{Message: "project id and user id are required"}
	}
	err := pdb.sess.TxContext(ctx, func(sess db.Session) error {
		return toggleMembership(ctx, sess, "project_subscriber", "project_id", projectId, userId)
	}, nil)
	if err != nil {
		return nil, wrapUnlessTyped(err)
	}
	return pdb.GetProjectById(ctx, projectId)
}

func (pdb *ProjectDB) AddComment(ctx context.Context, projectId string, req *db2.CreateComment) (*model.Project, error) {
	if projectId == "" {
		return nil, &db2.ValidationError{Message: "project id is required"}
	}
	if err := checkReq(req); err != nil {
		return nil, err
	}

	commentId := req.Id
	if commentId == "" {
		commentId = uuid.NewString()
	}
	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	err := pdb.sess.TxContext(ctx, func(sess db.Session) error {
		if err := projectExists(ctx, sess, projectId); err != nil {
			return err
		}
		if _, err := sess.SQL().
			InsertInto("comment").
			Columns("id", "project_id", "author_id", "content", "created_at").
			Values(commentId, projectId, req.AuthorId, util.XSSSanitize(req.Content), createdAt).
			ExecContext(ctx); err != nil {
			return err
		}
		_, err := sess.SQL().
			Update("projects").
			Set("updated_at = ?", time.Now().UTC()).
			Where("id = ?", projectId).
			ExecContext(ctx)
		return err
	}, nil)
	if err != nil {
		return nil, wrapUnlessTyped(err)
	}
	return pdb.GetProjectById(ctx, projectId)
}

func (pdb *ProjectDB) getProjectsWhere(ctx context.Context, cond string, args ...interface{}) ([]*model.Project, error) {
	selector := pdb.sess.SQL().
		Select(projectColumns...).
		From("projects AS p").
		Join("users AS u").On("p.author_id = u.id")
	if cond != "" {
		selector = selector.Where(append([]interface{}{cond}, args...)...)
	}

	var flattened []*flattenedProject
	if err := selector.
		OrderBy("p.created_at DESC", "p.id DESC").
		IteratorContext(ctx).
		All(&flattened); err != nil {
		return nil, db2.WrapStorage(err)
	}
	if len(flattened) == 0 {
		return []*model.Project{}, nil
	}

	ids := make([]string, len(flattened))
	for i, row := range flattened {
		ids[i] = row.Id
	}

	voters, err := pdb.loadMembers(ctx, "project_vote", ids)
	if err != nil {
		return nil, err
	}
	subscribers, err := pdb.loadMembers(ctx, "project_subscriber", ids)
	if err != nil {
		return nil, err
	}
	comments, err := pdb.loadComments(ctx, ids)
	if err != nil {
		return nil, err
	}

	projects := make([]*model.Project, len(flattened))
	for i, row := range flattened {
		project, err := buildProject(row)
		if err != nil {
			return nil, err
		}
		project.Voters = orEmpty(voters[row.Id])
		project.Subscribers = orEmpty(subscribers[row.Id])
		project.Comments = comments[row.Id]
		if project.Comments == nil {
			project.Comments = []*model.Comment{}
		}
		projects[i] = project
	}
	return projects, nil
}

func (pdb *ProjectDB) loadMembers(ctx context.Context, table string, projectIds []string) (map[string][]string, error) {
	var rows []*memberRow
	if err := pdb.sess.SQL().
		Select("project_id", "user_id").
		From(table).
		Where("project_id IN ?", projectIds).
		IteratorContext(ctx).
		All(&rows); err != nil {
		return nil, db2.WrapStorage(err)
	}
	members := make(map[string][]string)
	for _, row := range rows {
		members[row.ProjectId] = append(members[row.ProjectId], row.UserId)
	}
	return members, nil
}

func (pdb *ProjectDB) loadComments(ctx context.Context, projectIds []string) (map[string][]*model.Comment, error) {
	var rows []*flattenedProjectComment
	if err := pdb.sess.SQL().
		Select(
			"c.id", "c.project_id", "c.author_id", "c.content", "c.created_at",
			"u.name AS author_name", "u.username AS author_username", "u.avatar AS author_avatar",
		).
		From("comment AS c").
		Join("users AS u").On("c.author_id = u.id").
		Where("c.project_id IN ?", projectIds).
		OrderBy("c.ord").
		IteratorContext(ctx).
		All(&rows); err != nil {
		return nil, db2.WrapStorage(err)
	}
	comments := make(map[string][]*model.Comment)
	for _, row := range rows {
		comments[row.ProjectId] = append(comments[row.ProjectId], &model.Comment{
			Id: row.Id,
			Author: &model.Author{
				Id:       row.AuthorId,
				Name:     row.AuthorName,
				Username: row.AuthorUsername,
				Avatar:   row.AuthorAvatar,
			},
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
		})
	}
	return comments, nil
}

func buildProject(row *flattenedProject) (*model.Project, error) {
	images, err := stringsFromJSON(row.ImagesJSON)
	if err != nil {
		return nil, db2.WrapStorage(err)
	}
	techStack, err := stringsFromJSON(row.TechStackJSON)
	if err != nil {
		return nil, db2.WrapStorage(err)
	}
	tags, err := stringsFromJSON(row.TagsJSON)
	if err != nil {
		return nil, db2.WrapStorage(err)
	}
	var social *model.SocialLinks
	if row.SocialJSON != "" {
		social = &model.SocialLinks{}
		if err := fromJSON(row.SocialJSON, social); err != nil {
			return nil, db2.WrapStorage(err)
		}
	}
	var hiring *model.HiringInfo
	if row.HiringJSON != "" {
		hiring = &model.HiringInfo{}
		if err := fromJSON(row.HiringJSON, hiring); err != nil {
			return nil, db2.WrapStorage(err)
		}
	}
	return &model.Project{
		Id:          row.Id,
		Title:       row.Title,
		Tagline:     row.Tagline,
		Description: row.Description,
		ProjectURL:  row.ProjectURL,
		VideoURL:    row.VideoURL,
		Thumbnail:   row.Thumbnail,
		Category:    row.Category,
		Pricing:     model.Pricing(row.Pricing),
		Status:      model.ProjectStatus(row.Status),
		Images:      images,
		TechStack:   techStack,
		Tags:        tags,
		Social:      social,
		Hiring:      hiring,
		Author: &model.Author{
			Id:       row.AuthorId,
			Name:     row.AuthorName,
			Username: row.AuthorUsername,
			Avatar:   row.AuthorAvatar,
		},
		Upvotes:    row.Upvotes,
		LaunchDate: row.LaunchDate,
		Rank:       row.Rank,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func getProjectRow(ctx context.Context, sess db.Session, id string) (*projectRow, error) {
	var row projectRow
	if err := sess.SQL().
		Select("*").
		From("projects").
		Where("id = ?", id).
		IteratorContext(ctx).
		One(&row); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, &db2.NotFoundError{Collection: "projects", Id: id}
		}
		return nil, db2.WrapStorage(err)
	}
	return &row, nil
}

func projectExists(ctx context.Context, sess db.Session, id string) error {
	exists, err := sess.WithContext(ctx).Collection("projects").Find("id = ?", id).Exists()
	if err != nil {
		return db2.WrapStorage(err)
	}
	if !exists {
		return &db2.NotFoundError{Collection: "projects", Id: id}
	}
	return nil
}

// toggleMembership flips membership of userId in a (parent_id, user_id) set
// table. Invoking it twice restores the original membership.
func toggleMembership(ctx context.Context, sess db.Session, table, parentColumn, parentId, userId string) error {
	parentTable := "projects"
	if parentColumn == "discussion_id" {
		parentTable = "discussions"
	}
	exists, err := sess.WithContext(ctx).Collection(parentTable).Find("id = ?", parentId).Exists()
	if err != nil {
		return db2.WrapStorage(err)
	}
	if !exists {
		return &db2.NotFoundError{Collection: parentTable, Id: parentId}
	}

	hasMember, err := sess.WithContext(ctx).Collection(table).
		Find(parentColumn+" = ? AND user_id = ?", parentId, userId).
		Exists()
	if err != nil {
		return db2.WrapStorage(err)
	}

	if hasMember {
		if _, err := sess.SQL().
			DeleteFrom(table).
			Where(parentColumn+" = ? AND user_id = ?", parentId, userId).
			ExecContext(ctx); err != nil {
			return db2.WrapStorage(err)
		}
	} else {
		if _, err := sess.SQL().
			InsertInto(table).
			Columns(parentColumn, "user_id", "created_at").
			Values(parentId, userId, time.Now().UTC()).
			ExecContext(ctx); err != nil {
			return db2.WrapStorage(err)
		}
	}

	_, err = sess.SQL().
		Update(parentTable).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", parentId).
		ExecContext(ctx)
	if err != nil {
		return db2.WrapStorage(err)
	}
	return nil
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// wrapUnlessTyped keeps typed errors surfaced from inside transactions intact
// and wraps anything else as a storage failure.
func wrapUnlessTyped(err error) error {
	if err == nil {
		return nil
	}
	if db2.IsValidation(err) || db2.IsNotFound(err) || db2.IsUnauthorized(err) || db2.IsConflict(err) {
		return err
	}
	return db2.WrapStorage(err)
}
