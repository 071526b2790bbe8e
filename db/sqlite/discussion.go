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

type DiscussionDB struct {
	sess db.Session
}

func getDiscussionDB(sess db.Session) *DiscussionDB {
	return &DiscussionDB{sess}
}

type discussionRow struct {
	Id          string    `db:"id"`
	Title       string    `db:"title"`
	Content     string    `db:"content"`
	Type        string    `db:"type"`
	Category    string    `db:"category"`
	Subcategory string    `db:"subcategory"`
	TagsJSON    string    `db:"tags"`
	AuthorId    string    `db:"author_id"`
	Views       int       `db:"views"`
	Featured    bool      `db:"featured"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type flattenedDiscussion struct {
	discussionRow  `db:",inline"`
	AuthorName     string `db:"author_name"`
	AuthorUsername string `db:"author_username"`
	AuthorAvatar   string `db:"author_avatar"`
	Upvotes        int    `db:"upvotes"`
}

type flattenedReply struct {
	Id             string    `db:"id"`
	DiscussionId   string    `db:"discussion_id"`
	AuthorId       string    `db:"author_id"`
	Content        string    `db:"content"`
	ParentReplyId  *string   `db:"parent_reply_id"`
	CreatedAt      time.Time `db:"created_at"`
	AuthorName     string    `db:"author_name"`
	AuthorUsername string    `db:"author_username"`
	AuthorAvatar   string    `db:"author_avatar"`
}

type pollOptionRow struct {
	DiscussionId string `db:"discussion_id"`
	Id           string `db:"id"`
	Text         string `db:"text"`
	Ord          int    `db:"ord"`
}

type pollVoteRow struct {
	DiscussionId string `db:"discussion_id"`
	OptionId     string `db:"option_id"`
	UserId       string `db:"user_id"`
}

type replyVoteRow struct {
	ReplyId string `db:"reply_id"`
	UserId  string `db:"user_id"`
}

var discussionColumns = []interface{}{
	"d.*",
	"u.name AS author_name",
	"u.username AS author_username",
	"u.avatar AS author_avatar",
	db.Raw("(SELECT COUNT(*) FROM discussion_vote dv WHERE dv.discussion_id = d.id) AS upvotes"),
}

func (ddb *DiscussionDB) CreateDiscussion(ctx context.Context, req *db2.CreateDiscussion) (*model.Discussion, error) {
	if err := checkReq(req); err != nil {
		return nil, err
	}
	if req.Type == model.TypePoll && len(req.PollOptions) < 2 {
		return nil, &db2.ValidationError{Message: "a poll needs at least two options"}
	}

	now := time.Now().UTC()
	row := &discussionRow{
		Id:          uuid.NewString(),
		Title:       req.Title,
		Content:     util.XSSSanitize(req.Content),
		Type:        string(req.Type),
		Category:    req.Category,
		Subcategory: req.Subcategory,
		TagsJSON:    stringsToJSON(req.Tags),
		AuthorId:    req.AuthorId,
		Status:      string(model.DiscussionActive),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := ddb.sess.TxContext(ctx, func(sess db.Session) error {
		if _, err := sess.WithContext(ctx).Collection("discussions").Insert(row); err != nil {
			return err
		}
		for i, option := range req.PollOptions {
			optionId := option.Id
			if optionId == "" {
				optionId = uuid.NewString()
			}
			if _, err := sess.WithContext(ctx).Collection("poll_option").Insert(&pollOptionRow{
				DiscussionId: row.Id,
				Id:           optionId,
				Text:         option.Text,
				Ord:          i,
			}); err != nil {
				return err
			}
		}
		return nil
	}, nil)
	if err != nil {
		return nil, db2.WrapStorage(err)
	}
	return ddb.GetDiscussionById(ctx, row.Id)
}

func (ddb *DiscussionDB) UpdateDiscussion(ctx context.Context, id string, patch *db2.DiscussionPatch) (*model.Discussion, error) {
	if patch == nil {
		return nil, &db2.ValidationError{Message: "patch data is required"}
	}
	row, err := getDiscussionRow(ctx, ddb.sess, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		row.Title = *patch.Title
	}
	if patch.Content != nil {
		row.Content = util.XSSSanitize(*patch.Content)
	}
	if patch.Category != nil {
		row.Category = *patch.Category
	}
	if patch.Subcategory != nil {
		row.Subcategory = *patch.Subcategory
	}
	if patch.Tags != nil {
		row.TagsJSON = stringsToJSON(patch.Tags)
	}
	if patch.Featured != nil {
		row.Featured = *patch.Featured
	}
	row.UpdatedAt = time.Now().UTC()

	if err := ddb.sess.WithContext(ctx).Collection("discussions").Find("id = ?", id).Update(row); err != nil {
		return nil, db2.WrapStorage(err)
	}
	return ddb.GetDiscussionById(ctx, id)
}

func (ddb *DiscussionDB) DeleteDiscussion(ctx context.Context, id, callerId string) error {
	if id == "" || callerId == "" {
		return &db2.ValidationError{Message: "discussion id and author id are required"}
	}
	row, err := getDiscussionRow(ctx, ddb.sess, id)
	if err != nil {
		return err
	}
	if row.AuthorId != callerId {
		return &db2.UnauthorizedError{Message: "only the author can delete this discussion"}
	}
	// Replies, votes and poll rows go with the parent via cascade.
	if _, err := ddb.sess.SQL().
		DeleteFrom("discussions").
		Where("id = ?", id).
		ExecContext(ctx); err != nil {
		return db2.WrapStorage(err)
	}
	return nil
}

func (ddb *DiscussionDB) GetDiscussionById(ctx context.Context, id string) (*model.Discussion, error) {
	if id == "" {
		return nil, &db2.ValidationError{Message: "discussion id is required"}
	}
	discussions, err := ddb.getDiscussionsWhere(ctx, "d.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(discussions) == 0 {
		return nil, &db2.NotFoundError{Collection: "discussions", Id: id}
	}
	return discussions[0], nil
}

func (ddb *DiscussionDB) GetAllDiscussions(ctx context.Context) ([]*model.Discussion, error) {
	return ddb.getDiscussionsWhere(ctx, "")
}

func (ddb *DiscussionDB) AddReply(ctx context.Context, discussionId string, req *db2.CreateReply) (*model.Reply, error) {
	if discussionId == "" {
		return nil, &db2.ValidationError{Message: "discussion id is required"}
	}
	if err := checkReq(req); err != nil {
		return nil, err
	}

	replyId := uuid.NewString()
	err := ddb.sess.TxContext(ctx, func(sess db.Session) error {
		row, err := getDiscussionRow(ctx, sess, discussionId)
		if err != nil {
			return err
		}
		if row.Status != string(model.DiscussionActive) {
			return &db2.ValidationError{Message: "discussion does not accept replies"}
		}
		if req.ParentReplyId != "" {
			exists, err := sess.WithContext(ctx).Collection("reply").
				Find("id = ? AND discussion_id = ?", req.ParentReplyId, discussionId).
				Exists()
			if err != nil {
				return err
			}
			if !exists {
				return &db2.ValidationError{Message: "parent reply does not belong to this discussion"}
			}
		}
		var parent *string
		if req.ParentReplyId != "" {
			parentId := req.ParentReplyId
			parent = &parentId
		}
		if _, err := sess.SQL().
			InsertInto("reply").
			Columns("id", "discussion_id", "author_id", "content", "parent_reply_id", "created_at").
			Values(replyId, discussionId, req.AuthorId, util.XSSSanitize(req.Content), parent, time.Now().UTC()).
			ExecContext(ctx); err != nil {
			return err
		}
		_, err = sess.SQL().
			Update("discussions").
			Set("updated_at = ?", time.Now().UTC()).
			Where("id = ?", discussionId).
			ExecContext(ctx)
		return err
	}, nil)
	if err != nil {
		return nil, wrapUnlessTyped(err)
	}

	var flattened flattenedReply
	if err := ddb.sess.SQL().
		Select(
			"r.id", "r.discussion_id", "r.author_id", "r.content", "r.parent_reply_id", "r.created_at",
			"u.name AS author_name", "u.username AS author_username", "u.avatar AS author_avatar",
		).
		From("reply AS r").
		Join("users AS u").On("r.author_id = u.id").
		Where("r.id = ?", replyId).
		IteratorContext(ctx).
		One(&flattened); err != nil {
		return nil, db2.WrapStorage(err)
	}
	reply := buildReply(&flattened)
	reply.Voters = []string{}
	return reply, nil
}

func (ddb *DiscussionDB) ToggleDiscussionUpvote(ctx context.Context, discussionId, userId string) (*model.Discussion, error) {
	if discussionId == "" || userId == "" {
		return nil, &db2.ValidationError{Message: "discussion id and user id are required"}
	}
	err := ddb.sess.TxContext(ctx, func(sess db.Session) error {
		return toggleMembership(ctx, sess, "discussion_vote", "discussion_id", discussionId, userId)
	}, nil)
	if err != nil {
		return nil, wrapUnlessTyped(err)
	}
	return ddb.GetDiscussionById(ctx, discussionId)
}

func (ddb *DiscussionDB) ToggleReplyUpvote(ctx context.Context, discussionId, replyId, userId string) (*model.Discussion, error) {
	if discussionId == "" || replyId == "" || userId == "" {
		return nil, &db2.ValidationError{Message: "discussion id, reply id and user id are required"}
	}
	err := ddb.sess.TxContext(ctx, func(sess db.Session) error {
		exists, err := sess.WithContext(ctx).Collection("reply").
			Find("id = ? AND discussion_id = ?", replyId, discussionId).
			Exists()
		if err != nil {
			return db2.WrapStorage(err)
		}
		if !exists {
			return &db2.NotFoundError{Collection: "reply", Id: replyId}
		}

		hasVote, err := sess.WithContext(ctx).Collection("reply_vote").
			Find("reply_id = ? AND user_id = ?", replyId, userId).
			Exists()
		if err != nil {
			return db2.WrapStorage(err)
		}
		if hasVote {
			_, err = sess.SQL().
				DeleteFrom("reply_vote").
				Where("reply_id = ? AND user_id = ?", replyId, userId).
				ExecContext(ctx)
		} else {
			_, err = sess.SQL().
				InsertInto("reply_vote").
				Columns("reply_id", "user_id", "created_at").
				Values(replyId, userId, time.Now().UTC()).
				ExecContext(ctx)
		}
		return err
	}, nil)
	if err != nil {
		return nil, wrapUnlessTyped(err)
	}
	return ddb.GetDiscussionById(ctx, discussionId)
}

func (ddb *DiscussionDB) IncrementViews(ctx context.Context, discussionId string) (*model.Discussion, error) {
	if discussionId == "" {
		return nil, &db2.ValidationError{Message: "discussion id is required"}
	}
	result, err := ddb.sess.SQL().
		Update("discussions").
		Set(db.Raw("views = views + 1")).
		Where("id = ?", discussionId).
		ExecContext(ctx)
	if err != nil {
		return nil, db2.WrapStorage(err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, &db2.NotFoundError{Collection: "discussions", Id: discussionId}
	}
	return ddb.GetDiscussionById(ctx, discussionId)
}

func (ddb *DiscussionDB) VotePoll(ctx context.Context, discussionId, optionId, userId string) (*model.Discussion, error) {
	if discussionId == "" || optionId == "" || userId == "" {
		return nil, &db2.ValidationError{Message: "discussion id, option id and user id are required"}
	}
	err := ddb.sess.TxContext(ctx, func(sess db.Session) error {
		row, err := getDiscussionRow(ctx, sess, discussionId)
		if err != nil {
			return err
		}
		if row.Type != string(model.TypePoll) {
			return &db2.ValidationError{Message: "discussion is not a poll"}
		}
		validOption, err := sess.WithContext(ctx).Collection("poll_option").
			Find("discussion_id = ? AND id = ?", discussionId, optionId).
			Exists()
		if err != nil {
			return db2.WrapStorage(err)
		}
		if !validOption {
			return &db2.ValidationError{Message: "invalid poll option"}
		}

		// Clearing the previous vote first keeps one vote per user per poll
		// even when the user switches options.
		if _, err := sess.SQL().
			DeleteFrom("poll_vote").
			Where("discussion_id = ? AND user_id = ?", discussionId, userId).
			ExecContext(ctx); err != nil {
			return db2.WrapStorage(err)
		}
		if _, err := sess.SQL().
			InsertInto("poll_vote").
			Columns("discussion_id", "option_id", "user_id", "created_at").
			Values(discussionId, optionId, userId, time.Now().UTC()).
			ExecContext(ctx); err != nil {
			return db2.WrapStorage(err)
		}
		_, err = sess.SQL().
			Update("discussions").
			Set("updated_at = ?", time.Now().UTC()).
			Where("id = ?", discussionId).
			ExecContext(ctx)
		return err
	}, nil)
	if err != nil {
		return nil, wrapUnlessTyped(err)
	}
	return ddb.GetDiscussionById(ctx, discussionId)
}

func (ddb *DiscussionDB) ModerateDiscussion(ctx context.Context, id string, status model.DiscussionStatus) (*model.Discussion, error) {
	if status != model.DiscussionLocked && status != model.DiscussionHidden {
		return nil, &db2.ValidationError{Message: "moderation status must be locked or hidden"}
	}
	row, err := getDiscussionRow(ctx, ddb.sess, id)
	if err != nil {
		return nil, err
	}
	if row.Status != string(model.DiscussionActive) {
		return nil, &db2.ValidationError{Message: "discussion has already been moderated"}
	}
	if _, err := ddb.sess.SQL().
		Update("discussions").
		Set("status = ?, updated_at = ?", string(status), time.Now().UTC()).
		Where("id = ?", id).
		ExecContext(ctx); err != nil {
		return nil, db2.WrapStorage(err)
	}
	return ddb.GetDiscussionById(ctx, id)
}

func (ddb *DiscussionDB) getDiscussionsWhere(ctx context.Context, cond string, args ...interface{}) ([]*model.Discussion, error) {
	selector := ddb.sess.SQL().
		Select(discussionColumns...).
		From("discussions AS d").
		Join("users AS u").On("d.author_id = u.id")
	if cond != "" {
		selector = selector.Where(append([]interface{}{cond}, args...)...)
	}

	var flattened []*flattenedDiscussion
	if err := selector.
		OrderBy("d.created_at DESC", "d.id DESC").
		IteratorContext(ctx).
		All(&flattened); err != nil {
		return nil, db2.WrapStorage(err)
	}
	if len(flattened) == 0 {
		return []*model.Discussion{}, nil
	}

	ids := make([]string, len(flattened))
	for i, row := range flattened {
		ids[i] = row.Id
	}

	voters, err := ddb.loadDiscussionVoters(ctx, ids)
	if err != nil {
		return nil, err
	}
	replies, err := ddb.loadReplies(ctx, ids)
	if err != nil {
		return nil, err
	}
	options, votes, err := ddb.loadPolls(ctx, ids)
	if err != nil {
		return nil, err
	}

	discussions := make([]*model.Discussion, len(flattened))
	for i, row := range flattened {
		discussion, err := buildDiscussion(row)
		if err != nil {
			return nil, err
		}
		discussion.Voters = orEmpty(voters[row.Id])
		discussion.Replies = replies[row.Id]
		if discussion.Replies == nil {
			discussion.Replies = []*model.Reply{}
		}
		if row.Type == string(model.TypePoll) {
			discussion.PollOptions = options[row.Id]
			discussion.PollVotes = votes[row.Id]
			if discussion.PollVotes == nil {
				discussion.PollVotes = map[string][]string{}
			}
		}
		discussions[i] = discussion
	}
	return discussions, nil
}

func (ddb *DiscussionDB) loadDiscussionVoters(ctx context.Context, discussionIds []string) (map[string][]string, error) {
	var rows []*struct {
		DiscussionId string `db:"discussion_id"`
		UserId       string `db:"user_id"`
	}
	if err := ddb.sess.SQL().
		Select("discussion_id", "user_id").
		From("discussion_vote").
		Where("discussion_id IN ?", discussionIds).
		IteratorContext(ctx).
		All(&rows); err != nil {
		return nil, db2.WrapStorage(err)
	}
	voters := make(map[string][]string)
	for _, row := range rows {
		voters[row.DiscussionId] = append(voters[row.DiscussionId], row.UserId)
	}
	return voters, nil
}

func (ddb *DiscussionDB) loadReplies(ctx context.Context, discussionIds []string) (map[string][]*model.Reply, error) {
	var rows []*flattenedReply
	if err := ddb.sess.SQL().
		Select(
			"r.id", "r.discussion_id", "r.author_id", "r.content", "r.parent_reply_id", "r.created_at",
			"u.name AS author_name", "u.username AS author_username", "u.avatar AS author_avatar",
		).
		From("reply AS r").
		Join("users AS u").On("r.author_id = u.id").
		Where("r.discussion_id IN ?", discussionIds).
		OrderBy("r.ord").
		IteratorContext(ctx).
		All(&rows); err != nil {
		return nil, db2.WrapStorage(err)
	}
	if len(rows) == 0 {
		return map[string][]*model.Reply{}, nil
	}

	replyIds := make([]string, len(rows))
	for i, row := range rows {
		replyIds[i] = row.Id
	}
	var voteRows []*replyVoteRow
	if err := ddb.sess.SQL().
		Select("reply_id", "user_id").
		From("reply_vote").
		Where("reply_id IN ?", replyIds).
		IteratorContext(ctx).
		All(&voteRows); err != nil {
		return nil, db2.WrapStorage(err)
	}
	voters := make(map[string][]string)
	for _, row := range voteRows {
		voters[row.ReplyId] = append(voters[row.ReplyId], row.UserId)
	}

	replies := make(map[string][]*model.Reply)
	for _, row := range rows {
		reply := buildReply(row)
		reply.Voters = orEmpty(voters[row.Id])
		reply.Upvotes = len(reply.Voters)
		replies[row.DiscussionId] = append(replies[row.DiscussionId], reply)
	}
	return replies, nil
}

func (ddb *DiscussionDB) loadPolls(ctx context.Context, discussionIds []string) (map[string][]*model.PollOption, map[string]map[string][]string, error) {
	var optionRows []*pollOptionRow
	if err := ddb.sess.SQL().
		Select("discussion_id", "id", "text", "ord").
		From("poll_option").
		Where("discussion_id IN ?", discussionIds).
		OrderBy("discussion_id", "ord").
		IteratorContext(ctx).
		All(&optionRows); err != nil {
		return nil, nil, db2.WrapStorage(err)
	}
	options := make(map[string][]*model.PollOption)
	for _, row := range optionRows {
		options[row.DiscussionId] = append(options[row.DiscussionId], &model.PollOption{
			Id:   row.Id,
			Text: row.Text,
		})
	}

	var voteRows []*pollVoteRow
	if err := ddb.sess.SQL().
		Select("discussion_id", "option_id", "user_id").
		From("poll_vote").
		Where("discussion_id IN ?", discussionIds).
		IteratorContext(ctx).
		All(&voteRows); err != nil {
		return nil, nil, db2.WrapStorage(err)
	}
	votes := make(map[string]map[string][]string)
	for _, row := range voteRows {
		if votes[row.DiscussionId] == nil {
			votes[row.DiscussionId] = make(map[string][]string)
		}
		votes[row.DiscussionId][row.OptionId] = append(votes[row.DiscussionId][row.OptionId], row.UserId)
	}
	return options, votes, nil
}

func buildDiscussion(row *flattenedDiscussion) (*model.Discussion, error) {
	tags, err := stringsFromJSON(row.TagsJSON)
	if err != nil {
		return nil, db2.WrapStorage(err)
	}
	return &model.Discussion{
		Id:          row.Id,
		Title:       row.Title,
		Content:     row.Content,
		Type:        model.DiscussionType(row.Type),
		Category:    row.Category,
		Subcategory: row.Subcategory,
		Tags:        tags,
		Author: &model.Author{
			Id:       row.AuthorId,
			Name:     row.AuthorName,
			Username: row.AuthorUsername,
			Avatar:   row.AuthorAvatar,
		},
		Upvotes:   row.Upvotes,
		Views:     row.Views,
		Featured:  row.Featured,
		Status:    model.DiscussionStatus(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func buildReply(row *flattenedReply) *model.Reply {
	reply := &model.Reply{
		Id:           row.Id,
		DiscussionId: row.DiscussionId,
		Author: &model.Author{
			Id:       row.AuthorId,
			Name:     row.AuthorName,
			Username: row.AuthorUsername,
			Avatar:   row.AuthorAvatar,
		},
		Content:   row.Content,
		CreatedAt: row.CreatedAt,
	}
	if row.ParentReplyId != nil {
		reply.ParentReplyId = *row.ParentReplyId
	}
	return reply
}

func getDiscussionRow(ctx context.Context, sess db.Session, id string) (*discussionRow, error) {
	var row discussionRow
	if err := sess.SQL().
		Select("*").
		From("discussions").
		Where("id = ?", id).
		IteratorContext(ctx).
		One(&row); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, &db2.NotFoundError{Collection: "discussions", Id: id}
		}
		return nil, db2.WrapStorage(err)
	}
	return &row, nil
}
