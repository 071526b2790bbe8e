package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/model"
	"github.com/project-launch/project-launch-be/util"
	"github.com/upper/db/v4"
)

type UserDB struct {
	sess db.Session
}

func getUserDB(sess db.Session) *UserDB {
	return &UserDB{sess}
}

type userRow struct {
	Id            string    `db:"id"`
	Name          string    `db:"name"`
	Email         string    `db:"email"`
	Username      string    `db:"username"`
	Password      string    `db:"password"`
	Avatar        string    `db:"avatar"`
	Bio           string    `db:"bio"`
	Location      string    `db:"location"`
	Website       string    `db:"website"`
	Twitter       string    `db:"twitter"`
	Github        string    `db:"github"`
	Linkedin      string    `db:"linkedin"`
	Role          string    `db:"role"`
	Status        string    `db:"status"`
	IsVerified    bool      `db:"is_verified"`
	ThemeJSON     string    `db:"theme"`
	SkillsJSON    string    `db:"skills"`
	PortfolioJSON string    `db:"portfolio"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	LastActive    time.Time `db:"last_active"`
}

func (udb *UserDB) CreateUser(ctx context.Context, req *db2.CreateUser) (*model.User, error) {
	if err := checkReq(req); err != nil {
		return nil, err
	}

	username := req.Username
	if username == "" {
		username = strings.SplitN(req.Email, "@", 2)[0]
	}
	avatar := req.Avatar
	if avatar == "" {
		avatar = util.Avatar(req.Email)
	}
	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	theme := req.Theme
	if theme == nil {
		theme = model.DefaultProfileTheme()
	}
	themeJSON, err := toJSON(theme)
	if err != nil {
		return nil, db2.WrapStorage(err)
	}

	now := time.Now().UTC()
	row := &userRow{
		Id:            uuid.NewString(),
		Name:          req.Name,
		Email:         req.Email,
		Username:      username,
		Password:      req.Password,
		Avatar:        avatar,
		Role:          string(role),
		Status:        string(model.UserActive),
		ThemeJSON:     themeJSON,
		SkillsJSON:    "[]",
		PortfolioJSON: "[]",
		CreatedAt:     now,
		UpdatedAt:     now,
		LastActive:    now,
	}
	if _, err := udb.sess.WithContext(ctx).Collection("users").Insert(row); err != nil {
		return nil, db2.WrapStorage(err)
	}
	return buildUser(row)
}

func (udb *UserDB) UpdateUser(ctx context.Context, id string, patch *db2.UserPatch) (*model.User, error) {
	if patch == nil {
		return nil, &db2.ValidationError{Message: "patch data is required"}
	}
	row, err := udb.getUserRow(ctx, id)
	if err != nil {
		return nil, err
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&row.Name, patch.Name)
	setString(&row.Username, patch.Username)
	setString(&row.Password, patch.Password)
	setString(&row.Avatar, patch.Avatar)
	setString(&row.Bio, patch.Bio)
	setString(&row.Location, patch.Location)
	setString(&row.Website, patch.Website)
	setString(&row.Twitter, patch.Twitter)
	setString(&row.Github, patch.Github)
	setString(&row.Linkedin, patch.Linkedin)
	if patch.Theme != nil {
		themeJSON, err := toJSON(patch.Theme)
		if err != nil {
			return nil, db2.WrapStorage(err)
		}
		row.ThemeJSON = themeJSON
	}
	if patch.Skills != nil {
		skillsJSON, err := toJSON(patch.Skills)
		if err != nil {
			return nil, db2.WrapStorage(err)
		}
		row.SkillsJSON = skillsJSON
	}
	if patch.Portfolio != nil {
		portfolioJSON, err := toJSON(patch.Portfolio)
		if err != nil {
			return nil, db2.WrapStorage(err)
		}
		row.PortfolioJSON = portfolioJSON
	}
	row.UpdatedAt = time.Now().UTC()

	if err := udb.sess.WithContext(ctx).Collection("users").Find("id = ?", id).Update(row); err != nil {
		return nil, db2.WrapStorage(err)
	}
	return buildUser(row)
}

func (udb *UserDB) GetUserById(ctx context.Context, id string) (*model.User, error) {
	row, err := udb.getUserRow(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildUser(row)
}

func (udb *UserDB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return udb.getUserWhere(ctx, "email = ?", email)
}

func (udb *UserDB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return udb.getUserWhere(ctx, "username = ?", username)
}

func (udb *UserDB) GetAllUsers(ctx context.Context) ([]*model.User, error) {
	var rows []*userRow
	if err := udb.sess.SQL().
		Select("*").
		From("users").
		OrderBy("created_at DESC", "id DESC").
		IteratorContext(ctx).
		All(&rows); err != nil {
		return nil, db2.WrapStorage(err)
	}
	users := make([]*model.User, len(rows))
	for i, row := range rows {
		user, err := buildUser(row)
		if err != nil {
			return nil, err
		}
		users[i] = user
	}
	return users, nil
}

func (udb *UserDB) UpdateUserRole(ctx context.Context, id string, role model.Role) error {
	if _, err := udb.getUserRow(ctx, id); err != nil {
		return err
	}
	now := time.Now().UTC()
	if _, err := udb.sess.SQL().
		Update("users").
		Set("role = ?, updated_at = ?", string(role), now).
		Where("id = ?", id).
		ExecContext(ctx); err != nil {
		return db2.WrapStorage(err)
	}
	_, err := insertActivity(ctx, udb.sess, &db2.CreateActivity{
		Type:   model.ActivityRoleChange,
		UserId: id,
		Data:   model.ActivityData{Role: string(role)},
	})
	return err
}

func (udb *UserDB) UpdateUserStatus(ctx context.Context, id string, status model.UserStatus) error {
	if _, err := udb.getUserRow(ctx, id); err != nil {
		return err
	}
	now := time.Now().UTC()
	if _, err := udb.sess.SQL().
		Update("users").
		Set("status = ?, updated_at = ?, last_active = ?", string(status), now, now).
		Where("id = ?", id).
		ExecContext(ctx); err != nil {
		return db2.WrapStorage(err)
	}
	_, err := insertActivity(ctx, udb.sess, &db2.CreateActivity{
		Type:   model.ActivityStatusChange,
		UserId: id,
		Data:   model.ActivityData{Status: string(status)},
	})
	return err
}

func (udb *UserDB) getUserRow(ctx context.Context, id string) (*userRow, error) {
	var row userRow
	if err := udb.sess.SQL().
		Select("*").
		From("users").
		Where("id = ?", id).
		IteratorContext(ctx).
		One(&row); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, &db2.NotFoundError{Collection: "users", Id: id}
		}
		return nil, db2.WrapStorage(err)
	}
	return &row, nil
}

func (udb *UserDB) getUserWhere(ctx context.Context, cond string, arg string) (*model.User, error) {
	var row userRow
	if err := udb.sess.SQL().
		Select("*").
		From("users").
		Where(cond, arg).
		IteratorContext(ctx).
		One(&row); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, &db2.NotFoundError{Collection: "users", Id: arg}
		}
		return nil, db2.WrapStorage(err)
	}
	return buildUser(&row)
}

func buildUser(row *userRow) (*model.User, error) {
	var theme *model.ProfileTheme
	if row.ThemeJSON != "" {
		theme = &model.ProfileTheme{}
		if err := fromJSON(row.ThemeJSON, theme); err != nil {
			return nil, db2.WrapStorage(err)
		}
	}
	var skills []*model.Skill
	if err := fromJSON(row.SkillsJSON, &skills); err != nil {
		return nil, db2.WrapStorage(err)
	}
	var portfolio []*model.PortfolioItem
	if err := fromJSON(row.PortfolioJSON, &portfolio); err != nil {
		return nil, db2.WrapStorage(err)
	}
	return &model.User{
		Id:         row.Id,
		Name:       row.Name,
		Email:      row.Email,
		Username:   row.Username,
		Password:   row.Password,
		Avatar:     row.Avatar,
		Bio:        row.Bio,
		Location:   row.Location,
		Website:    row.Website,
		Twitter:    row.Twitter,
		Github:     row.Github,
		Linkedin:   row.Linkedin,
		Role:       model.Role(row.Role),
		Status:     model.UserStatus(row.Status),
		IsVerified: row.IsVerified,
		Theme:      theme,
		Skills:     skills,
		Portfolio:  portfolio,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
		LastActive: row.LastActive,
	}, nil
}
