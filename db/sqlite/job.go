package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/model"
	"github.com/upper/db/v4"
)

// Listings without an explicit expiry stay up for 30 days.
const defaultListingTTL = 30 * 24 * time.Hour

type JobDB struct {
	sess db.Session
}

func getJobDB(sess db.Session) *JobDB {
	return &JobDB{sess}
}

type jobRow struct {
	Id          string    `db:"id"`
	ProjectId   string    `db:"project_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Type        string    `db:"type"`
	Tier        string    `db:"tier"`
	Location    string    `db:"location"`
	Remote      bool      `db:"remote"`
	SalaryMin   int       `db:"salary_min"`
	SalaryMax   int       `db:"salary_max"`
	Currency    string    `db:"currency"`
	SkillsJSON  string    `db:"skills"`
	Experience  string    `db:"experience"`
	Featured    bool      `db:"featured"`
	PostedAt    time.Time `db:"posted_at"`
	ExpiresAt   time.Time `db:"expires_at"`
}

func (jdb *JobDB) CreateJobListing(ctx context.Context, req *db2.CreateJobListing) (*model.JobListing, error) {
	if err := checkReq(req); err != nil {
		return nil, err
	}
	if req.Salary.Min > req.Salary.Max {
		return nil, &db2.ValidationError{Message: "salary minimum exceeds maximum"}
	}
	if err := projectExists(ctx, jdb.sess, req.ProjectId); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expiresAt := req.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = now.Add(defaultListingTTL)
	}
	currency := req.Salary.Currency
	if currency == "" {
		currency = "USD"
	}
	tier := req.Tier
	if tier == "" {
		tier = model.TierFree
	}
	row := &jobRow{
		Id:          uuid.NewString(),
		ProjectId:   req.ProjectId,
		Title:       req.Title,
		Description: req.Description,
		Type:        string(req.Type),
		Tier:        string(tier),
		Location:    req.Location,
		Remote:      req.Remote,
		SalaryMin:   req.Salary.Min,
		SalaryMax:   req.Salary.Max,
		Currency:    currency,
		SkillsJSON:  stringsToJSON(req.Skills),
		Experience:  req.Experience,
		Featured:    req.Featured,
		PostedAt:    now,
		ExpiresAt:   expiresAt,
	}
	if _, err := jdb.sess.WithContext(ctx).Collection("job_listings").Insert(row); err != nil {
		return nil, db2.WrapStorage(err)
	}
	return buildJobListing(row)
}

func (jdb *JobDB) GetAllJobListings(ctx context.Context, includeExpired bool) ([]*model.JobListing, error) {
	selector := jdb.sess.SQL().
		Select("*").
		From("job_listings")
	if !includeExpired {
		selector = selector.Where("expires_at > ?", time.Now().UTC())
	}
	var rows []*jobRow
	if err := selector.
		OrderBy(listingTierOrder, "posted_at DESC", "id DESC").
		IteratorContext(ctx).
		All(&rows); err != nil {
		return nil, db2.WrapStorage(err)
	}
	return buildJobListings(rows)
}

// Paid placements surface ahead of free ones on the board.
var listingTierOrder = db.Raw("CASE tier WHEN 'sponsored' THEN 0 WHEN 'premium' THEN 1 ELSE 2 END")

func (jdb *JobDB) GetJobListingsByProject(ctx context.Context, projectId string) ([]*model.JobListing, error) {
	if projectId == "" {
		return nil, &db2.ValidationError{Message: "project id is required"}
	}
	var rows []*jobRow
	if err := jdb.sess.SQL().
		Select("*").
		From("job_listings").
		Where("project_id = ?", projectId).
		OrderBy("posted_at DESC", "id DESC").
		IteratorContext(ctx).
		All(&rows); err != nil {
		return nil, db2.WrapStorage(err)
	}
	return buildJobListings(rows)
}

func (jdb *JobDB) DeleteJobListing(ctx context.Context, id, callerId string) error {
	if id == "" || callerId == "" {
		return &db2.ValidationError{Message: "listing id and caller id are required"}
	}
	var row struct {
		AuthorId string `db:"author_id"`
	}
	if err := jdb.sess.SQL().
		Select("p.author_id").
		From("job_listings AS j").
		Join("projects AS p").On("j.project_id = p.id").
		Where("j.id = ?", id).
		IteratorContext(ctx).
		One(&row); err != nil {
		if err == db.ErrNoMoreRows {
			return &db2.NotFoundError{Collection: "job_listings", Id: id}
		}
		return db2.WrapStorage(err)
	}
	if row.AuthorId != callerId {
		return &db2.UnauthorizedError{Message: "only the project author can remove this listing"}
	}
	if _, err := jdb.sess.SQL().
		DeleteFrom("job_listings").
		Where("id = ?", id).
		ExecContext(ctx); err != nil {
		return db2.WrapStorage(err)
	}
	return nil
}

func buildJobListings(rows []*jobRow) ([]*model.JobListing, error) {
	listings := make([]*model.JobListing, len(rows))
	for i, row := range rows {
		listing, err := buildJobListing(row)
		if err != nil {
			return nil, err
		}
		listings[i] = listing
	}
	return listings, nil
}

func buildJobListing(row *jobRow) (*model.JobListing, error) {
	skills, err := stringsFromJSON(row.SkillsJSON)
	if err != nil {
		return nil, db2.WrapStorage(err)
	}
	return &model.JobListing{
		Id:          row.Id,
		ProjectId:   row.ProjectId,
		Title:       row.Title,
		Description: row.Description,
		Type:        model.HiringType(row.Type),
		Tier:        model.ListingTier(row.Tier),
		Location:    row.Location,
		Remote:      row.Remote,
		Salary: model.Salary{
			Min:      row.SalaryMin,
			Max:      row.SalaryMax,
			Currency: row.Currency,
		},
		Skills:     skills,
		Experience: row.Experience,
		Featured:   row.Featured,
		PostedAt:   row.PostedAt,
		ExpiresAt:  row.ExpiresAt,
	}, nil
}
