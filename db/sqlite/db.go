package sqlite

import (
	"database/sql"
	"embed"
	"fmt"

	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/pressly/goose/v3"
	"github.com/upper/db/v4"
	sqliteadapter "github.com/upper/db/v4/adapter/sqlite"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store is the embedded-store implementation of db.Database. Each collection
// gets its own operations struct sharing the same session.
type Store struct {
	*UserDB
	*ProjectDB
	*DiscussionDB
	*ActivityDB
	*ConnectionDB
	*EventDB
	*JobDB
	*BadgeDB
	sess  db.Session
	sqlDB *sql.DB
}

// Open opens (creating if needed) the database file and brings the schema up
// to the latest version. Version bumps preserve existing data.
func Open(path string) (db2.Database, error) {
	sess, err := sqliteadapter.Open(sqliteadapter.ConnectionURL{
		Database: path,
		Options: map[string]string{
			"_foreign_keys": "on",
			"_busy_timeout": "5000",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite database at %v: %w", path, err)
	}

	sqlDB, ok := sess.Driver().(*sql.DB)
	if !ok {
		sess.Close()
		return nil, fmt.Errorf("unexpected driver type for sqlite session")
	}

	if err := migrate(sqlDB); err != nil {
		sess.Close()
		return nil, fmt.Errorf("error migrating schema: %w", err)
	}

	return &Store{
		UserDB:       getUserDB(sess),
		ProjectDB:    getProjectDB(sess),
		DiscussionDB: getDiscussionDB(sess),
		ActivityDB:   getActivityDB(sess),
		ConnectionDB: getConnectionDB(sess),
		EventDB:      getEventDB(sess),
		JobDB:        getJobDB(sess),
		BadgeDB:      getBadgeDB(sess),
		sess:         sess,
		sqlDB:        sqlDB,
	}, nil
}

func migrate(sqlDB *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(sqlDB, "migrations")
}

func (s *Store) GetSQLDB() *sql.DB {
	return s.sqlDB
}

func (s *Store) Close() error {
	return s.sess.Close()
}
