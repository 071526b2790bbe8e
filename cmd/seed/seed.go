package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/project-launch/project-launch-be/config"
	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/db/sqlite"
	"github.com/project-launch/project-launch-be/model"
)

func main() {
	cfg := config.Load()
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal("Received err when attempting to create the data directory", err)
	}

	database, err := sqlite.Open(cfg.DatabasePath())
	if err != nil {
		log.Fatal("Received err when attempting to open the database", err)
	}
	defer database.Close()

	ctx := context.Background()
	admin, err := ensureAdminUser(ctx, database)
	if err != nil {
		log.Fatal("An error occurred while creating the admin user", err)
	}

	projects, err := database.GetAllProjects(ctx)
	if err != nil {
		log.Fatal("An error occurred while reading projects", err)
	}
	if len(projects) == 0 {
		if err := seedDemoData(ctx, database, admin); err != nil {
			log.Fatal("An error occurred while seeding demo data", err)
		}
		projects, err = database.GetAllProjects(ctx)
		if err != nil {
			log.Fatal("An error occurred while reading projects", err)
		}
	}

	users, err := database.GetAllUsers(ctx)
	if err != nil {
		log.Fatal("An error occurred while reading users", err)
	}
	log.Printf("database ready at %v: %v users, %v projects", cfg.DatabasePath(), len(users), len(projects))
}

func ensureAdminUser(ctx context.Context, database db2.Database) (*model.User, error) {
	admin, err := database.GetUserByEmail(ctx, "admin@example.com")
	if err == nil {
		return admin, nil
	}
	if !db2.IsNotFound(err) {
		return nil, err
	}
	return database.CreateUser(ctx, &db2.CreateUser{
		Name:     "Admin User",
		Email:    "admin@example.com",
		Password: "admin123",
		Role:     model.RoleAdmin,
	})
}

func seedDemoData(ctx context.Context, database db2.Database, admin *model.User) error {
	project, err := database.CreateProject(ctx, &db2.CreateProject{
		Title:       "ProjectLaunch",
		Tagline:     "Launch and discover new projects",
		Description: "A community where makers launch projects, gather feedback and find collaborators.",
		Category:    "productivity",
		AuthorId:    admin.Id,
		TechStack:   []string{"go", "sqlite"},
		Tags:        []string{"community", "launch"},
	})
	if err != nil {
		return err
	}
	if _, err := database.LogActivity(ctx, &db2.CreateActivity{
		Type:   model.ActivityProjectLaunch,
		UserId: admin.Id,
		Data: model.ActivityData{
			ProjectId:    project.Id,
			ProjectTitle: project.Title,
		},
	}); err != nil {
		return err
	}

	if _, err := database.CreateDiscussion(ctx, &db2.CreateDiscussion{
		Title:    "Welcome to ProjectLaunch",
		Content:  "Introduce yourself and tell us what you are building.",
		Type:     model.TypeDiscussion,
		Category: "general",
		AuthorId: admin.Id,
	}); err != nil {
		return err
	}

	if _, err := database.CreateEvent(ctx, &db2.CreateEvent{
		Title:       "Launch Day Kickoff",
		Description: "A community call walking through this month's launches.",
		Type:        "online",
		Date:        time.Now().UTC().Add(7 * 24 * time.Hour),
		OrganizerId: admin.Id,
		Category:    "community",
	}); err != nil {
		return err
	}

	_, err = database.CreateJobListing(ctx, &db2.CreateJobListing{
		ProjectId:   project.Id,
		Title:       "Founding Engineer",
		Description: "Help build the next iteration of the launch platform.",
		Type:        model.HiringFullTime,
		Remote:      true,
		Salary:      model.Salary{Min: 90000, Max: 140000, Currency: "USD"},
		Skills:      []string{"go", "sql"},
	})
	return err
}
