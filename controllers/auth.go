package controllers

import (
	"context"
	"log"

	db2 "github.com/project-launch/project-launch-be/db"
	"github.com/project-launch/project-launch-be/model"
	"github.com/project-launch/project-launch-be/services"
	"github.com/project-launch/project-launch-be/util"
)

// AuthController manages the single signed-in session. Every profile-affecting
// mutation writes through to both the users collection and the session file;
// the two must never diverge.
type AuthController struct {
	db       db2.UserDatabase
	sessions *services.SessionStore
	notifier services.Notifier
}

func NewAuthController(db db2.UserDatabase, sessions *services.SessionStore, notifier services.Notifier) *AuthController {
	return &AuthController{
		db:       db,
		sessions: sessions,
		notifier: notifier,
	}
}

// CurrentUser returns the session user without hitting the users collection,
// or nil when signed out.
func (ac *AuthController) CurrentUser() (*model.User, error) {
	return ac.sessions.Get()
}

func (ac *AuthController) Login(c context.Context, email, password string) (*model.User, error) {
	user, err := ac.db.GetUserByEmail(c, email)
	if err != nil || user.Password != password {
		ac.notifier.Notify(services.Notification{
			Title:       "Login failed",
			Description: "Invalid email or password",
			Variant:     services.VariantDestructive,
		})
		if err != nil {
			return nil, err
		}
		return nil, &db2.UnauthorizedError{Message: "invalid email or password"}
	}
	if user.Status == model.UserBanned {
		ac.notifier.Notify(services.Notification{
			Title:       "Login failed",
			Description: "This account has been suspended",
			Variant:     services.VariantDestructive,
		})
		return nil, &db2.UnauthorizedError{Message: "account is banned"}
	}

	if err := ac.sessions.Save(user); err != nil {
		return nil, err
	}
	ac.notifier.Notify(services.Notification{
		Title:       "Welcome back!",
		Description: "Signed in as " + user.Name,
	})
	return user.WithoutPassword(), nil
}

func (ac *AuthController) Register(c context.Context, name, email, password string) (*model.User, error) {
	user, err := ac.db.CreateUser(c, &db2.CreateUser{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		description := err.Error()
		if db2.IsConflict(err) {
			description = "Email already exists"
		}
		ac.notifier.Notify(services.Notification{
			Title:       "Registration failed",
			Description: description,
			Variant:     services.VariantDestructive,
		})
		return nil, err
	}

	if err := ac.sessions.Save(user); err != nil {
		return nil, err
	}
	ac.notifier.Notify(services.Notification{
		Title:       "Welcome to ProjectLaunch!",
		Description: "Your account has been created",
	})
	return user.WithoutPassword(), nil
}

func (ac *AuthController) Logout() error {
	if err := ac.sessions.Clear(); err != nil {
		return err
	}
	ac.notifier.Notify(services.Notification{Title: "Signed out"})
	return nil
}

// ResetPassword sets a new password for the account with the given email.
// There is no token flow; identity is the email itself.
func (ac *AuthController) ResetPassword(c context.Context, email, newPassword string) error {
	if newPassword == "" {
		return &db2.ValidationError{Message: "a new password is required"}
	}
	user, err := ac.db.GetUserByEmail(c, email)
	if err != nil {
		ac.notifyFailure("Reset failed", err)
		return err
	}
	if _, err := ac.db.UpdateUser(c, user.Id, &db2.UserPatch{Password: &newPassword}); err != nil {
		ac.notifyFailure("Reset failed", err)
		return err
	}
	ac.notifier.Notify(services.Notification{
		Title:       "Password updated",
		Description: "You can now sign in with your new password",
	})
	return nil
}

func (ac *AuthController) UpdateProfile(c context.Context, userId string, patch *db2.UserPatch) (*model.User, error) {
	user, err := ac.db.UpdateUser(c, userId, patch)
	if err != nil {
		ac.notifyFailure("Update failed", err)
		return nil, err
	}
	if err := ac.syncSession(user); err != nil {
		return nil, err
	}
	ac.notifier.Notify(services.Notification{Title: "Profile updated"})
	return user.WithoutPassword(), nil
}

func (ac *AuthController) UpdateTheme(c context.Context, userId string, theme *model.ProfileTheme) (*model.User, error) {
	user, err := ac.db.UpdateUser(c, userId, &db2.UserPatch{Theme: theme})
	if err != nil {
		ac.notifyFailure("Update failed", err)
		return nil, err
	}
	if err := ac.syncSession(user); err != nil {
		return nil, err
	}
	ac.notifier.Notify(services.Notification{Title: "Theme updated"})
	return user.WithoutPassword(), nil
}

func (ac *AuthController) UpdateAvatar(c context.Context, userId, avatarURL string) (*model.User, error) {
	user, err := ac.db.UpdateUser(c, userId, &db2.UserPatch{Avatar: &avatarURL})
	if err != nil {
		ac.notifyFailure("Update failed", err)
		return nil, err
	}
	if err := ac.syncSession(user); err != nil {
		return nil, err
	}
	ac.notifier.Notify(services.Notification{Title: "Avatar updated"})
	return user.WithoutPassword(), nil
}

// RemoveAvatar restores the deterministic placeholder for the account.
func (ac *AuthController) RemoveAvatar(c context.Context, userId string) (*model.User, error) {
	return ac.UpdateAvatar(c, userId, util.Avatar(userId))
}

// syncSession writes the updated record through to the session file when the
// mutated user is the one signed in.
func (ac *AuthController) syncSession(user *model.User) error {
	current, err := ac.sessions.Get()
	if err != nil {
		log.Println("an error occurred while reading the session", err)
		return err
	}
	if current == nil || current.Id != user.Id {
		return nil
	}
	return ac.sessions.Save(user)
}

func (ac *AuthController) notifyFailure(title string, err error) {
	ac.notifier.Notify(services.Notification{
		Title:       title,
		Description: err.Error(),
		Variant:     services.VariantDestructive,
	})
}
