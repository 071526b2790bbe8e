package services

import "log"

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a user-facing toast surfaced by the embedding application.
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

type Notifier interface {
	Notify(notification Notification)
}

// LogNotifier writes notifications to the process log. It is the default sink
// when the embedding application does not provide its own.
type LogNotifier struct{}

func (LogNotifier) Notify(notification Notification) {
	if notification.Variant == VariantDestructive {
		log.Printf("[notify][error] %v: %v", notification.Title, notification.Description)
		return
	}
	log.Printf("[notify] %v: %v", notification.Title, notification.Description)
}
