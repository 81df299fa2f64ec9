// Package notify carries transient user-facing notifications.
package notify

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "notify")

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient message shown to the operator
type Notification struct {
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Level   Level     `json:"level"`
	At      time.Time `json:"at"`
}

// Notifier publishes notifications
type Notifier interface {
	Notify(n Notification)
}

// Success builds a success notification
func Success(title, message string) Notification {
	return Notification{Title: title, Message: message, Level: LevelSuccess}
}

// Failure builds an error notification
func Failure(title, message string) Notification {
	return Notification{Title: title, Message: message, Level: LevelError}
}

// Feed logs every notification and keeps the most recent ones in memory
type Feed struct {
	mu    sync.Mutex
	items []Notification
	limit int
	now   func() time.Time
}

// NewFeed returns a feed retaining at most limit notifications
func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = 50
	}
	return &Feed{limit: limit, now: time.Now}
}

func (f *Feed) Notify(n Notification) {
	if n.At.IsZero() {
		n.At = f.now()
	}

	entry := log.WithFields(logrus.Fields{"title": n.Title, "level": n.Level})
	if n.Level == LevelError {
		entry.Warn(n.Message)
	} else {
		entry.Info(n.Message)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, n)
	if len(f.items) > f.limit {
		f.items = append([]Notification(nil), f.items[len(f.items)-f.limit:]...)
	}
}

// Recent returns the retained notifications, oldest first
func (f *Feed) Recent() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notification, len(f.items))
	copy(out, f.items)
	return out
}
