// Package notify delivers board notifications: toasts for the user and
// diagnostics for operators.
package notify

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"workboard/internal/model"
)

// Notifier receives notifications raised by the board engine.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}

// Lister returns the latest notifications, newest first.
type Lister interface {
	ListRecent(ctx context.Context, limit int) ([]model.Notification, error)
}

// Multi fans a notification out to several notifiers in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n model.Notification) {
	for _, nt := range m {
		nt.Notify(ctx, n)
	}
}

// Log writes notifications to the structured log. Internal diagnostics are errors.
type Log struct{}

func (Log) Notify(_ context.Context, n model.Notification) {
	entry := log.WithFields(log.Fields{"notification": n.ID, "level": n.Level})
	if n.TaskID != nil {
		entry = entry.WithField("task_id", *n.TaskID)
	}
	switch n.Level {
	case model.LevelInternal:
		entry.Error(n.Message)
	case model.LevelError:
		entry.Warn(n.Message)
	default:
		entry.Info(n.Message)
	}
}

type creator interface {
	Create(ctx context.Context, n *model.Notification) error
}

// Persistent stores notifications through a repository.
type Persistent struct {
	repo    creator
	timeout time.Duration
}

func NewPersistent(repo creator, timeout time.Duration) *Persistent {
	return &Persistent{repo: repo, timeout: timeout}
}

func (p *Persistent) Notify(ctx context.Context, n model.Notification) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	if err := p.repo.Create(ctx, &n); err != nil {
		log.WithField("notification", n.ID).WithError(err).Error("storing notification failed")
	}
}

// Feed keeps the most recent notifications in memory.
type Feed struct {
	mu    sync.Mutex
	size  int
	items []model.Notification
}

func NewFeed(size int) *Feed {
	if size <= 0 {
		size = 100
	}
	return &Feed{size: size}
}

func (f *Feed) Notify(_ context.Context, n model.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, n)
	if len(f.items) > f.size {
		f.items = append([]model.Notification(nil), f.items[len(f.items)-f.size:]...)
	}
}

func (f *Feed) ListRecent(_ context.Context, limit int) ([]model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit <= 0 || limit > len(f.items) {
		limit = len(f.items)
	}
	out := make([]model.Notification, 0, limit)
	for i := len(f.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.items[i])
	}
	return out, nil
}
