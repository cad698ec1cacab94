package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"workboard/internal/model"
	"workboard/internal/notify"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, n *model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func TestFeed_ListRecentNewestFirst(t *testing.T) {
	feed := notify.NewFeed(2)
	ctx := context.Background()

	feed.Notify(ctx, model.NewNotification(model.LevelSuccess, "first", "1"))
	feed.Notify(ctx, model.NewNotification(model.LevelSuccess, "second", "2"))
	feed.Notify(ctx, model.NewNotification(model.LevelError, "third", "3"))

	items, err := feed.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "third", items[0].Message)
	assert.Equal(t, "second", items[1].Message)

	items, _ = feed.ListRecent(ctx, 1)
	assert.Len(t, items, 1)
}

func TestPersistent_StoresNotification(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *model.Notification) bool {
		return n.Level == model.LevelError && n.Message == "Could not move task, reverting"
	})).Return(nil)

	notify.NewPersistent(repo, time.Second).
		Notify(context.Background(), model.NewNotification(model.LevelError, "Could not move task, reverting", "4"))

	repo.AssertExpectations(t)
}

func TestPersistent_SurvivesCancelledContext(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		assert.NoError(t, args.Get(0).(context.Context).Err())
	}).Return(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	notify.NewPersistent(repo, time.Second).Notify(ctx, model.NewNotification(model.LevelSuccess, "ok", ""))

	repo.AssertExpectations(t)
}

func TestPersistent_ErrorIsSwallowed(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	assert.NotPanics(t, func() {
		notify.NewPersistent(repo, time.Second).Notify(context.Background(), model.NewNotification(model.LevelSuccess, "ok", ""))
	})
}

func TestMulti_FansOut(t *testing.T) {
	a, b := notify.NewFeed(10), notify.NewFeed(10)

	notify.Multi{a, b, notify.Log{}}.Notify(context.Background(), model.NewNotification(model.LevelInternal, "board out of sync", ""))

	ai, _ := a.ListRecent(context.Background(), 0)
	bi, _ := b.ListRecent(context.Background(), 0)
	assert.Len(t, ai, 1)
	assert.Len(t, bi, 1)
}
