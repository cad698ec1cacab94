package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"workboard/internal/model"
)

// RemoteTaskService persists a status change for a task.
type RemoteTaskService interface {
	UpdateTaskStatus(ctx context.Context, id model.TaskID, status model.Status) error
}

// TaskAPI is everything the engine needs from the task backend.
type TaskAPI interface {
	RemoteTaskService
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, fields map[string]any) error
	UpdateTask(ctx context.Context, id model.TaskID, fields map[string]any) error
	DeleteTask(ctx context.Context, id model.TaskID) error
}

// Notifier surfaces messages to the user and diagnostics to operators.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}

// Location is a position on the board.
type Location struct {
	ColumnID model.Status
	Index    int
}

// DragResult is what the renderer reports when a drag ends.
// Destination is nil when the card was dropped outside any column.
type DragResult struct {
	DraggableID string
	Source      Location
	Destination *Location
}

// MoveIntent records one cross-column move so it can be confirmed or undone.
type MoveIntent struct {
	ID                uuid.UUID
	TaskID            model.TaskID
	SourceColumn      model.Status
	SourceIndex       int
	DestinationColumn model.Status
	DestinationIndex  int
	StatusBeforeMove  model.Status
}

// Outcome is how a move settled.
type Outcome struct {
	Intent   MoveIntent
	Err      error
	Reverted bool
}

// Engine applies drag events optimistically and reconciles them with the task API.
type Engine struct {
	store    *Store
	api      TaskAPI
	notifier Notifier

	inflight sync.WaitGroup

	mu        sync.RWMutex
	onSettled func(Outcome)
}

func NewEngine(store *Store, api TaskAPI, notifier Notifier) *Engine {
	return &Engine{store: store, api: api, notifier: notifier}
}

// Store exposes the partition the engine writes to.
func (e *Engine) Store() *Store {
	return e.store
}

// OnSettled sets a callback run after each cross-column move settles.
func (e *Engine) OnSettled(fn func(Outcome)) {
	e.mu.Lock()
	e.onSettled = fn
	e.mu.Unlock()
}

// Wait blocks until every in-flight status update has settled.
func (e *Engine) Wait() {
	e.inflight.Wait()
}

// OnDragEnd handles a finished drag. The local partition is updated before
// it returns; for a cross-column move the status update runs in the
// background and is rolled back if the task API rejects it. The only error
// returned is ErrDesync.
func (e *Engine) OnDragEnd(ctx context.Context, drag DragResult) error {
	if drag.Destination == nil {
		return nil
	}
	src, dst := drag.Source, *drag.Destination
	if src.ColumnID == dst.ColumnID && src.Index == dst.Index {
		return nil
	}

	var intent MoveIntent
	err := e.store.Update(func(p Partition) (Partition, error) {
		srcTasks, ok := p[src.ColumnID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown source column %q", ErrDesync, src.ColumnID)
		}
		dstTasks, ok := p[dst.ColumnID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown destination column %q", ErrDesync, dst.ColumnID)
		}
		if src.Index < 0 || src.Index >= len(srcTasks) {
			return nil, fmt.Errorf("%w: no task at %s[%d]", ErrDesync, src.ColumnID, src.Index)
		}
		if dst.Index < 0 {
			return nil, fmt.Errorf("%w: negative destination index %d", ErrDesync, dst.Index)
		}

		task := srcTasks[src.Index]
		if drag.DraggableID != "" && task.ID.String() != drag.DraggableID {
			return nil, fmt.Errorf("%w: expected task %s at %s[%d], found %s",
				ErrDesync, drag.DraggableID, src.ColumnID, src.Index, task.ID)
		}

		intent = MoveIntent{
			ID:                uuid.New(),
			TaskID:            task.ID,
			SourceColumn:      src.ColumnID,
			SourceIndex:       src.Index,
			DestinationColumn: dst.ColumnID,
			DestinationIndex:  dst.Index,
			StatusBeforeMove:  task.Status,
		}

		if src.ColumnID == dst.ColumnID {
			p[src.ColumnID] = insertAt(removeAt(srcTasks, src.Index), dst.Index, task)
			return p, nil
		}

		p[src.ColumnID] = removeAt(srcTasks, src.Index)
		task.Status = dst.ColumnID
		p[dst.ColumnID] = insertAt(dstTasks, dst.Index, task)
		return p, nil
	})
	if err != nil {
		if errors.Is(err, ErrDesync) {
			log.WithFields(log.Fields{
				"draggable_id": drag.DraggableID,
				"source":       src.ColumnID,
				"source_index": src.Index,
				"destination":  dst.ColumnID,
			}).WithError(err).Error("drag rejected")
			e.notify(ctx, model.NewNotification(model.LevelInternal, err.Error(), model.TaskID(drag.DraggableID)))
		}
		return err
	}

	fields := log.Fields{
		"intent":  intent.ID,
		"task_id": intent.TaskID,
		"from":    fmt.Sprintf("%s[%d]", intent.SourceColumn, intent.SourceIndex),
		"to":      fmt.Sprintf("%s[%d]", intent.DestinationColumn, intent.DestinationIndex),
	}
	if intent.SourceColumn == intent.DestinationColumn {
		log.WithFields(fields).Debug("task reordered")
		return nil
	}
	log.WithFields(fields).Info("task moved, confirming status")

	e.confirm(context.WithoutCancel(ctx), intent)
	return nil
}

func (e *Engine) confirm(ctx context.Context, intent MoveIntent) {
	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()

		outcome := Outcome{Intent: intent, Err: e.updateStatus(ctx, intent)}
		entry := log.WithFields(log.Fields{"intent": intent.ID, "task_id": intent.TaskID})
		if outcome.Err == nil {
			entry.Info("task status confirmed")
			e.notify(ctx, model.NewNotification(model.LevelSuccess, "Task status updated", intent.TaskID))
		} else {
			outcome.Reverted = e.rollback(intent)
			entry.WithError(outcome.Err).WithField("reverted", outcome.Reverted).Warn("task status update failed")
			e.notify(ctx, model.NewNotification(model.LevelError, "Could not move task, reverting", intent.TaskID))
		}

		e.mu.RLock()
		fn := e.onSettled
		e.mu.RUnlock()
		if fn != nil {
			fn(outcome)
		}
	}()
}

func (e *Engine) updateStatus(ctx context.Context, intent MoveIntent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("status update panicked: %v", r)
		}
	}()
	return e.api.UpdateTaskStatus(ctx, intent.TaskID, intent.DestinationColumn)
}

// rollback moves the task back using only the intent and the current
// partition, so moves made in the meantime are left alone. It reports
// whether anything was reverted.
func (e *Engine) rollback(intent MoveIntent) bool {
	reverted := false
	err := e.store.Update(func(p Partition) (Partition, error) {
		dst := p[intent.DestinationColumn]
		i := indexOf(dst, intent.TaskID)
		if i < 0 {
			return nil, nil
		}
		task := dst[i]
		p[intent.DestinationColumn] = removeAt(dst, i)
		task.Status = intent.StatusBeforeMove
		p[intent.SourceColumn] = insertAt(p[intent.SourceColumn], intent.SourceIndex, task)
		reverted = true
		return p, nil
	})
	if err != nil {
		log.WithField("intent", intent.ID).WithError(err).Error("rollback failed")
		return false
	}
	return reverted
}

// Reload replaces the board with the task list from the API. On failure the
// current board is kept.
func (e *Engine) Reload(ctx context.Context) error {
	tasks, err := e.api.ListTasks(ctx)
	if err != nil {
		log.WithError(err).Error("loading tasks failed")
		e.notify(ctx, model.NewNotification(model.LevelError, "Could not load tasks, please try again", ""))
		return fmt.Errorf("load tasks: %w", err)
	}
	e.store.Load(tasks)
	return nil
}

// TaskEdit is a task created or edited from the board. An empty ID creates
// a task in Status.
type TaskEdit struct {
	ID     model.TaskID
	Status model.Status
	Fields map[string]any
	// Restricted edits may only change the status and the observations.
	Restricted bool
}

// restrictedFields are the only fields a restricted edit sends.
var restrictedFields = []string{"observations"}

// SaveTask creates or edits a task through the API and then reloads the
// board. Nothing is applied locally before the API accepts the change. A
// failed reload after a successful save is reported but not returned.
func (e *Engine) SaveTask(ctx context.Context, edit TaskEdit) error {
	creating := edit.ID == ""
	if creating && edit.Status == "" {
		return fmt.Errorf("%w: status is required", ErrInvalidTask)
	}
	if edit.Status != "" {
		if _, ok := e.store.known[edit.Status]; !ok {
			return fmt.Errorf("%w: unknown column %q", ErrInvalidTask, edit.Status)
		}
	}
	if !creating {
		if _, _, ok := e.store.Locate(edit.ID); !ok {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, edit.ID)
		}
	}

	payload := edit.payload()
	entry := log.WithFields(log.Fields{"task_id": edit.ID, "status": edit.Status, "restricted": edit.Restricted})

	var err error
	if creating {
		err = e.api.CreateTask(ctx, payload)
	} else {
		err = e.api.UpdateTask(ctx, edit.ID, payload)
	}
	if err != nil {
		entry.WithError(err).Error("saving task failed")
		e.notify(ctx, model.NewNotification(model.LevelError, "Could not save task", edit.ID))
		return fmt.Errorf("save task: %w", err)
	}

	if creating {
		entry.Info("task created")
		e.notify(ctx, model.NewNotification(model.LevelSuccess, "Task created", ""))
	} else {
		entry.Info("task updated")
		e.notify(ctx, model.NewNotification(model.LevelSuccess, "Task updated", edit.ID))
	}

	if err := e.Reload(ctx); err != nil {
		entry.WithError(err).Warn("board not refreshed after save")
	}
	return nil
}

func (edit TaskEdit) payload() map[string]any {
	out := make(map[string]any, len(edit.Fields)+1)
	if edit.Restricted && edit.ID != "" {
		for _, k := range restrictedFields {
			if v, ok := edit.Fields[k]; ok {
				out[k] = v
			}
		}
	} else {
		for k, v := range edit.Fields {
			if k == "id" {
				continue
			}
			out[k] = v
		}
	}
	if edit.Status != "" {
		out["status"] = edit.Status
	} else {
		delete(out, "status")
	}
	return out
}

// DeleteTask deletes the task through the API and, once that succeeds,
// takes it off the board.
func (e *Engine) DeleteTask(ctx context.Context, id model.TaskID) error {
	if _, _, ok := e.store.Locate(id); !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if err := e.api.DeleteTask(ctx, id); err != nil {
		log.WithField("task_id", id).WithError(err).Error("deleting task failed")
		e.notify(ctx, model.NewNotification(model.LevelError, "Could not delete task", id))
		return fmt.Errorf("delete task %s: %w", id, err)
	}

	err := e.store.Update(func(p Partition) (Partition, error) {
		status, i, ok := p.Locate(id)
		if !ok {
			return nil, nil
		}
		p[status] = removeAt(p[status], i)
		return p, nil
	})
	if err != nil {
		return err
	}
	e.notify(ctx, model.NewNotification(model.LevelSuccess, "Task deleted", id))
	return nil
}

func (e *Engine) notify(ctx context.Context, n model.Notification) {
	if e.notifier != nil {
		e.notifier.Notify(ctx, n)
	}
}
