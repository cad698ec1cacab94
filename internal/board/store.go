package board

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"workboard/internal/model"
)

// ChangeFunc is called after every installed partition with the new version
// and a snapshot. Calls arrive one at a time in version order. A ChangeFunc
// must not write to the store it is registered on.
type ChangeFunc func(version uint64, snapshot Partition)

// Store holds the partition the renderer draws. Writes replace the whole
// partition; nothing mutates a single task in place.
type Store struct {
	mu        sync.RWMutex
	columns   []model.Status
	known     map[model.Status]struct{}
	partition Partition
	version   uint64

	hooksMu sync.RWMutex
	hooks   []ChangeFunc

	// delivered is the last version handed to the hooks.
	deliverMu sync.Mutex
	deliverCv *sync.Cond
	delivered uint64
}

func NewStore(columns []model.Status) *Store {
	s := &Store{
		columns: append([]model.Status(nil), columns...),
		known:   make(map[model.Status]struct{}, len(columns)),
	}
	for _, c := range columns {
		s.known[c] = struct{}{}
	}
	s.partition = s.empty()
	s.deliverCv = sync.NewCond(&s.deliverMu)
	return s
}

func (s *Store) empty() Partition {
	p := make(Partition, len(s.columns))
	for _, c := range s.columns {
		p[c] = []model.Task{}
	}
	return p
}

// Columns returns the column keys in display order.
func (s *Store) Columns() []model.Status {
	return append([]model.Status(nil), s.columns...)
}

// OnChange registers fn to run after each change.
func (s *Store) OnChange(fn ChangeFunc) {
	s.hooksMu.Lock()
	s.hooks = append(s.hooks, fn)
	s.hooksMu.Unlock()
}

// Partition returns a snapshot of the current partition.
func (s *Store) Partition() Partition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.partition.Clone()
}

// Snapshot returns the partition together with the version it belongs to.
func (s *Store) Snapshot() (Partition, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.partition.Clone(), s.version
}

func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Locate finds the column and index of a task in the current partition.
func (s *Store) Locate(id model.TaskID) (model.Status, int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.partition.Locate(id)
}

// SetPartition replaces the partition wholesale. Last write wins.
func (s *Store) SetPartition(next Partition) error {
	return s.Update(func(Partition) (Partition, error) {
		return next.Clone(), nil
	})
}

// Load resets the board from a task list, grouping by status. Tasks whose
// status is not a board column are left off the board.
func (s *Store) Load(tasks []model.Task) {
	next := s.empty()
	seen := make(map[model.TaskID]struct{}, len(tasks))
	dropped := 0
	for _, t := range tasks {
		if _, ok := s.known[t.Status]; !ok {
			dropped++
			log.WithFields(log.Fields{"task_id": t.ID, "status": t.Status}).Debug("task status is not a board column, skipping")
			continue
		}
		if _, dup := seen[t.ID]; dup {
			log.WithField("task_id", t.ID).Warn("duplicate task in task list, keeping the first")
			continue
		}
		seen[t.ID] = struct{}{}
		next[t.Status] = append(next[t.Status], t.Clone())
	}

	s.mu.Lock()
	s.partition = next
	s.version++
	version, snapshot := s.version, next.Clone()
	s.mu.Unlock()

	log.WithFields(log.Fields{"tasks": len(seen), "dropped": dropped}).Info("board loaded")
	s.notify(version, snapshot)
}

// Update applies fn to a copy of the current partition and installs the
// result atomically. Returning a nil partition leaves the store untouched.
func (s *Store) Update(fn func(Partition) (Partition, error)) error {
	s.mu.Lock()
	next, err := fn(s.partition.Clone())
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if next == nil {
		s.mu.Unlock()
		return nil
	}
	if err := s.validate(next); err != nil {
		s.mu.Unlock()
		return err
	}
	for _, c := range s.columns {
		if next[c] == nil {
			next[c] = []model.Task{}
		}
	}
	s.partition = next
	s.version++
	version, snapshot := s.version, next.Clone()
	s.mu.Unlock()

	s.notify(version, snapshot)
	return nil
}

func (s *Store) validate(p Partition) error {
	seen := make(map[model.TaskID]model.Status, p.Len())
	for status, tasks := range p {
		if _, ok := s.known[status]; !ok {
			return fmt.Errorf("%w: unknown column %q", ErrInvalidPartition, status)
		}
		for _, t := range tasks {
			if other, dup := seen[t.ID]; dup {
				return fmt.Errorf("%w: task %s appears in %q and %q", ErrInvalidPartition, t.ID, other, status)
			}
			seen[t.ID] = status
		}
	}
	return nil
}

// notify runs the hooks for version once every earlier version has been
// delivered. Writers do not hold the partition lock while waiting.
func (s *Store) notify(version uint64, snapshot Partition) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	for s.delivered != version-1 {
		s.deliverCv.Wait()
	}
	defer func() {
		s.delivered = version
		s.deliverCv.Broadcast()
	}()

	s.hooksMu.RLock()
	hooks := append([]ChangeFunc(nil), s.hooks...)
	s.hooksMu.RUnlock()
	for _, fn := range hooks {
		fn(version, snapshot)
	}
}
