package board_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workboard/internal/board"
	"workboard/internal/model"
)

const (
	toDo       model.Status = "to_do"
	inProgress model.Status = "in_progress"
	done       model.Status = "done"
	cancelled  model.Status = "cancelled"
)

var testColumns = []model.Status{toDo, inProgress, done, cancelled}

func task(id string, status model.Status) model.Task {
	return model.Task{ID: model.TaskID(id), Status: status, Fields: map[string]any{"description": "task " + id}}
}

func tasks(ts ...model.Task) []model.Task {
	if ts == nil {
		return []model.Task{}
	}
	return ts
}

func TestStore_NewStoreHasEmptyColumns(t *testing.T) {
	store := board.NewStore(testColumns)

	p := store.Partition()

	assert.Len(t, p, len(testColumns))
	for _, c := range testColumns {
		assert.NotNil(t, p[c])
		assert.Empty(t, p[c])
	}
	assert.Equal(t, uint64(0), store.Version())
}

func TestStore_LoadGroupsByStatus(t *testing.T) {
	// Arrange
	store := board.NewStore(testColumns)

	// Act
	store.Load([]model.Task{
		task("1", toDo),
		task("2", done),
		task("3", toDo),
		task("4", "archived"),
	})

	// Assert
	p := store.Partition()
	assert.Equal(t, tasks(task("1", toDo), task("3", toDo)), p[toDo])
	assert.Equal(t, tasks(task("2", done)), p[done])
	assert.Equal(t, tasks(), p[inProgress])
	assert.Equal(t, 3, p.Len())
	_, _, found := store.Locate("4")
	assert.False(t, found, "task with unknown status must not be on the board")
}

func TestStore_LoadSkipsDuplicateIDs(t *testing.T) {
	store := board.NewStore(testColumns)

	store.Load([]model.Task{task("1", toDo), task("1", done)})

	p := store.Partition()
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, tasks(task("1", toDo)), p[toDo])
}

func TestStore_PartitionIsSnapshot(t *testing.T) {
	store := board.NewStore(testColumns)
	store.Load([]model.Task{task("1", toDo)})

	p := store.Partition()
	p[toDo][0].Status = done
	p[toDo][0].Fields["description"] = "changed"
	p[done] = append(p[done], task("9", done))

	again := store.Partition()
	assert.Equal(t, tasks(task("1", toDo)), again[toDo])
	assert.Empty(t, again[done])
}

func TestStore_SetPartitionReplacesWholesale(t *testing.T) {
	store := board.NewStore(testColumns)
	store.Load([]model.Task{task("1", toDo), task("2", toDo)})

	err := store.SetPartition(board.Partition{done: tasks(task("2", done))})

	require.NoError(t, err)
	p := store.Partition()
	assert.Equal(t, tasks(), p[toDo])
	assert.Equal(t, tasks(task("2", done)), p[done])
	assert.Len(t, p, len(testColumns), "missing columns are filled in")
}

func TestStore_SetPartitionRejectsDuplicates(t *testing.T) {
	store := board.NewStore(testColumns)
	store.Load([]model.Task{task("1", toDo)})
	before := store.Partition()

	err := store.SetPartition(board.Partition{
		toDo: tasks(task("1", toDo)),
		done: tasks(task("1", done)),
	})

	assert.ErrorIs(t, err, board.ErrInvalidPartition)
	assert.Equal(t, before, store.Partition())
}

func TestStore_SetPartitionRejectsUnknownColumn(t *testing.T) {
	store := board.NewStore(testColumns)

	err := store.SetPartition(board.Partition{"archived": tasks(task("1", "archived"))})

	assert.ErrorIs(t, err, board.ErrInvalidPartition)
	assert.Equal(t, uint64(0), store.Version())
}

func TestStore_OnChangeReceivesEveryVersion(t *testing.T) {
	store := board.NewStore(testColumns)
	var versions []uint64
	var last board.Partition
	store.OnChange(func(v uint64, p board.Partition) {
		versions = append(versions, v)
		last = p
	})

	store.Load([]model.Task{task("1", toDo)})
	require.NoError(t, store.SetPartition(board.Partition{done: tasks(task("1", done))}))

	assert.Equal(t, []uint64{1, 2}, versions)
	assert.Equal(t, tasks(task("1", done)), last[done])
}

func TestStore_OnChangeDeliversInVersionOrder(t *testing.T) {
	store := board.NewStore(testColumns)

	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var delivered []uint64
	store.OnChange(func(v uint64, _ board.Partition) {
		if v == 1 {
			close(entered)
			<-release
		}
		mu.Lock()
		delivered = append(delivered, v)
		mu.Unlock()
	})

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		store.Load([]model.Task{task("1", toDo)})
	}()
	<-entered

	secondDone := make(chan struct{})
	go func() {
		defer close(secondDone)
		assert.NoError(t, store.Update(func(p board.Partition) (board.Partition, error) {
			p[done] = append(p[done], task("2", done))
			return p, nil
		}))
	}()

	// The second write is installed while the first hook is still running,
	// but its own delivery waits.
	assert.Eventually(t, func() bool { return store.Version() == 2 }, time.Second, 5*time.Millisecond)
	select {
	case <-secondDone:
		t.Fatal("version 2 delivered before version 1")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-firstDone
	<-secondDone

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []uint64{1, 2}, delivered)
}

func TestStore_UpdateWithNilLeavesStateAlone(t *testing.T) {
	store := board.NewStore(testColumns)
	store.Load([]model.Task{task("1", toDo)})
	calls := 0
	store.OnChange(func(uint64, board.Partition) { calls++ })

	err := store.Update(func(board.Partition) (board.Partition, error) { return nil, nil })

	assert.NoError(t, err)
	assert.Equal(t, uint64(1), store.Version())
	assert.Zero(t, calls)
}

func TestStore_Locate(t *testing.T) {
	store := board.NewStore(testColumns)
	store.Load([]model.Task{task("1", toDo), task("2", done), task("3", done)})

	status, index, ok := store.Locate("3")

	assert.True(t, ok)
	assert.Equal(t, done, status)
	assert.Equal(t, 1, index)
}
