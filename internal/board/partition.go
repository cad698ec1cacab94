package board

import "workboard/internal/model"

// Partition maps every column key to the ordered tasks shown in that column.
type Partition map[model.Status][]model.Task

// Clone deep-copies the partition so callers can mutate it freely.
func (p Partition) Clone() Partition {
	c := make(Partition, len(p))
	for status, tasks := range p {
		cp := make([]model.Task, len(tasks))
		for i, t := range tasks {
			cp[i] = t.Clone()
		}
		c[status] = cp
	}
	return c
}

// Locate returns the column and index holding the task with the given id.
func (p Partition) Locate(id model.TaskID) (model.Status, int, bool) {
	for status, tasks := range p {
		if i := indexOf(tasks, id); i >= 0 {
			return status, i, true
		}
	}
	return "", -1, false
}

// Len is the number of tasks across all columns.
func (p Partition) Len() int {
	n := 0
	for _, tasks := range p {
		n += len(tasks)
	}
	return n
}

func indexOf(tasks []model.Task, id model.TaskID) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// removeAt returns a new slice without the element at i.
func removeAt(tasks []model.Task, i int) []model.Task {
	out := make([]model.Task, 0, len(tasks)-1)
	out = append(out, tasks[:i]...)
	return append(out, tasks[i+1:]...)
}

// insertAt returns a new slice with task placed at i. An index past the end appends.
func insertAt(tasks []model.Task, i int, task model.Task) []model.Task {
	if i > len(tasks) {
		i = len(tasks)
	}
	out := make([]model.Task, 0, len(tasks)+1)
	out = append(out, tasks[:i]...)
	out = append(out, task)
	return append(out, tasks[i:]...)
}
