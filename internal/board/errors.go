package board

import "errors"

var (
	// ErrDesync means the drag event does not match what the store holds:
	// the renderer and the store have diverged.
	ErrDesync = errors.New("board out of sync")

	// ErrInvalidPartition is returned when a partition breaks the one-column-per-task rule
	// or names a column the board does not have.
	ErrInvalidPartition = errors.New("invalid partition")

	ErrTaskNotFound = errors.New("task not on board")
	ErrInvalidTask  = errors.New("invalid task")
)
