package model

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/bytedance/sonic"
)

// codec keeps numbers as json.Number so opaque task fields survive a round trip untouched.
var codec = sonic.Config{UseNumber: true, EscapeHTML: true, SortMapKeys: true}.Froze()

var ErrMissingTaskID = errors.New("task id is missing")

// TaskID identifies a task. The task API hands out integer ids; other
// backends may use strings, so both are accepted and the id is kept as text.
type TaskID string

func (id TaskID) String() string {
	return string(id)
}

func (id TaskID) numeric() bool {
	if id == "" {
		return false
	}
	n, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil && strconv.FormatInt(n, 10) == string(id)
}

// MarshalJSON writes integer ids back as JSON numbers.
func (id TaskID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return codec.Marshal(string(id))
}

func (id *TaskID) UnmarshalJSON(data []byte) error {
	var v any
	if err := codec.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := taskIDFrom(v)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func taskIDFrom(v any) (TaskID, error) {
	switch val := v.(type) {
	case string:
		if val == "" {
			return "", ErrMissingTaskID
		}
		return TaskID(val), nil
	case json.Number:
		return TaskID(val.String()), nil
	case float64:
		return TaskID(strconv.FormatFloat(val, 'f', -1, 64)), nil
	case nil:
		return "", ErrMissingTaskID
	default:
		return "", errors.New("task id must be a number or a string")
	}
}

// Task is a card on the board. Only ID and Status are interpreted; every
// other attribute (description, team, work, employees, vehicle, deadline,
// observations...) is carried in Fields and passed through unchanged.
type Task struct {
	ID     TaskID
	Status Status
	Fields map[string]any
}

// Clone returns a copy that can be mutated without touching the original.
// Nested objects and arrays, as decoded from JSON, are copied too.
func (t Task) Clone() Task {
	c := Task{ID: t.ID, Status: t.Status}
	if t.Fields != nil {
		c.Fields = cloneObject(t.Fields)
	}
	return c
}

func cloneObject(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneObject(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

func (t Task) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Fields)+2)
	for k, v := range t.Fields {
		out[k] = v
	}
	out["id"] = t.ID
	out["status"] = t.Status
	return codec.Marshal(out)
}

func (t *Task) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := codec.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := taskIDFrom(raw["id"])
	if err != nil {
		return err
	}
	delete(raw, "id")

	var status Status
	if s, ok := raw["status"].(string); ok {
		status = Status(s)
	}
	delete(raw, "status")

	t.ID = id
	t.Status = status
	t.Fields = raw
	return nil
}
