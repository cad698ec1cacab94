package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workboard/internal/model"
)

func TestTask_UnmarshalKeepsOpaqueFields(t *testing.T) {
	payload := `{"id":7,"status":"a_fazer","description":"Trocar poste","team":{"name":"Equipe A"},"employee_ids":[1,2],"vehicle_id":null}`

	var task model.Task
	err := json.Unmarshal([]byte(payload), &task)

	require.NoError(t, err)
	assert.Equal(t, model.TaskID("7"), task.ID)
	assert.Equal(t, model.StatusToDo, task.Status)
	assert.Equal(t, "Trocar poste", task.Fields["description"])
	assert.NotContains(t, task.Fields, "id")
	assert.NotContains(t, task.Fields, "status")

	out, err := json.Marshal(task)
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(out))
}

func TestTask_StringID(t *testing.T) {
	var task model.Task
	require.NoError(t, json.Unmarshal([]byte(`{"id":"T-12","status":"concluida"}`), &task))

	out, err := json.Marshal(task)

	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"T-12","status":"concluida"}`, string(out))
}

func TestTask_MissingID(t *testing.T) {
	var task model.Task

	err := json.Unmarshal([]byte(`{"status":"a_fazer"}`), &task)

	assert.ErrorIs(t, err, model.ErrMissingTaskID)
}

func TestTaskID_LeadingZerosStayText(t *testing.T) {
	out, err := json.Marshal(model.TaskID("007"))

	require.NoError(t, err)
	assert.Equal(t, `"007"`, string(out))
}

func TestTask_CloneDoesNotShareFields(t *testing.T) {
	orig := model.Task{ID: "1", Status: model.StatusDone, Fields: map[string]any{"observations": "ok"}}

	c := orig.Clone()
	c.Fields["observations"] = "changed"

	assert.Equal(t, "ok", orig.Fields["observations"])
}

func TestTask_CloneCopiesNestedFields(t *testing.T) {
	orig := model.Task{ID: "1", Status: model.StatusToDo, Fields: map[string]any{
		"team":      map[string]any{"id": 3, "name": "Equipe A"},
		"employees": []any{map[string]any{"id": 1}},
	}}

	c := orig.Clone()
	c.Fields["team"].(map[string]any)["name"] = "Equipe B"
	c.Fields["employees"].([]any)[0].(map[string]any)["id"] = 2

	assert.Equal(t, "Equipe A", orig.Fields["team"].(map[string]any)["name"])
	assert.Equal(t, 1, orig.Fields["employees"].([]any)[0].(map[string]any)["id"])
}

func TestStatus_Title(t *testing.T) {
	assert.Equal(t, "Em Andamento", model.StatusInProgress.Title())
	assert.Equal(t, "A Fazer", model.StatusToDo.Title())
	assert.Equal(t, "Done", model.Status("done").Title())
	assert.Equal(t, "Última Etapa", model.Status("última_etapa").Title())
	assert.Equal(t, "Ônibus", model.Status("ônibus").Title())
}

func TestParseColumns(t *testing.T) {
	cols := model.ParseColumns(" to_do, in_progress,,done ")

	assert.Equal(t, []model.Status{"to_do", "in_progress", "done"}, cols)
}
