package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"workboard/internal/board"
	"workboard/internal/client"
	"workboard/internal/middleware"
	"workboard/internal/model"
)

type BoardHandler struct {
	engine *board.Engine
}

func NewBoardHandler(engine *board.Engine) *BoardHandler {
	return &BoardHandler{engine: engine}
}

// LocationRequest is a column and a position inside it
type LocationRequest struct {
	ColumnID string `json:"column_id" binding:"required"`
	Index    *int   `json:"index" binding:"required,min=0"`
}

// DragEndRequest is what the board front-end sends when a card is dropped
type DragEndRequest struct {
	DraggableID string           `json:"draggable_id"`
	Source      LocationRequest  `json:"source"`
	Destination *LocationRequest `json:"destination"`
}

func (r DragEndRequest) toDragResult() board.DragResult {
	d := board.DragResult{
		DraggableID: r.DraggableID,
		Source:      board.Location{ColumnID: model.Status(r.Source.ColumnID), Index: *r.Source.Index},
	}
	if r.Destination != nil {
		d.Destination = &board.Location{ColumnID: model.Status(r.Destination.ColumnID), Index: *r.Destination.Index}
	}
	return d
}

// Get returns the current board
// @Summary      Current board
// @Tags         Board
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  board.View
// @Router       /board [get]
func (h *BoardHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Store().View())
}

// DragEnd applies a finished drag to the board
// @Summary      Move or reorder a task
// @Description  The board is updated immediately; a status change is confirmed with the task API in the background and reverted if it fails.
// @Tags         Board
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        drag  body      DragEndRequest  true  "Drag result"
// @Success      202   {object}  board.View
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /board/drag-end [post]
func (h *BoardHandler) DragEnd(c *gin.Context) {
	var req DragEndRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, _ := c.Get(middleware.UserIDKey)
	log.WithFields(log.Fields{"user_id": userID, "draggable_id": req.DraggableID}).Debug("drag end")

	if err := h.engine.OnDragEnd(c.Request.Context(), req.toDragResult()); err != nil {
		if errors.Is(err, board.ErrDesync) {
			c.JSON(http.StatusConflict, gin.H{"error": "Board is out of date, reload it", "detail": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move task"})
		return
	}

	c.JSON(http.StatusAccepted, h.engine.Store().View())
}

// Reload fetches all tasks from the task API again
// @Summary      Reload the board
// @Tags         Board
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  board.View
// @Failure      502  {object}  map[string]string
// @Router       /board/reload [post]
func (h *BoardHandler) Reload(c *gin.Context) {
	if err := h.engine.Reload(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load tasks"})
		return
	}
	c.JSON(http.StatusOK, h.engine.Store().View())
}

// bindTaskFields reads a flat task object and pulls out its status
func bindTaskFields(c *gin.Context) (map[string]any, model.Status, bool) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil || fields == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return nil, "", false
	}
	var status model.Status
	if raw, ok := fields["status"]; ok {
		str, isString := raw.(string)
		if !isString {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be a column key"})
			return nil, "", false
		}
		status = model.Status(str)
	}
	return fields, status, true
}

func (h *BoardHandler) saveTask(c *gin.Context, edit board.TaskEdit, okStatus int) {
	if err := h.engine.SaveTask(c.Request.Context(), edit); err != nil {
		var apiErr *client.APIError
		switch {
		case errors.Is(err, board.ErrInvalidTask):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task", "detail": err.Error()})
		case errors.Is(err, board.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Task rejected by the task API", "detail": apiErr.Body})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save task"})
		}
		return
	}
	c.JSON(okStatus, h.engine.Store().View())
}

// CreateTask creates a task in a column
// @Summary      Create a task
// @Description  The task is created through the task API and the board is reloaded.
// @Tags         Board
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        task  body      map[string]interface{}  true  "Task fields, status is the column key"
// @Success      201   {object}  board.View
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /board/tasks [post]
func (h *BoardHandler) CreateTask(c *gin.Context) {
	fields, status, ok := bindTaskFields(c)
	if !ok {
		return
	}
	if status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}
	h.saveTask(c, board.TaskEdit{Status: status, Fields: fields}, http.StatusCreated)
}

// UpdateTask edits a task. Users who are not superusers may only change
// the status and the observations.
// @Summary      Edit a task
// @Tags         Board
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Task ID"
// @Param        task  body      map[string]interface{}  true  "Fields to change"
// @Success      200   {object}  board.View
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /board/tasks/{id} [patch]
func (h *BoardHandler) UpdateTask(c *gin.Context) {
	fields, status, ok := bindTaskFields(c)
	if !ok {
		return
	}
	edit := board.TaskEdit{
		ID:         model.TaskID(c.Param("id")),
		Status:     status,
		Fields:     fields,
		Restricted: !c.GetBool(middleware.SuperuserKey),
	}
	h.saveTask(c, edit, http.StatusOK)
}

// DeleteTask deletes a task and takes it off the board
// @Summary      Delete a task
// @Tags         Board
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /board/tasks/{id} [delete]
func (h *BoardHandler) DeleteTask(c *gin.Context) {
	id := model.TaskID(c.Param("id"))

	if err := h.engine.DeleteTask(c.Request.Context(), id); err != nil {
		if errors.Is(err, board.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
