package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"workboard/internal/notify"
)

const maxNotificationLimit = 200

type NotificationHandler struct {
	lister notify.Lister
}

func NewNotificationHandler(lister notify.Lister) *NotificationHandler {
	return &NotificationHandler{lister: lister}
}

// List returns the latest notifications, newest first
// @Summary      Recent notifications
// @Tags         Notifications
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum number of notifications"
// @Success      200    {array}   model.Notification
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxNotificationLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	items, err := h.lister.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}

	c.JSON(http.StatusOK, items)
}
