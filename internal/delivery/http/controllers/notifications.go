package controllers

import (
	"CliniGoal/internal/delivery/http/controllers/middleware"
	"CliniGoal/internal/notify"
	"CliniGoal/pkg/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NotificationBus interface {
	Active(userID uuid.UUID) []notify.Notification
	Dismiss(userID uuid.UUID, id int64)
}

type NotificationHandler struct {
	log logger.Log
	bus NotificationBus
}

func NewNotificationHandler(l logger.Log, bus NotificationBus) *NotificationHandler {
	return &NotificationHandler{
		log: l,
		bus: bus,
	}
}

// Active returns the caller's not-yet-expired transient notifications.
// Expired ones are dropped server side; clients only ever poll.
func (h *NotificationHandler) Active(c *gin.Context) {
	userID, ok := middleware.ClientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": h.bus.Active(userID)})
}

func (h *NotificationHandler) Dismiss(c *gin.Context) {
	userID, ok := middleware.ClientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, err := strconv.ParseInt(c.Param("notification_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification_id"})
		return
	}
	h.bus.Dismiss(userID, id)
	c.JSON(http.StatusOK, gin.H{"message": "dismissed"})
}
