package handler

import (
	"io"
	"net/http"
	"time"

	"mingle/backend/internal/database"
	"mingle/backend/internal/models"
	"mingle/backend/internal/presence"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

// NotificationResponse is the wire form of a notification.
type NotificationResponse struct {
	ID         uint                    `json:"id"`
	Type       models.NotificationType `json:"type"`
	Sender     PublicUserResponse      `json:"sender"`
	ActivityID *uint                   `json:"activity_id,omitempty"`
	Read       bool                    `json:"read"`
	CreatedAt  time.Time               `json:"created_at"`
}

func newNotificationResponse(n models.Notification, sender models.User) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		Type:       n.Type,
		Sender:     buildPublicUserResponse(sender),
		ActivityID: n.ActivityID,
		Read:       n.Read,
		CreatedAt:  n.CreatedAt,
	}
}

// endregion

// ListNotifications godoc
// @Summary      List notifications
// @Description  Returns the caller's notifications, newest first, paginated.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[NotificationResponse]
// @Router       /notifications [get]
func ListNotifications(c *gin.Context) {
	viewerID := currentUserID(c)
	page, limit := parsePagination(c)

	var total int64
	if err := database.DB.Model(&models.Notification{}).
		Where("receiver_id = ?", viewerID).
		Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	var notifications []models.Notification
	if err := database.DB.
		Where("receiver_id = ?", viewerID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	responses := []NotificationResponse{}
	for _, n := range notifications {
		var sender models.User
		if err := database.DB.First(&sender, n.SenderID).Error; err != nil {
			continue
		}
		responses = append(responses, newNotificationResponse(n, sender))
	}

	c.JSON(http.StatusOK, PaginatedResponse[NotificationResponse]{
		Data:       responses,
		Pagination: NewPagination(page, limit, total),
	})
}

// GetNotification godoc
// @Summary      Get a notification
// @Description  Returns one of the caller's notifications and marks it read.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Notification ID"
// @Success      200  {object}  NotificationResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /notifications/{id} [get]
func GetNotification(c *gin.Context) {
	viewerID := currentUserID(c)
	notificationID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	var notification models.Notification
	if err := database.DB.
		Where("id = ? AND receiver_id = ?", notificationID, viewerID).
		First(&notification).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	if !notification.Read {
		if err := database.DB.Model(&notification).Update("read", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification as read"})
			return
		}
	}

	var sender models.User
	if err := database.DB.First(&sender, notification.SenderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sender no longer exists"})
		return
	}

	c.JSON(http.StatusOK, newNotificationResponse(notification, sender))
}

// MarkAllNotificationsRead godoc
// @Summary      Mark all notifications as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64 "{"marked": 3}"
// @Router       /notifications/read-all [post]
func MarkAllNotificationsRead(c *gin.Context) {
	viewerID := currentUserID(c)

	result := database.DB.Model(&models.Notification{}).
		Where("receiver_id = ? AND read = ?", viewerID, false).
		Update("read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked": result.RowsAffected})
}

// StreamNotifications godoc
// @Summary      Real-time notification stream
// @Description  Server-sent events stream of the caller's notifications. The connection registers the user as online.
// @Tags         notifications
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200
// @Router       /notifications/stream [get]
func StreamNotifications(c *gin.Context) {
	viewerID := currentUserID(c)

	client := make(presence.Client, 16)
	presence.Default.SetOnline(viewerID, client)
	defer presence.Default.ClearByConnection(client)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case message, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("notification", string(message))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// region --- Helpers ---

// emitNotification writes a notification row on the given transaction. A
// failure here must abort the caller's whole transaction, so the error is
// always propagated.
func emitNotification(tx *gorm.DB, receiverID, senderID uint, notificationType models.NotificationType, activityID *uint) error {
	notification := models.Notification{
		ReceiverID: receiverID,
		SenderID:   senderID,
		Type:       notificationType,
		ActivityID: activityID,
	}
	return tx.Create(&notification).Error
}

// pushNotification fans the event out to the receiver's open connections.
// Called only after the owning transaction has committed.
func pushNotification(receiverID, senderID uint, notificationType models.NotificationType, activityID *uint) {
	payload := gin.H{"sender_id": senderID}
	if activityID != nil {
		payload["activity_id"] = *activityID
	}
	presence.Default.Push(receiverID, presence.Event{
		Type:    string(notificationType),
		Payload: payload,
	})
}

// endregion
