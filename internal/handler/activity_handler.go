package handler

import (
	"net/http"

	"mingle/backend/internal/database"
	"mingle/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// region --- DTOs ---

// ActivityInput defines the fields for creating or updating an activity.
type ActivityInput struct {
	Name          string   `json:"name" binding:"required"`
	Category      string   `json:"category"`
	Venue         string   `json:"venue"`
	Note          string   `json:"note"`
	Date          string   `json:"date"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	Latitude      *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude     *float64 `json:"longitude" binding:"required,min=-180,max=180"`
	Address       string   `json:"address"`
	MaximumGuests *int     `json:"maximum_guests" binding:"required,min=1"`
	IsPrivate     bool     `json:"is_private"`
}

// ActivityRequestActionInput carries the host's decision on a pending attendance request.
type ActivityRequestActionInput struct {
	UserID uint   `json:"user_id" binding:"required"`
	Action string `json:"action" binding:"required" example:"accept"`
}

// InviteInput names the friend to invite to an activity.
type InviteInput struct {
	ReceiverID uint `json:"receiver_id" binding:"required"`
}

// ActivityResponse is the wire form of an activity.
type ActivityResponse struct {
	ID            uint               `json:"id"`
	Name          string             `json:"name"`
	Category      string             `json:"category"`
	Venue         string             `json:"venue"`
	Note          string             `json:"note"`
	Date          string             `json:"date"`
	StartTime     string             `json:"start_time"`
	EndTime       string             `json:"end_time"`
	Latitude      float64            `json:"latitude"`
	Longitude     float64            `json:"longitude"`
	Address       string             `json:"address"`
	MaximumGuests int                `json:"maximum_guests"`
	IsPrivate     bool               `json:"is_private"`
	AttendeeCount int                `json:"attendee_count"`
	Host          PublicUserResponse `json:"host"`
}

func newActivityResponse(activity models.Activity, host models.User) ActivityResponse {
	return ActivityResponse{
		ID:            activity.ID,
		Name:          activity.Name,
		Category:      activity.Category,
		Venue:         activity.Venue,
		Note:          activity.Note,
		Date:          activity.Date,
		StartTime:     activity.StartTime,
		EndTime:       activity.EndTime,
		Latitude:      activity.Latitude,
		Longitude:     activity.Longitude,
		Address:       activity.Address,
		MaximumGuests: activity.MaximumGuests,
		IsPrivate:     activity.IsPrivate,
		AttendeeCount: activity.AttendeeCount,
		Host:          buildPublicUserResponse(host),
	}
}

// endregion

// CreateActivity godoc
// @Summary      Create a new activity
// @Description  Creates an activity hosted by the caller and notifies the host's friends. The host is never part of the attendee or request lists.
// @Tags         activities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ActivityInput true "Activity Info"
// @Success      201  {object}  ActivityResponse
// @Failure      400  {object}  ErrorResponse "Missing or non-numeric geo/capacity fields"
// @Router       /activities [post]
func CreateActivity(c *gin.Context) {
	viewerID := currentUserID(c)

	var input ActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var host models.User
	if err := database.DB.First(&host, viewerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	activity := models.Activity{
		HostID:        viewerID,
		Name:          input.Name,
		Category:      input.Category,
		Venue:         input.Venue,
		Note:          input.Note,
		Date:          input.Date,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		Latitude:      *input.Latitude,
		Longitude:     *input.Longitude,
		Address:       input.Address,
		MaximumGuests: *input.MaximumGuests,
		IsPrivate:     input.IsPrivate,
	}

	friends, err := friendIDs(viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	tx := database.DB.Begin()
	if err := tx.Create(&activity).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create activity"})
		return
	}

	// Friends hear about the new activity; the rows ride the same
	// transaction as the activity itself.
	for _, friendID := range friends {
		if err := emitNotification(tx, friendID, viewerID, models.NotificationNewActivity, &activity.ID); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
			return
		}
	}
	tx.Commit()

	for _, friendID := range friends {
		pushNotification(friendID, viewerID, models.NotificationNewActivity, &activity.ID)
	}

	c.JSON(http.StatusCreated, newActivityResponse(activity, host))
}

// GetActivityByID godoc
// @Summary      Get an activity by ID
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Activity ID"
// @Success      200 {object} ActivityResponse
// @Failure      404 {object} ErrorResponse "Activity not found"
// @Router       /activities/{id} [get]
func GetActivityByID(c *gin.Context) {
	activityID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity ID"})
		return
	}

	var activity models.Activity
	if err := database.DB.Preload("Host").First(&activity, activityID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		return
	}

	c.JSON(http.StatusOK, newActivityResponse(activity, activity.Host))
}

// UpdateActivity godoc
// @Summary      Update an activity (Host only)
// @Tags         activities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int           true  "Activity ID"
// @Param        input body      ActivityInput true  "New Activity Info"
// @Success      200   {object}  ActivityResponse
// @Failure      403   {object}  ErrorResponse "Only the host can update the activity"
// @Failure      404   {object}  ErrorResponse "Activity not found"
// @Failure      409   {object}  ErrorResponse "Capacity below current attendance"
// @Router       /activities/{id} [put]
func UpdateActivity(c *gin.Context) {
	viewerID := currentUserID(c)
	activityID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity ID"})
		return
	}

	var activity models.Activity
	if err := database.DB.First(&activity, activityID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		return
	}

	if activity.HostID != viewerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can update the activity"})
		return
	}

	var input ActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if *input.MaximumGuests < activity.AttendeeCount {
		c.JSON(http.StatusConflict, gin.H{"error": "Capacity cannot drop below current attendance"})
		return
	}

	activity.Name = input.Name
	activity.Category = input.Category
	activity.Venue = input.Venue
	activity.Note = input.Note
	activity.Date = input.Date
	activity.StartTime = input.StartTime
	activity.EndTime = input.EndTime
	activity.Latitude = *input.Latitude
	activity.Longitude = *input.Longitude
	activity.Address = input.Address
	activity.MaximumGuests = *input.MaximumGuests
	activity.IsPrivate = input.IsPrivate

	if err := database.DB.Save(&activity).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update activity"})
		return
	}

	var host models.User
	database.DB.First(&host, activity.HostID)
	c.JSON(http.StatusOK, newActivityResponse(activity, host))
}

// DeleteActivity godoc
// @Summary      Delete an activity (Host only)
// @Description  Removes the activity along with its attendee rows, pending requests, and related notifications.
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Activity ID"
// @Success      200 {object} map[string]string "{"message": "Activity deleted"}"
// @Failure      403 {object} ErrorResponse "Only the host can delete the activity"
// @Failure      404 {object} ErrorResponse "Activity not found"
// @Router       /activities/{id} [delete]
func DeleteActivity(c *gin.Context) {
	viewerID := currentUserID(c)
	activityID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity ID"})
		return
	}

	var activity models.Activity
	if err := database.DB.First(&activity, activityID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		return
	}

	if activity.HostID != viewerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can delete the activity"})
		return
	}

	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", activityID).Delete(&models.ActivityAttendee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("activity_id = ?", activityID).Delete(&models.ActivityRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("activity_id = ?", activityID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&activity).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Activity deleted"})
}

// AttendActivity godoc
// @Summary      Attend an activity
// @Description  Joins a public activity directly (capacity permitting) or files an attendance request against a private one. Capacity for private activities is enforced at acceptance, not request time.
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Activity ID"
// @Success      200 {object} map[string]string "{"message": "..."}"
// @Failure      400 {object} ErrorResponse "Host cannot attend their own activity"
// @Failure      404 {object} ErrorResponse "Activity not found"
// @Failure      409 {object} ErrorResponse "Already attending, already requested, blocked, or activity full"
// @Router       /activities/{id}/attend [post]
func AttendActivity(c *gin.Context) {
	viewerID := currentUserID(c)
	activityID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity ID"})
		return
	}

	var activity models.Activity
	if err := database.DB.First(&activity, activityID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		return
	}

	if activity.HostID == viewerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Host cannot attend their own activity"})
		return
	}

	blocked, err := blockExistsEitherDirection(viewerID, activity.HostID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check blocks"})
		return
	}
	if blocked {
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot attend this activity"})
		return
	}

	var attendingCount int64
	if err := database.DB.Model(&models.ActivityAttendee{}).
		Where("activity_id = ? AND user_id = ?", activityID, viewerID).
		Count(&attendingCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check attendance"})
		return
	}
	if attendingCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Already attending"})
		return
	}

	if activity.IsPrivate {
		var requestedCount int64
		if err := database.DB.Model(&models.ActivityRequest{}).
			Where("activity_id = ? AND user_id = ?", activityID, viewerID).
			Count(&requestedCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check requests"})
			return
		}
		if requestedCount > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Request already pending"})
			return
		}

		request := models.ActivityRequest{ActivityID: activityID, UserID: viewerID}
		if err := database.DB.Create(&request).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create attendance request"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Attendance requested"})
		return
	}

	// Public: the capacity check and the increment are one conditional
	// UPDATE so concurrent joins cannot oversell the activity.
	tx := database.DB.Begin()
	result := tx.Model(&models.Activity{}).
		Where("id = ? AND attendee_count < maximum_guests", activityID).
		UpdateColumn("attendee_count", gorm.Expr("attendee_count + 1"))
	if result.Error != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join activity"})
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Activity is full"})
		return
	}
	attendee := models.ActivityAttendee{ActivityID: activityID, UserID: viewerID}
	if err := tx.Create(&attendee).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join activity"})
		return
	}
	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Joined activity"})
}

// CancelAttendance godoc
// @Summary      Leave an activity
// @Description  Removes the caller from the attendee list. Calling it when not attending is a successful no-op.
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Activity ID"
// @Success      200 {object} map[string]string "{"message": "Attendance cancelled"}"
// @Failure      404 {object} ErrorResponse "Activity not found"
// @Router       /activities/{id}/attend [delete]
func CancelAttendance(c *gin.Context) {
	viewerID := currentUserID(c)
	activityID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity ID"})
		return
	}

	var activity models.Activity
	if err := database.DB.First(&activity, activityID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		return
	}

	tx := database.DB.Begin()
	result := tx.Where("activity_id = ? AND user_id = ?", activityID, viewerID).
		Delete(&models.ActivityAttendee{})
	if result.Error != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel attendance"})
		return
	}
	if result.RowsAffected > 0 {
		if err := tx.Model(&models.Activity{}).
			Where("id = ?", activityID).
			UpdateColumn("attendee_count", gorm.Expr("attendee_count - 1")).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel attendance"})
			return
		}
	}
	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Attendance cancelled"})
}

// CancelAttendanceRequest godoc
// @Summary      Withdraw an attendance request
// @Description  Removes the caller's pending request against a private activity. A successful no-op if no request exists.
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Activity ID"
// @Success      200 {object} map[string]string "{"message": "Request cancelled"}"
// @Failure      404 {object} ErrorResponse "Activity not found"
// @Router       /activities/{id}/request [delete]
func CancelAttendanceRequest(c *gin.Context) {
	viewerID := currentUserID(c)
	activityID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity ID"})
		return
	}

	var activity models.Activity
	if err := database.DB.First(&activity, activityID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		return
	}

	if err := database.DB.
		Where("activity_id = ? AND user_id = ?", activityID, viewerID).
		Delete(&models.ActivityRequest{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request cancelled"})
}

// GetActivityRequests godoc
// @Summary      List attendance requests (Host only)
// @Tags         activities
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int true  "Activity ID"
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[PublicUserResponse]
// @Failure      403 {object} ErrorResponse "Only the host can view requests"
// @Failure      404 {object} ErrorResponse "Activity not found"
// @Router       /activities/{id}/requests [get]
func GetActivityRequests(c *gin.Context) {
	viewerID := currentUserID(c)
	activityID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity ID"})
		return
	}
	page, limit := parsePagination(c)

	var activity models.Activity
	if err := database.DB.First(&activity, activityID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		return
	}

	if activity.HostID != viewerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can view requests"})
		return
	}

	var total int64
	if err := database.DB.Model(&models.ActivityRequest{}).
		Where("activity_id = ?", activityID).
		Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count requests"})
		return
	}

	var requests []models.ActivityRequest
	if err := database.DB.
		Where("activity_id = ?", activityID).
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}

	requesterResponses := []PublicUserResponse{}
	for _, request := range requests {
		var requester models.User
		if err := database.DB.First(&requester, request.UserID).Error; err != nil {
			continue
		}
		requesterResponses = append(requesterResponses, buildPublicUserResponse(requester))
	}

	c.JSON(http.StatusOK, PaginatedResponse[PublicUserResponse]{
		Data:       requesterResponses,
		Pagination: NewPagination(page, limit, total),
	})
}

// RespondToActivityRequest godoc
// @Summary      Accept or reject an attendance request (Host only)
// @Description  Accepting moves the user from the request list to the attendee list. The capacity check happens inside the same transaction as the increment, so a full activity rejects the accept with a conflict.
// @Tags         activities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                        true "Activity ID"
// @Param        input body      ActivityRequestActionInput true "Decision"
// @Success      200   {object}  map[string]string "{"message": "..."}"
// @Failure      400   {object}  ErrorResponse "Invalid action or no pending request from the user"
// @Failure      403   {object}  ErrorResponse "Only the host can respond to requests"
// @Failure      404   {object}  ErrorResponse "Activity or user not found"
// @Failure      409   {object}  ErrorResponse "Activity is full"
// @Router       /activities/{id}/requests/respond [post]
func RespondToActivityRequest(c *gin.Context) {
	viewerID := currentUserID(c)
	activityID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity ID"})
		return
	}

	var input ActivityRequestActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Action != "accept" && input.Action != "reject" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}

	var activity models.Activity
	if err := database.DB.First(&activity, activityID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		return
	}

	if activity.HostID != viewerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can respond to requests"})
		return
	}

	var target models.User
	if err := database.DB.First(&target, input.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if input.Action == "reject" {
		tx := database.DB.Begin()
		result := tx.Where("activity_id = ? AND user_id = ?", activityID, input.UserID).
			Delete(&models.ActivityRequest{})
		if result.Error != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject request"})
			return
		}
		if result.RowsAffected == 0 {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": "No pending request from this user"})
			return
		}
		if err := emitNotification(tx, input.UserID, viewerID, models.NotificationRequestRejected, &activityID); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
			return
		}
		tx.Commit()

		pushNotification(input.UserID, viewerID, models.NotificationRequestRejected, &activityID)

		c.JSON(http.StatusOK, gin.H{"message": "Request rejected"})
		return
	}

	tx := database.DB.Begin()
	result := tx.Where("activity_id = ? AND user_id = ?", activityID, input.UserID).
		Delete(&models.ActivityRequest{})
	if result.Error != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept request"})
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "No pending request from this user"})
		return
	}

	// Same conditional increment as the public join path.
	increment := tx.Model(&models.Activity{}).
		Where("id = ? AND attendee_count < maximum_guests", activityID).
		UpdateColumn("attendee_count", gorm.Expr("attendee_count + 1"))
	if increment.Error != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept request"})
		return
	}
	if increment.RowsAffected == 0 {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Activity is full"})
		return
	}

	attendee := models.ActivityAttendee{ActivityID: activityID, UserID: input.UserID}
	if err := tx.Create(&attendee).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept request"})
		return
	}
	if err := emitNotification(tx, input.UserID, viewerID, models.NotificationRequestAccepted, &activityID); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}
	tx.Commit()

	pushNotification(input.UserID, viewerID, models.NotificationRequestAccepted, &activityID)

	c.JSON(http.StatusOK, gin.H{"message": "Request accepted"})
}

// InviteToActivity godoc
// @Summary      Invite a friend to an activity
// @Description  Sends an invite notification. Inviter and invitee must be friends, the invitee must not be the host, neither side may block the other, and duplicate invites are rejected.
// @Tags         activities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int         true "Activity ID"
// @Param        input body      InviteInput true "Invitee"
// @Success      201   {object}  map[string]string "{"message": "Invitation sent"}"
// @Failure      400   {object}  ErrorResponse "Self-invite"
// @Failure      404   {object}  ErrorResponse "Activity or user not found"
// @Failure      409   {object}  ErrorResponse "Not friends, blocked, invitee is host, or duplicate invite"
// @Router       /activities/{id}/invite [post]
func InviteToActivity(c *gin.Context) {
	viewerID := currentUserID(c)
	activityID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity ID"})
		return
	}

	var input InviteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.ReceiverID == viewerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot invite yourself"})
		return
	}

	var activity models.Activity
	if err := database.DB.First(&activity, activityID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		return
	}

	if input.ReceiverID == activity.HostID {
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot invite the host"})
		return
	}

	var receiver models.User
	if err := database.DB.First(&receiver, input.ReceiverID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	blocked, err := blockExistsEitherDirection(viewerID, input.ReceiverID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check blocks"})
		return
	}
	if blocked {
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot invite this user"})
		return
	}

	if !friendshipExists(viewerID, input.ReceiverID) {
		c.JSON(http.StatusConflict, gin.H{"error": "You must be friends to invite someone to an activity"})
		return
	}

	var duplicateCount int64
	if err := database.DB.Model(&models.Notification{}).
		Where("sender_id = ? AND receiver_id = ? AND activity_id = ? AND type = ?",
			viewerID, input.ReceiverID, activityID, models.NotificationActivityInvite).
		Count(&duplicateCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check invitations"})
		return
	}
	if duplicateCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Invitation already sent"})
		return
	}

	if err := emitNotification(database.DB, input.ReceiverID, viewerID, models.NotificationActivityInvite, &activityID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	pushNotification(input.ReceiverID, viewerID, models.NotificationActivityInvite, &activityID)

	c.JSON(http.StatusCreated, gin.H{"message": "Invitation sent"})
}
