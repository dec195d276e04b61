package handler

import (
	"net/http"
	"time"

	"mingle/backend/internal/database"
	"mingle/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// FriendRequestActionInput carries the receiver's decision on a pending request.
type FriendRequestActionInput struct {
	Action string `json:"action" binding:"required" example:"accept"`
}

// FriendRequestResponse is the wire form of a friend request.
type FriendRequestResponse struct {
	ID         uint                 `json:"id"`
	SenderID   uint                 `json:"sender_id"`
	ReceiverID uint                 `json:"receiver_id"`
	Status     models.RequestStatus `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
}

func newFriendRequestResponse(fr models.FriendRequest) FriendRequestResponse {
	return FriendRequestResponse{
		ID:         fr.ID,
		SenderID:   fr.SenderID,
		ReceiverID: fr.ReceiverID,
		Status:     fr.Status,
		CreatedAt:  fr.CreatedAt,
	}
}

// FriendshipResponse is the wire form of an established friendship.
type FriendshipResponse struct {
	UserAID   uint      `json:"user_a_id"`
	UserBID   uint      `json:"user_b_id"`
	CreatedAt time.Time `json:"created_at"`
}

// endregion

// SendFriendRequest godoc
// @Summary      Send friend request
// @Description  Sends a friend request to another user. Fails if a pending request already exists in either direction, the pair is already friends, or either side has blocked the other.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      201  {object}  FriendRequestResponse
// @Failure      400  {object}  ErrorResponse "Self-targeting or invalid ID"
// @Failure      404  {object}  ErrorResponse "Target user not found"
// @Failure      409  {object}  ErrorResponse "Pending request, friendship, or block in the way"
// @Router       /users/{id}/friend-request [post]
func SendFriendRequest(c *gin.Context) {
	viewerID := currentUserID(c)
	targetUserID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return
	}

	if viewerID == targetUserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot send a friend request to yourself"})
		return
	}

	var target models.User
	if err := database.DB.First(&target, targetUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Target user not found"})
		return
	}

	blocked, err := blockExistsEitherDirection(viewerID, targetUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check blocks"})
		return
	}
	if blocked {
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot send a friend request to this user"})
		return
	}

	var pendingCount int64
	if err := database.DB.Model(&models.FriendRequest{}).
		Where("status = ?", models.RequestPending).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			viewerID, targetUserID, targetUserID, viewerID).
		Count(&pendingCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check pending requests"})
		return
	}
	if pendingCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Friend request already exists"})
		return
	}

	if friendshipExists(viewerID, targetUserID) {
		c.JSON(http.StatusConflict, gin.H{"error": "Already friends"})
		return
	}

	request := models.FriendRequest{
		SenderID:   viewerID,
		ReceiverID: targetUserID,
		Status:     models.RequestPending,
	}

	tx := database.DB.Begin()
	if err := tx.Create(&request).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create friend request"})
		return
	}
	if err := emitNotification(tx, targetUserID, viewerID, models.NotificationFriendRequest, nil); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}
	tx.Commit()

	pushNotification(targetUserID, viewerID, models.NotificationFriendRequest, nil)

	c.JSON(http.StatusCreated, newFriendRequestResponse(request))
}

// CancelFriendRequest godoc
// @Summary      Cancel a sent friend request
// @Description  Deletes the pending request the caller previously sent to the target user. Only the original sender may cancel; the receiver must reject instead.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]string "{"message": "Friend request cancelled"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "No pending request to cancel"
// @Router       /users/{id}/friend-request [delete]
func CancelFriendRequest(c *gin.Context) {
	viewerID := currentUserID(c)
	targetUserID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return
	}

	result := database.DB.
		Where("sender_id = ? AND receiver_id = ? AND status = ?", viewerID, targetUserID, models.RequestPending).
		Delete(&models.FriendRequest{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel friend request"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pending friend request not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend request cancelled"})
}

// RespondToFriendRequest godoc
// @Summary      Accept or reject a friend request
// @Description  Acts on the pending request from the given sender. Accepting updates the request and creates the friendship atomically.
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                      true  "Sender User ID"
// @Param        input body      FriendRequestActionInput true  "accept or reject"
// @Success      200   {object}  FriendRequestResponse "On reject"
// @Success      201   {object}  FriendshipResponse    "On accept"
// @Failure      400   {object}  ErrorResponse "Invalid action or sender reference"
// @Failure      404   {object}  ErrorResponse "No pending request from this sender"
// @Failure      409   {object}  ErrorResponse "Friendship already exists"
// @Router       /users/{id}/friend-request/respond [post]
func RespondToFriendRequest(c *gin.Context) {
	viewerID := currentUserID(c)
	senderID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sender ID"})
		return
	}

	var input FriendRequestActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Action != "accept" && input.Action != "reject" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}

	var sender models.User
	if err := database.DB.First(&sender, senderID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sender reference"})
		return
	}

	var request models.FriendRequest
	if err := database.DB.
		Where("sender_id = ? AND receiver_id = ? AND status = ?", senderID, viewerID, models.RequestPending).
		First(&request).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pending friend request not found"})
		return
	}

	// Unreachable if the pending-request invariant holds, but enforced anyway.
	if friendshipExists(viewerID, senderID) {
		c.JSON(http.StatusConflict, gin.H{"error": "Friendship already exists"})
		return
	}

	if input.Action == "accept" {
		friendship := models.NewFriendship(viewerID, senderID)

		tx := database.DB.Begin()
		if err := tx.Model(&request).Update("status", models.RequestAccepted).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept friend request"})
			return
		}
		if err := tx.Create(&friendship).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create friendship"})
			return
		}
		if err := emitNotification(tx, senderID, viewerID, models.NotificationRequestAccepted, nil); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
			return
		}
		tx.Commit()

		pushNotification(senderID, viewerID, models.NotificationRequestAccepted, nil)

		c.JSON(http.StatusCreated, FriendshipResponse{
			UserAID:   friendship.UserAID,
			UserBID:   friendship.UserBID,
			CreatedAt: friendship.CreatedAt,
		})
		return
	}

	tx := database.DB.Begin()
	if err := tx.Model(&request).Update("status", models.RequestRejected).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject friend request"})
		return
	}
	if err := emitNotification(tx, senderID, viewerID, models.NotificationRequestRejected, nil); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}
	tx.Commit()

	pushNotification(senderID, viewerID, models.NotificationRequestRejected, nil)

	request.Status = models.RequestRejected
	c.JSON(http.StatusOK, newFriendRequestResponse(request))
}

// Unfriend godoc
// @Summary      Remove a friend
// @Description  Deletes the friendship edge with the target user. Request history is untouched.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Friend User ID"
// @Success      200  {object}  map[string]string "{"message": "Friend removed"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Friendship not found"
// @Router       /users/{id}/friend [delete]
func Unfriend(c *gin.Context) {
	viewerID := currentUserID(c)
	targetUserID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return
	}

	edge := models.NewFriendship(viewerID, targetUserID)
	result := database.DB.
		Where("user_a_id = ? AND user_b_id = ?", edge.UserAID, edge.UserBID).
		Delete(&models.Friendship{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove friend"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Friendship not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Friend removed"})
}

// ListFriends godoc
// @Summary      List friends
// @Description  Returns the caller's friends in edge-creation order, paginated.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[PublicUserResponse]
// @Router       /users/me/friends [get]
func ListFriends(c *gin.Context) {
	viewerID := currentUserID(c)
	page, limit := parsePagination(c)

	var total int64
	if err := database.DB.Model(&models.Friendship{}).
		Where("user_a_id = ? OR user_b_id = ?", viewerID, viewerID).
		Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count friends"})
		return
	}

	var edges []models.Friendship
	if err := database.DB.
		Where("user_a_id = ? OR user_b_id = ?", viewerID, viewerID).
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&edges).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	friendResponses := []PublicUserResponse{}
	for _, edge := range edges {
		var friend models.User
		if err := database.DB.First(&friend, edge.OtherSide(viewerID)).Error; err != nil {
			continue
		}
		friendResponses = append(friendResponses, buildPublicUserResponse(friend))
	}

	c.JSON(http.StatusOK, PaginatedResponse[PublicUserResponse]{
		Data:       friendResponses,
		Pagination: NewPagination(page, limit, total),
	})
}

// ListFriendRequests godoc
// @Summary      List pending friend requests
// @Description  Returns the caller's pending requests, either sent or received, with the counterpart's profile.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        type  query string true  "sent or received"
// @Param        page  query int    false "Page number" default(1)
// @Param        limit query int    false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[PublicUserResponse]
// @Failure      400 {object} ErrorResponse "Unknown type"
// @Router       /users/me/friend-requests [get]
func ListFriendRequests(c *gin.Context) {
	viewerID := currentUserID(c)
	page, limit := parsePagination(c)
	requestType := c.Query("type")

	query := database.DB.Model(&models.FriendRequest{}).Where("status = ?", models.RequestPending)
	switch requestType {
	case "sent":
		query = query.Where("sender_id = ?", viewerID)
	case "received":
		query = query.Where("receiver_id = ?", viewerID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "A 'type' query parameter (sent or received) is required"})
		return
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count friend requests"})
		return
	}

	var requests []models.FriendRequest
	if err := query.Order("created_at ASC").Offset((page - 1) * limit).Limit(limit).Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friend requests"})
		return
	}

	counterparts := []PublicUserResponse{}
	for _, request := range requests {
		counterpartID := request.SenderID
		if requestType == "sent" {
			counterpartID = request.ReceiverID
		}
		var counterpart models.User
		if err := database.DB.First(&counterpart, counterpartID).Error; err != nil {
			continue
		}
		counterparts = append(counterparts, buildPublicUserResponse(counterpart))
	}

	c.JSON(http.StatusOK, PaginatedResponse[PublicUserResponse]{
		Data:       counterparts,
		Pagination: NewPagination(page, limit, total),
	})
}

// GetMutualFriends godoc
// @Summary      Get mutual friends
// @Description  Returns the IDs of users who are friends with both the caller and the target user.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string][]uint "{"mutual_friends": [...]}"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Target user not found"
// @Router       /users/{id}/mutual-friends [get]
func GetMutualFriends(c *gin.Context) {
	viewerID := currentUserID(c)
	targetUserID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return
	}

	var target models.User
	if err := database.DB.First(&target, targetUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Target user not found"})
		return
	}

	viewerFriends, err := friendIDs(viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}
	targetFriends, err := friendIDs(targetUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	// Hash-set intersection; iterate the smaller side.
	if len(targetFriends) < len(viewerFriends) {
		viewerFriends, targetFriends = targetFriends, viewerFriends
	}
	lookup := make(map[uint]bool, len(targetFriends))
	for _, id := range targetFriends {
		lookup[id] = true
	}

	mutual := []uint{}
	for _, id := range viewerFriends {
		if lookup[id] {
			mutual = append(mutual, id)
		}
	}

	c.JSON(http.StatusOK, gin.H{"mutual_friends": mutual})
}

// region --- Helpers ---

// friendIDs returns the IDs on the far side of every friendship edge
// touching userID, in edge-creation order.
func friendIDs(userID uint) ([]uint, error) {
	var edges []models.Friendship
	if err := database.DB.
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at ASC").
		Find(&edges).Error; err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(edges))
	for _, edge := range edges {
		ids = append(ids, edge.OtherSide(userID))
	}
	return ids, nil
}

// friendshipExists reports whether the unordered pair has an edge.
func friendshipExists(a, b uint) bool {
	edge := models.NewFriendship(a, b)
	var count int64
	database.DB.Model(&models.Friendship{}).
		Where("user_a_id = ? AND user_b_id = ?", edge.UserAID, edge.UserBID).
		Count(&count)
	return count > 0
}

// endregion
