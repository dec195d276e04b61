package handler

import (
	"net/http"

	"mingle/backend/internal/database"
	"mingle/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// ToggleBlock godoc
// @Summary      Block or unblock a user
// @Description  Idempotent flip: creates the block edge if absent, removes it if present.
// @Tags         blocks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]bool "{"blocked": true}"
// @Failure      400  {object}  ErrorResponse "Self-targeting or invalid ID"
// @Failure      404  {object}  ErrorResponse "Target user not found"
// @Router       /users/{id}/block [post]
func ToggleBlock(c *gin.Context) {
	viewerID := currentUserID(c)
	targetUserID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return
	}

	if viewerID == targetUserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot block yourself"})
		return
	}

	var target models.User
	if err := database.DB.First(&target, targetUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Target user not found"})
		return
	}

	result := database.DB.
		Where("blocker_id = ? AND blocked_id = ?", viewerID, targetUserID).
		Delete(&models.Block{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle block"})
		return
	}
	if result.RowsAffected > 0 {
		c.JSON(http.StatusOK, gin.H{"blocked": false})
		return
	}

	block := models.Block{BlockerID: viewerID, BlockedID: targetUserID}
	if err := database.DB.Create(&block).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to block user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"blocked": true})
}

// ListBlocked godoc
// @Summary      List blocked users
// @Description  Returns the users the caller has blocked, with profiles, paginated.
// @Tags         blocks
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[PublicUserResponse]
// @Router       /users/me/blocked [get]
func ListBlocked(c *gin.Context) {
	viewerID := currentUserID(c)
	page, limit := parsePagination(c)

	var total int64
	if err := database.DB.Model(&models.Block{}).
		Where("blocker_id = ?", viewerID).
		Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count blocked users"})
		return
	}

	var blocks []models.Block
	if err := database.DB.
		Where("blocker_id = ?", viewerID).
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&blocks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blocked users"})
		return
	}

	blockedResponses := []PublicUserResponse{}
	for _, block := range blocks {
		var blocked models.User
		if err := database.DB.First(&blocked, block.BlockedID).Error; err != nil {
			continue
		}
		blockedResponses = append(blockedResponses, buildPublicUserResponse(blocked))
	}

	c.JSON(http.StatusOK, PaginatedResponse[PublicUserResponse]{
		Data:       blockedResponses,
		Pagination: NewPagination(page, limit, total),
	})
}

// region --- Helpers ---

// blockedSet returns the IDs the user has blocked.
func blockedSet(userID uint) ([]uint, error) {
	var ids []uint
	err := database.DB.Model(&models.Block{}).
		Where("blocker_id = ?", userID).
		Pluck("blocked_id", &ids).Error
	return ids, err
}

// blockingSet returns the IDs of users who have blocked the user.
func blockingSet(userID uint) ([]uint, error) {
	var ids []uint
	err := database.DB.Model(&models.Block{}).
		Where("blocked_id = ?", userID).
		Pluck("blocker_id", &ids).Error
	return ids, err
}

// blockExistsEitherDirection reports whether either user has blocked the other.
func blockExistsEitherDirection(a, b uint) (bool, error) {
	var count int64
	err := database.DB.Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// endregion
