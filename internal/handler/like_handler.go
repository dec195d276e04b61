package handler

import (
	"net/http"

	"mingle/backend/internal/database"
	"mingle/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// ToggleLike godoc
// @Summary      Like or unlike a user
// @Description  Idempotent flip: creates the like edge if absent, removes it if present.
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]bool "{"liked": true}"
// @Failure      400  {object}  ErrorResponse "Self-targeting or invalid ID"
// @Failure      404  {object}  ErrorResponse "Target user not found"
// @Router       /users/{id}/like [post]
func ToggleLike(c *gin.Context) {
	viewerID := currentUserID(c)
	targetUserID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return
	}

	if viewerID == targetUserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot like yourself"})
		return
	}

	var target models.User
	if err := database.DB.First(&target, targetUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Target user not found"})
		return
	}

	result := database.DB.
		Where("liker_id = ? AND liked_id = ?", viewerID, targetUserID).
		Delete(&models.Like{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
		return
	}
	if result.RowsAffected > 0 {
		c.JSON(http.StatusOK, gin.H{"liked": false})
		return
	}

	like := models.Like{LikerID: viewerID, LikedID: targetUserID}
	if err := database.DB.Create(&like).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": true})
}

// ListLikesGiven godoc
// @Summary      List liked users
// @Description  Returns the users the caller has liked, newest first, paginated.
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[PublicUserResponse]
// @Router       /users/me/likes [get]
func ListLikesGiven(c *gin.Context) {
	viewerID := currentUserID(c)
	page, limit := parsePagination(c)

	var total int64
	if err := database.DB.Model(&models.Like{}).
		Where("liker_id = ?", viewerID).
		Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count likes"})
		return
	}

	var likes []models.Like
	if err := database.DB.
		Where("liker_id = ?", viewerID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&likes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch likes"})
		return
	}

	likedResponses := []PublicUserResponse{}
	for _, like := range likes {
		var liked models.User
		if err := database.DB.First(&liked, like.LikedID).Error; err != nil {
			continue
		}
		likedResponses = append(likedResponses, buildPublicUserResponse(liked))
	}

	c.JSON(http.StatusOK, PaginatedResponse[PublicUserResponse]{
		Data:       likedResponses,
		Pagination: NewPagination(page, limit, total),
	})
}

// ListLikesReceived godoc
// @Summary      List admirers
// @Description  Returns the users who have liked the caller, newest first, paginated.
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[PublicUserResponse]
// @Router       /users/me/likes/received [get]
func ListLikesReceived(c *gin.Context) {
	viewerID := currentUserID(c)
	page, limit := parsePagination(c)

	var total int64
	if err := database.DB.Model(&models.Like{}).
		Where("liked_id = ?", viewerID).
		Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count received likes"})
		return
	}

	var likes []models.Like
	if err := database.DB.
		Where("liked_id = ?", viewerID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&likes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch received likes"})
		return
	}

	likerResponses := []PublicUserResponse{}
	for _, like := range likes {
		var liker models.User
		if err := database.DB.First(&liker, like.LikerID).Error; err != nil {
			continue
		}
		likerResponses = append(likerResponses, buildPublicUserResponse(liker))
	}

	c.JSON(http.StatusOK, PaginatedResponse[PublicUserResponse]{
		Data:       likerResponses,
		Pagination: NewPagination(page, limit, total),
	})
}
