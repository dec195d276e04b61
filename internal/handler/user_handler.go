package handler

import (
	"net/http"

	"mingle/backend/internal/database"
	"mingle/backend/internal/models"
	"mingle/backend/internal/presence"
	"mingle/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	UserName string `json:"userName" binding:"required" example:"testuser"`
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Login    string `json:"login" binding:"required" example:"testuser"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// UpdateProfileInput lists the profile fields a user may change. Fields are
// pointers so that omitted fields are left untouched; unknown fields are
// never persisted.
type UpdateProfileInput struct {
	Bio                *string  `json:"bio"`
	Gender             *string  `json:"gender"`
	Country            *string  `json:"country"`
	Latitude           *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude          *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	DistancePreference *float64 `json:"distancePreference" binding:"omitempty,gt=0"`
}

// PublicUserResponse defines the structure for a user's public profile.
type PublicUserResponse struct {
	ID           uint   `json:"id" example:"1"`
	UserName     string `json:"userName" example:"testuser"`
	Bio          string `json:"bio"`
	Gender       string `json:"gender"`
	Country      string `json:"country"`
	FriendsCount int64  `json:"friends_count"`
	Online       bool   `json:"online"`
}

// PrivateUserResponse defines the structure for the authenticated user's own profile.
type PrivateUserResponse struct {
	ID                 uint     `json:"id" example:"1"`
	UserName           string   `json:"userName" example:"testuser"`
	Email              string   `json:"email" example:"test@example.com"`
	Bio                string   `json:"bio"`
	Gender             string   `json:"gender"`
	Country            string   `json:"country"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
	DistancePreference float64  `json:"distancePreference"`
	FriendsCount       int64    `json:"friends_count"`
}

// endregion

// region --- Auth Handlers ---

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existingUser models.User
	if err := database.DB.Where("user_name = ? OR email = ?", input.UserName, input.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		UserName:           input.UserName,
		Email:              input.Email,
		PasswordHash:       string(hashedPassword),
		DistancePreference: 10,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with username/email and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /auth/login [post]
func LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("user_name = ? OR email = ?", input.Login, input.Login).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// endregion

// region --- User Handlers ---

// GetMe godoc
// @Summary      Get current user's profile
// @Description  Retrieves the private profile for the currently authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	viewerID := currentUserID(c)

	var user models.User
	if err := database.DB.First(&user, viewerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, buildPrivateUserResponse(user))
}

// UpdateMe godoc
// @Summary      Update current user's profile
// @Description  Updates profile fields including location and distance preference. Only listed fields are applied.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateProfileInput true "Profile fields"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [put]
func UpdateMe(c *gin.Context) {
	viewerID := currentUserID(c)

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.First(&user, viewerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Gender != nil {
		user.Gender = *input.Gender
	}
	if input.Country != nil {
		user.Country = *input.Country
	}
	if input.Latitude != nil {
		user.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		user.Longitude = input.Longitude
	}
	if input.DistancePreference != nil {
		user.DistancePreference = *input.DistancePreference
	}

	if err := database.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, buildPrivateUserResponse(user))
}

// GetUserByID godoc
// @Summary      Get user by ID
// @Description  Retrieves the public profile for a specific user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  PublicUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func GetUserByID(c *gin.Context) {
	viewerID := currentUserID(c)
	targetUserID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if viewerID == targetUserID {
		GetMe(c)
		return
	}

	var targetUser models.User
	if err := database.DB.First(&targetUser, targetUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, buildPublicUserResponse(targetUser))
}

// DeleteMe godoc
// @Summary      Delete current user
// @Description  Removes the user and all dependent records (friendships, requests, blocks, activities, notifications) in one transaction.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string "{"message": "Account deleted"}"
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [delete]
func DeleteMe(c *gin.Context) {
	viewerID := currentUserID(c)

	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		return deleteUserCascade(tx, viewerID)
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

// AdminDeleteUser godoc
// @Summary      Delete a user (Admin only)
// @Description  Removes a user and all dependent records in one transaction.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  map[string]string "{"message": "User deleted"}"
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/users/{id} [delete]
func AdminDeleteUser(c *gin.Context) {
	targetUserID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, targetUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		return deleteUserCascade(tx, targetUserID)
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// endregion

// region --- Helpers ---

// deleteUserCascade removes a user and every record that depends on them.
// The ordering matters: hosted activities go first so their attendee rows do
// not feed the count fixup, then the user's footprint in other activities,
// then the relationship edges, and the user row last.
func deleteUserCascade(tx *gorm.DB, userID uint) error {
	// Hosted activities and everything hanging off them.
	var hostedIDs []uint
	if err := tx.Model(&models.Activity{}).Where("host_id = ?", userID).Pluck("id", &hostedIDs).Error; err != nil {
		return err
	}
	if len(hostedIDs) > 0 {
		if err := tx.Where("activity_id IN ?", hostedIDs).Delete(&models.ActivityAttendee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("activity_id IN ?", hostedIDs).Delete(&models.ActivityRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("activity_id IN ?", hostedIDs).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("id IN ?", hostedIDs).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
	}

	// Keep the denormalized counts of other hosts' activities in sync before
	// the attendee rows disappear.
	attendedSub := tx.Model(&models.ActivityAttendee{}).Select("activity_id").Where("user_id = ?", userID)
	if err := tx.Model(&models.Activity{}).Where("id IN (?)", attendedSub).
		UpdateColumn("attendee_count", gorm.Expr("attendee_count - 1")).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.ActivityAttendee{}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.ActivityRequest{}).Error; err != nil {
		return err
	}

	// Relationship edges and the notification inbox.
	if err := tx.Where("user_a_id = ? OR user_b_id = ?", userID, userID).Delete(&models.Friendship{}).Error; err != nil {
		return err
	}
	if err := tx.Where("sender_id = ? OR receiver_id = ?", userID, userID).Delete(&models.FriendRequest{}).Error; err != nil {
		return err
	}
	if err := tx.Where("blocker_id = ? OR blocked_id = ?", userID, userID).Delete(&models.Block{}).Error; err != nil {
		return err
	}
	if err := tx.Where("liker_id = ? OR liked_id = ?", userID, userID).Delete(&models.Like{}).Error; err != nil {
		return err
	}
	if err := tx.Where("sender_id = ? OR receiver_id = ?", userID, userID).Delete(&models.Notification{}).Error; err != nil {
		return err
	}

	return tx.Unscoped().Delete(&models.User{}, userID).Error
}

func buildPublicUserResponse(targetUser models.User) PublicUserResponse {
	var friendsCount int64
	database.DB.Model(&models.Friendship{}).
		Where("user_a_id = ? OR user_b_id = ?", targetUser.ID, targetUser.ID).
		Count(&friendsCount)

	return PublicUserResponse{
		ID:           targetUser.ID,
		UserName:     targetUser.UserName,
		Bio:          targetUser.Bio,
		Gender:       targetUser.Gender,
		Country:      targetUser.Country,
		FriendsCount: friendsCount,
		Online:       presence.Default.IsOnline(targetUser.ID),
	}
}

func buildPrivateUserResponse(user models.User) PrivateUserResponse {
	var friendsCount int64
	database.DB.Model(&models.Friendship{}).
		Where("user_a_id = ? OR user_b_id = ?", user.ID, user.ID).
		Count(&friendsCount)

	return PrivateUserResponse{
		ID:                 user.ID,
		UserName:           user.UserName,
		Email:              user.Email,
		Bio:                user.Bio,
		Gender:             user.Gender,
		Country:            user.Country,
		Latitude:           user.Latitude,
		Longitude:          user.Longitude,
		DistancePreference: user.DistancePreference,
		FriendsCount:       friendsCount,
	}
}

// endregion
