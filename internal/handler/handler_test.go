package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"mingle/backend/internal/auth"
	"mingle/backend/internal/config"
	"mingle/backend/internal/database"
	"mingle/backend/internal/models"
	"mingle/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTest wires an in-memory database and a router mirroring the server's
// route table. Each test gets its own named shared-cache database so
// connections within a test see the same data.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	database.DB = db
	database.Migrate(db)

	return buildRouter()
}

func buildRouter() *gin.Engine {
	router := gin.New()

	apiV1 := router.Group("/api/v1")

	authRoutes := apiV1.Group("/auth")
	authRoutes.POST("/register", RegisterUser)
	authRoutes.POST("/login", LoginUser)

	userRoutes := apiV1.Group("/users")
	userRoutes.Use(auth.AuthMiddleware())
	userRoutes.GET("/me", GetMe)
	userRoutes.PUT("/me", UpdateMe)
	userRoutes.DELETE("/me", DeleteMe)
	userRoutes.GET("/me/friends", ListFriends)
	userRoutes.GET("/me/friend-requests", ListFriendRequests)
	userRoutes.GET("/me/blocked", ListBlocked)
	userRoutes.GET("/me/likes", ListLikesGiven)
	userRoutes.GET("/me/likes/received", ListLikesReceived)
	userRoutes.GET("/:id", GetUserByID)
	userRoutes.GET("/:id/mutual-friends", GetMutualFriends)
	userRoutes.POST("/:id/friend-request", SendFriendRequest)
	userRoutes.DELETE("/:id/friend-request", CancelFriendRequest)
	userRoutes.POST("/:id/friend-request/respond", RespondToFriendRequest)
	userRoutes.DELETE("/:id/friend", Unfriend)
	userRoutes.POST("/:id/block", ToggleBlock)
	userRoutes.POST("/:id/like", ToggleLike)

	activityRoutes := apiV1.Group("/activities")
	activityRoutes.Use(auth.AuthMiddleware())
	activityRoutes.POST("", CreateActivity)
	activityRoutes.GET("/discover", FindActivities)
	activityRoutes.GET("/:id", GetActivityByID)
	activityRoutes.PUT("/:id", UpdateActivity)
	activityRoutes.DELETE("/:id", DeleteActivity)
	activityRoutes.POST("/:id/attend", AttendActivity)
	activityRoutes.DELETE("/:id/attend", CancelAttendance)
	activityRoutes.DELETE("/:id/request", CancelAttendanceRequest)
	activityRoutes.GET("/:id/requests", GetActivityRequests)
	activityRoutes.POST("/:id/requests/respond", RespondToActivityRequest)
	activityRoutes.POST("/:id/invite", InviteToActivity)

	discoverRoutes := apiV1.Group("/discover")
	discoverRoutes.Use(auth.AuthMiddleware())
	discoverRoutes.GET("/people", FindPotentialFriends)

	notificationRoutes := apiV1.Group("/notifications")
	notificationRoutes.Use(auth.AuthMiddleware())
	notificationRoutes.GET("", ListNotifications)
	notificationRoutes.POST("/read-all", MarkAllNotificationsRead)
	notificationRoutes.GET("/:id", GetNotification)

	adminRoutes := apiV1.Group("/admin")
	adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
	adminRoutes.DELETE("/users/:id", AdminDeleteUser)

	return router
}

func floatPtr(f float64) *float64 { return &f }

// createUser inserts a user directly, bypassing the register endpoint.
func createUser(t *testing.T, name string, lat, lng *float64) models.User {
	t.Helper()

	user := models.User{
		UserName:           name,
		Email:              name + "@example.com",
		PasswordHash:       "x",
		Latitude:           lat,
		Longitude:          lng,
		DistancePreference: 10,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

// createActivity inserts an activity hosted by hostID at the given position.
func createActivity(t *testing.T, hostID uint, name string, capacity int, private bool, lat, lng float64) models.Activity {
	t.Helper()

	activity := models.Activity{
		HostID:        hostID,
		Name:          name,
		Category:      "general",
		Latitude:      lat,
		Longitude:     lng,
		MaximumGuests: capacity,
		IsPrivate:     private,
	}
	require.NoError(t, database.DB.Create(&activity).Error)
	return activity
}

func bearer(t *testing.T, userID uint) string {
	t.Helper()

	token, err := jwt.GenerateToken(userID)
	require.NoError(t, err)
	return "Bearer " + token
}

// doRequest performs a request against the test router as the given user.
func doRequest(t *testing.T, router *gin.Engine, method, path string, userID uint, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("Authorization", bearer(t, userID))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var payload T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), "body: %s", rec.Body.String())
	return payload
}
