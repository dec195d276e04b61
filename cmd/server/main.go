package main

import (
	"mingle/backend/internal/auth"
	"mingle/backend/internal/config"
	"mingle/backend/internal/database"
	"mingle/backend/internal/handler"
	"mingle/backend/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	// Swagger imports
	_ "mingle/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Mingle API
// @version         1.0
// @description     This is the API for the Mingle service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	logging.Setup(gin.Mode() != gin.ReleaseMode)

	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	router := gin.New()
	router.Use(gin.Recovery(), logging.RequestLogger())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.PUT("/me", handler.UpdateMe)
			userRoutes.DELETE("/me", handler.DeleteMe)
			userRoutes.GET("/me/friends", handler.ListFriends)
			userRoutes.GET("/me/friend-requests", handler.ListFriendRequests)
			userRoutes.GET("/me/blocked", handler.ListBlocked)
			userRoutes.GET("/me/likes", handler.ListLikesGiven)
			userRoutes.GET("/me/likes/received", handler.ListLikesReceived)
			userRoutes.GET("/:id", handler.GetUserByID)
			userRoutes.GET("/:id/mutual-friends", handler.GetMutualFriends)

			// Friendship routes
			userRoutes.POST("/:id/friend-request", handler.SendFriendRequest)
			userRoutes.DELETE("/:id/friend-request", handler.CancelFriendRequest)
			userRoutes.POST("/:id/friend-request/respond", handler.RespondToFriendRequest)
			userRoutes.DELETE("/:id/friend", handler.Unfriend)
			userRoutes.POST("/:id/block", handler.ToggleBlock)
			userRoutes.POST("/:id/like", handler.ToggleLike)
		}

		// Activity routes (protected)
		activityRoutes := apiV1.Group("/activities")
		activityRoutes.Use(auth.AuthMiddleware())
		{
			activityRoutes.POST("", handler.CreateActivity)
			activityRoutes.GET("/discover", handler.FindActivities) // Must be before /:id
			activityRoutes.GET("/:id", handler.GetActivityByID)
			activityRoutes.PUT("/:id", handler.UpdateActivity)
			activityRoutes.DELETE("/:id", handler.DeleteActivity)
			activityRoutes.POST("/:id/attend", handler.AttendActivity)
			activityRoutes.DELETE("/:id/attend", handler.CancelAttendance)
			activityRoutes.DELETE("/:id/request", handler.CancelAttendanceRequest)
			activityRoutes.GET("/:id/requests", handler.GetActivityRequests)
			activityRoutes.POST("/:id/requests/respond", handler.RespondToActivityRequest)
			activityRoutes.POST("/:id/invite", handler.InviteToActivity)
		}

		// Discovery routes (protected)
		discoverRoutes := apiV1.Group("/discover")
		discoverRoutes.Use(auth.AuthMiddleware())
		{
			discoverRoutes.GET("/people", handler.FindPotentialFriends)
		}

		// Notification routes (protected)
		notificationRoutes := apiV1.Group("/notifications")
		notificationRoutes.Use(auth.AuthMiddleware())
		{
			notificationRoutes.GET("", handler.ListNotifications)
			notificationRoutes.GET("/stream", handler.StreamNotifications) // Must be before /:id
			notificationRoutes.POST("/read-all", handler.MarkAllNotificationsRead)
			notificationRoutes.GET("/:id", handler.GetNotification)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			adminRoutes.DELETE("/users/:id", handler.AdminDeleteUser)
		}
	}

	addr := ":" + config.AppConfig.Port
	log.Info().Str("addr", addr).Msg("Server is running")
	log.Fatal().Err(router.Run(addr)).Msg("Server stopped")
}
