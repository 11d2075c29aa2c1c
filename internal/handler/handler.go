package handler

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"user_manager/internal/config"
	"user_manager/internal/middleware"
	"user_manager/internal/user"
)

// SetupHandler initializes all dependencies and routes
func SetupHandler(db *sql.DB, redisClient *redis.Client, cfg *config.Config) *gin.Engine {

	r := gin.Default()

	// Initialize repository, service, controller
	userRepo := user.NewUserRepository()
	userService := user.NewUserService(userRepo, db)
	userController := user.NewUserController(userService, cfg.JWT.Secret)

	setupRoutes(r, userController, redisClient, cfg.JWT.Secret)

	return r
}

// setupRoutes configures all application routes
func setupRoutes(r *gin.Engine, userCtrl *user.UserController, redisClient *redis.Client, jwtSecret string) {

	// Public routes - Authentication
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", userCtrl.Login)
		authGroup.POST("/refresh", userCtrl.RefreshToken)
	}

	// Protected routes - API v1
	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtSecret))
	if redisClient != nil {
		api.Use(middleware.RateLimiterMiddleware(redisClient, middleware.DefaultRateLimiterConfig()))
	}
	{
		// User management endpoints
		api.POST("/users", userCtrl.CreateUser)
		api.GET("/users", userCtrl.FindUsers)
		api.GET("/users/current_user", userCtrl.GetCurrentUser)
		api.GET("/users/:id", userCtrl.FindUserByID)
		api.PUT("/users/:id", userCtrl.UpdateUser)
		api.DELETE("/users/:id", userCtrl.DeleteUserByID)
		api.POST("/users/filter", userCtrl.FilterUsers)
	}
}
