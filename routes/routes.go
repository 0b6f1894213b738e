package routes

import (
	"github.com/ak00-rgb/popfeed-app/controllers"
	"github.com/ak00-rgb/popfeed-app/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Initialize controllers
	authController := controllers.NewAuthController(db, nil)
	feedController := controllers.NewFeedController(db)
	postController := controllers.NewPostController(db)
	commentController := controllers.NewCommentController(db)
	interactionController := controllers.NewInteractionController(db)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/auth/send-otp", authController.SendOTP)
		public.POST("/auth/verify-otp", authController.VerifyOTP)
		public.POST("/auth/google", authController.GoogleSignIn)
		public.POST("/auth/refresh-token", authController.RefreshToken)
		public.POST("/auth/username-check", authController.CheckUsername)
	}

	// Feed views are readable anonymously; the viewer, when present,
	// only affects the isLiked flags.
	viewer := r.Group("/api")
	viewer.Use(middleware.OptionalAuthMiddleware())
	{
		SetupFeedViewRoutes(viewer, feedController, commentController)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/auth/logout", authController.Logout)
		protected.GET("/profile", authController.GetProfile)
		protected.PUT("/profile/username", authController.UpdateUsername)

		SetupFeedRoutes(protected, feedController, postController)
		SetupInteractionRoutes(protected, interactionController, commentController)
	}
}
