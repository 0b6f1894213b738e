package routes

import (
	"github.com/ak00-rgb/popfeed-app/controllers"
	"github.com/gin-gonic/gin"
)

func SetupInteractionRoutes(protected *gin.RouterGroup, interactionController *controllers.InteractionController, commentController *controllers.CommentController) {
	posts := protected.Group("/posts")
	{
		posts.POST("/:id/like", interactionController.LikePost)
		posts.POST("/:id/comments", commentController.CreateComment)
	}

	comments := protected.Group("/comments")
	{
		comments.POST("/:id/like", interactionController.LikeComment)
	}
}
