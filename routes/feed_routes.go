package routes

import (
	"github.com/ak00-rgb/popfeed-app/controllers"
	"github.com/gin-gonic/gin"
)

func SetupFeedViewRoutes(viewer *gin.RouterGroup, feedController *controllers.FeedController, commentController *controllers.CommentController) {
	feeds := viewer.Group("/feeds")
	{
		feeds.GET("/:code", feedController.GetFeedView)
	}

	posts := viewer.Group("/posts")
	{
		posts.GET("/:id/comments", commentController.ListComments)
	}
}

func SetupFeedRoutes(protected *gin.RouterGroup, feedController *controllers.FeedController, postController *controllers.PostController) {
	feeds := protected.Group("/feeds")
	{
		feeds.POST("", feedController.CreateFeed)
		feeds.POST("/:code/posts", postController.CreatePost)
	}
}
