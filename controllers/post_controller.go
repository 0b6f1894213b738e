package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/ak00-rgb/popfeed-app/models"
	"github.com/ak00-rgb/popfeed-app/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PostController struct {
	DB *gorm.DB
}

func NewPostController(db *gorm.DB) *PostController {
	return &PostController{DB: db}
}

type CreatePostRequest struct {
	Message string `json:"message" binding:"required"`
}

// CreatePost godoc
// @Summary Post a message to a feed
// @Description Persists a post with the viewer's alias snapshot
// @Tags posts
// @Accept json
// @Produce json
// @Param code path string true "Event code"
// @Param body body CreatePostRequest true "Post message"
// @Success 201 {object} map[string]interface{}
// @Router /feeds/{code}/posts [post]
func (pc *PostController) CreatePost(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required", "code": CodeAuthRequired})
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing message", "code": CodeInvalidInput})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing message", "code": CodeInvalidInput})
		return
	}

	eventCode := c.Param("code")
	var feed models.Feed
	if err := pc.DB.Where("event_code = ?", eventCode).First(&feed).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Feed not found", "code": CodeNotFound})
			return
		}
		log.Printf("feed lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create post"})
		return
	}

	var profile models.Profile
	if err := pc.DB.Where("id = ?", user.UserID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Username required", "code": CodeUsernameRequired})
			return
		}
		log.Printf("profile lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create post"})
		return
	}
	if !profile.AliasFinalized {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Username required", "code": CodeUsernameRequired})
		return
	}

	post := models.Post{
		FeedID:  feed.ID,
		Alias:   profile.Username,
		Message: message,
	}

	if err := pc.DB.Create(&post).Error; err != nil {
		log.Printf("post insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"post": PostView{
			ID:          post.ID,
			Username:    post.Alias,
			CreatedAt:   post.CreatedAt,
			Body:        post.Message,
			Likes:       0,
			IsLiked:     false,
			Comments:    0,
			CommentList: []CommentView{},
			Shares:      0,
		},
	})
}
