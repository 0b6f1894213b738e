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

type CommentController struct {
	DB *gorm.DB
}

func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{DB: db}
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateComment godoc
// @Summary Comment on a post
// @Description Persists a comment with the viewer's alias snapshot
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param body body CreateCommentRequest true "Comment content"
// @Success 201 {object} map[string]interface{}
// @Router /posts/{id}/comments [post]
func (cc *CommentController) CreateComment(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required", "code": CodeAuthRequired})
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing content", "code": CodeInvalidInput})
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing content", "code": CodeInvalidInput})
		return
	}

	postID := c.Param("id")
	var post models.Post
	if err := cc.DB.Where("id = ?", postID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Post not found", "code": CodeNotFound})
			return
		}
		log.Printf("post lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create comment"})
		return
	}

	// The alias snapshot comes from the profile as of right now; a
	// later rename does not touch existing comments.
	var profile models.Profile
	if err := cc.DB.Where("id = ?", user.UserID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Username required", "code": CodeUsernameRequired})
			return
		}
		log.Printf("profile lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create comment"})
		return
	}
	if !profile.AliasFinalized {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Username required", "code": CodeUsernameRequired})
		return
	}

	comment := models.Comment{
		PostID:   post.ID,
		UserID:   user.UserID,
		Username: profile.Username,
		Content:  content,
	}

	if err := cc.DB.Create(&comment).Error; err != nil {
		log.Printf("comment insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create comment"})
		return
	}

	// A brand-new comment cannot already be liked by anyone.
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"comment": CommentView{
			ID:        comment.ID,
			Username:  comment.Username,
			Content:   comment.Content,
			CreatedAt: comment.CreatedAt,
			Likes:     0,
			IsLiked:   false,
		},
	})
}

// ListComments godoc
// @Summary List all comments on a post
// @Description Returns the full chronological comment list with like annotations
// @Tags comments
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Router /posts/{id}/comments [get]
func (cc *CommentController) ListComments(c *gin.Context) {
	viewerID := ""
	if user := utils.GetUser(c); user != nil {
		viewerID = user.UserID
	}

	postID := c.Param("id")
	var post models.Post
	if err := cc.DB.Where("id = ?", postID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Post not found", "code": CodeNotFound})
			return
		}
		log.Printf("post lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch comments"})
		return
	}

	var comments []models.Comment
	if err := cc.DB.Where("post_id = ?", post.ID).Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		log.Printf("comment fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch comments"})
		return
	}

	commentIDs := make([]string, len(comments))
	for i, cm := range comments {
		commentIDs[i] = cm.ID
	}

	var likes []models.CommentLike
	if len(commentIDs) > 0 {
		if err := cc.DB.Where("comment_id IN ?", commentIDs).Find(&likes).Error; err != nil {
			log.Printf("comment like fetch failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch comment likes"})
			return
		}
	}

	likeCount := make(map[string]int)
	likedByViewer := make(map[string]bool)
	for _, l := range likes {
		likeCount[l.CommentID]++
		if viewerID != "" && l.UserID == viewerID {
			likedByViewer[l.CommentID] = true
		}
	}

	views := make([]CommentView, 0, len(comments))
	for _, cm := range comments {
		views = append(views, CommentView{
			ID:        cm.ID,
			Username:  cm.Username,
			Content:   cm.Content,
			CreatedAt: cm.CreatedAt,
			Likes:     likeCount[cm.ID],
			IsLiked:   likedByViewer[cm.ID],
		})
	}

	c.JSON(http.StatusOK, gin.H{"comments": views})
}
