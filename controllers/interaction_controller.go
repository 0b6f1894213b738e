package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/ak00-rgb/popfeed-app/models"
	"github.com/ak00-rgb/popfeed-app/utils"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type InteractionController struct {
	DB *gorm.DB
}

func NewInteractionController(db *gorm.DB) *InteractionController {
	return &InteractionController{DB: db}
}

type ToggleLikeRequest struct {
	Action string `json:"action" binding:"required,oneof=like unlike"`
}

// isDuplicateKeyErr reports whether an insert was rejected by a unique
// index. Checked in addition to the pre-read: the constraint, not the
// read, is what makes concurrent duplicate likes safe.
func isDuplicateKeyErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}

// LikePost godoc
// @Summary Like or unlike a post
// @Description Applies an explicit like/unlike action and returns the fresh count
// @Tags interactions
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param body body ToggleLikeRequest true "Action"
// @Success 200 {object} map[string]interface{}
// @Router /posts/{id}/like [post]
func (ic *InteractionController) LikePost(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required", "code": CodeAuthRequired})
		return
	}

	var req ToggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing or invalid action", "code": CodeInvalidInput})
		return
	}

	postID := c.Param("id")
	var post models.Post
	if err := ic.DB.Where("id = ?", postID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Post not found", "code": CodeNotFound})
			return
		}
		log.Printf("post lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to like post"})
		return
	}

	if req.Action == "like" {
		// Fast path: reject an obvious duplicate before inserting.
		var existing models.PostLike
		err := ic.DB.Where("post_id = ? AND user_id = ?", post.ID, user.UserID).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Already liked", "code": CodeAlreadyLiked})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("post like lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to like post"})
			return
		}

		like := models.PostLike{PostID: post.ID, UserID: user.UserID}
		if err := ic.DB.Create(&like).Error; err != nil {
			if isDuplicateKeyErr(err) {
				// A concurrent like won the race; the constraint is authoritative.
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Already liked", "code": CodeAlreadyLiked})
				return
			}
			log.Printf("post like insert failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to like post"})
			return
		}
	} else {
		// Deleting zero rows is fine; unlike is idempotent.
		if err := ic.DB.Where("post_id = ? AND user_id = ?", post.ID, user.UserID).Delete(&models.PostLike{}).Error; err != nil {
			log.Printf("post unlike failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to unlike post"})
			return
		}
	}

	likes, isLiked, err := ic.postLikeState(post.ID, user.UserID)
	if err != nil {
		log.Printf("post like recount failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch like count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "likes": likes, "isLiked": isLiked})
}

// LikeComment godoc
// @Summary Like or unlike a comment
// @Description Applies an explicit like/unlike action and returns the fresh count
// @Tags interactions
// @Accept json
// @Produce json
// @Param id path string true "Comment ID"
// @Param body body ToggleLikeRequest true "Action"
// @Success 200 {object} map[string]interface{}
// @Router /comments/{id}/like [post]
func (ic *InteractionController) LikeComment(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required", "code": CodeAuthRequired})
		return
	}

	var req ToggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing or invalid action", "code": CodeInvalidInput})
		return
	}

	commentID := c.Param("id")
	var comment models.Comment
	if err := ic.DB.Where("id = ?", commentID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Comment not found", "code": CodeNotFound})
			return
		}
		log.Printf("comment lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to like comment"})
		return
	}

	if req.Action == "like" {
		var existing models.CommentLike
		err := ic.DB.Where("comment_id = ? AND user_id = ?", comment.ID, user.UserID).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Already liked", "code": CodeAlreadyLiked})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("comment like lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to like comment"})
			return
		}

		like := models.CommentLike{CommentID: comment.ID, UserID: user.UserID}
		if err := ic.DB.Create(&like).Error; err != nil {
			if isDuplicateKeyErr(err) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Already liked", "code": CodeAlreadyLiked})
				return
			}
			log.Printf("comment like insert failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to like comment"})
			return
		}
	} else {
		if err := ic.DB.Where("comment_id = ? AND user_id = ?", comment.ID, user.UserID).Delete(&models.CommentLike{}).Error; err != nil {
			log.Printf("comment unlike failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to unlike comment"})
			return
		}
	}

	likes, isLiked, err := ic.commentLikeState(comment.ID, user.UserID)
	if err != nil {
		log.Printf("comment like recount failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch like count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "likes": likes, "isLiked": isLiked})
}

// postLikeState recomputes the authoritative count and viewer flag from
// fresh reads; the response never echoes the caller's assumed state.
func (ic *InteractionController) postLikeState(postID, userID string) (int64, bool, error) {
	var likes int64
	if err := ic.DB.Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&likes).Error; err != nil {
		return 0, false, err
	}

	var mine int64
	if err := ic.DB.Model(&models.PostLike{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&mine).Error; err != nil {
		return 0, false, err
	}

	return likes, mine > 0, nil
}

func (ic *InteractionController) commentLikeState(commentID, userID string) (int64, bool, error) {
	var likes int64
	if err := ic.DB.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&likes).Error; err != nil {
		return 0, false, err
	}

	var mine int64
	if err := ic.DB.Model(&models.CommentLike{}).Where("comment_id = ? AND user_id = ?", commentID, userID).Count(&mine).Error; err != nil {
		return 0, false, err
	}

	return likes, mine > 0, nil
}
