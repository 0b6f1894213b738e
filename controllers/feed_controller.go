package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/ak00-rgb/popfeed-app/models"
	"github.com/ak00-rgb/popfeed-app/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// commentPageSize is the initial page of comments returned per post.
// Revealing the rest is a client-side operation; the full count is
// always present in the payload.
const commentPageSize = 3

type FeedController struct {
	DB *gorm.DB
}

func NewFeedController(db *gorm.DB) *FeedController {
	return &FeedController{DB: db}
}

type CreateFeedRequest struct {
	EventName string `json:"eventName" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	Timezone  string `json:"timezone" binding:"required"`
	Location  string `json:"location" binding:"required"`
	IsPrivate bool   `json:"isPrivate"`
}

// CreateFeed godoc
// @Summary Create a new event feed
// @Description Creates a feed and returns its shareable event code
// @Tags feeds
// @Accept json
// @Produce json
// @Param body body CreateFeedRequest true "Feed details"
// @Success 201 {object} map[string]interface{}
// @Router /feeds [post]
func (fc *FeedController) CreateFeed(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required", "code": CodeAuthRequired})
		return
	}

	var req CreateFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required fields", "code": CodeInvalidInput})
		return
	}

	startsAt, err := time.Parse("2006-01-02T15:04", req.StartDate+"T"+req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid start date or time", "code": CodeInvalidInput})
		return
	}

	// Event codes are random; retry on the rare collision against the
	// unique index instead of checking first.
	for attempt := 0; attempt < 5; attempt++ {
		code, err := utils.GenerateEventCode(6)
		if err != nil {
			log.Printf("event code generation failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create feed"})
			return
		}

		feed := models.Feed{
			Name:      req.EventName,
			EventCode: code,
			IsPrivate: req.IsPrivate,
			StartsAt:  startsAt,
			Timezone:  req.Timezone,
			Location:  req.Location,
			UserID:    user.UserID,
		}

		if err := fc.DB.Create(&feed).Error; err != nil {
			if isDuplicateKeyErr(err) {
				continue
			}
			log.Printf("feed insert failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create feed"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "code": feed.EventCode})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create feed"})
}

// GetFeedView godoc
// @Summary Get the aggregated view of a feed
// @Description Returns posts with like counts, viewer like state, comment counts and the first page of comments
// @Tags feeds
// @Produce json
// @Param code path string true "Event code"
// @Success 200 {object} map[string]interface{}
// @Router /feeds/{code} [get]
func (fc *FeedController) GetFeedView(c *gin.Context) {
	viewerID := ""
	if user := utils.GetUser(c); user != nil {
		viewerID = user.UserID
	}

	eventCode := c.Param("code")
	var feed models.Feed
	if err := fc.DB.Where("event_code = ?", eventCode).First(&feed).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Feed not found", "code": CodeNotFound})
			return
		}
		log.Printf("feed lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch feed"})
		return
	}

	// The secondary id sort keeps ordering deterministic when two rows
	// share a timestamp.
	var posts []models.Post
	if err := fc.DB.Where("feed_id = ?", feed.ID).Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		log.Printf("post fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch posts"})
		return
	}

	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	var postLikes []models.PostLike
	var comments []models.Comment
	if len(postIDs) > 0 {
		if err := fc.DB.Where("post_id IN ?", postIDs).Find(&postLikes).Error; err != nil {
			log.Printf("post like fetch failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch likes"})
			return
		}
		if err := fc.DB.Where("post_id IN ?", postIDs).Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
			log.Printf("comment fetch failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch comments"})
			return
		}
	}

	commentIDs := make([]string, len(comments))
	for i, cm := range comments {
		commentIDs[i] = cm.ID
	}

	var commentLikes []models.CommentLike
	if len(commentIDs) > 0 {
		if err := fc.DB.Where("comment_id IN ?", commentIDs).Find(&commentLikes).Error; err != nil {
			log.Printf("comment like fetch failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch comment likes"})
			return
		}
	}

	// Fan-out aggregation in memory. Counts are always computed from
	// the relationship rows, never read from a cached counter.
	postLikeCount := make(map[string]int)
	postLikedByViewer := make(map[string]bool)
	for _, l := range postLikes {
		postLikeCount[l.PostID]++
		if viewerID != "" && l.UserID == viewerID {
			postLikedByViewer[l.PostID] = true
		}
	}

	commentLikeCount := make(map[string]int)
	commentLikedByViewer := make(map[string]bool)
	for _, l := range commentLikes {
		commentLikeCount[l.CommentID]++
		if viewerID != "" && l.UserID == viewerID {
			commentLikedByViewer[l.CommentID] = true
		}
	}

	commentsByPost := make(map[string][]models.Comment)
	for _, cm := range comments {
		commentsByPost[cm.PostID] = append(commentsByPost[cm.PostID], cm)
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		postComments := commentsByPost[p.ID]

		page := postComments
		if len(page) > commentPageSize {
			page = page[:commentPageSize]
		}
		commentList := make([]CommentView, 0, len(page))
		for _, cm := range page {
			commentList = append(commentList, CommentView{
				ID:        cm.ID,
				Username:  cm.Username,
				Content:   cm.Content,
				CreatedAt: cm.CreatedAt,
				Likes:     commentLikeCount[cm.ID],
				IsLiked:   commentLikedByViewer[cm.ID],
			})
		}

		views = append(views, PostView{
			ID:          p.ID,
			Username:    p.Alias,
			CreatedAt:   p.CreatedAt,
			Body:        p.Message,
			Likes:       postLikeCount[p.ID],
			IsLiked:     postLikedByViewer[p.ID],
			Comments:    len(postComments),
			CommentList: commentList,
			Shares:      0,
		})
	}

	c.JSON(http.StatusOK, gin.H{"posts": views})
}
