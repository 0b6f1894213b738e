package controllers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ak00-rgb/popfeed-app/models"
)

func TestGetFeedViewNotFound(t *testing.T) {
	_, r := setupTestServer(t)

	w := doJSON(t, r, "GET", "/api/feeds/NOPE42", "", nil)
	wantStatus(t, w, http.StatusNotFound)
	wantCode(t, decodeBody(t, w), "NOT_FOUND")
}

func TestGetFeedViewOrdersPostsNewestFirst(t *testing.T) {
	db, r := setupTestServer(t)

	owner := createTestProfile(t, db, "owner", true)
	feed := createTestFeed(t, db, "ABC234", owner.ID)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p1 := createTestPost(t, db, feed.ID, "alice", "first", base)
	p2 := createTestPost(t, db, feed.ID, "bob", "second", base.Add(time.Minute))

	w := doJSON(t, r, "GET", "/api/feeds/ABC234", "", nil)
	wantStatus(t, w, http.StatusOK)

	posts := decodeBody(t, w)["posts"].([]interface{})
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2", len(posts))
	}

	first := posts[0].(map[string]interface{})
	second := posts[1].(map[string]interface{})
	if first["id"] != p2.ID || second["id"] != p1.ID {
		t.Fatalf("post order = [%v, %v], want [%v, %v]", first["id"], second["id"], p2.ID, p1.ID)
	}
	if first["username"] != "bob" || first["body"] != "second" {
		t.Fatalf("unexpected first post: %v", first)
	}
	if shares := first["shares"].(float64); shares != 0 {
		t.Fatalf("shares = %v, want 0", shares)
	}
}

func TestGetFeedViewStableOrderOnEqualTimestamps(t *testing.T) {
	db, r := setupTestServer(t)

	owner := createTestProfile(t, db, "owner", true)
	feed := createTestFeed(t, db, "TIED99", owner.ID)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		createTestPost(t, db, feed.ID, "alice", fmt.Sprintf("post %d", i), ts)
	}

	var firstOrder []string
	for call := 0; call < 3; call++ {
		w := doJSON(t, r, "GET", "/api/feeds/TIED99", "", nil)
		wantStatus(t, w, http.StatusOK)

		posts := decodeBody(t, w)["posts"].([]interface{})
		order := make([]string, len(posts))
		for i, p := range posts {
			order[i] = p.(map[string]interface{})["id"].(string)
		}

		if call == 0 {
			firstOrder = order
			continue
		}
		if strings.Join(order, ",") != strings.Join(firstOrder, ",") {
			t.Fatalf("call %d order %v differs from first call %v", call, order, firstOrder)
		}
	}
}

func TestGetFeedViewCommentPagination(t *testing.T) {
	db, r := setupTestServer(t)

	owner := createTestProfile(t, db, "owner", true)
	commenter := createTestProfile(t, db, "carol", true)
	feed := createTestFeed(t, db, "PAGE33", owner.ID)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	post := createTestPost(t, db, feed.ID, "alice", "hello", base)

	var commentIDs []string
	for i := 0; i < 5; i++ {
		cm := createTestComment(t, db, post.ID, commenter.ID, "carol",
			fmt.Sprintf("comment %d", i+1), base.Add(time.Duration(i+1)*time.Minute))
		commentIDs = append(commentIDs, cm.ID)
	}

	w := doJSON(t, r, "GET", "/api/feeds/PAGE33", "", nil)
	wantStatus(t, w, http.StatusOK)

	posts := decodeBody(t, w)["posts"].([]interface{})
	view := posts[0].(map[string]interface{})

	if count := view["comments"].(float64); count != 5 {
		t.Fatalf("comments = %v, want 5", count)
	}

	list := view["commentList"].([]interface{})
	if len(list) != 3 {
		t.Fatalf("len(commentList) = %d, want 3", len(list))
	}
	for i, c := range list {
		cm := c.(map[string]interface{})
		if cm["id"] != commentIDs[i] {
			t.Fatalf("commentList[%d] = %v, want %v (ascending prefix)", i, cm["id"], commentIDs[i])
		}
	}
}

func TestGetFeedViewViewerLikeFlags(t *testing.T) {
	db, r := setupTestServer(t)

	owner := createTestProfile(t, db, "owner", true)
	viewer := createTestProfile(t, db, "viewer", true)
	other := createTestProfile(t, db, "other", true)
	feed := createTestFeed(t, db, "LIKE77", owner.ID)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	post := createTestPost(t, db, feed.ID, "alice", "hello", base)
	comment := createTestComment(t, db, post.ID, other.ID, "other", "nice", base.Add(time.Minute))

	for _, like := range []models.PostLike{
		{PostID: post.ID, UserID: viewer.ID},
		{PostID: post.ID, UserID: other.ID},
	} {
		if err := db.Create(&like).Error; err != nil {
			t.Fatalf("seed post like: %v", err)
		}
	}
	if err := db.Create(&models.CommentLike{CommentID: comment.ID, UserID: viewer.ID}).Error; err != nil {
		t.Fatalf("seed comment like: %v", err)
	}

	// Authenticated view: counts plus the viewer's own flags.
	w := doJSON(t, r, "GET", "/api/feeds/LIKE77", tokenFor(t, viewer), nil)
	wantStatus(t, w, http.StatusOK)

	view := decodeBody(t, w)["posts"].([]interface{})[0].(map[string]interface{})
	if likes := view["likes"].(float64); likes != 2 {
		t.Fatalf("likes = %v, want 2", likes)
	}
	if view["isLiked"] != true {
		t.Fatalf("isLiked = %v, want true", view["isLiked"])
	}

	cm := view["commentList"].([]interface{})[0].(map[string]interface{})
	if likes := cm["likes"].(float64); likes != 1 {
		t.Fatalf("comment likes = %v, want 1", likes)
	}
	if cm["isLiked"] != true {
		t.Fatalf("comment isLiked = %v, want true", cm["isLiked"])
	}

	// Anonymous view: same counts, no viewer flags.
	w = doJSON(t, r, "GET", "/api/feeds/LIKE77", "", nil)
	wantStatus(t, w, http.StatusOK)

	view = decodeBody(t, w)["posts"].([]interface{})[0].(map[string]interface{})
	if likes := view["likes"].(float64); likes != 2 {
		t.Fatalf("anonymous likes = %v, want 2", likes)
	}
	if view["isLiked"] != false {
		t.Fatalf("anonymous isLiked = %v, want false", view["isLiked"])
	}
}

func TestCreateFeed(t *testing.T) {
	db, r := setupTestServer(t)
	user := createTestProfile(t, db, "host", true)

	body := map[string]interface{}{
		"eventName": "Launch Party",
		"startDate": "2025-07-01",
		"startTime": "19:30",
		"timezone":  "America/New_York",
		"location":  "Brooklyn",
		"isPrivate": true,
	}

	w := doJSON(t, r, "POST", "/api/feeds", tokenFor(t, user), body)
	wantStatus(t, w, http.StatusCreated)

	code, _ := decodeBody(t, w)["code"].(string)
	if len(code) != 6 {
		t.Fatalf("code = %q, want 6 characters", code)
	}
	for _, ch := range code {
		if !strings.ContainsRune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789", ch) {
			t.Fatalf("code %q contains %q outside the event code charset", code, ch)
		}
	}

	var feed models.Feed
	if err := db.Where("event_code = ?", code).First(&feed).Error; err != nil {
		t.Fatalf("feed not persisted: %v", err)
	}
	if feed.UserID != user.ID || !feed.IsPrivate {
		t.Fatalf("feed = %+v, want owner %s and private", feed, user.ID)
	}

	// The new feed starts empty.
	w = doJSON(t, r, "GET", "/api/feeds/"+code, "", nil)
	wantStatus(t, w, http.StatusOK)
	if posts := decodeBody(t, w)["posts"].([]interface{}); len(posts) != 0 {
		t.Fatalf("new feed has %d posts, want 0", len(posts))
	}
}

func TestCreateFeedRequiresAuth(t *testing.T) {
	_, r := setupTestServer(t)

	w := doJSON(t, r, "POST", "/api/feeds", "", map[string]interface{}{"eventName": "x"})
	wantStatus(t, w, http.StatusUnauthorized)
	wantCode(t, decodeBody(t, w), "AUTH_REQUIRED")
}
