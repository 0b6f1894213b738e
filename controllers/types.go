package controllers

import "time"

// Machine-readable error codes. Clients route on these: AUTH_REQUIRED
// goes to sign-in, USERNAME_REQUIRED goes to username setup, everything
// else is shown or retried.
const (
	CodeAuthRequired     = "AUTH_REQUIRED"
	CodeUsernameRequired = "USERNAME_REQUIRED"
	CodeNotFound         = "NOT_FOUND"
	CodeAlreadyLiked     = "ALREADY_LIKED"
	CodeInvalidInput     = "INVALID_INPUT"
)

// CommentView is a comment shaped for direct rendering: alias snapshot,
// on-demand like count and the viewer's own like state.
type CommentView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Likes     int       `json:"likes"`
	IsLiked   bool      `json:"isLiked"`
}

// PostView is one entry of the aggregated feed payload. Comments is the
// full count; CommentList is the first page (ascending by time). Shares
// is always 0, kept for forward compatibility.
type PostView struct {
	ID          string        `json:"id"`
	Username    string        `json:"username"`
	CreatedAt   time.Time     `json:"created_at"`
	Body        string        `json:"body"`
	Likes       int           `json:"likes"`
	IsLiked     bool          `json:"isLiked"`
	Comments    int           `json:"comments"`
	CommentList []CommentView `json:"commentList"`
	Shares      int           `json:"shares"`
}
