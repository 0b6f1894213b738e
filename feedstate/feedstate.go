// Package feedstate is the client-side bookkeeping for one rendered
// feed view: which interactions are in flight, how each post's comment
// section is disclosed, and where a failed call should send the user.
// State lives in memory for the lifetime of one fetched view and is
// rebuilt from scratch whenever the view is reloaded. The server
// response is always authoritative; nothing here is trusted between
// requests.
package feedstate

import (
	"sync"
	"time"
)

// CommentPageSize matches the initial comment page the server returns
// per post. Revealing more is purely local.
const CommentPageSize = 3

// Error codes the server uses to route remediation.
const (
	CodeAuthRequired     = "AUTH_REQUIRED"
	CodeUsernameRequired = "USERNAME_REQUIRED"
)

// RedirectIntent tells the surrounding navigation layer where to send
// the user after a rejected interaction.
type RedirectIntent int

const (
	RedirectNone RedirectIntent = iota
	RedirectSignIn
	RedirectUsername
)

type Comment struct {
	ID        string
	Username  string
	Content   string
	CreatedAt time.Time
	Likes     int
	IsLiked   bool
}

type Post struct {
	ID          string
	Username    string
	CreatedAt   time.Time
	Body        string
	Likes       int
	IsLiked     bool
	Comments    int
	CommentList []Comment
	Shares      int
}

type FeedState struct {
	mu    sync.Mutex
	posts []Post
	index map[string]int

	pendingPostLikes    map[string]struct{}
	pendingCommentLikes map[string]struct{}
	pendingComments     map[string]struct{}

	expanded map[string]bool
	allShown map[string]bool

	redirect RedirectIntent
}

// New builds the state for a freshly fetched feed view.
func New(posts []Post) *FeedState {
	fs := &FeedState{
		posts:               make([]Post, len(posts)),
		index:               make(map[string]int, len(posts)),
		pendingPostLikes:    make(map[string]struct{}),
		pendingCommentLikes: make(map[string]struct{}),
		pendingComments:     make(map[string]struct{}),
		expanded:            make(map[string]bool),
		allShown:            make(map[string]bool),
	}
	for i, p := range posts {
		cp := p
		cp.CommentList = append([]Comment(nil), p.CommentList...)
		fs.posts[i] = cp
		fs.index[p.ID] = i
	}
	return fs
}

// Posts returns a snapshot of the held view in display order.
func (fs *FeedState) Posts() []Post {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	out := make([]Post, len(fs.posts))
	for i, p := range fs.posts {
		cp := p
		cp.CommentList = append([]Comment(nil), p.CommentList...)
		out[i] = cp
	}
	return out
}

func (fs *FeedState) Post(postID string) (Post, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	i, ok := fs.index[postID]
	if !ok {
		return Post{}, false
	}
	cp := fs.posts[i]
	cp.CommentList = append([]Comment(nil), cp.CommentList...)
	return cp, true
}

// BeginPostLike marks a post-like toggle as in flight. It returns false
// when the post is unknown or a toggle for it is already pending, in
// which case no request should be sent.
func (fs *FeedState) BeginPostLike(postID string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.index[postID]; !ok {
		return false
	}
	if _, busy := fs.pendingPostLikes[postID]; busy {
		return false
	}
	fs.pendingPostLikes[postID] = struct{}{}
	return true
}

// SettlePostLike applies the authoritative toggle response and returns
// the post to idle.
func (fs *FeedState) SettlePostLike(postID string, likes int, isLiked bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	delete(fs.pendingPostLikes, postID)
	if i, ok := fs.index[postID]; ok {
		fs.posts[i].Likes = likes
		fs.posts[i].IsLiked = isLiked
	}
}

// FailPostLike returns the post to idle and records a redirect intent
// for authentication failures. Other errors leave navigation alone.
func (fs *FeedState) FailPostLike(postID, code string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	delete(fs.pendingPostLikes, postID)
	fs.applyErrorCode(code)
}

func (fs *FeedState) BeginCommentLike(commentID string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, busy := fs.pendingCommentLikes[commentID]; busy {
		return false
	}
	fs.pendingCommentLikes[commentID] = struct{}{}
	return true
}

func (fs *FeedState) SettleCommentLike(commentID string, likes int, isLiked bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	delete(fs.pendingCommentLikes, commentID)
	for i := range fs.posts {
		for j := range fs.posts[i].CommentList {
			if fs.posts[i].CommentList[j].ID == commentID {
				fs.posts[i].CommentList[j].Likes = likes
				fs.posts[i].CommentList[j].IsLiked = isLiked
				return
			}
		}
	}
}

func (fs *FeedState) FailCommentLike(commentID, code string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	delete(fs.pendingCommentLikes, commentID)
	fs.applyErrorCode(code)
}

// BeginCommentSubmit marks a comment submission for a post as in
// flight; duplicate submissions for the same post are suppressed.
func (fs *FeedState) BeginCommentSubmit(postID string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.index[postID]; !ok {
		return false
	}
	if _, busy := fs.pendingComments[postID]; busy {
		return false
	}
	fs.pendingComments[postID] = struct{}{}
	return true
}

// SettleCommentSubmit appends the created comment from the server
// response, bumps the count and keeps the section open.
func (fs *FeedState) SettleCommentSubmit(postID string, comment Comment) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	delete(fs.pendingComments, postID)
	i, ok := fs.index[postID]
	if !ok {
		return
	}
	fs.posts[i].CommentList = append(fs.posts[i].CommentList, comment)
	fs.posts[i].Comments++
	fs.expanded[postID] = true
}

func (fs *FeedState) FailCommentSubmit(postID, code string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	delete(fs.pendingComments, postID)
	fs.applyErrorCode(code)
}

// PostLikePending reports whether a like toggle for the post is in
// flight, for rendering a spinner in its place.
func (fs *FeedState) PostLikePending(postID string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_, busy := fs.pendingPostLikes[postID]
	return busy
}

func (fs *FeedState) CommentLikePending(commentID string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_, busy := fs.pendingCommentLikes[commentID]
	return busy
}

func (fs *FeedState) CommentSubmitPending(postID string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_, busy := fs.pendingComments[postID]
	return busy
}

// ToggleComments flips whether a post's comment section is shown and
// returns the new state.
func (fs *FeedState) ToggleComments(postID string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.expanded[postID] = !fs.expanded[postID]
	return fs.expanded[postID]
}

// ShowAllComments reveals the full comment list for a post. The flag is
// monotonic: once set it stays set for the lifetime of this view.
func (fs *FeedState) ShowAllComments(postID string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.allShown[postID] = true
}

// VisibleComments returns the comments to render for a post: none when
// the section is collapsed, the first page unless the user asked for
// all of them. No server call is involved in revealing more.
func (fs *FeedState) VisibleComments(postID string) []Comment {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	i, ok := fs.index[postID]
	if !ok || !fs.expanded[postID] {
		return nil
	}

	list := fs.posts[i].CommentList
	if !fs.allShown[postID] && len(list) > CommentPageSize {
		list = list[:CommentPageSize]
	}
	return append([]Comment(nil), list...)
}

// Redirect returns where a failed interaction should send the user,
// and RedirectNone when navigation should stay put.
func (fs *FeedState) Redirect() RedirectIntent {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.redirect
}

// ClearRedirect resets the intent once navigation has acted on it.
func (fs *FeedState) ClearRedirect() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.redirect = RedirectNone
}

func (fs *FeedState) applyErrorCode(code string) {
	switch code {
	case CodeAuthRequired:
		fs.redirect = RedirectSignIn
	case CodeUsernameRequired:
		fs.redirect = RedirectUsername
	}
}
