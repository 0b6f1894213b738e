package feedstate

import (
	"fmt"
	"testing"
	"time"
)

func sampleView() []Post {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	comments := make([]Comment, 5)
	for i := range comments {
		comments[i] = Comment{
			ID:        fmt.Sprintf("c%d", i+1),
			Username:  "carol",
			Content:   fmt.Sprintf("comment %d", i+1),
			CreatedAt: base.Add(time.Duration(i+1) * time.Minute),
		}
	}
	return []Post{
		{ID: "p1", Username: "alice", Body: "hello", CreatedAt: base.Add(time.Hour), Likes: 2, Comments: 5, CommentList: comments},
		{ID: "p2", Username: "bob", Body: "hey", CreatedAt: base},
	}
}

func TestBeginPostLikeSuppressesDuplicates(t *testing.T) {
	fs := New(sampleView())

	if !fs.BeginPostLike("p1") {
		t.Fatal("first toggle should be allowed")
	}
	if fs.BeginPostLike("p1") {
		t.Fatal("duplicate toggle while pending should be suppressed")
	}
	if !fs.PostLikePending("p1") {
		t.Fatal("p1 should be pending")
	}

	// A different post is independent.
	if !fs.BeginPostLike("p2") {
		t.Fatal("second post's toggle should be allowed")
	}

	if fs.BeginPostLike("missing") {
		t.Fatal("unknown post should not start a toggle")
	}
}

func TestSettlePostLikeAppliesAuthoritativeState(t *testing.T) {
	fs := New(sampleView())

	fs.BeginPostLike("p1")
	// The server response wins even when it disagrees with the
	// optimistic expectation.
	fs.SettlePostLike("p1", 7, true)

	if fs.PostLikePending("p1") {
		t.Fatal("p1 should be idle after settling")
	}
	p, _ := fs.Post("p1")
	if p.Likes != 7 || !p.IsLiked {
		t.Fatalf("post = likes %d isLiked %v, want 7 true", p.Likes, p.IsLiked)
	}

	// Settled means a new toggle may start.
	if !fs.BeginPostLike("p1") {
		t.Fatal("toggle after settle should be allowed")
	}
}

func TestFailureSetsRedirectIntent(t *testing.T) {
	tests := []struct {
		code string
		want RedirectIntent
	}{
		{CodeAuthRequired, RedirectSignIn},
		{CodeUsernameRequired, RedirectUsername},
		{"ALREADY_LIKED", RedirectNone},
		{"", RedirectNone},
	}

	for _, tt := range tests {
		fs := New(sampleView())
		fs.BeginPostLike("p1")
		fs.FailPostLike("p1", tt.code)

		if fs.PostLikePending("p1") {
			t.Fatalf("code %q: p1 stuck pending after failure", tt.code)
		}
		if got := fs.Redirect(); got != tt.want {
			t.Fatalf("code %q: redirect = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestClearRedirect(t *testing.T) {
	fs := New(sampleView())
	fs.BeginCommentSubmit("p1")
	fs.FailCommentSubmit("p1", CodeUsernameRequired)

	if fs.Redirect() != RedirectUsername {
		t.Fatal("expected username redirect")
	}
	fs.ClearRedirect()
	if fs.Redirect() != RedirectNone {
		t.Fatal("redirect should clear once acted on")
	}
}

func TestCommentDisclosure(t *testing.T) {
	fs := New(sampleView())

	if got := fs.VisibleComments("p1"); got != nil {
		t.Fatalf("collapsed section shows %d comments, want none", len(got))
	}

	if !fs.ToggleComments("p1") {
		t.Fatal("first toggle should expand")
	}
	if got := fs.VisibleComments("p1"); len(got) != CommentPageSize {
		t.Fatalf("expanded section shows %d comments, want %d", len(got), CommentPageSize)
	}

	// Revealing all is local; no refetch involved.
	fs.ShowAllComments("p1")
	if got := fs.VisibleComments("p1"); len(got) != 5 {
		t.Fatalf("after show-all: %d comments, want 5", len(got))
	}

	// Collapsing hides the section, but allShown survives within the
	// lifetime of the view.
	if fs.ToggleComments("p1") {
		t.Fatal("second toggle should collapse")
	}
	if got := fs.VisibleComments("p1"); got != nil {
		t.Fatal("collapsed section should show nothing")
	}
	fs.ToggleComments("p1")
	if got := fs.VisibleComments("p1"); len(got) != 5 {
		t.Fatalf("allShown reset on collapse: %d comments, want 5", len(got))
	}
}

func TestCommentSubmitLifecycle(t *testing.T) {
	fs := New(sampleView())

	if !fs.BeginCommentSubmit("p2") {
		t.Fatal("submit should start")
	}
	if fs.BeginCommentSubmit("p2") {
		t.Fatal("duplicate submit while pending should be suppressed")
	}

	created := Comment{ID: "c-new", Username: "dave", Content: "late reply"}
	fs.SettleCommentSubmit("p2", created)

	if fs.CommentSubmitPending("p2") {
		t.Fatal("p2 should be idle after settling")
	}
	p, _ := fs.Post("p2")
	if p.Comments != 1 || len(p.CommentList) != 1 || p.CommentList[0].ID != "c-new" {
		t.Fatalf("post after submit = %+v, want one comment c-new", p)
	}

	// The section opens so the new comment is visible immediately.
	if got := fs.VisibleComments("p2"); len(got) != 1 {
		t.Fatalf("visible comments = %d, want 1", len(got))
	}
}

func TestCommentLikeReconciliation(t *testing.T) {
	fs := New(sampleView())

	if !fs.BeginCommentLike("c2") {
		t.Fatal("comment like should start")
	}
	if fs.BeginCommentLike("c2") {
		t.Fatal("duplicate comment like should be suppressed")
	}

	fs.SettleCommentLike("c2", 3, true)
	if fs.CommentLikePending("c2") {
		t.Fatal("c2 should be idle after settling")
	}

	p, _ := fs.Post("p1")
	if p.CommentList[1].Likes != 3 || !p.CommentList[1].IsLiked {
		t.Fatalf("comment c2 = %+v, want likes 3 isLiked true", p.CommentList[1])
	}
	// Neighbors untouched.
	if p.CommentList[0].Likes != 0 || p.CommentList[0].IsLiked {
		t.Fatalf("comment c1 disturbed: %+v", p.CommentList[0])
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	fs := New(sampleView())

	posts := fs.Posts()
	posts[0].Likes = 999
	posts[0].CommentList[0].Content = "mutated"

	p, _ := fs.Post("p1")
	if p.Likes == 999 || p.CommentList[0].Content == "mutated" {
		t.Fatal("returned snapshot aliases internal state")
	}
}
