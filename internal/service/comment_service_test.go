package service

import (
	"context"
	"testing"

	"socialfeed/internal/models"
	"socialfeed/internal/notifications"
	"socialfeed/internal/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_CreateComment(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	post := env.post(t, alice.ID, "discuss")

	comment, err := env.comments.CreateComment(ctx, CreateCommentInput{UserID: bob.ID, PostID: post.ID, Content: "nice"})
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)
	assert.Equal(t, "bob", comment.Username)

	_, err = env.comments.CreateComment(ctx, CreateCommentInput{UserID: alice.ID, PostID: post.ID, Content: "thanks"})
	require.NoError(t, err)

	var events []notifications.Event
	for _, e := range env.publisher.events {
		if e.Type == notifications.EventCommentCreated {
			events = append(events, e)
		}
	}
	require.Len(t, events, 1, "commenting on your own post is not announced")
	assert.Equal(t, alice.ID, events[0].TargetUserID)

	got, err := env.posts.GetPost(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.CommentsCount)
}

func TestCommentService_CreateComment_Rejected(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	off := false
	closed, err := env.posts.CreatePost(ctx, CreatePostInput{UserID: alice.ID, Content: "closed", CommentsEnabled: &off})
	require.NoError(t, err)
	deleted := env.post(t, alice.ID, "deleted")
	require.NoError(t, env.posts.DeletePost(ctx, alice.ID, deleted.ID))

	_, err = env.comments.CreateComment(ctx, CreateCommentInput{UserID: bob.ID, PostID: closed.ID, Content: "hi"})
	assertAppError(t, err, models.CodeForbidden, models.ReasonCommentsDisabled)

	_, err = env.comments.CreateComment(ctx, CreateCommentInput{UserID: bob.ID, PostID: deleted.ID, Content: "hi"})
	assertAppError(t, err, models.CodeNotFound, "")

	_, err = env.comments.CreateComment(ctx, CreateCommentInput{UserID: bob.ID, PostID: closed.ID, Content: " "})
	assertAppError(t, err, models.CodeValidation, "")

	var n int64
	require.NoError(t, env.db.Model(&models.Comment{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCommentService_ListComments(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	post := env.post(t, alice.ID, "thread")
	for _, c := range []string{"one", "two", "three"} {
		_, err := env.comments.CreateComment(ctx, CreateCommentInput{UserID: alice.ID, PostID: post.ID, Content: c})
		require.NoError(t, err)
	}

	page, err := env.comments.ListComments(ctx, post.ID, pagination.New(1, 2, pagination.DefaultLimit))
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "one", page.Items[0].Content)
	assert.True(t, page.Pagination.HasMore)

	page, err = env.comments.ListComments(ctx, post.ID, pagination.New(2, 2, pagination.DefaultLimit))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "three", page.Items[0].Content)
	assert.False(t, page.Pagination.HasMore)

	require.NoError(t, env.posts.DeletePost(ctx, alice.ID, post.ID))
	_, err = env.comments.ListComments(ctx, post.ID, pagination.New(1, 0, pagination.DefaultLimit))
	assertAppError(t, err, models.CodeNotFound, "")
}

func TestCommentService_UpdateAndDelete(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")
	post := env.post(t, alice.ID, "thread")

	comment, err := env.comments.CreateComment(ctx, CreateCommentInput{UserID: bob.ID, PostID: post.ID, Content: "draft"})
	require.NoError(t, err)

	_, err = env.comments.UpdateComment(ctx, alice.ID, comment.ID, "edited by owner")
	assertAppError(t, err, models.CodeForbidden, "")

	updated, err := env.comments.UpdateComment(ctx, bob.ID, comment.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)

	assertAppError(t, env.comments.DeleteComment(ctx, carol.ID, comment.ID), models.CodeForbidden, "")

	// the post owner moderates comments on their post
	require.NoError(t, env.comments.DeleteComment(ctx, alice.ID, comment.ID))
	assertAppError(t, env.comments.DeleteComment(ctx, bob.ID, comment.ID), models.CodeNotFound, "")
}
