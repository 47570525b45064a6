package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"postline.app/postline-backend/services"
)

func TestCreatePost_UnauthenticatedIsRedirectedToLogin(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/posts", "", map[string]string{"text": "hi"})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))

	posts, err := app.store.ListPosts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestCreatePost_EmptyTextIsRejectedWithFieldError(t *testing.T) {
	app := newTestApp(t)
	_, token := app.user(t, "writer")

	rec := app.do(t, http.MethodPost, "/posts", token, map[string]string{"text": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "text")

	posts, err := app.store.ListPosts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestEditPost_NonAuthorIsSoftDenied(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	author, _ := app.user(t, "writer")
	_, intruderToken := app.user(t, "intruder")

	post, err := app.posts.CreatePost(ctx, author.ID, services.CreateDraft{Text: "original"})
	require.NoError(t, err)

	rec := app.do(t, http.MethodPost, fmt.Sprintf("/posts/%d/edit", post.ID),
		intruderToken, map[string]string{"text": "defaced"})

	// not a 403: the write attempt downgrades to a redirect to the detail view
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), rec.Header().Get("Location"))

	got, err := app.store.PostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Text)
}

func TestEditPost_AuthorSucceeds(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	author, token := app.user(t, "writer")
	post, err := app.posts.CreatePost(ctx, author.ID, services.CreateDraft{Text: "original"})
	require.NoError(t, err)

	rec := app.do(t, http.MethodPost, fmt.Sprintf("/posts/%d/edit", post.ID),
		token, map[string]string{"text": "revised"})
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := app.store.PostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "revised", got.Text)
	assert.Equal(t, post.CreatedAt, got.CreatedAt)
}

func TestAddComment_AuthenticationGatesTheCount(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	author, _ := app.user(t, "writer")
	reader, readerToken := app.user(t, "reader")

	post, err := app.posts.CreatePost(ctx, author.ID, services.CreateDraft{Text: "hello"})
	require.NoError(t, err)
	commentsPath := fmt.Sprintf("/posts/%d/comments", post.ID)

	rec := app.do(t, http.MethodPost, commentsPath, "", map[string]string{"text": "anon"})
	require.Equal(t, http.StatusFound, rec.Code)

	comments, err := app.store.ListCommentsByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	rec = app.do(t, http.MethodPost, commentsPath, readerToken, map[string]string{"text": "hi there"})
	require.Equal(t, http.StatusCreated, rec.Code)

	comments, err = app.store.ListCommentsByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, reader.ID, comments[0].AuthorID)
}

func TestDeletePost_OwnerGated(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	author, authorToken := app.user(t, "writer")
	_, otherToken := app.user(t, "other")

	post, err := app.posts.CreatePost(ctx, author.ID, services.CreateDraft{Text: "bye"})
	require.NoError(t, err)
	path := fmt.Sprintf("/posts/%d", post.ID)

	rec := app.do(t, http.MethodDelete, path, otherToken, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, path, rec.Header().Get("Location"))

	rec = app.do(t, http.MethodDelete, path, authorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err = app.store.PostByID(ctx, post.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestFollowEndpoints_AreIdempotentOverTheWire(t *testing.T) {
	app := newTestApp(t)

	author, _ := app.user(t, "writer")
	reader, readerToken := app.user(t, "reader")

	for i := 0; i < 2; i++ {
		rec := app.do(t, http.MethodPost, "/profile/writer/follow", readerToken, nil)
		require.Equal(t, http.StatusFound, rec.Code)
	}
	assert.Equal(t, 1, app.store.FollowCount(reader.ID, author.ID))

	// unfollowing twice is just as safe
	for i := 0; i < 2; i++ {
		rec := app.do(t, http.MethodPost, "/profile/writer/unfollow", readerToken, nil)
		require.Equal(t, http.StatusFound, rec.Code)
	}
	assert.Equal(t, 0, app.store.FollowCount(reader.ID, author.ID))

	rec := app.do(t, http.MethodPost, "/profile/ghost/follow", readerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
