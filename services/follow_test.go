package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"postline.app/postline-backend/models"
	"postline.app/postline-backend/services"
	"postline.app/postline-backend/store"
)

func newUser(t *testing.T, m *store.MemoryStore, username string) models.User {
	t.Helper()
	u := models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, m.CreateUser(context.Background(), &u))
	return u
}

func TestFollow_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	svc := services.NewFollowService(m, m)

	follower := newUser(t, m, "reader")
	author := newUser(t, m, "writer")

	_, err := svc.Follow(ctx, follower.ID, "writer")
	require.NoError(t, err)
	_, err = svc.Follow(ctx, follower.ID, "writer")
	require.NoError(t, err)

	assert.Equal(t, 1, m.FollowCount(follower.ID, author.ID))

	following, err := svc.IsFollowing(ctx, follower.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, following)
}

func TestFollow_SelfFollowIsSilentNoOp(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	svc := services.NewFollowService(m, m)

	user := newUser(t, m, "narcissus")

	_, err := svc.Follow(ctx, user.ID, "narcissus")
	require.NoError(t, err)

	assert.Equal(t, 0, m.FollowCount(user.ID, user.ID))
}

func TestFollow_UnknownUsernameIsNotFound(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	svc := services.NewFollowService(m, m)

	follower := newUser(t, m, "reader")

	_, err := svc.Follow(ctx, follower.ID, "ghost")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUnfollow_MissingEdgeIsNoOp(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	svc := services.NewFollowService(m, m)

	follower := newUser(t, m, "reader")
	author := newUser(t, m, "writer")

	_, err := svc.Unfollow(ctx, follower.ID, "writer")
	require.NoError(t, err)

	ids, err := svc.FollowedAuthorIDs(ctx, follower.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Equal(t, 0, m.FollowCount(follower.ID, author.ID))
}

func TestFollowFeed_TracksFollowState(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	followSvc := services.NewFollowService(m, m)
	feedSvc := services.NewFeedService(m, m, m, m, m, 10)
	postSvc := services.NewPostService(m, m, m)

	follower := newUser(t, m, "reader")
	other := newUser(t, m, "bystander")
	author := newUser(t, m, "writer")

	_, err := followSvc.Follow(ctx, follower.ID, "writer")
	require.NoError(t, err)

	post, err := postSvc.CreatePost(ctx, author.ID, services.CreateDraft{Text: "hello"})
	require.NoError(t, err)

	page, err := feedSvc.FollowFeed(ctx, follower.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, post.ID, page.Items[0].ID)

	page, err = feedSvc.FollowFeed(ctx, other.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = followSvc.Unfollow(ctx, follower.ID, "writer")
	require.NoError(t, err)

	page, err = feedSvc.FollowFeed(ctx, follower.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}
