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

func newGroup(t *testing.T, m *store.MemoryStore, title, slug string) models.Group {
	t.Helper()
	g := models.Group{Title: title, Slug: slug, Description: "test group"}
	require.NoError(t, m.CreateGroup(context.Background(), &g))
	return g
}

func TestHomeFeed_NewestFirst(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	feedSvc := services.NewFeedService(m, m, m, m, m, 10)
	postSvc := services.NewPostService(m, m, m)

	author := newUser(t, m, "writer")
	first, err := postSvc.CreatePost(ctx, author.ID, services.CreateDraft{Text: "first"})
	require.NoError(t, err)
	second, err := postSvc.CreatePost(ctx, author.ID, services.CreateDraft{Text: "second"})
	require.NoError(t, err)

	page, err := feedSvc.HomeFeed(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, second.ID, page.Items[0].ID)
	assert.Equal(t, first.ID, page.Items[1].ID)
	assert.Equal(t, "writer", page.Items[0].AuthorUsername)
}

func TestGroupFeed_FiltersByGroup(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	feedSvc := services.NewFeedService(m, m, m, m, m, 10)
	postSvc := services.NewPostService(m, m, m)

	author := newUser(t, m, "writer")
	group := newGroup(t, m, "Go", "go")
	other := newGroup(t, m, "Rust", "rust")

	inGroup, err := postSvc.CreatePost(ctx, author.ID, services.CreateDraft{Text: "in", GroupID: &group.ID})
	require.NoError(t, err)
	_, err = postSvc.CreatePost(ctx, author.ID, services.CreateDraft{Text: "elsewhere", GroupID: &other.ID})
	require.NoError(t, err)
	_, err = postSvc.CreatePost(ctx, author.ID, services.CreateDraft{Text: "ungrouped"})
	require.NoError(t, err)

	got, page, err := feedSvc.GroupFeed(ctx, "go", 1)
	require.NoError(t, err)
	assert.Equal(t, group.ID, got.ID)
	require.Len(t, page.Items, 1)
	assert.Equal(t, inGroup.ID, page.Items[0].ID)
	assert.Equal(t, "go", page.Items[0].GroupSlug)
}

func TestGroupFeed_UnknownSlugIsNotFound(t *testing.T) {
	m := store.NewMemoryStore()
	feedSvc := services.NewFeedService(m, m, m, m, m, 10)

	_, _, err := feedSvc.GroupFeed(context.Background(), "missing", 1)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestProfileFeed_MetadataAndFollowingFlag(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	feedSvc := services.NewFeedService(m, m, m, m, m, 10)
	postSvc := services.NewPostService(m, m, m)
	followSvc := services.NewFollowService(m, m)

	author := newUser(t, m, "writer")
	viewer := newUser(t, m, "reader")

	for i := 0; i < 3; i++ {
		_, err := postSvc.CreatePost(ctx, author.ID, services.CreateDraft{Text: "post"})
		require.NoError(t, err)
	}
	_, err := followSvc.Follow(ctx, viewer.ID, "writer")
	require.NoError(t, err)

	profile, err := feedSvc.ProfileFeed(ctx, "writer", viewer.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, author.ID, profile.Author.ID)
	assert.Empty(t, profile.Author.Password)
	assert.Equal(t, 3, profile.PostCount)
	assert.True(t, profile.Following)
	assert.Len(t, profile.Page.Items, 3)

	// anonymous viewer never sees a following flag
	profile, err = feedSvc.ProfileFeed(ctx, "writer", 0, 1)
	require.NoError(t, err)
	assert.False(t, profile.Following)

	_, err = feedSvc.ProfileFeed(ctx, "nobody", viewer.ID, 1)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestGroupIndex_OrderedByTitle(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	feedSvc := services.NewFeedService(m, m, m, m, m, 10)

	newGroup(t, m, "Zig", "zig")
	newGroup(t, m, "Ada", "ada")
	newGroup(t, m, "Go", "go")

	page, err := feedSvc.GroupIndex(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "Ada", page.Items[0].Title)
	assert.Equal(t, "Go", page.Items[1].Title)
	assert.Equal(t, "Zig", page.Items[2].Title)
}

func TestPostDetail(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	feedSvc := services.NewFeedService(m, m, m, m, m, 10)
	postSvc := services.NewPostService(m, m, m)

	author := newUser(t, m, "writer")
	commenter := newUser(t, m, "reader")

	post, err := postSvc.CreatePost(ctx, author.ID, services.CreateDraft{Text: "hello"})
	require.NoError(t, err)
	_, err = postSvc.CreatePost(ctx, author.ID, services.CreateDraft{Text: "another"})
	require.NoError(t, err)

	_, err = postSvc.AddComment(ctx, commenter.ID, post.ID, "nice")
	require.NoError(t, err)

	detail, err := feedSvc.PostDetail(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, detail.Post.ID)
	assert.Equal(t, 2, detail.PostCount)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "reader", detail.Comments[0].AuthorUsername)

	_, err = feedSvc.PostDetail(ctx, 9999)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUserDelete_CascadesPostsCommentsAndFollows(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	postSvc := services.NewPostService(m, m, m)
	followSvc := services.NewFollowService(m, m)

	author := newUser(t, m, "writer")
	reader := newUser(t, m, "reader")

	post, err := postSvc.CreatePost(ctx, author.ID, services.CreateDraft{Text: "bye"})
	require.NoError(t, err)
	_, err = postSvc.AddComment(ctx, reader.ID, post.ID, "so long")
	require.NoError(t, err)
	_, err = followSvc.Follow(ctx, reader.ID, "writer")
	require.NoError(t, err)

	require.NoError(t, m.DeleteUser(ctx, author.ID))

	_, err = m.PostByID(ctx, post.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	comments, err := m.ListCommentsByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	ids, err := m.FollowedAuthorIDs(ctx, reader.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGroupDelete_NullsPostGroup(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	postSvc := services.NewPostService(m, m, m)

	author := newUser(t, m, "writer")
	group := newGroup(t, m, "Go", "go")
	post, err := postSvc.CreatePost(ctx, author.ID, services.CreateDraft{Text: "in", GroupID: &group.ID})
	require.NoError(t, err)

	require.NoError(t, m.DeleteGroup(ctx, group.ID))

	got, err := m.PostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GroupID)
}
