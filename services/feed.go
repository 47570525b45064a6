package services

import (
	"context"
	"fmt"

	"postline.app/postline-backend/models"
	"postline.app/postline-backend/pagination"
)

// FeedService assembles the paginated post listings: home, group, profile,
// and follow feed. All reads are point-in-time snapshots of the store.
type FeedService struct {
	posts    PostStore
	groups   GroupStore
	users    UserStore
	comments CommentStore
	follows  FollowStore
	pageSize int
}

func NewFeedService(posts PostStore, groups GroupStore, users UserStore,
	comments CommentStore, follows FollowStore, pageSize int) *FeedService {
	return &FeedService{
		posts:    posts,
		groups:   groups,
		users:    users,
		comments: comments,
		follows:  follows,
		pageSize: pageSize,
	}
}

// HomeFeed is every post, newest first.
func (s *FeedService) HomeFeed(ctx context.Context, page int) (pagination.Page[models.PostWithAuthor], error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return pagination.Page[models.PostWithAuthor]{}, fmt.Errorf("list posts: %w", err)
	}
	return pagination.Paginate(posts, s.pageSize, page), nil
}

// GroupFeed is the posts of one group, looked up by slug.
func (s *FeedService) GroupFeed(ctx context.Context, slug string, page int) (models.Group, pagination.Page[models.PostWithAuthor], error) {
	var empty pagination.Page[models.PostWithAuthor]

	group, err := s.groups.GroupBySlug(ctx, slug)
	if err != nil {
		return models.Group{}, empty, err
	}

	posts, err := s.posts.ListPostsByGroup(ctx, group.ID)
	if err != nil {
		return models.Group{}, empty, fmt.Errorf("list group posts: %w", err)
	}
	return group, pagination.Paginate(posts, s.pageSize, page), nil
}

// Profile is what the profile page shows: the author, their total post
// count, whether the viewer follows them, and a page of their posts.
type Profile struct {
	Author    models.User
	PostCount int
	Following bool
	Page      pagination.Page[models.PostWithAuthor]
}

// ProfileFeed assembles an author's profile page. viewerID 0 means the
// viewer is anonymous, so Following is always false.
func (s *FeedService) ProfileFeed(ctx context.Context, username string, viewerID int64, page int) (Profile, error) {
	author, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return Profile{}, err
	}

	posts, err := s.posts.ListPostsByAuthor(ctx, author.ID)
	if err != nil {
		return Profile{}, fmt.Errorf("list author posts: %w", err)
	}

	following := false
	if viewerID != 0 {
		following, err = s.follows.FollowExists(ctx, viewerID, author.ID)
		if err != nil {
			return Profile{}, fmt.Errorf("check follow: %w", err)
		}
	}

	author.Password = ""
	return Profile{
		Author:    author,
		PostCount: len(posts),
		Following: following,
		Page:      pagination.Paginate(posts, s.pageSize, page),
	}, nil
}

// FollowFeed is the posts of every author the viewer follows, newest first.
// A viewer who follows nobody gets an empty page, not an error.
func (s *FeedService) FollowFeed(ctx context.Context, viewerID int64, page int) (pagination.Page[models.PostWithAuthor], error) {
	var empty pagination.Page[models.PostWithAuthor]

	authorIDs, err := s.follows.FollowedAuthorIDs(ctx, viewerID)
	if err != nil {
		return empty, fmt.Errorf("followed authors: %w", err)
	}
	if len(authorIDs) == 0 {
		return pagination.Paginate([]models.PostWithAuthor{}, s.pageSize, page), nil
	}

	posts, err := s.posts.ListPostsByAuthors(ctx, authorIDs)
	if err != nil {
		return empty, fmt.Errorf("list followed posts: %w", err)
	}
	return pagination.Paginate(posts, s.pageSize, page), nil
}

// GroupIndex lists all groups ordered by title.
func (s *FeedService) GroupIndex(ctx context.Context, page int) (pagination.Page[models.Group], error) {
	groups, err := s.groups.ListGroups(ctx)
	if err != nil {
		return pagination.Page[models.Group]{}, fmt.Errorf("list groups: %w", err)
	}
	return pagination.Paginate(groups, s.pageSize, page), nil
}

// PostDetail is the post page: the post itself, its comments newest-first,
// and how many posts its author has published in total.
type PostDetail struct {
	Post      models.PostWithAuthor
	PostCount int
	Comments  []models.CommentWithAuthor
}

func (s *FeedService) PostDetail(ctx context.Context, postID int64) (PostDetail, error) {
	post, err := s.posts.PostByID(ctx, postID)
	if err != nil {
		return PostDetail{}, err
	}

	count, err := s.posts.CountPostsByAuthor(ctx, post.AuthorID)
	if err != nil {
		return PostDetail{}, fmt.Errorf("count author posts: %w", err)
	}

	comments, err := s.comments.ListCommentsByPost(ctx, postID)
	if err != nil {
		return PostDetail{}, fmt.Errorf("list comments: %w", err)
	}

	return PostDetail{Post: post, PostCount: count, Comments: comments}, nil
}
