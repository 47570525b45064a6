package services

import (
	"context"

	"postline.app/postline-backend/models"
)

// The services own these interfaces; store.SQLStore implements all of them
// against Postgres and store.MemoryStore implements them for tests.

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UserByID(ctx context.Context, id int64) (models.User, error)
	UserByUsername(ctx context.Context, username string) (models.User, error)
}

type GroupStore interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	GroupByID(ctx context.Context, id int64) (models.Group, error)
	GroupBySlug(ctx context.Context, slug string) (models.Group, error)

	// ListGroups returns all groups ordered by title ascending.
	ListGroups(ctx context.Context) ([]models.Group, error)
}

// PostStore list methods return posts ordered by creation time descending,
// the canonical post order everywhere in the app.
type PostStore interface {
	CreatePost(ctx context.Context, post *models.Post) error
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id int64) error
	PostByID(ctx context.Context, id int64) (models.PostWithAuthor, error)
	ListPosts(ctx context.Context) ([]models.PostWithAuthor, error)
	ListPostsByGroup(ctx context.Context, groupID int64) ([]models.PostWithAuthor, error)
	ListPostsByAuthor(ctx context.Context, authorID int64) ([]models.PostWithAuthor, error)
	ListPostsByAuthors(ctx context.Context, authorIDs []int64) ([]models.PostWithAuthor, error)
	CountPostsByAuthor(ctx context.Context, authorID int64) (int, error)
}

type CommentStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) error

	// ListCommentsByPost returns comments newest-first.
	ListCommentsByPost(ctx context.Context, postID int64) ([]models.CommentWithAuthor, error)
}

type FollowStore interface {
	CreateFollow(ctx context.Context, followerID, authorID int64) error
	DeleteFollow(ctx context.Context, followerID, authorID int64) error
	FollowExists(ctx context.Context, followerID, authorID int64) (bool, error)
	FollowedAuthorIDs(ctx context.Context, followerID int64) ([]int64, error)
	FollowerIDs(ctx context.Context, authorID int64) ([]int64, error)
}

type TokenStore interface {
	SaveToken(ctx context.Context, userID int64, token string) error
	DeleteToken(ctx context.Context, token string) error
	TokensForUsers(ctx context.Context, userIDs []int64) ([]string, error)
}
