package services

import (
	"context"
	"fmt"
	"strings"

	"postline.app/postline-backend/models"
)

// CreateDraft is a new post submission.
type CreateDraft struct {
	Text     string `json:"text"`
	GroupID  *int64 `json:"group_id,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// EditDraft is an edit to an existing post. The author and creation time
// are never part of an edit.
type EditDraft struct {
	Text     string `json:"text"`
	GroupID  *int64 `json:"group_id,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// PostService owns the post lifecycle: create, edit, delete, comment.
// Edit and delete are gated to the post's author.
type PostService struct {
	posts    PostStore
	groups   GroupStore
	comments CommentStore
}

func NewPostService(posts PostStore, groups GroupStore, comments CommentStore) *PostService {
	return &PostService{posts: posts, groups: groups, comments: comments}
}

// CreatePost validates the draft and persists a new post owned by authorID.
// The creation timestamp is assigned by the store, never by the caller.
func (s *PostService) CreatePost(ctx context.Context, authorID int64, draft CreateDraft) (models.Post, error) {
	if strings.TrimSpace(draft.Text) == "" {
		return models.Post{}, validationError("text", "text is required")
	}

	if draft.GroupID != nil {
		if _, err := s.groups.GroupByID(ctx, *draft.GroupID); err != nil {
			return models.Post{}, err
		}
	}

	post := models.Post{
		AuthorID: authorID,
		GroupID:  draft.GroupID,
		Text:     draft.Text,
		ImageURL: draft.ImageURL,
	}
	if err := s.posts.CreatePost(ctx, &post); err != nil {
		return models.Post{}, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// EditPost applies the draft to the post if actorID is its author. A
// non-author gets ErrNotOwner and the post is left untouched.
func (s *PostService) EditPost(ctx context.Context, actorID, postID int64, draft EditDraft) (models.Post, error) {
	existing, err := s.posts.PostByID(ctx, postID)
	if err != nil {
		return models.Post{}, err
	}
	if existing.AuthorID != actorID {
		return models.Post{}, ErrNotOwner
	}

	if strings.TrimSpace(draft.Text) == "" {
		return models.Post{}, validationError("text", "text is required")
	}
	if draft.GroupID != nil {
		if _, err := s.groups.GroupByID(ctx, *draft.GroupID); err != nil {
			return models.Post{}, err
		}
	}

	updated := existing.Post
	updated.Text = draft.Text
	updated.GroupID = draft.GroupID
	updated.ImageURL = draft.ImageURL
	if err := s.posts.UpdatePost(ctx, &updated); err != nil {
		return models.Post{}, fmt.Errorf("update post: %w", err)
	}
	return updated, nil
}

// DeletePost removes the post (and, by cascade, its comments) if actorID is
// its author; otherwise ErrNotOwner.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID int64) error {
	existing, err := s.posts.PostByID(ctx, postID)
	if err != nil {
		return err
	}
	if existing.AuthorID != actorID {
		return ErrNotOwner
	}
	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// AddComment attaches a comment by authorID to the post.
func (s *PostService) AddComment(ctx context.Context, authorID, postID int64, text string) (models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return models.Comment{}, validationError("text", "text is required")
	}

	if _, err := s.posts.PostByID(ctx, postID); err != nil {
		return models.Comment{}, err
	}

	comment := models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := s.comments.CreateComment(ctx, &comment); err != nil {
		return models.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}
