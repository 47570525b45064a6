package services

import (
	"context"
	"fmt"

	"postline.app/postline-backend/models"
)

// FollowService maintains the directed follow graph. Both mutations are
// idempotent by construction so the web actions can be double-submitted or
// retried without corrupting state.
type FollowService struct {
	follows FollowStore
	users   UserStore
}

func NewFollowService(follows FollowStore, users UserStore) *FollowService {
	return &FollowService{follows: follows, users: users}
}

// Follow adds an edge from the follower to the author named by username.
// Following yourself or someone you already follow is a silent no-op, not
// an error. An unknown username is ErrNotFound.
func (s *FollowService) Follow(ctx context.Context, followerID int64, username string) (models.User, error) {
	author, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}

	if author.ID == followerID {
		return author, nil
	}

	exists, err := s.follows.FollowExists(ctx, followerID, author.ID)
	if err != nil {
		return models.User{}, fmt.Errorf("check follow: %w", err)
	}
	if exists {
		return author, nil
	}

	if err := s.follows.CreateFollow(ctx, followerID, author.ID); err != nil {
		return models.User{}, fmt.Errorf("create follow: %w", err)
	}
	return author, nil
}

// Unfollow removes the edge if present; a missing edge is a no-op.
func (s *FollowService) Unfollow(ctx context.Context, followerID int64, username string) (models.User, error) {
	author, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return models.User{}, err
	}

	if err := s.follows.DeleteFollow(ctx, followerID, author.ID); err != nil {
		return models.User{}, fmt.Errorf("delete follow: %w", err)
	}
	return author, nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, authorID int64) (bool, error) {
	return s.follows.FollowExists(ctx, followerID, authorID)
}

// FollowedAuthorIDs is the follower's followed-author set, used by the
// follow feed.
func (s *FollowService) FollowedAuthorIDs(ctx context.Context, followerID int64) ([]int64, error) {
	return s.follows.FollowedAuthorIDs(ctx, followerID)
}

// FollowerIDs lists the users following the given author. The post-publish
// notification fans out to this set.
func (s *FollowService) FollowerIDs(ctx context.Context, authorID int64) ([]int64, error) {
	return s.follows.FollowerIDs(ctx, authorID)
}
