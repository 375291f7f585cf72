package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/repository"
)

// FollowService implements the follow graph operations.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a FollowService over the given repositories.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow subscribes follower to the named author. Following an unknown
// author is NOT_FOUND; following yourself or someone you already follow is
// a silent no-op.
func (s *FollowService) Follow(ctx context.Context, followerID uint, username string) error {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if author.ID == followerID {
		return nil
	}

	return s.followRepo.Upsert(ctx, &models.Follow{
		FollowerID: followerID,
		FolloweeID: author.ID,
	})
}

// Unfollow removes the subscription. Unfollowing an unknown author or an
// absent edge is a silent no-op.
func (s *FollowService) Unfollow(ctx context.Context, followerID uint, username string) error {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if models.IsNotFound(err) {
			return nil
		}
		return err
	}
	return s.followRepo.Delete(ctx, followerID, author.ID)
}

// IsFollowing reports whether follower subscribes to followee.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	if followerID == 0 {
		return false, nil
	}
	return s.followRepo.Exists(ctx, followerID, followeeID)
}

// Followees returns the authors the follower subscribes to.
func (s *FollowService) Followees(ctx context.Context, followerID uint) ([]models.User, error) {
	return s.followRepo.Followees(ctx, followerID)
}
