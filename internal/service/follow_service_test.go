package service

import (
	"context"
	"testing"

	"quill/internal/models"
	"quill/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFollowRepo struct {
	repository.FollowRepository
	upserts []models.Follow
	deletes [][2]uint
}

func (s *stubFollowRepo) Upsert(_ context.Context, follow *models.Follow) error {
	s.upserts = append(s.upserts, *follow)
	return nil
}

func (s *stubFollowRepo) Delete(_ context.Context, followerID, followeeID uint) error {
	s.deletes = append(s.deletes, [2]uint{followerID, followeeID})
	return nil
}

type stubUserRepo struct {
	repository.UserRepository
	users map[string]*models.User
}

func (s *stubUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if user, ok := s.users[username]; ok {
		return user, nil
	}
	return nil, models.NewNotFoundError("User", username)
}

func newStubUserRepo(users ...*models.User) *stubUserRepo {
	byName := make(map[string]*models.User, len(users))
	for _, u := range users {
		byName[u.Username] = u
	}
	return &stubUserRepo{users: byName}
}

func TestFollowCreatesEdge(t *testing.T) {
	t.Parallel()

	follows := &stubFollowRepo{}
	users := newStubUserRepo(&models.User{ID: 2, Username: "author"})
	svc := NewFollowService(follows, users)

	require.NoError(t, svc.Follow(context.Background(), 1, "author"))
	require.Len(t, follows.upserts, 1)
	assert.Equal(t, uint(1), follows.upserts[0].FollowerID)
	assert.Equal(t, uint(2), follows.upserts[0].FolloweeID)
}

func TestFollowSelfIsSilentNoop(t *testing.T) {
	t.Parallel()

	follows := &stubFollowRepo{}
	users := newStubUserRepo(&models.User{ID: 1, Username: "narcissus"})
	svc := NewFollowService(follows, users)

	require.NoError(t, svc.Follow(context.Background(), 1, "narcissus"))
	assert.Empty(t, follows.upserts, "self-follow must not reach the store")
}

func TestFollowUnknownAuthorIsNotFound(t *testing.T) {
	t.Parallel()

	svc := NewFollowService(&stubFollowRepo{}, newStubUserRepo())

	err := svc.Follow(context.Background(), 1, "ghost")
	assert.True(t, models.IsNotFound(err))
}

func TestUnfollowRemovesEdge(t *testing.T) {
	t.Parallel()

	follows := &stubFollowRepo{}
	users := newStubUserRepo(&models.User{ID: 2, Username: "author"})
	svc := NewFollowService(follows, users)

	require.NoError(t, svc.Unfollow(context.Background(), 1, "author"))
	require.Len(t, follows.deletes, 1)
	assert.Equal(t, [2]uint{1, 2}, follows.deletes[0])
}

func TestUnfollowUnknownAuthorIsSilentNoop(t *testing.T) {
	t.Parallel()

	follows := &stubFollowRepo{}
	svc := NewFollowService(follows, newStubUserRepo())

	assert.NoError(t, svc.Unfollow(context.Background(), 1, "ghost"))
	assert.Empty(t, follows.deletes)
}

func TestIsFollowingAnonymousViewer(t *testing.T) {
	t.Parallel()

	svc := NewFollowService(&stubFollowRepo{}, newStubUserRepo())

	following, err := svc.IsFollowing(context.Background(), 0, 2)
	require.NoError(t, err)
	assert.False(t, following)
}
