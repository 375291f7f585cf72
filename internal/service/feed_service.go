// Package service implements the application's business rules on top of the
// repository layer.
package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/pagination"
	"quill/internal/repository"
)

// FeedPageSize is the fixed number of posts per feed page.
const FeedPageSize = 10

// FeedScopeKind selects which slice of posts a feed request covers.
type FeedScopeKind int

const (
	// FeedScopeAll covers every post.
	FeedScopeAll FeedScopeKind = iota
	// FeedScopeGroup covers posts published into one group.
	FeedScopeGroup
	// FeedScopeAuthor covers posts by one author.
	FeedScopeAuthor
	// FeedScopeFollowing covers posts by authors the viewer follows.
	FeedScopeFollowing
)

// FeedScope identifies a feed. GroupSlug, Username and ViewerID are each
// meaningful only for their matching kind.
type FeedScope struct {
	Kind      FeedScopeKind
	GroupSlug string
	Username  string
	ViewerID  uint
}

// FeedService composes windowed, deterministically ordered post feeds.
// All methods are pure reads.
type FeedService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
}

// NewFeedService returns a FeedService over the given repositories.
func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
) *FeedService {
	return &FeedService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

// ResolveFeed serves the requested page of the feed identified by scope.
func (s *FeedService) ResolveFeed(ctx context.Context, scope FeedScope, page int) (*models.PostPage, error) {
	switch scope.Kind {
	case FeedScopeGroup:
		_, feed, err := s.GroupFeed(ctx, scope.GroupSlug, page)
		return feed, err
	case FeedScopeAuthor:
		_, feed, err := s.AuthorFeed(ctx, scope.Username, page)
		return feed, err
	case FeedScopeFollowing:
		return s.FollowingFeed(ctx, scope.ViewerID, page)
	default:
		return s.HomeFeed(ctx, page)
	}
}

// HomeFeed serves the requested page of all posts.
func (s *FeedService) HomeFeed(ctx context.Context, page int) (*models.PostPage, error) {
	total, err := s.postRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	win := pagination.New(total, FeedPageSize, page)
	items, err := s.postRepo.ListAll(ctx, win.PageSize, win.Offset)
	if err != nil {
		return nil, err
	}
	return newPostPage(win, items), nil
}

// GroupFeed serves the requested page of a group's posts along with the group.
func (s *FeedService) GroupFeed(ctx context.Context, slug string, page int) (*models.Group, *models.PostPage, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	total, err := s.postRepo.CountByGroup(ctx, group.ID)
	if err != nil {
		return nil, nil, err
	}

	win := pagination.New(total, FeedPageSize, page)
	items, err := s.postRepo.ListByGroup(ctx, group.ID, win.PageSize, win.Offset)
	if err != nil {
		return nil, nil, err
	}
	return group, newPostPage(win, items), nil
}

// AuthorFeed serves the requested page of an author's posts along with the author.
func (s *FeedService) AuthorFeed(ctx context.Context, username string, page int) (*models.User, *models.PostPage, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	total, err := s.postRepo.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, nil, err
	}

	win := pagination.New(total, FeedPageSize, page)
	items, err := s.postRepo.ListByAuthor(ctx, author.ID, win.PageSize, win.Offset)
	if err != nil {
		return nil, nil, err
	}
	return author, newPostPage(win, items), nil
}

// FollowingFeed serves the requested page of posts by the viewer's followed
// authors. An anonymous viewer is rejected.
func (s *FeedService) FollowingFeed(ctx context.Context, viewerID uint, page int) (*models.PostPage, error) {
	if viewerID == 0 {
		return nil, models.NewUnauthorizedError("Sign in to view your feed")
	}

	total, err := s.postRepo.CountFollowed(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	win := pagination.New(total, FeedPageSize, page)
	items, err := s.postRepo.ListFollowed(ctx, viewerID, win.PageSize, win.Offset)
	if err != nil {
		return nil, err
	}
	return newPostPage(win, items), nil
}

func newPostPage(win pagination.Window, items []*models.Post) *models.PostPage {
	if items == nil {
		items = []*models.Post{}
	}
	return &models.PostPage{
		Items:      items,
		Page:       win.Page,
		TotalItems: win.TotalItems,
		TotalPages: win.TotalPages,
		HasNext:    win.HasNext,
		HasPrev:    win.HasPrev,
	}
}
