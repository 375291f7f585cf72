package service

import (
	"context"
	"net/url"
	"path"
	"strings"

	"quill/internal/models"
	"quill/internal/repository"
)

const maxPostTextLen = 10000

// allowedImageExts are the image reference extensions accepted on posts.
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// PostService implements post mutations: create, edit, delete.
type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	isAdmin   func(ctx context.Context, userID uint) (bool, error)
}

// CreatePostInput carries the fields for creating a post.
type CreatePostInput struct {
	UserID    uint
	Text      string
	GroupSlug string
	ImageURL  string
}

// UpdatePostInput carries the fields for editing a post.
type UpdatePostInput struct {
	UserID    uint
	PostID    uint
	Text      string
	GroupSlug string
	ImageURL  string
}

// DeletePostInput carries the fields for deleting a post.
type DeletePostInput struct {
	UserID uint
	PostID uint
}

// NewPostService returns a PostService over the given repositories.
func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		isAdmin:   isAdmin,
	}
}

// CreatePost validates and persists a new post. The timestamp is assigned by
// the store, never by the client. Nothing persists on a validation failure.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Post text is required")
	}
	if len(text) > maxPostTextLen {
		return nil, models.NewValidationError("Post text too long (max 10000 characters)")
	}
	if err := validateImageURL(in.ImageURL); err != nil {
		return nil, err
	}

	groupID, err := s.resolveGroupID(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     text,
		ImageURL: in.ImageURL,
		UserID:   in.UserID,
		GroupID:  groupID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost edits a post, replacing its editable fields wholesale: an empty
// group detaches the post from its group and an empty image clears the image.
// Only the author may edit; anyone else gets an UNAUTHORIZED error and the
// post is left untouched.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if post.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only edit your own posts")
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Post text is required")
	}
	if len(text) > maxPostTextLen {
		return nil, models.NewValidationError("Post text too long (max 10000 characters)")
	}
	if err := validateImageURL(in.ImageURL); err != nil {
		return nil, err
	}

	groupID, err := s.resolveGroupID(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}

	post.Text = text
	post.GroupID = groupID
	post.ImageURL = in.ImageURL

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post. The author may always delete; admins may delete
// anyone's post.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}

	if post.UserID != in.UserID {
		if s.isAdmin == nil {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

// resolveGroupID maps an optional group slug to its ID. An empty slug means
// the post is ungrouped.
func (s *PostService) resolveGroupID(ctx context.Context, slug string) (*uint, error) {
	if slug == "" {
		return nil, nil
	}
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &group.ID, nil
}

// validateImageURL checks an optional image reference for a supported extension.
func validateImageURL(rawURL string) error {
	if rawURL == "" {
		return nil
	}

	p := rawURL
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Path != "" {
		p = parsed.Path
	}

	ext := strings.ToLower(path.Ext(p))
	if !allowedImageExts[ext] {
		return models.NewValidationError("Unsupported image format")
	}
	return nil
}
