package service

import (
	"context"
	"testing"
	"time"

	"quill/internal/models"
	"quill/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type feedFixture struct {
	db  *gorm.DB
	svc *FeedService
}

func newFeedFixture(t *testing.T) *feedFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	))

	return &feedFixture{
		db: db,
		svc: NewFeedService(
			repository.NewPostRepository(db),
			repository.NewGroupRepository(db),
			repository.NewUserRepository(db),
		),
	}
}

func (f *feedFixture) addUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "hashed"}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *feedFixture) addPosts(t *testing.T, userID uint, groupID *uint, n int, start time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		post := &models.Post{
			Text:      "post",
			UserID:    userID,
			GroupID:   groupID,
			CreatedAt: start.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, f.db.Create(post).Error)
	}
}

func TestHomeFeedPagination(t *testing.T) {
	t.Parallel()

	f := newFeedFixture(t)
	author := f.addUser(t, "writer")
	f.addPosts(t, author.ID, nil, 13, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	page1, err := f.svc.HomeFeed(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, page1.Items, 10)
	assert.Equal(t, 1, page1.Page)
	assert.Equal(t, int64(13), page1.TotalItems)
	assert.Equal(t, 2, page1.TotalPages)
	assert.True(t, page1.HasNext)
	assert.False(t, page1.HasPrev)

	page2, err := f.svc.HomeFeed(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, page2.Items, 3)
	assert.False(t, page2.HasNext)
	assert.True(t, page2.HasPrev)

	// Out-of-range requests clamp instead of failing.
	clampedHigh, err := f.svc.HomeFeed(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, 2, clampedHigh.Page)
	assert.Len(t, clampedHigh.Items, 3)

	clampedLow, err := f.svc.HomeFeed(ctx, -3)
	require.NoError(t, err)
	assert.Equal(t, 1, clampedLow.Page)
}

func TestHomeFeedEmptySource(t *testing.T) {
	t.Parallel()

	f := newFeedFixture(t)

	page, err := f.svc.HomeFeed(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
}

func TestGroupFeedUnknownSlug(t *testing.T) {
	t.Parallel()

	f := newFeedFixture(t)

	_, _, err := f.svc.GroupFeed(context.Background(), "missing", 1)
	assert.True(t, models.IsNotFound(err))
}

func TestGroupFeedScope(t *testing.T) {
	t.Parallel()

	f := newFeedFixture(t)
	author := f.addUser(t, "writer")
	group := &models.Group{Title: "Cooking", Slug: "cooking"}
	require.NoError(t, f.db.Create(group).Error)

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f.addPosts(t, author.ID, &group.ID, 2, start)
	f.addPosts(t, author.ID, nil, 5, start.Add(time.Hour))

	got, feed, err := f.svc.GroupFeed(context.Background(), "cooking", 1)
	require.NoError(t, err)
	assert.Equal(t, group.ID, got.ID)
	assert.Len(t, feed.Items, 2)
	assert.Equal(t, int64(2), feed.TotalItems)
}

func TestAuthorFeedUnknownUsername(t *testing.T) {
	t.Parallel()

	f := newFeedFixture(t)

	_, _, err := f.svc.AuthorFeed(context.Background(), "ghost", 1)
	assert.True(t, models.IsNotFound(err))
}

func TestFollowingFeedRequiresViewer(t *testing.T) {
	t.Parallel()

	f := newFeedFixture(t)

	_, err := f.svc.FollowingFeed(context.Background(), 0, 1)
	assert.True(t, models.IsUnauthorized(err))
}

func TestFollowingFeedScope(t *testing.T) {
	t.Parallel()

	f := newFeedFixture(t)
	reader := f.addUser(t, "reader")
	followed := f.addUser(t, "followed")
	stranger := f.addUser(t, "stranger")

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f.addPosts(t, followed.ID, nil, 2, start)
	f.addPosts(t, stranger.ID, nil, 3, start.Add(time.Hour))
	require.NoError(t, f.db.Create(&models.Follow{
		FollowerID: reader.ID,
		FolloweeID: followed.ID,
	}).Error)

	feed, err := f.svc.FollowingFeed(context.Background(), reader.ID, 1)
	require.NoError(t, err)
	assert.Len(t, feed.Items, 2)
	for _, p := range feed.Items {
		assert.Equal(t, followed.ID, p.UserID)
	}
}

func TestResolveFeedDispatch(t *testing.T) {
	t.Parallel()

	f := newFeedFixture(t)
	author := f.addUser(t, "writer")
	f.addPosts(t, author.ID, nil, 1, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	all, err := f.svc.ResolveFeed(ctx, FeedScope{Kind: FeedScopeAll}, 1)
	require.NoError(t, err)
	assert.Len(t, all.Items, 1)

	byAuthor, err := f.svc.ResolveFeed(ctx, FeedScope{Kind: FeedScopeAuthor, Username: "writer"}, 1)
	require.NoError(t, err)
	assert.Len(t, byAuthor.Items, 1)

	_, err = f.svc.ResolveFeed(ctx, FeedScope{Kind: FeedScopeGroup, GroupSlug: "missing"}, 1)
	assert.True(t, models.IsNotFound(err))

	_, err = f.svc.ResolveFeed(ctx, FeedScope{Kind: FeedScopeFollowing, ViewerID: 0}, 1)
	assert.True(t, models.IsUnauthorized(err))
}
