package server

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"quill/internal/cache"
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostAnonymousRedirectsToLogin(t *testing.T) {
	t.Parallel()

	_, app, db := setupTestServer(t)

	resp, err := app.Test(jsonRequest(t, fiber.MethodPost, "/api/posts",
		fiber.Map{"text": "drive-by"}, ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login?next=%2Fapi%2Fposts", resp.Header.Get("Location"))

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count, "anonymous attempt must not persist anything")
}

func TestCreatePostRedirectsToProfile(t *testing.T) {
	t.Parallel()

	s, app, db := setupTestServer(t)
	alice := createUser(t, db, "alice", false)
	aliceAuth := authHeader(t, s, alice)

	resp, err := app.Test(jsonRequest(t, fiber.MethodPost, "/api/posts",
		fiber.Map{"text": "first!"}, aliceAuth))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/api/users/alice/posts", resp.Header.Get("Location"))

	// The new post heads the home feed.
	resp, err = app.Test(jsonRequest(t, fiber.MethodGet, "/api/posts", nil, ""))
	require.NoError(t, err)
	var feed feedPayload
	decodeBody(t, resp, &feed)
	require.NotEmpty(t, feed.Posts)
	assert.Equal(t, "first!", feed.Posts[0].Text)
}

func TestCreatePostIntoGroupShowsInGroupFeed(t *testing.T) {
	t.Parallel()

	s, app, db := setupTestServer(t)
	alice := createUser(t, db, "alice", false)
	require.NoError(t, db.Create(&models.Group{Title: "Cooking", Slug: "cooking"}).Error)
	aliceAuth := authHeader(t, s, alice)

	resp, err := app.Test(jsonRequest(t, fiber.MethodPost, "/api/posts",
		fiber.Map{"text": "recipe", "group": "cooking"}, aliceAuth))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, fiber.MethodGet, "/api/groups/cooking/posts", nil, ""))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var group struct {
		Feed feedPayload `json:"feed"`
	}
	decodeBody(t, resp, &group)
	require.Len(t, group.Feed.Posts, 1)
	assert.Equal(t, "recipe", group.Feed.Posts[0].Text)
}

func TestCreatePostValidationFailures(t *testing.T) {
	t.Parallel()

	s, app, db := setupTestServer(t)
	alice := createUser(t, db, "alice", false)
	aliceAuth := authHeader(t, s, alice)

	tests := []struct {
		name    string
		payload fiber.Map
		status  int
	}{
		{"empty text", fiber.Map{"text": "   "}, fiber.StatusBadRequest},
		{"unknown group", fiber.Map{"text": "hi", "group": "nope"}, fiber.StatusNotFound},
		{"bad image extension", fiber.Map{"text": "hi", "image_url": "cat.bmp"}, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest(t, fiber.MethodPost, "/api/posts", tt.payload, aliceAuth))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdatePostByNonAuthorSoftFails(t *testing.T) {
	t.Parallel()

	s, app, db := setupTestServer(t)
	alice := createUser(t, db, "alice", false)
	mallory := createUser(t, db, "mallory", false)
	post := createPost(t, db, alice.ID, "original", time.Now().UTC())
	malloryAuth := authHeader(t, s, mallory)

	detailURL := fmt.Sprintf("/api/posts/%d", post.ID)
	resp, err := app.Test(jsonRequest(t, fiber.MethodPut, detailURL,
		fiber.Map{"text": "hijacked"}, malloryAuth))
	require.NoError(t, err)

	// Soft failure: redirected to the detail, no 403, nothing changed.
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, detailURL, resp.Header.Get("Location"))

	var unchanged models.Post
	require.NoError(t, db.First(&unchanged, post.ID).Error)
	assert.Equal(t, "original", unchanged.Text)
}

func TestUpdatePostByAuthorRedirectsToDetail(t *testing.T) {
	t.Parallel()

	s, app, db := setupTestServer(t)
	alice := createUser(t, db, "alice", false)
	post := createPost(t, db, alice.ID, "draft", time.Now().UTC())
	aliceAuth := authHeader(t, s, alice)

	detailURL := fmt.Sprintf("/api/posts/%d", post.ID)
	resp, err := app.Test(jsonRequest(t, fiber.MethodPut, detailURL,
		fiber.Map{"text": "final"}, aliceAuth))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, detailURL, resp.Header.Get("Location"))

	var updated models.Post
	require.NoError(t, db.First(&updated, post.ID).Error)
	assert.Equal(t, "final", updated.Text)
}

func TestCommentOnMissingPostIs404(t *testing.T) {
	t.Parallel()

	s, app, db := setupTestServer(t)
	alice := createUser(t, db, "alice", false)
	aliceAuth := authHeader(t, s, alice)

	resp, err := app.Test(jsonRequest(t, fiber.MethodPost, "/api/posts/999/comments",
		fiber.Map{"text": "into the void"}, aliceAuth))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeletePost(t *testing.T) {
	t.Parallel()

	s, app, db := setupTestServer(t)
	alice := createUser(t, db, "alice", false)
	mallory := createUser(t, db, "mallory", false)
	post := createPost(t, db, alice.ID, "mine", time.Now().UTC())

	resp, err := app.Test(jsonRequest(t, fiber.MethodDelete,
		fmt.Sprintf("/api/posts/%d", post.ID), nil, authHeader(t, s, mallory)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(jsonRequest(t, fiber.MethodDelete,
		fmt.Sprintf("/api/posts/%d", post.ID), nil, authHeader(t, s, alice)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func fetchHomeFeedBody(t *testing.T, app *fiber.App) string {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/posts", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestHomeFeedCacheStalenessAndOperatorClear(t *testing.T) {
	t.Parallel()

	s, app, db, mr := setupTestServerWithRedis(t)
	admin := createUser(t, db, "admin", true)
	author := createUser(t, db, "author", false)
	createPost(t, db, author.ID, "soon gone", time.Now().UTC())
	adminAuth := authHeader(t, s, admin)

	first := fetchHomeFeedBody(t, app)
	assert.Contains(t, first, "soon gone")

	// Deleting every post does not touch the cache: within the TTL the
	// stored body is served byte-for-byte.
	require.NoError(t, db.Exec("DELETE FROM posts").Error)
	assert.Equal(t, first, fetchHomeFeedBody(t, app))

	// The operator clear is the only early way out.
	resp, err := app.Test(jsonRequest(t, fiber.MethodPost, "/api/admin/cache/clear", nil, adminAuth))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	fresh := fetchHomeFeedBody(t, app)
	assert.NotEqual(t, first, fresh)
	assert.NotContains(t, fresh, "soon gone")

	// And the TTL expires entries on its own.
	createPost(t, db, author.ID, "second wave", time.Now().UTC())
	assert.Equal(t, fresh, fetchHomeFeedBody(t, app), "still cached")
	mr.FastForward(cache.IndexPageTTL + time.Second)
	assert.Contains(t, fetchHomeFeedBody(t, app), "second wave")
}

func TestCacheClearRequiresAdmin(t *testing.T) {
	t.Parallel()

	s, app, db, _ := setupTestServerWithRedis(t)
	user := createUser(t, db, "plain", false)

	resp, err := app.Test(jsonRequest(t, fiber.MethodPost, "/api/admin/cache/clear", nil,
		authHeader(t, s, user)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
