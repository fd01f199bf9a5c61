package server

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"socialfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthChecks(t *testing.T) {
	ts := setupTestServer(t)

	status, _ := ts.do(http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, status)

	status, body := ts.do(http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, status)
	ready := decode[map[string]interface{}](t, body)
	checks := ready["checks"].(map[string]interface{})
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "unavailable", checks["redis"])
}

func TestAuthRequired(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.user("alice")

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", mintToken(t, "another-secret-another-secret-another", ts.cfg.JWTIssuer, alice.ID), http.StatusUnauthorized},
		{"wrong issuer", mintToken(t, testSecret, "someone-else", alice.ID), http.StatusUnauthorized},
		{"valid", ts.token(alice.ID), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := ts.do(http.MethodGet, "/api/users/me", nil, tt.token)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestRegister(t *testing.T) {
	ts := setupTestServer(t)
	body := map[string]string{
		"username":  "alice",
		"email":     "alice@example.com",
		"full_name": "Alice",
		"password":  "Str0ng!Password",
	}

	status, raw := ts.do(http.MethodPost, "/api/auth/register", body, "")
	require.Equal(t, http.StatusCreated, status, string(raw))
	assert.NotContains(t, string(raw), "password")

	status, raw = ts.do(http.MethodPost, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, models.ReasonDuplicate, decode[models.ErrorResponse](t, raw).Reason)

	body["username"] = "bob"
	body["email"] = "bob@example.com"
	body["password"] = "short"
	status, raw = ts.do(http.MethodPost, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, models.CodeValidation, decode[models.ErrorResponse](t, raw).Code)
}

func TestPostOwnership(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.user("alice")
	bob := ts.user("bob")

	status, raw := ts.do(http.MethodPost, "/api/posts", map[string]interface{}{"content": "<script>x</script>original"}, ts.token(alice.ID))
	require.Equal(t, http.StatusCreated, status, string(raw))
	post := decode[models.Post](t, raw)
	assert.Equal(t, "original", post.Content)
	assert.True(t, post.CommentsEnabled)
	path := fmt.Sprintf("/api/posts/%d", post.ID)

	status, raw = ts.do(http.MethodPut, path, map[string]string{"content": "hijacked"}, ts.token(bob.ID))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, models.CodeForbidden, decode[models.ErrorResponse](t, raw).Code)

	status, _ = ts.do(http.MethodDelete, path, nil, ts.token(bob.ID))
	assert.Equal(t, http.StatusForbidden, status)

	status, raw = ts.do(http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "original", decode[models.Post](t, raw).Content)

	status, raw = ts.do(http.MethodPut, path, map[string]string{"content": "edited"}, ts.token(alice.ID))
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "edited", decode[models.Post](t, raw).Content)

	status, raw = ts.do(http.MethodPut, path, map[string]string{}, ts.token(alice.ID))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, models.ReasonNoChanges, decode[models.ErrorResponse](t, raw).Reason)

	status, _ = ts.do(http.MethodDelete, path, nil, ts.token(alice.ID))
	assert.Equal(t, http.StatusOK, status)
	status, _ = ts.do(http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestLikeEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.user("alice")
	bob := ts.user("bob")

	_, raw := ts.do(http.MethodPost, "/api/posts", map[string]string{"content": "like me"}, ts.token(alice.ID))
	post := decode[models.Post](t, raw)
	likePath := fmt.Sprintf("/api/posts/%d/like", post.ID)

	status, _ := ts.do(http.MethodPost, likePath, nil, ts.token(bob.ID))
	assert.Equal(t, http.StatusOK, status)

	tests := []struct {
		name   string
		userID uint
		path   string
		status int
		reason string
	}{
		{"twice", bob.ID, likePath, http.StatusConflict, models.ReasonAlreadyLiked},
		{"own post", alice.ID, likePath, http.StatusForbidden, models.ReasonOwnPost},
		{"missing post", bob.ID, "/api/posts/999/like", http.StatusNotFound, models.ReasonPostMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, raw := ts.do(http.MethodPost, tt.path, nil, ts.token(tt.userID))
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.reason, decode[models.ErrorResponse](t, raw).Reason)
		})
	}

	status, raw = ts.do(http.MethodGet, fmt.Sprintf("/api/posts/%d/likes", post.ID), nil, "")
	require.Equal(t, http.StatusOK, status)
	likes := decode[models.PostLikes](t, raw)
	assert.Equal(t, 1, likes.Count)

	status, raw = ts.do(http.MethodGet, fmt.Sprintf("/api/posts/%d/liked", post.ID), nil, ts.token(bob.ID))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, decode[map[string]interface{}](t, raw)["liked"])

	status, _ = ts.do(http.MethodDelete, likePath, nil, ts.token(bob.ID))
	assert.Equal(t, http.StatusOK, status)
	status, _ = ts.do(http.MethodDelete, likePath, nil, ts.token(bob.ID))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestFollowEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.user("alice")
	bob := ts.user("bob")
	followPath := fmt.Sprintf("/api/users/%d/follow", bob.ID)

	status, raw := ts.do(http.MethodPost, followPath, nil, ts.token(alice.ID))
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "Followed user", decode[map[string]string](t, raw)["message"])

	status, raw = ts.do(http.MethodPost, followPath, nil, ts.token(alice.ID))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, models.ReasonAlreadyFollowing, decode[models.ErrorResponse](t, raw).Reason)

	status, _ = ts.do(http.MethodPost, fmt.Sprintf("/api/users/%d/follow", alice.ID), nil, ts.token(alice.ID))
	assert.Equal(t, http.StatusBadRequest, status)

	status, raw = ts.do(http.MethodGet, "/api/users/following", nil, ts.token(alice.ID))
	require.Equal(t, http.StatusOK, status)
	following := decode[[]models.UserSummary](t, raw)
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].Username)

	status, raw = ts.do(http.MethodGet, fmt.Sprintf("/api/users/%d/stats", bob.ID), nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.FollowCounts{FollowersCount: 1}, decode[models.FollowCounts](t, raw))

	status, _ = ts.do(http.MethodDelete, followPath, nil, ts.token(alice.ID))
	assert.Equal(t, http.StatusOK, status)
	status, raw = ts.do(http.MethodDelete, followPath, nil, ts.token(alice.ID))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, models.ReasonNotFollowing, decode[models.ErrorResponse](t, raw).Reason)
}

func TestFeedEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.user("alice")
	for i := 0; i < 25; i++ {
		status, _ := ts.do(http.MethodPost, "/api/posts", map[string]string{"content": fmt.Sprintf("post %d", i)}, ts.token(alice.ID))
		require.Equal(t, http.StatusCreated, status)
	}

	status, raw := ts.do(http.MethodGet, "/api/feed", nil, ts.token(alice.ID))
	require.Equal(t, http.StatusOK, status)
	first := decode[listing](t, raw)
	assert.Len(t, first.Items, 20)
	assert.True(t, first.Pagination.HasMore)

	status, raw = ts.do(http.MethodGet, "/api/feed?page=2&limit=20", nil, ts.token(alice.ID))
	require.Equal(t, http.StatusOK, status)
	second := decode[listing](t, raw)
	assert.Len(t, second.Items, 5)
	assert.False(t, second.Pagination.HasMore)

	status, _ = ts.do(http.MethodGet, "/api/feed", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSearchPostsEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.user("alice")
	ts.do(http.MethodPost, "/api/posts", map[string]string{"content": "hello world"}, ts.token(alice.ID))

	status, raw := ts.do(http.MethodGet, "/api/posts/search?q=HELLO", nil, "")
	require.Equal(t, http.StatusOK, status)
	found := decode[listing](t, raw)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 10, found.Pagination.Limit)

	status, raw = ts.do(http.MethodGet, "/api/posts/search?q=xyz", nil, "")
	require.Equal(t, http.StatusOK, status)
	empty := decode[listing](t, raw)
	assert.Empty(t, empty.Items)
	assert.False(t, empty.Pagination.HasMore)

	status, _ = ts.do(http.MethodGet, "/api/posts/search", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSearchPostsKeepsTypedText(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.user("alice")

	status, raw := ts.do(http.MethodPost, "/api/posts", map[string]string{"content": "Tom & Jerry <3, don't stop"}, ts.token(alice.ID))
	require.Equal(t, http.StatusCreated, status, string(raw))
	post := decode[models.Post](t, raw)
	assert.Equal(t, "Tom & Jerry <3, don't stop", post.Content)

	for _, q := range []string{"Tom & Jerry", "jerry <3", "don't"} {
		t.Run(q, func(t *testing.T) {
			status, raw := ts.do(http.MethodGet, "/api/posts/search?q="+url.QueryEscape(q), nil, "")
			require.Equal(t, http.StatusOK, status)
			assert.Len(t, decode[listing](t, raw).Items, 1)
		})
	}

	_, raw = ts.do(http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", post.ID), map[string]string{"content": "R&D's <favourite>"}, ts.token(alice.ID))
	assert.Equal(t, "R&D's", decode[models.Comment](t, raw).Content)
}

func TestCommentEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.user("alice")
	bob := ts.user("bob")

	_, raw := ts.do(http.MethodPost, "/api/posts", map[string]interface{}{"content": "closed", "comments_enabled": false}, ts.token(alice.ID))
	closed := decode[models.Post](t, raw)
	_, raw = ts.do(http.MethodPost, "/api/posts", map[string]string{"content": "open"}, ts.token(alice.ID))
	open := decode[models.Post](t, raw)

	status, raw := ts.do(http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", closed.ID), map[string]string{"content": "hi"}, ts.token(bob.ID))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, models.ReasonCommentsDisabled, decode[models.ErrorResponse](t, raw).Reason)

	status, raw = ts.do(http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", open.ID), map[string]string{"content": "hi"}, ts.token(bob.ID))
	require.Equal(t, http.StatusCreated, status, string(raw))
	comment := decode[models.Comment](t, raw)

	status, raw = ts.do(http.MethodGet, fmt.Sprintf("/api/posts/%d/comments", open.ID), nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), `"hi"`)

	commentPath := fmt.Sprintf("/api/comments/%d", comment.ID)
	status, _ = ts.do(http.MethodPut, commentPath, map[string]string{"content": "not yours"}, ts.token(alice.ID))
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = ts.do(http.MethodDelete, commentPath, nil, ts.token(alice.ID))
	assert.Equal(t, http.StatusOK, status)
}

func TestInvalidID(t *testing.T) {
	ts := setupTestServer(t)

	status, raw := ts.do(http.MethodGet, "/api/posts/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid ID", decode[models.ErrorResponse](t, raw).Error)

	status, _ = ts.do(http.MethodGet, "/api/users/0", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestProfileHidesEmailFromOthers(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.user("alice")
	bob := ts.user("bob")
	path := fmt.Sprintf("/api/users/%d", alice.ID)

	_, raw := ts.do(http.MethodGet, path, nil, ts.token(bob.ID))
	assert.NotContains(t, string(raw), "alice@example.com")

	_, raw = ts.do(http.MethodGet, path, nil, ts.token(alice.ID))
	assert.Contains(t, string(raw), "alice@example.com")
}
