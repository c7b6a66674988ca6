package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"campuslink/internal/models"
	"campuslink/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(f *testFixture) *fiber.App {
	app := fiber.New()
	f.server.SetupRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	decoded := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && resp.Header.Get("Content-Type") != "" {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded
}

func registerBody(moodleID, email string) map[string]string {
	return map[string]string{
		"firstName": "Asha",
		"lastName":  "Patil",
		"year":      "TE",
		"branch":    "COMP",
		"div":       "B",
		"moodleId":  moodleID,
		"email":     email,
		"password":  "hunter2hunter2",
	}
}

// registerAndLogin creates an account through the API and returns its token.
func registerAndLogin(t *testing.T, app *fiber.App, moodleID, email string) string {
	t.Helper()
	status, body := doJSON(t, app, "POST", "/api/auth/register", "", registerBody(moodleID, email))
	require.Equal(t, fiber.StatusCreated, status)
	token, _ := body["accessToken"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterEndpoint(t *testing.T) {
	f := newTestFixture()
	app := setupApp(f)

	status, body := doJSON(t, app, "POST", "/api/auth/register", "", registerBody("21106024", "asha@example.com"))
	require.Equal(t, fiber.StatusCreated, status)
	assert.NotEmpty(t, body["accessToken"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Asha Patil", user["displayName"])
	assert.NotContains(t, user, "password", "the hash never leaves the server")

	// Duplicate moodle ID.
	status, body = doJSON(t, app, "POST", "/api/auth/register", "", registerBody("21106024", "other@example.com"))
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, models.CodeConflict, body["code"])

	// Missing required field.
	incomplete := registerBody("21106099", "new@example.com")
	delete(incomplete, "password")
	status, _ = doJSON(t, app, "POST", "/api/auth/register", "", incomplete)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestLoginEndpoint(t *testing.T) {
	f := newTestFixture()
	app := setupApp(f)
	registerAndLogin(t, app, "21106024", "asha@example.com")

	status, body := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"moodleId": "21106024",
		"password": "hunter2hunter2",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["accessToken"])

	status, body = doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"moodleId": "21106024",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, models.CodeInvalidCredentials, body["code"])

	status, body = doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
		"moodleId": "00000000",
		"password": "hunter2hunter2",
	})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, models.CodeNotFound, body["code"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newTestFixture()
	app := setupApp(f)

	status, body := doJSON(t, app, "GET", "/api/posts", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, models.CodeAuthMissing, body["code"])
}

func TestCreateAndFetchPost(t *testing.T) {
	f := newTestFixture()
	app := setupApp(f)
	token := registerAndLogin(t, app, "21106024", "asha@example.com")

	status, body := doJSON(t, app, "POST", "/api/posts", token, map[string]any{
		"title":       "Internship experiences",
		"description": "A writeup of my summer",
		"content":     "It went well.",
		"publish":     true,
	})
	require.Equal(t, fiber.StatusCreated, status)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)

	status, body = doJSON(t, app, "GET", "/api/posts/"+id, token, nil)
	require.Equal(t, fiber.StatusOK, status)
	post, ok := body["post"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Internship experiences", post["title"])

	author, ok := post["author"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Asha Patil", author["displayName"])

	status, body = doJSON(t, app, "GET", "/api/posts", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	posts, ok := body["posts"].([]any)
	require.True(t, ok)
	assert.Len(t, posts, 1)
}

func TestListPostsProjectionAndOrder(t *testing.T) {
	f := newTestFixture()
	app := setupApp(f)
	token := registerAndLogin(t, app, "21106024", "asha@example.com")

	_, _ = doJSON(t, app, "POST", "/api/posts", token, map[string]any{
		"title":       "older post",
		"description": "d1",
		"content":     "full body one",
		"cover":       "https://img.example.com/one.png",
	})
	_, _ = doJSON(t, app, "POST", "/api/posts", token, map[string]any{
		"title":       "newer post",
		"description": "d2",
		"content":     "full body two",
	})

	status, body := doJSON(t, app, "GET", "/api/posts", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	posts, ok := body["posts"].([]any)
	require.True(t, ok)
	require.Len(t, posts, 2)

	first := posts[0].(map[string]any)
	second := posts[1].(map[string]any)
	assert.Equal(t, "newer post", first["title"], "listing is newest-first")
	assert.Equal(t, "older post", second["title"])

	// Heavy and sensitive fields are elided from listings.
	for _, post := range []map[string]any{first, second} {
		assert.NotContains(t, post, "content")
		assert.NotContains(t, post, "cover")
		assert.Nil(t, post["comments"])

		author, ok := post["author"].(map[string]any)
		require.True(t, ok)
		assert.NotContains(t, author, "moodleId")
		assert.NotContains(t, author, "avatarUrl")
		assert.Equal(t, "Asha Patil", author["displayName"])
	}
}

func TestCreatePostRejectedEndpoint(t *testing.T) {
	f := newTestFixture()
	app := setupApp(f)
	token := registerAndLogin(t, app, "21106024", "asha@example.com")

	status, body := doJSON(t, app, "POST", "/api/posts", token, map[string]any{
		"title":       "ok title",
		"description": "ok description",
		"content":     "this is banned content",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, models.CodeContentRejected, body["code"])
	assert.Equal(t, 1, f.quarantine.Count())

	status, respBody := doJSON(t, app, "GET", "/api/posts", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	posts, _ := respBody["posts"].([]any)
	assert.Empty(t, posts, "rejected submission never reaches the post store")
}

func TestGetPostInvalidID(t *testing.T) {
	f := newTestFixture()
	app := setupApp(f)
	token := registerAndLogin(t, app, "21106024", "asha@example.com")

	status, body := doJSON(t, app, "GET", "/api/posts/not-a-hex-id", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, models.CodeValidation, body["code"])

	status, body = doJSON(t, app, "GET", "/api/posts/64b000000000000000000000", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, models.CodeNotFound, body["code"])
}

func TestCommentEndpoint(t *testing.T) {
	f := newTestFixture()
	app := setupApp(f)
	token := registerAndLogin(t, app, "21106024", "asha@example.com")

	_, created := doJSON(t, app, "POST", "/api/posts", token, map[string]any{
		"title":       "t",
		"description": "d",
		"content":     "c",
	})
	id := created["id"].(string)

	status, body := doJSON(t, app, "POST", "/api/posts/"+id+"/comments", token, map[string]string{
		"message": "nice writeup",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), body["totalComments"])

	status, body = doJSON(t, app, "POST", "/api/posts/"+id+"/comments", token, map[string]string{
		"message": "banned remark",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, models.CodeContentRejected, body["code"])
	assert.Equal(t, 1, f.quarantine.Count())
}

func TestLikeToggleEndpoint(t *testing.T) {
	f := newTestFixture()
	app := setupApp(f)
	token := registerAndLogin(t, app, "21106024", "asha@example.com")

	_, created := doJSON(t, app, "POST", "/api/posts", token, map[string]any{
		"title":       "t",
		"description": "d",
		"content":     "c",
	})
	id := created["id"].(string)

	status, body := doJSON(t, app, "POST", "/api/posts/"+id+"/like", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, service.LikeOutcomeLiked, body["status"])
	assert.Equal(t, float64(1), body["likes"])

	status, body = doJSON(t, app, "POST", "/api/posts/"+id+"/like", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, service.LikeOutcomeUnliked, body["status"])
	assert.Equal(t, float64(0), body["likes"])
}

func TestBookmarkToggleEndpoint(t *testing.T) {
	f := newTestFixture()
	app := setupApp(f)
	token := registerAndLogin(t, app, "21106024", "asha@example.com")

	// Bookmarks are loosely coupled to posts; any well-formed ID is accepted.
	id := "64b000000000000000000000"

	status, body := doJSON(t, app, "POST", "/api/posts/"+id+"/bookmark", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, service.BookmarkOutcomeAdded, body["status"])

	status, body = doJSON(t, app, "POST", "/api/posts/"+id+"/bookmark", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, service.BookmarkOutcomeRemoved, body["status"])
}

func TestCurrentUserEndpoints(t *testing.T) {
	f := newTestFixture()
	app := setupApp(f)
	token := registerAndLogin(t, app, "21106024", "asha@example.com")

	status, body := doJSON(t, app, "GET", "/api/users/me", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	user, _ := body["user"].(map[string]any)
	assert.Equal(t, "21106024", user["moodleId"])

	status, _ = doJSON(t, app, "PUT", "/api/users/me", token, map[string]string{
		"lastName": "Deshmukh",
	})
	require.Equal(t, fiber.StatusOK, status)

	status, body = doJSON(t, app, "GET", "/api/users/me", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	user, _ = body["user"].(map[string]any)
	assert.Equal(t, "Asha Deshmukh", user["displayName"])

	status, _ = doJSON(t, app, "DELETE", "/api/users/me", token, nil)
	require.Equal(t, fiber.StatusNoContent, status)

	// The token still verifies, but the record is gone.
	status, body = doJSON(t, app, "GET", "/api/users/me", token, nil)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, models.CodeAuthUnknownUser, body["code"])
}

func TestUserPostsEndpoint(t *testing.T) {
	f := newTestFixture()
	app := setupApp(f)
	tokenA := registerAndLogin(t, app, "21106024", "asha@example.com")
	tokenB := registerAndLogin(t, app, "21106050", "rohan@example.com")

	_, _ = doJSON(t, app, "POST", "/api/posts", tokenA, map[string]any{
		"title": "t", "description": "d", "content": "c",
	})
	_, _ = doJSON(t, app, "POST", "/api/posts", tokenB, map[string]any{
		"title": "t2", "description": "d2", "content": "c2",
	})

	status, body := doJSON(t, app, "GET", "/api/users/21106024/posts", tokenB, nil)
	require.Equal(t, fiber.StatusOK, status)
	posts, _ := body["posts"].([]any)
	require.Len(t, posts, 1)
	post := posts[0].(map[string]any)
	assert.Equal(t, "t", post["title"])
}

func TestInternshipsEndpoint(t *testing.T) {
	f := newTestFixture()
	f.internships.Listings = []models.Internship{
		{Domain: "web development", Company: "Acme", Role: "Frontend Intern", PostedAt: time.Now()},
		{Domain: "machine learning", Company: "Globex", Role: "ML Intern", PostedAt: time.Now()},
	}
	app := setupApp(f)
	token := registerAndLogin(t, app, "21106024", "asha@example.com")

	status, body := doJSON(t, app, "GET", "/api/internships", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, models.CodeValidation, body["code"])

	status, body = doJSON(t, app, "GET", "/api/internships?domain=web+development", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	listings, _ := body["internships"].([]any)
	require.Len(t, listings, 1)
	listing := listings[0].(map[string]any)
	assert.Equal(t, "Acme", listing["company"])
}

func TestPublicEndpoints(t *testing.T) {
	f := newTestFixture()
	app := setupApp(f)

	req := httptest.NewRequest("GET", "/", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	status, body := doJSON(t, app, "GET", "/health", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "disabled", body["cache"], "no Redis client in the test fixture")
}

func TestEditAndDeletePostEndpoints(t *testing.T) {
	f := newTestFixture()
	app := setupApp(f)
	token := registerAndLogin(t, app, "21106024", "asha@example.com")

	_, created := doJSON(t, app, "POST", "/api/posts", token, map[string]any{
		"title": "t", "description": "d", "content": "c",
	})
	id := created["id"].(string)

	status, _ := doJSON(t, app, "PUT", "/api/posts/"+id, token, map[string]any{
		"title": "t2", "description": "d2", "content": "c2",
	})
	require.Equal(t, fiber.StatusOK, status)

	status, body := doJSON(t, app, "GET", "/api/posts/"+id, token, nil)
	require.Equal(t, fiber.StatusOK, status)
	post, _ := body["post"].(map[string]any)
	assert.Equal(t, "t2", post["title"])

	status, _ = doJSON(t, app, "DELETE", "/api/posts/"+id, token, nil)
	require.Equal(t, fiber.StatusNoContent, status)

	status, _ = doJSON(t, app, "GET", "/api/posts/"+id, token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
