package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"campuslink/internal/auth"
	"campuslink/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUserRepo serves a single fixed user by moodle ID.
type stubUserRepo struct {
	user *models.User
	err  error
}

func (r *stubUserRepo) GetByMoodleID(_ context.Context, moodleID string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.user != nil && r.user.MoodleID == moodleID {
		return r.user, nil
	}
	return nil, nil
}

func (r *stubUserRepo) GetByEmail(context.Context, string) (*models.User, error) { return nil, nil }
func (r *stubUserRepo) Create(context.Context, *models.User) error              { return nil }
func (r *stubUserRepo) UpdateProfile(context.Context, string, models.ProfileUpdate) error {
	return nil
}
func (r *stubUserRepo) Delete(context.Context, string) error                 { return nil }
func (r *stubUserRepo) AddBookmark(context.Context, string, string) error    { return nil }
func (r *stubUserRepo) RemoveBookmark(context.Context, string, string) error { return nil }

func setupAuthApp(authn *auth.Authenticator, repo *stubUserRepo) *fiber.App {
	app := fiber.New()
	app.Get("/protected", RequireAuth(authn, repo), func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		return c.JSON(fiber.Map{"moodleId": user.MoodleID})
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	authn := auth.New("test-secret-key")
	knownUser := &models.User{MoodleID: "21106024", DisplayName: "Asha Patil"}

	validToken, err := authn.Issue("21106024", time.Hour)
	require.NoError(t, err)
	expiredToken, err := authn.Issue("21106024", -time.Minute)
	require.NoError(t, err)
	orphanToken, err := authn.Issue("99999999", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		repo           *stubUserRepo
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "missing header",
			header:         "",
			repo:           &stubUserRepo{user: knownUser},
			expectedStatus: fiber.StatusUnauthorized,
			expectedCode:   models.CodeAuthMissing,
		},
		{
			name:           "malformed header",
			header:         "Token " + validToken,
			repo:           &stubUserRepo{user: knownUser},
			expectedStatus: fiber.StatusUnauthorized,
			expectedCode:   models.CodeAuthInvalid,
		},
		{
			name:           "invalid token",
			header:         "Bearer not-a-token",
			repo:           &stubUserRepo{user: knownUser},
			expectedStatus: fiber.StatusUnauthorized,
			expectedCode:   models.CodeAuthInvalid,
		},
		{
			name:           "expired token",
			header:         "Bearer " + expiredToken,
			repo:           &stubUserRepo{user: knownUser},
			expectedStatus: fiber.StatusUnauthorized,
			expectedCode:   models.CodeAuthExpired,
		},
		{
			name:           "valid token for deleted user",
			header:         "Bearer " + orphanToken,
			repo:           &stubUserRepo{user: knownUser},
			expectedStatus: fiber.StatusInternalServerError,
			expectedCode:   models.CodeAuthUnknownUser,
		},
		{
			name:           "credential store failure",
			header:         "Bearer " + validToken,
			repo:           &stubUserRepo{err: errors.New("store down")},
			expectedStatus: fiber.StatusInternalServerError,
			expectedCode:   models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupAuthApp(authn, tt.repo)

			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body models.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.expectedCode, body.Code)
		})
	}
}

func TestRequireAuthSuccess(t *testing.T) {
	authn := auth.New("test-secret-key")
	repo := &stubUserRepo{user: &models.User{MoodleID: "21106024"}}
	app := setupAuthApp(authn, repo)

	token, err := authn.Issue("21106024", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "21106024", body["moodleId"])
}
