package routes

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"property-reviews-server/models"
	"property-reviews-server/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedVerification(t *testing.T, userID uint, code string, expiresAt time.Time) *models.EmailVerification {
	t.Helper()
	verification := models.EmailVerification{UserID: userID, Code: code, ExpiresAt: expiresAt}
	require.NoError(t, storage.DB.Create(&verification).Error)
	return &verification
}

func TestVerifyEmailFlow(t *testing.T) {
	app := buildTestApp(t)

	user := createRouteTestUser(t, "newuser@example.com", models.RoleUser)
	seedVerification(t, user.ID, "482913", time.Now().Add(30*time.Minute))

	// Wrong code bounces.
	resp := postJSON(app, http.MethodPost, "/api/user/verify-email", "",
		`{"email": "newuser@example.com", "code": "000000"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Right code verifies.
	resp = postJSON(app, http.MethodPost, "/api/user/verify-email", "",
		`{"email": "newuser@example.com", "code": "482913"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	require.NoError(t, storage.DB.First(user, user.ID).Error)
	assert.True(t, user.EmailVerified)
}

func TestVerifyEmailRejectsExpiredAndUsedCodes(t *testing.T) {
	app := buildTestApp(t)

	expired := createRouteTestUser(t, "expired@example.com", models.RoleUser)
	seedVerification(t, expired.ID, "111222", time.Now().Add(-time.Minute))

	resp := postJSON(app, http.MethodPost, "/api/user/verify-email", "",
		`{"email": "expired@example.com", "code": "111222"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	used := createRouteTestUser(t, "used@example.com", models.RoleUser)
	verification := seedVerification(t, used.ID, "333444", time.Now().Add(30*time.Minute))
	require.NoError(t, storage.DB.Model(verification).Update("is_used", true).Error)

	resp = postJSON(app, http.MethodPost, "/api/user/verify-email", "",
		fmt.Sprintf(`{"email": "used@example.com", "code": "%s"}`, "333444"))
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	require.NoError(t, storage.DB.First(used, used.ID).Error)
	assert.False(t, used.EmailVerified)
}
