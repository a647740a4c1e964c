package routes

import (
	"fmt"
	"net/http"
	"testing"

	"property-reviews-server/models"
	"property-reviews-server/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaffRBAC(t *testing.T) {
	app := buildTestApp(t)

	user := createRouteTestUser(t, "user@example.com", models.RoleUser)
	staff := createRouteTestUser(t, "staff@example.com", models.RoleStaff)

	// No token.
	resp := postJSON(app, http.MethodGet, "/api/staff/dashboard", "", "")
	assert.NotEqual(t, http.StatusOK, resp.Code)

	// Regular user is forbidden.
	resp = postJSON(app, http.MethodGet, "/api/staff/dashboard", signTestToken(t, user.ID, models.RoleUser), "")
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// Staff gets the dashboard.
	resp = postJSON(app, http.MethodGet, "/api/staff/dashboard", signTestToken(t, staff.ID, models.RoleStaff), "")
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func TestResolveAndReopenReportEndpoints(t *testing.T) {
	app := buildTestApp(t)

	author := createRouteTestUser(t, "author@example.com", models.RoleUser)
	reporter := createRouteTestUser(t, "reporter@example.com", models.RoleUser)
	staff := createRouteTestUser(t, "staff@example.com", models.RoleStaff)
	property := createRouteTestProperty(t, nil)
	review := createRouteTestReview(t, property.ID, &author.ID)

	report := models.ReviewReport{ReviewID: review.ID, ReportedByID: &reporter.ID, Reason: "harassment", Description: "Targets the previous tenant by name."}
	require.NoError(t, storage.DB.Create(&report).Error)

	staffToken := signTestToken(t, staff.ID, models.RoleStaff)

	resp := postJSON(app, http.MethodPost, fmt.Sprintf("/api/staff/reports/%d/resolve", report.ID), staffToken, "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	require.NoError(t, storage.DB.First(&report, report.ID).Error)
	assert.True(t, report.IsResolved)
	require.NotNil(t, report.ResolvedByID)
	assert.Equal(t, staff.ID, *report.ResolvedByID)

	// The reporter hears about it.
	var count int64
	storage.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND type = ?", reporter.ID, models.NotificationReportResolved).
		Count(&count)
	assert.Equal(t, int64(1), count)

	// Resolution is reversible.
	resp = postJSON(app, http.MethodPost, fmt.Sprintf("/api/staff/reports/%d/reopen", report.ID), staffToken, "")
	require.Equal(t, http.StatusOK, resp.Code)

	// Re-fetch into a fresh struct: gorm leaves pointer fields untouched when
	// scanning a NULL column into a reused destination.
	reportID := report.ID
	report = models.ReviewReport{}
	require.NoError(t, storage.DB.First(&report, reportID).Error)
	assert.False(t, report.IsResolved)
	assert.Nil(t, report.ResolvedByID)
	assert.Nil(t, report.ResolvedAt)

	// Actions landed in the audit log.
	storage.DB.Model(&models.AuditLog{}).Where("resource_type = ?", "review_report").Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestModerateReviewActions(t *testing.T) {
	app := buildTestApp(t)

	author := createRouteTestUser(t, "author@example.com", models.RoleUser)
	staff := createRouteTestUser(t, "staff@example.com", models.RoleStaff)
	property := createRouteTestProperty(t, nil)
	review := createRouteTestReview(t, property.ID, &author.ID)

	require.NoError(t, storage.DB.Model(review).Updates(map[string]interface{}{
		"is_flagged":     true,
		"flagged_reason": "Reported: Spam or Advertisement",
	}).Error)

	staffToken := signTestToken(t, staff.ID, models.RoleStaff)
	path := fmt.Sprintf("/api/staff/reviews/%d/moderate", review.ID)

	// Reject hides it from the public.
	resp := postJSON(app, http.MethodPost, path, staffToken, `{"action": "reject"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.NoError(t, storage.DB.First(review, review.ID).Error)
	assert.False(t, review.IsApproved)

	// Approve restores it and clears the flag.
	resp = postJSON(app, http.MethodPost, path, staffToken, `{"action": "approve"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, storage.DB.First(review, review.ID).Error)
	assert.True(t, review.IsApproved)
	assert.False(t, review.IsFlagged)
	assert.Empty(t, review.FlaggedReason)

	// Unknown actions bounce.
	resp = postJSON(app, http.MethodPost, path, staffToken, `{"action": "shrug"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Delete cascades.
	resp = postJSON(app, http.MethodPost, path, staffToken, `{"action": "delete"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	var count int64
	storage.DB.Model(&models.Review{}).Where("id = ?", review.ID).Count(&count)
	assert.Zero(t, count)
}

func TestSuspensionGuards(t *testing.T) {
	app := buildTestApp(t)

	staff := createRouteTestUser(t, "staff@example.com", models.RoleStaff)
	otherStaff := createRouteTestUser(t, "staff2@example.com", models.RoleStaff)

	staffToken := signTestToken(t, staff.ID, models.RoleStaff)

	// Self-suspension is blocked.
	resp := postJSON(app, http.MethodPost, fmt.Sprintf("/api/staff/users/%d/suspend", staff.ID), staffToken, "")
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// Suspending other staff is blocked too.
	resp = postJSON(app, http.MethodPost, fmt.Sprintf("/api/staff/users/%d/suspend", otherStaff.ID), staffToken, "")
	assert.Equal(t, http.StatusForbidden, resp.Code)
}
