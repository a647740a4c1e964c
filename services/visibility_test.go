package services

import (
	"testing"

	"property-reviews-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuspendedAuthorHidesReviews(t *testing.T) {
	db := setupTestDB(t)

	author := createTestUser(t, db, "author@example.com")
	other := createTestUser(t, db, "other@example.com")
	property := createTestProperty(t, db, nil)

	createTestReview(t, db, property.ID, &author.ID, 4)
	createTestReview(t, db, property.ID, &other.ID, 2)

	anonymous := Viewer{}
	var visible []models.Review
	require.NoError(t, VisibleReviews(db, anonymous).Find(&visible).Error)
	assert.Len(t, visible, 2)

	require.NoError(t, SuspendUser(db, author))

	visible = nil
	require.NoError(t, VisibleReviews(db, anonymous).Find(&visible).Error)
	require.Len(t, visible, 1)
	assert.Equal(t, other.ID, *visible[0].UserID)

	// Staff still see everything.
	staff := Viewer{ID: 99, Staff: true, Authenticated: true}
	visible = nil
	require.NoError(t, VisibleReviews(db, staff).Find(&visible).Error)
	assert.Len(t, visible, 2)

	// Lifting the suspension restores visibility.
	require.NoError(t, SuspendUser(db, author))
	visible = nil
	require.NoError(t, VisibleReviews(db, anonymous).Find(&visible).Error)
	assert.Len(t, visible, 2)
}

func TestNullAuthorContentStaysVisible(t *testing.T) {
	db := setupTestDB(t)

	property := createTestProperty(t, db, nil)
	createTestReview(t, db, property.ID, nil, 3)

	var visible []models.Review
	require.NoError(t, VisibleReviews(db, Viewer{}).Find(&visible).Error)
	assert.Len(t, visible, 1)
}

func TestRejectedReviewVisibleOnlyToAuthorAndStaff(t *testing.T) {
	db := setupTestDB(t)

	author := createTestUser(t, db, "author@example.com")
	property := createTestProperty(t, db, nil)
	review := createTestReview(t, db, property.ID, &author.ID, 1)

	require.NoError(t, SetReviewApproval(db, review.ID, false))

	var visible []models.Review
	require.NoError(t, VisibleReviews(db, Viewer{}).Find(&visible).Error)
	assert.Empty(t, visible)

	asAuthor := Viewer{ID: author.ID, Authenticated: true}
	visible = nil
	require.NoError(t, VisibleReviews(db, asAuthor).Find(&visible).Error)
	assert.Len(t, visible, 1)

	otherViewer := Viewer{ID: author.ID + 1, Authenticated: true}
	visible = nil
	require.NoError(t, VisibleReviews(db, otherViewer).Find(&visible).Error)
	assert.Empty(t, visible)

	require.NoError(t, db.First(review, review.ID).Error)
	assert.True(t, ReviewVisibleTo(db, review, Viewer{ID: author.ID, Authenticated: true}))
	assert.False(t, ReviewVisibleTo(db, review, Viewer{}))
	assert.True(t, ReviewVisibleTo(db, review, Viewer{Staff: true}))
}

func TestRatingSummaryTracksVisibleScope(t *testing.T) {
	db := setupTestDB(t)

	a := createTestUser(t, db, "a@example.com")
	b := createTestUser(t, db, "b@example.com")
	property := createTestProperty(t, db, nil)

	createTestReview(t, db, property.ID, &a.ID, 5)
	createTestReview(t, db, property.ID, &b.ID, 1)

	summary, err := PropertyRatingSummary(db, property.ID, Viewer{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.ReviewCount)
	assert.InDelta(t, 3.0, summary.AverageRating, 0.001)
	assert.Equal(t, 1, summary.Distribution[5])
	assert.Equal(t, 1, summary.Distribution[1])

	// Suspending one author moves the aggregate immediately.
	require.NoError(t, SuspendUser(db, b))

	summary, err = PropertyRatingSummary(db, property.ID, Viewer{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.ReviewCount)
	assert.InDelta(t, 5.0, summary.AverageRating, 0.001)

	// Staff aggregates still cover everything.
	summary, err = PropertyRatingSummary(db, property.ID, Viewer{Staff: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.ReviewCount)
}

func TestSuspendedOwnerHidesProperty(t *testing.T) {
	db := setupTestDB(t)

	owner := createTestUser(t, db, "owner@example.com")
	property := createTestProperty(t, db, &owner.ID)
	orphan := createTestProperty(t, db, nil)

	var visible []models.Property
	require.NoError(t, VisibleProperties(db, Viewer{}).Find(&visible).Error)
	assert.Len(t, visible, 2)

	require.NoError(t, SuspendUser(db, owner))

	visible = nil
	require.NoError(t, VisibleProperties(db, Viewer{}).Find(&visible).Error)
	require.Len(t, visible, 1)
	assert.Equal(t, orphan.ID, visible[0].ID)

	visible = nil
	require.NoError(t, VisibleProperties(db, Viewer{Staff: true}).Find(&visible).Error)
	assert.Len(t, visible, 2)

	require.NoError(t, db.First(property, property.ID).Error)
	assert.False(t, PropertyVisibleTo(db, property, Viewer{}))
	assert.True(t, PropertyVisibleTo(db, property, Viewer{Staff: true}))
	assert.True(t, PropertyVisibleTo(db, orphan, Viewer{}))
}

func TestVisibleRepliesFilterSuspendedAuthors(t *testing.T) {
	db := setupTestDB(t)

	author := createTestUser(t, db, "author@example.com")
	replier := createTestUser(t, db, "replier@example.com")
	property := createTestProperty(t, db, nil)
	review := createTestReview(t, db, property.ID, &author.ID, 4)

	reply := models.Reply{ReviewID: review.ID, UserID: &replier.ID, Content: "Agreed about the radiator.", IsApproved: true}
	require.NoError(t, db.Create(&reply).Error)

	var visible []models.Reply
	require.NoError(t, VisibleReplies(db, Viewer{}).Find(&visible).Error)
	assert.Len(t, visible, 1)

	require.NoError(t, SuspendUser(db, replier))

	visible = nil
	require.NoError(t, VisibleReplies(db, Viewer{}).Find(&visible).Error)
	assert.Empty(t, visible)
}
