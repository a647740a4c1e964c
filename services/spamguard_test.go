package services

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"property-reviews-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRateLimitSlidingWindow(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "busy@example.com")
	properties := make([]*models.Property, 0, 4)
	for i := 0; i < 4; i++ {
		properties = append(properties, createTestProperty(t, db, nil))
	}

	for i := 0; i < 3; i++ {
		content := fmt.Sprintf("Review number %d with enough distinct detail about plumbing and parking to pass the checks.", i)
		require.NoError(t, CheckReviewAllowed(db, user.ID, properties[i].ID, content))
		review := models.Review{PropertyID: properties[i].ID, UserID: &user.ID, Rating: 3, Content: content, IsApproved: true}
		require.NoError(t, db.Create(&review).Error)
	}

	// Fourth within the hour trips the limit.
	err := CheckReviewAllowed(db, user.ID, properties[3].ID, "A fourth distinct review about the elevator being broken for three weeks straight.")
	assert.ErrorIs(t, err, ErrRateLimited)

	// Age the oldest review past the window; the window slides open again.
	cutoff := time.Now().Add(-61 * time.Minute)
	require.NoError(t, db.Model(&models.Review{}).
		Where("property_id = ?", properties[0].ID).
		Update("created_at", cutoff).Error)

	err = CheckReviewAllowed(db, user.ID, properties[3].ID, "A fourth distinct review about the elevator being broken for three weeks straight.")
	assert.NoError(t, err)
}

func TestReplyRateLimit(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "chatty@example.com")
	author := createTestUser(t, db, "author@example.com")
	property := createTestProperty(t, db, nil)
	review := createTestReview(t, db, property.ID, &author.ID, 4)

	for i := 0; i < 5; i++ {
		require.NoError(t, CheckReplyAllowed(db, user.ID))
		reply := models.Reply{ReviewID: review.ID, UserID: &user.ID, Content: fmt.Sprintf("Reply number %d here.", i), IsApproved: true}
		require.NoError(t, db.Create(&reply).Error)
	}

	assert.ErrorIs(t, CheckReplyAllowed(db, user.ID), ErrRateLimited)
}

func TestNearDuplicateAcrossProperties(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "copier@example.com")
	first := createTestProperty(t, db, nil)
	second := createTestProperty(t, db, nil)

	content := "This landlord never fixes anything and the heating has been broken since November without any response."
	review := models.Review{PropertyID: first.ID, UserID: &user.ID, Rating: 1, Content: content, IsApproved: true}
	require.NoError(t, db.Create(&review).Error)

	// Same leading text on a different property is near-duplicate.
	err := CheckReviewAllowed(db, user.ID, second.ID, content+" Also the parking lot floods.")
	assert.ErrorIs(t, err, ErrDuplicateContent)

	// Different content passes.
	err = CheckReviewAllowed(db, user.ID, second.ID, "Completely different experience here, responsive management and quiet neighbors throughout my lease.")
	assert.NoError(t, err)

	// Another author posting the same text is fine.
	other := createTestUser(t, db, "other@example.com")
	err = CheckReviewAllowed(db, other.ID, second.ID, content)
	assert.NoError(t, err)

	// Outside the trailing day the match no longer counts.
	old := time.Now().Add(-25 * time.Hour)
	require.NoError(t, db.Model(&review).Update("created_at", old).Error)
	err = CheckReviewAllowed(db, user.ID, second.ID, content+" Still no heat.")
	assert.NoError(t, err)
}

func TestDuplicateReportedBeforeRateLimit(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "busy@example.com")
	properties := make([]*models.Property, 0, 3)
	for i := 0; i < 3; i++ {
		properties = append(properties, createTestProperty(t, db, nil))
	}

	for i := 0; i < 3; i++ {
		content := fmt.Sprintf("Review %d with its own angle on the courtyard, the mail room and the bike storage.", i)
		review := models.Review{PropertyID: properties[i].ID, UserID: &user.ID, Rating: 3, Content: content, IsApproved: true}
		require.NoError(t, db.Create(&review).Error)
	}

	// The author is now rate limited, but re-submitting on an already
	// reviewed property must still surface as a duplicate.
	err := CheckReviewAllowed(db, user.ID, properties[0].ID, "Trying to post a second take on the same building after thinking it over.")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestNearDuplicatePrefixHandlesMultibyteContent(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "unicode@example.com")
	property := createTestProperty(t, db, nil)

	// Accented characters straddling the prefix boundary must not produce
	// an invalid UTF-8 pattern.
	content := strings.Repeat("é", 49) + "été chaud dans cet appartement sans climatisation fiable"
	err := CheckReviewAllowed(db, user.ID, property.ID, content)
	assert.NoError(t, err)
}

func TestLooksLikePersonalAttack(t *testing.T) {
	setupTestDB(t)

	assert.True(t, LooksLikePersonalAttack("The landlord is an idiot and should be ashamed."))
	assert.True(t, LooksLikePersonalAttack("you you your you're you've you'll you are awful"))
	assert.False(t, LooksLikePersonalAttack("The unit was clean, the lease terms were clear and maintenance responded within a day."))
}

func TestAutoTitle(t *testing.T) {
	assert.Equal(t, "", AutoTitle("   "))
	assert.Equal(t, "Short and sweet", AutoTitle("Short and sweet"))

	long := "This is a much longer piece of review content that keeps going well past fifty characters."
	title := AutoTitle(long)
	assert.Equal(t, long[:50]+"...", title)

	// Truncation must never split a multibyte character.
	accented := strings.Repeat("é", 49) + "été chaud dans cet appartement sans climatisation"
	accentedTitle := AutoTitle(accented)
	assert.True(t, utf8.ValidString(accentedTitle))
	assert.Equal(t, 53, utf8.RuneCountInString(accentedTitle))
	assert.Equal(t, string([]rune(accented)[:50])+"...", accentedTitle)
}
